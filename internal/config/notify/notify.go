// Package notify provides change notification for configuration updates.
//
// Components subscribe to setting changes and receive a callback whenever a
// resolved value moves, whichever layer caused it.
package notify

import (
	"sync"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates an override was removed.
	ChangeDelete

	// ChangeReload indicates a whole layer was replaced.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a configuration change event.
type Change struct {
	// Key is the setting key. Empty for reload events.
	Key string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous resolved value (may be nil).
	OldValue any

	// NewValue is the new resolved value.
	NewValue any

	// Source names the layer the change came from ("file", "env", ...).
	Source string
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages configuration change subscriptions. Delivery is
// synchronous, on the goroutine that made the change.
type Notifier struct {
	mu sync.RWMutex

	global map[uint64]Observer
	byKey  map[string]map[uint64]Observer

	nextID uint64
	closed bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{
		global: make(map[uint64]Observer),
		byKey:  make(map[string]map[uint64]Observer),
	}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.global[id] = observer
	return &Subscription{id: id, notifier: n}
}

// SubscribeKey registers an observer for one setting. Reload events are
// delivered to key observers as well.
func (n *Notifier) SubscribeKey(key string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	if n.byKey[key] == nil {
		n.byKey[key] = make(map[uint64]Observer)
	}
	n.byKey[key][id] = observer
	return &Subscription{id: id, notifier: n}
}

// Notify sends a change notification to all relevant observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}

	var observers []Observer
	for _, obs := range n.global {
		observers = append(observers, obs)
	}
	if change.Key != "" {
		for _, obs := range n.byKey[change.Key] {
			observers = append(observers, obs)
		}
	} else {
		for _, keyObs := range n.byKey {
			for _, obs := range keyObs {
				observers = append(observers, obs)
			}
		}
	}
	n.mu.RUnlock()

	// Call observers outside the lock so they may read the store.
	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet is a convenience method for set changes.
func (n *Notifier) NotifySet(key string, oldValue, newValue any, source string) {
	n.Notify(Change{Key: key, Type: ChangeSet, OldValue: oldValue, NewValue: newValue, Source: source})
}

// NotifyDelete is a convenience method for delete changes.
func (n *Notifier) NotifyDelete(key string, oldValue, newValue any, source string) {
	n.Notify(Change{Key: key, Type: ChangeDelete, OldValue: oldValue, NewValue: newValue, Source: source})
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// Close stops delivery. It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.global, id)
	for key, observers := range n.byKey {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.byKey, key)
		}
	}
}

// Batch collects multiple changes and delivers them as a group.
type Batch struct {
	notifier *Notifier
	mu       sync.Mutex
	changes  []Change
}

// NewBatch creates a new batch for collecting changes.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{notifier: n}
}

// Add adds a change to the batch.
func (b *Batch) Add(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, change)
}

// Set adds a set change to the batch.
func (b *Batch) Set(key string, oldValue, newValue any, source string) {
	b.Add(Change{Key: key, Type: ChangeSet, OldValue: oldValue, NewValue: newValue, Source: source})
}

// Commit sends all batched changes to observers.
func (b *Batch) Commit() {
	b.mu.Lock()
	changes := b.changes
	b.changes = nil
	b.mu.Unlock()

	for _, change := range changes {
		b.notifier.Notify(change)
	}
}

// Len returns the number of pending changes.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.changes)
}
