package timer

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// Handle is one reusable single-shot timer owned by a Scheduler.
type Handle interface {
	// Reset (re)schedules the callback d from now, replacing any pending
	// schedule.
	Reset(d time.Duration)
	// Stop de-schedules the callback and reports whether it was pending.
	Stop() bool
}

// Scheduler creates timer handles. The callback given to NewTimer runs on a
// scheduler-owned goroutine each time a scheduled Reset expires.
type Scheduler interface {
	NewTimer(f func()) (Handle, error)
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// RealScheduler schedules on the runtime timer service.
type RealScheduler struct{}

// NewTimer implements Scheduler.
func (RealScheduler) NewTimer(f func()) (Handle, error) {
	if f == nil {
		return nil, errors.New("nil timer callback")
	}
	return &realHandle{f: f}, nil
}

// Now implements Clock.
func (RealScheduler) Now() time.Time {
	return time.Now()
}

type realHandle struct {
	mu sync.Mutex
	f  func()
	t  *time.Timer
}

func (h *realHandle) Reset(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.t == nil {
		h.t = time.AfterFunc(d, h.f)
		return
	}
	h.t.Stop()
	h.t.Reset(d)
}

func (h *realHandle) Stop() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.t == nil {
		return false
	}
	return h.t.Stop()
}

// ManualScheduler is a virtual clock. Timers only fire inside Advance, on
// the calling goroutine, in deadline order.
type ManualScheduler struct {
	mu       sync.Mutex
	now      time.Time
	timers   []*manualHandle
	failNext error
}

// NewManualScheduler creates a virtual clock starting at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now implements Clock.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// FailNext makes the next NewTimer call return err.
func (s *ManualScheduler) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// NewTimer implements Scheduler.
func (s *ManualScheduler) NewTimer(f func()) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failNext; err != nil {
		s.failNext = nil
		return nil, err
	}
	if f == nil {
		return nil, errors.New("nil timer callback")
	}
	h := &manualHandle{s: s, f: f}
	s.timers = append(s.timers, h)
	return h, nil
}

// Pending returns how many handles are scheduled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, h := range s.timers {
		if h.active {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every timer whose deadline
// falls inside the window. Callbacks may schedule further timers; those fire
// too if they are due before the end of the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)

	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		next.active = false
		s.now = next.deadline
		s.mu.Unlock()
		next.f()
		s.mu.Lock()
	}

	if target.After(s.now) {
		s.now = target
	}
	s.mu.Unlock()
}

// nextDue returns the earliest active timer due at or before target.
// s.mu must be held.
func (s *ManualScheduler) nextDue(target time.Time) *manualHandle {
	var due []*manualHandle
	for _, h := range s.timers {
		if h.active && !h.deadline.After(target) {
			due = append(due, h)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	return due[0]
}

type manualHandle struct {
	s        *ManualScheduler
	f        func()
	deadline time.Time
	active   bool
}

func (h *manualHandle) Reset(d time.Duration) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.deadline = h.s.now.Add(d)
	h.active = true
}

func (h *manualHandle) Stop() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	was := h.active
	h.active = false
	return was
}
