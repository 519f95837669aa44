// Package timer implements the deferred-decision timer: a single-shot,
// cancelable, re-armable timer whose armed flag is the only state shared
// between mouse events and the expiry callback.
//
// The timer cycles between two states:
//
//	Idle (armed=false) --Arm--> Pending (armed=true) --Cancel or fire--> Idle
//
// The flag is an atomic boolean. The expiry path clears it with a
// compare-and-swap and runs the callback only if it won, so a Cancel that
// races an expiry either suppresses the callback or arrives after it ran.
// No lock is held across a callback.
package timer

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// ErrCreate wraps scheduler failures in New.
var ErrCreate = errors.New("cannot create deferred timer")

// Timer is the deferred-decision timer. The zero value is not usable; call
// New.
type Timer struct {
	handle Handle
	fire   func()

	armed  atomic.Bool
	closed atomic.Bool
	fired  atomic.Int64
}

// New creates a timer that calls fire once per expired Arm. A scheduler
// failure is returned wrapped in ErrCreate and nothing is left allocated.
func New(s Scheduler, fire func()) (*Timer, error) {
	if s == nil || fire == nil {
		return nil, fmt.Errorf("%w: nil scheduler or callback", ErrCreate)
	}

	t := &Timer{fire: fire}
	h, err := s.NewTimer(t.expire)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreate, err)
	}
	t.handle = h
	return t, nil
}

// Arm schedules one firing d from now. Arming a pending timer replaces the
// previous schedule. Arm after Close does nothing.
func (t *Timer) Arm(d time.Duration) {
	if t.closed.Load() {
		return
	}
	t.handle.Stop()
	t.armed.Store(true)
	t.handle.Reset(d)
}

// Cancel de-schedules a pending firing. It is safe to call at any time,
// including after the timer fired or was closed.
func (t *Timer) Cancel() {
	t.armed.Store(false)
	t.handle.Stop()
}

// Disarm cancels a pending firing and reports whether one was pending.
// Exactly one of Disarm and the expiry path observes a given Arm.
func (t *Timer) Disarm() bool {
	was := t.armed.CompareAndSwap(true, false)
	t.handle.Stop()
	return was
}

// Armed reports whether a firing is pending.
func (t *Timer) Armed() bool {
	return t.armed.Load()
}

// Fired returns how many times the callback has run.
func (t *Timer) Fired() int64 {
	return t.fired.Load()
}

// Close cancels any pending firing and retires the timer.
func (t *Timer) Close() {
	t.closed.Store(true)
	t.Cancel()
}

// Closed reports whether Close was called.
func (t *Timer) Closed() bool {
	return t.closed.Load()
}

func (t *Timer) expire() {
	if !t.armed.CompareAndSwap(true, false) {
		return
	}
	t.fired.Add(1)
	t.fire()
}
