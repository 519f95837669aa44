package host

import "time"

// DefaultNativeInterval is the host's own double-click interval.
const DefaultNativeInterval = 300 * time.Millisecond

// DoubleClickStyle describes how the host reports a native double click.
type DoubleClickStyle uint8

const (
	// DoubleClickFlagOnly replaces the second press with an event that only
	// carries the double-click flag. The button is not reported as held.
	DoubleClickFlagOnly DoubleClickStyle = iota + 1
	// DoubleClickWithPress reports the second press and sets the flag on
	// the same event.
	DoubleClickWithPress
	// DoubleClickNone never sets the flag, as on systems where native
	// detection is missing.
	DoubleClickNone
)

// String returns a string representation of the style.
func (s DoubleClickStyle) String() string {
	switch s {
	case DoubleClickFlagOnly:
		return "flag-only"
	case DoubleClickWithPress:
		return "with-press"
	case DoubleClickNone:
		return "none"
	default:
		return "default"
	}
}

// clickTracker detects native double clicks of the left button.
type clickTracker struct {
	maxTime time.Duration

	lastTime  time.Time
	lastCount int
}

func newClickTracker(maxTime time.Duration) *clickTracker {
	return &clickTracker{maxTime: maxTime}
}

// recordClick records a press and returns the click count (1 or 2). The
// count wraps back to 1 after a double click, so a third quick press starts
// a new sequence.
func (t *clickTracker) recordClick(timestamp time.Time) int {
	if t.isPartOfSequence(timestamp) {
		t.lastCount++
		if t.lastCount > 2 {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}

	t.lastTime = timestamp
	return t.lastCount
}

// isPartOfSequence checks if a press continues the current sequence.
func (t *clickTracker) isPartOfSequence(timestamp time.Time) bool {
	if t.lastCount == 0 || t.lastTime.IsZero() {
		return false
	}

	// Clock skew starts a new sequence.
	elapsed := timestamp.Sub(t.lastTime)
	return elapsed >= 0 && elapsed <= t.maxTime
}

func (t *clickTracker) reset() {
	t.lastCount = 0
	t.lastTime = time.Time{}
}
