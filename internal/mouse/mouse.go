// Package mouse models the mouse state snapshots the host hands to the video
// filter: which buttons are held and whether the host flagged a double click.
//
// A State is compared against the previous State of the same surface to find
// button transitions:
//
//	if mouse.HasPressed(old, cur, mouse.ButtonLeft) {
//	    // left button went down in this event
//	}
//
// Snapshots are values; they are never shared between events.
package mouse

import (
	"fmt"
	"strings"
)

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone is the "no button" sentinel used by unbound actions.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button (wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonWheelUp indicates scroll wheel up.
	ButtonWheelUp
	// ButtonWheelDown indicates scroll wheel down.
	ButtonWheelDown
	// ButtonWheelLeft indicates horizontal scroll left.
	ButtonWheelLeft
	// ButtonWheelRight indicates horizontal scroll right.
	ButtonWheelRight

	buttonCount
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonWheelUp:
		return "wheel-up"
	case ButtonWheelDown:
		return "wheel-down"
	case ButtonWheelLeft:
		return "wheel-left"
	case ButtonWheelRight:
		return "wheel-right"
	default:
		return "none"
	}
}

// Label returns the human-readable name shown in preference lists.
func (b Button) Label() string {
	switch b {
	case ButtonLeft:
		return "Left Button"
	case ButtonMiddle:
		return "Middle Button"
	case ButtonRight:
		return "Right Button"
	case ButtonWheelUp:
		return "Scroll Up"
	case ButtonWheelDown:
		return "Scroll Down"
	case ButtonWheelLeft:
		return "Scroll Left"
	case ButtonWheelRight:
		return "Scroll Right"
	default:
		return "None"
	}
}

// IsWheel returns true if this is a scroll wheel button.
func (b Button) IsWheel() bool {
	return b == ButtonWheelUp || b == ButtonWheelDown ||
		b == ButtonWheelLeft || b == ButtonWheelRight
}

// Valid reports whether b is a real button (not the none sentinel).
func (b Button) Valid() bool {
	return b > ButtonNone && b < buttonCount
}

// Buttons returns every real button in index order.
func Buttons() []Button {
	out := make([]Button, 0, buttonCount-1)
	for b := ButtonLeft; b < buttonCount; b++ {
		out = append(out, b)
	}
	return out
}

// ButtonFromIndex maps a configuration index to a button. Index 0 is the
// none sentinel; indices 1 through 7 follow the Button constants. ok is false
// for anything outside that domain.
func ButtonFromIndex(i int64) (Button, bool) {
	if i < 0 || i >= int64(buttonCount) {
		return ButtonNone, false
	}
	return Button(i), true
}

// Index returns the configuration index of b.
func (b Button) Index() int64 {
	return int64(b)
}

// ParseButton parses a button name as produced by String. It also accepts the
// labels shown in preference lists and a few common aliases.
func ParseButton(name string) (Button, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, " button")
	n = strings.ReplaceAll(n, " ", "-")
	n = strings.ReplaceAll(n, "_", "-")
	n = strings.Replace(n, "scroll-", "wheel-", 1)

	switch n {
	case "none", "":
		return ButtonNone, nil
	case "left", "primary":
		return ButtonLeft, nil
	case "middle", "center", "centre":
		return ButtonMiddle, nil
	case "right", "secondary":
		return ButtonRight, nil
	case "wheel-up", "up":
		return ButtonWheelUp, nil
	case "wheel-down", "down":
		return ButtonWheelDown, nil
	case "wheel-left":
		return ButtonWheelLeft, nil
	case "wheel-right":
		return ButtonWheelRight, nil
	}
	return ButtonNone, fmt.Errorf("unknown mouse button %q", name)
}

// Mask is a bitset over buttons.
type Mask uint16

// MaskOf returns the mask with the given buttons set.
func MaskOf(buttons ...Button) Mask {
	var m Mask
	for _, b := range buttons {
		m = m.With(b)
	}
	return m
}

// Has reports whether b is set in m. ButtonNone is never set.
func (m Mask) Has(b Button) bool {
	if !b.Valid() {
		return false
	}
	return m&(1<<b) != 0
}

// With returns m with b set.
func (m Mask) With(b Button) Mask {
	if !b.Valid() {
		return m
	}
	return m | 1<<b
}

// Without returns m with b cleared.
func (m Mask) Without(b Button) Mask {
	if !b.Valid() {
		return m
	}
	return m &^ (1 << b)
}

// String lists the set buttons, e.g. "left|right".
func (m Mask) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, b := range Buttons() {
		if m.Has(b) {
			parts = append(parts, b.String())
		}
	}
	return strings.Join(parts, "|")
}

// State is one mouse snapshot as delivered by the host.
type State struct {
	// Pressed holds the buttons currently down.
	Pressed Mask

	// DoubleClick is the host's native double-click flag.
	DoubleClick bool
}

// IsPressed reports whether b is held in s.
func (s State) IsPressed(b Button) bool {
	return s.Pressed.Has(b)
}

// SetPressed marks b as held.
func (s *State) SetPressed(b Button) {
	s.Pressed = s.Pressed.With(b)
}

// ClearPressed marks b as released.
func (s *State) ClearPressed(b Button) {
	s.Pressed = s.Pressed.Without(b)
}

// Idle reports whether no button is held and no double click is flagged.
func (s State) Idle() bool {
	return s.Pressed == 0 && !s.DoubleClick
}

// String renders the snapshot for debug logs.
func (s State) String() string {
	return fmt.Sprintf("pressed=%s double_click=%t", s.Pressed, s.DoubleClick)
}

// HasPressed reports whether b went from released in old to held in cur.
func HasPressed(old, cur State, b Button) bool {
	return !old.IsPressed(b) && cur.IsPressed(b)
}

// HasReleased reports whether b went from held in old to released in cur.
func HasReleased(old, cur State, b Button) bool {
	return old.IsPressed(b) && !cur.IsPressed(b)
}

// Transition classifies the change between two snapshots for logging.
type Transition uint8

const (
	// TransitionMoved means no button changed and none is held.
	TransitionMoved Transition = iota
	// TransitionPressed means at least one more button is held.
	TransitionPressed
	// TransitionReleased means fewer buttons are held.
	TransitionReleased
	// TransitionDragged means the held set is unchanged and non-empty.
	TransitionDragged
	// TransitionDoubleClick means the host flagged a double click.
	TransitionDoubleClick
)

// String returns the log label of the transition.
func (t Transition) String() string {
	switch t {
	case TransitionPressed:
		return "PRESSED"
	case TransitionReleased:
		return "RELEASED"
	case TransitionDragged:
		return "DRAGGED"
	case TransitionDoubleClick:
		return "DOUBLE CLICK"
	default:
		return "MOVED"
	}
}

// Classify returns the transition from old to cur.
func Classify(old, cur State) Transition {
	switch {
	case cur.DoubleClick:
		return TransitionDoubleClick
	case old.Pressed < cur.Pressed:
		return TransitionPressed
	case old.Pressed > cur.Pressed:
		return TransitionReleased
	case cur.Pressed != 0:
		return TransitionDragged
	default:
		return TransitionMoved
	}
}
