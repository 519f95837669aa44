package plugin

// State represents the lifecycle state of a sub-module instance.
type State int

// Sub-module states.
const (
	// StateClosed - not activated, or closed again.
	StateClosed State = iota

	// StateOpen - activated and processing host calls.
	StateOpen

	// StateError - activation failed. The instance can be opened again.
	StateError
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// IsUsable returns true if the instance handles host calls.
func (s State) IsUsable() bool {
	return s == StateOpen
}
