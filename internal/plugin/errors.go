package plugin

import "errors"

// Sub-module errors.
var (
	// ErrChromaConversion is returned when the host asks the filter to change
	// the picture format. The filter only passes pictures through.
	ErrChromaConversion = errors.New("this filter doesn't do video conversion")

	// ErrAlreadyOpen is returned when opening an open instance.
	ErrAlreadyOpen = errors.New("already open")

	// ErrNotOpen is returned when closing an instance that is not open.
	ErrNotOpen = errors.New("not open")

	// ErrNoPlayer is returned when the interface is opened without a player.
	ErrNoPlayer = errors.New("no player in handle")

	// ErrNilSource is returned when a context is built without configuration.
	ErrNilSource = errors.New("context has no configuration source")

	// ErrNilScheduler is returned when a context is built without a scheduler.
	ErrNilScheduler = errors.New("context has no scheduler")
)
