package plugin

import (
	"sync"

	"github.com/dshills/pauseclick/internal/logging"
	"github.com/dshills/pauseclick/internal/playback"
)

// Interface is the interface sub-module. Its only job is to hand the player
// to the shared playback control.
type Interface struct {
	ctx    *Context
	logger *logging.Logger

	mu    sync.Mutex
	state State
}

// NewInterface creates a closed interface bound to ctx.
func NewInterface(ctx *Context) *Interface {
	return &Interface{
		ctx:    ctx,
		logger: ctx.Logger().WithComponent("interface"),
	}
}

// Open publishes h.
func (i *Interface) Open(h *playback.Handle) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state == StateOpen {
		return ErrAlreadyOpen
	}
	if h == nil || h.Player == nil {
		i.state = StateError
		return ErrNoPlayer
	}

	i.ctx.control.Publish(h)
	i.state = StateOpen
	i.logger.Debug("player handle published")
	return nil
}

// Close clears the published handle.
func (i *Interface) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != StateOpen {
		return ErrNotOpen
	}
	i.ctx.control.Clear()
	i.state = StateClosed
	i.logger.Debug("player handle cleared")
	return nil
}

// State returns the lifecycle state.
func (i *Interface) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}
