// Package playback adapts the host's player to the single operation the
// click classifier needs: toggle pause, with optional icon feedback.
package playback

import (
	"sync/atomic"

	"github.com/dshills/pauseclick/internal/logging"
)

// Icon is an on-screen-display icon.
type Icon uint8

const (
	// IconPause is shown when playback becomes paused.
	IconPause Icon = iota + 1
	// IconPlay is shown when playback resumes.
	IconPlay
)

// String returns the icon name.
func (i Icon) String() string {
	switch i {
	case IconPause:
		return "pause"
	case IconPlay:
		return "play"
	default:
		return "none"
	}
}

// IconFor returns the icon that represents a playback state.
func IconFor(paused bool) Icon {
	if paused {
		return IconPause
	}
	return IconPlay
}

// Player is the host-owned player. Implementations are called from mouse
// and timer goroutines and must be safe for concurrent use.
type Player interface {
	// TogglePause flips between playing and paused and returns the new
	// state.
	TogglePause() (paused bool, err error)
	// Paused reports the current state.
	Paused() bool
	// InInteractiveMenu reports whether a disc-style menu has focus, in
	// which case pause/play is a no-op.
	InInteractiveMenu() bool
}

// OSD shows transient icons over the video.
type OSD interface {
	ShowIcon(icon Icon)
}

// Handle is the process-wide handle the interface sub-module publishes.
// OSD may be nil.
type Handle struct {
	Player Player
	OSD    OSD
}

// Result reports what a Toggle did.
type Result uint8

const (
	// NoHandle means no player handle was published.
	NoHandle Result = iota
	// Suppressed means the player was in an interactive menu.
	Suppressed
	// Toggled means the player toggled.
	Toggled
	// Failed means the player returned an error.
	Failed
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case NoHandle:
		return "no-handle"
	case Suppressed:
		return "suppressed"
	case Toggled:
		return "toggled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome describes one Toggle call.
type Outcome struct {
	Result Result
	// Paused is the state after a successful toggle.
	Paused bool
	// Icon is the icon shown, or zero.
	Icon Icon
	// Err is the player error when Result is Failed.
	Err error
}

// Control owns the published handle. Its methods never fail; a missing
// handle turns every action into a no-op.
type Control struct {
	handle atomic.Pointer[Handle]
	logger *logging.Logger
}

// NewControl creates a Control with no handle published.
func NewControl(logger *logging.Logger) *Control {
	return &Control{logger: logging.OrNull(logger).WithComponent("playback")}
}

// Publish makes h the current handle. A nil h or one without a player is
// the same as Clear.
func (c *Control) Publish(h *Handle) {
	if h == nil || h.Player == nil {
		c.Clear()
		return
	}
	c.handle.Store(h)
}

// Clear removes the current handle.
func (c *Control) Clear() {
	c.handle.Store(nil)
}

// Available reports whether a handle is published.
func (c *Control) Available() bool {
	return c.handle.Load() != nil
}

// Paused reports the player state, or false without a handle.
func (c *Control) Paused() bool {
	h := c.handle.Load()
	if h == nil {
		return false
	}
	return h.Player.Paused()
}

// Toggle flips pause/play unless the player is in an interactive menu. With
// showIcon set, the icon for the new state is shown.
func (c *Control) Toggle(showIcon bool) Outcome {
	h := c.handle.Load()
	if h == nil {
		c.logger.Debug("toggle skipped: no player handle")
		return Outcome{Result: NoHandle}
	}
	if h.Player.InInteractiveMenu() {
		c.logger.Debug("toggle suppressed: interactive menu")
		return Outcome{Result: Suppressed}
	}

	paused, err := h.Player.TogglePause()
	if err != nil {
		c.logger.Warn("toggle failed: %v", err)
		return Outcome{Result: Failed, Err: err}
	}

	out := Outcome{Result: Toggled, Paused: paused}
	if showIcon {
		out.Icon = c.show(h, IconFor(paused))
	}
	return out
}

// ShowStateIcon shows the icon for the current state. It returns the icon
// shown, or zero when there is no handle or no OSD.
func (c *Control) ShowStateIcon() Icon {
	h := c.handle.Load()
	if h == nil {
		return 0
	}
	return c.show(h, IconFor(h.Player.Paused()))
}

func (c *Control) show(h *Handle, icon Icon) Icon {
	if h.OSD == nil {
		return 0
	}
	h.OSD.ShowIcon(icon)
	return icon
}
