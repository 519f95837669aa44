package classifier

import (
	"strings"

	"github.com/dshills/pauseclick/internal/config"
	"github.com/dshills/pauseclick/internal/logging"
	"github.com/dshills/pauseclick/internal/mouse"
	"github.com/dshills/pauseclick/internal/playback"
	"github.com/dshills/pauseclick/internal/timer"
)

// Capabilities describe host-generation quirks.
type Capabilities struct {
	// UnreliableDoubleClick hosts may report a double click without a fresh
	// press of the left button; the flag then counts as a left click.
	UnreliableDoubleClick bool

	// SynthesizeButtonState hosts need the left button marked pressed
	// alongside a synthesized double click.
	SynthesizeButtonState bool

	// AlwaysPropagate hosts always take the outgoing snapshot. Others only
	// take it when a filter fired.
	AlwaysPropagate bool
}

// Decision is what the classifier did about pause/play for one event.
type Decision uint8

const (
	// NoAction means the event did not qualify as a primary click.
	NoAction Decision = iota
	// Immediate means pause/play was invoked synchronously.
	Immediate
	// Deferred means the timer was armed for a possible second click.
	Deferred
	// CancelDeferred means a pending timer was disarmed by a second click.
	CancelDeferred
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case NoAction:
		return "none"
	case Immediate:
		return "immediate"
	case Deferred:
		return "deferred"
	case CancelDeferred:
		return "cancel-deferred"
	default:
		return "unknown"
	}
}

// Filter is a set of snapshot filters.
type Filter uint8

const (
	// FullscreenSuppressed cleared the native double-click flag.
	FullscreenSuppressed Filter = 1 << iota
	// FullscreenRemapped synthesized a double click.
	FullscreenRemapped
	// ContextMenuSuppressed cleared the right button.
	ContextMenuSuppressed
	// ContextMenuRemapped synthesized a right press.
	ContextMenuRemapped
)

// Has reports whether f includes x.
func (f Filter) Has(x Filter) bool {
	return f&x != 0
}

// String lists the filters, or "none".
func (f Filter) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f.Has(FullscreenSuppressed) {
		parts = append(parts, "fs-off")
	}
	if f.Has(FullscreenRemapped) {
		parts = append(parts, "fs")
	}
	if f.Has(ContextMenuSuppressed) {
		parts = append(parts, "menu-off")
	}
	if f.Has(ContextMenuRemapped) {
		parts = append(parts, "menu")
	}
	return strings.Join(parts, "|")
}

// Result is the classification of one event.
type Result struct {
	// Out is the snapshot to hand back to the host.
	Out mouse.State
	// Handled is false when the event carried no press and no double click.
	Handled bool
	// Fired reports whether a pause/play decision was taken, a filter fired
	// or the outgoing snapshot changed. Hosts without AlwaysPropagate only
	// take Out when it is set.
	Fired bool
	// Decision is the pause/play decision.
	Decision Decision
	// Filters lists the filters that fired.
	Filters Filter
	// Toggle is the playback outcome when a toggle was attempted.
	Toggle *playback.Outcome
}

// FireResult describes one timer expiry.
type FireResult struct {
	// Toggle is set when ignore-double-click deferred the toggle to here.
	Toggle *playback.Outcome
	// Icon is the confirmation icon shown when the toggle already happened.
	Icon playback.Icon
}

// Options configure a Classifier.
type Options struct {
	// Source is read on every event.
	Source config.Source
	// Control performs toggles.
	Control *playback.Control
	// Timer is the deferred-decision timer. Without one, arbitrated clicks
	// still lose the native flag but toggle immediately, or not at all with
	// ignore-double-click.
	Timer *timer.Timer
	// Caps are the host quirks.
	Caps Capabilities
	// Logger receives one debug line per event.
	Logger *logging.Logger
}

// Classifier is safe for concurrent use by mouse and timer goroutines. Its
// only mutable state is the timer's armed flag.
type Classifier struct {
	src     config.Source
	control *playback.Control
	timer   *timer.Timer
	caps    Capabilities
	logger  *logging.Logger
}

// New creates a Classifier.
func New(opts Options) *Classifier {
	control := opts.Control
	if control == nil {
		control = playback.NewControl(opts.Logger)
	}
	return &Classifier{
		src:     opts.Source,
		control: control,
		timer:   opts.Timer,
		caps:    opts.Caps,
		logger:  logging.OrNull(opts.Logger).WithComponent("classifier"),
	}
}

// Capabilities returns the host quirks the classifier was built with.
func (c *Classifier) Capabilities() Capabilities {
	return c.caps
}

// Classify processes one mouse event.
func (c *Classifier) Classify(old, cur mouse.State) Result {
	res := Result{Out: cur}
	if cur.Pressed == 0 && !cur.DoubleClick {
		return res
	}
	res.Handled = true

	c.logger.Debug("%s old: %s; new: %s", mouse.Classify(old, cur), old, cur)

	s := config.Resolve(c.src)
	arbitrate := s.Arbitrates()

	if arbitrate {
		res.Out.DoubleClick = false
	}

	if c.qualifies(old, cur, s.PrimaryButton) {
		switch {
		case arbitrate && c.timer != nil:
			if !s.IgnoreDoubleClick {
				// Provisional: the icon waits for the timer.
				res.Toggle = c.toggle(false)
			}
			if c.timer.Disarm() {
				res.Decision = CancelDeferred
				res.Out.DoubleClick = true
				c.logger.Debug("second click within %s, treating as double click", s.Delay)
			} else {
				res.Decision = Deferred
				c.timer.Arm(s.Delay)
				c.logger.Debug("first click, waiting %s for a second one", s.Delay)
			}
		case s.IgnoreDoubleClick:
			// Only the timer can tell a single click apart.
			c.logger.Debug("%s click left to the host, ignore-double-click is on", s.PrimaryButton)
		default:
			res.Decision = Immediate
			res.Toggle = c.toggle(s.DisplayIcon)
		}
	}

	res.Filters = c.applyFilters(s, old, cur, &res.Out)
	res.Fired = res.Decision != NoAction || res.Filters != 0 || res.Out != cur

	c.logger.Debug("out: %s decision=%s filters=%s", res.Out, res.Decision, res.Filters)
	return res
}

// Fire is the timer callback: the pending click was a single click.
func (c *Classifier) Fire() FireResult {
	s := config.Resolve(c.src)
	c.logger.Debug("deferred click confirmed as single click")

	if s.IgnoreDoubleClick {
		return FireResult{Toggle: c.toggle(s.DisplayIcon)}
	}
	if s.DisplayIcon {
		return FireResult{Icon: c.control.ShowStateIcon()}
	}
	return FireResult{}
}

func (c *Classifier) qualifies(old, cur mouse.State, primary mouse.Button) bool {
	if primary == mouse.ButtonNone {
		return false
	}
	if mouse.HasPressed(old, cur, primary) {
		return true
	}
	return c.caps.UnreliableDoubleClick && cur.DoubleClick && primary == mouse.ButtonLeft
}

func (c *Classifier) toggle(showIcon bool) *playback.Outcome {
	out := c.control.Toggle(showIcon)
	return &out
}

func (c *Classifier) applyFilters(s config.Settings, old, cur mouse.State, out *mouse.State) Filter {
	var fired Filter

	if s.DisableFullscreenToggle && (cur.DoubleClick || out.DoubleClick) {
		out.DoubleClick = false
		fired |= FullscreenSuppressed
	}

	if s.FullscreenButton != mouse.ButtonNone && mouse.HasPressed(old, cur, s.FullscreenButton) {
		if c.caps.SynthesizeButtonState {
			out.SetPressed(mouse.ButtonLeft)
		}
		out.DoubleClick = true
		fired |= FullscreenRemapped
	}

	if s.DisableContextMenuToggle && cur.IsPressed(mouse.ButtonRight) {
		out.ClearPressed(mouse.ButtonRight)
		fired |= ContextMenuSuppressed
	}

	if s.ContextMenuButton != mouse.ButtonNone && mouse.HasPressed(old, cur, s.ContextMenuButton) {
		out.SetPressed(mouse.ButtonRight)
		fired |= ContextMenuRemapped
	}

	return fired
}
