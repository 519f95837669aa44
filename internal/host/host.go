// Package host is a reference media player host for the pause-click plugin.
// It owns an in-memory player and OSD, turns button presses into the mouse
// snapshots a real player would deliver, and applies the player's default
// mouse actions to whatever the filter hands back.
package host

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/pauseclick/internal/classifier"
	"github.com/dshills/pauseclick/internal/config"
	"github.com/dshills/pauseclick/internal/logging"
	"github.com/dshills/pauseclick/internal/mouse"
	"github.com/dshills/pauseclick/internal/playback"
	"github.com/dshills/pauseclick/internal/plugin"
	"github.com/dshills/pauseclick/internal/timer"
)

// DefaultFormat is the picture format the filter is loaded with.
var DefaultFormat = plugin.Format{Chroma: "I420", Width: 1280, Height: 720}

// Options configure a Host.
type Options struct {
	// Version selects the host quirks. Defaults to DefaultVersion.
	Version Version

	// Source is the plugin configuration. Required.
	Source config.Source

	// Scheduler backs the plugin timer. A *timer.ManualScheduler makes Wait
	// advance virtual time. Defaults to timer.RealScheduler.
	Scheduler timer.Scheduler

	// NativeInterval is the host's own double-click interval. Zero uses
	// DefaultNativeInterval.
	NativeInterval time.Duration

	// NativeStyle overrides how double clicks are reported. Zero uses the
	// version's style.
	NativeStyle DoubleClickStyle

	Logger *logging.Logger
}

// Event describes one mouse event as it went through the host.
type Event struct {
	Old, New mouse.State
	// Effective is the snapshot the host's defaults acted on.
	Effective  mouse.State
	Propagated bool
	Result     classifier.Result
	Fullscreen bool
	Menu       bool
}

// Stats are the host's counters.
type Stats struct {
	Events             int
	Propagated         int
	Fires              int
	FullscreenToggles  int
	ContextMenuToggles int
	LastDecision       classifier.Decision
	LastFilters        classifier.Filter
}

// Host runs the plugin against an in-memory player.
type Host struct {
	version Version
	style   DoubleClickStyle
	clock   timer.Clock
	sched   timer.Scheduler
	logger  *logging.Logger

	ctx    *plugin.Context
	filter *plugin.VideoFilter
	iface  *plugin.Interface
	player *Player
	osd    *OSD

	mu          sync.Mutex
	clicks      *clickTracker
	state       mouse.State
	fullscreen  bool
	contextMenu bool
	stats       Stats
	onEvent     []func(Event)
	onFire      []func(classifier.FireResult)
}

// New creates a host with the plugin registered but not loaded.
func New(opts Options) (*Host, error) {
	if opts.Source == nil {
		return nil, errors.New("host: nil configuration source")
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timer.RealScheduler{}
	}
	if opts.NativeInterval <= 0 {
		opts.NativeInterval = DefaultNativeInterval
	}
	style := opts.NativeStyle
	if style == 0 {
		style = opts.Version.DoubleClickStyle()
	}

	var clock timer.Clock = timer.RealScheduler{}
	if c, ok := opts.Scheduler.(timer.Clock); ok {
		clock = c
	}

	logger := logging.OrNull(opts.Logger)
	h := &Host{
		version: opts.Version,
		style:   style,
		clock:   clock,
		sched:   opts.Scheduler,
		logger:  logger.WithComponent("host").WithField("version", opts.Version.String()),
		player:  NewPlayer(),
		osd:     NewOSD(),
		clicks:  newClickTracker(opts.NativeInterval),
	}

	ctx, err := plugin.NewContext(plugin.ContextOptions{
		Source:    opts.Source,
		Scheduler: opts.Scheduler,
		Caps:      opts.Version.Capabilities(),
		Logger:    logger,
		OnFire:    h.fired,
	})
	if err != nil {
		return nil, err
	}
	h.ctx = ctx
	h.filter = plugin.NewVideoFilter(ctx)
	h.iface = plugin.NewInterface(ctx)
	return h, nil
}

// Version returns the imitated release.
func (h *Host) Version() Version { return h.version }

// Style returns the double-click reporting style in use.
func (h *Host) Style() DoubleClickStyle { return h.style }

// Player returns the in-memory player.
func (h *Host) Player() *Player { return h.player }

// OSD returns the recording OSD.
func (h *Host) OSD() *OSD { return h.osd }

// Filter returns the video filter sub-module.
func (h *Host) Filter() *plugin.VideoFilter { return h.filter }

// Interface returns the interface sub-module.
func (h *Host) Interface() *plugin.Interface { return h.iface }

// Load opens the video filter.
func (h *Host) Load() error {
	return h.filter.Open(plugin.FormatPair{In: DefaultFormat, Out: DefaultFormat})
}

// Unload closes the video filter.
func (h *Host) Unload() error {
	return h.filter.Close()
}

// AttachInterface opens the interface sub-module with the host's player.
func (h *Host) AttachInterface() error {
	return h.iface.Open(&playback.Handle{Player: h.player, OSD: h.osd})
}

// DetachInterface closes the interface sub-module.
func (h *Host) DetachInterface() error {
	return h.iface.Close()
}

// Start loads the filter and attaches the interface.
func (h *Host) Start() error {
	if err := h.AttachInterface(); err != nil {
		return err
	}
	if err := h.Load(); err != nil {
		_ = h.DetachInterface()
		return err
	}
	return nil
}

// Close unloads everything that is open.
func (h *Host) Close() {
	if h.filter.State() == plugin.StateOpen {
		_ = h.Unload()
	}
	if h.iface.State() == plugin.StateOpen {
		_ = h.DetachInterface()
	}
	h.ctx.Teardown()
}

// OnEvent registers fn to run after every mouse event. fn must not call
// back into the host synchronously from a player or OSD callback.
func (h *Host) OnEvent(fn func(Event)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onEvent = append(h.onEvent, fn)
}

// OnFire registers fn to run after every deferred decision. fn runs on the
// timer goroutine.
func (h *Host) OnFire(fn func(classifier.FireResult)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFire = append(h.onFire, fn)
}

// Press reports button b going down.
func (h *Host) Press(b mouse.Button) Event {
	h.mu.Lock()

	old := h.state
	cur := old
	cur.DoubleClick = false

	double := false
	if b == mouse.ButtonLeft && h.style != DoubleClickNone {
		double = h.clicks.recordClick(h.clock.Now()) == 2
	}

	switch {
	case double && h.style == DoubleClickFlagOnly:
		cur.DoubleClick = true
	case double:
		cur.SetPressed(b)
		cur.DoubleClick = true
	default:
		cur.SetPressed(b)
	}
	return h.deliver(old, cur)
}

// Release reports button b going up.
func (h *Host) Release(b mouse.Button) Event {
	h.mu.Lock()

	old := h.state
	cur := old
	cur.DoubleClick = false
	cur.ClearPressed(b)
	return h.deliver(old, cur)
}

// Click presses and releases b.
func (h *Host) Click(b mouse.Button) {
	h.Press(b)
	h.Release(b)
}

// DoubleClick clicks b twice without time passing in between.
func (h *Host) DoubleClick(b mouse.Button) {
	h.Click(b)
	h.Click(b)
}

// Scroll reports one wheel notch. Wheel buttons are pressed and released in
// one go.
func (h *Host) Scroll(b mouse.Button) {
	h.Click(b)
}

// Wait lets d pass. With a manual scheduler this advances virtual time and
// runs due timers on the calling goroutine.
func (h *Host) Wait(d time.Duration) {
	if m, ok := h.sched.(*timer.ManualScheduler); ok {
		m.Advance(d)
		return
	}
	time.Sleep(d)
}

// Now returns the host clock's time.
func (h *Host) Now() time.Time {
	return h.clock.Now()
}

// Fullscreen reports whether the host is in fullscreen.
func (h *Host) Fullscreen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fullscreen
}

// ContextMenu reports whether the context menu is showing.
func (h *Host) ContextMenu() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.contextMenu
}

// State returns the host's current mouse snapshot.
func (h *Host) State() mouse.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Stats returns a copy of the counters.
func (h *Host) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// Armed reports whether the plugin is waiting on a deferred decision.
func (h *Host) Armed() bool {
	return h.filter.Pending()
}

// deliver runs one event through the filter and the host defaults. h.mu
// must be held; deliver releases it.
func (h *Host) deliver(old, cur mouse.State) Event {
	h.state = cur
	ev := Event{Old: old, New: cur, Effective: cur}

	if res, ok := h.filter.Classify(old, cur); ok {
		ev.Result = res
		if h.filter.Propagates(res) {
			ev.Effective = res.Out
			ev.Propagated = true
			h.stats.Propagated++
		}
		h.stats.LastDecision = res.Decision
		h.stats.LastFilters = res.Filters
	}
	h.stats.Events++

	if h.fullscreenRequested(ev.Effective) {
		h.fullscreen = !h.fullscreen
		h.stats.FullscreenToggles++
		ev.Fullscreen = true
		h.logger.Debug("fullscreen %t", h.fullscreen)
	}
	if mouse.HasPressed(old, ev.Effective, mouse.ButtonRight) {
		h.contextMenu = !h.contextMenu
		h.stats.ContextMenuToggles++
		ev.Menu = true
		h.logger.Debug("context menu %t", h.contextMenu)
	}

	observers := make([]func(Event), len(h.onEvent))
	copy(observers, h.onEvent)
	h.mu.Unlock()

	for _, fn := range observers {
		fn(ev)
	}
	return ev
}

func (h *Host) fullscreenRequested(s mouse.State) bool {
	if !s.DoubleClick {
		return false
	}
	if h.version == Version4 {
		return s.IsPressed(mouse.ButtonLeft)
	}
	return true
}

func (h *Host) fired(fr classifier.FireResult) {
	h.mu.Lock()
	h.stats.Fires++
	observers := make([]func(classifier.FireResult), len(h.onFire))
	copy(observers, h.onFire)
	h.mu.Unlock()

	for _, fn := range observers {
		fn(fr)
	}
}
