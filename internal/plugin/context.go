package plugin

import (
	"sync"

	"github.com/dshills/pauseclick/internal/classifier"
	"github.com/dshills/pauseclick/internal/config"
	"github.com/dshills/pauseclick/internal/logging"
	"github.com/dshills/pauseclick/internal/playback"
	"github.com/dshills/pauseclick/internal/timer"
)

// ContextOptions configure a Context.
type ContextOptions struct {
	// Source is read on every mouse event and timer expiry. Required.
	Source config.Source

	// Scheduler backs the deferred timer. Required.
	Scheduler timer.Scheduler

	// Caps describe the host's mouse quirks.
	Caps classifier.Capabilities

	// Logger is shared by both sub-modules.
	Logger *logging.Logger

	// OnFire, when set, observes every deferred decision after it ran.
	OnFire func(classifier.FireResult)
}

// Context is the state the video filter and interface sub-modules share.
// One Context corresponds to one loaded plugin.
type Context struct {
	source    config.Source
	scheduler timer.Scheduler
	caps      classifier.Capabilities
	control   *playback.Control
	logger    *logging.Logger

	mu     sync.RWMutex
	onFire func(classifier.FireResult)
}

// NewContext validates opts and creates a Context with no player handle.
func NewContext(opts ContextOptions) (*Context, error) {
	if opts.Source == nil {
		return nil, ErrNilSource
	}
	if opts.Scheduler == nil {
		return nil, ErrNilScheduler
	}

	logger := logging.OrNull(opts.Logger)
	return &Context{
		source:    opts.Source,
		scheduler: opts.Scheduler,
		caps:      opts.Caps,
		control:   playback.NewControl(logger),
		logger:    logger,
		onFire:    opts.OnFire,
	}, nil
}

// Source returns the configuration source.
func (c *Context) Source() config.Source { return c.source }

// Control returns the playback control the sub-modules share.
func (c *Context) Control() *playback.Control { return c.control }

// Capabilities returns the host quirks.
func (c *Context) Capabilities() classifier.Capabilities { return c.caps }

// Logger returns the shared logger.
func (c *Context) Logger() *logging.Logger { return c.logger }

// SetOnFire replaces the deferred decision observer.
func (c *Context) SetOnFire(fn func(classifier.FireResult)) {
	c.mu.Lock()
	c.onFire = fn
	c.mu.Unlock()
}

// Teardown drops the player handle. Sub-modules must be closed first.
func (c *Context) Teardown() {
	c.control.Clear()
}

func (c *Context) notifyFire(fr classifier.FireResult) {
	c.mu.RLock()
	fn := c.onFire
	c.mu.RUnlock()
	if fn != nil {
		fn(fr)
	}
}
