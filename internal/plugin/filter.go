package plugin

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/pauseclick/internal/classifier"
	"github.com/dshills/pauseclick/internal/logging"
	"github.com/dshills/pauseclick/internal/mouse"
	"github.com/dshills/pauseclick/internal/timer"
)

// Format describes a picture format.
type Format struct {
	// Chroma is the pixel format fourcc, e.g. "I420".
	Chroma     string
	Width      int
	Height     int
	Interlaced bool
}

// String renders the format as "I420 1920x1080", with an "i" suffix for
// interlaced pictures.
func (f Format) String() string {
	s := fmt.Sprintf("%s %dx%d", f.Chroma, f.Width, f.Height)
	if f.Interlaced {
		s += "i"
	}
	return s
}

// FormatPair is the input and output format the host negotiates.
type FormatPair struct {
	In  Format
	Out Format
}

// Picture is one decoded frame.
type Picture struct {
	Format Format
	PTS    time.Duration
	Data   []byte
}

// VideoFilter is the video filter sub-module.
type VideoFilter struct {
	ctx *Context

	mu     sync.RWMutex
	state  State
	id     uuid.UUID
	format FormatPair
	timer  *timer.Timer
	cls    *classifier.Classifier
	logger *logging.Logger
}

// NewVideoFilter creates a closed filter bound to ctx.
func NewVideoFilter(ctx *Context) *VideoFilter {
	return &VideoFilter{
		ctx:    ctx,
		logger: ctx.Logger().WithComponent("filter"),
	}
}

// Open activates the filter for formats. The filter refuses to convert
// between chromas. A timer creation failure fails activation with nothing
// left allocated.
func (f *VideoFilter) Open(formats FormatPair) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateOpen {
		return ErrAlreadyOpen
	}

	if formats.In.Chroma != formats.Out.Chroma {
		f.state = StateError
		f.logger.Error("input chroma %q differs from output chroma %q: %v",
			formats.In.Chroma, formats.Out.Chroma, ErrChromaConversion)
		return fmt.Errorf("%w: %s to %s", ErrChromaConversion, formats.In.Chroma, formats.Out.Chroma)
	}

	id := uuid.New()
	logger := f.ctx.Logger().WithComponent("filter").WithField("instance", id.String())

	var cls *classifier.Classifier
	t, err := timer.New(f.ctx.scheduler, func() {
		f.ctx.notifyFire(cls.Fire())
	})
	if err != nil {
		f.state = StateError
		logger.Error("activation failed: %v", err)
		return err
	}
	cls = classifier.New(classifier.Options{
		Source:  f.ctx.source,
		Control: f.ctx.control,
		Timer:   t,
		Caps:    f.ctx.caps,
		Logger:  logger,
	})

	if !f.ctx.control.Available() {
		logger.Warn("no player handle yet, clicks do nothing until the interface is opened")
	}

	f.id = id
	f.format = formats
	f.timer = t
	f.cls = cls
	f.logger = logger
	f.state = StateOpen

	logger.Debug("%s %s, %s, %s", Name, Version, Copyright, License)
	logger.Debug("input format: %s, output format: %s", formats.In, formats.Out)
	if formats.In.Interlaced {
		logger.Debug("input is interlaced")
	}
	logger.Info("opened for %s", formats.In)
	return nil
}

// Mouse classifies one mouse event. It returns the outgoing snapshot and
// whether the host should take it. A closed filter hands cur back unchanged
// and asks for no propagation.
func (f *VideoFilter) Mouse(old, cur mouse.State) (mouse.State, bool) {
	res, ok := f.Classify(old, cur)
	if !ok {
		return cur, false
	}
	return res.Out, f.Propagates(res)
}

// Classify runs the classifier and returns its full result. ok is false when
// the filter is not open.
func (f *VideoFilter) Classify(old, cur mouse.State) (res classifier.Result, ok bool) {
	f.mu.RLock()
	cls := f.cls
	f.mu.RUnlock()

	if cls == nil {
		return classifier.Result{Out: cur}, false
	}
	return cls.Classify(old, cur), true
}

// Propagates reports whether res should be handed back to the host.
func (f *VideoFilter) Propagates(res classifier.Result) bool {
	return f.ctx.caps.AlwaysPropagate || res.Fired
}

// Video passes p through unchanged.
func (f *VideoFilter) Video(p Picture) Picture {
	return p
}

// Close cancels any pending decision and destroys the timer.
func (f *VideoFilter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateOpen {
		return ErrNotOpen
	}

	f.timer.Close()
	f.logger.Info("closed after %d deferred decisions", f.timer.Fired())

	f.timer = nil
	f.cls = nil
	f.state = StateClosed
	return nil
}

// State returns the lifecycle state.
func (f *VideoFilter) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// ID returns the instance id of the current activation, or "" when closed.
func (f *VideoFilter) ID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.state != StateOpen {
		return ""
	}
	return f.id.String()
}

// Format returns the negotiated formats.
func (f *VideoFilter) Format() FormatPair {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.format
}

// Pending reports whether a deferred decision is waiting on the timer.
func (f *VideoFilter) Pending() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.timer != nil && f.timer.Armed()
}
