// Package scenario runs Lua scripts that drive the reference host.
//
// A script presses buttons, lets virtual time pass and checks what the
// player did:
//
//	set("enable-double-click-delay", true)
//	double_click()
//	wait(500)
//	expect(fullscreen(), "double click toggles fullscreen")
//	expect(toggles() % 2 == 0, "and leaves playback as it was")
//
// Every run gets a fresh configuration store, host and virtual clock, so
// scripts do not affect each other. Timer callbacks run inside wait() on the
// script's goroutine.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/pauseclick/internal/config"
	"github.com/dshills/pauseclick/internal/host"
	"github.com/dshills/pauseclick/internal/logging"
	"github.com/dshills/pauseclick/internal/timer"
)

// DefaultTimeout bounds the wall-clock time of one script.
const DefaultTimeout = 10 * time.Second

// ErrScript wraps errors raised while a script runs.
var ErrScript = errors.New("scenario script failed")

// epoch is the virtual clock's start.
var epoch = time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)

// Options configure a Runner.
type Options struct {
	// Version is the host release scripts run against.
	Version host.Version

	// NativeInterval is the host's double-click interval.
	NativeInterval time.Duration

	// Timeout bounds each script. Zero uses DefaultTimeout.
	Timeout time.Duration

	// Configure prepares each fresh store, e.g. by loading a config file.
	Configure func(*config.Store) error

	// Output receives log() lines as they happen.
	Output io.Writer

	Logger *logging.Logger
}

// Runner runs scenario scripts.
type Runner struct {
	opts   Options
	logger *logging.Logger
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Runner{
		opts:   opts,
		logger: logging.OrNull(opts.Logger).WithComponent("scenario"),
	}
}

// Run reads and runs the script at path.
func (r *Runner) Run(ctx context.Context, path string) (*Report, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return r.RunString(ctx, filepath.Base(path), string(code))
}

// RunString runs code. The returned error covers setup failures only; script
// errors are reported in Report.Err so that partial results survive.
func (r *Runner) RunString(ctx context.Context, name, code string) (*Report, error) {
	store := config.NewStore(config.WithLogger(r.opts.Logger))
	defer store.Close()

	if r.opts.Configure != nil {
		if err := r.opts.Configure(store); err != nil {
			return nil, fmt.Errorf("configure store: %w", err)
		}
	}

	clock := timer.NewManualScheduler(epoch)
	h, err := host.New(host.Options{
		Version:        r.opts.Version,
		Source:         store,
		Scheduler:      clock,
		NativeInterval: r.opts.NativeInterval,
		Logger:         r.opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	if err := h.Start(); err != nil {
		return nil, err
	}
	defer h.Close()

	report := &Report{Name: name, Version: r.opts.Version}
	e := &env{
		host:   h,
		store:  store,
		report: report,
		out:    r.opts.Output,
		logger: r.logger.WithField("script", name),
	}

	st := newState()
	defer st.close()
	e.install(st)

	runCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	if err := st.doString(runCtx, name, code); err != nil {
		report.Err = fmt.Errorf("%w: %w", ErrScript, err)
		r.logger.Warn("%s: %v", name, err)
	}

	e.finish()
	r.logger.Info("%s: %d passed, %d failed", name, report.Passed, report.Failed)
	return report, nil
}
