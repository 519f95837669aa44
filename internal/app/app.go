// Package app wires the configuration store, the reference host and its
// front ends together for the pauseclick command.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/dshills/pauseclick/internal/config"
	"github.com/dshills/pauseclick/internal/config/layer"
	"github.com/dshills/pauseclick/internal/config/watcher"
	"github.com/dshills/pauseclick/internal/host"
	"github.com/dshills/pauseclick/internal/host/terminal"
	"github.com/dshills/pauseclick/internal/logging"
	"github.com/dshills/pauseclick/internal/plugin"
	"github.com/dshills/pauseclick/internal/scenario"
	"github.com/dshills/pauseclick/internal/timer"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML, YAML or JSON settings file. Empty uses
	// defaults and the environment only.
	ConfigPath string

	// LogLevel sets the logging verbosity. Empty means info.
	LogLevel string

	// LogOutput receives log lines. Nil means stderr.
	LogOutput io.Writer

	// HostVersion selects the imitated host release. Empty means the
	// default release.
	HostVersion string

	// NativeInterval is the host's own double-click interval.
	NativeInterval time.Duration

	// Watch reloads ConfigPath when it changes.
	Watch bool
}

// App owns the long-lived components.
type App struct {
	opts    Options
	version host.Version
	logger  *logging.Logger
	store   *config.Store
	watcher *watcher.Watcher
	metrics *Metrics

	mu     sync.Mutex
	closed bool
}

// New creates an App with the given options.
func New(opts Options) (*App, error) {
	a := &App{
		opts:    opts,
		metrics: NewMetrics(),
	}
	if err := newBootstrapper(a, opts).bootstrap(); err != nil {
		return nil, err
	}
	return a, nil
}

// configure installs the file and env layers on s. Scenario runs call it
// for every fresh store so scripts start from the user's settings.
func (a *App) configure(s *config.Store) error {
	if a.opts.ConfigPath != "" {
		if err := s.LoadFile(a.opts.ConfigPath); err != nil {
			return err
		}
	}
	return s.LoadEnv()
}

// Logger returns the root logger.
func (a *App) Logger() *logging.Logger { return a.logger }

// Store returns the live configuration store.
func (a *App) Store() *config.Store { return a.store }

// Metrics returns the application metrics.
func (a *App) Metrics() *Metrics { return a.metrics }

// HostVersion returns the imitated host release.
func (a *App) HostVersion() host.Version { return a.version }

// Watching reports whether the config file is being watched.
func (a *App) Watching() bool {
	return a.watcher != nil && a.watcher.IsRunning()
}

// Settings resolves the current snapshot.
func (a *App) Settings() config.Settings {
	return config.Resolve(a.store)
}

// SettingValue is one resolved setting and the layer it came from.
type SettingValue struct {
	Key    string
	Value  any
	Source layer.Source
}

// SettingValues returns every registered setting in registration order.
func (a *App) SettingValues() []SettingValue {
	all := a.store.Registry().All()
	out := make([]SettingValue, 0, len(all))
	for _, s := range all {
		v, src, err := a.store.Lookup(s.Key)
		if err != nil {
			a.logger.Warn("lookup %s: %v", s.Key, err)
			continue
		}
		out = append(out, SettingValue{Key: s.Key, Value: v, Source: src})
	}
	return out
}

// Manifest describes the plugin with the store's settings.
func (a *App) Manifest() *plugin.Manifest {
	return plugin.NewManifest(a.store.Registry())
}

// NewHost creates a started host reading the live store. A nil scheduler
// uses wall-clock timers. The caller closes the host.
func (a *App) NewHost(sched timer.Scheduler) (*host.Host, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	if sched == nil {
		sched = timer.RealScheduler{}
	}

	h, err := host.New(host.Options{
		Version:        a.version,
		Source:         a.store,
		Scheduler:      sched,
		NativeInterval: a.opts.NativeInterval,
		Logger:         a.logger,
	})
	if err != nil {
		return nil, NewOperationError("create", "host", err)
	}
	a.metrics.Observe(h)
	if err := h.Start(); err != nil {
		h.Close()
		return nil, NewOperationError("start", "host", err).WithContext(a.version.String())
	}
	return h, nil
}

// RunScenarios runs every script against every version in versions and
// writes a report per run to out. No versions means the App's version. The
// returned reports cover every run that got past setup.
func (a *App) RunScenarios(ctx context.Context, versions []host.Version, paths []string, out io.Writer) ([]*scenario.Report, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoScripts
	}
	if len(versions) == 0 {
		versions = []host.Version{a.version}
	}
	if out == nil {
		out = io.Discard
	}

	errs := NewErrorList()
	var reports []*scenario.Report
	for _, v := range versions {
		runner := scenario.NewRunner(scenario.Options{
			Version:        v,
			NativeInterval: a.opts.NativeInterval,
			Configure:      a.configure,
			Output:         out,
			Logger:         a.logger,
		})
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				errs.Add(err)
				return reports, errs.AsError()
			}

			r, err := runner.Run(ctx, path)
			if err != nil {
				errs.Add(NewOperationError("run", path, err).WithContext("host " + v.String()))
				continue
			}
			reports = append(reports, r)
			a.metrics.RecordScenario(r)
			fmt.Fprintln(out, r)
			if !r.OK() {
				errs.Add(NewOperationError("run", path, ErrScenariosFailed).WithContext("host " + v.String()))
			}
		}
	}
	return reports, errs.AsError()
}

// CheckTerminal returns ErrNotATerminal unless fd is a terminal.
func CheckTerminal(fd uintptr) error {
	if !term.IsTerminal(int(fd)) {
		return ErrNotATerminal
	}
	return nil
}

// RunTerminal runs the interactive host until the user quits or ctx is
// done. A nil screen uses the process terminal.
func (a *App) RunTerminal(ctx context.Context, screen tcell.Screen) error {
	h, err := a.NewHost(nil)
	if err != nil {
		return err
	}
	defer h.Close()

	t, err := terminal.New(terminal.Options{Host: h, Screen: screen, Logger: a.logger})
	if err != nil {
		return NewOperationError("open", "terminal", err)
	}
	a.logger.Info("terminal host %s started", a.version)
	err = t.Run(ctx)
	a.logger.Info("terminal host stopped: %s", a.metrics.Snapshot())
	if err != nil && ctx.Err() == nil {
		return NewOperationError("run", "terminal", err)
	}
	return nil
}

// Close stops the watcher and the store. It is safe to call Close multiple
// times.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true

	errs := NewErrorList()
	if a.watcher != nil {
		errs.Add(WrapError(a.watcher.Close(), "close watcher"))
	}
	a.store.Close()
	return errs.AsError()
}

func (a *App) checkOpen() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	return nil
}
