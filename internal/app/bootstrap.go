package app

import (
	"fmt"

	"github.com/dshills/pauseclick/internal/config"
	"github.com/dshills/pauseclick/internal/config/watcher"
	"github.com/dshills/pauseclick/internal/host"
	"github.com/dshills/pauseclick/internal/logging"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *App
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *App, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 4),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initLogger,
		b.initHostVersion,
		b.initStore,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initLogger creates the root logger. An unknown level is an error rather
// than a silent fallback to info.
func (b *bootstrapper) initLogger() error {
	cfg := logging.DefaultConfig()
	if b.opts.LogLevel != "" {
		if !logging.ValidLevel(b.opts.LogLevel) {
			return &InitError{
				Component: "logger",
				Err:       fmt.Errorf("%w: log level %q", ErrInvalidOption, b.opts.LogLevel),
			}
		}
		cfg.Level = logging.ParseLevel(b.opts.LogLevel)
	}
	if b.opts.LogOutput != nil {
		cfg.Output = b.opts.LogOutput
	}

	b.app.logger = logging.New(cfg)
	return nil
}

// initHostVersion resolves which host release to imitate.
func (b *bootstrapper) initHostVersion() error {
	b.app.version = host.DefaultVersion
	if b.opts.HostVersion != "" {
		v, err := host.ParseVersion(b.opts.HostVersion)
		if err != nil {
			return &InitError{Component: "host", Err: fmt.Errorf("%w: %w", ErrInvalidOption, err)}
		}
		b.app.version = v
	}
	return nil
}

// initStore creates the configuration store and installs the file and env
// layers.
func (b *bootstrapper) initStore() error {
	b.app.store = config.NewStore(config.WithLogger(b.app.logger))
	b.initOrder = append(b.initOrder, "store")

	if err := b.app.configure(b.app.store); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.logger.Debug("settings: %s", config.Resolve(b.app.store))
	return nil
}

// initWatcher starts live reload of the config file.
func (b *bootstrapper) initWatcher() error {
	if !b.opts.Watch {
		return nil
	}
	if b.opts.ConfigPath == "" {
		b.app.logger.Warn("watch requested without a config file, ignoring")
		return nil
	}

	w, err := watcher.New(b.opts.ConfigPath, b.app.store, watcher.WithLogger(b.app.logger))
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	w.OnReload(func(ev watcher.ReloadEvent) {
		b.app.metrics.RecordReload(ev)
		if ev.Err != nil {
			b.app.logger.Warn("reload %s failed, keeping previous settings: %v", ev.Path, ev.Err)
			return
		}
		b.app.logger.Info("reloaded %s: %s", ev.Path, config.Resolve(b.app.store))
	})
	if err := w.Start(); err != nil {
		_ = w.Close()
		return &InitError{Component: "watcher", Err: err}
	}

	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "watcher":
		if b.app.watcher != nil {
			_ = b.app.watcher.Close()
			b.app.watcher = nil
		}
	case "store":
		if b.app.store != nil {
			b.app.store.Close()
			b.app.store = nil
		}
	}
}
