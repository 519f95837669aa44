package config

import (
	"fmt"
	"strconv"

	"github.com/dshills/pauseclick/internal/config/layer"
	"github.com/dshills/pauseclick/internal/config/loader"
	"github.com/dshills/pauseclick/internal/config/notify"
	"github.com/dshills/pauseclick/internal/logging"
)

// Source is the read side of the configuration the classifier depends on.
// Every call is a fresh read; implementations must never fail.
type Source interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
}

// Store resolves settings through the default, file, env and override
// layers.
type Store struct {
	registry *Registry
	layers   *layer.Stack
	notifier *notify.Notifier
	migrator *Migrator
	logger   *logging.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for skipped or migrated values.
func WithLogger(l *logging.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// WithRegistry replaces the default registry.
func WithRegistry(r *Registry) StoreOption {
	return func(s *Store) {
		s.registry = r
	}
}

// WithMigrator replaces the default migrator.
func WithMigrator(m *Migrator) StoreOption {
	return func(s *Store) {
		s.migrator = m
	}
}

// NewStore creates a Store whose default layer is filled from the registry.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		layers:   layer.NewStack(),
		notifier: notify.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = NewDefaultRegistry()
	}
	if s.migrator == nil {
		s.migrator = DefaultMigrator()
	}
	s.logger = logging.OrNull(s.logger).WithComponent("config")

	s.layers.Replace(layer.NewWithData(layer.SourceDefault, "", s.registry.Defaults()))
	return s
}

// Registry returns the setting definitions the store resolves against.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Lookup returns the resolved value of key and the layer it came from.
// Unknown keys resolve to the raw value of the highest layer that holds
// them; ErrUnknownSetting is returned only when no layer does.
func (s *Store) Lookup(key string) (any, layer.Source, error) {
	setting, known := s.registry.Lookup(key)

	var (
		value any
		from  layer.Source
		found bool
	)
	s.layers.Walk(key, func(src layer.Source, raw any) bool {
		if !known {
			value, from, found = raw, src, true
			return false
		}
		v, ok := coerce(setting, raw)
		if !ok {
			return true
		}
		value, from, found = v, src, true
		return false
	})

	if found {
		return value, from, nil
	}
	if known {
		return setting.Default, layer.SourceDefault, nil
	}
	return nil, layer.SourceDefault, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
}

// Get returns the resolved value of key, or nil.
func (s *Store) Get(key string) any {
	v, _, _ := s.Lookup(key)
	return v
}

// GetInt implements Source. Non-integer values read as 0.
func (s *Store) GetInt(key string) int64 {
	i, _ := toInt(s.Get(key))
	return i
}

// GetBool implements Source. Non-boolean values read as false.
func (s *Store) GetBool(key string) bool {
	b, _ := toBool(s.Get(key))
	return b
}

// GetString implements Source. Non-string values are formatted.
func (s *Store) GetString(key string) string {
	switch v := s.Get(key).(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Set validates value and writes it to the override layer.
func (s *Store) Set(key string, value any) error {
	setting, ok := s.registry.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	canonical, err := setting.Validate(value)
	if err != nil {
		return err
	}

	old := s.Get(key)
	s.layers.Put(layer.SourceOverride, key, canonical)
	if now := s.Get(key); now != old {
		s.notifier.NotifySet(key, old, now, layer.SourceOverride.String())
	}
	return nil
}

// Unset removes key from the override layer.
func (s *Store) Unset(key string) {
	old := s.Get(key)
	if !s.layers.Delete(layer.SourceOverride, key) {
		return
	}
	if now := s.Get(key); now != old {
		s.notifier.NotifyDelete(key, old, now, layer.SourceOverride.String())
	}
}

// SetLayer replaces the file or env layer with data. Legacy keys are
// migrated first. Values that would be skipped at read time are logged.
func (s *Store) SetLayer(source layer.Source, path string, data map[string]any) error {
	if source == layer.SourceDefault {
		return fmt.Errorf("default layer is read-only")
	}

	if s.migrator.NeedsMigration(data) {
		migrated, results, err := s.migrator.Migrate(data)
		if err != nil {
			return err
		}
		for _, r := range results {
			s.logger.Info("migrated %s layer: %s", source, r.Description)
		}
		data = migrated
	}

	for key, raw := range data {
		setting, ok := s.registry.Lookup(key)
		if !ok {
			s.logger.Debug("%s layer sets unknown key %s", source, key)
			continue
		}
		if _, ok := coerce(setting, raw); !ok {
			s.logger.Warn("ignoring %s from %s layer: expected %s, got %v", key, source, setting.Type, raw)
		}
	}

	before := s.resolvedAll()
	s.layers.Replace(layer.NewWithData(source, path, data))
	after := s.resolvedAll()

	batch := s.notifier.NewBatch()
	for key, now := range after {
		if old := before[key]; old != now {
			batch.Set(key, old, now, source.String())
		}
	}
	changed := batch.Len()
	batch.Commit()
	if changed > 0 {
		s.notifier.NotifyReload(source.String())
	}
	return nil
}

// Layer returns a copy of one layer.
func (s *Store) Layer(source layer.Source) *layer.Layer {
	return s.layers.Layer(source)
}

// LoadFile parses path and installs it as the file layer. A missing file
// installs an empty layer.
func (s *Store) LoadFile(path string) error {
	l, err := loader.NewFileLoader(path)
	if err != nil {
		return err
	}
	data, err := l.Load()
	if err != nil {
		return err
	}
	if data == nil {
		s.logger.Debug("config file %s not found, using defaults", path)
	}
	return s.SetLayer(layer.SourceFile, path, data)
}

// LoadEnv installs PAUSECLICK_* variables as the env layer.
func (s *Store) LoadEnv() error {
	return s.LoadEnvFrom(loader.NewEnvLoader(loader.DefaultEnvPrefix, Prefix))
}

// LoadEnvFrom installs the values produced by l as the env layer.
func (s *Store) LoadEnvFrom(l loader.Loader) error {
	data, err := l.Load()
	if err != nil {
		return err
	}
	return s.SetLayer(layer.SourceEnv, "", data)
}

// Subscribe registers an observer for all changes.
func (s *Store) Subscribe(observer notify.Observer) *notify.Subscription {
	return s.notifier.Subscribe(observer)
}

// SubscribeKey registers an observer for one setting.
func (s *Store) SubscribeKey(key string, observer notify.Observer) *notify.Subscription {
	return s.notifier.SubscribeKey(key, observer)
}

// Values returns the resolved value of every registered setting.
func (s *Store) Values() map[string]any {
	return s.resolvedAll()
}

// Close stops change delivery.
func (s *Store) Close() {
	s.notifier.Close()
}

func (s *Store) resolvedAll() map[string]any {
	out := make(map[string]any)
	for _, setting := range s.registry.All() {
		out[setting.Key] = s.Get(setting.Key)
	}
	return out
}

// coerce converts a raw layer value to the setting's canonical type for
// reading. Integers are clamped; choices are left to the snapshot.
func coerce(setting *Setting, raw any) (any, bool) {
	switch setting.Type {
	case TypeInt:
		i, ok := toInt(raw)
		if !ok {
			return nil, false
		}
		return setting.Clamp(i), true
	case TypeBool:
		return toBool(raw)
	case TypeString:
		str, ok := raw.(string)
		return str, ok
	}
	return nil, false
}
