package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/pauseclick/internal/config/layer"
	"github.com/dshills/pauseclick/internal/config/loader"
	"github.com/dshills/pauseclick/internal/config/notify"
)

func TestStore_Defaults(t *testing.T) {
	s := NewStore()

	if got := s.GetInt(KeyMouseButton); got != 1 {
		t.Errorf("GetInt(mouse-button) = %d, want 1", got)
	}
	if got := s.GetInt(KeyDoubleClickDelay); got != 300 {
		t.Errorf("GetInt(double-click-delay) = %d, want 300", got)
	}
	if !s.GetBool(KeyDisplayIcon) {
		t.Error("GetBool(display-icon) = false, want true")
	}
	if s.GetBool(KeyIgnoreDoubleClick) {
		t.Error("GetBool(ignore-double-click) = true, want false")
	}
	if got := s.GetString(KeyDoubleClickDelay); got != "300" {
		t.Errorf("GetString(double-click-delay) = %q, want \"300\"", got)
	}
}

func TestStore_LayerPrecedence(t *testing.T) {
	s := NewStore()

	if err := s.SetLayer(layer.SourceFile, "p.toml", map[string]any{KeyDoubleClickDelay: int64(400)}); err != nil {
		t.Fatal(err)
	}
	if got := s.GetInt(KeyDoubleClickDelay); got != 400 {
		t.Fatalf("file layer: delay = %d, want 400", got)
	}

	if err := s.SetLayer(layer.SourceEnv, "", map[string]any{KeyDoubleClickDelay: int64(500)}); err != nil {
		t.Fatal(err)
	}
	if got := s.GetInt(KeyDoubleClickDelay); got != 500 {
		t.Fatalf("env layer: delay = %d, want 500", got)
	}

	if err := s.Set(KeyDoubleClickDelay, 600); err != nil {
		t.Fatal(err)
	}
	_, from, err := s.Lookup(KeyDoubleClickDelay)
	if err != nil || from != layer.SourceOverride {
		t.Errorf("Lookup source = %v (%v), want override", from, err)
	}
	if got := s.GetInt(KeyDoubleClickDelay); got != 600 {
		t.Fatalf("override: delay = %d, want 600", got)
	}

	s.Unset(KeyDoubleClickDelay)
	if got := s.GetInt(KeyDoubleClickDelay); got != 500 {
		t.Errorf("after Unset: delay = %d, want 500", got)
	}
}

func TestStore_WrongTypeFallsThrough(t *testing.T) {
	s := NewStore()

	err := s.SetLayer(layer.SourceFile, "", map[string]any{
		KeyIgnoreDoubleClick: "sometimes",
		KeyMouseButton:       true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if s.GetBool(KeyIgnoreDoubleClick) {
		t.Error("wrong-typed bool should fall back to default false")
	}
	if got := s.GetInt(KeyMouseButton); got != 1 {
		t.Errorf("wrong-typed int = %d, want default 1", got)
	}
}

func TestStore_DelayClampedOnRead(t *testing.T) {
	tests := []struct {
		raw  any
		want int64
	}{
		{int64(5), MinDoubleClickDelayMs},
		{int64(99999), MaxDoubleClickDelayMs},
		{"250", 250},
		{float64(120), 120},
	}

	for _, tt := range tests {
		s := NewStore()
		if err := s.SetLayer(layer.SourceFile, "", map[string]any{KeyDoubleClickDelay: tt.raw}); err != nil {
			t.Fatal(err)
		}
		if got := s.GetInt(KeyDoubleClickDelay); got != tt.want {
			t.Errorf("delay from %v = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestStore_ButtonsNotClamped(t *testing.T) {
	s := NewStore()
	if err := s.SetLayer(layer.SourceFile, "", map[string]any{KeyFullscreenToggleMouseButton: int64(42)}); err != nil {
		t.Fatal(err)
	}
	if got := s.GetInt(KeyFullscreenToggleMouseButton); got != 42 {
		t.Errorf("button index = %d, want raw 42", got)
	}
}

func TestStore_SetValidates(t *testing.T) {
	s := NewStore()

	tests := []struct {
		name  string
		key   string
		value any
		want  error
	}{
		{"unknown key", "pause-click-nope", 1, ErrUnknownSetting},
		{"bool for int", KeyMouseButton, true, ErrTypeMismatch},
		{"delay below range", KeyDoubleClickDelay, 10, ErrOutOfRange},
		{"delay above range", KeyDoubleClickDelay, 6000, ErrOutOfRange},
		{"button not a choice", KeyMouseButton, 8, ErrInvalidChoice},
		{"word for bool", KeyDisplayIcon, "maybe", ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Set(tt.key, tt.value); !errors.Is(err, tt.want) {
				t.Errorf("Set(%s, %v) = %v, want %v", tt.key, tt.value, err, tt.want)
			}
		})
	}

	if err := s.Set(KeyMouseButton, 0); err != nil {
		t.Errorf("Set(mouse-button, none) = %v, want nil", err)
	}
	if err := s.Set(KeyDisplayIcon, "off"); err != nil {
		t.Errorf("Set(display-icon, off) = %v", err)
	}
	if s.GetBool(KeyDisplayIcon) {
		t.Error("display-icon should be false after Set(\"off\")")
	}
}

func TestStore_UnknownKeys(t *testing.T) {
	s := NewStore()

	if _, _, err := s.Lookup("nope"); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("Lookup(nope) error = %v, want ErrUnknownSetting", err)
	}
	if s.GetString("nope") != "" || s.GetInt("nope") != 0 || s.GetBool("nope") {
		t.Error("unknown key should read as zero values")
	}

	if err := s.SetLayer(layer.SourceFile, "", map[string]any{"custom-note": "hi"}); err != nil {
		t.Fatal(err)
	}
	if got := s.GetString("custom-note"); got != "hi" {
		t.Errorf("GetString(custom-note) = %q, want raw layer value", got)
	}
}

func TestStore_DefaultLayerReadOnly(t *testing.T) {
	s := NewStore()
	if err := s.SetLayer(layer.SourceDefault, "", nil); err == nil {
		t.Error("SetLayer(default) should fail")
	}
}

func TestStore_Notifications(t *testing.T) {
	s := NewStore()
	defer s.Close()

	var changes []notify.Change
	s.Subscribe(func(c notify.Change) { changes = append(changes, c) })

	var delayChanges int
	s.SubscribeKey(KeyDoubleClickDelay, func(c notify.Change) {
		if c.Key == KeyDoubleClickDelay {
			delayChanges++
		}
	})

	if err := s.Set(KeyDoubleClickDelay, 450); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 || changes[0].Type != notify.ChangeSet || changes[0].NewValue != int64(450) {
		t.Fatalf("changes after Set = %+v", changes)
	}

	// Setting the same value again is not a change.
	if err := s.Set(KeyDoubleClickDelay, 450); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 {
		t.Errorf("repeated Set produced %d changes", len(changes))
	}

	// File layer shadowed by the override: no visible change.
	if err := s.SetLayer(layer.SourceFile, "", map[string]any{KeyDoubleClickDelay: int64(700)}); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 {
		t.Errorf("shadowed file change produced notifications: %+v", changes[1:])
	}

	s.Unset(KeyDoubleClickDelay)
	last := changes[len(changes)-1]
	if last.Type != notify.ChangeDelete || last.NewValue != int64(700) {
		t.Errorf("Unset change = %+v, want delete revealing 700", last)
	}
	if delayChanges != 2 {
		t.Errorf("key observer saw %d delay changes, want 2", delayChanges)
	}
}

func TestStore_SetLayerMigratesLegacyButton(t *testing.T) {
	s := NewStore()

	if err := s.SetLayer(layer.SourceFile, "", map[string]any{LegacyKeyMouseButton: "C"}); err != nil {
		t.Fatal(err)
	}
	if got := s.GetInt(KeyMouseButton); got != 3 {
		t.Errorf("migrated mouse-button = %d, want 3 (right)", got)
	}
	if _, ok := s.Layer(layer.SourceFile).Data[LegacyKeyMouseButton]; ok {
		t.Error("legacy key should be dropped from the layer")
	}
}

func TestStore_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pauseclick.toml")
	content := `
[pause-click]
mouse-button = 2
enable-double-click-delay = true
double-click-delay = 250
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	if err := s.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	got := Resolve(s)
	if got.PrimaryButton.Index() != 2 || !got.DelayEnabled || got.Delay.Milliseconds() != 250 {
		t.Errorf("Resolve after LoadFile = %s", got)
	}
	if s.Layer(layer.SourceFile).Path != path {
		t.Errorf("file layer path = %q", s.Layer(layer.SourceFile).Path)
	}
}

func TestStore_LoadFileMissing(t *testing.T) {
	s := NewStore()
	if err := s.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Errorf("LoadFile(missing) = %v, want nil", err)
	}
	if got := s.GetInt(KeyMouseButton); got != 1 {
		t.Errorf("mouse-button = %d, want default", got)
	}
}

func TestStore_LoadFileParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[pause-click\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	var pe *loader.ParseError
	if err := s.LoadFile(path); !errors.As(err, &pe) {
		t.Errorf("LoadFile(broken) = %v, want *loader.ParseError", err)
	}
}

func TestStore_LoadEnvFrom(t *testing.T) {
	s := NewStore()
	env := loader.NewEnvLoaderFrom(loader.DefaultEnvPrefix, Prefix, []string{
		"PAUSECLICK_IGNORE_DOUBLE_CLICK=on",
		"PAUSECLICK_CONTEXT_MENU_TOGGLE_MOUSE_BUTTON=2",
	})

	if err := s.LoadEnvFrom(env); err != nil {
		t.Fatal(err)
	}
	if !s.GetBool(KeyIgnoreDoubleClick) {
		t.Error("ignore-double-click should be true from env")
	}
	if got := s.GetInt(KeyContextMenuToggleMouseButton); got != 2 {
		t.Errorf("context-menu-toggle-mouse-button = %d, want 2", got)
	}
}

func TestStore_Values(t *testing.T) {
	s := NewStore()
	values := s.Values()
	if len(values) != len(s.Registry().All()) {
		t.Errorf("Values() has %d keys, want %d", len(values), len(s.Registry().All()))
	}
	if values[KeyDisplayIcon] != true {
		t.Errorf("Values()[display-icon] = %v", values[KeyDisplayIcon])
	}
}
