package plugin

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/pauseclick/internal/config"
)

func TestNewManifest(t *testing.T) {
	m := NewManifest(nil)

	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if m.Name != Name || m.Version != Version {
		t.Errorf("identity = %s %s", m.Name, m.Version)
	}
	if len(m.Submodules) != 2 {
		t.Fatalf("Submodules = %v", m.Submodules)
	}
	if m.Submodules[0].Capability != CapabilityVideoFilter || m.Submodules[1].Capability != CapabilityInterface {
		t.Errorf("capabilities = %v", m.Submodules)
	}

	reg := config.NewDefaultRegistry()
	if got, want := m.SettingCount(), len(reg.All()); got != want {
		t.Errorf("SettingCount() = %d, want %d", got, want)
	}
	if got, want := len(m.Sections), len(reg.Sections()); got != want {
		t.Errorf("len(Sections) = %d, want %d", got, want)
	}
}

func TestManifestJSON(t *testing.T) {
	data, err := NewManifest(nil).JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var decoded struct {
		Name       string `json:"name"`
		Submodules []struct {
			Capability string `json:"capability"`
		} `json:"submodules"`
		Sections []struct {
			Name     string `json:"name"`
			Settings []struct {
				Key  string `json:"key"`
				Type string `json:"type"`
			} `json:"settings"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.Name != Name {
		t.Errorf("name = %q", decoded.Name)
	}
	if len(decoded.Submodules) != 2 || decoded.Submodules[0].Capability != "video filter" {
		t.Errorf("submodules = %+v", decoded.Submodules)
	}

	found := false
	for _, sec := range decoded.Sections {
		for _, s := range sec.Settings {
			if s.Key == config.KeyDoubleClickDelay {
				found = true
				if s.Type != "integer" {
					t.Errorf("%s type = %q, want integer", s.Key, s.Type)
				}
			}
		}
	}
	if !found {
		t.Errorf("%s missing from manifest JSON", config.KeyDoubleClickDelay)
	}
}

func TestManifestValidate(t *testing.T) {
	delay, _ := config.NewDefaultRegistry().Lookup(config.KeyDoubleClickDelay)

	tests := []struct {
		name   string
		modify func(*Manifest)
		want   error
	}{
		{"valid", func(*Manifest) {}, nil},
		{"missing name", func(m *Manifest) { m.Name = "" }, ErrMissingName},
		{"invalid name", func(m *Manifest) { m.Name = "Pause Click" }, ErrInvalidName},
		{"missing version", func(m *Manifest) { m.Version = "" }, ErrMissingVersion},
		{"invalid version", func(m *Manifest) { m.Version = "2.2" }, ErrInvalidVersion},
		{"no submodules", func(m *Manifest) { m.Submodules = nil }, ErrNoSubmodules},
		{"duplicate setting", func(m *Manifest) {
			m.Sections = append(m.Sections, Section{Name: "extra", Settings: []*config.Setting{delay}})
		}, ErrDuplicateSetting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManifest(nil)
			tt.modify(m)
			err := m.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestManifestText(t *testing.T) {
	text := NewManifest(nil).Text()

	for _, want := range []string{ShortName, Version, string(CapabilityInterface), config.KeyIgnoreDoubleClick} {
		if !strings.Contains(text, want) {
			t.Errorf("Text() missing %q", want)
		}
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateError, "error"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
	if !StateOpen.IsUsable() || StateClosed.IsUsable() || StateError.IsUsable() {
		t.Error("only StateOpen is usable")
	}
}
