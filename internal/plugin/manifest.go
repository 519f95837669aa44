package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/pauseclick/internal/config"
)

// Module metadata.
const (
	Name        = "pause_click"
	ShortName   = "Pause click"
	Description = "Pause/Play video on mouse click"
	Version     = "2.2.0-dev"
	Author      = "Maxim Biro (nurupo)"
	Copyright   = "(C) 2014-2023 Maxim Biro (nurupo)"
	License     = "LGPL-2.1-or-later"
	Homepage    = "https://github.com/nurupo/vlc-pause-click-plugin"
)

// Capability names a host extension point a sub-module registers under.
type Capability string

// Capabilities the module registers.
const (
	CapabilityVideoFilter Capability = "video filter"
	CapabilityInterface   Capability = "interface"
)

// Submodule describes one registered sub-module.
type Submodule struct {
	Capability Capability `json:"capability"`
	Name       string     `json:"name"`
}

// Section is a named group of settings.
type Section struct {
	Name     string            `json:"name"`
	Settings []*config.Setting `json:"settings"`
}

// Manifest describes the module to a host.
type Manifest struct {
	Name        string      `json:"name"`
	ShortName   string      `json:"shortName"`
	Description string      `json:"description"`
	Help        string      `json:"help"`
	Version     string      `json:"version"`
	Author      string      `json:"author"`
	Copyright   string      `json:"copyright"`
	License     string      `json:"license"`
	Homepage    string      `json:"homepage"`
	Submodules  []Submodule `json:"submodules"`
	Sections    []Section   `json:"sections"`
}

// Validation errors.
var (
	ErrMissingName      = errors.New("manifest: name is required")
	ErrInvalidName      = errors.New("manifest: name must be lowercase alphanumeric with underscores")
	ErrMissingVersion   = errors.New("manifest: version is required")
	ErrInvalidVersion   = errors.New("manifest: version must be valid semver")
	ErrNoSubmodules     = errors.New("manifest: at least one submodule is required")
	ErrDuplicateSetting = errors.New("manifest: setting listed twice")
)

// namePattern validates module names.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

// semverPattern validates version strings (simplified semver).
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// NewManifest builds the manifest with settings taken from reg. A nil
// registry uses the default one.
func NewManifest(reg *config.Registry) *Manifest {
	if reg == nil {
		reg = config.NewDefaultRegistry()
	}

	m := &Manifest{
		Name:        Name,
		ShortName:   ShortName,
		Description: Description,
		Help:        Help(),
		Version:     Version,
		Author:      Author,
		Copyright:   Copyright,
		License:     License,
		Homepage:    Homepage,
		Submodules: []Submodule{
			{Capability: CapabilityVideoFilter, Name: Name},
			{Capability: CapabilityInterface, Name: Name + "_interface"},
		},
	}
	for _, name := range reg.Sections() {
		m.Sections = append(m.Sections, Section{Name: name, Settings: reg.Section(name)})
	}
	return m
}

// Help returns the module help text.
func Help() string {
	return fmt.Sprintf("%s\n\nVersion %s\n%s\n%s", Description, Version, Copyright, Homepage)
}

// Validate checks the manifest for required fields and valid values.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return ErrMissingName
	}
	if !namePattern.MatchString(m.Name) {
		return ErrInvalidName
	}
	if m.Version == "" {
		return ErrMissingVersion
	}
	if !semverPattern.MatchString(m.Version) {
		return ErrInvalidVersion
	}
	if len(m.Submodules) == 0 {
		return ErrNoSubmodules
	}

	seen := make(map[string]bool)
	for _, sec := range m.Sections {
		for _, s := range sec.Settings {
			if seen[s.Key] {
				return fmt.Errorf("%w: %s", ErrDuplicateSetting, s.Key)
			}
			seen[s.Key] = true
		}
	}
	return nil
}

// SettingCount returns the number of settings across all sections.
func (m *Manifest) SettingCount() int {
	n := 0
	for _, sec := range m.Sections {
		n += len(sec.Settings)
	}
	return n
}

// JSON renders the manifest as indented JSON.
func (m *Manifest) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Text renders the manifest the way a host's module list shows it.
func (m *Manifest) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) %s\n", m.ShortName, m.Name, m.Version)
	fmt.Fprintf(&b, "%s\n", m.Description)
	for _, sub := range m.Submodules {
		fmt.Fprintf(&b, "  capability: %s (%s)\n", sub.Capability, sub.Name)
	}
	for _, sec := range m.Sections {
		fmt.Fprintf(&b, "\n[%s]\n", sec.Name)
		for _, s := range sec.Settings {
			fmt.Fprintf(&b, "  %s = %v\n      %s\n", s.Key, s.Default, s.Text)
		}
	}
	return b.String()
}
