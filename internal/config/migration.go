package config

import (
	"fmt"
	"strings"
)

// LegacyKeyMouseButton is the key the 2.2-era plugin stored the primary
// button under. Its value is a single letter, 'A' for the left button,
// 'B' for middle and so on.
const LegacyKeyMouseButton = "mouse-button-setting"

// Migration rewrites obsolete keys in a flattened configuration layer.
type Migration struct {
	// Name identifies the migration in results and logs.
	Name string

	// Description describes what the migration does.
	Description string

	// Applies reports whether data still carries the obsolete form.
	Applies func(data map[string]any) bool

	// Migrate performs the migration on the configuration data.
	Migrate func(data map[string]any) (map[string]any, error)
}

// MigrationResult contains the result of a single migration.
type MigrationResult struct {
	Name        string
	Description string
	Success     bool
	Error       error
}

// Migrator applies registered migrations in registration order.
type Migrator struct {
	migrations []Migration
}

// NewMigrator creates an empty Migrator.
func NewMigrator() *Migrator {
	return &Migrator{}
}

// Register adds a migration to the migrator.
func (m *Migrator) Register(migration Migration) {
	m.migrations = append(m.migrations, migration)
}

// NeedsMigration checks if any migration applies to data.
func (m *Migrator) NeedsMigration(data map[string]any) bool {
	for _, mig := range m.migrations {
		if mig.Applies(data) {
			return true
		}
	}
	return false
}

// Migrate runs every applicable migration. On failure the original data is
// returned together with the results gathered so far.
func (m *Migrator) Migrate(data map[string]any) (map[string]any, []MigrationResult, error) {
	var results []MigrationResult
	original := data

	for _, mig := range m.migrations {
		if !mig.Applies(data) {
			continue
		}

		migrated, err := mig.Migrate(data)
		result := MigrationResult{Name: mig.Name, Description: mig.Description}
		if err != nil {
			result.Error = err
			results = append(results, result)
			return original, results, fmt.Errorf("migration %s failed: %w", mig.Name, err)
		}

		result.Success = true
		results = append(results, result)
		data = migrated
	}

	return data, results, nil
}

// DefaultMigrator returns a migrator with every known migration registered.
func DefaultMigrator() *Migrator {
	m := NewMigrator()
	m.Register(LegacyMouseButtonMigration())
	return m
}

// LegacyMouseButtonMigration converts the letter-coded primary button into
// the index form. The legacy key is always dropped; it is only converted
// when the layer does not already set the new key.
func LegacyMouseButtonMigration() Migration {
	return Migration{
		Name:        "legacy-mouse-button",
		Description: "convert " + LegacyKeyMouseButton + " to " + KeyMouseButton,
		Applies: func(data map[string]any) bool {
			_, ok := data[LegacyKeyMouseButton]
			return ok
		},
		Migrate: func(data map[string]any) (map[string]any, error) {
			legacy := data[LegacyKeyMouseButton]
			out := make(map[string]any, len(data))
			for k, v := range data {
				if k != LegacyKeyMouseButton {
					out[k] = v
				}
			}

			if _, ok := out[KeyMouseButton]; ok {
				return out, nil
			}

			s, ok := legacy.(string)
			if !ok {
				return nil, &ValidationError{Key: LegacyKeyMouseButton, Value: legacy, Err: ErrTypeMismatch, Detail: "expected string"}
			}
			idx, err := LegacyButtonIndex(s)
			if err != nil {
				return nil, err
			}
			out[KeyMouseButton] = idx
			return out, nil
		},
	}
}

// LegacyButtonIndex decodes a letter-coded button ("A" is left) to its
// configuration index (1 is left).
func LegacyButtonIndex(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return 0, &ValidationError{Key: LegacyKeyMouseButton, Value: s, Err: ErrInvalidChoice, Detail: "empty value"}
	}

	idx := int64(s[0]-'A') + 1
	if s[0] < 'A' || idx > MaxButtonIndex {
		return 0, &ValidationError{Key: LegacyKeyMouseButton, Value: s, Err: ErrInvalidChoice}
	}
	return idx, nil
}
