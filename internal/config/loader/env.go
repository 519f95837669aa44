package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of environment variables read by
// NewEnvLoader callers that have no better choice.
const DefaultEnvPrefix = "PAUSECLICK_"

// EnvLoader loads configuration from environment variables.
//
// PAUSECLICK_DOUBLE_CLICK_DELAY=250 becomes the key
// "pause-click-double-click-delay" with the value int64(250).
type EnvLoader struct {
	prefix    string // Environment variable prefix (e.g., "PAUSECLICK_")
	keyPrefix string // Setting key prefix (e.g., "pause-click-")
	environ   func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix, keyPrefix string) *EnvLoader {
	return &EnvLoader{
		prefix:    prefix,
		keyPrefix: keyPrefix,
		environ:   os.Environ,
	}
}

// NewEnvLoaderFrom creates a loader that reads from a fixed environment
// instead of the process environment.
func NewEnvLoaderFrom(prefix, keyPrefix string, environ []string) *EnvLoader {
	l := NewEnvLoader(prefix, keyPrefix)
	l.environ = func() []string { return environ }
	return l
}

// Load reads environment variables and returns a flat configuration map.
// Empty values are skipped.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		name, value, ok := strings.Cut(env, "=")
		if !ok || value == "" {
			continue
		}

		key := l.EnvToKey(name)
		if key == l.keyPrefix {
			continue
		}
		config[key] = ParseValue(value)
	}

	return config, nil
}

// EnvToKey converts PAUSECLICK_FS_TOGGLE_MOUSE_BUTTON to
// pause-click-fs-toggle-mouse-button.
func (l *EnvLoader) EnvToKey(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	name = strings.ToLower(strings.ReplaceAll(name, "_", "-"))
	return l.keyPrefix + name
}

// KeyToEnv is the inverse of EnvToKey.
func (l *EnvLoader) KeyToEnv(key string) string {
	name := strings.TrimPrefix(key, l.keyPrefix)
	return l.prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// ParseValue attempts to parse the string value into an appropriate type.
// Integers are tried before booleans so that button indices such as "1"
// stay numeric.
func ParseValue(s string) any {
	if s == "" {
		return s
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	return s
}
