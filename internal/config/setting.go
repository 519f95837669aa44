package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SettingType represents the data type of a setting.
type SettingType uint8

const (
	// TypeInt represents an integer value.
	TypeInt SettingType = iota
	// TypeBool represents a boolean value.
	TypeBool
	// TypeString represents a string value.
	TypeString
)

// String returns the string representation of the type.
func (t SettingType) String() string {
	switch t {
	case TypeInt:
		return "integer"
	case TypeBool:
		return "boolean"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Choice is one entry of an enumerated integer setting.
type Choice struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

// Setting defines a configuration setting with its metadata.
type Setting struct {
	// Key is the full setting name (e.g., "pause-click-mouse-button").
	Key string `json:"key"`

	// Type is the setting's data type.
	Type SettingType `json:"-"`

	// Default is the default value (int64, bool or string).
	Default any `json:"default"`

	// Section is the preference section the setting is listed under.
	Section string `json:"section"`

	// Text is the short label.
	Text string `json:"text"`

	// LongText is the help text.
	LongText string `json:"longText,omitempty"`

	// Min and Max bound integer settings. Reads clamp to this range.
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`

	// Choices lists allowed values for enumerated integer settings. Reads do
	// not enforce choices; the snapshot decides what an unknown value means.
	Choices []Choice `json:"choices,omitempty"`
}

// MarshalJSON renders the type by name.
func (s Setting) MarshalJSON() ([]byte, error) {
	type plain Setting
	return json.Marshal(struct {
		plain
		Type string `json:"type"`
	}{plain(s), s.Type.String()})
}

// Validate checks if a value is valid for this setting and returns it in the
// canonical Go type (int64, bool or string).
func (s *Setting) Validate(value any) (any, error) {
	switch s.Type {
	case TypeInt:
		i, ok := toInt(value)
		if !ok {
			return nil, &ValidationError{Key: s.Key, Value: value, Err: ErrTypeMismatch, Detail: "expected integer"}
		}
		if s.Min != nil && i < *s.Min || s.Max != nil && i > *s.Max {
			return nil, &ValidationError{Key: s.Key, Value: value, Err: ErrOutOfRange, Detail: s.rangeString()}
		}
		if len(s.Choices) > 0 && !s.hasChoice(i) {
			return nil, &ValidationError{Key: s.Key, Value: value, Err: ErrInvalidChoice}
		}
		return i, nil

	case TypeBool:
		b, ok := toBool(value)
		if !ok {
			return nil, &ValidationError{Key: s.Key, Value: value, Err: ErrTypeMismatch, Detail: "expected boolean"}
		}
		return b, nil

	case TypeString:
		str, ok := value.(string)
		if !ok {
			return nil, &ValidationError{Key: s.Key, Value: value, Err: ErrTypeMismatch, Detail: "expected string"}
		}
		return str, nil
	}

	return nil, &ValidationError{Key: s.Key, Value: value, Err: ErrTypeMismatch}
}

// Clamp bounds i to the setting's range.
func (s *Setting) Clamp(i int64) int64 {
	if s.Min != nil && i < *s.Min {
		return *s.Min
	}
	if s.Max != nil && i > *s.Max {
		return *s.Max
	}
	return i
}

func (s *Setting) hasChoice(i int64) bool {
	for _, c := range s.Choices {
		if c.Value == i {
			return true
		}
	}
	return false
}

func (s *Setting) rangeString() string {
	var b strings.Builder
	b.WriteString("allowed range ")
	if s.Min != nil {
		fmt.Fprintf(&b, "%d", *s.Min)
	}
	b.WriteString("..")
	if s.Max != nil {
		fmt.Fprintf(&b, "%d", *s.Max)
	}
	return b.String()
}

// Int64 creates a pointer to an int64 for use as Min or Max.
func Int64(v int64) *int64 {
	return &v
}

// toInt converts the numeric types config decoders produce to int64.
// Floats are accepted only when integral.
func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		if f, err := v.Float64(); err == nil {
			return floatToInt(f)
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// toBool accepts booleans, 0/1 integers and the usual words.
func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true, true
		case "false", "no", "off", "0":
			return false, true
		}
		return false, false
	}
	if i, ok := toInt(value); ok && (i == 0 || i == 1) {
		return i == 1, true
	}
	return false, false
}
