package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownSetting indicates the key is not in the registry.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrOutOfRange indicates a numeric value outside the setting's range.
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidChoice indicates a value that is not one of the allowed choices.
	ErrInvalidChoice = errors.New("invalid choice")
)

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Key is the setting key that failed validation.
	Key string
	// Value is the invalid value.
	Value any
	// Err is one of the sentinel errors above.
	Err error
	// Detail adds context to Err.
	Detail string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s (got %v)", e.Key, e.Err, e.Detail, e.Value)
	}
	return fmt.Sprintf("%s: %v (got %v)", e.Key, e.Err, e.Value)
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
