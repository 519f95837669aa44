package app

import (
	"errors"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "op only",
			err:      &OperationError{Op: "watch"},
			expected: "watch",
		},
		{
			name:     "op and target",
			err:      &OperationError{Op: "run", Target: "single_click.lua"},
			expected: "run single_click.lua",
		},
		{
			name:     "full error chain",
			err:      &OperationError{Op: "run", Target: "a.lua", Context: "host 3", Err: errors.New("boom")},
			expected: "run a.lua (host 3): boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestOperationError_WithContext_Nil(t *testing.T) {
	var err *OperationError
	if err.WithContext("x") != nil {
		t.Error("expected nil from nil receiver")
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	err := NewOperationError("run", "a.lua", ErrScenariosFailed)
	if !errors.Is(err, ErrScenariosFailed) {
		t.Error("errors.Is should find the wrapped sentinel")
	}
	var nilErr *OperationError
	if nilErr.Unwrap() != nil {
		t.Error("nil receiver should unwrap to nil")
	}
}

func TestInitError(t *testing.T) {
	inner := errors.New("bad file")
	err := &InitError{Component: "config", Err: inner}

	if err.Error() != "init config: bad file" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the inner error")
	}
}

func TestErrorList(t *testing.T) {
	list := NewErrorList()
	if list.AsError() != nil {
		t.Fatal("empty list should be nil error")
	}

	list.Add(nil)
	if list.HasErrors() {
		t.Fatal("nil errors should be ignored")
	}

	first := errors.New("first")
	list.Add(first)
	if list.Error() != "first" {
		t.Errorf("single error message = %q", list.Error())
	}

	list.Add(ErrClosed)
	if list.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", list.Len())
	}
	if list.Error() != "2 errors: first: first" {
		t.Errorf("combined message = %q", list.Error())
	}

	err := list.AsError()
	if !errors.Is(err, ErrClosed) || !errors.Is(err, first) {
		t.Error("errors.Is should see every collected error")
	}

	errs := list.Errors()
	errs[0] = nil
	if list.Errors()[0] == nil {
		t.Error("Errors() should return a copy")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "ctx") != nil {
		t.Error("wrapping nil should return nil")
	}
	err := WrapError(ErrNoScripts, "run %d", 3)
	if err.Error() != "run 3: no scenario scripts given" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrNoScripts) {
		t.Error("errors.Is should find the wrapped sentinel")
	}
}
