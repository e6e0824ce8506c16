package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileNotFound indicates an explicitly named config file does not exist.
var ErrFileNotFound = errors.New("config file not found")

// ValidationErrorCode categorizes validation errors.
type ValidationErrorCode uint8

const (
	// ErrCodeOutOfRange indicates a numeric value is out of range.
	ErrCodeOutOfRange ValidationErrorCode = iota
	// ErrCodeInvalidEnum indicates the value is not one of the allowed names.
	ErrCodeInvalidEnum
	// ErrCodeRequiredMissing indicates a required setting is missing.
	ErrCodeRequiredMissing
)

// String returns a name for the error code.
func (c ValidationErrorCode) String() string {
	switch c {
	case ErrCodeOutOfRange:
		return "out_of_range"
	case ErrCodeInvalidEnum:
		return "invalid_enum"
	case ErrCodeRequiredMissing:
		return "required_missing"
	default:
		return "unknown"
	}
}

// ValidationError describes one invalid setting.
type ValidationError struct {
	// Path is the setting key, such as "tracing.exporter".
	Path    string
	Message string
	Value   any
	Code    ValidationErrorCode
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting of a Config.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) add(path string, code ValidationErrorCode, value any, format string, args ...any) {
	e.Errors = append(e.Errors, &ValidationError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Value:   value,
		Code:    code,
	})
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Unwrap exposes each ValidationError to errors.As.
func (e *ValidationErrors) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err
	}
	return out
}

// Field returns the error for a setting path, or nil.
func (e *ValidationErrors) Field(path string) *ValidationError {
	for _, err := range e.Errors {
		if err.Path == path {
			return err
		}
	}
	return nil
}
