package theme

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTheme is returned when a built-in theme name is not found.
	ErrUnknownTheme = errors.New("unknown theme")

	// ErrUnsupportedFormat is returned for a theme file that is neither
	// TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported theme format")

	// ErrUnknownCategory is returned for a style entry whose name is not a
	// token category.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrBadColor is returned for a color that is neither a known name nor
	// #rrggbb.
	ErrBadColor = errors.New("bad color")
)

// ParseError describes a problem in a theme file.
type ParseError struct {
	Path  string
	Entry string
	Err   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("theme %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("theme %s: %s: %v", e.Path, e.Entry, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
