package theme

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/recolor/internal/lexer"
)

// Format is a theme file format.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// file is the on-disk theme layout:
//
//	name = "mine"
//	base = "default"
//
//	[styles.comment]
//	foreground = "#008000"
//	italic = true
//	darken = 0.2
type file struct {
	Name   string               `toml:"name" yaml:"name"`
	Base   string               `toml:"base" yaml:"base"`
	Styles map[string]fileStyle `toml:"styles" yaml:"styles"`
}

type fileStyle struct {
	Foreground string  `toml:"foreground" yaml:"foreground"`
	Background string  `toml:"background" yaml:"background"`
	Bold       *bool   `toml:"bold" yaml:"bold"`
	Italic     *bool   `toml:"italic" yaml:"italic"`
	Darken     float64 `toml:"darken" yaml:"darken"`
}

// Resolve returns the built-in theme called nameOrPath, or loads it as a
// file when no built-in has that name.
func Resolve(nameOrPath string) (*Record, error) {
	if nameOrPath == "" {
		return Default(), nil
	}
	if fn, ok := builtins[nameOrPath]; ok {
		return fn(), nil
	}
	return Load(nameOrPath)
}

// Load reads a TOML or YAML theme file.
func Load(path string) (*Record, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, &ParseError{Path: path, Err: ErrUnsupportedFormat}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	r, err := Parse(data, format)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
			return nil, pe
		}
		return nil, err
	}
	if r.name == "" {
		r.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return r, nil
}

// Parse decodes theme data. Entries override the base theme, which is the
// default theme unless the file names another built-in.
func Parse(data []byte, format Format) (*Record, error) {
	var f file
	var err error
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&f)
	default:
		return nil, &ParseError{Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)}
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	base := Default()
	if f.Base != "" {
		if base, err = Builtin(f.Base); err != nil {
			return nil, &ParseError{Entry: "base", Err: err}
		}
	}
	r := base.with(f.Name)

	for name, fs := range f.Styles {
		c := lexer.Category(name)
		if !c.IsKnown() {
			return nil, &ParseError{Entry: name, Err: ErrUnknownCategory}
		}
		a, err := fs.apply(r.Lookup(c))
		if err != nil {
			return nil, &ParseError{Entry: name, Err: err}
		}
		r.styles[c] = a
	}
	return r, nil
}

func (fs fileStyle) apply(a Attributes) (Attributes, error) {
	if fs.Foreground != "" {
		c, err := ParseColor(fs.Foreground)
		if err != nil {
			return a, fmt.Errorf("foreground: %w", err)
		}
		a.Foreground = c
	}
	if fs.Background != "" {
		c, err := ParseColor(fs.Background)
		if err != nil {
			return a, fmt.Errorf("background: %w", err)
		}
		a.Background = c
	}
	if fs.Bold != nil {
		a.Bold = *fs.Bold
	}
	if fs.Italic != nil {
		a.Italic = *fs.Italic
	}
	if fs.Darken != 0 {
		a.Foreground = darken(a.Foreground, fs.Darken)
	}
	return a, nil
}
