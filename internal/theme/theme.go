// Package theme maps token categories to display attributes.
//
// A Record is built once, from a built-in table or a theme file, and is
// read-only afterwards. Records render text for terminals with lipgloss.
package theme

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/recolor/internal/lexer"
)

// Attributes are the visual attributes of one category.
type Attributes struct {
	Foreground colorful.Color
	Background colorful.Color
	Bold       bool
	Italic     bool
}

// Style returns the attributes as a lipgloss style for the default
// renderer.
func (a Attributes) Style() lipgloss.Style {
	return a.StyleWith(lipgloss.DefaultRenderer())
}

// StyleWith returns the attributes as a lipgloss style bound to r.
func (a Attributes) StyleWith(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().
		Foreground(lipgloss.Color(a.Foreground.Clamped().Hex())).
		Background(lipgloss.Color(a.Background.Clamped().Hex())).
		Bold(a.Bold).
		Italic(a.Italic)
}

// String returns the attributes as "fg/bg+bold+italic".
func (a Attributes) String() string {
	var b strings.Builder
	b.WriteString(a.Foreground.Clamped().Hex())
	b.WriteByte('/')
	b.WriteString(a.Background.Clamped().Hex())
	if a.Bold {
		b.WriteString("+bold")
	}
	if a.Italic {
		b.WriteString("+italic")
	}
	return b.String()
}

// Record maps categories to attributes. Categories without an entry use
// the body attributes.
type Record struct {
	name   string
	styles map[lexer.Category]Attributes
}

// Name returns the theme name.
func (r *Record) Name() string {
	return r.name
}

// Lookup returns the attributes of a category.
func (r *Record) Lookup(c lexer.Category) Attributes {
	if a, ok := r.styles[c]; ok {
		return a
	}
	return r.styles[lexer.CategoryBody]
}

// Categories returns the categories with their own entry, sorted.
func (r *Record) Categories() []lexer.Category {
	return slices.Sorted(maps.Keys(r.styles))
}

// Render styles text with the attributes of c.
func (r *Record) Render(c lexer.Category, text string) string {
	return r.Lookup(c).Style().Render(text)
}

// RenderWith styles text with the attributes of c using lr.
func (r *Record) RenderWith(lr *lipgloss.Renderer, c lexer.Category, text string) string {
	return r.Lookup(c).StyleWith(lr).Render(text)
}

// with returns a copy of r under a new name.
func (r *Record) with(name string) *Record {
	return &Record{name: name, styles: maps.Clone(r.styles)}
}

// darkerFactor is the fraction of each channel kept by darken.
const darkerFactor = 0.7

// darken scales every channel of c toward black by amount in [0,1].
func darken(c colorful.Color, amount float64) colorful.Color {
	amount = min(max(amount, 0), 1)
	return c.BlendRgb(colorful.Color{}, amount).Clamped()
}

// ParseColor parses a W3C color name or #rrggbb.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return colorful.Color{}, fmt.Errorf("%w: empty", ErrBadColor)
	}
	tc := tcell.GetColor(s)
	if tc == tcell.ColorDefault {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	r, g, b := tc.RGB()
	if r < 0 {
		return colorful.Color{}, fmt.Errorf("%w: %q has no RGB value", ErrBadColor, s)
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
}

func mustColor(s string) colorful.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func hexColor(v uint32) colorful.Color {
	return colorful.Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}
}
