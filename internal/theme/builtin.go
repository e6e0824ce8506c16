package theme

import (
	"fmt"
	"maps"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/recolor/internal/lexer"
)

// DefaultName is the name of the default theme.
const DefaultName = "default"

var builtins = map[string]func() *Record{
	DefaultName: Default,
	"dark":      Dark,
}

// Default returns the classic light style table: black on white, blue
// keywords, maroon literals, green comments.
func Default() *Record {
	white := mustColor("white")
	black := mustColor("black")
	blue := mustColor("blue")
	maroon := hexColor(0xB03060)

	plain := func(fg colorful.Color) Attributes {
		return Attributes{Foreground: fg, Background: white}
	}
	bold := func(fg colorful.Color) Attributes {
		return Attributes{Foreground: fg, Background: white, Bold: true}
	}

	return &Record{
		name: DefaultName,
		styles: map[lexer.Category]Attributes{
			lexer.CategoryBody:         plain(black),
			lexer.CategoryTag:          bold(blue),
			lexer.CategoryEndTag:       plain(blue),
			lexer.CategoryReference:    plain(black),
			lexer.CategoryName:         bold(maroon),
			lexer.CategoryValue:        {Foreground: maroon, Background: white, Italic: true},
			lexer.CategoryText:         bold(black),
			lexer.CategoryReservedWord: plain(blue),
			lexer.CategoryIdentifier:   plain(black),
			lexer.CategoryLiteral:      plain(maroon),
			lexer.CategorySeparator:    plain(hexColor(0x000080)),
			lexer.CategoryOperator:     bold(black),
			lexer.CategoryComment:      plain(darken(hexColor(0x00FF00), 1-darkerFactor)),
			lexer.CategoryPreprocessor: plain(darken(hexColor(0xA020F0), 1-darkerFactor)),
			lexer.CategoryWhitespace:   plain(black),
			lexer.CategoryError:        plain(mustColor("red")),
			lexer.CategoryUnknown:      plain(hexColor(0xFFC800)),
		},
	}
}

// Dark returns a dark variant of the default table.
func Dark() *Record {
	bg := hexColor(0x1E1E1E)
	fg := hexColor(0xD4D4D4)

	r := Default().with("dark")
	for c, a := range r.styles {
		switch a.Foreground.Hex() {
		case "#000000":
			a.Foreground = fg
		case "#0000ff":
			a.Foreground = hexColor(0x569CD6)
		case "#000080":
			a.Foreground = hexColor(0x9CDCFE)
		}
		a.Background = bg
		r.styles[c] = a
	}
	r.styles[lexer.CategoryComment] = Attributes{Foreground: hexColor(0x6A9955), Background: bg, Italic: true}
	return r
}

// Builtin returns a built-in theme by name.
func Builtin(name string) (*Record, error) {
	fn, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return fn(), nil
}

// Names returns the built-in theme names, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(builtins))
}
