package theme

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dshills/recolor/internal/lexer"
)

func TestDefault(t *testing.T) {
	r := Default()

	if r.Name() != DefaultName {
		t.Errorf("Name() = %q, want %q", r.Name(), DefaultName)
	}
	for _, c := range lexer.Categories() {
		if _, ok := r.styles[c]; !ok {
			t.Errorf("Default() missing style for %v", c)
		}
	}

	tests := []struct {
		cat  lexer.Category
		want string
	}{
		{lexer.CategoryReservedWord, "#0000ff/#ffffff"},
		{lexer.CategoryLiteral, "#b03060/#ffffff"},
		{lexer.CategoryValue, "#b03060/#ffffff+italic"},
		{lexer.CategoryOperator, "#000000/#ffffff+bold"},
		{lexer.CategorySeparator, "#000080/#ffffff"},
		{lexer.CategoryError, "#ff0000/#ffffff"},
		{lexer.CategoryNone, "#000000/#ffffff"},
	}
	for _, tt := range tests {
		t.Run(tt.cat.String(), func(t *testing.T) {
			if got := r.Lookup(tt.cat).String(); got != tt.want {
				t.Errorf("Lookup(%v) = %q, want %q", tt.cat, got, tt.want)
			}
		})
	}
}

func TestDarkComments(t *testing.T) {
	comment := Default().Lookup(lexer.CategoryComment).Foreground
	if comment.G >= 0.75 || comment.G <= 0.65 || comment.R != 0 {
		t.Errorf("default comment color = %v, want a darker green", comment.Hex())
	}

	d := Dark()
	if got := d.Lookup(lexer.CategoryIdentifier).Background.Hex(); got != "#1e1e1e" {
		t.Errorf("dark background = %q, want #1e1e1e", got)
	}
	if !d.Lookup(lexer.CategoryComment).Italic {
		t.Error("dark comments should be italic")
	}
	// Dark must not mutate the default table.
	if Default().Lookup(lexer.CategoryIdentifier).Background.Hex() != "#ffffff" {
		t.Error("Dark() changed the default table")
	}
}

func TestBuiltin(t *testing.T) {
	if got := Names(); strings.Join(got, ",") != "dark,default" {
		t.Errorf("Names() = %v", got)
	}
	if _, err := Builtin("solarized"); !errors.Is(err, ErrUnknownTheme) {
		t.Errorf("Builtin(solarized) error = %v, want ErrUnknownTheme", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"red", "#ff0000", false},
		{"Navy", "#000080", false},
		{"#12ab9C", "#12ab9c", false},
		{" white ", "#ffffff", false},
		{"", "", true},
		{"not-a-color", "", true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrBadColor) {
				t.Errorf("ParseColor(%q) error = %v, want ErrBadColor", tt.in, err)
			}
			continue
		}
		if err != nil || got.Hex() != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v, want %v", tt.in, got.Hex(), err, tt.want)
		}
	}
}

func TestStyle(t *testing.T) {
	a := Default().Lookup(lexer.CategoryTag)
	s := a.Style()
	if !s.GetBold() || s.GetItalic() {
		t.Errorf("tag style bold=%v italic=%v, want bold only", s.GetBold(), s.GetItalic())
	}
	if s.GetForeground() != lipgloss.Color("#0000ff") {
		t.Errorf("tag foreground = %v", s.GetForeground())
	}
	if got := Default().Render(lexer.CategoryTag, "<p>"); !strings.Contains(got, "<p>") {
		t.Errorf("Render() = %q, want it to contain the text", got)
	}
}

func TestRenderWith(t *testing.T) {
	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(termenv.TrueColor)

	got := Default().RenderWith(lr, lexer.CategoryReservedWord, "int")
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "int") {
		t.Errorf("RenderWith() = %q, want ANSI styled text", got)
	}
}

const tomlTheme = `
name = "ocean"
base = "dark"

[styles.comment]
foreground = "#336699"
italic = false

[styles.reservedWord]
bold = true
darken = 0.5
`

const yamlTheme = `
styles:
  literal:
    foreground: green
    background: black
  error:
    bold: true
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(tomlTheme), FormatTOML)
	if err != nil {
		t.Fatalf("Parse(toml) error = %v", err)
	}
	if r.Name() != "ocean" {
		t.Errorf("Name() = %q, want ocean", r.Name())
	}
	c := r.Lookup(lexer.CategoryComment)
	if c.Foreground.Hex() != "#336699" || c.Italic {
		t.Errorf("comment = %v", c)
	}
	kw := r.Lookup(lexer.CategoryReservedWord)
	if !kw.Bold || kw.Foreground.Hex() != darken(Dark().Lookup(lexer.CategoryReservedWord).Foreground, 0.5).Hex() {
		t.Errorf("reservedWord = %v", kw)
	}
	if got := r.Lookup(lexer.CategoryIdentifier).Background.Hex(); got != "#1e1e1e" {
		t.Errorf("identifier background = %q, want the dark base", got)
	}

	r, err = Parse([]byte(yamlTheme), FormatYAML)
	if err != nil {
		t.Fatalf("Parse(yaml) error = %v", err)
	}
	if got := r.Lookup(lexer.CategoryLiteral).String(); got != "#008000/#000000" {
		t.Errorf("literal = %q", got)
	}
	if got := r.Lookup(lexer.CategoryError).String(); got != "#ff0000/#ffffff+bold" {
		t.Errorf("error = %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		entry  string
		is     error
	}{
		{"unknown category", "[styles.keyword]\nbold = true\n", FormatTOML, "keyword", ErrUnknownCategory},
		{"bad color", "styles:\n  comment:\n    foreground: mauve-ish\n", FormatYAML, "comment", ErrBadColor},
		{"unknown base", "base = \"neon\"\n", FormatTOML, "base", ErrUnknownTheme},
		{"bad format", "", Format("json"), "", ErrUnsupportedFormat},
		{"unknown field", "colour = 1\n", FormatTOML, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if pe.Entry != tt.entry {
				t.Errorf("Entry = %q, want %q", pe.Entry, tt.entry)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "mine.yml")
	if err := os.WriteFile(path, []byte(yamlTheme), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r.Name() != "mine" {
		t.Errorf("Name() = %q, want mine", r.Name())
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[styles.nope]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(bad)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Path != bad {
		t.Errorf("Load(bad) error = %v, want *ParseError for %s", err, bad)
	}

	if _, err := Load(filepath.Join(dir, "theme.ini")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.ini) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestResolve(t *testing.T) {
	r, err := Resolve("")
	if err != nil || r.Name() != DefaultName {
		t.Errorf("Resolve(\"\") = %v, %v", r, err)
	}
	r, err = Resolve("dark")
	if err != nil || r.Name() != "dark" {
		t.Errorf("Resolve(dark) = %v, %v", r, err)
	}
	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Resolve(missing) error = %v, want os.ErrNotExist", err)
	}
}
