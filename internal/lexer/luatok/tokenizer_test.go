package luatok

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/recolor/internal/lexer"
)

func loadINI(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := Load(filepath.Join("testdata", "ini.lua"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(func() { tok.Close() })
	return tok
}

func tokenStrings(t *testing.T, tok lexer.Tokenizer, text string) []string {
	t.Helper()
	tokens, err := lexer.LexString(tok, text)
	if err != nil {
		t.Fatalf("LexString(%q) error = %v", text, err)
	}
	out := make([]string, len(tokens))
	for i, tk := range tokens {
		out[i] = tk.String()
	}
	return out
}

func TestINITokens(t *testing.T) {
	tok := loadINI(t)

	if tok.Language() != "ini" {
		t.Errorf("Language() = %q, want %q", tok.Language(), "ini")
	}
	if !slices.Equal(tok.FileExtensions(), []string{".ini", ".cfg"}) {
		t.Errorf("FileExtensions() = %v", tok.FileExtensions())
	}

	got := tokenStrings(t, tok, "[core]\nkey = v1\n; c\n")
	want := []string{
		"tag[0,6)", "whitespace[6,7)",
		"name[7,10)", "whitespace[10,11)", "operator[11,12)/state(100)", "whitespace[12,13)/state(100)", "value[13,15)", "whitespace[15,16)",
		"comment[16,19)", "whitespace[19,20)",
	}
	if !slices.Equal(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestEmptyCategoryIsAnError(t *testing.T) {
	tok, err := LoadString("bang", `
function lex(r, s)
  local c = r:read()
  if c == nil then return nil end
  if c == "!" then return "", 0 end
  return "text", 0
end`)
	if err != nil {
		t.Fatal(err)
	}
	defer tok.Close()

	tokens, err := lexer.LexString(tok, "ab!cd")
	if !errors.Is(err, ErrBadResult) {
		t.Fatalf("LexString() error = %v, want %v", err, ErrBadResult)
	}
	if !strings.Contains(err.Error(), "offset 2") {
		t.Errorf("error = %q, want the failing offset", err)
	}
	if len(tokens) != 2 || tokens[1].End != 2 {
		t.Errorf("tokens = %v, want the two before the failure", tokens)
	}
}

func TestIntegralStateAccepted(t *testing.T) {
	tok, err := LoadString("states", `function lex(r, s) if r:read() == nil then return nil end return "text", 7.0 end`)
	if err != nil {
		t.Fatal(err)
	}
	defer tok.Close()

	tokens, err := lexer.LexString(tok, "ab")
	if err != nil {
		t.Fatalf("LexString() error = %v", err)
	}
	if len(tokens) != 2 || tokens[1].State != 7 {
		t.Errorf("tokens = %v, want two in state 7", tokens)
	}
}

func TestINIUnclosedSection(t *testing.T) {
	got := tokenStrings(t, loadINI(t), "[core\nx")
	want := []string{"error[0,5)", "whitespace[5,6)", "name[6,7)"}
	if !slices.Equal(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestWithLanguage(t *testing.T) {
	tok, err := Load(filepath.Join("testdata", "ini.lua"), WithLanguage("props", ".properties"))
	if err != nil {
		t.Fatal(err)
	}
	defer tok.Close()

	r := lexer.NewRegistry()
	r.Register(tok)
	if _, ok := r.GetByExtension(".properties"); !ok {
		t.Error("tokenizer not registered under .properties")
	}
	if got, _ := r.GetByLanguage("props"); got != lexer.Tokenizer(tok) {
		t.Error("tokenizer not registered under props")
	}
}

func TestCompileFileCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.lua")
	if err := os.WriteFile(path, []byte(`function lex(r, s) return nil end`), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := CompileFile(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := CompileFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("unchanged file was recompiled")
	}

	later := time.Now().Add(time.Hour)
	if err := os.WriteFile(path, []byte(`function lex(r, s) return nil, 0 end`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	third, err := CompileFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Error("changed file was served from the cache")
	}
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		compileErr bool
		loadErr    error
		lexErr     error
	}{
		{"syntax error", `function lex(`, true, nil, nil},
		{"no lex", `x = 1`, false, ErrNoLexFunction, nil},
		{"no progress", `function lex(r, s) return "text", 0 end`, false, nil, lexer.ErrNoProgress},
		{"bad category", `function lex(r, s) r:read() return 42, 0 end`, false, nil, ErrBadResult},
		{"bad state", `function lex(r, s) r:read() return "text", "x" end`, false, nil, ErrBadResult},
		{"empty category", `function lex(r, s) r:read() return "", 0 end`, false, nil, ErrBadResult},
		{"fractional state", `function lex(r, s) r:read() return "text", 1.5 end`, false, nil, ErrBadResult},
		{"negative state", `function lex(r, s) r:read() return "text", -1 end`, false, nil, ErrBadResult},
		{"reset without mark", `function lex(r, s) r:read() r:reset() return "text", 0 end`, false, nil, ErrResetWithoutMark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := LoadString(tt.name, tt.code)
			if tt.compileErr {
				if err == nil {
					t.Fatal("expected a compile error")
				}
				return
			}
			if tt.loadErr != nil {
				if !errors.Is(err, tt.loadErr) {
					t.Fatalf("LoadString() error = %v, want %v", err, tt.loadErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadString() error = %v", err)
			}
			defer tok.Close()

			_, err = lexer.LexString(tok, "abc")
			if !errors.Is(err, tt.lexErr) {
				t.Errorf("LexString() error = %v, want %v", err, tt.lexErr)
			}
		})
	}
}

func TestRuntimeErrorSurfaces(t *testing.T) {
	tok, err := LoadString("boom", `function lex(r, s) error("boom") end`)
	if err != nil {
		t.Fatal(err)
	}
	defer tok.Close()

	_, err = lexer.LexString(tok, "abc")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("LexString() error = %v, want boom", err)
	}
}

func TestCallTimeout(t *testing.T) {
	tok, err := LoadString("spin", `function lex(r, s) while true do end end`, WithCallTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer tok.Close()

	done := make(chan error, 1)
	go func() {
		_, err := lexer.LexString(tok, "abc")
		done <- err
	}()
	select {
	case err := <-done:
		if err == nil {
			t.Error("expected a timeout error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("lex call was not interrupted")
	}
}

func TestClosed(t *testing.T) {
	tok := loadINI(t)
	tok.Close()
	if _, err := lexer.LexString(tok, "a"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("LexString() after Close error = %v, want ErrStateClosed", err)
	}
}

func TestSandbox(t *testing.T) {
	tok, err := LoadString("sandbox", `
ok = (dofile == nil) and (load == nil) and (require == nil) and (os == nil) and (io == nil)
function lex(r, s) return nil end`)
	if err != nil {
		t.Fatal(err)
	}
	defer tok.Close()

	tok.mu.Lock()
	defer tok.mu.Unlock()
	if tok.L.GetGlobal("ok") != lua.LTrue {
		t.Error("unsafe globals are reachable from scripts")
	}
}
