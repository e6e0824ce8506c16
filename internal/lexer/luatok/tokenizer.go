package luatok

import (
	"context"
	"fmt"
	"io"
	"iter"
	"math"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/recolor/internal/lexer"
)

// DefaultCallTimeout bounds a single lex call.
const DefaultCallTimeout = 2 * time.Second

// Tokenizer is a lexer.Tokenizer backed by a Lua script.
//
// gopher-lua states are not goroutine-safe; the mutex serializes lex
// calls, so sequences from concurrent Tokenize calls interleave safely.
type Tokenizer struct {
	mu sync.Mutex
	L  *lua.LState

	lex        lua.LValue
	language   string
	extensions []string
	timeout    time.Duration
	closed     bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithLanguage overrides the language name and extensions declared by the
// script.
func WithLanguage(name string, extensions ...string) Option {
	return func(t *Tokenizer) {
		t.language = name
		t.extensions = extensions
	}
}

// WithCallTimeout sets the timeout of a single lex call.
func WithCallTimeout(d time.Duration) Option {
	return func(t *Tokenizer) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// New runs a compiled script in a fresh restricted state and returns a
// tokenizer calling its lex function.
func New(proto *lua.FunctionProto, opts ...Option) (*Tokenizer, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	L.Push(L.NewFunctionFromProto(proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.Close()
		return nil, fmt.Errorf("run %s: %w", proto.SourceName, err)
	}

	lex := L.GetGlobal("lex")
	if lex.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("%s: %w", proto.SourceName, ErrNoLexFunction)
	}

	t := &Tokenizer{
		L:        L,
		lex:      lex,
		language: "lua:" + proto.SourceName,
		timeout:  DefaultCallTimeout,
	}
	if name, ok := L.GetGlobal("language").(lua.LString); ok {
		t.language = string(name)
	}
	if exts, ok := L.GetGlobal("extensions").(*lua.LTable); ok {
		exts.ForEach(func(_, v lua.LValue) {
			if s, ok := v.(lua.LString); ok {
				t.extensions = append(t.extensions, string(s))
			}
		})
	}

	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// openSafeLibraries opens only the libraries a tokenizer needs.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Language returns the language name.
func (t *Tokenizer) Language() string {
	return t.language
}

// FileExtensions returns the supported file extensions.
func (t *Tokenizer) FileExtensions() []string {
	return t.extensions
}

// Close releases the Lua state.
func (t *Tokenizer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.closed {
		t.L.Close()
		t.closed = true
	}
	return nil
}

// Tokenize implements lexer.Tokenizer.
func (t *Tokenizer) Tokenize(r lexer.Reader, bias int, initial lexer.State) iter.Seq2[lexer.Token, error] {
	return func(yield func(lexer.Token, error) bool) {
		rd := &scriptReader{r: r, pos: bias, mark: -1}
		var handle *lua.LTable
		state := initial
		for {
			start := rd.pos
			cat, next, err := t.call(rd, &handle, state)
			if err != nil {
				yield(lexer.Token{}, fmt.Errorf("%s: lex at offset %d: %w", t.language, start, err))
				return
			}
			if cat == lexer.CategoryNone {
				return
			}
			if rd.pos == start {
				yield(lexer.Token{}, fmt.Errorf("%s: offset %d: %w", t.language, start, lexer.ErrNoProgress))
				return
			}
			state = next
			if !yield(lexer.Token{Start: start, End: rd.pos, Category: cat, State: next}, nil) {
				return
			}
		}
	}
}

// call runs one lex call. handle caches the Lua reader table for the
// current sequence.
func (t *Tokenizer) call(rd *scriptReader, handle **lua.LTable, state lexer.State) (lexer.Category, lexer.State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return lexer.CategoryNone, lexer.Neutral, ErrStateClosed
	}
	if *handle == nil {
		*handle = rd.table(t.L)
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	t.L.SetContext(ctx)
	defer t.L.RemoveContext()

	err := t.L.CallByParam(lua.P{Fn: t.lex, NRet: 2, Protect: true}, *handle, lua.LNumber(state))
	if err != nil {
		if rd.err != nil {
			return lexer.CategoryNone, lexer.Neutral, rd.err
		}
		return lexer.CategoryNone, lexer.Neutral, err
	}
	catVal, stateVal := t.L.Get(-2), t.L.Get(-1)
	t.L.Pop(2)

	var cat lexer.Category
	switch v := catVal.(type) {
	case *lua.LNilType:
		return lexer.CategoryNone, lexer.Neutral, nil
	case lua.LString:
		if v == "" {
			return lexer.CategoryNone, lexer.Neutral, fmt.Errorf("%w: empty category", ErrBadResult)
		}
		cat = lexer.Category(v)
	default:
		return lexer.CategoryNone, lexer.Neutral, fmt.Errorf("%w: category is %s", ErrBadResult, catVal.Type())
	}

	switch v := stateVal.(type) {
	case *lua.LNilType:
		return cat, lexer.Neutral, nil
	case lua.LNumber:
		if v < 0 || v > math.MaxUint32 {
			return lexer.CategoryNone, lexer.Neutral, fmt.Errorf("%w: state %v out of range", ErrBadResult, v)
		}
		if f := float64(v); f != math.Trunc(f) {
			return lexer.CategoryNone, lexer.Neutral, fmt.Errorf("%w: fractional state %v", ErrBadResult, v)
		}
		return cat, lexer.State(v), nil
	default:
		return lexer.CategoryNone, lexer.Neutral, fmt.Errorf("%w: state is %s", ErrBadResult, stateVal.Type())
	}
}

// scriptReader exposes a lexer.Reader to a script and tracks the absolute
// offset of the cursor.
type scriptReader struct {
	r    lexer.Reader
	pos  int
	mark int
	err  error
}

func (rd *scriptReader) table(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"read":  rd.read,
		"mark":  rd.setMark,
		"reset": rd.reset,
		"pos": func(L *lua.LState) int {
			L.Push(lua.LNumber(rd.pos))
			return 1
		},
	})
}

func (rd *scriptReader) read(L *lua.LState) int {
	c, size, err := rd.r.ReadRune()
	if err == io.EOF {
		L.Push(lua.LNil)
		return 1
	}
	if err != nil {
		rd.err = err
		L.RaiseError("read: %v", err)
		return 0
	}
	rd.pos += size
	L.Push(lua.LString(string(c)))
	return 1
}

func (rd *scriptReader) setMark(L *lua.LState) int {
	rd.r.Mark()
	rd.mark = rd.pos
	return 0
}

func (rd *scriptReader) reset(L *lua.LState) int {
	if rd.mark < 0 {
		rd.err = ErrResetWithoutMark
		L.RaiseError("%v", ErrResetWithoutMark)
		return 0
	}
	rd.r.Reset()
	rd.pos = rd.mark
	rd.mark = -1
	return 0
}
