package highlight

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/recolor/internal/engine/buffer"
	"github.com/dshills/recolor/internal/lexer"
	"github.com/dshills/recolor/internal/logging"
)

type fataler interface {
	Fatalf(format string, args ...any)
}

// verify checks the layer against a from-scratch lex and every restart
// position against the from-scratch neutral points.
func verify(t fataler, buf *buffer.Buffer, layer *Layer, e *Engine) {
	text := buf.String()
	tok := e.Tokenizer()

	want, err := lexer.Tags(tok, text)
	if err != nil {
		t.Fatalf("lexer.Tags(%q) error = %v", text, err)
	}
	if got := layer.Tags(); !slices.Equal(got, want) {
		t.Fatalf("text %q:\nlayer = %v\nwant  = %v", text, got, want)
	}

	points, err := lexer.NeutralPoints(tok, text)
	if err != nil {
		t.Fatalf("lexer.NeutralPoints(%q) error = %v", text, err)
	}
	for _, p := range e.RestartPositions() {
		if !slices.Contains(points, p) {
			t.Fatalf("text %q: restart position %d is not a neutral point %v", text, p, points)
		}
	}
}

func quiet() Option {
	return WithLogger(logging.Nop())
}

func TestEmptyDocumentInsert(t *testing.T) {
	buf := buffer.New()
	var rec Recorder
	e := New(buf, lexer.Java(), &rec, quiet())
	defer e.Close()

	if err := buf.Insert(0, "int x=1;"); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"reservedWord[0,3)", "whitespace[3,4)", "identifier[4,5)",
		"operator[5,6)", "literal[6,7)", "separator[7,8)",
	}
	if got := rec.Strings(); !slices.Equal(got, want) {
		t.Errorf("styles = %v, want %v", got, want)
	}
	if got := e.RestartPositions(); !slices.Equal(got, []int{0, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("RestartPositions() = %v", got)
	}
}

// The token ending exactly at an insertion may grow, so the pass starts
// before it. It resyncs exactly at p+|d|.
func TestInsertAtTokenEnd(t *testing.T) {
	buf := buffer.NewFromString("abc")
	var rec Recorder
	e := New(buf, lexer.Java(), &rec, quiet())
	defer e.Close()

	if got := e.RestartPositions(); !slices.Equal(got, []int{0, 3}) {
		t.Fatalf("initial RestartPositions() = %v, want [0 3]", got)
	}
	rec.Reset()

	if err := buf.Insert(3, "+"); err != nil {
		t.Fatal(err)
	}

	positions := e.RestartPositions()
	if !slices.Contains(positions, 0) || !slices.Contains(positions, 4) {
		t.Errorf("RestartPositions() = %v, want a superset of [0 4]", positions)
	}
	st := e.Stats()
	if st.LastWindowStart != 0 || st.LastWindowEnd != 4 {
		t.Errorf("window = [%d,%d), want [0,4)", st.LastWindowStart, st.LastWindowEnd)
	}
	if st.Resyncs != 1 {
		t.Errorf("Resyncs = %d, want 1", st.Resyncs)
	}
	if got := rec.Strings(); !slices.Equal(got, []string{"identifier[0,3)", "operator[3,4)"}) {
		t.Errorf("styles = %v", got)
	}
}

// Deleting at a restart position drops it; later positions shift before
// any pass runs, and the pass confirms the dropped position again.
func TestDeleteAtRestartPosition(t *testing.T) {
	buf := buffer.NewFromString("aaaa;bbbb;cccc;dddd;")
	layer := NewLayer(buf.Len())
	e := New(buf, lexer.Java(), layer, WithMode(ModeWorker), quiet())
	defer e.Close()
	e.Drain()

	want := []int{0, 4, 5, 9, 10, 14, 15, 19, 20}
	if got := e.RestartPositions(); !slices.Equal(got, want) {
		t.Fatalf("initial RestartPositions() = %v, want %v", got, want)
	}

	if err := buf.Delete(5, 2); err != nil {
		t.Fatal(err)
	}
	want = []int{0, 4, 7, 8, 12, 13, 17, 18}
	if got := e.RestartPositions(); !slices.Equal(got, want) {
		t.Errorf("renumbered RestartPositions() = %v, want %v", got, want)
	}
	if got := e.Pending(); !slices.Equal(got, []Damage{{5, 7}}) {
		t.Errorf("Pending() = %v, want [[5,7)]", got)
	}

	e.Drain()
	want = []int{0, 4, 5, 7, 8, 12, 13, 17, 18}
	if got := e.RestartPositions(); !slices.Equal(got, want) {
		t.Errorf("final RestartPositions() = %v, want %v", got, want)
	}
	st := e.Stats()
	if st.LastWindowStart != 4 || st.LastWindowEnd != 7 {
		t.Errorf("window = [%d,%d), want [4,7)", st.LastWindowStart, st.LastWindowEnd)
	}
	verify(t, buf, layer, e)
}

func TestZeroDeltaEmitsNothing(t *testing.T) {
	var rec Recorder
	pr := NewProcessor(lexer.Java(), &rec, quiet())

	pr.Edited(3, 0)
	if pr.Busy() {
		t.Error("zero-delta edit queued damage")
	}
	if pr.Rescan(buffer.NewFromString("int x;"), 0) {
		t.Error("Rescan() reported remaining work")
	}
	if rec.Len() != 0 {
		t.Errorf("styles = %v, want none", rec.Strings())
	}

	buf := buffer.NewFromString("int x;")
	e := New(buf, lexer.Java(), &rec, quiet())
	defer e.Close()
	rec.Reset()
	_ = buf.Insert(2, "")
	if rec.Len() != 0 {
		t.Errorf("empty insert emitted %v", rec.Strings())
	}
}

func TestSingleEditRelexesFewTokens(t *testing.T) {
	buf := buffer.NewFromString(strings.Repeat("int x = 1;\n", 2000))
	e := New(buf, lexer.Java(), nil, quiet())
	defer e.Close()

	lineStart := 1000 * len("int x = 1;\n")
	if err := buf.Insert(lineStart+4, "y"); err != nil {
		t.Fatal(err)
	}

	st := e.Stats()
	if st.LastPassTokens != 2 {
		t.Errorf("LastPassTokens = %d, want 2", st.LastPassTokens)
	}
	if st.LastWindowStart != lineStart+3 || st.LastWindowEnd != lineStart+6 {
		t.Errorf("window = [%d,%d), want [%d,%d)", st.LastWindowStart, st.LastWindowEnd, lineStart+3, lineStart+6)
	}
}

func TestDeleteEverything(t *testing.T) {
	buf := buffer.NewFromString("int x = 1; // done\n")
	layer := NewLayer(buf.Len())
	e := New(buf, lexer.Java(), layer, quiet())
	defer e.Close()

	if err := buf.Delete(0, buf.Len()); err != nil {
		t.Fatal(err)
	}
	if got := e.RestartPositions(); !slices.Equal(got, []int{0}) {
		t.Errorf("RestartPositions() = %v, want [0]", got)
	}
	if layer.Len() != 0 {
		t.Errorf("layer.Len() = %d, want 0", layer.Len())
	}
}

func TestBlockCommentEdits(t *testing.T) {
	buf := buffer.NewFromString("int a;\nint b;\nint c;\n")
	layer := NewLayer(buf.Len())
	e := New(buf, lexer.Java(), layer, quiet())
	defer e.Close()

	steps := []buffer.Edit{
		buffer.NewInsert(0, "/*"),
		buffer.NewInsert(14, "*/"),
		buffer.NewDelete(0, 2),
		buffer.NewReplace(4, 1, "\"q"),
	}
	for _, ed := range steps {
		if err := buf.ApplyEdit(ed); err != nil {
			t.Fatalf("ApplyEdit(%v) error = %v", ed, err)
		}
		verify(t, buf, layer, e)
	}
}

func TestColorAll(t *testing.T) {
	buf := buffer.NewFromString("int x; /* a\n b */ y")
	var rec Recorder
	e := New(buf, lexer.Java(), &rec, quiet())
	defer e.Close()

	first := rec.Strings()
	rec.Reset()
	e.ColorAll()
	if got := rec.Strings(); !slices.Equal(got, first) {
		t.Errorf("ColorAll() styles = %v, want %v", got, first)
	}

	points, _ := lexer.NeutralPoints(lexer.Java(), buf.String())
	if got := e.RestartPositions(); !slices.Equal(got, points) {
		t.Errorf("RestartPositions() = %v, want %v", got, points)
	}
}

func TestSetText(t *testing.T) {
	buf := buffer.NewFromString("int x;")
	layer := NewLayer(buf.Len())
	e := New(buf, lexer.Java(), layer, quiet())
	defer e.Close()

	buf.SetText("// comment\nString s = \"hi\";\n")
	verify(t, buf, layer, e)
}

var errBang = errors.New("bang")

// runeTokenizer emits one text token per rune and fails on '!'.
type runeTokenizer struct{}

func (runeTokenizer) Language() string         { return "runes" }
func (runeTokenizer) FileExtensions() []string { return nil }

func (runeTokenizer) Tokenize(r lexer.Reader, bias int, _ lexer.State) iter.Seq2[lexer.Token, error] {
	return func(yield func(lexer.Token, error) bool) {
		pos := bias
		for {
			c, size, err := r.ReadRune()
			if err != nil {
				return
			}
			if c == '!' {
				yield(lexer.Token{}, fmt.Errorf("offset %d: %w", pos, errBang))
				return
			}
			if !yield(lexer.Token{Start: pos, End: pos + size, Category: lexer.CategoryText}, nil) {
				return
			}
			pos += size
		}
	}
}

func TestTokenizerFault(t *testing.T) {
	buf := buffer.NewFromString("ab")
	layer := NewLayer(buf.Len())
	var diags []Diagnostic
	e := New(buf, runeTokenizer{}, layer, quiet(), WithDiagnostics(func(d Diagnostic) {
		diags = append(diags, d)
	}))
	defer e.Close()

	if err := buf.Insert(1, "!"); err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if !errors.Is(d.Err, errBang) {
		t.Errorf("diagnostic error = %v, want errBang", d.Err)
	}
	if d.Err.PassID == uuid.Nil {
		t.Error("diagnostic has no pass id")
	}
	if d.Err.Offset != 1 || d.Committed != 1 {
		t.Errorf("Offset = %d, Committed = %d, want 1, 1", d.Err.Offset, d.Committed)
	}
	if got := e.RestartPositions(); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("RestartPositions() = %v, want [0 1 2 3]", got)
	}

	// Later events are still processed.
	if err := buf.Delete(1, 1); err != nil {
		t.Fatal(err)
	}
	st := e.Stats()
	if st.Faults != 1 || st.Passes != 3 {
		t.Errorf("Faults = %d, Passes = %d, want 1, 3", st.Faults, st.Passes)
	}
	if got := e.RestartPositions(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("RestartPositions() = %v, want [0 1 2]", got)
	}
	want := []lexer.Category{lexer.CategoryText, lexer.CategoryText}
	if got := layer.Tags(); !slices.Equal(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
}

// Edits that land between slices are folded into the suspended pass.
func TestWorkerEditsDuringPass(t *testing.T) {
	buf := buffer.NewFromString(strings.Repeat("int a = 1; // x\n", 12))
	layer := NewLayer(buf.Len())
	e := New(buf, lexer.Java(), layer, WithMode(ModeWorker), WithSliceTokens(3), quiet())
	defer e.Close()
	e.Drain()
	verify(t, buf, layer, e)

	if err := buf.Insert(0, "/*"); err != nil {
		t.Fatal(err)
	}
	if !e.Step() {
		t.Fatal("Step() finished the pass in one slice")
	}
	if !e.Stats().InFlight {
		t.Fatal("no pass in flight after one slice")
	}

	edits := []buffer.Edit{
		buffer.NewInsert(2, "x"),
		buffer.NewDelete(30, 5),
		buffer.NewReplace(1, 40, "*/ int"),
		buffer.NewInsert(100, "\"open"),
	}
	for _, ed := range edits {
		if err := buf.ApplyEdit(ed); err != nil {
			t.Fatalf("ApplyEdit(%v) error = %v", ed, err)
		}
		e.Step()
	}
	e.Drain()

	if !e.Idle() {
		t.Error("engine not idle after Drain")
	}
	verify(t, buf, layer, e)
}

func TestRun(t *testing.T) {
	buf := buffer.NewFromString("int a;\n")
	layer := NewLayer(buf.Len())
	e := New(buf, lexer.Java(), layer, WithMode(ModeWorker), WithSliceTokens(2), quiet())
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	for _, s := range []string{"/* ", "x */ ", "\"s\" "} {
		if err := buf.Insert(0, s); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for !e.Idle() {
		if time.Now().After(deadline) {
			t.Fatal("worker did not drain")
		}
		time.Sleep(time.Millisecond)
	}
	verify(t, buf, layer, e)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunErrors(t *testing.T) {
	inline := New(buffer.New(), lexer.Java(), nil, quiet())
	defer inline.Close()
	if err := inline.Run(context.Background()); !errors.Is(err, ErrNotWorker) {
		t.Errorf("Run() in inline mode error = %v, want ErrNotWorker", err)
	}

	e := New(buffer.New(), lexer.Java(), nil, WithMode(ModeWorker), quiet())
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	deadline := time.Now().Add(5 * time.Second)
	for !e.running.Load() {
		if time.Now().After(deadline) {
			t.Fatal("worker did not start")
		}
		time.Sleep(time.Millisecond)
	}
	if err := e.Run(context.Background()); !errors.Is(err, ErrRunning) {
		t.Errorf("second Run() error = %v, want ErrRunning", err)
	}

	e.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() after Close error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestClose(t *testing.T) {
	buf := buffer.NewFromString("int a;")
	var rec Recorder
	e := New(buf, lexer.Java(), &rec, WithMode(ModeWorker), quiet())

	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	_ = buf.Insert(0, "x")
	if e.Step() {
		t.Error("Step() after Close reported work")
	}
	if rec.Len() != 0 {
		t.Errorf("closed engine emitted %v", rec.Strings())
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"inline", ModeInline, false},
		{"Worker", ModeWorker, false},
		{"", ModeInline, false},
		{"threads", ModeInline, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
	if ModeWorker.String() != "worker" || Mode(7).String() != "mode(7)" {
		t.Error("Mode.String() mismatch")
	}
}
