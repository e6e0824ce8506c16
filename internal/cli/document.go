package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/dshills/recolor/internal/engine/buffer"
	"github.com/dshills/recolor/internal/highlight"
	"github.com/dshills/recolor/internal/lexer"
	"github.com/dshills/recolor/internal/lexer/luatok"
)

// ErrMismatch is returned when verification finds the incremental result
// differs from a full lex.
var ErrMismatch = errors.New("incremental result differs from full lex")

// document is a file loaded into a buffer with an engine attached.
type document struct {
	path   string
	buf    *buffer.Buffer
	tok    lexer.Tokenizer
	layer  *highlight.Layer
	engine *highlight.Engine

	mu    sync.Mutex
	diags []highlight.Diagnostic
}

// tokenizer returns the configured tokenizer for path.
func (a *app) tokenizer(path string) (lexer.Tokenizer, error) {
	if a.cfg.TokenizerScript != "" {
		var opts []luatok.Option
		if a.cfg.Language != "" {
			opts = append(opts, luatok.WithLanguage(a.cfg.Language))
		}
		tok, err := luatok.Load(a.cfg.TokenizerScript, opts...)
		if err != nil {
			return nil, err
		}
		return tok, nil
	}
	return lexer.DefaultRegistry().Resolve(a.cfg.Language, path)
}

// open loads path and colors it.
func (a *app) open(path string) (*document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf, err := buffer.NewFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return a.attach(path, buf)
}

func (a *app) attach(path string, buf *buffer.Buffer) (*document, error) {
	tok, err := a.tokenizer(path)
	if err != nil {
		return nil, err
	}
	mode, err := highlight.ParseMode(a.cfg.Mode)
	if err != nil {
		return nil, err
	}

	d := &document{path: path, buf: buf, tok: tok, layer: highlight.NewLayer(buf.Len())}
	d.engine = highlight.New(buf, tok, d.layer,
		highlight.WithMode(mode),
		highlight.WithSliceTokens(a.cfg.SliceTokens),
		highlight.WithLogger(a.logger.WithComponent("highlight")),
		highlight.WithTracer(a.tracer.Tracer()),
		highlight.WithDiagnostics(func(diag highlight.Diagnostic) {
			d.mu.Lock()
			d.diags = append(d.diags, diag)
			d.mu.Unlock()
		}),
	)
	d.engine.Drain()
	a.logger.Info("opened %s (%d bytes, %s tokenizer, %s mode)", path, buf.Len(), tok.Language(), mode)
	return d, nil
}

// diagnostics returns the faults reported since index from.
func (d *document) diagnostics(from int) []highlight.Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	if from >= len(d.diags) {
		return nil
	}
	return slices.Clone(d.diags[from:])
}

func (d *document) Close() error {
	err := d.engine.Close()
	if c, ok := d.tok.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

// verify compares the layer with a full lex of the current text.
func (d *document) verify() error {
	text := d.buf.String()
	want, err := lexer.Tags(d.tok, text)
	if err != nil {
		return fmt.Errorf("full lex: %w", err)
	}
	got := d.layer.Tags()
	if slices.Equal(got, want) {
		return nil
	}
	i := 0
	for i < len(got) && i < len(want) && got[i] == want[i] {
		i++
	}
	var g, w lexer.Category
	if i < len(got) {
		g = got[i]
	}
	if i < len(want) {
		w = want[i]
	}
	return fmt.Errorf("%w at offset %d: %v, want %v", ErrMismatch, i, g, w)
}
