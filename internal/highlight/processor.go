package highlight

import (
	"context"
	"iter"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/recolor/internal/engine/buffer"
	"github.com/dshills/recolor/internal/engine/restart"
	"github.com/dshills/recolor/internal/engine/source"
	"github.com/dshills/recolor/internal/lexer"
)

// Processor repairs styles and restart positions after edits.
//
// Edits are applied to the restart index as soon as they are reported, so
// the index is always in live buffer coordinates. Rescan then re-lexes
// each damaged region from the nearest restart position before it until
// the token stream rejoins a known restart position past the damage.
//
// Processor is not safe for concurrent use; Engine serializes access.
type Processor struct {
	index *restart.Index
	sched *Scheduler
	tok   lexer.Tokenizer
	sink  StyleSink
	src   *source.Source
	cur   *pass
	cfg   config
	stats counters
}

// pass is a damage pass in progress. All offsets are live.
type pass struct {
	id         uuid.UUID
	damage     Damage
	scanStart  int
	candidates []int
	tokens     int
	started    time.Time
	span       trace.Span

	next func() (lexer.Token, error, bool)
	stop func()
}

// NewProcessor creates a processor with an index holding only the origin.
func NewProcessor(tok lexer.Tokenizer, sink StyleSink, opts ...Option) *Processor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newProcessor(tok, sink, cfg)
}

func newProcessor(tok lexer.Tokenizer, sink StyleSink, cfg config) *Processor {
	if sink == nil {
		sink = SinkFunc(func(int, int, lexer.Category) {})
	}
	return &Processor{
		index: restart.New(),
		sched: NewScheduler(),
		tok:   tok,
		sink:  sink,
		src:   source.New(buffer.New()),
		cfg:   cfg,
	}
}

// Index returns the restart index.
func (pr *Processor) Index() *restart.Index {
	return pr.index
}

// Scheduler returns the scheduler.
func (pr *Processor) Scheduler() *Scheduler {
	return pr.sched
}

// Tokenizer returns the tokenizer.
func (pr *Processor) Tokenizer() lexer.Tokenizer {
	return pr.tok
}

// Busy reports whether a pass is in flight or damage is pending.
func (pr *Processor) Busy() bool {
	return pr.cur != nil || pr.sched.Pending() > 0
}

// InFlight reports whether a pass is suspended mid-scan.
func (pr *Processor) InFlight() bool {
	return pr.cur != nil
}

// Edited reports a buffer change. It renumbers the restart index and the
// in-flight pass, tells an EditAware sink, and queues the damage.
func (pr *Processor) Edited(pos, delta int) {
	if delta == 0 {
		return
	}
	ev := Event{Position: pos, Delta: delta}

	if ea, ok := pr.sink.(EditAware); ok {
		ea.Edited(pos, delta)
	}
	pr.index.ShiftFrom(pos, delta)
	if pr.cur != nil {
		pr.cur.renumber(ev)
		pr.src.NotifyEdited(pos, delta)
	}
	pr.sched.Edit(ev)
	pr.stats.edits.Add(1)
}

// Invalidate forgets every restart position and schedules a pass over
// the whole document of the given length.
func (pr *Processor) Invalidate(length int) {
	pr.index.Reset()
	pr.sched.Schedule(Damage{Pos: 0, End: length})
}

// Rescan processes pending damage reading from t, lexing at most budget
// tokens (zero for no limit). It reports whether work remains.
func (pr *Processor) Rescan(t buffer.Text, budget int) bool {
	pr.src.Bind(t)
	used := 0
	for budget <= 0 || used < budget {
		if pr.cur == nil {
			d, ok := pr.sched.Next()
			if !ok {
				return false
			}
			pr.begin(d)
		}
		limit := 0
		if budget > 0 {
			limit = budget - used
		}
		used += pr.advance(t, limit)
	}
	return pr.Busy()
}

// Close abandons the in-flight pass.
func (pr *Processor) Close() {
	if pr.cur != nil {
		pr.end()
	}
	pr.sched.Clear()
}

func (pr *Processor) begin(d Damage) {
	start := pr.index.FloorBefore(d.Pos)
	pr.src.Seek(start)

	c := &pass{
		id:        uuid.New(),
		damage:    d,
		scanStart: start,
		started:   time.Now(),
	}
	_, c.span = pr.cfg.tracer.Start(context.Background(), "highlight.pass",
		trace.WithAttributes(
			attribute.String("pass.id", c.id.String()),
			attribute.Int("damage.pos", d.Pos),
			attribute.Int("damage.end", d.End),
			attribute.Int("scan.start", start),
		))
	c.next, c.stop = iter.Pull2(pr.tok.Tokenize(pr.src, start, lexer.Neutral))

	pr.sched.Begin(start)
	pr.cur = c
}

// advance lexes up to limit tokens (zero for no limit) of the current
// pass and returns how many were lexed.
func (pr *Processor) advance(t buffer.Text, limit int) int {
	c := pr.cur
	n := 0
	for limit <= 0 || n < limit {
		tok, err, ok := c.next()
		if !ok {
			pr.finish(-1, t.Len())
			return n
		}
		if err != nil {
			pr.fault(err, t.Len())
			return n
		}
		n++
		c.tokens++

		bias := pr.sched.Bias()
		start, end := tok.Start+bias, tok.End+bias
		if end > start {
			pr.sink.SetStyle(start, end-start, tok.Category)
		}
		pr.sched.Advance(end)

		if tok.State != lexer.Neutral {
			continue
		}
		if end >= c.damage.End && pr.index.Contains(end) {
			pr.finish(end, t.Len())
			return n
		}
		c.candidates = append(c.candidates, end)
	}
	return n
}

// finish commits the current pass. b is the resync position, or -1 when
// the scan reached the end of the buffer.
func (pr *Processor) finish(b, length int) {
	c := pr.cur
	resynced := b >= 0
	hi := b
	if !resynced {
		hi = math.MaxInt
		b = length
	}
	pr.commit(c, hi, length)

	pr.stats.passes.Add(1)
	pr.stats.tokens.Add(uint64(c.tokens))
	if resynced {
		pr.stats.resyncs.Add(1)
	}
	pr.stats.lastTokens.Store(int64(c.tokens))
	pr.stats.lastStart.Store(int64(c.scanStart))
	pr.stats.lastEnd.Store(int64(b))

	c.span.SetAttributes(
		attribute.Int("pass.tokens", c.tokens),
		attribute.Bool("pass.resync", resynced),
		attribute.Int("window.end", b),
	)
	pr.cfg.logger.Debug("pass %s damage %s window [%d,%d) tokens=%d resync=%t in %s",
		c.id, c.damage, c.scanStart, b, c.tokens, resynced, time.Since(c.started))
	pr.end()
}

// fault ends the current pass after a tokenizer error. Only the positions
// recorded before the error are committed.
func (pr *Processor) fault(err error, length int) {
	c := pr.cur
	committed := c.scanStart
	if n := len(c.candidates); n > 0 {
		committed = c.candidates[n-1]
	}
	pr.commit(c, committed, length)

	terr := &TokenizerError{PassID: c.id, Offset: pr.sched.LastPosition(), Err: err}
	pr.stats.passes.Add(1)
	pr.stats.faults.Add(1)
	pr.stats.tokens.Add(uint64(c.tokens))

	c.span.RecordError(terr)
	c.span.SetStatus(codes.Error, "tokenizer fault")
	pr.cfg.logger.Warn("%v", terr)
	if pr.cfg.onDiag != nil {
		pr.cfg.onDiag(Diagnostic{Time: time.Now(), Err: terr, Committed: committed})
	}
	pr.end()
}

// commit replaces the restart positions in [scanStart, hi) with the
// positions the pass confirmed.
func (pr *Processor) commit(c *pass, hi, length int) {
	pr.index.RemoveRange(c.scanStart, hi)
	pr.index.Insert(c.scanStart)
	for _, p := range c.candidates {
		pr.index.Insert(p)
	}
	pr.index.TrimAfter(length)
}

func (pr *Processor) end() {
	c := pr.cur
	c.stop()
	c.span.End()
	pr.sched.Finish()
	pr.cur = nil
}

// renumber maps the pass across an edit that landed while it was
// suspended. Confirmed positions follow the characters they precede, like
// the reader; positions inside a deleted span are dropped.
func (c *pass) renumber(ev Event) {
	p, d := ev.Position, ev.Delta
	c.scanStart = source.Adjust(c.scanStart, p, d)
	c.damage = c.damage.Translate(ev)

	kept := c.candidates[:0]
	for _, x := range c.candidates {
		if d < 0 && x > p && x < p-d {
			continue
		}
		y := source.Adjust(x, p, d)
		if n := len(kept); n > 0 && kept[n-1] >= y {
			continue
		}
		kept = append(kept, y)
	}
	c.candidates = kept
}
