package highlight

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/recolor/internal/logging"
)

// Mode selects where damage passes run.
type Mode int

const (
	// ModeInline drains every pass inside the buffer notification.
	ModeInline Mode = iota
	// ModeWorker runs passes in slices on a background goroutine.
	ModeWorker
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeInline:
		return "inline"
	case ModeWorker:
		return "worker"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inline", "":
		return ModeInline, nil
	case "worker":
		return ModeWorker, nil
	default:
		return ModeInline, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// DefaultSliceTokens is the default number of tokens lexed per worker
// slice.
const DefaultSliceTokens = 256

// tracerName is the instrumentation scope of pass spans.
const tracerName = "github.com/dshills/recolor/internal/highlight"

// config holds settings shared by Engine and Processor.
type config struct {
	mode        Mode
	sliceTokens int
	logger      *logging.Logger
	tracer      trace.Tracer
	onDiag      func(Diagnostic)
}

func defaultConfig() config {
	return config{
		mode:        ModeInline,
		sliceTokens: DefaultSliceTokens,
		logger:      logging.Default().WithComponent("highlight"),
		tracer:      otel.Tracer(tracerName),
	}
}

// Option configures an Engine or Processor.
type Option func(*config)

// WithMode sets the engine mode.
func WithMode(m Mode) Option {
	return func(c *config) {
		c.mode = m
	}
}

// WithSliceTokens sets the number of tokens lexed per worker slice.
// Zero runs each pass to completion in one slice.
func WithSliceTokens(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.sliceTokens = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer sets the tracer used for pass spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithDiagnostics sets the handler for pass faults. The handler runs with
// the engine locked and must not call back into the engine or its buffer.
func WithDiagnostics(fn func(Diagnostic)) Option {
	return func(c *config) {
		c.onDiag = fn
	}
}
