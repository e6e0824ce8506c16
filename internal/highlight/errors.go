package highlight

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine errors.
var (
	// ErrRunning is returned by Run when the engine is already running.
	ErrRunning = errors.New("engine already running")

	// ErrNotWorker is returned by Run for an engine in inline mode.
	ErrNotWorker = errors.New("engine is not in worker mode")

	// ErrClosed is returned when the engine has been closed.
	ErrClosed = errors.New("engine closed")

	// ErrUnknownMode is returned by ParseMode.
	ErrUnknownMode = errors.New("unknown engine mode")
)

// TokenizerError reports a tokenizer failure that aborted a pass.
type TokenizerError struct {
	// PassID identifies the pass.
	PassID uuid.UUID

	// Offset is the buffer offset at which lexing failed.
	Offset int

	// Err is the tokenizer's error.
	Err error
}

// Error implements the error interface.
func (e *TokenizerError) Error() string {
	return fmt.Sprintf("pass %s: tokenizer failed at offset %d: %v", e.PassID, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *TokenizerError) Unwrap() error {
	return e.Err
}

// Diagnostic is delivered when a pass faults. The restart index has been
// committed up to Committed; processing continues with the next event.
type Diagnostic struct {
	Time      time.Time
	Err       *TokenizerError
	Committed int
}

// String returns a one-line description.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s (committed to %d)", d.Err, d.Committed)
}
