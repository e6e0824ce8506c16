package luatok

import "errors"

// Errors for Lua tokenizers.
var (
	// ErrStateClosed is returned when tokenizing with a closed tokenizer.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoLexFunction is returned when a script does not define lex.
	ErrNoLexFunction = errors.New("script does not define a lex function")

	// ErrBadResult is returned when lex returns values of the wrong type.
	ErrBadResult = errors.New("lex returned an invalid result")

	// ErrResetWithoutMark is raised in the script when r:reset() is called
	// without a preceding r:mark().
	ErrResetWithoutMark = errors.New("reset without mark")
)
