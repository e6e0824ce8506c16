package lexer

import "errors"

// Errors returned by tokenizers.
var (
	// ErrNoProgress indicates a tokenizer produced an empty token.
	ErrNoProgress = errors.New("tokenizer made no progress")

	// ErrUnknownLanguage indicates no tokenizer is registered for a name.
	ErrUnknownLanguage = errors.New("unknown language")
)
