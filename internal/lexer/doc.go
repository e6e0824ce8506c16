// Package lexer defines the tokenizer contract used by the highlighting
// engine and provides built-in tokenizers for C-family languages.
//
// A Tokenizer turns a character stream into a lazy sequence of tokens.
// Each token carries a Category (the style tag applied to its text) and the
// State the tokenizer is in after the token. Neutral is the only state from
// which lexing may start without context; tokens inside multi-line
// constructs such as block comments end in another state.
//
// Tokenizers read through a Reader and may look ahead by marking the
// reader, reading, and resetting. A token's extent may depend on at most
// one rune past its end.
//
// Basic usage:
//
//	tok := lexer.Java()
//	tokens, err := lexer.LexString(tok, "int x=1;")
//	// reservedWord[0,3) whitespace[3,4) identifier[4,5) ...
package lexer
