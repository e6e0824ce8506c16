package lexer

import (
	"github.com/dshills/recolor/internal/engine/buffer"
	"github.com/dshills/recolor/internal/engine/source"
)

// LexString lexes text from the start in the Neutral state.
func LexString(t Tokenizer, text string) ([]Token, error) {
	var tokens []Token
	src := source.New(buffer.NewFromString(text))
	for tok, err := range t.Tokenize(src, 0, Neutral) {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Tags returns the category of every byte of text when lexed from the
// start. Bytes no token covers are CategoryNone.
func Tags(t Tokenizer, text string) ([]Category, error) {
	tokens, err := LexString(t, text)
	tags := make([]Category, len(text))
	for _, tok := range tokens {
		for i := max(tok.Start, 0); i < tok.End && i < len(tags); i++ {
			tags[i] = tok.Category
		}
	}
	return tags, err
}

// NeutralPoints returns 0 and every offset at which a from-scratch lex of
// text is in the Neutral state.
func NeutralPoints(t Tokenizer, text string) ([]int, error) {
	tokens, err := LexString(t, text)
	points := []int{0}
	for _, tok := range tokens {
		if tok.State == Neutral && tok.End > points[len(points)-1] {
			points = append(points, tok.End)
		}
	}
	return points, err
}
