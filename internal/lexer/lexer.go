package lexer

import (
	"fmt"
	"iter"
	"unicode"
)

// Lexer is a configurable tokenizer for C-family languages.
//
// It recognizes whitespace, identifiers and keywords, numbers, quoted
// strings, line and block comments, separators and operators. Block
// comments, raw strings and text blocks may span lines; they are emitted
// one line at a time with a non-Neutral state until they close.
type Lexer struct {
	language   string
	extensions []string

	keywords    map[string]Category
	separators  map[rune]bool
	operators   map[string]bool
	quotes      map[rune]bool
	identExtra  map[rune]bool
	lineComment []rune
	blockStart  []rune
	blockEnd    []rune
	rawQuote    rune
	textBlocks  bool
	annotation  rune
	directive   rune
}

// textBlockDelim opens and closes a text block.
var textBlockDelim = []rune(`"""`)

// NewLexer creates a lexer with no rules.
func NewLexer(language string, extensions []string) *Lexer {
	return &Lexer{
		language:   language,
		extensions: extensions,
		keywords:   make(map[string]Category),
		separators: make(map[rune]bool),
		operators:  make(map[string]bool),
		quotes:     make(map[rune]bool),
		identExtra: make(map[rune]bool),
	}
}

// AddKeywords adds words with a specific category.
func (l *Lexer) AddKeywords(cat Category, words ...string) *Lexer {
	for _, w := range words {
		l.keywords[w] = cat
	}
	return l
}

// AddSeparators adds single-rune separators.
func (l *Lexer) AddSeparators(chars string) *Lexer {
	for _, c := range chars {
		l.separators[c] = true
	}
	return l
}

// AddOperators adds operators. Every prefix of a multi-rune operator must
// itself be an operator.
func (l *Lexer) AddOperators(ops ...string) *Lexer {
	for _, op := range ops {
		l.operators[op] = true
	}
	return l
}

// AddQuotes adds single-line string delimiters.
func (l *Lexer) AddQuotes(chars ...rune) *Lexer {
	for _, c := range chars {
		l.quotes[c] = true
	}
	return l
}

// AddIdentifierRunes allows extra runes in identifiers.
func (l *Lexer) AddIdentifierRunes(chars string) *Lexer {
	for _, c := range chars {
		l.identExtra[c] = true
	}
	return l
}

// SetLineComment sets the line comment prefix.
func (l *Lexer) SetLineComment(prefix string) *Lexer {
	l.lineComment = []rune(prefix)
	return l
}

// SetBlockComment sets the block comment delimiters.
func (l *Lexer) SetBlockComment(start, end string) *Lexer {
	l.blockStart = []rune(start)
	l.blockEnd = []rune(end)
	return l
}

// SetRawQuote sets the delimiter of multi-line raw strings.
func (l *Lexer) SetRawQuote(c rune) *Lexer {
	l.rawQuote = c
	return l
}

// EnableTextBlocks enables triple-quoted multi-line strings.
func (l *Lexer) EnableTextBlocks() *Lexer {
	l.textBlocks = true
	return l
}

// SetAnnotation sets the rune that starts an annotation.
func (l *Lexer) SetAnnotation(c rune) *Lexer {
	l.annotation = c
	return l
}

// SetDirective sets the rune that starts a preprocessor line.
func (l *Lexer) SetDirective(c rune) *Lexer {
	l.directive = c
	return l
}

// Language returns the language name.
func (l *Lexer) Language() string {
	return l.language
}

// FileExtensions returns the supported file extensions.
func (l *Lexer) FileExtensions() []string {
	return l.extensions
}

// Tokenize implements Tokenizer.
func (l *Lexer) Tokenize(r Reader, bias int, initial State) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		s := &scanner{r: r, pos: bias}
		state := initial
		for {
			start := s.pos
			s.begin()
			cat, next, ok := l.next(s, state)
			if s.err != nil {
				yield(Token{}, fmt.Errorf("%s: read at offset %d: %w", l.language, s.pos, s.err))
				return
			}
			if !ok {
				return
			}
			state = next
			if !yield(Token{Start: start, End: s.pos, Category: cat, State: next}, nil) {
				return
			}
		}
	}
}

// next scans one token. It returns false at end of input.
func (l *Lexer) next(s *scanner, state State) (Category, State, bool) {
	switch state {
	case StateBlockComment:
		return l.scanDelimited(s, l.blockEnd, CategoryComment, state)
	case StateTextBlock:
		return l.scanDelimited(s, textBlockDelim, CategoryLiteral, state)
	case StateRawString:
		return l.scanDelimited(s, []rune{l.rawQuote}, CategoryLiteral, state)
	}

	c, ok := s.read()
	if !ok {
		return CategoryNone, Neutral, false
	}

	switch {
	case c == '\n':
		return CategoryWhitespace, Neutral, true
	case isSpace(c):
		s.acceptRun(isSpace)
		s.acceptRune('\n')
		return CategoryWhitespace, Neutral, true
	case l.isIdentStart(c):
		s.acceptRun(l.isIdentPart)
		if cat, ok := l.keywords[s.word()]; ok {
			return cat, Neutral, true
		}
		return CategoryIdentifier, Neutral, true
	case unicode.IsDigit(c):
		scanNumber(s)
		return CategoryLiteral, Neutral, true
	case l.quotes[c]:
		return l.scanString(s, c)
	case l.rawQuote != 0 && c == l.rawQuote:
		return l.scanDelimited(s, []rune{l.rawQuote}, CategoryLiteral, StateRawString)
	case l.startsWith(s, c, l.lineComment):
		s.acceptRun(notNewline)
		return CategoryComment, Neutral, true
	case l.startsWith(s, c, l.blockStart):
		return l.scanDelimited(s, l.blockEnd, CategoryComment, StateBlockComment)
	case l.directive != 0 && c == l.directive:
		s.acceptRun(notNewline)
		return CategoryPreprocessor, Neutral, true
	case l.annotation != 0 && c == l.annotation:
		s.acceptRun(l.isIdentPart)
		if len(s.text) == 1 {
			return CategoryUnknown, Neutral, true
		}
		return CategoryPreprocessor, Neutral, true
	case l.separators[c]:
		return CategorySeparator, Neutral, true
	case l.operators[string(c)]:
		l.scanOperator(s)
		return CategoryOperator, Neutral, true
	default:
		return CategoryUnknown, Neutral, true
	}
}

// startsWith reports whether c and the following runes spell prefix,
// consuming them if so.
func (l *Lexer) startsWith(s *scanner, c rune, prefix []rune) bool {
	if len(prefix) == 0 || c != prefix[0] {
		return false
	}
	return s.acceptRunes(prefix[1:])
}

// scanString scans a single-line string after its opening quote.
// Unterminated strings are errors.
func (l *Lexer) scanString(s *scanner, quote rune) (Category, State, bool) {
	if quote == '"' && l.textBlocks && s.acceptRune('"') {
		if s.acceptRune('"') {
			return l.scanDelimited(s, textBlockDelim, CategoryLiteral, StateTextBlock)
		}
		return CategoryLiteral, Neutral, true
	}
	for {
		s.mark()
		c, ok := s.read()
		if !ok || c == '\n' {
			s.reset()
			return CategoryError, Neutral, true
		}
		switch c {
		case quote:
			return CategoryLiteral, Neutral, true
		case '\\':
			s.accept(notNewline)
		}
	}
}

// scanDelimited scans the body of a multi-line construct up to and
// including end, a newline, or end of input. The token closes the construct
// only when end was seen.
func (l *Lexer) scanDelimited(s *scanner, end []rune, cat Category, inside State) (Category, State, bool) {
	for {
		c, ok := s.read()
		if !ok {
			return cat, inside, len(s.text) > 0
		}
		if c == '\n' {
			return cat, inside, true
		}
		if len(end) > 0 && c == end[0] && s.acceptRunes(end[1:]) {
			return cat, Neutral, true
		}
	}
}

// scanOperator extends a one-rune operator to the longest known operator.
func (l *Lexer) scanOperator(s *scanner) {
	op := s.word()
	for {
		s.mark()
		c, ok := s.read()
		if !ok || !l.operators[op+string(c)] {
			s.reset()
			return
		}
		op += string(c)
	}
}

func scanNumber(s *scanner) {
	for {
		prev := s.text[len(s.text)-1]
		if s.accept(isNumberPart) {
			continue
		}
		if (prev == 'e' || prev == 'E') && !isHexPrefix(s.text) && s.accept(isSign) {
			continue
		}
		return
	}
}

func (l *Lexer) isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || l.identExtra[c]
}

func (l *Lexer) isIdentPart(c rune) bool {
	return l.isIdentStart(c) || unicode.IsDigit(c)
}

func isSpace(c rune) bool {
	return c != '\n' && unicode.IsSpace(c)
}

func notNewline(c rune) bool {
	return c != '\n'
}

func isNumberPart(c rune) bool {
	return c == '_' || c == '.' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func isSign(c rune) bool {
	return c == '+' || c == '-'
}

func isHexPrefix(text []rune) bool {
	return len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}
