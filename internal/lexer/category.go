package lexer

// Category is the style tag a tokenizer assigns to a token.
type Category string

// Token categories. The markup categories are available to tokenizers for
// tag-based languages.
const (
	CategoryNone Category = ""

	// Markup
	CategoryBody      Category = "body"
	CategoryTag       Category = "tag"
	CategoryEndTag    Category = "endtag"
	CategoryReference Category = "reference"
	CategoryName      Category = "name"
	CategoryValue     Category = "value"
	CategoryText      Category = "text"

	// Code
	CategoryReservedWord Category = "reservedWord"
	CategoryIdentifier   Category = "identifier"
	CategoryLiteral      Category = "literal"
	CategorySeparator    Category = "separator"
	CategoryOperator     Category = "operator"
	CategoryComment      Category = "comment"
	CategoryPreprocessor Category = "preprocessor"
	CategoryWhitespace   Category = "whitespace"
	CategoryError        Category = "error"
	CategoryUnknown      Category = "unknown"
)

// categories lists every named category in style-table order.
var categories = []Category{
	CategoryBody,
	CategoryTag,
	CategoryEndTag,
	CategoryReference,
	CategoryName,
	CategoryValue,
	CategoryText,
	CategoryReservedWord,
	CategoryIdentifier,
	CategoryLiteral,
	CategorySeparator,
	CategoryOperator,
	CategoryComment,
	CategoryPreprocessor,
	CategoryWhitespace,
	CategoryError,
	CategoryUnknown,
}

// Categories returns every named category.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// String returns the category name, or "none" for CategoryNone.
func (c Category) String() string {
	if c == CategoryNone {
		return "none"
	}
	return string(c)
}

// IsKnown reports whether c is one of the named categories.
func (c Category) IsKnown() bool {
	for _, k := range categories {
		if k == c {
			return true
		}
	}
	return false
}
