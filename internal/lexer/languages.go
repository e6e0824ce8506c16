package lexer

// Java returns the built-in tokenizer for Java. It is the default
// tokenizer of the engine.
func Java() *Lexer {
	l := NewLexer("java", []string{".java"})

	l.SetLineComment("//").SetBlockComment("/*", "*/")
	l.AddQuotes('"', '\'').EnableTextBlocks()
	l.SetAnnotation('@').AddIdentifierRunes("$")
	l.AddSeparators("(){}[];,.")
	l.AddOperators(
		"=", ">", "<", "!", "~", "?", ":", "::", "->",
		"==", "<=", ">=", "!=", "&&", "||", "++", "--",
		"+", "-", "*", "/", "&", "|", "^", "%",
		"<<", ">>", ">>>",
		"+=", "-=", "*=", "/=", "&=", "|=", "^=", "%=",
		"<<=", ">>=", ">>>=")

	l.AddKeywords(CategoryReservedWord,
		"abstract", "assert", "boolean", "break", "byte", "case", "catch",
		"char", "class", "const", "continue", "default", "do", "double",
		"else", "enum", "extends", "final", "finally", "float", "for",
		"goto", "if", "implements", "import", "instanceof", "int",
		"interface", "long", "native", "new", "package", "private",
		"protected", "public", "return", "short", "static", "strictfp",
		"super", "switch", "synchronized", "this", "throw", "throws",
		"transient", "try", "void", "volatile", "while",
		"var", "record", "yield", "sealed", "permits")
	l.AddKeywords(CategoryLiteral,
		"true", "false", "null")

	return l
}

// Go returns a tokenizer for Go.
func Go() *Lexer {
	l := NewLexer("go", []string{".go"})

	l.SetLineComment("//").SetBlockComment("/*", "*/")
	l.AddQuotes('"', '\'').SetRawQuote('`')
	l.AddSeparators("(){}[];,.")
	l.AddOperators(
		"+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>", "&^",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=", "&^=",
		"&&", "||", "<-", "++", "--", "==", "<", ">", "=", "!", "~",
		"!=", "<=", ">=", ":", ":=")

	l.AddKeywords(CategoryReservedWord,
		"if", "else", "for", "range", "switch", "case", "default",
		"break", "continue", "return", "goto", "fallthrough", "select",
		"func", "var", "const", "type", "struct", "interface", "map", "chan",
		"package", "import", "defer", "go")
	l.AddKeywords(CategoryReservedWord,
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128",
		"bool", "byte", "rune", "string", "error", "any")
	l.AddKeywords(CategoryLiteral,
		"true", "false", "nil", "iota")

	return l
}

// JavaScript returns a tokenizer for JavaScript and TypeScript.
func JavaScript() *Lexer {
	l := NewLexer("javascript", []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"})

	l.SetLineComment("//").SetBlockComment("/*", "*/")
	l.AddQuotes('"', '\'').SetRawQuote('`')
	l.SetAnnotation('@').AddIdentifierRunes("$")
	l.AddSeparators("(){}[];,.")
	l.AddOperators(
		"=", "==", "===", "!", "!=", "!==", "<", "<=", "<<", "<<=",
		">", ">=", ">>", ">>=", ">>>", ">>>=", "=>",
		"+", "++", "+=", "-", "--", "-=", "*", "*=", "**", "**=",
		"/", "/=", "%", "%=", "&", "&&", "&=", "&&=", "|", "||", "|=", "||=",
		"^", "^=", "~", "?", "?.", "??", "??=", ":")

	l.AddKeywords(CategoryReservedWord,
		"if", "else", "for", "while", "do", "switch", "case", "default",
		"break", "continue", "return", "throw", "try", "catch", "finally",
		"function", "var", "let", "const", "class", "extends", "async", "await",
		"type", "interface", "enum", "namespace", "module", "declare",
		"import", "export", "from", "as", "new", "delete",
		"typeof", "instanceof", "in", "of", "this", "super", "static",
		"get", "set", "yield", "debugger", "with",
		"public", "private", "protected", "readonly", "abstract", "override")
	l.AddKeywords(CategoryLiteral,
		"true", "false", "null", "undefined", "NaN", "Infinity")

	return l
}

// C returns a tokenizer for C.
func C() *Lexer {
	l := NewLexer("c", []string{".c", ".h"})

	l.SetLineComment("//").SetBlockComment("/*", "*/")
	l.AddQuotes('"', '\'')
	l.SetDirective('#')
	l.AddSeparators("(){}[];,.")
	l.AddOperators(
		"=", "==", "!", "!=", "<", "<=", "<<", "<<=", ">", ">=", ">>", ">>=",
		"+", "++", "+=", "-", "--", "-=", "->", "*", "*=", "/", "/=",
		"%", "%=", "&", "&&", "&=", "|", "||", "|=", "^", "^=", "~", "?", ":")

	l.AddKeywords(CategoryReservedWord,
		"auto", "break", "case", "char", "const", "continue", "default",
		"do", "double", "else", "enum", "extern", "float", "for", "goto",
		"if", "inline", "int", "long", "register", "restrict", "return",
		"short", "signed", "sizeof", "static", "struct", "switch",
		"typedef", "union", "unsigned", "void", "volatile", "while",
		"_Bool", "_Complex", "_Imaginary")
	l.AddKeywords(CategoryLiteral,
		"NULL", "true", "false")

	return l
}
