// Package luatok runs Lua scripts as tokenizers.
//
// A script defines a global function
//
//	function lex(r, state) ... return category, newState end
//
// where r is the character reader and state the tokenizer state as an
// integer (0 is neutral). r:read() returns the next character as a string,
// or nil at end of input; r:mark() and r:reset() provide one rune of
// lookahead. lex returns nil at end of input. The script may also set the
// globals language and extensions to describe itself.
//
// Scripts run in a restricted state: only the base, table, string and
// math libraries are opened and loaders are removed. Every lex call runs
// under a timeout.
package luatok
