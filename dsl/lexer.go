// Package dsl parses .dmx documents: a brace-delimited tree of commands
// with free-form arguments, e.g.
//
//	doc Receipt v1 {
//	  stack gap 6 { text bold align center { "Hello ${customer.name}" } }
//	}
package dsl

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// 换行会吞掉其后的空白与空行，语法中只需要一个 EOL。
var dmxLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `(?:#|//)[^\n]*|/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "EOL", Pattern: `\n[\s]*`},
	{Name: "Number", Pattern: `\d+(?:\.\d+)?(?:dots|dot|mm|cm|in|pt|%)?`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "Punct", Pattern: `[][(){}.,;:=+\-*/%<>!?$]`},
})
