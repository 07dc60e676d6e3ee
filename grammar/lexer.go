package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// AtomLexer tokenizes the surface atom grammar of section 6: variables,
// integer/rational literals, uninterpreted function application, tuple,
// linear-arithmetic (+, -, *) and relational syntax. It is a much smaller
// token set than a full programming-language lexer since the grammar
// itself is just t = t, t != t, and sign comparisons of a term with 0.
var AtomLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Number", `[0-9]+(/[0-9]+)?`, nil},
		{"Operator", `(!=|>=|<=|==|=|>|<)`, nil},
		{"Punctuation", `[(),;.+*-]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
