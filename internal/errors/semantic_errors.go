package errors

import "fmt"

// Builder provides a fluent interface for constructing a Diagnostic with
// suggestions and notes attached incrementally.
type Builder struct {
	d Diagnostic
}

// NewDiagnostic starts a Builder for an error-level diagnostic with code
// and message at pos.
func NewDiagnostic(code, message string, pos Position) *Builder {
	return &Builder{d: Diagnostic{Level: Error, Code: code, Message: message, Position: pos, Length: 1}}
}

// NewWarning starts a Builder for a warning-level diagnostic.
func NewWarning(code, message string, pos Position) *Builder {
	return &Builder{d: Diagnostic{Level: Warning, Code: code, Message: message, Position: pos, Length: 1}}
}

// WithLength sets the length of the underlined span.
func (b *Builder) WithLength(length int) *Builder {
	b.d.Length = length
	return b
}

// WithSuggestion appends a suggested fix.
func (b *Builder) WithSuggestion(message string) *Builder {
	b.d.Suggestions = append(b.d.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote appends a contextual note.
func (b *Builder) WithNote(note string) *Builder {
	b.d.Notes = append(b.d.Notes, note)
	return b
}

// WithHelp sets the help text.
func (b *Builder) WithHelp(help string) *Builder {
	b.d.HelpText = help
	return b
}

// Build returns the completed Diagnostic.
func (b *Builder) Build() Diagnostic {
	return b.d
}

// Invalid-argument constructors (section 7). Each names the exact
// contract the caller broke; none of these can be reached through the
// grammar package, since ToAtom and ToTerm only ever build well-formed
// terms — they exist for direct internal/session or internal/combine
// callers (e.g. a host decision procedure driving the engine directly).

// NilTerm reports a nil term passed to an operation that requires one.
func NilTerm(operation string, pos Position) Diagnostic {
	return NewDiagnostic(ErrorNilTerm, fmt.Sprintf("%s called with a nil term", operation), pos).
		WithHelp("every term argument must come from a term.Store constructor").
		Build()
}

// NotAVariable reports a non-variable term passed where a variable is
// required, e.g. the rollback target of a protect scope.
func NotAVariable(operation string, got string, pos Position) Diagnostic {
	return NewDiagnostic(ErrorNotAVariable, fmt.Sprintf("%s requires a variable, got %s", operation, got), pos).
		WithSuggestion("pass a term built with Store.Var or Store.FreshVar").
		Build()
}

// UnknownSymbol reports an atom whose symbol no loaded theory claims.
func UnknownSymbol(symbol string, pos Position) Diagnostic {
	return NewDiagnostic(ErrorUnknownSymbol, fmt.Sprintf("no loaded theory recognizes symbol %q", symbol), pos).
		WithNote("the six built-in theories cover linear arithmetic, tuples, bitvectors, nonlinear arithmetic, coproducts, and arrays").
		WithHelp("uninterpreted application is always accepted; check the symbol name for a typo").
		Build()
}

// IndexOutOfRange reports a tuple projection or bitvector extraction
// index outside the bounds of the term it indexes.
func IndexOutOfRange(index, bound int, pos Position) Diagnostic {
	return NewDiagnostic(ErrorIndexOutOfRange, fmt.Sprintf("index %d is out of range for a term of width %d", index, bound), pos).
		Build()
}

// FlagsFrozen reports an attempt to change a run flag after the context
// already processed atoms.
func FlagsFrozen(flag string, pos Position) Diagnostic {
	return NewDiagnostic(ErrorFlagsFrozen, fmt.Sprintf("%s cannot change after the context has processed atoms", flag), pos).
		WithHelp("set run flags once on session.Empty and leave them fixed for the context's lifetime").
		Build()
}

// SyntaxError reports a rejected parse, wrapping the grammar package's
// own caret diagnostic with an error code for programmatic consumers.
func SyntaxError(detail string, pos Position) Diagnostic {
	return NewDiagnostic(ErrorSyntax, detail, pos).Build()
}

// UnsupportedComparison reports a sign-relational atom written against a
// nonzero or non-literal right-hand side.
func UnsupportedComparison(op string, pos Position) Diagnostic {
	return NewDiagnostic(ErrorUnsupportedComparison, fmt.Sprintf("%s is only supported against the literal 0", op), pos).
		WithNote("the partition's sign/interval component tracks one domain per variable, not general linear inequalities").
		Build()
}
