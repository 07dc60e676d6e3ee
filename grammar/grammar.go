// Package grammar parses the surface atom grammar of section 6:
// `t = t | t != t` over variables, uninterpreted application, tuples,
// and linear arithmetic, with membership in a sign class written as a
// comparison against 0 (`t > 0`, `t >= 0`, `t < 0`, `t <= 0`); there is
// no `in` keyword. It is the one place in this repo that
// deliberately stays a thin shell around the core: the specification
// places surface syntax out of scope, so this package only needs to
// build the *term.Term and combine.Atom values the engine already knows
// how to consume, not reimplement any reasoning of its own.
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/icsgo/ics/internal/combine"
	ierrors "github.com/icsgo/ics/internal/errors"
	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/rat"
	"github.com/icsgo/ics/internal/term"
)

// pos converts a participle lexer position into the error package's
// reporter-agnostic Position, so lowering errors carry the same caret
// location ReportParseError would print for a syntax error at this token.
func pos(p lexer.Position) ierrors.Position {
	return ierrors.Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}

// Program is a sequence of atom statements, one per line of input.
type Program struct {
	Statements []*Statement `@@*`
}

// Statement is a single atom terminated by a semicolon.
type Statement struct {
	Atom *Atom `@@ ";"`
}

// Atom is `term relop term`; RelOp carries which of =, !=, >, <, >=, <=
// was written.
type Atom struct {
	Pos   lexer.Position
	Left  *Term  `@@`
	RelOp string `@("!=" | ">=" | "<=" | "=" | ">" | "<")`
	Right *Term  `@@`
}

// Term is the additive level: a sum/difference of (optionally
// coefficient-scaled) postfix terms.
type Term struct {
	Left *MulTerm   `@@`
	Rest []*AddTerm `{ @@ }`
}

// AddTerm is one "+ t" or "- t" continuation.
type AddTerm struct {
	Op    string   `@("+" | "-")`
	Right *MulTerm `@@`
}

// MulTerm is an optional integer/rational coefficient times a postfix
// term: `3 * x`, `x`. Only a literal-constant coefficient is accepted,
// matching the Mul symbol's "scalar times term" shape.
type MulTerm struct {
	Pos   lexer.Position
	Coeff *string      `[ @Number "*" ]`
	Value *PostfixTerm `@@`
}

// PostfixTerm is a primary term followed by zero or more `.N` tuple
// projections.
type PostfixTerm struct {
	Pos     lexer.Position
	Primary *PrimaryTerm `@@`
	Projs   []string     `{ "." @Number }`
}

// PrimaryTerm is a number literal, a variable or uninterpreted
// application, or a parenthesized term/tuple.
type PrimaryTerm struct {
	Pos   lexer.Position
	Paren *ParenTerm `  @@`
	Num   *string    `| @Number`
	Ident *IdentTerm `| @@`
}

// ParenTerm is `(t)` (a grouped term) or `(t, t, ...)` (a tuple literal)
// depending on how many comma-separated items appear.
type ParenTerm struct {
	Items []*Term `"(" @@ { "," @@ } ")"`
}

// IdentTerm is a bare variable `x` or a monadic application `f(t)`.
type IdentTerm struct {
	Name string  `@Ident`
	Arg  *Term   `[ "(" @@ ")" ]`
}

// Vars is the name -> term.Term binding environment a caller supplies so
// repeated uses of the same identifier resolve to the same hash-consed
// external variable.
type Vars map[string]*term.Term

// ToTerm lowers a parsed Term into the engine's term representation,
// allocating a fresh external variable in vars for any identifier seen
// for the first time.
func ToTerm(store *term.Store, vars Vars, t *Term) (*term.Term, error) {
	left, err := mulToTerm(store, vars, t.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range t.Rest {
		right, err := mulToTerm(store, vars, r.Right)
		if err != nil {
			return nil, err
		}
		if r.Op == "-" {
			right = store.App(term.Neg, "", right)
		}
		left = store.App(term.Add, "", left, right)
	}
	return left, nil
}

func mulToTerm(store *term.Store, vars Vars, m *MulTerm) (*term.Term, error) {
	val, err := postfixToTerm(store, vars, m.Value)
	if err != nil {
		return nil, err
	}
	if m.Coeff == nil {
		return val, nil
	}
	c, ok := rat.Parse(*m.Coeff)
	if !ok {
		return nil, ierrors.AsError(ierrors.NewDiagnostic(ierrors.ErrorSyntax,
			"bad numeric literal \""+*m.Coeff+"\"", pos(m.Pos)).Build())
	}
	return store.App(term.Mul, "", store.NumLit(c), val), nil
}

func postfixToTerm(store *term.Store, vars Vars, p *PostfixTerm) (*term.Term, error) {
	t, err := primaryToTerm(store, vars, p.Primary)
	if err != nil {
		return nil, err
	}
	for _, idxLit := range p.Projs {
		idx, ok := rat.Parse(idxLit)
		if !ok || !idx.IsInt() {
			return nil, ierrors.AsError(ierrors.NewDiagnostic(ierrors.ErrorSyntax,
				"bad tuple index \""+idxLit+"\"", pos(p.Pos)).Build())
		}
		t = store.App(term.Proj, "", t, store.NumLit(idx))
	}
	return t, nil
}

func primaryToTerm(store *term.Store, vars Vars, p *PrimaryTerm) (*term.Term, error) {
	switch {
	case p.Num != nil:
		c, ok := rat.Parse(*p.Num)
		if !ok {
			return nil, ierrors.AsError(ierrors.NewDiagnostic(ierrors.ErrorSyntax,
				"bad numeric literal \""+*p.Num+"\"", pos(p.Pos)).Build())
		}
		return store.NumLit(c), nil
	case p.Ident != nil:
		return identToTerm(store, vars, p.Ident)
	case p.Paren != nil:
		if len(p.Paren.Items) == 1 {
			return ToTerm(store, vars, p.Paren.Items[0])
		}
		args := make([]*term.Term, len(p.Paren.Items))
		for i, it := range p.Paren.Items {
			a, err := ToTerm(store, vars, it)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return store.App(term.Tuple, "", args...), nil
	default:
		return nil, ierrors.AsError(ierrors.NewDiagnostic(ierrors.ErrorSyntax,
			"empty primary term", pos(p.Pos)).Build())
	}
}

func identToTerm(store *term.Store, vars Vars, id *IdentTerm) (*term.Term, error) {
	if id.Arg == nil {
		if v, ok := vars[id.Name]; ok {
			return v, nil
		}
		v := store.Var(id.Name, term.External)
		vars[id.Name] = v
		return v, nil
	}
	arg, err := ToTerm(store, vars, id.Arg)
	if err != nil {
		return nil, err
	}
	return store.App(term.Uninterpreted, id.Name, arg), nil
}

// ToAtom lowers a parsed Atom into a combine.Atom. Comparisons against
// the literal 0 with >, <, >=, <= become arithmetic sign constraints;
// every other comparison against a non-zero right-hand side is rejected,
// since the partition's C component is a per-variable sign/interval
// store, not a general inequality solver — the spec leaves general
// linear inequalities out of scope (section 1 names only equalities,
// disequalities, and arithmetic membership).
func ToAtom(store *term.Store, vars Vars, a *Atom) (combine.Atom, error) {
	left, err := ToTerm(store, vars, a.Left)
	if err != nil {
		return combine.Atom{}, err
	}
	right, err := ToTerm(store, vars, a.Right)
	if err != nil {
		return combine.Atom{}, err
	}

	switch a.RelOp {
	case "=":
		return combine.Atom{Kind: combine.AtomEq, X: left, Y: right}, nil
	case "!=":
		return combine.Atom{Kind: combine.AtomDeq, X: left, Y: right}, nil
	case ">", "<", ">=", "<=":
		if !(right.IsApp() && right.Sym() == term.Num && right.RatVal().IsZero()) {
			return combine.Atom{}, ierrors.AsError(ierrors.UnsupportedComparison(a.RelOp, pos(a.Pos)))
		}
		var sign partition.Sign
		switch a.RelOp {
		case ">":
			sign = partition.SPos
		case "<":
			sign = partition.SNeg
		case ">=":
			sign = partition.SNonNeg
		case "<=":
			sign = partition.SNonPos
		}
		return combine.Atom{Kind: combine.AtomSign, X: left, Domain: partition.Domain{Sign: sign}}, nil
	default:
		return combine.Atom{}, ierrors.AsError(ierrors.NewDiagnostic(ierrors.ErrorSyntax,
			"unknown relational operator \""+a.RelOp+"\"", pos(a.Pos)).Build())
	}
}
