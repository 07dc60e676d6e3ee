// Package term implements the hash-consed term DAG shared by every
// reasoning component: the partition, congruence closure, and the
// per-theory solution sets all refer to terms by identity, never by
// structural comparison.
package term

import (
	"fmt"
	"sort"
	"strings"
)

// VarKind distinguishes why a variable exists. Kind participates in the
// tie-break order used when two classes merge (external < fresh < slack
// < label) and in the triangularity checks of the theory solution sets.
type VarKind int

const (
	// External variables are introduced by the caller.
	External VarKind = iota
	// FreshRename variables are introduced while abstracting a nested
	// term into a flat monadic application or a pure theory term.
	FreshRename
	// Slack variables are introduced by the linear-arithmetic solver to
	// eliminate a constant when isolating a variable.
	Slack
	// Label variables are anonymous extensions with no further meaning
	// to the combination engine beyond their identity.
	Label
)

func (k VarKind) String() string {
	switch k {
	case External:
		return "external"
	case FreshRename:
		return "fresh"
	case Slack:
		return "slack"
	case Label:
		return "label"
	default:
		return "unknown"
	}
}

// rank orders kinds for canonical-representative selection: the "simplest"
// kind wins, per section 4.1/4.3 of the orientation rules.
func (k VarKind) rank() int { return int(k) }

// Symbol is the closed family of interpreted function symbols, plus the
// single escape hatch for uninterpreted application.
type Symbol int

const (
	// Uninterpreted marks an application of a user symbol `f`; the
	// symbol's name is carried in Term.FuncName and Args[0] is the
	// argument.
	Uninterpreted Symbol = iota

	// Linear arithmetic.
	Add
	Neg
	Mul // by a rational constant, Args[0] is always the scalar
	Num // a rational constant, carried in Term.Rat

	// Tuples.
	Tuple
	Proj // Args[1] is an integer index literal carried via Num

	// Bitvectors (fixed width carried in Term.Width).
	BVConst
	BVAnd
	BVOr
	BVXor
	BVNot
	BVConcat
	BVExtract // Args = [bv, hi, lo] with hi/lo as Num literals

	// Nonlinear arithmetic.
	NLMul
	NLExpt // Args = [base, exponent] exponent a Num literal

	// Coproducts (sum types).
	Inl
	Inr
	OutL
	OutR

	// Arrays.
	Select
	Store

	// Apply/abstract (function-space terms used by the tuple/array
	// theories to name higher-order positions without a quantifier).
	Apply
	Abstract
)

func (s Symbol) String() string {
	names := [...]string{
		"uninterpreted", "+", "-", "*", "num",
		"tuple", "proj",
		"bv.const", "bv.and", "bv.or", "bv.xor", "bv.not", "bv.concat", "bv.extract",
		"nl.mul", "nl.expt",
		"inl", "inr", "outl", "outr",
		"select", "store",
		"apply", "abstract",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// Rat is the minimal exact-rational interface the engine needs. The
// specification treats multi-precision arithmetic as an external
// facility; internal/rat supplies the concrete implementation used here.
type Rat interface {
	Cmp(Rat) int
	Add(Rat) Rat
	Sub(Rat) Rat
	Mul(Rat) Rat
	Neg() Rat
	IsZero() bool
	Sign() int
	IsInt() bool
	String() string
}

// Term is an immutable DAG node: either a Variable or an Application.
// Equality of two *Term values is pointer equality once both have been
// produced by the same Store — that is the entire payoff of hash-consing.
type Term struct {
	id int

	// Variable fields.
	isVar bool
	name  string
	kind  VarKind

	// Application fields.
	sym   Symbol
	args  []*Term
	fname string // uninterpreted function name, only set when sym == Uninterpreted
	rat   Rat    // literal payload for Num
	width int    // bit width for BV* symbols
}

// ID is the stable hash-cons identity, used for the total order on terms.
func (t *Term) ID() int { return t.id }

// IsVar reports whether t is a Variable node.
func (t *Term) IsVar() bool { return t.isVar }

// Name returns the variable's name; empty for an Application.
func (t *Term) Name() string { return t.name }

// Kind returns the variable's kind; meaningless for an Application.
func (t *Term) Kind() VarKind { return t.kind }

// Sym returns the application's interpreted symbol.
func (t *Term) Sym() Symbol { return t.sym }

// Args returns the application's arguments (never mutated after creation).
func (t *Term) Args() []*Term { return t.args }

// FuncName returns the uninterpreted symbol name for a Sym()==Uninterpreted
// application.
func (t *Term) FuncName() string { return t.fname }

// RatVal returns the literal payload of a Num application.
func (t *Term) RatVal() Rat { return t.rat }

// Width returns the bit width of a bitvector application.
func (t *Term) Width() int { return t.width }

// IsApp reports whether t is an Application node.
func (t *Term) IsApp() bool { return !t.isVar }

// Less gives the total order on terms derived from hash-cons identity,
// refined by kind for variables so tie-breaks in section 4.3 are cheap
// to implement: external < fresh < slack < label, then by id.
func Less(a, b *Term) bool {
	if a.isVar != b.isVar {
		return a.isVar // variables sort before applications
	}
	if a.isVar {
		if a.kind != b.kind {
			return a.kind.rank() < b.kind.rank()
		}
	}
	return a.id < b.id
}

// String renders a term for diagnostics and the REPL; it is not a
// canonical form and is never consulted by the reasoning engine itself.
func (t *Term) String() string {
	if t.isVar {
		return t.name
	}
	switch t.sym {
	case Uninterpreted:
		parts := make([]string, len(t.args))
		for i, a := range t.args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", t.fname, strings.Join(parts, ", "))
	case Num:
		return t.rat.String()
	case BVConst:
		return fmt.Sprintf("#x%d:%d", t.rat, t.width)
	default:
		parts := make([]string, len(t.args))
		for i, a := range t.args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", t.sym, strings.Join(parts, ", "))
	}
}

// Store is the hash-consing table. One Store is owned per session; terms
// from different Stores must never be mixed.
type Store struct {
	nextID int
	vars   map[string]*Term // name -> term, keys already include a kind tag
	apps   map[string]*Term // structural key -> term
}

// NewStore creates an empty hash-cons table.
func NewStore() *Store {
	return &Store{
		vars: make(map[string]*Term),
		apps: make(map[string]*Term),
	}
}

func (s *Store) fresh() int {
	id := s.nextID
	s.nextID++
	return id
}

// Var returns the hash-consed variable of the given name and kind,
// creating it on first use. Two calls with the same (name, kind) pair
// return the identical *Term.
func (s *Store) Var(name string, kind VarKind) *Term {
	key := kind.String() + "#" + name
	if t, ok := s.vars[key]; ok {
		return t
	}
	t := &Term{id: s.fresh(), isVar: true, name: name, kind: kind}
	s.vars[key] = t
	return t
}

// FreshVar allocates a variable with a synthesized name, used whenever
// the combination engine needs a rename or slack variable.
func (s *Store) FreshVar(kind VarKind, prefix string) *Term {
	name := fmt.Sprintf("%s%d", prefix, s.fresh())
	t := &Term{id: s.fresh(), isVar: true, name: name, kind: kind}
	s.vars[kind.String()+"#"+name] = t
	return t
}

func appKey(sym Symbol, fname string, width int, rat Rat, args []*Term) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s|%d|", sym, fname, width)
	if rat != nil {
		b.WriteString(rat.String())
	}
	b.WriteByte('|')
	for _, a := range args {
		fmt.Fprintf(&b, "%d,", a.id)
	}
	return b.String()
}

// App returns the hash-consed application `sym(args...)`, creating it on
// first use. fname is only meaningful when sym == Uninterpreted.
func (s *Store) App(sym Symbol, fname string, args ...*Term) *Term {
	key := appKey(sym, fname, 0, nil, args)
	if t, ok := s.apps[key]; ok {
		return t
	}
	t := &Term{id: s.fresh(), sym: sym, fname: fname, args: args}
	s.apps[key] = t
	return t
}

// NumLit returns the hash-consed rational-literal term for r.
func (s *Store) NumLit(r Rat) *Term {
	key := appKey(Num, "", 0, r, nil)
	if t, ok := s.apps[key]; ok {
		return t
	}
	t := &Term{id: s.fresh(), sym: Num, rat: r}
	s.apps[key] = t
	return t
}

// BVLit returns the hash-consed bitvector-literal term of the given width.
func (s *Store) BVLit(r Rat, width int) *Term {
	key := appKey(BVConst, "", width, r, nil)
	if t, ok := s.apps[key]; ok {
		return t
	}
	t := &Term{id: s.fresh(), sym: BVConst, rat: r, width: width}
	s.apps[key] = t
	return t
}

// BVApp returns a bitvector application of the given width.
func (s *Store) BVApp(sym Symbol, width int, args ...*Term) *Term {
	key := appKey(sym, "", width, nil, args)
	if t, ok := s.apps[key]; ok {
		return t
	}
	t := &Term{id: s.fresh(), sym: sym, width: width, args: args}
	s.apps[key] = t
	return t
}

// SortTerms returns a new, Less-ordered copy of ts. Ordered iteration is
// required by section 5's determinism guarantee whenever a map of terms
// would otherwise be walked in hash order.
func SortTerms(ts []*Term) []*Term {
	out := make([]*Term, len(ts))
	copy(out, ts)
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// IsPure reports whether every symbol reachable from t belongs to the
// given predicate, used by theories to decide whether a subterm is
// "pure i" (contains only theory-i symbols and variables).
func IsPure(t *Term, belongs func(Symbol) bool) bool {
	if t.isVar {
		return true
	}
	if t.sym != Uninterpreted && !belongs(t.sym) {
		return false
	}
	if t.sym == Uninterpreted {
		return false
	}
	for _, a := range t.args {
		if !IsPure(a, belongs) {
			return false
		}
	}
	return true
}
