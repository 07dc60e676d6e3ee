package theory

import "github.com/icsgo/ics/internal/term"

// Tup is the tuple Shostak theory: Tuple constructors and Proj
// projections, with the usual projection-of-constructor simplification.
type Tup struct{}

func (Tup) ID() ID { return Tuples }

func (Tup) Belongs(sym term.Symbol) bool {
	return sym == term.Tuple || sym == term.Proj
}

func (Tup) Sigma(store *term.Store, sym term.Symbol, args []*term.Term) (*term.Term, error) {
	switch sym {
	case term.Tuple:
		return store.App(term.Tuple, "", args...), nil
	case term.Proj:
		tup, idx := args[0], args[1]
		if tup.IsApp() && tup.Sym() == term.Tuple {
			if n := projIndex(idx); n >= 0 && n < len(tup.Args()) {
				return tup.Args()[n], nil
			}
		}
		return store.App(term.Proj, "", tup, idx), nil
	default:
		return nil, ErrUnsolvable
	}
}

// projIndex reads a small non-negative integer literal index out of a
// Num term; tuple projections never need arbitrary precision here.
func projIndex(idx *term.Term) int {
	if !idx.IsApp() || idx.Sym() != term.Num || !idx.RatVal().IsInt() || idx.RatVal().Sign() < 0 {
		return -1
	}
	val := 0
	for _, r := range idx.RatVal().String() {
		if r < '0' || r > '9' {
			return -1
		}
		val = val*10 + int(r-'0')
	}
	return val
}

func (tu Tup) Norm(store *term.Store, rho func(*term.Term) *term.Term, t *term.Term) *term.Term {
	if t.IsVar() {
		return rho(t)
	}
	if !tu.Belongs(t.Sym()) {
		return t
	}
	args := make([]*term.Term, len(t.Args()))
	for i, a := range t.Args() {
		args[i] = tu.Norm(store, rho, a)
	}
	out, err := tu.Sigma(store, t.Sym(), args)
	if err != nil {
		return store.App(t.Sym(), "", args...)
	}
	return out
}

// Solve decomposes pair/tuple equalities component-wise, recursing when a
// component is itself a nested tuple. Arity or shape mismatches are
// reported as ErrUnsolvable (not Inconsistent): the caller's alias
// fallback is sound here since aliasing two definitionally-equal tuples
// under an opaque identity never asserts anything false, only less.
func (tu Tup) Solve(store *term.Store, a, b *term.Term) ([]Eq, error) {
	if a == b {
		return nil, nil
	}
	aTuple := a.IsApp() && a.Sym() == term.Tuple
	bTuple := b.IsApp() && b.Sym() == term.Tuple
	switch {
	case aTuple && bTuple:
		if len(a.Args()) != len(b.Args()) {
			return nil, ErrUnsolvable
		}
		var out []Eq
		for i := range a.Args() {
			sub, err := tu.Solve(store, a.Args()[i], b.Args()[i])
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	case a.IsVar():
		return []Eq{{X: a, T: b}}, nil
	case b.IsVar():
		return []Eq{{X: b, T: a}}, nil
	default:
		return nil, ErrUnsolvable
	}
}

func (Tup) Fold(t *term.Term, assign map[*term.Term]term.Rat) (term.Rat, bool) {
	return nil, false
}
