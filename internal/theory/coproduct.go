package theory

import (
	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/term"
)

// Coprod is the coproduct (sum-type) Shostak theory: Inl/Inr injections
// and OutL/OutR projections, with the no-confusion/no-junk axioms of a
// disjoint union.
type Coprod struct{}

func (Coprod) ID() ID { return Coproduct }

func (Coprod) Belongs(sym term.Symbol) bool {
	switch sym {
	case term.Inl, term.Inr, term.OutL, term.OutR:
		return true
	default:
		return false
	}
}

func (Coprod) Sigma(store *term.Store, sym term.Symbol, args []*term.Term) (*term.Term, error) {
	switch sym {
	case term.Inl:
		return store.App(term.Inl, "", args[0]), nil
	case term.Inr:
		return store.App(term.Inr, "", args[0]), nil
	case term.OutL:
		if args[0].IsApp() && args[0].Sym() == term.Inl {
			return args[0].Args()[0], nil
		}
		return store.App(term.OutL, "", args[0]), nil
	case term.OutR:
		if args[0].IsApp() && args[0].Sym() == term.Inr {
			return args[0].Args()[0], nil
		}
		return store.App(term.OutR, "", args[0]), nil
	default:
		return nil, ErrUnsolvable
	}
}

func (c Coprod) Norm(store *term.Store, rho func(*term.Term) *term.Term, t *term.Term) *term.Term {
	if t.IsVar() {
		return rho(t)
	}
	if !c.Belongs(t.Sym()) {
		return t
	}
	args := make([]*term.Term, len(t.Args()))
	for i, a := range t.Args() {
		args[i] = c.Norm(store, rho, a)
	}
	out, err := c.Sigma(store, t.Sym(), args)
	if err != nil {
		return store.App(t.Sym(), "", args...)
	}
	return out
}

// Solve applies constructor injectivity (Inl x = Inl y ⇒ x = y) and
// disjointness: Inl _ = Inr _ can never hold for a genuine sum type, so
// it is reported as *partition.Inconsistent rather than left to the
// (unsound, in this one case) aliasing fallback.
func (Coprod) Solve(store *term.Store, a, b *term.Term) ([]Eq, error) {
	if a == b {
		return nil, nil
	}
	aIn, bIn := a.IsApp() && (a.Sym() == term.Inl || a.Sym() == term.Inr), b.IsApp() && (b.Sym() == term.Inl || b.Sym() == term.Inr)
	switch {
	case aIn && bIn:
		if a.Sym() != b.Sym() {
			return nil, &partition.Inconsistent{Because: "coproduct: Inl and Inr are disjoint constructors"}
		}
		return Coprod{}.Solve(store, a.Args()[0], b.Args()[0])
	case a.IsVar():
		return []Eq{{X: a, T: b}}, nil
	case b.IsVar():
		return []Eq{{X: b, T: a}}, nil
	default:
		return nil, ErrUnsolvable
	}
}

func (Coprod) Fold(t *term.Term, assign map[*term.Term]term.Rat) (term.Rat, bool) {
	return nil, false
}
