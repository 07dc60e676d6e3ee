package theory

import (
	"github.com/icsgo/ics/internal/rat"
	"github.com/icsgo/ics/internal/term"
)

// NL is the nonlinear-arithmetic theory: products and integer powers of
// terms that linear arithmetic cannot express directly. Canonization
// sorts a product's factors (multiplication is commutative) and folds
// constant factors and constant bases/exponents; it otherwise leaves the
// monomial opaque to the rest of the engine, which is exactly the
// "nonlinear" boundary this theory exists to mark.
type NL struct{}

func (NL) ID() ID { return Nonlinear }

func (NL) Belongs(sym term.Symbol) bool {
	return sym == term.NLMul || sym == term.NLExpt
}

func (n NL) Sigma(store *term.Store, sym term.Symbol, args []*term.Term) (*term.Term, error) {
	switch sym {
	case term.NLMul:
		var factors []*term.Term
		for _, a := range args {
			if a.IsApp() && a.Sym() == term.NLMul {
				factors = append(factors, a.Args()...)
			} else {
				factors = append(factors, a)
			}
		}
		constAcc := rat.One()
		var rest []*term.Term
		for _, f := range factors {
			if f.IsApp() && f.Sym() == term.Num {
				constAcc = constAcc.Mul(f.RatVal()).(rat.R)
			} else {
				rest = append(rest, f)
			}
		}
		rest = term.SortTerms(rest)
		if len(rest) == 0 {
			return store.NumLit(constAcc), nil
		}
		if len(rest) == 1 && constAcc.Cmp(rat.One()) == 0 {
			return rest[0], nil
		}
		all := append([]*term.Term{store.NumLit(constAcc)}, rest...)
		return store.App(term.NLMul, "", all...), nil
	case term.NLExpt:
		base, exp := args[0], args[1]
		if exp.IsApp() && exp.Sym() == term.Num && exp.RatVal().IsInt() {
			if exp.RatVal().Sign() == 0 {
				return store.NumLit(rat.One()), nil
			}
			if base.IsApp() && base.Sym() == term.Num {
				n := intOf(exp)
				acc := rat.One()
				for i := 0; i < n; i++ {
					acc = acc.Mul(base.RatVal()).(rat.R)
				}
				return store.NumLit(acc), nil
			}
		}
		return store.App(term.NLExpt, "", base, exp), nil
	default:
		return nil, ErrUnsolvable
	}
}

func intOf(t *term.Term) int {
	n := 0
	for _, r := range t.RatVal().String() {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func (n NL) Norm(store *term.Store, rho func(*term.Term) *term.Term, t *term.Term) *term.Term {
	if t.IsVar() {
		return rho(t)
	}
	if !n.Belongs(t.Sym()) {
		return t
	}
	args := make([]*term.Term, len(t.Args()))
	for i, a := range t.Args() {
		args[i] = n.Norm(store, rho, a)
	}
	out, err := n.Sigma(store, t.Sym(), args)
	if err != nil {
		return store.App(t.Sym(), "", args...)
	}
	return out
}

// occurs reports whether x appears anywhere in t.
func occurs(x, t *term.Term) bool {
	if x == t {
		return true
	}
	for _, a := range t.Args() {
		if occurs(x, a) {
			return true
		}
	}
	return false
}

// Solve only handles the trivial shapes: identical terms, or one side a
// bare variable not occurring in the other. Genuine nonlinear equalities
// (x*y = z) are intentionally left to the aliasing fallback — deciding
// them is exactly the incompleteness nonlinear arithmetic is known for.
func (NL) Solve(store *term.Store, a, b *term.Term) ([]Eq, error) {
	if a == b {
		return nil, nil
	}
	if a.IsVar() && !occurs(a, b) {
		return []Eq{{X: a, T: b}}, nil
	}
	if b.IsVar() && !occurs(b, a) {
		return []Eq{{X: b, T: a}}, nil
	}
	return nil, ErrUnsolvable
}

func (NL) Fold(t *term.Term, assign map[*term.Term]term.Rat) (term.Rat, bool) {
	if t.IsVar() {
		v, ok := assign[t]
		return v, ok
	}
	switch t.Sym() {
	case term.Num:
		return t.RatVal(), true
	case term.NLMul:
		acc := rat.One()
		for _, a := range t.Args() {
			v, ok := foldNL(a, assign)
			if !ok {
				return nil, false
			}
			acc = acc.Mul(v).(rat.R)
		}
		return acc, true
	default:
		return nil, false
	}
}

func foldNL(t *term.Term, assign map[*term.Term]term.Rat) (term.Rat, bool) {
	nl := NL{}
	return nl.Fold(t, assign)
}
