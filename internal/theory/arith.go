package theory

import (
	"sort"

	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/rat"
	"github.com/icsgo/ics/internal/term"
)

// LinArith is the linear-arithmetic Shostak theory: canonical terms are
// a rational constant plus a sorted sum of `coefficient * variable`
// monomials, built from Add/Neg/Mul/Num.
type LinArith struct{}

func (LinArith) ID() ID { return LinearArith }

func (LinArith) Belongs(sym term.Symbol) bool {
	switch sym {
	case term.Add, term.Neg, term.Mul, term.Num:
		return true
	default:
		return false
	}
}

// linExpr is the flattened monomial representation used internally; the
// canonical *term.Term form is only ever materialized by build.
type linExpr struct {
	coeff map[*term.Term]rat.R
	k     rat.R
}

func newLinExpr() linExpr { return linExpr{coeff: make(map[*term.Term]rat.R), k: rat.Zero()} }

func (e linExpr) addMono(v *term.Term, c rat.R) {
	if c.IsZero() {
		return
	}
	if cur, ok := e.coeff[v]; ok {
		sum := cur.Add(c).(rat.R)
		if sum.IsZero() {
			delete(e.coeff, v)
		} else {
			e.coeff[v] = sum
		}
		return
	}
	e.coeff[v] = c
}

func (e linExpr) scale(c rat.R) linExpr {
	out := newLinExpr()
	out.k = e.k.Mul(c).(rat.R)
	for v, cv := range e.coeff {
		out.addMono(v, cv.Mul(c).(rat.R))
	}
	return out
}

func (e linExpr) add(o linExpr) linExpr {
	out := newLinExpr()
	out.k = e.k.Add(o.k).(rat.R)
	for v, c := range e.coeff {
		out.addMono(v, c)
	}
	for v, c := range o.coeff {
		out.addMono(v, c)
	}
	return out
}

func (e linExpr) neg() linExpr { return e.scale(rat.Int(-1)) }

func flatten(t *term.Term) linExpr {
	if t.IsVar() {
		out := newLinExpr()
		out.addMono(t, rat.One())
		return out
	}
	switch t.Sym() {
	case term.Num:
		out := newLinExpr()
		out.k = t.RatVal().(rat.R)
		return out
	case term.Add:
		out := newLinExpr()
		for _, a := range t.Args() {
			out = out.add(flatten(a))
		}
		return out
	case term.Neg:
		return flatten(t.Args()[0]).neg()
	case term.Mul:
		c := t.Args()[0].RatVal().(rat.R)
		return flatten(t.Args()[1]).scale(c)
	default:
		out := newLinExpr()
		out.addMono(t, rat.One())
		return out
	}
}

func (e linExpr) build(store *term.Store) *term.Term {
	vars := make([]*term.Term, 0, len(e.coeff))
	for v := range e.coeff {
		vars = append(vars, v)
	}
	vars = term.SortTerms(vars)
	parts := []*term.Term{store.NumLit(e.k)}
	for _, v := range vars {
		parts = append(parts, store.App(term.Mul, "", store.NumLit(e.coeff[v]), v))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return store.App(term.Add, "", parts...)
}

// Sigma canonizes sym(args) where args are already-canonical subterms.
func (LinArith) Sigma(store *term.Store, sym term.Symbol, args []*term.Term) (*term.Term, error) {
	switch sym {
	case term.Num:
		return args[0], nil
	case term.Add:
		e := newLinExpr()
		for _, a := range args {
			e = e.add(flatten(a))
		}
		return e.build(store), nil
	case term.Neg:
		return flatten(args[0]).neg().build(store), nil
	case term.Mul:
		c := args[0].RatVal().(rat.R)
		return flatten(args[1]).scale(c).build(store), nil
	default:
		return nil, ErrUnsolvable
	}
}

func substLeaves(t *term.Term, rho func(*term.Term) *term.Term, store *term.Store, belongs func(term.Symbol) bool) *term.Term {
	if t.IsVar() {
		return rho(t)
	}
	if !belongs(t.Sym()) {
		return t
	}
	newArgs := make([]*term.Term, len(t.Args()))
	changed := false
	for i, a := range t.Args() {
		na := substLeaves(a, rho, store, belongs)
		newArgs[i] = na
		if na != a {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return store.App(t.Sym(), t.FuncName(), newArgs...)
}

func (l LinArith) Norm(store *term.Store, rho func(*term.Term) *term.Term, t *term.Term) *term.Term {
	raw := substLeaves(t, rho, store, l.Belongs)
	if raw.IsVar() || !l.Belongs(raw.Sym()) {
		return raw
	}
	return flatten(raw).build(store)
}

// Solve isolates a variable in a - b = 0. A constant-only mismatch (e.g.
// 3 = 4 after cancellation) is a genuine arithmetic contradiction and is
// reported as *partition.Inconsistent, not ErrUnsolvable: the fallback
// of aliasing both sides would be unsound here, since the equality is
// not merely beyond the solver's reach but actually false.
func (l LinArith) Solve(store *term.Store, a, b *term.Term) ([]Eq, error) {
	diff := flatten(a).add(flatten(b).neg())
	if len(diff.coeff) == 0 {
		if diff.k.IsZero() {
			return nil, nil
		}
		return nil, &partition.Inconsistent{Because: "linear arithmetic: constant mismatch"}
	}

	type cand struct {
		v *term.Term
		c rat.R
	}
	cands := make([]cand, 0, len(diff.coeff))
	for v, c := range diff.coeff {
		cands = append(cands, cand{v, c})
	}
	sort.Slice(cands, func(i, j int) bool {
		ri, rj := cands[i].v.Kind(), cands[j].v.Kind()
		if ri != rj {
			return ri < rj
		}
		return cands[i].v.ID() < cands[j].v.ID()
	})
	chosen := cands[0]
	rest := newLinExpr()
	rest.k = diff.k
	for _, c := range cands[1:] {
		rest.addMono(c.v, c.c)
	}
	invCoeff := chosen.c.Neg().(rat.R).Inv()
	rhs := rest.scale(invCoeff).build(store)
	return []Eq{{X: chosen.v, T: rhs}}, nil
}

func (LinArith) Fold(t *term.Term, assign map[*term.Term]term.Rat) (term.Rat, bool) {
	e := flatten(t)
	sum := e.k
	for v, c := range e.coeff {
		val, ok := assign[v]
		if !ok {
			return nil, false
		}
		sum = sum.Add(c.Mul(val)).(rat.R)
	}
	return sum, true
}
