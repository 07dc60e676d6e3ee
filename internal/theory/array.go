package theory

import (
	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/term"
)

// Arr is the array Shostak theory: Select/Store, with the McCarthy
// read-over-write axioms. Sigma alone can only apply the syntactic half
// of those axioms (select(store(a,i,e),i) = e when i and the store
// index are the identical hash-consed term); the index-equal-by-V and
// index-disequal-by-V cases need partition access and are resolved by
// ResolveSelectStore, which the combination engine calls while
// abstracting a term - arrays are the one theory in this engine that
// cannot be made to fit the pure {Sigma, Norm, Solve} interface without
// losing the read-over-write axiom, so it gets this one extra hook.
type Arr struct{}

func (Arr) ID() ID { return Arrays }

func (Arr) Belongs(sym term.Symbol) bool {
	return sym == term.Select || sym == term.Store
}

func (Arr) Sigma(store *term.Store, sym term.Symbol, args []*term.Term) (*term.Term, error) {
	switch sym {
	case term.Select:
		a, i := args[0], args[1]
		if a.IsApp() && a.Sym() == term.Store && a.Args()[1] == i {
			return a.Args()[2], nil
		}
		return store.App(term.Select, "", a, i), nil
	case term.Store:
		return store.App(term.Store, "", args...), nil
	default:
		return nil, ErrUnsolvable
	}
}

func (ar Arr) Norm(store *term.Store, rho func(*term.Term) *term.Term, t *term.Term) *term.Term {
	if t.IsVar() {
		return rho(t)
	}
	if !ar.Belongs(t.Sym()) {
		return t
	}
	args := make([]*term.Term, len(t.Args()))
	for i, a := range t.Args() {
		args[i] = ar.Norm(store, rho, a)
	}
	out, err := ar.Sigma(store, t.Sym(), args)
	if err != nil {
		return store.App(t.Sym(), "", args...)
	}
	return out
}

// Solve only handles the trivial variable-isolation case; array equality
// is otherwise left opaque (CC over Select/Store applications does the
// rest of the work once ResolveSelectStore has fired).
func (Arr) Solve(store *term.Store, a, b *term.Term) ([]Eq, error) {
	if a == b {
		return nil, nil
	}
	if a.IsVar() {
		return []Eq{{X: a, T: b}}, nil
	}
	if b.IsVar() {
		return []Eq{{X: b, T: a}}, nil
	}
	return nil, ErrUnsolvable
}

func (Arr) Fold(t *term.Term, assign map[*term.Term]term.Rat) (term.Rat, bool) {
	return nil, false
}

// ResolveSelectStore is the hook the combination engine looks up on the
// theory that owns Select; it applies the package-level ResolveSelectStore.
func (Arr) ResolveSelectStore(store *term.Store, p *partition.Partition, t *term.Term) *term.Term {
	return ResolveSelectStore(store, p, t)
}

// ResolveSelectStore applies the read-over-write axiom using the current
// partition: select(store(a, i, e), j) rewrites to e when i =V j, and to
// select(a, j) when i and j are known-disequal. When neither relation is
// yet known, t is returned unchanged (the whole select/store term is
// aliased opaquely by congruence closure until more is learned - this
// engine does not re-trigger the rewrite retroactively).
func ResolveSelectStore(store *term.Store, p *partition.Partition, t *term.Term) *term.Term {
	if !t.IsApp() || t.Sym() != term.Select {
		return t
	}
	a, j := t.Args()[0], t.Args()[1]
	if !a.IsApp() || a.Sym() != term.Store {
		return t
	}
	i, e := a.Args()[1], a.Args()[2]
	if p.Equal(i, j) {
		return e
	}
	if p.Diseq(i, j) {
		return ResolveSelectStore(store, p, store.App(term.Select, "", a.Args()[0], j))
	}
	return t
}
