// Package theory implements the Shostak combination framework of
// section 4.3: a Theory interface {σ, norm, solve, fold} and a generic
// SolutionSet that every concrete theory (linear arithmetic, tuples,
// bitvectors, nonlinear arithmetic, coproducts, arrays) shares.
package theory

import (
	"fmt"

	"github.com/icsgo/ics/internal/just"
	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/term"
)

// ErrUnsolvable is returned by Solve when an equality cannot be reduced
// to a triangular solved form in this theory. The combination engine
// catches it and applies the incomplete-solver fallback of section 4.3.
var ErrUnsolvable = fmt.Errorf("theory: unsolvable")

// ID names one of the six Shostak theories, in the fixed array order
// section 5 requires the combination engine to drain in: linear
// arithmetic, tuples, bitvectors, nonlinear, coproduct, arrays.
type ID int

const (
	LinearArith ID = iota
	Tuples
	Bitvector
	Nonlinear
	Coproduct
	Arrays
	numTheories
)

func (id ID) String() string {
	return [...]string{"linarith", "tuple", "bv", "nonlinear", "coproduct", "array"}[id]
}

// Order is the fixed drain order of section 5.
var Order = []ID{LinearArith, Tuples, Bitvector, Nonlinear, Coproduct, Arrays}

// Eq is an oriented definitional equality x = t produced by Solve: x is a
// variable, t a pure-theory term.
type Eq struct {
	X *term.Term
	T *term.Term
}

// Theory is the per-domain plug-in the combination engine dispatches to.
type Theory interface {
	ID() ID
	// Belongs reports whether sym is one of this theory's interpreted
	// symbols (used by term.IsPure to test theory purity).
	Belongs(sym term.Symbol) bool
	// Sigma canonizes a pure-theory application of sym to args.
	Sigma(store *term.Store, sym term.Symbol, args []*term.Term) (*term.Term, error)
	// Norm normalizes t by substituting rho(x) for every variable x it
	// contains, then re-canonicalizing via Sigma.
	Norm(store *term.Store, rho func(*term.Term) *term.Term, t *term.Term) *term.Term
	// Solve reduces a = b to a triangular solved form, or fails.
	Solve(store *term.Store, a, b *term.Term) ([]Eq, error)
	// Fold evaluates t under a total rational assignment, used only by
	// the randomized solver-soundness property of section 8. Theories
	// that cannot meaningfully evaluate (e.g. arrays) return ok=false.
	Fold(t *term.Term, assign map[*term.Term]term.Rat) (val term.Rat, ok bool)
}

// VEq is a V-level equality the solution set asks the caller to union,
// discovered while composing or fusing a solved form.
type VEq struct {
	X, Y *term.Term
	J    just.Set
}

// SolutionSet is the triangular solved form Si for one theory: bindings
// x ↦ t plus a reverse lookup and a use-index (section 3, "Theory
// solution set").
type SolutionSet struct {
	th    Theory
	bind  map[*term.Term]*term.Term  // x -> t
	rev   map[*term.Term]*term.Term  // t -> x  (t's are hash-consed, safe as map key)
	justs map[*term.Term]just.Set    // x -> justification of its binding
	use   map[*term.Term]map[*term.Term]bool // leaf variable -> {x : x's rhs mentions it}
}

// NewSolutionSet creates an empty solution set for theory th.
func NewSolutionSet(th Theory) *SolutionSet {
	return &SolutionSet{
		th:    th,
		bind:  make(map[*term.Term]*term.Term),
		rev:   make(map[*term.Term]*term.Term),
		justs: make(map[*term.Term]just.Set),
		use:   make(map[*term.Term]map[*term.Term]bool),
	}
}

// Theory returns the owning theory.
func (s *SolutionSet) Theory() Theory { return s.th }

// Apply returns the right-hand side bound to x, if any.
func (s *SolutionSet) Apply(x *term.Term) (*term.Term, bool) {
	t, ok := s.bind[x]
	return t, ok
}

// Find returns the right-hand side bound to x, or x itself if unbound.
func (s *SolutionSet) Find(x *term.Term) *term.Term {
	if t, ok := s.bind[x]; ok {
		return t
	}
	return x
}

// Inv returns the variable whose rhs is (hash-cons) identical to t.
func (s *SolutionSet) Inv(t *term.Term) (*term.Term, bool) {
	x, ok := s.rev[t]
	return x, ok
}

func leaves(t *term.Term, out map[*term.Term]bool) {
	if t.IsVar() {
		out[t] = true
		return
	}
	for _, a := range t.Args() {
		leaves(a, out)
	}
}

// union replaces any existing binding for x with t, updating the reverse
// map and the use-index: x is removed from the use entries of the old
// rhs's leaf variables and added to those of t's.
func (s *SolutionSet) union(x, t *term.Term, j just.Set) {
	if old, ok := s.bind[x]; ok {
		delete(s.rev, old)
		oldLeaves := make(map[*term.Term]bool)
		leaves(old, oldLeaves)
		for l := range oldLeaves {
			if m := s.use[l]; m != nil {
				delete(m, x)
			}
		}
	}
	s.bind[x] = t
	s.rev[t] = x
	s.justs[x] = j
	newLeaves := make(map[*term.Term]bool)
	leaves(t, newLeaves)
	for l := range newLeaves {
		if s.use[l] == nil {
			s.use[l] = make(map[*term.Term]bool)
		}
		s.use[l][x] = true
	}
}

// restrict removes any binding for x entirely (used when Compose decides
// x's definition is external or redundant).
func (s *SolutionSet) restrict(x *term.Term) {
	if old, ok := s.bind[x]; ok {
		delete(s.rev, old)
		oldLeaves := make(map[*term.Term]bool)
		leaves(old, oldLeaves)
		for l := range oldLeaves {
			if m := s.use[l]; m != nil {
				delete(m, x)
			}
		}
		delete(s.bind, x)
		delete(s.justs, x)
	}
}

// useOf returns the (copied) set of variables whose rhs mentions x.
func (s *SolutionSet) useOf(x *term.Term) []*term.Term {
	m := s.use[x]
	out := make([]*term.Term, 0, len(m))
	for y := range m {
		out = append(out, y)
	}
	return term.SortTerms(out)
}

// Compose applies a solved form E to the solution set, closing under the
// propagations it triggers, per section 4.3's three-way dispatch. It
// never touches the partition directly: every V-level consequence is
// returned as a VEq for the combination engine to apply (through
// Partition.Union, so justifications and change sets stay uniform).
func (s *SolutionSet) Compose(store *term.Store, p *partition.Partition, find func(*term.Term) *term.Term, E []Eq, j just.Set) []VEq {
	type item struct {
		x *term.Term
		t *term.Term
	}
	work := make([]item, 0, len(E))
	for _, e := range E {
		work = append(work, item{x: e.X, t: e.T})
	}
	var out []VEq
	for len(work) > 0 {
		it := work[0]
		work = work[1:]
		x := p.Find(it.x)
		t := s.th.Norm(store, find, it.t)

		switch {
		case !term.IsPure(t, s.th.Belongs):
			// t mentions an uninterpreted symbol or another theory's
			// symbol: x's definition lives at the V level, not here.
			old := s.useOf(x)
			s.restrict(x)
			out = append(out, VEq{X: x, Y: t, J: j})
			for _, y := range old {
				work = append(work, item{x: y, t: s.Find(y)})
			}
		case t.IsVar() && t != x:
			old := s.useOf(x)
			s.restrict(x)
			out = append(out, VEq{X: x, Y: t, J: j})
			for _, y := range old {
				work = append(work, item{x: y, t: s.Find(y)})
			}
		default:
			if xp, ok := s.Inv(t); ok && xp != x {
				old := s.useOf(x)
				s.restrict(x)
				out = append(out, VEq{X: x, Y: xp, J: j})
				for _, y := range old {
					work = append(work, item{x: y, t: s.Find(y)})
				}
				continue
			}
			old := s.useOf(x)
			s.union(x, t, j)
			for _, y := range old {
				nt := s.th.Norm(store, find, s.Find(y))
				if nt != s.Find(y) {
					work = append(work, item{x: y, t: nt})
				}
			}
		}
	}
	return out
}

// Fuse propagates a single newly-discovered V-level equality x = y into
// every rhs mentioning x, by composing the singleton solved form.
func (s *SolutionSet) Fuse(store *term.Store, p *partition.Partition, find func(*term.Term) *term.Term, x, y *term.Term, j just.Set) []VEq {
	if _, ok := s.Apply(x); !ok {
		return nil
	}
	return s.Compose(store, p, find, []Eq{{X: x, T: y}}, j)
}

// Renormalize re-examines every binding whose rhs mentions a variable in
// changed (freshly canonicalized by the partition), re-canonicalizing and
// composing; this drives the "solved forms must be re-canonicalized"
// half of section 4.1's change-set contract.
func (s *SolutionSet) Renormalize(store *term.Store, p *partition.Partition, find func(*term.Term) *term.Term, changed []*term.Term, j just.Set) []VEq {
	var E []Eq
	seen := make(map[*term.Term]bool)
	for _, c := range changed {
		for _, x := range s.useOf(c) {
			if seen[x] {
				continue
			}
			seen[x] = true
			E = append(E, Eq{X: x, T: s.Find(x)})
		}
	}
	if len(E) == 0 {
		return nil
	}
	return s.Compose(store, p, find, E, j)
}

// Bindings returns a snapshot of every (x, t) pair, ordered, for
// diagnostics and Eq comparisons.
func (s *SolutionSet) Bindings() []Eq {
	out := make([]Eq, 0, len(s.bind))
	for x, t := range s.bind {
		out = append(out, Eq{X: x, T: t})
	}
	term2 := func(i int) *term.Term { return out[i].X }
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && term.Less(term2(j), term2(j-1)); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Copy returns a deep, independent copy for protect/branching.
func (s *SolutionSet) Copy() *SolutionSet {
	out := NewSolutionSet(s.th)
	for k, v := range s.bind {
		out.bind[k] = v
	}
	for k, v := range s.rev {
		out.rev[k] = v
	}
	for k, v := range s.justs {
		out.justs[k] = v
	}
	for k, m := range s.use {
		nm := make(map[*term.Term]bool, len(m))
		for k2, v2 := range m {
			nm[k2] = v2
		}
		out.use[k] = nm
	}
	return out
}
