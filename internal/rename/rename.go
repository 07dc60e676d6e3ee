// Package rename implements the renaming/propositional-alias layer of
// section 4.4: it names monadic predicate applications p(x) and variable
// equalities x = y with propositional variables, and deduces
// propositional-level implications when the underlying symbols or
// variables become related. Consuming those implications into a DPLL
// search is explicitly out of scope (section 1); this package only
// produces them.
package rename

import (
	"sort"

	"github.com/icsgo/ics/internal/just"
	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/term"
)

// PropVar is an opaque propositional variable identifier.
type PropVar int

// monadicFact names "u iff p(x)".
type monadicFact struct {
	pred string
	x    *term.Term
}

// equalFact names "v iff x = y", with x, y stored in a canonical
// (Less-ordered) pair so payload comparison doesn't care about argument
// order.
type equalFact struct {
	x, y *term.Term
}

// ImplKind enumerates the propositional deductions the layer can emit.
type ImplKind int

const (
	Equiv ImplKind = iota
	Disjoint
	Implies
	Valid0
	Unsat0
)

func (k ImplKind) String() string {
	return [...]string{"equiv", "disjoint", "implies", "valid0", "unsat0"}[k]
}

// Implication is one deduced propositional fact, handed to whatever
// external Boolean collaborator the host wires in.
type Implication struct {
	Kind ImplKind
	U, V PropVar // V is unused for Valid0/Unsat0
	J    just.Set
}

// ActionKind enumerates the theory-level consequences of accepting a
// propositional-level verdict (section 4.4's propagate_valid0/unsat0).
type ActionKind int

const (
	ActAssertPred ActionKind = iota
	ActDenyPred
	ActUnion
	ActSeparate
)

// Action is what the combination engine must do in response to a
// Boolean collaborator accepting a propvar's truth value.
type Action struct {
	Kind ActionKind
	Pred string
	X, Y *term.Term
	J    just.Set
}

// Sym returns a symmetric pair key so (p,q) and (q,p) are equal.
func symKey(p, q string) [2]string {
	if p > q {
		p, q = q, p
	}
	return [2]string{p, q}
}

// Renaming owns the Monadic and Equal maps plus the dependency index,
// and the predicate sub/disjoint relation tables.
type Renaming struct {
	nextID   int
	monadic  map[PropVar]monadicFact
	equal    map[PropVar]equalFact
	deps     map[*term.Term]map[PropVar]bool // canonical var -> propvars mentioning it
	sub      map[[2]string]bool              // sub(p,q): p implies q
	disjoint map[[2]string]bool
}

// New creates an empty renaming layer.
func New() *Renaming {
	return &Renaming{
		monadic:  make(map[PropVar]monadicFact),
		equal:    make(map[PropVar]equalFact),
		deps:     make(map[*term.Term]map[PropVar]bool),
		sub:      make(map[[2]string]bool),
		disjoint: make(map[[2]string]bool),
	}
}

// AddSub records that predicate p implies predicate q.
func (r *Renaming) AddSub(p, q string) { r.sub[[2]string{p, q}] = true }

// IsSub reports whether p implies q.
func (r *Renaming) IsSub(p, q string) bool { return r.sub[[2]string{p, q}] }

// AddDisjoint records that p and q are mutually exclusive predicates.
func (r *Renaming) AddDisjoint(p, q string) { r.disjoint[symKey(p, q)] = true }

// IsDisjoint reports whether p and q are recorded as disjoint.
func (r *Renaming) IsDisjoint(p, q string) bool { return r.disjoint[symKey(p, q)] }

func (r *Renaming) addDep(x *term.Term, u PropVar) {
	if r.deps[x] == nil {
		r.deps[x] = make(map[PropVar]bool)
	}
	r.deps[x][u] = true
}

// AliasMonadic returns the propvar for "p(x)" under p's current
// canonical form, reusing an existing binding when one already names the
// identical (pred, canonical-x) pair.
func (r *Renaming) AliasMonadic(part *partition.Partition, pred string, x *term.Term) PropVar {
	fx := part.Find(x)
	if deps, ok := r.deps[fx]; ok {
		for u := range deps {
			if f, ok := r.monadic[u]; ok && f.pred == pred && part.Find(f.x) == fx {
				return u
			}
		}
	}
	u := PropVar(r.nextID)
	r.nextID++
	r.monadic[u] = monadicFact{pred: pred, x: fx}
	r.addDep(fx, u)
	return u
}

// AliasEqual returns the propvar for "x = y", reusing an existing
// binding under the current canonical forms of x and y.
func (r *Renaming) AliasEqual(part *partition.Partition, x, y *term.Term) PropVar {
	fx, fy := part.Find(x), part.Find(y)
	if term.Less(fy, fx) {
		fx, fy = fy, fx
	}
	for u := range r.deps[fx] {
		if f, ok := r.equal[u]; ok {
			a, b := part.Find(f.x), part.Find(f.y)
			if term.Less(b, a) {
				a, b = b, a
			}
			if a == fx && b == fy {
				return u
			}
		}
	}
	u := PropVar(r.nextID)
	r.nextID++
	r.equal[u] = equalFact{x: fx, y: fy}
	r.addDep(fx, u)
	r.addDep(fy, u)
	return u
}

func sortedVars(m map[PropVar]bool) []PropVar {
	out := make([]PropVar, 0, len(m))
	for u := range m {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PropagateEq is called by the partition after Union(x, y) merges x's
// old class into y's (y canonical). It scans the dependency sets of the
// two classes and emits equiv/disjoint/implies deductions for pairs of
// propvars whose payload becomes related by the new equality, then
// merges the dependency entries onto the surviving canonical variable.
func (r *Renaming) PropagateEq(part *partition.Partition, xOld, yNew *term.Term, j just.Set) []Implication {
	var out []Implication
	oldDeps := sortedVars(r.deps[xOld])
	newDeps := sortedVars(r.deps[yNew])

	for _, u := range oldDeps {
		fu, mu := r.monadic[u]
		if !mu {
			continue
		}
		for _, v := range newDeps {
			fv, mv := r.monadic[v]
			if !mv || u == v {
				continue
			}
			switch {
			case fu.pred == fv.pred:
				out = append(out, Implication{Kind: Equiv, U: u, V: v, J: j})
			case r.IsDisjoint(fu.pred, fv.pred):
				out = append(out, Implication{Kind: Disjoint, U: u, V: v, J: j})
			case r.IsSub(fu.pred, fv.pred):
				out = append(out, Implication{Kind: Implies, U: u, V: v, J: j})
			case r.IsSub(fv.pred, fu.pred):
				out = append(out, Implication{Kind: Implies, U: v, V: u, J: j})
			}
		}
	}

	if r.deps[yNew] == nil {
		r.deps[yNew] = make(map[PropVar]bool)
	}
	for u := range r.deps[xOld] {
		r.deps[yNew][u] = true
	}
	delete(r.deps, xOld)
	return out
}

// PropagateDeq is called after Separate(x, y); any propvar directly
// naming the equality x = y is now known false.
func (r *Renaming) PropagateDeq(part *partition.Partition, x, y *term.Term, j just.Set) []Implication {
	fx, fy := part.Find(x), part.Find(y)
	var out []Implication
	for u, f := range r.equal {
		a, b := part.Find(f.x), part.Find(f.y)
		if (a == fx && b == fy) || (a == fy && b == fx) {
			out = append(out, Implication{Kind: Unsat0, U: u, J: j})
		}
	}
	return out
}

// PropagateValid0 accepts that propvar u is true and returns the theory
// Action it implies.
func (r *Renaming) PropagateValid0(u PropVar, j just.Set) (Action, bool) {
	if f, ok := r.monadic[u]; ok {
		return Action{Kind: ActAssertPred, Pred: f.pred, X: f.x, J: j}, true
	}
	if f, ok := r.equal[u]; ok {
		return Action{Kind: ActUnion, X: f.x, Y: f.y, J: j}, true
	}
	return Action{}, false
}

// PropagateUnsat0 accepts that propvar u is false and returns the theory
// Action it implies.
func (r *Renaming) PropagateUnsat0(u PropVar, j just.Set) (Action, bool) {
	if f, ok := r.monadic[u]; ok {
		return Action{Kind: ActDenyPred, Pred: f.pred, X: f.x, J: j}, true
	}
	if f, ok := r.equal[u]; ok {
		return Action{Kind: ActSeparate, X: f.x, Y: f.y, J: j}, true
	}
	return Action{}, false
}

// PropagateValid1 looks up the propvar for "pred(x)" and, if one exists,
// reports it as now valid (a Valid0-kind Implication) to the collaborator.
func (r *Renaming) PropagateValid1(part *partition.Partition, pred string, x *term.Term, j just.Set) (Implication, bool) {
	fx := part.Find(x)
	for u := range r.deps[fx] {
		if f, ok := r.monadic[u]; ok && f.pred == pred && part.Find(f.x) == fx {
			return Implication{Kind: Valid0, U: u, J: j}, true
		}
	}
	return Implication{}, false
}

// PropagateUnsat1 is the dual of PropagateValid1 for a refuted predicate.
func (r *Renaming) PropagateUnsat1(part *partition.Partition, pred string, x *term.Term, j just.Set) (Implication, bool) {
	fx := part.Find(x)
	for u := range r.deps[fx] {
		if f, ok := r.monadic[u]; ok && f.pred == pred && part.Find(f.x) == fx {
			return Implication{Kind: Unsat0, U: u, J: j}, true
		}
	}
	return Implication{}, false
}

// Copy returns a deep, independent copy for protect/branching.
func (r *Renaming) Copy() *Renaming {
	out := New()
	out.nextID = r.nextID
	for k, v := range r.monadic {
		out.monadic[k] = v
	}
	for k, v := range r.equal {
		out.equal[k] = v
	}
	for k, m := range r.deps {
		nm := make(map[PropVar]bool, len(m))
		for k2, v2 := range m {
			nm[k2] = v2
		}
		out.deps[k] = nm
	}
	for k, v := range r.sub {
		out.sub[k] = v
	}
	for k, v := range r.disjoint {
		out.disjoint[k] = v
	}
	return out
}
