// Package partition implements the variable partition P = (V, D, C) of
// section 3: union-find equivalences, a disequality store, and an
// arithmetic sign/interval store. Every theory and the congruence-closure
// layer read and write through this single structure.
package partition

import (
	"fmt"

	"github.com/icsgo/ics/internal/just"
	"github.com/icsgo/ics/internal/rat"
	"github.com/icsgo/ics/internal/term"
)

// Inconsistent is raised whenever a union, separation, or sign refinement
// would contradict the current partition. It is caught at the top of the
// combination engine's add(s, a) and converted into the Inconsistent
// verdict; it must never escape a `protect` scope uncaught.
type Inconsistent struct {
	J       just.Set
	Because string
}

func (e *Inconsistent) Error() string { return "inconsistent: " + e.Because }

// Sign is an element of the three-valued arithmetic lattice
// {bottom, =0, >0, <0, >=0, <=0, top} from the glossary.
type Sign int

const (
	SBottom Sign = iota
	SZero
	SPos
	SNeg
	SNonNeg
	SNonPos
	STop
)

func (s Sign) String() string {
	switch s {
	case SBottom:
		return "bottom"
	case SZero:
		return "=0"
	case SPos:
		return ">0"
	case SNeg:
		return "<0"
	case SNonNeg:
		return ">=0"
	case SNonPos:
		return "<=0"
	default:
		return "top"
	}
}

// meet computes the lattice meet of two signs, or SBottom if they are
// disjoint (e.g. >0 meet <0).
func meet(a, b Sign) Sign {
	if a == STop {
		return b
	}
	if b == STop {
		return a
	}
	if a == b {
		return a
	}
	pairs := map[[2]Sign]Sign{
		{SZero, SNonNeg}: SZero, {SNonNeg, SZero}: SZero,
		{SZero, SNonPos}: SZero, {SNonPos, SZero}: SZero,
		{SPos, SNonNeg}: SPos, {SNonNeg, SPos}: SPos,
		{SNeg, SNonPos}: SNeg, {SNonPos, SNeg}: SNeg,
		{SNonNeg, SNonPos}: SZero, {SNonPos, SNonNeg}: SZero,
	}
	if v, ok := pairs[[2]Sign{a, b}]; ok {
		return v
	}
	return SBottom
}

// Domain is the per-variable arithmetic refinement: a sign together with
// an optional exact-rational interval, plus the integer-solve declaration
// of section 4.3. Integer is sticky: once a variable is declared integer
// it stays so under every further meet, the same way a sign or interval
// bound only ever tightens.
type Domain struct {
	Sign         Sign
	HasLo, HasHi bool
	Lo, Hi       term.Rat
	Integer      bool
}

// Top is the unconstrained domain.
func Top() Domain { return Domain{Sign: STop} }

// IntegerDomain is the unconstrained domain with the integer-solve
// declaration set, for callers asserting that a variable ranges over the
// integers (section 4.3) without otherwise constraining its sign.
func IntegerDomain() Domain { return Domain{Sign: STop, Integer: true} }

// Meet computes the lattice meet of d and o, the public entry point used
// by callers (e.g. session's Valid check) that need to test a refinement
// without committing it.
func (d Domain) Meet(o Domain) (Domain, bool) { return d.meet(o) }

func (d Domain) meet(o Domain) (Domain, bool) {
	out := Domain{Sign: meet(d.Sign, o.Sign), Integer: d.Integer || o.Integer}
	if out.Sign == SBottom {
		return out, false
	}
	out.HasLo, out.Lo = d.HasLo, d.Lo
	if o.HasLo && (!out.HasLo || o.Lo.Cmp(out.Lo) > 0) {
		out.HasLo, out.Lo = true, o.Lo
	}
	out.HasHi, out.Hi = d.HasHi, d.Hi
	if o.HasHi && (!out.HasHi || o.Hi.Cmp(out.Hi) < 0) {
		out.HasHi, out.Hi = true, o.Hi
	}
	if out.HasLo && out.HasHi && out.Lo.Cmp(out.Hi) > 0 {
		return out, false
	}
	switch out.Sign {
	case SPos:
		if out.HasHi && out.Hi.Sign() <= 0 {
			return out, false
		}
	case SNeg:
		if out.HasLo && out.Lo.Sign() >= 0 {
			return out, false
		}
	case SZero:
		if (out.HasLo && out.Lo.Sign() > 0) || (out.HasHi && out.Hi.Sign() < 0) {
			return out, false
		}
	}
	return out, true
}

func (d Domain) String() string {
	s := d.Sign.String()
	if d.HasLo || d.HasHi {
		lo, hi := "-inf", "+inf"
		if d.HasLo {
			lo = d.Lo.String()
		}
		if d.HasHi {
			hi = d.Hi.String()
		}
		s = fmt.Sprintf("%s [%s,%s]", s, lo, hi)
	}
	if d.Integer {
		s = "int " + s
	}
	return s
}

// Partition is the coupled V/D/C structure.
type Partition struct {
	rep     map[*term.Term]*term.Term // union-find parent
	just    map[*term.Term]just.Set   // justification of x's union into its current class
	diseq   map[*term.Term]map[*term.Term]just.Set
	domain  map[*term.Term]Domain

	// Change sets, drained by the combination engine each add() call.
	// Ordered-append buffers, per section 5's determinism requirement.
	vChanged []VChange
	dChanged []DChange
	cChanged []*term.Term
}

// VChange records that `from` was merged into the class now represented
// by `to`.
type VChange struct {
	From, To *term.Term
	J        just.Set
}

// DChange records a newly asserted disequality between canonical
// variables.
type DChange struct {
	X, Y *term.Term
	J    just.Set
}

// New creates an empty partition: every variable starts in its own class,
// with no disequalities and the unconstrained sign.
func New() *Partition {
	return &Partition{
		rep:    make(map[*term.Term]*term.Term),
		just:   make(map[*term.Term]just.Set),
		diseq:  make(map[*term.Term]map[*term.Term]just.Set),
		domain: make(map[*term.Term]Domain),
	}
}

// Find returns the canonical representative of x's class, compressing
// the path as it walks.
func (p *Partition) Find(x *term.Term) *term.Term {
	root := x
	for {
		parent, ok := p.rep[root]
		if !ok {
			break
		}
		root = parent
	}
	for x != root {
		parent := p.rep[x]
		p.rep[x] = root
		x = parent
	}
	return root
}

// Equal reports whether x and y are in the same class.
func (p *Partition) Equal(x, y *term.Term) bool {
	return p.Find(x) == p.Find(y)
}

// Diseq reports whether a disequality is on record between x's and y's
// classes.
func (p *Partition) Diseq(x, y *term.Term) bool {
	fx, fy := p.Find(x), p.Find(y)
	if m, ok := p.diseq[fx]; ok {
		_, ok := m[fy]
		return ok
	}
	return false
}

// DiseqJust returns the justification of a disequality recorded via
// Diseq, or the zero Set if none exists.
func (p *Partition) DiseqJust(x, y *term.Term) just.Set {
	fx, fy := p.Find(x), p.Find(y)
	if m, ok := p.diseq[fx]; ok {
		return m[fy]
	}
	return just.Empty()
}

// pick chooses the canonical representative between two class roots per
// the orientation order of section 4.1: external < fresh < slack < label,
// ties by id.
func pick(a, b *term.Term) (rep, sub *term.Term) {
	if term.Less(a, b) {
		return a, b
	}
	return b, a
}

// Union merges x's and y's classes under justification j. When a
// disequality is already recorded between the two classes, or their sign
// domains have an empty meet, it returns *Inconsistent instead.
func (p *Partition) Union(x, y *term.Term, j just.Set) error {
	fx, fy := p.Find(x), p.Find(y)
	if fx == fy {
		return nil
	}
	if p.Diseq(fx, fy) {
		return &Inconsistent{J: just.Dep2(j, p.DiseqJust(fx, fy)), Because: "union contradicts recorded disequality"}
	}
	rep, sub := pick(fx, fy)

	dom, ok := p.domainOf(rep).meet(p.domainOf(sub))
	if !ok {
		return &Inconsistent{J: j, Because: "merged classes have disjoint arithmetic domains"}
	}
	p.domain[rep] = dom
	delete(p.domain, sub)

	if subD, ok := p.diseq[sub]; ok {
		for other, oj := range subD {
			if other == rep {
				return &Inconsistent{J: just.Dep2(j, oj), Because: "union contradicts recorded disequality"}
			}
			p.addDiseqEdge(rep, other, oj)
			p.removeDiseqEdge(sub, other)
		}
		delete(p.diseq, sub)
	}

	p.rep[sub] = rep
	p.just[sub] = j
	p.vChanged = append(p.vChanged, VChange{From: sub, To: rep, J: j})
	return nil
}

func (p *Partition) domainOf(x *term.Term) Domain {
	if d, ok := p.domain[x]; ok {
		return d
	}
	return Top()
}

func (p *Partition) addDiseqEdge(x, y *term.Term, j just.Set) {
	if p.diseq[x] == nil {
		p.diseq[x] = make(map[*term.Term]just.Set)
	}
	if p.diseq[y] == nil {
		p.diseq[y] = make(map[*term.Term]just.Set)
	}
	p.diseq[x][y] = j
	p.diseq[y][x] = j
}

func (p *Partition) removeDiseqEdge(x, y *term.Term) {
	if m, ok := p.diseq[x]; ok {
		delete(m, y)
	}
	if m, ok := p.diseq[y]; ok {
		delete(m, x)
	}
}

// Separate records a disequality between x and y under justification j.
// Precondition: ¬Equal(x, y); violating it raises Inconsistent.
func (p *Partition) Separate(x, y *term.Term, j just.Set) error {
	fx, fy := p.Find(x), p.Find(y)
	if fx == fy {
		return &Inconsistent{J: j, Because: "disequality contradicts recorded equality"}
	}
	if p.Diseq(fx, fy) {
		return nil
	}
	p.addDiseqEdge(fx, fy, j)
	p.dChanged = append(p.dChanged, DChange{X: fx, Y: fy, J: j})
	return nil
}

// RefineSign meets x's current domain with d under justification j.
func (p *Partition) RefineSign(x *term.Term, d Domain, j just.Set) error {
	fx := p.Find(x)
	merged, ok := p.domainOf(fx).meet(d)
	if !ok {
		return &Inconsistent{J: j, Because: "arithmetic domain refinement is empty"}
	}
	p.domain[fx] = merged
	p.cChanged = append(p.cChanged, fx)
	return nil
}

// DomainOf returns the current arithmetic domain of x's class.
func (p *Partition) DomainOf(x *term.Term) Domain { return p.domainOf(p.Find(x)) }

// DrainVChanged returns and clears the V-change buffer.
func (p *Partition) DrainVChanged() []VChange {
	out := p.vChanged
	p.vChanged = nil
	return out
}

// DrainDChanged returns and clears the D-change buffer.
func (p *Partition) DrainDChanged() []DChange {
	out := p.dChanged
	p.dChanged = nil
	return out
}

// DrainCChanged returns and clears the C-change buffer.
func (p *Partition) DrainCChanged() []*term.Term {
	out := p.cChanged
	p.cChanged = nil
	return out
}

// Pending reports whether any change set still has entries to drain.
func (p *Partition) Pending() bool {
	return len(p.vChanged) > 0 || len(p.dChanged) > 0 || len(p.cChanged) > 0
}

// Copy returns a deep, independent copy of the partition, used by a
// `protect` scope and by Context.Copy for branching.
func (p *Partition) Copy() *Partition {
	out := New()
	for k, v := range p.rep {
		out.rep[k] = v
	}
	for k, v := range p.just {
		out.just[k] = v
	}
	for k, m := range p.diseq {
		nm := make(map[*term.Term]just.Set, len(m))
		for k2, v2 := range m {
			nm[k2] = v2
		}
		out.diseq[k] = nm
	}
	for k, v := range p.domain {
		out.domain[k] = v
	}
	out.vChanged = append([]VChange(nil), p.vChanged...)
	out.dChanged = append([]DChange(nil), p.dChanged...)
	out.cChanged = append([]*term.Term(nil), p.cChanged...)
	return out
}

// Eq reports whether p and o assign the same canonical classes,
// disequalities, and domains to every variable they both mention -
// semantic identity over the full P = (V, D, C) structure, as required by
// the engine's eq(s1, s2) operation.
func (p *Partition) Eq(o *Partition) bool {
	seen := make(map[*term.Term]bool)
	checkV := func(a, b *Partition) bool {
		for x := range a.rep {
			if seen[x] {
				continue
			}
			seen[x] = true
			if a.Find(x) != b.Find(x) {
				// representative identity can legitimately differ
				// (different tie-break history); compare membership
				// by asking whether b agrees that x and a.Find(x)
				// are equal.
				if !b.Equal(x, a.Find(x)) {
					return false
				}
			}
		}
		return true
	}
	if !checkV(p, o) || !checkV(o, p) {
		return false
	}

	checkD := func(a, b *Partition) bool {
		for x, m := range a.diseq {
			for y := range m {
				if !b.Diseq(x, y) {
					return false
				}
			}
		}
		return true
	}
	if !checkD(p, o) || !checkD(o, p) {
		return false
	}

	checkC := func(a, b *Partition) bool {
		for x := range a.domain {
			if a.domainOf(x).String() != b.DomainOf(x).String() {
				return false
			}
		}
		return true
	}
	return checkC(p, o) && checkC(o, p)
}

// RatInterval builds a Domain with only interval bounds set (sign left
// at top), a convenience for theories translating `x in [lo, hi]`.
func RatInterval(lo, hi rat.R, hasLo, hasHi bool) Domain {
	d := Top()
	d.HasLo, d.Lo = hasLo, lo
	d.HasHi, d.Hi = hasHi, hi
	return d
}
