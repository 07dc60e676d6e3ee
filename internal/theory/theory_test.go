package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icsgo/ics/internal/just"
	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/rat"
	"github.com/icsgo/ics/internal/term"
)

func identity(t *term.Term) *term.Term { return t }

func TestOrderListsAllSixTheories(t *testing.T) {
	assert.Len(t, Order, int(numTheories))
	assert.Equal(t, LinearArith, Order[0])
	assert.Equal(t, Arrays, Order[len(Order)-1])
}

func TestIDStringNames(t *testing.T) {
	assert.Equal(t, "linarith", LinearArith.String())
	assert.Equal(t, "array", Arrays.String())
}

func TestSolutionSetApplyAndFind(t *testing.T) {
	s := term.NewStore()
	ss := NewSolutionSet(LinArith{})
	p := partition.New()
	x := s.Var("x", term.External)
	c := s.NumLit(rat.Int(5))

	vEqs := ss.Compose(s, p, identity, []Eq{{X: x, T: c}}, just.Axiom(1))
	assert.Empty(t, vEqs)

	bound, ok := ss.Apply(x)
	assert.True(t, ok)
	assert.Equal(t, c, bound)
	assert.Equal(t, c, ss.Find(x))

	y := s.Var("y", term.External)
	assert.Equal(t, y, ss.Find(y))
}

func TestSolutionSetInv(t *testing.T) {
	s := term.NewStore()
	ss := NewSolutionSet(LinArith{})
	p := partition.New()
	x := s.Var("x", term.External)
	c := s.NumLit(rat.Int(5))

	ss.Compose(s, p, identity, []Eq{{X: x, T: c}}, just.Axiom(1))
	inv, ok := ss.Inv(c)
	assert.True(t, ok)
	assert.Equal(t, x, inv)
}

func TestSolutionSetComposeEscapesToVLevelForImpureRHS(t *testing.T) {
	s := term.NewStore()
	ss := NewSolutionSet(LinArith{})
	p := partition.New()
	x := s.Var("x", term.External)
	f := s.App(term.Uninterpreted, "f", x)

	vEqs := ss.Compose(s, p, identity, []Eq{{X: x, T: f}}, just.Axiom(1))
	assert.Len(t, vEqs, 1)
	assert.Equal(t, x, vEqs[0].X)
	assert.Equal(t, f, vEqs[0].Y)
	_, ok := ss.Apply(x)
	assert.False(t, ok, "impure binding must not stay in this theory's solution set")
}

func TestSolutionSetComposeDiscoversVEqOnSharedRHS(t *testing.T) {
	s := term.NewStore()
	ss := NewSolutionSet(LinArith{})
	p := partition.New()
	x := s.Var("x", term.External)
	y := s.Var("y", term.External)
	c := s.NumLit(rat.Int(5))

	ss.Compose(s, p, identity, []Eq{{X: x, T: c}}, just.Axiom(1))
	vEqs := ss.Compose(s, p, identity, []Eq{{X: y, T: c}}, just.Axiom(2))
	assert.Len(t, vEqs, 1)
	assert.Equal(t, y, vEqs[0].X)
	assert.Equal(t, x, vEqs[0].Y)
}

func TestSolutionSetFusePropagatesIntoDependentBindings(t *testing.T) {
	s := term.NewStore()
	ss := NewSolutionSet(LinArith{})
	p := partition.New()
	x := s.Var("x", term.External)
	y := s.Var("y", term.External)
	w := s.Var("w", term.External)

	sum, err := LinArith{}.Sigma(s, term.Add, []*term.Term{x, s.NumLit(rat.Int(1))})
	assert.NoError(t, err)
	ss.Compose(s, p, identity, []Eq{{X: w, T: sum}}, just.Axiom(1))
	ss.Compose(s, p, identity, []Eq{{X: x, T: s.NumLit(rat.Int(2))}}, just.Axiom(2))

	findToY := func(t *term.Term) *term.Term {
		if t == x {
			return y
		}
		return t
	}
	ss.Fuse(s, p, findToY, x, y, just.Axiom(3))

	_, ok := ss.Apply(x)
	assert.False(t, ok, "x's own binding is superseded once it is fused to y")
}

func TestSolutionSetFuseNoOpWhenXUnbound(t *testing.T) {
	s := term.NewStore()
	ss := NewSolutionSet(LinArith{})
	p := partition.New()
	x := s.Var("x", term.External)
	y := s.Var("y", term.External)

	vEqs := ss.Fuse(s, p, identity, x, y, just.Axiom(1))
	assert.Nil(t, vEqs)
}

func TestSolutionSetRenormalizeRevisitsDependents(t *testing.T) {
	s := term.NewStore()
	ss := NewSolutionSet(LinArith{})
	p := partition.New()
	x := s.Var("x", term.External)
	y := s.Var("y", term.External)

	sum, err := LinArith{}.Sigma(s, term.Add, []*term.Term{y, s.NumLit(rat.Int(1))})
	assert.NoError(t, err)
	ss.Compose(s, p, identity, []Eq{{X: x, T: sum}}, just.Axiom(1))

	rho := func(t *term.Term) *term.Term {
		if t == y {
			return s.NumLit(rat.Int(9))
		}
		return t
	}
	vEqs := ss.Renormalize(s, p, rho, []*term.Term{y}, just.Axiom(2))
	assert.Empty(t, vEqs)

	bound, _ := ss.Apply(x)
	assert.Equal(t, "10", bound.RatVal().String())
}

func TestSolutionSetBindingsSortedByVariable(t *testing.T) {
	s := term.NewStore()
	ss := NewSolutionSet(LinArith{})
	p := partition.New()
	x := s.Var("x", term.External)
	y := s.Var("y", term.External)
	c := s.NumLit(rat.Int(1))
	d := s.NumLit(rat.Int(2))

	ss.Compose(s, p, identity, []Eq{{X: y, T: d}}, just.Axiom(1))
	ss.Compose(s, p, identity, []Eq{{X: x, T: c}}, just.Axiom(2))

	b1 := ss.Bindings()
	b2 := ss.Bindings()
	assert.Equal(t, b1, b2, "Bindings must be deterministic across calls")
	assert.Len(t, b1, 2)
}

func TestSolutionSetCopyIsIndependent(t *testing.T) {
	s := term.NewStore()
	ss := NewSolutionSet(LinArith{})
	p := partition.New()
	x := s.Var("x", term.External)
	c := s.NumLit(rat.Int(5))

	ss.Compose(s, p, identity, []Eq{{X: x, T: c}}, just.Axiom(1))
	clone := ss.Copy()

	y := s.Var("y", term.External)
	ss.Compose(s, p, identity, []Eq{{X: y, T: c}}, just.Axiom(2))

	_, ok := clone.Apply(y)
	assert.False(t, ok, "mutating the original must not affect the clone")
	bound, ok := clone.Apply(x)
	assert.True(t, ok)
	assert.Equal(t, c, bound)
}
