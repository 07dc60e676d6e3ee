package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icsgo/ics/internal/just"
	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/term"
)

func TestArrBelongs(t *testing.T) {
	ar := Arr{}
	assert.True(t, ar.Belongs(term.Select))
	assert.True(t, ar.Belongs(term.Store))
	assert.False(t, ar.Belongs(term.Add))
}

func TestArrSigmaSelectOverStoreSameIndex(t *testing.T) {
	s := term.NewStore()
	ar := Arr{}
	a := s.Var("a", term.External)
	i := s.Var("i", term.External)
	e := s.Var("e", term.External)

	store := s.App(term.Store, "", a, i, e)
	out, err := ar.Sigma(s, term.Select, []*term.Term{store, i})
	assert.NoError(t, err)
	assert.Equal(t, e, out)
}

func TestArrSigmaSelectOverStoreOpaqueForDifferentSyntacticIndex(t *testing.T) {
	s := term.NewStore()
	ar := Arr{}
	a := s.Var("a", term.External)
	i := s.Var("i", term.External)
	j := s.Var("j", term.External)
	e := s.Var("e", term.External)

	stored := s.App(term.Store, "", a, i, e)
	out, err := ar.Sigma(s, term.Select, []*term.Term{stored, j})
	assert.NoError(t, err)
	assert.Equal(t, term.Select, out.Sym())
}

func TestArrSolveVariableFallback(t *testing.T) {
	s := term.NewStore()
	ar := Arr{}
	v := s.Var("v", term.External)
	a := s.Var("a", term.External)
	i := s.Var("i", term.External)

	sel := s.App(term.Select, "", a, i)
	eqs, err := ar.Solve(s, v, sel)
	assert.NoError(t, err)
	assert.Equal(t, v, eqs[0].X)
	assert.Equal(t, sel, eqs[0].T)
}

func TestArrSolveOpaqueOnNonVariables(t *testing.T) {
	s := term.NewStore()
	ar := Arr{}
	a := s.Var("a", term.External)
	i := s.Var("i", term.External)
	j := s.Var("j", term.External)

	sel1 := s.App(term.Select, "", a, i)
	sel2 := s.App(term.Select, "", a, j)

	_, err := ar.Solve(s, sel1, sel2)
	assert.ErrorIs(t, err, ErrUnsolvable)
}

func TestResolveSelectStoreIndexEqual(t *testing.T) {
	s := term.NewStore()
	a := s.Var("a", term.External)
	i := s.Var("i", term.External)
	j := s.Var("j", term.External)
	e := s.Var("e", term.External)
	p := partition.New()
	assert.NoError(t, p.Union(i, j, just.Axiom(1)))

	stored := s.App(term.Store, "", a, i, e)
	sel := s.App(term.Select, "", stored, j)

	out := ResolveSelectStore(s, p, sel)
	assert.Equal(t, e, out)
}

func TestResolveSelectStoreIndexDisequalSkipsPastStore(t *testing.T) {
	s := term.NewStore()
	a := s.Var("a", term.External)
	i := s.Var("i", term.External)
	j := s.Var("j", term.External)
	e := s.Var("e", term.External)
	p := partition.New()
	assert.NoError(t, p.Separate(i, j, just.Axiom(1)))

	stored := s.App(term.Store, "", a, i, e)
	sel := s.App(term.Select, "", stored, j)

	out := ResolveSelectStore(s, p, sel)
	assert.Equal(t, s.App(term.Select, "", a, j), out)
}

func TestResolveSelectStoreUnknownRelationLeavesTermUnchanged(t *testing.T) {
	s := term.NewStore()
	a := s.Var("a", term.External)
	i := s.Var("i", term.External)
	j := s.Var("j", term.External)
	e := s.Var("e", term.External)
	p := partition.New()

	stored := s.App(term.Store, "", a, i, e)
	sel := s.App(term.Select, "", stored, j)

	out := ResolveSelectStore(s, p, sel)
	assert.Equal(t, sel, out)
}
