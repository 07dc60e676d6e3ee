package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/term"
)

func TestCoprodBelongs(t *testing.T) {
	c := Coprod{}
	assert.True(t, c.Belongs(term.Inl))
	assert.True(t, c.Belongs(term.OutR))
	assert.False(t, c.Belongs(term.Add))
}

func TestCoprodSigmaProjectsMatchingInjection(t *testing.T) {
	s := term.NewStore()
	c := Coprod{}
	x := s.Var("x", term.External)

	inl, _ := c.Sigma(s, term.Inl, []*term.Term{x})
	out, err := c.Sigma(s, term.OutL, []*term.Term{inl})
	assert.NoError(t, err)
	assert.Equal(t, x, out)
}

func TestCoprodSigmaProjectionStaysOpaqueOnMismatchedInjection(t *testing.T) {
	s := term.NewStore()
	c := Coprod{}
	x := s.Var("x", term.External)

	inl, _ := c.Sigma(s, term.Inl, []*term.Term{x})
	out, err := c.Sigma(s, term.OutR, []*term.Term{inl})
	assert.NoError(t, err)
	assert.Equal(t, term.OutR, out.Sym())
}

func TestCoprodSolveInjectivity(t *testing.T) {
	s := term.NewStore()
	c := Coprod{}
	x := s.Var("x", term.External)
	y := s.Var("y", term.External)

	a, _ := c.Sigma(s, term.Inl, []*term.Term{x})
	b, _ := c.Sigma(s, term.Inl, []*term.Term{y})

	eqs, err := c.Solve(s, a, b)
	assert.NoError(t, err)
	assert.Equal(t, x, eqs[0].X)
	assert.Equal(t, y, eqs[0].T)
}

func TestCoprodSolveDisjointnessIsInconsistent(t *testing.T) {
	s := term.NewStore()
	c := Coprod{}
	x := s.Var("x", term.External)
	y := s.Var("y", term.External)

	a, _ := c.Sigma(s, term.Inl, []*term.Term{x})
	b, _ := c.Sigma(s, term.Inr, []*term.Term{y})

	_, err := c.Solve(s, a, b)
	assert.Error(t, err)
	var inc *partition.Inconsistent
	assert.ErrorAs(t, err, &inc)
}

func TestCoprodSolveVariableFallback(t *testing.T) {
	s := term.NewStore()
	c := Coprod{}
	x := s.Var("x", term.External)
	v := s.Var("v", term.External)

	injected, _ := c.Sigma(s, term.Inl, []*term.Term{x})
	eqs, err := c.Solve(s, v, injected)
	assert.NoError(t, err)
	assert.Equal(t, v, eqs[0].X)
	assert.Equal(t, injected, eqs[0].T)
}
