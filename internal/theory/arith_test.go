package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/rat"
	"github.com/icsgo/ics/internal/term"
)

func TestLinArithBelongs(t *testing.T) {
	la := LinArith{}
	assert.True(t, la.Belongs(term.Add))
	assert.True(t, la.Belongs(term.Neg))
	assert.True(t, la.Belongs(term.Num))
	assert.False(t, la.Belongs(term.Uninterpreted))
}

func TestLinArithSigmaFoldsConstants(t *testing.T) {
	s := term.NewStore()
	la := LinArith{}

	out, err := la.Sigma(s, term.Add, []*term.Term{s.NumLit(rat.Int(2)), s.NumLit(rat.Int(3))})
	assert.NoError(t, err)
	assert.Equal(t, "5", out.RatVal().String())
}

func TestLinArithSigmaCombinesLikeTerms(t *testing.T) {
	s := term.NewStore()
	la := LinArith{}
	x := s.Var("x", term.External)

	sum, err := la.Sigma(s, term.Add, []*term.Term{x, x})
	assert.NoError(t, err)
	assert.NotNil(t, sum)
}

func TestLinArithSolveIsolatesVariable(t *testing.T) {
	s := term.NewStore()
	la := LinArith{}
	x := s.Var("x", term.External)
	y := s.Var("y", term.External)

	// x + 1 = y  ->  solved for whichever variable ranks lowest.
	lhs, _ := la.Sigma(s, term.Add, []*term.Term{x, s.NumLit(rat.Int(1))})
	eqs, err := la.Solve(s, lhs, y)
	assert.NoError(t, err)
	assert.Len(t, eqs, 1)
}

func TestLinArithSolveConstantMismatchIsInconsistent(t *testing.T) {
	s := term.NewStore()
	la := LinArith{}

	_, err := la.Solve(s, s.NumLit(rat.Int(3)), s.NumLit(rat.Int(4)))
	assert.Error(t, err)
	var inc *partition.Inconsistent
	assert.ErrorAs(t, err, &inc)
}

func TestLinArithSolveTrivialEquality(t *testing.T) {
	s := term.NewStore()
	la := LinArith{}

	eqs, err := la.Solve(s, s.NumLit(rat.Int(3)), s.NumLit(rat.Int(3)))
	assert.NoError(t, err)
	assert.Empty(t, eqs)
}

func TestLinArithFold(t *testing.T) {
	s := term.NewStore()
	la := LinArith{}
	x := s.Var("x", term.External)
	sum, _ := la.Sigma(s, term.Add, []*term.Term{x, s.NumLit(rat.Int(1))})

	v, ok := la.Fold(sum, map[*term.Term]term.Rat{x: rat.Int(4)})
	assert.True(t, ok)
	assert.Equal(t, "5", v.String())

	_, ok = la.Fold(sum, map[*term.Term]term.Rat{})
	assert.False(t, ok)
}
