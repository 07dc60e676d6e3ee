package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icsgo/ics/internal/rat"
	"github.com/icsgo/ics/internal/term"
)

func TestTupBelongs(t *testing.T) {
	tu := Tup{}
	assert.True(t, tu.Belongs(term.Tuple))
	assert.True(t, tu.Belongs(term.Proj))
	assert.False(t, tu.Belongs(term.Add))
}

func TestTupSigmaProjectsConstructor(t *testing.T) {
	s := term.NewStore()
	tu := Tup{}
	x := s.Var("x", term.External)
	y := s.Var("y", term.External)

	pair := s.App(term.Tuple, "", x, y)
	out, err := tu.Sigma(s, term.Proj, []*term.Term{pair, s.NumLit(rat.Int(1))})
	assert.NoError(t, err)
	assert.Equal(t, y, out)
}

func TestTupSigmaProjectionStaysOpaqueWithoutConstructor(t *testing.T) {
	s := term.NewStore()
	tu := Tup{}
	x := s.Var("x", term.External)

	out, err := tu.Sigma(s, term.Proj, []*term.Term{x, s.NumLit(rat.Int(0))})
	assert.NoError(t, err)
	assert.True(t, out.IsApp())
	assert.Equal(t, term.Proj, out.Sym())
}

func TestTupSolveDecomposesComponentwise(t *testing.T) {
	s := term.NewStore()
	tu := Tup{}
	x1 := s.Var("x1", term.External)
	x2 := s.Var("x2", term.External)
	y1 := s.Var("y1", term.External)
	y2 := s.Var("y2", term.External)

	a := s.App(term.Tuple, "", x1, x2)
	b := s.App(term.Tuple, "", y1, y2)

	eqs, err := tu.Solve(s, a, b)
	assert.NoError(t, err)
	assert.Len(t, eqs, 2)
}

func TestTupSolveArityMismatchIsUnsolvable(t *testing.T) {
	s := term.NewStore()
	tu := Tup{}
	x := s.Var("x", term.External)
	y := s.Var("y", term.External)

	a := s.App(term.Tuple, "", x)
	b := s.App(term.Tuple, "", x, y)

	_, err := tu.Solve(s, a, b)
	assert.ErrorIs(t, err, ErrUnsolvable)
}

func TestTupSolveVariableFallback(t *testing.T) {
	s := term.NewStore()
	tu := Tup{}
	x := s.Var("x", term.External)
	y := s.Var("y", term.External)
	pair := s.App(term.Tuple, "", x, y)
	v := s.Var("v", term.External)

	eqs, err := tu.Solve(s, v, pair)
	assert.NoError(t, err)
	assert.Equal(t, v, eqs[0].X)
	assert.Equal(t, pair, eqs[0].T)
}

func TestTupFoldNeverApplies(t *testing.T) {
	_, ok := Tup{}.Fold(nil, nil)
	assert.False(t, ok)
}
