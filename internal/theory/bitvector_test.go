package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icsgo/ics/internal/rat"
	"github.com/icsgo/ics/internal/term"
)

func TestBVBelongs(t *testing.T) {
	b := BV{}
	assert.True(t, b.Belongs(term.BVXor))
	assert.True(t, b.Belongs(term.BVAnd))
	assert.False(t, b.Belongs(term.Add))
}

func TestBVXorSelfCancels(t *testing.T) {
	s := term.NewStore()
	b := BV{}
	x := s.Var("x", term.External)

	out, err := b.Sigma(s, term.BVXor, []*term.Term{x, x})
	assert.NoError(t, err)
	v, ok := bvConstVal(out)
	assert.True(t, ok)
	assert.Equal(t, uint64(0), v)
}

func TestBVXorConstantFolding(t *testing.T) {
	s := term.NewStore()
	b := BV{}
	c1 := s.BVLit(rat.Int(5), 8)
	c2 := s.BVLit(rat.Int(3), 8)

	out, err := b.Sigma(s, term.BVXor, []*term.Term{c1, c2})
	assert.NoError(t, err)
	v, ok := bvConstVal(out)
	assert.True(t, ok)
	assert.Equal(t, uint64(5^3), v)
}

func TestBVAndOrConstantFolding(t *testing.T) {
	s := term.NewStore()
	b := BV{}
	c1 := s.BVLit(rat.Int(6), 8)
	c2 := s.BVLit(rat.Int(3), 8)

	andOut, err := b.Sigma(s, term.BVAnd, []*term.Term{c1, c2})
	assert.NoError(t, err)
	v, _ := bvConstVal(andOut)
	assert.Equal(t, uint64(6&3), v)

	orOut, err := b.Sigma(s, term.BVOr, []*term.Term{c1, c2})
	assert.NoError(t, err)
	v, _ = bvConstVal(orOut)
	assert.Equal(t, uint64(6|3), v)
}

func TestBVNotDoubleNegationCancels(t *testing.T) {
	s := term.NewStore()
	b := BV{}
	x := s.Var("x", term.External)
	x8 := s.BVApp(term.BVConcat, 8, x)

	once, err := b.Sigma(s, term.BVNot, []*term.Term{x8})
	assert.NoError(t, err)
	twice, err := b.Sigma(s, term.BVNot, []*term.Term{once})
	assert.NoError(t, err)
	assert.Equal(t, x8, twice)
}

func TestBVSolveIsolatesSingleVariable(t *testing.T) {
	s := term.NewStore()
	b := BV{}
	x := s.Var("x", term.External)
	c := s.BVLit(rat.Int(7), 8)

	eqs, err := b.Solve(s, x, c)
	assert.NoError(t, err)
	assert.Len(t, eqs, 1)
	assert.Equal(t, x, eqs[0].X)
}

func TestBVSolveIdenticalSidesIsTrivial(t *testing.T) {
	s := term.NewStore()
	b := BV{}
	c := s.BVLit(rat.Int(7), 8)

	eqs, err := b.Solve(s, c, c)
	assert.NoError(t, err)
	assert.Empty(t, eqs)
}

func TestBVSolveConstantMismatchIsUnsolvable(t *testing.T) {
	s := term.NewStore()
	b := BV{}
	c1 := s.BVLit(rat.Int(7), 8)
	c2 := s.BVLit(rat.Int(9), 8)

	_, err := b.Solve(s, c1, c2)
	assert.ErrorIs(t, err, ErrUnsolvable)
}
