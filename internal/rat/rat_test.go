package rat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icsgo/ics/internal/term"
)

func TestIntAndFrac(t *testing.T) {
	assert.Equal(t, "3", Int(3).String())
	assert.Equal(t, "1/2", Frac(1, 2).String())
}

func TestParse(t *testing.T) {
	v, ok := Parse("7")
	assert.True(t, ok)
	assert.Equal(t, "7", v.String())

	v, ok = Parse("3/4")
	assert.True(t, ok)
	assert.Equal(t, "3/4", v.String())

	_, ok = Parse("not-a-number")
	assert.False(t, ok)
}

func TestArithmetic(t *testing.T) {
	a := Int(3)
	b := Int(4)

	var sum term.Rat = a.Add(b)
	assert.Equal(t, "7", sum.String())

	var diff term.Rat = a.Sub(b)
	assert.Equal(t, "-1", diff.String())

	var prod term.Rat = a.Mul(b)
	assert.Equal(t, "12", prod.String())

	var neg term.Rat = a.Neg()
	assert.Equal(t, "-3", neg.String())
}

func TestZeroAndSign(t *testing.T) {
	assert.True(t, Zero().IsZero())
	assert.False(t, One().IsZero())
	assert.Equal(t, 1, Int(5).Sign())
	assert.Equal(t, -1, Int(-5).Sign())
	assert.Equal(t, 0, Zero().Sign())
}

func TestIsInt(t *testing.T) {
	assert.True(t, Int(4).IsInt())
	assert.False(t, Frac(1, 2).IsInt())
}

func TestInvAndDiv(t *testing.T) {
	half := Frac(1, 2)
	assert.Equal(t, "2", half.Inv().String())
	assert.Equal(t, "3/2", Int(3).Div(Int(2)).String())
}

func TestInvZeroPanics(t *testing.T) {
	assert.Panics(t, func() { Zero().Inv() })
}

func TestCmp(t *testing.T) {
	var a term.Rat = Int(3)
	assert.Equal(t, -1, Int(2).Cmp(a))
	assert.Equal(t, 0, Int(3).Cmp(a))
	assert.Equal(t, 1, Int(4).Cmp(a))
}
