package just

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyIsEmpty(t *testing.T) {
	e := Empty()
	assert.Equal(t, 0, e.Len())
	assert.Empty(t, e.Atoms())
}

func TestAxiomContainsOnlyItself(t *testing.T) {
	a := Axiom(3)
	assert.Equal(t, 1, a.Len())
	assert.True(t, a.Contains(3))
	assert.False(t, a.Contains(4))
}

func TestDep2Unions(t *testing.T) {
	a := Axiom(1)
	b := Axiom(2)
	c := Dep2(a, b)

	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Contains(1))
	assert.True(t, c.Contains(2))
	assert.Equal(t, []AtomID{1, 2}, c.Atoms())
}

func TestDep2Idempotent(t *testing.T) {
	a := Axiom(5)
	c := Dep2(a, a)
	assert.Equal(t, 1, c.Len())
}

func TestDepNUnionsMany(t *testing.T) {
	c := DepN(Axiom(1), Axiom(2), Axiom(3), Empty())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []AtomID{1, 2, 3}, c.Atoms())
}

func TestAtomsSorted(t *testing.T) {
	c := DepN(Axiom(5), Axiom(1), Axiom(3))
	assert.Equal(t, []AtomID{1, 3, 5}, c.Atoms())
}

func TestCloneIsIndependent(t *testing.T) {
	a := Axiom(1)
	clone := a.Clone()
	b := Dep2(a, Axiom(2))

	assert.True(t, clone.Contains(1))
	assert.False(t, clone.Contains(2))
	assert.True(t, b.Contains(2))
}
