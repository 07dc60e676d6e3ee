package cc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icsgo/ics/internal/just"
	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/term"
)

func TestAliasIsStableAcrossCalls(t *testing.T) {
	store := term.NewStore()
	x := store.Var("x", term.External)
	p := partition.New()
	c := New()

	u1 := c.Alias(store, p, "f", x, just.Axiom(1))
	u2 := c.Alias(store, p, "f", x, just.Axiom(1))
	assert.True(t, u1 == u2)
}

func TestAliasDiffersByFunctionName(t *testing.T) {
	store := term.NewStore()
	x := store.Var("x", term.External)
	p := partition.New()
	c := New()

	uf := c.Alias(store, p, "f", x, just.Axiom(1))
	ug := c.Alias(store, p, "g", x, just.Axiom(1))
	assert.False(t, uf == ug)
}

func TestLookupAndInv(t *testing.T) {
	store := term.NewStore()
	x := store.Var("x", term.External)
	p := partition.New()
	c := New()

	u := c.Alias(store, p, "f", x, just.Axiom(1))

	fname, arg, _, err := c.Lookup(p, u)
	assert.NoError(t, err)
	assert.Equal(t, "f", fname)
	assert.Equal(t, x, arg)

	inv, err := c.Inv(p, "f", x)
	assert.NoError(t, err)
	assert.Equal(t, u, inv)

	_, err = c.Inv(p, "f", store.Var("y", term.External))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaturateFindsCongruentPairAfterUnion(t *testing.T) {
	// f(x), f(y); once x = y the two aliases must be merged.
	store := term.NewStore()
	x := store.Var("x", term.External)
	y := store.Var("y", term.External)
	p := partition.New()
	c := New()

	ux := c.Alias(store, p, "f", x, just.Axiom(1))
	uy := c.Alias(store, p, "f", y, just.Axiom(2))
	assert.False(t, p.Equal(ux, uy))

	assert.NoError(t, p.Union(x, y, just.Axiom(3)))

	reqs := c.Saturate(p)
	assert.Len(t, reqs, 1)

	assert.NoError(t, p.Union(reqs[0].U, reqs[0].V, reqs[0].J))
	assert.True(t, p.Equal(ux, uy))
	assert.Empty(t, c.Saturate(p))
}

func TestSaturateIsNoOpWithoutCongruentArgs(t *testing.T) {
	store := term.NewStore()
	x := store.Var("x", term.External)
	y := store.Var("y", term.External)
	p := partition.New()
	c := New()

	c.Alias(store, p, "f", x, just.Axiom(1))
	c.Alias(store, p, "f", y, just.Axiom(2))

	assert.Empty(t, c.Saturate(p))
}

func TestCompactDropsStaleBindings(t *testing.T) {
	store := term.NewStore()
	x := store.Var("x", term.External)
	y := store.Var("y", term.External)
	p := partition.New()
	c := New()

	c.Alias(store, p, "f", x, just.Axiom(1))
	c.Alias(store, p, "f", y, just.Axiom(2))
	assert.NoError(t, p.Union(x, y, just.Axiom(3)))
	reqs := c.Saturate(p)
	assert.NoError(t, p.Union(reqs[0].U, reqs[0].V, reqs[0].J))

	c.Compact(p)
	bindings := c.Bindings(p)
	assert.Len(t, bindings, 1)
}

func TestCopyCarriesBindings(t *testing.T) {
	store := term.NewStore()
	x := store.Var("x", term.External)
	p := partition.New()
	c := New()

	c.Alias(store, p, "f", x, just.Axiom(1))
	clone := c.Copy()

	_, _, _, err := clone.Lookup(p, store.Var("x", term.External))
	assert.NoError(t, err)
}
