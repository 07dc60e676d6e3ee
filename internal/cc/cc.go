// Package cc implements congruence closure over uninterpreted symbols
// (section 4.2): the map U from alias variables to flat monadic
// applications u ↦ f(x), kept congruence-closed with respect to the
// partition's V component.
package cc

import (
	"fmt"

	"github.com/icsgo/ics/internal/just"
	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/term"
)

// ErrNotFound is returned by Lookup and Inv when no binding matches.
var ErrNotFound = fmt.Errorf("cc: not found")

// binding is one entry u ↦ f(x) together with the justification of why
// the alias was introduced (the justification of the defining equation).
type binding struct {
	fname string
	arg   *term.Term
	j     just.Set
}

// CC holds the map U. Arg is always read through Partition.Find, so a
// binding stays valid across unrelated unions; Saturate groups bindings
// by function name and canonical argument on each call rather than
// keeping a separate index.
type CC struct {
	byAlias map[*term.Term]binding // u -> f(x)
}

// New creates an empty congruence closure.
func New() *CC { return &CC{byAlias: make(map[*term.Term]binding)} }

func key(fname string, arg *term.Term) string {
	return fname + "\x00" + fmt.Sprint(arg.ID())
}

// Alias returns the u such that u ↦ fname(x) holds up to p, creating a
// fresh alias variable and recording the binding if none exists yet.
// Must only be called when (p, cc) is already congruence-closed.
func (c *CC) Alias(store *term.Store, p *partition.Partition, fname string, x *term.Term, j just.Set) *term.Term {
	fx := p.Find(x)
	want := key(fname, fx)
	for u, b := range c.byAlias {
		if p.Find(u) == u && b.fname == fname && p.Find(b.arg) == fx {
			_ = want
			return u
		}
	}
	u := store.FreshVar(term.FreshRename, "u")
	c.byAlias[u] = binding{fname: fname, arg: fx, j: j}
	return u
}

// Lookup returns the application bound to the class of x, if any.
func (c *CC) Lookup(p *partition.Partition, x *term.Term) (fname string, arg *term.Term, j just.Set, err error) {
	fx := p.Find(x)
	for u, b := range c.byAlias {
		if p.Find(u) == fx {
			return b.fname, b.arg, b.j, nil
		}
	}
	return "", nil, just.Empty(), ErrNotFound
}

// Inv returns the canonical alias u bound to fname(x'), x' =V x, if any.
func (c *CC) Inv(p *partition.Partition, fname string, x *term.Term) (*term.Term, error) {
	fx := p.Find(x)
	for u, b := range c.byAlias {
		if b.fname == fname && p.Find(b.arg) == fx {
			return p.Find(u), nil
		}
	}
	return nil, ErrNotFound
}

// MergeRequest asks the caller to union two alias variables in V; cc
// cannot perform the union itself, since V-unions must flow back through
// the partition's change-set bookkeeping in the combination engine.
type MergeRequest struct {
	U, V *term.Term
	J    just.Set
}

// Saturate finds every pair of bindings whose arguments have become
// V-equal but whose alias variables are not yet, and returns the unions
// the caller must perform to restore congruence-closedness. The caller
// is expected to apply them via Partition.Union and call Saturate again
// until it returns no requests - this is the "close" fixpoint of
// section 4.2: CC itself never calls Union so that every merge flows
// through the same change-set machinery the rest of the engine uses.
func (c *CC) Saturate(p *partition.Partition) []MergeRequest {
	groups := make(map[string][]*term.Term)
	for u, b := range c.byAlias {
		k := key(b.fname, p.Find(b.arg))
		groups[k] = append(groups[k], u)
	}
	var reqs []MergeRequest
	for _, us := range groups {
		if len(us) < 2 {
			continue
		}
		first := us[0]
		for _, u := range us[1:] {
			if p.Find(first) == p.Find(u) {
				continue
			}
			j := just.Dep2(c.byAlias[first].j, c.byAlias[u].j)
			reqs = append(reqs, MergeRequest{U: first, V: u, J: j})
		}
	}
	return reqs
}

// Compact re-keys every binding whose alias variable is no longer
// canonical onto its class's canonical variable, after the caller has
// applied the corresponding unions; when that variable already carries a
// binding, the non-canonical one is dropped, so a class keeps at most one.
// This keeps the map from growing with stale entries across a long
// session without losing the application a merged class is bound to.
func (c *CC) Compact(p *partition.Partition) {
	for u, b := range c.byAlias {
		r := p.Find(u)
		if r == u {
			continue
		}
		delete(c.byAlias, u)
		if _, ok := c.byAlias[r]; !ok {
			c.byAlias[r] = b
		}
	}
}

// Copy returns a deep, independent copy, used by Context.Copy/protect.
func (c *CC) Copy() *CC {
	out := New()
	for k, v := range c.byAlias {
		out.byAlias[k] = v
	}
	return out
}

// Bindings returns every (alias, fname, arg) triple currently recorded,
// in no particular order; used for diagnostics and Eq comparisons.
func (c *CC) Bindings(p *partition.Partition) map[*term.Term][2]string {
	out := make(map[*term.Term][2]string, len(c.byAlias))
	for u, b := range c.byAlias {
		out[p.Find(u)] = [2]string{b.fname, fmt.Sprint(p.Find(b.arg).ID())}
	}
	return out
}
