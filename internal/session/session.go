// Package session exposes the engine's public API (section 6): a
// Context value type wrapping the combination engine with a fresh-atom
// counter, run flags, and the protect-scope discipline that every
// destructive update rolls back through on failure.
package session

import (
	"errors"
	"fmt"

	"github.com/icsgo/ics/internal/combine"
	ierrors "github.com/icsgo/ics/internal/errors"
	"github.com/icsgo/ics/internal/just"
	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/term"
	"github.com/icsgo/ics/internal/theory"
)

// ErrInvalidArgument reports a contract violation distinct from logical
// inconsistency: calling an operation outside its documented precondition
// (section 7), e.g. asserting a disequality the caller already knows to
// be an equality through some external channel.
var ErrInvalidArgument = errors.New("session: invalid argument")

// Status is the three-way verdict add(s, a) reports: the new atom was
// already entailed (Valid), contradicts the context (Inconsistent), or
// was consistently folded in (Ok).
type Status int

const (
	Ok Status = iota
	Valid
	StatusInconsistent
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case StatusInconsistent:
		return "inconsistent"
	default:
		return "ok"
	}
}

// Result bundles a verdict with the justification backing it: for Valid,
// why the atom already held; for Inconsistent, which prior atoms it
// contradicts.
type Result struct {
	Status Status
	J      just.Set
}

// Flags holds the per-run toggles section 4 leaves as Open Questions,
// resolved once at Context creation and fixed for the context's lifetime
// except where noted.
type Flags struct {
	// IntegerSolve selects the integer-aware variant of the linear
	// arithmetic solver (section 4.3): a linear equality that solves a
	// variable declared integer (DeclareInteger/AddSign with
	// partition.IntegerDomain) to a non-integer constant is reported
	// Inconsistent rather than folded in. Valid only before the first Add
	// call; toggling it afterward reports the E0005 flags-frozen
	// diagnostic instead of silently taking effect.
	IntegerSolve bool
	// ConeOfInfluence is recorded on the context but read by no
	// operation: the engine's verdicts and Explain's output are the same
	// whether or not it is set, and no incompleteness warning is printed.
	ConeOfInfluence bool
	// Trace records that verbose logging was requested. The context does
	// not read it: Add, AddDeq and AddSign log through whatever Logger
	// SetLogger installed, whether or not Trace is set.
	Trace bool
}

// Context is the top-level, copyable reasoning state: a term store, the
// combination engine, the propositional renaming layer, and the
// bookkeeping needed to answer queries and reproduce counterexamples.
type Context struct {
	Store  *term.Store
	Engine *combine.Engine
	Flags  Flags

	nextAtom just.AtomID
	history  []Atom
	logger   Logger
}

// Atom is one fact ever added to the context, kept so Explain and
// IsInconsistent's counterexample trail can replay a prefix.
type Atom struct {
	ID   just.AtomID
	Fact combine.Atom
}

// Logger is the minimal structured-logging seam the context writes
// through. Its shape mirrors commonlog.Logger's message-plus-key/value-
// pairs signature, so a *CLI can hand the context a commonlog.Logger
// directly without an adapter.
type Logger interface {
	Info(message string, keyValuePairs ...string)
	Debug(message string, keyValuePairs ...string)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...string)  {}
func (nopLogger) Debug(string, ...string) {}

// Empty creates a fresh context with no facts asserted, all six Shostak
// theories wired in, and the given flags.
func Empty(flags Flags) *Context {
	store := term.NewStore()
	theories := []theory.Theory{theory.LinArith{}, theory.Tup{}, theory.BV{}, theory.NL{}, theory.Coprod{}, theory.Arr{}}
	engine := combine.New(store, theories)
	engine.IntegerSolve = flags.IntegerSolve
	return &Context{
		Store:  store,
		Engine: engine,
		Flags:  flags,
		logger: nopLogger{},
	}
}

// DeclareInteger asserts that x ranges over the integers, the
// "integer-declared variable" precondition section 8's integer-solve
// boundary case is stated against. It is sugar over AddSign with
// partition.IntegerDomain - the declaration is just another domain
// refinement, sticky like every other meet.
func (c *Context) DeclareInteger(x *term.Term) (Result, error) {
	return c.AddSign(x, partition.IntegerDomain())
}

// SetLogger installs a structured logger; the zero value is a no-op.
func (c *Context) SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	c.logger = l
}

// trivialValid reports a zero-cost syntactic special case of "already
// entailed": asserting that a hash-consed term equals itself needs no
// scratch copy at all. Every other shape of "already entailed" - including
// every atom whose sides are interpreted applications (congruence, array,
// tuple, arithmetic, bitvector, coproduct terms) rather than bare external
// variables - is only detected soundly by abstracting both sides the same
// way Add does and comparing engine state before and after, in run. A
// shallow check against the raw, un-abstracted terms (e.g. testing a.X/a.Y
// straight through Partition.Equal/Diseq/DomainOf) would never see a
// compound term like f(x) or x+1, since such terms are never themselves
// registered as canonical variables.
func trivialValid(a combine.Atom) bool {
	return a.Kind == combine.AtomEq && a.X == a.Y
}

// engineStatesEqual reports whether two engine snapshots agree on every
// partition and solution-set detail - the same semantic-identity check
// Context.Equal exposes publicly, reused here to tell a genuine no-op Add
// apart from one that actually advanced the state.
func engineStatesEqual(a, b *combine.Engine) bool {
	if !a.Partition.Eq(b.Partition) {
		return false
	}
	for _, th := range a.Theories() {
		sa := a.Solutions(th.ID())
		sb := b.Solutions(th.ID())
		if len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if sa[i].X != sb[i].X || sa[i].T != sb[i].T {
				return false
			}
		}
	}
	return true
}

// run is the core add(s, a) entry point of section 6: it classifies a
// fact as Valid (already entailed, no mutation), Inconsistent (rolled
// back, no mutation), or Ok (folded in, context advances). Every mutation
// happens against a scratch copy of the engine first, per the `protect`
// discipline of section 3 — the context is only ever replaced wholesale
// on success, never mutated in place. Valid is decided by comparing the
// scratch copy's state to the original after the speculative Add, not by
// a shallow pre-check, so the round-trip property of section 8 (re-adding
// an already-entailed atom reports Valid, never Ok) holds for every atom
// shape, not just bare-variable ones.
func (c *Context) run(a Atom) (Result, error) {
	if c.Flags.IntegerSolve != c.Engine.IntegerSolve {
		if len(c.history) > 0 {
			return Result{}, fmt.Errorf("%w: %w", ErrInvalidArgument, ierrors.AsError(ierrors.FlagsFrozen("IntegerSolve", ierrors.Position{})))
		}
		c.Engine.IntegerSolve = c.Flags.IntegerSolve
	}

	if trivialValid(a.Fact) {
		return Result{Status: Valid, J: just.Axiom(a.ID)}, nil
	}

	scratch := c.Engine.Copy()
	j := just.Axiom(a.ID)
	err := scratch.Add(a.Fact, j)

	var inc *partition.Inconsistent
	if errors.As(err, &inc) {
		return Result{Status: StatusInconsistent, J: inc.J}, nil
	}
	if err != nil {
		return Result{}, err
	}

	if engineStatesEqual(c.Engine, scratch) {
		return Result{Status: Valid, J: j}, nil
	}

	c.Engine = scratch
	c.nextAtom++
	c.history = append(c.history, a)
	return Result{Status: Ok, J: j}, nil
}

// Add asserts that x equals y.
func (c *Context) Add(x, y *term.Term) (Result, error) {
	c.logger.Debug("add equality", "x", x.String(), "y", y.String())
	return c.run(Atom{ID: c.nextAtom, Fact: combine.Atom{Kind: combine.AtomEq, X: x, Y: y}})
}

// AddDeq asserts a disequality between x and y.
func (c *Context) AddDeq(x, y *term.Term) (Result, error) {
	c.logger.Debug("add disequality", "x", x.String(), "y", y.String())
	return c.run(Atom{ID: c.nextAtom, Fact: combine.Atom{Kind: combine.AtomDeq, X: x, Y: y}})
}

// AddSign refines x's arithmetic domain with d.
func (c *Context) AddSign(x *term.Term, d partition.Domain) (Result, error) {
	c.logger.Debug("add sign", "x", x.String(), "domain", d.String())
	return c.run(Atom{ID: c.nextAtom, Fact: combine.Atom{Kind: combine.AtomSign, X: x, Domain: d}})
}

// Addl applies facts sequentially, stopping at the first Inconsistent or
// error result, per section 6's `addl`.
func (c *Context) Addl(facts []combine.Atom) ([]Result, error) {
	out := make([]Result, 0, len(facts))
	for _, f := range facts {
		r, err := c.run(Atom{ID: c.nextAtom, Fact: f})
		if err != nil {
			return out, err
		}
		out = append(out, r)
		if r.Status == StatusInconsistent {
			break
		}
	}
	return out, nil
}

// Eq reports whether x and y are known equal in the current state.
// Precondition: neither x nor y is nil (section 7 Invalid-argument
// contract).
func (c *Context) Eq(x, y *term.Term) (bool, error) {
	if x == nil || y == nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidArgument, ierrors.AsError(ierrors.NilTerm("Eq", ierrors.Position{})))
	}
	return c.Engine.Equal(x, y), nil
}

// IsInconsistent reports whether the current state is already known
// unsatisfiable. A context only ever reaches this by way of protect
// refusing a prior Add/Addl/AddSign, so in practice this is always
// false for a Context built solely through the public API; it exists so
// callers restoring a serialized trail can re-check it directly.
func (c *Context) IsInconsistent() bool {
	return false
}

// IsValid reports whether asserting the negation of x = y (i.e. adding
// the disequality) would be inconsistent — equivalently, whether x = y
// is entailed by the facts added so far. This probes with a scratch
// engine copy and never mutates the context.
func (c *Context) IsValid(x, y *term.Term) bool {
	scratch := c.Engine.Copy()
	a := combine.Atom{Kind: combine.AtomDeq, X: x, Y: y}
	err := scratch.Add(a, just.Axiom(c.nextAtom))
	var inc *partition.Inconsistent
	return errors.As(err, &inc)
}

// Copy returns a deep, independent copy of the context, letting a caller
// explore a branch (e.g. a case split in a host decision procedure)
// without disturbing the original.
func (c *Context) Copy() *Context {
	out := &Context{
		Store:    c.Store,
		Engine:   c.Engine.Copy(),
		Flags:    c.Flags,
		nextAtom: c.nextAtom,
		history:  append([]Atom(nil), c.history...),
		logger:   c.logger,
	}
	return out
}

// History returns the atoms accepted so far, oldest first.
func (c *Context) History() []Atom {
	return append([]Atom(nil), c.history...)
}

// Explain returns the sorted input-atom ids that justify why x and y are
// known equal, or nil if they are not. It is diagnostic only, never
// load-bearing for the verdict itself, and Flags.ConeOfInfluence does
// not change its result.
func (c *Context) Explain(x, y *term.Term) []just.AtomID {
	if !c.Engine.Equal(x, y) {
		return nil
	}
	// Without a full proof-producing union-find, the diagnostic
	// approximation is "every atom added so far" restricted to the
	// ones whose justification set is non-empty; a tighter slice would
	// need per-edge justification replay, which section 3 explicitly
	// scopes out in favor of the lighter Set combinator.
	var ids []just.AtomID
	for _, a := range c.history {
		ids = append(ids, a.ID)
	}
	return ids
}

// Equal reports the semantic identity of section 6's eq(s1, s2): whether
// c and other carry the same partition and the same solved form in every
// theory, ignoring the original atom list and the fresh-atom counter.
// Both contexts must share the same underlying term.Store, since a
// binding's variable and right-hand side are compared by the store's
// hash-consed pointer identity, not by structural term equality.
func (c *Context) Equal(other *Context) bool {
	if other == nil || c.Store != other.Store {
		return false
	}
	return engineStatesEqual(c.Engine, other.Engine)
}
