// Package rat supplies the exact-rational arithmetic the specification
// assumes as an external facility (section 1, "Out of scope"). No example
// in the reference corpus ships an exact-rational number type — cue's
// cockroachdb/apd is an arbitrary-precision decimal, not a fraction field,
// and none of the other repos touch multi-precision math at all — so this
// is the one place the implementation reaches for the standard library's
// math/big rather than a third-party dependency; see DESIGN.md.
package rat

import (
	"math/big"

	"github.com/icsgo/ics/internal/term"
)

// R is an exact rational, implementing term.Rat.
type R struct {
	v *big.Rat
}

// Int returns the rational n/1.
func Int(n int64) R { return R{big.NewRat(n, 1)} }

// Frac returns the rational num/den.
func Frac(num, den int64) R { return R{big.NewRat(num, den)} }

// Zero is the additive identity.
func Zero() R { return Int(0) }

// One is the multiplicative identity.
func One() R { return Int(1) }

// Parse reads a rational from a decimal or "a/b" literal.
func Parse(s string) (R, bool) {
	v, ok := new(big.Rat).SetString(s)
	if !ok {
		return R{}, false
	}
	return R{v}, true
}

func (r R) Cmp(o term.Rat) int {
	return r.v.Cmp(o.(R).v)
}

func (r R) Add(o term.Rat) term.Rat {
	return R{new(big.Rat).Add(r.v, o.(R).v)}
}

func (r R) Sub(o term.Rat) term.Rat {
	return R{new(big.Rat).Sub(r.v, o.(R).v)}
}

func (r R) Mul(o term.Rat) term.Rat {
	return R{new(big.Rat).Mul(r.v, o.(R).v)}
}

func (r R) Neg() term.Rat {
	return R{new(big.Rat).Neg(r.v)}
}

func (r R) IsZero() bool { return r.v.Sign() == 0 }

func (r R) Sign() int { return r.v.Sign() }

func (r R) IsInt() bool { return r.v.IsInt() }

func (r R) String() string {
	if r.v.IsInt() {
		return r.v.Num().String()
	}
	return r.v.RatString()
}

// Inv returns the multiplicative inverse of r; panics on zero, matching
// the Invalid-argument contract-violation policy of section 7 (callers
// must never invert a zero coefficient).
func (r R) Inv() R {
	if r.IsZero() {
		panic("rat: invert zero")
	}
	return R{new(big.Rat).Inv(r.v)}
}

// Div returns r/o.
func (r R) Div(o R) R { return R{new(big.Rat).Quo(r.v, o.v)} }

// Big exposes the underlying *big.Rat for callers (e.g. the arithmetic
// theory's gcd/lcm helpers on numerators/denominators) that need it.
func (r R) Big() *big.Rat { return r.v }
