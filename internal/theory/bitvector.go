package theory

import (
	"github.com/icsgo/ics/internal/rat"
	"github.com/icsgo/ics/internal/term"
)

// BV is the fixed-width bitvector Shostak theory. Canonical form for the
// XOR fragment is a sorted, duplicate-free chain of operands (x XOR x
// cancels, matching GF(2) linear algebra); AND/OR are canonicalized by
// sorting and deduplicating their (idempotent, commutative) operands.
// Constant folding applies whenever every operand is a BVConst literal.
type BV struct{}

func (BV) ID() ID { return Bitvector }

func (BV) Belongs(sym term.Symbol) bool {
	switch sym {
	case term.BVConst, term.BVAnd, term.BVOr, term.BVXor, term.BVNot, term.BVConcat, term.BVExtract:
		return true
	default:
		return false
	}
}

func bvConstVal(t *term.Term) (uint64, bool) {
	if t.IsApp() && t.Sym() == term.BVConst && t.RatVal().IsInt() {
		v := uint64(0)
		s := t.RatVal().String()
		for _, r := range s {
			if r < '0' || r > '9' {
				return 0, false
			}
			v = v*10 + uint64(r-'0')
		}
		return v, true
	}
	return 0, false
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

func flattenXor(t *term.Term, width int) []*term.Term {
	if t.IsApp() && t.Sym() == term.BVXor {
		var out []*term.Term
		for _, a := range t.Args() {
			out = append(out, flattenXor(a, width)...)
		}
		return out
	}
	return []*term.Term{t}
}

func (b BV) buildXor(store *term.Store, width int, operands []*term.Term) *term.Term {
	// Cancel duplicate non-constant operands (x XOR x = 0) and fold
	// every constant operand together.
	counts := make(map[*term.Term]int)
	var order []*term.Term
	var k uint64
	for _, o := range operands {
		if v, ok := bvConstVal(o); ok {
			k ^= v
			continue
		}
		if counts[o] == 0 {
			order = append(order, o)
		}
		counts[o]++
	}
	var kept []*term.Term
	for _, o := range order {
		if counts[o]%2 == 1 {
			kept = append(kept, o)
		}
	}
	kept = term.SortTerms(kept)
	parts := make([]*term.Term, 0, len(kept)+1)
	if k != 0 || len(kept) == 0 {
		parts = append(parts, store.BVLit(rat.Int(int64(k&mask(width))), width))
	}
	parts = append(parts, kept...)
	if len(parts) == 1 {
		return parts[0]
	}
	return store.BVApp(term.BVXor, width, parts...)
}

func (b BV) buildAssocBool(store *term.Store, sym term.Symbol, width int, operands []*term.Term, fold func(a, b uint64) uint64, identity uint64) *term.Term {
	seen := make(map[*term.Term]bool)
	var kept []*term.Term
	acc := identity
	haveConst := false
	var flat []*term.Term
	for _, o := range operands {
		if o.IsApp() && o.Sym() == sym {
			flat = append(flat, o.Args()...)
		} else {
			flat = append(flat, o)
		}
	}
	for _, o := range flat {
		if v, ok := bvConstVal(o); ok {
			acc = fold(acc, v)
			haveConst = true
			continue
		}
		if !seen[o] {
			seen[o] = true
			kept = append(kept, o)
		}
	}
	kept = term.SortTerms(kept)
	parts := make([]*term.Term, 0, len(kept)+1)
	if haveConst {
		parts = append(parts, store.BVLit(rat.Int(int64(acc&mask(width))), width))
	}
	parts = append(parts, kept...)
	if len(parts) == 0 {
		return store.BVLit(rat.Int(int64(identity)), width)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return store.BVApp(sym, width, parts...)
}

func (b BV) Sigma(store *term.Store, sym term.Symbol, args []*term.Term) (*term.Term, error) {
	width := 0
	for _, a := range args {
		if a.Width() > width {
			width = a.Width()
		}
	}
	switch sym {
	case term.BVXor:
		var operands []*term.Term
		for _, a := range args {
			operands = append(operands, flattenXor(a, width)...)
		}
		return b.buildXor(store, width, operands), nil
	case term.BVAnd:
		return b.buildAssocBool(store, term.BVAnd, width, args, func(x, y uint64) uint64 { return x & y }, mask(width)), nil
	case term.BVOr:
		return b.buildAssocBool(store, term.BVOr, width, args, func(x, y uint64) uint64 { return x | y }, 0), nil
	case term.BVNot:
		if v, ok := bvConstVal(args[0]); ok {
			return store.BVLit(rat.Int(int64((^v) & mask(width))), width), nil
		}
		if args[0].IsApp() && args[0].Sym() == term.BVNot {
			return args[0].Args()[0], nil
		}
		return store.BVApp(term.BVNot, width, args[0]), nil
	case term.BVConcat:
		return store.BVApp(term.BVConcat, width, args...), nil
	case term.BVExtract:
		return store.BVApp(term.BVExtract, width, args...), nil
	case term.BVConst:
		return args[0], nil
	default:
		return nil, ErrUnsolvable
	}
}

func (b BV) Norm(store *term.Store, rho func(*term.Term) *term.Term, t *term.Term) *term.Term {
	if t.IsVar() {
		return rho(t)
	}
	if !b.Belongs(t.Sym()) || len(t.Args()) == 0 {
		return t
	}
	args := make([]*term.Term, len(t.Args()))
	for i, a := range t.Args() {
		args[i] = b.Norm(store, rho, a)
	}
	out, err := b.Sigma(store, t.Sym(), args)
	if err != nil {
		return store.BVApp(t.Sym(), t.Width(), args...)
	}
	return out
}

// Solve isolates a variable from an XOR equality using self-cancellation:
// a = b becomes (a XOR b) = 0; if exactly one non-constant operand x
// remains after flattening, x equals the XOR of the rest. Equalities
// outside the XOR fragment (AND/OR/CONCAT/EXTRACT) are left to the
// fallback aliasing, since this engine does not implement a full
// bitvector decision procedure.
func (b BV) Solve(store *term.Store, a, b2 *term.Term) ([]Eq, error) {
	width := a.Width()
	if width == 0 {
		width = b2.Width()
	}
	operands := append(flattenXor(a, width), flattenXor(b2, width)...)
	canon := b.buildXor(store, width, operands)
	if v, ok := bvConstVal(canon); ok {
		if v == 0 {
			return nil, nil
		}
		return nil, ErrUnsolvable
	}
	if canon.IsVar() {
		return []Eq{{X: canon, T: store.BVLit(rat.Int(0), width)}}, nil
	}
	if canon.Sym() == term.BVXor {
		ops := canon.Args()
		for i, o := range ops {
			if o.IsVar() {
				rest := append(append([]*term.Term{}, ops[:i]...), ops[i+1:]...)
				return []Eq{{X: o, T: b.buildXor(store, width, rest)}}, nil
			}
		}
	}
	return nil, ErrUnsolvable
}

func (BV) Fold(t *term.Term, assign map[*term.Term]term.Rat) (term.Rat, bool) {
	return nil, false
}
