package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icsgo/ics/internal/combine"
	ierrors "github.com/icsgo/ics/internal/errors"
	"github.com/icsgo/ics/internal/partition"
	"github.com/icsgo/ics/internal/term"
)

func parseOne(t *testing.T, src string) *Atom {
	t.Helper()
	prog, err := ParseString("test.atoms", src)
	assert.NoError(t, err)
	assert.Len(t, prog.Statements, 1)
	return prog.Statements[0].Atom
}

func TestParseStringEquality(t *testing.T) {
	prog, err := ParseString("test.atoms", "x = y;")
	assert.NoError(t, err)
	assert.Len(t, prog.Statements, 1)
	assert.Equal(t, "=", prog.Statements[0].Atom.RelOp)
}

func TestParseStringMultipleStatements(t *testing.T) {
	prog, err := ParseString("test.atoms", "x = y;\ny != z;\n")
	assert.NoError(t, err)
	assert.Len(t, prog.Statements, 2)
}

func TestParseStringRejectsSyntaxError(t *testing.T) {
	_, err := ParseString("test.atoms", "x = ;")
	assert.Error(t, err)
}

func TestToTermAllocatesFreshVariableOncePerName(t *testing.T) {
	store := term.NewStore()
	vars := Vars{}
	a := parseOne(t, "x = x;")

	left, err := ToTerm(store, vars, a.Left)
	assert.NoError(t, err)
	right, err := ToTerm(store, vars, a.Right)
	assert.NoError(t, err)
	assert.Equal(t, left, right, "the same identifier must resolve to the same hash-consed variable")
}

func TestToTermBuildsUninterpretedApplication(t *testing.T) {
	store := term.NewStore()
	vars := Vars{}
	a := parseOne(t, "f(x) = y;")

	left, err := ToTerm(store, vars, a.Left)
	assert.NoError(t, err)
	assert.True(t, left.IsApp())
	assert.Equal(t, term.Uninterpreted, left.Sym())
	assert.Equal(t, "f", left.FuncName())
}

func TestToTermBuildsTupleLiteral(t *testing.T) {
	store := term.NewStore()
	vars := Vars{}
	a := parseOne(t, "(x, y) = z;")

	left, err := ToTerm(store, vars, a.Left)
	assert.NoError(t, err)
	assert.True(t, left.IsApp())
	assert.Equal(t, term.Tuple, left.Sym())
	assert.Len(t, left.Args(), 2)
}

func TestToTermBuildsProjection(t *testing.T) {
	store := term.NewStore()
	vars := Vars{}
	a := parseOne(t, "x.0 = y;")

	left, err := ToTerm(store, vars, a.Left)
	assert.NoError(t, err)
	assert.True(t, left.IsApp())
	assert.Equal(t, term.Proj, left.Sym())
}

func TestToTermParsesCoefficientAndSum(t *testing.T) {
	store := term.NewStore()
	vars := Vars{}
	a := parseOne(t, "2 * x + 1 = y;")

	left, err := ToTerm(store, vars, a.Left)
	assert.NoError(t, err)
	assert.True(t, left.IsApp())
	assert.Equal(t, term.Add, left.Sym())
}

func TestToAtomEquality(t *testing.T) {
	store := term.NewStore()
	vars := Vars{}
	a := parseOne(t, "x = y;")

	atom, err := ToAtom(store, vars, a)
	assert.NoError(t, err)
	assert.Equal(t, combine.AtomEq, atom.Kind)
}

func TestToAtomDisequality(t *testing.T) {
	store := term.NewStore()
	vars := Vars{}
	a := parseOne(t, "x != y;")

	atom, err := ToAtom(store, vars, a)
	assert.NoError(t, err)
	assert.Equal(t, combine.AtomDeq, atom.Kind)
}

func TestToAtomSignAgainstLiteralZero(t *testing.T) {
	store := term.NewStore()
	vars := Vars{}
	a := parseOne(t, "x > 0;")

	atom, err := ToAtom(store, vars, a)
	assert.NoError(t, err)
	assert.Equal(t, combine.AtomSign, atom.Kind)
	assert.Equal(t, partition.SPos, atom.Domain.Sign)
}

func TestToAtomRejectsSignAgainstNonzero(t *testing.T) {
	store := term.NewStore()
	vars := Vars{}
	a := parseOne(t, "x > 1;")

	_, err := ToAtom(store, vars, a)
	assert.Error(t, err)

	var diag *ierrors.Error
	assert.ErrorAs(t, err, &diag, "a rejected sign comparison must carry the structured E0101 diagnostic")
	assert.Equal(t, ierrors.ErrorUnsupportedComparison, diag.Code)
}

func TestToAtomAllFourSignOperators(t *testing.T) {
	cases := []struct {
		src  string
		sign partition.Sign
	}{
		{"x > 0;", partition.SPos},
		{"x < 0;", partition.SNeg},
		{"x >= 0;", partition.SNonNeg},
		{"x <= 0;", partition.SNonPos},
	}
	for _, c := range cases {
		store := term.NewStore()
		vars := Vars{}
		a := parseOne(t, c.src)
		atom, err := ToAtom(store, vars, a)
		assert.NoError(t, err)
		assert.Equal(t, c.sign, atom.Domain.Sign)
	}
}
