package solve

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"

	"github.com/lineqpp-go/lineqpp/arithm"
	"github.com/lineqpp-go/lineqpp/polyn"
)

func TestSolvePivotsOnMaxMagnitudeCoefficient(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewState()
	// 0 = a - b: both coefficients have magnitude 1, tie broken on name,
	// so "a" pivots.
	p := polyn.NewVariable("a").Sub(polyn.NewVariable("b"))
	assert.NoError(t, s.Solve(p))
	e, ok := s.Lookup("a")
	assert.True(t, ok)
	assert.False(t, e.IsFun())
	name, ok := e.Poly().IsVariable()
	assert.True(t, ok)
	assert.Equal(t, "b", name)
}

// Pivot preservation (property #4): once a variable is pivoted away, it
// must not remain a term in any other dependent variable's definition.
func TestSolvePropagateRemovesPivotFromDependents(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewState()
	// a depends on b: 0 = a - b
	assert.NoError(t, s.Solve(polyn.NewVariable("a").Sub(polyn.NewVariable("b"))))
	// now pivot b to a constant: 0 = b - 5
	assert.NoError(t, s.Solve(polyn.NewVariable("b").Sub(polyn.NewConstant(arithm.C(5, 0)))))

	eb, ok := s.Lookup("b")
	assert.True(t, ok)
	c, isNum := eb.Poly().IsNumber()
	assert.True(t, isNum)
	assert.True(t, c.Eq(arithm.C(5, 0)))

	ea, ok := s.Lookup("a")
	assert.True(t, ok)
	assert.True(t, ea.Poly().GetCoeff("b").IsZero(), "b must be gone from a's definition once b is pivoted")
	ac, isNum := ea.Poly().IsNumber()
	assert.True(t, isNum)
	assert.True(t, ac.Eq(arithm.C(5, 0)))
}

// Substitution closure (property #1): after any sequence of solves, a
// dependent variable's definition never references another dependent
// variable, only independent ones (or nothing at all).
func TestSolveMaintainsSubstitutionClosure(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewState()
	// a depends on b.
	assert.NoError(t, s.Solve(polyn.NewVariable("a").Sub(polyn.NewVariable("b"))))
	// pivots b (lexicographically smallest among b, c, d), which must
	// also rewrite a's existing definition so it no longer mentions b.
	assert.NoError(t, s.Solve(polyn.NewVariable("c").Sub(polyn.NewVariable("b").Add(polyn.NewVariable("d")))))

	for _, name := range s.dependentNames() {
		e, _ := s.Lookup(name)
		for _, ref := range e.Poly().VarNames() {
			assert.False(t, s.isDependent(ref), "%s's definition still references dependent variable %s", name, ref)
		}
	}
}

// Variable-order independence (property #3): solving two independent
// equations in either order yields the same final translation table.
func TestSolveIsOrderIndependentAcrossIndependentEquations(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	s1 := NewState()
	assert.NoError(t, s1.Solve(polyn.NewVariable("x").Sub(polyn.NewConstant(arithm.C(1, 0)))))
	assert.NoError(t, s1.Solve(polyn.NewVariable("y").Sub(polyn.NewConstant(arithm.C(2, 0)))))

	s2 := NewState()
	assert.NoError(t, s2.Solve(polyn.NewVariable("y").Sub(polyn.NewConstant(arithm.C(2, 0)))))
	assert.NoError(t, s2.Solve(polyn.NewVariable("x").Sub(polyn.NewConstant(arithm.C(1, 0)))))

	xr1, ok := s1.Translate("x#r")
	assert.True(t, ok)
	xr2, ok := s2.Translate("x#r")
	assert.True(t, ok)
	assert.Equal(t, xr1, xr2)

	yr1, ok := s1.Translate("y#r")
	assert.True(t, ok)
	yr2, ok := s2.Translate("y#r")
	assert.True(t, ok)
	assert.Equal(t, yr1, yr2)
}

// A caller (the expression evaluator's mk_var contract) only ever hands
// Solve a polynomial built from the *current* definition of a variable
// that already has one, never a bare reference to it. xValue simulates
// that lookup for a variable already known to be a dependent constant.
func xValue(t *testing.T, s *State, name string) polyn.Polynomial {
	t.Helper()
	e, ok := s.Lookup(name)
	if !ok {
		t.Fatalf("%s not in environment", name)
	}
	return e.Poly()
}

func TestSolveRedundantEquation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewState()
	assert.NoError(t, s.Solve(polyn.NewVariable("x").Sub(polyn.NewConstant(arithm.C(1, 0)))))
	// 0 = x - 1, already known to be true
	err := s.Solve(xValue(t, s, "x").Sub(polyn.NewConstant(arithm.C(1, 0))))
	assert.ErrorIs(t, err, ErrRedundantEquation)
}

func TestSolveInconsistentEquation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewState()
	assert.NoError(t, s.Solve(polyn.NewVariable("x").Sub(polyn.NewConstant(arithm.C(1, 0)))))
	err := s.Solve(xValue(t, s, "x").Sub(polyn.NewConstant(arithm.C(2, 0))))
	assert.ErrorIs(t, err, ErrInconsistentEquation)
}

func TestReduceSubstitutesDependentVariables(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewState()
	assert.NoError(t, s.Solve(polyn.NewVariable("x").Sub(polyn.NewConstant(arithm.C(3, 0)))))
	reduced := s.Reduce(polyn.NewVariable("x").Add(polyn.NewVariable("y")))
	c := reduced.GetCoeff("x")
	assert.True(t, c.IsZero())
	assert.True(t, reduced.ConstantValue().Eq(arithm.C(3, 0)))
}
