package arithm

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 0.0000008
	if !Is0(a) {
		t.Errorf("Expected a to be zero, is not")
	}
}

func TestComplexAddSub(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	z := C(3, 2)
	w := C(-3, -2)
	assert.True(t, z.Add(w).IsZero())
	assert.True(t, z.Sub(z).IsZero())
}

func TestComplexMulDiv(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	z := C(2, 0)
	w := C(3, 0)
	assert.True(t, z.Mul(w).Eq(C(6, 0)))
	q, err := w.Div(z)
	assert.NoError(t, err)
	assert.True(t, q.Eq(C(1.5, 0)))
	_, err = z.Div(Zero)
	assert.Error(t, err)
}

func TestComplexIOneTimesIOne(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := I.Mul(I)
	assert.True(t, r.Eq(C(-1, 0)), "i*i should be -1, got %s", r.String())
}

func TestComplexRadDeg(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r, err := C(180, 0).Rad()
	assert.NoError(t, err)
	assert.InDelta(t, 3.14159265, r.Re(), 1e-4)
	_, err = C(1, 1).Rad()
	assert.Error(t, err)
	_, err = C(1, 1).Deg()
	assert.Error(t, err)
}

func TestComplexPowRequiresRealExponent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := C(2, 0).Pow(C(1, 1))
	assert.Error(t, err)
	r, err := C(2, 0).Pow(C(3, 0))
	assert.NoError(t, err)
	assert.InDelta(t, 8.0, r.Re(), 1e-6)
}

func TestComplexDisplayRules(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, "3", C(3, 0).String())
	assert.Equal(t, "i", C(0, 1).String())
	assert.Equal(t, "2*i", C(0, 2).String())
	assert.Equal(t, "3 - i", C(3, -1).String())
	assert.Equal(t, "3 + i", C(3, 1).String())
	assert.Equal(t, "3 + 2*i", C(3, 2).String())
}
