/*
Package arithm implements complex-number arithmetic with tolerance-based
equality, the foundation for linear polynomials and the equation solver
built on top of it (see packages polyn and solve).

# BSD License

# Copyright (c) the lineqpp authors

All rights reserved.

Please refer to the license file for more information.
*/
package arithm

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'arithm'
func tracer() tracing.Trace {
	return tracing.Select("arithm")
}

// Deg2Rad is a constant for converting from DEG to RAD or vice versa.
var Deg2Rad float64 = 0.01745329251

// Epsilon is the tolerance τ: numbers (or number parts) below ε in
// absolute value are considered 0. This default matches the reference
// implementation's golden tests and should not be changed casually.
var Epsilon float64 = 1e-6

// Is0 is a predicate: is n = 0 (within tolerance) ?
func Is0(n float64) bool {
	return math.Abs(n) < Epsilon
}

// Is1 is a predicate: is n = 1.0 (within tolerance) ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero.
func Zap(n float64) float64 {
	if Is0(n) {
		return 0
	}
	return n
}

// Round snaps n to zero if it is within tolerance, and leaves it
// unchanged otherwise. The manual's "snap" operation only ever cares
// about collapsing near-zero values to exactly zero, not about
// quantizing to multiples of ε.
func Round(n float64) float64 {
	return Zap(n)
}

// ErrDomain is returned by Rad, Deg and Pow when applied to operands
// outside of their (real-valued) domain.
type ErrDomain struct {
	Op  string
	Val Complex
}

func (e *ErrDomain) Error() string {
	return fmt.Sprintf("%s: domain error for %s", e.Op, e.Val.String())
}

// Complex is a pair of IEEE-754 doubles (real, imaginary).
// Equality and zero tests use an absolute tolerance of Epsilon.
type Complex complex128

// Zero is the additive identity.
var Zero = C(0, 0)

// One is the multiplicative identity.
var One = C(1, 0)

// I is the imaginary unit.
var I = C(0, 1)

// C constructs a Complex from real and imaginary parts.
func C(re, im float64) Complex {
	return Complex(complex(re, im))
}

// FromReal constructs a Complex with zero imaginary part.
func FromReal(re float64) Complex {
	return C(re, 0)
}

// c128 returns the underlying complex128.
func (z Complex) c128() complex128 {
	return complex128(z)
}

// Re returns the real part.
func (z Complex) Re() float64 {
	return real(z.c128())
}

// Im returns the imaginary part.
func (z Complex) Im() float64 {
	return imag(z.c128())
}

// Mag is the pivot-selection score: max(|re|, |im|), not the Euclidean
// modulus; the solver only ever compares it across candidate pivots,
// it is never shown to the user.
func (z Complex) Mag() float64 {
	return math.Max(math.Abs(z.Re()), math.Abs(z.Im()))
}

// Snap rounds both parts to zero if they are within tolerance.
func (z Complex) Snap() Complex {
	return C(Zap(z.Re()), Zap(z.Im()))
}

// IsZero reports whether z is zero within Epsilon on both parts.
func (z Complex) IsZero() bool {
	return Is0(z.Re()) && Is0(z.Im())
}

// IsOne reports whether z is one within Epsilon: |re-1| < ε ∧ |im| < ε.
func (z Complex) IsOne() bool {
	return Is0(z.Re()-1) && Is0(z.Im())
}

// IsReal reports whether the imaginary part is zero within Epsilon.
func (z Complex) IsReal() bool {
	return Is0(z.Im())
}

// Eq reports whether z and w are equal within Epsilon on both parts.
func (z Complex) Eq(w Complex) bool {
	return Is0(z.Re()-w.Re()) && Is0(z.Im()-w.Im())
}

// Add returns z + w.
func (z Complex) Add(w Complex) Complex {
	return Complex(z.c128() + w.c128())
}

// Sub returns z - w.
func (z Complex) Sub(w Complex) Complex {
	return Complex(z.c128() - w.c128())
}

// Neg returns -z.
func (z Complex) Neg() Complex {
	return Complex(-z.c128())
}

// Mul returns z * w.
func (z Complex) Mul(w Complex) Complex {
	return Complex(z.c128() * w.c128())
}

// Div returns z / w using the textbook conjugate formula. Fails via the
// returned error if w is (near-)zero.
func (z Complex) Div(w Complex) (Complex, error) {
	if w.IsZero() {
		tracer().Errorf("division by zero: %s / %s", z.String(), w.String())
		return Zero, fmt.Errorf("division by zero: %s / %s", z.String(), w.String())
	}
	return Complex(z.c128() / w.c128()), nil
}

// Abs returns |z| as a real-valued Complex (imaginary part zero).
func (z Complex) Abs() Complex {
	return FromReal(cmplx.Abs(z.c128()))
}

// Exp returns e^z.
func (z Complex) Exp() Complex {
	return Complex(cmplx.Exp(z.c128()))
}

// Log returns (½·log(re²+im²), atan2(im,re)), the principal branch.
func (z Complex) Log() Complex {
	re, im := z.Re(), z.Im()
	return C(0.5*math.Log(re*re+im*im), math.Atan2(im, re))
}

// Cos returns cos(z).
func (z Complex) Cos() Complex {
	return Complex(cmplx.Cos(z.c128()))
}

// Sin returns sin(z).
func (z Complex) Sin() Complex {
	return Complex(cmplx.Sin(z.c128()))
}

// Rad converts a real-valued angle in degrees to radians. Fails with
// ErrDomain if z has a non-zero imaginary part under tolerance.
func (z Complex) Rad() (Complex, error) {
	if !z.IsReal() {
		return Zero, &ErrDomain{Op: "rad", Val: z}
	}
	return FromReal(z.Re() * Deg2Rad), nil
}

// Deg converts a real-valued angle in radians to degrees. Fails with
// ErrDomain if z has a non-zero imaginary part under tolerance.
func (z Complex) Deg() (Complex, error) {
	if !z.IsReal() {
		return Zero, &ErrDomain{Op: "deg", Val: z}
	}
	return FromReal(z.Re() / Deg2Rad), nil
}

// Pow returns z^w. The exponent w must be real-valued (ErrDomain
// otherwise); computed as exp(log(z)*w), the principal branch.
func (z Complex) Pow(w Complex) (Complex, error) {
	if !w.IsReal() {
		return Zero, &ErrDomain{Op: "pow", Val: w}
	}
	if z.IsZero() {
		if w.Re() == 0 {
			return One, nil
		}
		return Zero, nil
	}
	return z.Log().Mul(w).Exp(), nil
}

// String formats z per the display rules below:
//
//	im ≈ 0:  "{re}"
//	re ≈ 0:  "i" if im ≈ 1, else "{im}*i"
//	im ≈ -1: "{re} - i"
//	else:    "{re} + {im}*i"  (or "{re} + i" if im ≈ 1)
func (z Complex) String() string {
	re, im := Zap(z.Re()), Zap(z.Im())
	if Is0(im) {
		return tostr(re)
	}
	if Is0(re) {
		if Is1(im) {
			return "i"
		}
		return fmt.Sprintf("%s*i", tostr(im))
	}
	if Is0(im + 1) {
		return fmt.Sprintf("%s - i", tostr(re))
	}
	if Is1(im) {
		return fmt.Sprintf("%s + i", tostr(re))
	}
	return fmt.Sprintf("%s + %s*i", tostr(re), tostr(im))
}

func tostr(x float64) string {
	return fmt.Sprintf("%g", x)
}
