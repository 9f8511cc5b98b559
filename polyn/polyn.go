// Package polyn is for arithmetic with linear polynomials over complex
// coefficients.
/*
BSD 3-Clause License

Copyright (c) the lineqpp authors.

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
   list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
   this list of conditions and the following disclaimer in the documentation
   and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
   contributors may be used to endorse or promote products derived from
   this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package polyn

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/lineqpp-go/lineqpp/arithm"
)

// T traces to the polynomial/equations tracer.
func T() tracing.Trace {
	return gtrace.EquationsTracer
}

var (
	// ErrNonLinear indicates a product or quotient of two non-constant
	// polynomials was attempted.
	ErrNonLinear = errors.New("non-linear operation")
	// ErrDivByZero indicates division by a (near-)zero divisor.
	ErrDivByZero = errors.New("division by zero")
)

// constKey is the reserved term key for the constant part of a
// Polynomial. User-supplied variable names are always non-empty, so
// this can never collide with one.
const constKey = ""

// Polynomial is a type for linear polynomials
//
//	c + a.1 x.1 + a.2 x.2 + ... + a.n x.n
//
// over complex coefficients. The constant term c is stored under the
// reserved key "" inside Terms; every other key is a variable name.
// Terms is a sorted map so iteration order is lexicographic by name,
// which both the debug trace and TraceString rely on.
type Polynomial struct {
	Terms *treemap.Map // string -> arithm.Complex
}

func (p *Polynomial) checkTerms() {
	if p.Terms == nil {
		p.Terms = treemap.NewWithStringComparator()
	}
}

// NewConstant creates a Polynomial consisting of just a constant term.
func NewConstant(c arithm.Complex) Polynomial {
	p := Polynomial{}
	p.checkTerms()
	p.Terms.Put(constKey, c)
	return p
}

// NewVariable creates the canonical bare polynomial for a variable name:
// (0, {name: 1}).
func NewVariable(name string) Polynomial {
	p := NewConstant(arithm.Zero)
	p.Terms.Put(name, arithm.One)
	return p
}

// SetTerm sets the coefficient for variable name within a Polynomial.
// Use constKey ("") to set the constant term.
func (p Polynomial) SetTerm(name string, coeff arithm.Complex) Polynomial {
	p.checkTerms()
	p.Terms.Put(name, coeff)
	return p
}

// GetCoeff returns the coefficient of variable name (zero if absent).
func (p Polynomial) GetCoeff(name string) arithm.Complex {
	p.checkTerms()
	if v, ok := p.Terms.Get(name); ok {
		return v.(arithm.Complex)
	}
	return arithm.Zero
}

// ConstantValue returns the constant term.
func (p Polynomial) ConstantValue() arithm.Complex {
	return p.GetCoeff(constKey)
}

// VarNames returns the variable names referenced by p, in lexicographic
// order (the constant term's key is never included).
func (p Polynomial) VarNames() []string {
	p.checkTerms()
	var names []string
	for _, k := range p.Terms.Keys() {
		name := k.(string)
		if name != constKey {
			names = append(names, name)
		}
	}
	return names
}

// TermCount returns the number of non-constant terms.
func (p Polynomial) TermCount() int {
	return len(p.VarNames())
}

// Copy returns a deep (enough) copy of p: a fresh Terms map with the
// same entries, so mutating the copy never mutates p.
func (p Polynomial) Copy() Polynomial {
	q := NewConstant(arithm.Zero)
	p.checkTerms()
	it := p.Terms.Iterator()
	for it.Next() {
		q.Terms.Put(it.Key(), it.Value())
	}
	return q
}

// Simplify drops terms whose coefficient is zero within tolerance and
// snaps the constant term. Returns a new value; p is unaffected.
func (p Polynomial) Simplify() Polynomial {
	p.checkTerms()
	q := Polynomial{}
	q.checkTerms()
	it := p.Terms.Iterator()
	for it.Next() {
		name := it.Key().(string)
		coeff := it.Value().(arithm.Complex)
		if name == constKey {
			continue
		}
		if !coeff.IsZero() {
			q.Terms.Put(name, coeff)
		}
	}
	q.Terms.Put(constKey, p.ConstantValue().Snap())
	return q
}

// IsNumber reports whether p is a constant: a polynomial is a number
// iff its term set is empty.
func (p Polynomial) IsNumber() (arithm.Complex, bool) {
	return p.ConstantValue(), p.TermCount() == 0
}

// IsVariable reports whether p is a bare variable: constant zero and a
// single term with coefficient one. Returns the variable's name.
func (p Polynomial) IsVariable() (string, bool) {
	if !p.ConstantValue().IsZero() {
		return "", false
	}
	names := p.VarNames()
	if len(names) != 1 {
		return "", false
	}
	if !p.GetCoeff(names[0]).IsOne() {
		return "", false
	}
	return names[0], true
}

// Add returns p + q, term-wise. The result is not pre-simplified.
func (p Polynomial) Add(q Polynomial) Polynomial {
	return p.addOrSub(q, true)
}

// Sub returns p - q, term-wise. The result is not pre-simplified.
func (p Polynomial) Sub(q Polynomial) Polynomial {
	return p.addOrSub(q, false)
}

func (p Polynomial) addOrSub(q Polynomial, doAdd bool) Polynomial {
	r := p.Copy()
	q.checkTerms()
	it := q.Terms.Iterator()
	for it.Next() {
		name := it.Key().(string)
		coeff := it.Value().(arithm.Complex)
		cur := r.GetCoeff(name)
		if doAdd {
			r.Terms.Put(name, cur.Add(coeff))
		} else {
			r.Terms.Put(name, cur.Sub(coeff))
		}
	}
	return r
}

// Neg returns -p.
func (p Polynomial) Neg() Polynomial {
	r := NewConstant(arithm.Zero)
	p.checkTerms()
	it := p.Terms.Iterator()
	for it.Next() {
		name := it.Key().(string)
		coeff := it.Value().(arithm.Complex)
		r.Terms.Put(name, coeff.Neg())
	}
	return r
}

// Mul multiplies two polynomials. One of both must be a number, or this
// fails with ErrNonLinear.
func (p Polynomial) Mul(q Polynomial) (Polynomial, error) {
	if k, ok := q.IsNumber(); ok {
		return p.scale(k), nil
	}
	if k, ok := p.IsNumber(); ok {
		return q.scale(k), nil
	}
	return Polynomial{}, fmt.Errorf("%w: %s * %s", ErrNonLinear, p.String(), q.String())
}

func (p Polynomial) scale(k arithm.Complex) Polynomial {
	r := NewConstant(arithm.Zero)
	p.checkTerms()
	it := p.Terms.Iterator()
	for it.Next() {
		name := it.Key().(string)
		coeff := it.Value().(arithm.Complex)
		r.Terms.Put(name, coeff.Mul(k))
	}
	return r
}

// Div divides p by q. q must be a number, or this fails with
// ErrNonLinear; a (near-)zero divisor fails with ErrDivByZero.
func (p Polynomial) Div(q Polynomial) (Polynomial, error) {
	k, ok := q.IsNumber()
	if !ok {
		return Polynomial{}, fmt.Errorf("%w: %s / %s", ErrNonLinear, p.String(), q.String())
	}
	if k.IsZero() {
		return Polynomial{}, fmt.Errorf("%w: %s / %s", ErrDivByZero, p.String(), q.String())
	}
	recip, err := arithm.One.Div(k)
	if err != nil {
		return Polynomial{}, fmt.Errorf("%w: %s / %s", ErrDivByZero, p.String(), q.String())
	}
	r, _ := p.Mul(NewConstant(recip))
	return r, nil
}

// ActivateTowards transforms an equation "0 = p" (with p containing a
// non-zero coefficient for name) to make name the dependent variable:
// name = -1/a * p(...), with the name term removed from the RHS. This
// is the pivot step of the solver.
func (p Polynomial) ActivateTowards(name string) (Polynomial, error) {
	coeff := p.GetCoeff(name)
	if coeff.IsZero() {
		return Polynomial{}, fmt.Errorf("cannot activate equation towards %q: zero coefficient", name)
	}
	r := p.Copy()
	r.Terms.Remove(name)
	recip, err := arithm.One.Neg().Div(coeff)
	if err != nil {
		return Polynomial{}, err
	}
	scaled, _ := r.Mul(NewConstant(recip))
	return scaled.Simplify(), nil
}

// Pow computes p^q. Both operands must be numbers, or this fails with
// ErrNonLinear.
func (p Polynomial) Pow(q Polynomial) (Polynomial, error) {
	base, ok1 := p.IsNumber()
	exp, ok2 := q.IsNumber()
	if !ok1 || !ok2 {
		return Polynomial{}, fmt.Errorf("%w: %s ^ %s", ErrNonLinear, p.String(), q.String())
	}
	v, err := base.Pow(exp)
	if err != nil {
		return Polynomial{}, err
	}
	return NewConstant(v), nil
}

// Subst substitutes polynomial repl for variable name within p. If name
// does not occur in p, p is returned unchanged. Otherwise the term is
// removed and repl (scaled by its coefficient) is folded in, then the
// result is simplified.
func (p Polynomial) Subst(name string, repl Polynomial) Polynomial {
	k := p.GetCoeff(name)
	if k.IsZero() {
		return p
	}
	r := p.Copy()
	r.Terms.Remove(name)
	scaled, _ := repl.Mul(NewConstant(k))
	r = r.Add(scaled)
	return r.Simplify()
}

// RealPart returns the polynomial obtained by discarding the imaginary
// coefficient of every term (including the constant), used by mediation's
// re(scale).
func (p Polynomial) RealPart() Polynomial {
	r := NewConstant(arithm.FromReal(p.ConstantValue().Re()))
	for _, name := range p.VarNames() {
		r.Terms.Put(name, arithm.FromReal(p.GetCoeff(name).Re()))
	}
	return r
}

// MaxCoeff finds the term with the largest-magnitude coefficient (per
// arithm.Complex.Mag), restricted to names for which skip(name) is
// false if skip is non-nil. Ties are broken deterministically by
// lexicographically-smallest name, since Terms iterates in that order.
// Returns ("", false) if no eligible term exists.
func (p Polynomial) MaxCoeff(skip func(string) bool) (string, arithm.Complex, bool) {
	p.checkTerms()
	var bestName string
	var bestCoeff arithm.Complex
	var bestMag = -1.0
	found := false
	it := p.Terms.Iterator()
	for it.Next() {
		name := it.Key().(string)
		if name == constKey {
			continue
		}
		if skip != nil && skip(name) {
			continue
		}
		coeff := it.Value().(arithm.Complex)
		if coeff.IsZero() {
			continue
		}
		if m := coeff.Mag(); m > bestMag {
			bestMag, bestName, bestCoeff, found = m, name, coeff, true
		}
	}
	return bestName, bestCoeff, found
}

// String creates a readable string representation, using generic
// variable names (x.<name> style is unnecessary since names are
// already human-readable strings here).
func (p Polynomial) String() string {
	return p.TraceString()
}

// TraceString renders p the way the debug trace requires:
// variables ordered lexicographically by name, terms with coefficient
// exactly one printed as " + v", and "sum"-shaped coefficients
// parenthesised as "({z})*v".
func (p Polynomial) TraceString() string {
	var buf bytes.Buffer
	c := p.ConstantValue()
	wrote := false
	if !c.IsZero() || p.TermCount() == 0 {
		buf.WriteString(c.String())
		wrote = true
	}
	for _, name := range p.VarNames() {
		coeff := p.GetCoeff(name)
		if coeff.IsZero() {
			continue
		}
		term := formatTerm(coeff, name)
		if !wrote {
			buf.WriteString(term)
			wrote = true
			continue
		}
		if term[0] == '-' || term[0] == '+' {
			buf.WriteString(" ")
			buf.WriteString(term)
		} else {
			buf.WriteString(" + ")
			buf.WriteString(term)
		}
	}
	return buf.String()
}

func formatTerm(coeff arithm.Complex, name string) string {
	if coeff.IsOne() {
		return "+ " + name
	}
	if coeff.Eq(arithm.One.Neg()) {
		return "- " + name
	}
	if coeff.IsReal() && coeff.Re() < 0 {
		return fmt.Sprintf("- %g*%s", -coeff.Re(), name)
	}
	if coeff.IsReal() {
		return fmt.Sprintf("%g*%s", coeff.Re(), name)
	}
	return fmt.Sprintf("(%s)*%s", coeff.String(), name)
}
