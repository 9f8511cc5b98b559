// Package eval implements the expression evaluator: a stack machine
// whose operands are linear polynomials, fed by a small set of
// expression-builder entry points that the parser calls while it walks
// the equation grammar.
package eval

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/lineqpp-go/lineqpp/arithm"
	"github.com/lineqpp-go/lineqpp/polyn"
	"github.com/lineqpp-go/lineqpp/solve"
)

// tracer writes to trace with key 'eval'.
func tracer() tracing.Trace {
	return tracing.Select("eval")
}

// Value is a stack operand: either a linear polynomial or a built-in
// function descriptor. Like solve.Entry, this is a small closed sum
// with a discriminant, not an interface: there are exactly two shapes
// and every consumer needs to switch on which one it got.
type Value struct {
	fun    *solve.Builtin
	poly   polyn.Polynomial
	hasFun bool
}

// FromPoly wraps a polynomial as a stack Value.
func FromPoly(p polyn.Polynomial) Value {
	return Value{poly: p}
}

// FromFun wraps a built-in function descriptor as a stack Value.
func FromFun(b solve.Builtin) Value {
	return Value{fun: &b, hasFun: true}
}

// IsFun reports whether this value denotes a built-in function.
func (v Value) IsFun() bool { return v.hasFun }

// Poly returns the polynomial payload; only meaningful if !IsFun().
func (v Value) Poly() polyn.Polynomial { return v.poly }

// Fun returns the function payload; only meaningful if IsFun().
func (v Value) Fun() solve.Builtin { return *v.fun }

// Stack is the expression-builder stack machine. The parser drives it
// through MkNum / MkVar / MkAnon / MkApp / MkMed / MkAdd / ... /
// MkEq / MkCmd as it recognizes each grammar production.
type Stack struct {
	state *solve.State
	vals  []Value
}

// NewStack creates a stack machine bound to a solver state.
func NewStack(state *solve.State) *Stack {
	return &Stack{state: state}
}

func (s *Stack) push(v Value) {
	s.vals = append(s.vals, v)
}

func (s *Stack) pop() (Value, error) {
	if len(s.vals) == 0 {
		return Value{}, errStackUnderflow
	}
	v := s.vals[len(s.vals)-1]
	s.vals = s.vals[:len(s.vals)-1]
	return v, nil
}

// popPoly pops a value and requires it to be a polynomial, not a
// function; this is the common case for every binary/unary arithmetic op.
func (s *Stack) popPoly() (polyn.Polynomial, error) {
	v, err := s.pop()
	if err != nil {
		return polyn.Polynomial{}, err
	}
	if v.IsFun() {
		return polyn.Polynomial{}, fmt.Errorf("%w: %s", ErrInvalidOperand, v.Fun().Name)
	}
	return v.Poly(), nil
}

// MkNum pushes the constant polynomial (x+0i, {}).
func (s *Stack) MkNum(x float64) {
	s.push(FromPoly(polyn.NewConstant(arithm.FromReal(x))))
}

// MkVar pushes the environment entry for name if present (a polynomial
// or a function descriptor), else the canonical bare polynomial
// (0, {name: 1}).
func (s *Stack) MkVar(name string) {
	if e, ok := s.state.Lookup(name); ok {
		if e.IsFun() {
			s.push(FromFun(e.Fun()))
			return
		}
		s.push(FromPoly(e.Poly()))
		return
	}
	s.push(FromPoly(polyn.NewVariable(name)))
}

// MkAnon pushes a fresh bare polynomial over a fresh synthetic name.
func (s *Stack) MkAnon() {
	s.push(FromPoly(polyn.NewVariable(s.state.NewAnon())))
}

// MkApp pops argument then function, and pushes the constant polynomial
// f(argument). Fails with ErrNotAFunction if the function slot is not a
// built-in, or ErrNonConstantArg if the argument is not a number.
func (s *Stack) MkApp() error {
	arg, err := s.pop()
	if err != nil {
		return err
	}
	fn, err := s.pop()
	if err != nil {
		return err
	}
	if !fn.IsFun() {
		tracer().Debugf("application target is not a function: %s", describeOperand(fn))
		return fmt.Errorf("%w: %s", ErrNotAFunction, describeOperand(fn))
	}
	c, isNum := arg.Poly().IsNumber()
	if arg.IsFun() || !isNum {
		return fmt.Errorf("%w: %s", ErrNonConstantArg, fn.Fun().Name)
	}
	result, err := fn.Fun().Fn(c)
	if err != nil {
		return err
	}
	tracer().Debugf("%s(%s) = %s", fn.Fun().Name, c.String(), result.String())
	s.push(FromPoly(polyn.NewConstant(result)))
	return nil
}

func describeOperand(v Value) string {
	if v.IsFun() {
		return v.Fun().Name
	}
	return v.Poly().String()
}

// MkMed pops right, left, scale (top last) and pushes
// left + re(scale)*(right - left), per Knuth's mediation convention
// adapted to complex coordinates.
func (s *Stack) MkMed() error {
	right, err := s.popPoly()
	if err != nil {
		return err
	}
	left, err := s.popPoly()
	if err != nil {
		return err
	}
	scale, err := s.popPoly()
	if err != nil {
		return err
	}
	realScale := scale.RealPart()
	diff := right.Sub(left)
	scaled, err := diff.Mul(realScale)
	if err != nil {
		return err
	}
	s.push(FromPoly(left.Add(scaled)))
	return nil
}

// MkAdd pops right, left and pushes left + right.
func (s *Stack) MkAdd() error { return s.binOp(func(l, r polyn.Polynomial) (polyn.Polynomial, error) { return l.Add(r), nil }) }

// MkSub pops right, left and pushes left - right.
func (s *Stack) MkSub() error { return s.binOp(func(l, r polyn.Polynomial) (polyn.Polynomial, error) { return l.Sub(r), nil }) }

// MkMul pops right, left and pushes left * right.
func (s *Stack) MkMul() error { return s.binOp(polyn.Polynomial.Mul) }

// MkDiv pops right, left and pushes left / right.
func (s *Stack) MkDiv() error { return s.binOp(polyn.Polynomial.Div) }

// MkPow pops right, left and pushes left ^ right.
func (s *Stack) MkPow() error { return s.binOp(polyn.Polynomial.Pow) }

func (s *Stack) binOp(op func(l, r polyn.Polynomial) (polyn.Polynomial, error)) error {
	right, err := s.popPoly()
	if err != nil {
		return err
	}
	left, err := s.popPoly()
	if err != nil {
		return err
	}
	result, err := op(left, right)
	if err != nil {
		return err
	}
	s.push(FromPoly(result))
	return nil
}

// MkNeg pops p and pushes -p.
func (s *Stack) MkNeg() error {
	p, err := s.popPoly()
	if err != nil {
		return err
	}
	s.push(FromPoly(p.Neg()))
	return nil
}

// MkEq pops right, left; solves left - right = 0; and pushes right
// reduced against the now-current environment, so that a chain
// "a = b = c" sees the latest dependency graph while still evaluating
// left to right.
func (s *Stack) MkEq() error {
	right, err := s.popPoly()
	if err != nil {
		return err
	}
	left, err := s.popPoly()
	if err != nil {
		return err
	}
	if s.state.Trace != nil {
		s.state.Trace.Equation(left, right)
	}
	if err := s.state.Solve(left.Sub(right)); err != nil {
		return err
	}
	s.push(FromPoly(s.state.Reduce(right)))
	return nil
}

// MkCmd marks the end of a statement: the expression stack is reset.
func (s *Stack) MkCmd() {
	s.vals = s.vals[:0]
}
