package eval

import "errors"

var (
	// ErrNotAFunction indicates an identifier in function position is
	// not a built-in.
	ErrNotAFunction = errors.New("not a function")
	// ErrNonConstantArg indicates a function was applied to a
	// non-constant argument.
	ErrNonConstantArg = errors.New("non-constant function argument")
	// ErrInvalidOperand indicates a function value was used where a
	// polynomial operand was expected (e.g. "abs + 1").
	ErrInvalidOperand = errors.New("function value used as operand")
	// errStackUnderflow indicates the expression stack ran dry; this
	// can only happen if the parser mis-sequences its builder calls, so
	// it is unexported and treated as a driver bug, not a user error.
	errStackUnderflow = errors.New("expression stack underflow")
)
