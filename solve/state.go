// Package solve implements the equation environment: the global map from
// variable name to either a defining polynomial or a built-in function,
// the incremental Gauss-style solver that
// turns each new equation into the definition of a dependent variable,
// and the translation table that exposes fully-determined
// variable parts to a text-substitution pass.
package solve

import (
	"errors"
	"fmt"
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/schuko/tracing"

	"github.com/lineqpp-go/lineqpp/arithm"
	"github.com/lineqpp-go/lineqpp/polyn"
)

// tracer writes to trace with key 'solve'.
func tracer() tracing.Trace {
	return tracing.Select("solve")
}

var (
	// ErrRedundantEquation indicates an equation reduced to 0 = 0.
	ErrRedundantEquation = errors.New("redundant equation")
	// ErrInconsistentEquation indicates an equation reduced to c = 0 for c != 0.
	ErrInconsistentEquation = errors.New("inconsistent equation")
)

// Builtin is a pure function built into the environment (abs, exp, log,
// cos, sin, rad, deg). rad and deg may fail with an arithm.ErrDomain.
type Builtin struct {
	Name string
	Fn   func(arithm.Complex) (arithm.Complex, error)
}

// entryKind discriminates the two shapes an environment entry can take:
// a struct with a discriminant field, not an interface, since callers need to
// switch on it exhaustively and there is no third variant.
type entryKind int

const (
	entryPoly entryKind = iota
	entryFun
)

// Entry is an environment entry: either a defining Polynomial or a
// built-in function.
type Entry struct {
	kind entryKind
	poly polyn.Polynomial
	fun  Builtin
}

// IsFun reports whether this entry denotes a built-in function.
func (e Entry) IsFun() bool { return e.kind == entryFun }

// Poly returns the defining polynomial. Only valid if !IsFun().
func (e Entry) Poly() polyn.Polynomial { return e.poly }

// Fun returns the built-in function descriptor. Only valid if IsFun().
func (e Entry) Fun() Builtin { return e.fun }

// Tracer receives the exact debug-trace events the CLI's -d flag
// requires. It is distinct from the ambient schuko
// logger: the contract requires a precise byte format for golden-test
// stability, which a leveled/structured logger is not obliged to
// preserve.
type Tracer interface {
	// Equation is called before solving an equation, with the two sides
	// as polynomials (before subtraction).
	Equation(left, right polyn.Polynomial)
	// Dependency is called each time a dependent variable's definition
	// is (re)written, including when a variable is first pivoted.
	Dependency(name string, p polyn.Polynomial)
}

// State is the per-run mutable store that the driver (package lineqpp)
// creates and the evaluator (package eval) updates: the environment,
// the translation table, and the anonymous-variable counter.
type State struct {
	env         *treemap.Map // string -> Entry, ordered for deterministic iteration
	translation map[string]string
	anonCounter int
	Trace       Tracer // optional; nil disables debug trace events
}

// NewState creates a State seeded with i, pi and the built-in functions.
func NewState() *State {
	s := &State{
		env:         treemap.NewWithStringComparator(),
		translation: make(map[string]string),
	}
	s.env.Put("i", Entry{kind: entryPoly, poly: polyn.NewConstant(arithm.I)})
	s.env.Put("pi", Entry{kind: entryPoly, poly: polyn.NewConstant(arithm.FromReal(math.Pi))})
	for _, b := range builtins() {
		s.env.Put(b.Name, Entry{kind: entryFun, fun: b})
	}
	return s
}

func builtins() []Builtin {
	real1 := func(f func(arithm.Complex) arithm.Complex) func(arithm.Complex) (arithm.Complex, error) {
		return func(z arithm.Complex) (arithm.Complex, error) { return f(z), nil }
	}
	return []Builtin{
		{Name: "abs", Fn: real1(arithm.Complex.Abs)},
		{Name: "exp", Fn: real1(arithm.Complex.Exp)},
		{Name: "log", Fn: real1(arithm.Complex.Log)},
		{Name: "cos", Fn: real1(arithm.Complex.Cos)},
		{Name: "sin", Fn: real1(arithm.Complex.Sin)},
		{Name: "rad", Fn: arithm.Complex.Rad},
		{Name: "deg", Fn: arithm.Complex.Deg},
	}
}

// Lookup returns the environment entry for name, if any.
func (s *State) Lookup(name string) (Entry, bool) {
	v, ok := s.env.Get(name)
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

// NewAnon synthesizes a fresh anonymous variable name: "0z", "1z", ...,
// drawn from a monotonically increasing, never-recycled counter.
func (s *State) NewAnon() string {
	name := fmt.Sprintf("%dz", s.anonCounter)
	s.anonCounter++
	return name
}

// isDependent reports whether name is currently a dependent variable.
func (s *State) isDependent(name string) bool {
	e, ok := s.Lookup(name)
	return ok && !e.IsFun()
}

func (s *State) setPoly(name string, p polyn.Polynomial) {
	s.env.Put(name, Entry{kind: entryPoly, poly: p})
	if s.Trace != nil {
		s.Trace.Dependency(name, p)
	}
	if c, isNum := p.IsNumber(); isNum {
		s.recordSolved(name, c)
	}
}

// Translate looks up a translation token (e.g. "v#r", "v#i", or the
// MetaPost-flavoured "v#x"/"v#y") and returns the formatted value and
// whether it was found.
func (s *State) Translate(token string) (string, bool) {
	name, part, ok := splitToken(token)
	if !ok {
		return "", false
	}
	v, found := s.translation[name+"#"+part]
	return v, found
}

func splitToken(token string) (name, part string, ok bool) {
	i := lastIndexByte(token, '#')
	if i < 0 || i == 0 || i == len(token)-1 {
		return "", "", false
	}
	suffix := token[i+1:]
	switch suffix {
	case "r", "x":
		return token[:i], "r", true
	case "i", "y":
		return token[:i], "i", true
	default:
		return "", "", false
	}
}

func lastIndexByte(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// recordSolved populates the translation table for a variable that has
// become a constant. fmt uses four fractional digits, the
// reference format used to keep golden tests stable.
func (s *State) recordSolved(name string, c arithm.Complex) {
	s.translation[name+"#r"] = formatPart(arithm.Zap(c.Re()))
	s.translation[name+"#i"] = formatPart(arithm.Zap(c.Im()))
}

func formatPart(x float64) string {
	return fmt.Sprintf("%.4f", x)
}
