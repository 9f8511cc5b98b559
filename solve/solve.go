package solve

import (
	"fmt"

	"github.com/lineqpp-go/lineqpp/polyn"
)

// Solve ingests a new equation 0 = p. p is expected to
// reference only variables that are currently independent: the
// expression evaluator (package eval) guarantees this by pushing a
// variable's existing dependent definition, not a bare reference,
// whenever the variable already has one. That closure guarantee is what lets this solver propagate a new
// pivot's substitution in a single pass over the existing dependents,
// unlike a general-purpose LEQ engine that has to defend against
// dependent names reappearing mid-equation.
func (s *State) Solve(p polyn.Polynomial) error {
	p = p.Simplify()
	if c, isNumber := p.IsNumber(); isNumber {
		if c.IsZero() {
			return fmt.Errorf("%w: 0 = %s", ErrRedundantEquation, p.String())
		}
		return fmt.Errorf("%w: 0 = %s (off by %s)", ErrInconsistentEquation, p.String(), c.String())
	}

	// Prefer a currently-independent variable as pivot; fall back to any
	// remaining term if none is free.
	name, _, ok := p.MaxCoeff(s.isDependent)
	if !ok {
		name, _, ok = p.MaxCoeff(nil)
	}
	if !ok {
		return fmt.Errorf("%w: 0 = %s", ErrInconsistentEquation, p.String())
	}

	q, err := p.ActivateTowards(name)
	if err != nil {
		return err
	}

	tracer().Debugf("pivot %s: %s is %s", name, name, q.String())
	s.propagate(name, q)
	s.setPoly(name, q)
	return nil
}

// propagate rewrites every existing dependent variable's definition by
// substituting q for name.
func (s *State) propagate(name string, q polyn.Polynomial) {
	for _, w := range s.dependentNames() {
		e, _ := s.Lookup(w)
		rewritten := e.Poly().Subst(name, q)
		s.setPoly(w, rewritten)
	}
}

// Reduce rewrites p by substituting in the current definition of every
// variable it references that is now dependent. Used by the expression
// evaluator's MkEq so that a chain "a = b = c" sees each
// equation's effect on the ones that follow it. A single pass suffices:
// a dependent entry's RHS only ever names independent variables (the
// solver's closure invariant), so substituting once can never reveal a
// name that is itself still dependent.
func (s *State) Reduce(p polyn.Polynomial) polyn.Polynomial {
	for _, name := range p.VarNames() {
		if e, ok := s.Lookup(name); ok && !e.IsFun() {
			p = p.Subst(name, e.Poly())
		}
	}
	return p
}

// dependentNames snapshots the names of all current dependent
// variables. Snapshotting first lets setPoly mutate s.env safely while
// this range is still logically in progress.
func (s *State) dependentNames() []string {
	var names []string
	it := s.env.Iterator()
	for it.Next() {
		name := it.Key().(string)
		entry := it.Value().(Entry)
		if !entry.IsFun() {
			names = append(names, name)
		}
	}
	return names
}
