// Package constraints keeps the boundary constraint bookkeeping for a
// phase: which variables or named expressions are pinned at the initial
// and final boundaries. It performs no interpolation itself; the
// interpolation engine guarantees boundary values at stau/ptau = +/-1 are
// available for comparison against the registered targets.
package constraints

import (
	"fmt"
	"regexp"
	"strings"
)

// Loc selects which phase boundary a constraint applies to.
type Loc uint8

const (
	Initial Loc = iota
	Final
)

func (l Loc) String() string {
	if l == Initial {
		return "initial"
	}
	return "final"
}

// BoundaryConstraint is one registered constraint. Name is the resolved
// constraint name; Expr is non-empty when the constraint was given as a
// `name = f(vars)` expression rather than a bare variable.
type BoundaryConstraint struct {
	Name    string
	Expr    string
	Loc     Loc
	Indices []int // nil constrains the whole variable
	Equals  []float64
}

var nameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.:]*$`)

// Registry accumulates boundary constraints for one phase and rejects
// malformed expressions and duplicate registrations. These are user
// configuration errors, surfaced immediately and never retried.
type Registry struct {
	constraints []BoundaryConstraint
}

func (reg *Registry) All() []BoundaryConstraint { return reg.constraints }

func (reg *Registry) AtLoc(loc Loc) (out []BoundaryConstraint) {
	for _, bc := range reg.constraints {
		if bc.Loc == loc {
			out = append(out, bc)
		}
	}
	return
}

// Add registers a boundary constraint. The name may be a single variable
// name or an expression of the form `constraint_name = func(vars)`.
func (reg *Registry) Add(name string, loc Loc, indices []int, equals []float64) (bc BoundaryConstraint, err error) {
	bc = BoundaryConstraint{Loc: loc, Indices: indices, Equals: equals}
	if i := strings.Index(name, "="); i >= 0 && !strings.HasPrefix(name[i+1:], "=") {
		lhs := strings.TrimSpace(name[:i])
		rhs := strings.TrimSpace(name[i+1:])
		if !nameRe.MatchString(lhs) || rhs == "" {
			err = invalidExpression(name)
			return
		}
		bc.Name = lhs
		bc.Expr = name
	} else if nameRe.MatchString(name) {
		bc.Name = name
	} else {
		err = invalidExpression(name)
		return
	}

	for _, existing := range reg.constraints {
		if existing.Loc != loc || existing.Name != bc.Name || !sameIndices(existing.Indices, indices) {
			continue
		}
		if bc.Expr == "" && existing.Expr == "" {
			err = fmt.Errorf("Cannot add new %s boundary constraint for variable `%s` and indices %s. One already exists.",
				loc, bc.Name, indicesString(indices))
		} else {
			err = fmt.Errorf("Cannot add new %s boundary constraint named `%s` and indices %s. The name `%s` is already in use as a %s boundary constraint",
				loc, bc.Name, indicesString(indices), bc.Name, existing.Loc)
		}
		return
	}
	reg.constraints = append(reg.constraints, bc)
	return
}

func invalidExpression(name string) error {
	return fmt.Errorf("The expression provided `%s` has invalid format. Expression may be a single variable or an equation of the form `constraint_name = func(vars)`", name)
}

// indicesString formats nil indices as None, matching the registry's
// user-facing convention of "the whole variable".
func indicesString(indices []int) string {
	if indices == nil {
		return "None"
	}
	return fmt.Sprintf("%v", indices)
}

func sameIndices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
