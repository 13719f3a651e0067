// Package bnb is a small, self-contained reference implementation of
// the ilp.Solver contract: a branch-and-bound binary integer
// programming solver. It exists so the ILP stage is exercisable
// end-to-end without depending on a commercial or GPL solver binary;
// a deployment that has Gurobi, CBC, or HiGHS available registers
// that instead under the same ilp.Solver interface and this package
// goes unused.
//
// It is not tuned for scale: branch-and-bound over more than a few
// dozen binary variables can take a long time. The workload sizes
// spec examples describe stay well within that range.
package bnb

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/kvschema/advisor/ilp"
)

// Solver is the branch-and-bound ilp.Solver.
type Solver struct{}

// New returns a ready-to-use branch-and-bound solver.
func New() Solver { return Solver{} }

// Name identifies this solver in logs and the ilp registry.
func (Solver) Name() string { return "bnb" }

type node struct {
	assigned map[string]int // 0 or 1, only for fixed vars
}

// Solve runs branch-and-bound to global optimality: at each node it
// prunes branches whose interval bound on every constraint already
// proves infeasibility, and whose best-case objective (every
// unassigned variable optimistically taking its most favorable value,
// see lowerBoundObjective) cannot beat the current incumbent.
func (s Solver) Solve(ctx context.Context, p *ilp.Problem) (*ilp.Solution, error) {
	vars := append([]string{}, p.Vars...)
	sort.Strings(vars)

	var best map[string]int
	bestObj := 0.0
	haveBest := false

	var walk func(idx int, assigned map[string]int) error
	walk = func(idx int, assigned map[string]int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !boundsFeasible(p, assigned) {
			return nil
		}
		if haveBest && lowerBoundObjective(p, assigned) >= bestObj {
			return nil
		}
		if idx == len(vars) {
			obj := evalObjective(p, assigned)
			if !haveBest || obj < bestObj {
				haveBest = true
				bestObj = obj
				best = cloneAssignment(assigned)
			}
			return nil
		}
		v := vars[idx]
		for _, val := range [2]int{0, 1} {
			assigned[v] = val
			if err := walk(idx+1, assigned); err != nil {
				delete(assigned, v)
				return err
			}
		}
		delete(assigned, v)
		return nil
	}

	if err := walk(0, map[string]int{}); err != nil {
		return nil, err
	}
	if !haveBest {
		return nil, errors.Wrapf(ilp.ErrInfeasible, "no assignment of %d variables satisfies every constraint", len(vars))
	}

	values := make(map[string]float64, len(best))
	for k, v := range best {
		values[k] = float64(v)
	}
	return &ilp.Solution{Status: ilp.Optimal, Values: values, ObjectiveValue: bestObj}, nil
}

// ComputeIIS runs the standard deletion-filter algorithm: repeatedly
// try dropping each constraint and re-check feasibility of what
// remains. A constraint whose removal makes the rest feasible is
// necessary to the infeasibility and is kept; one whose removal
// leaves the rest infeasible is redundant to it and is dropped for
// good. What survives every pass is one irreducible infeasible
// subset.
func (s Solver) ComputeIIS(ctx context.Context, p *ilp.Problem) ([]string, error) {
	active := append([]ilp.Constraint{}, p.Constraints...)

	for i := 0; i < len(active); {
		trial := make([]ilp.Constraint, 0, len(active)-1)
		trial = append(trial, active[:i]...)
		trial = append(trial, active[i+1:]...)

		sub := ilp.NewProblem()
		sub.Vars = append(sub.Vars, p.Vars...)
		sub.Constraints = trial

		if feasible(ctx, sub) {
			// Removing it restored feasibility: it's necessary, keep it
			// and move to the next constraint.
			i++
			continue
		}
		// Still infeasible without it: it wasn't needed for the
		// contradiction. Drop it and re-scan from the same index.
		active = trial
	}

	names := make([]string, len(active))
	for i, c := range active {
		names[i] = c.Name
	}
	return names, nil
}

func feasible(ctx context.Context, p *ilp.Problem) bool {
	vars := append([]string{}, p.Vars...)
	sort.Strings(vars)

	var walk func(idx int, assigned map[string]int) bool
	walk = func(idx int, assigned map[string]int) bool {
		if ctx.Err() != nil {
			return false
		}
		if !boundsFeasible(p, assigned) {
			return false
		}
		if idx == len(vars) {
			return true
		}
		v := vars[idx]
		for _, val := range [2]int{0, 1} {
			assigned[v] = val
			if walk(idx+1, assigned) {
				return true
			}
		}
		delete(assigned, v)
		return false
	}
	return walk(0, map[string]int{})
}

func cloneAssignment(m map[string]int) map[string]int {
	cp := make(map[string]int, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// boundsFeasible reports whether assigned (a partial assignment) can
// still be extended to satisfy every constraint, using interval
// bounds on the unassigned {0,1} variables.
func boundsFeasible(p *ilp.Problem, assigned map[string]int) bool {
	for _, c := range p.Constraints {
		lo, hi := 0.0, 0.0
		for _, t := range c.Terms {
			if val, ok := assigned[t.Var]; ok {
				lo += t.Coef * float64(val)
				hi += t.Coef * float64(val)
				continue
			}
			if t.Coef > 0 {
				hi += t.Coef
			} else {
				lo += t.Coef
			}
		}
		switch c.Sense {
		case ilp.LE:
			if lo > c.RHS {
				return false
			}
		case ilp.GE:
			if hi < c.RHS {
				return false
			}
		case ilp.EQ:
			if lo > c.RHS || hi < c.RHS {
				return false
			}
		}
	}
	return true
}

// lowerBoundObjective assumes every unassigned variable optimistically
// contributes its most favorable value for minimization, i.e. 0 for a
// nonnegative coefficient and 1 for a negative one — an admissible
// bound for the nonnegative-dominated objectives (Cost, Space, Index
// count) this module ever builds.
func lowerBoundObjective(p *ilp.Problem, assigned map[string]int) float64 {
	total := 0.0
	for _, t := range p.Objective.Terms {
		if val, ok := assigned[t.Var]; ok {
			total += t.Coef * float64(val)
			continue
		}
		if t.Coef < 0 {
			total += t.Coef
		}
	}
	return total
}

func evalObjective(p *ilp.Problem, assigned map[string]int) float64 {
	total := 0.0
	for _, t := range p.Objective.Terms {
		total += t.Coef * float64(assigned[t.Var])
	}
	return total
}
