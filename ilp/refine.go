package ilp

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/internal/obslog"
	"github.com/kvschema/advisor/plan"
	"github.com/kvschema/advisor/schema"
	"github.com/kvschema/advisor/statement"
)

// pinTolerance loosens the second stage's pin on the first stage's
// optimum by a small relative epsilon, absorbing the floating-point
// noise a real MIP solver's relaxation can leave in Z* — pinning
// lower == upper == Z* exactly can make an otherwise-optimal second
// solve spuriously infeasible.
const pinTolerance = 1e-6

// Refine solves p to obtain the objective's optimum Z*, then
// re-solves a variant that pins the objective within pinTolerance of
// Z* and instead minimizes secondary — the same lexicographic
// preference order a plain single-objective solve can't express: many
// solutions can share the same optimal cost, but the fewest-indexes
// one among them is what an operator actually wants to deploy.
func Refine(ctx context.Context, solver Solver, sch *schema.Schema, stmts []*statement.Statement, candidates []*index.Index, table *plan.Table, p *Problem, secondary ObjectiveKind) (*Solution, error) {
	first, err := solver.Solve(ctx, p)
	if err != nil {
		return nil, err
	}

	secondaryTerms := ObjectiveValueTerms(sch, stmts, candidates, table, secondary)
	if sameTerms(p.Objective.Terms, secondaryTerms) {
		return first, nil
	}

	pinned := p.Clone()
	tol := pinTolerance * (1 + absf(first.ObjectiveValue))
	pinned.AddConstraint("pin_primary_upper", p.Objective.Terms, LE, first.ObjectiveValue+tol)
	pinned.AddConstraint("pin_primary_lower", p.Objective.Terms, GE, first.ObjectiveValue-tol)
	pinned.SetObjective(secondaryTerms, true)

	second, err := solver.Solve(ctx, pinned)
	if err != nil {
		if !errors.Is(err, ErrInfeasible) {
			return nil, err
		}
		// The pin is loose enough that infeasibility here would mean
		// the first-stage solution itself was wrong; fall back to it
		// rather than fail a caller who only wanted the primary
		// objective honored.
		obslog.Warningf("ilp: second-stage refinement infeasible, keeping first-stage solution: %v", err)
		return first, nil
	}
	return second, nil
}

func sameTerms(a, b []Term) bool {
	if len(a) != len(b) {
		return false
	}
	byVar := map[string]float64{}
	for _, t := range a {
		byVar[t.Var] = t.Coef
	}
	for _, t := range b {
		if byVar[t.Var] != t.Coef {
			return false
		}
	}
	return true
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
