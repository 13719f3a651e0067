// Package search implements C7: the top-level driver that runs index
// candidate enumeration, plan costing, and ILP solving in sequence and
// assembles their outcome into a result.Result.
package search

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/kvschema/advisor/concurrent"
	"github.com/kvschema/advisor/enumerate"
	"github.com/kvschema/advisor/ilp"
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/internal/obslog"
	"github.com/kvschema/advisor/plan"
	"github.com/kvschema/advisor/result"
	"github.com/kvschema/advisor/schema"
	"github.com/kvschema/advisor/statement"
)

// Config parameterizes one search run.
type Config struct {
	Budget float64
	// Objective is the quantity C6 minimizes as its primary goal.
	Objective ilp.ObjectiveKind
	// Refine, if set, requests the two-stage lexicographic refinement:
	// after Objective's optimum is found, re-solve pinned to it and
	// minimize Refine as the tie-breaker.
	Refine *ilp.ObjectiveKind
	// SolverName selects the registered ilp.Solver to use.
	SolverName string
	// CostModel prices every candidate plan.
	CostModel plan.CostModel
	// ReadOnly restricts the workload to Query statements, dropping
	// every Update/Insert/Delete before enumeration — useful for
	// exploring a read path's index needs independent of its write
	// amplification.
	ReadOnly bool
	// Executor bounds how much of the pipeline runs concurrently.
	Executor *concurrent.Executor
}

// Driver runs C7 against one schema and workload.
type Driver struct {
	Sch   *schema.Schema
	Stmts []*statement.Statement
	Cfg   Config
}

// New returns a Driver ready to Run.
func New(sch *schema.Schema, stmts []*statement.Statement, cfg Config) *Driver {
	if cfg.Executor == nil {
		cfg.Executor = concurrent.New(0)
	}
	return &Driver{Sch: sch, Stmts: stmts, Cfg: cfg}
}

// Run executes C4 through C6 and returns the assembled Result.
func (d *Driver) Run(ctx context.Context) (*result.Result, error) {
	stmts := d.Stmts
	if d.Cfg.ReadOnly {
		var reads []*statement.Statement
		for _, s := range stmts {
			if s.Kind == statement.Query {
				reads = append(reads, s)
			}
		}
		stmts = reads
	}

	candidates, err := enumerate.Candidates(ctx, d.Sch, stmts, d.Cfg.Executor)
	if err != nil {
		return nil, errors.Wrap(err, "enumerating candidate indexes")
	}
	obslog.Infof("search: %d candidate indexes enumerated from %d statements", len(candidates), len(stmts))

	table, err := plan.Build(ctx, d.Sch, stmts, candidates, d.Cfg.CostModel, d.Cfg.Executor)
	if err != nil {
		return nil, errors.Wrap(err, "costing plans")
	}

	solver, err := ilp.Lookup(d.Cfg.SolverName)
	if err != nil {
		return nil, err
	}

	problem := ilp.Build(d.Sch, stmts, candidates, table, d.Cfg.Budget, d.Cfg.Objective)

	var sol *ilp.Solution
	if d.Cfg.Refine != nil {
		sol, err = ilp.Refine(ctx, solver, d.Sch, stmts, candidates, table, problem, *d.Cfg.Refine)
	} else {
		sol, err = solver.Solve(ctx, problem)
	}
	if err != nil {
		if errors.Is(err, ilp.ErrInfeasible) {
			return nil, d.diagnoseInfeasible(ctx, solver, problem, err)
		}
		return nil, err
	}

	chosen := chosenIndexes(candidates, sol)
	plans := winningPlans(stmts, candidates, table, sol)

	return result.Build(d.Sch, objectiveName(d.Cfg.Objective), chosen, plans, len(candidates)), nil
}

func (d *Driver) diagnoseInfeasible(ctx context.Context, solver ilp.Solver, p *ilp.Problem, cause error) error {
	iis, iisErr := solver.ComputeIIS(ctx, p)
	if iisErr != nil || len(iis) == 0 {
		return errors.Wrap(ErrInfeasible, cause.Error())
	}
	obslog.Warningf("search: infeasible; irreducible infeasible set: %v", iis)
	return errors.Wrapf(ErrInfeasible, "irreducible infeasible set: %v", iis)
}

func chosenIndexes(candidates []*index.Index, sol *ilp.Solution) []*index.Index {
	var out []*index.Index
	for _, ix := range candidates {
		if sol.Value("x_" + ix.Key()) {
			out = append(out, ix)
		}
	}
	return out
}

func winningPlans(stmts []*statement.Statement, candidates []*index.Index, table *plan.Table, sol *ilp.Solution) map[string]plan.Plan {
	out := map[string]plan.Plan{}
	for _, s := range stmts {
		plans := table.PlansFor(s.ID)
		if s.Kind == statement.Query {
			for _, ix := range candidates {
				if sol.Value("y_" + s.ID + "_" + ix.Key()) {
					if p, ok := plans[ix.Key()]; ok {
						out[s.ID] = p
					}
				}
			}
			continue
		}
		// A mutation's realized plan is the union of its writes into
		// every chosen index it touches; report the cheapest one as
		// representative and let its per-step costs speak for the rest.
		var best plan.Plan
		haveBest := false
		for _, ix := range candidates {
			if !sol.Value("x_" + ix.Key()) {
				continue
			}
			p, ok := plans[ix.Key()]
			if !ok {
				continue
			}
			if !haveBest || p.Cost < best.Cost {
				best = p
				haveBest = true
			}
		}
		if haveBest {
			out[s.ID] = best
		}
	}
	return out
}

func objectiveName(k ilp.ObjectiveKind) string {
	switch k {
	case ilp.MinimizeSpace:
		return "space"
	case ilp.MinimizeIndexes:
		return "indexes"
	default:
		return "cost"
	}
}
