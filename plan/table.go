package plan

import (
	"context"
	"sync"

	"github.com/kvschema/advisor/concurrent"
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/schema"
	"github.com/kvschema/advisor/statement"
)

// Table is the per-(statement, index) cost matrix C6's ILP formulation
// reads from: for a query, the plan incurred if the chosen index set
// makes that index its terminal lookup; for a mutation, the plan
// incurred if the chosen index set includes that index at all.
type Table struct {
	byStatement map[string]map[string]Plan
}

// PlansFor returns the costed plans recorded for statement id, keyed
// by index Key.
func (t *Table) PlansFor(id string) map[string]Plan { return t.byStatement[id] }

// Build costs every statement against candidates: statement.Query
// statements are costed via PlansFor (one plan per possible terminal
// index), and Update/Insert/Delete statements are costed via
// MutationPlan against every index that statement actually touches.
// Per-statement work runs across exec's goroutine budget.
func Build(ctx context.Context, sch *schema.Schema, stmts []*statement.Statement, candidates []*index.Index, cm CostModel, exec *concurrent.Executor) (*Table, error) {
	results := make([]map[string]Plan, len(stmts))
	var mu sync.Mutex

	err := exec.ForEach(ctx, len(stmts), func(_ context.Context, i int) error {
		s := stmts[i]
		var plans map[string]Plan
		var err error
		if s.Kind == statement.Query {
			plans, err = PlansFor(sch, s, candidates, cm)
		} else {
			plans = map[string]Plan{}
			for _, ix := range candidates {
				if !s.ModifiesIndex(ix) {
					continue
				}
				p, mErr := MutationPlan(sch, s, ix, candidates, cm)
				if mErr != nil {
					continue
				}
				plans[ix.Key()] = *p
			}
			if len(plans) == 0 {
				err = ErrNoPlan
			}
		}
		if err != nil {
			return err
		}
		mu.Lock()
		results[i] = plans
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	byStatement := make(map[string]map[string]Plan, len(stmts))
	for i, s := range stmts {
		byStatement[s.ID] = results[i]
	}
	return &Table{byStatement: byStatement}, nil
}
