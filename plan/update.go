package plan

import (
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/schema"
	"github.com/kvschema/advisor/statement"
)

// supportShape builds the synthetic read statement used to locate the
// rows a mutation must propagate into ix: same path and predicates as
// s, but projecting exactly the fields ix materializes, so PlansFor
// can be reused unchanged to find the cheapest way to fetch them.
func supportShape(s *statement.Statement, ix *index.Index) *statement.Statement {
	return statement.New(s.ID+"/support/"+ix.Key(), statement.Query, s.Path, s.EqFields, s.RangeField, nil, nil, ix.AllFields())
}

func cheapestPlan(plans map[string]Plan) Plan {
	var best Plan
	first := true
	for _, p := range plans {
		if first || betterPlan(p, best) {
			best = p
			first = false
		}
	}
	return best
}

// MutationPlan prices propagating s into ix. An Insert writes a brand
// new row, so it never needs a support read. An Update or Delete must
// first locate the row(s) ix already stores — via the cheapest read
// plan the same candidate set can offer — before writing or removing
// ix's copy.
func MutationPlan(sch *schema.Schema, s *statement.Statement, ix *index.Index, candidates []*index.Index, cm CostModel) (*Plan, error) {
	writeCost := cm.UpdateCost(sch, ix)

	if s.Kind == statement.Insert {
		return &Plan{
			Steps: []Step{{Kind: InsertStep, Index: ix, Cost: writeCost}},
			Cost:  writeCost,
		}, nil
	}

	shape := supportShape(s, ix)
	supportPlans, err := PlansFor(sch, shape, candidates, cm)
	if err != nil {
		return nil, err
	}
	support := cheapestPlan(supportPlans)

	kind := InsertStep
	if s.Kind == statement.Delete {
		kind = DeleteStep
	}
	return &Plan{
		Steps:   []Step{{Kind: kind, Index: ix, Cost: writeCost}},
		Support: &support,
		Cost:    support.Cost + writeCost,
	}, nil
}
