package ilp

import (
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/plan"
	"github.com/kvschema/advisor/schema"
	"github.com/kvschema/advisor/statement"
)

// Objective names which of the three pinned quantities C6 optimizes.
type ObjectiveKind int

const (
	MinimizeCost ObjectiveKind = iota
	MinimizeSpace
	MinimizeIndexes
)

func xVar(indexKey string) string { return "x_" + indexKey }
func yVar(stmtID, indexKey string) string { return "y_" + stmtID + "_" + indexKey }

// Build formulates C6's ILP over candidates and the workload costed in
// table: presence of every candidate index is an x_i binary variable;
// each Query statement additionally gets one y_{q,i} variable per
// index the plan table found a plan for, constrained to pick exactly
// one. budget bounds total materialized storage; objective selects
// which of Cost, Space, or Indexes the returned Problem minimizes.
func Build(sch *schema.Schema, stmts []*statement.Statement, candidates []*index.Index, table *plan.Table, budget float64, objective ObjectiveKind) *Problem {
	p := NewProblem()

	for _, ix := range candidates {
		p.AddBinaryVar(xVar(ix.Key()))
	}

	var costTerms []Term
	var spaceTerms []Term
	var indexTerms []Term
	for _, ix := range candidates {
		spaceTerms = append(spaceTerms, Term{Var: xVar(ix.Key()), Coef: ix.Size(sch)})
		indexTerms = append(indexTerms, Term{Var: xVar(ix.Key()), Coef: 1})
	}

	for _, s := range stmts {
		plans := table.PlansFor(s.ID)
		if s.Kind == statement.Query {
			var completeTerms []Term
			for key, pl := range plans {
				yv := yVar(s.ID, key)
				p.AddBinaryVar(yv)
				completeTerms = append(completeTerms, Term{Var: yv, Coef: 1})
				// IndexPresence: y_{q,i} <= x_i.
				p.AddConstraint("presence_"+yv, []Term{{Var: yv, Coef: 1}, {Var: xVar(key), Coef: -1}}, LE, 0)
				costTerms = append(costTerms, Term{Var: yv, Coef: pl.Cost})
			}
			// CompletePlan: exactly one terminal index answers q.
			p.AddConstraint("complete_"+s.ID, completeTerms, EQ, 1)
		} else {
			for key, pl := range plans {
				// A mutation's cost is incurred whenever its touched
				// index is chosen at all — no plan-selection variable
				// needed, the write is mandatory once x_i is set.
				costTerms = append(costTerms, Term{Var: xVar(key), Coef: pl.Cost})
			}
		}
	}

	p.AddConstraint("space_budget", spaceTerms, LE, budget)

	switch objective {
	case MinimizeSpace:
		p.SetObjective(spaceTerms, true)
	case MinimizeIndexes:
		p.SetObjective(indexTerms, true)
	default:
		p.SetObjective(costTerms, true)
	}
	return p
}

// ObjectiveValueTerms returns the linear terms of the named objective
// kind, independent of whichever kind Build pinned as primary — used
// by the two-stage refinement to price a secondary objective after
// the primary is pinned.
func ObjectiveValueTerms(sch *schema.Schema, stmts []*statement.Statement, candidates []*index.Index, table *plan.Table, kind ObjectiveKind) []Term {
	switch kind {
	case MinimizeSpace:
		var terms []Term
		for _, ix := range candidates {
			terms = append(terms, Term{Var: xVar(ix.Key()), Coef: ix.Size(sch)})
		}
		return terms
	case MinimizeIndexes:
		var terms []Term
		for _, ix := range candidates {
			terms = append(terms, Term{Var: xVar(ix.Key()), Coef: 1})
		}
		return terms
	default:
		var terms []Term
		for _, s := range stmts {
			plans := table.PlansFor(s.ID)
			if s.Kind == statement.Query {
				for key, pl := range plans {
					terms = append(terms, Term{Var: yVar(s.ID, key), Coef: pl.Cost})
				}
			} else {
				for key, pl := range plans {
					terms = append(terms, Term{Var: xVar(key), Coef: pl.Cost})
				}
			}
		}
		return terms
	}
}
