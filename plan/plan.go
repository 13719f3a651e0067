// Package plan implements C5: for every statement, enumerating every
// execution plan expressible over a candidate index set and costing
// each step via a pluggable CostModel.
package plan

import (
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/schema"
)

// StepKind distinguishes the four read step kinds plus the two
// mutation step kinds appended to a support plan.
type StepKind int

const (
	IndexLookup StepKind = iota
	Filter
	Sort
	Limit
	InsertStep
	DeleteStep
)

func (k StepKind) String() string {
	switch k {
	case IndexLookup:
		return "index_lookup"
	case Filter:
		return "filter"
	case Sort:
		return "sort"
	case Limit:
		return "limit"
	case InsertStep:
		return "insert"
	case DeleteStep:
		return "delete"
	default:
		return "unknown"
	}
}

// Step is one operation of a Plan.
type Step struct {
	Kind   StepKind
	Index  *index.Index        // IndexLookup, InsertStep, DeleteStep
	Fields []schema.KeyedField // Filter, Sort
	Range  bool                // Filter: true if the last field is the range condition
	N      int                 // Limit
	Cost   float64
}

// Plan is an ordered sequence of steps that together answer one
// statement. Support holds the read sub-plan a mutation's steps
// depend on to fetch rows before propagating the write; it is nil for
// a pure read.
type Plan struct {
	Steps   []Step
	Support *Plan
	Cost    float64
}

// TerminalIndex returns the index materializing the plan's last
// IndexLookup step — the index the ILP references via y_{q,i}.
func (p *Plan) TerminalIndex() *index.Index {
	for i := len(p.Steps) - 1; i >= 0; i-- {
		if p.Steps[i].Kind == IndexLookup {
			return p.Steps[i].Index
		}
	}
	return nil
}

// Len returns the number of steps, used as the primary tie-break
// between equal-cost plans.
func (p *Plan) Len() int { return len(p.Steps) }
