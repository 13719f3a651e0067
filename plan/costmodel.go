package plan

import (
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/schema"
)

// CostModel prices the individual steps a Plan can be made of. It is a
// plugin contract: the search driver is parameterized by whichever
// CostModel the caller registers, never a hardcoded formula.
type CostModel interface {
	// IndexLookupCost prices reading one partition of ix: fetching
	// EntriesPerPartition(sch) rows.
	IndexLookupCost(sch *schema.Schema, ix *index.Index) float64

	// FilterCost prices scanning rows candidate rows to test fields
	// not already pinned by a hash lookup.
	FilterCost(sch *schema.Schema, rows float64, fields []schema.KeyedField) float64

	// SortCost prices an explicit in-memory Sort step over rows rows.
	SortCost(sch *schema.Schema, rows float64) float64

	// LimitCost prices truncating a result stream to n rows.
	LimitCost(sch *schema.Schema, n int) float64

	// UpdateCost prices propagating a write into ix: one lookup plus
	// one write of ix's materialized row.
	UpdateCost(sch *schema.Schema, ix *index.Index) float64
}
