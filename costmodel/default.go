package costmodel

import (
	"math"

	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/schema"
)

// Default is a straightforward, physically-motivated cost model:
// lookups scale with the rows a partition holds, filters and sorts
// scale with the rows they scan, a limit costs the rows it keeps, and
// an update costs one lookup plus one write of the row it touches.
//
// Weights are relative, not calibrated against any real store; a
// production deployment is expected to register its own CostModel
// once it has measured its own backend.
type Default struct {
	// SeekCost is the fixed per-lookup overhead charged regardless of
	// how many rows the partition holds (index seek + one round trip).
	SeekCost float64
	// WriteAmplification scales the cost of propagating one written
	// row into an index (serialization, replication, etc).
	WriteAmplification float64
}

// NewDefault returns a Default cost model with the package's baseline
// weights.
func NewDefault() Default {
	return Default{SeekCost: 1, WriteAmplification: 2}
}

func (d Default) seekCost() float64 {
	if d.SeekCost == 0 {
		return 1
	}
	return d.SeekCost
}

func (d Default) writeAmp() float64 {
	if d.WriteAmplification == 0 {
		return 1
	}
	return d.WriteAmplification
}

// IndexLookupCost prices reading one partition's worth of rows.
func (d Default) IndexLookupCost(sch *schema.Schema, ix *index.Index) float64 {
	return d.seekCost() + ix.EntriesPerPartition(sch)
}

// FilterCost prices testing every candidate row against the fields not
// already pinned by a hash lookup.
func (d Default) FilterCost(sch *schema.Schema, rows float64, fields []schema.KeyedField) float64 {
	if len(fields) == 0 {
		return 0
	}
	return rows * float64(len(fields))
}

// SortCost prices an explicit comparison sort over rows rows.
func (d Default) SortCost(sch *schema.Schema, rows float64) float64 {
	if rows <= 1 {
		return rows
	}
	return rows * math.Log2(rows)
}

// LimitCost prices truncating a stream to n rows: the cost of
// materializing the n rows actually returned.
func (d Default) LimitCost(sch *schema.Schema, n int) float64 {
	return float64(n)
}

// UpdateCost prices one lookup of ix's current row plus writing its
// new value back.
func (d Default) UpdateCost(sch *schema.Schema, ix *index.Index) float64 {
	return d.IndexLookupCost(sch, ix) + d.writeAmp()
}
