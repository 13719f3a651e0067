// Package statement models parsed read and write statements over a
// schema.Schema: the unit of the workload the advisor must be able to
// answer with at least one execution plan. Turning statement text
// into a Statement is an external collaborator's job (see Parser);
// this package only defines the shape that collaborator produces.
package statement

import (
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/schema"
)

// Kind distinguishes the four statement variants.
type Kind int

const (
	Query Kind = iota
	Update
	Insert
	Delete
)

func (k Kind) String() string {
	switch k {
	case Query:
		return "query"
	case Update:
		return "update"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Statement is one parsed, immutable workload entry.
type Statement struct {
	ID   string
	Kind Kind
	Path *schema.KeyPath

	EqFields    []schema.KeyedField
	RangeField  *schema.KeyedField
	OrderFields []schema.KeyedField
	Limit       *int

	// Select holds the projection for a Query, or the set of fields
	// written for an Update/Insert.
	Select []schema.KeyedField

	mix    string
	weight float64
}

// New constructs a Statement. Frequency is resolved later by a
// workload document, via WithFrequency; a freshly-parsed Statement
// defaults to weight 1 in the implicit "default" mix.
func New(id string, kind Kind, path *schema.KeyPath, eq []schema.KeyedField, rng *schema.KeyedField, order []schema.KeyedField, limit *int, sel []schema.KeyedField) *Statement {
	return &Statement{
		ID:          id,
		Kind:        kind,
		Path:        path,
		EqFields:    eq,
		RangeField:  rng,
		OrderFields: order,
		Limit:       limit,
		Select:      sel,
		mix:         "default",
		weight:      1,
	}
}

// WithFrequency returns a copy of s assigned to the named mix with the
// given weight. Statements are immutable, so this never mutates s.
func (s *Statement) WithFrequency(mix string, weight float64) *Statement {
	cp := *s
	cp.mix = mix
	cp.weight = weight
	return &cp
}

// Frequency returns s's weight within the given mix. A statement only
// carries a single (mix, weight) pair — the one it was assigned via
// WithFrequency — so any other mix name resolves to zero.
func (s *Statement) Frequency(mix string) float64 {
	if s.mix == mix {
		return s.weight
	}
	return 0
}

// AllFields returns every field referenced by the statement in any
// role: equality conditions, the range condition, order-by, and the
// projection/write set.
func (s *Statement) AllFields() []schema.KeyedField {
	seen := map[schema.KeyedField]bool{}
	var out []schema.KeyedField
	add := func(kf schema.KeyedField) {
		if !seen[kf] {
			seen[kf] = true
			out = append(out, kf)
		}
	}
	for _, kf := range s.EqFields {
		add(kf)
	}
	if s.RangeField != nil {
		add(*s.RangeField)
	}
	for _, kf := range s.OrderFields {
		add(kf)
	}
	for _, kf := range s.Select {
		add(kf)
	}
	return out
}

// ModifiesIndex reports whether executing s would require writing to
// ix: s mutates a field materialized in ix. EqFields only locate the
// row and never by themselves count as a write.
func (s *Statement) ModifiesIndex(ix *index.Index) bool {
	if s.Kind == Query {
		return false
	}
	written := map[schema.FieldHandle]bool{}
	for _, kf := range s.Select {
		written[kf.Field] = true
	}
	for _, kf := range ix.AllFields() {
		if written[kf.Field] {
			return true
		}
	}
	if s.Kind == Update {
		for _, kf := range ix.Hash {
			if written[kf.Field] {
				return true
			}
		}
	}
	return false
}
