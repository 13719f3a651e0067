// Package result defines the advisor's output: the chosen index set,
// the plan selected for every statement, and the totals a caller
// checks against its budget. It is a plain serializable snapshot —
// none of its types reference schema.Schema or index.Index directly,
// so a Result survives a JSON or YAML round trip byte-for-byte.
package result

import (
	"encoding/json"

	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/plan"
	"github.com/kvschema/advisor/schema"
)

// FieldRef names one field by its human-readable schema coordinates
// rather than by handle, so a Result never depends on the Schema that
// produced it staying loaded.
type FieldRef struct {
	Entity string `json:"entity" yaml:"entity"`
	Field  string `json:"field" yaml:"field"`
	Via    string `json:"via,omitempty" yaml:"via,omitempty"`
}

// IndexSummary is the serializable form of index.Index.
type IndexSummary struct {
	Key       string     `json:"key" yaml:"key"`
	Hash      []FieldRef `json:"hash" yaml:"hash"`
	Order     []FieldRef `json:"order,omitempty" yaml:"order,omitempty"`
	Extra     []FieldRef `json:"extra,omitempty" yaml:"extra,omitempty"`
	SizeBytes float64    `json:"size_bytes" yaml:"size_bytes"`
}

// StepSummary is the serializable form of plan.Step.
type StepSummary struct {
	Kind     string     `json:"kind" yaml:"kind"`
	IndexKey string     `json:"index_key,omitempty" yaml:"index_key,omitempty"`
	Fields   []FieldRef `json:"fields,omitempty" yaml:"fields,omitempty"`
	Limit    int        `json:"limit,omitempty" yaml:"limit,omitempty"`
	Cost     float64    `json:"cost" yaml:"cost"`
}

// PlanSummary is the serializable form of plan.Plan.
type PlanSummary struct {
	Steps   []StepSummary `json:"steps" yaml:"steps"`
	Support *PlanSummary  `json:"support,omitempty" yaml:"support,omitempty"`
	Cost    float64       `json:"cost" yaml:"cost"`
}

// Result is the advisor's complete answer for one search run.
type Result struct {
	Objective       string                 `json:"objective" yaml:"objective"`
	ChosenIndexes   []IndexSummary         `json:"chosen_indexes" yaml:"chosen_indexes"`
	Plans           map[string]PlanSummary `json:"plans" yaml:"plans"`
	TotalCost       float64                `json:"total_cost" yaml:"total_cost"`
	TotalSize       float64                `json:"total_size" yaml:"total_size"`
	EnumerationSize int                    `json:"enumeration_size" yaml:"enumeration_size"`
}

func fieldRef(sch *schema.Schema, kf schema.KeyedField) FieldRef {
	f := sch.Field(kf.Field)
	ref := FieldRef{Entity: sch.Entity(f.Parent).Name, Field: f.Name}
	if rk := sch.Field(kf.ReachingKey); rk != nil && rk.Handle != f.Handle {
		ref.Via = rk.Name
	}
	return ref
}

func fieldRefs(sch *schema.Schema, fields []schema.KeyedField) []FieldRef {
	// An empty list is kept nil: the omitempty tags drop it on encode,
	// and it must decode back to the same nil value.
	if len(fields) == 0 {
		return nil
	}
	out := make([]FieldRef, len(fields))
	for i, kf := range fields {
		out[i] = fieldRef(sch, kf)
	}
	return out
}

func indexSummary(sch *schema.Schema, ix *index.Index) IndexSummary {
	return IndexSummary{
		Key:       ix.Key(),
		Hash:      fieldRefs(sch, ix.Hash),
		Order:     fieldRefs(sch, ix.Order),
		Extra:     fieldRefs(sch, ix.Extra),
		SizeBytes: ix.Size(sch),
	}
}

func stepSummary(sch *schema.Schema, st plan.Step) StepSummary {
	s := StepSummary{Kind: st.Kind.String(), Cost: st.Cost, Fields: fieldRefs(sch, st.Fields)}
	if st.Index != nil {
		s.IndexKey = st.Index.Key()
	}
	if st.Kind == plan.Limit {
		s.Limit = st.N
	}
	return s
}

func planSummary(sch *schema.Schema, p plan.Plan) PlanSummary {
	steps := make([]StepSummary, len(p.Steps))
	for i, st := range p.Steps {
		steps[i] = stepSummary(sch, st)
	}
	ps := PlanSummary{Steps: steps, Cost: p.Cost}
	if p.Support != nil {
		sup := planSummary(sch, *p.Support)
		ps.Support = &sup
	}
	return ps
}

// Build assembles a Result from a chosen index set and the winning
// plan for every statement, both already resolved by the search
// driver from the ILP solution.
func Build(sch *schema.Schema, objective string, chosen []*index.Index, plans map[string]plan.Plan, enumerationSize int) *Result {
	r := &Result{Objective: objective, EnumerationSize: enumerationSize, Plans: map[string]PlanSummary{}}
	for _, ix := range chosen {
		r.ChosenIndexes = append(r.ChosenIndexes, indexSummary(sch, ix))
		r.TotalSize += ix.Size(sch)
	}
	for id, p := range plans {
		r.Plans[id] = planSummary(sch, p)
		r.TotalCost += p.Cost
	}
	return r
}

// MarshalJSON and UnmarshalJSON use Result's default field encoding;
// declared explicitly so the type's serialization contract sits next
// to Render instead of being implicit.
func (r *Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal((*alias)(r))
}

func (r *Result) UnmarshalJSON(data []byte) error {
	type alias Result
	return json.Unmarshal(data, (*alias)(r))
}

// MarshalYAML returns r in the form gopkg.in/yaml.v2 encodes.
func (r *Result) MarshalYAML() (interface{}, error) {
	type alias Result
	return (*alias)(r), nil
}

// UnmarshalYAML decodes a YAML document into r.
func (r *Result) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type alias Result
	return unmarshal((*alias)(r))
}
