package plan

import "github.com/kvschema/advisor/schema"

// State threads what a plan has resolved so far through its steps:
// which equality fields have been pinned, whether the range condition
// has been consumed, and the running row cardinality a cost function
// can scale against.
type State struct {
	EqResolved    map[schema.KeyedField]bool
	RangeResolved bool
	Cardinality   float64
}

// NewState returns an empty State with cardinality 1 (one partition,
// not yet expanded).
func NewState() *State {
	return &State{EqResolved: map[schema.KeyedField]bool{}, Cardinality: 1}
}

// Clone returns a deep copy, so speculative branches of plan
// enumeration never share mutable state.
func (s *State) Clone() *State {
	cp := &State{EqResolved: make(map[schema.KeyedField]bool, len(s.EqResolved)), RangeResolved: s.RangeResolved, Cardinality: s.Cardinality}
	for k, v := range s.EqResolved {
		cp.EqResolved[k] = v
	}
	return cp
}

// Resolve marks fields as pinned by an equality condition.
func (s *State) Resolve(fields ...schema.KeyedField) {
	for _, f := range fields {
		s.EqResolved[f] = true
	}
}
