package plan

import (
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/schema"
	"github.com/kvschema/advisor/statement"
)

// segment is one candidate index matched against the contiguous range
// of the statement's path it structurally covers.
type segment struct {
	start, end int
	ix         *index.Index
}

// matchSegments returns every (candidate, range) pairing where the
// candidate's own Path equals the statement path's elements over
// [start,end) — the structural test a join step relies on, since an
// Index's Path is always itself a sub-path of whatever statement
// produced it (see enumerate.enumerateSubPath).
func matchSegments(path *schema.KeyPath, candidates []*index.Index) []segment {
	var segs []segment
	for _, sr := range path.SubPaths() {
		for _, ix := range candidates {
			if ix.Path.Equal(sr.Path) {
				segs = append(segs, segment{start: sr.Start, end: sr.End, ix: ix})
			}
		}
	}
	return segs
}

// chainsFor enumerates every sequence of segments that together cover
// [0, path.Len()) contiguously, via DFS over positions reachable by
// each candidate segment's end.
func chainsFor(path *schema.KeyPath, segs []segment) [][]segment {
	n := path.Len()
	byStart := map[int][]segment{}
	for _, s := range segs {
		byStart[s.start] = append(byStart[s.start], s)
	}

	var out [][]segment
	var walk func(pos int, acc []segment)
	walk = func(pos int, acc []segment) {
		if pos == n {
			cp := append([]segment{}, acc...)
			out = append(out, cp)
			return
		}
		for _, s := range byStart[pos] {
			walk(s.end, append(acc, s))
		}
	}
	walk(0, nil)
	return out
}

func asSet(fields []schema.KeyedField) map[schema.KeyedField]bool {
	m := make(map[schema.KeyedField]bool, len(fields))
	for _, f := range fields {
		m[f] = true
	}
	return m
}

func subsetOf(small []schema.KeyedField, big map[schema.KeyedField]bool) bool {
	for _, f := range small {
		if !big[f] {
			return false
		}
	}
	return true
}

// validChain reports whether chain is a usable plan for s: the first
// segment's hash must be answerable from s's own equality conditions
// (or s has none at all, meaning a full scan of the first segment's
// partitions is the only option), and every field s ultimately needs
// — the remaining equality conditions, the range condition, the
// projection — must appear somewhere across the chain's materialized
// fields.
func validChain(s *statement.Statement, chain []segment) bool {
	if len(chain) == 0 {
		return false
	}
	eqSet := asSet(s.EqFields)
	if len(eqSet) > 0 && !subsetOf(chain[0].ix.Hash, eqSet) {
		return false
	}

	available := map[schema.KeyedField]bool{}
	for _, seg := range chain {
		for _, f := range seg.ix.AllFields() {
			available[f] = true
		}
	}
	for _, f := range s.EqFields {
		if !available[f] {
			return false
		}
	}
	if s.RangeField != nil && !available[*s.RangeField] {
		return false
	}
	last := chain[len(chain)-1].ix
	lastFields := asSet(last.AllFields())
	if !subsetOf(s.Select, lastFields) {
		return false
	}
	return true
}

// buildPlan turns a validated chain into a costed Plan: one IndexLookup
// step per segment, an optional Filter step for conditions the first
// index's hash key didn't already pin, an optional Sort step when the
// terminal index's order doesn't already order rows as s requires, and
// a Limit step when s bounds its result size.
func buildPlan(sch *schema.Schema, s *statement.Statement, chain []segment, cm CostModel) Plan {
	var p Plan
	var rows float64 = 1
	pinned := map[schema.KeyedField]bool{}

	for i, seg := range chain {
		ix := seg.ix
		if i == 0 {
			for _, f := range ix.Hash {
				pinned[f] = true
			}
		}
		rows = ix.EntriesPerPartition(sch)
		cost := cm.IndexLookupCost(sch, ix)
		p.Steps = append(p.Steps, Step{Kind: IndexLookup, Index: ix, Cost: cost})
		p.Cost += cost
	}

	var toFilter []schema.KeyedField
	for _, f := range s.EqFields {
		if !pinned[f] {
			toFilter = append(toFilter, f)
		}
	}
	if s.RangeField != nil {
		toFilter = append(toFilter, *s.RangeField)
	}
	if len(toFilter) > 0 {
		cost := cm.FilterCost(sch, rows, toFilter)
		p.Steps = append(p.Steps, Step{Kind: Filter, Fields: toFilter, Range: s.RangeField != nil, Cost: cost})
		p.Cost += cost
	}

	if len(s.OrderFields) > 0 && !orderSatisfiedBy(chain[len(chain)-1].ix, s.OrderFields) {
		cost := cm.SortCost(sch, rows)
		p.Steps = append(p.Steps, Step{Kind: Sort, Fields: s.OrderFields, Cost: cost})
		p.Cost += cost
	}

	if s.Limit != nil {
		cost := cm.LimitCost(sch, *s.Limit)
		p.Steps = append(p.Steps, Step{Kind: Limit, N: *s.Limit, Cost: cost})
		p.Cost += cost
	}

	return p
}

// orderSatisfiedBy reports whether ix's own Order is a prefix match
// for want, making an explicit Sort step unnecessary.
func orderSatisfiedBy(ix *index.Index, want []schema.KeyedField) bool {
	if len(ix.Order) < len(want) {
		return false
	}
	for i, f := range want {
		if ix.Order[i] != f {
			return false
		}
	}
	return true
}

// PlansFor enumerates every valid, costed Plan answering s from
// candidates, keyed by the Index each plan ultimately reads last (the
// index the ILP stage references as the query's chosen terminal
// lookup).
func PlansFor(sch *schema.Schema, s *statement.Statement, candidates []*index.Index, cm CostModel) (map[string]Plan, error) {
	segs := matchSegments(s.Path, candidates)
	chains := chainsFor(s.Path, segs)

	best := map[string]Plan{}
	for _, chain := range chains {
		if !validChain(s, chain) {
			continue
		}
		p := buildPlan(sch, s, chain, cm)
		term := p.TerminalIndex()
		if term == nil {
			continue
		}
		key := term.Key()
		if existing, ok := best[key]; !ok || betterPlan(p, existing) {
			best[key] = p
		}
	}
	if len(best) == 0 {
		return nil, ErrNoPlan
	}
	return best, nil
}

// betterPlan breaks cost ties by preferring fewer steps, then the
// lexicographically smaller terminal index key, so plan selection is
// deterministic across runs.
func betterPlan(a, b Plan) bool {
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	if a.Len() != b.Len() {
		return a.Len() < b.Len()
	}
	at, bt := a.TerminalIndex(), b.TerminalIndex()
	if at == nil || bt == nil {
		return false
	}
	return at.Key() < bt.Key()
}
