// Package enumerate implements C4: exhaustively generating the
// candidate materialized indexes (I*) implied by a workload. The
// result is guaranteed to contain every index any valid plan over the
// workload could use (spec.md §4.4, §8 invariant 2).
package enumerate

import (
	"context"
	"sync"

	"github.com/kvschema/advisor/concurrent"
	"github.com/kvschema/advisor/index"
	"github.com/kvschema/advisor/schema"
	"github.com/kvschema/advisor/statement"
)

type memoKey struct {
	stmtID     string
	start, end int
}

// Candidates builds I*, the finite candidate index pool, from sch and
// stmts. Per-statement enumeration runs across exec's goroutine
// budget; the only serial step is the final dedup by Index.Key.
func Candidates(ctx context.Context, sch *schema.Schema, stmts []*statement.Statement, exec *concurrent.Executor) ([]*index.Index, error) {
	perStatement := make([][]*index.Index, len(stmts))
	var memoMu sync.Mutex
	memo := map[memoKey][]*index.Index{}

	err := exec.ForEach(ctx, len(stmts), func(_ context.Context, i int) error {
		perStatement[i] = enumerateStatement(sch, stmts[i], &memoMu, memo)
		return nil
	})
	if err != nil {
		return nil, err
	}

	byKey := map[string]*index.Index{}
	var out []*index.Index
	for _, list := range perStatement {
		for _, ix := range list {
			if _, ok := byKey[ix.Key()]; ok {
				continue
			}
			byKey[ix.Key()] = ix
			out = append(out, ix)
		}
	}
	return out, nil
}

func enumerateStatement(sch *schema.Schema, s *statement.Statement, memoMu *sync.Mutex, memo map[memoKey][]*index.Index) []*index.Index {
	var all []*index.Index

	for _, sr := range s.Path.SubPaths() {
		key := memoKey{stmtID: s.ID, start: sr.Start, end: sr.End}
		memoMu.Lock()
		cached, ok := memo[key]
		memoMu.Unlock()
		if ok {
			all = append(all, cached...)
			continue
		}

		generated := enumerateSubPath(sch, s, sr)
		memoMu.Lock()
		memo[key] = generated
		memoMu.Unlock()
		all = append(all, generated...)
	}

	for _, eh := range s.Path.Entities() {
		if simple, err := index.Simple(sch, eh); err == nil {
			all = append(all, simple)
		}
	}

	return all
}

func enumerateSubPath(sch *schema.Schema, s *statement.Statement, sr schema.SubPathRange) []*index.Index {
	eqOnPath := restrictToPath(s.EqFields, sr.Path)
	orderOnPath := restrictToPath(s.OrderFields, sr.Path)
	allOnPath := restrictToPath(s.AllFields(), sr.Path)

	var rangeOnPath *schema.KeyedField
	if s.RangeField != nil {
		if r := restrictToPath([]schema.KeyedField{*s.RangeField}, sr.Path); len(r) == 1 {
			rangeOnPath = &r[0]
		}
	}

	firstEntity := sr.Path.Entities()[0]

	var out []*index.Index
	for _, hash := range nonEmptySubsets(eqOnPath) {
		if !anyFromEntity(sch, hash, firstEntity) {
			continue
		}
		remainingEq := subtract(eqOnPath, hash)

		for _, eqPerm := range permutations(remainingEq) {
			order := append([]schema.KeyedField{}, eqPerm...)
			order = append(order, orderOnPath...)
			if rangeOnPath != nil && !contains(order, *rangeOnPath) {
				order = append(order, *rangeOnPath)
			}
			// The index's terminal entity needs a unique sort key:
			// if its own identity isn't already pinned by the hash
			// key, append it to the order so rows with equal order
			// fields don't collide.
			if idKF, ok := terminalIdentity(sch, sr.Path); ok && !contains(hash, idKF) && !contains(order, idKF) {
				order = append(order, idKF)
			}

			extra := subtract(allOnPath, hash)
			extra = subtract(extra, order)

			if ix, err := index.New(sch, hash, order, extra, sr.Path); err == nil {
				out = append(out, ix)
			}
		}
	}
	return out
}

func terminalIdentity(sch *schema.Schema, path *schema.KeyPath) (schema.KeyedField, bool) {
	elems := path.Elems()
	last := elems[len(elems)-1]
	idHandle := sch.Entity(last.Entity).Identity
	return schema.KeyedField{Field: idHandle, ReachingKey: last.ReachingKey}, true
}

func anyFromEntity(sch *schema.Schema, fields []schema.KeyedField, entity schema.EntityHandle) bool {
	for _, kf := range fields {
		if sch.Field(kf.Field).Parent == entity {
			return true
		}
	}
	return false
}
