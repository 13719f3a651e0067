// Package index models the materialized-index descriptor: the unit
// the advisor chooses among. An Index names a partition (hash) key,
// an intra-partition ordering, and any extra stored fields, all drawn
// from entities along a single schema.KeyPath.
package index

import (
	"encoding/binary"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/kvschema/advisor/schema"
)

// Index is the materialized descriptor for one candidate physical
// index. It is immutable once New or Simple returns it.
type Index struct {
	Hash  []schema.KeyedField
	Order []schema.KeyedField
	Extra []schema.KeyedField
	Path  *schema.KeyPath

	key string
}

// keyNamespace anchors the deterministic UUIDv5-style key derivation;
// any fixed namespace works since only equality of the derived key
// matters, never its relationship to a "real" UUID.
var keyNamespace = uuid.MustParse("6f6e8f9a-8f0b-4b3e-9c1a-2f6b6f1a9c3e")

// New validates and constructs an Index. It enforces: hash is
// non-empty; hash, order, and extra are pairwise disjoint; every
// field's parent entity lies on path; and the path's last entity
// contributes at least one field to hash or order.
func New(sch *schema.Schema, hash, order, extra []schema.KeyedField, path *schema.KeyPath) (*Index, error) {
	if len(hash) == 0 {
		return nil, ErrEmptyHash
	}

	seen := map[schema.KeyedField]string{}
	for _, kf := range hash {
		seen[kf] = "hash"
	}
	for _, kf := range order {
		if g, ok := seen[kf]; ok {
			return nil, errors.Wrapf(ErrOverlappingFields, "field %d appears in both %s and order", kf.Field, g)
		}
		seen[kf] = "order"
	}
	for _, kf := range extra {
		if g, ok := seen[kf]; ok {
			return nil, errors.Wrapf(ErrOverlappingFields, "field %d appears in both %s and extra", kf.Field, g)
		}
		seen[kf] = "extra"
	}

	for kf := range seen {
		if _, ok := path.FindFieldParent(kf.Field); !ok {
			return nil, errors.Wrapf(ErrFieldOffPath, "field %d", kf.Field)
		}
	}

	last := path.Last()
	hasTerminal := false
	for _, kf := range append(append([]schema.KeyedField{}, hash...), order...) {
		if sch.Field(kf.Field).Parent == last {
			hasTerminal = true
			break
		}
	}
	if !hasTerminal {
		return nil, ErrNoTerminalIdentity
	}

	ix := &Index{Hash: hash, Order: order, Extra: extra, Path: path}
	ix.key = deriveKey(ix)
	return ix, nil
}

// Simple returns the trivial per-entity materialization: the entity's
// identity field as the hash key, no order, and every scalar field as
// extra. It always succeeds for a valid identity field.
func Simple(sch *schema.Schema, entity schema.EntityHandle) (*Index, error) {
	e := sch.Entity(entity)
	path, err := schema.NewKeyPath(sch, e.Identity)
	if err != nil {
		return nil, err
	}
	hash := []schema.KeyedField{{Field: e.Identity, ReachingKey: e.Identity}}
	var extra []schema.KeyedField
	for _, fh := range e.Fields() {
		if fh == e.Identity {
			continue
		}
		f := sch.Field(fh)
		if f.Kind == schema.ForeignKey {
			continue
		}
		extra = append(extra, schema.KeyedField{Field: fh, ReachingKey: e.Identity})
	}
	return New(sch, hash, nil, extra, path)
}

// AllFields returns hash ∪ order ∪ extra.
func (ix *Index) AllFields() []schema.KeyedField {
	out := make([]schema.KeyedField, 0, len(ix.Hash)+len(ix.Order)+len(ix.Extra))
	out = append(out, ix.Hash...)
	out = append(out, ix.Order...)
	out = append(out, ix.Extra...)
	return out
}

// Key returns the index's stable identifier: two indexes with equal
// (hash, order, extra, path) tuples always produce the same Key.
func (ix *Index) Key() string { return ix.key }

// Equal reports whether two indexes share the same (hash, order,
// extra, path) tuple.
func (ix *Index) Equal(o *Index) bool {
	return ix.Key() == o.Key()
}

func rowCount(sch *schema.Schema, path *schema.KeyPath) float64 {
	ents := path.Entities()
	elems := path.Elems()
	total := float64(sch.Entity(ents[0]).Count)
	if total < 1 {
		total = 1
	}
	for i := 1; i < len(ents); i++ {
		parentCount := float64(sch.Entity(ents[i-1]).Count)
		childCount := float64(sch.Entity(ents[i]).Count)
		if parentCount < 1 {
			parentCount = 1
		}
		ratio := childCount / parentCount
		f := sch.Field(elems[i].ReachingKey)
		if f.FK.Arity != schema.Many && ratio > 1 {
			ratio = 1
		}
		total *= ratio
	}
	if total < 1 {
		total = 1
	}
	return total
}

// EntriesPerPartition estimates the number of rows stored under a
// single partition key, used by the cost model to scale lookup and
// scan costs.
func (ix *Index) EntriesPerPartition(sch *schema.Schema) float64 {
	root := ix.Path.Entities()[0]
	rootCount := float64(sch.Entity(root).Count)
	if rootCount < 1 {
		rootCount = 1
	}
	return rowCount(sch, ix.Path) / rootCount
}

// Size estimates the index's materialized storage footprint in bytes:
// the sum of its fields' byte sizes, times the estimated number of
// materialized rows along its path.
func (ix *Index) Size(sch *schema.Schema) float64 {
	width := 0
	for _, kf := range ix.AllFields() {
		width += sch.Field(kf.Field).ByteSize
	}
	return float64(width) * rowCount(sch, ix.Path)
}

func deriveKey(ix *Index) string {
	var buf []byte
	buf = appendFields(buf, ix.Hash)
	buf = append(buf, 0xff)
	buf = appendFields(buf, ix.Order)
	buf = append(buf, 0xff)
	buf = appendFields(buf, sortedFields(ix.Extra))
	buf = append(buf, 0xff)
	for _, e := range ix.Path.Elems() {
		buf = binary.AppendUvarint(buf, uint64(e.Entity))
		buf = binary.AppendUvarint(buf, uint64(e.ReachingKey))
	}
	return uuid.NewSHA1(keyNamespace, buf).String()
}

func appendFields(buf []byte, fields []schema.KeyedField) []byte {
	for _, kf := range fields {
		buf = binary.AppendUvarint(buf, uint64(kf.Field))
		buf = binary.AppendUvarint(buf, uint64(kf.ReachingKey))
	}
	return buf
}

func sortedFields(fields []schema.KeyedField) []schema.KeyedField {
	out := append([]schema.KeyedField{}, fields...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Field != out[j].Field {
			return out[i].Field < out[j].Field
		}
		return out[i].ReachingKey < out[j].ReachingKey
	})
	return out
}
