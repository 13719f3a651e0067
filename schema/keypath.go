package schema

import "github.com/cockroachdb/errors"

// KeyPathElem is one hop of a KeyPath: the entity arrived at, and the
// key (an identity field for the first hop, a foreign key field for
// every later hop) by which it was reached.
type KeyPathElem struct {
	Entity      EntityHandle
	ReachingKey FieldHandle
}

// KeyPath is a non-empty, canonical, value-comparable traversal
// through the schema graph: it starts at an identity key and follows
// zero or more foreign keys, each traversable from the entity that
// precedes it.
type KeyPath struct {
	sch   *Schema
	elems []KeyPathElem
}

// NewKeyPath builds a KeyPath starting at the entity owning idKey and
// following fks in order. idKey must be an identity field; each fk
// must be a ForeignKey field declared on the entity reached by the
// previous hop. A broken traversal returns ErrBrokenPath.
func NewKeyPath(sch *Schema, idKey FieldHandle, fks ...FieldHandle) (*KeyPath, error) {
	start := sch.Field(idKey)
	if start == nil || start.Kind != IDKey {
		return nil, errors.Wrapf(ErrBrokenPath, "field %d is not an identity key", idKey)
	}
	elems := []KeyPathElem{{Entity: start.Parent, ReachingKey: idKey}}
	cur := start.Parent
	for _, fk := range fks {
		f := sch.Field(fk)
		if f == nil || f.Kind != ForeignKey {
			return nil, errors.Wrapf(ErrBrokenPath, "field %d is not a foreign key", fk)
		}
		if f.Parent != cur {
			return nil, errors.Wrapf(ErrBrokenPath,
				"foreign key %q does not originate on entity %q", f.Name, sch.Entity(cur).Name)
		}
		cur = f.FK.Target
		elems = append(elems, KeyPathElem{Entity: cur, ReachingKey: fk})
	}
	return &KeyPath{sch: sch, elems: elems}, nil
}

func newRawKeyPath(sch *Schema, elems []KeyPathElem) *KeyPath {
	cp := make([]KeyPathElem, len(elems))
	copy(cp, elems)
	return &KeyPath{sch: sch, elems: cp}
}

// Len returns the number of hops in the path.
func (p *KeyPath) Len() int { return len(p.elems) }

// Elems returns the path's hops in order.
func (p *KeyPath) Elems() []KeyPathElem {
	out := make([]KeyPathElem, len(p.elems))
	copy(out, p.elems)
	return out
}

// Entities returns the entity visited at each position along the
// path.
func (p *KeyPath) Entities() []EntityHandle {
	out := make([]EntityHandle, len(p.elems))
	for i, e := range p.elems {
		out[i] = e.Entity
	}
	return out
}

// Last returns the entity at the final position of the path.
func (p *KeyPath) Last() EntityHandle {
	return p.elems[len(p.elems)-1].Entity
}

// FindFieldParent returns the path position whose entity owns f, or
// false if f's parent entity does not appear on the path.
func (p *KeyPath) FindFieldParent(f FieldHandle) (int, bool) {
	parent := p.sch.Field(f).Parent
	for i, e := range p.elems {
		if e.Entity == parent {
			return i, true
		}
	}
	return 0, false
}

// SubPathRange names a contiguous, non-empty range [Start, End) of a
// KeyPath's positions, and the KeyPath formed by that range.
type SubPathRange struct {
	Start, End int
	Path       *KeyPath
}

// SubPaths enumerates every contiguous, non-empty sub-path of p,
// including p itself.
func (p *KeyPath) SubPaths() []SubPathRange {
	var out []SubPathRange
	n := len(p.elems)
	for start := 0; start < n; start++ {
		for end := start + 1; end <= n; end++ {
			out = append(out, SubPathRange{Start: start, End: end, Path: newRawKeyPath(p.sch, p.elems[start:end])})
		}
	}
	return out
}

// Equal reports whether two KeyPaths visit the same sequence of
// entities by the same sequence of reaching keys. KeyPaths are
// canonical, so this is the only equality test ever needed.
func (p *KeyPath) Equal(o *KeyPath) bool {
	if o == nil || len(p.elems) != len(o.elems) {
		return false
	}
	for i := range p.elems {
		if p.elems[i] != o.elems[i] {
			return false
		}
	}
	return true
}

// Reversed returns the path traversed in the opposite direction, by
// following each hop's reverse foreign key backward. It is only
// meaningful when every non-terminal hop's reaching key has a
// resolved Reverse; the terminal entity's own identity field anchors
// the reversed path in its place.
func (p *KeyPath) Reversed() *KeyPath {
	n := len(p.elems)
	out := make([]KeyPathElem, n)
	for i := 0; i < n; i++ {
		srcIdx := n - 1 - i
		out[i].Entity = p.elems[srcIdx].Entity
		if i == 0 {
			out[i].ReachingKey = p.sch.Entity(p.elems[srcIdx].Entity).Identity
			continue
		}
		fwd := p.sch.Field(p.elems[n-i].ReachingKey)
		out[i].ReachingKey = fwd.FK.Reverse
	}
	return newRawKeyPath(p.sch, out)
}
