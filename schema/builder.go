package schema

import "github.com/cockroachdb/errors"

// Builder accumulates entities and fields and resolves them into an
// immutable Schema. Unlike a reflection-driven struct-tag DSL,
// Builder validates every declaration explicitly at Build time; there
// is no per-field-type metaprogramming to reopen.
type Builder struct {
	entities []*entityBuild
	byName   map[string]int // entity name -> index into entities
	err      error
}

type entityBuild struct {
	name     string
	count    int64
	fields   []*fieldBuild
	byName   map[string]int
	identity int // index into fields, -1 if unset
}

type fieldBuild struct {
	name        string
	kind        FieldKind
	byteSize    int
	stringLen   int
	cardinality int64
	fkTarget    string
	fkArity     Arity
	fkReverse   string
}

// NewBuilder returns an empty schema builder.
func NewBuilder() *Builder {
	return &Builder{byName: map[string]int{}}
}

// EntityBuilder accumulates the fields of a single entity.
type EntityBuilder struct {
	b *Builder
	e *entityBuild
}

// AddEntity begins declaring a new entity with the given expected row
// count.
func (b *Builder) AddEntity(name string, count int64) *EntityBuilder {
	if _, ok := b.byName[name]; ok {
		b.err = errors.Wrapf(ErrDuplicateName, "entity %q", name)
	}
	e := &entityBuild{name: name, count: count, byName: map[string]int{}, identity: -1}
	b.byName[name] = len(b.entities)
	b.entities = append(b.entities, e)
	return &EntityBuilder{b: b, e: e}
}

func (eb *EntityBuilder) add(f *fieldBuild) *EntityBuilder {
	if _, ok := eb.e.byName[f.name]; ok {
		eb.b.err = errors.Wrapf(ErrDuplicateName, "field %q on entity %q", f.name, eb.e.name)
		return eb
	}
	eb.e.byName[f.name] = len(eb.e.fields)
	eb.e.fields = append(eb.e.fields, f)
	return eb
}

// Int declares an integer field.
func (eb *EntityBuilder) Int(name string) *EntityBuilder {
	return eb.add(&fieldBuild{name: name, kind: Int, byteSize: defaultSizes[Int]})
}

// Float declares a floating-point field.
func (eb *EntityBuilder) Float(name string) *EntityBuilder {
	return eb.add(&fieldBuild{name: name, kind: Float, byteSize: defaultSizes[Float]})
}

// String declares a fixed-estimate string field of the given length.
func (eb *EntityBuilder) String(name string, length int) *EntityBuilder {
	return eb.add(&fieldBuild{name: name, kind: String, byteSize: length, stringLen: length})
}

// Date declares a date/time field.
func (eb *EntityBuilder) Date(name string) *EntityBuilder {
	return eb.add(&fieldBuild{name: name, kind: Date, byteSize: defaultSizes[Date]})
}

// HashField declares an opaque content-hash field.
func (eb *EntityBuilder) HashField(name string) *EntityBuilder {
	return eb.add(&fieldBuild{name: name, kind: Hash, byteSize: defaultSizes[Hash]})
}

// IDKey declares the entity's identity field. Exactly one must be
// declared per entity.
func (eb *EntityBuilder) IDKey(name string) *EntityBuilder {
	eb.add(&fieldBuild{name: name, kind: IDKey, byteSize: defaultSizes[IDKey]})
	if eb.e.identity >= 0 {
		eb.b.err = errors.Wrapf(ErrMissingIdentity, "entity %q: second identity field %q", eb.e.name, name)
		return eb
	}
	eb.e.identity = len(eb.e.fields) - 1
	return eb
}

// ForeignKey declares a field referencing another entity. reverseField
// names the field on the target entity that forms the other half of
// this bidirectional edge; it must itself be declared as a
// ForeignKey pointing back, and is resolved atomically for both
// fields by Build, once every entity has been declared.
func (eb *EntityBuilder) ForeignKey(name, target string, arity Arity, reverseField string) *EntityBuilder {
	return eb.add(&fieldBuild{
		name:      name,
		kind:      ForeignKey,
		byteSize:  defaultSizes[ForeignKey],
		fkTarget:  target,
		fkArity:   arity,
		fkReverse: reverseField,
	})
}

// Cardinality overrides the default cardinality of the field most
// recently declared on this entity.
func (eb *EntityBuilder) Cardinality(n int64) *EntityBuilder {
	if len(eb.e.fields) > 0 {
		eb.e.fields[len(eb.e.fields)-1].cardinality = n
	}
	return eb
}

// Entity returns to the Builder so another entity can be declared.
func (eb *EntityBuilder) Entity() *Builder {
	return eb.b
}

// Build validates every declared entity and field, resolves foreign
// keys to their reverse fields, and returns the frozen Schema.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}

	sch := &Schema{byName: map[string]EntityHandle{}}

	// Pass 1: allocate entity and field handles.
	for ei, eb := range b.entities {
		ent := &Entity{
			Handle: EntityHandle(ei),
			Name:   eb.name,
			Count:  eb.count,
			byName: map[string]FieldHandle{},
		}
		sch.entities = append(sch.entities, ent)
		sch.byName[eb.name] = ent.Handle

		if eb.identity < 0 {
			return nil, errors.Wrapf(ErrMissingIdentity, "entity %q: no identity field", eb.name)
		}

		for _, fb := range eb.fields {
			fh := FieldHandle(len(sch.fields))
			f := &Field{
				Handle:      fh,
				Parent:      ent.Handle,
				Name:        fb.name,
				Kind:        fb.kind,
				ByteSize:    fb.byteSize,
				StringLen:   fb.stringLen,
				cardinality: fb.cardinality,
			}
			sch.fields = append(sch.fields, f)
			ent.fields = append(ent.fields, fh)
			ent.byName[fb.name] = fh
			if fb.kind == IDKey {
				ent.Identity = fh
			}
		}
	}

	// Pass 2: validate and resolve foreign keys. Both ends of each
	// edge are checked before either is committed, so a malformed
	// declaration never leaves a one-sided reverse link.
	type pending struct {
		field, reverse FieldHandle
	}
	var resolved []pending

	for ei, eb := range b.entities {
		ent := sch.entities[ei]
		for _, fb := range eb.fields {
			if fb.kind != ForeignKey {
				continue
			}
			fh := ent.byName[fb.name]
			f := sch.fields[fh]

			targetHandle, ok := sch.byName[fb.fkTarget]
			if !ok {
				return nil, errors.Wrapf(ErrUnresolvedForeignKey,
					"field %q on entity %q: unknown target entity %q", fb.name, eb.name, fb.fkTarget)
			}
			target := sch.entities[targetHandle]
			reverseHandle, ok := target.byName[fb.fkReverse]
			if !ok {
				return nil, errors.Wrapf(ErrUnresolvedForeignKey,
					"field %q on entity %q: target %q has no field %q", fb.name, eb.name, fb.fkTarget, fb.fkReverse)
			}
			reverse := sch.fields[reverseHandle]
			if reverse.Kind != ForeignKey || reverse.FK.Target != ent.Handle {
				return nil, errors.Wrapf(ErrUnresolvedForeignKey,
					"field %q on entity %q: reverse field %q on %q does not point back", fb.name, eb.name, fb.fkReverse, fb.fkTarget)
			}

			f.FK = ForeignKeySpec{Target: targetHandle, Arity: fb.fkArity}
			resolved = append(resolved, pending{field: fh, reverse: reverseHandle})
		}
	}
	for _, p := range resolved {
		sch.fields[p.field].FK.Reverse = p.reverse
	}

	return sch, nil
}
