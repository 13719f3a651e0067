package schema

import "github.com/cockroachdb/errors"

// ErrBrokenPath is returned when a KeyPath is constructed through a
// foreign key that does not exist, or does not originate on the
// entity currently being traversed.
var ErrBrokenPath = errors.New("schema: broken path")

// ErrDuplicateName is returned when two entities, or two fields of
// the same entity, share a name.
var ErrDuplicateName = errors.New("schema: duplicate name")

// ErrMissingIdentity is returned when an entity has no identity
// field, or more than one.
var ErrMissingIdentity = errors.New("schema: missing or duplicate identity field")

// ErrUnresolvedForeignKey is returned when a foreign key cannot be
// resolved to a valid, reciprocating reverse field on its target
// entity.
var ErrUnresolvedForeignKey = errors.New("schema: unresolved foreign key")
