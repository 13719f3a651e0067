package index

import "github.com/cockroachdb/errors"

// ErrOverlappingFields is returned when hash, order, and extra are not
// pairwise disjoint.
var ErrOverlappingFields = errors.New("index: hash, order, and extra fields must be pairwise disjoint")

// ErrEmptyHash is returned when no hash fields are given; every index
// needs a non-empty partition key.
var ErrEmptyHash = errors.New("index: hash fields must be non-empty")

// ErrFieldOffPath is returned when a field's parent entity does not
// lie on the index's path.
var ErrFieldOffPath = errors.New("index: field does not belong to an entity on the path")

// ErrNoTerminalIdentity is returned when no field of the path's last
// entity appears in hash or order, so the index cannot identify rows
// of that entity.
var ErrNoTerminalIdentity = errors.New("index: path's last entity contributes no field to hash or order")
