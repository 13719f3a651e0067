package costmodel

import "github.com/cockroachdb/errors"

// ErrUnknownModel is returned by Lookup for a name no Register call
// has claimed.
var ErrUnknownModel = errors.New("costmodel: unknown cost model")
