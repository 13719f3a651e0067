package workload

import "github.com/cockroachdb/errors"

// ErrInvalidDocument is returned for a workload document whose schema
// section uses a field-type token parseFieldType cannot decode. YAML
// decoding failures and schema.Builder errors are returned as they
// are, and mix entries naming undeclared statements are skipped.
var ErrInvalidDocument = errors.New("workload: invalid document")
