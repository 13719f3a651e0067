package search

import "github.com/cockroachdb/errors"

// ErrInfeasible is returned when no index selection satisfies the
// workload within the given storage budget. Its wrapped IIS lists a
// minimal set of statements/constraints responsible, from the
// solver's deletion-filter diagnosis.
var ErrInfeasible = errors.New("search: no index selection fits the storage budget")
