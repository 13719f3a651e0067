package plan

import "github.com/cockroachdb/errors"

// ErrNoPlan is returned when no chain of candidate indexes covers a
// statement's full path — the candidate set passed in is incomplete.
var ErrNoPlan = errors.New("plan: no candidate index chain covers the statement")
