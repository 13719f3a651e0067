package ilp

import "github.com/cockroachdb/errors"

// ErrUnknownSolver is returned by Lookup for a name no Register call
// has claimed.
var ErrUnknownSolver = errors.New("ilp: unknown solver")

// ErrInfeasible is returned by a Solver when no assignment satisfies
// every constraint — most commonly because Space is too small to hold
// even the indexes IndexPresence and CompletePlan force into the
// solution.
var ErrInfeasible = errors.New("ilp: problem is infeasible")

// ErrUnavailable is returned by a Solver that cannot run in the
// current environment (e.g. a commercial solver missing its license
// or binary).
var ErrUnavailable = errors.New("ilp: solver unavailable")
