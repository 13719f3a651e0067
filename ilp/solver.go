package ilp

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// Status is the outcome of a solve attempt.
type Status int

const (
	Optimal Status = iota
	Infeasible
)

// Solution is the outcome a Solver hands back: the value assigned to
// every declared variable and the achieved objective value.
type Solution struct {
	Status         Status
	Values         map[string]float64
	ObjectiveValue float64
}

// Value rounds a binary variable's solved value to a bool, tolerating
// the small numeric noise a real MIP solver's relaxation can leave
// behind (e.g. 0.999999998 instead of exactly 1).
func (s *Solution) Value(name string) bool {
	return s.Values[name] > 0.5
}

// Solver is the external collaborator contract C6 delegates the
// actual optimization to — a commercial or open-source MIP solver
// (Gurobi, CBC, HiGHS) wired in by name, or the reference solver/bnb
// implementation this module ships for environments without one.
type Solver interface {
	// Name identifies the solver for logging and registry lookups.
	Name() string
	// Solve returns the optimal Solution, or an error wrapping
	// ErrInfeasible if no assignment satisfies every constraint.
	Solve(ctx context.Context, p *Problem) (*Solution, error)
	// ComputeIIS returns the names of an irreducible infeasible
	// subset of constraints — a minimal set whose removal would make
	// an infeasible Problem solvable — to help diagnose why Space or
	// the workload's coverage requirement could not be met.
	ComputeIIS(ctx context.Context, p *Problem) ([]string, error)
}

var (
	mu       sync.Mutex
	registry = map[string]Solver{}
)

// Register makes a Solver available under name.
func Register(name string, s Solver) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[name]; ok {
		panic(errors.Newf("ilp: Register called twice for %q", name))
	}
	registry[name] = s
}

// Lookup returns the Solver registered under name.
func Lookup(name string) (Solver, error) {
	mu.Lock()
	defer mu.Unlock()
	s, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSolver, "%q", name)
	}
	return s, nil
}
