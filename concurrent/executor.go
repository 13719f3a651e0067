// Package concurrent supplies the Executor used in place of a global
// parallelism toggle: callers that want opportunistic data-parallelism
// (spec: candidate enumeration over statements, cost-matrix
// construction over queries) take an *Executor parameter instead of
// reaching for a package-level switch.
package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Executor bounds how many goroutines a fan-out may run at once. A
// nil *Executor is valid and means "unbounded", matching
// errgroup.Group's default behavior.
type Executor struct {
	limit int
}

// New returns an Executor capping concurrent work at limit goroutines.
// A non-positive limit means unbounded.
func New(limit int) *Executor {
	return &Executor{limit: limit}
}

// Sequential is an Executor that runs one item of work at a time, in
// index order; useful for deterministic tests.
func Sequential() *Executor { return &Executor{limit: 1} }

// ForEach runs fn(i) for i in [0, n) across e's goroutine budget and
// returns the first error encountered, cancelling ctx for the rest.
func (e *Executor) ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if e != nil && e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
