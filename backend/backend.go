// Package backend names the consumer-side contract for a search
// result: translating chosen indexes into backend DDL and plan steps
// into backend calls. No concrete backend is implemented here — a
// deployment wires in the store it actually targets.
package backend

import (
	"context"

	"github.com/kvschema/advisor/result"
)

// Plugin applies a Result against a concrete backend.
type Plugin interface {
	// Name identifies the backend for logging and registry lookups.
	Name() string
	// Apply materializes every chosen index as backend DDL and wires
	// each statement's plan into whatever the backend needs to
	// execute it (prepared statements, routing rules, etc).
	Apply(ctx context.Context, r *result.Result) error
}
