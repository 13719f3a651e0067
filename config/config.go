// Package config names the external configuration-loading contract:
// resolving a run's cost model name, solver name, storage budget, and
// objective from whatever format a deployment prefers (flags, a file,
// environment variables). This module only depends on the resolved
// values; how they're sourced is an external collaborator's concern.
package config

import "github.com/kvschema/advisor/ilp"

// Run is the resolved configuration for one search.Driver invocation.
type Run struct {
	WorkloadPath string
	CostModel    string
	Solver       string
	Budget       float64
	Objective    ilp.ObjectiveKind
	ReadOnly     bool
}

// Loader resolves a Run from whatever a deployment's configuration
// surface looks like.
type Loader interface {
	Load() (Run, error)
}
