// Command advisor is a thin CLI wiring a workload file and a handful
// of search knobs to search.Driver. It is illustrative, not a
// complete configuration system: a production deployment is expected
// to drive search.Driver from its own config.Loader, registering the
// statement parser, cost model, and solver its environment actually
// has.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/kvschema/advisor/costmodel"
	"github.com/kvschema/advisor/ilp"
	_ "github.com/kvschema/advisor/solver/bnb"
	"github.com/kvschema/advisor/search"
	"github.com/kvschema/advisor/statement"
	"github.com/kvschema/advisor/workload"
	"github.com/spf13/cobra"
)

var (
	flagBudget     float64
	flagObjective  string
	flagCostModel  string
	flagSolver     string
	flagParser     string
	flagReadOnly   bool
	flagRefine     string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advisor [workload.yaml]",
		Short: "select materialized secondary indexes for a denormalized workload",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdvise,
	}
	cmd.Flags().Float64Var(&flagBudget, "budget", 0, "storage budget in bytes")
	cmd.Flags().StringVar(&flagObjective, "objective", "cost", "cost|space|indexes")
	cmd.Flags().StringVar(&flagRefine, "refine", "", "secondary objective to minimize once the primary is pinned: cost|space|indexes")
	cmd.Flags().StringVar(&flagCostModel, "cost-model", "default", "registered cost model name")
	cmd.Flags().StringVar(&flagSolver, "solver", "bnb", "registered ILP solver name")
	cmd.Flags().StringVar(&flagParser, "parser", "", "registered statement parser name")
	cmd.Flags().BoolVar(&flagReadOnly, "read-only", false, "drop Update/Insert/Delete statements before solving")
	return cmd
}

func runAdvise(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(err, "reading workload file")
	}

	parser, err := statement.LookupParser(flagParser)
	if err != nil {
		return errors.Wrap(err, "resolving statement parser (a deployment must register one with statement.RegisterParser)")
	}

	sch, stmts, err := workload.Load(raw, parser)
	if err != nil {
		return exitError{code: 3, err: err}
	}

	cm, err := costmodel.Lookup(flagCostModel)
	if err != nil {
		return exitError{code: 4, err: err}
	}
	if _, err := ilp.Lookup(flagSolver); err != nil {
		return exitError{code: 4, err: err}
	}

	objective, err := parseObjective(flagObjective)
	if err != nil {
		return errors.Wrap(err, "parsing --objective")
	}
	var refine *ilp.ObjectiveKind
	if flagRefine != "" {
		r, err := parseObjective(flagRefine)
		if err != nil {
			return errors.Wrap(err, "parsing --refine")
		}
		refine = &r
	}

	d := search.New(sch, stmts, search.Config{
		Budget:     flagBudget,
		Objective:  objective,
		Refine:     refine,
		SolverName: flagSolver,
		CostModel:  cm,
		ReadOnly:   flagReadOnly,
	})

	res, err := d.Run(context.Background())
	if err != nil {
		if errors.Is(err, search.ErrInfeasible) {
			return exitError{code: 2, err: err}
		}
		return err
	}

	fmt.Print(res.Render())
	return nil
}

func parseObjective(s string) (ilp.ObjectiveKind, error) {
	switch s {
	case "cost":
		return ilp.MinimizeCost, nil
	case "space":
		return ilp.MinimizeSpace, nil
	case "indexes":
		return ilp.MinimizeIndexes, nil
	default:
		return 0, errors.Newf("unknown objective %q", s)
	}
}

// exitError carries the exit code spec.md §6 assigns to each failure
// category through to main's os.Exit.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}
