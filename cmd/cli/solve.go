package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wikirace-go-solver/internal/solver"
)

func newSolveCmd(g *globals) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "solve <source> <destination>",
		Short: "Solve one pair and print the path",
		Example: `  wikirace solve https://en.wikipedia.org/wiki/Alan_Turing /wiki/Enigma_machine
  wikirace solve -v "/wiki/Go (programming language)" /wiki/Google`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, l, err := g.load(cmd, verbose)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sol, err := a.Solver.Solve(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			l.Debugf("search finished after %d expansions", sol.Expansions)
			return solver.Render(cmd.OutOrStdout(), sol)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every page as it is expanded")
	return cmd
}
