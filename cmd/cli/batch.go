package main

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wikirace-go-solver/internal/ioformats"
)

func newBatchCmd(g *globals) *cobra.Command {
	var (
		in          string
		out         string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Solve pairs from a CSV or NDJSON file and write NDJSON outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in == "" {
				return errors.New("missing --input")
			}
			pairs, err := ioformats.ReadPairs(in)
			if err != nil {
				return err
			}
			a, l, err := g.load(cmd, false)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			l.Infof("solving %d pairs with concurrency %d", len(pairs), concurrency)
			outcomes := a.Solver.SolveAll(ctx, pairs, concurrency)

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return ioformats.WriteNDJSON(w, outcomes)
		},
	}
	cmd.Flags().StringVar(&in, "input", "", "input file (csv with source,destination columns or ndjson)")
	cmd.Flags().StringVar(&out, "output", "", "output NDJSON file (default stdout)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "pairs solved at once")
	return cmd
}
