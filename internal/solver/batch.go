package solver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"wikirace-go-solver/internal/models"
)

// SolveAll solves every pair with at most concurrency searches in flight.
// Outcomes keep input order. Per-pair failures are reported in the outcome
// and never stop the batch.
func (s *Solver) SolveAll(ctx context.Context, pairs []models.Pair, concurrency int) []models.Outcome {
	if concurrency < 1 {
		concurrency = 1
	}
	out := make([]models.Outcome, len(pairs))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, p := range pairs {
		g.Go(func() error {
			sol, err := s.Solve(ctx, p.Source, p.Destination)
			if err != nil {
				out[i] = models.Outcome{Pair: p, Error: err.Error()}
				return nil
			}
			out[i] = models.Outcome{Pair: p, Solution: &sol}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
