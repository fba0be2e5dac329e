// Package solver wires reference normalization, the search engine and
// result rendering into the solve operation used by the CLI and server.
package solver

import (
	"context"
	"fmt"
	"io"

	"wikirace-go-solver/internal/article"
	"wikirace-go-solver/internal/models"
	"wikirace-go-solver/internal/search"
)

// PathFinder is satisfied by *search.Engine.
type PathFinder interface {
	ShortestPath(ctx context.Context, src, dst string) (search.Result, error)
}

type Solver struct {
	finder  PathFinder
	baseURL string
}

func New(finder PathFinder, baseURL string) *Solver {
	return &Solver{finder: finder, baseURL: baseURL}
}

// Solve normalizes both references and searches between them. A reference
// that is not an article fails with an error wrapping
// article.ErrInvalidReference before any search starts.
func (s *Solver) Solve(ctx context.Context, srcRef, dstRef string) (models.Solution, error) {
	src, err := article.Normalize(srcRef)
	if err != nil {
		return models.Solution{}, fmt.Errorf("source: %w", err)
	}
	dst, err := article.Normalize(dstRef)
	if err != nil {
		return models.Solution{}, fmt.Errorf("destination: %w", err)
	}

	res, err := s.finder.ShortestPath(ctx, src, dst)
	sol := models.Solution{Source: src, Destination: dst, Expansions: res.Expansions, Hops: -1}
	if err != nil {
		return sol, err
	}
	if !res.Found {
		return sol, nil
	}

	sol.Found = true
	sol.Hops = len(res.Path) - 1
	for i, id := range res.Path {
		u, err := article.URL(s.baseURL, id)
		if err != nil {
			return sol, err
		}
		step := models.Step{Index: i, NodeID: id, URL: u, Title: article.Title(id)}
		if i < len(res.Path)-1 {
			if a, ok := res.Labels[models.Edge{From: id, To: res.Path[i+1]}]; ok && a.Text != "" {
				step.Via = a.Text
				step.ViaCaptured = true
			}
		}
		sol.Steps = append(sol.Steps, step)
	}
	return sol, nil
}

// Render writes a solution in the human-readable path format.
func Render(w io.Writer, sol models.Solution) error {
	if !sol.Found {
		_, err := fmt.Fprintln(w, "No path found within limits.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Path length: %d hops\n", sol.Hops); err != nil {
		return err
	}
	for i, st := range sol.Steps {
		if _, err := fmt.Fprintf(w, "%2d. %s  [%s]\n", st.Index, st.URL, st.Title); err != nil {
			return err
		}
		if i == len(sol.Steps)-1 {
			break
		}
		var err error
		if st.ViaCaptured {
			_, err = fmt.Fprintf(w, "    Next via: “%s”\n", st.Via)
		} else {
			_, err = fmt.Fprintln(w, "    Next via: (anchor text not captured)")
		}
		if err != nil {
			return err
		}
	}
	return nil
}
