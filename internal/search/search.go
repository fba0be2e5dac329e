// Package search finds shortest hop-count paths over a lazily expanded
// article graph.
package search

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"wikirace-go-solver/internal/metrics"
	"wikirace-go-solver/internal/models"
)

// DefaultMaxExpansions bounds a search when Options leaves it unset.
const DefaultMaxExpansions = 50000

// Expander returns the outgoing neighbors of a node.
type Expander interface {
	Expand(ctx context.Context, id string) (models.Expansion, error)
}

// Options configures the engine.
type Options struct {
	MaxExpansions int          // nodes expanded at most (default: 50000)
	Workers       int          // concurrent expansions (default: 1)
	OnExpand      func(string) // called once per expanded node, may be nil
	Metrics       *metrics.Metrics
}

func (o *Options) applyDefaults() {
	if o.MaxExpansions <= 0 {
		o.MaxExpansions = DefaultMaxExpansions
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
}

// Result is the outcome of one search. Labels holds the first anchor text
// of every edge discovered on the way, keyed by edge; it is empty when the
// destination was not found.
type Result struct {
	Found      bool
	Path       []string
	Labels     map[models.Edge]models.Anchor
	Expansions int
}

// Hops is the number of edges on the path, or -1 when nothing was found.
func (r Result) Hops() int {
	if !r.Found {
		return -1
	}
	return len(r.Path) - 1
}

type Engine struct {
	expander Expander
	opts     Options
}

func New(e Expander, opts Options) *Engine {
	opts.applyDefaults()
	return &Engine{expander: e, opts: opts}
}

// ShortestPath runs a breadth-first search from src to dst. Among equally
// short paths it returns the first one discovered, which follows the
// neighbor order of each expansion. When the expansion budget runs out or
// the frontier empties, the result is not found and the error nil. A
// cancelled ctx yields a not-found result and ctx's error.
func (e *Engine) ShortestPath(ctx context.Context, src, dst string) (Result, error) {
	if src == dst {
		e.opts.Metrics.Search("found", 0)
		return Result{Found: true, Path: []string{src}, Labels: map[models.Edge]models.Anchor{}}, nil
	}

	var (
		res Result
		err error
	)
	if e.opts.Workers > 1 {
		res, err = e.levels(ctx, src, dst)
	} else {
		res, err = e.sequential(ctx, src, dst)
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e.opts.Metrics.Search("canceled", 0)
	case err != nil:
		e.opts.Metrics.Search("error", 0)
	case res.Found:
		e.opts.Metrics.Search("found", res.Hops())
	default:
		e.opts.Metrics.Search("not_found", 0)
	}
	return res, err
}

func (e *Engine) expanded(id string) {
	if e.opts.OnExpand != nil {
		e.opts.OnExpand(id)
	}
}

func (e *Engine) sequential(ctx context.Context, src, dst string) (Result, error) {
	fr := newFrontier(src, dst)
	queue := []string{src}
	expansions := 0

	for len(queue) > 0 && expansions < e.opts.MaxExpansions {
		if err := ctx.Err(); err != nil {
			return notFound(expansions), err
		}
		u := queue[0]
		queue = queue[1:]
		expansions++
		e.expanded(u)

		exp, err := e.expander.Expand(ctx, u)
		if err != nil {
			return notFound(expansions), err
		}
		next, found := fr.discover(u, exp)
		if found {
			return fr.result(expansions), nil
		}
		queue = append(queue, next...)
	}
	return notFound(expansions), nil
}

// levels expands one BFS level at a time with up to Workers concurrent
// expansions. Results are applied by this goroutine in queue order, so the
// outcome matches the sequential search.
func (e *Engine) levels(ctx context.Context, src, dst string) (Result, error) {
	fr := newFrontier(src, dst)
	level := []string{src}
	expansions := 0

	for len(level) > 0 && expansions < e.opts.MaxExpansions {
		if remaining := e.opts.MaxExpansions - expansions; len(level) > remaining {
			level = level[:remaining]
		}
		next, found, err := e.expandLevel(ctx, fr, level, &expansions)
		if err != nil {
			return notFound(expansions), err
		}
		if found {
			return fr.result(expansions), nil
		}
		level = next
	}
	return notFound(expansions), nil
}

type slot struct {
	exp  models.Expansion
	err  error
	done chan struct{}
}

func (e *Engine) expandLevel(ctx context.Context, fr *frontier, level []string, expansions *int) ([]string, bool, error) {
	lctx, cancel := context.WithCancel(ctx)

	slots := make([]slot, len(level))
	for i := range slots {
		slots[i].done = make(chan struct{})
	}

	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, u := range level {
			g.Go(func() error {
				defer close(slots[i].done)
				if err := lctx.Err(); err != nil {
					slots[i].err = err
					return nil
				}
				slots[i].exp, slots[i].err = e.expander.Expand(lctx, u)
				return nil
			})
		}
	}()
	// Workers still running when this returns are cancelled and awaited;
	// nothing they produce is read afterwards.
	defer func() {
		cancel()
		<-launched
		_ = g.Wait()
	}()

	var next []string
	for i, u := range level {
		select {
		case <-slots[i].done:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
		*expansions++
		e.expanded(u)

		if err := slots[i].err; err != nil {
			return nil, false, err
		}
		discovered, found := fr.discover(u, slots[i].exp)
		if found {
			return nil, true, nil
		}
		next = append(next, discovered...)
	}
	return next, false, nil
}

func notFound(expansions int) Result {
	return Result{Labels: map[models.Edge]models.Anchor{}, Expansions: expansions}
}
