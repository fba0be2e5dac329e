// Package app builds the solver stack from configuration.
package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"wikirace-go-solver/internal/article"
	"wikirace-go-solver/internal/cache"
	"wikirace-go-solver/internal/config"
	"wikirace-go-solver/internal/crawler"
	"wikirace-go-solver/internal/graph"
	"wikirace-go-solver/internal/metrics"
	"wikirace-go-solver/internal/parser"
	"wikirace-go-solver/internal/search"
	"wikirace-go-solver/internal/solver"
	"wikirace-go-solver/pkg/logger"
)

type App struct {
	Solver  *solver.Solver
	Cache   *cache.Cache
	Metrics *metrics.Metrics
}

// New opens the cache and wires fetcher, extractor, expander, engine and
// solver. With verbose set every expansion is logged at info level.
func New(cfg *config.Config, l *logger.Logger, reg prometheus.Registerer, verbose bool) (*App, error) {
	c, err := cache.Open(cfg.CacheDir, cfg.MemoryEntries)
	if err != nil {
		return nil, err
	}
	m := metrics.New(reg)

	client := crawler.NewHTTPClient(cfg.Timeout.Duration, cfg.DialTimeout.Duration, cfg.MaxBodyBytes, cfg.UserAgent)
	fetcher := crawler.NewFetcher(client, crawler.Options{
		BaseURL: cfg.BaseURL,
		Cache:   c,
		Delay:   cfg.Delay.Duration,
		Metrics: m,
		Logger:  l.With("component", "fetcher"),
	})
	expander := graph.NewExpander(fetcher, parser.New(), m, l.With("component", "expander"))

	opts := search.Options{
		MaxExpansions: cfg.MaxExpansions,
		Workers:       cfg.Workers,
		Metrics:       m,
	}
	if verbose {
		base := cfg.BaseURL
		opts.OnExpand = func(id string) {
			u, err := article.URL(base, id)
			if err != nil {
				u = id
			}
			l.Infof("Processing: %s", u)
		}
	}

	return &App{
		Solver:  solver.New(search.New(expander, opts), cfg.BaseURL),
		Cache:   c,
		Metrics: m,
	}, nil
}
