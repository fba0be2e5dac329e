// Package graph turns article pages into graph edges on demand: fetch a
// node, parse its links, hand back its neighbors.
package graph

import (
	"context"
	"errors"

	"wikirace-go-solver/internal/crawler"
	"wikirace-go-solver/internal/metrics"
	"wikirace-go-solver/internal/models"
	"wikirace-go-solver/internal/parser"
	"wikirace-go-solver/pkg/logger"
)

// DocumentFetcher abstracts the ability to fetch the page of an article ID.
type DocumentFetcher interface {
	Fetch(ctx context.Context, id string) (models.Document, error)
}

// LinkExtractor abstracts turning a page into outgoing links.
type LinkExtractor interface {
	ExtractLinks(body []byte, contentType string) (models.Expansion, error)
}

// Expander composes a fetcher and a link extractor.
type Expander struct {
	fetcher   DocumentFetcher
	extractor LinkExtractor
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewExpander(f DocumentFetcher, x LinkExtractor, m *metrics.Metrics, l *logger.Logger) *Expander {
	if l == nil {
		l = logger.Nop()
	}
	return &Expander{fetcher: f, extractor: x, metrics: m, logger: l}
}

// Expand returns the outgoing neighbors of id. Fetch failures and malformed
// pages turn the node into a dead end: an empty expansion and a nil error.
// Cancellation and any other error are returned to the caller.
func (e *Expander) Expand(ctx context.Context, id string) (models.Expansion, error) {
	doc, err := e.fetcher.Fetch(ctx, id)
	if err == nil {
		var exp models.Expansion
		// cached records carry no content type; pages are served as UTF-8
		exp, err = e.extractor.ExtractLinks(doc.Body, "text/html; charset=utf-8")
		if err == nil {
			e.metrics.Expansion("ok")
			return exp, nil
		}
	}

	if ctx.Err() != nil {
		return models.Expansion{}, ctx.Err()
	}

	var fe *crawler.FetchError
	if errors.As(err, &fe) || errors.Is(err, parser.ErrMalformedDocument) {
		e.metrics.Expansion("dead_end")
		e.logger.Debugf("dead end %s: %v", id, err)
		return Empty(), nil
	}
	return models.Expansion{}, err
}

// Empty is the expansion of a node with no usable links.
func Empty() models.Expansion {
	return models.Expansion{Neighbors: []string{}, Labels: map[string][]models.Anchor{}}
}
