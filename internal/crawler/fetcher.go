package crawler

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"wikirace-go-solver/internal/article"
	"wikirace-go-solver/internal/cache"
	"wikirace-go-solver/internal/metrics"
	"wikirace-go-solver/internal/models"
	"wikirace-go-solver/pkg/logger"
)

// DefaultBaseURL is the encyclopedia the solver crawls.
const DefaultBaseURL = "https://en.wikipedia.org"

// Options configures a Fetcher.
type Options struct {
	BaseURL string
	Cache   *cache.Cache // nil disables caching
	// Delay is the politeness interval between live requests. It is shared
	// by every caller of the Fetcher.
	Delay   time.Duration
	Metrics *metrics.Metrics
	Logger  *logger.Logger
}

func (o *Options) applyDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Delay <= 0 {
		o.Delay = 200 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
}

// Fetcher retrieves article documents, consulting the cache before the
// network. It is safe for concurrent use.
type Fetcher struct {
	client  *HTTPClient
	opts    Options
	limiter *rate.Limiter
}

func NewFetcher(client *HTTPClient, opts Options) *Fetcher {
	opts.applyDefaults()
	return &Fetcher{
		client:  client,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(opts.Delay), 1),
	}
}

// Fetch returns the document for an article ID. A cache hit does no network
// work. A miss waits for the shared limiter, issues a single request and
// stores the result. Failures are *FetchError; there are no retries.
func (f *Fetcher) Fetch(ctx context.Context, id string) (models.Document, error) {
	if f.opts.Cache != nil {
		doc, ok, err := f.opts.Cache.Get(id)
		if err != nil {
			f.opts.Logger.Warnf("cache read %s: %v", id, err)
		}
		if ok {
			f.opts.Metrics.Fetch("cache_hit")
			return doc, nil
		}
	}

	u, err := article.URL(f.opts.BaseURL, id)
	if err != nil {
		f.opts.Metrics.Fetch("error")
		return models.Document{}, &FetchError{URL: id, Err: err}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return models.Document{}, ctx.Err()
		}
		// the deadline falls before the next token
		return models.Document{}, &FetchError{URL: u, Err: err}
	}

	resp, err := f.client.Get(ctx, u)
	if err != nil {
		f.opts.Metrics.Fetch("error")
		return models.Document{}, err
	}
	f.opts.Metrics.Fetch("live")
	f.opts.Logger.Debugf("fetched %s in %s", u, resp.Elapsed)

	doc := models.Document{Body: resp.Body, URL: resp.FinalURL}
	if f.opts.Cache != nil {
		if err := f.opts.Cache.Put(id, doc); err != nil {
			f.opts.Logger.Warnf("cache write %s: %v", id, err)
		}
	}
	return doc, nil
}
