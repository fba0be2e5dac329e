// Package metrics holds the Prometheus collectors shared by the fetcher,
// the expander and the search engine. A nil *Metrics is valid and records
// nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Fetches     *prometheus.CounterVec // result: live, cache_hit, error
	Expansions  *prometheus.CounterVec // result: ok, dead_end
	Searches    *prometheus.CounterVec // result: found, not_found, canceled, error
	PathLengths prometheus.Histogram
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikirace",
			Name:      "fetches_total",
			Help:      "Article fetches by outcome.",
		}, []string{"result"}),
		Expansions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikirace",
			Name:      "expansions_total",
			Help:      "Node expansions by outcome.",
		}, []string{"result"}),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikirace",
			Name:      "searches_total",
			Help:      "Shortest-path searches by outcome.",
		}, []string{"result"}),
		PathLengths: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wikirace",
			Name:      "path_hops",
			Help:      "Hop count of found paths.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Fetches, m.Expansions, m.Searches, m.PathLengths)
	}
	return m
}

func (m *Metrics) Fetch(result string) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(result).Inc()
}

func (m *Metrics) Expansion(result string) {
	if m == nil {
		return
	}
	m.Expansions.WithLabelValues(result).Inc()
}

func (m *Metrics) Search(result string, hops int) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(result).Inc()
	if result == "found" {
		m.PathLengths.Observe(float64(hops))
	}
}
