package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"wikirace-go-solver/internal/config"
	"wikirace-go-solver/pkg/logger"
)

func TestNewWiresStack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `<div id="mw-content-text"><p></p></div>`
		if r.URL.Path == "/wiki/A" {
			body = `<div id="mw-content-text"><p><a href="/wiki/B">bee</a></p></div>`
		}
		_, _ = w.Write([]byte(body))
	}))
	defer ts.Close()

	cfg := config.Default()
	cfg.BaseURL = ts.URL
	cfg.CacheDir = t.TempDir()
	cfg.Delay = config.Duration{Duration: time.Millisecond}

	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	a, err := New(cfg, logger.NewWithOptions(logger.Options{Writer: &buf}), reg, true)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	sol, err := a.Solver.Solve(context.Background(), "/wiki/A", "/wiki/B")
	if err != nil || !sol.Found || sol.Steps[0].Via != "bee" {
		t.Fatalf("unexpected solution %+v %v", sol, err)
	}
	if !strings.Contains(buf.String(), "Processing: "+ts.URL+"/wiki/A") {
		t.Fatalf("want verbose progress, got %q", buf.String())
	}
	if got := testutil.ToFloat64(a.Metrics.Fetches.WithLabelValues("live")); got != 1 {
		t.Fatalf("want 1 live fetch, got %v", got)
	}
}
