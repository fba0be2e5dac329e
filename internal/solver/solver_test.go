package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"wikirace-go-solver/internal/article"
	"wikirace-go-solver/internal/cache"
	"wikirace-go-solver/internal/crawler"
	"wikirace-go-solver/internal/graph"
	"wikirace-go-solver/internal/models"
	"wikirace-go-solver/internal/parser"
	"wikirace-go-solver/internal/search"
)

// wiki serves a tiny encyclopedia. Each page lists (href, anchor) pairs.
func wiki(t *testing.T, pages map[string][][2]string, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		links, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		var b strings.Builder
		b.WriteString(`<html><body><div id="mw-content-text"><div class="mw-parser-output"><p>`)
		for _, l := range links {
			fmt.Fprintf(&b, `<a href="%s">%s</a> `, l[0], l[1])
		}
		b.WriteString(`</p><h2>See also</h2><ul><li><a href="/wiki/Only_Here">x</a></li></ul>`)
		b.WriteString(`<h2>References</h2><p><a href="/wiki/Target">shortcut in refs</a></p>`)
		b.WriteString(`</div></div></body></html>`)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(b.String()))
	}))
}

func newSolver(t *testing.T, base string, workers int) *Solver {
	t.Helper()
	c, err := cache.Open(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	f := crawler.NewFetcher(crawler.NewHTTPClient(5*time.Second, 2*time.Second, 1<<20, ""), crawler.Options{
		BaseURL: base,
		Cache:   c,
		Delay:   time.Millisecond,
	})
	x := graph.NewExpander(f, parser.New(), nil, nil)
	return New(search.New(x, search.Options{Workers: workers}), base)
}

var samplePages = map[string][][2]string{
	"/wiki/Start":     {{"/wiki/Broken", "broken link"}, {"/wiki/Middle", "the middle"}, {"/wiki/Middle", "middle again"}},
	"/wiki/Middle":    {{"/wiki/File:Pic.png", "pic"}, {"/wiki/Target#Section", "target section"}},
	"/wiki/Only_Here": {{"/wiki/Target", "t"}},
}

func TestSolveEndToEnd(t *testing.T) {
	for _, workers := range []int{1, 3} {
		var hits int32
		ts := wiki(t, samplePages, &hits)

		sol, err := newSolver(t, ts.URL, workers).Solve(context.Background(),
			ts.URL+"/wiki/Start", "/wiki/Target")
		ts.Close()
		if err != nil {
			t.Fatalf("solve: %v", err)
		}
		if !sol.Found || sol.Hops != 2 {
			t.Fatalf("want 2-hop solution, got %+v", sol)
		}
		want := []string{"/wiki/Start", "/wiki/Middle", "/wiki/Target"}
		for i, st := range sol.Steps {
			if st.NodeID != want[i] {
				t.Fatalf("step %d: want %s, got %s", i, want[i], st.NodeID)
			}
		}
		if sol.Steps[0].Via != "the middle" || sol.Steps[1].Via != "target section" {
			t.Fatalf("unexpected anchors %+v", sol.Steps)
		}
		if sol.Steps[2].ViaCaptured {
			t.Fatal("final step has no outgoing edge")
		}
		if sol.Steps[1].URL != ts.URL+"/wiki/Middle" || sol.Steps[1].Title != "Middle" {
			t.Fatalf("unexpected step %+v", sol.Steps[1])
		}
	}
}

func TestSolveUsesCacheAcrossRuns(t *testing.T) {
	var hits int32
	ts := wiki(t, samplePages, &hits)
	defer ts.Close()

	s := newSolver(t, ts.URL, 1)
	if _, err := s.Solve(context.Background(), "/wiki/Start", "/wiki/Target"); err != nil {
		t.Fatalf("solve: %v", err)
	}
	first := atomic.LoadInt32(&hits)
	if _, err := s.Solve(context.Background(), "/wiki/Start", "/wiki/Target"); err != nil {
		t.Fatalf("solve: %v", err)
	}
	// only the uncacheable 404 for Broken is requested again
	if again := atomic.LoadInt32(&hits) - first; again != 1 {
		t.Fatalf("want 1 repeated request, got %d", again)
	}
}

func TestSolveInvalidReference(t *testing.T) {
	s := New(search.New(deadEnds{}, search.Options{}), crawler.DefaultBaseURL)
	_, err := s.Solve(context.Background(), "https://en.wikipedia.org/w/index.php", "/wiki/X")
	if !errors.Is(err, article.ErrInvalidReference) {
		t.Fatalf("want ErrInvalidReference, got %v", err)
	}
	_, err = s.Solve(context.Background(), "/wiki/X", "Not a path")
	if !errors.Is(err, article.ErrInvalidReference) || !strings.HasPrefix(err.Error(), "destination") {
		t.Fatalf("want destination ErrInvalidReference, got %v", err)
	}
}

func TestSolveNotFound(t *testing.T) {
	var hits int32
	ts := wiki(t, samplePages, &hits)
	defer ts.Close()

	sol, err := newSolver(t, ts.URL, 1).Solve(context.Background(), "/wiki/Middle", "/wiki/Start")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sol.Found || sol.Hops != -1 || len(sol.Steps) != 0 {
		t.Fatalf("want not found, got %+v", sol)
	}
}

func TestRender(t *testing.T) {
	var hits int32
	ts := wiki(t, samplePages, &hits)
	defer ts.Close()

	sol, err := newSolver(t, ts.URL, 1).Solve(context.Background(), "/wiki/Start", "/wiki/Middle")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	sol.Steps = append(sol.Steps[:1:1], sol.Steps[1], sol.Steps[1])
	sol.Steps[1].Index, sol.Steps[2].Index = 1, 2
	sol.Hops = 2

	var buf bytes.Buffer
	if err := Render(&buf, sol); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Path length: 2 hops\n" +
		" 0. " + ts.URL + "/wiki/Start  [Start]\n" +
		"    Next via: “the middle”\n" +
		" 1. " + ts.URL + "/wiki/Middle  [Middle]\n" +
		"    Next via: (anchor text not captured)\n" +
		" 2. " + ts.URL + "/wiki/Middle  [Middle]\n"
	if buf.String() != want {
		t.Fatalf("render:\nwant %q\ngot  %q", want, buf.String())
	}

	buf.Reset()
	sol.Found = false
	if err := Render(&buf, sol); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No path found within limits.\n" {
		t.Fatalf("unexpected not-found output %q", buf.String())
	}
}

// deadEnds expands every node to nothing.
type deadEnds struct{}

func (deadEnds) Expand(context.Context, string) (models.Expansion, error) {
	return graph.Empty(), nil
}
