package graph

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"wikirace-go-solver/internal/crawler"
	"wikirace-go-solver/internal/models"
	"wikirace-go-solver/internal/parser"
)

// stubFetcher serves canned pages keyed by article ID.
type stubFetcher struct {
	pages map[string]string
	errs  map[string]error
}

func (s *stubFetcher) Fetch(ctx context.Context, id string) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return models.Document{}, err
	}
	if err, ok := s.errs[id]; ok {
		return models.Document{}, err
	}
	body, ok := s.pages[id]
	if !ok {
		return models.Document{}, &crawler.FetchError{URL: id, StatusCode: 404}
	}
	return models.Document{Body: []byte(body), URL: "https://en.wikipedia.org" + id}, nil
}

type failingExtractor struct{ err error }

func (f failingExtractor) ExtractLinks([]byte, string) (models.Expansion, error) {
	return models.Expansion{}, f.err
}

func page(links ...string) string {
	s := `<div id="mw-content-text"><div class="mw-parser-output"><p>`
	for _, l := range links {
		s += fmt.Sprintf(`<a href="%s">%s</a> `, l, l)
	}
	return s + `</p></div></div>`
}

func TestExpand(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"/wiki/A": page("/wiki/B", "/wiki/C", "/wiki/B")}}
	e := NewExpander(f, parser.New(), nil, nil)

	exp, err := e.Expand(context.Background(), "/wiki/A")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !reflect.DeepEqual(exp.Neighbors, []string{"/wiki/B", "/wiki/C"}) {
		t.Fatalf("unexpected neighbors %v", exp.Neighbors)
	}
	if len(exp.Labels["/wiki/B"]) != 2 {
		t.Fatalf("want 2 anchors for B, got %v", exp.Labels["/wiki/B"])
	}
}

func TestExpandFetchFailureIsDeadEnd(t *testing.T) {
	e := NewExpander(&stubFetcher{}, parser.New(), nil, nil)
	exp, err := e.Expand(context.Background(), "/wiki/Missing")
	if err != nil {
		t.Fatalf("want nil error, got %v", err)
	}
	if len(exp.Neighbors) != 0 || len(exp.Labels) != 0 {
		t.Fatalf("want empty expansion, got %+v", exp)
	}
}

func TestExpandMalformedIsDeadEnd(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{"/wiki/A": "x"}}
	e := NewExpander(f, failingExtractor{err: fmt.Errorf("wrap: %w", parser.ErrMalformedDocument)}, nil, nil)
	exp, err := e.Expand(context.Background(), "/wiki/A")
	if err != nil || len(exp.Neighbors) != 0 {
		t.Fatalf("want dead end, got %+v %v", exp, err)
	}
}

func TestExpandPropagatesUnexpectedErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	f := &stubFetcher{errs: map[string]error{"/wiki/A": boom}}
	e := NewExpander(f, parser.New(), nil, nil)
	if _, err := e.Expand(context.Background(), "/wiki/A"); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestExpandCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewExpander(&stubFetcher{}, parser.New(), nil, nil)
	if _, err := e.Expand(ctx, "/wiki/A"); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
