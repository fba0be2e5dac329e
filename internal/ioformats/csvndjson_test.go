package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"wikirace-go-solver/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReadPairsCSV(t *testing.T) {
	p := writeFile(t, "pairs.csv", "id,Source,Destination\n1,/wiki/A,/wiki/B\n2,,/wiki/C\n3,https://en.wikipedia.org/wiki/X,/wiki/Y\n")
	got, err := ReadPairs(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []models.Pair{{Source: "/wiki/A", Destination: "/wiki/B"}, {Source: "https://en.wikipedia.org/wiki/X", Destination: "/wiki/Y"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestReadPairsCSVMissingHeader(t *testing.T) {
	p := writeFile(t, "pairs.csv", "url\n/wiki/A\n")
	if _, err := ReadPairs(p); err == nil {
		t.Fatal("expected header error")
	}
}

func TestReadPairsNDJSON(t *testing.T) {
	p := writeFile(t, "pairs.ndjson", `{"source":"/wiki/A","destination":"/wiki/B"}

/wiki/C /wiki/D
`)
	got, err := ReadPairs(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []models.Pair{{Source: "/wiki/A", Destination: "/wiki/B"}, {Source: "/wiki/C", Destination: "/wiki/D"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestReadPairsNDJSONBadLine(t *testing.T) {
	p := writeFile(t, "pairs.jsonl", "/wiki/A\n")
	if _, err := ReadPairs(p); err == nil {
		t.Fatal("expected error for single-field line")
	}
}

func TestReadPairsUnknownExtFallsBack(t *testing.T) {
	p := writeFile(t, "pairs.txt", "/wiki/A /wiki/B\n")
	got, err := ReadPairs(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].Destination != "/wiki/B" {
		t.Fatalf("unexpected pairs %v", got)
	}
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, []models.Pair{{Source: "a", Destination: "b"}, {Source: "c", Destination: "d"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "{\"source\":\"a\",\"destination\":\"b\"}\n{\"source\":\"c\",\"destination\":\"d\"}\n"
	if buf.String() != want {
		t.Fatalf("want %q, got %q", want, buf.String())
	}
}
