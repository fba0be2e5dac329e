
package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"wikirace-go-solver/internal/models"
)

// ReadPairs reads source/destination pairs from a CSV (expects "source" and
// "destination" header columns) or NDJSON file. If ext cannot be determined,
// tries CSV first then NDJSON.
func ReadPairs(path string) ([]models.Pair, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path)
	case ".ndjson", ".jsonl":
		return readNDJSON(path)
	default:
		// try csv then ndjson
		if pairs, err := readCSV(path); err == nil && len(pairs) > 0 {
			return pairs, nil
		}
		return readNDJSON(path)
	}
}

func readCSV(path string) ([]models.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	src, dst := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "source", "src":
			src = i
		case "destination", "dst":
			dst = i
		}
	}
	if src == -1 || dst == -1 {
		return nil, errors.New("csv must contain 'source' and 'destination' header columns")
	}
	var out []models.Pair
	for _, row := range rows[1:] {
		if src >= len(row) || dst >= len(row) {
			continue
		}
		p := models.Pair{Source: strings.TrimSpace(row[src]), Destination: strings.TrimSpace(row[dst])}
		if p.Source != "" && p.Destination != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func readNDJSON(path string) ([]models.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []models.Pair
	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		// allow {"source": "...", "destination": "..."} or "source destination"
		if strings.HasPrefix(line, "{") {
			var p models.Pair
			if err := json.Unmarshal([]byte(line), &p); err == nil && p.Source != "" && p.Destination != "" {
				out = append(out, p)
				continue
			}
			return nil, fmt.Errorf("line %d: want source and destination fields", n)
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want 'source destination'", n)
		}
		out = append(out, models.Pair{Source: fields[0], Destination: fields[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no pairs found in ndjson")
	}
	return out, nil
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
