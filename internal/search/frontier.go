package search

import "wikirace-go-solver/internal/models"

// frontier is the BFS bookkeeping: every discovered node's predecessor and
// the label of the edge it was discovered through. A node enters prev once.
type frontier struct {
	src, dst string
	prev     map[string]string // src maps to ""
	labels   map[models.Edge]models.Anchor
}

func newFrontier(src, dst string) *frontier {
	return &frontier{
		src:    src,
		dst:    dst,
		prev:   map[string]string{src: ""},
		labels: make(map[models.Edge]models.Anchor),
	}
}

// discover applies the expansion of u. It returns the newly discovered nodes
// in neighbor order, stopping early with found=true when dst is reached.
func (f *frontier) discover(u string, exp models.Expansion) (next []string, found bool) {
	for _, v := range exp.Neighbors {
		if _, seen := f.prev[v]; seen {
			continue
		}
		f.prev[v] = u
		if anchors := exp.Labels[v]; len(anchors) > 0 {
			f.labels[models.Edge{From: u, To: v}] = anchors[0]
		}
		if v == f.dst {
			return next, true
		}
		next = append(next, v)
	}
	return next, false
}

// path walks predecessors back from dst and reverses.
func (f *frontier) path() []string {
	var path []string
	for cur := f.dst; ; cur = f.prev[cur] {
		path = append(path, cur)
		if cur == f.src {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (f *frontier) result(expansions int) Result {
	return Result{Found: true, Path: f.path(), Labels: f.labels, Expansions: expansions}
}
