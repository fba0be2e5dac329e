
package models

// Document is a fetched page: the raw bytes and the URL they were retrieved from.
type Document struct {
	Body []byte `json:"-"`
	URL  string `json:"url"`
}

// Anchor is one anchor-text record for a discovered link.
type Anchor struct {
	Text string `json:"anchor_text"`
}

// Expansion is the outgoing-link view of one article. Neighbors holds no
// duplicates and keeps document order; Labels keeps every anchor seen per
// neighbor, in discovery order.
type Expansion struct {
	Neighbors []string            `json:"neighbors"`
	Labels    map[string][]Anchor `json:"labels,omitempty"`
}

// Edge is a directed link between two article IDs.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Step struct {
	Index       int    `json:"index"`
	NodeID      string `json:"nodeId"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Via         string `json:"via,omitempty"`
	ViaCaptured bool   `json:"viaCaptured,omitempty"`
}

type Solution struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Found       bool   `json:"found"`
	Hops        int    `json:"hops"`
	Expansions  int    `json:"expansions"`
	Steps       []Step `json:"steps,omitempty"`
}

// Pair is one source/destination request from a batch input.
type Pair struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// Outcome is the result of one batch pair. Exactly one of Solution and
// Error is set.
type Outcome struct {
	Pair
	Solution *Solution `json:"solution,omitempty"`
	Error    string    `json:"error,omitempty"`
}
