// Package article canonicalizes encyclopedia article references into node IDs
// of the form "/wiki/Title".
package article

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Prefix is the path prefix every article ID starts with.
const Prefix = "/wiki/"

// ErrInvalidReference is returned when a reference does not denote an article.
var ErrInvalidReference = errors.New("article: invalid reference")

// Normalize turns a full URL (desktop or mobile host) or a "/wiki/..." path
// into a canonical ID: fragment and query dropped, percent-encoding resolved,
// spaces replaced by underscores.
func Normalize(ref string) (string, error) {
	s := strings.TrimSpace(ref)

	var path string
	if strings.HasPrefix(s, "http") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrInvalidReference, ref, err)
		}
		path = u.EscapedPath()
	} else {
		path = s
		if i := strings.IndexByte(path, '#'); i >= 0 {
			path = path[:i]
		}
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
	}

	if !strings.HasPrefix(path, Prefix) {
		return "", fmt.Errorf("%w: not an article URL/path: %q", ErrInvalidReference, ref)
	}

	// An undecodable escape is kept as-is so normalized IDs stay stable.
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	path = strings.ReplaceAll(path, " ", "_")

	if len(path) == len(Prefix) {
		return "", fmt.Errorf("%w: empty title: %q", ErrInvalidReference, ref)
	}
	return path, nil
}

// InMainNamespace reports whether href points at a main-namespace article.
// Titles carrying a colon live in other namespaces (File:, Help:, ...).
func InMainNamespace(href string) bool {
	if !strings.HasPrefix(href, Prefix) {
		return false
	}
	return !strings.Contains(href[len(Prefix):], ":")
}

// Title returns the human-readable title of an ID.
func Title(id string) string {
	return strings.ReplaceAll(strings.TrimPrefix(id, Prefix), "_", " ")
}

// URL joins an ID onto base, re-escaping the title for the wire.
func URL(base, id string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	u.Path = strings.TrimRight(u.Path, "/") + id
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
