
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"wikirace-go-solver/internal/article"
	"wikirace-go-solver/internal/models"
)

// ErrMalformedDocument is returned when a page cannot be decoded or parsed.
var ErrMalformedDocument = errors.New("parser: malformed document")

const (
	contentID   = "mw-content-text"
	bodyClass   = "mw-parser-output"
	leadSection = "Lead"
)

// Sections whose links are references or navigation rather than prose.
var skipSections = map[string]struct{}{
	"References": {}, "Notes": {}, "Footnotes": {}, "Further reading": {},
	"External links": {}, "Bibliography": {}, "Sources": {}, "Citations": {},
}

// citation markers, self-links, external and interwiki links
var skipAnchorClasses = map[string]struct{}{
	"reference": {}, "mw-selflink": {}, "external": {}, "extiw": {},
}

var skipContainerClasses = map[string]struct{}{
	"reflist": {}, "navbox": {}, "infobox": {}, "metadata": {}, "hatnote": {},
	"toc": {}, "mbox-small": {}, "sistersitebox": {}, "vertical-navbox": {},
}

type Parser struct{}

func New() *Parser { return &Parser{} }

var whitespaceRe = regexp.MustCompile(`\s+`)

// section is the traversal state carried from one body child to the next.
type section struct {
	name string
	skip bool
}

type link struct {
	id   string
	text string
}

// ExtractLinks returns the main-namespace articles a page links to, in
// reading order without duplicates, and every anchor text used per target.
// A page without a content container yields an empty expansion, not an error.
func (p *Parser) ExtractLinks(body []byte, contentType string) (models.Expansion, error) {
	data, err := toUTF8(body, contentType)
	if err != nil {
		return models.Expansion{}, fmt.Errorf("%w: decode: %v", ErrMalformedDocument, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return models.Expansion{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return extract(doc), nil
}

func toUTF8(data []byte, contentType string) ([]byte, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}
	return utf8data, nil
}

func extract(doc *goquery.Document) models.Expansion {
	out := models.Expansion{Neighbors: []string{}, Labels: map[string][]models.Anchor{}}

	content := doc.Find("#" + contentID).First()
	if content.Length() == 0 {
		return out
	}
	root := content.Find("." + bodyClass).First()
	if root.Length() == 0 {
		root = content
	}

	var all []string
	state := section{name: leadSection}
	root.Children().Each(func(_ int, node *goquery.Selection) {
		var found []link
		state, found = visit(state, node)
		for _, l := range found {
			all = append(all, l.id)
			out.Labels[l.id] = append(out.Labels[l.id], models.Anchor{Text: l.text})
		}
	})

	seen := make(map[string]struct{}, len(all))
	for _, id := range all {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out.Neighbors = append(out.Neighbors, id)
	}
	return out
}

// visit handles one direct child of the content body and returns the state
// for the next sibling plus the links collected from this one.
func visit(state section, node *goquery.Selection) (section, []link) {
	if hasAnyClass(node, skipContainerClasses) {
		return state, nil
	}

	if h := heading(node); h != nil {
		name := headingText(h)
		_, skip := skipSections[name]
		return section{name: name, skip: skip}, nil
	}

	if state.skip {
		return state, nil
	}

	switch goquery.NodeName(node) {
	case "p", "ul", "ol":
		return state, collect(node)
	}
	return state, nil
}

// heading returns the h2-h4 element for a section heading, unwrapping the
// div.mw-heading container newer MediaWiki markup puts around it.
func heading(node *goquery.Selection) *goquery.Selection {
	switch goquery.NodeName(node) {
	case "h2", "h3", "h4":
		return node
	case "div":
		if node.HasClass("mw-heading") {
			if h := node.ChildrenFiltered("h2, h3, h4").First(); h.Length() > 0 {
				return h
			}
		}
	}
	return nil
}

func headingText(h *goquery.Selection) string {
	if hl := h.Find(".mw-headline").First(); hl.Length() > 0 {
		return cleanText(hl.Text())
	}
	return cleanText(h.Text())
}

func collect(node *goquery.Selection) []link {
	// citation superscripts like [1]
	node.Find("sup.reference").Remove()

	var links []link
	node.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if hasAnyClass(a.Parent(), skipContainerClasses) {
			return
		}
		if hasAnyClass(a, skipAnchorClasses) {
			return
		}
		href := a.AttrOr("href", "")
		if !article.InMainNamespace(href) {
			return
		}
		id, err := article.Normalize(href)
		if err != nil {
			return
		}
		// an escaped colon only shows up after decoding
		if strings.Contains(strings.TrimPrefix(id, article.Prefix), ":") {
			return
		}
		links = append(links, link{id: id, text: cleanText(a.Text())})
	})
	return links
}

func hasAnyClass(s *goquery.Selection, set map[string]struct{}) bool {
	for _, c := range strings.Fields(s.AttrOr("class", "")) {
		if _, ok := set[c]; ok {
			return true
		}
	}
	return false
}

func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
