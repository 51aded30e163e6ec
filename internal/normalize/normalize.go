// Package normalize converts raw HTML into collapsed plain text.
package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/JaimeStill/lawfinder/pkg/formatting"
)

// DefaultLimit caps normalized output in characters.
const DefaultLimit = 80000

const stripped = "script,style,noscript,nav,header,footer,form"

// Normalizer strips page chrome from HTML and caps the remaining text.
type Normalizer struct {
	Limit int
}

// New returns a Normalizer with the given character cap. Non-positive limits use DefaultLimit.
func New(limit int) *Normalizer {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Normalizer{Limit: limit}
}

// Text removes script, style and navigation elements, joins the remaining
// text nodes with spaces and collapses whitespace.
// Input that cannot be parsed is collapsed as-is.
func (n *Normalizer) Text(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return formatting.Truncate(formatting.CollapseSpace(raw), n.Limit)
	}

	doc.Find(stripped).Remove()

	var parts []string
	for _, node := range doc.Nodes {
		parts = collect(node, parts)
	}

	return formatting.Truncate(formatting.CollapseSpace(strings.Join(parts, " ")), n.Limit)
}

func collect(node *html.Node, parts []string) []string {
	if node.Type == html.TextNode {
		if t := strings.TrimSpace(node.Data); t != "" {
			parts = append(parts, t)
		}
		return parts
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		parts = collect(c, parts)
	}
	return parts
}
