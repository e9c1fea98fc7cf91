package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// offerorAnchor is the label on the detail page ("securities offeror")
// that precedes the underlying security name.
const offerorAnchor = "ผู้เสนอขายหลักทรัพย์"

// anchorWindow is how many runes after the anchor phrase are searched
// for the parenthesized underlying name.
const anchorWindow = 400

var (
	parenthetical = regexp.MustCompile(`\(([^)]{3,})\)`)
	latinRun      = regexp.MustCompile(`[A-Za-z]{3,}`)
)

// ExtractUnderlying pulls the underlying security name out of a filing
// detail page. The page is flattened to plain text, the offeror label is
// located, and the last parenthesized substring within the following
// window that contains at least three consecutive Latin letters is
// returned; the English ticker is typically the final parenthetical in
// that sentence. Returns "" when the label is absent or nothing
// qualifies; the caller maps that to the not-found sentinel.
func ExtractUnderlying(pageHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return ""
	}

	text := flattenText(doc)
	idx := strings.Index(text, offerorAnchor)
	if idx == -1 {
		return ""
	}

	window := []rune(text[idx:])
	if len(window) > anchorWindow {
		window = window[:anchorWindow]
	}

	matches := parenthetical.FindAllStringSubmatch(string(window), -1)
	for i := len(matches) - 1; i >= 0; i-- {
		if latinRun.MatchString(matches[i][1]) {
			return strings.TrimSpace(matches[i][1])
		}
	}
	return ""
}

// flattenText renders the document as space-joined text nodes, so that
// phrases split across adjacent elements stay word-separated.
func flattenText(doc *goquery.Document) string {
	var sb strings.Builder
	for _, root := range doc.Nodes {
		var walk func(n *html.Node)
		walk = func(n *html.Node) {
			switch n.Type {
			case html.TextNode:
				if t := strings.TrimSpace(n.Data); t != "" {
					sb.WriteString(t)
					sb.WriteByte(' ')
				}
				return
			case html.ElementNode:
				if n.Data == "script" || n.Data == "style" {
					return
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(root)
	}
	return sb.String()
}
