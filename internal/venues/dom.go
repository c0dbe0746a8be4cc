package venues

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/eventlt/harvester/internal/event"
)

// Document-order node helpers. Several sites are scraped by locating a
// date-shaped text node and then walking backwards or forwards through the
// document for the pieces around it, so the node tree is flattened into
// preorder once and scanned by index.

// flattenNodes returns every node under root in document (preorder)
// order, skipping script and style subtrees.
func flattenNodes(root *html.Node) []*html.Node {
	var nodes []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		nodes = append(nodes, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return nodes
}

// docNodes flattens the whole parsed document.
func docNodes(doc *goquery.Document) []*html.Node {
	if len(doc.Nodes) == 0 {
		return nil
	}
	return flattenNodes(doc.Nodes[0])
}

// findPrevious scans backwards from index i (exclusive) for the first node
// matching pred. Ancestors precede their children in preorder, so they are
// part of the scan, matching the usual "previous element" semantics.
func findPrevious(nodes []*html.Node, i int, pred func(*html.Node) bool) *html.Node {
	for j := i - 1; j >= 0; j-- {
		if pred(nodes[j]) {
			return nodes[j]
		}
	}
	return nil
}

// findNext scans forwards from index i (exclusive) for the first node
// matching pred.
func findNext(nodes []*html.Node, i int, pred func(*html.Node) bool) *html.Node {
	j := findNextIdx(nodes, i, pred)
	if j < 0 {
		return nil
	}
	return nodes[j]
}

// findNextIdx is findNext returning the match's index, or -1, for callers
// that chain several forward scans.
func findNextIdx(nodes []*html.Node, i int, pred func(*html.Node) bool) int {
	for j := i + 1; j < len(nodes); j++ {
		if pred(nodes[j]) {
			return j
		}
	}
	return -1
}

// isText reports whether n is a text node.
func isText(n *html.Node) bool {
	return n.Type == html.TextNode
}

// isAnchor reports whether n is an <a> element; withHref additionally
// requires a non-empty href attribute.
func isAnchor(n *html.Node, withHref bool) bool {
	if n.Type != html.ElementNode || n.Data != "a" {
		return false
	}
	if !withHref {
		return true
	}
	return attrValue(n, "href") != ""
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// elementText concatenates the text under n.
func elementText(n *html.Node) string {
	var b strings.Builder
	for _, node := range flattenNodes(n) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
	}
	return b.String()
}

// elementTextSpaced joins the trimmed text nodes under n with single
// spaces, for labels split across inline elements.
func elementTextSpaced(n *html.Node) string {
	var parts []string
	for _, node := range flattenNodes(n) {
		if node.Type != html.TextNode {
			continue
		}
		if t := strings.TrimSpace(node.Data); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// textLines returns each non-empty trimmed text node under the document,
// in order.
func textLines(doc *goquery.Document) []string {
	var lines []string
	for _, n := range docNodes(doc) {
		if n.Type != html.TextNode {
			continue
		}
		if line := strings.TrimSpace(n.Data); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// pageText joins all text nodes with single spaces, the flattened-text view
// the pattern scrapers match against.
func pageText(doc *goquery.Document) string {
	return strings.Join(textLines(doc), " ")
}

// normText collapses whitespace and applies NFC normalization; the venue
// sites mix precomposed and combining Lithuanian characters.
func normText(s string) string {
	if s == "" {
		return ""
	}
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// closestAncestor walks up from n for the nearest ancestor matching pred.
func closestAncestor(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if pred(p) {
			return p
		}
	}
	return nil
}

// resolveURL resolves href against base. Unparseable inputs fall back to
// the raw href.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	r, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(r).String()
}

// sortByDateTime orders records by start date, then start time, keeping the
// scrape order for ties.
func sortByDateTime(records []event.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].StartDate != records[j].StartDate {
			return records[i].StartDate < records[j].StartDate
		}
		return records[i].StartTime < records[j].StartTime
	})
}
