package bilietai

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	siteRoot = "https://www.bilietai.lt"

	// maxAscent bounds the ancestor search for a block's container.
	maxAscent = 10
)

var (
	// Event-detail pages live under a locale segment, then "tickets",
	// then a slug ending in a numeric id.
	relDetailPattern = regexp.MustCompile(`/(?:eng|lit)/tickets/.+-\d+`)
	absDetailPattern = regexp.MustCompile(`https?://(?:www\.)?bilietai\.lt/(?:eng|lit)/tickets/.+-\d+`)

	siteBase, _ = url.Parse(siteRoot)
)

// absURL resolves a site-relative href against the site root.
func absURL(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return siteBase.ResolveReference(ref).String()
}

// detailLink reports whether href points at an event-detail page and, if so,
// returns it as an absolute URL with any fragment stripped.
func detailLink(href string) (string, bool) {
	switch {
	case strings.HasPrefix(href, "/") && relDetailPattern.MatchString(href):
		return absURL(href), true
	case absDetailPattern.MatchString(href):
		link, _, _ := strings.Cut(href, "#")
		return link, true
	}
	return "", false
}

// resolveContainer finds the visual container enclosing a JSON-LD block and
// the single event-detail link unambiguously associated with it.
//
// If the block's nearest enclosing anchor is itself detail-shaped, that
// anchor is the container. Otherwise the search ascends up to maxAscent
// parents, collecting the de-duplicated detail links beneath each ancestor,
// and stops at the first level whose set holds exactly one URL. A block with
// zero or multiple candidates at every level is unresolvable: the caller
// gets a nil container and an empty link and drops the block.
func resolveContainer(block *goquery.Selection) (*goquery.Selection, string) {
	anchor := block.Closest("a[href]")
	if anchor.Length() > 0 {
		if href, ok := anchor.Attr("href"); ok {
			if link, ok := detailLink(href); ok {
				return anchor, link
			}
		}
	}

	node := block
	for level := 0; level < maxAscent; level++ {
		node = node.Parent()
		if node.Length() == 0 {
			break
		}

		seen := make(map[string]bool)
		var links []string
		node.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			link, ok := detailLink(href)
			if !ok || seen[link] {
				return
			}
			seen[link] = true
			links = append(links, link)
		})

		if len(links) == 1 {
			return node, links[0]
		}
	}

	return nil, ""
}
