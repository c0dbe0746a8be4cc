package venues

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/eventlt/harvester/internal/event"
)

// Fetcher retrieves and parses one static HTML page. *fetch.Client
// satisfies it; tests substitute fixture-backed fakes.
type Fetcher interface {
	Document(url string) (*goquery.Document, error)
}

// ScrollRenderer supplies page content after a number of scroll rounds,
// for sites that load their programme lazily. *render.Session satisfies it.
type ScrollRenderer interface {
	RenderScrolled(url string, rounds int) (string, error)
}

// isoDateRe matches a calendar date anywhere in a string.
var isoDateRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// dedupRows collapses rows that are identical in every column, keeping the
// first occurrence. Some sites repeat a card verbatim across page sections.
func dedupRows(records []event.Record) []event.Record {
	seen := make(map[string]bool, len(records))
	out := make([]event.Record, 0, len(records))
	for _, r := range records {
		key := strings.Join(r.Row(), "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
