package venues

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/eventlt/harvester/internal/event"
)

const twinsbetURL = "https://twinsbetarena.lt/en/events/"

// twinsbetTimeRe matches a text node that carries nothing but a clock time.
var twinsbetTimeRe = regexp.MustCompile(`^\s*\d{2}:\d{2}\s*$`)

// Twinsbet scrapes the Twinsbet Arena programme page. Every event card
// carries an ISO date text node; the time follows it and the title and
// link precede it in document order.
type Twinsbet struct {
	fetcher Fetcher
	logger  zerolog.Logger
	now     func() time.Time
}

func NewTwinsbet(f Fetcher, logger zerolog.Logger) *Twinsbet {
	return &Twinsbet{
		fetcher: f,
		logger:  logger.With().Str("site", "twinsbet").Logger(),
		now:     time.Now,
	}
}

func (s *Twinsbet) Scrape() (event.Table, error) {
	doc, err := s.fetcher.Document(twinsbetURL)
	if err != nil {
		return event.Table{Name: "twinsbet"}, fmt.Errorf("fetching %s: %w", twinsbetURL, err)
	}

	nodes := docNodes(doc)
	stamp := event.Timestamp(s.now())
	var rows []event.Record

	for i, n := range nodes {
		if !isText(n) {
			continue
		}
		m := isoDateRe.FindStringSubmatch(n.Data)
		if m == nil {
			continue
		}

		clock := ""
		if t := findNext(nodes, i, func(c *html.Node) bool {
			return isText(c) && twinsbetTimeRe.MatchString(c.Data)
		}); t != nil {
			clock = strings.TrimSpace(t.Data)
		}

		title := ""
		if name := findPrevious(nodes, i, func(c *html.Node) bool {
			return isText(c) && twinsbetValidName(c.Data)
		}); name != nil {
			title = strings.Join(strings.Fields(name.Data), " ")
		}

		link := ""
		if a := findPrevious(nodes, i, func(c *html.Node) bool {
			return isAnchor(c, true)
		}); a != nil {
			link = resolveURL(twinsbetURL, attrValue(a, "href"))
		}

		rows = append(rows, event.Record{
			Title:     title,
			Location:  "Twinsbet Arena",
			City:      "Vilnius",
			StartDate: m[1],
			StartTime: clock,
			EventLink: link,
			ScrapedAt: stamp,
		})
	}

	rows = dedupRows(rows)
	s.logger.Info().Int("rows", len(rows)).Msg("crawl finished")
	return event.Table{Name: "twinsbet", Records: rows}, nil
}

// twinsbetValidName rejects the filter labels, price and ticket captions,
// and date strings that surround a card's title node.
func twinsbetValidName(s string) bool {
	text := strings.TrimSpace(s)
	if text == "" {
		return false
	}
	if strings.Contains(text, "Price from") || strings.Contains(text, "Buy a ticket") {
		return false
	}
	switch text {
	case "Category", "All categories", "Date":
		return false
	}
	return !isoDateRe.MatchString(text)
}
