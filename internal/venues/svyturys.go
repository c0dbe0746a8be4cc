package venues

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/eventlt/harvester/internal/event"
)

const (
	svyturysBaseURL = "https://www.svyturioarena.lt"
	svyturysListURL = svyturysBaseURL + "/en/renginiai/"
)

// svyturysDateTimeRe matches the site's "2025/10/04 / 19:00" text nodes.
var svyturysDateTimeRe = regexp.MustCompile(`^\s*(\d{4}/\d{2}/\d{2})\s*/\s*(\d{1,2}:\d{2})\s*$`)

// Svyturys scrapes the Švyturio Arena programme. The title is the first
// plausible text node after the card's datetime node; the link is the
// nearest preceding anchor.
type Svyturys struct {
	fetcher Fetcher
	logger  zerolog.Logger
	now     func() time.Time
}

func NewSvyturys(f Fetcher, logger zerolog.Logger) *Svyturys {
	return &Svyturys{
		fetcher: f,
		logger:  logger.With().Str("site", "svyturys").Logger(),
		now:     time.Now,
	}
}

func (s *Svyturys) Scrape() (event.Table, error) {
	doc, err := s.fetcher.Document(svyturysListURL)
	if err != nil {
		return event.Table{Name: "svyturys"}, fmt.Errorf("fetching %s: %w", svyturysListURL, err)
	}

	nodes := docNodes(doc)
	stamp := event.Timestamp(s.now())
	var rows []event.Record

	for i, n := range nodes {
		if !isText(n) {
			continue
		}
		m := svyturysDateTimeRe.FindStringSubmatch(strings.TrimSpace(n.Data))
		if m == nil {
			continue
		}

		title := ""
		if t := findNext(nodes, i, func(c *html.Node) bool {
			return isText(c) && svyturysTitleCandidate(c.Data)
		}); t != nil {
			title = normText(t.Data)
		}
		if title == "" {
			continue
		}

		link := ""
		if a := findPrevious(nodes, i, func(c *html.Node) bool {
			return isAnchor(c, true)
		}); a != nil {
			link = resolveURL(svyturysBaseURL, attrValue(a, "href"))
		}

		rows = append(rows, event.Record{
			Title:     title,
			Location:  "Švyturio Arena",
			City:      "Klaipėda",
			StartDate: strings.ReplaceAll(m[1], "/", "-"),
			StartTime: m[2],
			EventLink: link,
			ScrapedAt: stamp,
		})
	}

	rows = event.Dedup(rows)
	s.logger.Info().Int("rows", len(rows)).Msg("crawl finished")
	return event.Table{Name: "svyturys", Records: rows}, nil
}

// svyturysTitleCandidate rejects datetime nodes, price and navigation
// captions, image credits, and anything implausibly long or letterless.
func svyturysTitleCandidate(s string) bool {
	text := normText(s)
	if text == "" {
		return false
	}
	if svyturysDateTimeRe.MatchString(text) {
		return false
	}
	if strings.HasPrefix(text, "Ticket price:") || strings.HasPrefix(text, "Image:") {
		return false
	}
	if text == "To buy a ticket" || text == "More" {
		return false
	}
	if !strings.ContainsFunc(text, unicode.IsLetter) {
		return false
	}
	return utf8.RuneCountInString(text) <= 120
}
