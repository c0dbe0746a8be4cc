package venues

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/eventlt/harvester/internal/event"
)

const (
	siauliaiBaseURL = "https://siauliuarena.lt"
	siauliaiListURL = siauliaiBaseURL + "/renginiai/"
)

// Siauliai scrapes the Šiaulių Arena site. The listing page only links to
// per-event detail pages, so each one is fetched and read for title, date
// and time.
type Siauliai struct {
	fetcher Fetcher
	logger  zerolog.Logger
	now     func() time.Time
}

func NewSiauliai(f Fetcher, logger zerolog.Logger) *Siauliai {
	return &Siauliai{
		fetcher: f,
		logger:  logger.With().Str("site", "siauliai").Logger(),
		now:     time.Now,
	}
}

func (s *Siauliai) Scrape() (event.Table, error) {
	doc, err := s.fetcher.Document(siauliaiListURL)
	if err != nil {
		return event.Table{Name: "siauliai"}, fmt.Errorf("fetching %s: %w", siauliaiListURL, err)
	}

	stamp := event.Timestamp(s.now())
	var rows []event.Record

	for _, detailURL := range siauliaiDetailLinks(doc) {
		detail, err := s.fetcher.Document(detailURL)
		if err != nil {
			s.logger.Warn().Str("url", detailURL).Err(err).Msg("detail page skipped")
			continue
		}
		rec, ok := siauliaiDetailRecord(detail)
		if !ok {
			continue
		}
		rec.EventLink = detailURL
		rec.ScrapedAt = stamp
		rows = append(rows, rec)
	}

	rows = event.Dedup(rows)
	sortByDateTime(rows)
	s.logger.Info().Int("rows", len(rows)).Msg("crawl finished")
	return event.Table{Name: "siauliai", Records: rows}, nil
}

// siauliaiDetailLinks collects the event detail URLs from the listing page,
// query and fragment parts stripped, sorted for a stable visit order.
func siauliaiDetailLinks(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	doc.Find("a[href*='/event/']").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		href, _, _ = strings.Cut(href, "?")
		href, _, _ = strings.Cut(href, "#")
		seen[resolveURL(siauliaiBaseURL, href)] = true
	})

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}

// siauliaiDetailRecord reads one detail page. The title comes from the
// first h1 or h2 (page title as a fallback); the date from the first
// date-carrying text line, with the time on that line or within the next
// four lines.
func siauliaiDetailRecord(doc *goquery.Document) (event.Record, bool) {
	title := normText(doc.Find("h1, h2").First().Text())
	if title == "" {
		title = normText(doc.Find("title").First().Text())
	}
	if title == "" {
		return event.Record{}, false
	}

	var date, clock string
	lines := textLines(doc)
	for i, line := range lines {
		date = isoDateRe.FindString(line)
		if date == "" {
			continue
		}
		clock = event.FirstClockTime(line)
		for j := i + 1; clock == "" && j < len(lines) && j < i+5; j++ {
			clock = event.FirstClockTime(lines[j])
		}
		break
	}

	return event.Record{
		Title:     title,
		Location:  "Šiaulių Arena",
		City:      "Šiauliai",
		StartDate: date,
		StartTime: clock,
	}, true
}
