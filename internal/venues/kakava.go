package venues

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/eventlt/harvester/internal/event"
)

const (
	kakavaListURL = "https://www.kakava.lt/en/events"
	kakavaRoot    = "https://www.kakava.lt"

	// DefaultScrollRounds is how many scroll rounds the kakava listing
	// gets by default; the page loads more cards as it scrolls.
	DefaultScrollRounds = 20
)

// Kakava scrapes the kakava.lt aggregator's infinite-scroll listing. The
// cards expose only a title and a detail link, so location and city stay
// empty.
type Kakava struct {
	renderer ScrollRenderer
	logger   zerolog.Logger
	rounds   int
	now      func() time.Time
}

func NewKakava(r ScrollRenderer, logger zerolog.Logger, rounds int) *Kakava {
	if rounds <= 0 {
		rounds = DefaultScrollRounds
	}
	return &Kakava{
		renderer: r,
		logger:   logger.With().Str("site", "kakava").Logger(),
		rounds:   rounds,
		now:      time.Now,
	}
}

func (s *Kakava) Scrape() (event.Table, error) {
	page, err := s.renderer.RenderScrolled(kakavaListURL, s.rounds)
	if err != nil {
		return event.Table{Name: "kakava"}, fmt.Errorf("rendering %s: %w", kakavaListURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return event.Table{Name: "kakava"}, fmt.Errorf("parsing listing: %w", err)
	}

	stamp := event.Timestamp(s.now())
	seen := make(map[string]bool)
	var rows []event.Record

	doc.Find("a[href*='/event/']").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := strings.TrimSpace(a.Text())
		if href == "" || title == "" {
			return
		}
		link := kakavaRoot + href
		if seen[link] {
			return
		}
		seen[link] = true
		rows = append(rows, event.Record{
			Title:     title,
			EventLink: link,
			ScrapedAt: stamp,
		})
	})

	s.logger.Info().Int("rows", len(rows)).Msg("crawl finished")
	return event.Table{Name: "kakava", Records: rows}, nil
}
