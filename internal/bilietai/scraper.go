package bilietai

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/eventlt/harvester/internal/event"
	"github.com/eventlt/harvester/internal/jsonld"
)

const (
	// listingURLTemplate pages through the tracked venues, in-sales and
	// sold-out events, ordered by date.
	listingURLTemplate = "https://www.bilietai.lt/eng/tickets/visi/" +
		"category:1002,1005,1006/" +
		"status:insales,sold_out/" +
		"order:date,asc/" +
		"page:%d/" +
		"venue:294187,45371,103680,208473,39028,39404,41503," +
		"39103,84421,40473,39368,39220,317656,40052,47301," +
		"45058,90741,190114,39105,45041/"

	// seriesMarker appears in a listing card when its event runs at
	// multiple venues, which makes the card a series placeholder even if
	// a venue name is present.
	seriesMarker = "Different venues"

	// DefaultPages is how many listing pages a run walks by default.
	DefaultPages = 6
)

// Renderer supplies fully rendered page content. *render.Session satisfies
// it; tests substitute a fake.
type Renderer interface {
	Render(url string) (string, error)
}

// Scraper harvests bilietai.lt listings with the two-phase series-expanding
// crawl described in the package documentation.
type Scraper struct {
	renderer Renderer
	logger   zerolog.Logger
	pages    int
	now      func() time.Time
}

// New creates a Scraper walking the given number of listing pages
// (DefaultPages when pages <= 0).
func New(r Renderer, logger zerolog.Logger, pages int) *Scraper {
	if pages <= 0 {
		pages = DefaultPages
	}
	return &Scraper{
		renderer: r,
		logger:   logger.With().Str("site", "bilietai").Logger(),
		pages:    pages,
		now:      time.Now,
	}
}

// crawlState accumulates per-run crawl bookkeeping. One instance is created
// per Scrape call and discarded with it; nothing here outlives a run.
type crawlState struct {
	// seenLinks guards against re-processing a detail link that already
	// appeared on an earlier listing page.
	seenLinks map[string]bool
	// pending holds series links awaiting expansion, in discovery order.
	pending []string
	// fallback caches the placeholder record emitted when a series link
	// cannot be expanded.
	fallback map[string]event.Record
}

func newCrawlState() *crawlState {
	return &crawlState{
		seenLinks: make(map[string]bool),
		fallback:  make(map[string]event.Record),
	}
}

// Scrape runs both crawl phases and returns the deduplicated table. Failed
// pages contribute zero records; the run itself never fails.
func (s *Scraper) Scrape() (event.Table, error) {
	st := newCrawlState()
	var rows []event.Record

	for page := 1; page <= s.pages; page++ {
		pageURL := fmt.Sprintf(listingURLTemplate, page)
		doc, ok := s.renderDocument(pageURL)
		if !ok {
			continue
		}
		rows = append(rows, s.collectListing(doc, st)...)
	}

	for _, seriesURL := range st.pending {
		rows = append(rows, s.expandSeries(seriesURL, st)...)
	}

	s.logger.Info().Int("rows", len(rows)).Int("series", len(st.pending)).Msg("crawl finished")
	return event.Table{Name: "bilietai", Records: event.Dedup(rows)}, nil
}

// renderDocument fetches and parses one page, reporting ok=false when the
// page must be skipped.
func (s *Scraper) renderDocument(pageURL string) (*goquery.Document, bool) {
	html, err := s.renderer.Render(pageURL)
	if err != nil {
		s.logger.Warn().Str("url", pageURL).Err(err).Msg("page skipped")
		return nil, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.logger.Warn().Str("url", pageURL).Err(err).Msg("page unparseable")
		return nil, false
	}
	return doc, true
}

// collectListing walks one listing page's JSON-LD blocks, returning the
// direct records and recording series placeholders into st.
func (s *Scraper) collectListing(doc *goquery.Document, st *crawlState) []event.Record {
	var direct []event.Record
	for _, block := range jsonld.Events(doc) {
		container, link := resolveContainer(block.Selection)
		if link == "" || st.seenLinks[link] {
			continue
		}
		st.seenLinks[link] = true

		rec := s.buildRecord(block.Event, container, link)
		if isSeries(rec, container) {
			st.pending = append(st.pending, link)
			st.fallback[link] = rec
			continue
		}
		direct = append(direct, rec)
	}
	return direct
}

// isSeries classifies a built record as a multi-date series placeholder.
// Either condition suffices on its own: a missing venue name, or the
// multiple-venues marker in the card's text.
func isSeries(rec event.Record, container *goquery.Selection) bool {
	if rec.Location == "" {
		return true
	}
	return container != nil && strings.Contains(container.Text(), seriesMarker)
}

// expandSeries visits one pending series page and returns its concrete
// occurrences, or the cached placeholder when the page cannot be rendered or
// nothing on it qualifies. Each series link is visited exactly once and its
// occurrences are never re-classified.
func (s *Scraper) expandSeries(seriesURL string, st *crawlState) []event.Record {
	doc, ok := s.renderDocument(seriesURL)
	if !ok {
		return s.fallbackRow(st, seriesURL)
	}

	var rows []event.Record
	for _, block := range jsonld.Events(doc) {
		// Occurrences must be directly bookable: a concrete venue
		// and a ticket offer.
		if block.Event.Location.Name == "" || block.Event.Offers.URL == "" {
			continue
		}
		container, link := resolveContainer(block.Selection)
		if link == "" || link == seriesURL {
			continue
		}
		rows = append(rows, s.buildRecord(block.Event, container, link))
	}

	if len(rows) == 0 {
		return s.fallbackRow(st, seriesURL)
	}
	return rows
}

func (s *Scraper) fallbackRow(st *crawlState, seriesURL string) []event.Record {
	rec, ok := st.fallback[seriesURL]
	if !ok {
		return nil
	}
	s.logger.Debug().Str("url", seriesURL).Msg("series expansion empty, emitting placeholder")
	return []event.Record{rec}
}

// buildRecord maps a decoded event object and its resolved container into
// the canonical schema. Missing nested fields become empty strings.
func (s *Scraper) buildRecord(e jsonld.Event, container *goquery.Selection, eventLink string) event.Record {
	date, clock := event.SplitDateTime(e.StartDate)
	if clock == "" && container != nil {
		clock = event.FirstClockTime(flattenText(container))
	}

	ticket := e.Offers.URL
	if strings.HasPrefix(ticket, "/") {
		ticket = absURL(ticket)
	}

	return event.Record{
		Title:      e.Name,
		Location:   e.Location.Name,
		City:       e.Location.Address.AddressLocality,
		StartDate:  date,
		StartTime:  clock,
		EventLink:  eventLink,
		TicketLink: ticket,
		ScrapedAt:  event.Timestamp(s.now()),
	}
}

// flattenText collapses an element's rendered text into single-space
// separated tokens.
func flattenText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
