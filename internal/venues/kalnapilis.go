package venues

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/eventlt/harvester/internal/event"
)

const (
	kalnapilisBaseURL = "https://kalnapilisarena.lt"
	kalnapilisListURL = kalnapilisBaseURL + "/renginiai/"
)

// kalnapilisDateRe matches the site's "2025 sausio 24 d. 19:00" datetime
// strings.
var kalnapilisDateRe = regexp.MustCompile(`(?i)(\d{4})\s+(\S+)\s+(\d{1,2})\s+d\.\s+(\d{1,2}:\d{2})`)

// kalnapilisMonths maps Lithuanian genitive month names to month numbers.
var kalnapilisMonths = map[string]string{
	"sausio":    "01",
	"vasario":   "02",
	"kovo":      "03",
	"balandžio": "04",
	"gegužės":   "05",
	"birželio":  "06",
	"liepos":    "07",
	"rugpjūčio": "08",
	"rugsėjo":   "09",
	"spalio":    "10",
	"lapkričio": "11",
	"gruodžio":  "12",
}

// Kalnapilis scrapes the Kalnapilio Arena programme. Each card's datetime
// text node is preceded by the anchor carrying both title and link.
type Kalnapilis struct {
	fetcher Fetcher
	logger  zerolog.Logger
	now     func() time.Time
}

func NewKalnapilis(f Fetcher, logger zerolog.Logger) *Kalnapilis {
	return &Kalnapilis{
		fetcher: f,
		logger:  logger.With().Str("site", "kalnapilis").Logger(),
		now:     time.Now,
	}
}

func (s *Kalnapilis) Scrape() (event.Table, error) {
	doc, err := s.fetcher.Document(kalnapilisListURL)
	if err != nil {
		return event.Table{Name: "kalnapilis"}, fmt.Errorf("fetching %s: %w", kalnapilisListURL, err)
	}

	nodes := docNodes(doc)
	stamp := event.Timestamp(s.now())
	var rows []event.Record

	for i, n := range nodes {
		if !isText(n) {
			continue
		}
		m := kalnapilisDateRe.FindStringSubmatch(normText(n.Data))
		if m == nil {
			continue
		}
		year, monthWord, dayRaw, clock := m[1], m[2], m[3], m[4]
		month, ok := kalnapilisMonths[strings.ToLower(monthWord)]
		if !ok {
			continue
		}
		day, err := strconv.Atoi(dayRaw)
		if err != nil {
			continue
		}

		a := findPrevious(nodes, i, func(c *html.Node) bool {
			return isAnchor(c, false)
		})
		if a == nil {
			continue
		}

		rows = append(rows, event.Record{
			Title:     normText(elementText(a)),
			Location:  "Kalnapilio Arena",
			City:      "Panevėžys",
			StartDate: fmt.Sprintf("%s-%s-%02d", year, month, day),
			StartTime: clock,
			EventLink: resolveURL(kalnapilisBaseURL, attrValue(a, "href")),
			ScrapedAt: stamp,
		})
	}

	rows = event.Dedup(rows)
	s.logger.Info().Int("rows", len(rows)).Msg("crawl finished")
	return event.Table{Name: "kalnapilis", Records: rows}, nil
}
