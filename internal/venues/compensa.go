package venues

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/eventlt/harvester/internal/event"
)

const (
	compensaBaseURL = "https://www.compensakoncertusale.lt"
	compensaListURL = compensaBaseURL + "/events"

	// DefaultCompensaPages is how many listing pages are walked by
	// default.
	DefaultCompensaPages = 6
)

var (
	// compensaEventRe matches one flattened-text event entry: title,
	// day, abbreviated Lithuanian month, time, and the first ticket-shop
	// domain that follows.
	compensaEventRe = regexp.MustCompile(
		`(.+?)\s+` +
			`(\d{1,2})\s+` +
			`([A-Za-zĄČĘĖĮŠŲŪŽąčęėįšųūž]{3,6})\s+` +
			`(\d{1,2}:\d{2})\s+` +
			`.*?(www\.(?:bilietai|kakava|manobilietas|ticketshop|medusa)\.lt\S*)`)

	// compensaHrefRe accepts detail-page hrefs, relative or absolute,
	// with an optional trailing slash.
	compensaHrefRe = regexp.MustCompile(`(?i)^(?:https?://(?:www\.)?compensakoncertusale\.lt)?(/renginiai/[^/?#]+)/?$`)

	compensaPastMarker = "praėję renginiai"

	compensaTitleSuffixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s*\|\s*Vilnius$`),
		regexp.MustCompile(`(?i)\s*\(Vilnius\)$`),
		regexp.MustCompile(`(?i)\s*COMPENSA\s*$`),
	}

	compensaListingWord = regexp.MustCompile(`(?i)\brenginiai\b`)

	slugStripRe    = regexp.MustCompile(`[^a-z0-9]+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// compensaMonths maps Lithuanian month abbreviations, as they appear on the
// site, to month numbers. Four-letter keys disambiguate rugpjūtis from
// rugsėjis before the three-letter keys are tried.
var compensaMonths = map[string]string{
	"sau":  "01",
	"vas":  "02",
	"kov":  "03",
	"bal":  "04",
	"geg":  "05",
	"bir":  "06",
	"lie":  "07",
	"rgp":  "08",
	"rugp": "08",
	"rug":  "09",
	"rugs": "09",
	"spa":  "10",
	"lap":  "11",
	"gru":  "12",
}

// Compensa scrapes the Compensa concert hall listing. The markup carries no
// per-card structure worth anchoring on, so entries are matched out of the
// flattened page text and re-associated with the detail links collected
// from the page, slug-matched within a sliding window to keep both streams
// aligned.
type Compensa struct {
	fetcher Fetcher
	logger  zerolog.Logger
	pages   int
	now     func() time.Time
}

// NewCompensa creates a Compensa scraper walking the given number of
// listing pages (DefaultCompensaPages when pages <= 0).
func NewCompensa(f Fetcher, logger zerolog.Logger, pages int) *Compensa {
	if pages <= 0 {
		pages = DefaultCompensaPages
	}
	return &Compensa{
		fetcher: f,
		logger:  logger.With().Str("site", "compensa").Logger(),
		pages:   pages,
		now:     time.Now,
	}
}

func (s *Compensa) Scrape() (event.Table, error) {
	var rows []event.Record
	for page := 0; page < s.pages; page++ {
		pageURL := compensaListURL
		if page > 0 {
			pageURL = fmt.Sprintf("%s?page=%d", compensaListURL, page)
		}
		doc, err := s.fetcher.Document(pageURL)
		if err != nil {
			s.logger.Warn().Str("url", pageURL).Err(err).Msg("page skipped")
			continue
		}
		rows = append(rows, s.collectPage(doc)...)
	}

	rows = event.Dedup(rows)
	sortByDateTime(rows)
	s.logger.Info().Int("rows", len(rows)).Msg("crawl finished")
	return event.Table{Name: "compensa", Records: rows}, nil
}

// collectPage extracts the records from one listing page.
func (s *Compensa) collectPage(doc *goquery.Document) []event.Record {
	pageLinks := compensaDetailLinks(doc)
	stamp := event.Timestamp(s.now())

	text := pageText(doc)
	// Entries under the past-events section repeat old dates; cut them off.
	if idx := strings.Index(strings.ToLower(text), compensaPastMarker); idx != -1 {
		text = text[:idx]
	}

	linkIdx := 0
	lastLinkForTitle := make(map[string]string)
	var rows []event.Record

	for _, m := range compensaEventRe.FindAllStringSubmatch(text, -1) {
		rawTitle, dayRaw, monthRaw, clock, ticket := m[1], m[2], m[3], m[4], m[5]

		month, ok := compensaMonth(monthRaw)
		if !ok {
			continue
		}
		day, err := strconv.Atoi(dayRaw)
		if err != nil {
			continue
		}

		title := compensaCleanTitle(rawTitle)
		if compensaListingWord.MatchString(title) {
			continue
		}

		if !strings.HasPrefix(ticket, "http") {
			ticket = "https://" + ticket
		}

		// The regex stream and the href stream run through the page in
		// the same order; match them up by slug within the next few
		// links, falling back to positional pairing.
		link := ""
		slug := compensaSlugify(title)
		for j := linkIdx; j < len(pageLinks) && j < linkIdx+8; j++ {
			if slug != "" && strings.Contains(pageLinks[j], slug) {
				link = pageLinks[j]
				linkIdx = j + 1
				break
			}
		}
		if link == "" && linkIdx < len(pageLinks) {
			link = pageLinks[linkIdx]
			linkIdx++
		}
		if link == "" {
			if prev := lastLinkForTitle[title]; prev != "" {
				link = prev
			} else {
				link = ticket
			}
		}
		lastLinkForTitle[title] = link

		monthNum, _ := strconv.Atoi(month)
		rows = append(rows, event.Record{
			Title:      title,
			Location:   "Compensa koncertų salė",
			City:       "Vilnius",
			StartDate:  fmt.Sprintf("%d-%s-%02d", s.guessYear(monthNum), month, day),
			StartTime:  clock,
			EventLink:  link,
			TicketLink: ticket,
			ScrapedAt:  stamp,
		})
	}
	return rows
}

// compensaDetailLinks collects the detail-page URLs in page order, deduped.
func compensaDetailLinks(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := compensaHrefRe.FindStringSubmatch(strings.TrimSpace(href))
		if m == nil {
			return
		}
		full := compensaBaseURL + m[1]
		if seen[full] {
			return
		}
		seen[full] = true
		links = append(links, full)
	})
	return links
}

// compensaMonth resolves an abbreviated month, trying the four-letter
// prefix before the three-letter one.
func compensaMonth(raw string) (string, bool) {
	word := []rune(strings.TrimRight(strings.ToLower(raw), "."))
	if len(word) >= 4 {
		if m, ok := compensaMonths[string(word[:4])]; ok {
			return m, true
		}
	}
	if len(word) >= 3 {
		if m, ok := compensaMonths[string(word[:3])]; ok {
			return m, true
		}
	}
	return "", false
}

// guessYear picks the year for a month with no year on the page: the
// current one, unless the month lies more than six months back, which means
// it has wrapped into next year.
func (s *Compensa) guessYear(month int) int {
	today := s.now()
	year := today.Year()
	if month-int(today.Month()) < -6 {
		year++
	}
	return year
}

// compensaCleanTitle strips the venue and city suffixes the site appends to
// some titles.
func compensaCleanTitle(raw string) string {
	t := normText(raw)
	for _, re := range compensaTitleSuffixes {
		t = re.ReplaceAllString(t, "")
	}
	return strings.Trim(t, " -|")
}

// compensaSlugify lowercases, strips diacritics, and hyphenates, matching
// how the site builds its detail URLs.
func compensaSlugify(s string) string {
	decomposed := norm.NFKD.String(strings.ToLower(normText(s)))
	var b strings.Builder
	for _, r := range decomposed {
		if !unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	slug := slugStripRe.ReplaceAllString(b.String(), "-")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
