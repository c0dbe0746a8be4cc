package venues

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/eventlt/harvester/internal/event"
)

const zalgirisURL = "https://www.zalgirioarena.lt/en/events"

var (
	zalgirisDateRe = regexp.MustCompile(`^\s*(\d{4}-\d{2}-\d{2})\s*$`)
	zalgirisTimeRe = regexp.MustCompile(`^\s*(\d{1,2}:\d{2})\s*$`)
)

// zalgirisLocations are the hall names the arena schedules events into;
// each card carries exactly one of them after its date and time.
var zalgirisLocations = map[string]bool{
	"Zalgirio Arena":   true,
	"SDG amphitheatre": true,
	"Outside":          true,
	"Foyer":            true,
}

var zalgirisCategories = map[string]bool{
	"Concert":     true,
	"Conference":  true,
	"EuroLeague":  true,
	"Exhibition":  true,
	"Fair":        true,
	"LKL/KMT":     true,
	"Other":       true,
	"Performance": true,
	"Sport":       true,
	"Stand-up":    true,
}

// zalgirisBadPrefixes mark the descriptive fine print that sits between a
// card's category and its title.
var zalgirisBadPrefixes = []string{
	"Duration:",
	"Doors open",
	"Organizer:",
	"From ",
	"Photography",
	"Only allowed",
	"Children",
	"Free admission",
	"No free admission",
	"New AUDI club members",
	"Audi club members",
	"Nuo ",
	"Vaikai",
	"Neįgalieji",
}

var zalgirisTicketHosts = []string{"koobin", "kakava", "bilietai", "ticketshop", "manobilietas"}

// Zalgiris scrapes the Žalgirio Arena programme. Each card lays its fields
// out as consecutive text nodes in a fixed order: date, time, hall,
// category, then the title somewhere before the ticket buttons.
type Zalgiris struct {
	fetcher Fetcher
	logger  zerolog.Logger
	now     func() time.Time
}

func NewZalgiris(f Fetcher, logger zerolog.Logger) *Zalgiris {
	return &Zalgiris{
		fetcher: f,
		logger:  logger.With().Str("site", "zalgiris").Logger(),
		now:     time.Now,
	}
}

func (s *Zalgiris) Scrape() (event.Table, error) {
	doc, err := s.fetcher.Document(zalgirisURL)
	if err != nil {
		return event.Table{Name: "zalgiris"}, fmt.Errorf("fetching %s: %w", zalgirisURL, err)
	}

	nodes := docNodes(doc)
	stamp := event.Timestamp(s.now())
	var rows []event.Record

	for i, n := range nodes {
		if !isText(n) {
			continue
		}
		m := zalgirisDateRe.FindStringSubmatch(n.Data)
		if m == nil {
			continue
		}

		ti := findNextIdx(nodes, i, func(c *html.Node) bool {
			return isText(c) && zalgirisTimeRe.MatchString(c.Data)
		})
		if ti < 0 {
			continue
		}

		li := findNextIdx(nodes, ti, func(c *html.Node) bool {
			return isText(c) && zalgirisLocations[strings.TrimSpace(c.Data)]
		})
		if li < 0 {
			continue
		}

		ci := findNextIdx(nodes, li, func(c *html.Node) bool {
			return isText(c) && zalgirisCategories[strings.TrimSpace(c.Data)]
		})
		if ci < 0 {
			continue
		}

		title := zalgirisTitle(nodes, ci)
		if title == "" {
			continue
		}

		rows = append(rows, event.Record{
			Title:     title,
			Location:  normText(nodes[li].Data),
			City:      "Kaunas",
			StartDate: m[1],
			StartTime: strings.TrimSpace(nodes[ti].Data),
			EventLink: zalgirisLink(n),
			ScrapedAt: stamp,
		})
	}

	rows = event.Dedup(rows)
	s.logger.Info().Int("rows", len(rows)).Msg("crawl finished")
	return event.Table{Name: "zalgiris", Records: rows}, nil
}

// zalgirisTitle scans forward from the category node for the card's title,
// stopping at the ticket buttons so one card never reads into the next.
func zalgirisTitle(nodes []*html.Node, ci int) string {
	for j := ci + 1; j < len(nodes); j++ {
		if !isText(nodes[j]) {
			continue
		}
		txt := strings.TrimSpace(nodes[j].Data)
		if txt == "" {
			continue
		}
		if txt == "Buy ticket" || txt == "Information" {
			return ""
		}
		if zalgirisValidTitle(txt) {
			return normText(txt)
		}
	}
	return ""
}

func zalgirisValidTitle(s string) bool {
	text := normText(s)
	if text == "" {
		return false
	}
	if zalgirisLocations[text] || zalgirisCategories[text] {
		return false
	}
	if text == "Buy ticket" || text == "Information" {
		return false
	}
	for _, p := range zalgirisBadPrefixes {
		if strings.HasPrefix(text, p) {
			return false
		}
	}
	return utf8.RuneCountInString(text) <= 120
}

// zalgirisLink finds the card's ticket link: the "Buy ticket" anchor inside
// the enclosing list item, or failing that any anchor pointing at a known
// ticket shop.
func zalgirisLink(dateNode *html.Node) string {
	container := closestAncestor(dateNode, func(p *html.Node) bool {
		return p.Type == html.ElementNode && attrValue(p, "role") == "listitem"
	})
	if container == nil {
		container = closestAncestor(dateNode, func(p *html.Node) bool {
			return p.Type == html.ElementNode && p.Data == "li"
		})
	}
	if container == nil {
		container = closestAncestor(dateNode, func(p *html.Node) bool {
			return p.Type == html.ElementNode && p.Data == "div"
		})
	}
	if container == nil {
		return ""
	}

	var anchors []*html.Node
	for _, c := range flattenNodes(container) {
		if isAnchor(c, true) {
			anchors = append(anchors, c)
		}
	}

	for _, a := range anchors {
		href := strings.TrimSpace(attrValue(a, "href"))
		label := strings.ToLower(elementTextSpaced(a))
		if label == "buy ticket" && href != "" && href != "#" {
			return resolveURL(zalgirisURL, href)
		}
	}
	for _, a := range anchors {
		href := strings.TrimSpace(attrValue(a, "href"))
		if href == "" || href == "#" {
			continue
		}
		lower := strings.ToLower(href)
		for _, host := range zalgirisTicketHosts {
			if strings.Contains(lower, host) {
				return resolveURL(zalgirisURL, href)
			}
		}
	}
	return ""
}
