package event

import (
	"strings"
	"time"
)

// Record is one normalized event listing row.
//
// All fields are plain strings: dates are "YYYY-MM-DD", times are "HH:MM"
// (empty when the source only publishes a date), and links are absolute URLs.
// A field the source does not provide is an empty string, never an error.
type Record struct {
	Title      string `json:"title"`
	Location   string `json:"location"`
	City       string `json:"city"`
	StartDate  string `json:"start_date"`
	StartTime  string `json:"start_time"`
	EventLink  string `json:"event_link"`
	TicketLink string `json:"ticket_link"`
	ScrapedAt  string `json:"scraped_at"`
}

// Header returns the CSV column names in schema order.
func Header() []string {
	return []string{
		"title", "location", "city",
		"start_date", "start_time",
		"event_link", "ticket_link", "scraped_at",
	}
}

// Row returns the record's fields in Header order.
func (r Record) Row() []string {
	return []string{
		r.Title, r.Location, r.City,
		r.StartDate, r.StartTime,
		r.EventLink, r.TicketLink, r.ScrapedAt,
	}
}

// Key returns the dedup identity of the record. Two records with the same
// key describe the same event occurrence.
func (r Record) Key() string {
	return strings.Join([]string{r.Title, r.StartDate, r.StartTime, r.Location}, "\x1f")
}

// Dedup collapses records sharing a Key, keeping the first occurrence in
// insertion order.
func Dedup(records []Record) []Record {
	seen := make(map[string]bool, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
	}
	return out
}

// Table is an ordered set of records produced by one scraper run, named
// after its source site.
type Table struct {
	Name    string
	Records []Record
}

// Timestamp formats t the way scraped_at is persisted.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
