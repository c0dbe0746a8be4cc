package venues

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestSiauliaiScrape(t *testing.T) {
	f := newFakeFetcher()
	f.pages[siauliaiListURL] = `<html><body>
<a href="/event/zebra-tour?utm=promo">Zebra Tour</a>
<a href="https://siauliuarena.lt/event/aida#tickets">Aida</a>
<a href="/event/aida">Aida again</a>
<a href="/news/whatever">News</a>
</body></html>`
	f.pages["https://siauliuarena.lt/event/aida"] = `<html><head><title>x</title></head><body>
<h1>Aida</h1>
<div>2025-11-02</div>
<div>Durys atidaromos</div>
<div>18:30</div>
</body></html>`
	f.pages["https://siauliuarena.lt/event/zebra-tour"] = `<html><head><title>Zebra Tour | Šiaulių arena</title></head><body>
<div>2025-06-15 19:00</div>
</body></html>`

	s := NewSiauliai(f, zerolog.Nop())
	s.now = testClock

	table, err := s.Scrape()
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if len(table.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(table.Records))
	}

	// Sorted by date, so the June event comes first.
	first := table.Records[0]
	if first.Title != "Zebra Tour | Šiaulių arena" {
		t.Errorf("title = %q, want the page title fallback", first.Title)
	}
	if first.StartDate != "2025-06-15" || first.StartTime != "19:00" {
		t.Errorf("datetime = %q %q", first.StartDate, first.StartTime)
	}
	if first.EventLink != "https://siauliuarena.lt/event/zebra-tour" {
		t.Errorf("link = %q, want query stripped", first.EventLink)
	}

	second := table.Records[1]
	if second.Title != "Aida" {
		t.Errorf("title = %q", second.Title)
	}
	if second.StartDate != "2025-11-02" || second.StartTime != "18:30" {
		t.Errorf("datetime = %q %q, want the time picked up from a later line", second.StartDate, second.StartTime)
	}
	if second.Location != "Šiaulių Arena" || second.City != "Šiauliai" {
		t.Errorf("venue = %q %q", second.Location, second.City)
	}

	if f.visits["https://siauliuarena.lt/event/aida"] != 1 {
		t.Errorf("detail page visited %d times, want 1", f.visits["https://siauliuarena.lt/event/aida"])
	}
}

func TestSiauliaiDetailFailureSkipped(t *testing.T) {
	f := newFakeFetcher()
	f.pages[siauliaiListURL] = `<html><body>
<a href="/event/good">Good</a>
<a href="/event/broken">Broken</a>
</body></html>`
	f.pages["https://siauliuarena.lt/event/good"] = `<html><body><h2>Good Show</h2><p>2025-07-01</p></body></html>`
	f.errs["https://siauliuarena.lt/event/broken"] = errors.New("status 500")

	s := NewSiauliai(f, zerolog.Nop())
	s.now = testClock

	table, err := s.Scrape()
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if len(table.Records) != 1 || table.Records[0].Title != "Good Show" {
		t.Fatalf("records = %+v, want only the reachable page", table.Records)
	}
}

func TestSiauliaiListingError(t *testing.T) {
	f := newFakeFetcher()
	f.errs[siauliaiListURL] = errors.New("status 503")
	s := NewSiauliai(f, zerolog.Nop())
	if _, err := s.Scrape(); err == nil {
		t.Fatal("Scrape() error = nil, want fetch failure")
	}
}
