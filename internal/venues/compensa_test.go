package venues

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCompensaScrape(t *testing.T) {
	f := newFakeFetcher()
	f.pages[compensaListURL] = `<html><body>
<div>Jazzu | Vilnius 24 geg 19:00 Bilietai: www.bilietai.lt/lt/jazzu-101</div>
<div>Roko naktis 3 rugp 20:00 Bilietai: kakava.lt/event/roko www.kakava.lt/event/roko</div>
<h2>Praėję renginiai</h2>
<div>Senas koncertas 1 sau 12:00 www.bilietai.lt/lt/senas-1</div>
<ul>
  <li><a href="/renginiai/jazzu-koncertas/">Daugiau</a></li>
  <li><a href="https://www.compensakoncertusale.lt/renginiai/kita-grupe">Daugiau</a></li>
  <li><a href="/renginiai/senas/page/2">Netinka</a></li>
</ul>
</body></html>`
	for page := 1; page < DefaultCompensaPages; page++ {
		f.errs[fmt.Sprintf("%s?page=%d", compensaListURL, page)] = errors.New("status 404")
	}

	s := NewCompensa(f, zerolog.Nop(), 0)
	s.now = testClock

	table, err := s.Scrape()
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if len(table.Records) != 2 {
		t.Fatalf("got %d records, want 2 (past section cut off)", len(table.Records))
	}

	first := table.Records[0]
	if first.Title != "Jazzu" {
		t.Errorf("title = %q, want the city suffix stripped", first.Title)
	}
	if first.StartDate != "2025-05-24" || first.StartTime != "19:00" {
		t.Errorf("datetime = %q %q", first.StartDate, first.StartTime)
	}
	if first.EventLink != "https://www.compensakoncertusale.lt/renginiai/jazzu-koncertas" {
		t.Errorf("link = %q, want the slug-matched detail page", first.EventLink)
	}
	if first.TicketLink != "https://www.bilietai.lt/lt/jazzu-101" {
		t.Errorf("ticket link = %q", first.TicketLink)
	}
	if first.Location != "Compensa koncertų salė" || first.City != "Vilnius" {
		t.Errorf("venue = %q %q", first.Location, first.City)
	}

	second := table.Records[1]
	if second.Title != "Roko naktis" {
		t.Errorf("title = %q", second.Title)
	}
	if second.StartDate != "2025-08-03" {
		t.Errorf("date = %q, want rugp resolved via the four-letter key", second.StartDate)
	}
	if second.EventLink != "https://www.compensakoncertusale.lt/renginiai/kita-grupe" {
		t.Errorf("link = %q, want the positional fallback", second.EventLink)
	}
}

func TestCompensaGuessYear(t *testing.T) {
	s := NewCompensa(newFakeFetcher(), zerolog.Nop(), 1)
	s.now = func() time.Time { return time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC) }

	if got := s.guessYear(1); got != 2026 {
		t.Errorf("guessYear(1) in November = %d, want 2026", got)
	}
	if got := s.guessYear(9); got != 2025 {
		t.Errorf("guessYear(9) in November = %d, want 2025", got)
	}
	if got := s.guessYear(12); got != 2025 {
		t.Errorf("guessYear(12) in November = %d, want 2025", got)
	}
}

func TestCompensaCleanTitle(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Jazzu | Vilnius", "Jazzu"},
		{"Jazzu (Vilnius)", "Jazzu"},
		{"Jazzu COMPENSA", "Jazzu"},
		{"Jazzu - ", "Jazzu"},
		{"  Jazzu   gyvai  ", "Jazzu gyvai"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := compensaCleanTitle(tt.raw); got != tt.want {
				t.Errorf("compensaCleanTitle(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCompensaSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jazzu", "jazzu"},
		{"Žalvarinis gyvai!", "zalvarinis-gyvai"},
		{"Trys -- brūkšniai", "trys-bruksniai"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := compensaSlugify(tt.in); got != tt.want {
				t.Errorf("compensaSlugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
