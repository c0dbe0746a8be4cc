package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/eventlt/harvester/internal/event"
)

func testNow() time.Time {
	return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
}

func TestGenerateCalendar(t *testing.T) {
	table := event.Table{
		Name: "zalgiris",
		Records: []event.Record{
			{
				Title:     "Derby, big one",
				Location:  "Zalgirio Arena",
				City:      "Kaunas",
				StartDate: "2025-10-05",
				StartTime: "18:00",
				EventLink: "https://www.zalgirioarena.lt/en/event/derby",
			},
			{
				Title:     "All Day Fair",
				Location:  "Outside",
				City:      "Kaunas",
				StartDate: "2025-10-06",
			},
			{
				Title: "Undated",
			},
		},
	}

	ics := GenerateCalendar(table, testNow())

	if !strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Fatal("missing calendar envelope")
	}
	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Fatalf("got %d events, want 2 (undated record skipped)", got)
	}

	checks := []string{
		"X-WR-CALNAME:zalgiris\r\n",
		"DTSTAMP:20250501T120000Z\r\n",
		"DTSTART:20251005T180000\r\n",
		"DTEND:20251005T200000\r\n",
		"SUMMARY:Derby\\, big one\r\n",
		"LOCATION:Zalgirio Arena\\, Kaunas\r\n",
		"URL:https://www.zalgirioarena.lt/en/event/derby\r\n",
		"DTSTART;VALUE=DATE:20251006\r\n",
	}
	for _, want := range checks {
		if !strings.Contains(ics, want) {
			t.Errorf("calendar missing %q", want)
		}
	}
}

func TestRecordUIDStable(t *testing.T) {
	rec := event.Record{Title: "Derby", StartDate: "2025-10-05", StartTime: "18:00", Location: "Arena"}
	same := event.Record{Title: "Derby", StartDate: "2025-10-05", StartTime: "18:00", Location: "Arena", EventLink: "different"}
	other := event.Record{Title: "Derby", StartDate: "2025-10-06", StartTime: "18:00", Location: "Arena"}

	if recordUID(rec) != recordUID(same) {
		t.Error("UID changed with a non-identity field")
	}
	if recordUID(rec) == recordUID(other) {
		t.Error("UID identical for different occurrences")
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`a\b`, `a\\b`},
		{"a,b;c", `a\,b\;c`},
		{"a\nb", `a\nb`},
	}
	for _, tt := range tests {
		if got := escapeICS(tt.in); got != tt.want {
			t.Errorf("escapeICS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
