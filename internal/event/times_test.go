package event

import "testing"

func TestSplitDateTime(t *testing.T) {
	tests := []struct {
		in       string
		wantDate string
		wantTime string
	}{
		{"2025-05-01T19:00", "2025-05-01", "19:00"},
		{"2025-05-01T19:00:00", "2025-05-01", "19:00"},
		{"2025-05-01T19:00:00+03:00", "2025-05-01", "19:00"},
		{"2025-05-01", "2025-05-01", ""},
		{" 2025-05-01 ", "2025-05-01", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			date, clock := SplitDateTime(tt.in)
			if date != tt.wantDate || clock != tt.wantTime {
				t.Errorf("SplitDateTime(%q) = (%q, %q), want (%q, %q)",
					tt.in, date, clock, tt.wantDate, tt.wantTime)
			}
		})
	}
}

func TestFirstClockTime(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Doors 18:30, show 19:00", "18:30"},
		{"Show at 9:05 sharp", "9:05"},
		{"No times here", ""},
		{"", ""},
		{"Price 10:2025 discount", ""},
		{"Doors (18:30) tonight", "18:30"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := FirstClockTime(tt.text); got != tt.want {
				t.Errorf("FirstClockTime(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
