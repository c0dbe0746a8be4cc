package event

import (
	"regexp"
	"strings"
)

var clockPattern = regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`)

// SplitDateTime splits an ISO date or date-time string into its date and
// time-of-day parts. "2025-05-01T19:00:00" yields ("2025-05-01", "19:00");
// a bare date yields an empty time. Seconds and zone suffixes are dropped.
func SplitDateTime(s string) (date, clock string) {
	if s == "" {
		return "", ""
	}
	if d, t, ok := strings.Cut(s, "T"); ok {
		t = strings.TrimSpace(t)
		if len(t) > 5 {
			t = t[:5]
		}
		return strings.TrimSpace(d), t
	}
	return strings.TrimSpace(s), ""
}

// FirstClockTime returns the first hour:minute token found in text, or ""
// when there is none. Used as the time-of-day fallback when structured data
// carries only a date.
func FirstClockTime(text string) string {
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
