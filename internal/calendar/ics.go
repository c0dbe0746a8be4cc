// Package calendar renders harvested event tables as iCalendar files.
package calendar

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"

	"github.com/eventlt/harvester/internal/event"
)

// defaultDuration is assumed for timed events; the sources never publish an
// end time.
const defaultDuration = 2 * time.Hour

// GenerateCalendar renders a table as one VCALENDAR with a VEVENT per
// record. Records without a start date are skipped; they cannot be placed
// on a calendar.
func GenerateCalendar(table event.Table, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//eventlt//harvester//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(table.Name)))

	for _, rec := range table.Records {
		writeEvent(&ics, rec, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, rec event.Record, now time.Time) {
	start, err := time.Parse("2006-01-02", rec.StartDate)
	if err != nil {
		return
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@eventlt\r\n", recordUID(rec)))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", now.UTC().Format("20060102T150405Z")))

	// Event times are local to the venue, so timed events are written as
	// floating times rather than UTC. Date-only records become all-day
	// entries.
	clock, err := time.Parse("15:04", rec.StartTime)
	if rec.StartTime != "" && err == nil {
		start = start.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", start.Format("20060102T150405")))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", start.Add(defaultDuration).Format("20060102T150405")))
	} else {
		ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", start.Format("20060102")))
	}

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(rec.Title)))

	location := rec.Location
	if rec.City != "" && location != "" {
		location = fmt.Sprintf("%s, %s", rec.Location, rec.City)
	} else if rec.City != "" {
		location = rec.City
	}
	if location != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(location)))
	}

	link := rec.EventLink
	if link == "" {
		link = rec.TicketLink
	}
	if link != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", link))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// recordUID derives a stable UID from the record's dedup identity, so
// re-imports update events instead of duplicating them.
func recordUID(rec event.Record) string {
	return fmt.Sprintf("%x", sha1.Sum([]byte(rec.Key())))
}

// escapeICS escapes text per RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
