// Package filter narrows harvested event tables.
//
// Filters match on city and venue names (case-insensitive substring) and on
// an inclusive start-date range. An empty filter matches every record, and
// records with an empty start date pass any date range rather than being
// silently dropped.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/eventlt/harvester/internal/event"
)

// Filter holds the active criteria. Zero value matches everything.
type Filter struct {
	// Cities matches Record.City, case-insensitive substring, any-of.
	Cities []string `json:"cities,omitempty" yaml:"cities"`

	// Venues matches Record.Location the same way.
	Venues []string `json:"venues,omitempty" yaml:"venues"`

	// DateFrom and DateTo bound Record.StartDate inclusively, each in
	// YYYY-MM-DD form; either may be empty.
	DateFrom string `json:"date_from,omitempty" yaml:"date_from"`
	DateTo   string `json:"date_to,omitempty" yaml:"date_to"`
}

// IsEmpty reports whether the filter has no active criteria.
func (f *Filter) IsEmpty() bool {
	return len(f.Cities) == 0 &&
		len(f.Venues) == 0 &&
		f.DateFrom == "" &&
		f.DateTo == ""
}

// Validate checks that the date bounds parse and are ordered.
func (f *Filter) Validate() error {
	var from, to time.Time
	var err error
	if f.DateFrom != "" {
		if from, err = time.Parse("2006-01-02", f.DateFrom); err != nil {
			return fmt.Errorf("invalid date-from %q: %w", f.DateFrom, err)
		}
	}
	if f.DateTo != "" {
		if to, err = time.Parse("2006-01-02", f.DateTo); err != nil {
			return fmt.Errorf("invalid date-to %q: %w", f.DateTo, err)
		}
	}
	if f.DateFrom != "" && f.DateTo != "" && from.After(to) {
		return fmt.Errorf("date-from %s is after date-to %s", f.DateFrom, f.DateTo)
	}
	return nil
}

// Matches reports whether a record passes all active criteria.
func (f *Filter) Matches(rec event.Record) bool {
	if len(f.Cities) > 0 && !containsAny(rec.City, f.Cities) {
		return false
	}
	if len(f.Venues) > 0 && !containsAny(rec.Location, f.Venues) {
		return false
	}
	// StartDate is already ISO-shaped, so the bounds compare as strings.
	if rec.StartDate != "" {
		if f.DateFrom != "" && rec.StartDate < f.DateFrom {
			return false
		}
		if f.DateTo != "" && rec.StartDate > f.DateTo {
			return false
		}
	}
	return true
}

// Apply returns the table with only the matching records. An empty filter
// returns the table untouched.
func (f *Filter) Apply(table event.Table) event.Table {
	if f.IsEmpty() {
		return table
	}
	out := event.Table{Name: table.Name}
	for _, rec := range table.Records {
		if f.Matches(rec) {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

func containsAny(value string, needles []string) bool {
	v := strings.ToLower(value)
	for _, n := range needles {
		if n != "" && strings.Contains(v, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
