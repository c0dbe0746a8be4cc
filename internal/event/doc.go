// Package event defines the canonical record schema shared by every site
// scraper.
//
// All scrapers, whatever their source markup looks like, normalize into the
// same eight-column Record. A run's merged output is collapsed with Dedup on
// the (title, start_date, start_time, location) tuple, keeping the first
// occurrence in insertion order.
package event
