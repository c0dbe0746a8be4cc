// Package storage persists harvested event tables as CSV files.
//
// Each scraper run writes one file per site (NAME.csv) under the configured
// output directory. Files carry a UTF-8 byte order mark so the Lithuanian
// titles open cleanly in spreadsheet tools.
package storage
