package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eventlt/harvester/internal/event"
)

// utf8BOM is prepended to every CSV file so spreadsheet tools pick the
// right encoding for the Lithuanian characters.
const utf8BOM = "\xEF\xBB\xBF"

// Store writes event tables under a single output directory.
type Store struct {
	outDir string
}

// New creates a Store rooted at outDir, creating the directory if needed.
func New(outDir string) (*Store, error) {
	if strings.HasPrefix(outDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		outDir = filepath.Join(home, outDir[2:])
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Store{outDir: outDir}, nil
}

// Path returns where a table with the given name and extension lands.
func (s *Store) Path(name, ext string) string {
	return filepath.Join(s.outDir, name+"."+ext)
}

// SaveCSV writes the table to NAME.csv, returning the path written.
func (s *Store) SaveCSV(table event.Table) (string, error) {
	path := s.Path(table.Name, "csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(event.Header()); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	for _, rec := range table.Records {
		if err := w.Write(rec.Row()); err != nil {
			return "", fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// SaveFile writes raw content to NAME.EXT, for non-CSV renderings.
func (s *Store) SaveFile(name, ext string, data []byte) (string, error) {
	path := s.Path(name, ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// LoadCSV reads NAME.csv back into a table. Files written by other tools
// without a byte order mark load the same way.
func (s *Store) LoadCSV(name string) (event.Table, error) {
	path := s.Path(name, "csv")

	data, err := os.ReadFile(path)
	if err != nil {
		return event.Table{}, fmt.Errorf("reading %s: %w", path, err)
	}
	text := strings.TrimPrefix(string(data), utf8BOM)

	rows, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		return event.Table{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	table := event.Table{Name: name}
	if len(rows) == 0 {
		return table, nil
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	for _, row := range rows[1:] {
		table.Records = append(table.Records, event.Record{
			Title:      field(row, "title"),
			Location:   field(row, "location"),
			City:       field(row, "city"),
			StartDate:  field(row, "start_date"),
			StartTime:  field(row, "start_time"),
			EventLink:  field(row, "event_link"),
			TicketLink: field(row, "ticket_link"),
			ScrapedAt:  field(row, "scraped_at"),
		})
	}
	return table, nil
}
