package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/eventlt/harvester/internal/event"
)

func testTable() event.Table {
	return event.Table{
		Name: "zalgiris",
		Records: []event.Record{
			{
				Title:     "Žalgiris - Rytas",
				Location:  "Zalgirio Arena",
				City:      "Kaunas",
				StartDate: "2025-10-05",
				StartTime: "18:00",
				EventLink: "https://www.zalgirioarena.lt/en/event/derby",
				ScrapedAt: "2025-05-01T12:00:00Z",
			},
			{
				Title:     "Opera, su kableliu",
				Location:  "Foyer",
				City:      "Kaunas",
				StartDate: "2025-11-01",
				ScrapedAt: "2025-05-01T12:00:00Z",
			},
		},
	}
}

func TestSaveAndLoadCSV(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	table := testTable()
	path, err := store.SaveCSV(table)
	if err != nil {
		t.Fatalf("SaveCSV() error = %v", err)
	}
	if !strings.HasSuffix(path, "zalgiris.csv") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if !strings.HasPrefix(string(data), "\xEF\xBB\xBF") {
		t.Error("file missing UTF-8 byte order mark")
	}
	if !strings.Contains(string(data), "title,location,city,start_date,start_time,event_link,ticket_link,scraped_at") {
		t.Error("file missing header row")
	}
	if !strings.Contains(string(data), `"Opera, su kableliu"`) {
		t.Error("comma-carrying title not quoted")
	}

	loaded, err := store.LoadCSV("zalgiris")
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if len(loaded.Records) != len(table.Records) {
		t.Fatalf("loaded %d records, want %d", len(loaded.Records), len(table.Records))
	}
	for i := range table.Records {
		if loaded.Records[i] != table.Records[i] {
			t.Errorf("record %d = %+v, want %+v", i, loaded.Records[i], table.Records[i])
		}
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := store.LoadCSV("nothing"); err == nil {
		t.Fatal("LoadCSV() error = nil, want read failure")
	}
}

func TestNewCreatesNestedDir(t *testing.T) {
	dir := t.TempDir() + "/a/b/c"
	if _, err := New(dir); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("output directory not created: %v", err)
	}
}
