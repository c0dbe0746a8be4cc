package main

import (
	"fmt"
	"os"
	"time"

	"github.com/eventlt/harvester/internal/calendar"
	"github.com/eventlt/harvester/internal/event"
)

// Generates a sample .ics file for eyeballing in a calendar app.
func main() {
	table := event.Table{
		Name: "preview",
		Records: []event.Record{
			{
				Title:     "Žalgiris - Rytas",
				Location:  "Zalgirio Arena",
				City:      "Kaunas",
				StartDate: "2026-03-15",
				StartTime: "18:00",
				EventLink: "https://www.zalgirioarena.lt/en/event/derby",
			},
			{
				Title:     "Amatų mugė",
				Location:  "Outside",
				City:      "Kaunas",
				StartDate: "2026-03-21",
			},
		},
	}

	ics := calendar.GenerateCalendar(table, time.Now())

	filename := "preview-events.ics"
	if err := os.WriteFile(filename, []byte(ics), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s\n\n", filename)
	fmt.Println("Import it into Google Calendar, Apple Calendar, or Outlook.")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(ics)
}
