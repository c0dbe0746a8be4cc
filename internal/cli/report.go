package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/eventlt/harvester/internal/storage"
)

var (
	flagReportOutDir string
	flagReportJSON   bool
)

// siteReport summarizes one previously written table.
type siteReport struct {
	Site string `json:"site"`
	Rows int    `json:"rows"`
	Path string `json:"path"`
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the tables written by a previous run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&flagReportOutDir, "out-dir", "output", "Directory holding the CSV files")
	cmd.Flags().BoolVar(&flagReportJSON, "json", false, "Emit the report as JSON")
	return cmd
}

func runReport(w io.Writer) error {
	store, err := storage.New(flagReportOutDir)
	if err != nil {
		return fmt.Errorf("opening output directory: %w", err)
	}

	var reports []siteReport
	for _, site := range AllSites() {
		path := store.Path(site, "csv")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		table, err := store.LoadCSV(site)
		if err != nil {
			return fmt.Errorf("loading %s: %w", site, err)
		}
		reports = append(reports, siteReport{Site: site, Rows: len(table.Records), Path: path})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Site < reports[j].Site })

	if flagReportJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	if len(reports) == 0 {
		fmt.Fprintln(w, "No tables found.")
		return nil
	}
	total := 0
	for _, r := range reports {
		fmt.Fprintf(w, "%s: %d rows (%s)\n", r.Site, r.Rows, r.Path)
		total += r.Rows
	}
	fmt.Fprintf(w, "total: %d rows\n", total)
	return nil
}
