package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/eventlt/harvester/internal/bilietai"
	"github.com/eventlt/harvester/internal/calendar"
	"github.com/eventlt/harvester/internal/event"
	"github.com/eventlt/harvester/internal/fetch"
	"github.com/eventlt/harvester/internal/render"
	"github.com/eventlt/harvester/internal/storage"
	"github.com/eventlt/harvester/internal/venues"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig       string
	flagSites        []string
	flagPages        int
	flagScrollRounds int
	flagOutDir       string
	flagFormat       string
	flagHeadless     bool
	flagTimeout      time.Duration
	flagCities       []string
	flagVenues       []string
	flagDateFrom     string
	flagDateTo       string
	flagVerbose      bool
)

// siteScraper is what every site implementation exposes to the runner.
type siteScraper interface {
	Scrape() (event.Table, error)
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvester",
		Short: "Harvest Lithuanian event listings into CSV or calendar files",
		Long: `Harvests event listings from bilietai.lt and the major Lithuanian
arena sites into per-site CSV or iCalendar files.`,
		SilenceUsage: true,
		RunE:         runHarvest,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.Flags().StringSliceVar(&flagSites, "sites", AllSites(), "Sites to scrape")
	cmd.Flags().IntVar(&flagPages, "pages", bilietai.DefaultPages, "Listing pages to walk on paginated sites")
	cmd.Flags().IntVar(&flagScrollRounds, "scroll-rounds", venues.DefaultScrollRounds, "Scroll rounds on infinite-scroll sites")
	cmd.Flags().StringVar(&flagOutDir, "out-dir", "output", "Output directory")
	cmd.Flags().StringVar(&flagFormat, "format", "csv", "Output format: csv or ics")
	cmd.Flags().BoolVar(&flagHeadless, "headless", true, "Run the browser headless")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 90*time.Second, "Per-page render timeout")
	cmd.Flags().StringSliceVar(&flagCities, "city", nil, "Keep only events whose city matches")
	cmd.Flags().StringSliceVar(&flagVenues, "venue", nil, "Keep only events whose venue matches")
	cmd.Flags().StringVar(&flagDateFrom, "date-from", "", "Keep only events on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagDateTo, "date-to", "", "Keep only events on or before this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newReportCmd())

	return cmd
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)
	logger.Debug().Strs("sites", cfg.Sites).Str("format", cfg.Format).Msg("run configured")

	store, err := storage.New(cfg.OutDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	var session *render.Session
	if cfg.needsBrowser() {
		session, err = render.NewSession(render.Options{
			Headless: cfg.Headless,
			Timeout:  cfg.Timeout,
		})
		if err != nil {
			return fmt.Errorf("starting browser session: %w", err)
		}
		defer session.Close()
	}
	client := fetch.New()

	failed := 0
	for _, site := range cfg.Sites {
		if err := runSite(site, cfg, session, client, store, logger); err != nil {
			logger.Error().Str("site", site).Err(err).Msg("site failed")
			failed++
		}
	}
	if failed == len(cfg.Sites) {
		return fmt.Errorf("all %d sites failed", failed)
	}
	return nil
}

// runSite scrapes one site, filters its table, and writes it out.
func runSite(site string, cfg Config, session *render.Session, client *fetch.Client, store *storage.Store, logger zerolog.Logger) error {
	scraper, err := newSiteScraper(site, cfg, session, client, logger)
	if err != nil {
		return err
	}

	table, err := scraper.Scrape()
	if err != nil {
		return err
	}
	table = cfg.Filter.Apply(table)

	var path string
	switch cfg.Format {
	case "ics":
		path, err = store.SaveFile(table.Name, "ics", []byte(calendar.GenerateCalendar(table, time.Now())))
	default:
		path, err = store.SaveCSV(table)
	}
	if err != nil {
		return err
	}

	logger.Info().Str("site", site).Int("rows", len(table.Records)).Str("path", path).Msg("table saved")
	return nil
}

func newSiteScraper(site string, cfg Config, session *render.Session, client *fetch.Client, logger zerolog.Logger) (siteScraper, error) {
	switch site {
	case "bilietai":
		return bilietai.New(session, logger, cfg.Pages), nil
	case "twinsbet":
		return venues.NewTwinsbet(client, logger), nil
	case "kakava":
		return venues.NewKakava(session, logger, cfg.ScrollRounds), nil
	case "siauliai":
		return venues.NewSiauliai(client, logger), nil
	case "kalnapilis":
		return venues.NewKalnapilis(client, logger), nil
	case "svyturys":
		return venues.NewSvyturys(client, logger), nil
	case "compensa":
		return venues.NewCompensa(client, logger, cfg.Pages), nil
	case "zalgiris":
		return venues.NewZalgiris(client, logger), nil
	default:
		return nil, fmt.Errorf("unknown site %q", site)
	}
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("sites") {
		cfg.Sites = flagSites
	}
	if flags.Changed("pages") {
		cfg.Pages = flagPages
	}
	if flags.Changed("scroll-rounds") {
		cfg.ScrollRounds = flagScrollRounds
	}
	if flags.Changed("out-dir") {
		cfg.OutDir = flagOutDir
	}
	if flags.Changed("format") {
		cfg.Format = flagFormat
	}
	if flags.Changed("headless") {
		cfg.Headless = flagHeadless
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if flags.Changed("city") {
		cfg.Filter.Cities = flagCities
	}
	if flags.Changed("venue") {
		cfg.Filter.Venues = flagVenues
	}
	if flags.Changed("date-from") {
		cfg.Filter.DateFrom = flagDateFrom
	}
	if flags.Changed("date-to") {
		cfg.Filter.DateTo = flagDateTo
	}
	if flags.Changed("verbose") {
		cfg.Verbose = flagVerbose
	}
}

// newLogger builds the run logger; every event carries the run ID.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	var out io.Writer = os.Stderr
	if verbose {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(level).With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
