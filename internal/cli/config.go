package cli

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/eventlt/harvester/internal/bilietai"
	"github.com/eventlt/harvester/internal/filter"
	"github.com/eventlt/harvester/internal/venues"
)

// envPrefix is the prefix for environment overrides (HARVESTER_PAGES etc.).
const envPrefix = "harvester"

// Config carries every knob of a harvester run.
type Config struct {
	// Sites to scrape, in run order.
	Sites []string `yaml:"sites" envconfig:"SITES"`

	// Pages bounds the paginated listings (bilietai, compensa).
	Pages int `yaml:"pages" envconfig:"PAGES"`

	// ScrollRounds for the infinite-scroll listings (kakava).
	ScrollRounds int `yaml:"scroll_rounds" envconfig:"SCROLL_ROUNDS"`

	// OutDir receives the per-site output files.
	OutDir string `yaml:"out_dir" envconfig:"OUT_DIR"`

	// Format is csv or ics.
	Format string `yaml:"format" envconfig:"FORMAT"`

	// Headless controls the browser session.
	Headless bool `yaml:"headless" envconfig:"HEADLESS"`

	// Timeout bounds a single page render.
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`

	// Filter is applied to every table before it is written.
	Filter filter.Filter `yaml:"filter"`

	Verbose bool `yaml:"verbose" envconfig:"VERBOSE"`
}

// AllSites lists the supported site names in their default run order.
func AllSites() []string {
	return []string{
		"bilietai",
		"twinsbet",
		"kakava",
		"siauliai",
		"kalnapilis",
		"svyturys",
		"compensa",
		"zalgiris",
	}
}

// browserSites are the ones needing a rendering session.
var browserSites = []string{"bilietai", "kakava"}

func defaultConfig() Config {
	return Config{
		Sites:        AllSites(),
		Pages:        bilietai.DefaultPages,
		ScrollRounds: venues.DefaultScrollRounds,
		OutDir:       "output",
		Format:       "csv",
		Headless:     true,
		Timeout:      90 * time.Second,
	}
}

// loadConfig builds the effective configuration from defaults, the optional
// YAML file, and the environment. Flag overrides are applied by the caller.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

// Validate rejects unknown sites, formats, and bad filter bounds.
func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return fmt.Errorf("no sites selected")
	}
	for _, site := range c.Sites {
		if !slices.Contains(AllSites(), site) {
			return fmt.Errorf("unknown site %q (known: %v)", site, AllSites())
		}
	}
	if c.Format != "csv" && c.Format != "ics" {
		return fmt.Errorf("invalid format %q (must be csv or ics)", c.Format)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return c.Filter.Validate()
}

// needsBrowser reports whether any selected site renders through chromedp.
func (c *Config) needsBrowser() bool {
	for _, site := range c.Sites {
		if slices.Contains(browserSites, site) {
			return true
		}
	}
	return false
}
