package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mbriand/rdvwatch/internal/logger"
)

const (
	defaultStatePath  = "~/.local/share/rdvwatch/state.json"
	defaultWindowDays = 14
	regionTimezone    = "Europe/Paris"
)

// Render modes for a listing site.
const (
	RenderBrowser = "browser" // headless Chrome, for JS-rendered listings
	RenderStatic  = "static"  // plain HTTP GET, for server-rendered listings
)

// Site describes one listing page to watch.
type Site struct {
	Tag          string `yaml:"tag"`
	URL          string `yaml:"url"`
	BaseURL      string `yaml:"base_url"`
	LinkSelector string `yaml:"link_selector"`
	Render       string `yaml:"render"`
}

// Catalog is the source catalogue: a labelled set of listing pages for one
// monitored specialty and city.
type Catalog struct {
	Label   string `yaml:"label"`
	City    string `yaml:"city"`
	Sources []Site `yaml:"sources"`
}

// Config carries everything a run needs, resolved once at startup and
// passed into components explicitly.
type Config struct {
	StatePath       string
	WindowDays      int
	NotifyWhenEmpty bool
	BotToken        string
	ChatID          string
	Timezone        *time.Location
	Catalog         Catalog
}

// defaultCatalog watches the Doctolib dermatologist listing for Toulouse.
func defaultCatalog() Catalog {
	return Catalog{
		Label: "Dermatologues",
		City:  "Toulouse",
		Sources: []Site{
			{
				Tag:          "doctolib",
				URL:          "https://www.doctolib.fr/dermatologue/toulouse?availabilities=1",
				BaseURL:      "https://www.doctolib.fr",
				LinkSelector: "a[href*='/dermatologue/']",
				Render:       RenderBrowser,
			},
		},
	}
}

// Load resolves the configuration from the environment (a .env file is
// honored when present) and an optional YAML source catalogue.
func Load(catalogPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", logger.Fields{"error": err.Error()})
	}

	loc, err := time.LoadLocation(regionTimezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %s: %w", regionTimezone, err)
	}

	cfg := &Config{
		StatePath:       defaultStatePath,
		WindowDays:      defaultWindowDays,
		NotifyWhenEmpty: os.Getenv("NOTIFY_WHEN_EMPTY") == "1",
		BotToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:          os.Getenv("TELEGRAM_CHAT_ID"),
		Timezone:        loc,
		Catalog:         defaultCatalog(),
	}

	if v := os.Getenv("STATE_PATH"); v != "" {
		cfg.StatePath = v
	}
	if v := os.Getenv("WINDOW_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("invalid WINDOW_DAYS %q", v)
		}
		cfg.WindowDays = days
	}

	if catalogPath != "" {
		catalog, err := loadCatalog(catalogPath)
		if err != nil {
			return nil, err
		}
		cfg.Catalog = *catalog
	}

	return cfg, nil
}

// Window returns the rolling window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowDays) * 24 * time.Hour
}

func loadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source catalogue: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing source catalogue: %w", err)
	}
	if err := catalog.validate(); err != nil {
		return nil, fmt.Errorf("source catalogue %s: %w", path, err)
	}
	return &catalog, nil
}

func (c *Catalog) validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources defined")
	}
	seen := make(map[string]bool)
	for i, s := range c.Sources {
		if s.Tag == "" {
			return fmt.Errorf("source %d: missing tag", i)
		}
		if seen[s.Tag] {
			return fmt.Errorf("duplicate source tag %q", s.Tag)
		}
		seen[s.Tag] = true
		if s.URL == "" {
			return fmt.Errorf("source %q: missing url", s.Tag)
		}
		if s.LinkSelector == "" {
			return fmt.Errorf("source %q: missing link_selector", s.Tag)
		}
		switch s.Render {
		case RenderBrowser, RenderStatic:
		default:
			return fmt.Errorf("source %q: render must be %q or %q", s.Tag, RenderBrowser, RenderStatic)
		}
	}
	return nil
}
