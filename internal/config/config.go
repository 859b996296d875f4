package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"4101"`

	// Database configuration. DatabaseURL selects Postgres when set.
	DatabasePath string `envconfig:"DATABASE_PATH" default:"./data.db"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`

	// Logging configuration
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Metrics configuration
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	MetricsHost    string `envconfig:"METRICS_HOST" default:"localhost"`
	MetricsPort    int    `envconfig:"METRICS_PORT" default:"9090"`

	// Table feature flags
	ShowElevationGain bool   `envconfig:"SHOW_ELEVATION_GAIN" default:"true"`
	Locale            string `envconfig:"LOCALE" default:"en"`

	// Background jobs
	ReloadSchedule string        `envconfig:"RELOAD_SCHEDULE" default:"@every 10m"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	// Site metadata
	SiteTitle       string   `envconfig:"SITE_TITLE" default:"Running Page"`
	SiteURL         string   `envconfig:"SITE_URL"`
	SiteLogo        string   `envconfig:"SITE_LOGO"`
	SiteDescription string   `envconfig:"SITE_DESCRIPTION" default:"Personal site and blog"`
	BasePath        string   `envconfig:"BASE_PATH"`
	NavLinks        NavLinks `envconfig:"SITE_NAV_LINKS" default:"Summary|/summary"`
}

// NavLink is one entry of the site navigation
type NavLink struct {
	Name string
	URL  string
}

// NavLinks decodes "name|url,name|url"
type NavLinks []NavLink

// Decode implements envconfig.Decoder
func (n *NavLinks) Decode(value string) error {
	var links NavLinks
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, url, ok := strings.Cut(item, "|")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(url) == "" {
			return fmt.Errorf("invalid nav link %q, expected name|url", item)
		}
		links = append(links, NavLink{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)})
	}
	*n = links
	return nil
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory. Variables already set in
// the environment take precedence over the file.
func Load() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values envconfig cannot check on its own
func (c *Config) Validate() error {
	var problems []string

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel))
	}

	switch c.Locale {
	case "en", "zh":
	default:
		problems = append(problems, fmt.Sprintf("LOCALE must be en or zh, got %q", c.Locale))
	}

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT out of range: %d", c.Port))
	}
	if c.MetricsEnabled && (c.MetricsPort < 1 || c.MetricsPort > 65535) {
		problems = append(problems, fmt.Sprintf("METRICS_PORT out of range: %d", c.MetricsPort))
	}
	if _, err := cron.ParseStandard(c.ReloadSchedule); err != nil {
		problems = append(problems, fmt.Sprintf("RELOAD_SCHEDULE is not a valid cron spec: %v", err))
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsChinese reports whether display strings use the zh locale
func (c *Config) IsChinese() bool {
	return c.Locale == "zh"
}

// UsePostgres reports whether activities come from Postgres instead of SQLite
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}
