package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Database
	DatabaseURL string

	// Sources
	SourceURLs map[string]string
	OutputDir  string

	// HTTP/Scraping
	HTTPTimeout time.Duration
	UserAgent   string

	// Rate Limiting
	StaticRateLimitRPS    float64
	StaticRateLimitBurst  int
	BrowserRateLimitRPS   float64
	BrowserRateLimitBurst int

	// Browser
	BrowserHeadless bool
	ChromePath      string
	BrowserTimeout  time.Duration
	InteractTimeout time.Duration
	SettleDelay     time.Duration

	// Caching
	CacheTTL          time.Duration
	CacheMaxSizeBytes int64
}

// Load builds a Config by combining defaults, a .env file if present,
// environment variables, and CLI flags. Caller should pass the root
// *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	// .env keeps the database URL out of shell history; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:              DefaultLogLevel,
		JSONLog:               DefaultJSONLog,
		SourceURLs:            DefaultSourceURLs,
		OutputDir:             DefaultOutputDir,
		HTTPTimeout:           DefaultHTTPTimeout,
		UserAgent:             DefaultUserAgent,
		StaticRateLimitRPS:    DefaultStaticRateLimitRPS,
		StaticRateLimitBurst:  DefaultStaticRateLimitBurst,
		BrowserRateLimitRPS:   DefaultBrowserRateLimitRPS,
		BrowserRateLimitBurst: DefaultBrowserRateLimitBurst,
		BrowserHeadless:       DefaultBrowserHeadless,
		BrowserTimeout:        DefaultBrowserTimeout,
		InteractTimeout:       DefaultInteractTimeout,
		SettleDelay:           DefaultSettleDelay,
		CacheTTL:              DefaultCacheTTL,
		CacheMaxSizeBytes:     DefaultCacheMaxSizeBytes,
	}

	// Override from environment variables (simple helpers)
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("HARVEST_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("HARVEST_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("HARVEST_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	// Read CLI flags if provided
	if cmd != nil {
		if f := cmd.Flags().Lookup("user-agent"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.UserAgent = s
			}
		}
		if f := cmd.Flags().Lookup("output-dir"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.OutputDir = s
			}
		}
		if f := cmd.Flags().Lookup("database-url"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.DatabaseURL = s
			}
		}
		if f := cmd.Flags().Lookup("chrome-path"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.ChromePath = s
			}
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil {
			if s := f.Value.String(); s != "" {
				if d, err := time.ParseDuration(s); err == nil {
					cfg.HTTPTimeout = d
				}
			}
		}
		if f := cmd.Flags().Lookup("headed"); f != nil {
			if f.Value.String() == "true" {
				cfg.BrowserHeadless = false
			}
		}
		if f := cmd.Flags().Lookup("json"); f != nil {
			if f.Value.String() == "true" {
				cfg.JSONLog = true
			}
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "debug"
			}
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "error"
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Formats lists the configured format tokens in a stable order.
func (c *Config) Formats() []string {
	out := make([]string, 0, len(c.SourceURLs))
	for _, token := range []string{"test", "odi"} {
		if _, ok := c.SourceURLs[token]; ok {
			out = append(out, token)
		}
	}
	return out
}
