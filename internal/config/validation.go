package config

import "fmt"

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.BrowserTimeout <= 0 {
		return fmt.Errorf("browser timeout must be > 0")
	}
	if c.InteractTimeout <= 0 {
		return fmt.Errorf("interact timeout must be > 0")
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache max size must be > 0")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir must not be empty")
	}
	if len(c.SourceURLs) == 0 {
		return fmt.Errorf("at least one source URL is required")
	}
	return nil
}
