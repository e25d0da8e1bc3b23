package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel             = "info"
	DefaultJSONLog              = false
	DefaultUserAgent            = "cric-stats-harvest/1.0 (https://github.com/cric-stats/harvest)"
	DefaultOutputDir            = "csv_files"
	DefaultHTTPTimeout          = 30 * time.Second
	DefaultBrowserTimeout       = 90 * time.Second
	DefaultInteractTimeout      = 20 * time.Second
	DefaultSettleDelay          = 2 * time.Second
	DefaultStaticRateLimitRPS   = 5.0
	DefaultStaticRateLimitBurst = 10
	DefaultBrowserRateLimitRPS  = 1.0
	DefaultBrowserRateLimitBurst = 2
	DefaultBrowserHeadless      = true
	DefaultCacheTTL             = 5 * time.Minute
	DefaultCacheMaxSizeBytes    = 100 * 1024 * 1024 // 100MB
)

// DefaultSourceURLs maps the supported format tokens to the public
// stats pages they are harvested from.
var DefaultSourceURLs = map[string]string{
	"test": "https://www.bcci.tv/international/men/stats/test",
	"odi":  "https://www.bcci.tv/international/men/stats/odi",
}
