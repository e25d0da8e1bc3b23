// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cric-stats/harvest/internal/cache"
	"github.com/cric-stats/harvest/internal/config"
	"github.com/cric-stats/harvest/internal/engine"
	"github.com/cric-stats/harvest/internal/pipeline"
	"github.com/cric-stats/harvest/internal/ratelimit"
	"github.com/cric-stats/harvest/internal/store"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Cache       cache.Cache
	RateLimiter ratelimit.RateLimiter
	HTTPClient  *http.Client
	Static      *engine.StaticExtractor
	Interactive *engine.InteractiveExtractor

	storeMu sync.Mutex
	store   *store.Store

	startTime time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// The database connection is not opened here: scrape-only invocations
// never need it. Use EnsureStore for commands that do.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	// Initialize logger based on config
	logLevel := zerolog.InfoLevel
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.NewConsoleWriter()
	}

	logger := log.Output(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	pageCache := cache.NewPageCache(cfg.CacheMaxSizeBytes)
	logger.Debug().
		Int64("max_size_bytes", cfg.CacheMaxSizeBytes).
		Msg("Page cache initialized")

	staticLimiter := ratelimit.NewHostLimiter(cfg.StaticRateLimitRPS, cfg.StaticRateLimitBurst)
	browserLimiter := ratelimit.NewHostLimiter(cfg.BrowserRateLimitRPS, cfg.BrowserRateLimitBurst)
	logger.Debug().
		Float64("static_rps", cfg.StaticRateLimitRPS).
		Float64("browser_rps", cfg.BrowserRateLimitRPS).
		Msg("Rate limiters initialized")

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	static := engine.NewStaticExtractor(
		httpClient,
		pageCache,
		staticLimiter,
		cfg.HTTPTimeout,
		cfg.CacheTTL,
		cfg.UserAgent,
	)

	interactive := engine.NewInteractiveExtractor(engine.InteractiveOptions{
		Limiter:         browserLimiter,
		Headless:        cfg.BrowserHeadless,
		ChromePath:      cfg.ChromePath,
		UserAgent:       cfg.UserAgent,
		Timeout:         cfg.BrowserTimeout,
		InteractTimeout: cfg.InteractTimeout,
		SettleDelay:     cfg.SettleDelay,
	})
	logger.Debug().Msg("Extractors initialized")

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		Cache:       pageCache,
		RateLimiter: staticLimiter,
		HTTPClient:  httpClient,
		Static:      static,
		Interactive: interactive,
		startTime:   time.Now(),
	}

	logger.Debug().Msg("Application initialized")
	return app, nil
}

// EnsureStore lazily opens the database connection pool on first use.
func (a *Application) EnsureStore(ctx context.Context) (*store.Store, error) {
	if a == nil {
		return nil, fmt.Errorf("application is nil")
	}

	a.storeMu.Lock()
	defer a.storeMu.Unlock()

	if a.store != nil {
		return a.store, nil
	}

	if a.Config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	a.Logger.Debug().Msg("Opening database pool on demand")
	s, err := store.Open(ctx, a.Config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	a.store = s
	a.Logger.Info().Msg("Database pool opened")
	return s, nil
}

// Pipeline builds the extract-load orchestrator. It opens the database
// connection if loading is requested.
func (a *Application) Pipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	s, err := a.EnsureStore(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.New(a.Static, a.Interactive, pipeline.NewStoreLoader(s), a.Config.OutputDir), nil
}

// Close gracefully shuts down the application and all its resources.
// Any errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	a.storeMu.Lock()
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	a.storeMu.Unlock()

	if a.Cache != nil {
		a.Cache.Clear()
	}

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
