package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/cric-stats/harvest/internal/cache"
	"github.com/cric-stats/harvest/internal/ratelimit"
	"github.com/cric-stats/harvest/internal/retry"
	"github.com/cric-stats/harvest/pkg/models"
)

// StaticExtractor pulls batting leaderboards from the statically rendered
// stat page. It uses raw HTTP requests and goquery for parsing.
type StaticExtractor struct {
	client   *http.Client
	cache    cache.Cache
	limiter  ratelimit.RateLimiter
	timeout  time.Duration
	cacheTTL time.Duration
	ua       string
}

// NewStaticExtractor creates a StaticExtractor with its dependencies.
func NewStaticExtractor(client *http.Client, c cache.Cache, lim ratelimit.RateLimiter, timeout, cacheTTL time.Duration, ua string) *StaticExtractor {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &StaticExtractor{
		client:   client,
		cache:    c,
		limiter:  lim,
		timeout:  timeout,
		cacheTTL: cacheTTL,
		ua:       ua,
	}
}

// Name returns the name of this extractor.
func (s *StaticExtractor) Name() string {
	return "StaticExtractor"
}

// Extract fetches the stat page once and parses the batting leaderboard:
// the featured block is synthesized as rank 1, then every body row in
// document order.
func (s *StaticExtractor) Extract(ctx context.Context, src models.Source) ([]models.RawRow, error) {
	start := time.Now()

	log.Debug().
		Str("url", src.URL).
		Str("format", src.Format).
		Str("extractor", s.Name()).
		Msg("Starting extraction")

	html, err := s.fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, NewEngineError(ErrCodeParseError, "failed to parse HTML", err)
	}

	rows, err := parseBattingDocument(doc)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("url", src.URL).
		Int("rows", len(rows)).
		Dur("elapsed", time.Since(start)).
		Msg("Extraction completed")

	return rows, nil
}

// fetch retrieves the page body, consulting the page cache first and
// retrying transient failures with backoff.
func (s *StaticExtractor) fetch(ctx context.Context, url string) (string, error) {
	if s.cache != nil {
		if html, ok := s.cache.Get(url); ok {
			return html, nil
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, url); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var html string
	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", s.ua)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return retry.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		html = string(body)
		return nil
	})
	if err != nil {
		return "", NewEngineError(ErrCodeNetworkError, "failed to fetch stat page", err)
	}

	if s.cache != nil {
		s.cache.Set(url, html, s.cacheTTL)
	}
	return html, nil
}

// parseBattingDocument extracts the featured row plus body rows. A
// missing featured block only drops that row; a missing table container
// yields ErrTableNotFound.
func parseBattingDocument(doc *goquery.Document) ([]models.RawRow, error) {
	var rows []models.RawRow

	if block := doc.Find(selFeaturedBlock).First(); block.Length() > 0 {
		row := models.RawRow{"1", featuredName(block)}
		block.Find("table td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Find("p").First().Text()))
		})
		rows = append(rows, row)
	} else {
		log.Warn().Msg("Featured player block not found, using body rows only")
	}

	wrapper := doc.Find(selTableWrapper).First()
	if wrapper.Length() == 0 {
		return nil, ErrTableNotFound
	}

	wrapper.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		var row models.RawRow
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			// Cells wrap the value in a styling sub-element; fall back to
			// the cell's own text when none is present.
			text := subElementText(td, "h6", "p")
			if text == "" {
				text = strings.TrimSpace(td.Text())
			}
			row = append(row, text)
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})

	return rows, nil
}
