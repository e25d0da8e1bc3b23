package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/cric-stats/harvest/internal/ratelimit"
	"github.com/cric-stats/harvest/pkg/models"
)

// Interactive-page controls. The bowling leaderboard only renders after
// the bowling tab and its "most wickets" menu item are activated.
const (
	selBowlingTab  = "#bowling-records"
	selMostWickets = "ul#bba-bowling li a[data-slug='bowling_top_wicket_takers']"
)

// InteractiveExtractor drives a headless Chrome session through the tab
// and menu interactions that reveal the bowling leaderboard, then parses
// the resulting DOM. Clicks are dispatched directly via JS because
// layered overlays on the page intercept simulated pointer events.
type InteractiveExtractor struct {
	limiter         ratelimit.RateLimiter
	headless        bool
	chromePath      string
	ua              string
	timeout         time.Duration // whole-session bound
	interactTimeout time.Duration // per element wait
	settleDelay     time.Duration // after each activation
}

// InteractiveOptions configures an InteractiveExtractor.
type InteractiveOptions struct {
	Limiter         ratelimit.RateLimiter
	Headless        bool
	ChromePath      string
	UserAgent       string
	Timeout         time.Duration
	InteractTimeout time.Duration
	SettleDelay     time.Duration
}

// NewInteractiveExtractor creates an InteractiveExtractor.
func NewInteractiveExtractor(opts InteractiveOptions) *InteractiveExtractor {
	if opts.Timeout == 0 {
		opts.Timeout = 90 * time.Second
	}
	if opts.InteractTimeout == 0 {
		opts.InteractTimeout = 20 * time.Second
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = 2 * time.Second
	}
	return &InteractiveExtractor{
		limiter:         opts.Limiter,
		headless:        opts.Headless,
		chromePath:      opts.ChromePath,
		ua:              opts.UserAgent,
		timeout:         opts.Timeout,
		interactTimeout: opts.InteractTimeout,
		settleDelay:     opts.SettleDelay,
	}
}

// Name returns the name of this extractor.
func (d *InteractiveExtractor) Name() string {
	return "InteractiveExtractor"
}

// Extract acquires a fresh browser session, reveals the bowling
// leaderboard, and parses it. The session is torn down unconditionally.
// Interaction failures are logged per step and that step's contribution
// is omitted rather than aborting the run.
func (d *InteractiveExtractor) Extract(ctx context.Context, src models.Source) ([]models.RawRow, error) {
	start := time.Now()

	log.Debug().
		Str("url", src.URL).
		Str("format", src.Format).
		Str("extractor", d.Name()).
		Bool("headless", d.headless).
		Msg("Starting extraction")

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, src.URL); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", d.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(d.ua),
	}
	if d.chromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(d.chromePath)}, allocOpts...)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var statusCode int64
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Response.URL == src.URL {
				statusCode = resp.Response.Status
			}
		}
	})

	if err := chromedp.Run(browserCtx, network.Enable(), chromedp.Navigate(src.URL)); err != nil {
		return nil, NewEngineError(ErrCodeBrowserError, "failed to navigate to stat page", err)
	}
	log.Debug().Int64("status", statusCode).Msg("Stat page loaded")

	// Reveal the bowling leaderboard. Each activation is bounded and
	// non-fatal: a missing control just leaves the table unrendered.
	if err := d.activate(browserCtx, selBowlingTab); err != nil {
		log.Warn().Err(err).Str("selector", selBowlingTab).Msg("Bowling tab activation failed")
	}
	if err := d.activate(browserCtx, selMostWickets); err != nil {
		log.Warn().Err(err).Str("selector", selMostWickets).Msg("Most-wickets activation failed")
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, NewEngineError(ErrCodeBrowserError, "failed to capture DOM", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, NewEngineError(ErrCodeParseError, "failed to parse captured DOM", err)
	}

	rows, err := parseBowlingDocument(doc)
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

// activate waits for the element to become interactable, then dispatches
// a click directly on it and lets the page settle.
func (d *InteractiveExtractor) activate(ctx context.Context, selector string) error {
	stepCtx, cancel := context.WithTimeout(ctx, d.interactTimeout)
	defer cancel()

	err := chromedp.Run(stepCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(`document.querySelector(%q).click()`, selector), nil),
	)
	if err != nil {
		return err
	}
	return chromedp.Run(ctx, chromedp.Sleep(d.settleDelay))
}

// parseBowlingDocument extracts the featured row plus body rows from the
// interactive page's DOM snapshot. Cells prefer a short-label sub-element
// and otherwise take only the first line of their multi-line text. Rows
// with fewer than 3 cells are incomplete renders and are discarded.
func parseBowlingDocument(doc *goquery.Document) ([]models.RawRow, error) {
	var rows []models.RawRow

	if block := doc.Find(selFeaturedBlock).First(); block.Length() > 0 {
		row := models.RawRow{"1", featuredName(block)}
		block.Find("table td").Each(func(_ int, td *goquery.Selection) {
			text := subElementText(td, "p")
			if text == "" {
				text = firstLine(td.Text())
			}
			row = append(row, text)
		})
		rows = append(rows, row)
	} else {
		log.Warn().Msg("Featured player block not found, using body rows only")
	}

	wrapper := doc.Find(selTableWrapper).First()
	if wrapper.Length() == 0 {
		return nil, ErrTableNotFound
	}

	wrapper.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		var row models.RawRow
		tr.Find("td").Each(func(i int, td *goquery.Selection) {
			switch i {
			case 0: // rank
				row = append(row, strings.TrimSpace(td.Text()))
			case 1: // player name, split across h6/span parts
				var parts []string
				td.Find("h6, span").Each(func(_ int, s *goquery.Selection) {
					if t := strings.TrimSpace(s.Text()); t != "" {
						parts = append(parts, t)
					}
				})
				if len(parts) > 0 {
					row = append(row, strings.Join(parts, " "))
				} else {
					row = append(row, strings.TrimSpace(td.Text()))
				}
			default:
				text := subElementText(td, "h6")
				if text == "" {
					text = firstLine(td.Text())
				}
				row = append(row, text)
			}
		})
		if len(row) >= 3 {
			rows = append(rows, row)
		}
	})

	return rows, nil
}
