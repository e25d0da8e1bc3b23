// internal/cli/scrape.go
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cric-stats/harvest/internal/engine"
	"github.com/cric-stats/harvest/internal/pipeline"
	"github.com/cric-stats/harvest/internal/ui"
)

var scrapeKind string

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [format...]",
	Short: "Extract leaderboards and stage them as CSV artifacts",
	Long: `Fetches the configured stats pages and writes one CSV per format and
stat kind under the output directory. The batting table is parsed from
the static page; the bowling table requires a headless browser session
that activates the bowling records view first.

No database connection is needed; use "harvest load" afterwards.`,
	Example: `  # Scrape every configured format
  harvest scrape

  # Only the ODI pages
  harvest scrape odi

  # Only bowling tables, with a visible browser window
  harvest scrape --kind bowling --headed`,
	Args: cobra.ArbitraryArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.Flags().StringVar(&scrapeKind, "kind", "all", "Stat kind to scrape: batting, bowling, or all")
}

func runScrape(cmd *cobra.Command, args []string) error {
	a := GetApp()

	formats, err := resolveFormats(a.Config, args)
	if err != nil {
		return err
	}
	kinds, err := resolveKinds(scrapeKind)
	if err != nil {
		return err
	}

	// Extraction only, so no loader is wired in.
	p := pipeline.New(a.Static, a.Interactive, nil, a.Config.OutputDir)

	var written, missing, failed int
	for _, src := range sourcesFor(a.Config, formats) {
		for _, kind := range kinds {
			rows, err := p.Scrape(cmd.Context(), kind, src)
			switch {
			case errors.Is(err, engine.ErrTableNotFound):
				missing++
				fmt.Fprintf(os.Stdout, "%s %s/%s: no data table found\n", ui.Info("skip"), kind, src.Format)
			case err != nil:
				failed++
				log.Error().Err(err).Str("kind", string(kind)).Str("format", src.Format).Msg("Scrape failed")
				fmt.Fprintf(os.Stdout, "%s %s/%s: %v\n", ui.Error("fail"), kind, src.Format, err)
			default:
				written++
				fmt.Fprintf(os.Stdout, "%s %s/%s: %d rows\n", ui.Success("ok"), kind, src.Format, rows)
			}
		}
	}

	fmt.Fprintf(os.Stdout, "\n%s written=%d missing=%d failed=%d\n", ui.Bold("scrape:"), written, missing, failed)
	if failed > 0 {
		return fmt.Errorf("%d combination(s) failed", failed)
	}
	return nil
}
