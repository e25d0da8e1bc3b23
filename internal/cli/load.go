// internal/cli/load.go
package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cric-stats/harvest/internal/pipeline"
	"github.com/cric-stats/harvest/internal/ui"
)

var loadKind string

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load [format...]",
	Short: "Load staged CSV artifacts into the database",
	Long: `Reads the CSV artifacts written by "harvest scrape" and upserts their
rows. Re-running is safe: players are resolved by name and each
(player, format) pair holds exactly one record per stat kind, updated
in place. Missing artifact files skip their combination.`,
	Example: `  # Load everything previously scraped
  harvest load

  # Load only Test bowling
  harvest load test --kind bowling`,
	Args: cobra.ArbitraryArgs,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&loadKind, "kind", "all", "Stat kind to load: batting, bowling, or all")
}

func runLoad(cmd *cobra.Command, args []string) error {
	a := GetApp()

	formats, err := resolveFormats(a.Config, args)
	if err != nil {
		return err
	}
	kinds, err := resolveKinds(loadKind)
	if err != nil {
		return err
	}

	p, err := a.Pipeline(cmd.Context())
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("loading rows"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	p.RowLoaded = func() { _ = bar.Add(1) }

	res := p.LoadAll(cmd.Context(), formats, kinds)
	_ = bar.Finish()

	printResult(res)
	if len(res.Errors) > 0 {
		return fmt.Errorf("%d combination(s) failed", len(res.Errors))
	}
	return nil
}

// printResult renders a per-combination table and the run summary.
func printResult(res *pipeline.Result) {
	for _, c := range res.Combos {
		switch {
		case c.Missing:
			fmt.Fprintf(os.Stdout, "%s %s/%s: no data\n", ui.Info("skip"), c.Kind, c.Format)
		default:
			fmt.Fprintf(os.Stdout, "%s %s/%s: loaded=%d skipped=%d\n",
				ui.Success("ok"), c.Kind, c.Format, c.Loaded, c.Skipped)
		}
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stdout, "%s %s\n", ui.Error("fail"), e)
	}
	fmt.Fprintf(os.Stdout, "\n%s %s\n", ui.Bold("result:"), res.Summary())
}
