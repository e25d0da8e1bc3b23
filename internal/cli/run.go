// internal/cli/run.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [format...]",
	Short: "Scrape and load in one pass",
	Long: `Runs the full harvest: extracts every configured leaderboard, stages
the CSV artifacts, and loads them into the database. A missing table
or page skips only that combination; the rest of the run proceeds.`,
	Example: `  # Full harvest of Test and ODI stats
  harvest run

  # ODI only
  harvest run odi`,
	Args: cobra.ArbitraryArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a := GetApp()

	formats, err := resolveFormats(a.Config, args)
	if err != nil {
		return err
	}

	p, err := a.Pipeline(cmd.Context())
	if err != nil {
		return err
	}

	res := p.Run(cmd.Context(), sourcesFor(a.Config, formats))

	printResult(res)
	if len(res.Errors) > 0 {
		return fmt.Errorf("%d combination(s) failed", len(res.Errors))
	}
	return nil
}
