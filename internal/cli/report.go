// internal/cli/report.go
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cric-stats/harvest/internal/ui"
)

var (
	reportLimit  int
	reportFormat string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Query leaderboard reports from loaded data",
	Long: `Read-only reports over previously loaded statistics. Players are
matched by exact name and compared by resolved identity.`,
}

var topRunsCmd = &cobra.Command{
	Use:   "top-runs",
	Short: "Highest run aggregates across formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetApp().EnsureStore(cmd.Context())
		if err != nil {
			return err
		}
		entries, err := s.TopRunScorers(cmd.Context(), reportLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "%s\n", ui.Bold("PLAYER\tFORMAT\tMATCHES\tRUNS"))
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", e.Player, e.Format, e.Matches, e.Runs)
		}
		return w.Flush()
	},
}

var topWicketsCmd = &cobra.Command{
	Use:   "top-wickets",
	Short: "Highest wicket aggregates across formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetApp().EnsureStore(cmd.Context())
		if err != nil {
			return err
		}
		entries, err := s.TopWicketTakers(cmd.Context(), reportLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "%s\n", ui.Bold("PLAYER\tFORMAT\tMATCHES\tWICKETS"))
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", e.Player, e.Format, e.Matches, e.Wickets)
		}
		return w.Flush()
	},
}

var allRoundersCmd = &cobra.Command{
	Use:   "all-rounders",
	Short: "Players appearing on both batting and bowling tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetApp().EnsureStore(cmd.Context())
		if err != nil {
			return err
		}
		names, err := s.AllRounders(cmd.Context(), reportLimit)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(os.Stdout, name)
		}
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <player-a> <player-b>",
	Short: "Compare two players' match counts in one format",
	Example: `  harvest report compare "Virat Kohli" "Rohit Sharma" --format odi`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetApp().EnsureStore(cmd.Context())
		if err != nil {
			return err
		}
		a, b, err := s.CompareMatches(cmd.Context(), args[0], args[1], reportFormat)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "%s: %d matches\n", args[0], a)
		fmt.Fprintf(os.Stdout, "%s: %d matches\n", args[1], b)
		switch {
		case a > b:
			fmt.Fprintf(os.Stdout, "%s leads by %d\n", ui.Bold(args[0]), a-b)
		case b > a:
			fmt.Fprintf(os.Stdout, "%s leads by %d\n", ui.Bold(args[1]), b-a)
		default:
			fmt.Fprintln(os.Stdout, "level")
		}
		return nil
	},
}

var gapCmd = &cobra.Command{
	Use:   "gap <player>",
	Short: "Matches needed to reach the fifth-highest match count",
	Example: `  harvest report gap "Cheteshwar Pujara"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetApp().EnsureStore(cmd.Context())
		if err != nil {
			return err
		}
		fifth, current, gap, err := s.FifthPositionGap(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "fifth-highest match count: %d\n", fifth)
		fmt.Fprintf(os.Stdout, "%s: %d matches\n", args[0], current)
		if gap > 0 {
			fmt.Fprintf(os.Stdout, "%d more matches to reach fifth place\n", gap)
		} else {
			fmt.Fprintln(os.Stdout, "already at or above fifth place")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(topRunsCmd, topWicketsCmd, allRoundersCmd, compareCmd, gapCmd)

	reportCmd.PersistentFlags().IntVar(&reportLimit, "limit", 10, "Maximum rows to return")
	reportCmd.PersistentFlags().StringVar(&reportFormat, "format", "odi", "Format for comparisons: test or odi")
}
