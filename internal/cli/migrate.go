// internal/cli/migrate.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cric-stats/harvest/internal/ui"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long: `Creates the players, formats, batting_stats, and bowling_stats tables
and seeds the supported formats. Every statement is idempotent, so the
command is safe to run against an existing database.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a := GetApp()

	s, err := a.EnsureStore(cmd.Context())
	if err != nil {
		return err
	}

	if err := s.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	fmt.Fprintf(os.Stdout, "%s schema is up to date\n", ui.Success("ok"))
	return nil
}
