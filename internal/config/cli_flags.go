package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
	cmd.PersistentFlags().String("timeout", "30s", "Set hard timeout for HTTP requests")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("output-dir", "", "Directory for CSV artifacts (default csv_files)")
	cmd.PersistentFlags().String("database-url", "", "Postgres connection string (overrides DATABASE_URL)")
	cmd.PersistentFlags().String("chrome-path", "", "Path to the Chrome/Chromium binary")
	cmd.PersistentFlags().Bool("headed", false, "Run the browser with a visible window")
}
