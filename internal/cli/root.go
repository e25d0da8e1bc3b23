// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cric-stats/harvest/internal/app"
	"github.com/cric-stats/harvest/internal/config"
	"github.com/cric-stats/harvest/pkg/models"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "harvest",
	Short:   "Harvest cricket leaderboard statistics into Postgres",
	Long:    `Harvest scrapes the public BCCI stats pages for Test and ODI batting and bowling leaderboards, stages them as CSV artifacts, and loads them into a relational store keyed by player identity.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Lazily initialize the application before running commands (avoid starting app for -h/help)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp() != nil {
			return nil
		}

		cfg, err := config.Load(rootCmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()
		a, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}

		SetApp(cmd, a)
		return nil
	}

	// Ensure app is closed after command runs
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		a := GetApp()
		if a == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.HTTPTimeout)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("Shutdown error")
		}
		SetApp(cmd, nil)
	}
}

// resolveFormats turns positional format args into the configured list,
// defaulting to every configured format when none are given.
func resolveFormats(cfg *config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		return cfg.Formats(), nil
	}

	known := make([]string, 0, len(cfg.SourceURLs))
	for token := range cfg.SourceURLs {
		known = append(known, token)
	}
	sort.Strings(known)

	out := make([]string, 0, len(args))
	for _, arg := range args {
		token := strings.ToLower(arg)
		if _, ok := cfg.SourceURLs[token]; !ok {
			return nil, fmt.Errorf("unknown format %q (known: %s)", arg, strings.Join(known, ", "))
		}
		out = append(out, token)
	}
	return out, nil
}

// sourcesFor maps format tokens to their configured stats page URLs.
func sourcesFor(cfg *config.Config, formats []string) []models.Source {
	out := make([]models.Source, 0, len(formats))
	for _, f := range formats {
		out = append(out, models.Source{Format: f, URL: cfg.SourceURLs[f]})
	}
	return out
}

// resolveKinds parses the --kind flag shared by scrape and load.
func resolveKinds(kind string) ([]models.StatKind, error) {
	switch strings.ToLower(kind) {
	case "", "all":
		return []models.StatKind{models.KindBatting, models.KindBowling}, nil
	case "batting":
		return []models.StatKind{models.KindBatting}, nil
	case "bowling":
		return []models.StatKind{models.KindBowling}, nil
	}
	return nil, fmt.Errorf("invalid kind %q (must be batting, bowling, or all)", kind)
}
