// Package cli provides the command-line interface for the harvest application.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/cric-stats/harvest/internal/app"
)

// Global reference - commands run one at a time so a single slot suffices.
var globalApp *app.Application

// SetApp stores the Application for commands to access.
func SetApp(_ *cobra.Command, a *app.Application) {
	globalApp = a
}

// GetApp retrieves the current Application.
func GetApp() *app.Application {
	return globalApp
}
