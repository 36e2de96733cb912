package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/comps/pkg/config"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "comps",
	Short: "MLB player-season similarity engine",
	Long: `Comps Unified CLI

Builds player-season and pitch-type datasets from public leaderboards
and serves similarity comps over a REST API.

Usage:
  go run ./cmd/comps [command]

Examples:
  go run ./cmd/comps api
  go run ./cmd/comps build
  go run ./cmd/comps similar 592450 2024
  go run ./cmd/comps status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// applyGlobalFlags overrides config values from the persistent flags.
func applyGlobalFlags(cfg *config.Config) {
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
}
