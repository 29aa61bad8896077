// Package cli implements the Transforma command-line interface using Cobra.
// Each subcommand maps to a scoring-engine capability (serve, award,
// status, achievements, streak).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "transforma",
	Short: "Transforma — scoring & achievement engine",
	Long: `Transforma is the gamification backend of the Transforma app.
It credits points for user actions, derives levels and rank titles,
tracks streaks, and unlocks achievement badges.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
