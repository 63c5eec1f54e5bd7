// Package cli implements the Codexa command-line interface using Cobra.
// Subcommands cover the daemon (serve) and quick terminal views of a
// learner's progression (stats, quests, achievements, shop, activity).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codexa",
	Short: "Codexa — offline gamified learning",
	Long: `Codexa is an offline-first gamified learning backend.
Quizzes, XP, levels, streaks, quests, and an AI study buddy, all local.`,
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
