// Package cli wires the activitybot commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "activitybot",
	Short: "Telegram bot for tracking daily activities and goals",
	Long: `activitybot is a Telegram bot for logging activities in natural language
("exercise 30m", "reading 1h great book"), setting daily or weekly goals
and keeping streaks.

Data lives either in a Turso/SQLite database or in each user's own
Google Sheet, selected with the BACKEND environment variable.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
