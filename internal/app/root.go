// Package app contains the Cobra command tree for irmodoro.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irmodoro/irmodoro/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "irmodoro",
	Short: "Pomodoro timer with local session statistics",
	Long: `irmodoro is a Pomodoro-style focus timer. It runs timed work and rest
sessions, logs every finished session to a local SQLite database, and keeps
per-day focus statistics derived from that log.

Run 'irmodoro start' to begin a work session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("irmodoro", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  start     Run a work or rest session in the foreground")
		fmt.Println("  stats     Show this week's focus statistics")
		fmt.Println("  history   List logged sessions in a date range")
		fmt.Println("  sync      Mirror focus totals to the remote profile service")
		fmt.Println("  clear     Erase all logged sessions and statistics")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		output.AutoDetect()
		if flagNoColor {
			output.SetNoColor(true)
		}
	})

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/irmodoro/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}
