package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/irmodoro/irmodoro/internal/config"
	"github.com/irmodoro/irmodoro/internal/store"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase all logged sessions and statistics",
	Long: `Clear irreversibly deletes every session record and daily aggregate
from the local database. Requires --yes.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deletion")

	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to delete all data without --yes")
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.ClearAllData(); err != nil {
		return err
	}
	fmt.Println("All session data cleared.")
	return nil
}
