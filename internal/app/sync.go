package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/irmodoro/irmodoro/internal/config"
	"github.com/irmodoro/irmodoro/internal/output"
	"github.com/irmodoro/irmodoro/internal/remote"
	"github.com/irmodoro/irmodoro/internal/store"
)

var syncShow bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror focus totals to the remote profile service",
	Long: `Sync pushes all-time focus totals to the configured remote profile
service. The local database stays authoritative; sync is one-way and
best-effort. Requires remote.enabled and remote.base_url in the config.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncShow, "show", false, "Also fetch and print the remote profile after pushing")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Remote.Enabled || cfg.Remote.BaseURL == "" {
		return fmt.Errorf("remote sync is not configured (set remote.enabled and remote.base_url)")
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	workSeconds, sessions, _, err := db.GetTotals()
	if err != nil {
		return err
	}

	userID, err := remote.LoadUserID(config.UserIDPath())
	if err != nil {
		return err
	}

	client := remote.New(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Remote.Timeout)
	defer cancel()

	err = client.SaveProfile(ctx, remote.Profile{
		UserID:            userID,
		TotalFocusMinutes: workSeconds / 60,
		TotalSessions:     sessions,
		LastActive:        time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("pushing profile: %w", err)
	}
	fmt.Printf("Synced %s of focus across %d sessions as %s\n",
		output.Clock(time.Duration(workSeconds)*time.Second), sessions, userID)

	if syncShow {
		profile, err := client.GetStats(ctx, userID)
		if err != nil {
			return fmt.Errorf("fetching profile: %w", err)
		}
		if profile == nil {
			fmt.Println("Remote has no profile yet.")
			return nil
		}
		fmt.Printf("Remote totals: %d focus minutes, %d sessions\n",
			profile.TotalFocusMinutes, profile.TotalSessions)
	}
	return nil
}
