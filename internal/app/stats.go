package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/irmodoro/irmodoro/internal/config"
	"github.com/irmodoro/irmodoro/internal/output"
	"github.com/irmodoro/irmodoro/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show this week's focus statistics",
	Long: `Stats shows the per-day focus summary for the current calendar week,
Monday through Sunday. Days without any logged work sessions show as zero.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := store.Open(config.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	week, err := db.GetWeeklyStats(time.Now())
	if err != nil {
		return err
	}

	fmt.Println(output.Section("This week"))
	fmt.Println()

	tbl := output.NewTable("Day", "Date", "Focus", "Sessions", "Tasks", "Avg")
	today := time.Now()

	var totalSeconds, totalSessions, totalTasks int
	for _, day := range week {
		date, _ := time.ParseInLocation("2006-01-02", day.Date, time.Local)

		focus := output.Clock(time.Duration(day.TotalWorkSeconds) * time.Second)
		if day.TotalWorkSeconds == 0 {
			focus = output.StyleMuted.Render("--")
		}
		avg := output.StyleMuted.Render("--")
		if day.TotalSessions > 0 {
			avg = output.Clock(time.Duration(day.AverageSessionSeconds) * time.Second)
		}

		name := date.Format("Mon")
		if sameDay(date, today) {
			name = output.StyleBold.Render(name)
		}

		tbl.AddRow(
			name,
			day.Date,
			focus,
			fmt.Sprintf("%d", day.TotalSessions),
			fmt.Sprintf("%d", day.TotalTasksCompleted),
			avg,
		)

		totalSeconds += day.TotalWorkSeconds
		totalSessions += day.TotalSessions
		totalTasks += day.TotalTasksCompleted
	}
	tbl.Print()

	fmt.Printf("\nTotal: %s focused over %d sessions, %d tasks done\n",
		output.StyleSuccess.Render(output.Clock(time.Duration(totalSeconds)*time.Second)),
		totalSessions, totalTasks)
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
