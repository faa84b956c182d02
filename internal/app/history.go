package app

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/irmodoro/irmodoro/internal/config"
	"github.com/irmodoro/irmodoro/internal/output"
	"github.com/irmodoro/irmodoro/internal/stats"
	"github.com/irmodoro/irmodoro/internal/store"
)

var (
	historyFrom string
	historyTo   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List logged sessions in a date range",
	Long: `History lists individual session records. With no flags it shows the
last seven days.

Examples:
  irmodoro history
  irmodoro history --from 2026-08-01 --to 2026-08-15`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFrom, "from", "", "Start date (YYYY-MM-DD, inclusive)")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "End date (YYYY-MM-DD, inclusive)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	from := historyFrom
	to := historyTo
	if to == "" {
		to = stats.DateOf(time.Now())
	}
	if from == "" {
		from = stats.DateOf(time.Now().AddDate(0, 0, -6))
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse(stats.DateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", d)
		}
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	records, err := db.GetSessionsByDateRange(from, to)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No sessions logged between %s and %s.\n", from, to)
		return nil
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartTime.Before(records[j].StartTime)
	})

	fmt.Println(output.Section(fmt.Sprintf("Sessions %s to %s", from, to)))
	fmt.Println()

	tbl := output.NewTable("Date", "Start", "Kind", "Duration", "Result", "Tasks")
	for _, rec := range records {
		result := output.StyleSuccess.Render("completed")
		if !rec.Completed {
			result = output.StyleError.Render("cancelled")
		}
		tbl.AddRow(
			rec.Date,
			rec.StartTime.Local().Format("15:04"),
			kindLabel(rec.Kind),
			output.Clock(time.Duration(rec.DurationSeconds)*time.Second),
			result,
			fmt.Sprintf("%d", rec.TasksCompleted),
		)
	}
	tbl.Print()

	fmt.Printf("\n%d sessions\n", len(records))
	return nil
}
