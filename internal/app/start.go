package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/irmodoro/irmodoro/internal/config"
	"github.com/irmodoro/irmodoro/internal/notify"
	"github.com/irmodoro/irmodoro/internal/output"
	"github.com/irmodoro/irmodoro/internal/remote"
	"github.com/irmodoro/irmodoro/internal/session"
	"github.com/irmodoro/irmodoro/internal/stats"
	"github.com/irmodoro/irmodoro/internal/store"
)

var (
	startKind     string
	startDuration time.Duration
	startAuto     bool
	startSets     int
	startTasks    int
	startQuiet    bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run a work or rest session in the foreground",
	Long: `Start runs a timed session with a live countdown. The session is logged
when it ends, whether it ran to completion or was cancelled with Ctrl-C.

Examples:
  irmodoro start                      # one work session (default 25m)
  irmodoro start --kind rest          # one rest break (default 5m)
  irmodoro start --duration 45m       # override the session length
  irmodoro start --auto               # work/rest through the whole set plan
  irmodoro start --auto --sets 2      # a shorter round`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&startKind, "kind", "work", "Session kind: work or rest")
	startCmd.Flags().DurationVar(&startDuration, "duration", 0, "Session length (default from config: 25m work, 5m rest)")
	startCmd.Flags().BoolVar(&startAuto, "auto", false, "Chain work and rest sessions through the set plan")
	startCmd.Flags().IntVar(&startSets, "sets", 0, "Number of work sets for --auto (default from config: 4)")
	startCmd.Flags().IntVar(&startTasks, "tasks", 0, "Tasks to credit to each work session's record")
	startCmd.Flags().BoolVar(&startQuiet, "quiet", false, "Suppress the live countdown, only print session results")

	rootCmd.AddCommand(startCmd)
}

// noopNotifier drops notifications when they are disabled in config.
type noopNotifier struct{}

func (noopNotifier) Send(session.Notification) error { return nil }

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	kind, err := parseKind(startKind)
	if err != nil {
		return err
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		// Persistence is best-effort: a broken database must not stop the
		// countdown. Fall back to an in-memory store and say so.
		fmt.Fprintf(os.Stderr, "warning: %v; this run will not be saved\n", err)
		db, err = store.OpenInMemory()
		if err != nil {
			return err
		}
	}
	defer func() { _ = db.Close() }()

	var notifier session.Notifier = noopNotifier{}
	if cfg.Notifications.Enabled {
		notifier = &notify.Desktop{Silent: startQuiet}
	}

	coord := session.NewCoordinator(db, notifier)
	coord.AutoAdvance = startAuto
	coord.Logf = func(format string, a ...any) {
		fmt.Fprintf(os.Stderr, "warning: "+format+"\n", a...)
	}

	events := make(chan session.Event, 64)
	coord.Subscribe(func(ev session.Event) { events <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown; the coordinator ends the
	// active session as cancelled on its way out.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		<-sigCh
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return coord.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return runSessions(gctx, cfg, coord, events, kind)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runSessions drives one session, or the whole set plan with --auto,
// rendering coordinator events as they arrive.
func runSessions(ctx context.Context, cfg *config.Config, coord *session.Coordinator, events <-chan session.Event, kind session.Kind) error {
	totalSets := cfg.Durations.TotalSets
	if startSets > 0 {
		totalSets = startSets
	}
	if !startAuto {
		totalSets = 1
	}
	plan := session.NewSetPlan(
		durationFor(cfg, session.KindWork),
		durationFor(cfg, session.KindRest),
		totalSets,
	)

	for {
		planKind, planDuration, done := plan.Next()
		if done {
			if !startQuiet {
				fmt.Printf("\nAll %d sets complete. %s\n", totalSets, output.StyleSuccess.Render("Well done."))
			}
			return nil
		}
		if !startAuto {
			planKind = kind
			planDuration = durationFor(cfg, kind)
			if startDuration > 0 {
				planDuration = startDuration
			}
		}

		if _, err := coord.StartSession(ctx, planKind, planDuration); err != nil {
			return err
		}
		if startTasks > 0 && planKind == session.KindWork {
			if err := coord.AddTasksCompleted(ctx, startTasks); err != nil {
				return err
			}
		}
		if !startQuiet {
			fmt.Printf("%s\n", sessionHeader(planKind, planDuration, plan.CurrentSet(), totalSets))
		}

		rec, err := awaitEnd(ctx, events, planDuration)
		if err != nil {
			return err
		}
		printResult(rec)

		if cfg.Remote.Enabled && rec.Completed && rec.Kind == store.KindWork {
			mirrorSession(rec, cfg)
		}

		if !startAuto || !rec.Completed {
			return nil
		}
		plan.Advance()
	}
}

// awaitEnd consumes events for the active session until its terminal
// SessionEnded arrives. The coordinator guarantees that event is emitted
// even when the run context is cancelled mid-session.
func awaitEnd(ctx context.Context, events <-chan session.Event, planned time.Duration) (*store.SessionRecord, error) {
	for {
		select {
		case ev := <-events:
			switch ev.Type {
			case session.EventSessionTimeUpdate:
				if !startQuiet {
					fmt.Printf("\r  %s ", output.CountdownBar(ev.Elapsed, planned, 25))
				}
			case session.EventSessionEnded:
				if !startQuiet {
					fmt.Print("\r\x1b[K")
				}
				return ev.Record, nil
			}
		case <-ctx.Done():
			// Drain: the terminal event is already queued (or about to be)
			// by the coordinator's shutdown path.
			for {
				select {
				case ev := <-events:
					if ev.Type == session.EventSessionEnded {
						if !startQuiet {
							fmt.Print("\r\x1b[K")
						}
						return ev.Record, nil
					}
				case <-time.After(time.Second):
					return nil, ctx.Err()
				}
			}
		}
	}
}

// printResult prints a one-line summary of a finished session.
func printResult(rec *store.SessionRecord) {
	if rec == nil {
		return
	}
	verdict := output.StyleSuccess.Render("completed")
	if !rec.Completed {
		verdict = output.StyleError.Render("cancelled")
	}
	fmt.Printf("  %s session %s after %s\n",
		kindLabel(rec.Kind), verdict, output.Clock(time.Duration(rec.DurationSeconds)*time.Second))
}

// mirrorSession pushes a completed work session to the remote profile
// service. Failures are reported and otherwise ignored; local data stays
// authoritative.
func mirrorSession(rec *store.SessionRecord, cfg *config.Config) {
	userID, err := remote.LoadUserID(config.UserIDPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: remote sync skipped: %v\n", err)
		return
	}

	client := remote.New(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Remote.Timeout)
	defer cancel()

	err = client.SaveFocusSession(ctx, remote.FocusSession{
		UserID:       userID,
		FocusMinutes: rec.DurationSeconds / 60,
		Kind:         rec.Kind,
		Date:         stats.DateOf(rec.StartTime),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: remote sync failed: %v\n", err)
	}
}

func parseKind(s string) (session.Kind, error) {
	switch s {
	case "work":
		return session.KindWork, nil
	case "rest":
		return session.KindRest, nil
	default:
		return "", fmt.Errorf("invalid kind %q: must be work or rest", s)
	}
}

func durationFor(cfg *config.Config, kind session.Kind) time.Duration {
	if kind == session.KindRest {
		return cfg.Durations.Rest
	}
	return cfg.Durations.Work
}

func kindLabel(kind string) string {
	if kind == store.KindRest {
		return output.StyleWarning.Render("rest")
	}
	return output.StyleHeader.Render("work")
}

func sessionHeader(kind session.Kind, d time.Duration, set, totalSets int) string {
	label := kindLabel(string(kind))
	if totalSets > 1 {
		return fmt.Sprintf("Set %d/%d: %s session (%s)", set, totalSets, label, output.Clock(d))
	}
	return fmt.Sprintf("%s session (%s)", label, output.Clock(d))
}
