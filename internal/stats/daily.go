// Package stats computes derived statistics over the session log. It holds
// no state of its own: every aggregate is a pure function of the source
// records, recomputed in full on each call. Recompute-not-merge is
// deliberate; incremental counters drift when a write partially fails, a
// full recompute cannot.
package stats

import "time"

// DateLayout is the calendar-day bucket format used throughout the store.
// Lexicographic order matches chronological order, which keeps date-range
// queries a plain string BETWEEN.
const DateLayout = "2006-01-02"

// DateOf returns the local-timezone day bucket for a timestamp.
func DateOf(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// Entry is the slice of a session record the aggregator needs.
type Entry struct {
	Kind            string // "work" or "rest"
	DurationSeconds int
	TasksCompleted  int
}

// Daily is the derived per-day summary. Only work sessions contribute;
// rest breaks are logged but not counted toward focus totals.
type Daily struct {
	Date                  string
	TotalWorkSeconds      int
	TotalSessions         int
	TotalTasksCompleted   int
	AverageSessionSeconds float64
	LastUpdated           time.Time
}

// ComputeDaily recomputes the Daily aggregate for a date from all of that
// date's entries. Idempotent: the same entries always produce the same
// aggregate (modulo LastUpdated).
func ComputeDaily(date string, entries []Entry, now time.Time) Daily {
	d := Daily{Date: date, LastUpdated: now}
	for _, e := range entries {
		if e.Kind != "work" {
			continue
		}
		d.TotalWorkSeconds += e.DurationSeconds
		d.TotalSessions++
		d.TotalTasksCompleted += e.TasksCompleted
	}
	if d.TotalSessions > 0 {
		d.AverageSessionSeconds = float64(d.TotalWorkSeconds) / float64(d.TotalSessions)
	}
	return d
}
