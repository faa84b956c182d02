package store

import "time"

// Session kinds as stored in the sessions table. These mirror
// session.KindWork and session.KindRest; the store keeps its own constants
// so it has no dependency on the session package.
const (
	KindWork = "work"
	KindRest = "rest"
)

// SessionRecord is one immutable row of the append-only session log,
// written exactly once when a session ends (completed or cancelled) and
// never mutated except via ClearAllData.
type SessionRecord struct {
	ID              int64
	Date            string // local calendar-day bucket, stats.DateLayout
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int
	Kind            string
	Completed       bool
	TasksCompleted  int
}

// DailyAggregate is the persisted per-day summary row. It is a cache: it is
// always derivable by recomputing stats.ComputeDaily over the date's
// session rows, and UpdateDailyStats re-derives it on every write.
type DailyAggregate struct {
	Date                  string
	TotalWorkSeconds      int
	TotalSessions         int
	TotalTasksCompleted   int
	AverageSessionSeconds float64
	LastUpdated           time.Time
}
