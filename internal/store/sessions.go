package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/irmodoro/irmodoro/internal/stats"
)

// AddSession appends a SessionRecord to the session log and returns the
// store-assigned id. The record's Date is derived from its StartTime if
// unset. Before returning, the daily aggregate for that date is recomputed,
// so readers never observe a row without its rollup.
func (db *DB) AddSession(rec *SessionRecord) (int64, error) {
	if rec.Date == "" {
		rec.Date = stats.DateOf(rec.StartTime)
	}

	result, err := db.conn.Exec(
		`INSERT INTO sessions
		(date, start_time, end_time, duration_seconds, kind, completed, tasks_completed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Date, rec.StartTime.UnixMilli(), rec.EndTime.UnixMilli(),
		rec.DurationSeconds, rec.Kind, rec.Completed, rec.TasksCompleted,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	rec.ID = id

	if err := db.UpdateDailyStats(rec.Date); err != nil {
		return id, fmt.Errorf("updating daily stats for %s: %w", rec.Date, err)
	}
	return id, nil
}

// GetSessionsByDateRange returns every session whose day bucket lies in the
// inclusive range [startDate, endDate]. An empty range returns an empty
// slice, never an error.
func (db *DB) GetSessionsByDateRange(startDate, endDate string) ([]SessionRecord, error) {
	rows, err := db.conn.Query(
		`SELECT id, date, start_time, end_time, duration_seconds, kind, completed, tasks_completed
		 FROM sessions WHERE date BETWEEN ? AND ?`,
		startDate, endDate,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var startMs, endMs int64
		if err := rows.Scan(
			&rec.ID, &rec.Date, &startMs, &endMs,
			&rec.DurationSeconds, &rec.Kind, &rec.Completed, &rec.TasksCompleted,
		); err != nil {
			return nil, err
		}
		rec.StartTime = time.UnixMilli(startMs)
		rec.EndTime = time.UnixMilli(endMs)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpdateDailyStats recomputes the aggregate for a date from scratch by
// re-querying all of that date's sessions, then upserts the result.
// Idempotent: calling it twice with no new rows yields the same aggregate.
func (db *DB) UpdateDailyStats(date string) error {
	records, err := db.GetSessionsByDateRange(date, date)
	if err != nil {
		return err
	}

	entries := make([]stats.Entry, len(records))
	for i, rec := range records {
		entries[i] = stats.Entry{
			Kind:            rec.Kind,
			DurationSeconds: rec.DurationSeconds,
			TasksCompleted:  rec.TasksCompleted,
		}
	}
	daily := stats.ComputeDaily(date, entries, time.Now())

	_, err = db.conn.Exec(
		`INSERT INTO daily_stats
		(date, total_work_seconds, total_sessions, total_tasks_completed, average_session_seconds, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_work_seconds      = excluded.total_work_seconds,
			total_sessions          = excluded.total_sessions,
			total_tasks_completed   = excluded.total_tasks_completed,
			average_session_seconds = excluded.average_session_seconds,
			last_updated            = excluded.last_updated`,
		daily.Date, daily.TotalWorkSeconds, daily.TotalSessions,
		daily.TotalTasksCompleted, daily.AverageSessionSeconds,
		daily.LastUpdated.UnixMilli(),
	)
	return err
}

// GetDailyStats returns the aggregate row for a date, or nil if none exists.
func (db *DB) GetDailyStats(date string) (*DailyAggregate, error) {
	row := db.conn.QueryRow(
		`SELECT date, total_work_seconds, total_sessions, total_tasks_completed, average_session_seconds, last_updated
		 FROM daily_stats WHERE date = ?`,
		date,
	)
	return scanDailyAggregate(row)
}

// GetWeeklyStats returns exactly seven aggregates for the calendar week
// containing now, Monday through Sunday. Days with no persisted aggregate
// come back as zero-valued placeholders rather than being omitted.
func (db *DB) GetWeeklyStats(now time.Time) ([]DailyAggregate, error) {
	dates := stats.WeekDates(now)

	week := make([]DailyAggregate, 0, len(dates))
	for _, date := range dates {
		agg, err := db.GetDailyStats(date)
		if err != nil {
			return nil, err
		}
		if agg == nil {
			agg = &DailyAggregate{Date: date}
		}
		week = append(week, *agg)
	}
	return week, nil
}

// GetTotals sums the daily aggregates into all-time focus totals.
func (db *DB) GetTotals() (workSeconds, sessions, tasks int, err error) {
	row := db.conn.QueryRow(
		`SELECT COALESCE(SUM(total_work_seconds), 0),
		        COALESCE(SUM(total_sessions), 0),
		        COALESCE(SUM(total_tasks_completed), 0)
		 FROM daily_stats`,
	)
	err = row.Scan(&workSeconds, &sessions, &tasks)
	return workSeconds, sessions, tasks, err
}

// ClearAllData irreversibly empties both the session log and the aggregate
// table. Intended for testing and explicit reset, not normal operation.
func (db *DB) ClearAllData() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM daily_stats"); err != nil {
		return err
	}
	return tx.Commit()
}

func scanDailyAggregate(row *sql.Row) (*DailyAggregate, error) {
	var agg DailyAggregate
	var updatedMs int64
	err := row.Scan(
		&agg.Date, &agg.TotalWorkSeconds, &agg.TotalSessions,
		&agg.TotalTasksCompleted, &agg.AverageSessionSeconds, &updatedMs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	agg.LastUpdated = time.UnixMilli(updatedMs)
	return &agg, nil
}
