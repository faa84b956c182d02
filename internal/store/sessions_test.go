package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irmodoro/irmodoro/internal/stats"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// mkRecord builds a work record starting at the given local date and time.
func mkRecord(date string, hour int, durSeconds int, kind string, completed bool, tasks int) *SessionRecord {
	day, _ := time.ParseInLocation(stats.DateLayout, date, time.Local)
	start := day.Add(time.Duration(hour) * time.Hour)
	return &SessionRecord{
		Date:            date,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(durSeconds) * time.Second),
		DurationSeconds: durSeconds,
		Kind:            kind,
		Completed:       completed,
		TasksCompleted:  tasks,
	}
}

func TestOpen_CreatesParentDirAndSchema(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir + "/nested/irmodoro.db")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// The schema is usable immediately.
	_, err = db.AddSession(mkRecord("2026-08-20", 9, 1500, KindWork, true, 0))
	assert.NoError(t, err)
}

func TestAddSession_AssignsIDAndDerivesDate(t *testing.T) {
	db := openTestDB(t)

	rec := mkRecord("", 9, 1500, KindWork, true, 1)
	rec.StartTime = time.Date(2026, 8, 20, 9, 0, 0, 0, time.Local)
	rec.EndTime = rec.StartTime.Add(1500 * time.Second)

	id, err := db.AddSession(rec)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "2026-08-20", rec.Date, "date derived from start time")

	id2, err := db.AddSession(mkRecord("2026-08-20", 10, 300, KindRest, true, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2, "ids auto-increment")
}

func TestAddSession_UpdatesDailyAggregate(t *testing.T) {
	db := openTestDB(t)

	_, err := db.AddSession(mkRecord("2026-08-20", 9, 1500, KindWork, true, 2))
	require.NoError(t, err)

	agg, err := db.GetDailyStats("2026-08-20")
	require.NoError(t, err)
	require.NotNil(t, agg, "aggregate upserted as a side effect of the write")
	assert.Equal(t, 1500, agg.TotalWorkSeconds)
	assert.Equal(t, 1, agg.TotalSessions)
	assert.Equal(t, 2, agg.TotalTasksCompleted)
	assert.Equal(t, 1500.0, agg.AverageSessionSeconds)
	assert.False(t, agg.LastUpdated.IsZero())
}

func TestDailyAggregate_MatchesRecomputeFromSource(t *testing.T) {
	db := openTestDB(t)

	// An arbitrary sequence of adds: work, rest, cancelled work, another day.
	adds := []*SessionRecord{
		mkRecord("2026-08-20", 9, 1500, KindWork, true, 1),
		mkRecord("2026-08-20", 10, 300, KindRest, true, 0),
		mkRecord("2026-08-20", 11, 700, KindWork, false, 0),
		mkRecord("2026-08-21", 9, 1200, KindWork, true, 3),
	}
	for _, rec := range adds {
		_, err := db.AddSession(rec)
		require.NoError(t, err)
	}

	for _, date := range []string{"2026-08-20", "2026-08-21"} {
		records, err := db.GetSessionsByDateRange(date, date)
		require.NoError(t, err)

		wantWork, wantCount, wantTasks := 0, 0, 0
		for _, rec := range records {
			if rec.Kind == KindWork {
				wantWork += rec.DurationSeconds
				wantCount++
				wantTasks += rec.TasksCompleted
			}
		}

		agg, err := db.GetDailyStats(date)
		require.NoError(t, err)
		require.NotNil(t, agg)
		assert.Equal(t, wantWork, agg.TotalWorkSeconds, date)
		assert.Equal(t, wantCount, agg.TotalSessions, date)
		assert.Equal(t, wantTasks, agg.TotalTasksCompleted, date)
	}
}

func TestUpdateDailyStats_Idempotent(t *testing.T) {
	db := openTestDB(t)

	_, err := db.AddSession(mkRecord("2026-08-20", 9, 600, KindWork, true, 0))
	require.NoError(t, err)

	first, err := db.GetDailyStats("2026-08-20")
	require.NoError(t, err)

	require.NoError(t, db.UpdateDailyStats("2026-08-20"))
	second, err := db.GetDailyStats("2026-08-20")
	require.NoError(t, err)

	assert.Equal(t, first.TotalWorkSeconds, second.TotalWorkSeconds)
	assert.Equal(t, first.TotalSessions, second.TotalSessions)
	assert.Equal(t, first.AverageSessionSeconds, second.AverageSessionSeconds)
}

func TestGetSessionsByDateRange_InclusiveBounds(t *testing.T) {
	db := openTestDB(t)

	for day := 18; day <= 22; day++ {
		date := fmt.Sprintf("2026-08-%02d", day)
		_, err := db.AddSession(mkRecord(date, 9, 1500, KindWork, true, 0))
		require.NoError(t, err)
	}

	records, err := db.GetSessionsByDateRange("2026-08-19", "2026-08-21")
	require.NoError(t, err)
	require.Len(t, records, 3)

	seen := map[string]bool{}
	for _, rec := range records {
		seen[rec.Date] = true
	}
	assert.True(t, seen["2026-08-19"], "start date is inclusive")
	assert.True(t, seen["2026-08-21"], "end date is inclusive")
	assert.False(t, seen["2026-08-18"])
	assert.False(t, seen["2026-08-22"])
}

func TestGetSessionsByDateRange_EmptyRangeReturnsNoError(t *testing.T) {
	db := openTestDB(t)

	records, err := db.GetSessionsByDateRange("2030-01-01", "2030-01-31")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetSessionsByDateRange_RoundTripsTimestamps(t *testing.T) {
	db := openTestDB(t)

	orig := mkRecord("2026-08-20", 9, 1500, KindWork, true, 1)
	_, err := db.AddSession(orig)
	require.NoError(t, err)

	records, err := db.GetSessionsByDateRange("2026-08-20", "2026-08-20")
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.True(t, got.StartTime.Equal(orig.StartTime))
	assert.True(t, got.EndTime.Equal(orig.EndTime))
	assert.Equal(t, orig.DurationSeconds, got.DurationSeconds)
	assert.Equal(t, orig.Kind, got.Kind)
	assert.Equal(t, orig.Completed, got.Completed)
	assert.Equal(t, orig.TasksCompleted, got.TasksCompleted)
}

func TestGetWeeklyStats_SevenDaysWithPlaceholders(t *testing.T) {
	db := openTestDB(t)

	// Thursday 2026-08-20; its week is Mon 08-17 through Sun 08-23.
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.Local)
	_, err := db.AddSession(mkRecord("2026-08-20", 9, 1500, KindWork, true, 0))
	require.NoError(t, err)

	week, err := db.GetWeeklyStats(now)
	require.NoError(t, err)
	require.Len(t, week, 7)

	assert.Equal(t, "2026-08-17", week[0].Date, "anchored to Monday")
	assert.Equal(t, "2026-08-23", week[6].Date, "through Sunday")

	for _, day := range week {
		if day.Date == "2026-08-20" {
			assert.Equal(t, 1500, day.TotalWorkSeconds)
		} else {
			assert.Zero(t, day.TotalWorkSeconds, day.Date)
			assert.Zero(t, day.TotalSessions, day.Date)
		}
	}
}

func TestClearAllData(t *testing.T) {
	db := openTestDB(t)

	_, err := db.AddSession(mkRecord("2026-08-20", 9, 1500, KindWork, true, 0))
	require.NoError(t, err)
	require.NoError(t, db.ClearAllData())

	records, err := db.GetSessionsByDateRange("2026-08-20", "2026-08-20")
	require.NoError(t, err)
	assert.Empty(t, records)

	// Weekly stats still return 7 rows, all zero.
	week, err := db.GetWeeklyStats(time.Date(2026, 8, 20, 15, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, week, 7)
	for _, day := range week {
		assert.Zero(t, day.TotalWorkSeconds, day.Date)
		assert.Zero(t, day.TotalSessions, day.Date)
		assert.Zero(t, day.TotalTasksCompleted, day.Date)
	}
}

func TestGetTotals(t *testing.T) {
	db := openTestDB(t)

	_, err := db.AddSession(mkRecord("2026-08-20", 9, 1500, KindWork, true, 2))
	require.NoError(t, err)
	_, err = db.AddSession(mkRecord("2026-08-21", 9, 900, KindWork, true, 1))
	require.NoError(t, err)
	_, err = db.AddSession(mkRecord("2026-08-21", 10, 300, KindRest, true, 0))
	require.NoError(t, err)

	workSeconds, sessions, tasks, err := db.GetTotals()
	require.NoError(t, err)
	assert.Equal(t, 2400, workSeconds)
	assert.Equal(t, 2, sessions)
	assert.Equal(t, 3, tasks)
}
