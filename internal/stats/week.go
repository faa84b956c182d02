package stats

import "time"

// WeekDates returns the seven day buckets of the calendar week containing
// now, anchored to Monday through Sunday in the local timezone.
func WeekDates(now time.Time) []string {
	now = now.Local()

	// time.Weekday puts Sunday at 0; shift so Monday is the week start.
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -offset)

	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}
