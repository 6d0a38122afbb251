package rules

import "time"

// DayRange returns the [start, end) UTC window of the calendar day
// containing at. Used for per-day swipe statistics.
func DayRange(at time.Time) (time.Time, time.Time) {
	utc := at.UTC()
	start := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
