package dateutil

import (
	"fmt"
	"time"
)

// Date truncates a time to midnight in its own location. All streak
// arithmetic works on calendar days, not 24-hour windows.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func IsSameDay(a, b time.Time) bool {
	return Date(a).Equal(Date(b))
}

// IsYesterday reports whether a falls on the calendar day right before b.
func IsYesterday(a, b time.Time) bool {
	return Date(a).Equal(Date(b).AddDate(0, 0, -1))
}

// EndOfDay returns the first instant of the next calendar day.
func EndOfDay(t time.Time) time.Time {
	return Date(t).AddDate(0, 0, 1)
}

// CurrentWeek returns the first instant of the ISO week of t (Monday 00:00).
func CurrentWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return Date(t).AddDate(0, 0, 1-weekday)
}

// EndOfWeek returns the first instant of the next ISO week (Monday 00:00).
func EndOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return Date(t).AddDate(0, 0, 8-weekday)
}

func LastWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -7)
}

func LastMonth(t time.Time) time.Time {
	return t.AddDate(0, -1, 0)
}

// WeekValue formats a time as a week/year pair used in leaderboard keys.
func WeekValue(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d/%d", week, year)
}

// MonthValue formats a time as a month/year pair used in leaderboard keys.
func MonthValue(t time.Time) string {
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Year())
}
