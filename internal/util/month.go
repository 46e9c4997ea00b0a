package util

import "time"

// YearBounds returns January 1st of the year and January 1st of the next
// year, suitable for half-open [start, end) range queries.
func YearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// IsValidMonth reports whether month is in 1-12.
func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}
