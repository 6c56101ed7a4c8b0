package models

import "time"

// Common date helpers used across the ledger and activity log

// FormatDate formats a time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatTimestamp formats a time as YYYY-MM-DD HH:MM:SS
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// ParseDate parses a YYYY-MM-DD string into a time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// UTCToday returns the current UTC calendar date with the time part zeroed.
// Ledger files are keyed on UTC days so a sender near local midnight still
// lands in a single well-defined file.
func UTCToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
