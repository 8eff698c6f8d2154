package utils

import "time"

// DateOnly is the layout used for start dates and event days.
const DateOnly = "2006-01-02"

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseDate parses a date-only string (YYYY-MM-DD)
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateOnly, s)
}

// FormatDate formats a time as a date-only string
func FormatDate(t time.Time) string {
	return t.Format(DateOnly)
}
