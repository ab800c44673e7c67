package util

import "time"

// ISODateLayout is the date-only layout the canonical schema carries.
const ISODateLayout = "2006-01-02"

// ISODate formats a timestamp as an ISO 8601 date.
func ISODate(t time.Time) string {
	return t.Format(ISODateLayout)
}

// DaysAgo returns the ISO date n calendar days before now.
func DaysAgo(now time.Time, n int) string {
	return ISODate(now.AddDate(0, 0, -n))
}

// ParseISODate parses an ISO 8601 date. Returns (t, true) if it parsed.
func ParseISODate(s string) (time.Time, bool) {
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
