package model

import "time"

// DateLayout is the wire and storage format for calendar dates.  All
// date-only values (booking dates, registration ranges, promotion
// windows) are compared at day granularity in UTC.
const DateLayout = "2006-01-02"

// Date truncates t to midnight UTC so that two timestamps on the same
// calendar day compare equal.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in UTC.
func Today() time.Time { return Date(time.Now()) }

// SameDate reports whether a and b fall on the same calendar day in UTC.
func SameDate(a, b time.Time) bool {
	return Date(a).Equal(Date(b))
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Date(t), nil
}
