package util

import "time"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Elapsed returns the time since start rounded to the millisecond, for log fields.
func Elapsed(start time.Time) time.Duration {
	return NowUTC().Sub(start).Round(time.Millisecond)
}
