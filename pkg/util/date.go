package util

import "time"

// YearMonth formats t as the yyyy-mm partition key used by audit rows.
func YearMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// NowMillis returns the current wall clock in unix milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
