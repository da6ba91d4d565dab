package utils

import (
	"time"
)

// FormatTimestamp renders value the way date(1) prints the current time,
// for example "Mon Oct 19 12:00:00 UTC 2026".
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(time.UnixDate)
}
