package utils

import "time"

// Timestamp formats t in UTC as RFC3339, the form used in API payloads and
// report headers
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
