package exporter

import (
	"strconv"
	"time"
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatInt64(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatKey renders an int64 key, leaving the cell empty when the key was
// never assigned.
func formatKey(i int64) string {
	if i == 0 {
		return ""
	}
	return strconv.FormatInt(i, 10)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
