// Package utils provides shared formatting helpers and constants.
package utils

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatSize renders an object size for display, e.g. "1.5 MB".
func FormatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

// FormatModified renders a last-modified timestamp as a relative age,
// e.g. "3 days ago". Zero timestamps render as a dash.
func FormatModified(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
