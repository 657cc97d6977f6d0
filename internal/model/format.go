package model

import (
	"strings"
	"time"
)

// InvalidDate is the display fallback for timestamps that cannot be parsed.
const InvalidDate = "Invalid Date"

// dateLayouts are tried in order when parsing backend timestamps.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FileName extracts the display file name from a stored path: everything
// after the final slash.
func FileName(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

// FormatDate renders a backend timestamp as a short display string,
// e.g. "08/30/26, 02:05 PM". Unparseable input yields InvalidDate.
func FormatDate(value string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("01/02/06, 03:04 PM")
		}
	}
	return InvalidDate
}
