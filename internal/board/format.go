package board

import (
	"strings"
	"time"
)

const (
	dateTimeLayout = "Jan 2, 2006, 3:04 PM"
	dateLayout     = "Jan 2, 2006"
)

// FormatDate renders a backend timestamp in UTC, e.g. "Mar 1, 2024, 10:00 AM".
// Date-only values render without a time; unparsable values are returned unchanged.
func FormatDate(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return value
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC().Format(dateTimeLayout)
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.Format(dateLayout)
	}
	return value
}
