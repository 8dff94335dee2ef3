package wpd

import (
	"fmt"
	"time"
)

// DateLayout is the textual date form exchanged with devices, in local time:
// YYYY/MM/DD:HH:MM:SS.fff
const DateLayout = "2006/01/02:15:04:05.000"

// FormatDate formats t in local time with millisecond precision.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

// ParseDate parses a device date in local time. The fractional part is optional.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006/01/02:15:04:05", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid device date %q: %w", s, err)
	}

	return t, nil
}

// FormatOptionalDate formats t, or returns "" for nil.
func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return FormatDate(*t)
}
