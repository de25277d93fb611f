package normalize

import (
	"fmt"
	"strings"
	"time"
)

// DateLayouts are tried in order by ParseDate.
var DateLayouts = []string{
	"02.01.2006",
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
}

// ParseDate parses a statement date using the first matching layout.
// A trailing time of day ("02.11.2025 14:05:00") is ignored.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBlank
	}
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: no matching layout", s)
}

// ParseDateTime applies an optional "HH:mm[:ss]" clock to day.
func ParseDateTime(day time.Time, clock string) time.Time {
	clock = strings.TrimSpace(clock)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		}
	}
	return day
}
