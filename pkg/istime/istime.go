// Package istime renders backend timestamps for operators in India Standard Time.
package istime

import (
	"fmt"
	"strings"
	"time"
)

// Zone is Asia/Kolkata. IST has no daylight saving, so a fixed offset avoids
// depending on the host tzdata.
var Zone = time.FixedZone("IST", 5*60*60+30*60)

const (
	dateLayout = "02/01/2006"
	timeLayout = "03:04 PM"
)

// layouts accepted from the backend. Timestamps without an offset are UTC.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse reads a backend timestamp.
func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

// FormatDate renders raw as DD/MM/YYYY in IST. Unparseable input is returned as is.
func FormatDate(raw string) string {
	t, err := Parse(raw)
	if err != nil {
		return raw
	}
	return t.In(Zone).Format(dateLayout)
}

// FormatTime renders raw as hh:mm AM/PM in IST. Unparseable input is returned as is.
func FormatTime(raw string) string {
	t, err := Parse(raw)
	if err != nil {
		return raw
	}
	return t.In(Zone).Format(timeLayout)
}

// FormatClock renders a bare wall-clock time ("14:30:00", "14:30") as hh:mm AM/PM
// without any zone conversion. Appointment slots are already clinic-local.
func FormatClock(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04:05", "15:04", timeLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(timeLayout)
		}
	}
	return raw
}

// Relative renders raw relative to now: "just now", "N minutes ago", "N hours ago",
// "N days ago" for the last week, and the IST clock time beyond that.
func Relative(raw string, now time.Time) string {
	t, err := Parse(raw)
	if err != nil {
		return raw
	}

	seconds := int(now.Sub(t).Seconds())
	if seconds < 60 {
		return "just now"
	}
	minutes := seconds / 60
	if minutes < 60 {
		return plural(minutes, "minute")
	}
	hours := minutes / 60
	if hours < 24 {
		return plural(hours, "hour")
	}
	days := hours / 24
	if days < 7 {
		return plural(days, "day")
	}
	return t.In(Zone).Format(timeLayout)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
