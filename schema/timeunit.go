package schema

import (
	"strings"
	"time"
)

// TimeUnit is the granularity of a temporal dimension.
type TimeUnit string

const (
	UnitYear   TimeUnit = "Year"
	UnitMonth  TimeUnit = "Month"
	UnitWeek   TimeUnit = "Week"
	UnitDay    TimeUnit = "Day"
	UnitHour   TimeUnit = "Hour"
	UnitMinute TimeUnit = "Minute"
	UnitSecond TimeUnit = "Second"
)

// Layout returns the Go reference layout for a time unit.
func (u TimeUnit) Layout() string {
	switch u {
	case UnitYear:
		return "2006"
	case UnitMonth:
		return "2006-01"
	case UnitWeek, UnitDay:
		return "2006-01-02"
	case UnitHour, UnitMinute:
		return "2006-01-02T15:04"
	case UnitSecond:
		return time.RFC3339
	}
	return ""
}

var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"Jan-2006",
	"January 2006",
	"2006",
	"01/02/2006",
}

// ParseTime parses a raw temporal value using the dimension's declared
// format, then its time unit, then a list of common layouts.
// Results are always in UTC.
func ParseTime(d Dimension, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if d.TimeFormat != "" {
		if t, err := time.Parse(d.TimeFormat, raw); err == nil {
			return t.UTC(), true
		}
	}
	if l := d.TimeUnit.Layout(); l != "" {
		if t, err := time.Parse(l, raw); err == nil {
			return t.UTC(), true
		}
	}
	for _, l := range fallbackLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatTime renders t at the dimension's granularity.
func FormatTime(d Dimension, t time.Time) string {
	if d.TimeFormat != "" {
		return t.Format(d.TimeFormat)
	}
	if l := d.TimeUnit.Layout(); l != "" {
		return t.Format(l)
	}
	return t.Format("2006-01-02")
}
