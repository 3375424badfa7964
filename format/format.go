// Package format builds the number and date formatter callbacks injected
// into the option builder. Locale handling lives here; adapters only call
// the functions they are given.
package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spektr-org/chartkit/schema"
)

// Number formats a measure value.
type Number func(v float64) string

// Date formats a point in time.
type Date func(t time.Time) string

// NewNumber formats with locale grouping and a fixed number of decimals.
// A negative decimals value prints as many as needed.
func NewNumber(tag language.Tag, decimals int) Number {
	p := message.NewPrinter(tag)
	if decimals < 0 {
		return func(v float64) string { return p.Sprintf("%v", v) }
	}
	pattern := fmt.Sprintf("%%.%df", decimals)
	return func(v float64) string { return p.Sprintf(pattern, v) }
}

// NewCurrency formats amounts in an ISO 4217 currency, e.g. "USD".
// Unknown codes fall back to the number followed by the code.
func NewCurrency(tag language.Tag, code string) Number {
	p := message.NewPrinter(tag)
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		n := NewNumber(tag, 2)
		return func(v float64) string { return n(v) + " " + code }
	}
	return func(v float64) string {
		return p.Sprintf("%v", currency.Symbol(unit.Amount(v)))
	}
}

// Percent formats a share in [0, 100].
func Percent(tag language.Tag, decimals int) Number {
	n := NewNumber(tag, decimals)
	return func(v float64) string { return n(v) + "%" }
}

// ForMeasure picks a formatter from the measure's unit and resolution.
func ForMeasure(tag language.Tag, m schema.Measure) Number {
	if m.Unit != "" {
		if _, err := currency.ParseISO(strings.ToUpper(m.Unit)); err == nil {
			return NewCurrency(tag, m.Unit)
		}
	}
	decimals := 2
	if m.Resolution > 0 {
		decimals = m.Resolution
	}
	return NewNumber(tag, decimals)
}

// ============================================================================
// DATES
// ============================================================================

var unitLayouts = map[schema.TimeUnit]string{
	schema.UnitYear:   "2006",
	schema.UnitMonth:  "Jan 2006",
	schema.UnitWeek:   "02 Jan 2006",
	schema.UnitDay:    "02 Jan 2006",
	schema.UnitHour:   "02 Jan 2006 15:04",
	schema.UnitMinute: "02 Jan 2006 15:04",
	schema.UnitSecond: "02 Jan 2006 15:04:05",
}

// ForUnit formats at the granularity of a time unit.
func ForUnit(unit schema.TimeUnit) Date {
	layout, ok := unitLayouts[unit]
	if !ok {
		layout = "02 Jan 2006"
	}
	return func(t time.Time) string { return t.Format(layout) }
}

// ForDimension formats dates of a temporal dimension.
func ForDimension(d schema.Dimension) Date {
	if d.TimeUnit == "" && d.TimeFormat != "" {
		return func(t time.Time) string { return schema.FormatTime(d, t) }
	}
	return ForUnit(d.TimeUnit)
}
