// Package timerange keeps a chart's time brush (0–100% of the x domain)
// and the absolute date range filter shared with other charts in sync.
package timerange

import (
	"errors"
	"math"
	"time"

	"github.com/spektr-org/chartkit/engine"
)

var (
	// ErrUnavailable is returned when the x domain is degenerate and the
	// brush is disabled.
	ErrUnavailable = errors.New("time brush not available")
	// ErrStaleDomain is returned for updates computed against a domain
	// that is no longer current.
	ErrStaleDomain = errors.New("stale time domain")
)

// Domain is a snapshot of the x-scale domain. Stamp identifies the
// snapshot; it changes every time the domain is replaced.
type Domain struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Stamp uint64    `json:"stamp"`
}

// Valid reports whether the domain has a positive span.
func (d Domain) Valid() bool {
	return !d.From.IsZero() && !d.To.IsZero() && d.To.After(d.From)
}

// DomainOf snapshots a time scale. Degenerate scales yield an invalid
// domain.
func DomainOf(s engine.TimeScale, stamp uint64) Domain {
	if !s.Valid {
		return Domain{Stamp: stamp}
	}
	return Domain{From: s.Min, To: s.Max, Stamp: stamp}
}

func (d Domain) span() float64 {
	return float64(d.To.Sub(d.From))
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// ToPercent converts an absolute range into brush percentages, clamped to
// [0, 100]. A range that ends up inverted (e.g. entirely outside the
// domain) resets to the full range. An invalid domain also yields the full
// range; callers must check Valid to know the brush is usable.
func ToPercent(d Domain, from, to time.Time) (start, end float64) {
	if !d.Valid() {
		return 0, 100
	}
	start, end = 0, 100
	if !from.IsZero() {
		start = float64(from.Sub(d.From)) / d.span() * 100
	}
	if !to.IsZero() {
		end = float64(to.Sub(d.From)) / d.span() * 100
	}
	start, end = clampPercent(start), clampPercent(end)
	if start > end || (!from.IsZero() && from.After(d.To)) || (!to.IsZero() && to.Before(d.From)) {
		return 0, 100
	}
	return start, end
}

// FromPercent converts brush percentages into an absolute range. The
// percentages are clamped first, and swapped if inverted. An invalid
// domain returns zero times.
func FromPercent(d Domain, start, end float64) (from, to time.Time) {
	if !d.Valid() {
		return time.Time{}, time.Time{}
	}
	start, end = clampPercent(start), clampPercent(end)
	if start > end {
		start, end = end, start
	}
	at := func(p float64) time.Time {
		return d.From.Add(time.Duration(p / 100 * d.span()))
	}
	return at(start), at(end)
}

// BrushOf computes a one-off brush for a scale and an absolute range, for
// callers that render without a Synchronizer.
func BrushOf(scale engine.TimeScale, from, to time.Time) Brush {
	d := DomainOf(scale, 0)
	if !d.Valid() {
		reason := scale.Reason
		if reason == "" {
			reason = "invalid domain"
		}
		return Brush{Reason: reason, Start: 0, End: 100}
	}
	start, end := ToPercent(d, from, to)
	return Brush{Available: true, Start: start, End: end}
}
