package engine

import (
	"math"
	"time"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
)

// ============================================================================
// SCALES
// ============================================================================

// BandScale is the scale of a categorical axis.
type BandScale struct {
	Domain []string `json:"domain"`
	index  map[string]int
}

// NewBandScale indexes an ordered domain.
func NewBandScale(domain []string) BandScale {
	b := BandScale{Domain: domain, index: make(map[string]int, len(domain))}
	for i, k := range domain {
		b.index[k] = i
	}
	return b
}

// Index returns the band of a key.
func (b BandScale) Index(key string) (int, bool) {
	i, ok := b.index[key]
	return i, ok
}

// TimeScale is the scale of a temporal axis. A degenerate domain is kept
// but flagged: consumers must check Valid before mapping.
type TimeScale struct {
	Min    time.Time `json:"min"`
	Max    time.Time `json:"max"`
	Valid  bool      `json:"valid"`
	Reason string    `json:"reason,omitempty"`
}

// NewTimeScale spans the observed dates.
func NewTimeScale(ts []time.Time) TimeScale {
	if len(ts) == 0 {
		return TimeScale{Reason: "no dates"}
	}
	s := TimeScale{Min: ts[0], Max: ts[0]}
	for _, t := range ts[1:] {
		if t.Before(s.Min) {
			s.Min = t
		}
		if t.After(s.Max) {
			s.Max = t
		}
	}
	switch {
	case len(ts) < 2:
		s.Reason = "fewer than 2 points"
	case !s.Max.After(s.Min):
		s.Reason = "zero span"
	default:
		s.Valid = true
	}
	return s
}

// Span is the domain length; zero for invalid scales.
func (s TimeScale) Span() time.Duration {
	if !s.Valid {
		return 0
	}
	return s.Max.Sub(s.Min)
}

// Percent maps t to [0, 100] of the domain, unclamped.
func (s TimeScale) Percent(t time.Time) float64 {
	span := s.Span()
	if span <= 0 {
		return 0
	}
	return float64(t.Sub(s.Min)) / float64(span) * 100
}

// At maps a percentage back to a time.
func (s TimeScale) At(pct float64) time.Time {
	span := s.Span()
	if span <= 0 {
		return s.Min
	}
	return s.Min.Add(time.Duration(pct / 100 * float64(span)))
}

// LinearScale is the scale of a value axis.
type LinearScale struct {
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Ticks    []float64 `json:"ticks"`
	Explicit bool      `json:"explicit,omitempty"`
}

const maxTicks = 6

// NewLinearScale builds a value scale. An explicit two-element custom
// domain wins; otherwise the observed bounds (optionally including zero)
// are padded outward to the enclosing ticks. Empty input yields [0, 1].
func NewLinearScale(values []float64, custom []float64, includeZero bool) LinearScale {
	if len(custom) == 2 && custom[0] < custom[1] && finite(custom[0]) && finite(custom[1]) {
		s := LinearScale{Min: custom[0], Max: custom[1], Explicit: true}
		s.Ticks = ticks(s.Min, s.Max)
		return s
	}

	var xs []float64
	for _, v := range values {
		if finite(v) {
			xs = append(xs, v)
		}
	}
	min, max := 0.0, 1.0
	if len(xs) > 0 {
		min, max = stats.Bounds(xs)
	}
	if includeZero {
		min, max = math.Min(min, 0), math.Max(max, 0)
	}
	if min == max {
		if min == 0 {
			max = 1
		} else {
			min, max = min-math.Abs(min)/2, max+math.Abs(max)/2
		}
	}

	t := ticks(min, max)
	if len(t) >= 2 {
		step := t[1] - t[0]
		min = math.Floor(min/step) * step
		max = math.Ceil(max/step) * step
		t = ticks(min, max)
	}
	return LinearScale{Min: min, Max: max, Ticks: t}
}

// Map returns the position of v in [0, 1].
func (s LinearScale) Map(v float64) float64 {
	if s.Max == s.Min {
		return 0
	}
	return scale.Linear{Min: s.Min, Max: s.Max}.Map(v)
}

func ticks(min, max float64) []float64 {
	major, _ := scale.Linear{Min: min, Max: max}.Ticks(scale.TickOptions{Max: maxTicks})
	return major
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
