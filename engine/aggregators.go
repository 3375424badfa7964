package engine

import (
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/spektr-org/chartkit/config"
)

// ============================================================================
// AGGREGATORS — Grouping, stacking and imputation
// ============================================================================
// Null is never zero: sums skip nulls, and a group whose members are all
// null has no value at all.
// ============================================================================

// Stack sums the non-null values. ok is false when every value is null.
func Stack(values []*float64) (float64, bool) {
	xs := nonNull(values)
	if len(xs) == 0 {
		return 0, false
	}
	return stats.Sample{Xs: xs}.Sum(), true
}

func nonNull(values []*float64) []float64 {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			xs = append(xs, *v)
		}
	}
	return xs
}

// Cell is the value of one (category, segment) pair; nil is null.
type Cell = *float64

// Grid holds one value per (category key, segment key).
type Grid map[string]map[string]Cell

// GroupBy sums the observations into a grid. Several observations for the
// same pair are summed; a pair whose observations are all null stays null.
func GroupBy(obs []Observation, getX, getSegment DimensionGetter, getY MeasureGetter) Grid {
	collected := make(map[string]map[string][]*float64)
	for _, o := range obs {
		x, ok := getX(o)
		if !ok {
			continue
		}
		seg := ""
		if getSegment != nil {
			s, ok := getSegment(o)
			if !ok {
				continue
			}
			seg = s
		}
		if collected[x] == nil {
			collected[x] = make(map[string][]*float64)
		}
		collected[x][seg] = append(collected[x][seg], getY(o))
	}

	g := make(Grid, len(collected))
	for x, bySeg := range collected {
		g[x] = make(map[string]Cell, len(bySeg))
		for seg, vals := range bySeg {
			if sum, ok := Stack(vals); ok {
				g[x][seg] = Float(sum)
			} else {
				g[x][seg] = nil
			}
		}
	}
	return g
}

// Get returns a cell; missing pairs are null.
func (g Grid) Get(x, segment string) Cell {
	return g[x][segment]
}

// Totals sums each category across segments. Categories where every
// segment is null are absent.
func (g Grid) Totals() map[string]float64 {
	out := make(map[string]float64, len(g))
	for x, bySeg := range g {
		vals := make([]*float64, 0, len(bySeg))
		for _, v := range bySeg {
			vals = append(vals, v)
		}
		if sum, ok := Stack(vals); ok {
			out[x] = sum
		}
	}
	return out
}

// SegmentTotals sums each segment across categories.
func (g Grid) SegmentTotals() map[string]float64 {
	acc := make(map[string][]*float64)
	for _, bySeg := range g {
		for seg, v := range bySeg {
			acc[seg] = append(acc[seg], v)
		}
	}
	out := make(map[string]float64, len(acc))
	for seg, vals := range acc {
		if sum, ok := Stack(vals); ok {
			out[seg] = sum
		}
	}
	return out
}

// StackedRange is the [lower, upper] extent of one segment in a stack.
type StackedRange struct {
	Lower, Upper float64
}

// StackRanges stacks the segments of one category in order. Null cells
// get no range; positive and negative values stack away from zero
// independently.
func StackRanges(segments []string, cells map[string]Cell) map[string]StackedRange {
	out := make(map[string]StackedRange, len(segments))
	pos, neg := 0.0, 0.0
	for _, s := range segments {
		v := cells[s]
		if v == nil {
			continue
		}
		if *v >= 0 {
			out[s] = StackedRange{Lower: pos, Upper: pos + *v}
			pos += *v
		} else {
			out[s] = StackedRange{Lower: neg + *v, Upper: neg}
			neg += *v
		}
	}
	return out
}

// Impute fills nulls in an ordered series. None leaves them, Zeros
// replaces them with 0, Linear interpolates between the nearest non-null
// neighbours (edges stay null).
func Impute(values []*float64, method config.Imputation) []*float64 {
	out := make([]*float64, len(values))
	copy(out, values)
	switch method {
	case config.ImputeZeros:
		for i, v := range out {
			if v == nil {
				out[i] = Float(0)
			}
		}
	case config.ImputeLinear:
		prev := -1
		for i, v := range values {
			if v == nil {
				continue
			}
			if prev >= 0 && i-prev > 1 {
				a, b := *values[prev], *v
				for j := prev + 1; j < i; j++ {
					t := float64(j-prev) / float64(i-prev)
					out[j] = Float(a + (b-a)*t)
				}
			}
			prev = i
		}
	}
	return out
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
