package engine

import (
	"time"

	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// FILTERS — Cube + interactive filtering via View
// ============================================================================
// Single-pass filter: checks ALL constraints per observation in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// Filters is the set of constraints applied before a chart is resolved.
// Components are AND-combined; values within a component are OR-combined.
type Filters struct {
	Values map[string][]string // component id → allowed keys
	Ranges map[string]Range    // component id → inclusive range
}

// Range bounds a component. Temporal dimensions compare as times, the rest
// as strings.
type Range struct {
	From, To string
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Values {
		if len(vals) > 0 {
			return false
		}
	}
	return len(f.Ranges) == 0
}

// FiltersFromConfig collects the static cube filters of cfg.
func FiltersFromConfig(cfg config.ChartConfig) Filters {
	f := Filters{Values: make(map[string][]string), Ranges: make(map[string]Range)}
	for _, cube := range cfg.Cubes {
		for id, flt := range cube.Filters {
			switch flt.Type {
			case config.FilterSingle:
				f.Values[id] = append(f.Values[id], flt.Value)
			case config.FilterMulti:
				f.Values[id] = append(f.Values[id], flt.Values...)
			case config.FilterRange:
				f.Ranges[id] = Range{From: flt.From, To: flt.To}
			}
		}
	}
	return f
}

// ApplyFilters returns a view of observations matching all filters.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view View, filters Filters, dims []schema.Dimension) View {
	if filters.IsEmpty() {
		return view
	}

	sets := make(map[string]map[string]bool)
	for id, allowed := range filters.Values {
		if len(allowed) > 0 {
			sets[id] = toSet(allowed)
		}
	}
	ranges := make([]rangeCheck, 0, len(filters.Ranges))
	for id, r := range filters.Ranges {
		ranges = append(ranges, newRangeCheck(id, r, dims))
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		o := view.At(i)
		if matchesAll(o, sets, ranges) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

func matchesAll(o Observation, sets map[string]map[string]bool, ranges []rangeCheck) bool {
	for id, set := range sets {
		key, ok := o.String(id)
		if !ok || !set[key] {
			return false
		}
	}
	for _, r := range ranges {
		if !r.match(o) {
			return false
		}
	}
	return true
}

type rangeCheck struct {
	id       string
	dim      schema.Dimension
	temporal bool
	from, to time.Time
	raw      Range
}

func newRangeCheck(id string, r Range, dims []schema.Dimension) rangeCheck {
	c := rangeCheck{id: id, raw: r}
	d, ok := schema.FindDimension(dims, id)
	if !ok || !schema.IsTemporal(d) {
		return c
	}
	c.dim, c.temporal = d, true
	c.from, _ = schema.ParseTime(d, r.From)
	c.to, _ = schema.ParseTime(d, r.To)
	return c
}

func (c rangeCheck) match(o Observation) bool {
	key, ok := o.String(c.id)
	if !ok {
		return false
	}
	if c.temporal {
		t, ok := schema.ParseTime(c.dim, key)
		if !ok {
			return false
		}
		if !c.from.IsZero() && t.Before(c.from) {
			return false
		}
		if !c.to.IsZero() && t.After(c.to) {
			return false
		}
		return true
	}
	if c.raw.From != "" && key < c.raw.From {
		return false
	}
	if c.raw.To != "" && key > c.raw.To {
		return false
	}
	return true
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
