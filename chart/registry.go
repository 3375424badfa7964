package chart

import (
	"fmt"

	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// FAMILY REGISTRY — static capability metadata + enablement
// ============================================================================

// Category groups families in the picker.
type Category string

const (
	CategoryBasic Category = "basic"
	CategoryMulti Category = "multi"
	CategoryGeo   Category = "geo"
	CategoryTable Category = "table"
	CategoryCombo Category = "combo"
)

// Meta is the static description of a family's data requirements.
type Meta struct {
	MinDimensions       int      `json:"minDimensions"`
	MinMeasures         int      `json:"minMeasures"`
	RequiresTemporal    bool     `json:"requiresTemporal"`
	RequiresGeo         bool     `json:"requiresGeo"`
	RequiresCategorical bool     `json:"requiresCategorical"`
	IsCombo             bool     `json:"isCombo"`
	Category            Category `json:"category"`
}

var metas = map[Family]Meta{
	Column:          {MinDimensions: 1, MinMeasures: 1, Category: CategoryBasic},
	Bar:             {MinDimensions: 1, MinMeasures: 1, RequiresCategorical: true, Category: CategoryBasic},
	Line:            {MinDimensions: 1, MinMeasures: 1, RequiresTemporal: true, Category: CategoryBasic},
	Area:            {MinDimensions: 1, MinMeasures: 1, RequiresTemporal: true, Category: CategoryBasic},
	Pie:             {MinDimensions: 1, MinMeasures: 1, RequiresCategorical: true, Category: CategoryBasic},
	Scatterplot:     {MinDimensions: 0, MinMeasures: 2, Category: CategoryMulti},
	Table:           {MinDimensions: 0, MinMeasures: 1, Category: CategoryTable},
	Map:             {MinDimensions: 1, MinMeasures: 1, RequiresGeo: true, Category: CategoryGeo},
	ComboLineSingle: {MinDimensions: 1, MinMeasures: 2, RequiresTemporal: true, IsCombo: true, Category: CategoryCombo},
	ComboLineDual:   {MinDimensions: 1, MinMeasures: 2, RequiresTemporal: true, IsCombo: true, Category: CategoryCombo},
	ComboLineColumn: {MinDimensions: 1, MinMeasures: 2, RequiresTemporal: true, IsCombo: true, Category: CategoryCombo},
}

func init() {
	for _, f := range families {
		if _, ok := metas[f]; !ok {
			panic(fmt.Sprintf("chart: family %q has no metadata", f))
		}
		if _, ok := schemas[f]; !ok {
			panic(fmt.Sprintf("chart: family %q has no field schema", f))
		}
	}
}

// Lookup returns the metadata of f. It panics on a family outside the
// closed set.
func Lookup(f Family) Meta {
	m, ok := metas[f]
	if !ok {
		panic(fmt.Sprintf("chart: unhandled family %q", f))
	}
	return m
}

// Availability is consumed by a family picker.
type Availability struct {
	Enabled         []Family          `json:"enabled"`
	DisabledReasons map[Family]string `json:"disabledReasons"`
}

// IsEnabled reports whether f is in the enabled list.
func (a Availability) IsEnabled(f Family) bool {
	for _, e := range a.Enabled {
		if e == f {
			return true
		}
	}
	return false
}

// EnabledFamilies splits the families into enabled ones and disabled ones
// carrying the first unmet requirement as a human-readable reason.
// Standard-error helper dimensions do not count.
func EnabledFamilies(dims []schema.Dimension, measures []schema.Measure, cubeCount int) Availability {
	usable := make([]schema.Dimension, 0, len(dims))
	for _, d := range dims {
		if !schema.IsStandardError(d) {
			usable = append(usable, d)
		}
	}

	out := Availability{DisabledReasons: make(map[Family]string)}
	for _, f := range families {
		if reason := disabledReason(Lookup(f), usable, measures, cubeCount); reason != "" {
			out.DisabledReasons[f] = reason
			continue
		}
		out.Enabled = append(out.Enabled, f)
	}
	return out
}

func disabledReason(m Meta, dims []schema.Dimension, measures []schema.Measure, cubeCount int) string {
	switch {
	case len(dims) < m.MinDimensions:
		return fmt.Sprintf("requires at least %d %s", m.MinDimensions, plural(m.MinDimensions, "dimension"))
	case len(measures) < m.MinMeasures:
		return fmt.Sprintf("requires at least %d %s", m.MinMeasures, plural(m.MinMeasures, "measure"))
	case m.RequiresTemporal && !anyDimension(dims, schema.IsTemporal):
		return "requires a temporal dimension"
	case m.RequiresGeo && !anyDimension(dims, schema.IsGeo):
		return "requires a geographic dimension"
	case m.RequiresCategorical && !anyDimension(dims, schema.IsCategorical):
		return "requires a categorical dimension"
	case m.IsCombo && cubeCount <= 1:
		return "requires data from more than one cube"
	}
	return ""
}

func anyDimension(dims []schema.Dimension, pred func(schema.Dimension) bool) bool {
	for _, d := range dims {
		if pred(d) {
			return true
		}
	}
	return false
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
