package adjust

import (
	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// INTERACTIVE FILTER ADJUSTERS
// ============================================================================
// Keyed by path into InteractiveFiltersConfig; run in registration order
// after all fields are settled, since most of them depend on the new
// segment or x binding.
// ============================================================================

type interactiveEntry struct {
	key string
	fn  InteractiveAdjuster
}

func defaultInteractive() []interactiveEntry {
	return []interactiveEntry{
		{"legend.componentId", adjustLegendComponent},
		{"legend.active", adjustLegendActive},
		{"timeRange.componentId", adjustTimeRangeComponent},
		{"timeRange.active", adjustTimeRangeActive},
		{"timeRange.presets", adjustTimeRangePresets},
		{"dataFilters", adjustDataFilters},
		{"calculation", adjustCalculation},
	}
}

func adjustLegendComponent(ctx *Context) {
	if s := ctx.New.Fields.Segment; s != nil {
		ctx.New.Interactive.Legend.ComponentID = s.ComponentID
	}
}

func adjustLegendActive(ctx *Context) {
	ctx.New.Interactive.Legend.Active = ctx.Old.Interactive.Legend.Active &&
		ctx.New.Interactive.Legend.ComponentID != ""
}

// The time range follows a temporal x axis.
func adjustTimeRangeComponent(ctx *Context) {
	x := ctx.New.Fields.X
	if x == nil {
		return
	}
	if d, ok := ctx.dimension(x.ComponentID); ok && schema.CanFilterByTime(d) {
		ctx.New.Interactive.TimeRange.ComponentID = d.ID
	}
}

func sameTimeRangeComponent(ctx *Context) bool {
	id := ctx.New.Interactive.TimeRange.ComponentID
	return id != "" && id == ctx.Old.Interactive.TimeRange.ComponentID
}

func adjustTimeRangeActive(ctx *Context) {
	ctx.New.Interactive.TimeRange.Active = ctx.Old.Interactive.TimeRange.Active && sameTimeRangeComponent(ctx)
}

func adjustTimeRangePresets(ctx *Context) {
	if sameTimeRangeComponent(ctx) {
		ctx.New.Interactive.TimeRange.Presets = ctx.Old.Interactive.TimeRange.Presets
	}
}

// Data filters only make sense on components no channel displays.
func adjustDataFilters(ctx *Context) {
	bound := make(map[string]bool)
	for _, id := range ctx.New.BoundComponentIDs() {
		bound[id] = true
	}
	ids := []string{}
	for _, id := range ctx.Old.Interactive.DataFilters.ComponentIDs {
		if _, ok := ctx.dimension(id); ok && !bound[id] {
			ids = append(ids, id)
		}
	}
	ctx.New.Interactive.DataFilters = config.DataFilters{
		Active:       ctx.Old.Interactive.DataFilters.Active && len(ids) > 0,
		ComponentIDs: ids,
	}
}

// Percent calculation needs stacked segments.
func adjustCalculation(ctx *Context) {
	s := ctx.New.Fields.Segment
	if !chart.Stackable(ctx.New.Family) || s == nil {
		return
	}
	if ctx.New.Family != chart.Area && s.Type == config.Grouped {
		return
	}
	ctx.New.Interactive.Calculation = ctx.Old.Interactive.Calculation
}
