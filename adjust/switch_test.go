package adjust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// FIXTURES
// ============================================================================

var (
	dims = []schema.Dimension{
		{ID: "year", Label: "Year", Type: schema.TemporalDimension, TimeUnit: schema.UnitYear},
		{ID: "cat", Label: "Category", Type: schema.NominalDimension},
		{ID: "region", Label: "Region", Type: schema.NominalDimension},
		{ID: "canton", Label: "Canton", Type: schema.GeoShapesDimension},
	}
	measures = []schema.Measure{
		{ID: "revenue", Label: "Revenue", Type: schema.NumericalMeasure},
		{ID: "cost", Label: "Cost", Type: schema.NumericalMeasure},
	}
)

func column() config.ChartConfig {
	return config.ChartConfig{
		Version: config.Version,
		Family:  chart.Column,
		Cubes:   []config.CubeConfig{{IRI: "sales", Filters: map[string]config.Filter{}}},
		Fields: config.Fields{
			X: &config.AxisField{
				ComponentID: "year",
				Sorting:     &config.Sorting{By: config.SortByAuto, Order: config.Asc},
			},
			Y:       &config.AxisField{ComponentID: "revenue", ShowValues: config.Bool(true)},
			Segment: &config.SegmentField{ComponentID: "cat", Type: config.Stacked},
			Color:   &config.ColorField{Type: config.ColorSegment, PaletteID: "category10"},
		},
		Interactive: config.DefaultInteractive(),
	}
}

// ============================================================================
// FAMILY SWITCH
// ============================================================================

func TestSwitchColumnToLine(t *testing.T) {
	got, err := Switch(column(), chart.Line, dims, measures)
	require.NoError(t, err)
	require.NoError(t, config.Validate(got))

	assert.Equal(t, chart.Line, got.Family)
	assert.Equal(t, &config.AxisField{ComponentID: "year"}, got.Fields.X, "x sorting is not a line option")

	require.NotNil(t, got.Fields.Y)
	assert.Equal(t, "revenue", got.Fields.Y.ComponentID)
	assert.Nil(t, got.Fields.Y.ShowValues)
	require.NotNil(t, got.Fields.Y.ShowDots)
	assert.True(t, *got.Fields.Y.ShowDots)
	assert.Equal(t, "large", got.Fields.Y.ShowDotsSize)

	require.NotNil(t, got.Fields.Segment)
	assert.Equal(t, "cat", got.Fields.Segment.ComponentID)
	assert.Empty(t, got.Fields.Segment.Type, "lines do not stack")

	assert.Equal(t, config.ColorSegment, got.Fields.Color.Type)
	assert.Equal(t, "category10", got.Fields.Color.PaletteID)
	assert.Equal(t, "sales", got.Cubes[0].IRI)
}

func TestSwitchRoundTrip(t *testing.T) {
	line, err := Switch(column(), chart.Line, dims, measures)
	require.NoError(t, err)
	back, err := Switch(line, chart.Column, dims, measures)
	require.NoError(t, err)
	require.NoError(t, config.Validate(back))

	assert.Equal(t, "year", back.Fields.X.ComponentID)
	assert.Equal(t, "revenue", back.Fields.Y.ComponentID)
	assert.Equal(t, "cat", back.Fields.Segment.ComponentID)
	assert.Equal(t, config.Stacked, back.Fields.Segment.Type)
	assert.Nil(t, back.Fields.Y.ShowDots)
}

func TestSwitchRoundTripAllFamilies(t *testing.T) {
	enabled := chart.EnabledFamilies(dims, measures, 1).Enabled
	require.NotEmpty(t, enabled)
	channels := []chart.FieldName{chart.FieldX, chart.FieldY, chart.FieldSegment}

	for _, from := range enabled {
		start, err := Switch(column(), from, dims, measures)
		require.NoError(t, err)
		for _, to := range enabled {
			if to == from {
				continue
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				mid, err := Switch(start, to, dims, measures)
				require.NoError(t, err)
				back, err := Switch(mid, from, dims, measures)
				require.NoError(t, err)
				assert.Equal(t, from, back.Family)

				for _, name := range channels {
					id := start.Fields.ComponentOf(name)
					if id == "" || mid.Fields.ComponentOf(name) != id {
						continue
					}
					assert.Equal(t, id, back.Fields.ComponentOf(name), name)
				}
			})
		}
	}
}

func TestSwitchKeepsLineOptions(t *testing.T) {
	old := config.ChartConfig{
		Family: chart.Line,
		Fields: config.Fields{
			X: &config.AxisField{ComponentID: "year"},
			Y: &config.AxisField{ComponentID: "revenue", ShowDots: config.Bool(false), ShowDotsSize: "small"},
		},
		Interactive: config.DefaultInteractive(),
	}
	got, err := Switch(old, chart.Line, dims, measures)
	require.NoError(t, err)
	assert.False(t, *got.Fields.Y.ShowDots)
	assert.Equal(t, "small", got.Fields.Y.ShowDotsSize)
	assert.Equal(t, config.Version, got.Version)

	assert.Equal(t, config.ColorSingle, got.Fields.Color.Type)
	assert.Equal(t, engine.PaletteColors(engine.DefaultPaletteID)[0], got.Fields.Color.Color)
}

func TestSwitchDoesNotModifyOld(t *testing.T) {
	old := column()
	old.Cubes[0].Filters["region"] = config.Filter{Type: config.FilterSingle, Value: "north"}
	old.Interactive.DataFilters = config.DataFilters{Active: true, ComponentIDs: []string{"region", "cat"}}

	got, err := Switch(old, chart.Bar, dims, measures)
	require.NoError(t, err)

	want := column()
	want.Cubes[0].Filters["region"] = config.Filter{Type: config.FilterSingle, Value: "north"}
	want.Interactive.DataFilters = config.DataFilters{Active: true, ComponentIDs: []string{"region", "cat"}}
	assert.Equal(t, want, old)

	got.Fields.Segment.ComponentID = "changed"
	got.Cubes[0].IRI = "changed"
	assert.Equal(t, "cat", old.Fields.Segment.ComponentID)
	assert.Equal(t, "sales", old.Cubes[0].IRI)
}

func TestSwitchToBarPrunesCubeFilters(t *testing.T) {
	old := column()
	old.Cubes[0].Filters["region"] = config.Filter{Type: config.FilterSingle, Value: "north"}
	old.Cubes[0].Filters["year"] = config.Filter{Type: config.FilterRange, From: "2020", To: "2022"}

	got, err := Switch(old, chart.Bar, dims, measures)
	require.NoError(t, err)
	require.NoError(t, config.Validate(got))

	assert.Equal(t, "region", got.Fields.Y.ComponentID, "year is not categorical, cat is taken by segment")
	assert.Equal(t, "revenue", got.Fields.X.ComponentID)
	assert.True(t, *got.Fields.X.ShowValues)
	assert.Equal(t, "cat", got.Fields.Segment.ComponentID)

	assert.NotContains(t, got.Cubes[0].Filters, "region", "newly displayed component must not stay pinned")
	assert.Contains(t, got.Cubes[0].Filters, "year")

	kept, err := Switch(old, chart.Bar, dims, measures, WithAddingCube())
	require.NoError(t, err)
	assert.Contains(t, kept.Cubes[0].Filters, "region")
}

func TestSwitchToCombos(t *testing.T) {
	dual, err := Switch(column(), chart.ComboLineDual, dims, measures)
	require.NoError(t, err)
	require.NoError(t, config.Validate(dual))
	assert.Equal(t, []string{"revenue", "cost"}, dual.Fields.Lines.ComponentIDs)
	assert.Empty(t, dual.Fields.Lines.LineAxis)
	assert.Nil(t, dual.Fields.Segment)
	assert.Equal(t, config.ColorSegment, dual.Fields.Color.Type)

	lc, err := Switch(dual, chart.ComboLineColumn, dims, measures)
	require.NoError(t, err)
	assert.Equal(t, []string{"revenue", "cost"}, lc.Fields.Lines.ComponentIDs)
	assert.Equal(t, config.AxisLeft, lc.Fields.Lines.LineAxis)

	lc.Fields.Lines.LineAxis = config.AxisRight
	again, err := Switch(lc, chart.ComboLineColumn, dims, measures)
	require.NoError(t, err)
	assert.Equal(t, config.AxisRight, again.Fields.Lines.LineAxis)

	back, err := Switch(dual, chart.Column, dims, measures)
	require.NoError(t, err)
	assert.Equal(t, "year", back.Fields.X.ComponentID)
	assert.Equal(t, "revenue", back.Fields.Y.ComponentID)
}

func TestSwitchToTable(t *testing.T) {
	got, err := Switch(column(), chart.Table, dims, measures)
	require.NoError(t, err)
	require.NotNil(t, got.Fields.Table)

	var ids []string
	for _, c := range got.Fields.Table.Columns {
		ids = append(ids, c.ComponentID)
	}
	assert.Equal(t, []string{"year", "revenue", "cat", "region", "canton", "cost"}, ids)
	assert.Nil(t, got.Fields.X)
	assert.Nil(t, got.Fields.Color)
}

func TestSwitchToMap(t *testing.T) {
	old := column()
	old.Fields.X = &config.AxisField{ComponentID: "canton"}
	old.Fields.Segment = nil

	got, err := Switch(old, chart.Map, dims, measures)
	require.NoError(t, err)
	require.NoError(t, config.Validate(got))
	assert.Equal(t, &config.MapLayerField{ComponentID: "canton", MeasureID: "revenue"}, got.Fields.Areas)
	assert.Nil(t, got.Fields.Symbols)
}

func TestSwitchToPie(t *testing.T) {
	got, err := Switch(column(), chart.Pie, dims, measures)
	require.NoError(t, err)
	require.NoError(t, config.Validate(got))
	assert.Equal(t, "revenue", got.Fields.Y.ComponentID)
	assert.Equal(t, "cat", got.Fields.Segment.ComponentID)
	assert.Empty(t, got.Fields.Segment.Type)
}

// ============================================================================
// INTERACTIVE FILTERS
// ============================================================================

func TestSwitchInteractive(t *testing.T) {
	old := column()
	old.Interactive = config.InteractiveFiltersConfig{
		Legend: config.LegendFilter{Active: true, ComponentID: "cat"},
		TimeRange: config.TimeRangeFilter{
			Active: true, ComponentID: "year",
			Presets: config.TimeRangePreset{Type: "range", From: "2020", To: "2021"},
		},
		DataFilters: config.DataFilters{Active: true, ComponentIDs: []string{"region", "cat"}},
		Calculation: config.CalculationConfig{Active: true, Type: config.CalcPercent},
	}

	line, err := Switch(old, chart.Line, dims, measures)
	require.NoError(t, err)
	assert.Equal(t, config.LegendFilter{Active: true, ComponentID: "cat"}, line.Interactive.Legend)
	assert.Equal(t, old.Interactive.TimeRange, line.Interactive.TimeRange)
	assert.Equal(t, config.DataFilters{Active: true, ComponentIDs: []string{"region"}}, line.Interactive.DataFilters)
	assert.Equal(t, config.CalculationConfig{Type: config.CalcIdentity}, line.Interactive.Calculation, "lines cannot show shares")

	col, err := Switch(old, chart.Column, dims, measures)
	require.NoError(t, err)
	assert.Equal(t, old.Interactive.Calculation, col.Interactive.Calculation)

	grouped := old
	grouped.Fields.Segment = &config.SegmentField{ComponentID: "cat", Type: config.Grouped}
	col, err = Switch(grouped, chart.Column, dims, measures)
	require.NoError(t, err)
	assert.False(t, col.Interactive.Calculation.Active)

	bar, err := Switch(old, chart.Bar, dims, measures)
	require.NoError(t, err)
	assert.False(t, bar.Interactive.TimeRange.Active, "bar has no temporal x")
	assert.Empty(t, bar.Interactive.TimeRange.Presets.From)
	assert.Equal(t, config.DataFilters{Active: false, ComponentIDs: []string{}}, bar.Interactive.DataFilters)
}

func TestInteractiveKeys(t *testing.T) {
	assert.Equal(t, []string{
		"legend.componentId", "legend.active",
		"timeRange.componentId", "timeRange.active", "timeRange.presets",
		"dataFilters", "calculation",
	}, NewRegistry().InteractiveKeys())
}

// ============================================================================
// REGISTRY
// ============================================================================

func TestRegistryCoversEveryChannel(t *testing.T) {
	r := NewRegistry()
	for _, f := range chart.All() {
		for _, spec := range chart.SchemaOf(f) {
			assert.NotNil(t, r.fields[f][spec.Name], "%s.%s", f, spec.Name)
		}
	}
}

func TestRegistryOverride(t *testing.T) {
	r := NewRegistry()
	r.Override(chart.Line, chart.FieldSegment, func(*Context, chart.FieldSpec) {})

	got, err := Switch(column(), chart.Line, dims, measures, WithRegistry(r))
	require.NoError(t, err)
	assert.Nil(t, got.Fields.Segment)
	assert.Equal(t, config.ColorSingle, got.Fields.Color.Type)

	assert.Panics(t, func() {
		r.Override(chart.Pie, chart.FieldX, func(*Context, chart.FieldSpec) {})
	})
}

func TestSwitchUnknownFamilyPanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = Switch(column(), chart.Family("radar"), dims, measures)
	})
}
