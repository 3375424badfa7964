package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// CANONICAL STATE — family-agnostic chart model
// ============================================================================
// Pipeline:
//   1. Apply static cube filters → AllData
//   2. Bind channels to dimensions/measures, build null-safe getters
//   3. Apply interactive filters (time range, data filters, legend) → ChartData
//   4. Sort the category domain and the segment keys
//   5. Assign colours, build scales, compute bounds
//
// A State is derived data: it is rebuilt on every input change and never
// mutated afterwards.
// ============================================================================

// ErrUnknownComponent is returned when a config binds a component the
// dataset does not have.
var ErrUnknownComponent = errors.New("unknown component")

// Channel is a resolved binding.
type Channel struct {
	ComponentID string            `json:"componentId"`
	Label       string            `json:"label"`
	Unit        string            `json:"unit,omitempty"`
	Dimension   *schema.Dimension `json:"-"`
	Measure     *schema.Measure   `json:"-"`
}

// Bound reports whether the channel is set.
func (c Channel) Bound() bool { return c.ComponentID != "" }

// AxisLabel is the label with the unit appended.
func (c Channel) AxisLabel() string {
	if c.Unit == "" {
		return c.Label
	}
	return fmt.Sprintf("%s (%s)", c.Label, c.Unit)
}

// MapLayer is a resolved areas or symbols layer.
type MapLayer struct {
	Field    chart.FieldName
	Area     Channel
	Value    Channel
	GetArea  DimensionGetter
	GetValue MeasureGetter
	Domain   []string
	Scale    LinearScale
	Gradient Gradient
}

// State is the canonical chart state.
//
// X is the category (domain) channel and Y the value channel. For bar
// charts, whose categories run along the vertical axis, X holds the
// config's y binding and Y its x binding. Scatterplots bind a measure to
// X and read it through GetXValue.
type State struct {
	Family      chart.Family
	Config      config.ChartConfig
	Interactive config.InteractiveFiltersConfig
	Dimensions  []schema.Dimension
	Measures    []schema.Measure

	AllData   []Observation
	ChartData []Observation

	X       Channel
	Y       Channel
	Segment Channel
	Lines   []Channel
	Layers  []MapLayer
	Columns []Channel

	GetX       DimensionGetter
	GetXValue  MeasureGetter
	GetY       MeasureGetter
	GetSegment DimensionGetter
	GetLine    []MeasureGetter

	XDomain   []string
	XBand     BandScale
	XTime     TimeScale
	XFullTime TimeScale // over AllData; the brush domain
	XTemporal bool
	XScale    LinearScale
	YScale    LinearScale
	Y2Scale   LinearScale

	Segments []string
	Colors   ColorScale

	Stacked    bool
	Percent    bool
	Imputation config.Imputation

	Bounds     Bounds
	XAxisLabel string
	YAxisLabel string
}

func logger() *slog.Logger {
	return slog.Default().With(slog.String("module", "engine"))
}

// Resolve builds the canonical state of cfg over ds.
func Resolve(cfg config.ChartConfig, ds Dataset, opts ...Option) (*State, error) {
	if !cfg.Family.Valid() {
		return nil, fmt.Errorf("%w: %q", chart.ErrUnknownFamily, cfg.Family)
	}
	o := applyOptions(opts)

	base := ApplyFilters(SliceView(ds.Observations), FiltersFromConfig(cfg), ds.Dimensions)
	s := &State{
		Family:      cfg.Family,
		Config:      cfg,
		Interactive: cfg.Interactive,
		Dimensions:  ds.Dimensions,
		Measures:    ds.Measures,
		AllData:     Collect(base),
		Bounds:      newBounds(o),
	}
	if err := s.bind(ds); err != nil {
		return nil, err
	}

	chartView := ApplyFilters(base, s.interactiveFilters(o), ds.Dimensions)
	s.ChartData = s.hideSegments(Collect(chartView), o.Hidden)

	s.resolveDomains()
	s.resolveColors()
	s.resolveScales(o)

	logger().Debug("state resolved",
		slog.String("family", string(s.Family)),
		slog.Int("observations", len(ds.Observations)),
		slog.Int("chart_data", len(s.ChartData)),
		slog.Int("segments", len(s.Segments)))
	return s, nil
}

// ============================================================================
// CHANNEL BINDING
// ============================================================================

func dimensionChannel(ds Dataset, id string) (Channel, error) {
	if id == "" {
		return Channel{}, nil
	}
	d, ok := ds.Dimension(id)
	if !ok {
		return Channel{}, fmt.Errorf("%w: dimension %q", ErrUnknownComponent, id)
	}
	return Channel{ComponentID: id, Label: labelOr(d.Label, id), Unit: d.Unit, Dimension: &d}, nil
}

func measureChannel(ds Dataset, id string) (Channel, error) {
	if id == "" {
		return Channel{}, nil
	}
	m, ok := ds.Measure(id)
	if !ok {
		return Channel{}, fmt.Errorf("%w: measure %q", ErrUnknownComponent, id)
	}
	return Channel{ComponentID: id, Label: labelOr(m.Label, id), Unit: m.Unit, Measure: &m}, nil
}

// anyChannel binds a table column to whichever kind of component id is.
func anyChannel(ds Dataset, id string) (Channel, error) {
	if _, ok := ds.Dimension(id); ok {
		return dimensionChannel(ds, id)
	}
	return measureChannel(ds, id)
}

func labelOr(label, id string) string {
	if label != "" {
		return label
	}
	return id
}

func (s *State) bind(ds Dataset) error {
	f := s.Config.Fields
	var err error
	bindDim := func(dst *Channel, id string) {
		if err == nil {
			*dst, err = dimensionChannel(ds, id)
		}
	}
	bindMeasure := func(dst *Channel, id string) {
		if err == nil {
			*dst, err = measureChannel(ds, id)
		}
	}

	switch s.Family {
	case chart.Column, chart.Line, chart.Area:
		bindDim(&s.X, f.ComponentOf(chart.FieldX))
		bindMeasure(&s.Y, f.ComponentOf(chart.FieldY))
	case chart.Bar:
		bindDim(&s.X, f.ComponentOf(chart.FieldY))
		bindMeasure(&s.Y, f.ComponentOf(chart.FieldX))
	case chart.Pie:
		bindMeasure(&s.Y, f.ComponentOf(chart.FieldY))
	case chart.Scatterplot:
		bindMeasure(&s.X, f.ComponentOf(chart.FieldX))
		bindMeasure(&s.Y, f.ComponentOf(chart.FieldY))
	case chart.ComboLineSingle, chart.ComboLineDual, chart.ComboLineColumn:
		bindDim(&s.X, f.ComponentOf(chart.FieldX))
		if f.Lines != nil {
			for _, id := range f.Lines.ComponentIDs {
				var c Channel
				bindMeasure(&c, id)
				s.Lines = append(s.Lines, c)
			}
		}
	case chart.Table:
		if f.Table != nil {
			for _, col := range f.Table.Columns {
				if col.Hidden || err != nil {
					continue
				}
				var c Channel
				c, err = anyChannel(ds, col.ComponentID)
				s.Columns = append(s.Columns, c)
			}
		}
	case chart.Map:
		for _, l := range []struct {
			name  chart.FieldName
			layer *config.MapLayerField
		}{{chart.FieldAreas, f.Areas}, {chart.FieldSymbols, f.Symbols}} {
			if l.layer == nil || err != nil {
				continue
			}
			ml := MapLayer{Field: l.name}
			bindDim(&ml.Area, l.layer.ComponentID)
			bindMeasure(&ml.Value, l.layer.MeasureID)
			ml.GetArea = NewDimensionGetter(ml.Area.ComponentID)
			ml.GetValue = NewMeasureGetter(ml.Value.ComponentID)
			s.Layers = append(s.Layers, ml)
		}
	default:
		panic(fmt.Sprintf("engine: unhandled family %q", s.Family))
	}
	if chart.SchemaOf(s.Family).Has(chart.FieldSegment) {
		bindDim(&s.Segment, f.ComponentOf(chart.FieldSegment))
	}
	if err != nil {
		return err
	}

	if s.X.Dimension != nil {
		s.GetX = NewDimensionGetter(s.X.ComponentID)
	}
	if s.X.Measure != nil {
		s.GetXValue = NewMeasureGetter(s.X.ComponentID)
	}
	if s.Y.Bound() {
		s.GetY = NewMeasureGetter(s.Y.ComponentID)
	}
	if s.Segment.Bound() {
		s.GetSegment = NewDimensionGetter(s.Segment.ComponentID)
	}
	for _, l := range s.Lines {
		s.GetLine = append(s.GetLine, NewMeasureGetter(l.ComponentID))
	}

	s.Stacked = chart.Stackable(s.Family) && s.Segment.Bound() &&
		(s.Family == chart.Area || f.Segment.Type != config.Grouped)
	s.Percent = s.Stacked && s.Interactive.Calculation.Active && s.Interactive.Calculation.Type == config.CalcPercent
	if s.Family == chart.Area && f.Y != nil {
		s.Imputation = f.Y.Imputation
	}
	return nil
}

// ============================================================================
// INTERACTIVE FILTERS
// ============================================================================

func (s *State) interactiveFilters(o *resolveConfig) Filters {
	f := Filters{Values: make(map[string][]string), Ranges: make(map[string]Range)}
	tr := s.Interactive.TimeRange
	if tr.Active && tr.ComponentID != "" && (tr.Presets.From != "" || tr.Presets.To != "") {
		f.Ranges[tr.ComponentID] = Range{From: tr.Presets.From, To: tr.Presets.To}
	}
	if df := s.Interactive.DataFilters; df.Active {
		for _, id := range df.ComponentIDs {
			if vals, ok := o.Selections[id]; ok {
				f.Values[id] = vals
			}
		}
	}
	return f
}

func (s *State) hideSegments(obs []Observation, hidden map[string]bool) []Observation {
	if len(hidden) == 0 || s.GetSegment == nil {
		return obs
	}
	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if k, ok := s.GetSegment(o); ok && hidden[k] {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ============================================================================
// DOMAINS, COLOURS, SCALES
// ============================================================================

func (s *State) resolveDomains() {
	if s.GetX != nil {
		keys, seen := DistinctKeys(s.ChartData, s.GetX)
		SortDomain(keys, s.X.Dimension, seen)
		s.XDomain = keys
		s.XBand = NewBandScale(keys)
		if s.X.Dimension != nil && schema.IsTemporal(*s.X.Dimension) {
			s.XTemporal = true
			s.XTime = NewTimeScale(s.parseTimes(keys))
			all, _ := DistinctKeys(s.AllData, s.GetX)
			s.XFullTime = NewTimeScale(s.parseTimes(all))
		}
	} else {
		s.XBand = NewBandScale(nil)
		s.XTime = NewTimeScale(nil)
		s.XFullTime = s.XTime
	}

	if s.GetSegment != nil {
		keys, _ := DistinctKeys(s.AllData, s.GetSegment)
		var totals map[string]float64
		if seg := s.Config.Fields.Segment; seg != nil && seg.Sorting != nil && s.GetY != nil {
			totals = make(map[string]float64)
			for _, o := range s.AllData {
				k, ok := s.GetSegment(o)
				if v := s.GetY(o); ok && v != nil {
					totals[k] += *v
				}
			}
		}
		var sorting *config.Sorting
		if seg := s.Config.Fields.Segment; seg != nil {
			sorting = seg.Sorting
		}
		SortSegments(keys, s.Segment.Dimension, sorting, totals)
		s.Segments = keys
	}

	for i := range s.Layers {
		l := &s.Layers[i]
		keys, seen := DistinctKeys(s.ChartData, l.GetArea)
		SortDomain(keys, l.Area.Dimension, seen)
		l.Domain = keys
	}
}

func (s *State) parseTimes(keys []string) []time.Time {
	times := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		if t, ok := schema.ParseTime(*s.X.Dimension, k); ok {
			times = append(times, t)
		}
	}
	return times
}

func (s *State) resolveColors() {
	keys := s.Segments
	if len(s.Lines) > 0 {
		keys = make([]string, len(s.Lines))
		for i, l := range s.Lines {
			keys[i] = l.ComponentID
		}
	}
	s.Colors = NewColorScale(keys, s.Config.Fields.Color, s.Segment.Dimension)
}

func (s *State) resolveScales(o *resolveConfig) {
	f := s.Config.Fields
	var custom []float64
	valueAxis := f.Y
	if s.Family == chart.Bar {
		valueAxis = f.X
	}
	if valueAxis != nil {
		custom = valueAxis.CustomDomain
	}

	includeZero := false
	switch s.Family {
	case chart.Column, chart.Bar, chart.Area, chart.Pie, chart.ComboLineColumn:
		includeZero = true
	}

	switch {
	case s.Percent:
		s.YScale = NewLinearScale(nil, []float64{0, 100}, true)
	case s.Stacked:
		s.YScale = NewLinearScale(s.stackExtents(), custom, true)
	case len(s.Lines) > 0:
		s.resolveComboScales(includeZero)
	case s.GetY != nil:
		s.YScale = NewLinearScale(values(s.ChartData, s.GetY), custom, includeZero)
	default:
		s.YScale = NewLinearScale(nil, nil, includeZero)
	}

	if s.GetXValue != nil {
		var xCustom []float64
		if f.X != nil {
			xCustom = f.X.CustomDomain
		}
		s.XScale = NewLinearScale(values(s.ChartData, s.GetXValue), xCustom, false)
	}

	for i := range s.Layers {
		l := &s.Layers[i]
		vals := values(s.ChartData, l.GetValue)
		l.Scale = NewLinearScale(vals, nil, false)
		min, max := 0.0, 1.0
		if len(vals) > 0 {
			min, max = l.Scale.Min, l.Scale.Max
		}
		l.Gradient = NewGradient(o.RampID, min, max)
	}

	s.XAxisLabel = s.X.AxisLabel()
	s.YAxisLabel = s.Y.AxisLabel()
	if s.Percent {
		s.YAxisLabel = s.Y.Label + " (%)"
	}
}

func (s *State) resolveComboScales(includeZero bool) {
	if s.Family == chart.ComboLineSingle {
		var all []float64
		for _, get := range s.GetLine {
			all = append(all, values(s.ChartData, get)...)
		}
		s.YScale = NewLinearScale(all, nil, includeZero)
		return
	}
	s.YScale = NewLinearScale(values(s.ChartData, s.GetLine[0]), nil, includeZero)
	if len(s.GetLine) > 1 {
		s.Y2Scale = NewLinearScale(values(s.ChartData, s.GetLine[1]), nil, includeZero)
	}
}

// stackExtents returns the lower and upper end of every stack.
func (s *State) stackExtents() []float64 {
	grid := GroupBy(s.ChartData, s.GetX, s.GetSegment, s.GetY)
	var out []float64
	for _, x := range s.XDomain {
		ranges := StackRanges(s.Segments, grid[x])
		for _, r := range ranges {
			out = append(out, r.Lower, r.Upper)
		}
	}
	return out
}

func values(obs []Observation, get MeasureGetter) []float64 {
	out := make([]float64, 0, len(obs))
	for _, o := range obs {
		if v := get(o); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// ============================================================================
// LABELS
// ============================================================================

// SegmentLabel returns the display label of a segment key. Display only:
// grouping and colour lookups always use the key.
func (s *State) SegmentLabel(key string) string {
	for _, l := range s.Lines {
		if l.ComponentID == key {
			return l.Label
		}
	}
	if s.Segment.Dimension == nil {
		return key
	}
	return s.Segment.Dimension.LabelFor(key)
}

// GetSegmentAbbreviationOrLabel honours the segment's useAbbreviations flag.
func (s *State) GetSegmentAbbreviationOrLabel(key string) string {
	if seg := s.Config.Fields.Segment; seg != nil && seg.UseAbbreviations && s.Segment.Dimension != nil {
		return s.Segment.Dimension.AbbreviationOrLabel(key)
	}
	return s.SegmentLabel(key)
}

// XLabel returns the display label of a category key.
func (s *State) XLabel(key string) string {
	if s.X.Dimension == nil {
		return key
	}
	return s.X.Dimension.LabelFor(key)
}

// XTimeOf parses a category key of a temporal x axis.
func (s *State) XTimeOf(key string) (time.Time, bool) {
	if !s.XTemporal {
		return time.Time{}, false
	}
	return schema.ParseTime(*s.X.Dimension, key)
}

// Color returns the colour of a segment (or combo line) key.
func (s *State) Color(key string) string {
	return s.Colors.Color(key)
}

// Grid groups ChartData by category and segment for the value channel.
func (s *State) Grid() Grid {
	if s.GetX == nil || s.GetY == nil {
		return Grid{}
	}
	return GroupBy(s.ChartData, s.GetX, s.GetSegment, s.GetY)
}
