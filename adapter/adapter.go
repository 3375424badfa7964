// Package adapter turns a canonical engine.State into an Option for one
// chart family. Every family has exactly one adapter; the set is closed.
package adapter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/schema"
	"github.com/spektr-org/chartkit/timerange"
)

// Adapter builds the option of one family.
type Adapter func(s *engine.State, c *buildConfig) Option

var adapters = map[chart.Family]Adapter{
	chart.Column:          buildColumn,
	chart.Bar:             buildBar,
	chart.Line:            buildLine,
	chart.Area:            buildArea,
	chart.Pie:             buildPie,
	chart.Scatterplot:     buildScatter,
	chart.Table:           buildTable,
	chart.Map:             buildMap,
	chart.ComboLineSingle: buildComboLineSingle,
	chart.ComboLineDual:   buildComboLineDual,
	chart.ComboLineColumn: buildComboLineColumn,
}

func init() {
	for _, f := range chart.All() {
		if _, ok := adapters[f]; !ok {
			panic(fmt.Sprintf("adapter: family %q has no adapter", f))
		}
	}
}

// DefaultPlaceholder is shown for options without data.
const DefaultPlaceholder = "No data available"

// ============================================================================
// BUILD OPTIONS
// ============================================================================

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	Number          func(float64) string
	Date            func(time.Time) string
	SortByValueDesc bool
	Placeholder     string
	Brush           *timerange.Brush
}

// WithNumberFormatter formats every measure value.
func WithNumberFormatter(fn func(float64) string) BuildOption {
	return func(c *buildConfig) { c.Number = fn }
}

// WithDateFormatter formats temporal category labels.
func WithDateFormatter(fn func(time.Time) string) BuildOption {
	return func(c *buildConfig) { c.Date = fn }
}

// SortByValueDesc orders the rendered categories of column, bar and pie
// charts by value, largest first. The state's domain is untouched.
func SortByValueDesc() BuildOption {
	return func(c *buildConfig) { c.SortByValueDesc = true }
}

// WithPlaceholder overrides the empty-state text.
func WithPlaceholder(text string) BuildOption {
	return func(c *buildConfig) { c.Placeholder = text }
}

// WithBrush uses a synchronizer's brush instead of deriving one from the
// config's time range presets.
func WithBrush(b timerange.Brush) BuildOption {
	return func(c *buildConfig) { c.Brush = &b }
}

func applyBuildOptions(opts []BuildOption) *buildConfig {
	c := &buildConfig{
		Number: func(v float64) string {
			return strconv.FormatFloat(engine.RoundTo2(v), 'f', -1, 64)
		},
		Placeholder: DefaultPlaceholder,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ============================================================================
// BUILD
// ============================================================================

// Build produces the option of family f from s. An unknown family is a
// programmer error and panics.
func Build(f chart.Family, s *engine.State, opts ...BuildOption) Option {
	build, ok := adapters[f]
	if !ok {
		panic(fmt.Sprintf("adapter: unknown family %q", f))
	}
	c := applyBuildOptions(opts)

	opt := build(s, c)
	opt.Family = f
	opt.Bounds = s.Bounds
	if opt.Series == nil {
		opt.Series = []Series{}
	}
	if len(s.ChartData) == 0 {
		opt.Empty = true
	}
	if opt.Empty && opt.Placeholder == "" {
		opt.Placeholder = c.Placeholder
	}
	if chart.SchemaOf(f).Has(chart.FieldAnimation) {
		opt.Animation = animation(s)
	}
	return opt
}

// ============================================================================
// SHARED PIECES
// ============================================================================

func (c *buildConfig) format(v *float64) string {
	if v == nil {
		return ""
	}
	return c.Number(*v)
}

func (c *buildConfig) formatPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return c.Number(*v) + "%"
}

// xLabel is the display label of a category key.
func xLabel(s *engine.State, c *buildConfig, key string) string {
	if t, ok := s.XTimeOf(key); ok {
		if c.Date != nil {
			return c.Date(t)
		}
		return schema.FormatTime(*s.X.Dimension, t)
	}
	return s.XLabel(key)
}

// categoryAxis lists order (keys) with their labels. Temporal domains with
// a valid scale become time axes.
func categoryAxis(s *engine.State, c *buildConfig, order []string) Axis {
	a := Axis{
		Type:           AxisCategory,
		Label:          s.XAxisLabel,
		Categories:     make([]string, len(order)),
		CategoryLabels: make([]string, len(order)),
	}
	if s.XTemporal && s.XTime.Valid {
		a.Type = AxisTime
	}
	copy(a.Categories, order)
	for i, k := range order {
		a.CategoryLabels[i] = xLabel(s, c, k)
	}
	return a
}

func valueAxis(sc engine.LinearScale, label string) Axis {
	return Axis{Type: AxisValue, Label: label, Min: sc.Min, Max: sc.Max, Ticks: sc.Ticks}
}

// legend lists keys with their labels and colours; nil when there is
// nothing to tell apart.
func legend(s *engine.State, keys []string) *Legend {
	if len(keys) == 0 {
		return nil
	}
	l := &Legend{Items: make([]LegendItem, len(keys)), Interactive: s.Interactive.Legend.Active}
	for i, k := range keys {
		l.Items[i] = LegendItem{Key: k, Label: s.GetSegmentAbbreviationOrLabel(k), Color: s.Color(k)}
	}
	if seg := s.Config.Fields.Segment; seg != nil && seg.ShowTitle {
		l.Title = s.Segment.Label
	}
	return l
}

// timeBrush returns the brush of a temporal x axis with an active time
// range filter.
func timeBrush(s *engine.State, c *buildConfig) *timerange.Brush {
	tr := s.Interactive.TimeRange
	if !s.XTemporal || !tr.Active {
		return nil
	}
	if c.Brush != nil {
		b := *c.Brush
		return &b
	}
	from, _ := schema.ParseTime(*s.X.Dimension, tr.Presets.From)
	to, _ := schema.ParseTime(*s.X.Dimension, tr.Presets.To)
	b := timerange.BrushOf(s.XFullTime, from, to)
	return &b
}

// displayOrder re-orders the category domain for rendering. SortByValueDesc
// wins over the axis sorting config; neither touches s.XDomain.
func displayOrder(s *engine.State, c *buildConfig, axis *config.AxisField, totals map[string]float64) []string {
	order := make([]string, len(s.XDomain))
	copy(order, s.XDomain)

	var sorting *config.Sorting
	if axis != nil {
		sorting = axis.Sorting
	}
	switch {
	case c.SortByValueDesc:
		sortByTotal(order, totals, true)
	case sorting == nil || sorting.By == config.SortByAuto || sorting.By == "":
	case sorting.By == config.SortByDimensionLabel:
		sort.SliceStable(order, func(i, j int) bool {
			a, b := strings.ToLower(s.XLabel(order[i])), strings.ToLower(s.XLabel(order[j]))
			if sorting.Order == config.Desc {
				return a > b
			}
			return a < b
		})
	default:
		sortByTotal(order, totals, sorting.Order == config.Desc)
	}
	return order
}

// sortByTotal keeps categories without a total (all null) at the end.
func sortByTotal(order []string, totals map[string]float64, desc bool) {
	sort.SliceStable(order, func(i, j int) bool {
		a, okA := totals[order[i]]
		b, okB := totals[order[j]]
		if okA != okB {
			return okA
		}
		if desc {
			return a > b
		}
		return a < b
	})
}

// shares converts cells into percentages of their non-null sum.
func shares(cells map[string]engine.Cell) map[string]engine.Cell {
	vals := make([]*float64, 0, len(cells))
	for _, v := range cells {
		vals = append(vals, v)
	}
	total, ok := engine.Stack(vals)
	out := make(map[string]engine.Cell, len(cells))
	for k, v := range cells {
		switch {
		case v == nil || !ok:
			out[k] = nil
		case total == 0:
			out[k] = engine.Float(0)
		default:
			out[k] = engine.Float(*v / total * 100)
		}
	}
	return out
}

func animation(s *engine.State) *Animation {
	f := s.Config.Fields.Animation
	if f == nil || f.ComponentID == "" {
		return nil
	}
	dim, ok := schema.FindDimension(s.Dimensions, f.ComponentID)
	if !ok {
		return nil
	}
	frames, seen := engine.DistinctKeys(s.ChartData, engine.NewDimensionGetter(f.ComponentID))
	engine.SortDomain(frames, &dim, seen)
	a := &Animation{
		ComponentID:    f.ComponentID,
		Frames:         frames,
		FrameLabels:    make([]string, len(frames)),
		ShowPlayButton: f.ShowPlayButton,
		Duration:       f.Duration,
	}
	for i, k := range frames {
		a.FrameLabels[i] = dim.LabelFor(k)
	}
	if a.Frames == nil {
		a.Frames = []string{}
	}
	return a
}

func showValues(axis *config.AxisField) bool {
	return axis != nil && axis.ShowValues != nil && *axis.ShowValues
}
