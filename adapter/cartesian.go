package adapter

import (
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/engine"
)

// ============================================================================
// COLUMN / BAR
// ============================================================================

func buildColumn(s *engine.State, c *buildConfig) Option {
	f := s.Config.Fields
	return barLike(s, c, f.X, f.Y, false)
}

// buildBar lays categories along y. The state already holds the category
// channel in X.
func buildBar(s *engine.State, c *buildConfig) Option {
	f := s.Config.Fields
	return barLike(s, c, f.Y, f.X, true)
}

func barLike(s *engine.State, c *buildConfig, categoryField, valueField *config.AxisField, horizontal bool) Option {
	grid := displayed(s, s.Grid())
	order := displayOrder(s, c, categoryField, grid.Totals())

	category := categoryAxis(s, c, order)
	value := valueAxis(s.YScale, s.YAxisLabel)
	opt := Option{
		Horizontal: horizontal,
		Percent:    s.Percent,
		XAxis:      category,
		YAxis:      value,
		Tooltip:    Tooltip{Trigger: TriggerAxis},
		TimeBrush:  timeBrush(s, c),
	}
	if horizontal {
		opt.XAxis, opt.YAxis = value, category
	}
	opt.Series = segmentSeries(s, c, grid, order, KindBar, showValues(valueField))
	if s.Stacked {
		opt.Totals = grid.Totals()
	}
	if s.Segment.Bound() {
		opt.Legend = legend(s, s.Segments)
	}
	return opt
}

// ============================================================================
// LINE
// ============================================================================

var dotSizes = map[string]int{"small": 3, "medium": 5, "large": 8}

func buildLine(s *engine.State, c *buildConfig) Option {
	grid := s.Grid()
	opt := Option{
		XAxis:     categoryAxis(s, c, s.XDomain),
		YAxis:     valueAxis(s.YScale, s.YAxisLabel),
		Tooltip:   Tooltip{Trigger: TriggerAxis},
		TimeBrush: timeBrush(s, c),
	}

	show, size := true, dotSizes["large"]
	if y := s.Config.Fields.Y; y != nil {
		if y.ShowDots != nil {
			show = *y.ShowDots
		}
		if sz, ok := dotSizes[y.ShowDotsSize]; ok {
			size = sz
		}
	}
	opt.Series = segmentSeries(s, c, grid, s.XDomain, KindLine, false)
	for i := range opt.Series {
		opt.Series[i].ShowSymbol = show
		opt.Series[i].SymbolSize = size
	}
	if s.Segment.Bound() {
		opt.Legend = legend(s, s.Segments)
	}
	return opt
}

// ============================================================================
// AREA
// ============================================================================

// buildArea imputes each segment along the domain before stacking.
func buildArea(s *engine.State, c *buildConfig) Option {
	grid := s.Grid()
	keys := seriesKeys(s)

	imputed := make(engine.Grid, len(s.XDomain))
	for _, x := range s.XDomain {
		imputed[x] = make(map[string]engine.Cell, len(keys))
	}
	for _, k := range keys {
		column := make([]*float64, len(s.XDomain))
		for i, x := range s.XDomain {
			column[i] = grid.Get(x, k)
		}
		for i, v := range engine.Impute(column, s.Imputation) {
			imputed[s.XDomain[i]][k] = v
		}
	}
	shown := displayed(s, imputed)

	opt := Option{
		Percent:   s.Percent,
		XAxis:     categoryAxis(s, c, s.XDomain),
		YAxis:     valueAxis(s.YScale, s.YAxisLabel),
		Tooltip:   Tooltip{Trigger: TriggerAxis},
		TimeBrush: timeBrush(s, c),
		Series:    segmentSeries(s, c, shown, s.XDomain, KindArea, false),
	}
	if s.Stacked {
		opt.Totals = shown.Totals()
	}
	if s.Segment.Bound() {
		opt.Legend = legend(s, s.Segments)
	}
	return opt
}

// ============================================================================
// SERIES
// ============================================================================

// seriesKeys returns the segment keys, or a single empty key when no
// segment is bound.
func seriesKeys(s *engine.State) []string {
	if !s.Segment.Bound() {
		return []string{""}
	}
	return s.Segments
}

// displayed converts a grid to shares of each category when the percent
// calculation is on.
func displayed(s *engine.State, g engine.Grid) engine.Grid {
	if !s.Percent {
		return g
	}
	out := make(engine.Grid, len(g))
	for x, row := range g {
		out[x] = shares(row)
	}
	return out
}

// segmentSeries groups the grid into one series per segment key, in
// segment order. Points follow order; stacked series carry their
// [lower, upper] range.
func segmentSeries(s *engine.State, c *buildConfig, g engine.Grid, order []string, kind SeriesKind, showLabel bool) []Series {
	keys := seriesKeys(s)
	series := make([]Series, len(keys))
	for i, k := range keys {
		series[i] = Series{
			Key:       k,
			Name:      s.GetSegmentAbbreviationOrLabel(k),
			Kind:      kind,
			Color:     s.Color(k),
			ShowLabel: showLabel,
			Data:      make([]Point, 0, len(order)),
		}
		if k == "" {
			series[i].Key, series[i].Name = s.Y.ComponentID, s.Y.Label
		}
		if s.Stacked {
			series[i].Stack = "total"
		}
	}

	for _, x := range order {
		row := g[x]
		var ranges map[string]engine.StackedRange
		if s.Stacked {
			ranges = engine.StackRanges(s.Segments, row)
		}
		label := xLabel(s, c, x)
		for i, k := range keys {
			v := row[k]
			p := Point{X: x, XLabel: label, Key: k, Label: series[i].Name, Value: v, Color: series[i].Color}
			if s.Percent {
				p.Formatted = c.formatPercent(v)
			} else {
				p.Formatted = c.format(v)
			}
			if r, ok := ranges[k]; ok {
				p.Stacked = []float64{r.Lower, r.Upper}
			}
			series[i].Data = append(series[i].Data, p)
		}
	}
	return series
}
