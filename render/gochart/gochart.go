// Package gochart renders an adapter.Option as a static PNG or SVG image.
package gochart

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/chartkit/adapter"
	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// STATIC IMAGE RENDERER
// ============================================================================
//   column/bar, one series  → BarChart
//   column/bar, many series → StackedBarChart (one bar per category)
//   line/area/combo lines   → Chart with continuous series over category index
//   scatterplot             → Chart with dot-only series
//   pie                     → PieChart
// Category axes are drawn as index positions labelled by ticks. Null values
// are left out of a series rather than drawn as zero.
// ============================================================================

var (
	// ErrUnsupported is returned for families without a static rendering.
	ErrUnsupported = errors.New("gochart: unsupported chart family")
	// ErrEmpty is returned for options without any drawable value.
	ErrEmpty = errors.New("gochart: nothing to draw")
)

// Format selects the image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

var logger = slog.Default().With(slog.String("module", "render/gochart"))

const (
	defaultWidth  = 800
	defaultHeight = 450
)

type renderable interface {
	Render(rp gochart.RendererProvider, w io.Writer) error
}

// Render draws opt to w.
func Render(opt adapter.Option, w io.Writer, format Format) error {
	if opt.Empty {
		return ErrEmpty
	}
	r, err := build(opt)
	if err != nil {
		return err
	}
	rp := gochart.PNG
	if format == SVG {
		rp = gochart.SVG
	}
	if err := r.Render(rp, w); err != nil {
		return fmt.Errorf("failed to draw %s chart: %w", opt.Family, err)
	}
	logger.Debug("image rendered", slog.String("family", string(opt.Family)), slog.String("format", string(format)))
	return nil
}

func build(opt adapter.Option) (renderable, error) {
	switch opt.Family {
	case chart.Column, chart.Bar:
		if len(opt.Series) == 1 {
			return barChart(opt)
		}
		return stackedBarChart(opt)
	case chart.Line, chart.Area, chart.ComboLineSingle, chart.ComboLineDual:
		return lineChart(opt)
	case chart.Scatterplot:
		return scatterChart(opt)
	case chart.Pie:
		return pieChart(opt)
	case chart.ComboLineColumn, chart.Table, chart.Map:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, opt.Family)
	}
	panic(fmt.Sprintf("gochart: unhandled family %q", opt.Family))
}

// ============================================================================
// BARS
// ============================================================================

func barChart(opt adapter.Option) (renderable, error) {
	s := opt.Series[0]
	category := categoryOf(opt)
	var bars []gochart.Value
	for i, key := range category.Categories {
		v, ok := valueAt(s, key)
		if !ok {
			continue
		}
		bars = append(bars, gochart.Value{
			Label: labelAt(category, i),
			Value: v,
			Style: gochart.Style{FillColor: color(s.Color), StrokeColor: color(s.Color)},
		})
	}
	if len(bars) == 0 {
		return nil, ErrEmpty
	}
	w, h := size(opt)
	return &gochart.BarChart{
		Title:  category.Label,
		Width:  w,
		Height: h,
		Bars:   bars,
		YAxis:  gochart.YAxis{Name: opt.YAxis.Label, Range: yRange(valueAxis(opt))},
	}, nil
}

func stackedBarChart(opt adapter.Option) (renderable, error) {
	category := categoryOf(opt)
	var bars []gochart.StackedBar
	for i, key := range category.Categories {
		bar := gochart.StackedBar{Name: labelAt(category, i)}
		for _, s := range opt.Series {
			v, ok := valueAt(s, key)
			if !ok {
				continue
			}
			bar.Values = append(bar.Values, gochart.Value{
				Label: s.Name,
				Value: v,
				Style: gochart.Style{FillColor: color(s.Color), StrokeColor: color(s.Color)},
			})
		}
		if len(bar.Values) > 0 {
			bars = append(bars, bar)
		}
	}
	if len(bars) == 0 {
		return nil, ErrEmpty
	}
	w, h := size(opt)
	return &gochart.StackedBarChart{Title: category.Label, Width: w, Height: h, Bars: bars}, nil
}

// ============================================================================
// LINES / SCATTER
// ============================================================================

func lineChart(opt adapter.Option) (renderable, error) {
	category := opt.XAxis
	var series []gochart.Series
	for _, s := range opt.Series {
		var xs, ys []float64
		for i, key := range category.Categories {
			if v, ok := valueAt(s, key); ok {
				xs = append(xs, float64(i))
				ys = append(ys, v)
			}
		}
		if len(xs) == 0 {
			continue
		}
		st := gochart.Style{StrokeColor: color(s.Color), StrokeWidth: 2}
		if s.ShowSymbol {
			st.DotColor = color(s.Color)
			st.DotWidth = float64(max(s.SymbolSize, 2)) / 2
		}
		if s.Kind == adapter.KindArea {
			st.FillColor = color(s.Color).WithAlpha(150)
		}
		cs := gochart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: st}
		if s.YAxisIndex > 0 {
			cs.YAxis = gochart.YAxisSecondary
		}
		series = append(series, cs)
	}
	if len(series) == 0 {
		return nil, ErrEmpty
	}

	ticks := make([]gochart.Tick, len(category.Categories))
	for i := range category.Categories {
		ticks[i] = gochart.Tick{Value: float64(i), Label: labelAt(category, i)}
	}
	c := &gochart.Chart{
		XAxis:  gochart.XAxis{Name: category.Label, Ticks: ticks, Range: indexRange(len(category.Categories))},
		YAxis:  gochart.YAxis{Name: opt.YAxis.Label, Range: yRange(opt.YAxis)},
		Series: series,
	}
	if opt.Y2Axis != nil {
		c.YAxisSecondary = gochart.YAxis{Name: opt.Y2Axis.Label, Range: yRange(*opt.Y2Axis)}
	}
	c.Width, c.Height = size(opt)
	if opt.Legend != nil || len(series) > 1 {
		c.Elements = []gochart.Renderable{gochart.Legend(c)}
	}
	return c, nil
}

func scatterChart(opt adapter.Option) (renderable, error) {
	var series []gochart.Series
	for _, s := range opt.Series {
		var xs, ys []float64
		for _, p := range s.Data {
			if p.XValue == nil || p.Value == nil {
				continue
			}
			xs = append(xs, *p.XValue)
			ys = append(ys, *p.Value)
		}
		if len(xs) == 0 {
			continue
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    4,
				DotColor:    color(s.Color),
			},
		})
	}
	if len(series) == 0 {
		return nil, ErrEmpty
	}
	c := &gochart.Chart{
		XAxis:  gochart.XAxis{Name: opt.XAxis.Label, Range: yRange(opt.XAxis)},
		YAxis:  gochart.YAxis{Name: opt.YAxis.Label, Range: yRange(opt.YAxis)},
		Series: series,
	}
	c.Width, c.Height = size(opt)
	if len(series) > 1 {
		c.Elements = []gochart.Renderable{gochart.Legend(c)}
	}
	return c, nil
}

// ============================================================================
// PIE
// ============================================================================

func pieChart(opt adapter.Option) (renderable, error) {
	var values []gochart.Value
	for _, s := range opt.Series {
		for _, p := range s.Data {
			if p.Value == nil || *p.Value <= 0 {
				continue
			}
			values = append(values, gochart.Value{
				Label: p.Label,
				Value: *p.Value,
				Style: gochart.Style{FillColor: color(p.Color)},
			})
		}
	}
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	w, h := size(opt)
	return &gochart.PieChart{Width: w, Height: h, Values: values}, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func categoryOf(opt adapter.Option) adapter.Axis {
	if opt.Horizontal {
		return opt.YAxis
	}
	return opt.XAxis
}

func valueAxis(opt adapter.Option) adapter.Axis {
	if opt.Horizontal {
		return opt.XAxis
	}
	return opt.YAxis
}

func labelAt(a adapter.Axis, i int) string {
	if i < len(a.CategoryLabels) {
		return a.CategoryLabels[i]
	}
	return a.Categories[i]
}

func valueAt(s adapter.Series, key string) (float64, bool) {
	for _, p := range s.Data {
		if p.X == key && p.Value != nil {
			return *p.Value, true
		}
	}
	return 0, false
}

// indexRange spans category positions; a single category gets a unit
// window so the range never collapses.
func indexRange(n int) *gochart.ContinuousRange {
	if n <= 1 {
		return &gochart.ContinuousRange{Min: -0.5, Max: 0.5}
	}
	return &gochart.ContinuousRange{Min: 0, Max: float64(n - 1)}
}

func yRange(a adapter.Axis) gochart.Range {
	if a.Max <= a.Min {
		return nil
	}
	return &gochart.ContinuousRange{Min: a.Min, Max: a.Max}
}

func size(opt adapter.Option) (int, int) {
	w, h := opt.Bounds.Width, opt.Bounds.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func color(hex string) drawing.Color {
	if hex == "" {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
