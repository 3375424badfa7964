// Package echarts renders an adapter.Option as a standalone ECharts HTML
// page.
package echarts

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/spektr-org/chartkit/adapter"
	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// ECHARTS RENDERER
// ============================================================================
// Maps the engine-neutral option onto go-echarts builders:
//   column/bar       → Bar (XYReversal for bar)
//   line/area/combos → Line, dual axes via ExtendYAxis
//   line+column      → Bar overlapped with Line
//   pie, scatter     → Pie, Scatter
// Tables and maps have no ECharts counterpart here.
// ============================================================================

// ErrUnsupported is returned for families this renderer cannot draw.
var ErrUnsupported = errors.New("echarts: unsupported chart family")

// Renderer is a chart that writes itself as an HTML page.
type Renderer interface {
	Render(w io.Writer) error
}

var logger = slog.Default().With(slog.String("module", "render/echarts"))

// nullValue is how ECharts spells a gap.
const nullValue = "-"

// Chart builds the go-echarts chart of opt.
func Chart(opt adapter.Option) (Renderer, error) {
	switch opt.Family {
	case chart.Column, chart.Bar:
		return barChart(opt), nil
	case chart.Line, chart.Area, chart.ComboLineSingle, chart.ComboLineDual:
		return lineChart(opt), nil
	case chart.ComboLineColumn:
		return lineColumnChart(opt), nil
	case chart.Pie:
		return pieChart(opt), nil
	case chart.Scatterplot:
		return scatterChart(opt), nil
	case chart.Table, chart.Map:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, opt.Family)
	}
	panic(fmt.Sprintf("echarts: unhandled family %q", opt.Family))
}

// Render writes the HTML page of opt to w.
func Render(opt adapter.Option, w io.Writer) error {
	c, err := Chart(opt)
	if err != nil {
		return err
	}
	if err := c.Render(w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", opt.Family, err)
	}
	logger.Debug("chart rendered",
		slog.String("family", string(opt.Family)),
		slog.Int("series", len(opt.Series)))
	return nil
}

// ============================================================================
// GLOBAL OPTIONS
// ============================================================================

func globalOpts(opt adapter.Option) []charts.GlobalOpts {
	g := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  px(opt.Bounds.Width),
			Height: px(opt.Bounds.Height),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: opt.Tooltip.Trigger}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(opt.Legend != nil)}),
	}
	if opt.Empty {
		g = append(g, charts.WithTitleOpts(opts.Title{Subtitle: opt.Placeholder}))
	}
	if b := opt.TimeBrush; b != nil && b.Available {
		g = append(g, charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "slider",
			Start:      float32(b.Start),
			End:        float32(b.End),
			XAxisIndex: []int{0},
		}))
	}
	return g
}

func px(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n) + "px"
}

func valueYAxis(a adapter.Axis) opts.YAxis {
	return opts.YAxis{Name: a.Label, Type: "value", Min: a.Min, Max: a.Max}
}

func valueXAxis(a adapter.Axis) opts.XAxis {
	return opts.XAxis{Name: a.Label, Type: "value", Min: a.Min, Max: a.Max}
}

// categoryAxis returns the discrete axis of a cartesian option.
func categoryAxis(opt adapter.Option) adapter.Axis {
	if opt.Horizontal {
		return opt.YAxis
	}
	return opt.XAxis
}

func value(v *float64) any {
	if v == nil {
		return nullValue
	}
	return *v
}

func itemStyle(s adapter.Series) charts.SeriesOpts {
	return charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color})
}

// ============================================================================
// BAR / COLUMN
// ============================================================================

func barChart(opt adapter.Option) *charts.Bar {
	category, values := opt.XAxis, opt.YAxis
	if opt.Horizontal {
		category, values = opt.YAxis, opt.XAxis
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globalOpts(opt),
		charts.WithXAxisOpts(opts.XAxis{Name: category.Label, Type: "category"}),
		charts.WithYAxisOpts(valueYAxis(values)),
	)...)
	bar.SetXAxis(category.CategoryLabels)
	for _, s := range opt.Series {
		addBarSeries(bar, s)
	}
	if opt.Horizontal {
		bar.XYReversal()
	}
	return bar
}

func addBarSeries(bar *charts.Bar, s adapter.Series) {
	data := make([]opts.BarData, len(s.Data))
	for i, p := range s.Data {
		data[i] = opts.BarData{Name: p.XLabel, Value: value(p.Value)}
	}
	bar.AddSeries(s.Name, data,
		itemStyle(s),
		charts.WithBarChartOpts(opts.BarChart{Stack: s.Stack, YAxisIndex: s.YAxisIndex}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(s.ShowLabel), Position: "top"}),
	)
}

// ============================================================================
// LINE / AREA / COMBOS
// ============================================================================

func lineChart(opt adapter.Option) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(append(globalOpts(opt),
		charts.WithXAxisOpts(opts.XAxis{Name: opt.XAxis.Label, Type: "category"}),
		charts.WithYAxisOpts(valueYAxis(opt.YAxis)),
	)...)
	line.SetXAxis(opt.XAxis.CategoryLabels)
	if opt.Y2Axis != nil {
		line.ExtendYAxis(valueYAxis(*opt.Y2Axis))
	}
	for _, s := range opt.Series {
		addLineSeries(line, s)
	}
	return line
}

func addLineSeries(line *charts.Line, s adapter.Series) {
	data := make([]opts.LineData, len(s.Data))
	for i, p := range s.Data {
		data[i] = opts.LineData{Name: p.XLabel, Value: value(p.Value)}
	}
	so := []charts.SeriesOpts{
		itemStyle(s),
		charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
		charts.WithLineChartOpts(opts.LineChart{
			Stack:      s.Stack,
			ShowSymbol: opts.Bool(s.ShowSymbol),
			SymbolSize: s.SymbolSize,
			YAxisIndex: s.YAxisIndex,
		}),
	}
	if s.Kind == adapter.KindArea {
		so = append(so, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.6)}))
	}
	line.AddSeries(s.Name, data, so...)
}

// lineColumnChart draws the column series as bars and overlaps the line.
func lineColumnChart(opt adapter.Option) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globalOpts(opt),
		charts.WithXAxisOpts(opts.XAxis{Name: opt.XAxis.Label, Type: "category"}),
		charts.WithYAxisOpts(valueYAxis(opt.YAxis)),
	)...)
	bar.SetXAxis(opt.XAxis.CategoryLabels)
	if opt.Y2Axis != nil {
		bar.ExtendYAxis(valueYAxis(*opt.Y2Axis))
	}

	line := charts.NewLine()
	line.SetXAxis(opt.XAxis.CategoryLabels)
	for _, s := range opt.Series {
		if s.Kind == adapter.KindBar {
			addBarSeries(bar, s)
			continue
		}
		addLineSeries(line, s)
	}
	bar.Overlap(line)
	return bar
}

// ============================================================================
// PIE / SCATTER
// ============================================================================

func pieChart(opt adapter.Option) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOpts(opt)...)
	for _, s := range opt.Series {
		data := make([]opts.PieData, 0, len(s.Data))
		for _, p := range s.Data {
			data = append(data, opts.PieData{
				Name:      p.Label,
				Value:     value(p.Value),
				ItemStyle: &opts.ItemStyle{Color: p.Color},
			})
		}
		pie.AddSeries(s.Name, data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(s.ShowLabel), Formatter: "{b}: {c}"}),
		)
	}
	return pie
}

func scatterChart(opt adapter.Option) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(append(globalOpts(opt),
		charts.WithXAxisOpts(valueXAxis(opt.XAxis)),
		charts.WithYAxisOpts(valueYAxis(opt.YAxis)),
	)...)
	for _, s := range opt.Series {
		data := make([]opts.ScatterData, 0, len(s.Data))
		for _, p := range s.Data {
			if p.XValue == nil || p.Value == nil {
				continue
			}
			data = append(data, opts.ScatterData{
				Name:       p.Label,
				Value:      []float64{*p.XValue, *p.Value},
				SymbolSize: 8,
			})
		}
		sc.AddSeries(s.Name, data, itemStyle(s))
	}
	return sc
}
