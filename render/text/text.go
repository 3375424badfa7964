// Package text plots cartesian options in the terminal.
package text

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/pterm/pterm"

	"github.com/spektr-org/chartkit/adapter"
	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// TERMINAL PLOT
// ============================================================================
// Each series becomes one asciigraph line over the category axis; nulls
// are NaN gaps. Pie slices become pterm bars, tables a pterm table.
// Scatterplots and maps are not plotted.
// ============================================================================

// ErrUnsupported is returned for families without a terminal plot.
var ErrUnsupported = errors.New("text: unsupported chart family")

// Config sizes the plot in characters.
type Config struct {
	Width  int // 0 = one column per category
	Height int
}

// DefaultConfig returns a compact plot size.
func DefaultConfig() Config {
	return Config{Width: 60, Height: 10}
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow,
	asciigraph.Magenta, asciigraph.Cyan,
}

// Plot renders opt for the terminal. Cartesian families become an ANSI
// line plot with a caption listing the series.
func Plot(opt adapter.Option, cfg Config) (string, error) {
	switch opt.Family {
	case chart.Column, chart.Bar, chart.Line, chart.Area,
		chart.ComboLineSingle, chart.ComboLineDual, chart.ComboLineColumn:
	case chart.Pie:
		return pieBars(opt, cfg)
	case chart.Table:
		return table(opt)
	case chart.Scatterplot, chart.Map:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, opt.Family)
	default:
		panic(fmt.Sprintf("text: unhandled family %q", opt.Family))
	}
	if opt.Empty || len(opt.Series) == 0 {
		return opt.Placeholder, nil
	}

	category := opt.XAxis
	if opt.Horizontal {
		category = opt.YAxis
	}
	data := make([][]float64, 0, len(opt.Series))
	names := make([]string, 0, len(opt.Series))
	colors := make([]asciigraph.AnsiColor, 0, len(opt.Series))
	for i, s := range opt.Series {
		values, ok := valuesOf(s, category.Categories)
		if !ok {
			continue
		}
		data = append(data, values)
		names = append(names, s.Name)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}
	if len(data) == 0 {
		return opt.Placeholder, nil
	}

	opts := []asciigraph.Option{
		asciigraph.Height(cfg.Height),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption(category, names)),
	}
	if cfg.Width > 0 && len(category.Categories) > 1 {
		opts = append(opts, asciigraph.Width(cfg.Width))
	}
	return asciigraph.PlotMany(data, opts...), nil
}

// valuesOf lines s up with categories. ok is false when every value is
// null.
func valuesOf(s adapter.Series, categories []string) (out []float64, ok bool) {
	out = make([]float64, len(categories))
	for i, key := range categories {
		out[i] = math.NaN()
		for _, p := range s.Data {
			if p.X == key && p.Value != nil {
				out[i] = *p.Value
				ok = true
				break
			}
		}
	}
	return out, ok
}

func caption(category adapter.Axis, names []string) string {
	var b strings.Builder
	if n := len(category.CategoryLabels); n > 0 {
		fmt.Fprintf(&b, "%s: %s … %s", category.Label, category.CategoryLabels[0], category.CategoryLabels[n-1])
	}
	if len(names) > 0 {
		if b.Len() > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(strings.Join(names, ", "))
	}
	return b.String()
}

// ============================================================================
// PIE / TABLE
// ============================================================================

// pieBars draws one horizontal bar per slice. pterm bars are integral, so
// values are rounded.
func pieBars(opt adapter.Option, cfg Config) (string, error) {
	var bars pterm.Bars
	for _, s := range opt.Series {
		for _, p := range s.Data {
			if p.Value == nil {
				continue
			}
			bars = append(bars, pterm.Bar{Label: p.Label, Value: int(math.Round(*p.Value))})
		}
	}
	if opt.Empty || len(bars) == 0 {
		return opt.Placeholder, nil
	}
	printer := pterm.DefaultBarChart.
		WithBars(bars).
		WithHorizontal(true).
		WithShowValue(true)
	if cfg.Width > 0 {
		printer = printer.WithWidth(cfg.Width)
	}
	return printer.Srender()
}

func table(opt adapter.Option) (string, error) {
	t := opt.Table
	if t == nil || len(t.Columns) == 0 {
		return opt.Placeholder, nil
	}
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Label
	}
	data := pterm.TableData{header}
	data = append(data, t.Rows...)
	if t.Summary != nil {
		row := make([]string, len(t.Columns))
		row[0] = t.Summary.Label
		for i, c := range t.Columns {
			if v, ok := t.Summary.Values[c.Key]; ok && i > 0 {
				row[i] = v
			}
		}
		data = append(data, row)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
