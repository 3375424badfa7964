// Package xlsx exports an adapter.Option as an Excel workbook: the
// plotted values on a data sheet plus a native Excel chart.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/chartkit/adapter"
	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// XLSX EXPORT
// ============================================================================
// Layout of the data sheet for cartesian families:
//   A1      category axis label
//   A2..An  category labels
//   B1..    series names, one column per series; gaps stay empty
// Scatterplots write an (x, y) column pair per series. Tables write their
// rows and summary to a "Table" sheet and carry no chart.
// ============================================================================

const (
	dataSheet  = "Data"
	tableSheet = "Table"
	chartCell  = "H2"
)

// ErrUnsupported is returned for families Excel has no chart for.
var ErrUnsupported = errors.New("xlsx: unsupported chart family")

var logger = slog.Default().With(slog.String("module", "render/xlsx"))

// Write encodes opt as a workbook to w.
func Write(opt adapter.Option, w io.Writer) error {
	f, err := Workbook(opt)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Workbook builds the workbook of opt. The caller closes it.
func Workbook(opt adapter.Option) (*excelize.File, error) {
	var write func(*excelize.File, adapter.Option) error
	switch opt.Family {
	case chart.Table:
		write = writeTable
	case chart.Scatterplot:
		write = writeScatter
	case chart.Column, chart.Bar, chart.Line, chart.Area, chart.Pie,
		chart.ComboLineSingle, chart.ComboLineDual, chart.ComboLineColumn:
		write = writeCartesian
	case chart.Map:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, opt.Family)
	default:
		panic(fmt.Sprintf("xlsx: unhandled family %q", opt.Family))
	}

	f := excelize.NewFile()
	if err := write(f, opt); err != nil {
		_ = f.Close()
		return nil, err
	}
	logger.Debug("workbook built",
		slog.String("family", string(opt.Family)),
		slog.Int("series", len(opt.Series)))
	return f, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// ref is an absolute sheet reference like Data!$B$2:$B$5.
func ref(sheet string, col, fromRow, toRow int) string {
	c, _ := excelize.ColumnNumberToName(col)
	if fromRow == toRow {
		return fmt.Sprintf("%s!$%s$%d", sheet, c, fromRow)
	}
	return fmt.Sprintf("%s!$%s$%d:$%s$%d", sheet, c, fromRow, c, toRow)
}

func useSheet(f *excelize.File, name string) error {
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	return nil
}

// ============================================================================
// CARTESIAN / PIE
// ============================================================================

func writeCartesian(f *excelize.File, opt adapter.Option) error {
	if err := useSheet(f, dataSheet); err != nil {
		return err
	}
	category := opt.XAxis
	if opt.Horizontal {
		category = opt.YAxis
	}

	if category.Label != "" {
		if err := f.SetCellValue(dataSheet, "A1", category.Label); err != nil {
			return err
		}
	}
	for i, label := range category.CategoryLabels {
		if err := f.SetCellValue(dataSheet, cell(1, i+2), label); err != nil {
			return err
		}
	}
	for j, s := range opt.Series {
		col := j + 2
		if err := f.SetCellValue(dataSheet, cell(col, 1), s.Name); err != nil {
			return err
		}
		for _, p := range s.Data {
			row, ok := rowOf(opt, category, p)
			if !ok || p.Value == nil {
				continue
			}
			if err := f.SetCellValue(dataSheet, cell(col, row), *p.Value); err != nil {
				return err
			}
		}
	}

	n := len(category.CategoryLabels)
	if n == 0 || len(opt.Series) == 0 {
		return nil
	}
	primary, secondary := charts(opt, n)
	if secondary != nil {
		return f.AddChart(dataSheet, chartCell, primary, secondary)
	}
	return f.AddChart(dataSheet, chartCell, primary)
}

// rowOf places a point on its category row. Pie points carry their
// category in Key, the others in X.
func rowOf(opt adapter.Option, category adapter.Axis, p adapter.Point) (int, bool) {
	key := p.X
	if opt.Family == chart.Pie {
		key = p.Key
	}
	for i, c := range category.Categories {
		if c == key {
			return i + 2, true
		}
	}
	return 0, false
}

func series(opt adapter.Option, j, n int) excelize.ChartSeries {
	s := opt.Series[j]
	cs := excelize.ChartSeries{
		Name:       ref(dataSheet, j+2, 1, 1),
		Categories: ref(dataSheet, 1, 2, n+1),
		Values:     ref(dataSheet, j+2, 2, n+1),
	}
	if c := strings.TrimPrefix(s.Color, "#"); c != "" && opt.Family != chart.Pie {
		cs.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c}}
	}
	return cs
}

func chartType(opt adapter.Option, kind adapter.SeriesKind, stacked bool) excelize.ChartType {
	switch kind {
	case adapter.KindBar:
		switch {
		case opt.Horizontal && stacked:
			return excelize.BarStacked
		case opt.Horizontal:
			return excelize.Bar
		case stacked:
			return excelize.ColStacked
		}
		return excelize.Col
	case adapter.KindArea:
		if stacked {
			return excelize.AreaStacked
		}
		return excelize.Area
	case adapter.KindPie:
		return excelize.Pie
	}
	return excelize.Line
}

// charts returns the chart of opt and, for line+column and dual-axis
// combos, the chart combined with it.
func charts(opt adapter.Option, n int) (*excelize.Chart, *excelize.Chart) {
	base := func(kind adapter.SeriesKind, stacked bool) *excelize.Chart {
		c := &excelize.Chart{
			Type:         chartType(opt, kind, stacked),
			Legend:       excelize.ChartLegend{Position: "bottom"},
			ShowBlanksAs: "gap",
		}
		if opt.Legend == nil && kind != adapter.KindPie {
			c.Legend.Position = "none"
		}
		return c
	}

	var primary, secondary *excelize.Chart
	for j, s := range opt.Series {
		target := primary
		if s.YAxisIndex > 0 {
			target = secondary
		}
		if target == nil {
			target = base(s.Kind, s.Stack != "")
			if s.YAxisIndex > 0 {
				target.YAxis.Secondary = true
				secondary = target
			} else {
				primary = target
			}
		}
		target.Series = append(target.Series, series(opt, j, n))
	}
	if primary == nil {
		primary, secondary = secondary, nil
		primary.YAxis.Secondary = false
	}
	return primary, secondary
}

// ============================================================================
// SCATTER
// ============================================================================

func writeScatter(f *excelize.File, opt adapter.Option) error {
	if err := useSheet(f, dataSheet); err != nil {
		return err
	}
	sc := &excelize.Chart{Type: excelize.Scatter, Legend: excelize.ChartLegend{Position: "bottom"}}
	for j, s := range opt.Series {
		xCol, yCol := 2*j+1, 2*j+2
		if err := f.SetCellValue(dataSheet, cell(xCol, 1), opt.XAxis.Label); err != nil {
			return err
		}
		if err := f.SetCellValue(dataSheet, cell(yCol, 1), s.Name); err != nil {
			return err
		}
		row := 2
		for _, p := range s.Data {
			if p.XValue == nil || p.Value == nil {
				continue
			}
			if err := f.SetCellValue(dataSheet, cell(xCol, row), *p.XValue); err != nil {
				return err
			}
			if err := f.SetCellValue(dataSheet, cell(yCol, row), *p.Value); err != nil {
				return err
			}
			row++
		}
		if row == 2 {
			continue
		}
		sc.Series = append(sc.Series, excelize.ChartSeries{
			Name:       ref(dataSheet, yCol, 1, 1),
			Categories: ref(dataSheet, xCol, 2, row-1),
			Values:     ref(dataSheet, yCol, 2, row-1),
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 6},
		})
	}
	if len(sc.Series) == 0 {
		return nil
	}
	return f.AddChart(dataSheet, chartCell, sc)
}

// ============================================================================
// TABLE
// ============================================================================

func writeTable(f *excelize.File, opt adapter.Option) error {
	if err := useSheet(f, tableSheet); err != nil {
		return err
	}
	t := opt.Table
	if t == nil {
		return nil
	}
	for i, c := range t.Columns {
		if err := f.SetCellValue(tableSheet, cell(i+1, 1), c.Label); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for i, v := range row {
			if v == "" {
				continue
			}
			// formatted numbers stay text; they carry the locale's separators
			if err := f.SetCellValue(tableSheet, cell(i+1, r+2), v); err != nil {
				return err
			}
		}
	}
	if t.Summary != nil {
		row := len(t.Rows) + 2
		if err := f.SetCellValue(tableSheet, cell(1, row), t.Summary.Label); err != nil {
			return err
		}
		for i, c := range t.Columns {
			if v, ok := t.Summary.Values[c.Key]; ok && i > 0 {
				if err := f.SetCellValue(tableSheet, cell(i+1, row), v); err != nil {
					return err
				}
			}
		}
	}
	return f.AutoFilter(tableSheet, fmt.Sprintf("A1:%s", cell(max(len(t.Columns), 1), 1)), nil)
}
