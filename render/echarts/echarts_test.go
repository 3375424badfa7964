package echarts

import (
	"bytes"
	"testing"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/chartkit/adapter"
	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/timerange"
)

func f(v float64) *float64 { return &v }

func stackedColumn() adapter.Option {
	points := func(key string, a, b *float64) []adapter.Point {
		return []adapter.Point{
			{X: "2020", XLabel: "2020", Key: key, Value: a},
			{X: "2021", XLabel: "2021", Key: key, Value: b},
		}
	}
	return adapter.Option{
		Family: chart.Column,
		XAxis: adapter.Axis{
			Type: adapter.AxisCategory, Label: "Year",
			Categories: []string{"2020", "2021"}, CategoryLabels: []string{"2020", "2021"},
		},
		YAxis:   adapter.Axis{Type: adapter.AxisValue, Label: "Revenue", Max: 20},
		Tooltip: adapter.Tooltip{Trigger: adapter.TriggerAxis},
		Legend:  &adapter.Legend{Items: []adapter.LegendItem{{Key: "A", Label: "Alpha"}, {Key: "B", Label: "Beta"}}},
		Series: []adapter.Series{
			{Key: "A", Name: "Alpha", Kind: adapter.KindBar, Stack: "total", Color: "#1f77b4", Data: points("A", f(10), f(7))},
			{Key: "B", Name: "Beta", Kind: adapter.KindBar, Stack: "total", Color: "#ff7f0e", Data: points("B", nil, f(3))},
		},
		TimeBrush: &timerange.Brush{Available: true, Start: 25, End: 75},
	}
}

func TestColumnChart(t *testing.T) {
	c, err := Chart(stackedColumn())
	require.NoError(t, err)
	bar, ok := c.(*charts.Bar)
	require.True(t, ok)
	require.Len(t, bar.MultiSeries, 2)
	assert.Equal(t, "Alpha", bar.MultiSeries[0].Name)
	assert.Equal(t, "bar", bar.MultiSeries[0].Type)

	var buf bytes.Buffer
	require.NoError(t, Render(stackedColumn(), &buf))
	html := buf.String()
	assert.Contains(t, html, "Alpha")
	assert.Contains(t, html, "#ff7f0e")
	assert.Contains(t, html, "dataZoom")
}

func TestLineChartDualAxis(t *testing.T) {
	opt := stackedColumn()
	opt.Family = chart.ComboLineDual
	opt.Legend = nil
	opt.TimeBrush = nil
	for i := range opt.Series {
		opt.Series[i].Kind = adapter.KindLine
		opt.Series[i].Stack = ""
		opt.Series[i].YAxisIndex = i
	}
	y2 := adapter.Axis{Type: adapter.AxisValue, Label: "Cost", Max: 5}
	opt.Y2Axis = &y2

	c, err := Chart(opt)
	require.NoError(t, err)
	line, ok := c.(*charts.Line)
	require.True(t, ok)
	require.Len(t, line.MultiSeries, 2)
	assert.Equal(t, "line", line.MultiSeries[1].Type)

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Contains(t, buf.String(), "Cost")
}

func TestLineColumnOverlap(t *testing.T) {
	opt := stackedColumn()
	opt.Family = chart.ComboLineColumn
	opt.Series[0].Kind = adapter.KindBar
	opt.Series[0].Stack = ""
	opt.Series[1].Kind = adapter.KindLine
	opt.Series[1].Stack = ""
	opt.Series[1].YAxisIndex = 1
	y2 := adapter.Axis{Type: adapter.AxisValue, Label: "Beta"}
	opt.Y2Axis = &y2

	c, err := Chart(opt)
	require.NoError(t, err)
	bar, ok := c.(*charts.Bar)
	require.True(t, ok)
	require.Len(t, bar.MultiSeries, 2, "overlapped line series join the bar chart")
}

func TestPieAndScatter(t *testing.T) {
	pie := adapter.Option{
		Family:  chart.Pie,
		Tooltip: adapter.Tooltip{Trigger: adapter.TriggerItem},
		Series: []adapter.Series{{
			Key: "revenue", Name: "Revenue", Kind: adapter.KindPie,
			Data: []adapter.Point{{Key: "A", Label: "Alpha", Value: f(3), Color: "#123456"}},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, Render(pie, &buf))
	assert.Contains(t, buf.String(), "#123456")

	scatter := adapter.Option{
		Family: chart.Scatterplot,
		XAxis:  adapter.Axis{Type: adapter.AxisValue, Max: 10},
		YAxis:  adapter.Axis{Type: adapter.AxisValue, Max: 10},
		Series: []adapter.Series{{
			Key: "cost", Name: "Cost", Kind: adapter.KindScatter,
			Data: []adapter.Point{{XValue: f(1), Value: f(2)}, {XValue: nil, Value: f(3)}},
		}},
	}
	c, err := Chart(scatter)
	require.NoError(t, err)
	sc, ok := c.(*charts.Scatter)
	require.True(t, ok)
	require.Len(t, sc.MultiSeries, 1)
}

func TestHorizontalBar(t *testing.T) {
	opt := stackedColumn()
	opt.Family = chart.Bar
	opt.Horizontal = true
	opt.XAxis, opt.YAxis = opt.YAxis, opt.XAxis

	var buf bytes.Buffer
	require.NoError(t, Render(opt, &buf))
	assert.Contains(t, buf.String(), "Year")
}

func TestUnsupportedFamilies(t *testing.T) {
	for _, fam := range []chart.Family{chart.Table, chart.Map} {
		_, err := Chart(adapter.Option{Family: fam})
		assert.ErrorIs(t, err, ErrUnsupported, fam)
	}
}

func TestEveryFamilyIsHandled(t *testing.T) {
	for _, fam := range chart.All() {
		assert.NotPanics(t, func() { _, _ = Chart(adapter.Option{Family: fam, Series: []adapter.Series{}}) }, fam)
	}
}
