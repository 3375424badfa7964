package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/chartkit/adapter"
	"github.com/spektr-org/chartkit/chart"
)

func f64(v float64) *float64 { return &v }

func column() adapter.Option {
	return adapter.Option{
		Family: chart.Column,
		XAxis: adapter.Axis{
			Type: adapter.AxisCategory, Label: "Year",
			Categories: []string{"2020", "2021"}, CategoryLabels: []string{"2020", "2021"},
		},
		YAxis:  adapter.Axis{Type: adapter.AxisValue, Label: "Revenue"},
		Legend: &adapter.Legend{},
		Series: []adapter.Series{
			{Key: "A", Name: "Alpha", Kind: adapter.KindBar, Stack: "total", Color: "#1f77b4", Data: []adapter.Point{
				{X: "2020", Value: f64(10)}, {X: "2021", Value: f64(7)},
			}},
			{Key: "B", Name: "Beta", Kind: adapter.KindBar, Stack: "total", Color: "#ff7f0e", Data: []adapter.Point{
				{X: "2020", Value: nil}, {X: "2021", Value: f64(3)},
			}},
		},
	}
}

func roundTrip(t *testing.T, opt adapter.Option) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(opt, &buf))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriteColumn(t *testing.T) {
	f := roundTrip(t, column())
	assert.Equal(t, []string{dataSheet}, f.GetSheetList())

	rows, err := f.GetRows(dataSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Year", "Alpha", "Beta"}, rows[0])
	assert.Equal(t, []string{"2020", "10"}, rows[1], "gaps stay empty")
	assert.Equal(t, []string{"2021", "7", "3"}, rows[2])
}

func TestWritePie(t *testing.T) {
	opt := adapter.Option{
		Family: chart.Pie,
		XAxis:  adapter.Axis{Categories: []string{"B", "A"}, CategoryLabels: []string{"Beta", "Alpha"}},
		Series: []adapter.Series{{Name: "Revenue", Kind: adapter.KindPie, Data: []adapter.Point{
			{Key: "B", Value: f64(3)}, {Key: "A", Value: f64(5)},
		}}},
	}
	rows, err := roundTrip(t, opt).GetRows(dataSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"", "Revenue"}, {"Beta", "3"}, {"Alpha", "5"}}, rows)
}

func TestWriteLineColumnCombo(t *testing.T) {
	opt := column()
	opt.Family = chart.ComboLineColumn
	opt.Series[0].Kind, opt.Series[0].Stack, opt.Series[0].YAxisIndex = adapter.KindBar, "", 1
	opt.Series[1].Kind, opt.Series[1].Stack = adapter.KindLine, ""

	primary, secondary := charts(opt, 2)
	require.NotNil(t, secondary)
	assert.Equal(t, excelize.Col, secondary.Type)
	assert.True(t, secondary.YAxis.Secondary)
	assert.Equal(t, excelize.Line, primary.Type)

	roundTrip(t, opt)
}

func TestChartTypes(t *testing.T) {
	opt := column()
	p, s := charts(opt, 2)
	assert.Nil(t, s)
	assert.Equal(t, excelize.ColStacked, p.Type)
	require.Len(t, p.Series, 2)
	assert.Equal(t, "Data!$C$1", p.Series[1].Name)
	assert.Equal(t, "Data!$A$2:$A$3", p.Series[1].Categories)
	assert.Equal(t, "Data!$C$2:$C$3", p.Series[1].Values)

	opt.Horizontal = true
	p, _ = charts(opt, 2)
	assert.Equal(t, excelize.BarStacked, p.Type)

	opt.Series[1].YAxisIndex = 1
	opt.Series[0].YAxisIndex = 1
	p, s = charts(opt, 2)
	assert.Nil(t, s, "a lone secondary chart becomes primary")
	assert.False(t, p.YAxis.Secondary)
}

func TestWriteScatter(t *testing.T) {
	opt := adapter.Option{
		Family: chart.Scatterplot,
		XAxis:  adapter.Axis{Label: "Cost"},
		Series: []adapter.Series{{Name: "Revenue", Data: []adapter.Point{
			{XValue: f64(1), Value: f64(2)}, {XValue: nil, Value: f64(9)}, {XValue: f64(3), Value: f64(4)},
		}}},
	}
	rows, err := roundTrip(t, opt).GetRows(dataSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Cost", "Revenue"}, {"1", "2"}, {"3", "4"}}, rows)
}

func TestWriteTable(t *testing.T) {
	opt := adapter.Option{
		Family: chart.Table,
		Table: &adapter.Table{
			Columns: []adapter.Column{{Key: "cat", Label: "Category"}, {Key: "revenue", Label: "Revenue"}},
			Rows:    [][]string{{"Alpha", "2"}, {"Beta", ""}},
			Summary: &adapter.Summary{Label: "Total (2 records)", Values: map[string]string{"revenue": "2"}},
		},
	}
	f := roundTrip(t, opt)
	assert.Equal(t, []string{tableSheet}, f.GetSheetList())
	rows, err := f.GetRows(tableSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Category", "Revenue"},
		{"Alpha", "2"},
		{"Beta"},
		{"Total (2 records)", "2"},
	}, rows)
}

func TestWriteEmpty(t *testing.T) {
	opt := adapter.Option{Family: chart.Line, Empty: true, Series: []adapter.Series{}}
	rows, err := roundTrip(t, opt).GetRows(dataSheet)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteMapUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := Write(adapter.Option{Family: chart.Map}, &buf)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Zero(t, buf.Len())
}
