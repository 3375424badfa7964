package text

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/chartkit/adapter"
	"github.com/spektr-org/chartkit/chart"
)

func f(v float64) *float64 { return &v }

func line() adapter.Option {
	return adapter.Option{
		Family: chart.Line,
		XAxis: adapter.Axis{
			Label:          "Year",
			Categories:     []string{"2020", "2021", "2022"},
			CategoryLabels: []string{"2020", "2021", "2022"},
		},
		Series: []adapter.Series{
			{Name: "Alpha", Data: []adapter.Point{{X: "2020", Value: f(1)}, {X: "2021", Value: f(4)}, {X: "2022", Value: f(2)}}},
			{Name: "Beta", Data: []adapter.Point{{X: "2020", Value: f(3)}, {X: "2022", Value: f(5)}}},
			{Name: "Gamma", Data: []adapter.Point{{X: "2020"}}},
		},
	}
}

func TestPlot(t *testing.T) {
	out, err := Plot(line(), DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, out, "Year: 2020 … 2022")
	assert.Contains(t, out, "Alpha, Beta")
	assert.NotContains(t, out, "Gamma", "all-null series are not plotted")
}

func TestValuesOf(t *testing.T) {
	values, ok := valuesOf(line().Series[1], []string{"2020", "2021", "2022"})
	require.True(t, ok)
	assert.Equal(t, 3.0, values[0])
	assert.True(t, math.IsNaN(values[1]))
	assert.Equal(t, 5.0, values[2])

	_, ok = valuesOf(line().Series[2], []string{"2020"})
	assert.False(t, ok)
}

func TestPlotEmptyAndUnsupported(t *testing.T) {
	out, err := Plot(adapter.Option{Family: chart.Column, Empty: true, Placeholder: "No data"}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "No data", out)

	_, err = Plot(adapter.Option{Family: chart.Scatterplot}, DefaultConfig())
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Panics(t, func() { _, _ = Plot(adapter.Option{Family: "radar"}, DefaultConfig()) })
}

func TestPlotPie(t *testing.T) {
	opt := adapter.Option{
		Family: chart.Pie,
		Series: []adapter.Series{{Data: []adapter.Point{
			{Key: "a", Label: "Alpha", Value: f(12.4)},
			{Key: "b", Label: "Beta", Value: f(3)},
			{Key: "c", Label: "Gamma"},
		}}},
	}
	out, err := Plot(opt, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Beta")
	assert.NotContains(t, out, "Gamma")
}

func TestPlotTable(t *testing.T) {
	opt := adapter.Option{
		Family: chart.Table,
		Table: &adapter.Table{
			Columns: []adapter.Column{{Key: "region", Label: "Region"}, {Key: "revenue", Label: "Revenue"}},
			Rows:    [][]string{{"North", "10"}, {"South", "3"}},
			Summary: &adapter.Summary{Label: "Total", Values: map[string]string{"revenue": "13"}},
		},
	}
	out, err := Plot(opt, DefaultConfig())
	require.NoError(t, err)
	for _, s := range []string{"Region", "North", "South", "Total", "13"} {
		assert.Contains(t, out, s)
	}
}
