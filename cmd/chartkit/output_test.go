package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/chartkit/adapter"
	"github.com/spektr-org/chartkit/chart"
)

func f(v float64) *float64 { return &v }

func TestWriteCSVChart(t *testing.T) {
	opt := adapter.Option{
		Family: chart.Column,
		XAxis:  adapter.Axis{Label: "Year", Categories: []string{"2020", "2021"}, CategoryLabels: []string{"2020", "2021"}},
		Series: []adapter.Series{
			{Name: "A", Data: []adapter.Point{{X: "2020", Value: f(10)}, {X: "2021", Value: f(7.5)}}},
			{Name: "B", Data: []adapter.Point{{X: "2020", Value: f(5)}, {X: "2021"}}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, opt))
	assert.Equal(t, "Year,A,B\n2020,10,5\n2021,7.50,\n", buf.String())
}

func TestWriteCSVTable(t *testing.T) {
	opt := adapter.Option{
		Family: chart.Table,
		Table: &adapter.Table{
			Columns: []adapter.Column{{Key: "region", Label: "Region"}, {Key: "revenue", Label: "Revenue"}},
			Rows:    [][]string{{"North", "10"}, {"South", "3"}},
			Summary: &adapter.Summary{Label: "Total", Values: map[string]string{"revenue": "13"}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, opt))
	assert.Equal(t, "Region,Revenue\nNorth,10\nSouth,3\nTotal,13\n", buf.String())
}

func TestWriteCSVScatter(t *testing.T) {
	opt := adapter.Option{
		Family: chart.Scatterplot,
		XAxis:  adapter.Axis{Label: "Cost"},
		YAxis:  adapter.Axis{Label: "Revenue"},
		Series: []adapter.Series{{Name: "North", Data: []adapter.Point{{XValue: f(1), Value: f(2.25)}, {XValue: f(3)}}}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, opt))
	assert.Equal(t, "Series,Cost,Revenue\nNorth,1,2.25\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}, "json"))
	assert.Equal(t, "{\"a\":1}\n", buf.String())

	buf.Reset()
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}, "pretty"))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestWriteOptionUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, writeOption(&buf, adapter.Option{Family: chart.Column}, "svg"))
}
