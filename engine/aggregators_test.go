package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/chartkit/config"
)

// ============================================================================
// AGGREGATOR TESTS
// ============================================================================

func TestStackSkipsNulls(t *testing.T) {
	sum, ok := Stack([]*float64{Float(10), nil, Float(5)})
	require.True(t, ok)
	assert.Equal(t, 15.0, sum)

	_, ok = Stack([]*float64{nil, nil})
	assert.False(t, ok, "all-null must not become zero")
}

func TestGroupBy(t *testing.T) {
	obs := []Observation{
		{"year": "2020", "cat": "A", "revenue": 10.0},
		{"year": "2020", "cat": "B", "revenue": nil},
		{"year": "2020", "cat": "C", "revenue": 5.0},
		{"year": "2020", "cat": "A", "revenue": "2.5"},
		{"year": "2021", "cat": "A", "revenue": "oops"},
		{"year": nil, "cat": "A", "revenue": 99.0},
	}
	g := GroupBy(obs, NewDimensionGetter("year"), NewDimensionGetter("cat"), NewMeasureGetter("revenue"))

	require.NotNil(t, g.Get("2020", "A"))
	assert.Equal(t, 12.5, *g.Get("2020", "A"))
	assert.Nil(t, g.Get("2020", "B"))
	assert.Nil(t, g.Get("2021", "A"))
	assert.Nil(t, g.Get("2022", "A"))

	assert.Equal(t, map[string]float64{"2020": 17.5}, g.Totals())
	assert.Equal(t, map[string]float64{"A": 12.5, "C": 5}, g.SegmentTotals())
}

func TestStackRanges(t *testing.T) {
	cells := map[string]Cell{"A": Float(10), "B": nil, "C": Float(5), "D": Float(-3)}
	r := StackRanges([]string{"A", "B", "C", "D"}, cells)

	assert.Equal(t, StackedRange{Lower: 0, Upper: 10}, r["A"])
	assert.Equal(t, StackedRange{Lower: 10, Upper: 15}, r["C"])
	assert.Equal(t, StackedRange{Lower: -3, Upper: 0}, r["D"])
	_, ok := r["B"]
	assert.False(t, ok)
}

func TestImpute(t *testing.T) {
	series := []*float64{nil, Float(1), nil, nil, Float(4), nil}

	none := Impute(series, config.ImputeNone)
	assert.Nil(t, none[2])

	zeros := Impute(series, config.ImputeZeros)
	for _, v := range zeros {
		require.NotNil(t, v)
	}
	assert.Equal(t, 0.0, *zeros[0])

	linear := Impute(series, config.ImputeLinear)
	assert.Nil(t, linear[0], "leading edge stays null")
	assert.InDelta(t, 2, *linear[2], 1e-9)
	assert.InDelta(t, 3, *linear[3], 1e-9)
	assert.Nil(t, linear[5], "trailing edge stays null")
	assert.Nil(t, series[2], "input is not modified")
}

func TestRoundTo2(t *testing.T) {
	assert.Equal(t, 1.23, RoundTo2(1.234))
	assert.Equal(t, -1.24, RoundTo2(-1.239))
}
