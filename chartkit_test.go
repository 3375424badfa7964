package chartkit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/events"
	"github.com/spektr-org/chartkit/schema"
)

func request() Request {
	return Request{
		Config: config.ChartConfig{
			Version: config.Version,
			Key:     "sales",
			Family:  chart.Column,
			Fields: config.Fields{
				X:       &config.AxisField{ComponentID: "year"},
				Y:       &config.AxisField{ComponentID: "revenue"},
				Segment: &config.SegmentField{ComponentID: "cat", Type: config.Stacked},
			},
			Interactive: config.DefaultInteractive(),
		},
		Dataset: engine.Dataset{
			Observations: []engine.Observation{
				{"year": "2020", "cat": "A", "revenue": 10.0},
				{"year": "2020", "cat": "B", "revenue": 5.0},
				{"year": "2021", "cat": "A", "revenue": 7.0},
			},
			Dimensions: []schema.Dimension{
				{ID: "year", Label: "Year", Type: schema.TemporalDimension, TimeUnit: schema.UnitYear},
				{ID: "cat", Label: "Category", Type: schema.NominalDimension},
			},
			Measures: []schema.Measure{{ID: "revenue", Label: "Revenue"}},
		},
		Width: 600,
	}
}

func TestPipelineMemoizes(t *testing.T) {
	bus := events.NewBus[Rendered]()
	var seen []Rendered
	bus.Subscribe(func(r Rendered) { seen = append(seen, r) })

	p := NewPipeline(WithBus(bus))
	first, err := p.Render(request())
	require.NoError(t, err)
	second, err := p.Render(request())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.Len())
	require.Len(t, seen, 2)
	assert.False(t, seen[0].Cached)
	assert.True(t, seen[1].Cached)
	assert.Equal(t, "sales", seen[1].Key)
	assert.Equal(t, seen[0].Fingerprint, seen[1].Fingerprint)

	assert.Equal(t, chart.Column, first.Family)
	assert.Equal(t, 600, first.Bounds.Width)
	assert.Equal(t, 15.0, first.Totals["2020"])
}

func TestPipelineReturnsPrivateCopies(t *testing.T) {
	p := NewPipeline()
	first, err := p.Render(request())
	require.NoError(t, err)
	first.Series[0].Name = "changed"
	first.Totals["2020"] = -1

	second, err := p.Render(request())
	require.NoError(t, err)
	assert.NotEqual(t, "changed", second.Series[0].Name)
	assert.Equal(t, 15.0, second.Totals["2020"])
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(request())
	require.NoError(t, err)
	b, err := Fingerprint(request())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	wider := request()
	wider.Width = 900
	c, err := Fingerprint(wider)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	hidden := request()
	hidden.Hidden = []string{"B"}
	d, err := Fingerprint(hidden)
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestPipelineNonFiniteMeasures(t *testing.T) {
	withNull := request()
	withNull.Dataset.Observations = append(withNull.Dataset.Observations,
		engine.Observation{"year": "2021", "cat": "B", "revenue": nil})
	want, err := Fingerprint(withNull)
	require.NoError(t, err)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		req := request()
		req.Dataset.Observations = append(req.Dataset.Observations,
			engine.Observation{"year": "2021", "cat": "B", "revenue": v})

		fp, err := Fingerprint(req)
		require.NoError(t, err)
		assert.Equal(t, want, fp, "non-finite values hash as null")

		opt, err := NewPipeline().Render(req)
		require.NoError(t, err)
		assert.Equal(t, 15.0, opt.Totals["2020"])
		assert.Equal(t, 7.0, opt.Totals["2021"])
		assert.False(t, isFinite(req.Dataset.Observations[3]["revenue"].(float64)), "request is not modified")
	}
}

func TestPipelineEviction(t *testing.T) {
	p := NewPipeline(WithCacheSize(1))
	_, err := p.Render(request())
	require.NoError(t, err)

	other := request()
	other.Width = 900
	_, err = p.Render(other)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len())

	p.Reset()
	assert.Zero(t, p.Len())

	off := NewPipeline(WithCacheSize(0))
	_, err = off.Render(request())
	require.NoError(t, err)
	assert.Zero(t, off.Len())
}

func TestPipelineHiddenSegments(t *testing.T) {
	req := request()
	req.Hidden = []string{"B"}
	opt, err := NewPipeline().Render(req)
	require.NoError(t, err)
	assert.Equal(t, 10.0, opt.Totals["2020"])
	require.NotNil(t, opt.Legend)
	assert.Len(t, opt.Legend.Items, 2, "hidden segments stay in the legend")
}

func TestPipelineErrors(t *testing.T) {
	req := request()
	req.Config.Fields.Y.ComponentID = "profit"
	p := NewPipeline()
	_, err := p.Render(req)
	assert.ErrorIs(t, err, engine.ErrUnknownComponent)
	assert.Zero(t, p.Len())
}
