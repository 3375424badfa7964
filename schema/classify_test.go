package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func coord(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		dim  Dimension
		want Classification
	}{
		{"nominal", Dimension{Type: NominalDimension}, ClassNominal},
		{"untyped falls back to nominal", Dimension{}, ClassNominal},
		{"ordinal", Dimension{Type: OrdinalDimension}, ClassOrdinal},
		{"untyped with positions", Dimension{Values: []DimensionValue{
			{Value: "a", Position: Positioned(1)}, {Value: "b", Position: Positioned(0)},
		}}, ClassOrdinal},
		{"temporal", Dimension{Type: TemporalDimension}, ClassTemporal},
		{"time unit beats ordinal", Dimension{Type: OrdinalDimension, TimeUnit: UnitYear}, ClassTemporal},
		{"temporal entity", Dimension{Type: TemporalEntityDimension}, ClassTemporalEntity},
		{"temporal ordinal beats temporal", Dimension{Type: TemporalOrdinalDimension, TimeUnit: UnitMonth}, ClassTemporalOrdinal},
		{"geo shapes", Dimension{Type: GeoShapesDimension}, ClassGeoShapes},
		{"geo coordinates", Dimension{Type: GeoCoordinatesDimension}, ClassGeoCoordinates},
		{"coordinates on values beat nominal", Dimension{Type: NominalDimension, Values: []DimensionValue{
			{Value: "zh", Latitude: coord(47.37), Longitude: coord(8.54)},
		}}, ClassGeoCoordinates},
		{"standard error is unknown", Dimension{Type: StandardErrorDimension}, ClassUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.dim))
			assert.Equal(t, Classify(tc.dim), Classify(tc.dim))
		})
	}
}

func TestFilterPredicates(t *testing.T) {
	temporal := Dimension{Type: TemporalDimension, TimeUnit: UnitYear}
	nominal := Dimension{Type: NominalDimension}
	quarters := Dimension{Type: TemporalOrdinalDimension}

	assert.True(t, CanFilterByTime(temporal))
	assert.False(t, CanFilterByMultipleValues(temporal))
	assert.False(t, CanFilterByTime(nominal))
	assert.True(t, CanFilterByMultipleValues(nominal))
	assert.True(t, CanFilterByMultipleValues(quarters))
	assert.False(t, CanFilterByTime(quarters))
	assert.True(t, IsCategorical(quarters))
	assert.False(t, IsCategorical(temporal))
}

func TestParseTime(t *testing.T) {
	year := Dimension{TimeUnit: UnitYear}
	got, ok := ParseTime(year, "2021")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), got)

	month := Dimension{TimeFormat: "Jan-2006"}
	got, ok = ParseTime(month, "Mar-2024")
	assert.True(t, ok)
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, "Mar-2024", FormatTime(month, got))

	_, ok = ParseTime(year, "not a date")
	assert.False(t, ok)
	_, ok = ParseTime(year, "")
	assert.False(t, ok)
}

func TestLabels(t *testing.T) {
	d := Dimension{Values: []DimensionValue{
		{Value: "https://ld/program/1", Label: "Other", AlternateLabel: "Oth."},
		{Value: "https://ld/program/2", Label: "Other"},
	}}
	assert.Equal(t, "Other", d.LabelFor("https://ld/program/1"))
	assert.Equal(t, "Oth.", d.AbbreviationOrLabel("https://ld/program/1"))
	assert.Equal(t, "Other", d.AbbreviationOrLabel("https://ld/program/2"))
	assert.Equal(t, "unknown", d.LabelFor("unknown"))
}
