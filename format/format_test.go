package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/spektr-org/chartkit/schema"
)

func TestNewNumber(t *testing.T) {
	assert.Equal(t, "1,234.50", NewNumber(language.English, 2)(1234.5))
	assert.Equal(t, "-12", NewNumber(language.English, 0)(-12.2))
	assert.Equal(t, "1.234,50", NewNumber(language.German, 2)(1234.5))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "33.3%", Percent(language.English, 1)(33.333))
}

func TestForMeasureFallsBackToNumber(t *testing.T) {
	f := ForMeasure(language.English, schema.Measure{ID: "count", Unit: "items"})
	assert.Equal(t, "3.00", f(3))
}

func TestForUnit(t *testing.T) {
	ts := time.Date(2023, time.March, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023", ForUnit(schema.UnitYear)(ts))
	assert.Equal(t, "Mar 2023", ForUnit(schema.UnitMonth)(ts))
	assert.Equal(t, "04 Mar 2023", ForUnit("")(ts))
}

func TestForDimensionUsesDeclaredFormat(t *testing.T) {
	d := schema.Dimension{ID: "period", TimeFormat: "2006/01"}
	ts := time.Date(2023, time.March, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023/03", ForDimension(d)(ts))
}
