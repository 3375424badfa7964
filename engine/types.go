package engine

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// ENGINE TYPES — Observations + dataset
// ============================================================================
// An observation is a flat row keyed by component id. A missing key and an
// explicit nil are the same thing: no value.
// ============================================================================

// Observation is one row of a cube.
type Observation map[string]any

// Raw returns the raw value of a component, nil when absent.
func (o Observation) Raw(id string) any {
	if o == nil {
		return nil
	}
	return o[id]
}

// String returns a dimension key. Numbers are rendered without exponent so
// 2020 and "2020" are the same key.
func (o Observation) String(id string) (string, bool) {
	switch v := o.Raw(id).(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// Number returns a measure value. Strings are parsed; anything that is not
// a finite number is null, never zero.
func (o Observation) Number(id string) (float64, bool) {
	var f float64
	switch v := o.Raw(id).(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case int16:
		f = float64(v)
	case int8:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint64:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint8:
		f = float64(v)
	case json.Number:
		p, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, ok := schema.ParseNumber(v)
		if !ok {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// DimensionGetter reads a dimension key; ok is false for null.
type DimensionGetter func(Observation) (string, bool)

// MeasureGetter reads a measure value; nil is null.
type MeasureGetter func(Observation) *float64

// NewDimensionGetter returns a null-safe getter for a dimension.
func NewDimensionGetter(id string) DimensionGetter {
	return func(o Observation) (string, bool) {
		s, ok := o.String(id)
		if !ok || s == "" {
			return "", false
		}
		return s, true
	}
}

// NewMeasureGetter returns a null-safe, coercing getter for a measure.
func NewMeasureGetter(id string) MeasureGetter {
	return func(o Observation) *float64 {
		f, ok := o.Number(id)
		if !ok {
			return nil
		}
		return &f
	}
}

// Float is a helper for building nullable values.
func Float(f float64) *float64 { return &f }

// Dataset is what the data-fetch collaborator supplies for a chart.
type Dataset struct {
	Observations []Observation     `json:"observations"`
	Dimensions   []schema.Dimension `json:"dimensions"`
	Measures     []schema.Measure   `json:"measures"`
}

// Dimension looks up a dimension by id.
func (d Dataset) Dimension(id string) (schema.Dimension, bool) {
	return schema.FindDimension(d.Dimensions, id)
}

// Measure looks up a measure by id.
func (d Dataset) Measure(id string) (schema.Measure, bool) {
	return schema.FindMeasure(d.Measures, id)
}
