package schema

import "strings"

// ============================================================================
// CLASSIFIER — one tag per dimension, strict priority order
// ============================================================================
// geo-coordinates > geo-shapes > geo > temporal-ordinal > temporal-entity >
// temporal > ordinal > nominal > unknown
// ============================================================================

// Classification is the derived kind of a dimension.
type Classification string

const (
	ClassGeoCoordinates  Classification = "geo-coordinates"
	ClassGeoShapes       Classification = "geo-shapes"
	ClassGeo             Classification = "geo"
	ClassTemporalOrdinal Classification = "temporal-ordinal"
	ClassTemporalEntity  Classification = "temporal-entity"
	ClassTemporal        Classification = "temporal"
	ClassOrdinal         Classification = "ordinal"
	ClassNominal         Classification = "nominal"
	ClassUnknown         Classification = "unknown"
)

type classRule struct {
	class Classification
	match func(Dimension) bool
}

var classRules = []classRule{
	{ClassGeoCoordinates, isGeoCoordinates},
	{ClassGeoShapes, func(d Dimension) bool { return d.Type == GeoShapesDimension }},
	{ClassGeo, func(d Dimension) bool { return strings.HasPrefix(string(d.Type), "Geo") }},
	{ClassTemporalOrdinal, func(d Dimension) bool { return d.Type == TemporalOrdinalDimension }},
	{ClassTemporalEntity, func(d Dimension) bool { return d.Type == TemporalEntityDimension }},
	{ClassTemporal, func(d Dimension) bool { return d.Type == TemporalDimension || d.TimeUnit != "" }},
	{ClassOrdinal, func(d Dimension) bool {
		return d.Type == OrdinalDimension || (d.Type == "" && d.HasPositions())
	}},
	{ClassNominal, func(d Dimension) bool { return d.Type == NominalDimension || d.Type == "" }},
}

// Classify returns the highest-priority classification that matches d.
func Classify(d Dimension) Classification {
	for _, r := range classRules {
		if r.match(d) {
			return r.class
		}
	}
	return ClassUnknown
}

// isGeoCoordinates also catches dimensions typed otherwise whose values
// all carry coordinates.
func isGeoCoordinates(d Dimension) bool {
	if d.Type == GeoCoordinatesDimension {
		return true
	}
	if len(d.Values) == 0 {
		return false
	}
	for _, v := range d.Values {
		if v.Latitude == nil || v.Longitude == nil {
			return false
		}
	}
	return true
}

// IsTemporal reports a time-based dimension usable on a continuous time axis.
func IsTemporal(d Dimension) bool {
	switch Classify(d) {
	case ClassTemporal, ClassTemporalEntity:
		return true
	}
	return false
}

// IsGeo reports any geographic classification.
func IsGeo(d Dimension) bool {
	switch Classify(d) {
	case ClassGeoCoordinates, ClassGeoShapes, ClassGeo:
		return true
	}
	return false
}

// IsCategorical reports a dimension usable as a discrete axis, segment or slice.
func IsCategorical(d Dimension) bool {
	switch Classify(d) {
	case ClassNominal, ClassOrdinal, ClassTemporalOrdinal, ClassGeoShapes, ClassGeo, ClassGeoCoordinates:
		return true
	}
	return false
}

// CanFilterByTime reports whether a range (from/to) filter applies.
func CanFilterByTime(d Dimension) bool {
	return IsTemporal(d)
}

// CanFilterByMultipleValues reports whether a multi-value filter applies.
func CanFilterByMultipleValues(d Dimension) bool {
	switch Classify(d) {
	case ClassNominal, ClassOrdinal, ClassTemporalOrdinal, ClassGeoCoordinates, ClassGeoShapes, ClassGeo:
		return true
	}
	return false
}

// IsStandardError reports helper dimensions that never bind to a channel.
func IsStandardError(d Dimension) bool {
	return d.Type == StandardErrorDimension
}
