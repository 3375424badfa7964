package chart

import (
	"fmt"

	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// FIELD SCHEMA — which channels a family's config may carry
// ============================================================================
// The shape of ChartConfig.Fields is fully determined by the family: a channel
// (or channel option) missing from the family's schema must be nil.
// ============================================================================

// FieldName is a channel of ChartConfig.Fields.
type FieldName string

const (
	FieldX         FieldName = "x"
	FieldY         FieldName = "y"
	FieldSegment   FieldName = "segment"
	FieldColor     FieldName = "color"
	FieldAnimation FieldName = "animation"
	FieldLines     FieldName = "lines"
	FieldAreas     FieldName = "areas"
	FieldSymbols   FieldName = "symbols"
	FieldTable     FieldName = "table"
)

// FieldKind says what a channel binds.
type FieldKind int

const (
	KindDimension FieldKind = iota
	KindMeasure
	KindMeasures // several measures (combo families)
	KindMapLayer // geo dimension + measure
	KindColumns  // table columns
	KindStyle    // no component, e.g. color palette
)

// Channel options. Options not listed for a family's channel must be unset.
const (
	OptSorting          = "sorting"
	OptShowValues       = "showValues"
	OptShowDots         = "showDots"
	OptShowDotsSize     = "showDotsSize"
	OptImputation       = "imputation"
	OptCustomDomain     = "customDomain"
	OptSegmentType      = "type"
	OptUseAbbreviations = "useAbbreviations"
	OptShowTitle        = "showTitle"
)

// FieldSpec describes one channel of a family.
type FieldSpec struct {
	Name     FieldName
	Kind     FieldKind
	Accept   func(schema.Dimension) bool // dimension channels only
	Required bool
	// AllowShared lets the channel bind a component another channel of the
	// same config already binds (e.g. segment reusing the x dimension).
	AllowShared bool
	Options     []string
}

// HasOption reports whether opt is valid on this channel.
func (s FieldSpec) HasOption(opt string) bool {
	for _, o := range s.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// Accepts reports whether d may bind to this channel.
func (s FieldSpec) Accepts(d schema.Dimension) bool {
	if schema.IsStandardError(d) {
		return false
	}
	if s.Accept == nil {
		return true
	}
	return s.Accept(d)
}

// Schema is the ordered channel list of a family.
type Schema []FieldSpec

// Field returns the spec of a channel.
func (s Schema) Field(name FieldName) (FieldSpec, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Has reports whether the family carries the channel.
func (s Schema) Has(name FieldName) bool {
	_, ok := s.Field(name)
	return ok
}

// SchemaOf returns the field schema of f. It panics on a family outside
// the closed set.
func SchemaOf(f Family) Schema {
	s, ok := schemas[f]
	if !ok {
		panic(fmt.Sprintf("chart: unhandled family %q", f))
	}
	return s
}

func categoricalOrTemporal(d schema.Dimension) bool {
	return schema.IsCategorical(d) || schema.IsTemporal(d)
}

func temporalOnly(d schema.Dimension) bool { return schema.IsTemporal(d) }

func mapArea(d schema.Dimension) bool {
	c := schema.Classify(d)
	return c == schema.ClassGeoShapes || c == schema.ClassGeo
}

func mapSymbol(d schema.Dimension) bool { return schema.IsGeo(d) }

var segmentOptions = []string{OptSorting, OptUseAbbreviations, OptShowTitle}

var (
	colorField     = FieldSpec{Name: FieldColor, Kind: KindStyle, Required: true}
	animationField = FieldSpec{Name: FieldAnimation, Kind: KindDimension, Accept: temporalOnly}
	stackSegment   = FieldSpec{
		Name: FieldSegment, Kind: KindDimension, Accept: schema.IsCategorical, AllowShared: true,
		Options: append([]string{OptSegmentType}, segmentOptions...),
	}
	plainSegment = FieldSpec{
		Name: FieldSegment, Kind: KindDimension, Accept: schema.IsCategorical, Options: segmentOptions,
	}
)

var schemas = map[Family]Schema{
	Column: {
		{Name: FieldX, Kind: KindDimension, Accept: categoricalOrTemporal, Required: true, Options: []string{OptSorting}},
		{Name: FieldY, Kind: KindMeasure, Required: true, Options: []string{OptShowValues, OptCustomDomain}},
		stackSegment, colorField, animationField,
	},
	Bar: {
		{Name: FieldY, Kind: KindDimension, Accept: schema.IsCategorical, Required: true, Options: []string{OptSorting}},
		{Name: FieldX, Kind: KindMeasure, Required: true, Options: []string{OptShowValues, OptCustomDomain}},
		stackSegment, colorField, animationField,
	},
	Line: {
		{Name: FieldX, Kind: KindDimension, Accept: temporalOnly, Required: true},
		{Name: FieldY, Kind: KindMeasure, Required: true, Options: []string{OptShowDots, OptShowDotsSize, OptCustomDomain}},
		plainSegment, colorField,
	},
	Area: {
		{Name: FieldX, Kind: KindDimension, Accept: temporalOnly, Required: true},
		{Name: FieldY, Kind: KindMeasure, Required: true, Options: []string{OptImputation, OptCustomDomain}},
		plainSegment, colorField,
	},
	Pie: {
		{Name: FieldY, Kind: KindMeasure, Required: true, Options: []string{OptShowValues}},
		{Name: FieldSegment, Kind: KindDimension, Accept: schema.IsCategorical, Required: true, Options: segmentOptions},
		colorField, animationField,
	},
	Scatterplot: {
		{Name: FieldX, Kind: KindMeasure, Required: true},
		{Name: FieldY, Kind: KindMeasure, Required: true},
		plainSegment, colorField, animationField,
	},
	Table: {
		{Name: FieldTable, Kind: KindColumns, Required: true},
	},
	Map: {
		{Name: FieldAreas, Kind: KindMapLayer, Accept: mapArea, Required: true},
		{Name: FieldSymbols, Kind: KindMapLayer, Accept: mapSymbol, AllowShared: true},
		colorField, animationField,
	},
	ComboLineSingle: {
		{Name: FieldX, Kind: KindDimension, Accept: temporalOnly, Required: true},
		{Name: FieldLines, Kind: KindMeasures, Required: true},
		colorField,
	},
	ComboLineDual: {
		{Name: FieldX, Kind: KindDimension, Accept: temporalOnly, Required: true},
		{Name: FieldLines, Kind: KindMeasures, Required: true},
		colorField,
	},
	ComboLineColumn: {
		{Name: FieldX, Kind: KindDimension, Accept: temporalOnly, Required: true},
		{Name: FieldLines, Kind: KindMeasures, Required: true},
		colorField,
	},
}

// Stackable reports families whose segments may stack.
func Stackable(f Family) bool {
	switch f {
	case Column, Bar, Area:
		return true
	}
	return false
}
