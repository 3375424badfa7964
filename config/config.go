package config

import (
	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// CHART CONFIG — family + field bindings + filters
// ============================================================================
// Created at chart-creation time; changed only by field edits and family
// switches (package adjust). Only channels present in the family's schema
// may be set.
// ============================================================================

// Version is the config schema version written by this package.
const Version = "1.0"

// ChartConfig is the structured description of one visualization.
type ChartConfig struct {
	Version     string                   `json:"version" yaml:"version"`
	Key         string                   `json:"key,omitempty" yaml:"key,omitempty"`
	Family      chart.Family             `json:"chartType" yaml:"chartType"`
	Cubes       []CubeConfig             `json:"cubes" yaml:"cubes"`
	Fields      Fields                   `json:"fields" yaml:"fields"`
	Interactive InteractiveFiltersConfig `json:"interactiveFiltersConfig" yaml:"interactiveFiltersConfig"`
}

// CubeConfig references one cube and its static filters.
type CubeConfig struct {
	IRI     string            `json:"iri" yaml:"iri"`
	Filters map[string]Filter `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// FilterType distinguishes static filter kinds.
type FilterType string

const (
	FilterSingle FilterType = "single"
	FilterMulti  FilterType = "multi"
	FilterRange  FilterType = "range"
)

// Filter restricts one component of a cube.
type Filter struct {
	Type   FilterType `json:"type" yaml:"type"`
	Value  string     `json:"value,omitempty" yaml:"value,omitempty"`
	Values []string   `json:"values,omitempty" yaml:"values,omitempty"`
	From   string     `json:"from,omitempty" yaml:"from,omitempty"`
	To     string     `json:"to,omitempty" yaml:"to,omitempty"`
}

// Fields holds the channel bindings. Exactly the channels in the family's
// schema may be non-nil.
type Fields struct {
	X         *AxisField      `json:"x,omitempty" yaml:"x,omitempty"`
	Y         *AxisField      `json:"y,omitempty" yaml:"y,omitempty"`
	Segment   *SegmentField   `json:"segment,omitempty" yaml:"segment,omitempty"`
	Color     *ColorField     `json:"color,omitempty" yaml:"color,omitempty"`
	Animation *AnimationField `json:"animation,omitempty" yaml:"animation,omitempty"`
	Lines     *ComboField     `json:"lines,omitempty" yaml:"lines,omitempty"`
	Areas     *MapLayerField  `json:"areas,omitempty" yaml:"areas,omitempty"`
	Symbols   *MapLayerField  `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Table     *TableField     `json:"table,omitempty" yaml:"table,omitempty"`
}

// SortBy names a sorting strategy.
type SortBy string

const (
	SortByAuto           SortBy = "byAuto"
	SortByDimensionLabel SortBy = "byDimensionLabel"
	SortByMeasure        SortBy = "byMeasure"
	SortByTotalSize      SortBy = "byTotalSize"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Sorting is an explicit sort config on a channel.
type Sorting struct {
	By    SortBy    `json:"sortingType" yaml:"sortingType"`
	Order SortOrder `json:"sortingOrder" yaml:"sortingOrder"`
}

// Imputation fills gaps in stacked areas.
type Imputation string

const (
	ImputeNone   Imputation = "none"
	ImputeZeros  Imputation = "zeros"
	ImputeLinear Imputation = "linear"
)

// AxisField binds a dimension or measure to x or y.
// Options are family-specific; see chart.SchemaOf.
type AxisField struct {
	ComponentID  string     `json:"componentId" yaml:"componentId"`
	Sorting      *Sorting   `json:"sorting,omitempty" yaml:"sorting,omitempty"`
	ShowValues   *bool      `json:"showValues,omitempty" yaml:"showValues,omitempty"`
	ShowDots     *bool      `json:"showDots,omitempty" yaml:"showDots,omitempty"`
	ShowDotsSize string     `json:"showDotsSize,omitempty" yaml:"showDotsSize,omitempty"`
	Imputation   Imputation `json:"imputationType,omitempty" yaml:"imputationType,omitempty"`
	CustomDomain []float64  `json:"customDomain,omitempty" yaml:"customDomain,omitempty"`
}

// SegmentType is stacked or grouped.
type SegmentType string

const (
	Stacked SegmentType = "stacked"
	Grouped SegmentType = "grouped"
)

// SegmentField groups observations into series.
type SegmentField struct {
	ComponentID      string      `json:"componentId" yaml:"componentId"`
	Type             SegmentType `json:"type,omitempty" yaml:"type,omitempty"`
	Sorting          *Sorting    `json:"sorting,omitempty" yaml:"sorting,omitempty"`
	UseAbbreviations bool        `json:"useAbbreviations,omitempty" yaml:"useAbbreviations,omitempty"`
	ShowTitle        bool        `json:"showTitle,omitempty" yaml:"showTitle,omitempty"`
}

// ColorType is single (one colour) or segment (palette per segment key).
type ColorType string

const (
	ColorSingle  ColorType = "single"
	ColorSegment ColorType = "segment"
)

// ColorField configures colour assignment. ColorMapping is keyed by raw
// segment values, never labels.
type ColorField struct {
	Type         ColorType         `json:"type" yaml:"type"`
	PaletteID    string            `json:"paletteId" yaml:"paletteId"`
	Color        string            `json:"color,omitempty" yaml:"color,omitempty"`
	ColorMapping map[string]string `json:"colorMapping,omitempty" yaml:"colorMapping,omitempty"`
}

// AnimationField steps through a temporal dimension.
type AnimationField struct {
	ComponentID    string `json:"componentId" yaml:"componentId"`
	ShowPlayButton bool   `json:"showPlayButton" yaml:"showPlayButton"`
	Duration       int    `json:"duration,omitempty" yaml:"duration,omitempty"` // seconds
}

// LineAxis places the line measure of a line+column combo.
type LineAxis string

const (
	AxisLeft  LineAxis = "left"
	AxisRight LineAxis = "right"
)

// ComboField binds several measures. comboLineSingle uses ComponentIDs
// as is; comboLineDual reads them as [left, right]; comboLineColumn as
// [line, column] with LineAxis placing the line.
type ComboField struct {
	ComponentIDs []string `json:"componentIds" yaml:"componentIds"`
	LineAxis     LineAxis `json:"lineAxisOrientation,omitempty" yaml:"lineAxisOrientation,omitempty"`
}

// MapLayerField binds a geo dimension and the measure coloring/sizing it.
type MapLayerField struct {
	ComponentID string `json:"componentId" yaml:"componentId"`
	MeasureID   string `json:"measureId,omitempty" yaml:"measureId,omitempty"`
}

// TableColumn is one table column.
type TableColumn struct {
	ComponentID string `json:"componentId" yaml:"componentId"`
	Hidden      bool   `json:"isHidden,omitempty" yaml:"isHidden,omitempty"`
	Grouped     bool   `json:"isGroup,omitempty" yaml:"isGroup,omitempty"`
}

// TableField lists the table columns in display order.
type TableField struct {
	Columns []TableColumn `json:"columns" yaml:"columns"`
	SortBy  []string      `json:"sortBy,omitempty" yaml:"sortBy,omitempty"`
}

// ============================================================================
// INTERACTIVE FILTERS
// ============================================================================

// InteractiveFiltersConfig is orthogonal to Fields and migrates separately.
type InteractiveFiltersConfig struct {
	Legend      LegendFilter      `json:"legend" yaml:"legend"`
	TimeRange   TimeRangeFilter   `json:"timeRange" yaml:"timeRange"`
	DataFilters DataFilters       `json:"dataFilters" yaml:"dataFilters"`
	Calculation CalculationConfig `json:"calculation" yaml:"calculation"`
}

// LegendFilter lets the user toggle segments.
type LegendFilter struct {
	Active      bool   `json:"active" yaml:"active"`
	ComponentID string `json:"componentId" yaml:"componentId"`
}

// TimeRangeFilter drives the brush.
type TimeRangeFilter struct {
	Active      bool            `json:"active" yaml:"active"`
	ComponentID string          `json:"componentId" yaml:"componentId"`
	Presets     TimeRangePreset `json:"presets" yaml:"presets"`
}

// TimeRangePreset is the absolute range currently selected.
type TimeRangePreset struct {
	Type string `json:"type" yaml:"type"`
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// DataFilters exposes component filters to the viewer.
type DataFilters struct {
	Active       bool     `json:"active" yaml:"active"`
	ComponentIDs []string `json:"componentIds" yaml:"componentIds"`
}

// CalculationType is identity or percent.
type CalculationType string

const (
	CalcIdentity CalculationType = "identity"
	CalcPercent  CalculationType = "percent"
)

// CalculationConfig toggles absolute vs share-of-total display.
type CalculationConfig struct {
	Active bool            `json:"active" yaml:"active"`
	Type   CalculationType `json:"type" yaml:"type"`
}

// DefaultInteractive is the interactive config of a fresh chart.
func DefaultInteractive() InteractiveFiltersConfig {
	return InteractiveFiltersConfig{
		TimeRange:   TimeRangeFilter{Presets: TimeRangePreset{Type: "range"}},
		DataFilters: DataFilters{ComponentIDs: []string{}},
		Calculation: CalculationConfig{Type: CalcIdentity},
	}
}

// Bool returns a pointer, for optional flags.
func Bool(b bool) *bool { return &b }
