package adapter

import (
	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/timerange"
)

// ============================================================================
// VISUALIZATION OPTION — engine-neutral render description
// ============================================================================
// Only axes, series, legend, tooltip and time-brush primitives. A
// renderer maps these onto its own option format.
// ============================================================================

// AxisType is the kind of scale an axis draws.
type AxisType string

const (
	AxisCategory AxisType = "category"
	AxisTime     AxisType = "time"
	AxisValue    AxisType = "value"
)

// Axis describes one axis. Categories holds keys in display order;
// CategoryLabels the matching display labels.
type Axis struct {
	Type           AxisType  `json:"type"`
	Label          string    `json:"label,omitempty"`
	Categories     []string  `json:"categories,omitempty"`
	CategoryLabels []string  `json:"categoryLabels,omitempty"`
	Min            float64   `json:"min"`
	Max            float64   `json:"max"`
	Ticks          []float64 `json:"ticks,omitempty"`
}

// SeriesKind is the mark a series is drawn with.
type SeriesKind string

const (
	KindBar       SeriesKind = "bar"
	KindLine      SeriesKind = "line"
	KindArea      SeriesKind = "area"
	KindPie       SeriesKind = "pie"
	KindScatter   SeriesKind = "scatter"
	KindMapArea   SeriesKind = "mapArea"
	KindMapSymbol SeriesKind = "mapSymbol"
)

// Series is one drawn series. Name is a display label; Key is the
// segment key (or measure id for combo lines) used for lookups.
type Series struct {
	Key        string     `json:"key"`
	Name       string     `json:"name"`
	Kind       SeriesKind `json:"kind"`
	Stack      string     `json:"stack,omitempty"`
	Color      string     `json:"color"`
	YAxisIndex int        `json:"yAxisIndex"`
	ShowSymbol bool       `json:"showSymbol,omitempty"`
	SymbolSize int        `json:"symbolSize,omitempty"`
	ShowLabel  bool       `json:"showLabel,omitempty"`
	Data       []Point    `json:"data"`
}

// Point is one datum. X is the category key; a nil Value is a gap.
// Stacked holds [lower, upper] for stacked series and is nil for null
// cells.
type Point struct {
	X         string    `json:"x,omitempty"`
	XLabel    string    `json:"xLabel,omitempty"`
	XValue    *float64  `json:"xValue,omitempty"`
	Key       string    `json:"key,omitempty"`
	Label     string    `json:"label,omitempty"`
	Value     *float64  `json:"value"`
	Stacked   []float64 `json:"stacked,omitempty"`
	Color     string    `json:"color,omitempty"`
	Formatted string    `json:"formatted,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
}

// LegendItem is one legend entry.
type LegendItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Legend lists the segments. Interactive legends let the viewer hide
// segments (see engine.WithHiddenSegments).
type Legend struct {
	Title       string       `json:"title,omitempty"`
	Items       []LegendItem `json:"items"`
	Interactive bool         `json:"interactive"`
}

// Tooltip triggers.
const (
	TriggerAxis = "axis"
	TriggerItem = "item"
)

// Tooltip configures hover behaviour.
type Tooltip struct {
	Trigger string `json:"trigger"`
}

// ColorRange is the continuous legend of a map layer.
type ColorRange struct {
	Layer    string  `json:"layer"`
	Label    string  `json:"label"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	MinColor string  `json:"minColor"`
	MaxColor string  `json:"maxColor"`
}

// Animation steps through the values of a dimension.
type Animation struct {
	ComponentID    string   `json:"componentId"`
	Frames         []string `json:"frames"`
	FrameLabels    []string `json:"frameLabels"`
	ShowPlayButton bool     `json:"showPlayButton"`
	Duration       int      `json:"duration"`
}

// Column is a table column.
type Column struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Type    string `json:"type"`  // "text", "number"
	Align   string `json:"align"` // "left", "right"
	Grouped bool   `json:"grouped,omitempty"`
}

// Summary holds totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// Table is the option of the table family.
type Table struct {
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Option is the rendering engine's input.
type Option struct {
	Family      chart.Family       `json:"family"`
	Empty       bool               `json:"empty"`
	Placeholder string             `json:"placeholder,omitempty"`
	Horizontal  bool               `json:"horizontal,omitempty"`
	Percent     bool               `json:"percent,omitempty"`
	Bounds      engine.Bounds      `json:"bounds"`
	XAxis       Axis               `json:"xAxis"`
	YAxis       Axis               `json:"yAxis"`
	Y2Axis      *Axis              `json:"y2Axis,omitempty"`
	Series      []Series           `json:"series"`
	Totals      map[string]float64 `json:"totals,omitempty"`
	Legend      *Legend            `json:"legend,omitempty"`
	Tooltip     Tooltip            `json:"tooltip"`
	TimeBrush   *timerange.Brush   `json:"timeBrush,omitempty"`
	ColorRanges []ColorRange       `json:"colorRanges,omitempty"`
	Animation   *Animation         `json:"animation,omitempty"`
	Table       *Table             `json:"table,omitempty"`
}
