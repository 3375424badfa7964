package schema

// ============================================================================
// SCHEMA — Describes the components of a cube for classifier, registry and resolver
// ============================================================================
// Supplied by the data-fetch collaborator (or discovered from CSV).
// Dimensions are categorical/temporal/geo axes; measures are numeric facts.
// Dimension.Values ordering is the authoritative display order unless an
// explicit sort config overrides it.
// ============================================================================

// ComponentType is the raw type tag the data layer attaches to a component.
type ComponentType string

const (
	NominalDimension         ComponentType = "NominalDimension"
	OrdinalDimension         ComponentType = "OrdinalDimension"
	TemporalDimension        ComponentType = "TemporalDimension"
	TemporalEntityDimension  ComponentType = "TemporalEntityDimension"
	TemporalOrdinalDimension ComponentType = "TemporalOrdinalDimension"
	GeoCoordinatesDimension  ComponentType = "GeoCoordinatesDimension"
	GeoShapesDimension       ComponentType = "GeoShapesDimension"
	StandardErrorDimension   ComponentType = "StandardErrorDimension"
	NumericalMeasure         ComponentType = "NumericalMeasure"
	OrdinalMeasure           ComponentType = "OrdinalMeasure"
)

// Cube is a dataset exposing dimensions and measures.
type Cube struct {
	IRI        string      `json:"iri" yaml:"iri"`
	Title      string      `json:"title,omitempty" yaml:"title,omitempty"`
	Dimensions []Dimension `json:"dimensions" yaml:"dimensions"`
	Measures   []Measure   `json:"measures" yaml:"measures"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty" yaml:"skippedColumns,omitempty"`
}

// Dimension describes a categorical, temporal or geographic component.
type Dimension struct {
	ID         string           `json:"id" yaml:"id"`
	Label      string           `json:"label" yaml:"label"`
	Type       ComponentType    `json:"type" yaml:"type"`
	Unit       string           `json:"unit,omitempty" yaml:"unit,omitempty"`
	TimeUnit   TimeUnit         `json:"timeUnit,omitempty" yaml:"timeUnit,omitempty"`
	TimeFormat string           `json:"timeFormat,omitempty" yaml:"timeFormat,omitempty"` // Go layout
	CubeIRI    string           `json:"cubeIri,omitempty" yaml:"cubeIri,omitempty"`
	Values     []DimensionValue `json:"values" yaml:"values"`
}

// Measure describes a numeric component.
type Measure struct {
	ID         string        `json:"id" yaml:"id"`
	Label      string        `json:"label" yaml:"label"`
	Type       ComponentType `json:"type,omitempty" yaml:"type,omitempty"`
	Unit       string        `json:"unit,omitempty" yaml:"unit,omitempty"`
	CubeIRI    string        `json:"cubeIri,omitempty" yaml:"cubeIri,omitempty"`
	Resolution int           `json:"resolution,omitempty" yaml:"resolution,omitempty"` // decimals, -1 = unknown
}

// DimensionValue is one member of a dimension.
// Value is unique per dimension; Position, when present, defines a total order.
type DimensionValue struct {
	Value          string   `json:"value" yaml:"value"`
	Label          string   `json:"label" yaml:"label"`
	AlternateLabel string   `json:"alternateLabel,omitempty" yaml:"alternateLabel,omitempty"`
	Position       *int     `json:"position,omitempty" yaml:"position,omitempty"`
	Color          string   `json:"color,omitempty" yaml:"color,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column" yaml:"column"`
	Reason      string `json:"reason" yaml:"reason"`
	Recoverable bool   `json:"recoverable" yaml:"recoverable"` // Can be restored if consumer overrides
}

// ValueByKey returns the member with the given raw value.
func (d Dimension) ValueByKey(key string) (DimensionValue, bool) {
	for _, v := range d.Values {
		if v.Value == key {
			return v, true
		}
	}
	return DimensionValue{}, false
}

// LabelFor returns the display label of a raw value, or the value itself
// when the dimension does not know it.
func (d Dimension) LabelFor(key string) string {
	if v, ok := d.ValueByKey(key); ok && v.Label != "" {
		return v.Label
	}
	return key
}

// AbbreviationOrLabel prefers the alternate (short) label.
func (d Dimension) AbbreviationOrLabel(key string) string {
	if v, ok := d.ValueByKey(key); ok {
		if v.AlternateLabel != "" {
			return v.AlternateLabel
		}
		if v.Label != "" {
			return v.Label
		}
	}
	return key
}

// HasPositions reports whether every value carries an explicit position.
func (d Dimension) HasPositions() bool {
	if len(d.Values) == 0 {
		return false
	}
	for _, v := range d.Values {
		if v.Position == nil {
			return false
		}
	}
	return true
}

// Dimension returns the dimension with the given id.
func (c Cube) Dimension(id string) (Dimension, bool) {
	return FindDimension(c.Dimensions, id)
}

// Measure returns the measure with the given id.
func (c Cube) Measure(id string) (Measure, bool) {
	return FindMeasure(c.Measures, id)
}

// DimensionIDs returns all dimension ids.
func (c Cube) DimensionIDs() []string {
	ids := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		ids[i] = d.ID
	}
	return ids
}

// MeasureIDs returns all measure ids.
func (c Cube) MeasureIDs() []string {
	ids := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		ids[i] = m.ID
	}
	return ids
}

// FindDimension looks up a dimension by id.
func FindDimension(dims []Dimension, id string) (Dimension, bool) {
	for _, d := range dims {
		if d.ID == id {
			return d, true
		}
	}
	return Dimension{}, false
}

// FindMeasure looks up a measure by id.
func FindMeasure(measures []Measure, id string) (Measure, bool) {
	for _, m := range measures {
		if m.ID == id {
			return m, true
		}
	}
	return Measure{}, false
}

// Positioned is a small helper for fixtures and discovery.
func Positioned(p int) *int { return &p }
