package config

import (
	"errors"
	"fmt"

	"github.com/spektr-org/chartkit/chart"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid chart config")

// Channels returns the channels currently set, in a fixed order.
func (f Fields) Channels() []chart.FieldName {
	var out []chart.FieldName
	if f.X != nil {
		out = append(out, chart.FieldX)
	}
	if f.Y != nil {
		out = append(out, chart.FieldY)
	}
	if f.Segment != nil {
		out = append(out, chart.FieldSegment)
	}
	if f.Color != nil {
		out = append(out, chart.FieldColor)
	}
	if f.Animation != nil {
		out = append(out, chart.FieldAnimation)
	}
	if f.Lines != nil {
		out = append(out, chart.FieldLines)
	}
	if f.Areas != nil {
		out = append(out, chart.FieldAreas)
	}
	if f.Symbols != nil {
		out = append(out, chart.FieldSymbols)
	}
	if f.Table != nil {
		out = append(out, chart.FieldTable)
	}
	return out
}

// ComponentOf returns the component bound to a single-component channel.
func (f Fields) ComponentOf(name chart.FieldName) string {
	switch name {
	case chart.FieldX:
		if f.X != nil {
			return f.X.ComponentID
		}
	case chart.FieldY:
		if f.Y != nil {
			return f.Y.ComponentID
		}
	case chart.FieldSegment:
		if f.Segment != nil {
			return f.Segment.ComponentID
		}
	case chart.FieldAnimation:
		if f.Animation != nil {
			return f.Animation.ComponentID
		}
	case chart.FieldAreas:
		if f.Areas != nil {
			return f.Areas.ComponentID
		}
	case chart.FieldSymbols:
		if f.Symbols != nil {
			return f.Symbols.ComponentID
		}
	}
	return ""
}

// Options returns the option names set on an axis field.
func (a *AxisField) Options() []string {
	if a == nil {
		return nil
	}
	var out []string
	if a.Sorting != nil {
		out = append(out, chart.OptSorting)
	}
	if a.ShowValues != nil {
		out = append(out, chart.OptShowValues)
	}
	if a.ShowDots != nil {
		out = append(out, chart.OptShowDots)
	}
	if a.ShowDotsSize != "" {
		out = append(out, chart.OptShowDotsSize)
	}
	if a.Imputation != "" {
		out = append(out, chart.OptImputation)
	}
	if len(a.CustomDomain) > 0 {
		out = append(out, chart.OptCustomDomain)
	}
	return out
}

// Options returns the option names set on a segment field.
func (s *SegmentField) Options() []string {
	if s == nil {
		return nil
	}
	var out []string
	if s.Type != "" {
		out = append(out, chart.OptSegmentType)
	}
	if s.Sorting != nil {
		out = append(out, chart.OptSorting)
	}
	if s.UseAbbreviations {
		out = append(out, chart.OptUseAbbreviations)
	}
	if s.ShowTitle {
		out = append(out, chart.OptShowTitle)
	}
	return out
}

// BoundComponentIDs lists every component id referenced by Fields, in
// channel order, without duplicates.
func (c ChartConfig) BoundComponentIDs() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	f := c.Fields
	for _, name := range f.Channels() {
		add(f.ComponentOf(name))
	}
	if f.Lines != nil {
		for _, id := range f.Lines.ComponentIDs {
			add(id)
		}
	}
	for _, layer := range []*MapLayerField{f.Areas, f.Symbols} {
		if layer != nil {
			add(layer.MeasureID)
		}
	}
	if f.Table != nil {
		for _, col := range f.Table.Columns {
			add(col.ComponentID)
		}
	}
	return out
}

// Validate checks that cfg only carries channels and options its family
// understands.
func Validate(cfg ChartConfig) error {
	if !cfg.Family.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, chart.ErrUnknownFamily, cfg.Family)
	}
	sch := chart.SchemaOf(cfg.Family)

	for _, name := range cfg.Fields.Channels() {
		if !sch.Has(name) {
			return fmt.Errorf("%w: %s has no %q channel", ErrInvalidConfig, cfg.Family, name)
		}
	}
	for _, spec := range sch {
		if spec.Required && spec.Kind != chart.KindStyle && !channelSet(cfg.Fields, spec.Name) {
			return fmt.Errorf("%w: %s requires %q", ErrInvalidConfig, cfg.Family, spec.Name)
		}
	}

	checks := []struct {
		name chart.FieldName
		opts []string
	}{
		{chart.FieldX, cfg.Fields.X.Options()},
		{chart.FieldY, cfg.Fields.Y.Options()},
		{chart.FieldSegment, cfg.Fields.Segment.Options()},
	}
	for _, c := range checks {
		spec, ok := sch.Field(c.name)
		if !ok {
			continue
		}
		for _, opt := range c.opts {
			if !spec.HasOption(opt) {
				return fmt.Errorf("%w: option %q not allowed on %s.%s", ErrInvalidConfig, opt, cfg.Family, c.name)
			}
		}
	}

	if l := cfg.Fields.Lines; l != nil && len(l.ComponentIDs) < 2 {
		return fmt.Errorf("%w: %s needs at least 2 line measures", ErrInvalidConfig, cfg.Family)
	}

	for _, cube := range cfg.Cubes {
		if cube.IRI == "" {
			return fmt.Errorf("%w: cube without iri", ErrInvalidConfig)
		}
		for id, f := range cube.Filters {
			switch f.Type {
			case FilterSingle, FilterMulti, FilterRange:
			default:
				return fmt.Errorf("%w: filter %q has unknown type %q", ErrInvalidConfig, id, f.Type)
			}
		}
	}
	return nil
}

func channelSet(f Fields, name chart.FieldName) bool {
	for _, n := range f.Channels() {
		if n == name {
			return true
		}
	}
	return false
}
