// Package chart holds the closed set of chart families, their static
// metadata and the field schema each family's config must follow.
package chart

import (
	"errors"
	"fmt"
)

// Family is a chart type with its own field schema and rendering semantics.
type Family string

const (
	Column          Family = "column"
	Bar             Family = "bar"
	Line            Family = "line"
	Area            Family = "area"
	Pie             Family = "pie"
	Scatterplot     Family = "scatterplot"
	Table           Family = "table"
	Map             Family = "map"
	ComboLineSingle Family = "comboLineSingle"
	ComboLineDual   Family = "comboLineDual"
	ComboLineColumn Family = "comboLineColumn"
)

// ErrUnknownFamily is returned when parsing a name outside the closed set.
var ErrUnknownFamily = errors.New("unknown chart family")

var families = []Family{
	Column, Bar, Line, Area, Pie, Scatterplot, Table, Map,
	ComboLineSingle, ComboLineDual, ComboLineColumn,
}

// All returns every family in picker order.
func All() []Family {
	out := make([]Family, len(families))
	copy(out, families)
	return out
}

// Parse validates a family name.
func Parse(s string) (Family, error) {
	for _, f := range families {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

// Valid reports whether f belongs to the closed set.
func (f Family) Valid() bool {
	_, err := Parse(string(f))
	return err == nil
}

// IsCombo reports the multi-measure combo families.
func (f Family) IsCombo() bool {
	return Lookup(f).IsCombo
}
