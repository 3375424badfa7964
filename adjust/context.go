// Package adjust migrates a ChartConfig from one chart family to another,
// keeping every binding that is still valid in the target family.
package adjust

import (
	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// ADJUSTER CONTEXT
// ============================================================================
// An adjuster reads the old config and writes into the skeleton of the new
// one. Old is a private deep copy; New is not visible to the caller until
// every step of the switch has run.
// ============================================================================

// Context is the input of one field adjuster.
type Context struct {
	OldValue     any
	Old          config.ChartConfig
	New          *config.ChartConfig
	Dimensions   []schema.Dimension
	Measures     []schema.Measure
	IsAddingCube bool
}

// FieldAdjuster copies (or synthesizes) one channel of the target family.
type FieldAdjuster func(ctx *Context, spec chart.FieldSpec)

// InteractiveAdjuster migrates one key of the interactive filters config.
type InteractiveAdjuster func(ctx *Context)

func (c *Context) dimension(id string) (schema.Dimension, bool) {
	if id == "" {
		return schema.Dimension{}, false
	}
	return schema.FindDimension(c.Dimensions, id)
}

func (c *Context) measure(id string) (schema.Measure, bool) {
	if id == "" {
		return schema.Measure{}, false
	}
	return schema.FindMeasure(c.Measures, id)
}

// free reports whether id may still be bound to the channel described by spec.
func (c *Context) free(id string, spec chart.FieldSpec) bool {
	if spec.AllowShared {
		return true
	}
	for _, b := range c.New.BoundComponentIDs() {
		if b == id {
			return false
		}
	}
	return true
}

// acceptsDimension reports whether id names a dimension spec accepts and
// that is not consumed by another channel.
func (c *Context) acceptsDimension(id string, spec chart.FieldSpec) bool {
	d, ok := c.dimension(id)
	return ok && spec.Accepts(d) && c.free(id, spec)
}

func (c *Context) acceptsMeasure(id string, spec chart.FieldSpec) bool {
	_, ok := c.measure(id)
	return ok && c.free(id, spec)
}

// firstDimension returns the first acceptable dimension, preferring the
// components the old config bound, then metadata order.
func (c *Context) firstDimension(spec chart.FieldSpec) (string, bool) {
	for _, id := range c.Old.BoundComponentIDs() {
		if c.acceptsDimension(id, spec) {
			return id, true
		}
	}
	for _, d := range c.Dimensions {
		if c.acceptsDimension(d.ID, spec) {
			return d.ID, true
		}
	}
	return "", false
}

// firstMeasure is firstDimension for measures.
func (c *Context) firstMeasure(spec chart.FieldSpec) (string, bool) {
	for _, id := range c.Old.BoundComponentIDs() {
		if c.acceptsMeasure(id, spec) {
			return id, true
		}
	}
	for _, m := range c.Measures {
		if c.acceptsMeasure(m.ID, spec) {
			return m.ID, true
		}
	}
	return "", false
}

// oldMeasureIDs lists the measures the old config bound, in channel order.
func (c *Context) oldMeasureIDs() []string {
	var out []string
	for _, id := range c.Old.BoundComponentIDs() {
		if _, ok := c.measure(id); ok {
			out = append(out, id)
		}
	}
	return out
}
