package adjust

import (
	"fmt"
	"log/slog"

	"github.com/tiendc/go-deepcopy"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// FAMILY SWITCH
// ============================================================================
// Pipeline:
//   1. Deep-copy the old config; nothing below touches the caller's value
//   2. Run the target family's field adjusters in schema order
//   3. Default required channels that are still unset
//   4. Fill channel option defaults and normalize the colour field
//   5. Run the interactive filter adjusters
//   6. Drop single-value cube filters on newly bound components
//
// The new config is assembled off to the side and returned whole.
// ============================================================================

// Registry holds the adjusters of every (family, channel) pair plus the
// interactive filter adjusters.
type Registry struct {
	fields      map[chart.Family]map[chart.FieldName]FieldAdjuster
	interactive []interactiveEntry
}

// NewRegistry builds the default registry. It panics if a channel of any
// family is left without an adjuster.
func NewRegistry() *Registry {
	r := &Registry{
		fields:      make(map[chart.Family]map[chart.FieldName]FieldAdjuster),
		interactive: defaultInteractive(),
	}
	for _, f := range chart.All() {
		r.fields[f] = make(map[chart.FieldName]FieldAdjuster)
		for _, spec := range chart.SchemaOf(f) {
			r.fields[f][spec.Name] = fieldAdjuster(f, spec)
		}
	}
	return r
}

// Override replaces the adjuster of one channel.
func (r *Registry) Override(f chart.Family, name chart.FieldName, fn FieldAdjuster) {
	if !chart.SchemaOf(f).Has(name) {
		panic(fmt.Sprintf("adjust: %s has no %q channel", f, name))
	}
	r.fields[f][name] = fn
}

// InteractiveKeys lists the interactive filter keys in the order they run.
func (r *Registry) InteractiveKeys() []string {
	keys := make([]string, len(r.interactive))
	for i, e := range r.interactive {
		keys[i] = e.key
	}
	return keys
}

// Option configures Switch.
type Option func(*switchConfig)

type switchConfig struct {
	registry     *Registry
	isAddingCube bool
	logger       *slog.Logger
}

// WithRegistry uses a custom adjuster registry.
func WithRegistry(r *Registry) Option {
	return func(c *switchConfig) { c.registry = r }
}

// WithAddingCube marks the switch as part of merging another cube; cube
// filters on newly bound components are then kept.
func WithAddingCube() Option {
	return func(c *switchConfig) { c.isAddingCube = true }
}

// WithLogger sets the logger dropped fields are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *switchConfig) { c.logger = l }
}

var defaultRegistry = NewRegistry()

// Switch migrates old to family to. The caller's config is never modified.
// Channels that cannot be bound are left nil; callers are expected to only
// switch to families chart.EnabledFamilies reports as enabled.
func Switch(old config.ChartConfig, to chart.Family, dims []schema.Dimension, measures []schema.Measure, opts ...Option) (config.ChartConfig, error) {
	cfg := &switchConfig{
		registry: defaultRegistry,
		logger:   slog.Default().With(slog.String("module", "adjust")),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	adjusters, ok := cfg.registry.fields[to]
	if !ok {
		panic(fmt.Sprintf("adjust: unhandled family %q", to))
	}

	var src config.ChartConfig
	if err := deepcopy.Copy(&src, &old); err != nil {
		return config.ChartConfig{}, fmt.Errorf("failed to copy chart config: %w", err)
	}

	next := &config.ChartConfig{
		Version:     src.Version,
		Key:         src.Key,
		Family:      to,
		Cubes:       src.Cubes,
		Interactive: config.DefaultInteractive(),
	}
	if next.Version == "" {
		next.Version = config.Version
	}
	ctx := &Context{
		Old:          src,
		New:          next,
		Dimensions:   dims,
		Measures:     measures,
		IsAddingCube: cfg.isAddingCube,
	}

	sch := chart.SchemaOf(to)
	for _, spec := range sch {
		ctx.OldValue = oldChannel(src.Fields, spec.Name)
		adjusters[spec.Name](ctx, spec)
	}
	ctx.OldValue = nil
	for _, spec := range sch {
		defaultChannel(ctx, spec)
	}
	applyOptionDefaults(next)
	if sch.Has(chart.FieldColor) {
		normalizeColor(next)
	}
	for _, e := range cfg.registry.interactive {
		e.fn(ctx)
	}
	next.Cubes = pruneCubeFilters(src, next, cfg.isAddingCube)

	for _, name := range src.Fields.Channels() {
		if !sch.Has(name) {
			cfg.logger.Debug("field dropped",
				slog.String("from", string(src.Family)),
				slog.String("to", string(to)),
				slog.String("field", string(name)))
		}
	}
	for _, spec := range sch {
		if spec.Required && !channelBound(next.Fields, spec.Name) {
			cfg.logger.Debug("required field left unset",
				slog.String("to", string(to)),
				slog.String("field", string(spec.Name)))
		}
	}
	return *next, nil
}

// defaultChannel synthesizes a required channel the adjusters left unset.
func defaultChannel(ctx *Context, spec chart.FieldSpec) {
	if !spec.Required || channelBound(ctx.New.Fields, spec.Name) {
		return
	}
	switch spec.Kind {
	case chart.KindDimension:
		if id, ok := ctx.firstDimension(spec); ok {
			bind(ctx, spec, id, "")
		}
	case chart.KindMeasure:
		if id, ok := ctx.firstMeasure(spec); ok {
			bind(ctx, spec, id, "")
		}
	case chart.KindMeasures:
		adjustLines(ctx, spec)
	case chart.KindColumns:
		adjustTable(ctx, spec)
	case chart.KindMapLayer:
		if id, ok := ctx.firstDimension(spec); ok {
			setLayer(ctx, spec, id, nil)
			return
		}
		// No shape dimension: fall back to a symbol layer.
		if spec.Name == chart.FieldAreas && ctx.New.Fields.Symbols == nil {
			if sym, ok := chart.SchemaOf(ctx.New.Family).Field(chart.FieldSymbols); ok {
				if id, ok := ctx.firstDimension(sym); ok {
					setLayer(ctx, sym, id, nil)
				}
			}
		}
	}
}

func channelBound(f config.Fields, name chart.FieldName) bool {
	for _, n := range f.Channels() {
		if n == name {
			return true
		}
	}
	return false
}

// applyOptionDefaults fills the family-exclusive options with their
// declared defaults.
func applyOptionDefaults(cfg *config.ChartConfig) {
	f := &cfg.Fields
	switch cfg.Family {
	case chart.Line:
		if f.Y != nil {
			if f.Y.ShowDots == nil {
				f.Y.ShowDots = config.Bool(true)
			}
			if f.Y.ShowDotsSize == "" {
				f.Y.ShowDotsSize = "large"
			}
		}
	case chart.Area:
		if f.Y != nil && f.Y.Imputation == "" {
			f.Y.Imputation = config.ImputeNone
		}
	case chart.Column, chart.Bar:
		if f.Segment != nil && f.Segment.Type == "" {
			f.Segment.Type = config.Stacked
		}
	}
	if f.Animation != nil && f.Animation.Duration == 0 {
		f.Animation.Duration = 30
	}
}

// normalizeColor makes the colour type agree with the segment binding.
func normalizeColor(cfg *config.ChartConfig) {
	c := cfg.Fields.Color
	if c == nil {
		c = &config.ColorField{}
		cfg.Fields.Color = c
	}
	if c.PaletteID == "" {
		c.PaletteID = engine.DefaultPaletteID
	}
	segmented := cfg.Fields.Segment != nil || cfg.Fields.Lines != nil
	if segmented {
		c.Type = config.ColorSegment
		c.Color = ""
		return
	}
	c.Type = config.ColorSingle
	c.ColorMapping = nil
	if c.Color == "" {
		c.Color = engine.PaletteColors(c.PaletteID)[0]
	}
}

// pruneCubeFilters removes single-value filters on components that were
// not bound before the switch: a newly displayed component must not stay
// pinned to one value.
func pruneCubeFilters(old config.ChartConfig, next *config.ChartConfig, isAddingCube bool) []config.CubeConfig {
	if isAddingCube {
		return next.Cubes
	}
	before := make(map[string]bool)
	for _, id := range old.BoundComponentIDs() {
		before[id] = true
	}
	var fresh []string
	for _, id := range next.BoundComponentIDs() {
		if !before[id] {
			fresh = append(fresh, id)
		}
	}
	cubes := next.Cubes
	for i := range cubes {
		for _, id := range fresh {
			if f, ok := cubes[i].Filters[id]; ok && f.Type == config.FilterSingle {
				delete(cubes[i].Filters, id)
			}
		}
	}
	return cubes
}
