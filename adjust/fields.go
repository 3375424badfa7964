package adjust

import (
	"fmt"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// FIELD ADJUSTERS — one per (target family, channel)
// ============================================================================
// Adjusters copy a binding verbatim when the target channel accepts the
// component, optionally looking at a different channel of the old family
// (bar's y takes the categorical x of a column chart). Channels they leave
// unset are defaulted afterwards by scanning dimensions/measures.
// ============================================================================

func fieldAdjuster(f chart.Family, spec chart.FieldSpec) FieldAdjuster {
	switch spec.Kind {
	case chart.KindDimension:
		switch {
		case spec.Name == chart.FieldAnimation:
			return adjustAnimation
		case spec.Name == chart.FieldSegment && f == chart.Pie:
			return dimensionAdjuster(chart.FieldSegment, chart.FieldX, chart.FieldY)
		case spec.Name == chart.FieldSegment:
			return dimensionAdjuster(chart.FieldSegment)
		case f == chart.Bar:
			return dimensionAdjuster(chart.FieldY, chart.FieldX)
		default:
			return dimensionAdjuster(chart.FieldX, chart.FieldY)
		}
	case chart.KindMeasure:
		switch {
		case f == chart.Scatterplot:
			return measureAdjuster(spec.Name)
		case spec.Name == chart.FieldX:
			return measureAdjuster(chart.FieldX, chart.FieldY, chart.FieldLines, chart.FieldAreas, chart.FieldSymbols)
		default:
			return measureAdjuster(chart.FieldY, chart.FieldX, chart.FieldLines, chart.FieldAreas, chart.FieldSymbols)
		}
	case chart.KindMeasures:
		return adjustLines
	case chart.KindMapLayer:
		return adjustMapLayer
	case chart.KindColumns:
		return adjustTable
	case chart.KindStyle:
		return adjustColor
	}
	panic(fmt.Sprintf("adjust: no adjuster for %s.%s", f, spec.Name))
}

// dimensionAdjuster binds the first old channel (in the given order) whose
// dimension the target channel accepts.
func dimensionAdjuster(from ...chart.FieldName) FieldAdjuster {
	return func(ctx *Context, spec chart.FieldSpec) {
		for _, name := range from {
			id := ctx.Old.Fields.ComponentOf(name)
			if !ctx.acceptsDimension(id, spec) {
				continue
			}
			bind(ctx, spec, id, name)
			return
		}
	}
}

// measureAdjuster binds the first old measure found on the given channels.
func measureAdjuster(from ...chart.FieldName) FieldAdjuster {
	return func(ctx *Context, spec chart.FieldSpec) {
		for _, name := range from {
			for _, id := range oldMeasuresOn(ctx.Old.Fields, name) {
				if ctx.acceptsMeasure(id, spec) {
					bind(ctx, spec, id, name)
					return
				}
			}
		}
	}
}

func oldMeasuresOn(f config.Fields, name chart.FieldName) []string {
	switch name {
	case chart.FieldLines:
		if f.Lines != nil {
			return f.Lines.ComponentIDs
		}
	case chart.FieldAreas:
		if f.Areas != nil {
			return []string{f.Areas.MeasureID}
		}
	case chart.FieldSymbols:
		if f.Symbols != nil {
			return []string{f.Symbols.MeasureID}
		}
	default:
		if id := f.ComponentOf(name); id != "" {
			return []string{id}
		}
	}
	return nil
}

// bind sets a single-component channel, carrying over the options of the
// old channel it came from when the target channel supports them.
func bind(ctx *Context, spec chart.FieldSpec, id string, from chart.FieldName) {
	old := ctx.Old.Fields
	f := &ctx.New.Fields
	switch spec.Name {
	case chart.FieldX:
		f.X = trimAxis(oldAxis(old, from), id, spec)
	case chart.FieldY:
		f.Y = trimAxis(oldAxis(old, from), id, spec)
	case chart.FieldSegment:
		var src *config.SegmentField
		if from == chart.FieldSegment {
			src = old.Segment
		}
		f.Segment = trimSegment(src, id, spec)
	case chart.FieldAnimation:
		f.Animation = &config.AnimationField{ComponentID: id, ShowPlayButton: true, Duration: 30}
	}
}

func oldAxis(f config.Fields, name chart.FieldName) *config.AxisField {
	switch name {
	case chart.FieldX:
		return f.X
	case chart.FieldY:
		return f.Y
	}
	return nil
}

// trimAxis returns a fresh axis field bound to id that keeps only the
// options spec allows. A custom domain only survives on the same measure.
func trimAxis(src *config.AxisField, id string, spec chart.FieldSpec) *config.AxisField {
	out := &config.AxisField{ComponentID: id}
	if src == nil {
		return out
	}
	if spec.HasOption(chart.OptSorting) {
		out.Sorting = src.Sorting
	}
	if spec.HasOption(chart.OptShowValues) {
		out.ShowValues = src.ShowValues
	}
	if spec.HasOption(chart.OptShowDots) {
		out.ShowDots = src.ShowDots
	}
	if spec.HasOption(chart.OptShowDotsSize) {
		out.ShowDotsSize = src.ShowDotsSize
	}
	if spec.HasOption(chart.OptImputation) {
		out.Imputation = src.Imputation
	}
	if spec.HasOption(chart.OptCustomDomain) && src.ComponentID == id {
		out.CustomDomain = src.CustomDomain
	}
	return out
}

func trimSegment(src *config.SegmentField, id string, spec chart.FieldSpec) *config.SegmentField {
	out := &config.SegmentField{ComponentID: id}
	if src == nil {
		return out
	}
	if spec.HasOption(chart.OptSegmentType) {
		out.Type = src.Type
	}
	if spec.HasOption(chart.OptSorting) {
		out.Sorting = src.Sorting
	}
	if spec.HasOption(chart.OptUseAbbreviations) {
		out.UseAbbreviations = src.UseAbbreviations
	}
	if spec.HasOption(chart.OptShowTitle) {
		out.ShowTitle = src.ShowTitle
	}
	return out
}

func adjustAnimation(ctx *Context, spec chart.FieldSpec) {
	old, _ := ctx.OldValue.(*config.AnimationField)
	if old == nil || !ctx.acceptsDimension(old.ComponentID, spec) {
		return
	}
	a := *old
	ctx.New.Fields.Animation = &a
}

func adjustColor(ctx *Context, _ chart.FieldSpec) {
	if old, _ := ctx.OldValue.(*config.ColorField); old != nil {
		c := *old
		ctx.New.Fields.Color = &c
	}
}

// adjustLines keeps the old combo measures, else takes the old bound
// measures and fills up with the next unused ones.
func adjustLines(ctx *Context, spec chart.FieldSpec) {
	want := 2
	if ctx.New.Family == chart.ComboLineSingle {
		want = len(ctx.Measures)
	}

	var ids []string
	add := func(id string) {
		if len(ids) >= want || !ctx.acceptsMeasure(id, spec) {
			return
		}
		for _, have := range ids {
			if have == id {
				return
			}
		}
		ids = append(ids, id)
	}

	if old := ctx.Old.Fields.Lines; old != nil {
		for _, id := range old.ComponentIDs {
			add(id)
		}
	}
	for _, id := range ctx.oldMeasureIDs() {
		add(id)
	}
	if len(ids) < 2 {
		for _, m := range ctx.Measures {
			add(m.ID)
		}
	}
	if len(ids) < 2 {
		return
	}

	lines := &config.ComboField{ComponentIDs: ids}
	if ctx.New.Family == chart.ComboLineColumn {
		lines.LineAxis = config.AxisLeft
		if old := ctx.Old.Fields.Lines; old != nil && old.LineAxis != "" {
			lines.LineAxis = old.LineAxis
		}
	}
	ctx.New.Fields.Lines = lines
}

// adjustMapLayer keeps the old layer, else moves a geo dimension the old
// family had on an axis or segment onto the layer.
func adjustMapLayer(ctx *Context, spec chart.FieldSpec) {
	old, _ := ctx.OldValue.(*config.MapLayerField)
	id := ""
	if old != nil && ctx.acceptsDimension(old.ComponentID, spec) {
		id = old.ComponentID
	} else if spec.Name == chart.FieldAreas || ctx.New.Fields.Areas == nil {
		for _, name := range []chart.FieldName{chart.FieldX, chart.FieldY, chart.FieldSegment} {
			if c := ctx.Old.Fields.ComponentOf(name); ctx.acceptsDimension(c, spec) {
				id = c
				break
			}
		}
	}
	if id == "" {
		return
	}
	setLayer(ctx, spec, id, old)
}

func setLayer(ctx *Context, spec chart.FieldSpec, id string, old *config.MapLayerField) {
	layer := &config.MapLayerField{ComponentID: id}
	if old != nil {
		if _, ok := ctx.measure(old.MeasureID); ok {
			layer.MeasureID = old.MeasureID
		}
	}
	if layer.MeasureID == "" {
		if ids := ctx.oldMeasureIDs(); len(ids) > 0 {
			layer.MeasureID = ids[0]
		} else if len(ctx.Measures) > 0 {
			layer.MeasureID = ctx.Measures[0].ID
		}
	}
	if spec.Name == chart.FieldAreas {
		ctx.New.Fields.Areas = layer
	} else {
		ctx.New.Fields.Symbols = layer
	}
}

// adjustTable keeps the old columns that still exist, else lists every
// component the old config bound followed by the rest of the cube.
func adjustTable(ctx *Context, _ chart.FieldSpec) {
	exists := func(id string) bool {
		if d, ok := ctx.dimension(id); ok {
			return !schema.IsStandardError(d)
		}
		_, ok := ctx.measure(id)
		return ok
	}

	var cols []config.TableColumn
	if old, _ := ctx.OldValue.(*config.TableField); old != nil {
		for _, c := range old.Columns {
			if exists(c.ComponentID) {
				cols = append(cols, c)
			}
		}
	}
	if len(cols) == 0 {
		seen := make(map[string]bool)
		add := func(id string) {
			if !seen[id] && exists(id) {
				seen[id] = true
				cols = append(cols, config.TableColumn{ComponentID: id})
			}
		}
		for _, id := range ctx.Old.BoundComponentIDs() {
			add(id)
		}
		for _, d := range ctx.Dimensions {
			add(d.ID)
		}
		for _, m := range ctx.Measures {
			add(m.ID)
		}
	}
	if len(cols) > 0 {
		ctx.New.Fields.Table = &config.TableField{Columns: cols}
	}
}

// oldChannel returns the old value of a channel as seen by its adjuster.
func oldChannel(f config.Fields, name chart.FieldName) any {
	switch name {
	case chart.FieldX:
		return f.X
	case chart.FieldY:
		return f.Y
	case chart.FieldSegment:
		return f.Segment
	case chart.FieldColor:
		return f.Color
	case chart.FieldAnimation:
		return f.Animation
	case chart.FieldLines:
		return f.Lines
	case chart.FieldAreas:
		return f.Areas
	case chart.FieldSymbols:
		return f.Symbols
	case chart.FieldTable:
		return f.Table
	}
	return nil
}
