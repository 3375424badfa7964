package adapter

import (
	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/engine"
)

// buildMap draws each layer as one series coloured on its gradient.
// Symbol points carry the coordinates of their dimension value.
func buildMap(s *engine.State, c *buildConfig) Option {
	opt := Option{Tooltip: Tooltip{Trigger: TriggerItem}}
	for _, l := range s.Layers {
		kind := KindMapArea
		if l.Field == chart.FieldSymbols {
			kind = KindMapSymbol
		}
		name := l.Value.Label
		if name == "" {
			name = l.Area.Label
		}
		sr := Series{Key: l.Area.ComponentID, Name: name, Kind: kind, Data: make([]Point, 0, len(l.Domain))}

		g := engine.GroupBy(s.ChartData, l.GetArea, nil, l.GetValue)
		for _, k := range l.Domain {
			v := g.Get(k, "")
			p := Point{Key: k, Label: k, Value: v, Formatted: c.format(v)}
			if v != nil {
				p.Color = l.Gradient.Color(*v)
			}
			if d := l.Area.Dimension; d != nil {
				p.Label = d.LabelFor(k)
				if dv, ok := d.ValueByKey(k); ok {
					p.Latitude, p.Longitude = dv.Latitude, dv.Longitude
				}
			}
			sr.Data = append(sr.Data, p)
		}
		opt.Series = append(opt.Series, sr)

		if l.Value.Bound() {
			opt.ColorRanges = append(opt.ColorRanges, ColorRange{
				Layer:    string(l.Field),
				Label:    l.Value.AxisLabel(),
				Min:      l.Gradient.Min,
				Max:      l.Gradient.Max,
				MinColor: l.Gradient.Color(l.Gradient.Min),
				MaxColor: l.Gradient.Color(l.Gradient.Max),
			})
		}
	}
	return opt
}
