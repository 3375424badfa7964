package adapter

import "github.com/spektr-org/chartkit/engine"

// buildScatter plots one point per observation with both values present.
func buildScatter(s *engine.State, c *buildConfig) Option {
	opt := Option{
		XAxis:   valueAxis(s.XScale, s.XAxisLabel),
		YAxis:   valueAxis(s.YScale, s.YAxisLabel),
		Tooltip: Tooltip{Trigger: TriggerItem},
	}

	keys := seriesKeys(s)
	index := make(map[string]int, len(keys))
	opt.Series = make([]Series, len(keys))
	for i, k := range keys {
		index[k] = i
		opt.Series[i] = Series{Key: k, Name: s.GetSegmentAbbreviationOrLabel(k), Kind: KindScatter, Color: s.Color(k), Data: []Point{}}
		if k == "" {
			opt.Series[i].Key, opt.Series[i].Name = s.Y.ComponentID, s.Y.Label
		}
	}
	if s.GetXValue == nil || s.GetY == nil {
		return opt
	}

	for _, o := range s.ChartData {
		x, y := s.GetXValue(o), s.GetY(o)
		if x == nil || y == nil {
			continue
		}
		k := ""
		if s.GetSegment != nil {
			seg, ok := s.GetSegment(o)
			if !ok {
				continue
			}
			k = seg
		}
		i, ok := index[k]
		if !ok {
			continue
		}
		sr := &opt.Series[i]
		sr.Data = append(sr.Data, Point{
			XValue:    x,
			Key:       k,
			Label:     sr.Name,
			Value:     y,
			Color:     sr.Color,
			Formatted: c.format(x) + ", " + c.format(y),
		})
	}
	if s.Segment.Bound() {
		opt.Legend = legend(s, s.Segments)
	}
	return opt
}
