package adapter

import (
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/engine"
)

// ============================================================================
// COMBOS — several measures over one temporal x axis
// ============================================================================
// Series are keyed by measure id; colours come from the same scale as
// segments.
// ============================================================================

func comboBase(s *engine.State, c *buildConfig) Option {
	ids := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		ids[i] = l.ComponentID
	}
	return Option{
		XAxis:     categoryAxis(s, c, s.XDomain),
		Tooltip:   Tooltip{Trigger: TriggerAxis},
		TimeBrush: timeBrush(s, c),
		Legend:    legend(s, ids),
	}
}

// measureSeries draws line i of the combo.
func measureSeries(s *engine.State, c *buildConfig, i int, kind SeriesKind, axis int) Series {
	l := s.Lines[i]
	sr := Series{
		Key:        l.ComponentID,
		Name:       l.Label,
		Kind:       kind,
		Color:      s.Color(l.ComponentID),
		YAxisIndex: axis,
		ShowSymbol: kind == KindLine,
		Data:       make([]Point, 0, len(s.XDomain)),
	}
	if s.GetX == nil {
		return sr
	}
	g := engine.GroupBy(s.ChartData, s.GetX, nil, s.GetLine[i])
	for _, x := range s.XDomain {
		v := g.Get(x, "")
		sr.Data = append(sr.Data, Point{
			X:         x,
			XLabel:    xLabel(s, c, x),
			Key:       l.ComponentID,
			Label:     l.Label,
			Value:     v,
			Color:     sr.Color,
			Formatted: c.format(v),
		})
	}
	return sr
}

// sharedUnitLabel labels a single axis carrying several measures.
func sharedUnitLabel(lines []engine.Channel) string {
	if len(lines) == 0 {
		return ""
	}
	unit := lines[0].Unit
	for _, l := range lines[1:] {
		if l.Unit != unit {
			return ""
		}
	}
	return unit
}

func buildComboLineSingle(s *engine.State, c *buildConfig) Option {
	opt := comboBase(s, c)
	opt.YAxis = valueAxis(s.YScale, sharedUnitLabel(s.Lines))
	for i := range s.Lines {
		opt.Series = append(opt.Series, measureSeries(s, c, i, KindLine, 0))
	}
	return opt
}

// buildComboLineDual puts the first measure on the left axis and the
// second on the right.
func buildComboLineDual(s *engine.State, c *buildConfig) Option {
	opt := comboBase(s, c)
	opt.YAxis = valueAxis(s.YScale, "")
	if len(s.Lines) > 0 {
		opt.YAxis.Label = s.Lines[0].AxisLabel()
		opt.Series = append(opt.Series, measureSeries(s, c, 0, KindLine, 0))
	}
	if len(s.Lines) > 1 {
		y2 := valueAxis(s.Y2Scale, s.Lines[1].AxisLabel())
		opt.Y2Axis = &y2
		opt.Series = append(opt.Series, measureSeries(s, c, 1, KindLine, 1))
	}
	return opt
}

// buildComboLineColumn draws the first measure as a line and the second
// as columns. The line sits on the side its config names.
func buildComboLineColumn(s *engine.State, c *buildConfig) Option {
	opt := comboBase(s, c)
	if len(s.Lines) < 2 {
		opt.YAxis = valueAxis(s.YScale, "")
		for i := range s.Lines {
			opt.Series = append(opt.Series, measureSeries(s, c, i, KindLine, 0))
		}
		return opt
	}

	lineAxis := valueAxis(s.YScale, s.Lines[0].AxisLabel())
	columnAxis := valueAxis(s.Y2Scale, s.Lines[1].AxisLabel())
	lineIndex, columnIndex := 0, 1
	if l := s.Config.Fields.Lines; l != nil && l.LineAxis == config.AxisRight {
		lineIndex, columnIndex = 1, 0
		opt.YAxis, opt.Y2Axis = columnAxis, &lineAxis
	} else {
		opt.YAxis, opt.Y2Axis = lineAxis, &columnAxis
	}
	opt.Series = []Series{
		measureSeries(s, c, 1, KindBar, columnIndex),
		measureSeries(s, c, 0, KindLine, lineIndex),
	}
	return opt
}
