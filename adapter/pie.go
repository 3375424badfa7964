package adapter

import (
	"sort"

	"github.com/spektr-org/chartkit/engine"
)

// ============================================================================
// PIE
// ============================================================================

// whole puts every observation into one category.
func whole(engine.Observation) (string, bool) { return "", true }

// buildPie draws one slice per segment key. Null slices are left out.
func buildPie(s *engine.State, c *buildConfig) Option {
	opt := Option{
		XAxis:   Axis{Type: AxisCategory, Categories: []string{}, CategoryLabels: []string{}},
		YAxis:   valueAxis(s.YScale, s.YAxisLabel),
		Tooltip: Tooltip{Trigger: TriggerItem},
	}
	if s.GetY == nil {
		return opt
	}
	row := engine.GroupBy(s.ChartData, whole, s.GetSegment, s.GetY)[""]

	keys := make([]string, 0, len(s.Segments))
	for _, k := range seriesKeys(s) {
		if row[k] != nil {
			keys = append(keys, k)
		}
	}
	if c.SortByValueDesc {
		sort.SliceStable(keys, func(i, j int) bool { return *row[keys[i]] > *row[keys[j]] })
	}

	series := Series{
		Key:       s.Y.ComponentID,
		Name:      s.Y.Label,
		Kind:      KindPie,
		ShowLabel: showValues(s.Config.Fields.Y),
		Data:      make([]Point, 0, len(keys)),
	}
	for _, k := range keys {
		label := s.GetSegmentAbbreviationOrLabel(k)
		series.Data = append(series.Data, Point{
			Key:       k,
			Label:     label,
			Value:     row[k],
			Color:     s.Color(k),
			Formatted: c.format(row[k]),
		})
		opt.XAxis.Categories = append(opt.XAxis.Categories, k)
		opt.XAxis.CategoryLabels = append(opt.XAxis.CategoryLabels, label)
	}
	opt.Series = []Series{series}
	if s.Segment.Bound() {
		opt.Legend = legend(s, keys)
	}
	return opt
}
