package adapter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// TABLE — Row per observation
// ============================================================================
// Columns follow the config order (hidden columns are already dropped by
// the resolver). Dimensions render their labels, measures the injected
// number format. Rows are ordered by the sortBy columns, then by grouped
// columns.
// ============================================================================

func buildTable(s *engine.State, c *buildConfig) Option {
	t := &Table{Columns: []Column{}, Rows: [][]string{}}
	opt := Option{Table: t, Tooltip: Tooltip{Trigger: TriggerItem}}
	if len(s.ChartData) == 0 || len(s.Columns) == 0 {
		return opt
	}

	grouped := make(map[string]bool)
	var sortBy []string
	if tf := s.Config.Fields.Table; tf != nil {
		for _, col := range tf.Columns {
			grouped[col.ComponentID] = col.Grouped
		}
		sortBy = tf.SortBy
	}

	for _, ch := range s.Columns {
		col := Column{Key: ch.ComponentID, Label: ch.AxisLabel(), Type: "text", Align: "left", Grouped: grouped[ch.ComponentID]}
		if ch.Measure != nil {
			col.Type, col.Align = "number", "right"
		}
		t.Columns = append(t.Columns, col)
	}

	rows := sortRows(s, sortBy, grouped)
	t.Rows = make([][]string, 0, len(rows))
	totals := make(map[string][]*float64)
	for _, o := range rows {
		row := make([]string, 0, len(s.Columns))
		for _, ch := range s.Columns {
			if ch.Measure != nil {
				v := engine.NewMeasureGetter(ch.ComponentID)(o)
				totals[ch.ComponentID] = append(totals[ch.ComponentID], v)
				row = append(row, c.format(v))
				continue
			}
			row = append(row, cellLabel(c, ch, o))
		}
		t.Rows = append(t.Rows, row)
	}

	summary := &Summary{
		Label:  fmt.Sprintf("Total (%d records)", len(rows)),
		Values: make(map[string]string),
	}
	for id, vals := range totals {
		if sum, ok := engine.Stack(vals); ok {
			summary.Values[id] = c.Number(sum)
		}
	}
	t.Summary = summary
	return opt
}

func cellLabel(c *buildConfig, ch engine.Channel, o engine.Observation) string {
	key, ok := o.String(ch.ComponentID)
	if !ok || ch.Dimension == nil {
		return key
	}
	if schema.IsTemporal(*ch.Dimension) && c.Date != nil {
		if ts, ok := schema.ParseTime(*ch.Dimension, key); ok {
			return c.Date(ts)
		}
	}
	return ch.Dimension.LabelFor(key)
}

// sortRows orders the observations by the sortBy columns, then the grouped
// columns. Dimensions compare by position, else label; measures
// numerically. Nulls sort last.
func sortRows(s *engine.State, sortBy []string, grouped map[string]bool) []engine.Observation {
	rows := make([]engine.Observation, len(s.ChartData))
	copy(rows, s.ChartData)

	var keys []engine.Channel
	seen := make(map[string]bool)
	add := func(id string) {
		if seen[id] {
			return
		}
		for _, ch := range s.Columns {
			if ch.ComponentID == id {
				keys = append(keys, ch)
				seen[id] = true
				return
			}
		}
	}
	for _, id := range sortBy {
		add(id)
	}
	for _, ch := range s.Columns {
		if grouped[ch.ComponentID] {
			add(ch.ComponentID)
		}
	}
	if len(keys) == 0 {
		return rows
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, ch := range keys {
			if c := compareCells(rows[i], rows[j], ch); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return rows
}

func compareCells(a, b engine.Observation, ch engine.Channel) int {
	if d := ch.Dimension; d != nil {
		ka, okA := a.String(ch.ComponentID)
		kb, okB := b.String(ch.ComponentID)
		if c := compareNullable(okA, okB, 0, 0); c != 0 || !okA {
			return c
		}
		pa, hasA := positionOf(d, ka)
		pb, hasB := positionOf(d, kb)
		if hasA && hasB {
			return compareNullable(true, true, float64(pa), float64(pb))
		}
		return strings.Compare(strings.ToLower(d.LabelFor(ka)), strings.ToLower(d.LabelFor(kb)))
	}
	va, okA := a.Number(ch.ComponentID)
	vb, okB := b.Number(ch.ComponentID)
	return compareNullable(okA, okB, va, vb)
}

func positionOf(d *schema.Dimension, key string) (int, bool) {
	if v, ok := d.ValueByKey(key); ok && v.Position != nil {
		return *v.Position, true
	}
	return 0, false
}

func compareNullable(okA, okB bool, a, b float64) int {
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
