package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spektr-org/chartkit/adapter"
	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// CSV OUTPUT
// ============================================================================

func writeCSV(w io.Writer, opt adapter.Option) error {
	cw := csv.NewWriter(w)
	switch {
	case opt.Table != nil:
		writeTableCSV(cw, opt.Table)
	case opt.Family == chart.Scatterplot:
		writeScatterCSV(cw, opt)
	default:
		writeChartCSV(cw, opt)
	}
	cw.Flush()
	return cw.Error()
}

// writeChartCSV writes one row per category: the label, then one column
// per series.
func writeChartCSV(cw *csv.Writer, opt adapter.Option) {
	category := opt.XAxis
	if opt.Horizontal {
		category = opt.YAxis
	}
	xLabel := category.Label
	if xLabel == "" {
		xLabel = "Label"
	}

	headers := []string{xLabel}
	for _, s := range opt.Series {
		headers = append(headers, s.Name)
	}
	cw.Write(headers)

	for i, key := range category.Categories {
		label := key
		if i < len(category.CategoryLabels) {
			label = category.CategoryLabels[i]
		}
		row := []string{label}
		for _, s := range opt.Series {
			row = append(row, valueAt(opt, s, key))
		}
		cw.Write(row)
	}
}

func valueAt(opt adapter.Option, s adapter.Series, key string) string {
	for _, p := range s.Data {
		k := p.X
		if opt.Family == chart.Pie {
			k = p.Key
		}
		if k == key && p.Value != nil {
			return fmtNum(*p.Value)
		}
	}
	return ""
}

func writeScatterCSV(cw *csv.Writer, opt adapter.Option) {
	cw.Write([]string{"Series", opt.XAxis.Label, opt.YAxis.Label})
	for _, s := range opt.Series {
		for _, p := range s.Data {
			if p.XValue == nil || p.Value == nil {
				continue
			}
			cw.Write([]string{s.Name, fmtNum(*p.XValue), fmtNum(*p.Value)})
		}
	}
}

func writeTableCSV(cw *csv.Writer, t *adapter.Table) {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Label
	}
	cw.Write(headers)
	for _, row := range t.Rows {
		cw.Write(row)
	}
	if t.Summary != nil {
		row := make([]string, len(t.Columns))
		row[0] = t.Summary.Label
		for i, c := range t.Columns {
			if v, ok := t.Summary.Values[c.Key]; ok && i > 0 {
				row[i] = v
			}
		}
		cw.Write(row)
	}
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v any, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// ============================================================================
// HELPERS
// ============================================================================

func fmtNum(v float64) string {
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
