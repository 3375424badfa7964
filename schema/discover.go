package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic cube description from CSV
// ============================================================================
// Inspects raw CSV data and generates a Cube automatically.
//
// Classification pipeline per column:
//   1. Sample values → detect type (numeric, date, bool, string)
//   2. Type + cardinality → classify role (dimension, measure, skip)
//   3. Pattern matching → detect temporal granularity and coded ordinals
//   4. Collect dimension values in first-seen order
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all). Default: 1000
	RecoverColumns []string // Force-include columns that were auto-skipped
	Name           string   // Cube IRI/title override
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
	}
}

// DiscoverFromCSV generates a Cube by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Cube, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}

	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}
	for i := 0; i < limit; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}

	totalRows := len(rows)
	if totalRows == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	recoverSet := make(map[string]bool)
	for _, col := range opt.RecoverColumns {
		recoverSet[strings.ToLower(col)] = true
	}

	name := opt.Name
	if name == "" {
		name = "csv"
	}
	cube := &Cube{IRI: name, Title: toDisplayName(name)}

	for i, header := range headers {
		col := analyzeColumn(header, i, rows, totalRows)
		recovered := recoverSet[strings.ToLower(col.header)] || recoverSet[col.key]

		switch col.role {
		case roleDimension:
			cube.Dimensions = append(cube.Dimensions, col.toDimension(name))
		case roleMeasure:
			cube.Measures = append(cube.Measures, col.toMeasure(name))
		case roleSkipped:
			if recovered {
				cube.Dimensions = append(cube.Dimensions, col.toDimension(name))
				continue
			}
			cube.SkippedColumns = append(cube.SkippedColumns, SkippedColumn{
				Column:      col.header,
				Reason:      col.skipReason,
				Recoverable: col.recoverable,
			})
		}
	}

	applyCurrencyUnit(cube)
	return cube, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleSkipped
)

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
	typeBool
)

type columnAnalysis struct {
	header      string
	key         string
	index       int
	colType     columnType
	role        columnRole
	skipReason  string
	recoverable bool

	uniqueCount int
	totalCount  int
	nullCount   int
	ordered     []string // unique values, first-seen order

	timeUnit    TimeUnit
	timeLayout  string
	quarterly   bool
	coded       bool // small set of integer codes → ordinal
	hasDecimals bool
}

// analyzeColumn inspects all values in a column and classifies it.
func analyzeColumn(header string, index int, rows [][]string, totalRows int) columnAnalysis {
	col := columnAnalysis{
		header:     header,
		key:        toSnakeCase(header),
		index:      index,
		totalCount: totalRows,
	}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)

	for _, row := range rows {
		if index >= len(row) {
			col.nullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		if IsNullToken(val) {
			col.nullCount++
			continue
		}
		values = append(values, val)
		if !uniqueSet[val] {
			uniqueSet[val] = true
			col.ordered = append(col.ordered, val)
		}
	}

	col.uniqueCount = len(uniqueSet)

	if len(values) == 0 {
		col.role = roleSkipped
		col.skipReason = "All values are empty/null"
		return col
	}

	col.colType = detectType(values)

	if col.colType == typeNumeric {
		for _, v := range values {
			if strings.Contains(v, ".") {
				col.hasDecimals = true
				break
			}
		}
		// Four-digit integers in a plausible range are years.
		if !col.hasDecimals && allYears(col.ordered) {
			col.colType = typeDate
		}
	}

	if col.colType == typeString {
		col.timeUnit, col.timeLayout, col.quarterly = detectTemporalPattern(col.ordered)
	}
	if col.colType == typeDate {
		col.timeUnit, col.timeLayout = detectDateLayout(col.ordered)
	}

	col.classifyRole(totalRows)
	return col
}

// classifyRole determines dimension vs measure vs skip.
func (col *columnAnalysis) classifyRole(totalRows int) {
	switch col.colType {

	case typeNumeric:
		if col.uniqueCount == totalRows && totalRows > 10 && !col.hasDecimals {
			col.role = roleSkipped
			col.skipReason = "Unique per row — likely an ID column"
			return
		}
		if col.hasDecimals {
			col.role = roleMeasure
			return
		}
		// Ratio-based: few unique values AND low ratio → coded dimension (e.g., priority 1-5)
		uniqueRatio := float64(col.uniqueCount) / float64(totalRows)
		if col.uniqueCount < 20 && uniqueRatio < 0.3 {
			col.role = roleDimension
			col.coded = true
			return
		}
		col.role = roleMeasure

	case typeDate, typeBool:
		col.role = roleDimension

	case typeString:
		if col.timeUnit != "" || col.quarterly {
			col.role = roleDimension
			return
		}
		if col.uniqueCount == totalRows && totalRows > 10 {
			col.role = roleSkipped
			col.skipReason = "Unique per row — likely an identifier"
			return
		}
		if col.uniqueCount > totalRows/2 && col.uniqueCount > 50 {
			col.role = roleSkipped
			col.skipReason = fmt.Sprintf("High cardinality (%d unique values) — not useful for grouping", col.uniqueCount)
			col.recoverable = true
			return
		}
		col.role = roleDimension
	}
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// IsNullToken reports the spellings of "no value" found in CSV exports.
func IsNullToken(s string) bool {
	switch s {
	case "", "null", "NULL", "N/A", "n/a", "NaN", "-":
		return true
	}
	return false
}

// detectType inspects values to determine column type.
// Requires 80%+ of non-null values to match for numeric/date/bool.
func detectType(values []string) columnType {
	numCount, dateCount, boolCount := 0, 0, 0
	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if isDate(v) {
			dateCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := int(math.Ceil(float64(len(values)) * 0.8))

	switch {
	case boolCount >= threshold && numCount < threshold:
		return typeBool
	case dateCount >= threshold && numCount < threshold:
		return typeDate
	case numCount >= threshold:
		return typeNumeric
	}
	return typeString
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(cleanNumber(s), 64)
	return err == nil
}

// cleanNumber strips grouping separators and currency prefixes.
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // handle "1,234.56"
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	return s
}

// ParseNumber parses a CSV measure cell; junk yields false.
func ParseNumber(s string) (float64, bool) {
	if IsNullToken(strings.TrimSpace(s)) {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleanNumber(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var dateFormats = []struct {
	layout string
	unit   TimeUnit
}{
	{"2006-01-02T15:04:05Z07:00", UnitSecond},
	{"2006-01-02 15:04:05", UnitSecond},
	{"2006-01-02", UnitDay},
	{"01/02/2006", UnitDay},
	{"Jan 2, 2006", UnitDay},
	{"2 Jan 2006", UnitDay},
}

func isDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, f := range dateFormats {
		if _, err := time.Parse(f.layout, s); err == nil {
			return true
		}
	}
	return false
}

func detectDateLayout(values []string) (TimeUnit, string) {
	if allYears(values) {
		return UnitYear, "2006"
	}
	for _, f := range dateFormats {
		ok := 0
		for _, v := range values {
			if _, err := time.Parse(f.layout, v); err == nil {
				ok++
			}
		}
		if float64(ok) >= float64(len(values))*0.8 {
			return f.unit, f.layout
		}
	}
	return UnitDay, ""
}

func isBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "false" || s == "yes" || s == "no"
}

func allYears(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if len(v) != 4 {
			return false
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1800 || n > 2200 {
			return false
		}
	}
	return true
}

// ============================================================================
// TEMPORAL PATTERN DETECTION
// ============================================================================

var temporalPatterns = []struct {
	re     *regexp.Regexp
	unit   TimeUnit
	layout string
}{
	{regexp.MustCompile(`^[A-Z][a-z]{2}-\d{4}$`), UnitMonth, "Jan-2006"},    // Jan-2026
	{regexp.MustCompile(`^\d{4}-\d{2}$`), UnitMonth, "2006-01"},             // 2026-01
	{regexp.MustCompile(`^[A-Z][a-z]+ \d{4}$`), UnitMonth, "January 2006"}, // January 2026
}

var quarterPattern = regexp.MustCompile(`^Q[1-4][-\s]+\d{4}$`) // Q1-2026, Q1 2026

// detectTemporalPattern checks if values match known month/quarter patterns.
func detectTemporalPattern(samples []string) (TimeUnit, string, bool) {
	if len(samples) == 0 {
		return "", "", false
	}
	if share(samples, quarterPattern.MatchString) >= 0.8 {
		return "", "", true
	}
	for _, p := range temporalPatterns {
		if share(samples, p.re.MatchString) >= 0.8 {
			return p.unit, p.layout, false
		}
	}
	return "", "", false
}

func share(values []string, match func(string) bool) float64 {
	n := 0
	for _, v := range values {
		if match(strings.TrimSpace(v)) {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

// ============================================================================
// CURRENCY UNIT DETECTION
// ============================================================================

// Known ISO 4217 currency codes (common subset).
var knownCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "CNY": true,
	"INR": true, "SGD": true, "AUD": true, "CAD": true, "CHF": true,
	"HKD": true, "NZD": true, "SEK": true, "KRW": true, "NOK": true,
	"MXN": true, "BRL": true, "ZAR": true, "THB": true, "MYR": true,
	"PLN": true, "CZK": true, "DKK": true, "TRY": true, "AED": true,
}

// applyCurrencyUnit sets the unit of every measure when the cube carries a
// single-valued currency code column.
func applyCurrencyUnit(cube *Cube) {
	for _, d := range cube.Dimensions {
		if len(d.Values) != 1 || !knownCurrencies[d.Values[0].Value] {
			continue
		}
		for i := range cube.Measures {
			if cube.Measures[i].Unit == "" {
				cube.Measures[i].Unit = d.Values[0].Value
			}
		}
		return
	}
}

// ============================================================================
// CONVERSION HELPERS
// ============================================================================

// toDimension converts a column analysis into a Dimension.
func (col *columnAnalysis) toDimension(cubeIRI string) Dimension {
	d := Dimension{
		ID:         col.key,
		Label:      toDisplayName(col.header),
		Type:       NominalDimension,
		CubeIRI:    cubeIRI,
		TimeUnit:   col.timeUnit,
		TimeFormat: col.timeLayout,
	}

	ordered := append([]string(nil), col.ordered...)
	switch {
	case col.timeUnit != "":
		d.Type = TemporalDimension
	case col.quarterly:
		d.Type = TemporalOrdinalDimension
		sort.Slice(ordered, func(i, j int) bool { return quarterOrder(ordered[i]) < quarterOrder(ordered[j]) })
	case col.coded:
		d.Type = OrdinalDimension
		sort.Slice(ordered, func(i, j int) bool {
			a, _ := strconv.Atoi(ordered[i])
			b, _ := strconv.Atoi(ordered[j])
			return a < b
		})
	}

	d.Values = make([]DimensionValue, len(ordered))
	for i, v := range ordered {
		d.Values[i] = DimensionValue{Value: v, Label: v}
		if d.Type == OrdinalDimension || d.Type == TemporalOrdinalDimension {
			d.Values[i].Position = Positioned(i)
		}
	}
	return d
}

// toMeasure converts a column analysis into a Measure.
func (col *columnAnalysis) toMeasure(cubeIRI string) Measure {
	return Measure{
		ID:         col.key,
		Label:      toDisplayName(col.header),
		Type:       NumericalMeasure,
		CubeIRI:    cubeIRI,
		Resolution: -1,
	}
}

// quarterOrder maps "Q3-2026" to 20263.
func quarterOrder(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 7 {
		return 0
	}
	q := int(s[1] - '0')
	year, err := strconv.Atoi(strings.TrimSpace(s[len(s)-4:]))
	if err != nil {
		return 0
	}
	return year*10 + q
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return s
}

// ToSnakeCase is exported for the CSV helpers, which must key observations
// exactly like discovery keys components.
func ToSnakeCase(s string) string { return toSnakeCase(strings.TrimSpace(s)) }

// toDisplayName cleans a header for human display.
// "story_points" → "Story Points", "assignee" → "Assignee"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}
