package helpers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/viant/afs"

	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into engine observations
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, GCS, memory).
// This helper converts the raw bytes into observations keyed by the
// cube's component ids: dimension cells stay strings, measure cells become
// float64, and null tokens become nil.
// ============================================================================

var logger = slog.Default().With(slog.String("module", "helpers"))

// ParseCSV parses CSV bytes into observations using cube for classification.
// Columns the cube does not describe are skipped.
func ParseCSV(data []byte, cube schema.Cube) ([]engine.Observation, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	type colMapping struct {
		id        string
		isMeasure bool
	}
	mappings := make([]colMapping, len(headers))
	for i, h := range headers {
		id := schema.ToSnakeCase(h)
		if _, ok := cube.Dimension(id); ok {
			mappings[i] = colMapping{id: id}
		} else if _, ok := cube.Measure(id); ok {
			mappings[i] = colMapping{id: id, isMeasure: true}
		}
	}

	var obs []engine.Observation
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		o := make(engine.Observation, len(mappings))
		for i, val := range row {
			if i >= len(mappings) || mappings[i].id == "" {
				continue
			}
			m := mappings[i]
			val = strings.TrimSpace(val)
			switch {
			case m.isMeasure:
				if f, ok := schema.ParseNumber(val); ok {
					o[m.id] = f
				} else {
					o[m.id] = nil
				}
			case schema.IsNullToken(val):
				o[m.id] = nil
			default:
				o[m.id] = val
			}
		}
		obs = append(obs, o)
	}
	if skipped > 0 {
		logger.Warn("malformed CSV rows skipped", slog.Int("rows", skipped))
	}
	return obs, nil
}

// ParseCSVAuto discovers the cube of data and parses it.
func ParseCSVAuto(data []byte, opts ...schema.DiscoverOptions) (engine.Dataset, *schema.Cube, error) {
	cube, err := schema.DiscoverFromCSV(data, opts...)
	if err != nil {
		return engine.Dataset{}, nil, err
	}
	obs, err := ParseCSV(data, *cube)
	if err != nil {
		return engine.Dataset{}, nil, err
	}
	return engine.Dataset{
		Observations: obs,
		Dimensions:   cube.Dimensions,
		Measures:     cube.Measures,
	}, cube, nil
}

// ParseCSVView parses CSV into a View (convenience wrapper).
func ParseCSVView(data []byte, cube schema.Cube) (engine.View, error) {
	obs, err := ParseCSV(data, cube)
	if err != nil {
		return nil, err
	}
	return engine.SliceView(obs), nil
}

// LoadCSV downloads a CSV from any URL afs understands and discovers it.
// The cube is named after the file unless opts name it.
func LoadCSV(ctx context.Context, URL string, opts ...schema.DiscoverOptions) (engine.Dataset, *schema.Cube, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return engine.Dataset{}, nil, fmt.Errorf("failed to download %s: %w", URL, err)
	}
	opt := schema.DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.Name == "" {
		opt.Name = baseName(URL)
	}
	ds, cube, err := ParseCSVAuto(data, opt)
	if err != nil {
		return engine.Dataset{}, nil, fmt.Errorf("failed to parse %s: %w", URL, err)
	}
	logger.Debug("csv loaded",
		slog.String("url", URL),
		slog.Int("observations", len(ds.Observations)),
		slog.Int("dimensions", len(cube.Dimensions)),
		slog.Int("measures", len(cube.Measures)))
	return ds, cube, nil
}

// Merge joins the datasets of several cubes. Observations are
// concatenated; components keep their first definition.
func Merge(sets ...engine.Dataset) engine.Dataset {
	var out engine.Dataset
	views := make([]engine.View, 0, len(sets))
	seenDim := make(map[string]bool)
	seenMeasure := make(map[string]bool)
	for _, ds := range sets {
		views = append(views, engine.SliceView(ds.Observations))
		for _, d := range ds.Dimensions {
			if !seenDim[d.ID] {
				seenDim[d.ID] = true
				out.Dimensions = append(out.Dimensions, d)
			}
		}
		for _, m := range ds.Measures {
			if !seenMeasure[m.ID] {
				seenMeasure[m.ID] = true
				out.Measures = append(out.Measures, m)
			}
		}
	}
	out.Observations = engine.Collect(engine.Concat(views...))
	return out
}

func baseName(URL string) string {
	name := URL
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".csv")
}
