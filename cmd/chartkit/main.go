package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/spektr-org/chartkit"
	"github.com/spektr-org/chartkit/adapter"
	"github.com/spektr-org/chartkit/adjust"
	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/format"
	"github.com/spektr-org/chartkit/helpers"
	"github.com/spektr-org/chartkit/render/echarts"
	"github.com/spektr-org/chartkit/render/gochart"
	"github.com/spektr-org/chartkit/render/text"
	"github.com/spektr-org/chartkit/render/xlsx"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// CHARTKIT CLI — discover a CSV, pick a family, switch and render charts
// ============================================================================

const version = "0.3.0"

var (
	dataURL    string
	configPath string
	outFile    string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "chartkit",
		Short:         "Chart configuration and rendering toolkit",
		Long:          "chartkit discovers CSV cubes, migrates chart configs between families and renders them.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVarP(&dataURL, "file", "f", "", "CSV data file or URL (file://, mem://, s3://, gs://)")
	root.PersistentFlags().StringVarP(&outFile, "out", "o", "", "Write output to file instead of stdout")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(discoverCmd(), familiesCmd(), switchCmd(), renderCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ============================================================================
// COMMANDS
// ============================================================================

func discoverCmd() *cobra.Command {
	var outFormat string
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Print the auto-detected cube of a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cube, err := loadData(cmd.Context())
			if err != nil {
				return err
			}
			return withOutput(func(w io.Writer) error { return writeJSON(w, cube, outFormat) })
		},
	}
	cmd.Flags().StringVar(&outFormat, "format", "pretty", "Output format: json, pretty")
	return cmd
}

func familiesCmd() *cobra.Command {
	var cubes int
	cmd := &cobra.Command{
		Use:   "families",
		Short: "List the chart families the data supports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, _, err := loadData(cmd.Context())
			if err != nil {
				return err
			}
			av := chart.EnabledFamilies(ds.Dimensions, ds.Measures, cubes)
			data := pterm.TableData{{"Family", "Category", "Enabled", "Reason"}}
			for _, f := range chart.All() {
				enabled := "✓"
				if !av.IsEnabled(f) {
					enabled = "✗"
				}
				data = append(data, []string{string(f), string(chart.Lookup(f).Category), enabled, av.DisabledReasons[f]})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			return withOutput(func(w io.Writer) error {
				_, err := fmt.Fprintln(w, table)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&cubes, "cubes", 1, "Number of cubes the chart combines")
	return cmd
}

func switchCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Migrate a chart config to another family",
		RunE: func(cmd *cobra.Command, _ []string) error {
			family, err := chart.Parse(to)
			if err != nil {
				return err
			}
			ds, _, err := loadData(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			next, err := adjust.Switch(*cfg, family, ds.Dimensions, ds.Measures)
			if err != nil {
				return err
			}
			data, err := config.Encode(next, config.FormatFromPath(configPath))
			if err != nil {
				return err
			}
			slog.Info("chart config switched", slog.String("from", string(cfg.Family)), slog.String("to", string(family)))
			return withOutput(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Chart config file or URL (YAML or JSON)")
	cmd.Flags().StringVar(&to, "to", "", "Target family")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		outFormat string
		width     int
		locale    string
		sortDesc  bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart config against a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, _, err := loadData(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			tag, err := language.Parse(locale)
			if err != nil {
				return fmt.Errorf("invalid locale %q: %w", locale, err)
			}

			p := chartkit.NewPipeline(chartkit.WithBuildOptions(formatters(tag, *cfg, ds)...))
			opt, err := p.Render(chartkit.Request{Config: *cfg, Dataset: ds, Width: width, SortByValueDesc: sortDesc})
			if err != nil {
				return err
			}
			return withOutput(func(w io.Writer) error { return writeOption(w, opt, outFormat) })
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Chart config file or URL (YAML or JSON)")
	cmd.Flags().StringVar(&outFormat, "format", "json", "Output format: json, pretty, csv, text, html, xlsx, png, svg")
	cmd.Flags().IntVar(&width, "width", 800, "Chart width in pixels")
	cmd.Flags().StringVar(&locale, "locale", "en", "Locale of formatted numbers")
	cmd.Flags().BoolVar(&sortDesc, "sort-desc", false, "Sort rendered values descending")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

// ============================================================================
// HELPERS
// ============================================================================

func loadData(ctx context.Context) (engine.Dataset, *schema.Cube, error) {
	if dataURL == "" {
		return engine.Dataset{}, nil, fmt.Errorf("--file is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ds, cube, err := helpers.LoadCSV(ctx, dataURL)
	if err != nil {
		return engine.Dataset{}, nil, err
	}
	slog.Info("data loaded",
		slog.String("cube", cube.IRI),
		slog.Int("dimensions", len(cube.Dimensions)),
		slog.Int("measures", len(cube.Measures)),
		slog.Int("skipped", len(cube.SkippedColumns)),
		slog.Int("observations", len(ds.Observations)))
	return ds, cube, nil
}

func loadConfig(ctx context.Context) (*config.ChartConfig, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadURL(ctx, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart config: %w", err)
	}
	return cfg, nil
}

// formatters picks locale-aware number and date formatters for the
// measure and category dimension the config binds.
func formatters(tag language.Tag, cfg config.ChartConfig, ds engine.Dataset) []adapter.BuildOption {
	var opts []adapter.BuildOption
	measureID, dimensionID := bindings(cfg)
	if m, ok := ds.Measure(measureID); ok {
		opts = append(opts, adapter.WithNumberFormatter(format.ForMeasure(tag, m)))
	}
	if d, ok := ds.Dimension(dimensionID); ok && schema.IsTemporal(d) {
		opts = append(opts, adapter.WithDateFormatter(format.ForDimension(d)))
	}
	return opts
}

// bindings returns the value measure and category dimension of cfg.
// Bar charts carry the measure on x.
func bindings(cfg config.ChartConfig) (measureID, dimensionID string) {
	f := cfg.Fields
	switch cfg.Family {
	case chart.Bar:
		return f.ComponentOf(chart.FieldX), f.ComponentOf(chart.FieldY)
	case chart.ComboLineSingle, chart.ComboLineDual, chart.ComboLineColumn:
		if f.Lines != nil && len(f.Lines.ComponentIDs) > 0 {
			measureID = f.Lines.ComponentIDs[0]
		}
		return measureID, f.ComponentOf(chart.FieldX)
	case chart.Scatterplot:
		return f.ComponentOf(chart.FieldY), ""
	}
	return f.ComponentOf(chart.FieldY), f.ComponentOf(chart.FieldX)
}

func withOutput(fn func(io.Writer) error) error {
	if outFile == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return err
	}
	slog.Info("output written", slog.String("path", outFile))
	return nil
}

func writeOption(w io.Writer, opt adapter.Option, outFormat string) error {
	switch strings.ToLower(outFormat) {
	case "csv":
		return writeCSV(w, opt)
	case "html":
		return echarts.Render(opt, w)
	case "xlsx":
		return xlsx.Write(opt, w)
	case "png":
		return gochart.Render(opt, w, gochart.PNG)
	case "svg":
		return gochart.Render(opt, w, gochart.SVG)
	case "text":
		plot, err := text.Plot(opt, text.DefaultConfig())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, plot)
		return err
	case "json", "pretty":
		return writeJSON(w, opt, outFormat)
	}
	return fmt.Errorf("unknown format %q", outFormat)
}
