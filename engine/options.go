package engine

import "math"

// ============================================================================
// RESOLVE OPTIONS — Functional options for Resolve()
// ============================================================================

// Option configures Resolve via functional options pattern.
type Option func(*resolveConfig)

type resolveConfig struct {
	Width       int
	AspectRatio float64 // height / width
	Margins     Margins
	Selections  map[string][]string // interactive data filter selections
	Hidden      map[string]bool     // legend-hidden segment keys
	RampID      string              // continuous ramp for map layers
}

// WithWidth sets the total chart width in pixels.
func WithWidth(w int) Option {
	return func(c *resolveConfig) { c.Width = w }
}

// WithAspectRatio sets height / width.
func WithAspectRatio(r float64) Option {
	return func(c *resolveConfig) { c.AspectRatio = r }
}

// WithMargins overrides the default margins.
func WithMargins(m Margins) Option {
	return func(c *resolveConfig) { c.Margins = m }
}

// WithSelection restricts an interactive data filter component to values.
// It only applies when the config's data filters are active and list id.
func WithSelection(id string, values ...string) Option {
	return func(c *resolveConfig) {
		if c.Selections == nil {
			c.Selections = make(map[string][]string)
		}
		c.Selections[id] = values
	}
}

// WithHiddenSegments hides segment keys toggled off in the legend.
// Colours are unaffected.
func WithHiddenSegments(keys ...string) Option {
	return func(c *resolveConfig) {
		if c.Hidden == nil {
			c.Hidden = make(map[string]bool)
		}
		for _, k := range keys {
			c.Hidden[k] = true
		}
	}
}

// WithRamp selects the continuous colour ramp of map layers.
func WithRamp(id string) Option {
	return func(c *resolveConfig) { c.RampID = id }
}

func applyOptions(opts []Option) *resolveConfig {
	cfg := &resolveConfig{
		Width:       800,
		AspectRatio: 0.4,
		Margins:     Margins{Top: 40, Right: 40, Bottom: 60, Left: 60},
		RampID:      "blues",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Margins around the plot area.
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Bounds is the chart geometry.
type Bounds struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Margins     Margins `json:"margins"`
	ChartWidth  int     `json:"chartWidth"`
	ChartHeight int     `json:"chartHeight"`
	AspectRatio float64 `json:"aspectRatio"`
}

func newBounds(c *resolveConfig) Bounds {
	w := c.Width
	if w <= 0 {
		w = 800
	}
	r := c.AspectRatio
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		r = 0.4
	}
	h := int(math.Round(float64(w) * r))
	return Bounds{
		Width:       w,
		Height:      h,
		Margins:     c.Margins,
		ChartWidth:  max(0, w-c.Margins.Left-c.Margins.Right),
		ChartHeight: max(0, h-c.Margins.Top-c.Margins.Bottom),
		AspectRatio: r,
	}
}
