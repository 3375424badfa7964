package engine

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/palette"

	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// COLOURS — segment key → colour
// ============================================================================
// Colours are assigned by index into a fixed palette, the index being the
// key's position in the sorted segment list. Never by hash, never by label.
// ============================================================================

// DefaultPaletteID is used when a config names no palette.
const DefaultPaletteID = "default"

var palettes = map[string][]string{
	DefaultPaletteID: {
		"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
		"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
	},
	"category10": {
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	},
	"dark2": {
		"#1b9e77", "#d95f02", "#7570b3", "#e7298a",
		"#66a61e", "#e6ab02", "#a6761d", "#666666",
	},
	"pastel1": {
		"#fbb4ae", "#b3cde3", "#ccebc5", "#decbe4", "#fed9a6",
		"#ffffcc", "#e5d8bd", "#fddaec", "#f2f2f2",
	},
}

// Sequential ramps for continuous colouring (map areas).
var ramps = map[string][2]string{
	"blues":   {"#deebf7", "#08519c"},
	"greens":  {"#e5f5e0", "#006d2c"},
	"oranges": {"#fee6ce", "#a63603"},
	"purples": {"#efedf5", "#54278f"},
}

// PaletteColors returns the colours of a categorical palette, falling back
// to the default palette for unknown ids.
func PaletteColors(id string) []string {
	if p, ok := palettes[id]; ok {
		return p
	}
	return palettes[DefaultPaletteID]
}

// PaletteIDs lists the categorical palettes.
func PaletteIDs() []string {
	return []string{DefaultPaletteID, "category10", "dark2", "pastel1"}
}

// ColorScale maps segment keys to colours.
type ColorScale struct {
	fallback string
	colors   map[string]string
}

// NewColorScale assigns colours to sorted segment keys. An explicit
// mapping entry wins, then a colour carried by the dimension value, then
// the palette at the key's index.
func NewColorScale(segments []string, field *config.ColorField, dim *schema.Dimension) ColorScale {
	paletteID := DefaultPaletteID
	if field != nil && field.PaletteID != "" {
		paletteID = field.PaletteID
	}
	colors := PaletteColors(paletteID)
	s := ColorScale{fallback: colors[0], colors: make(map[string]string, len(segments))}

	if field != nil && field.Type == config.ColorSingle {
		if field.Color != "" {
			s.fallback = field.Color
		}
		for _, k := range segments {
			s.colors[k] = s.fallback
		}
		return s
	}

	for i, k := range segments {
		c := colors[i%len(colors)]
		if dim != nil {
			if v, ok := dim.ValueByKey(k); ok && v.Color != "" {
				c = v.Color
			}
		}
		if field != nil {
			if m, ok := field.ColorMapping[k]; ok && m != "" {
				c = m
			}
		}
		s.colors[k] = c
	}
	return s
}

// Color returns the colour of a segment key; unknown keys get the first
// palette colour.
func (s ColorScale) Color(key string) string {
	if c, ok := s.colors[key]; ok {
		return c
	}
	return s.fallback
}

// Mapping returns a copy of the key → colour assignment.
func (s ColorScale) Mapping() map[string]string {
	out := make(map[string]string, len(s.colors))
	for k, v := range s.colors {
		out[k] = v
	}
	return out
}

// ============================================================================
// CONTINUOUS COLOURS — value → colour on a sequential ramp
// ============================================================================

// Gradient maps values in [Min, Max] onto a sequential ramp.
type Gradient struct {
	Min, Max float64
	ramp     palette.RGBGradient
}

// NewGradient builds a gradient from a ramp id ("blues", "greens", ...).
func NewGradient(rampID string, min, max float64) Gradient {
	r, ok := ramps[rampID]
	if !ok {
		r = ramps["blues"]
	}
	return Gradient{
		Min: min,
		Max: max,
		ramp: palette.RGBGradient{Colors: []color.RGBA{
			mustParseHex(r[0]), mustParseHex(r[1]),
		}},
	}
}

// Color returns the hex colour of v.
func (g Gradient) Color(v float64) string {
	x := 0.0
	if g.Max > g.Min {
		x = (v - g.Min) / (g.Max - g.Min)
	}
	x = clamp01(x)
	r, gg, b, _ := g.ramp.Map(x).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, gg>>8, b>>8)
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

// ParseHex parses "#rrggbb".
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func mustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
