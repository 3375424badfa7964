// Package chartkit turns a chart config and a cube's observations into a
// render-ready option.
//
// Usage:
//
//	import "github.com/spektr-org/chartkit"
//
//	p := chartkit.NewPipeline(chartkit.WithCacheSize(32))
//	opt, err := p.Render(chartkit.Request{Config: cfg, Dataset: ds, Width: 960})
//
// The heavy lifting lives in the sub-packages: chart (family registry),
// adjust (family switch), engine (canonical state), adapter (per-family
// options) and timerange (brush synchronization). A Pipeline memoizes
// engine.Resolve + adapter.Build so identical inputs yield deep-equal
// options without recomputation.
package chartkit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/minio/highwayhash"
	"github.com/tiendc/go-deepcopy"

	"github.com/spektr-org/chartkit/adapter"
	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/events"
	"github.com/spektr-org/chartkit/timerange"
)

// ============================================================================
// PIPELINE — memoized Resolve + Build
// ============================================================================
// Cache key: highwayhash-64 of the JSON encoding of the Request. JSON sorts
// map keys, so equal requests always encode to equal bytes. Eviction is
// first-in first-out once the cache holds size entries.
// ============================================================================

// Request is everything one render depends on.
type Request struct {
	Config      config.ChartConfig  `json:"config"`
	Dataset     engine.Dataset      `json:"dataset"`
	Width       int                 `json:"width,omitempty"`
	AspectRatio float64             `json:"aspectRatio,omitempty"`
	Hidden      []string            `json:"hidden,omitempty"`
	Selections  map[string][]string `json:"selections,omitempty"`
	Ramp        string              `json:"ramp,omitempty"`
	// SortByValueDesc re-orders the rendered arrays only.
	SortByValueDesc bool             `json:"sortByValueDesc,omitempty"`
	Brush           *timerange.Brush `json:"brush,omitempty"`
}

func (r Request) resolveOptions() []engine.Option {
	var opts []engine.Option
	if r.Width > 0 {
		opts = append(opts, engine.WithWidth(r.Width))
	}
	if r.AspectRatio > 0 {
		opts = append(opts, engine.WithAspectRatio(r.AspectRatio))
	}
	if len(r.Hidden) > 0 {
		opts = append(opts, engine.WithHiddenSegments(r.Hidden...))
	}
	for id, values := range r.Selections {
		opts = append(opts, engine.WithSelection(id, values...))
	}
	if r.Ramp != "" {
		opts = append(opts, engine.WithRamp(r.Ramp))
	}
	return opts
}

func (r Request) buildOptions() []adapter.BuildOption {
	var opts []adapter.BuildOption
	if r.SortByValueDesc {
		opts = append(opts, adapter.SortByValueDesc())
	}
	if r.Brush != nil {
		opts = append(opts, adapter.WithBrush(*r.Brush))
	}
	return opts
}

// Rendered is published on the pipeline's bus after every render.
type Rendered struct {
	Key         string
	Fingerprint uint64
	Cached      bool
	Option      adapter.Option
}

// DefaultCacheSize is the number of options a Pipeline keeps.
const DefaultCacheSize = 64

var fingerprintKey = []byte("chartkit-pipeline-fingerprint-32")

// Pipeline renders requests and remembers the results. It is safe for
// concurrent use.
type Pipeline struct {
	mu      sync.Mutex
	entries map[uint64]adapter.Option
	order   []uint64
	size    int
	build   []adapter.BuildOption
	bus     *events.Bus[Rendered]
	logger  *slog.Logger
}

// PipelineOption configures NewPipeline.
type PipelineOption func(*Pipeline)

// WithCacheSize bounds the cache; 0 disables it.
func WithCacheSize(n int) PipelineOption {
	return func(p *Pipeline) { p.size = n }
}

// WithBuildOptions applies adapter options (formatters, placeholder) to
// every render.
func WithBuildOptions(opts ...adapter.BuildOption) PipelineOption {
	return func(p *Pipeline) { p.build = append(p.build, opts...) }
}

// WithBus publishes a Rendered event after every render.
func WithBus(bus *events.Bus[Rendered]) PipelineOption {
	return func(p *Pipeline) { p.bus = bus }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		entries: make(map[uint64]adapter.Option),
		size:    DefaultCacheSize,
		logger:  slog.Default().With(slog.String("module", "chartkit")),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fingerprint returns the cache key of req. NaN and infinite values are
// hashed as null, the same way the engine reads them.
func Fingerprint(req Request) (uint64, error) {
	data, err := json.Marshal(canonical(req))
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func canonical(req Request) Request {
	if !isFinite(req.AspectRatio) {
		req.AspectRatio = 0
	}
	var obs []engine.Observation
	for i, o := range req.Dataset.Observations {
		if allFinite(o) {
			continue
		}
		if obs == nil {
			obs = append([]engine.Observation(nil), req.Dataset.Observations...)
		}
		clean := make(engine.Observation, len(o))
		for k, v := range o {
			if finiteValue(v) {
				clean[k] = v
			} else {
				clean[k] = nil
			}
		}
		obs[i] = clean
	}
	if obs != nil {
		req.Dataset.Observations = obs
	}
	return req
}

func allFinite(o engine.Observation) bool {
	for _, v := range o {
		if !finiteValue(v) {
			return false
		}
	}
	return true
}

func finiteValue(v any) bool {
	switch f := v.(type) {
	case float64:
		return isFinite(f)
	case float32:
		return isFinite(float64(f))
	}
	return true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Render resolves and builds req, or returns the remembered option of an
// identical earlier request. The returned option is the caller's to
// modify.
func (p *Pipeline) Render(req Request) (adapter.Option, error) {
	fp, err := Fingerprint(req)
	if err != nil {
		return adapter.Option{}, err
	}

	p.mu.Lock()
	cached, ok := p.entries[fp]
	p.mu.Unlock()
	if ok {
		p.logger.Debug("render cache hit", slog.String("key", req.Config.Key), slog.Uint64("fingerprint", fp))
		return p.emit(req, fp, cached, true)
	}

	state, err := engine.Resolve(req.Config, req.Dataset, req.resolveOptions()...)
	if err != nil {
		return adapter.Option{}, fmt.Errorf("failed to resolve chart %q: %w", req.Config.Key, err)
	}
	opt := adapter.Build(req.Config.Family, state, append(append([]adapter.BuildOption{}, p.build...), req.buildOptions()...)...)

	p.store(fp, opt)
	p.logger.Debug("chart rendered",
		slog.String("key", req.Config.Key),
		slog.String("family", string(req.Config.Family)),
		slog.Int("observations", len(state.ChartData)),
		slog.Uint64("fingerprint", fp))
	return p.emit(req, fp, opt, false)
}

func (p *Pipeline) store(fp uint64, opt adapter.Option) {
	if p.size <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.entries[fp]; ok {
		return
	}
	for len(p.order) >= p.size {
		delete(p.entries, p.order[0])
		p.order = p.order[1:]
	}
	p.entries[fp] = opt
	p.order = append(p.order, fp)
}

// emit hands out a private copy of opt and publishes it.
func (p *Pipeline) emit(req Request, fp uint64, opt adapter.Option, cached bool) (adapter.Option, error) {
	var out adapter.Option
	if err := deepcopy.Copy(&out, &opt); err != nil {
		return adapter.Option{}, fmt.Errorf("failed to copy option: %w", err)
	}
	if p.bus != nil {
		p.bus.Publish(Rendered{Key: req.Config.Key, Fingerprint: fp, Cached: cached, Option: out})
	}
	return out, nil
}

// Len returns the number of cached options.
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Reset drops every cached option.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = make(map[uint64]adapter.Option)
	p.order = nil
}
