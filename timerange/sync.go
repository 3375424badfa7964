package timerange

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/events"
)

// ============================================================================
// FILTER STORE — shared absolute range
// ============================================================================

// RangeChange is published whenever the shared range is written.
type RangeChange struct {
	ComponentID string    `json:"componentId"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Version     uint64    `json:"version"`
	Source      string    `json:"source"`
}

// FilterStore holds the absolute [from, to] range of one temporal
// component, shared by every chart of a view.
type FilterStore struct {
	mu          sync.Mutex
	componentID string
	from, to    time.Time
	version     uint64
	bus         *events.Bus[RangeChange]
}

// NewFilterStore creates a store publishing on bus.
func NewFilterStore(componentID string, bus *events.Bus[RangeChange]) *FilterStore {
	return &FilterStore{componentID: componentID, bus: bus}
}

// Set writes the range and notifies subscribers.
func (s *FilterStore) Set(from, to time.Time, source string) RangeChange {
	s.mu.Lock()
	s.from, s.to = from, to
	s.version++
	ev := RangeChange{ComponentID: s.componentID, From: from, To: to, Version: s.version, Source: source}
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(ev)
	}
	return ev
}

// Get returns the current range; ok is false before the first Set.
func (s *FilterStore) Get() (from, to time.Time, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.from, s.to, s.version > 0
}

// Bus returns the store's change channel.
func (s *FilterStore) Bus() *events.Bus[RangeChange] { return s.bus }

// ============================================================================
// SYNCHRONIZER — brush ↔ shared range
// ============================================================================
// Two triggers:
//   external filter change → recompute brush percentages
//   user gesture           → convert to dates, write the shared store
// Every domain snapshot gets a new stamp; work computed against an older
// stamp is discarded with ErrStaleDomain.
// ============================================================================

// Brush is the brush state a renderer draws.
type Brush struct {
	Available bool    `json:"available"`
	Reason    string  `json:"reason,omitempty"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Stamp     uint64  `json:"stamp"`
}

// Synchronizer binds one chart's brush to a FilterStore.
type Synchronizer struct {
	mu          sync.Mutex
	id          string
	store       *FilterStore
	domain      Domain
	reason      string
	stamps      uint64
	start, end  float64
	unsubscribe func()
	logger      *slog.Logger
}

// NewSynchronizer subscribes to store changes made by other components.
// id identifies this chart as a writer.
func NewSynchronizer(id string, store *FilterStore) *Synchronizer {
	s := &Synchronizer{
		id:     id,
		store:  store,
		reason: "no domain",
		end:    100,
		logger: slog.Default().With(slog.String("module", "timerange"), slog.String("chart", id)),
	}
	if bus := store.Bus(); bus != nil {
		s.unsubscribe = bus.Subscribe(s.onStoreChange)
	}
	return s
}

func (s *Synchronizer) onStoreChange(ev RangeChange) {
	if ev.Source == s.id {
		return
	}
	if err := s.OnExternalFilter(ev.From, ev.To, s.Stamp()); err != nil {
		s.logger.Debug("external filter ignored", slog.String("error", err.Error()))
	}
}

// SetDomain replaces the x domain and returns its snapshot. The brush is
// recomputed from the store's current range.
func (s *Synchronizer) SetDomain(scale engine.TimeScale) Domain {
	s.mu.Lock()
	s.stamps++
	s.domain = DomainOf(scale, s.stamps)
	s.reason = scale.Reason
	if !s.domain.Valid() && s.reason == "" {
		s.reason = "invalid domain"
	}
	d := s.domain
	s.start, s.end = 0, 100
	s.mu.Unlock()

	if from, to, ok := s.store.Get(); ok && d.Valid() {
		_ = s.OnExternalFilter(from, to, d.Stamp)
	}
	return d
}

// Stamp returns the current domain stamp.
func (s *Synchronizer) Stamp() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.domain.Stamp
}

// Domain returns the current domain snapshot.
func (s *Synchronizer) Domain() Domain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.domain
}

// OnExternalFilter recomputes the brush from an absolute range. stamp is
// the domain snapshot the caller computed against.
func (s *Synchronizer) OnExternalFilter(from, to time.Time, stamp uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(stamp); err != nil {
		return err
	}
	s.start, s.end = ToPercent(s.domain, from, to)
	return nil
}

// OnGesture applies a user brush/zoom gesture made against domain stamp
// and writes the resulting range to the shared store.
func (s *Synchronizer) OnGesture(start, end float64, stamp uint64) (from, to time.Time, err error) {
	s.mu.Lock()
	if err := s.check(stamp); err != nil {
		s.mu.Unlock()
		return time.Time{}, time.Time{}, err
	}
	from, to = FromPercent(s.domain, start, end)
	s.start, s.end = ToPercent(s.domain, from, to)
	s.mu.Unlock()

	s.store.Set(from, to, s.id)
	return from, to, nil
}

// Brush returns the brush to render.
func (s *Synchronizer) Brush() Brush {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.domain.Valid() {
		return Brush{Reason: s.reason, Start: 0, End: 100, Stamp: s.domain.Stamp}
	}
	return Brush{Available: true, Start: s.start, End: s.end, Stamp: s.domain.Stamp}
}

// Close detaches the synchronizer from the store.
func (s *Synchronizer) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// check must be called with s.mu held.
func (s *Synchronizer) check(stamp uint64) error {
	if !s.domain.Valid() {
		return fmt.Errorf("%w: %s", ErrUnavailable, s.reason)
	}
	if stamp != s.domain.Stamp {
		return fmt.Errorf("%w: got %d, current %d", ErrStaleDomain, stamp, s.domain.Stamp)
	}
	return nil
}
