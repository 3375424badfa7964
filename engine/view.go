package engine

// ============================================================================
// OBSERVATION VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The resolver never owns consumer data. It reads through this interface.
//
// Implementations:
//   SliceView      — wraps []Observation (CSV, JSON, ad-hoc)
//   DomainView[T]  — reads typed structs via accessor functions (zero-copy)
//   SubView        — filtered subset (indices into parent, zero-copy)
//   ConcatView     — virtual concatenation of two views (merged cubes)
// ============================================================================

// View provides indexed access to observations.
type View interface {
	Len() int
	At(index int) Observation
}

// SliceView wraps an []Observation slice as a View.
type SliceView []Observation

func (v SliceView) Len() int { return len(v) }

func (v SliceView) At(i int) Observation {
	if i < 0 || i >= len(v) {
		return nil
	}
	return v[i]
}

// Collect materializes a view.
func Collect(v View) []Observation {
	if s, ok := v.(SliceView); ok {
		return s
	}
	out := make([]Observation, v.Len())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent View.
type SubView struct {
	parent  View
	indices []int
}

func newSubView(parent View, indices []int) View {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) At(i int) Observation {
	if i < 0 || i >= len(v.indices) {
		return nil
	}
	return v.parent.At(v.indices[i])
}

// ============================================================================
// CONCAT VIEW — virtual concatenation of two views
// ============================================================================

// ConcatView logically concatenates two Views. Combo charts merge the
// observations of several cubes this way.
type ConcatView struct {
	a, b View
}

// Concat joins views without copying.
func Concat(views ...View) View {
	if len(views) == 0 {
		return SliceView(nil)
	}
	out := views[0]
	for _, v := range views[1:] {
		out = &ConcatView{a: out, b: v}
	}
	return out
}

func (v *ConcatView) Len() int { return v.a.Len() + v.b.Len() }

func (v *ConcatView) At(i int) Observation {
	if i < v.a.Len() {
		return v.a.At(i)
	}
	return v.b.At(i - v.a.Len())
}

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Sale]().
//	    Field("year", func(s Sale) any { return s.Year }).
//	    Field("revenue", func(s Sale) any { return s.Revenue })
//
//	view := adapter.Bind(sales)
//
// ============================================================================

// DomainAdapter builds a View from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	order  []string
	fields map[string]func(T) any
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{fields: make(map[string]func(T) any)}
}

// Field registers an accessor for a component id.
func (a *DomainAdapter[T]) Field(id string, fn func(T) any) *DomainAdapter[T] {
	if _, exists := a.fields[id]; !exists {
		a.order = append(a.order, id)
	}
	a.fields[id] = fn
	return a
}

// Bind creates a View from a data slice. Zero-copy — holds reference.
func (a *DomainAdapter[T]) Bind(data []T) View {
	return &DomainView[T]{data: data, order: a.order, fields: a.fields}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data   []T
	order  []string
	fields map[string]func(T) any
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) At(i int) Observation {
	if i < 0 || i >= len(v.data) {
		return nil
	}
	o := make(Observation, len(v.order))
	for _, id := range v.order {
		o[id] = v.fields[id](v.data[i])
	}
	return o
}
