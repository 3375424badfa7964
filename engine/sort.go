package engine

import (
	"sort"
	"strings"

	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/schema"
)

// ============================================================================
// DOMAIN ORDERING
// ============================================================================
// Category domain chain: explicit position → first-seen in data →
// lexicographic. Temporal keys without a position sort chronologically
// ahead of the first-seen step.
// Segment chain: explicit sorting config → position → metadata order →
// lexicographic. Segments never depend on data order, so colours indexed
// by segment position stay stable when observations are reordered.
// ============================================================================

// DistinctKeys returns the distinct non-null keys of get over obs, in
// first-seen order, plus the first-seen index of each key.
func DistinctKeys(obs []Observation, get DimensionGetter) ([]string, map[string]int) {
	seen := make(map[string]int)
	var keys []string
	for _, o := range obs {
		k, ok := get(o)
		if !ok {
			continue
		}
		if _, dup := seen[k]; !dup {
			seen[k] = len(keys)
			keys = append(keys, k)
		}
	}
	return keys, seen
}

func positionOf(dim *schema.Dimension, key string) (int, bool) {
	if dim == nil {
		return 0, false
	}
	if v, ok := dim.ValueByKey(key); ok && v.Position != nil {
		return *v.Position, true
	}
	return 0, false
}

// SortDomain orders category keys in place. firstSeen may be nil.
// Explicit positions always win; keys of a temporal dimension without a
// position then sort chronologically, unparseable dates after them.
func SortDomain(keys []string, dim *schema.Dimension, firstSeen map[string]int) {
	var times map[string]int64
	if dim != nil && schema.IsTemporal(*dim) {
		times = make(map[string]int64, len(keys))
		for _, k := range keys {
			if t, ok := schema.ParseTime(*dim, k); ok {
				times[k] = t.UnixNano()
			}
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		pa, okA := positionOf(dim, a)
		pb, okB := positionOf(dim, b)
		switch {
		case okA && okB && pa != pb:
			return pa < pb
		case okA != okB:
			return okA
		}
		if times != nil {
			ta, okA := times[a]
			tb, okB := times[b]
			switch {
			case okA && okB && ta != tb:
				return ta < tb
			case okA != okB:
				return okA
			}
		}
		fa, okA := firstSeen[a]
		fb, okB := firstSeen[b]
		switch {
		case okA && okB && fa != fb:
			return fa < fb
		case okA != okB:
			return okA
		}
		return a < b
	})
}

// SortSegments orders segment keys in place. totals feeds byMeasure and
// byTotalSize sorting and may be nil otherwise.
func SortSegments(keys []string, dim *schema.Dimension, sorting *config.Sorting, totals map[string]float64) {
	metaIndex := make(map[string]int)
	if dim != nil {
		for i, v := range dim.Values {
			metaIndex[v.Value] = i
		}
	}
	byDefault := func(a, b string) bool {
		pa, okA := positionOf(dim, a)
		pb, okB := positionOf(dim, b)
		switch {
		case okA && okB && pa != pb:
			return pa < pb
		case okA != okB:
			return okA
		}
		ma, okA := metaIndex[a]
		mb, okB := metaIndex[b]
		switch {
		case okA && okB && ma != mb:
			return ma < mb
		case okA != okB:
			return okA
		}
		return a < b
	}

	less := byDefault
	desc := false
	if sorting != nil {
		desc = sorting.Order == config.Desc
		switch sorting.By {
		case config.SortByDimensionLabel:
			less = func(a, b string) bool {
				la, lb := labelOf(dim, a), labelOf(dim, b)
				if la != lb {
					return strings.ToLower(la) < strings.ToLower(lb)
				}
				return a < b
			}
		case config.SortByMeasure, config.SortByTotalSize:
			less = func(a, b string) bool {
				if totals[a] != totals[b] {
					return totals[a] < totals[b]
				}
				return byDefault(a, b)
			}
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if desc {
			return less(keys[j], keys[i])
		}
		return less(keys[i], keys[j])
	})
}

func labelOf(dim *schema.Dimension, key string) string {
	if dim == nil {
		return key
	}
	return dim.LabelFor(key)
}
