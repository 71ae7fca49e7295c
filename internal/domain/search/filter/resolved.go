package filter

import "math"

// Resolved holds the per-search attribute constraints after vocabulary
// resolution: the catalog colour values to match, the category keywords used
// for textual matching, and the optional price range. Built fresh for every
// search call and never persisted.
type Resolved struct {
	colors   []string
	keywords []string
	price    *Range
}

// NewResolved creates a resolved filter set. A nil colors slice means no
// colour constraint was resolvable; an empty keywords slice means no category.
func NewResolved(colors, keywords []string, price *Range) Resolved {
	return Resolved{colors: colors, keywords: keywords, price: price}
}

// Colors returns the resolved catalog colour values (nil = unconstrained).
func (r Resolved) Colors() []string { return r.colors }

// Keywords returns the category keywords in priority order.
func (r Resolved) Keywords() []string { return r.keywords }

// Price returns the price range, or nil when unbounded.
func (r Resolved) Price() *Range { return r.price }

// HasColors reports whether a colour constraint exists.
func (r Resolved) HasColors() bool { return len(r.colors) > 0 }

// HasKeywords reports whether category keywords exist.
func (r Resolved) HasKeywords() bool { return len(r.keywords) > 0 }

// BuildPriceRange turns optional min/max price bounds into an inclusive
// range. Negative or non-finite bounds are treated as absent; nil is
// returned when no usable bound remains. It never fails: malformed input
// simply means "no constraint".
func BuildPriceRange(minPrice, maxPrice *float64) *Range {
	gte := usableBound(minPrice)
	lte := usableBound(maxPrice)
	if gte == nil && lte == nil {
		return nil
	}
	r, err := NewRangeFilter(gte, lte)
	if err != nil {
		return nil
	}
	return &r
}

func usableBound(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}
