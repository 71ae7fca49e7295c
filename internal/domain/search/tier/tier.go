// Package tier enumerates the retrieval cascade tiers, ordered from the
// strictest filter combination to the pure semantic fallback.
package tier

// Tier is one attempt in the retrieval cascade.
type Tier int

const (
	// Strict requires colour and price filters with category keywords as a
	// ranking flag. Only its results count as exact matches.
	Strict Tier = iota
	// Category drops the colour constraint and keeps category keywords.
	Category
	// Color keeps the colour constraint and drops category keywords.
	Color
	// Semantic applies only the price filter and ranks by vector distance.
	Semantic
)

// All lists the tiers in cascade order.
var All = []Tier{Strict, Category, Color, Semantic}

// String returns the tier name used in logs and metrics labels.
func (t Tier) String() string {
	switch t {
	case Strict:
		return "strict"
	case Category:
		return "category"
	case Color:
		return "color"
	case Semantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Notice returns the human-readable relaxation notice shown to the caller
// when this tier answered the search. Strict has none: nothing was relaxed.
func (t Tier) Notice() string {
	switch t {
	case Category:
		return "no exact color match — showing category matches"
	case Color:
		return "no category match — showing color matches"
	case Semantic:
		return "no exact matches — showing semantically similar items"
	default:
		return ""
	}
}

// Exact reports whether results from this tier satisfy all requested filters.
func (t Tier) Exact() bool { return t == Strict }
