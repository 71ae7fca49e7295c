package domain

import (
	"regexp"
	"strings"
)

// Product is a catalog record. Nullable catalog columns map to pointer
// fields; a record without an embedding is never returned by the cascade.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       *int
	Color       *string
	Brand       string
	ImageURL    *string
	AvgRating   *float64
	RatingCount *int
}

// CatalogRow is a product hit from one cascade tier: the product plus the
// per-row retrieval signals the scorer consumes.
type CatalogRow struct {
	Product       Product
	Similarity    float64 // 1 - cosine distance, in [-1, 1]
	CategoryMatch bool
}

// ScoredResult is a ranked search hit returned to the caller. ExactMatch and
// RelaxationNotice are cascade-level facts: identical across one result set.
type ScoredResult struct {
	Product          Product
	Similarity       float64
	CategoryMatch    bool
	FinalScore       float64
	ExactMatch       bool
	RelaxationNotice string // empty when the strict tier answered
}

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// DefaultDescriptionLen is the display truncation limit for descriptions.
const DefaultDescriptionLen = 300

// CleanDescription strips markup from catalog description text, collapses
// whitespace, and truncates to maxLen on a word boundary for display.
// maxLen <= 0 uses DefaultDescriptionLen.
func CleanDescription(text string, maxLen int) string {
	if text == "" {
		return ""
	}
	if maxLen <= 0 {
		maxLen = DefaultDescriptionLen
	}

	text = htmlTagRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	if len(text) > maxLen {
		cut := text[:maxLen]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		text = cut + "..."
	}

	return text
}
