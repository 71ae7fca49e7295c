package search

import "github.com/kailas-cloud/trova/internal/domain"

// Weights blend the retrieval signals into a final ranking score.
type Weights struct {
	Similarity float64
	Category   float64
	Popularity float64
}

// DefaultWeights is the blend used when no override is configured.
var DefaultWeights = Weights{Similarity: 0.60, Category: 0.30, Popularity: 0.10}

// IsZero reports whether no weights were set.
func (w Weights) IsZero() bool { return w == Weights{} }

// maxRatingCount is where the popularity sub-term saturates.
const maxRatingCount = 500.0

// Score computes the blended ranking score for one catalog row. Missing
// rating data contributes zero to the popularity term.
func (w Weights) Score(row domain.CatalogRow) float64 {
	catTerm := 0.0
	if row.CategoryMatch {
		catTerm = 1.0
	}

	ratingNorm := 0.0
	if row.Product.AvgRating != nil {
		ratingNorm = *row.Product.AvgRating / 5.0
	}
	popNorm := 0.0
	if row.Product.RatingCount != nil {
		popNorm = min(float64(*row.Product.RatingCount)/maxRatingCount, 1.0)
	}

	return w.Similarity*row.Similarity +
		w.Category*catTerm +
		w.Popularity*(0.6*ratingNorm+0.4*popNorm)
}
