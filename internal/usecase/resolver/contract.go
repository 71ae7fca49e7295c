package resolver

import "context"

// VocabSource provides the catalog's distinct colour vocabulary.
type VocabSource interface {
	DistinctColors(ctx context.Context) ([]string, error)
}
