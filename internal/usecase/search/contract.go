package search

import (
	"context"

	"github.com/kailas-cloud/trova/internal/domain"
	"github.com/kailas-cloud/trova/internal/domain/search/filter"
	"github.com/kailas-cloud/trova/internal/domain/search/tier"
)

// Catalog defines the storage contract for one cascade tier round-trip.
type Catalog interface {
	SearchTier(
		ctx context.Context, t tier.Tier,
		filters filter.Resolved, vector []float32, limit int,
	) ([]domain.CatalogRow, error)
}

// AttributeResolver maps raw intent attributes onto catalog vocabulary.
type AttributeResolver interface {
	ResolveColor(ctx context.Context, raw string) []string
	ResolveCategory(raw string) []string
}

// IntentExtractor reads structured shopping intent from a free-text query.
type IntentExtractor interface {
	Extract(ctx context.Context, query string) (domain.SearchIntent, error)
}

// QueryRewriter expands a terse query into richer retrieval text.
type QueryRewriter interface {
	Rewrite(ctx context.Context, query string) (string, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
