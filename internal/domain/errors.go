package domain

import "errors"

var (
	// ErrEmptyQuery signals a blank search query.
	ErrEmptyQuery = errors.New("empty query")
	// ErrCatalogUnavailable signals a catalog store failure. This is an
	// infrastructure error, distinct from a search matching zero rows.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	// Fatal for the current search: ranking is meaningless without a query vector.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
