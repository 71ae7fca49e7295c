package sdk

import "errors"

// Sentinel errors mapped from API error codes. Use errors.Is() to check.
var (
	ErrEmptyQuery             = errors.New("empty search query")
	ErrUnauthorized           = errors.New("invalid or missing api key")
	ErrEmbeddingProviderError = errors.New("embedding provider unavailable")
	ErrCatalogUnavailable     = errors.New("catalog unavailable")
)

// APIError carries the raw error payload for unmapped server responses.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return "trova api error " + e.Code + ": " + e.Message
}
