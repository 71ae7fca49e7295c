package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to a trova API server over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures the Client.
type Option interface {
	apply(*Client)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Client) {
		c.apiKey = key
	})
}

// WithHTTPClient replaces the underlying HTTP client (custom transport,
// timeout, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) {
		c.http = hc
	})
}

// New creates a trova API client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

// SearchOption configures a single search call.
type SearchOption interface {
	apply(*searchRequest)
}

type searchOptionFunc func(*searchRequest)

func (f searchOptionFunc) apply(r *searchRequest) { f(r) }

// WithTopK sets the number of results to return. The server clamps the value
// to its configured bounds; 0 is a valid request for nothing.
func WithTopK(k int) SearchOption {
	return searchOptionFunc(func(r *searchRequest) {
		r.TopK = &k
	})
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Search runs a product search.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (SearchResponse, error) {
	reqBody := searchRequest{Query: query}
	for _, o := range opts {
		o.apply(&reqBody)
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/v1/search", bytes.NewReader(body),
	)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SearchResponse{}, c.parseError(resp)
	}

	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SearchResponse{}, fmt.Errorf("decode search response: %w", err)
	}
	return out, nil
}

// Health fetches the server health report. A degraded server answers with
// HTTP 503 but still returns the report; that is not an error here.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return HealthStatus{}, c.parseError(resp)
	}

	var out HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return HealthStatus{}, fmt.Errorf("decode health response: %w", err)
	}
	return out, nil
}

// parseError maps API error payloads to sentinel errors.
func (c *Client) parseError(resp *http.Response) error {
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	switch {
	case payload.Code == "empty_query":
		return fmt.Errorf("%s: %w", payload.Message, ErrEmptyQuery)
	case payload.Code == "embedding_provider_error":
		return fmt.Errorf("%s: %w", payload.Message, ErrEmbeddingProviderError)
	case payload.Code == "catalog_unavailable":
		return fmt.Errorf("%s: %w", payload.Message, ErrCatalogUnavailable)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", payload.Message, ErrUnauthorized)
	}

	if payload.Code == "" {
		payload.Code = "unknown"
		payload.Message = resp.Status
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       payload.Code,
		Message:    payload.Message,
	}
}
