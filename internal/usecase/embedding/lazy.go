package embedding

import (
	"context"
	"sync"

	"github.com/kailas-cloud/trova/internal/domain"
)

// LazyEmbedder defers construction of the inner embedder to the first Embed
// call. Concurrent first calls construct exactly one instance; a factory
// error is sticky and returned to every caller.
type LazyEmbedder struct {
	factory func() (domain.Embedder, error)

	once  sync.Once
	inner domain.Embedder
	err   error
}

// NewLazyEmbedder wraps an embedder factory with single-init semantics.
func NewLazyEmbedder(factory func() (domain.Embedder, error)) *LazyEmbedder {
	return &LazyEmbedder{factory: factory}
}

// Embed initializes the inner embedder on first use and delegates to it.
func (l *LazyEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := l.init(); err != nil {
		return domain.EmbeddingResult{}, err
	}
	return l.inner.Embed(ctx, text)
}

// HealthCheck initializes the inner embedder and delegates when it supports
// health checks. An embedder without one is reported healthy.
func (l *LazyEmbedder) HealthCheck(ctx context.Context) error {
	if err := l.init(); err != nil {
		return err
	}
	if hc, ok := l.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (l *LazyEmbedder) init() error {
	l.once.Do(func() {
		l.inner, l.err = l.factory()
	})
	return l.err
}
