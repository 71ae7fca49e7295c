package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/trova/internal/domain"
	"github.com/kailas-cloud/trova/internal/domain/search/filter"
	"github.com/kailas-cloud/trova/internal/domain/search/tier"
	"github.com/kailas-cloud/trova/internal/metrics"
)

// Params bound a single search call.
type Params struct {
	MinTopK     int
	MaxTopK     int
	TierTimeout time.Duration
	Weights     Weights
}

// Service runs the full product search pipeline: intent extraction, query
// encoding, the retrieval cascade, and scoring. Read-only and idempotent.
type Service struct {
	catalog  Catalog
	attrs    AttributeResolver
	intents  IntentExtractor
	rewriter QueryRewriter
	embed    Embedder
	logger   *zap.Logger
	params   Params
}

// New creates a search service. Zero params fall back to sane bounds.
func New(
	catalog Catalog, attrs AttributeResolver,
	intents IntentExtractor, rewriter QueryRewriter,
	embed Embedder, logger *zap.Logger, params Params,
) *Service {
	if params.MinTopK <= 0 {
		params.MinTopK = 3
	}
	if params.MaxTopK <= 0 {
		params.MaxTopK = 15
	}
	if params.TierTimeout <= 0 {
		params.TierTimeout = 3 * time.Second
	}
	if params.Weights.IsZero() {
		params.Weights = DefaultWeights
	}
	return &Service{
		catalog:  catalog,
		attrs:    attrs,
		intents:  intents,
		rewriter: rewriter,
		embed:    embed,
		logger:   logger,
		params:   params,
	}
}

// Search runs a product search for the query and returns up to topK ranked
// results. topK <= 0 is a valid request for nothing; zero results is never
// an error.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]domain.ScoredResult, error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if topK <= 0 {
		return []domain.ScoredResult{}, nil
	}
	topK = s.clampTopK(topK)

	intent := s.extractIntent(ctx, query)

	vector, err := s.encodeQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	resolved := s.resolveFilters(ctx, intent)

	rows, answered, attempted, err := s.runCascade(ctx, resolved, vector, topK)
	metrics.CascadeTiersAttempted.Observe(float64(attempted))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		return []domain.ScoredResult{}, nil
	}
	metrics.SearchesTotal.WithLabelValues(answered.String()).Inc()

	return s.score(rows, answered), nil
}

func (s *Service) clampTopK(topK int) int {
	if topK < s.params.MinTopK {
		return s.params.MinTopK
	}
	if topK > s.params.MaxTopK {
		return s.params.MaxTopK
	}
	return topK
}

// extractIntent reads structured intent from the query. Extraction failure
// degrades to an unconstrained intent: the semantic tier still answers.
func (s *Service) extractIntent(ctx context.Context, query string) domain.SearchIntent {
	intent, err := s.intents.Extract(ctx, query)
	if err != nil {
		s.logger.Warn("intent extraction failed, searching unconstrained", zap.Error(err))
		return domain.SearchIntent{}
	}
	return intent
}

// encodeQuery embeds the raw query concatenated with its best-effort rewrite.
func (s *Service) encodeQuery(ctx context.Context, query string) ([]float32, error) {
	rewritten, err := s.rewriter.Rewrite(ctx, query)
	if err != nil || strings.TrimSpace(rewritten) == "" {
		if err != nil {
			s.logger.Debug("query rewrite failed, using raw query", zap.Error(err))
		}
		rewritten = query
	}

	result, err := s.embed.Embed(ctx, query+". "+rewritten)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	return result.Embedding, nil
}

func (s *Service) resolveFilters(ctx context.Context, intent domain.SearchIntent) filter.Resolved {
	var colors, keywords []string
	if intent.Color != nil {
		colors = s.attrs.ResolveColor(ctx, *intent.Color)
	}
	if intent.Category != nil {
		keywords = s.attrs.ResolveCategory(*intent.Category)
	}
	price := filter.BuildPriceRange(intent.MinPrice, intent.MaxPrice)
	return filter.NewResolved(colors, keywords, price)
}

// runCascade walks the tiers in order and stops at the first non-empty one.
// A tier that times out counts as empty; genuine store errors propagate.
func (s *Service) runCascade(
	ctx context.Context, resolved filter.Resolved, vector []float32, topK int,
) ([]domain.CatalogRow, tier.Tier, int, error) {
	attempted := 0
	for _, t := range tier.All {
		if !tierApplies(t, resolved) {
			continue
		}
		attempted++

		rows, err := s.searchTier(ctx, t, resolved, vector, topK)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				metrics.CascadeTierTimeouts.WithLabelValues(t.String()).Inc()
				s.logger.Warn("cascade tier timed out",
					zap.String("tier", t.String()),
					zap.Duration("timeout", s.params.TierTimeout),
				)
				continue
			}
			return nil, t, attempted, err
		}
		if len(rows) > 0 {
			return rows, t, attempted, nil
		}
	}
	return nil, tier.Semantic, attempted, nil
}

func tierApplies(t tier.Tier, resolved filter.Resolved) bool {
	switch t {
	case tier.Strict:
		return resolved.HasColors() && resolved.HasKeywords()
	case tier.Category:
		return resolved.HasKeywords()
	case tier.Color:
		return resolved.HasColors()
	default:
		return true
	}
}

func (s *Service) searchTier(
	ctx context.Context, t tier.Tier,
	resolved filter.Resolved, vector []float32, topK int,
) ([]domain.CatalogRow, error) {
	tierCtx, cancel := context.WithTimeout(ctx, s.params.TierTimeout)
	defer cancel()
	return s.catalog.SearchTier(tierCtx, t, resolved, vector, topK)
}

// score blends the retrieval signals, sanitizes descriptions for display,
// and orders the rows by final score. The sort is stable: ties keep their
// vector-distance order from the store.
func (s *Service) score(rows []domain.CatalogRow, answered tier.Tier) []domain.ScoredResult {
	notice := answered.Notice()
	out := make([]domain.ScoredResult, len(rows))
	for i, row := range rows {
		product := row.Product
		product.Description = domain.CleanDescription(product.Description, 0)
		out[i] = domain.ScoredResult{
			Product:          product,
			Similarity:       row.Similarity,
			CategoryMatch:    row.CategoryMatch,
			FinalScore:       s.params.Weights.Score(row),
			ExactMatch:       answered.Exact(),
			RelaxationNotice: notice,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScore > out[j].FinalScore
	})
	return out
}
