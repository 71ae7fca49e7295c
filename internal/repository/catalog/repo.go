package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/trova/internal/db"
	"github.com/kailas-cloud/trova/internal/domain"
	"github.com/kailas-cloud/trova/internal/domain/search/filter"
	"github.com/kailas-cloud/trova/internal/domain/search/tier"
)

// store is the consumer interface for catalog operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	TagVals(ctx context.Context, index, field string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements the catalog contracts of the search usecase and the
// resolver's vocabulary source.
type Repo struct {
	store  store
	params IndexParams
	logger *zap.Logger
}

// New creates a catalog repository.
func New(s store, params IndexParams, logger *zap.Logger) *Repo {
	return &Repo{store: s, params: params, logger: logger}
}

// EnsureIndex creates the product index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	name := IndexName(r.params.KeyPrefix)

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("probe index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	def, err := Definition(r.params)
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", name, err)
	}

	r.logger.Info("product index created",
		zap.String("index", name),
		zap.Int("vector_dim", r.params.VectorDim),
	)
	return nil
}

// SearchTier runs one cascade tier: a KNN query with the tier's filter
// combination, limit hits, ordered by vector distance. The category-match
// flag is computed here from the returned text fields; the colour tiers
// force it off per the cascade contract.
func (r *Repo) SearchTier(
	ctx context.Context, t tier.Tier,
	filters filter.Resolved, vector []float32, limit int,
) ([]domain.CatalogRow, error) {
	expr, err := tierExpression(t, filters)
	if err != nil {
		return nil, fmt.Errorf("build %s tier filter: %w", t, err)
	}

	q := &db.KNNQuery{
		IndexName:    IndexName(r.params.KeyPrefix),
		Filters:      expr,
		Vector:       vector,
		K:            limit,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		// Deadline errors pass through untouched so the cascade can tell a
		// slow tier from a broken store.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s tier: %w", domain.ErrCatalogUnavailable, t, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	withKeywordFlag := t == tier.Strict || t == tier.Category
	docPrefix := DocPrefix(r.params.KeyPrefix)

	rows := make([]domain.CatalogRow, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		match := false
		if withKeywordFlag {
			match = matchesKeywords(entry.Fields, filters.Keywords())
		}
		rows = append(rows, parseRow(entry, docPrefix, match))
	}
	return rows, nil
}

// DistinctColors returns the catalog's colour vocabulary: trimmed,
// lowercased, deduplicated.
func (r *Repo) DistinctColors(ctx context.Context) ([]string, error) {
	vals, err := r.store.TagVals(ctx, IndexName(r.params.KeyPrefix), fieldColour)
	if err != nil {
		return nil, fmt.Errorf("%w: distinct colours: %w", domain.ErrCatalogUnavailable, err)
	}

	seen := make(map[string]bool, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// tierExpression builds the FT pre-filter for one tier: price is always a
// must range, colours form a required OR group on the strict and colour
// tiers.
func tierExpression(t tier.Tier, f filter.Resolved) (filter.Expression, error) {
	var must, anyOf []filter.Condition

	if pr := f.Price(); pr != nil {
		cond, err := filter.NewRange(fieldPrice, *pr)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, cond)
	}

	if t == tier.Strict || t == tier.Color {
		colors := f.Colors()
		if len(colors) > filter.MaxConditionsPerGroup {
			colors = colors[:filter.MaxConditionsPerGroup]
		}
		for _, c := range colors {
			cond, err := filter.NewMatch(fieldColour, c)
			if err != nil {
				return filter.Expression{}, err
			}
			anyOf = append(anyOf, cond)
		}
	}

	return filter.NewExpression(must, anyOf)
}

// matchesKeywords reports whether any category keyword appears in the
// product name or description.
func matchesKeywords(fields map[string]string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	name := strings.ToLower(fields[fieldName])
	desc := strings.ToLower(fields[fieldDescription])
	for _, kw := range keywords {
		if strings.Contains(name, kw) || strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}
