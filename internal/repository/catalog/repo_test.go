package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/trova/internal/db"
	"github.com/kailas-cloud/trova/internal/domain"
	"github.com/kailas-cloud/trova/internal/domain/search/filter"
	"github.com/kailas-cloud/trova/internal/domain/search/tier"
)

func resolvedFixture(colors, keywords []string, maxPrice *float64) filter.Resolved {
	return filter.NewResolved(colors, keywords, filter.BuildPriceRange(nil, maxPrice))
}

func fPtr(f float64) *float64 { return &f }

func entry(key string, sim float64, fields map[string]string) db.SearchEntry {
	return db.SearchEntry{Key: key, Similarity: sim, Fields: fields}
}

// --- EnsureIndex ---

func TestEnsureIndex_AlreadyExists(t *testing.T) {
	ms := &mockStore{
		indexExistsFn: func(_ context.Context, name string) (bool, error) {
			if name != "trova:products:idx" {
				t.Errorf("unexpected index name %q", name)
			}
			return true, nil
		},
		createIndexFn: func(_ context.Context, _ *db.IndexDefinition) error {
			t.Fatal("create should not be called when the index exists")
			return nil
		},
	}
	repo := newTestRepo(t, ms)

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndex_Creates(t *testing.T) {
	var created *db.IndexDefinition
	ms := &mockStore{
		createIndexFn: func(_ context.Context, def *db.IndexDefinition) error {
			created = def
			return nil
		},
	}
	repo := newTestRepo(t, ms)

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected index creation")
	}
	if created.Name != "trova:products:idx" {
		t.Errorf("unexpected index name %q", created.Name)
	}
	if len(created.Prefixes) != 1 || created.Prefixes[0] != "trova:product:" {
		t.Errorf("unexpected prefixes %v", created.Prefixes)
	}
	hasVector := false
	for _, f := range created.Fields {
		if f.Type == db.IndexFieldVector {
			hasVector = true
			if f.VectorDistance != db.DistanceCosine {
				t.Errorf("expected cosine distance, got %s", f.VectorDistance)
			}
			if f.VectorDim != 4 {
				t.Errorf("expected dim 4, got %d", f.VectorDim)
			}
		}
	}
	if !hasVector {
		t.Error("expected a vector field in the schema")
	}
}

func TestEnsureIndex_RaceLosesGracefully(t *testing.T) {
	ms := &mockStore{
		createIndexFn: func(_ context.Context, _ *db.IndexDefinition) error {
			return db.ErrIndexExists
		},
	}
	repo := newTestRepo(t, ms)

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("losing the create race should not fail: %v", err)
	}
}

// --- SearchTier ---

func TestSearchTier_StrictFilters(t *testing.T) {
	var gotQuery *db.KNNQuery
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
			gotQuery = q
			return &db.SearchResult{}, nil
		},
	}
	repo := newTestRepo(t, ms)

	resolved := resolvedFixture([]string{"red", "maroon"}, []string{"saree"}, fPtr(3000))
	_, err := repo.SearchTier(context.Background(), tier.Strict, resolved, []float32{1, 2, 3, 4}, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery.K != 8 {
		t.Errorf("expected K=8, got %d", gotQuery.K)
	}
	if len(gotQuery.Filters.AnyOf()) != 2 {
		t.Errorf("expected 2 colour conditions, got %d", len(gotQuery.Filters.AnyOf()))
	}
	if len(gotQuery.Filters.Must()) != 1 || !gotQuery.Filters.Must()[0].IsRange() {
		t.Errorf("expected single price range in must, got %+v", gotQuery.Filters.Must())
	}
}

func TestSearchTier_CategoryDropsColour(t *testing.T) {
	var gotQuery *db.KNNQuery
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
			gotQuery = q
			return &db.SearchResult{}, nil
		},
	}
	repo := newTestRepo(t, ms)

	resolved := resolvedFixture([]string{"red"}, []string{"saree"}, nil)
	_, err := repo.SearchTier(context.Background(), tier.Category, resolved, []float32{1}, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotQuery.Filters.IsEmpty() {
		t.Errorf("category tier should carry no colour filter, got %+v", gotQuery.Filters)
	}
}

func TestSearchTier_CategoryMatchFlag(t *testing.T) {
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
			return &db.SearchResult{
				Total: 2,
				Entries: []db.SearchEntry{
					entry("trova:product:1", 0.9, map[string]string{
						fieldName: "Banarasi Silk Saree", fieldDescription: "Traditional",
					}),
					entry("trova:product:2", 0.8, map[string]string{
						fieldName: "Denim Jacket", fieldDescription: "Casual wear",
					}),
				},
			}, nil
		},
	}
	repo := newTestRepo(t, ms)

	resolved := resolvedFixture([]string{"red"}, []string{"saree", "sari"}, nil)
	rows, err := repo.SearchTier(context.Background(), tier.Strict, resolved, []float32{1}, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].CategoryMatch {
		t.Error("saree product should match category keywords")
	}
	if rows[1].CategoryMatch {
		t.Error("jacket product should not match category keywords")
	}
	if rows[0].Product.ID != "1" {
		t.Errorf("expected bare product ID, got %q", rows[0].Product.ID)
	}
}

func TestSearchTier_ColorTierForcesMatchOff(t *testing.T) {
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
			return &db.SearchResult{
				Total: 1,
				Entries: []db.SearchEntry{
					entry("trova:product:1", 0.9, map[string]string{
						fieldName: "Red Saree", fieldColour: "red",
					}),
				},
			}, nil
		},
	}
	repo := newTestRepo(t, ms)

	resolved := resolvedFixture([]string{"red"}, []string{"saree"}, nil)
	rows, err := repo.SearchTier(context.Background(), tier.Color, resolved, []float32{1}, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].CategoryMatch {
		t.Error("colour tier must not set the category-match flag")
	}
}

func TestSearchTier_RowParsing(t *testing.T) {
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
			return &db.SearchResult{
				Total: 1,
				Entries: []db.SearchEntry{
					entry("trova:product:42", 0.87, map[string]string{
						fieldName:        "Silk Saree",
						fieldDescription: "Handwoven",
						fieldPrice:       "2999",
						fieldColour:      "maroon",
						fieldBrand:       "Fabindia",
						fieldImageURL:    "https://cdn.example.com/42.jpg",
						fieldAvgRating:   "4.3",
						fieldRatingCount: "212",
					}),
				},
			}, nil
		},
	}
	repo := newTestRepo(t, ms)

	rows, err := repo.SearchTier(
		context.Background(), tier.Semantic,
		filter.NewResolved(nil, nil, nil), []float32{1}, 8,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := rows[0].Product
	if p.ID != "42" || p.Name != "Silk Saree" || p.Brand != "Fabindia" {
		t.Errorf("unexpected product: %+v", p)
	}
	if p.Price == nil || *p.Price != 2999 {
		t.Errorf("unexpected price: %v", p.Price)
	}
	if p.Color == nil || *p.Color != "maroon" {
		t.Errorf("unexpected colour: %v", p.Color)
	}
	if p.AvgRating == nil || *p.AvgRating != 4.3 {
		t.Errorf("unexpected rating: %v", p.AvgRating)
	}
	if p.RatingCount == nil || *p.RatingCount != 212 {
		t.Errorf("unexpected rating count: %v", p.RatingCount)
	}
	if rows[0].Similarity != 0.87 {
		t.Errorf("unexpected similarity: %f", rows[0].Similarity)
	}
}

func TestSearchTier_NullableFieldsStayNil(t *testing.T) {
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
			return &db.SearchResult{
				Total: 1,
				Entries: []db.SearchEntry{
					entry("trova:product:7", 0.5, map[string]string{
						fieldName:  "Plain Kurta",
						fieldPrice: "not-a-number",
					}),
				},
			}, nil
		},
	}
	repo := newTestRepo(t, ms)

	rows, err := repo.SearchTier(
		context.Background(), tier.Semantic,
		filter.NewResolved(nil, nil, nil), []float32{1}, 8,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := rows[0].Product
	if p.Price != nil || p.Color != nil || p.AvgRating != nil || p.RatingCount != nil || p.ImageURL != nil {
		t.Errorf("expected nil nullables, got %+v", p)
	}
}

func TestSearchTier_StoreErrorWrapped(t *testing.T) {
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
			return nil, errors.New("connection refused")
		},
	}
	repo := newTestRepo(t, ms)

	_, err := repo.SearchTier(
		context.Background(), tier.Semantic,
		filter.NewResolved(nil, nil, nil), []float32{1}, 8,
	)
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestSearchTier_DeadlinePassesThrough(t *testing.T) {
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
			return nil, context.DeadlineExceeded
		},
	}
	repo := newTestRepo(t, ms)

	_, err := repo.SearchTier(
		context.Background(), tier.Semantic,
		filter.NewResolved(nil, nil, nil), []float32{1}, 8,
	)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded untouched, got %v", err)
	}
	if errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Error("deadline errors must not be wrapped as catalog unavailability")
	}
}

// --- DistinctColors ---

func TestDistinctColors_Normalized(t *testing.T) {
	ms := &mockStore{
		tagValsFn: func(_ context.Context, index, field string) ([]string, error) {
			if field != fieldColour {
				t.Errorf("unexpected field %q", field)
			}
			return []string{" Maroon ", "maroon", "NAVY BLUE", "", "teal"}, nil
		},
	}
	repo := newTestRepo(t, ms)

	vals, err := repo.DistinctColors(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"maroon", "navy blue", "teal"}
	if len(vals) != len(want) {
		t.Fatalf("expected %v, got %v", want, vals)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("value %d: expected %q, got %q", i, want[i], vals[i])
		}
	}
}

func TestDistinctColors_StoreError(t *testing.T) {
	ms := &mockStore{
		tagValsFn: func(_ context.Context, _, _ string) ([]string, error) {
			return nil, errors.New("down")
		},
	}
	repo := newTestRepo(t, ms)

	_, err := repo.DistinctColors(context.Background())
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}
