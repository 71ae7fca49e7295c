package catalog

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/trova/internal/db"
	"github.com/kailas-cloud/trova/internal/domain"
)

// Hash field names of a catalog product document.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldColour      = "colour"
	fieldBrand       = "brand"
	fieldImageURL    = "image_url"
	fieldAvgRating   = "avg_rating"
	fieldRatingCount = "rating_count"
	fieldEmbedding   = "embedding"
)

// returnFields lists everything a search round-trip loads per hit. The
// embedding itself is never returned.
var returnFields = []string{
	fieldName, fieldDescription, fieldPrice, fieldColour, fieldBrand,
	fieldImageURL, fieldAvgRating, fieldRatingCount,
	"__" + fieldEmbedding + "_score",
}

// parseRow maps one search hit onto a catalog row. Missing or malformed
// nullable columns stay nil rather than failing the whole result.
func parseRow(entry db.SearchEntry, docPrefix string, categoryMatch bool) domain.CatalogRow {
	f := entry.Fields
	p := domain.Product{
		ID:          strings.TrimPrefix(entry.Key, docPrefix),
		Name:        f[fieldName],
		Description: f[fieldDescription],
		Brand:       f[fieldBrand],
	}

	if v := f[fieldColour]; v != "" {
		c := v
		p.Color = &c
	}
	if v := f[fieldImageURL]; v != "" {
		u := v
		p.ImageURL = &u
	}
	if n, ok := parseInt(f[fieldPrice]); ok {
		p.Price = &n
	}
	if v := f[fieldAvgRating]; v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			p.AvgRating = &r
		}
	}
	if n, ok := parseInt(f[fieldRatingCount]); ok {
		p.RatingCount = &n
	}

	return domain.CatalogRow{
		Product:       p,
		Similarity:    entry.Similarity,
		CategoryMatch: categoryMatch,
	}
}

// parseInt accepts both integer and float-formatted hash values.
func parseInt(v string) (int, bool) {
	if v == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	if fv, err := strconv.ParseFloat(v, 64); err == nil {
		return int(fv), true
	}
	return 0, false
}
