package catalog

import "github.com/kailas-cloud/trova/internal/db"

// IndexParams describe the product index layout.
type IndexParams struct {
	KeyPrefix       string
	VectorDim       int
	HNSWM           int
	HNSWEFConstruct int
}

// IndexName returns the FT index name for the product catalog.
func IndexName(keyPrefix string) string { return keyPrefix + "products:idx" }

// DocPrefix returns the key prefix of product hash documents.
func DocPrefix(keyPrefix string) string { return keyPrefix + "product:" }

// Definition builds the product index schema: text fields for keyword
// matching, tags for exact colour/brand filters, numerics for ranges, and
// an HNSW cosine vector field for semantic retrieval.
func Definition(p IndexParams) (*db.IndexDefinition, error) {
	return db.NewIndex(IndexName(p.KeyPrefix)).
		Prefix(DocPrefix(p.KeyPrefix)).
		Text(fieldName).
		Text(fieldDescription).
		Tag(fieldColour).
		Tag(fieldBrand).
		Numeric(fieldPrice).
		Numeric(fieldAvgRating).
		Numeric(fieldRatingCount).
		VectorHNSW(fieldEmbedding, p.VectorDim, db.DistanceCosine, p.HNSWM, p.HNSWEFConstruct).
		Build()
}
