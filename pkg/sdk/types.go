package sdk

// Product is a catalog record as returned by the API.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       *int     `json:"price,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	AvgRating   *float64 `json:"avg_rating,omitempty"`
	RatingCount *int     `json:"rating_count,omitempty"`
}

// SearchResultItem is one ranked hit.
type SearchResultItem struct {
	Product       Product `json:"product"`
	Similarity    float64 `json:"similarity"`
	CategoryMatch bool    `json:"category_match"`
	FinalScore    float64 `json:"final_score"`
}

// SearchResponse is the full answer to one search call. ExactMatch is false
// when the server fell back to a relaxed retrieval tier; RelaxationNotice
// then carries a human-readable explanation.
type SearchResponse struct {
	Items            []SearchResultItem `json:"items"`
	Total            int                `json:"total"`
	ExactMatch       bool               `json:"exact_match"`
	RelaxationNotice *string            `json:"relaxation_notice,omitempty"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok" or "degraded"
	Checks map[string]string `json:"checks"` // component -> "ok"/"error"
}
