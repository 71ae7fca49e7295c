package domain

// SearchIntent is the structured reading of a free-text shopping query,
// produced by an external extractor. Every field is optional; nil means the
// query expressed no such constraint. The core never assumes presence.
type SearchIntent struct {
	Color    *string
	Category *string
	MinPrice *float64
	MaxPrice *float64
	Gender   *string
}

// IsEmpty reports whether the intent carries no constraints at all.
func (i SearchIntent) IsEmpty() bool {
	return i.Color == nil && i.Category == nil &&
		i.MinPrice == nil && i.MaxPrice == nil && i.Gender == nil
}
