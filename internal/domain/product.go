package domain

// Product is a shop item. Images hold either references (URLs, paths) or
// inline data URIs.
type Product struct {
	ID          int64         `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	Price       float64       `json:"price"`
	Images      []string      `json:"images"`
	Colors      []string      `json:"colors"`
	Available   bool          `json:"available"`
	Category    string        `json:"category"` // category name or id
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	p.Images = cloneStrings(p.Images)
	p.Colors = cloneStrings(p.Colors)
	return p
}

// Category groups products.
type Category struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
}

// cloneStrings copies s, keeping an empty list non-nil.
func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
