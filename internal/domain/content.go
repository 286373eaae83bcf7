package domain

// Review is a customer testimonial shown on the storefront.
type Review struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Rating int           `json:"rating"`
	Text   LocalizedText `json:"text"`
	Avatar string        `json:"avatar"`
}

// GalleryImage is a single gallery entry.
type GalleryImage struct {
	ID    string `json:"id"`
	Image string `json:"image"`
	Alt   string `json:"alt"`
}
