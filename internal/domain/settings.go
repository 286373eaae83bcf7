package domain

// StoreSettings holds the shop identity and contact channels.
type StoreSettings struct {
	StoreName   LocalizedText `json:"storeName"`
	Tagline     LocalizedText `json:"tagline"`
	Logo        string        `json:"logo"`
	Phone       string        `json:"phone"`
	WhatsApp    string        `json:"whatsapp"`
	Email       string        `json:"email"`
	Address     LocalizedText `json:"address"`
	Instagram   string        `json:"instagram"`
	Facebook    string        `json:"facebook"`
	Currency    string        `json:"currency"`
	DeliveryFee float64       `json:"deliveryFee"`
}

type FooterLink struct {
	Label LocalizedText `json:"label"`
	URL   string        `json:"url"`
}

// FooterSettings drives the storefront footer.
type FooterSettings struct {
	About      LocalizedText `json:"about"`
	Copyright  LocalizedText `json:"copyright"`
	Links      []FooterLink  `json:"links"`
	ShowSocial bool          `json:"showSocial"`
}

// AdminSettings configures the admin panel itself.
type AdminSettings struct {
	SiteTitle            LocalizedText `json:"siteTitle"`
	Username             string        `json:"username"`
	ItemsPerPage         int           `json:"itemsPerPage"`
	Theme                string        `json:"theme"`
	NotificationsEnabled bool          `json:"notificationsEnabled"`
}

// SectionNames are the editable headings of each storefront and admin
// section.
type SectionNames struct {
	Products   LocalizedText `json:"products"`
	Categories LocalizedText `json:"categories"`
	Gallery    LocalizedText `json:"gallery"`
	Reviews    LocalizedText `json:"reviews"`
	Contact    LocalizedText `json:"contact"`
	Quiz       LocalizedText `json:"quiz"`
	Sermons    LocalizedText `json:"sermons"`
	Lessons    LocalizedText `json:"lessons"`
	Articles   LocalizedText `json:"articles"`
	Books      LocalizedText `json:"books"`
	Media      LocalizedText `json:"media"`
}

// ContentSettings holds home page copy and SEO metadata.
type ContentSettings struct {
	HeroTitle       LocalizedText `json:"heroTitle"`
	HeroSubtitle    LocalizedText `json:"heroSubtitle"`
	HeroImage       string        `json:"heroImage"`
	AboutText       LocalizedText `json:"aboutText"`
	ShowReviews     bool          `json:"showReviews"`
	ShowGallery     bool          `json:"showGallery"`
	ShowQuiz        bool          `json:"showQuiz"`
	MetaTitle       LocalizedText `json:"metaTitle"`
	MetaDescription LocalizedText `json:"metaDescription"`
	Keywords        []string      `json:"keywords"`
}

// AdminTranslations overrides admin panel labels, keyed by label id.
type AdminTranslations map[string]LocalizedText

// Clone returns an independent copy of t.
func (t AdminTranslations) Clone() AdminTranslations {
	out := make(AdminTranslations, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
