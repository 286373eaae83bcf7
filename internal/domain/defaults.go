package domain

// DefaultLocale is used until a locale preference is persisted.
const DefaultLocale = "ar"

// DefaultProducts returns the catalog shown before anything is persisted.
func DefaultProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        LocalizedText{En: "Red Rose Bouquet", Ar: "باقة ورد أحمر"},
			Description: LocalizedText{En: "Twelve fresh red roses", Ar: "اثنتا عشرة وردة حمراء طازجة"},
			Price:       45,
			Images:      []string{"/images/products/red-roses.jpg"},
			Colors:      []string{"red"},
			Available:   true,
			Category:    "bouquets",
		},
		{
			ID:          2,
			Name:        LocalizedText{En: "White Lily Arrangement", Ar: "تنسيق زنبق أبيض"},
			Description: LocalizedText{En: "Lilies in a glass vase", Ar: "زنابق في مزهرية زجاجية"},
			Price:       60,
			Images:      []string{"/images/products/white-lilies.jpg"},
			Colors:      []string{"white"},
			Available:   true,
			Category:    "arrangements",
		},
		{
			ID:          3,
			Name:        LocalizedText{En: "Tulip Basket", Ar: "سلة توليب"},
			Description: LocalizedText{En: "Mixed tulips in a wicker basket", Ar: "توليب مشكل في سلة"},
			Price:       55,
			Images:      []string{"/images/products/tulips.jpg"},
			Colors:      []string{"pink", "yellow", "purple"},
			Available:   true,
			Category:    "baskets",
		},
	}
}

func DefaultCategories() []Category {
	return []Category{
		{ID: "bouquets", Name: LocalizedText{En: "Bouquets", Ar: "باقات"}},
		{ID: "arrangements", Name: LocalizedText{En: "Arrangements", Ar: "تنسيقات"}},
		{ID: "baskets", Name: LocalizedText{En: "Baskets", Ar: "سلال"}},
	}
}

func DefaultReviews() []Review {
	return []Review{
		{
			ID:     "review-1",
			Name:   "Fatima",
			Rating: 5,
			Text:   LocalizedText{En: "Beautiful flowers and fast delivery.", Ar: "زهور جميلة وتوصيل سريع."},
			Avatar: "/images/avatars/default.png",
		},
	}
}

func DefaultGalleryImages() []GalleryImage {
	return []GalleryImage{
		{ID: "gallery-1", Image: "/images/gallery/shop-front.jpg", Alt: "Shop front"},
		{ID: "gallery-2", Image: "/images/gallery/wedding.jpg", Alt: "Wedding arrangement"},
	}
}

func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		StoreName: LocalizedText{En: "Bloom", Ar: "بلوم"},
		Tagline:   LocalizedText{En: "Fresh flowers every day", Ar: "زهور طازجة كل يوم"},
		Logo:      "/images/logo.svg",
		Phone:     "+000000000",
		Email:     "hello@example.com",
		Currency:  "USD",
	}
}

func DefaultFooterSettings() FooterSettings {
	return FooterSettings{
		About:      LocalizedText{En: "A family flower shop.", Ar: "متجر زهور عائلي."},
		Copyright:  LocalizedText{En: "All rights reserved.", Ar: "جميع الحقوق محفوظة."},
		Links:      []FooterLink{},
		ShowSocial: true,
	}
}

func DefaultAdminSettings() AdminSettings {
	return AdminSettings{
		SiteTitle:            LocalizedText{En: "Admin Panel", Ar: "لوحة التحكم"},
		Username:             "admin",
		ItemsPerPage:         20,
		Theme:                "light",
		NotificationsEnabled: true,
	}
}

func DefaultSectionNames() SectionNames {
	return SectionNames{
		Products:   LocalizedText{En: "Products", Ar: "المنتجات"},
		Categories: LocalizedText{En: "Categories", Ar: "الفئات"},
		Gallery:    LocalizedText{En: "Gallery", Ar: "المعرض"},
		Reviews:    LocalizedText{En: "Reviews", Ar: "آراء العملاء"},
		Contact:    LocalizedText{En: "Contact", Ar: "اتصل بنا"},
		Quiz:       LocalizedText{En: "Quiz", Ar: "المسابقة"},
		Sermons:    LocalizedText{En: "Sermons", Ar: "الخطب"},
		Lessons:    LocalizedText{En: "Lessons", Ar: "الدروس"},
		Articles:   LocalizedText{En: "Articles", Ar: "المقالات"},
		Books:      LocalizedText{En: "Books", Ar: "الكتب"},
		Media:      LocalizedText{En: "Media", Ar: "الوسائط"},
	}
}

func DefaultContentSettings() ContentSettings {
	return ContentSettings{
		HeroTitle:    LocalizedText{En: "Flowers for every moment", Ar: "زهور لكل لحظة"},
		HeroSubtitle: LocalizedText{En: "Hand made arrangements", Ar: "تنسيقات يدوية"},
		HeroImage:    "/images/hero.jpg",
		ShowReviews:  true,
		ShowGallery:  true,
		ShowQuiz:     true,
		Keywords:     []string{"flowers", "bouquets"},
	}
}

func DefaultAdminTranslations() AdminTranslations {
	return AdminTranslations{
		"dashboard":     {En: "Dashboard", Ar: "الرئيسية"},
		"notifications": {En: "Notifications", Ar: "الإشعارات"},
		"messages":      {En: "Messages", Ar: "الرسائل"},
		"settings":      {En: "Settings", Ar: "الإعدادات"},
	}
}
