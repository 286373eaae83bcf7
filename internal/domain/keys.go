package domain

// Persisted key names. Each key maps to the JSON encoding of one
// collection or settings record.
const (
	KeyContactMessages   = "contactMessages"
	KeyStoreSettings     = "storeSettings"
	KeyFooterSettings    = "footerSettings"
	KeyAdminSettings     = "adminSettings"
	KeySectionNames      = "sectionNames"
	KeyContentSettings   = "contentSettings"
	KeyGalleryImages     = "galleryImages"
	KeyReviews           = "reviews"
	KeyProducts          = "products"
	KeyNotifications     = "notifications"
	KeyCategories        = "categories"
	KeyAdminTranslations = "adminTranslations"
	KeyQuizzes           = "quizzes"
	KeyQuizResults       = "quizResults"
	KeyLocale            = "locale"

	// KeyNotificationSources records every source id a notification was
	// ever derived from, so truncated notifications are not re-derived.
	KeyNotificationSources = "notificationSources"
	KeySchemaVersion       = "schemaVersion"
)

// SchemaVersion is the layout version written by this build.
const SchemaVersion = 1

// Keys lists every persisted key in load order.
var Keys = []string{
	KeyProducts,
	KeyCategories,
	KeyReviews,
	KeyGalleryImages,
	KeyContactMessages,
	KeyNotifications,
	KeyNotificationSources,
	KeyQuizzes,
	KeyQuizResults,
	KeyStoreSettings,
	KeyFooterSettings,
	KeyAdminSettings,
	KeySectionNames,
	KeyContentSettings,
	KeyAdminTranslations,
	KeyLocale,
}
