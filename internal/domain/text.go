package domain

// LocalizedText holds the English and Arabic variants of a display string.
type LocalizedText struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// Get returns the variant for the given locale, falling back to English
// when the Arabic text is empty.
func (t LocalizedText) Get(locale string) string {
	if locale == "ar" && t.Ar != "" {
		return t.Ar
	}
	if t.En == "" {
		return t.Ar
	}
	return t.En
}

// IsZero reports whether both variants are empty.
func (t LocalizedText) IsZero() bool {
	return t.En == "" && t.Ar == ""
}
