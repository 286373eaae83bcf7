// Package i18n provides the translation dictionaries used for derived
// text and locale helpers.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// Dictionary maps message keys to format strings.
type Dictionary map[string]string

// T formats the message for key. Unknown keys render as the key itself.
func (d Dictionary) T(key string, args ...interface{}) string {
	format, ok := d[key]
	if !ok {
		format = key
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

var supported = []language.Tag{
	language.English, // fallback
	language.Arabic,
}

var matcher = language.NewMatcher(supported)

var dictionaries = map[string]Dictionary{
	"en": {
		"notification.newMessage": "New message from %s",
		"notification.quizResult": "New quiz result: %d/%d",
		"message.status.new":      "New",
		"message.status.read":     "Read",
		"message.status.replied":  "Replied",
	},
	"ar": {
		"notification.newMessage": "رسالة جديدة من %s",
		"notification.quizResult": "نتيجة مسابقة جديدة: %d/%d",
		"message.status.new":      "جديدة",
		"message.status.read":     "مقروءة",
		"message.status.replied":  "تم الرد",
	},
}

// Match returns the supported locale closest to locale, which may be a
// BCP 47 tag or an Accept-Language header value.
func Match(locale string) string {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return "en"
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// Translations returns the dictionary for locale.
func Translations(locale string) Dictionary {
	return dictionaries[Match(locale)]
}

var rtlScripts = map[string]bool{
	"Arab": true,
	"Hebr": true,
	"Thaa": true,
	"Syrc": true,
	"Nkoo": true,
}

// IsRTL reports whether locale is written right to left.
func IsRTL(locale string) bool {
	tag, err := language.Parse(locale)
	if err != nil {
		return false
	}
	script, _ := tag.Script()
	return rtlScripts[script.String()]
}
