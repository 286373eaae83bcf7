package store

import (
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/i18n"
)

func (s *Store) StoreSettings() domain.StoreSettings {
	var out domain.StoreSettings
	s.read(func() { out = deepCopy(s.storeSettings) })
	return out
}

func (s *Store) FooterSettings() domain.FooterSettings {
	var out domain.FooterSettings
	s.read(func() { out = deepCopy(s.footerSettings) })
	return out
}

func (s *Store) AdminSettings() domain.AdminSettings {
	var out domain.AdminSettings
	s.read(func() { out = deepCopy(s.adminSettings) })
	return out
}

func (s *Store) SectionNames() domain.SectionNames {
	var out domain.SectionNames
	s.read(func() { out = deepCopy(s.sectionNames) })
	return out
}

func (s *Store) ContentSettings() domain.ContentSettings {
	var out domain.ContentSettings
	s.read(func() { out = deepCopy(s.contentSettings) })
	return out
}

func (s *Store) AdminTranslations() domain.AdminTranslations {
	var out domain.AdminTranslations
	s.read(func() { out = s.adminTranslations.Clone() })
	return out
}

// updateSettings shallow-merges patch into *current and persists the
// result. A patch that does not decode leaves the record unchanged.
func updateSettings[T any](s *Store, key string, current *T, patch Patch) T {
	var out T
	s.write(func(tx *txn) {
		merged, err := mergePatch(*current, patch)
		if err != nil {
			zap.L().Warn("rejecting settings patch", zap.String("key", key), zap.Error(err))
			out = deepCopy(*current)
			return
		}
		*current = merged
		tx.save(key, merged)
		out = deepCopy(merged)
	})
	return out
}

func (s *Store) UpdateStoreSettings(patch Patch) domain.StoreSettings {
	return updateSettings(s, domain.KeyStoreSettings, &s.storeSettings, patch)
}

func (s *Store) UpdateFooterSettings(patch Patch) domain.FooterSettings {
	return updateSettings(s, domain.KeyFooterSettings, &s.footerSettings, patch)
}

func (s *Store) UpdateAdminSettings(patch Patch) domain.AdminSettings {
	return updateSettings(s, domain.KeyAdminSettings, &s.adminSettings, patch)
}

func (s *Store) UpdateSectionNames(patch Patch) domain.SectionNames {
	return updateSettings(s, domain.KeySectionNames, &s.sectionNames, patch)
}

func (s *Store) UpdateContentSettings(patch Patch) domain.ContentSettings {
	return updateSettings(s, domain.KeyContentSettings, &s.contentSettings, patch)
}

// UpdateAdminTranslations overlays label overrides. Labels absent from
// the patch keep their current text.
func (s *Store) UpdateAdminTranslations(patch map[string]domain.LocalizedText) domain.AdminTranslations {
	var out domain.AdminTranslations
	s.write(func(tx *txn) {
		next := s.adminTranslations.Clone()
		for k, v := range patch {
			next[k] = v
		}
		s.adminTranslations = next
		tx.save(domain.KeyAdminTranslations, next)
		out = next.Clone()
	})
	return out
}

// Locale returns the current display locale.
func (s *Store) Locale() string {
	var out string
	s.read(func() { out = s.locale })
	return out
}

// SetLocale switches the display locale to the closest supported one and
// returns it.
func (s *Store) SetLocale(locale string) string {
	matched := i18n.Match(locale)
	s.write(func(tx *txn) {
		s.locale = matched
		tx.save(domain.KeyLocale, matched)
	})
	return matched
}

// IsRTL reports whether the current locale is written right to left.
func (s *Store) IsRTL() bool {
	return i18n.IsRTL(s.Locale())
}
