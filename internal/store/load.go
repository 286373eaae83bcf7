package store

import (
	"context"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/i18n"
)

// Load overlays persisted state onto the defaults and marks the store
// mounted. A key that cannot be read or decoded keeps its default; no
// key blocks another. Load only fails when ctx is done before it starts.
func (s *Store) Load(ctx context.Context) error {
	s.checkOpen()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if version, ok := s.persistedSchemaVersion(); ok && version > domain.SchemaVersion {
		zap.L().Warn("persisted data has a newer schema, using defaults without persisting",
			zap.Int("persisted", version),
			zap.Int("supported", domain.SchemaVersion))
		s.readOnly.Store(true)
		s.mounted.Store(true)
		return nil
	}

	loaded := 0
	for _, key := range domain.Keys {
		raw, ok, err := s.backend.Get(key)
		if err != nil {
			zap.L().Warn("read persisted key failed", zap.String("key", key), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		if err := s.decodeKey(key, raw); err != nil {
			zap.L().Warn("discarding malformed persisted value", zap.String("key", key), zap.Error(err))
			continue
		}
		loaded++
	}
	s.normalizeActiveQuiz()
	for _, n := range s.notifications {
		if n.SourceID != "" {
			s.notifiedSources[n.SourceID] = struct{}{}
		}
	}

	if err := s.backend.Set(domain.KeySchemaVersion, cast.ToString(domain.SchemaVersion)); err != nil {
		zap.L().Warn("write schema version failed", zap.Error(err))
	}
	s.mounted.Store(true)
	zap.L().Info("store mounted", zap.Int("keys_loaded", loaded))
	return nil
}

func (s *Store) persistedSchemaVersion() (int, bool) {
	raw, ok, err := s.backend.Get(domain.KeySchemaVersion)
	if err != nil || !ok {
		return 0, false
	}
	v, err := cast.ToIntE(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *Store) decodeKey(key, raw string) error {
	switch key {
	case domain.KeyProducts:
		return replaceFrom(raw, &s.products)
	case domain.KeyCategories:
		return replaceFrom(raw, &s.categories)
	case domain.KeyReviews:
		return replaceFrom(raw, &s.reviews)
	case domain.KeyGalleryImages:
		return replaceFrom(raw, &s.galleryImages)
	case domain.KeyContactMessages:
		return replaceFrom(raw, &s.contactMessages)
	case domain.KeyNotifications:
		return replaceFrom(raw, &s.notifications)
	case domain.KeyQuizzes:
		return replaceFrom(raw, &s.quizzes)
	case domain.KeyQuizResults:
		return replaceFrom(raw, &s.quizResults)
	case domain.KeyNotificationSources:
		var ids []string
		if err := json.UnmarshalFromString(raw, &ids); err != nil {
			return err
		}
		for _, id := range ids {
			s.notifiedSources[id] = struct{}{}
		}
		return nil
	case domain.KeyStoreSettings:
		return mergeFrom(raw, &s.storeSettings)
	case domain.KeyFooterSettings:
		return mergeFrom(raw, &s.footerSettings)
	case domain.KeyAdminSettings:
		return mergeFrom(raw, &s.adminSettings)
	case domain.KeySectionNames:
		return mergeFrom(raw, &s.sectionNames)
	case domain.KeyContentSettings:
		return mergeFrom(raw, &s.contentSettings)
	case domain.KeyAdminTranslations:
		return mergeFrom(raw, &s.adminTranslations)
	case domain.KeyLocale:
		var locale string
		if err := json.UnmarshalFromString(raw, &locale); err != nil {
			// older writers stored the bare tag
			locale = strings.TrimSpace(raw)
		}
		if locale != "" {
			s.locale = i18n.Match(locale)
		}
		return nil
	}
	return nil
}

// replaceFrom decodes raw into a fresh value and swaps it in only on
// success, so a bad value leaves the default in place.
func replaceFrom[T any](raw string, dst *[]T) error {
	var v []T
	if err := json.UnmarshalFromString(raw, &v); err != nil {
		return err
	}
	if v == nil {
		v = []T{}
	}
	*dst = v
	return nil
}

// mergeFrom shallow-merges a persisted settings object onto its default.
func mergeFrom[T any](raw string, dst *T) error {
	var fields map[string]jsoniter.RawMessage
	if err := json.UnmarshalFromString(raw, &fields); err != nil {
		return err
	}
	merged, err := mergeRaw(*dst, fields)
	if err != nil {
		return err
	}
	*dst = merged
	return nil
}

// normalizeActiveQuiz picks the first active quiz as the current one and
// clears the flag on any other, repairing data that breaks the single
// active quiz rule.
func (s *Store) normalizeActiveQuiz() {
	s.activeQuizID = ""
	for i := range s.quizzes {
		if !s.quizzes[i].IsActive {
			continue
		}
		if s.activeQuizID == "" {
			s.activeQuizID = s.quizzes[i].ID
			continue
		}
		s.quizzes[i].IsActive = false
	}
}
