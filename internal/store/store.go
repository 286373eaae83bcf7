// Package store holds every storefront collection and settings record in
// memory, keeps them synchronized with a kvstore backend and derives
// notifications from contact messages and quiz results.
//
// Lifecycle: New seeds compiled-in defaults, Load overlays persisted
// values, and Close releases the store. Reads before Load return the
// defaults; any use after Close panics.
//
// Every mutation runs as one commit under the store lock: it derives the
// new value from the latest committed snapshot, persists it and publishes
// it. Persistence failures never surface as errors; they are logged and
// published on TopicPersistFailed.
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/kvstore"
	"github.com/talkincode/storefront/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultMaxNotifications = 50

// ImageCompressor recompresses inline images. It must never fail; images
// it cannot handle are returned unchanged.
type ImageCompressor interface {
	CompressAll(ctx context.Context, images []string) []string
}

type passThrough struct{}

func (passThrough) CompressAll(_ context.Context, images []string) []string {
	return append([]string(nil), images...)
}

// IDGenerator issues string entity ids. Ids must be unique regardless of
// call timing.
type IDGenerator interface {
	NextID() string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

func (f IDFunc) NextID() string { return f() }

type Option func(*Store)

// WithMaxNotifications bounds the retained notification list.
func WithMaxNotifications(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxNotifications = n
		}
	}
}

func WithCompressor(c ImageCompressor) Option {
	return func(s *Store) {
		if c != nil {
			s.compressor = c
		}
	}
}

func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithBus publishes store events on an existing bus.
func WithBus(bus EventBus.Bus) Option {
	return func(s *Store) {
		if bus != nil {
			s.bus = bus
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

type Store struct {
	mu sync.RWMutex

	backend          kvstore.Backend
	bus              EventBus.Bus
	compressor       ImageCompressor
	ids              IDGenerator
	now              func() time.Time
	maxNotifications int

	mounted  atomic.Bool
	closed   atomic.Bool
	readOnly atomic.Bool

	products        []domain.Product
	categories      []domain.Category
	reviews         []domain.Review
	galleryImages   []domain.GalleryImage
	contactMessages []domain.ContactMessage
	notifications   []domain.Notification
	notifiedSources map[string]struct{}
	quizzes         []domain.Quiz
	activeQuizID    string
	quizResults     []domain.QuizResult

	storeSettings     domain.StoreSettings
	footerSettings    domain.FooterSettings
	adminSettings     domain.AdminSettings
	sectionNames      domain.SectionNames
	contentSettings   domain.ContentSettings
	adminTranslations domain.AdminTranslations
	locale            string
}

// New returns a store seeded with the compiled-in defaults. Call Load to
// overlay persisted state.
func New(backend kvstore.Backend, opts ...Option) *Store {
	s := &Store{
		backend:          backend,
		bus:              EventBus.New(),
		compressor:       passThrough{},
		ids:              IDFunc(common.UUIDString),
		now:              time.Now,
		maxNotifications: DefaultMaxNotifications,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seedDefaults()
	return s
}

func (s *Store) seedDefaults() {
	s.products = domain.DefaultProducts()
	s.categories = domain.DefaultCategories()
	s.reviews = domain.DefaultReviews()
	s.galleryImages = domain.DefaultGalleryImages()
	s.contactMessages = []domain.ContactMessage{}
	s.notifications = []domain.Notification{}
	s.notifiedSources = make(map[string]struct{})
	s.quizzes = []domain.Quiz{}
	s.activeQuizID = ""
	s.quizResults = []domain.QuizResult{}
	s.storeSettings = domain.DefaultStoreSettings()
	s.footerSettings = domain.DefaultFooterSettings()
	s.adminSettings = domain.DefaultAdminSettings()
	s.sectionNames = domain.DefaultSectionNames()
	s.contentSettings = domain.DefaultContentSettings()
	s.adminTranslations = domain.DefaultAdminTranslations()
	s.locale = domain.DefaultLocale
}

// Mounted reports whether Load has completed.
func (s *Store) Mounted() bool {
	return s.mounted.Load()
}

// ReadOnly reports whether the backend holds data from a newer schema.
// Commits then update memory only and every write reports ErrReadOnly.
func (s *Store) ReadOnly() bool {
	return s.readOnly.Load()
}

// MaxNotifications returns the retained notification bound.
func (s *Store) MaxNotifications() int {
	return s.maxNotifications
}

// Close marks the store as released. The backend is owned by the caller
// and stays open.
func (s *Store) Close() {
	s.closed.Store(true)
}

func (s *Store) checkOpen() {
	if s.closed.Load() {
		panic("store: used after Close")
	}
}

// Reset restores every collection and settings record to its default and
// persists the result.
func (s *Store) Reset() {
	s.write(func(tx *txn) {
		s.seedDefaults()
		for _, key := range domain.Keys {
			tx.save(key, s.valueLocked(key))
		}
	})
}

// Persist writes the current value of each key, typically to seed a fresh
// backend. Unknown keys are skipped.
func (s *Store) Persist(keys ...string) {
	s.write(func(tx *txn) {
		for _, key := range keys {
			if v := s.valueLocked(key); v != nil {
				tx.save(key, v)
			}
		}
	})
}

func (s *Store) valueLocked(key string) interface{} {
	switch key {
	case domain.KeyProducts:
		return s.products
	case domain.KeyCategories:
		return s.categories
	case domain.KeyReviews:
		return s.reviews
	case domain.KeyGalleryImages:
		return s.galleryImages
	case domain.KeyContactMessages:
		return s.contactMessages
	case domain.KeyNotifications:
		return s.notifications
	case domain.KeyNotificationSources:
		return s.sourceList()
	case domain.KeyQuizzes:
		return s.quizzes
	case domain.KeyQuizResults:
		return s.quizResults
	case domain.KeyStoreSettings:
		return s.storeSettings
	case domain.KeyFooterSettings:
		return s.footerSettings
	case domain.KeyAdminSettings:
		return s.adminSettings
	case domain.KeySectionNames:
		return s.sectionNames
	case domain.KeyContentSettings:
		return s.contentSettings
	case domain.KeyAdminTranslations:
		return s.adminTranslations
	case domain.KeyLocale:
		return s.locale
	}
	return nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok && s != nil
}

// MustFromContext panics when ctx carries no store; that is a wiring bug.
func MustFromContext(ctx context.Context) *Store {
	s, ok := FromContext(ctx)
	if !ok {
		panic("store: no Store in context")
	}
	return s
}

func cloneSlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func indexWhere[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

// without returns a new slice with the element at idx dropped.
func without[T any](items []T, idx int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}
