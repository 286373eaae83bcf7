package store

import (
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
)

func (s *Store) Categories() []domain.Category {
	var out []domain.Category
	s.read(func() { out = cloneSlice(s.categories) })
	return out
}

func (s *Store) Category(id string) (domain.Category, bool) {
	var (
		out   domain.Category
		found bool
	)
	s.read(func() {
		if idx := indexWhere(s.categories, func(c domain.Category) bool { return c.ID == id }); idx >= 0 {
			out, found = s.categories[idx], true
		}
	})
	return out, found
}

func (s *Store) AddCategory(c domain.Category) domain.Category {
	s.write(func(tx *txn) {
		c.ID = s.ids.NextID()
		s.categories = append(cloneSlice(s.categories), c)
		tx.save(domain.KeyCategories, s.categories)
	})
	return c
}

func (s *Store) UpdateCategory(id string, patch Patch) (domain.Category, bool) {
	return updateByID(s, &s.categories, domain.KeyCategories, patch,
		func(c domain.Category) bool { return c.ID == id },
		func(c *domain.Category) { c.ID = id })
}

func (s *Store) RemoveCategory(id string) bool {
	return removeByID(s, &s.categories, domain.KeyCategories,
		func(c domain.Category) bool { return c.ID == id })
}

func (s *Store) Reviews() []domain.Review {
	var out []domain.Review
	s.read(func() { out = cloneSlice(s.reviews) })
	return out
}

func (s *Store) AddReview(r domain.Review) domain.Review {
	s.write(func(tx *txn) {
		r.ID = s.ids.NextID()
		s.reviews = append(cloneSlice(s.reviews), r)
		tx.save(domain.KeyReviews, s.reviews)
	})
	return r
}

func (s *Store) UpdateReview(id string, patch Patch) (domain.Review, bool) {
	return updateByID(s, &s.reviews, domain.KeyReviews, patch,
		func(r domain.Review) bool { return r.ID == id },
		func(r *domain.Review) { r.ID = id })
}

func (s *Store) RemoveReview(id string) bool {
	return removeByID(s, &s.reviews, domain.KeyReviews,
		func(r domain.Review) bool { return r.ID == id })
}

func (s *Store) GalleryImages() []domain.GalleryImage {
	var out []domain.GalleryImage
	s.read(func() { out = cloneSlice(s.galleryImages) })
	return out
}

func (s *Store) AddGalleryImage(img domain.GalleryImage) domain.GalleryImage {
	s.write(func(tx *txn) {
		img.ID = s.ids.NextID()
		s.galleryImages = append(cloneSlice(s.galleryImages), img)
		tx.save(domain.KeyGalleryImages, s.galleryImages)
	})
	return img
}

func (s *Store) UpdateGalleryImage(id string, patch Patch) (domain.GalleryImage, bool) {
	return updateByID(s, &s.galleryImages, domain.KeyGalleryImages, patch,
		func(g domain.GalleryImage) bool { return g.ID == id },
		func(g *domain.GalleryImage) { g.ID = id })
}

func (s *Store) RemoveGalleryImage(id string) bool {
	return removeByID(s, &s.galleryImages, domain.KeyGalleryImages,
		func(g domain.GalleryImage) bool { return g.ID == id })
}

// updateByID merges patch into the first element of *items matching and
// persists the collection. Elements must not hold slices; collections
// that do get their own update path.
func updateByID[T any](s *Store, items *[]T, key string, patch Patch, match func(T) bool, fix func(*T)) (T, bool) {
	var (
		out   T
		found bool
	)
	s.write(func(tx *txn) {
		idx := indexWhere(*items, match)
		if idx < 0 {
			return
		}
		merged, err := mergeEntity((*items)[idx], patch)
		if err != nil {
			zap.L().Warn("rejecting patch", zap.String("key", key), zap.Error(err))
			out, found = (*items)[idx], true
			return
		}
		fix(&merged)
		next := cloneSlice(*items)
		next[idx] = merged
		*items = next
		tx.save(key, next)
		out, found = merged, true
	})
	return out, found
}

func removeByID[T any](s *Store, items *[]T, key string, match func(T) bool) bool {
	found := false
	s.write(func(tx *txn) {
		idx := indexWhere(*items, match)
		if idx < 0 {
			return
		}
		*items = without(*items, idx)
		tx.save(key, *items)
		found = true
	})
	return found
}
