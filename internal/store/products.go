package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/imaging"
)

// Products returns a copy of the catalog in insertion order.
func (s *Store) Products() []domain.Product {
	var out []domain.Product
	s.read(func() {
		out = make([]domain.Product, len(s.products))
		for i, p := range s.products {
			out[i] = p.Clone()
		}
	})
	return out
}

func (s *Store) Product(id int64) (domain.Product, bool) {
	var (
		out   domain.Product
		found bool
	)
	s.read(func() {
		if idx := s.productIndex(id); idx >= 0 {
			out, found = s.products[idx].Clone(), true
		}
	})
	return out, found
}

func (s *Store) productIndex(id int64) int {
	return indexWhere(s.products, func(p domain.Product) bool { return p.ID == id })
}

// nextProductID returns max(existing ids) + 1, so ids of surviving
// products never collide with a new one.
func nextProductID(products []domain.Product) int64 {
	var highest int64
	for _, p := range products {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest + 1
}

// AddProduct compresses the product's inline images, assigns the next
// numeric id and appends it to the catalog. Compression happens before
// the commit and does not hold the store lock.
func (s *Store) AddProduct(ctx context.Context, p domain.Product) domain.Product {
	s.checkOpen()
	p = p.Clone()
	p.Images = s.compressor.CompressAll(ctx, p.Images)
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}

	s.write(func(tx *txn) {
		p.ID = nextProductID(s.products)
		next := append(cloneSlice(s.products), p)
		committed := s.commitProducts(tx, next, len(next)-1, len(p.Images) > 0)
		p = committed[len(committed)-1]
	})
	return p.Clone()
}

// UpdateProduct merges patch into the product with id. Images in the
// patch are compressed first. The bool is false when no product matched.
func (s *Store) UpdateProduct(ctx context.Context, id int64, patch Patch) (domain.Product, bool) {
	s.checkOpen()
	patch = patch.clone()
	imagesChanged := false
	if v, ok := patch["images"]; ok && v != nil {
		if images, err := cast.ToStringSliceE(v); err == nil {
			patch["images"] = s.compressor.CompressAll(ctx, images)
			imagesChanged = len(images) > 0
		}
	}

	var (
		out   domain.Product
		found bool
	)
	s.write(func(tx *txn) {
		idx := s.productIndex(id)
		if idx < 0 {
			return
		}
		merged, err := mergeEntity(s.products[idx], patch)
		if err != nil {
			zap.L().Warn("rejecting product patch", zap.Int64("id", id), zap.Error(err))
			out, found = s.products[idx].Clone(), true
			return
		}
		merged.ID = id
		next := cloneSlice(s.products)
		next[idx] = merged
		committed := s.commitProducts(tx, next, idx, imagesChanged)
		out, found = committed[idx].Clone(), true
	})
	return out, found
}

// RemoveProduct drops the product with id, keeping the order of the rest.
func (s *Store) RemoveProduct(id int64) bool {
	found := false
	s.write(func(tx *txn) {
		idx := s.productIndex(id)
		if idx < 0 {
			return
		}
		s.products = without(s.products, idx)
		tx.save(domain.KeyProducts, s.products)
		found = true
	})
	return found
}

// commitProducts persists next. When the backend rejects it and the entry
// at idx carries new images, a reduced payload with a placeholder image
// for that entry is tried. The snapshot becomes whichever payload was
// stored; if neither was, the full value is kept in memory.
func (s *Store) commitProducts(tx *txn, next []domain.Product, idx int, imagesChanged bool) []domain.Product {
	err := tx.try(domain.KeyProducts, next)
	if err == nil {
		s.products = next
		tx.changed(domain.KeyProducts)
		return next
	}
	if !imagesChanged || errors.Is(err, ErrReadOnly) {
		tx.failed(domain.KeyProducts, err, false)
		s.products = next
		tx.changed(domain.KeyProducts)
		return next
	}

	zap.L().Warn("products too large to persist, retrying with placeholder image",
		zap.Int64("product_id", next[idx].ID),
		zap.Error(err))
	reduced := cloneSlice(next)
	reduced[idx] = reduced[idx].Clone()
	reduced[idx].Images = []string{imaging.Placeholder}
	if err := tx.try(domain.KeyProducts, reduced); err != nil {
		tx.failed(domain.KeyProducts, err, true)
		s.products = next
		tx.changed(domain.KeyProducts)
		return next
	}
	s.products = reduced
	tx.changed(domain.KeyProducts)
	return reduced
}
