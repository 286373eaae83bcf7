// Package imaging recompresses inline images before they are persisted.
// Compression is best effort: any failure yields the original input.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// Placeholder is the small image reference substituted for images that
// could not be persisted.
const Placeholder = "/images/placeholder.svg"

const (
	DefaultMaxDimension = 800
	DefaultQuality      = 70
	DefaultWorkers      = 4
	DefaultMaxPixels    = 40_000_000
)

type Options struct {
	MaxDimension int
	Quality      int
	Workers      int
	// MaxPixels bounds the declared canvas of an input image. Larger
	// images are not decoded.
	MaxPixels int
}

func (o Options) withDefaults() Options {
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	return o
}

// Compressor downsizes and re-encodes inline images on a worker pool.
type Compressor struct {
	opts Options
	pool *ants.Pool
}

func NewCompressor(opts Options) (*Compressor, error) {
	opts = opts.withDefaults()
	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, err
	}
	return &Compressor{opts: opts, pool: pool}, nil
}

// IsInline reports whether s is a base64 image data URI.
func IsInline(s string) bool {
	if !strings.HasPrefix(s, "data:image/") {
		return false
	}
	comma := strings.IndexByte(s, ',')
	return comma > 0 && strings.Contains(s[:comma], ";base64")
}

// Compress returns data re-encoded as JPEG with its longest side bounded
// by MaxDimension. References pass through unchanged, as does anything
// that fails to decode or would not get smaller.
func (c *Compressor) Compress(ctx context.Context, data string) string {
	if !IsInline(data) || ctx.Err() != nil {
		return data
	}
	comma := strings.IndexByte(data, ',')
	raw, err := base64.StdEncoding.DecodeString(data[comma+1:])
	if err != nil {
		zap.L().Debug("image compress: bad base64", zap.Error(err))
		return data
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		zap.L().Debug("image compress: unknown format", zap.Error(err))
		return data
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(c.opts.MaxPixels) {
		zap.L().Warn("image compress: canvas too large, keeping input",
			zap.Int("width", cfg.Width),
			zap.Int("height", cfg.Height))
		return data
	}
	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		zap.L().Debug("image compress: decode failed", zap.Error(err))
		return data
	}

	bounds := src.Bounds()
	w, h := scaledSize(bounds.Dx(), bounds.Dy(), c.opts.MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// jpeg has no alpha channel
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: c.opts.Quality}); err != nil {
		zap.L().Debug("image compress: encode failed", zap.Error(err))
		return data
	}
	out := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	if len(out) >= len(data) {
		return data
	}
	zap.L().Debug("image compressed",
		zap.String("format", format),
		zap.Int("from", len(data)),
		zap.Int("to", len(out)),
		zap.Int("width", w),
		zap.Int("height", h))
	return out
}

// CompressAll compresses every inline image concurrently and returns the
// results in input order.
func (c *Compressor) CompressAll(ctx context.Context, images []string) []string {
	if images == nil {
		return nil
	}
	out := make([]string, len(images))
	copy(out, images)

	var wg sync.WaitGroup
	for i, img := range images {
		if !IsInline(img) {
			continue
		}
		i, img := i, img
		wg.Add(1)
		task := func() {
			defer wg.Done()
			out[i] = c.Compress(ctx, img)
		}
		if err := c.pool.Submit(task); err != nil {
			// pool closed or overloaded; do it inline
			task()
		}
	}
	wg.Wait()
	return out
}

// Release stops the worker pool.
func (c *Compressor) Release() {
	c.pool.Release()
}

func scaledSize(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		nh := h * limit / w
		if nh < 1 {
			nh = 1
		}
		return limit, nh
	}
	nw := w * limit / h
	if nw < 1 {
		nw = 1
	}
	return nw, limit
}
