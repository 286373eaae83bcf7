package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"strings"
	"testing"
)

func noisyPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r := rand.New(rand.NewSource(1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestCompressor(t *testing.T) *Compressor {
	t.Helper()
	c, err := NewCompressor(Options{MaxDimension: 100, Quality: 60, Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Release)
	return c
}

func decodeDataURI(t *testing.T, s string) (image.Image, string) {
	t.Helper()
	comma := strings.IndexByte(s, ',')
	raw, err := base64.StdEncoding.DecodeString(s[comma+1:])
	if err != nil {
		t.Fatal(err)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	return img, format
}

func TestIsInline(t *testing.T) {
	cases := map[string]bool{
		"data:image/png;base64,AAAA":  true,
		"data:image/jpeg;base64,AAAA": true,
		"data:text/plain;base64,AAAA": false,
		"data:image/svg+xml,<svg/>":   false,
		"/images/rose.jpg":            false,
		"https://cdn.example.com/a":   false,
	}
	for in, want := range cases {
		if got := IsInline(in); got != want {
			t.Errorf("IsInline(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCompressDownscales(t *testing.T) {
	c := newTestCompressor(t)
	src := noisyPNG(t, 400, 200)
	out := c.Compress(context.Background(), src)
	if out == src {
		t.Fatal("Expected compressed output")
	}
	if !strings.HasPrefix(out, "data:image/jpeg;base64,") {
		t.Fatalf("Expected jpeg data uri, got prefix %q", out[:30])
	}
	img, format := decodeDataURI(t, out)
	if format != "jpeg" {
		t.Errorf("Expected jpeg, got %s", format)
	}
	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("Expected 100x50, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestCompressPassThrough(t *testing.T) {
	c := newTestCompressor(t)
	for _, in := range []string{
		"/images/products/rose.jpg",
		"data:image/png;base64,!!!not-base64",
		"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image")),
	} {
		if out := c.Compress(context.Background(), in); out != in {
			t.Errorf("Expected %q unchanged", in)
		}
	}
}

func TestCompressKeepsSmallerOriginal(t *testing.T) {
	c := newTestCompressor(t)
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 1}); err != nil {
		t.Fatal(err)
	}
	src := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	if out := c.Compress(context.Background(), src); len(out) > len(src) {
		t.Error("compression must never grow an image")
	}
}

// hugeCanvasPNG returns a tiny PNG whose header declares a w x h canvas.
func hugeCanvasPNG(t *testing.T, w, h uint32) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	binary.BigEndian.PutUint32(raw[16:20], w)
	binary.BigEndian.PutUint32(raw[20:24], h)
	binary.BigEndian.PutUint32(raw[29:33], crc32.ChecksumIEEE(raw[12:29]))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
}

func TestCompressRejectsHugeCanvas(t *testing.T) {
	c := newTestCompressor(t)
	src := hugeCanvasPNG(t, 100000, 100000)
	if out := c.Compress(context.Background(), src); out != src {
		t.Error("Expected input unchanged for an oversized canvas")
	}

	small, err := NewCompressor(Options{MaxDimension: 100, MaxPixels: 100 * 100})
	if err != nil {
		t.Fatal(err)
	}
	defer small.Release()
	img := noisyPNG(t, 300, 300)
	if out := small.Compress(context.Background(), img); out != img {
		t.Error("Expected input unchanged above MaxPixels")
	}
}

func TestCompressCancelledContext(t *testing.T) {
	c := newTestCompressor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := noisyPNG(t, 300, 300)
	if out := c.Compress(ctx, src); out != src {
		t.Error("Expected original on cancelled context")
	}
}

func TestCompressAllKeepsOrder(t *testing.T) {
	c := newTestCompressor(t)
	big := noisyPNG(t, 300, 300)
	in := []string{"/a.jpg", big, "/b.jpg", big}
	out := c.CompressAll(context.Background(), in)
	if len(out) != 4 {
		t.Fatalf("Expected 4 images, got %d", len(out))
	}
	if out[0] != "/a.jpg" || out[2] != "/b.jpg" {
		t.Errorf("references must pass through in place: %v, %v", out[0], out[2])
	}
	for _, i := range []int{1, 3} {
		if !strings.HasPrefix(out[i], "data:image/jpeg") {
			t.Errorf("image %d not compressed", i)
		}
	}
	if in[1] != big {
		t.Error("input slice must not be modified")
	}
}

func TestScaledSize(t *testing.T) {
	cases := []struct{ w, h, max, ww, wh int }{
		{100, 50, 800, 100, 50},
		{1600, 800, 800, 800, 400},
		{600, 1200, 800, 400, 800},
		{5000, 1, 800, 800, 1},
	}
	for _, c := range cases {
		w, h := scaledSize(c.w, c.h, c.max)
		if w != c.ww || h != c.wh {
			t.Errorf("scaledSize(%d,%d,%d) = %d,%d want %d,%d", c.w, c.h, c.max, w, h, c.ww, c.wh)
		}
	}
}
