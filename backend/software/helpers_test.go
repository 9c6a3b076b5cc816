package software

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/lcd/backend"
)

var (
	black = backend.Color{Solid: backend.ColorBlack}
	white = backend.Color{Solid: backend.ColorWhite}
	clr   = backend.Color{Solid: backend.ColorClear}
	xor   = backend.Color{Solid: backend.ColorXOR}
)

// newTestBackend returns an initialized backend closed at test end.
func newTestBackend(t *testing.T, opts ...Option) *Backend {
	t.Helper()
	b := New(opts...)
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

// writePNG encodes img to dir/name.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// framePixel reports whether the working frame pixel is white.
func framePixel(b *Backend, x, y int) bool {
	return b.d.frame.white(x, y)
}

// mustBitmap resolves a handle to its plane.
func mustBitmap(t *testing.T, b *Backend, h backend.Bitmap) *plane {
	t.Helper()
	p, err := b.d.bitmap(h)
	if err != nil {
		t.Fatalf("bitmap(%d) error = %v", h, err)
	}
	return p
}

func newBitmap(t *testing.T, b *Backend, w, h int, bg backend.Color) backend.Bitmap {
	t.Helper()
	bm, err := b.Graphics().NewBitmap(w, h, bg)
	if err != nil || bm.IsNull() {
		t.Fatalf("NewBitmap(%d, %d) = %d, %v", w, h, bm, err)
	}
	return bm
}
