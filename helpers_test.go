package lcd

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/lcd/backend"
	"github.com/gogpu/lcd/backend/software"
)

// faultBackend wraps the software backend so tests can count calls and
// inject failures.
type faultBackend struct {
	*software.Backend
	g *faultGraphics
	s *faultSystem
}

func (f *faultBackend) Graphics() backend.Graphics { return f.g }
func (f *faultBackend) System() backend.System     { return f.s }

type faultGraphics struct {
	backend.Graphics

	frees        int
	tableFrees   int
	collisions   int
	tableLookups int

	failFree    error
	failPop     error
	nullBitmaps bool
}

func (f *faultGraphics) FreeBitmap(b backend.Bitmap) error {
	f.frees++
	if f.failFree != nil {
		return f.failFree
	}
	return f.Graphics.FreeBitmap(b)
}

func (f *faultGraphics) FreeBitmapTable(t backend.BitmapTable) error {
	f.tableFrees++
	return f.Graphics.FreeBitmapTable(t)
}

func (f *faultGraphics) NewBitmap(w, h int, bg backend.Color) (backend.Bitmap, error) {
	if f.nullBitmaps {
		return 0, nil
	}
	return f.Graphics.NewBitmap(w, h, bg)
}

func (f *faultGraphics) GetTableBitmap(t backend.BitmapTable, index int) (backend.Bitmap, error) {
	f.tableLookups++
	return f.Graphics.GetTableBitmap(t, index)
}

func (f *faultGraphics) CheckMaskCollision(a backend.Bitmap, ax, ay int, aflip backend.Flip, b backend.Bitmap, bx, by int, bflip backend.Flip, rect backend.Rect) (int, error) {
	f.collisions++
	return f.Graphics.CheckMaskCollision(a, ax, ay, aflip, b, bx, by, bflip, rect)
}

func (f *faultGraphics) PopContext() error {
	err := f.Graphics.PopContext()
	if f.failPop != nil {
		return f.failPop
	}
	return err
}

type reallocCall struct {
	ptr  uintptr
	size int
}

type faultSystem struct {
	backend.System
	reallocs []reallocCall
}

func (f *faultSystem) Realloc(ptr uintptr, size int) uintptr {
	f.reallocs = append(f.reallocs, reallocCall{ptr, size})
	return f.System.Realloc(ptr, size)
}

// newFaultBackend wraps a fresh software backend.
func newFaultBackend(opts ...software.Option) *faultBackend {
	sb := software.New(opts...)
	return &faultBackend{
		Backend: sb,
		g:       &faultGraphics{Graphics: sb.Graphics()},
		s:       &faultSystem{System: sb.System()},
	}
}

// openTest opens a device over a fault backend. Both are closed at test
// end.
func openTest(t *testing.T, opts ...Option) (*Device, *faultBackend) {
	t.Helper()
	fb := newFaultBackend()
	dev, err := Open(fb, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = dev.Close()
		fb.Close()
	})
	return dev, fb
}

func mustNewBitmap(t *testing.T, g *Graphics, w, h int, bg SolidColor) *Bitmap {
	t.Helper()
	b, err := g.NewBitmap(Sz(w, h), Solid(bg))
	if err != nil {
		t.Fatalf("NewBitmap(%d, %d) error = %v", w, h, err)
	}
	return b
}

// pixel returns the gray level of a bitmap pixel: 0xFF white, 0x00
// black, 0x80 transparent.
func pixel(t *testing.T, fb *faultBackend, b *Bitmap, x, y int) uint8 {
	t.Helper()
	img, ok := fb.BitmapImage(b.Handle())
	if !ok {
		t.Fatalf("bitmap %d is not live", b.Handle())
	}
	return img.GrayAt(x, y).Y
}

// frameWhite reports whether a working frame buffer pixel is white.
func frameWhite(t *testing.T, g *Graphics, x, y int) bool {
	t.Helper()
	f, err := g.Frame()
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	return f.White(x, y)
}

// writeImage writes a w x h PNG filled with c.
func writeImage(t *testing.T, dir, name string, w, h int, c color.Gray) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = c.Y
	}
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
