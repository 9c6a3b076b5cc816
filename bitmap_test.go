package lcd

import (
	"bytes"
	"errors"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestBitmapCloneAndRelease(t *testing.T) {
	dev, fb := openTest(t)
	g := dev.Graphics()

	b := mustNewBitmap(t, g, 4, 4, White)
	if !b.Owned() || b.Refs() != 1 {
		t.Fatalf("new bitmap: owned = %v, refs = %d", b.Owned(), b.Refs())
	}
	c := b.Clone()
	if c.Handle() != b.Handle() || b.Refs() != 2 {
		t.Fatalf("Clone() handle = %d, refs = %d", c.Handle(), b.Refs())
	}

	b.Release()
	if fb.g.frees != 0 {
		t.Fatal("releasing one of two references freed the bitmap")
	}
	if _, err := b.Data(); !errors.Is(err, ErrReleased) {
		t.Errorf("Data() on released reference error = %v", err)
	}
	if b.Clone() != nil {
		t.Error("Clone() of a released reference should be nil")
	}
	if _, err := c.Data(); err != nil {
		t.Errorf("surviving clone Data() error = %v", err)
	}

	c.Release()
	c.Release()
	b.Release()
	if fb.g.frees != 1 {
		t.Errorf("FreeBitmap calls = %d, want 1", fb.g.frees)
	}
	if fb.Stats().LiveBitmaps != 0 {
		t.Errorf("LiveBitmaps = %d, want 0", fb.Stats().LiveBitmaps)
	}
	if c.Handle() != 0 || c.Refs() != 0 || !c.Released() {
		t.Error("released bitmap should report no handle and no refs")
	}

	var nilBitmap *Bitmap
	nilBitmap.Release()
	if err := nilBitmap.Draw(Point{}, Unflipped); !errors.Is(err, ErrReleased) {
		t.Errorf("nil Bitmap Draw() error = %v", err)
	}
}

func TestBorrowedBitmapNeverFreed(t *testing.T) {
	dev, fb := openTest(t)
	g := dev.Graphics()

	disp, err := g.DisplayBufferBitmap()
	if err != nil {
		t.Fatal(err)
	}
	if disp.Owned() {
		t.Error("display buffer bitmap should be borrowed")
	}
	c := disp.Clone()
	disp.Release()
	c.Release()
	if fb.g.frees != 0 {
		t.Errorf("borrowed bitmap freed %d times", fb.g.frees)
	}

	if _, err := g.NewBitmapFromHandle(0, true); !errors.Is(err, ErrCreationFailed) {
		t.Errorf("NewBitmapFromHandle(null) error = %v", err)
	}
	raw, _ := fb.Backend.Graphics().NewBitmap(2, 2, Solid(White).toBackend())
	wrapped, err := g.NewBitmapFromHandle(raw, true)
	if err != nil {
		t.Fatal(err)
	}
	wrapped.Release()
	if fb.g.frees != 1 {
		t.Errorf("owned wrapped handle: FreeBitmap calls = %d, want 1", fb.g.frees)
	}
}

func TestBitmapFreeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	dev, fb := openTest(t, WithLogger(logger))

	b := mustNewBitmap(t, dev.Graphics(), 2, 2, White)
	fb.g.failFree = errors.New("device busy")
	b.Release()
	if !strings.Contains(buf.String(), "free bitmap failed") {
		t.Errorf("log = %q, want a free failure warning", buf.String())
	}
	b.Release()
	if fb.g.frees != 1 {
		t.Errorf("FreeBitmap calls = %d, want 1", fb.g.frees)
	}
}

func TestBitmapData(t *testing.T) {
	dev, _ := openTest(t)
	b := mustNewBitmap(t, dev.Graphics(), 10, 5, White)
	defer b.Release()

	data, err := b.Data()
	if err != nil {
		t.Fatal(err)
	}
	want := BitmapData{Width: 10, Height: 5, RowBytes: 4}
	if data != want {
		t.Errorf("Data() = %+v, want %+v", data, want)
	}

	if err := b.Clear(Solid(Clear)); err != nil {
		t.Fatal(err)
	}
	data, _ = b.Data()
	if !data.HasMask || data.Width != 10 || data.Height != 5 {
		t.Errorf("Data() after clearing = %+v", data)
	}
	if err := b.Clear(Solid(SolidColor(7))); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Clear(bad color) error = %v", err)
	}
}

func TestBitmapDataFullScreen(t *testing.T) {
	dev, fb := openTest(t)
	b := mustNewBitmap(t, dev.Graphics(), Columns, Rows, Black)
	defer b.Release()

	data, err := b.Data()
	if err != nil {
		t.Fatal(err)
	}
	want := BitmapData{Width: 400, Height: 240, RowBytes: RowSize, HasMask: false}
	if data != want {
		t.Errorf("Data() = %+v, want %+v", data, want)
	}

	if err := b.Clear(Solid(White)); err != nil {
		t.Fatal(err)
	}
	data, _ = b.Data()
	if data != want {
		t.Errorf("Data() after Clear(White) = %+v, want %+v", data, want)
	}
	if pixel(t, fb, b, 399, 239) != 0xFF {
		t.Error("Clear(White) left a black pixel")
	}
}

func TestBitmapDraw(t *testing.T) {
	dev, _ := openTest(t)
	g := dev.Graphics()
	b := mustNewBitmap(t, g, 2, 2, Black)
	defer b.Release()

	if err := b.Draw(Pt(10, 10), Unflipped); err != nil {
		t.Fatal(err)
	}
	if frameWhite(t, g, 10, 10) || frameWhite(t, g, 11, 11) || !frameWhite(t, g, 12, 10) {
		t.Error("Draw() footprint wrong")
	}

	if err := b.DrawScaled(Pt(20, 20), V2(2, 2)); err != nil {
		t.Fatal(err)
	}
	if frameWhite(t, g, 23, 23) || !frameWhite(t, g, 24, 20) {
		t.Error("DrawScaled() footprint wrong")
	}

	if err := b.Tile(Pt(30, 30), Sz(5, 1), Unflipped); err != nil {
		t.Fatal(err)
	}
	if frameWhite(t, g, 34, 30) || !frameWhite(t, g, 35, 30) {
		t.Error("Tile() footprint wrong")
	}

	if err := b.DrawRotated(Pt(40, 40), 0, Center, UnitScale); err != nil {
		t.Fatal(err)
	}
	if frameWhite(t, g, 40, 40) || frameWhite(t, g, 41, 41) {
		t.Error("DrawRotated() by zero should match Draw()")
	}

	if err := b.Draw(Point{}, Flip(9)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Draw(bad flip) error = %v", err)
	}
}

func TestBitmapRotated(t *testing.T) {
	dev, fb := openTest(t)
	src := mustNewBitmap(t, dev.Graphics(), 5, 3, White)
	defer src.Release()

	r, err := src.Rotated(90, UnitScale)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Owned() {
		t.Error("rotated bitmap should be owned")
	}
	size, _ := r.Size()
	if size != Sz(3, 5) {
		t.Errorf("rotated size = %+v, want 3x5", size)
	}
	r.Release()
	if fb.g.frees != 1 {
		t.Errorf("FreeBitmap calls = %d, want 1", fb.g.frees)
	}

	if _, err := src.Rotated(45, V2(0, 1)); !errors.Is(err, ErrCreationFailed) {
		t.Errorf("Rotated(zero scale) error = %v", err)
	}
}

func TestBitmapDuplicatePolicy(t *testing.T) {
	tests := []struct {
		name     string
		policy   DuplicatePolicy
		borrowed bool
		want     bool
	}{
		{"mirror owned", DuplicateMirrorsSource, false, true},
		{"mirror borrowed", DuplicateMirrorsSource, true, false},
		{"always owned from owned", DuplicateAlwaysOwned, false, true},
		{"always owned from borrowed", DuplicateAlwaysOwned, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, _ := openTest(t, WithDuplicatePolicy(tt.policy))
			g := dev.Graphics()
			var src *Bitmap
			if tt.borrowed {
				src, _ = g.DebugBitmap()
			} else {
				src = mustNewBitmap(t, g, 3, 3, White)
			}
			defer src.Release()

			dup, err := src.Duplicate()
			if err != nil {
				t.Fatal(err)
			}
			defer dup.Release()
			if dup.Owned() != tt.want {
				t.Errorf("Duplicate().Owned() = %v, want %v", dup.Owned(), tt.want)
			}
			if dup.Handle() == src.Handle() {
				t.Error("Duplicate() should allocate a new native bitmap")
			}
		})
	}
}

func TestBitmapDuplicateCopiesPixels(t *testing.T) {
	dev, fb := openTest(t)
	src := mustNewBitmap(t, dev.Graphics(), 3, 3, Black)
	defer src.Release()
	dup, _ := src.Duplicate()
	defer dup.Release()

	if err := dup.Clear(Solid(White)); err != nil {
		t.Fatal(err)
	}
	if pixel(t, fb, src, 1, 1) != 0x00 {
		t.Error("clearing the duplicate changed the source")
	}
}

func TestBitmapTransform(t *testing.T) {
	dev, fb := openTest(t)
	g := dev.Graphics()
	src := mustNewBitmap(t, g, 2, 1, White)
	defer src.Release()
	_ = g.WithContext(src, func() error {
		return g.FillRect(Rect{Width: 1, Height: 1}, Solid(Black))
	})

	flipped, err := src.Transform(Transform{Flip: FlippedX})
	if err != nil {
		t.Fatal(err)
	}
	defer flipped.Release()
	if pixel(t, fb, flipped, 1, 0) != 0x00 || pixel(t, fb, flipped, 0, 0) != 0xFF {
		t.Error("Transform(FlippedX) did not mirror the bitmap")
	}

	turned, err := src.Transform(Transform{Degrees: 90, Flip: FlippedY})
	if err != nil {
		t.Fatal(err)
	}
	defer turned.Release()
	if size, _ := turned.Size(); size != Sz(1, 2) {
		t.Fatalf("Transform(90) size = %+v, want 1x2", size)
	}
	if pixel(t, fb, turned, 0, 1) != 0x00 || pixel(t, fb, turned, 0, 0) != 0xFF {
		t.Error("Transform should rotate before flipping")
	}

	if g.ContextDepth() != 0 {
		t.Errorf("ContextDepth() = %d after Transform, want 0", g.ContextDepth())
	}
	if _, err := src.Transform(Transform{Flip: Flip(4)}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Transform(bad flip) error = %v", err)
	}
}

func TestBitmapLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeImage(t, dir, "dark.png", 6, 4, color.Gray{Y: 0x10})
	dev, fb := openTest(t)
	g := dev.Graphics()

	b, err := g.LoadBitmap(path)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()
	if size, _ := b.Size(); size != Sz(6, 4) {
		t.Errorf("loaded size = %+v", size)
	}
	if pixel(t, fb, b, 0, 0) != 0x00 {
		t.Error("dark image should load black")
	}

	_, err = g.LoadBitmap(filepath.Join(dir, "missing.png"))
	var le *LoadError
	if !errors.As(err, &le) || !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("LoadBitmap(missing) error = %v, want *LoadError", err)
	}
	if le.Message == "" || le.Kind != "bitmap" {
		t.Errorf("LoadError = %+v, want the backend message", le)
	}

	small := mustNewBitmap(t, g, 1, 1, White)
	defer small.Release()
	if err := small.Load(path); err != nil {
		t.Fatal(err)
	}
	if size, _ := small.Size(); size != Sz(6, 4) {
		t.Errorf("size after Load() = %+v", size)
	}
	if err := small.Load(filepath.Join(dir, "missing.png")); !errors.Is(err, ErrLoadFailed) {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestLoadIntoDisplayBufferFails(t *testing.T) {
	dir := t.TempDir()
	path := writeImage(t, dir, "dark.png", 6, 4, color.Gray{Y: 0x10})
	dev, _ := openTest(t)
	g := dev.Graphics()

	disp, err := g.DisplayBufferBitmap()
	if err != nil {
		t.Fatal(err)
	}
	defer disp.Release()
	if err := disp.Load(path); !errors.Is(err, ErrLoadFailed) {
		t.Errorf("Load() into the display buffer error = %v", err)
	}
	if size, _ := disp.Size(); size != Sz(Columns, Rows) {
		t.Errorf("display buffer size = %+v", size)
	}
	if _, err := g.DisplayFrame(); err != nil {
		t.Errorf("DisplayFrame() error = %v", err)
	}
}

func TestBitmapIntoColor(t *testing.T) {
	dev, _ := openTest(t)
	g := dev.Graphics()
	b := mustNewBitmap(t, g, 8, 8, White)
	defer b.Release()
	other := mustNewBitmap(t, g, 8, 8, Black)
	defer other.Release()
	_ = g.WithContext(b, func() error {
		return g.FillRect(Rect{Width: 1, Height: 1}, Solid(Black))
	})

	c, err := b.IntoColor(nil, Point{})
	if err != nil {
		t.Fatal(err)
	}
	pat, ok := c.PatternValue()
	if !ok || pat[0] != 0x7F || pat[8] != 0xFF {
		t.Errorf("IntoColor(self) pattern = %x", pat)
	}

	c, _ = b.IntoColor(other, Point{})
	pat, _ = c.PatternValue()
	if pat[0] != 0x00 {
		t.Errorf("IntoColor(other) row 0 = %#x, want 0", pat[0])
	}
}

func TestBitmapCheckMaskCollision(t *testing.T) {
	dev, fb := openTest(t)
	g := dev.Graphics()
	a := mustNewBitmap(t, g, 4, 4, Black)
	defer a.Release()
	b := mustNewBitmap(t, g, 4, 4, Black)
	defer b.Release()

	hit, err := a.CheckMaskCollision(Pt(0, 0), Unflipped, b, Pt(2, 2), Unflipped, ScreenRect)
	if err != nil || !hit {
		t.Fatalf("overlapping CheckMaskCollision() = %v, %v", hit, err)
	}
	if fb.g.collisions != 1 {
		t.Fatalf("backend collision calls = %d, want 1", fb.g.collisions)
	}

	hit, _ = a.CheckMaskCollision(Pt(0, 0), Unflipped, b, Pt(100, 100), Unflipped, ScreenRect)
	if hit {
		t.Error("disjoint bitmaps collided")
	}
	hit, _ = a.CheckMaskCollision(Pt(0, 0), Unflipped, b, Pt(2, 2), Unflipped, Rect{X: 50, Y: 50, Width: 10, Height: 10})
	if hit {
		t.Error("collision outside rect counted")
	}
	if fb.g.collisions != 1 {
		t.Errorf("empty footprints should skip the backend, calls = %d", fb.g.collisions)
	}

	_ = b.Clear(Solid(Clear))
	hit, _ = a.CheckMaskCollision(Pt(0, 0), Unflipped, b, Pt(2, 2), Unflipped, ScreenRect)
	if hit {
		t.Error("transparent pixels collided")
	}

	if _, err := a.CheckMaskCollision(Point{}, Unflipped, nil, Point{}, Unflipped, ScreenRect); !errors.Is(err, ErrReleased) {
		t.Errorf("CheckMaskCollision(nil) error = %v", err)
	}
}

func TestBitmapBusyWhileTarget(t *testing.T) {
	dev, fb := openTest(t)
	g := dev.Graphics()
	target := mustNewBitmap(t, g, 4, 4, White)
	alias := target.Clone()
	defer alias.Release()

	if err := g.PushContext(target); err != nil {
		t.Fatal(err)
	}
	if err := target.Draw(Point{}, Unflipped); !errors.Is(err, ErrBitmapBusy) {
		t.Errorf("Draw() of the active target error = %v", err)
	}
	if _, err := alias.Data(); !errors.Is(err, ErrBitmapBusy) {
		t.Errorf("Data() through an alias error = %v", err)
	}
	if err := g.PushContext(alias); !errors.Is(err, ErrBitmapBusy) {
		t.Errorf("second PushContext() of the same bitmap error = %v", err)
	}
	if c := alias.Clone(); c == nil {
		t.Error("Clone() should stay allowed while busy")
	} else {
		c.Release()
	}

	target.Release()
	alias.Release()
	if fb.g.frees != 0 {
		t.Fatal("bitmap freed while it is the active target")
	}
	if err := g.PopContext(); err != nil {
		t.Fatal(err)
	}
	if fb.g.frees != 1 {
		t.Errorf("FreeBitmap calls after pop = %d, want 1", fb.g.frees)
	}
	if n := fb.Stats().LiveBitmaps; n != 0 {
		t.Errorf("LiveBitmaps after pop = %d, want 0", n)
	}
}

func TestBitmapUsableAfterPop(t *testing.T) {
	dev, _ := openTest(t)
	g := dev.Graphics()
	b := mustNewBitmap(t, g, 4, 4, White)
	defer b.Release()
	if err := g.WithContext(b, func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	if err := b.Draw(Point{}, Unflipped); err != nil {
		t.Errorf("Draw() after pop error = %v", err)
	}
}
