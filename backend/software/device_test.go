package software

import (
	"errors"
	"testing"

	"github.com/gogpu/lcd/backend"
)

func TestRegistered(t *testing.T) {
	b := backend.Get(backend.BackendSoftware)
	if b == nil {
		t.Fatal("software backend is not registered")
	}
	if b.Name() != backend.BackendSoftware {
		t.Errorf("Name() = %q, want %q", b.Name(), backend.BackendSoftware)
	}
}

func TestLifecycle(t *testing.T) {
	b := New()
	if _, err := b.Graphics().NewBitmap(1, 1, white); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("NewBitmap() before Init error = %v, want %v", err, backend.ErrNotInitialized)
	}
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	if err := b.Init(); err != nil {
		t.Errorf("second Init() error = %v", err)
	}
	b.Close()
	b.Close()
	if err := b.Init(); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("Init() after Close error = %v", err)
	}
	if p := b.System().Realloc(0, 8); p != 0 {
		t.Error("Realloc() after Close should fail")
	}
}

func TestContextRedirect(t *testing.T) {
	b := newTestBackend(t)
	g := b.Graphics()
	bm := newBitmap(t, b, 8, 8, white)

	_ = g.SetDrawOffset(5, 5)
	_ = g.SetDrawMode(backend.DrawModeInverted)
	if err := g.PushContext(bm); err != nil {
		t.Fatal(err)
	}
	if b.Stats().ContextDepth != 1 {
		t.Errorf("ContextDepth = %d, want 1", b.Stats().ContextDepth)
	}
	_ = g.FillRect(0, 0, 1, 1, black)
	if mustBitmap(t, b, bm).white(0, 0) {
		t.Error("pushed context should start with a zero offset and draw into the bitmap")
	}
	if !framePixel(b, 5, 5) || !framePixel(b, 0, 0) {
		t.Error("drawing leaked into the frame buffer")
	}
	if b.d.state.mode != backend.DrawModeCopy {
		t.Error("pushed context should start in copy mode")
	}
	if err := g.FreeBitmap(bm); err == nil {
		t.Error("FreeBitmap() of the active target should fail")
	}

	if err := g.PopContext(); err != nil {
		t.Fatal(err)
	}
	_ = g.FillRect(0, 0, 1, 1, black)
	if framePixel(b, 5, 5) {
		t.Error("pop should restore the frame buffer and its offset")
	}
	if b.d.state.mode != backend.DrawModeInverted {
		t.Error("pop should restore the draw mode")
	}
	if err := g.PopContext(); !errors.Is(err, backend.ErrContextUnderflow) {
		t.Errorf("PopContext() on empty stack error = %v", err)
	}
}

func TestPushNullTargetsFrame(t *testing.T) {
	b := newTestBackend(t)
	g := b.Graphics()
	bm := newBitmap(t, b, 4, 4, white)
	_ = g.PushContext(bm)
	_ = g.PushContext(0)
	_ = g.FillRect(0, 0, 1, 1, black)
	if framePixel(b, 0, 0) {
		t.Error("null target should draw into the frame buffer")
	}
	if err := g.PushContext(backend.Bitmap(9999)); !errors.Is(err, backend.ErrInvalidHandle) {
		t.Errorf("PushContext(unknown) error = %v", err)
	}
}

func TestDisplayFlush(t *testing.T) {
	b := newTestBackend(t)
	g := b.Graphics()
	_ = g.FillRect(0, 10, 8, 1, black)

	shown, _ := g.GetDisplayFrame()
	if shown[10*backend.RowSize] != 0xFF {
		t.Fatal("display buffer changed before Display()")
	}
	if err := g.Display(); err != nil {
		t.Fatal(err)
	}
	if shown[10*backend.RowSize] != 0x00 {
		t.Errorf("display row 10 = %#x, want 0", shown[10*backend.RowSize])
	}

	frame, _ := g.GetFrame()
	if len(frame) != backend.FrameSize {
		t.Fatalf("len(GetFrame()) = %d, want %d", len(frame), backend.FrameSize)
	}
	frame[3*backend.RowSize] = 0x0F
	_ = g.Display()
	if shown[3*backend.RowSize] != 0xFF {
		t.Error("unmarked rows should not be flushed")
	}
	if err := g.MarkUpdatedRows(3, 3); err != nil {
		t.Fatal(err)
	}
	_ = g.Display()
	if shown[3*backend.RowSize] != 0x0F {
		t.Error("marked row was not flushed")
	}
	if b.Stats().Flushes != 3 {
		t.Errorf("Flushes = %d, want 3", b.Stats().Flushes)
	}

	if err := g.MarkUpdatedRows(5, backend.Rows); err == nil {
		t.Error("MarkUpdatedRows() past the last row should fail")
	}
	if err := g.MarkUpdatedRows(6, 5); err == nil {
		t.Error("MarkUpdatedRows() with start > end should fail")
	}
}

func TestSpecialBitmaps(t *testing.T) {
	b := newTestBackend(t)
	g := b.Graphics()

	dbg, err := g.GetDebugBitmap()
	if err != nil || dbg.IsNull() {
		t.Fatalf("GetDebugBitmap() = %d, %v", dbg, err)
	}
	if again, _ := g.GetDebugBitmap(); again != dbg {
		t.Error("GetDebugBitmap() should return the same handle")
	}
	if err := g.FreeBitmap(dbg); !errors.Is(err, backend.ErrInvalidHandle) {
		t.Errorf("FreeBitmap(debug) error = %v", err)
	}

	disp, _ := g.GetDisplayBufferBitmap()
	data, _ := g.GetBitmapData(disp)
	if data.Width != backend.Columns || data.RowBytes != backend.RowSize {
		t.Errorf("display bitmap data = %+v", data)
	}

	_ = g.FillRect(0, 0, 1, 1, black)
	cp, err := g.CopyFrameBufferBitmap()
	if err != nil {
		t.Fatal(err)
	}
	_ = g.Clear(white)
	if mustBitmap(t, b, cp).white(0, 0) {
		t.Error("frame copy should be a snapshot")
	}
	if err := g.FreeBitmap(cp); err != nil {
		t.Errorf("FreeBitmap(copy) error = %v", err)
	}
}

func TestBitmapHandles(t *testing.T) {
	b := newTestBackend(t)
	g := b.Graphics()

	if h, err := g.NewBitmap(0, 4, white); err != nil || !h.IsNull() {
		t.Errorf("NewBitmap(0, 4) = %d, %v, want null", h, err)
	}
	bm := newBitmap(t, b, 3, 3, black)
	cp, _ := g.CopyBitmap(bm)
	if cp == bm {
		t.Fatal("CopyBitmap() returned the same handle")
	}
	_ = g.ClearBitmap(cp, white)
	if mustBitmap(t, b, bm).white(1, 1) {
		t.Error("copy shares pixels with the original")
	}

	if err := g.FreeBitmap(bm); err != nil {
		t.Fatal(err)
	}
	if err := g.FreeBitmap(bm); !errors.Is(err, backend.ErrInvalidHandle) {
		t.Errorf("second FreeBitmap() error = %v", err)
	}
	if _, err := g.GetBitmapData(bm); !errors.Is(err, backend.ErrInvalidHandle) {
		t.Errorf("GetBitmapData(freed) error = %v", err)
	}

	s := b.Stats()
	if s.BitmapsAllocated != 2 || s.BitmapsFreed != 1 || s.LiveBitmaps != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestBitmapTables(t *testing.T) {
	b := newTestBackend(t)
	g := b.Graphics()

	tbl, err := g.NewBitmapTable(3, 4, 4)
	if err != nil || tbl.IsNull() {
		t.Fatalf("NewBitmapTable() = %d, %v", tbl, err)
	}
	count, wide, _ := g.GetBitmapTableInfo(tbl)
	if count != 3 || wide != 3 {
		t.Errorf("GetBitmapTableInfo() = %d, %d, want 3, 3", count, wide)
	}
	if h, err := g.GetTableBitmap(tbl, 3); err != nil || !h.IsNull() {
		t.Errorf("GetTableBitmap(3) = %d, %v, want null", h, err)
	}

	view, _ := g.GetTableBitmap(tbl, 1)
	_ = g.ClearBitmap(view, black)
	_ = g.FreeBitmap(view)
	again, _ := g.GetTableBitmap(tbl, 1)
	if mustBitmap(t, b, again).white(0, 0) {
		t.Error("table cell views should share pixels with the cell")
	}

	if err := g.FreeBitmapTable(tbl); err != nil {
		t.Fatal(err)
	}
	if _, _, err := g.GetBitmapTableInfo(tbl); !errors.Is(err, backend.ErrInvalidHandle) {
		t.Errorf("GetBitmapTableInfo(freed) error = %v", err)
	}
	if mustBitmap(t, b, again).white(0, 0) {
		t.Error("a view should outlive its table")
	}
}

func TestDisplaySettings(t *testing.T) {
	b := newTestBackend(t)
	d := b.Display()

	if err := d.SetScale(3); err == nil {
		t.Error("SetScale(3) should fail")
	}
	if err := d.SetScale(2); err != nil {
		t.Fatal(err)
	}
	if w, _ := d.GetWidth(); w != 200 {
		t.Errorf("GetWidth() = %d, want 200", w)
	}
	if h, _ := d.GetHeight(); h != 120 {
		t.Errorf("GetHeight() = %d, want 120", h)
	}
	if err := d.SetMosaic(4, 0); err == nil {
		t.Error("SetMosaic(4, 0) should fail")
	}
	_ = d.SetMosaic(3, 1)
	_ = d.SetInverted(true)
	_ = d.SetFlipped(true, false)
	_ = d.SetOffset(2, -3)
	_ = d.SetRefreshRate(50)

	want := DisplayState{Inverted: true, Scale: 2, MosaicX: 3, MosaicY: 1,
		OffsetX: 2, OffsetY: -3, RefreshRate: 50, FlipX: true}
	if got := b.DisplayState(); got != want {
		t.Errorf("DisplayState() = %+v, want %+v", got, want)
	}
}

func TestDrawStateValidation(t *testing.T) {
	b := newTestBackend(t)
	g := b.Graphics()
	if err := g.SetDrawMode(backend.DrawMode(42)); err == nil {
		t.Error("SetDrawMode(42) should fail")
	}
	if err := g.SetLineCapStyle(backend.LineCapStyle(9)); err == nil {
		t.Error("SetLineCapStyle(9) should fail")
	}
	if err := g.SetBackgroundColor(backend.ColorBlack); err != nil {
		t.Fatal(err)
	}
	if b.BackgroundColor() != backend.ColorBlack {
		t.Errorf("BackgroundColor() = %v", b.BackgroundColor())
	}
}

func TestRealloc(t *testing.T) {
	b := newTestBackend(t)
	s := b.System()

	p := s.Realloc(0, 16)
	if p == 0 {
		t.Fatal("Realloc(0, 16) returned 0")
	}
	if q := s.Realloc(p, 64); q != p {
		t.Errorf("Realloc(grow) = %d, want %d", q, p)
	}
	if q := s.Realloc(p, 0); q != 0 {
		t.Errorf("Realloc(free) = %d, want 0", q)
	}
	if q := s.Realloc(p, 0); q != 0 {
		t.Errorf("Realloc(stale) = %d, want 0", q)
	}
	if b.Stats().AllocsLive != 0 {
		t.Errorf("AllocsLive = %d, want 0", b.Stats().AllocsLive)
	}
}
