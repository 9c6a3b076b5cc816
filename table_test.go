package lcd

import (
	"errors"
	"image/color"
	"path/filepath"
	"testing"
)

func TestTableCacheIdentity(t *testing.T) {
	dev, fb := openTest(t)
	tbl, err := dev.Graphics().NewBitmapTable(3, Sz(4, 4))
	if err != nil {
		t.Fatal(err)
	}
	defer tbl.Release()

	if n, err := tbl.Len(); err != nil || n != 3 {
		t.Errorf("Len() = %d, %v, want 3", n, err)
	}
	a, err := tbl.GetBitmap(1)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()
	b, _ := tbl.GetBitmap(1)
	defer b.Release()
	if a.Handle() != b.Handle() {
		t.Errorf("GetBitmap(1) handles %d and %d differ", a.Handle(), b.Handle())
	}
	if fb.g.tableLookups != 1 {
		t.Errorf("backend lookups = %d, want 1", fb.g.tableLookups)
	}
	if !a.Owned() || tbl.Cached() != 1 {
		t.Errorf("owned = %v, cached = %d", a.Owned(), tbl.Cached())
	}

	if _, err := tbl.GetBitmap(3); !errors.Is(err, ErrLookupFailed) {
		t.Errorf("GetBitmap(3) error = %v, want ErrLookupFailed", err)
	}
	if _, err := tbl.GetBitmap(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("GetBitmap(-1) error = %v, want ErrInvalidArgument", err)
	}
}

func TestTableRelease(t *testing.T) {
	dev, fb := openTest(t)
	tbl, _ := dev.Graphics().NewBitmapTable(2, Sz(2, 2))
	clone := tbl.Clone()
	kept, _ := tbl.GetBitmap(0)
	other, _ := tbl.GetBitmap(1)
	other.Release()

	tbl.Release()
	if fb.g.tableFrees != 0 {
		t.Fatal("table freed while a clone is live")
	}
	clone.Release()
	if fb.g.tableFrees != 1 {
		t.Errorf("FreeBitmapTable calls = %d, want 1", fb.g.tableFrees)
	}
	if fb.g.frees != 1 {
		t.Errorf("FreeBitmap calls = %d, want 1 for the unreferenced cell", fb.g.frees)
	}
	if _, err := kept.Data(); err != nil {
		t.Errorf("bitmap from a released table Data() error = %v", err)
	}
	kept.Release()
	if fb.Stats().LiveBitmaps != 0 || fb.Stats().LiveTables != 0 {
		t.Errorf("Stats() = %+v, want nothing live", fb.Stats())
	}
	if _, err := clone.GetBitmap(0); !errors.Is(err, ErrReleased) {
		t.Errorf("GetBitmap() on released table error = %v", err)
	}
}

// writeSequence writes name-table-1.png and name-table-2.png filled with c.
func writeSequence(t *testing.T, dir, name string, c color.Gray) string {
	t.Helper()
	writeImage(t, dir, name+"-table-1.png", 4, 4, c)
	writeImage(t, dir, name+"-table-2.png", 4, 4, c)
	return filepath.Join(dir, name)
}

func TestTableReload(t *testing.T) {
	dir := t.TempDir()
	light := writeSequence(t, dir, "light", color.Gray{Y: 0xFF})
	dark := writeSequence(t, dir, "dark", color.Gray{Y: 0x00})

	tests := []struct {
		name       string
		policy     TableReloadPolicy
		sameHandle bool
		wantGray   uint8
	}{
		{"invalidates", TableReloadInvalidates, false, 0x00},
		{"keeps cache", TableReloadKeepsCache, true, 0xFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, fb := openTest(t, WithTableReloadPolicy(tt.policy))
			tbl, err := dev.Graphics().LoadBitmapTable(light)
			if err != nil {
				t.Fatal(err)
			}
			defer tbl.Release()
			before, _ := tbl.GetBitmap(0)
			defer before.Release()

			if err := tbl.Load(dark); err != nil {
				t.Fatal(err)
			}
			after, err := tbl.GetBitmap(0)
			if err != nil {
				t.Fatal(err)
			}
			defer after.Release()
			if (after.Handle() == before.Handle()) != tt.sameHandle {
				t.Errorf("same handle after reload = %v, want %v", !tt.sameHandle, tt.sameHandle)
			}
			if got := pixel(t, fb, after, 0, 0); got != tt.wantGray {
				t.Errorf("pixel after reload = %#x, want %#x", got, tt.wantGray)
			}
			if pixel(t, fb, before, 0, 0) != 0xFF {
				t.Error("a bitmap handed out before the reload changed")
			}
		})
	}
}

func TestTableLoadFailure(t *testing.T) {
	dev, _ := openTest(t)
	g := dev.Graphics()
	missing := filepath.Join(t.TempDir(), "nothing")

	_, err := g.LoadBitmapTable(missing)
	var le *LoadError
	if !errors.As(err, &le) || le.Kind != "bitmap table" || le.Message == "" {
		t.Fatalf("LoadBitmapTable(missing) error = %v", err)
	}

	tbl, _ := g.NewBitmapTable(1, Sz(2, 2))
	defer tbl.Release()
	b, _ := tbl.GetBitmap(0)
	defer b.Release()
	if err := tbl.Load(missing); !errors.Is(err, ErrLoadFailed) {
		t.Errorf("Load(missing) error = %v", err)
	}
	if tbl.Cached() != 1 {
		t.Error("a failed reload should keep the cache")
	}
}
