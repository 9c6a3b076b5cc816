package lcd

import (
	"fmt"

	"github.com/gogpu/lcd/backend"
)

type tableInner struct {
	g     *Graphics
	raw   backend.BitmapTable
	refs  int
	cache map[int]*Bitmap
	freed bool
}

// BitmapTable is a reference to a native bitmap table. Bitmaps are
// resolved on first lookup and cached, so an index keeps returning the
// same native bitmap until the table is reloaded. The table handle is
// always owned and is freed with the last reference.
type BitmapTable struct {
	inner    *tableInner
	released bool
}

func newBitmapTable(g *Graphics, raw backend.BitmapTable) *BitmapTable {
	g.dev.logger().Debug("lcd: bitmap table acquired", "handle", raw)
	return &BitmapTable{inner: &tableInner{g: g, raw: raw, refs: 1, cache: make(map[int]*Bitmap)}}
}

func (t *BitmapTable) ref() (*tableInner, error) {
	if t == nil || t.inner == nil || t.released || t.inner.freed {
		return nil, ErrReleased
	}
	return t.inner, nil
}

// GetBitmap returns the bitmap at index. The first lookup of an index
// asks the backend; later lookups return a new reference to the cached
// bitmap without a backend call.
func (t *BitmapTable) GetBitmap(index int) (*Bitmap, error) {
	in, err := t.ref()
	if err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, invalidArg("table index %d", index)
	}
	if b, ok := in.cache[index]; ok {
		return b.Clone(), nil
	}
	raw, err := in.g.raw.GetTableBitmap(in.raw, index)
	if err != nil {
		return nil, callErr("table bitmap", err)
	}
	if raw.IsNull() {
		return nil, fmt.Errorf("%w: table %d has no bitmap at %d", ErrLookupFailed, in.raw, index)
	}
	b := newBitmap(in.g, raw, true)
	in.cache[index] = b
	return b.Clone(), nil
}

// Load replaces the table's contents with the image table at path.
// Under TableReloadInvalidates, bitmaps resolved before the reload are
// dropped from the cache; references already handed out stay valid and
// keep their old pixels.
func (t *BitmapTable) Load(path string) error {
	in, err := t.ref()
	if err != nil {
		return err
	}
	msg, err := in.g.raw.LoadIntoBitmapTable(path, in.raw)
	if err != nil || msg != "" {
		return &LoadError{Kind: "bitmap table", Path: path, Message: msg, Err: err}
	}
	if in.g.dev.opts.tableReload == TableReloadInvalidates {
		in.dropCache()
	}
	return nil
}

// Len returns the number of bitmaps in the table.
func (t *BitmapTable) Len() (int, error) {
	in, err := t.ref()
	if err != nil {
		return 0, err
	}
	count, _, err := in.g.raw.GetBitmapTableInfo(in.raw)
	if err != nil {
		return 0, queryErr("table info", err)
	}
	return count, nil
}

// Cached returns the number of indices resolved so far.
func (t *BitmapTable) Cached() int {
	in, err := t.ref()
	if err != nil {
		return 0
	}
	return len(in.cache)
}

// Handle returns the native handle, or the null handle once released.
func (t *BitmapTable) Handle() backend.BitmapTable {
	in, err := t.ref()
	if err != nil {
		return 0
	}
	return in.raw
}

// Clone returns another reference to the same table and cache.
func (t *BitmapTable) Clone() *BitmapTable {
	in, err := t.ref()
	if err != nil {
		return nil
	}
	in.refs++
	return &BitmapTable{inner: in}
}

// Release drops this reference. The last release drops the cached
// bitmaps and frees the native table. Free failures are logged.
func (t *BitmapTable) Release() {
	if t == nil || t.inner == nil || t.released {
		return
	}
	t.released = true
	in := t.inner
	in.refs--
	if in.refs > 0 || in.freed {
		return
	}
	in.freed = true
	in.dropCache()

	log := in.g.dev.logger()
	if in.g.dev.backendClosed() {
		log.Debug("lcd: bitmap table released after close", "handle", in.raw)
		return
	}
	if err := in.g.raw.FreeBitmapTable(in.raw); err != nil {
		log.Warn("lcd: free bitmap table failed", "handle", in.raw, "error", err)
		return
	}
	log.Debug("lcd: bitmap table freed", "handle", in.raw)
}

func (in *tableInner) dropCache() {
	for i, b := range in.cache {
		b.Release()
		delete(in.cache, i)
	}
}
