package software

import "errors"

var errHandlesClosed = errors.New("software: handle table closed")

// handleKind tags what a handle refers to so a bitmap handle cannot be
// passed where a font is expected.
type handleKind uint8

const (
	kindBitmap handleKind = iota + 1
	kindTable
	kindAlloc
)

type handleEntry struct {
	kind  handleKind
	value any
	// pinned entries belong to the device and cannot be freed by callers.
	pinned bool
}

// handleTable maps opaque handles to backend objects. Handles are never
// reused, so a stale handle stays invalid after its entry is dropped.
type handleTable struct {
	entries map[uintptr]*handleEntry
	next    uintptr
	closed  bool
}

func newHandleTable() *handleTable {
	return &handleTable{
		entries: make(map[uintptr]*handleEntry, 64),
		next:    1,
	}
}

// create stores a value and returns its handle.
func (t *handleTable) create(kind handleKind, value any, pinned bool) (uintptr, error) {
	if t.closed {
		return 0, errHandlesClosed
	}
	h := t.next
	t.next++
	t.entries[h] = &handleEntry{kind: kind, value: value, pinned: pinned}
	return h, nil
}

// get returns the entry for h if it exists and has the given kind.
func (t *handleTable) get(h uintptr, kind handleKind) (*handleEntry, bool) {
	if h == 0 {
		return nil, false
	}
	e, ok := t.entries[h]
	if !ok || e.kind != kind {
		return nil, false
	}
	return e, true
}

// drop removes h from the table.
func (t *handleTable) drop(h uintptr) {
	delete(t.entries, h)
}

// count returns the number of live entries of the given kind.
func (t *handleTable) count(kind handleKind) int {
	n := 0
	for _, e := range t.entries {
		if e.kind == kind {
			n++
		}
	}
	return n
}

// close drops every entry and rejects further creates.
func (t *handleTable) close() {
	clear(t.entries)
	t.closed = true
}
