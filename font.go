package lcd

import "github.com/gogpu/lcd/backend"

// SystemFontHeight is the line height of the built-in system font.
const SystemFontHeight = 14

// Font is a loaded font. It has a single owner; Release gives it back
// to the backend.
type Font struct {
	g        *Graphics
	raw      backend.Font
	released bool
}

// Release frees the font. The backend has no font free call, so the
// handle goes back through a zero-size reallocation. Releasing twice is
// a no-op.
func (f *Font) Release() {
	if f.Released() {
		return
	}
	f.released = true
	log := f.g.dev.logger()
	if f.g.dev.backendClosed() {
		log.Debug("lcd: font released after close", "handle", f.raw)
		return
	}
	f.g.dev.system.raw.Realloc(uintptr(f.raw), 0)
	log.Debug("lcd: font freed", "handle", f.raw)
}

// Released reports whether Release has been called.
func (f *Font) Released() bool { return f == nil || f.g == nil || f.released }

// Handle returns the native handle, or the null handle once released.
func (f *Font) Handle() backend.Font {
	if f.Released() {
		return 0
	}
	return f.raw
}

// Height returns the font's line height.
func (f *Font) Height() (int, error) {
	if f.Released() {
		return 0, ErrReleased
	}
	return f.g.FontHeight(f)
}

// TextWidth measures text in the font.
func (f *Font) TextWidth(text string, tracking int) (int, error) {
	if f.Released() {
		return 0, ErrReleased
	}
	return f.g.TextWidth(f, text, tracking)
}

// rawFont resolves f for a backend call. A nil font is the system font.
func rawFont(f *Font) (backend.Font, error) {
	if f == nil {
		return 0, nil
	}
	if f.Released() {
		return 0, ErrReleased
	}
	return f.raw, nil
}
