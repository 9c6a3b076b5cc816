package backend

import (
	"errors"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrInvalidHandle is returned when a call receives a handle the backend
	// does not know about, or one that has already been freed.
	ErrInvalidHandle = errors.New("backend: invalid handle")

	// ErrContextUnderflow is returned by PopContext without a matching push.
	ErrContextUnderflow = errors.New("backend: context stack is empty")
)

// Backend is the capability table of a drawing device. It groups the
// graphics, display and system entry points the lcd package calls into.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type Backend interface {
	// Name returns the backend identifier (e.g., "software").
	Name() string

	// Init initializes the backend.
	// This should be called before any other call.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	Graphics() Graphics
	Display() Display
	System() System
}

// Graphics is the drawing half of the capability table.
//
// Factory calls return a null handle when they cannot produce one. Load
// calls additionally return the backend's human readable message, which
// may be empty. The error return is reserved for the call itself failing,
// for example because it was given an unknown handle.
type Graphics interface {
	NewBitmap(width, height int, bg Color) (Bitmap, error)
	FreeBitmap(b Bitmap) error
	LoadBitmap(path string) (Bitmap, string, error)
	LoadIntoBitmap(path string, b Bitmap) (string, error)
	CopyBitmap(b Bitmap) (Bitmap, error)
	RotatedBitmap(b Bitmap, degrees, xscale, yscale float32) (Bitmap, error)
	GetBitmapData(b Bitmap) (BitmapData, error)
	ClearBitmap(b Bitmap, c Color) error

	DrawBitmap(b Bitmap, x, y int, flip Flip) error
	DrawScaledBitmap(b Bitmap, x, y int, xscale, yscale float32) error
	// DrawRotatedBitmap draws b with its unrotated, scaled top-left corner at
	// (x, y), rotated degrees clockwise about the point (centerx, centery)
	// given as fractions of the bitmap's size.
	DrawRotatedBitmap(b Bitmap, x, y int, degrees, centerx, centery, xscale, yscale float32) error
	TileBitmap(b Bitmap, x, y, width, height int, flip Flip) error
	// CheckMaskCollision returns the number of overlapping opaque pixels of
	// the two positioned bitmaps inside rect.
	CheckMaskCollision(a Bitmap, ax, ay int, aflip Flip, b Bitmap, bx, by int, bflip Flip, rect Rect) (int, error)
	SetColorToPattern(b Bitmap, x, y int) (Pattern, error)

	NewBitmapTable(count, width, height int) (BitmapTable, error)
	FreeBitmapTable(t BitmapTable) error
	LoadBitmapTable(path string) (BitmapTable, string, error)
	LoadIntoBitmapTable(path string, t BitmapTable) (string, error)
	GetTableBitmap(t BitmapTable, index int) (Bitmap, error)
	GetBitmapTableInfo(t BitmapTable) (count, cellsWide int, err error)

	// PushContext redirects drawing into target, or into the frame buffer
	// when target is null.
	PushContext(target Bitmap) error
	PopContext() error

	GetFrame() ([]byte, error)
	GetDisplayFrame() ([]byte, error)
	GetDebugBitmap() (Bitmap, error)
	CopyFrameBufferBitmap() (Bitmap, error)
	GetDisplayBufferBitmap() (Bitmap, error)
	MarkUpdatedRows(start, end int) error
	Display() error

	SetDrawOffset(dx, dy int) error
	SetDrawMode(mode DrawMode) error
	SetBackgroundColor(c SolidColor) error
	SetLineCapStyle(style LineCapStyle) error

	Clear(c Color) error
	DrawLine(x1, y1, x2, y2, width int, c Color) error
	FillTriangle(x1, y1, x2, y2, x3, y3 int, c Color) error
	DrawRect(x, y, width, height int, c Color) error
	FillRect(x, y, width, height int, c Color) error
	DrawEllipse(x, y, width, height, lineWidth int, startAngle, endAngle float32, c Color) error
	FillEllipse(x, y, width, height int, startAngle, endAngle float32, c Color) error
	// FillPolygon fills the polygon whose vertices are stored as
	// consecutive x, y pairs in coords.
	FillPolygon(coords []int, c Color, rule PolygonFillRule) error

	LoadFont(path string) (Font, string, error)
	SetFont(f Font) error
	// DrawText draws text with the current font and returns the width of
	// the drawn text in pixels.
	DrawText(text []byte, enc StringEncoding, x, y int) (int, error)
	// GetTextWidth measures text in font f; a null font selects the
	// system font.
	GetTextWidth(f Font, text []byte, enc StringEncoding, tracking int) (int, error)
	GetFontHeight(f Font) (int, error)
}

// Display is the display half of the capability table.
type Display interface {
	GetWidth() (int, error)
	GetHeight() (int, error)
	SetInverted(inverted bool) error
	SetScale(scale uint) error
	SetMosaic(x, y uint) error
	SetOffset(dx, dy int) error
	SetRefreshRate(rate float32) error
	SetFlipped(x, y bool) error
}

// System is the subset of the system capability table the lcd package uses.
type System interface {
	// Realloc allocates when ptr is zero, resizes otherwise, and frees ptr
	// when size is zero. It returns the (possibly moved) allocation, or
	// zero after a free.
	Realloc(ptr uintptr, size int) uintptr
	LogToConsole(msg string)
}
