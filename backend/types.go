package backend

import "fmt"

// Display geometry of the device.
const (
	// Columns is the visible width of the frame buffer in pixels.
	Columns = 400
	// Rows is the height of the frame buffer in pixels.
	Rows = 240
	// RowSize is the frame buffer row stride in bytes. Rows are 32-bit
	// aligned, so two bytes per row are padding.
	RowSize = 52
	// FrameSize is the length of the frame buffer in bytes.
	FrameSize = RowSize * Rows
)

// Bitmap is an opaque reference to a backend-owned bitmap.
// The zero value is the null handle.
type Bitmap uintptr

// IsNull reports whether b is the null handle.
func (b Bitmap) IsNull() bool { return b == 0 }

// BitmapTable is an opaque reference to a backend-owned bitmap table.
type BitmapTable uintptr

// IsNull reports whether t is the null handle.
func (t BitmapTable) IsNull() bool { return t == 0 }

// Font is an opaque reference to a backend-owned font.
// Fonts have no dedicated free call; they are released through
// System.Realloc with a size of zero.
type Font uintptr

// IsNull reports whether f is the null handle.
func (f Font) IsNull() bool { return f == 0 }

// SolidColor is one of the reserved solid drawing colors.
type SolidColor uint8

// Solid colors.
const (
	ColorBlack SolidColor = iota
	ColorWhite
	ColorClear
	ColorXOR
)

func (c SolidColor) String() string {
	switch c {
	case ColorBlack:
		return "Black"
	case ColorWhite:
		return "White"
	case ColorClear:
		return "Clear"
	case ColorXOR:
		return "XOR"
	}
	return fmt.Sprintf("SolidColor(%d)", uint8(c))
}

// Pattern is an 8x8 tiling pattern. The first eight bytes are pixel rows
// (MSB is the leftmost pixel, 1 is white), the last eight are the matching
// mask rows (1 is opaque).
type Pattern [16]byte

// Color is the value handed to drawing primitives. A nil Pattern selects
// the Solid color; otherwise the pattern is used and Solid is ignored.
type Color struct {
	Solid   SolidColor
	Pattern *Pattern
}

// IsPattern reports whether c carries a pattern.
func (c Color) IsPattern() bool { return c.Pattern != nil }

// Flip selects mirroring applied when a bitmap is drawn.
type Flip uint8

// Bitmap flips.
const (
	Unflipped Flip = iota
	FlippedX
	FlippedY
	FlippedXY
)

// FlipsX reports whether f mirrors horizontally.
func (f Flip) FlipsX() bool { return f == FlippedX || f == FlippedXY }

// FlipsY reports whether f mirrors vertically.
func (f Flip) FlipsY() bool { return f == FlippedY || f == FlippedXY }

// DrawMode controls how bitmap (and glyph) pixels are combined with the
// destination. It does not apply to primitive shapes.
type DrawMode uint8

// Bitmap draw modes.
const (
	DrawModeCopy DrawMode = iota
	DrawModeWhiteTransparent
	DrawModeBlackTransparent
	DrawModeFillWhite
	DrawModeFillBlack
	DrawModeXOR
	DrawModeNXOR
	DrawModeInverted
)

// Valid reports whether m is a known draw mode.
func (m DrawMode) Valid() bool { return m <= DrawModeInverted }

// LineCapStyle selects how line ends are drawn.
type LineCapStyle uint8

// Line cap styles.
const (
	LineCapButt LineCapStyle = iota
	LineCapSquare
	LineCapRound
)

// PolygonFillRule selects the polygon fill rule.
type PolygonFillRule uint8

// Polygon fill rules.
const (
	FillNonZero PolygonFillRule = iota
	FillEvenOdd
)

// StringEncoding identifies the encoding of text handed to text calls.
type StringEncoding uint8

// Text encodings.
const (
	ASCIIEncoding StringEncoding = iota
	UTF8Encoding
	UTF16LEEncoding
)

// Rect is an integer rectangle in device coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersect returns the largest rectangle contained by both r and s.
func (r Rect) Intersect(s Rect) Rect {
	x0, y0 := max(r.X, s.X), max(r.Y, s.Y)
	x1, y1 := min(r.X+r.Width, s.X+s.Width), min(r.Y+r.Height, s.Y+s.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// BitmapData describes a bitmap's geometry.
type BitmapData struct {
	Width    int
	Height   int
	RowBytes int
	HasMask  bool
}
