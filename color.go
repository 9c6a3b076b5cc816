package lcd

import (
	"fmt"

	"github.com/gogpu/lcd/backend"
)

// Types shared with the backend. They are aliases so values pass through
// without conversion.
type (
	SolidColor      = backend.SolidColor
	Pattern         = backend.Pattern
	Flip            = backend.Flip
	DrawMode        = backend.DrawMode
	LineCapStyle    = backend.LineCapStyle
	PolygonFillRule = backend.PolygonFillRule
	StringEncoding  = backend.StringEncoding
	BitmapData      = backend.BitmapData
)

// Solid colors.
const (
	Black = backend.ColorBlack
	White = backend.ColorWhite
	Clear = backend.ColorClear
	XOR   = backend.ColorXOR
)

// Flips.
const (
	Unflipped = backend.Unflipped
	FlippedX  = backend.FlippedX
	FlippedY  = backend.FlippedY
	FlippedXY = backend.FlippedXY
)

// Draw modes.
const (
	DrawModeCopy             = backend.DrawModeCopy
	DrawModeWhiteTransparent = backend.DrawModeWhiteTransparent
	DrawModeBlackTransparent = backend.DrawModeBlackTransparent
	DrawModeFillWhite        = backend.DrawModeFillWhite
	DrawModeFillBlack        = backend.DrawModeFillBlack
	DrawModeXOR              = backend.DrawModeXOR
	DrawModeNXOR             = backend.DrawModeNXOR
	DrawModeInverted         = backend.DrawModeInverted
)

// Line caps.
const (
	LineCapButt   = backend.LineCapButt
	LineCapSquare = backend.LineCapSquare
	LineCapRound  = backend.LineCapRound
)

// Polygon fill rules.
const (
	FillNonZero = backend.FillNonZero
	FillEvenOdd = backend.FillEvenOdd
)

// Text encodings.
const (
	ASCIIEncoding   = backend.ASCIIEncoding
	UTF8Encoding    = backend.UTF8Encoding
	UTF16LEEncoding = backend.UTF16LEEncoding
)

// Color is a drawing color: either a solid color or an 8x8 pattern.
// The zero value is solid black.
type Color struct {
	solid   SolidColor
	pattern *Pattern
}

// Solid returns the solid color c.
func Solid(c SolidColor) Color {
	return Color{solid: c}
}

// PatternColor returns a color that tiles p. The pattern is copied.
func PatternColor(p Pattern) Color {
	return Color{pattern: &p}
}

// IsPattern reports whether c is a pattern.
func (c Color) IsPattern() bool { return c.pattern != nil }

// SolidValue returns the solid color and true, or false for a pattern.
func (c Color) SolidValue() (SolidColor, bool) {
	return c.solid, c.pattern == nil
}

// PatternValue returns a copy of the pattern and true, or false for a
// solid color.
func (c Color) PatternValue() (Pattern, bool) {
	if c.pattern == nil {
		return Pattern{}, false
	}
	return *c.pattern, true
}

func (c Color) String() string {
	if c.pattern != nil {
		return fmt.Sprintf("Pattern(%x)", c.pattern[:])
	}
	return c.solid.String()
}

func (c Color) validate() error {
	if c.pattern == nil && c.solid > XOR {
		return invalidArg("unknown solid color %d", uint8(c.solid))
	}
	return nil
}

func (c Color) toBackend() backend.Color {
	return backend.Color{Solid: c.solid, Pattern: c.pattern}
}
