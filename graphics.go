package lcd

import (
	"fmt"
	"unicode/utf8"

	"github.com/gogpu/lcd/backend"
)

// Frame buffer geometry.
const (
	Columns   = backend.Columns
	Rows      = backend.Rows
	RowSize   = backend.RowSize
	FrameSize = backend.FrameSize
)

// FrameBuffer is the device frame buffer: Rows rows of RowSize bytes,
// leftmost pixel in the most significant bit, 1 for white. Only the
// first Columns bits of each row are visible.
type FrameBuffer [FrameSize]byte

// Row returns the bytes of row y.
func (f *FrameBuffer) Row(y int) []byte {
	return f[y*RowSize : (y+1)*RowSize]
}

// White reports whether the pixel at (x, y) is white. Pixels outside
// the visible area read as black.
func (f *FrameBuffer) White(x, y int) bool {
	if x < 0 || y < 0 || x >= Columns || y >= Rows {
		return false
	}
	return f[y*RowSize+x>>3]&(0x80>>(x&7)) != 0
}

// Set sets the pixel at (x, y). Pixels outside the visible area are
// ignored. Rows changed this way must be marked with MarkUpdatedRows.
func (f *FrameBuffer) Set(x, y int, white bool) {
	if x < 0 || y < 0 || x >= Columns || y >= Rows {
		return
	}
	i, bit := y*RowSize+x>>3, byte(0x80>>(x&7))
	if white {
		f[i] |= bit
	} else {
		f[i] &^= bit
	}
}

// Graphics is the drawing facade of a Device. Drawing goes to the frame
// buffer unless redirected with PushContext.
type Graphics struct {
	dev   *Device
	raw   backend.Graphics
	stack []*Bitmap // nil entries redirect to the frame buffer
}

// Frame returns the working frame buffer. Writes go straight to the
// device memory.
func (g *Graphics) Frame() (*FrameBuffer, error) {
	buf, err := g.raw.GetFrame()
	if err != nil {
		return nil, queryErr("frame", err)
	}
	return frameBuffer(buf)
}

// DisplayFrame returns the buffer currently on the display.
func (g *Graphics) DisplayFrame() (*FrameBuffer, error) {
	buf, err := g.raw.GetDisplayFrame()
	if err != nil {
		return nil, queryErr("display frame", err)
	}
	return frameBuffer(buf)
}

func frameBuffer(buf []byte) (*FrameBuffer, error) {
	if len(buf) < FrameSize {
		return nil, fmt.Errorf("%w: frame buffer is %d bytes, want %d", ErrQueryFailed, len(buf), FrameSize)
	}
	return (*FrameBuffer)(buf[:FrameSize]), nil
}

// MarkUpdatedRows marks rows start through end, inclusive, for the next
// Display.
func (g *Graphics) MarkUpdatedRows(start, end int) error {
	if start < 0 || end >= Rows || start > end {
		return invalidArg("row range [%d, %d]", start, end)
	}
	if err := g.raw.MarkUpdatedRows(start, end); err != nil {
		return callErr("mark updated rows", err)
	}
	return nil
}

// Display copies the updated rows of the frame buffer to the display.
func (g *Graphics) Display() error {
	if err := g.raw.Display(); err != nil {
		return callErr("display", err)
	}
	return nil
}

// SetDrawOffset translates all later drawing in the active context.
func (g *Graphics) SetDrawOffset(v Vector) error {
	if err := g.raw.SetDrawOffset(v.DX, v.DY); err != nil {
		return callErr("set draw offset", err)
	}
	return nil
}

// SetDrawMode sets how bitmaps and text combine with the destination.
func (g *Graphics) SetDrawMode(mode DrawMode) error {
	if !mode.Valid() {
		return invalidArg("draw mode %d", mode)
	}
	if err := g.raw.SetDrawMode(mode); err != nil {
		return callErr("set draw mode", err)
	}
	return nil
}

// SetBackgroundColor sets the color shown outside the drawn area.
func (g *Graphics) SetBackgroundColor(c SolidColor) error {
	if c > XOR {
		return invalidArg("background color %d", c)
	}
	if err := g.raw.SetBackgroundColor(c); err != nil {
		return callErr("set background color", err)
	}
	return nil
}

// SetLineCapStyle sets the end caps of lines wider than one pixel.
func (g *Graphics) SetLineCapStyle(style LineCapStyle) error {
	if style > LineCapRound {
		return invalidArg("line cap style %d", style)
	}
	if err := g.raw.SetLineCapStyle(style); err != nil {
		return callErr("set line cap style", err)
	}
	return nil
}

// Clear fills the active context with c.
func (g *Graphics) Clear(c Color) error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := g.raw.Clear(c.toBackend()); err != nil {
		return callErr("clear", err)
	}
	return nil
}

// DrawLine draws a line of the given width from p1 to p2.
func (g *Graphics) DrawLine(p1, p2 Point, width int, c Color) error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := g.raw.DrawLine(p1.X, p1.Y, p2.X, p2.Y, width, c.toBackend()); err != nil {
		return callErr("draw line", err)
	}
	return nil
}

// FillTriangle fills the triangle p1, p2, p3.
func (g *Graphics) FillTriangle(p1, p2, p3 Point, c Color) error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := g.raw.FillTriangle(p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y, c.toBackend()); err != nil {
		return callErr("fill triangle", err)
	}
	return nil
}

// FillPolygon fills the polygon through points with the given rule. At
// least three points are required.
func (g *Graphics) FillPolygon(points []Point, c Color, rule PolygonFillRule) error {
	if len(points) < 3 {
		return invalidArg("polygon with %d points", len(points))
	}
	if rule > FillEvenOdd {
		return invalidArg("fill rule %d", rule)
	}
	if err := c.validate(); err != nil {
		return err
	}
	coords := make([]int, 0, 2*len(points))
	for _, p := range points {
		coords = append(coords, p.X, p.Y)
	}
	if err := g.raw.FillPolygon(coords, c.toBackend(), rule); err != nil {
		return callErr("fill polygon", err)
	}
	return nil
}

// DrawRect outlines r with a one pixel line.
func (g *Graphics) DrawRect(r Rect, c Color) error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := g.raw.DrawRect(r.X, r.Y, r.Width, r.Height, c.toBackend()); err != nil {
		return callErr("draw rect", err)
	}
	return nil
}

// FillRect fills r.
func (g *Graphics) FillRect(r Rect, c Color) error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := g.raw.FillRect(r.X, r.Y, r.Width, r.Height, c.toBackend()); err != nil {
		return callErr("fill rect", err)
	}
	return nil
}

// DrawEllipse strokes the ellipse inscribed in the rectangle at origin
// of the given size. Angles are degrees clockwise from north; equal
// angles draw the whole ellipse.
func (g *Graphics) DrawEllipse(origin Point, size Size, lineWidth int, startAngle, endAngle float32, c Color) error {
	if err := c.validate(); err != nil {
		return err
	}
	err := g.raw.DrawEllipse(origin.X, origin.Y, size.Width, size.Height, lineWidth, startAngle, endAngle, c.toBackend())
	if err != nil {
		return callErr("draw ellipse", err)
	}
	return nil
}

// FillEllipse fills the ellipse, or the pie slice between the angles.
func (g *Graphics) FillEllipse(origin Point, size Size, startAngle, endAngle float32, c Color) error {
	if err := c.validate(); err != nil {
		return err
	}
	err := g.raw.FillEllipse(origin.X, origin.Y, size.Width, size.Height, startAngle, endAngle, c.toBackend())
	if err != nil {
		return callErr("fill ellipse", err)
	}
	return nil
}

// DrawText draws text in the current font at at and returns its width.
func (g *Graphics) DrawText(text string, at Point) (int, error) {
	if !utf8.ValidString(text) {
		return 0, invalidArg("text is not valid UTF-8")
	}
	return g.DrawTextEncoded([]byte(text), UTF8Encoding, at)
}

// DrawTextEncoded draws text given in enc and returns its width.
func (g *Graphics) DrawTextEncoded(data []byte, enc StringEncoding, at Point) (int, error) {
	if enc > UTF16LEEncoding {
		return 0, invalidArg("string encoding %d", enc)
	}
	w, err := g.raw.DrawText(data, enc, at.X, at.Y)
	if err != nil {
		return 0, callErr("draw text", err)
	}
	return w, nil
}

// SetFont selects the font for DrawText. A nil font selects the system
// font.
func (g *Graphics) SetFont(f *Font) error {
	raw, err := rawFont(f)
	if err != nil {
		return err
	}
	if err := g.raw.SetFont(raw); err != nil {
		return callErr("set font", err)
	}
	return nil
}

// TextWidth measures text in f with tracking pixels between characters.
// A nil font measures with the system font.
func (g *Graphics) TextWidth(f *Font, text string, tracking int) (int, error) {
	raw, err := rawFont(f)
	if err != nil {
		return 0, err
	}
	w, err := g.raw.GetTextWidth(raw, []byte(text), UTF8Encoding, tracking)
	if err != nil {
		return 0, queryErr("text width", err)
	}
	return w, nil
}

// SystemTextWidth measures text in the system font.
func (g *Graphics) SystemTextWidth(text string, tracking int) (int, error) {
	return g.TextWidth(nil, text, tracking)
}

// FontHeight returns the line height of f, or of the system font when f
// is nil.
func (g *Graphics) FontHeight(f *Font) (int, error) {
	raw, err := rawFont(f)
	if err != nil {
		return 0, err
	}
	h, err := g.raw.GetFontHeight(raw)
	if err != nil {
		return 0, queryErr("font height", err)
	}
	return h, nil
}

// SystemFontHeight returns the line height of the system font.
func (g *Graphics) SystemFontHeight() int {
	return SystemFontHeight
}

// NewBitmap returns a new owned bitmap of the given size filled with bg.
func (g *Graphics) NewBitmap(size Size, bg Color) (*Bitmap, error) {
	if size.Empty() {
		return nil, invalidArg("bitmap size %dx%d", size.Width, size.Height)
	}
	if err := bg.validate(); err != nil {
		return nil, err
	}
	raw, err := g.raw.NewBitmap(size.Width, size.Height, bg.toBackend())
	if err != nil {
		return nil, callErr("new bitmap", err)
	}
	if raw.IsNull() {
		return nil, fmt.Errorf("%w: new bitmap %dx%d", ErrCreationFailed, size.Width, size.Height)
	}
	return newBitmap(g, raw, true), nil
}

// NewBitmapFromHandle wraps a handle obtained directly from the backend.
// Owned handles are freed with the last reference.
func (g *Graphics) NewBitmapFromHandle(raw backend.Bitmap, owned bool) (*Bitmap, error) {
	if raw.IsNull() {
		return nil, ErrCreationFailed
	}
	return newBitmap(g, raw, owned), nil
}

// LoadBitmap decodes the image at path into a new owned bitmap.
func (g *Graphics) LoadBitmap(path string) (*Bitmap, error) {
	raw, msg, err := g.raw.LoadBitmap(path)
	if err != nil || raw.IsNull() {
		return nil, &LoadError{Kind: "bitmap", Path: path, Message: msg, Err: err}
	}
	return newBitmap(g, raw, true), nil
}

// NewBitmapTable returns a table of count bitmaps of the given size.
func (g *Graphics) NewBitmapTable(count int, size Size) (*BitmapTable, error) {
	if count < 0 || size.Width < 0 || size.Height < 0 {
		return nil, invalidArg("bitmap table of %d %dx%d", count, size.Width, size.Height)
	}
	raw, err := g.raw.NewBitmapTable(count, size.Width, size.Height)
	if err != nil {
		return nil, callErr("new bitmap table", err)
	}
	if raw.IsNull() {
		return nil, fmt.Errorf("%w: new bitmap table of %d", ErrCreationFailed, count)
	}
	return newBitmapTable(g, raw), nil
}

// LoadBitmapTable decodes the image table at path.
func (g *Graphics) LoadBitmapTable(path string) (*BitmapTable, error) {
	raw, msg, err := g.raw.LoadBitmapTable(path)
	if err != nil || raw.IsNull() {
		return nil, &LoadError{Kind: "bitmap table", Path: path, Message: msg, Err: err}
	}
	return newBitmapTable(g, raw), nil
}

// LoadFont loads the font at path.
func (g *Graphics) LoadFont(path string) (*Font, error) {
	raw, msg, err := g.raw.LoadFont(path)
	if err != nil || raw.IsNull() {
		return nil, &LoadError{Kind: "font", Path: path, Message: msg, Err: err}
	}
	g.dev.logger().Debug("lcd: font loaded", "handle", raw, "path", path)
	return &Font{g: g, raw: raw}, nil
}

// DebugBitmap returns the debug overlay bitmap. It is borrowed and never
// freed by this package.
func (g *Graphics) DebugBitmap() (*Bitmap, error) {
	return g.special("debug bitmap", g.raw.GetDebugBitmap, false)
}

// FrameBufferBitmap returns an owned copy of the working frame buffer.
func (g *Graphics) FrameBufferBitmap() (*Bitmap, error) {
	return g.special("frame buffer bitmap", g.raw.CopyFrameBufferBitmap, true)
}

// DisplayBufferBitmap returns the live display buffer as a borrowed
// bitmap.
func (g *Graphics) DisplayBufferBitmap() (*Bitmap, error) {
	return g.special("display buffer bitmap", g.raw.GetDisplayBufferBitmap, false)
}

func (g *Graphics) special(op string, get func() (backend.Bitmap, error), owned bool) (*Bitmap, error) {
	raw, err := get()
	if err != nil {
		return nil, callErr(op, err)
	}
	if raw.IsNull() {
		return nil, fmt.Errorf("%w: %s", ErrCreationFailed, op)
	}
	return newBitmap(g, raw, owned), nil
}
