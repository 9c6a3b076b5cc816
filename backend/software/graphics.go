package software

import (
	"fmt"

	"github.com/gogpu/lcd/backend"
)

// graphics implements backend.Graphics on the simulated device.
type graphics struct {
	d *device
}

var _ backend.Graphics = (*graphics)(nil)

func (g *graphics) NewBitmap(width, height int, bg backend.Color) (backend.Bitmap, error) {
	if err := g.d.ready(); err != nil {
		return 0, err
	}
	if width <= 0 || height <= 0 {
		return 0, nil
	}
	p := newPlane(width, height)
	(&canvas{p: p}).fill(bg)
	return g.d.newBitmap(p)
}

func (g *graphics) FreeBitmap(b backend.Bitmap) error {
	d := g.d
	if err := d.ready(); err != nil {
		return err
	}
	e, ok := d.handles.get(uintptr(b), kindBitmap)
	if !ok {
		return fmt.Errorf("software: free: %w: bitmap %d", backend.ErrInvalidHandle, b)
	}
	if e.pinned {
		return fmt.Errorf("software: free: %w: bitmap %d belongs to the device", backend.ErrInvalidHandle, b)
	}
	if d.inUse(e.value.(*plane)) {
		return fmt.Errorf("software: free: bitmap %d is a drawing target", b)
	}
	d.handles.drop(uintptr(b))
	d.stats.BitmapsFreed++
	d.log.Debug("software: bitmap freed", "handle", b)
	return nil
}

func (g *graphics) LoadBitmap(path string) (backend.Bitmap, string, error) {
	if err := g.d.ready(); err != nil {
		return 0, "", err
	}
	p, msg := g.d.loadPlane(path)
	if p == nil {
		return 0, msg, nil
	}
	h, err := g.d.newBitmap(p)
	return h, "", err
}

func (g *graphics) LoadIntoBitmap(path string, b backend.Bitmap) (string, error) {
	if err := g.d.ready(); err != nil {
		return "", err
	}
	dst, err := g.d.bitmap(b)
	if err != nil {
		return "", err
	}
	// Device planes keep their fixed geometry.
	if e, ok := g.d.handles.get(uintptr(b), kindBitmap); ok && e.pinned {
		return "", fmt.Errorf("software: load: %w: bitmap %d belongs to the device", backend.ErrInvalidHandle, b)
	}
	p, msg := g.d.loadPlane(path)
	if p == nil {
		return msg, nil
	}
	*dst = *p
	return "", nil
}

func (g *graphics) CopyBitmap(b backend.Bitmap) (backend.Bitmap, error) {
	if err := g.d.ready(); err != nil {
		return 0, err
	}
	p, err := g.d.bitmap(b)
	if err != nil {
		return 0, err
	}
	return g.d.newBitmap(p.clone())
}

func (g *graphics) RotatedBitmap(b backend.Bitmap, degrees, xscale, yscale float32) (backend.Bitmap, error) {
	if err := g.d.ready(); err != nil {
		return 0, err
	}
	p, err := g.d.bitmap(b)
	if err != nil {
		return 0, err
	}
	r := rotatedCopy(p, float64(degrees), float64(xscale), float64(yscale))
	if r == nil {
		return 0, nil
	}
	return g.d.newBitmap(r)
}

func (g *graphics) GetBitmapData(b backend.Bitmap) (backend.BitmapData, error) {
	if err := g.d.ready(); err != nil {
		return backend.BitmapData{}, err
	}
	p, err := g.d.bitmap(b)
	if err != nil {
		return backend.BitmapData{}, err
	}
	return backend.BitmapData{
		Width:    p.width,
		Height:   p.height,
		RowBytes: p.stride,
		HasMask:  p.mask != nil,
	}, nil
}

func (g *graphics) ClearBitmap(b backend.Bitmap, c backend.Color) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	p, err := g.d.bitmap(b)
	if err != nil {
		return err
	}
	(&canvas{p: p}).fill(c)
	return nil
}

// source resolves a bitmap to draw. Drawing a bitmap into itself reads
// from a snapshot.
func (g *graphics) source(b backend.Bitmap) (*plane, *canvas, error) {
	if err := g.d.ready(); err != nil {
		return nil, nil, err
	}
	src, err := g.d.bitmap(b)
	if err != nil {
		return nil, nil, err
	}
	c := g.d.canvas()
	if src == c.p {
		src = src.clone()
	}
	return src, c, nil
}

func (g *graphics) DrawBitmap(b backend.Bitmap, x, y int, flip backend.Flip) error {
	src, c, err := g.source(b)
	if err != nil {
		return err
	}
	x, y = g.d.offset(x, y)
	c.drawPlane(src, x, y, flip, g.d.state.mode)
	return nil
}

func (g *graphics) DrawScaledBitmap(b backend.Bitmap, x, y int, xscale, yscale float32) error {
	src, c, err := g.source(b)
	if err != nil {
		return err
	}
	x, y = g.d.offset(x, y)
	c.scaledPlane(src, x, y, float64(xscale), float64(yscale), g.d.state.mode)
	return nil
}

func (g *graphics) DrawRotatedBitmap(b backend.Bitmap, x, y int, degrees, centerx, centery, xscale, yscale float32) error {
	src, c, err := g.source(b)
	if err != nil {
		return err
	}
	x, y = g.d.offset(x, y)
	c.rotatedPlane(src, x, y, float64(degrees), float64(centerx), float64(centery),
		float64(xscale), float64(yscale), g.d.state.mode)
	return nil
}

func (g *graphics) TileBitmap(b backend.Bitmap, x, y, width, height int, flip backend.Flip) error {
	src, c, err := g.source(b)
	if err != nil {
		return err
	}
	x, y = g.d.offset(x, y)
	c.tilePlane(src, x, y, width, height, flip, g.d.state.mode)
	return nil
}

func (g *graphics) CheckMaskCollision(a backend.Bitmap, ax, ay int, aflip backend.Flip, b backend.Bitmap, bx, by int, bflip backend.Flip, rect backend.Rect) (int, error) {
	if err := g.d.ready(); err != nil {
		return 0, err
	}
	pa, err := g.d.bitmap(a)
	if err != nil {
		return 0, err
	}
	pb, err := g.d.bitmap(b)
	if err != nil {
		return 0, err
	}
	g.d.stats.CollisionChecks++
	return collision(pa, ax, ay, aflip, pb, bx, by, bflip, rect), nil
}

func (g *graphics) SetColorToPattern(b backend.Bitmap, x, y int) (backend.Pattern, error) {
	if err := g.d.ready(); err != nil {
		return backend.Pattern{}, err
	}
	p, err := g.d.bitmap(b)
	if err != nil {
		return backend.Pattern{}, err
	}
	return patternAt(p, x, y), nil
}

func (g *graphics) NewBitmapTable(count, width, height int) (backend.BitmapTable, error) {
	if err := g.d.ready(); err != nil {
		return 0, err
	}
	if count <= 0 || width <= 0 || height <= 0 {
		return 0, nil
	}
	t := &table{cells: make([]*plane, count), cellsWide: count}
	for i := range t.cells {
		t.cells[i] = newPlane(width, height)
	}
	return g.d.newTable(t)
}

func (g *graphics) FreeBitmapTable(t backend.BitmapTable) error {
	d := g.d
	if err := d.ready(); err != nil {
		return err
	}
	if _, err := d.table(t); err != nil {
		return err
	}
	d.handles.drop(uintptr(t))
	d.stats.TablesFreed++
	d.log.Debug("software: table freed", "handle", t)
	return nil
}

func (g *graphics) LoadBitmapTable(path string) (backend.BitmapTable, string, error) {
	if err := g.d.ready(); err != nil {
		return 0, "", err
	}
	t, msg := g.d.loadTable(path)
	if t == nil {
		return 0, msg, nil
	}
	h, err := g.d.newTable(t)
	return h, "", err
}

func (g *graphics) LoadIntoBitmapTable(path string, t backend.BitmapTable) (string, error) {
	if err := g.d.ready(); err != nil {
		return "", err
	}
	dst, err := g.d.table(t)
	if err != nil {
		return "", err
	}
	loaded, msg := g.d.loadTable(path)
	if loaded == nil {
		return msg, nil
	}
	*dst = *loaded
	return "", nil
}

// GetTableBitmap returns a new handle viewing cell index. Drawing into the
// view draws into the cell; freeing the view leaves the table intact.
func (g *graphics) GetTableBitmap(t backend.BitmapTable, index int) (backend.Bitmap, error) {
	if err := g.d.ready(); err != nil {
		return 0, err
	}
	tb, err := g.d.table(t)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(tb.cells) {
		return 0, nil
	}
	return g.d.newBitmap(tb.cells[index])
}

func (g *graphics) GetBitmapTableInfo(t backend.BitmapTable) (int, int, error) {
	if err := g.d.ready(); err != nil {
		return 0, 0, err
	}
	tb, err := g.d.table(t)
	if err != nil {
		return 0, 0, err
	}
	return len(tb.cells), tb.cellsWide, nil
}

func (g *graphics) PushContext(target backend.Bitmap) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	return g.d.pushContext(target)
}

func (g *graphics) PopContext() error {
	if err := g.d.ready(); err != nil {
		return err
	}
	return g.d.popContext()
}

func (g *graphics) GetFrame() ([]byte, error) {
	if err := g.d.ready(); err != nil {
		return nil, err
	}
	return g.d.frame.pix, nil
}

func (g *graphics) GetDisplayFrame() ([]byte, error) {
	if err := g.d.ready(); err != nil {
		return nil, err
	}
	return g.d.shown.pix, nil
}

func (g *graphics) GetDebugBitmap() (backend.Bitmap, error) {
	d := g.d
	if err := d.ready(); err != nil {
		return 0, err
	}
	if d.debugHandle.IsNull() {
		h, err := d.pinBitmap(d.debug)
		if err != nil {
			return 0, err
		}
		d.debugHandle = h
	}
	return d.debugHandle, nil
}

func (g *graphics) CopyFrameBufferBitmap() (backend.Bitmap, error) {
	if err := g.d.ready(); err != nil {
		return 0, err
	}
	return g.d.newBitmap(g.d.frame.clone())
}

func (g *graphics) GetDisplayBufferBitmap() (backend.Bitmap, error) {
	d := g.d
	if err := d.ready(); err != nil {
		return 0, err
	}
	if d.displayHandle.IsNull() {
		h, err := d.pinBitmap(d.shown)
		if err != nil {
			return 0, err
		}
		d.displayHandle = h
	}
	return d.displayHandle, nil
}

func (g *graphics) MarkUpdatedRows(start, end int) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	if start < 0 || end >= backend.Rows || start > end {
		return fmt.Errorf("software: row range %d..%d outside 0..%d", start, end, backend.Rows-1)
	}
	g.d.dirty.add(start, end)
	return nil
}

// Display copies the rows changed since the last flush to the display
// buffer.
func (g *graphics) Display() error {
	d := g.d
	if err := d.ready(); err != nil {
		return err
	}
	if d.dirty.valid {
		d.shown.copyRows(d.frame, d.dirty.lo, d.dirty.hi)
		d.log.Debug("software: display", "rows", d.dirty.hi-d.dirty.lo+1)
		d.dirty.reset()
	}
	d.stats.Flushes++
	return nil
}

func (g *graphics) SetDrawOffset(dx, dy int) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	g.d.state.offX, g.d.state.offY = dx, dy
	return nil
}

func (g *graphics) SetDrawMode(mode backend.DrawMode) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	return g.d.setDrawMode(mode)
}

func (g *graphics) SetBackgroundColor(c backend.SolidColor) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	if c > backend.ColorXOR {
		return fmt.Errorf("software: unknown color %s", c)
	}
	g.d.bg = c
	return nil
}

func (g *graphics) SetLineCapStyle(style backend.LineCapStyle) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	return g.d.setLineCapStyle(style)
}

func (g *graphics) Clear(c backend.Color) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	g.d.canvas().fill(c)
	return nil
}

func (g *graphics) DrawLine(x1, y1, x2, y2, width int, c backend.Color) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	x1, y1 = g.d.offset(x1, y1)
	x2, y2 = g.d.offset(x2, y2)
	g.d.canvas().line(x1, y1, x2, y2, width, g.d.state.cap, c)
	return nil
}

func (g *graphics) FillTriangle(x1, y1, x2, y2, x3, y3 int, c backend.Color) error {
	return g.FillPolygon([]int{x1, y1, x2, y2, x3, y3}, c, backend.FillNonZero)
}

func (g *graphics) DrawRect(x, y, width, height int, c backend.Color) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	x, y = g.d.offset(x, y)
	g.d.canvas().strokeRect(x, y, width, height, c)
	return nil
}

func (g *graphics) FillRect(x, y, width, height int, c backend.Color) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	x, y = g.d.offset(x, y)
	g.d.canvas().fillRect(x, y, width, height, c)
	return nil
}

func (g *graphics) DrawEllipse(x, y, width, height, lineWidth int, startAngle, endAngle float32, c backend.Color) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	if lineWidth <= 0 {
		return nil
	}
	x, y = g.d.offset(x, y)
	g.d.canvas().ellipse(x, y, width, height, lineWidth, startAngle, endAngle, c)
	return nil
}

func (g *graphics) FillEllipse(x, y, width, height int, startAngle, endAngle float32, c backend.Color) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	x, y = g.d.offset(x, y)
	g.d.canvas().ellipse(x, y, width, height, 0, startAngle, endAngle, c)
	return nil
}

func (g *graphics) FillPolygon(coords []int, c backend.Color, rule backend.PolygonFillRule) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	if len(coords)%2 != 0 || len(coords) < 6 {
		return fmt.Errorf("software: polygon needs at least 3 x, y pairs, got %d values", len(coords))
	}
	pts := make([]fpoint, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		x, y := g.d.offset(coords[i], coords[i+1])
		pts = append(pts, fpoint{float64(x), float64(y)})
	}
	g.d.canvas().fillPolygon(pts, rule, c)
	return nil
}

func (g *graphics) LoadFont(path string) (backend.Font, string, error) {
	d := g.d
	if err := d.ready(); err != nil {
		return 0, "", err
	}
	f, msg := d.loadFont(path)
	if f == nil {
		return 0, msg, nil
	}
	h, err := d.handles.create(kindAlloc, f, false)
	if err != nil {
		return 0, "", err
	}
	d.stats.FontsLoaded++
	d.log.Debug("software: font loaded", "handle", h, "name", f.name)
	return backend.Font(h), "", nil
}

func (g *graphics) SetFont(f backend.Font) error {
	if err := g.d.ready(); err != nil {
		return err
	}
	if f.IsNull() {
		g.d.state.font = nil
		return nil
	}
	ff, err := g.d.font(f)
	if err != nil {
		return err
	}
	g.d.state.font = ff
	return nil
}

func (g *graphics) DrawText(text []byte, enc backend.StringEncoding, x, y int) (int, error) {
	d := g.d
	if err := d.ready(); err != nil {
		return 0, err
	}
	s, err := decodeText(text, enc)
	if err != nil {
		return 0, err
	}
	f := d.state.font
	if f == nil {
		f = d.systemFont
	}
	x, y = d.offset(x, y)
	return d.canvas().drawText(f, s, x, y, d.state.mode), nil
}

func (g *graphics) GetTextWidth(f backend.Font, text []byte, enc backend.StringEncoding, tracking int) (int, error) {
	if err := g.d.ready(); err != nil {
		return 0, err
	}
	ff, err := g.d.fontOrSystem(f)
	if err != nil {
		return 0, err
	}
	s, err := decodeText(text, enc)
	if err != nil {
		return 0, err
	}
	return ff.width(s, tracking), nil
}

func (g *graphics) GetFontHeight(f backend.Font) (int, error) {
	if err := g.d.ready(); err != nil {
		return 0, err
	}
	ff, err := g.d.fontOrSystem(f)
	if err != nil {
		return 0, err
	}
	return ff.height, nil
}

func (d *device) font(h backend.Font) (*fontFace, error) {
	e, ok := d.handles.get(uintptr(h), kindAlloc)
	if ok {
		if f, isFont := e.value.(*fontFace); isFont {
			return f, nil
		}
	}
	return nil, fmt.Errorf("software: %w: font %d", backend.ErrInvalidHandle, h)
}

func (d *device) fontOrSystem(h backend.Font) (*fontFace, error) {
	if h.IsNull() {
		return d.systemFont, nil
	}
	return d.font(h)
}
