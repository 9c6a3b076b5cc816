package software

import (
	"math"

	"github.com/gogpu/lcd/backend"
)

// flipIndex maps a destination offset to a source index along one axis.
func flipIndex(i, n int, flipped bool) int {
	if flipped {
		return n - 1 - i
	}
	return i
}

// drawPlane draws src with its top-left at (x, y).
func (c *canvas) drawPlane(src *plane, x, y int, flip backend.Flip, mode backend.DrawMode) {
	for sy := 0; sy < src.height; sy++ {
		dy := y + sy
		if dy < 0 || dy >= c.p.height {
			continue
		}
		ry := flipIndex(sy, src.height, flip.FlipsY())
		for sx := 0; sx < src.width; sx++ {
			rx := flipIndex(sx, src.width, flip.FlipsX())
			if !src.opaque(rx, ry) {
				continue
			}
			c.blit(x+sx, dy, src.white(rx, ry), mode)
		}
	}
}

// tilePlane repeats src across the rectangle, flipping each tile.
func (c *canvas) tilePlane(src *plane, x, y, w, h int, flip backend.Flip, mode backend.DrawMode) {
	if w <= 0 || h <= 0 || src.width == 0 || src.height == 0 {
		return
	}
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, c.p.width), min(y+h, c.p.height)
	for py := y0; py < y1; py++ {
		ry := flipIndex((py-y)%src.height, src.height, flip.FlipsY())
		for px := x0; px < x1; px++ {
			rx := flipIndex((px-x)%src.width, src.width, flip.FlipsX())
			if !src.opaque(rx, ry) {
				continue
			}
			c.blit(px, py, src.white(rx, ry), mode)
		}
	}
}

// scaledPlane draws src scaled by (xs, ys) with its top-left at (x, y).
// Negative scales mirror the image within the same footprint.
func (c *canvas) scaledPlane(src *plane, x, y int, xs, ys float64, mode backend.DrawMode) {
	if xs == 0 || ys == 0 || math.IsNaN(xs) || math.IsNaN(ys) {
		return
	}
	ax, ay := math.Abs(xs), math.Abs(ys)
	dw := ceilTight(float64(src.width) * ax)
	dh := ceilTight(float64(src.height) * ay)
	px0, py0 := max(-x, 0), max(-y, 0)
	px1, py1 := min(dw, c.p.width-x), min(dh, c.p.height-y)
	for py := py0; py < py1; py++ {
		sy := int((float64(py) + 0.5) / ay)
		if sy >= src.height {
			continue
		}
		sy = flipIndex(sy, src.height, ys < 0)
		for px := px0; px < px1; px++ {
			sx := int((float64(px) + 0.5) / ax)
			if sx >= src.width {
				continue
			}
			sx = flipIndex(sx, src.width, xs < 0)
			if !src.opaque(sx, sy) {
				continue
			}
			c.blit(x+px, y+py, src.white(sx, sy), mode)
		}
	}
}

// rotatedPlane draws src scaled by (xs, ys) and rotated degrees clockwise.
// (x, y) is the top-left of the unrotated scaled footprint and (cx, cy)
// the pivot as fractions of that footprint, so a zero rotation draws
// exactly like scaledPlane.
func (c *canvas) rotatedPlane(src *plane, x, y int, degrees, cx, cy, xs, ys float64, mode backend.DrawMode) {
	r := newRotation(src, degrees, cx, cy, xs, ys)
	if r == nil {
		return
	}
	px0, py0 := float64(x)+r.pivotX, float64(y)+r.pivotY
	minX, minY, maxX, maxY := r.bounds()
	ix0 := max(int(math.Floor(px0+minX)), 0)
	iy0 := max(int(math.Floor(py0+minY)), 0)
	ix1 := min(int(math.Ceil(px0+maxX)), c.p.width)
	iy1 := min(int(math.Ceil(py0+maxY)), c.p.height)
	for py := iy0; py < iy1; py++ {
		for px := ix0; px < ix1; px++ {
			sx, sy, ok := r.source(float64(px)+0.5-px0, float64(py)+0.5-py0)
			if !ok || !src.opaque(sx, sy) {
				continue
			}
			c.blit(px, py, src.white(sx, sy), mode)
		}
	}
}

// rotation maps destination offsets from the pivot back into src.
type rotation struct {
	src            *plane
	cos, sin       float64
	fw, fh         float64 // scaled footprint
	ax, ay         float64 // absolute scales
	mirrorX        bool
	mirrorY        bool
	pivotX, pivotY float64 // pivot within the footprint
}

func newRotation(src *plane, degrees, cx, cy, xs, ys float64) *rotation {
	if xs == 0 || ys == 0 || src.width == 0 || src.height == 0 {
		return nil
	}
	rad := degrees * math.Pi / 180
	r := &rotation{
		src:     src,
		cos:     math.Cos(rad),
		sin:     math.Sin(rad),
		ax:      math.Abs(xs),
		ay:      math.Abs(ys),
		mirrorX: xs < 0,
		mirrorY: ys < 0,
	}
	r.fw, r.fh = float64(src.width)*r.ax, float64(src.height)*r.ay
	r.pivotX, r.pivotY = cx*r.fw, cy*r.fh
	return r
}

// bounds returns the rotated footprint relative to the pivot.
func (r *rotation) bounds() (minX, minY, maxX, maxY float64) {
	corners := [4][2]float64{
		{-r.pivotX, -r.pivotY},
		{r.fw - r.pivotX, -r.pivotY},
		{r.fw - r.pivotX, r.fh - r.pivotY},
		{-r.pivotX, r.fh - r.pivotY},
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		x := p[0]*r.cos - p[1]*r.sin
		y := p[0]*r.sin + p[1]*r.cos
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	return minX, minY, maxX, maxY
}

// source returns the source pixel under the destination offset (qx, qy)
// from the pivot.
func (r *rotation) source(qx, qy float64) (int, int, bool) {
	u := qx*r.cos + qy*r.sin + r.pivotX
	v := -qx*r.sin + qy*r.cos + r.pivotY
	if u < 0 || v < 0 || u >= r.fw || v >= r.fh {
		return 0, 0, false
	}
	sx := min(int(u/r.ax), r.src.width-1)
	sy := min(int(v/r.ay), r.src.height-1)
	return flipIndex(sx, r.src.width, r.mirrorX), flipIndex(sy, r.src.height, r.mirrorY), true
}

// rotatedCopy renders src rotated about its center into a new plane sized
// to the rotated footprint. Uncovered pixels are transparent.
func rotatedCopy(src *plane, degrees, xs, ys float64) *plane {
	r := newRotation(src, degrees, 0.5, 0.5, xs, ys)
	if r == nil {
		return nil
	}
	minX, minY, maxX, maxY := r.bounds()
	w, h := ceilTight(maxX-minX), ceilTight(maxY-minY)
	if w <= 0 || h <= 0 {
		return nil
	}
	dst := newPlane(w, h)
	dst.ensureMask()
	clear(dst.mask)
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			sx, sy, ok := r.source(float64(px)+0.5+minX, float64(py)+0.5+minY)
			if !ok || !src.opaque(sx, sy) {
				continue
			}
			dst.set(px, py, src.white(sx, sy))
		}
	}
	dst.compactMask()
	return dst
}

// ceilTight rounds up, ignoring floating point noise just above an integer.
func ceilTight(v float64) int {
	return int(math.Ceil(v - 1e-9))
}

// collision counts pixels inside rect where both positioned bitmaps are
// opaque.
func collision(a *plane, ax, ay int, aflip backend.Flip, b *plane, bx, by int, bflip backend.Flip, rect backend.Rect) int {
	fa := backend.Rect{X: ax, Y: ay, Width: a.width, Height: a.height}
	fb := backend.Rect{X: bx, Y: by, Width: b.width, Height: b.height}
	area := fa.Intersect(fb).Intersect(rect)
	if area.Empty() {
		return 0
	}
	n := 0
	for y := area.Y; y < area.Y+area.Height; y++ {
		ya := flipIndex(y-ay, a.height, aflip.FlipsY())
		yb := flipIndex(y-by, b.height, bflip.FlipsY())
		for x := area.X; x < area.X+area.Width; x++ {
			xa := flipIndex(x-ax, a.width, aflip.FlipsX())
			xb := flipIndex(x-bx, b.width, bflip.FlipsX())
			if a.opaque(xa, ya) && b.opaque(xb, yb) {
				n++
			}
		}
	}
	return n
}

// patternAt samples an 8x8 pattern from p starting at (x, y), wrapping
// around the plane edges.
func patternAt(p *plane, x, y int) backend.Pattern {
	var pat backend.Pattern
	if p.width == 0 || p.height == 0 {
		return pat
	}
	for row := 0; row < 8; row++ {
		sy := mod(y+row, p.height)
		for col := 0; col < 8; col++ {
			sx := mod(x+col, p.width)
			bit := byte(0x80 >> uint(col))
			if p.white(sx, sy) {
				pat[row] |= bit
			}
			if p.opaque(sx, sy) {
				pat[8+row] |= bit
			}
		}
	}
	return pat
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
