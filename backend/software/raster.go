package software

import (
	"math"
	"slices"

	"github.com/gogpu/lcd/backend"
)

// rowSpan tracks the inclusive range of frame rows touched since the last
// flush.
type rowSpan struct {
	lo, hi int
	valid  bool
}

func (r *rowSpan) add(lo, hi int) {
	if !r.valid {
		r.lo, r.hi, r.valid = lo, hi, true
		return
	}
	r.lo, r.hi = min(r.lo, lo), max(r.hi, hi)
}

func (r *rowSpan) reset() { *r = rowSpan{} }

// canvas is the destination of a draw call. dirty is nil unless the
// destination is the frame buffer.
type canvas struct {
	p     *plane
	dirty *rowSpan
}

func (c *canvas) touch(y int) {
	if c.dirty != nil && y >= 0 && y < c.p.height {
		c.dirty.add(y, y)
	}
}

// paint writes one pixel of a primitive in color col. Patterns are
// anchored to the destination origin.
func (c *canvas) paint(x, y int, col backend.Color) {
	if !c.p.in(x, y) {
		return
	}
	if col.Pattern != nil {
		bit := byte(0x80 >> uint(x&7))
		if col.Pattern[8+y&7]&bit == 0 {
			return
		}
		c.p.set(x, y, col.Pattern[y&7]&bit != 0)
		c.touch(y)
		return
	}
	switch col.Solid {
	case backend.ColorBlack:
		c.p.set(x, y, false)
	case backend.ColorWhite:
		c.p.set(x, y, true)
	case backend.ColorClear:
		// Only planes that carry a mask can become transparent.
		if c.p.mask == nil {
			return
		}
		c.p.setOpaque(x, y, false)
	case backend.ColorXOR:
		c.p.set(x, y, !c.p.white(x, y))
	}
	c.touch(y)
}

// blit combines one opaque source pixel with the destination.
func (c *canvas) blit(x, y int, white bool, mode backend.DrawMode) {
	if !c.p.in(x, y) {
		return
	}
	switch mode {
	case backend.DrawModeCopy:
		c.p.set(x, y, white)
	case backend.DrawModeWhiteTransparent:
		if white {
			return
		}
		c.p.set(x, y, false)
	case backend.DrawModeBlackTransparent:
		if !white {
			return
		}
		c.p.set(x, y, true)
	case backend.DrawModeFillWhite:
		c.p.set(x, y, true)
	case backend.DrawModeFillBlack:
		c.p.set(x, y, false)
	case backend.DrawModeXOR:
		c.p.set(x, y, c.p.white(x, y) != white)
	case backend.DrawModeNXOR:
		c.p.set(x, y, c.p.white(x, y) == white)
	case backend.DrawModeInverted:
		c.p.set(x, y, !white)
	}
	c.touch(y)
}

// fill paints the whole canvas.
func (c *canvas) fill(col backend.Color) {
	if col.Pattern == nil {
		switch col.Solid {
		case backend.ColorBlack, backend.ColorWhite:
			c.p.fill(col.Solid == backend.ColorWhite)
			c.touchAll()
			return
		case backend.ColorClear:
			c.p.ensureMask()
			clear(c.p.mask)
			c.touchAll()
			return
		}
	}
	c.fillRect(0, 0, c.p.width, c.p.height, col)
}

func (c *canvas) touchAll() {
	if c.dirty != nil {
		c.dirty.add(0, c.p.height-1)
	}
}

func (c *canvas) fillRect(x, y, w, h int, col backend.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, c.p.width), min(y+h, c.p.height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.paint(px, py, col)
		}
	}
}

// strokeRect draws a one pixel outline inside the rectangle.
func (c *canvas) strokeRect(x, y, w, h int, col backend.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	if w <= 2 || h <= 2 {
		c.fillRect(x, y, w, h, col)
		return
	}
	c.fillRect(x, y, w, 1, col)
	c.fillRect(x, y+h-1, w, 1, col)
	c.fillRect(x, y+1, 1, h-2, col)
	c.fillRect(x+w-1, y+1, 1, h-2, col)
}

// hairline draws a one pixel wide line with Bresenham's algorithm.
func (c *canvas) hairline(x1, y1, x2, y2 int, col backend.Color) {
	dx, dy := abs(x2-x1), -abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	e := dx + dy
	for {
		c.paint(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

// line draws a line of the given width. Widths above one are filled as a
// quad through the pixel centers of the end points, with caps per style.
func (c *canvas) line(x1, y1, x2, y2, width int, style backend.LineCapStyle, col backend.Color) {
	if width <= 0 {
		return
	}
	if width == 1 {
		c.hairline(x1, y1, x2, y2, col)
		return
	}
	hw := float64(width) / 2
	ax, ay := float64(x1)+0.5, float64(y1)+0.5
	bx, by := float64(x2)+0.5, float64(y2)+0.5
	dx, dy := bx-ax, by-ay
	length := math.Hypot(dx, dy)
	if length == 0 {
		switch style {
		case backend.LineCapRound:
			c.disc(ax, ay, hw, col)
		case backend.LineCapSquare:
			c.fillPolygon([]fpoint{{ax - hw, ay - hw}, {ax + hw, ay - hw}, {ax + hw, ay + hw}, {ax - hw, ay + hw}}, backend.FillNonZero, col)
		}
		return
	}
	ux, uy := dx/length, dy/length
	if style == backend.LineCapSquare {
		ax, ay = ax-ux*hw, ay-uy*hw
		bx, by = bx+ux*hw, by+uy*hw
	}
	nx, ny := -uy*hw, ux*hw
	c.fillPolygon([]fpoint{
		{ax + nx, ay + ny},
		{bx + nx, by + ny},
		{bx - nx, by - ny},
		{ax - nx, ay - ny},
	}, backend.FillNonZero, col)
	if style == backend.LineCapRound {
		c.disc(float64(x1)+0.5, float64(y1)+0.5, hw, col)
		c.disc(float64(x2)+0.5, float64(y2)+0.5, hw, col)
	}
}

type fpoint struct{ x, y float64 }

type crossing struct {
	x   float64
	dir int
}

// fillPolygon fills a closed polygon sampling pixel centers.
func (c *canvas) fillPolygon(pts []fpoint, rule backend.PolygonFillRule, col backend.Color) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].y, pts[0].y
	for _, p := range pts[1:] {
		minY, maxY = min(minY, p.y), max(maxY, p.y)
	}
	y0 := max(int(math.Floor(minY)), 0)
	y1 := min(int(math.Ceil(maxY)), c.p.height)
	xs := make([]crossing, 0, len(pts))
	for py := y0; py < y1; py++ {
		sy := float64(py) + 0.5
		xs = xs[:0]
		for i, a := range pts {
			b := pts[(i+1)%len(pts)]
			if a.y == b.y {
				continue
			}
			lo, hi, dir := a.y, b.y, 1
			if lo > hi {
				lo, hi, dir = hi, lo, -1
			}
			if sy < lo || sy >= hi {
				continue
			}
			xs = append(xs, crossing{x: a.x + (sy-a.y)*(b.x-a.x)/(b.y-a.y), dir: dir})
		}
		slices.SortFunc(xs, func(p, q crossing) int {
			switch {
			case p.x < q.x:
				return -1
			case p.x > q.x:
				return 1
			}
			return 0
		})
		winding := 0
		for i := 0; i+1 < len(xs); i++ {
			winding += xs[i].dir
			inside := winding != 0
			if rule == backend.FillEvenOdd {
				inside = (i+1)%2 == 1
			}
			if !inside {
				continue
			}
			start := max(int(math.Ceil(xs[i].x-0.5)), 0)
			end := min(int(math.Ceil(xs[i+1].x-0.5)), c.p.width)
			for px := start; px < end; px++ {
				c.paint(px, py, col)
			}
		}
	}
}

// disc fills a circle of radius r centered at (cx, cy).
func (c *canvas) disc(cx, cy, r float64, col backend.Color) {
	y0, y1 := max(int(math.Floor(cy-r)), 0), min(int(math.Ceil(cy+r)), c.p.height)
	x0, x1 := max(int(math.Floor(cx-r)), 0), min(int(math.Ceil(cx+r)), c.p.width)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			dx, dy := float64(px)+0.5-cx, float64(py)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				c.paint(px, py, col)
			}
		}
	}
}

// ellipse fills the ellipse inscribed in the rectangle, or a ring of
// lineWidth pixels when lineWidth is positive. Angles are degrees
// clockwise from twelve o'clock; equal angles select the full ellipse.
func (c *canvas) ellipse(x, y, w, h, lineWidth int, startAngle, endAngle float32, col backend.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	rx, ry := float64(w)/2, float64(h)/2
	cx, cy := float64(x)+rx, float64(y)+ry
	irx, iry := rx-float64(lineWidth), ry-float64(lineWidth)
	ring := lineWidth > 0 && irx > 0 && iry > 0
	arc := newArc(startAngle, endAngle)
	y0, y1 := max(y, 0), min(y+h, c.p.height)
	x0, x1 := max(x, 0), min(x+w, c.p.width)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			dx, dy := float64(px)+0.5-cx, float64(py)+0.5-cy
			if (dx*dx)/(rx*rx)+(dy*dy)/(ry*ry) > 1 {
				continue
			}
			if ring && (dx*dx)/(irx*irx)+(dy*dy)/(iry*iry) < 1 {
				continue
			}
			if !arc.contains(dx, dy) {
				continue
			}
			c.paint(px, py, col)
		}
	}
}

type arc struct {
	full       bool
	start, end float64
}

func newArc(start, end float32) arc {
	s, e := float64(start), float64(end)
	if s == e || math.Abs(e-s) >= 360 {
		return arc{full: true}
	}
	return arc{start: normDegrees(s), end: normDegrees(e)}
}

// contains reports whether the direction (dx, dy) lies on the arc, walking
// clockwise from start to end.
func (a arc) contains(dx, dy float64) bool {
	if a.full {
		return true
	}
	deg := normDegrees(math.Atan2(dx, -dy) * 180 / math.Pi)
	if a.start <= a.end {
		return deg >= a.start && deg <= a.end
	}
	return deg >= a.start || deg <= a.end
}

func normDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
