package lcd

import "github.com/gogpu/lcd/backend"

// Point is an integer position in device pixels.
type Point struct {
	X, Y int
}

// Pt is a convenience function to create a Point.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.DX, Y: p.Y + v.DY}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{DX: p.X - q.X, DY: p.Y - q.Y}
}

// Vector is an integer displacement.
type Vector struct {
	DX, DY int
}

// Size is an integer extent in pixels.
type Size struct {
	Width, Height int
}

// Sz is a convenience function to create a Size.
func Sz(w, h int) Size {
	return Size{Width: w, Height: h}
}

// Empty reports whether s covers no pixels.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an integer rectangle. Width and Height extend right and down
// from the origin.
type Rect struct {
	X, Y          int
	Width, Height int
}

// RectAt returns the rectangle of size s whose top-left corner is p.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the extent.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the largest rectangle contained by both r and s.
// Disjoint rectangles give the zero Rect.
func (r Rect) Intersect(s Rect) Rect {
	return fromBackendRect(r.toBackend().Intersect(s.toBackend()))
}

func (r Rect) toBackend() backend.Rect {
	return backend.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func fromBackendRect(r backend.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// ScreenRect covers the whole frame buffer.
var ScreenRect = Rect{Width: Columns, Height: Rows}

// Vec2 is a pair of scale factors or fractional coordinates.
type Vec2 struct {
	X, Y float32
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// UnitScale draws a bitmap at its natural size.
var UnitScale = Vec2{X: 1, Y: 1}

// Center is the rotation pivot at the middle of a bitmap.
var Center = Vec2{X: 0.5, Y: 0.5}
