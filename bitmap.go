package lcd

import (
	"fmt"

	"github.com/gogpu/lcd/backend"
)

// bitmapInner is the state shared by every reference to one native bitmap.
type bitmapInner struct {
	g     *Graphics
	raw   backend.Bitmap
	owned bool
	refs  int
	// busy is set while the bitmap is the target of a context redirect.
	busy  bool
	freed bool
}

// Bitmap is one reference to a native bitmap. References made with Clone
// share the native handle; the handle is freed when the last reference
// is released, and only when the bitmap is owned. Borrowed bitmaps, such
// as the live display buffer, are never freed.
//
// Every method accepts a nil or released Bitmap and reports ErrReleased.
type Bitmap struct {
	inner    *bitmapInner
	released bool
}

func newBitmap(g *Graphics, raw backend.Bitmap, owned bool) *Bitmap {
	g.dev.logger().Debug("lcd: bitmap acquired", "handle", raw, "owned", owned)
	return &Bitmap{inner: &bitmapInner{g: g, raw: raw, owned: owned, refs: 1}}
}

// ref returns the shared state of a live reference.
func (b *Bitmap) ref() (*bitmapInner, error) {
	if b == nil || b.inner == nil || b.released || b.inner.freed {
		return nil, ErrReleased
	}
	return b.inner, nil
}

// use is ref plus the exclusive access check for pixel operations.
func (b *Bitmap) use() (*bitmapInner, error) {
	in, err := b.ref()
	if err != nil {
		return nil, err
	}
	if in.busy {
		return nil, fmt.Errorf("%w: bitmap %d", ErrBitmapBusy, in.raw)
	}
	return in, nil
}

// Clone returns another reference to the same native bitmap. It never
// calls the backend. Cloning a nil or released Bitmap returns nil.
func (b *Bitmap) Clone() *Bitmap {
	in, err := b.ref()
	if err != nil {
		return nil
	}
	in.refs++
	return &Bitmap{inner: in}
}

// Release drops this reference. The native bitmap is freed when the last
// reference goes and the bitmap is owned. Free failures are logged, not
// returned. Releasing twice is a no-op.
func (b *Bitmap) Release() {
	if b == nil || b.inner == nil || b.released {
		return
	}
	b.released = true
	in := b.inner
	in.refs--
	if in.refs > 0 || in.freed {
		return
	}
	in.freed = true
	log := in.g.dev.logger()
	if !in.owned {
		log.Debug("lcd: borrowed bitmap dropped", "handle", in.raw)
		return
	}
	if in.g.dev.backendClosed() {
		log.Debug("lcd: bitmap released after close", "handle", in.raw)
		return
	}
	if err := in.g.raw.FreeBitmap(in.raw); err != nil {
		log.Warn("lcd: free bitmap failed", "handle", in.raw, "error", err)
		return
	}
	log.Debug("lcd: bitmap freed", "handle", in.raw)
}

// Released reports whether this reference has been released.
func (b *Bitmap) Released() bool {
	_, err := b.ref()
	return err != nil
}

// Refs returns the number of live references sharing the native bitmap.
func (b *Bitmap) Refs() int {
	in, err := b.ref()
	if err != nil {
		return 0
	}
	return in.refs
}

// Owned reports whether the native bitmap is freed on the last release.
func (b *Bitmap) Owned() bool {
	in, err := b.ref()
	return err == nil && in.owned
}

// Handle returns the native handle, or the null handle once released.
func (b *Bitmap) Handle() backend.Bitmap {
	in, err := b.ref()
	if err != nil {
		return 0
	}
	return in.raw
}

// Data returns the bitmap's geometry.
func (b *Bitmap) Data() (BitmapData, error) {
	in, err := b.use()
	if err != nil {
		return BitmapData{}, err
	}
	data, err := in.g.raw.GetBitmapData(in.raw)
	if err != nil {
		return BitmapData{}, queryErr("bitmap data", err)
	}
	return data, nil
}

// Size returns the bitmap's width and height.
func (b *Bitmap) Size() (Size, error) {
	data, err := b.Data()
	if err != nil {
		return Size{}, err
	}
	return Size{Width: data.Width, Height: data.Height}, nil
}

// Draw draws the bitmap into the active context with its top-left corner
// at at.
func (b *Bitmap) Draw(at Point, flip Flip) error {
	in, err := b.use()
	if err != nil {
		return err
	}
	if flip > FlippedXY {
		return invalidArg("flip %d", flip)
	}
	if err := in.g.raw.DrawBitmap(in.raw, at.X, at.Y, flip); err != nil {
		return callErr("draw bitmap", err)
	}
	return nil
}

// DrawScaled draws the bitmap scaled by scale. Negative factors mirror.
func (b *Bitmap) DrawScaled(at Point, scale Vec2) error {
	in, err := b.use()
	if err != nil {
		return err
	}
	if err := in.g.raw.DrawScaledBitmap(in.raw, at.X, at.Y, scale.X, scale.Y); err != nil {
		return callErr("draw scaled bitmap", err)
	}
	return nil
}

// DrawRotated draws the bitmap rotated degrees clockwise. at is the
// top-left corner of the unrotated, scaled bitmap and center picks the
// pivot inside it as fractions of its size: (0, 0) is the top-left
// corner and (0.5, 0.5) the middle.
func (b *Bitmap) DrawRotated(at Point, degrees float32, center, scale Vec2) error {
	in, err := b.use()
	if err != nil {
		return err
	}
	err = in.g.raw.DrawRotatedBitmap(in.raw, at.X, at.Y, degrees, center.X, center.Y, scale.X, scale.Y)
	if err != nil {
		return callErr("draw rotated bitmap", err)
	}
	return nil
}

// Tile repeats the bitmap across the rectangle at at of the given size.
func (b *Bitmap) Tile(at Point, size Size, flip Flip) error {
	in, err := b.use()
	if err != nil {
		return err
	}
	if flip > FlippedXY {
		return invalidArg("flip %d", flip)
	}
	if err := in.g.raw.TileBitmap(in.raw, at.X, at.Y, size.Width, size.Height, flip); err != nil {
		return callErr("tile bitmap", err)
	}
	return nil
}

// Rotated returns a new owned bitmap holding the pixels rotated degrees
// clockwise and scaled. The receiver is unchanged.
func (b *Bitmap) Rotated(degrees float32, scale Vec2) (*Bitmap, error) {
	in, err := b.use()
	if err != nil {
		return nil, err
	}
	raw, err := in.g.raw.RotatedBitmap(in.raw, degrees, scale.X, scale.Y)
	if err != nil {
		return nil, callErr("rotate bitmap", err)
	}
	if raw.IsNull() {
		return nil, fmt.Errorf("%w: rotate bitmap %d by %g", ErrCreationFailed, in.raw, degrees)
	}
	return newBitmap(in.g, raw, true), nil
}

// Duplicate returns a new bitmap with the same pixels. Its ownership
// follows the device's DuplicatePolicy.
func (b *Bitmap) Duplicate() (*Bitmap, error) {
	in, err := b.use()
	if err != nil {
		return nil, err
	}
	raw, err := in.g.raw.CopyBitmap(in.raw)
	if err != nil {
		return nil, callErr("copy bitmap", err)
	}
	if raw.IsNull() {
		return nil, fmt.Errorf("%w: copy bitmap %d", ErrCreationFailed, in.raw)
	}
	owned := in.owned
	if in.g.dev.opts.duplicate == DuplicateAlwaysOwned {
		owned = true
	}
	return newBitmap(in.g, raw, owned), nil
}

// Transform describes a rotation, scale and flip applied by
// Bitmap.Transform. A zero Scale means unit scale.
type Transform struct {
	Degrees float32
	Scale   Vec2
	Flip    Flip
}

// Transform returns a new owned bitmap with t applied: the bitmap is
// rotated and scaled first, then mirrored.
func (b *Bitmap) Transform(t Transform) (*Bitmap, error) {
	if t.Flip > FlippedXY {
		return nil, invalidArg("flip %d", t.Flip)
	}
	scale := t.Scale
	if scale == (Vec2{}) {
		scale = UnitScale
	}
	r, err := b.Rotated(t.Degrees, scale)
	if err != nil || t.Flip == Unflipped {
		return r, err
	}
	defer r.Release()

	size, err := r.Size()
	if err != nil {
		return nil, err
	}
	out, err := r.inner.g.NewBitmap(size, Solid(Clear))
	if err != nil {
		return nil, err
	}
	err = r.inner.g.WithContext(out, func() error {
		return r.Draw(Point{}, t.Flip)
	})
	if err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// Clear fills the bitmap with c. The geometry is unchanged.
func (b *Bitmap) Clear(c Color) error {
	in, err := b.use()
	if err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}
	if err := in.g.raw.ClearBitmap(in.raw, c.toBackend()); err != nil {
		return callErr("clear bitmap", err)
	}
	return nil
}

// Load replaces the bitmap's pixels with the image at path.
func (b *Bitmap) Load(path string) error {
	in, err := b.use()
	if err != nil {
		return err
	}
	msg, err := in.g.raw.LoadIntoBitmap(path, in.raw)
	if err != nil || msg != "" {
		return &LoadError{Kind: "bitmap", Path: path, Message: msg, Err: err}
	}
	return nil
}

// IntoColor returns a pattern color sampled from the 8x8 block of other
// whose top-left corner is topLeft. A nil other samples the receiver.
func (b *Bitmap) IntoColor(other *Bitmap, topLeft Point) (Color, error) {
	src := b
	if other != nil {
		src = other
	}
	in, err := src.use()
	if err != nil {
		return Color{}, err
	}
	pat, err := in.g.raw.SetColorToPattern(in.raw, topLeft.X, topLeft.Y)
	if err != nil {
		return Color{}, callErr("pattern from bitmap", err)
	}
	return PatternColor(pat), nil
}

// CheckMaskCollision reports whether any opaque pixel of the receiver,
// drawn at at with flip, overlaps an opaque pixel of other drawn at
// otherAt with otherFlip, inside rect.
func (b *Bitmap) CheckMaskCollision(at Point, flip Flip, other *Bitmap, otherAt Point, otherFlip Flip, rect Rect) (bool, error) {
	if other == nil {
		return false, fmt.Errorf("%w: nil bitmap", ErrReleased)
	}
	in, err := b.use()
	if err != nil {
		return false, err
	}
	oin, err := other.use()
	if err != nil {
		return false, err
	}
	if flip > FlippedXY || otherFlip > FlippedXY {
		return false, invalidArg("flip %d, %d", flip, otherFlip)
	}

	size, err := b.Size()
	if err != nil {
		return false, err
	}
	otherSize, err := other.Size()
	if err != nil {
		return false, err
	}
	overlap := RectAt(at, size).Intersect(RectAt(otherAt, otherSize)).Intersect(rect)
	if overlap.Empty() {
		return false, nil
	}

	n, err := in.g.raw.CheckMaskCollision(in.raw, at.X, at.Y, flip, oin.raw, otherAt.X, otherAt.Y, otherFlip, overlap.toBackend())
	if err != nil {
		return false, callErr("check mask collision", err)
	}
	return n > 0, nil
}
