package lcd

import (
	"math"

	"github.com/gogpu/lcd/backend"
)

// Display controls how the display buffer is presented.
type Display struct {
	dev *Device
	raw backend.Display
}

// Size returns the drawable size, which shrinks with the display scale.
func (d *Display) Size() (Size, error) {
	w, err := d.raw.GetWidth()
	if err != nil {
		return Size{}, queryErr("display width", err)
	}
	h, err := d.raw.GetHeight()
	if err != nil {
		return Size{}, queryErr("display height", err)
	}
	return Size{Width: w, Height: h}, nil
}

// SetInverted swaps black and white on the display.
func (d *Display) SetInverted(inverted bool) error {
	if err := d.raw.SetInverted(inverted); err != nil {
		return callErr("set inverted", err)
	}
	return nil
}

// SetScale sets the pixel scale. Only 1, 2, 4 and 8 are valid.
func (d *Display) SetScale(scale uint) error {
	switch scale {
	case 1, 2, 4, 8:
	default:
		return invalidArg("display scale %d", scale)
	}
	if err := d.raw.SetScale(scale); err != nil {
		return callErr("set scale", err)
	}
	return nil
}

// SetMosaic sets the mosaic effect. Both amounts must be in [0, 3].
func (d *Display) SetMosaic(x, y uint) error {
	if x > 3 || y > 3 {
		return invalidArg("mosaic %d, %d", x, y)
	}
	if err := d.raw.SetMosaic(x, y); err != nil {
		return callErr("set mosaic", err)
	}
	return nil
}

// SetOffset shifts the displayed image.
func (d *Display) SetOffset(v Vector) error {
	if err := d.raw.SetOffset(v.DX, v.DY); err != nil {
		return callErr("set offset", err)
	}
	return nil
}

// SetRefreshRate sets the target frames per second. Zero means as fast
// as possible.
func (d *Display) SetRefreshRate(rate float32) error {
	if rate < 0 || math.IsNaN(float64(rate)) {
		return invalidArg("refresh rate %g", rate)
	}
	if err := d.raw.SetRefreshRate(rate); err != nil {
		return callErr("set refresh rate", err)
	}
	return nil
}

// SetFlipped mirrors the display on either axis.
func (d *Display) SetFlipped(x, y bool) error {
	if err := d.raw.SetFlipped(x, y); err != nil {
		return callErr("set flipped", err)
	}
	return nil
}
