package software

import (
	"image"
	"image/color"
)

// plane is a 1-bit pixel buffer. Rows are MSB-first and 32-bit aligned,
// matching the device frame buffer layout; a set bit is white. The
// optional mask uses the same layout with a set bit meaning opaque. A nil
// mask means every pixel is opaque.
type plane struct {
	width  int
	height int
	stride int
	pix    []byte
	mask   []byte
}

// rowBytes returns the 32-bit aligned stride for a row of width pixels.
func rowBytes(width int) int {
	return ((width + 31) / 32) * 4
}

// newPlane creates a white, opaque plane.
func newPlane(width, height int) *plane {
	stride := rowBytes(width)
	p := &plane{
		width:  width,
		height: height,
		stride: stride,
		pix:    make([]byte, stride*height),
	}
	p.fill(true)
	return p
}

func (p *plane) in(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// white reports whether the pixel at (x, y) is white.
// Pixels outside the plane read as black.
func (p *plane) white(x, y int) bool {
	if !p.in(x, y) {
		return false
	}
	return p.pix[y*p.stride+x>>3]&(0x80>>uint(x&7)) != 0
}

// opaque reports whether the pixel at (x, y) is opaque.
// Pixels outside the plane are transparent.
func (p *plane) opaque(x, y int) bool {
	if !p.in(x, y) {
		return false
	}
	if p.mask == nil {
		return true
	}
	return p.mask[y*p.stride+x>>3]&(0x80>>uint(x&7)) != 0
}

// set writes a pixel and marks it opaque.
func (p *plane) set(x, y int, white bool) {
	if !p.in(x, y) {
		return
	}
	i, bit := y*p.stride+x>>3, byte(0x80>>uint(x&7))
	if white {
		p.pix[i] |= bit
	} else {
		p.pix[i] &^= bit
	}
	if p.mask != nil {
		p.mask[i] |= bit
	}
}

// setOpaque changes only the mask bit, allocating the mask on first use.
func (p *plane) setOpaque(x, y int, opaque bool) {
	if !p.in(x, y) {
		return
	}
	if p.mask == nil {
		if opaque {
			return
		}
		p.ensureMask()
	}
	i, bit := y*p.stride+x>>3, byte(0x80>>uint(x&7))
	if opaque {
		p.mask[i] |= bit
	} else {
		p.mask[i] &^= bit
	}
}

// ensureMask allocates a fully opaque mask if the plane has none.
func (p *plane) ensureMask() {
	if p.mask != nil {
		return
	}
	p.mask = make([]byte, len(p.pix))
	for i := range p.mask {
		p.mask[i] = 0xFF
	}
}

// compactMask drops the mask when every visible pixel is opaque.
func (p *plane) compactMask() {
	if p.mask == nil {
		return
	}
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			if !p.opaque(x, y) {
				return
			}
		}
	}
	p.mask = nil
}

// fill sets every pixel to white or black and makes the plane opaque.
func (p *plane) fill(white bool) {
	v := byte(0x00)
	if white {
		v = 0xFF
	}
	for i := range p.pix {
		p.pix[i] = v
	}
	if p.mask != nil {
		for i := range p.mask {
			p.mask[i] = 0xFF
		}
	}
}

// clone returns a deep copy of the plane.
func (p *plane) clone() *plane {
	c := &plane{
		width:  p.width,
		height: p.height,
		stride: p.stride,
		pix:    make([]byte, len(p.pix)),
	}
	copy(c.pix, p.pix)
	if p.mask != nil {
		c.mask = make([]byte, len(p.mask))
		copy(c.mask, p.mask)
	}
	return c
}

// copyRows copies rows [lo, hi] of src into p. Both planes must share
// geometry.
func (p *plane) copyRows(src *plane, lo, hi int) {
	lo, hi = max(lo, 0), min(hi, p.height-1)
	if lo > hi {
		return
	}
	copy(p.pix[lo*p.stride:(hi+1)*p.stride], src.pix[lo*src.stride:(hi+1)*src.stride])
}

// toGray converts the plane to a grayscale image. Transparent pixels are
// rendered as mid gray so they stand out in snapshots.
func (p *plane) toGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.width, p.height))
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			var c color.Gray
			switch {
			case !p.opaque(x, y):
				c = color.Gray{Y: 0x80}
			case p.white(x, y):
				c = color.Gray{Y: 0xFF}
			}
			img.SetGray(x, y, c)
		}
	}
	return img
}

// sub copies the w x h region at (x, y) into a new plane.
func (p *plane) sub(x, y, w, h int) *plane {
	s := newPlane(w, h)
	if p.mask != nil {
		s.ensureMask()
	}
	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			if !p.opaque(x+sx, y+sy) {
				s.setOpaque(sx, sy, false)
				continue
			}
			s.set(sx, sy, p.white(x+sx, y+sy))
		}
	}
	return s
}
