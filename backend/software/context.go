package software

import (
	"fmt"

	"github.com/gogpu/lcd/backend"
)

// drawState is the per-context drawing state. A push saves the current
// state and starts the new context from defaults; a pop restores it.
type drawState struct {
	target *plane // nil draws into the frame buffer
	handle backend.Bitmap
	offX   int
	offY   int
	mode   backend.DrawMode
	cap    backend.LineCapStyle
	font   *fontFace // nil selects the system font
}

func defaultDrawState() drawState {
	return drawState{mode: backend.DrawModeCopy, cap: backend.LineCapButt}
}

func (d *device) pushContext(target backend.Bitmap) error {
	next := defaultDrawState()
	if !target.IsNull() {
		p, err := d.bitmap(target)
		if err != nil {
			return err
		}
		next.target, next.handle = p, target
	}
	d.stack = append(d.stack, d.state)
	d.state = next
	d.log.Debug("software: context pushed", "target", target, "depth", len(d.stack))
	return nil
}

func (d *device) popContext() error {
	if len(d.stack) == 0 {
		return backend.ErrContextUnderflow
	}
	d.state = d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
	d.log.Debug("software: context popped", "depth", len(d.stack))
	return nil
}

// canvas returns the drawing surface of the active context.
func (d *device) canvas() *canvas {
	d.stats.DrawCalls++
	if d.state.target != nil {
		return &canvas{p: d.state.target}
	}
	return &canvas{p: d.frame, dirty: &d.dirty}
}

// offset translates a point by the active draw offset.
func (d *device) offset(x, y int) (int, int) {
	return x + d.state.offX, y + d.state.offY
}

func (d *device) setDrawMode(mode backend.DrawMode) error {
	if !mode.Valid() {
		return fmt.Errorf("software: unknown draw mode %d", mode)
	}
	d.state.mode = mode
	return nil
}

func (d *device) setLineCapStyle(style backend.LineCapStyle) error {
	if style > backend.LineCapRound {
		return fmt.Errorf("software: unknown line cap style %d", style)
	}
	d.state.cap = style
	return nil
}
