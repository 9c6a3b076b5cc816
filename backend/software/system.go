package software

import (
	"github.com/gogpu/lcd/backend"
)

// system implements backend.System. Allocations and fonts share one table,
// so releasing a font is a zero-size Realloc.
type system struct {
	d *device
}

var _ backend.System = (*system)(nil)

func (s *system) Realloc(ptr uintptr, size int) uintptr {
	d := s.d
	if d.ready() != nil {
		return 0
	}
	if ptr == 0 {
		if size <= 0 {
			return 0
		}
		h, err := d.handles.create(kindAlloc, make([]byte, size), false)
		if err != nil {
			return 0
		}
		return h
	}
	e, ok := d.handles.get(ptr, kindAlloc)
	if !ok {
		d.log.Warn("software: realloc of unknown pointer", "ptr", ptr, "size", size)
		return 0
	}
	if size <= 0 {
		if f, isFont := e.value.(*fontFace); isFont {
			d.forgetFont(f)
			if err := f.face.Close(); err != nil {
				d.log.Warn("software: font close failed", "ptr", ptr, "err", err)
			}
			d.stats.FontsFreed++
			d.log.Debug("software: font freed", "ptr", ptr, "name", f.name)
		}
		d.handles.drop(ptr)
		return 0
	}
	if buf, isBuf := e.value.([]byte); isBuf {
		grown := make([]byte, size)
		copy(grown, buf)
		e.value = grown
	}
	return ptr
}

// forgetFont resets every context using f back to the system font.
func (d *device) forgetFont(f *fontFace) {
	if d.state.font == f {
		d.state.font = nil
	}
	for i := range d.stack {
		if d.stack[i].font == f {
			d.stack[i].font = nil
		}
	}
}

func (s *system) LogToConsole(msg string) {
	s.d.log.Info(msg, "source", "console")
}
