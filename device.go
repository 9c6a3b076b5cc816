package lcd

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/lcd/backend"
)

// Device binds the resource layer to one backend. It replaces global
// state: every Bitmap, BitmapTable and Font belongs to the Device that
// created it.
//
// A Device is not safe for concurrent use.
type Device struct {
	b           backend.Backend
	ownsBackend bool
	opts        options
	closed      bool

	graphics *Graphics
	display  *Display
	system   *System
}

// Open initializes b and returns a Device that drives it. A nil b selects
// the default registered backend, which the Device then owns and closes
// in Close.
//
// Example:
//
//	import _ "github.com/gogpu/lcd/backend/software"
//
//	dev, err := lcd.Open(nil)
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
func Open(b backend.Backend, opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	owns := false
	if b == nil {
		var err error
		b, err = backend.InitDefault()
		if err != nil {
			return nil, fmt.Errorf("lcd: open default backend: %w", err)
		}
		owns = true
	} else if err := b.Init(); err != nil {
		return nil, fmt.Errorf("lcd: init backend %q: %w", b.Name(), err)
	}

	d := &Device{b: b, ownsBackend: owns, opts: o}
	d.graphics = &Graphics{dev: d, raw: b.Graphics()}
	d.display = &Display{dev: d, raw: b.Display()}
	d.system = &System{dev: d, raw: b.System()}
	d.logger().Debug("lcd: device opened", "backend", b.Name(), "owned", owns)
	return d, nil
}

// Graphics returns the drawing facade.
func (d *Device) Graphics() *Graphics { return d.graphics }

// Display returns the display settings.
func (d *Device) Display() *Display { return d.display }

// System returns the system services.
func (d *Device) System() *System { return d.system }

// Backend returns the backend the device drives.
func (d *Device) Backend() backend.Backend { return d.b }

// Close unwinds any context redirects still active and, when the device
// opened the backend itself, closes it. Resources not yet released stay
// valid for Release: on a caller-owned backend they are still freed
// there, and on an owned backend the closed backend has reclaimed them
// so Release only drops the reference.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	var err error
	if n := d.graphics.ContextDepth(); n > 0 {
		d.logger().Warn("lcd: closing with active context redirects", "depth", n)
		for d.graphics.ContextDepth() > 0 {
			if perr := d.graphics.PopContext(); perr != nil && err == nil {
				err = perr
			}
		}
	}
	d.closed = true
	if d.ownsBackend {
		d.b.Close()
	}
	d.logger().Debug("lcd: device closed")
	return err
}

// Closed reports whether Close has been called.
func (d *Device) Closed() bool { return d.closed }

// backendClosed reports whether Close shut the backend down, so native
// handles are gone and must not be freed.
func (d *Device) backendClosed() bool { return d.closed && d.ownsBackend }

func (d *Device) logger() *slog.Logger {
	if d.opts.logger != nil {
		return d.opts.logger
	}
	return Logger()
}
