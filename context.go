package lcd

import (
	"errors"

	"github.com/gogpu/lcd/backend"
)

// PushContext redirects drawing into target until the matching
// PopContext. A nil target redirects to the frame buffer.
//
// The target is claimed for the redirect: any operation that touches its
// pixels through any reference fails with ErrBitmapBusy until the pop,
// and pushing it again fails the same way. The stack keeps its own
// reference, so releasing target while it is active is safe.
func (g *Graphics) PushContext(target *Bitmap) error {
	var (
		raw  backend.Bitmap
		held *Bitmap
	)
	if target != nil {
		in, err := target.use()
		if err != nil {
			return err
		}
		raw = in.raw
		held = target.Clone()
	}
	if err := g.raw.PushContext(raw); err != nil {
		held.Release()
		return callErr("push context", err)
	}
	if held != nil {
		held.inner.busy = true
	}
	g.stack = append(g.stack, held)
	g.dev.logger().Debug("lcd: context pushed", "target", raw, "depth", len(g.stack))
	return nil
}

// PopContext ends the most recent redirect. It returns ErrStackUnderflow
// when there is no push to match. The redirect is unwound even when the
// backend reports an error.
func (g *Graphics) PopContext() error {
	n := len(g.stack)
	if n == 0 {
		return ErrStackUnderflow
	}
	top := g.stack[n-1]
	g.stack[n-1] = nil
	g.stack = g.stack[:n-1]
	perr := g.raw.PopContext()
	// The held reference may be the last one. Free it only once the
	// backend no longer draws into it.
	if top != nil {
		top.inner.busy = false
		top.Release()
	}
	g.dev.logger().Debug("lcd: context popped", "depth", len(g.stack))
	if perr != nil {
		return callErr("pop context", perr)
	}
	return nil
}

// WithContext runs fn with drawing redirected into target. The redirect
// is popped however fn exits: on return, on error and on panic, which is
// re-raised after the pop. If the push fails, fn is not run. Errors from
// fn and the pop are joined.
//
// Example:
//
//	err := g.WithContext(sprite, func() error {
//	    return g.FillRect(lcd.Rect{Width: 8, Height: 8}, lcd.Solid(lcd.Black))
//	})
func (g *Graphics) WithContext(target *Bitmap, fn func() error) (err error) {
	if err := g.PushContext(target); err != nil {
		return err
	}
	defer func() {
		if perr := g.PopContext(); perr != nil {
			err = errors.Join(err, perr)
		}
	}()
	return fn()
}

// ContextDepth returns the number of active redirects. Zero means
// drawing goes to the frame buffer.
func (g *Graphics) ContextDepth() int {
	return len(g.stack)
}

// ActiveContext returns the handle drawing currently goes to. The null
// handle means the frame buffer.
func (g *Graphics) ActiveContext() backend.Bitmap {
	if n := len(g.stack); n > 0 && g.stack[n-1] != nil {
		return g.stack[n-1].inner.raw
	}
	return 0
}
