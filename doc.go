// Package lcd manages drawing resources on a 400x240 1-bit display.
//
// # Overview
//
// The package sits between application code and a drawing backend. The
// backend owns the pixels and knows how to rasterize; lcd owns the
// lifetimes. It wraps native handles in reference types that free them
// exactly once, caches bitmaps resolved from tables, and keeps the stack
// of drawing redirects balanced.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/lcd"
//	    _ "github.com/gogpu/lcd/backend/software"
//	)
//
//	dev, err := lcd.Open(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	g := dev.Graphics()
//	sprite, _ := g.NewBitmap(lcd.Sz(16, 16), lcd.Solid(lcd.White))
//	defer sprite.Release()
//
//	// Draw into the sprite, then onto the screen.
//	_ = g.WithContext(sprite, func() error {
//	    return g.FillEllipse(lcd.Pt(0, 0), lcd.Sz(16, 16), 0, 0, lcd.Solid(lcd.Black))
//	})
//	_ = sprite.Draw(lcd.Pt(100, 100), lcd.Unflipped)
//	_ = g.Display()
//
// # Resources
//
// A Bitmap is a counted reference. Clone shares the native bitmap and
// Release drops one reference; the last release frees an owned bitmap.
// Borrowed bitmaps, such as the display buffer, are never freed.
//
// A BitmapTable resolves each index once and hands out references to the
// cached bitmap. Reloading the table drops the cache unless the device
// was opened with TableReloadKeepsCache.
//
// A Font has one owner and is freed with Release.
//
// # Drawing Contexts
//
// Drawing goes to the frame buffer until PushContext redirects it into a
// bitmap. While redirected, the target cannot be read or drawn through
// any reference (ErrBitmapBusy). WithContext pops on every exit path.
//
// # Coordinates
//
// Origin (0,0) is the top-left pixel, X grows right and Y grows down.
// Angles are degrees clockwise, with 0 pointing up for ellipse arcs.
//
// # Errors
//
// Every error matches one of the Err sentinels with errors.Is. Load
// failures are *LoadError values carrying the backend's message.
package lcd
