// Package software is a pure Go simulator of the 1-bit display device.
//
// Every capability of backend.Graphics, backend.Display and backend.System
// is implemented on in-memory planes: a 400x240 frame buffer with 52 byte
// rows, a display buffer updated by Display, and any number of offscreen
// bitmaps with optional masks. Importing the package registers the
// simulator as the "software" backend:
//
//	import _ "github.com/gogpu/lcd/backend/software"
//
// Assets are read from disk. Images are decoded with the standard library
// decoders plus BMP and binary PBM, then thresholded by perceptual
// lightness. Fonts are OpenType or TrueType files rasterized at 14 pixels;
// the null font is a built-in bitmap font.
//
// The simulator keeps counters (see Stats) and exposes its buffers as
// images so callers can check what was drawn.
package software
