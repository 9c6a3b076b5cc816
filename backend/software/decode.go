package software

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	colorful "github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
)

// imageExts are tried in order when an asset path has no extension.
var imageExts = []string{".png", ".gif", ".bmp", ".pbm", ".jpg", ".jpeg"}

// resolve makes path absolute against the asset root.
func (d *device) resolve(path string) string {
	if filepath.IsAbs(path) || d.opts.assetRoot == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(d.opts.assetRoot, path)
}

// findImage returns the file that an asset path names. Paths without an
// extension are matched against the known image extensions.
func findImage(full string) (string, bool) {
	if filepath.Ext(full) != "" {
		if _, err := os.Stat(full); err == nil {
			return full, true
		}
		return "", false
	}
	for _, ext := range imageExts {
		if _, err := os.Stat(full + ext); err == nil {
			return full + ext, true
		}
	}
	return "", false
}

// loadPlane decodes the image an asset path names. Failures are reported
// as a message, the way the device reports them.
func (d *device) loadPlane(path string) (*plane, string) {
	file, ok := findImage(d.resolve(path))
	if !ok {
		return nil, fmt.Sprintf("file not found: %s", path)
	}
	p, err := d.decodeFile(file)
	if err != nil {
		d.log.Warn("software: decode failed", "path", file, "err", err)
		return nil, err.Error()
	}
	return p, ""
}

// decodeFile decodes one image file through the decode cache.
func (d *device) decodeFile(file string) (*plane, error) {
	info, err := os.Stat(file)
	if err != nil {
		return nil, err
	}
	key := decodeKey{path: file, size: info.Size(), modTime: info.ModTime().UnixNano()}
	if p, ok := d.cache.get(key); ok {
		return p, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	p, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(file), err)
	}
	d.cache.put(key, p)
	return p, nil
}

// decodeImage decodes Netpbm bitmaps natively and everything else through
// the registered image decoders.
func decodeImage(data []byte) (*plane, error) {
	if bytes.HasPrefix(data, []byte("P4")) {
		return decodePBM(bufio.NewReader(bytes.NewReader(data)))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported image: %w", err)
	}
	return planeFromImage(img), nil
}

// planeFromImage thresholds img to 1 bit. Pixels at least half transparent
// become transparent; the rest are white when their CIE L* lightness is at
// least one half.
func planeFromImage(img image.Image) *plane {
	b := img.Bounds()
	p := newPlane(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.At(x, y)
			px, py := x-b.Min.X, y-b.Min.Y
			if _, _, _, a := c.RGBA(); a < 0x8000 {
				p.setOpaque(px, py, false)
				continue
			}
			col, ok := colorful.MakeColor(c)
			if !ok {
				p.setOpaque(px, py, false)
				continue
			}
			l, _, _ := col.Lab()
			p.set(px, py, l >= 0.5)
		}
	}
	return p
}
