package software

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/lcd/backend"
)

// fontSize is the pixel size outline fonts are rasterized at.
const fontSize = 14

// systemFontHeight is the line height of the built-in font.
const systemFontHeight = 14

// fontFace is a loaded font. shaper is nil for the system font and for
// outline fonts go-text could not parse; those are measured with face.
type fontFace struct {
	name   string
	face   font.Face
	shaper *gotext.Font
	height int
}

func newSystemFont() *fontFace {
	return &fontFace{
		name:   "system",
		face:   basicfont.Face7x13,
		height: systemFontHeight,
	}
}

// loadFont parses an OpenType or TrueType file.
func (d *device) loadFont(path string) (*fontFace, string) {
	full := d.resolve(path)
	switch strings.ToLower(filepath.Ext(full)) {
	case ".ttf", ".otf":
	default:
		return nil, fmt.Sprintf("unsupported font format: %s", path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Sprintf("file not found: %s", path)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Sprintf("invalid font %s: %v", path, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Sprintf("invalid font %s: %v", path, err)
	}
	name, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		name = filepath.Base(full)
	}
	ff := &fontFace{
		name:   name,
		face:   face,
		height: face.Metrics().Height.Ceil(),
	}
	if gf, err := gotext.ParseTTF(bytes.NewReader(data)); err == nil {
		ff.shaper = gf.Font
	} else {
		d.log.Debug("software: font not shapeable, using glyph advances", "path", path, "err", err)
	}
	return ff, ""
}

// width measures s. Outline fonts are shaped with HarfBuzz so kerning is
// included; tracking is added between characters.
func (f *fontFace) width(s string, tracking int) int {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return 0
	}
	var w int
	if f.shaper != nil {
		runes := []rune(s)
		out := (&shaping.HarfbuzzShaper{}).Shape(shaping.Input{
			Text:      runes,
			RunStart:  0,
			RunEnd:    len(runes),
			Direction: di.DirectionLTR,
			Face:      gotext.NewFace(f.shaper),
			Size:      fixed.I(fontSize),
			Script:    scriptOf(runes),
			Language:  language.NewLanguage("en"),
		})
		w = out.Advance.Ceil()
	} else {
		w = font.MeasureString(f.face, s).Ceil()
	}
	return w + tracking*(n-1)
}

func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		if r != ' ' {
			return language.LookupScript(r)
		}
	}
	return language.Latin
}

// drawText renders s with its top-left at (x, y) and returns the advance.
// Glyph coverage of at least one half is ink; ink is drawn as black
// source pixels through the draw mode.
func (c *canvas) drawText(f *fontFace, s string, x, y int, mode backend.DrawMode) int {
	adv := font.MeasureString(f.face, s).Ceil()
	if adv <= 0 {
		return 0
	}
	m := f.face.Metrics()
	h := max(f.height, (m.Ascent + m.Descent).Ceil())
	mask := image.NewAlpha(image.Rect(0, 0, adv, h))
	dr := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: f.face,
		Dot:  fixed.Point26_6{X: 0, Y: m.Ascent},
	}
	dr.DrawString(s)
	for py := 0; py < h; py++ {
		for px := 0; px < adv; px++ {
			if mask.AlphaAt(px, py).A < 0x80 {
				continue
			}
			c.blit(x+px, y+py, false, mode)
		}
	}
	return adv
}
