// Command lcddemo draws a demo frame with the software backend and saves
// the display buffer as a PNG.
package main

import (
	"flag"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/lcd"
	"github.com/gogpu/lcd/backend/software"
)

func main() {
	var (
		output  = flag.String("output", "lcddemo.png", "output file")
		assets  = flag.String("assets", "", "directory for relative asset paths")
		image   = flag.String("image", "", "optional image to draw")
		fontArg = flag.String("font", "", "optional TrueType font for the caption")
		verbose = flag.Bool("v", false, "log resource lifecycle")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sb := software.New(software.WithLogger(logger), software.WithAssetRoot(*assets))
	defer sb.Close()
	dev, err := lcd.Open(sb, lcd.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer dev.Close()
	g := dev.Graphics()

	if err := drawShapesDemo(g); err != nil {
		log.Fatalf("Shapes: %v", err)
	}
	if err := drawSpriteDemo(g); err != nil {
		log.Fatalf("Sprites: %v", err)
	}
	if err := drawTextDemo(g, *fontArg); err != nil {
		log.Fatalf("Text: %v", err)
	}
	if *image != "" {
		if err := drawImage(g, *image); err != nil {
			log.Fatalf("Image: %v", err)
		}
	}

	if err := g.MarkUpdatedRows(0, lcd.Rows-1); err != nil {
		log.Fatal(err)
	}
	if err := g.Display(); err != nil {
		log.Fatal(err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, sb.Snapshot()); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	s := sb.Stats()
	log.Printf("Demo saved to %s (%dx%d), %d draw calls, %d bitmaps live\n",
		*output, lcd.Columns, lcd.Rows, s.DrawCalls, s.LiveBitmaps)
}

func drawShapesDemo(g *lcd.Graphics) error {
	black := lcd.Solid(lcd.Black)
	gray := lcd.PatternColor(lcd.Pattern{
		0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	})

	if err := g.FillRect(lcd.Rect{X: 0, Y: 0, Width: lcd.Columns, Height: 24}, gray); err != nil {
		return err
	}
	if err := g.FillEllipse(lcd.Pt(20, 40), lcd.Sz(80, 80), 0, 0, black); err != nil {
		return err
	}
	if err := g.DrawEllipse(lcd.Pt(120, 40), lcd.Sz(80, 80), 3, 45, 315, black); err != nil {
		return err
	}
	_ = g.SetLineCapStyle(lcd.LineCapRound)
	if err := g.DrawLine(lcd.Pt(220, 40), lcd.Pt(300, 120), 5, black); err != nil {
		return err
	}

	// Five pointed star.
	star := make([]lcd.Point, 0, 5)
	for i := 0; i < 5; i++ {
		a := (-90 + float64(i)*144) * math.Pi / 180
		star = append(star, lcd.Pt(350+int(40*math.Cos(a)), 80+int(40*math.Sin(a))))
	}
	return g.FillPolygon(star, black, lcd.FillEvenOdd)
}

// drawSpriteDemo renders a sprite offscreen and stamps it rotated.
func drawSpriteDemo(g *lcd.Graphics) error {
	sprite, err := g.NewBitmap(lcd.Sz(24, 24), lcd.Solid(lcd.Clear))
	if err != nil {
		return err
	}
	defer sprite.Release()

	err = g.WithContext(sprite, func() error {
		if err := g.FillRect(lcd.Rect{Width: 24, Height: 24}, lcd.Solid(lcd.Black)); err != nil {
			return err
		}
		return g.FillTriangle(lcd.Pt(4, 20), lcd.Pt(12, 4), lcd.Pt(20, 20), lcd.Solid(lcd.White))
	})
	if err != nil {
		return err
	}

	for i := 0; i < 8; i++ {
		at := lcd.Pt(20+i*46, 150)
		if err := sprite.DrawRotated(at, float32(i*45), lcd.Center, lcd.UnitScale); err != nil {
			return err
		}
	}
	mirrored, err := sprite.Transform(lcd.Transform{Scale: lcd.V2(2, 2), Flip: lcd.FlippedY})
	if err != nil {
		return err
	}
	defer mirrored.Release()
	return mirrored.Draw(lcd.Pt(340, 185), lcd.Unflipped)
}

func drawTextDemo(g *lcd.Graphics, path string) error {
	var font *lcd.Font // nil is the system font
	if path != "" {
		f, err := g.LoadFont(path)
		if err != nil {
			return err
		}
		defer f.Release()
		if err := g.SetFont(f); err != nil {
			return err
		}
		defer func() { _ = g.SetFont(nil) }()
		font = f
	}
	const caption = "lcd demo"
	w, err := g.TextWidth(font, caption, 0)
	if err != nil {
		return err
	}
	_, err = g.DrawText(caption, lcd.Pt((lcd.Columns-w)/2, 220))
	return err
}

func drawImage(g *lcd.Graphics, path string) error {
	b, err := g.LoadBitmap(path)
	if err != nil {
		return err
	}
	defer b.Release()
	return b.DrawScaled(lcd.Pt(0, 0), lcd.V2(0.5, 0.5))
}
