package software

import (
	"fmt"

	"github.com/gogpu/lcd/backend"
)

// DisplayState is the simulated panel configuration.
type DisplayState struct {
	Inverted    bool
	Scale       uint
	MosaicX     uint
	MosaicY     uint
	OffsetX     int
	OffsetY     int
	RefreshRate float32
	FlipX       bool
	FlipY       bool
}

func defaultDisplayState() DisplayState {
	return DisplayState{Scale: 1, RefreshRate: 30}
}

// display implements backend.Display.
type display struct {
	d *device
}

var _ backend.Display = (*display)(nil)

func (s *display) GetWidth() (int, error) {
	if err := s.d.ready(); err != nil {
		return 0, err
	}
	return backend.Columns / int(s.d.disp.Scale), nil
}

func (s *display) GetHeight() (int, error) {
	if err := s.d.ready(); err != nil {
		return 0, err
	}
	return backend.Rows / int(s.d.disp.Scale), nil
}

func (s *display) SetInverted(inverted bool) error {
	if err := s.d.ready(); err != nil {
		return err
	}
	s.d.disp.Inverted = inverted
	return nil
}

func (s *display) SetScale(scale uint) error {
	if err := s.d.ready(); err != nil {
		return err
	}
	switch scale {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("software: unsupported display scale %d", scale)
	}
	s.d.disp.Scale = scale
	return nil
}

func (s *display) SetMosaic(x, y uint) error {
	if err := s.d.ready(); err != nil {
		return err
	}
	if x > 3 || y > 3 {
		return fmt.Errorf("software: mosaic %dx%d outside 0..3", x, y)
	}
	s.d.disp.MosaicX, s.d.disp.MosaicY = x, y
	return nil
}

func (s *display) SetOffset(dx, dy int) error {
	if err := s.d.ready(); err != nil {
		return err
	}
	s.d.disp.OffsetX, s.d.disp.OffsetY = dx, dy
	return nil
}

func (s *display) SetRefreshRate(rate float32) error {
	if err := s.d.ready(); err != nil {
		return err
	}
	if rate < 0 {
		return fmt.Errorf("software: negative refresh rate %v", rate)
	}
	s.d.disp.RefreshRate = rate
	return nil
}

func (s *display) SetFlipped(x, y bool) error {
	if err := s.d.ready(); err != nil {
		return err
	}
	s.d.disp.FlipX, s.d.disp.FlipY = x, y
	return nil
}
