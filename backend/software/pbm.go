package software

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"

	"github.com/32bitkid/bitreader"
)

// maxPBMSide bounds the dimensions accepted from a PBM header.
const maxPBMSide = 8192

var errNotPBM = errors.New("software: not a binary PBM image")

// decodePBM reads a binary Netpbm bitmap (P4). PBM stores 1 for black, the
// opposite of the device, and pads each row to a byte boundary.
func decodePBM(r *bufio.Reader) (*plane, error) {
	magic, err := pbmToken(r)
	if err != nil {
		return nil, err
	}
	if magic != "P4" {
		return nil, errNotPBM
	}
	w, err := pbmInt(r)
	if err != nil {
		return nil, err
	}
	h, err := pbmInt(r)
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 || w > maxPBMSide || h > maxPBMSide {
		return nil, fmt.Errorf("software: pbm: bad dimensions %dx%d", w, h)
	}

	bits := bitreader.NewReader(r)
	p := newPlane(w, h)
	pad := uint((8 - w%8) % 8)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			black, err := bits.Read1()
			if err != nil {
				return nil, fmt.Errorf("software: pbm: truncated raster at row %d: %w", y, err)
			}
			p.set(x, y, !black)
		}
		if pad == 0 || y == h-1 {
			continue
		}
		if err := bits.Skip(pad); err != nil {
			return nil, fmt.Errorf("software: pbm: truncated raster at row %d: %w", y, err)
		}
	}
	return p, nil
}

// pbmToken reads one whitespace separated header token, skipping
// comments. The single whitespace byte ending the token is consumed.
func pbmToken(r *bufio.Reader) (string, error) {
	var tok []byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			if len(tok) > 0 {
				return string(tok), nil
			}
			return "", fmt.Errorf("software: pbm: short header: %w", err)
		}
		switch {
		case c == '#' && len(tok) == 0:
			if _, err := r.ReadString('\n'); err != nil {
				return "", fmt.Errorf("software: pbm: short header: %w", err)
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, c)
		}
	}
}

func pbmInt(r *bufio.Reader) (int, error) {
	tok, err := pbmToken(r)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("software: pbm: bad header value %q", tok)
	}
	return n, nil
}
