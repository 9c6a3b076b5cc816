package software

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/gogpu/lcd/backend"
)

// decodeText converts device encoded text to a Go string. Bytes outside
// ASCII and invalid UTF-8 are replaced rather than rejected.
func decodeText(text []byte, enc backend.StringEncoding) (string, error) {
	switch enc {
	case backend.ASCIIEncoding:
		var sb strings.Builder
		sb.Grow(len(text))
		for _, b := range text {
			if b > 0x7F {
				b = '?'
			}
			sb.WriteByte(b)
		}
		return sb.String(), nil
	case backend.UTF8Encoding:
		if utf8.Valid(text) {
			return string(text), nil
		}
		return strings.ToValidUTF8(string(text), string(utf8.RuneError)), nil
	case backend.UTF16LEEncoding:
		if len(text)%2 != 0 {
			return "", fmt.Errorf("software: odd length UTF-16 text (%d bytes)", len(text))
		}
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(text)
		if err != nil {
			return "", fmt.Errorf("software: decode UTF-16: %w", err)
		}
		return string(out), nil
	}
	return "", fmt.Errorf("software: unknown string encoding %d", enc)
}
