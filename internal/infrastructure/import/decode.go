package csvimport

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText turns raw file bytes into text. It prefers a strict UTF-8
// decode and falls back to Windows-1252 for legacy vendor exports. The
// fallback accepts every byte value, so decoding is total: this function
// cannot fail.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data)
	}

	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(charmap.Windows1252.DecodeByte(b))
	}
	return sb.String()
}
