package raw

import (
	"bytes"
	"math"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF16 = []byte{0xFE, 0xFF}
	bomUTF8  = []byte{0xEF, 0xBB, 0xBF}
)

// DecodeText converts a PDF text string to UTF-8.
func DecodeText(b []byte) string {
	switch {
	case bytes.HasPrefix(b, bomUTF16):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	case bytes.HasPrefix(b, bomUTF8):
		return string(b[len(bomUTF8):])
	}
	if isASCII(b) {
		return string(b)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// TextString encodes s as a PDF text string: plain bytes for ASCII,
// UTF-16BE with byte order mark otherwise.
func TextString(s string) StringObj {
	if isASCII([]byte(s)) || !utf8.ValidString(s) {
		return Str([]byte(s))
	}
	out, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		return Str([]byte(s))
	}
	return Str(out)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

// FormatNumber renders f the way numbers appear in content streams and
// object syntax: at most four fraction digits, no exponent, no "-0".
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	r := math.Round(f*1e4) / 1e4
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
