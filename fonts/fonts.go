// Package fonts provides the fonts used to draw widget appearances.
//
// A Font measures and encodes text for a simple (single byte) PDF font. The
// default font embeds the Go Regular TrueType face with WinAnsiEncoding, so
// measurement and rendering always agree.
package fonts

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/charmap"

	"github.com/wudi/formkit/ir/raw"
)

// Font is what appearance drawers need from a font.
type Font interface {
	// Name is the PostScript name used as /BaseFont.
	Name() string
	// Width returns the advance width of text at the given size.
	Width(text string, size float64) float64
	// Ascent returns the height above the baseline of the tallest glyph
	// in text, or the font ascent for empty text.
	Ascent(text string, size float64) float64
	// Descent returns the font descent as a positive distance.
	Descent(size float64) float64
	// Encode converts text to the byte string shown by Tj. Characters the
	// encoding cannot represent become '?'.
	Encode(text string) []byte
	// Dict builds the PDF font dictionary, registering its indirect parts
	// in s.
	Dict(s *raw.Store) *raw.DictObj
}

const (
	firstChar = 32
	lastChar  = 255
)

// TrueType is a TrueType font used as a simple font with WinAnsiEncoding.
type TrueType struct {
	name        string
	data        []byte
	sf          *sfnt.Font
	upem        sfnt.Units
	widths      [256]float64 // 1/1000 em, by WinAnsi code
	ascent      float64
	descent     float64
	capHeight   float64
	italicAngle float64
	bbox        [4]float64
	glyphTop    map[rune]float64
}

// LoadTrueType parses a TrueType/OpenType font and extracts the metrics
// needed for a simple WinAnsi font. The full font is embedded (no
// subsetting).
func LoadTrueType(name string, data []byte) (*TrueType, error) {
	if len(data) == 0 {
		return nil, errors.New("truetype font data is empty")
	}
	font, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse truetype: %w", err)
	}
	unitsPerEm := font.UnitsPerEm()
	if unitsPerEm == 0 {
		return nil, errors.New("invalid unitsPerEm")
	}
	buf := &sfnt.Buffer{}
	ppem := fixed.Int26_6(unitsPerEm << 6)

	baseName := strings.TrimSpace(name)
	if ps, _ := font.Name(buf, sfnt.NameIDPostScript); len(ps) > 0 {
		baseName = ps
	}
	if baseName == "" {
		baseName = "CustomTT"
	}

	t := &TrueType{
		name:     baseName,
		data:     data,
		sf:       font,
		upem:     unitsPerEm,
		glyphTop: make(map[rune]float64),
	}
	if err := t.loadWidths(); err != nil {
		return nil, err
	}

	metrics, err := font.Metrics(buf, ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("read metrics: %w", err)
	}
	bounds, _ := font.Bounds(buf, ppem, xfont.HintingNone)
	t.ascent = scaleFixed(metrics.Ascent, unitsPerEm)
	t.descent = scaleFixed(metrics.Descent, unitsPerEm)
	t.capHeight = scaleFixed(metrics.CapHeight, unitsPerEm)
	if t.capHeight == 0 {
		t.capHeight = t.ascent
	}
	// sfnt bounds grow downwards
	t.bbox = [4]float64{
		scaleFixed(bounds.Min.X, unitsPerEm),
		-scaleFixed(bounds.Max.Y, unitsPerEm),
		scaleFixed(bounds.Max.X, unitsPerEm),
		-scaleFixed(bounds.Min.Y, unitsPerEm),
	}
	if post := font.PostTable(); post != nil {
		t.italicAngle = post.ItalicAngle
	}

	for code := firstChar; code <= lastChar; code++ {
		r := charmap.Windows1252.DecodeByte(byte(code))
		gid, err := font.GlyphIndex(buf, r)
		if err != nil || gid == 0 {
			continue
		}
		gb, _, err := font.GlyphBounds(buf, gid, ppem, xfont.HintingNone)
		if err != nil {
			continue
		}
		t.glyphTop[r] = -scaleFixed(gb.Min.Y, unitsPerEm)
	}
	return t, nil
}

var (
	defaultOnce sync.Once
	defaultFont *TrueType
	defaultErr  error
)

// Default returns the embedded Go Regular font.
func Default() (*TrueType, error) {
	defaultOnce.Do(func() {
		defaultFont, defaultErr = LoadTrueType("GoRegular", goregular.TTF)
	})
	return defaultFont, defaultErr
}

func (t *TrueType) Name() string { return t.name }

// Data returns the font program.
func (t *TrueType) Data() []byte { return t.data }

func (t *TrueType) Width(text string, size float64) float64 {
	var w float64
	for _, b := range t.Encode(text) {
		w += t.widths[b]
	}
	return w * size / 1000
}

func (t *TrueType) Ascent(text string, size float64) float64 {
	if text == "" {
		return t.ascent * size / 1000
	}
	var top float64
	for _, r := range text {
		if h, ok := t.glyphTop[r]; ok && h > top {
			top = h
		}
	}
	return top * size / 1000
}

func (t *TrueType) Descent(size float64) float64 { return t.descent * size / 1000 }

func (t *TrueType) Encode(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok || b < firstChar {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

// CharWidth returns the width of a WinAnsi code in 1/1000 em.
func (t *TrueType) CharWidth(code byte) float64 { return t.widths[code] }

func scaleFixed(val fixed.Int26_6, unitsPerEm sfnt.Units) float64 {
	return float64(val) * 1000.0 / (64.0 * float64(unitsPerEm))
}

func round(v float64) float64 { return math.Round(v) }
