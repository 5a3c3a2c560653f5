package fonts

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/charmap"
)

// ShapedGlyph represents a single shaped glyph with positioning information.
type ShapedGlyph struct {
	ID       int
	Cluster  int
	XAdvance float64 // In PDF text units (1/1000 em)
}

// Shape shapes text with the font program and returns the glyph advances
// in 1/1000 em. Simple fonts show text without kerning, so Width does not
// use this directly; it is the source of the per-code widths.
func (t *TrueType) Shape(text string) ([]ShapedGlyph, error) {
	face, err := gofont.ParseTTF(bytes.NewReader(t.data))
	if err != nil {
		return nil, err
	}
	return shapeRun(&shaping.HarfbuzzShaper{}, face, []rune(text)), nil
}

func shapeRun(shaper *shaping.HarfbuzzShaper, face *gofont.Face, runes []rune) []ShapedGlyph {
	// 1000 units per em, so advances come out in PDF glyph space
	size := fixed.Int26_6(1000 * 64)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      face,
		Size:      size,
		Script:    language.Latin,
		Language:  language.DefaultLanguage(),
	}
	output := shaper.Shape(input)
	out := make([]ShapedGlyph, 0, len(output.Glyphs))
	for _, g := range output.Glyphs {
		out = append(out, ShapedGlyph{
			ID:       int(g.GlyphID),
			Cluster:  int(g.ClusterIndex),
			XAdvance: float64(g.XAdvance) / 64.0,
		})
	}
	return out
}

// loadWidths shapes every WinAnsi character on its own to fill the
// /Widths table.
func (t *TrueType) loadWidths() error {
	face, err := gofont.ParseTTF(bytes.NewReader(t.data))
	if err != nil {
		return fmt.Errorf("load face: %w", err)
	}
	shaper := &shaping.HarfbuzzShaper{}
	var fallback float64
	for code := firstChar; code <= lastChar; code++ {
		r := charmap.Windows1252.DecodeByte(byte(code))
		glyphs := shapeRun(shaper, face, []rune{r})
		if len(glyphs) == 0 || glyphs[0].ID == 0 {
			continue
		}
		var adv float64
		for _, g := range glyphs {
			adv += g.XAdvance
		}
		t.widths[code] = round(adv)
		if r == ' ' {
			fallback = t.widths[code]
		}
	}
	// unmapped codes render as .notdef; give them the space width
	for code := firstChar; code <= lastChar; code++ {
		if t.widths[code] == 0 {
			t.widths[code] = fallback
		}
	}
	return nil
}
