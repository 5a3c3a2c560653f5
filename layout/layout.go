// Package layout fits and places variable text inside widget rectangles.
//
// All coordinates are in the appearance stream's space: origin at the lower
// left corner of the box, y growing upwards.
package layout

import (
	"math"
	"strings"

	"seehuhn.de/go/geom/rect"

	"github.com/wudi/formkit/contentstream"
	"github.com/wudi/formkit/fonts"
)

// Font size defaults used by auto sizing.
const (
	MinFontSize     = 4.0
	DefaultFontSize = 12.0
)

// Alignment mirrors the /Q quadding values.
type Alignment int

const (
	Left Alignment = iota
	Center
	Right
)

// Limits bounds an automatically computed font size. A zero Max leaves
// the size unbounded from above.
type Limits struct {
	Min, Max float64
}

func (l Limits) clamp(size float64) float64 {
	if l.Max > 0 && size > l.Max {
		size = l.Max
	}
	return math.Max(size, l.Min)
}

// DefaultLimits are the limits used for auto sized fields.
var DefaultLimits = Limits{Min: MinFontSize, Max: DefaultFontSize}

// LineHeight returns the distance from the lowest descender to the highest
// ascender of f at the given size.
func LineHeight(f fonts.Font, size float64) float64 {
	return f.Ascent("", size) + f.Descent(size)
}

// FitSingleLine returns the largest font size at which text fits on one
// line inside box after removing the border on every side. The usable
// width keeps a small padding: 4pt per side, or 15% of the width for
// narrow boxes.
func FitSingleLine(f fonts.Font, box rect.Rect, text string, lim Limits, borderWidth float64) float64 {
	height := box.Dy() - borderWidth*2
	size := height / LineHeight(f, 1)
	if base := f.Width(text, 1); base != 0 {
		available := math.Max(box.Dx()-borderWidth*2, 0)
		const (
			absMaxPadding = 4
			relPadding    = 0.15
		)
		if available*relPadding < absMaxPadding {
			available -= available * relPadding * 2
		} else {
			available -= absMaxPadding * 2
		}
		size = math.Min(size, available/base)
	}
	return lim.clamp(size)
}

// FitMultiLine returns the largest font size, within lim, at which text
// broken into lines fits box inset by padding. The search stops at a
// precision of 0.1pt.
func FitMultiLine(f fonts.Font, box rect.Rect, text string, padding float64, lim Limits) float64 {
	width := box.Dx() - padding*2
	height := box.Dy() - padding*2
	fits := func(size float64) bool {
		lines := BreakLines(f, text, size, width)
		return TextHeight(f, len(lines), size) <= height
	}
	hi := lim.Max
	if hi <= 0 {
		hi = math.Max(height, lim.Min)
	}
	if fits(hi) {
		return hi
	}
	lo := lim.Min
	for hi-lo > 0.1 {
		mid := (lo + hi) / 2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return math.Floor(lo*10) / 10
}

// TextHeight returns the height taken by n lines set with a leading equal
// to the font size.
func TextHeight(f fonts.Font, n int, size float64) float64 {
	if n == 0 {
		return 0
	}
	return float64(n-1)*size + LineHeight(f, size)
}

// BreakLines splits text into lines no wider than maxWidth. Explicit line
// breaks are kept, words are wrapped at spaces and words longer than a
// line are split between characters.
func BreakLines(f fonts.Font, text string, size, maxWidth float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var out []string
	for _, para := range strings.Split(text, "\n") {
		out = append(out, wrap(f, para, size, maxWidth)...)
	}
	return out
}

func wrap(f fonts.Font, para string, size, maxWidth float64) []string {
	if para == "" {
		return []string{""}
	}
	var (
		lines   []string
		line    strings.Builder
		lineW   float64
		spaceW  = f.Width(" ", size)
		pending bool
	)
	flush := func() {
		lines = append(lines, strings.TrimRight(line.String(), " "))
		line.Reset()
		lineW = 0
		pending = false
	}
	for _, word := range strings.Split(para, " ") {
		if word == "" {
			// runs of spaces are kept
			if lineW+spaceW <= maxWidth {
				line.WriteByte(' ')
				lineW += spaceW
			}
			continue
		}
		w := f.Width(word, size)
		sep := 0.0
		if pending {
			sep = spaceW
		}
		switch {
		case lineW+sep+w <= maxWidth:
			if pending {
				line.WriteByte(' ')
			}
			line.WriteString(word)
			lineW += sep + w
		case w <= maxWidth:
			flush()
			line.WriteString(word)
			lineW = w
		default:
			if line.Len() > 0 {
				flush()
			}
			for _, r := range word {
				rw := f.Width(string(r), size)
				if lineW+rw > maxWidth && line.Len() > 0 {
					flush()
				}
				line.WriteRune(r)
				lineW += rw
			}
		}
		pending = true
	}
	if line.Len() > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// Text describes a run of variable text drawn with one font.
type Text struct {
	Font     fonts.Font
	Resource string // font resource name
	Size     float64
	Align    Alignment
}

// ShowAligned draws one line with its anchor at x and baseline at y. The
// anchor is the left edge, the centre or the right edge of the line
// depending on the alignment.
func (t Text) ShowAligned(c *contentstream.Canvas, s string, x, y float64) {
	switch t.Align {
	case Center:
		x -= t.Font.Width(s, t.Size) / 2
	case Right:
		x -= t.Font.Width(s, t.Size)
	}
	c.BeginText()
	c.SetFontAndSize(t.Resource, t.Size)
	c.MoveText(x, y)
	c.ShowText(t.Font.Encode(s))
	c.EndText()
}

// MiddleBaseline returns the baseline that centres a line vertically in a
// box of the given height.
func (t Text) MiddleBaseline(height float64) float64 {
	asc := t.Font.Ascent("", t.Size)
	desc := t.Font.Descent(t.Size)
	return (height - asc + desc) / 2
}

// ShowLine draws a single line vertically centred in box, inset
// horizontally by padding.
func (t Text) ShowLine(c *contentstream.Canvas, s string, box rect.Rect, padding float64) {
	x := box.LLx + padding
	switch t.Align {
	case Center:
		x = box.LLx + box.Dx()/2
	case Right:
		x = box.URx - padding
	}
	t.ShowAligned(c, s, x, box.LLy+t.MiddleBaseline(box.Dy()))
}

// ShowLines draws lines top down from the upper edge of box inset by
// padding. Lines falling below the box are dropped.
func (t Text) ShowLines(c *contentstream.Canvas, lines []string, box rect.Rect, padding float64) {
	x := box.LLx + padding
	switch t.Align {
	case Center:
		x = box.LLx + box.Dx()/2
	case Right:
		x = box.URx - padding
	}
	y := box.URy - padding - t.Font.Ascent("", t.Size)
	bottom := box.LLy + padding - t.Font.Descent(t.Size)
	for i, line := range lines {
		if i > 0 && y < bottom {
			break
		}
		if line != "" {
			t.ShowAligned(c, line, x, y)
		}
		y -= t.Size
	}
}
