package forms

import (
	"github.com/wudi/formkit/color"
	"github.com/wudi/formkit/contentstream"
	"github.com/wudi/formkit/ir/raw"
)

// BorderStyle mirrors the BS/S values.
type BorderStyle int

const (
	BorderSolid BorderStyle = iota
	BorderDashed
	BorderBeveled
	BorderInset
	BorderUnderline
)

// Name returns the BS/S name of the style.
func (b BorderStyle) Name() string {
	switch b {
	case BorderDashed:
		return "D"
	case BorderBeveled:
		return "B"
	case BorderInset:
		return "I"
	case BorderUnderline:
		return "U"
	}
	return "S"
}

func borderStyleFromName(n string) BorderStyle {
	switch n {
	case "D":
		return BorderDashed
	case "B":
		return BorderBeveled
	case "I":
		return BorderInset
	case "U":
		return BorderUnderline
	}
	return BorderSolid
}

// Border is the resolved border of a widget.
type Border struct {
	Style BorderStyle
	Width float64
	Color *color.Color
	Dash  []float64
}

var defaultDash = []float64{3}

// NewBorderStyle builds a BS dictionary for SetBorderStyle.
func NewBorderStyle(style BorderStyle, width float64, dash ...float64) *raw.DictObj {
	bs := raw.DictOf(map[string]raw.Object{
		"Type": raw.NameLiteral("Border"),
		"S":    raw.NameLiteral(style.Name()),
		"W":    raw.Real(width),
	})
	if style == BorderDashed && len(dash) > 0 {
		bs.Set(raw.NameLiteral("D"), raw.Floats(dash...))
	}
	return bs
}

func borderFromStyle(s *raw.Store, bs *raw.DictObj, width float64, c *color.Color) *Border {
	name, _ := s.GetName(bs, "S")
	b := &Border{Style: borderStyleFromName(name), Width: width, Color: c}
	if b.Style == BorderDashed {
		b.Dash = defaultDash
		if d, ok := s.Numbers(s.GetArray(bs, "D")); ok && len(d) > 0 {
			b.Dash = d
		}
	}
	return b
}

// draw paints the border inside a w by h box.
func (b *Border) draw(c *contentstream.Canvas, w, h float64) {
	bw := b.Width
	half := bw / 2
	c.SetStrokeColor(b.Color)
	c.SetLineWidth(bw)
	switch b.Style {
	case BorderUnderline:
		c.MoveTo(0, half)
		c.LineTo(w, half)
		c.Stroke()
		return
	case BorderDashed:
		c.SetLineDash(0, b.Dash...)
	}
	c.Rectangle(half, half, w-bw, h-bw)
	c.Stroke()

	var light, dark *color.Color
	switch b.Style {
	case BorderBeveled:
		light, dark = color.White, color.Gray(0.5)
	case BorderInset:
		light, dark = color.Gray(0.5), color.LightGray
	default:
		return
	}
	// top left
	c.SetFillColor(light)
	polygon(c, [][2]float64{
		{bw, bw}, {bw, h - bw}, {w - bw, h - bw},
		{w - 2*bw, h - 2*bw}, {2 * bw, h - 2*bw}, {2 * bw, 2 * bw},
	})
	c.Fill()
	// bottom right
	c.SetFillColor(dark)
	polygon(c, [][2]float64{
		{w - bw, h - bw}, {w - bw, bw}, {bw, bw},
		{2 * bw, 2 * bw}, {w - 2*bw, 2 * bw}, {w - 2*bw, h - 2*bw},
	})
	c.Fill()
}

// drawBorder paints the background and the border of a w by h
// appearance, as shared by all widget drawers.
func (a *FormAnnotation) drawBorder(c *contentstream.Canvas, w, h float64) {
	c.SaveState()
	if a.backgroundColor != nil {
		c.SetFillColor(a.backgroundColor)
		c.Rectangle(0, 0, w, h)
		c.Fill()
	}
	if b := a.Border(); b != nil {
		b.draw(c, w, h)
	}
	c.RestoreState()
}
