package forms

import (
	"math"

	"github.com/wudi/formkit/contentstream"
)

func polygon(c *contentstream.Canvas, pts [][2]float64) {
	for i, p := range pts {
		if i == 0 {
			c.MoveTo(p[0], p[1])
		} else {
			c.LineTo(p[0], p[1])
		}
	}
	c.ClosePath()
}

// drawCross strokes a cross centred in the box, inset by twice the border
// width.
func drawCross(c *contentstream.Canvas, w, h, borderWidth float64) {
	offset := borderWidth * 2
	c.MoveTo((w-h)/2+offset, h-offset)
	c.LineTo((w+h)/2-offset, offset)
	c.MoveTo((w+h)/2-offset, h-offset)
	c.LineTo((w-h)/2+offset, offset)
	c.Stroke()
}

// drawMark paints a filled checkbox mark of the given type. The marks are
// plain vector paths so that they need no font.
func drawMark(c *contentstream.Canvas, t CheckBoxType, w, h float64) {
	cx, cy := w/2, h/2
	size := math.Min(w, h)
	switch t {
	case CheckCheck:
		u := size / 10
		x0, y0 := cx-size/2, cy-size/2
		polygon(c, [][2]float64{
			{x0 + 2*u, y0 + 5.2*u},
			{x0 + 4*u, y0 + 3*u},
			{x0 + 8*u, y0 + 7.6*u},
			{x0 + 7.2*u, y0 + 8.4*u},
			{x0 + 4*u, y0 + 4.6*u},
			{x0 + 2.8*u, y0 + 6*u},
		})
		c.Fill()
	case CheckCircle:
		c.Circle(cx, cy, size/4)
		c.Fill()
	case CheckCross:
		u := size / 10
		polygon(c, [][2]float64{
			{cx - 3*u, cy - 2*u}, {cx - 2*u, cy - 3*u}, {cx, cy - u},
			{cx + 2*u, cy - 3*u}, {cx + 3*u, cy - 2*u}, {cx + u, cy},
			{cx + 3*u, cy + 2*u}, {cx + 2*u, cy + 3*u}, {cx, cy + u},
			{cx - 2*u, cy + 3*u}, {cx - 3*u, cy + 2*u}, {cx - u, cy},
		})
		c.Fill()
	case CheckDiamond:
		r := size * 0.35
		polygon(c, [][2]float64{{cx, cy + r}, {cx + r, cy}, {cx, cy - r}, {cx - r, cy}})
		c.Fill()
	case CheckSquare:
		side := size / 2
		c.Rectangle(cx-side/2, cy-side/2, side, side)
		c.Fill()
	case CheckStar:
		outer := size * 0.38
		inner := outer * 0.4
		pts := make([][2]float64, 0, 10)
		for i := 0; i < 10; i++ {
			r := outer
			if i%2 == 1 {
				r = inner
			}
			angle := math.Pi/2 + float64(i)*math.Pi/5
			pts = append(pts, [2]float64{cx + r*math.Cos(angle), cy + r*math.Sin(angle)})
		}
		polygon(c, pts)
		c.Fill()
	}
}
