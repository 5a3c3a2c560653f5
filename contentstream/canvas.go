package contentstream

import (
	"bytes"

	"seehuhn.de/go/geom/matrix"

	"github.com/wudi/formkit/color"
	"github.com/wudi/formkit/ir/raw"
)

// Canvas accumulates content stream operators. Output is deterministic:
// one operator per line, numbers formatted by raw.FormatNumber.
type Canvas struct {
	buf bytes.Buffer
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas { return &Canvas{} }

// Bytes returns the content written so far.
func (c *Canvas) Bytes() []byte { return c.buf.Bytes() }

// Len returns the number of bytes written so far.
func (c *Canvas) Len() int { return c.buf.Len() }

func (c *Canvas) op(name string, nums ...float64) {
	for _, n := range nums {
		c.buf.WriteString(raw.FormatNumber(n))
		c.buf.WriteByte(' ')
	}
	c.buf.WriteString(name)
	c.buf.WriteByte('\n')
}

func (c *Canvas) SaveState()    { c.op("q") }
func (c *Canvas) RestoreState() { c.op("Q") }

// ConcatMatrix multiplies the current transformation matrix by m.
func (c *Canvas) ConcatMatrix(m matrix.Matrix) {
	c.op("cm", m[0], m[1], m[2], m[3], m[4], m[5])
}

func (c *Canvas) SetLineWidth(w float64) { c.op("w", w) }
func (c *Canvas) MoveTo(x, y float64)    { c.op("m", x, y) }
func (c *Canvas) LineTo(x, y float64)    { c.op("l", x, y) }
func (c *Canvas) ClosePath()             { c.op("h") }
func (c *Canvas) Fill()                  { c.op("f") }
func (c *Canvas) Stroke()                { c.op("S") }
func (c *Canvas) FillStroke()            { c.op("B") }
func (c *Canvas) EndPath()               { c.op("n") }

// SetLineDash sets the dash pattern. An empty pattern draws solid lines.
func (c *Canvas) SetLineDash(phase float64, dashes ...float64) {
	c.buf.WriteByte('[')
	for i, d := range dashes {
		if i > 0 {
			c.buf.WriteByte(' ')
		}
		c.buf.WriteString(raw.FormatNumber(d))
	}
	c.buf.WriteString("] ")
	c.op("d", phase)
}

// Rectangle appends a rectangle with lower left corner (x, y).
func (c *Canvas) Rectangle(x, y, w, h float64) { c.op("re", x, y, w, h) }

// CurveTo appends a cubic Bézier segment.
func (c *Canvas) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	c.op("c", x1, y1, x2, y2, x3, y3)
}

// Clip intersects the clipping path with the current path using the
// nonzero winding rule. The path still has to be ended.
func (c *Canvas) Clip() { c.op("W") }

// bezierCircle is the control point distance, as a fraction of the radius,
// of a four segment cubic Bézier approximation of a circle.
const bezierCircle = 0.5523

// Circle appends a closed circle approximated by four Bézier segments.
func (c *Canvas) Circle(cx, cy, r float64) {
	k := r * bezierCircle
	c.MoveTo(cx+r, cy)
	c.CurveTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	c.CurveTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	c.CurveTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	c.CurveTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	c.ClosePath()
}

// SetFillColor selects col for filling. A nil colour writes nothing.
func (c *Canvas) SetFillColor(col *color.Color) {
	if col == nil {
		return
	}
	c.op(col.FillOperator(), col.Components()...)
}

// SetStrokeColor selects col for stroking. A nil colour writes nothing.
func (c *Canvas) SetStrokeColor(col *color.Color) {
	if col == nil {
		return
	}
	c.op(col.StrokeOperator(), col.Components()...)
}

func (c *Canvas) BeginText() { c.op("BT") }
func (c *Canvas) EndText()   { c.op("ET") }

// SetFontAndSize selects the font resource name at the given size.
func (c *Canvas) SetFontAndSize(name string, size float64) {
	c.writeName(name)
	c.op("Tf", size)
}

// MoveText starts a new line offset by (tx, ty).
func (c *Canvas) MoveText(tx, ty float64) { c.op("Td", tx, ty) }

// SetTextMatrix replaces the text matrix and text line matrix.
func (c *Canvas) SetTextMatrix(m matrix.Matrix) {
	c.op("Tm", m[0], m[1], m[2], m[3], m[4], m[5])
}

// ShowText shows already encoded text as a literal string.
func (c *Canvas) ShowText(encoded []byte) {
	writeLiteral(&c.buf, encoded)
	c.buf.WriteByte(' ')
	c.op("Tj")
}

// BeginMarkedContent opens a marked content sequence, e.g. /Tx BMC.
func (c *Canvas) BeginMarkedContent(tag string) {
	c.writeName(tag)
	c.op("BMC")
}

func (c *Canvas) EndMarkedContent() { c.op("EMC") }

// DrawXObject paints the named form XObject.
func (c *Canvas) DrawXObject(name string) {
	c.writeName(name)
	c.op("Do")
}

func (c *Canvas) writeName(name string) {
	c.buf.WriteByte('/')
	c.buf.WriteString(EscapeName(name))
	c.buf.WriteByte(' ')
}

// EscapeName encodes the characters of a name that need #xx escapes.
func EscapeName(name string) string {
	var b bytes.Buffer
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch < 0x21 || ch > 0x7e || ch == '#' || isDelim(ch) {
			b.WriteByte('#')
			b.WriteByte(hexDigits[ch>>4])
			b.WriteByte(hexDigits[ch&0x0f])
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

const hexDigits = "0123456789ABCDEF"

func writeLiteral(buf *bytes.Buffer, s []byte) {
	buf.WriteByte('(')
	for _, ch := range s {
		switch ch {
		case '(', ')', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(ch)
		case '\r':
			buf.WriteString(`\r`)
		case '\n':
			buf.WriteString(`\n`)
		default:
			buf.WriteByte(ch)
		}
	}
	buf.WriteByte(')')
}
