package forms

import (
	"github.com/wudi/formkit/color"
	"github.com/wudi/formkit/contentstream"
	"github.com/wudi/formkit/coords"
	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/layout"
)

var selectionColor = color.RGB(0.6, 0.75, 0.85)

// TopIndex returns the inherited /TI, the first option shown by a list box.
func (f *Field) TopIndex() int {
	n, _ := f.inherited("TI").(raw.NumberObj)
	return int(n.Int())
}

// SetTopIndex sets /TI and regenerates.
func (f *Field) SetTopIndex(i int) {
	f.form.store.Put(f.dict, "TI", raw.NumberInt(int64(i)))
	f.RegenerateField()
}

// drawChoice draws a combo box as its display value on a single line and a
// list box as one row per option starting at the top index, with the
// selected rows highlighted.
func (a *FormAnnotation) drawChoice(c *contentstream.Canvas, f *Field, text layout.Text, w, h float64) {
	if f.IsCombo() {
		value := f.DisplayValue()
		text.Size = a.fontSize(f, coords.Size(w, h), value)
		a.drawText(c, f, text, w, h, value)
		return
	}
	text.Size = f.FontSize()
	if text.Size == 0 {
		text.Size = layout.DefaultFontSize
	}
	a.drawBorder(c, w, h)
	a.beginVariableText(c, w, h)

	selected := make(map[string]bool)
	for _, v := range f.Values() {
		selected[v] = true
	}
	inset := 0.0
	if b := a.Border(); b != nil {
		inset = b.Width
	}
	fill := f.Color()
	if fill == nil {
		fill = color.Black
	}
	row := layout.LineHeight(text.Font, text.Size)
	opts := f.Options()
	top := h - inset
	for i := f.TopIndex(); i >= 0 && i < len(opts); i++ {
		bottom := top - row
		if bottom < inset {
			break
		}
		if selected[opts[i].Export] {
			c.SetFillColor(selectionColor)
			c.Rectangle(inset, bottom, w-2*inset, row)
			c.Fill()
		}
		c.SetFillColor(fill)
		line := coords.Size(w, row)
		line.LLy, line.URy = bottom, top
		text.ShowLine(c, singleLine(opts[i].Display), line, xOffset+inset)
		top = bottom
	}
	endVariableText(c)
}
