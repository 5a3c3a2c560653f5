package forms

import (
	"sort"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"github.com/wudi/formkit/contentstream"
	"github.com/wudi/formkit/coords"
	"github.com/wudi/formkit/fonts"
	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/layout"
	"github.com/wudi/formkit/observability"
)

// xOffset is the horizontal padding of single line text.
const xOffset = 2

// RegenerateField refreshes the parent field's /DA and then rebuilds the
// widget appearance. It reports whether the appearance was regenerated.
func (a *FormAnnotation) RegenerateField() bool {
	parent := a.Parent()
	if parent != nil {
		if !parent.regenerate {
			return false
		}
		parent.UpdateDefaultAppearance()
	}
	return a.RegenerateWidget()
}

// RegenerateWidget rebuilds /AP according to the kind of the parent
// field. A widget without a parent field has nothing to draw and counts
// as regenerated; an unknown field type is reported as not regenerated.
func (a *FormAnnotation) RegenerateWidget() bool {
	parent := a.Parent()
	if parent == nil {
		return true
	}
	switch kind := parent.Kind(); kind {
	case KindChoice, KindCombText:
		return a.regenerateTextAndChoice(parent, kind)
	case KindText:
		return a.regenerateTextAndChoice(parent, kind)
	case KindPushButton:
		a.drawPushButton(parent)
		return true
	case KindRadio:
		a.drawRadio(a.radioValue())
		return true
	case KindCheckbox:
		a.drawCheckbox(parent)
		return true
	}
	return false
}

// radioValue is the on-state of a radio widget: its first appearance state
// that is not Off.
func (a *FormAnnotation) radioValue() string {
	for _, st := range a.AppearanceStates() {
		if st != StateOff {
			return st
		}
	}
	return ""
}

// fontSize returns the size text is drawn at: the field size, or for auto
// sized fields the largest size up to the default that fits value on one
// line of box.
func (a *FormAnnotation) fontSize(f *Field, box rect.Rect, value string) float64 {
	if size := f.FontSize(); size != 0 {
		return size
	}
	if value == "" || box.IsZero() {
		return layout.DefaultFontSize
	}
	return layout.FitSingleLine(f.Font(), box, value, layout.DefaultLimits, a.borderWidth)
}

// regenerateTextAndChoice draws text, comb and choice widgets. The
// appearance matrix undoes the page rotation and applies the widget
// rotation relative to the page, so that text is laid out in the rotated
// box.
func (a *FormAnnotation) regenerateTextAndChoice(f *Field, kind FieldKind) bool {
	r, ok := a.Rect()
	if !ok {
		return true
	}
	pageRotation := 0
	if page := a.Page(); page != nil {
		pageRotation = a.form.doc.PageRotation(page)
	}
	m, box, ok := coords.AppearanceTransform(pageRotation, a.Rotation(), a.hasRotation(), coords.Size(r.Dx(), r.Dy()))
	if !ok {
		f.logger().Error("incorrect page rotation, using identity matrix", observability.Int("rotation", pageRotation))
	}
	w, h := box.Dx(), box.Dy()
	font := f.Font()
	name, ref := a.form.FontResource(font)
	text := layout.Text{Font: font, Resource: name, Align: f.Justification()}
	value := f.DisplayValue()

	c := contentstream.NewCanvas()
	switch kind {
	case KindText:
		if f.IsPassword() {
			value = obfuscate(value)
		}
		if f.IsMultiline() {
			a.drawMultiLineText(c, f, text, w, h, value)
		} else {
			text.Size = a.fontSize(f, box, value)
			a.drawText(c, f, text, w, h, value)
		}
	case KindCombText:
		text.Size = a.fontSize(f, box, value)
		a.drawComb(c, f, text, w, h, value)
	case KindChoice:
		a.drawChoice(c, f, text, w, h)
	}
	stream := a.formXObject(w, h, &m, c.Bytes(), fontResources(name, ref))
	a.setNormalAppearance(stream)
	return true
}

func obfuscate(s string) string {
	out := make([]rune, 0, len(s))
	for range s {
		out = append(out, '*')
	}
	return string(out)
}

// singleLine drops line breaks from text drawn on one line.
func singleLine(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\r' || r == '\n' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}

// beginVariableText opens the /Tx marked content and clips to the area
// inside the border.
func (a *FormAnnotation) beginVariableText(c *contentstream.Canvas, w, h float64) {
	inset := 0.0
	if b := a.Border(); b != nil {
		inset = b.Width
	}
	c.BeginMarkedContent("Tx")
	c.SaveState()
	c.Rectangle(inset, inset, w-2*inset, h-2*inset)
	c.Clip()
	c.EndPath()
}

func endVariableText(c *contentstream.Canvas) {
	c.RestoreState()
	c.EndMarkedContent()
}

func (a *FormAnnotation) drawText(c *contentstream.Canvas, f *Field, text layout.Text, w, h float64, value string) {
	a.drawBorder(c, w, h)
	a.beginVariableText(c, w, h)
	if value != "" {
		c.SetFillColor(f.Color())
		text.ShowLine(c, singleLine(value), coords.Size(w, h), xOffset)
	}
	endVariableText(c)
}

const multilinePadding = 3

func (a *FormAnnotation) drawMultiLineText(c *contentstream.Canvas, f *Field, text layout.Text, w, h float64, value string) {
	box := coords.Size(w, h)
	text.Size = f.FontSize()
	if text.Size == 0 {
		text.Size = layout.FitMultiLine(text.Font, box, value, multilinePadding, layout.DefaultLimits)
	}
	a.drawBorder(c, w, h)
	a.beginVariableText(c, w, h)
	if value != "" {
		c.SetFillColor(f.Color())
		lines := layout.BreakLines(text.Font, value, text.Size, w-2*multilinePadding)
		text.ShowLines(c, lines, box, multilinePadding)
	}
	endVariableText(c)
}

// drawComb places one character per cell. The cells are separated by
// lines in the border colour when the widget has a border.
func (a *FormAnnotation) drawComb(c *contentstream.Canvas, f *Field, text layout.Text, w, h float64, value string) {
	n := f.MaxLen()
	cell := w / float64(n)
	a.drawBorder(c, w, h)
	if b := a.Border(); b != nil {
		c.SaveState()
		c.SetStrokeColor(b.Color)
		c.SetLineWidth(b.Width)
		for i := 1; i < n; i++ {
			x := cell * float64(i)
			c.MoveTo(x, 0)
			c.LineTo(x, h)
		}
		c.Stroke()
		c.RestoreState()
	}
	a.beginVariableText(c, w, h)
	chars := []rune(singleLine(value))
	if len(chars) > n {
		chars = chars[:n]
	}
	start := 0
	switch text.Align {
	case layout.Center:
		start = (n - len(chars)) / 2
	case layout.Right:
		start = n - len(chars)
	}
	if len(chars) > 0 {
		c.SetFillColor(f.Color())
	}
	glyph := text
	glyph.Align = layout.Left
	y := text.MiddleBaseline(h)
	for i, r := range chars {
		ch := string(r)
		x := cell*float64(start+i) + (cell-text.Font.Width(ch, text.Size))/2
		glyph.ShowAligned(c, ch, x, y)
	}
	endVariableText(c)
}

// formXObject builds a form XObject appearance stream. setNormalAppearance
// registers it.
func (a *FormAnnotation) formXObject(w, h float64, m *matrix.Matrix, content []byte, resources *raw.DictObj) *raw.StreamObj {
	d := raw.DictOf(map[string]raw.Object{
		"Type":    raw.NameLiteral("XObject"),
		"Subtype": raw.NameLiteral("Form"),
		"BBox":    coords.RectArray(coords.Size(w, h)),
	})
	if m != nil {
		d.Set(raw.NameLiteral("Matrix"), coords.MatrixArray(*m))
	}
	if resources != nil {
		d.Set(raw.NameLiteral("Resources"), resources)
	}
	return raw.NewStream(d, content)
}

func fontResources(name string, ref raw.RefObj) *raw.DictObj {
	fd := raw.Dict()
	fd.Set(raw.NameLiteral(name), ref)
	res := raw.Dict()
	res.Set(raw.NameLiteral("Font"), fd)
	return res
}

// setNormalAppearance replaces /AP with a dictionary holding only n, a
// stream or a state dictionary of streams. The new streams take over the
// object numbers of the streams they supersede; superseded streams left
// over are released.
func (a *FormAnnotation) setNormalAppearance(n raw.Object) {
	s := a.form.store
	old := a.ownedAppearanceRefs()
	register := func(stream *raw.StreamObj) raw.RefObj {
		if len(old) == 0 {
			return s.MakeIndirect(stream)
		}
		ref := old[0]
		old = old[1:]
		s.Replace(ref, stream)
		return raw.RefTo(ref)
	}
	switch v := n.(type) {
	case *raw.StreamObj:
		n = register(v)
	case *raw.DictObj:
		for _, name := range v.KeyStrings() {
			if stream, ok := v.KV[name].(*raw.StreamObj); ok {
				v.Set(raw.NameLiteral(name), register(stream))
			}
		}
	}
	for _, ref := range old {
		s.Release(ref)
	}
	ap := raw.Dict()
	ap.Set(raw.NameLiteral(string(AppearanceNormal)), n)
	s.Put(a.dict, "AP", ap)
}

// ownedAppearanceRefs lists the streams of the current /AP that this
// session created, normal appearances first and states in name order.
// Streams read from the file may be shared with other widgets and are
// never reused.
func (a *FormAnnotation) ownedAppearanceRefs() []raw.ObjectRef {
	s := a.form.store
	ap := s.GetDict(a.dict, "AP")
	if ap == nil {
		return nil
	}
	var out []raw.ObjectRef
	seen := make(map[raw.ObjectRef]bool)
	add := func(obj raw.Object) {
		r, ok := obj.(raw.Reference)
		if !ok || seen[r.Ref()] || !s.IsNew(r.Ref()) || s.AsStream(obj) == nil {
			return
		}
		seen[r.Ref()] = true
		out = append(out, r.Ref())
	}
	for _, typ := range []AppearanceType{AppearanceNormal, AppearanceRollover, AppearanceDown} {
		entry := ap.KV[string(typ)]
		if states := s.AsDict(entry); states != nil {
			for _, name := range states.KeyStrings() {
				add(states.KV[name])
			}
			continue
		}
		add(entry)
	}
	return out
}

// states builds a normal appearance state dictionary of direct streams.
func (a *FormAnnotation) states(entries map[string]*raw.StreamObj) *raw.DictObj {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	d := raw.Dict()
	for _, name := range names {
		d.Set(raw.NameLiteral(name), entries[name])
	}
	return d
}

// fontOf is a helper for drawers needing both the font and its resource.
func (a *FormAnnotation) fontOf(f *Field) (fonts.Font, string, *raw.DictObj) {
	font := f.Font()
	name, ref := a.form.FontResource(font)
	return font, name, fontResources(name, ref)
}
