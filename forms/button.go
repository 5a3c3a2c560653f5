package forms

import (
	"math"

	"seehuhn.de/go/geom/matrix"

	"github.com/wudi/formkit/color"
	"github.com/wudi/formkit/contentstream"
	"github.com/wudi/formkit/coords"
	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/layout"
	"github.com/wudi/formkit/observability"
)

// rotationMatrix returns the appearance matrix for the widget rotation, or
// nil when the widget is not rotated.
func (a *FormAnnotation) rotationMatrix(w, h float64) *matrix.Matrix {
	rot := coords.NormalizeDegrees(a.Rotation())
	if rot == 0 {
		return nil
	}
	m, err := coords.WidgetRotationMatrix(rot, h, w)
	if err != nil {
		a.form.log.Error("cannot rotate widget appearance", observability.Int("rotation", rot), observability.Error("error", err))
		return nil
	}
	return &m
}

// drawPushButton draws the caption centred on the button. The appearance
// is stored under the current /AS state, "push" when there is none.
func (a *FormAnnotation) drawPushButton(f *Field) {
	r, ok := a.Rect()
	if !ok {
		return
	}
	w, h := r.Dx(), r.Dy()
	font, name, res := a.fontOf(f)
	caption := f.DisplayValue()
	if caption == "" {
		caption = a.Caption()
	}

	c := contentstream.NewCanvas()
	a.drawBorder(c, w, h)
	if caption != "" {
		text := layout.Text{
			Font:     font,
			Resource: name,
			Size:     a.fontSize(f, coords.Size(w, h), caption),
			Align:    layout.Center,
		}
		fill := f.Color()
		if fill == nil {
			fill = color.Black
		}
		c.SaveState()
		c.SetFillColor(fill)
		text.ShowLine(c, singleLine(caption), coords.Size(w, h), 0)
		c.RestoreState()
	}

	stream := a.formXObject(w, h, a.rotationMatrix(w, h), c.Bytes(), res)
	state := a.AppearanceState()
	if state == "" {
		state = statePush
	}
	s := a.form.store
	s.Put(a.dict, "AS", raw.NameLiteral(state))
	a.setNormalAppearance(a.states(map[string]*raw.StreamObj{state: stream}))
}

// drawRadio writes the Off appearance and, for a non-empty value other
// than Off, the checked appearance under value.
func (a *FormAnnotation) drawRadio(value string) {
	r, ok := a.Rect()
	if !ok {
		return
	}
	w, h := r.Dx(), r.Dy()
	parent := a.Parent()
	entries := map[string]*raw.StreamObj{
		StateOff: a.formXObject(w, h, nil, a.radioContent(parent, w, h, false), nil),
	}
	if value != "" && value != StateOff {
		entries[value] = a.formXObject(w, h, nil, a.radioContent(parent, w, h, true), nil)
	}
	a.setNormalAppearance(a.states(entries))
}

func (a *FormAnnotation) radioContent(f *Field, w, h float64, checked bool) []byte {
	c := contentstream.NewCanvas()
	radius := math.Min(w, h) / 2
	cx, cy := w/2, h/2
	c.SaveState()
	if a.backgroundColor != nil {
		c.SetFillColor(a.backgroundColor)
		c.Circle(cx, cy, radius)
		c.Fill()
	}
	if b := a.Border(); b != nil {
		c.SetStrokeColor(b.Color)
		c.SetLineWidth(b.Width)
		c.Circle(cx, cy, radius-b.Width/2)
		c.Stroke()
	}
	if checked {
		fill := color.Black
		if f != nil && f.Color() != nil {
			fill = f.Color()
		}
		c.SetFillColor(fill)
		c.Circle(cx, cy, radius/2)
		c.Fill()
	}
	c.RestoreState()
	return c.Bytes()
}

// checkboxOnState picks the name of the checked appearance.
func (a *FormAnnotation) checkboxOnState(value string) string {
	if value != "" && value != StateOff {
		return value
	}
	if st := a.radioValue(); st != "" {
		return st
	}
	return StateOn
}

// drawCheckbox writes the Off appearance and the checked appearance, sets
// MK/CA to the ZapfDingbats character of the mark and selects /AS from the
// field value.
func (a *FormAnnotation) drawCheckbox(f *Field) {
	r, ok := a.Rect()
	if !ok {
		return
	}
	w, h := r.Dx(), r.Dy()
	value := f.Value()
	on := a.checkboxOnState(value)
	m := a.rotationMatrix(w, h)

	off := contentstream.NewCanvas()
	a.drawBorder(off, w, h)

	checked := contentstream.NewCanvas()
	a.drawBorder(checked, w, h)
	mark := f.Color()
	if mark == nil {
		mark = color.Black
	}
	checked.SaveState()
	if f.CheckType() == CheckCross && !a.conformance.IsPDFA() {
		checked.SetStrokeColor(mark)
		drawCross(checked, w, h, a.borderWidth)
	} else {
		checked.SetFillColor(mark)
		drawMark(checked, f.CheckType(), w, h)
	}
	checked.RestoreState()

	a.setNormalAppearance(a.states(map[string]*raw.StreamObj{
		StateOff: a.formXObject(w, h, m, off.Bytes(), nil),
		on:       a.formXObject(w, h, m, checked.Bytes(), nil),
	}))
	a.putMK("CA", raw.TextString(f.CheckType().zapfDingbats()))
	if a.conformance.IsPDFA() {
		a.SetFlag(AnnotPrint, true)
	}
	if value == on {
		a.form.store.Put(a.dict, "AS", raw.NameLiteral(on))
	} else {
		a.form.store.Put(a.dict, "AS", raw.NameLiteral(StateOff))
	}
}
