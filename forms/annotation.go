package forms

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/rect"

	"github.com/wudi/formkit/color"
	"github.com/wudi/formkit/coords"
	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/observability"
	"github.com/wudi/formkit/pdfa"
)

// FormAnnotation is a widget annotation of a form field. It caches the
// border width and the border and background colours read from BS and MK.
//
// The cache is only refreshed by the setters of this type and by
// RetrieveStyles. Code that edits MK or BS through the store directly must
// call RetrieveStyles afterwards.
type FormAnnotation struct {
	form *AcroForm
	dict *raw.DictObj

	borderWidth     float64
	borderColor     *color.Color
	backgroundColor *color.Color
	conformance     pdfa.Level
}

// MakeFormAnnotation wraps obj when it resolves to a widget annotation
// dictionary and returns nil otherwise. The dictionary is registered as an
// indirect object and the wrapper inherits the document's PDF/A level.
func (a *AcroForm) MakeFormAnnotation(obj raw.Object) *FormAnnotation {
	s := a.store
	d := s.AsDict(obj)
	if d == nil {
		return nil
	}
	if sub, _ := s.GetName(d, "Subtype"); sub != "Widget" {
		return nil
	}
	if w, ok := a.annots[d]; ok {
		return w
	}
	s.MakeIndirect(d)
	w := &FormAnnotation{
		form:        a,
		dict:        d,
		borderWidth: 1,
		conformance: a.doc.Conformance(),
	}
	w.RetrieveStyles()
	a.annots[d] = w
	return w
}

// NewFormAnnotation creates a printable widget annotation covering r.
func (a *AcroForm) NewFormAnnotation(r rect.Rect) *FormAnnotation {
	d := raw.DictOf(map[string]raw.Object{
		"Type":    raw.NameLiteral("Annot"),
		"Subtype": raw.NameLiteral("Widget"),
		"Rect":    coords.RectArray(r),
		"F":       raw.NumberInt(int64(AnnotPrint)),
	})
	return a.MakeFormAnnotation(a.store.MakeIndirect(d))
}

// Dict returns the widget dictionary.
func (a *FormAnnotation) Dict() *raw.DictObj { return a.dict }

// Conformance returns the PDF/A level the widget is drawn for.
func (a *FormAnnotation) Conformance() pdfa.Level { return a.conformance }

// widget returns the dictionary when it still is a widget annotation.
func (a *FormAnnotation) widget() *raw.DictObj {
	if sub, _ := a.form.store.GetName(a.dict, "Subtype"); sub == "Widget" {
		return a.dict
	}
	a.form.log.Debug("form annotation does not wrap a widget", observability.Error("error", ErrNotWidget))
	return nil
}

// mk returns the appearance characteristics dictionary.
func (a *FormAnnotation) mk(create bool) *raw.DictObj {
	s := a.form.store
	mk := s.GetDict(a.dict, "MK")
	if mk == nil && create {
		mk = raw.Dict()
		s.Put(a.dict, "MK", mk)
	}
	return mk
}

// putMK writes a key of MK, removing it for a nil value, and marks the
// widget modified.
func (a *FormAnnotation) putMK(key string, value raw.Object) {
	s := a.form.store
	mk := a.mk(value != nil)
	if mk == nil {
		return
	}
	s.Put(mk, key, value)
	s.MarkModified(a.dict)
}

// RetrieveStyles re-reads the cached border width and colours from BS and
// MK.
func (a *FormAnnotation) RetrieveStyles() {
	s := a.form.store
	a.BorderWidth()
	mk := a.mk(false)
	if mk == nil {
		a.borderColor, a.backgroundColor = nil, nil
		return
	}
	a.backgroundColor = color.FromObject(s, get(mk, "BG"))
	a.borderColor = color.FromObject(s, get(mk, "BC"))
}

func get(d *raw.DictObj, key string) raw.Object {
	v, _ := d.Get(raw.NameLiteral(key))
	return v
}

// Rect returns the widget rectangle.
func (a *FormAnnotation) Rect() (rect.Rect, bool) {
	return coords.RectFromObject(a.form.store, get(a.dict, "Rect"))
}

// Page returns the page the widget is placed on, or nil.
func (a *FormAnnotation) Page() *raw.DictObj { return a.form.doc.PageOf(a.dict) }

// BorderWidth returns BS/W, or the cached width (initially 1).
func (a *FormAnnotation) BorderWidth() float64 {
	if w, ok := a.form.store.GetNumber(a.form.store.GetDict(a.dict, "BS"), "W"); ok {
		a.borderWidth = w
	}
	return a.borderWidth
}

// SetBorderWidth rounds w to an integer, stores it as BS/W and
// regenerates.
func (a *FormAnnotation) SetBorderWidth(w float64) {
	d := a.widget()
	if d == nil {
		return
	}
	s := a.form.store
	rounded := math.Floor(w + 0.5)
	bs := s.GetDict(d, "BS")
	if bs == nil {
		bs = raw.Dict()
		s.Put(d, "BS", bs)
	}
	s.Put(bs, "W", raw.NumberInt(int64(rounded)))
	s.MarkModified(d)
	a.borderWidth = rounded
	a.RegenerateField()
}

// SetBorderStyle replaces the BS dictionary and regenerates. A nil style
// removes it.
func (a *FormAnnotation) SetBorderStyle(style *raw.DictObj) {
	d := a.widget()
	if d == nil {
		return
	}
	if style == nil {
		a.form.store.Remove(d, "BS")
	} else {
		a.form.store.Put(d, "BS", style)
	}
	a.RegenerateField()
}

// BorderColor returns the cached MK/BC colour.
func (a *FormAnnotation) BorderColor() *color.Color { return a.borderColor }

// SetBorderColor sets MK/BC and regenerates. Nil removes BC.
func (a *FormAnnotation) SetBorderColor(c *color.Color) {
	if a.widget() == nil {
		return
	}
	a.borderColor = c
	if c == nil {
		a.putMK("BC", nil)
	} else {
		a.putMK("BC", c.Array())
	}
	a.RegenerateField()
}

// BackgroundColor returns the cached MK/BG colour.
func (a *FormAnnotation) BackgroundColor() *color.Color { return a.backgroundColor }

// SetBackgroundColor sets MK/BG and regenerates. Nil removes BG.
func (a *FormAnnotation) SetBackgroundColor(c *color.Color) {
	if a.widget() == nil {
		return
	}
	a.backgroundColor = c
	if c == nil {
		a.putMK("BG", nil)
	} else {
		a.putMK("BG", c.Array())
	}
	a.RegenerateField()
}

// Rotation returns MK/R, 0 when absent.
func (a *FormAnnotation) Rotation() int {
	r, _ := a.form.store.GetInt(a.mk(false), "R")
	return r
}

func (a *FormAnnotation) hasRotation() bool {
	mk := a.mk(false)
	return mk != nil && mk.Has("R")
}

// SetRotation stores a rotation in MK/R normalised into [0, 360) and
// regenerates. Rotations that are not a multiple of 90 are rejected.
func (a *FormAnnotation) SetRotation(deg int) error {
	if !coords.IsRightAngle(deg) {
		return fmt.Errorf("%w: %d", ErrInvalidRotation, deg)
	}
	if a.widget() == nil {
		return nil
	}
	a.putMK("R", raw.NumberInt(int64(coords.NormalizeDegrees(deg))))
	a.RegenerateField()
	return nil
}

// Border returns the border drawn around the widget, or nil when the
// width is not positive or no border colour is set.
func (a *FormAnnotation) Border() *Border {
	w := a.BorderWidth()
	if w <= 0 || a.borderColor == nil {
		return nil
	}
	return borderFromStyle(a.form.store, a.form.store.GetDict(a.dict, "BS"), math.Max(1, w), a.borderColor)
}

// Caption returns MK/CA.
func (a *FormAnnotation) Caption() string {
	ca, _ := a.form.store.GetString(a.mk(false), "CA")
	return ca
}

// SetCaption sets MK/CA, the label of push buttons, and regenerates.
func (a *FormAnnotation) SetCaption(text string) {
	if a.widget() == nil {
		return
	}
	if text == "" {
		a.putMK("CA", nil)
	} else {
		a.putMK("CA", raw.TextString(text))
	}
	a.RegenerateWidget()
}

// Flags returns the annotation /F flags.
func (a *FormAnnotation) Flags() AnnotationFlag {
	f, _ := a.form.store.GetInt(a.dict, "F")
	return AnnotationFlag(f)
}

// SetFlag sets or clears one annotation flag.
func (a *FormAnnotation) SetFlag(flag AnnotationFlag, on bool) {
	flags := a.Flags()
	if on {
		flags |= flag
	} else {
		flags &^= flag
	}
	a.form.store.Put(a.dict, "F", raw.NumberInt(int64(flags)))
}

// SetVisibility replaces /F with the flags for v. VisibleButDoesNotPrint
// leaves /F untouched. The appearance is not regenerated.
func (a *FormAnnotation) SetVisibility(v Visibility) {
	var flags AnnotationFlag
	switch v {
	case Hidden:
		flags = AnnotPrint | AnnotHidden
	case VisibleButDoesNotPrint:
		return
	case HiddenButPrintable:
		flags = AnnotPrint | AnnotNoView
	default:
		flags = AnnotPrint
	}
	a.form.store.Put(a.dict, "F", raw.NumberInt(int64(flags)))
}

// SetAction sets the /A action dictionary. Nil removes it.
func (a *FormAnnotation) SetAction(action *raw.DictObj) {
	d := a.widget()
	if d == nil {
		return
	}
	if action == nil {
		a.form.store.Remove(d, "A")
		return
	}
	a.form.store.Put(d, "A", action)
}

// SetPage points /P at the given 1-based page. The page's /Annots array
// is not changed; AcroForm.AddField does that.
func (a *FormAnnotation) SetPage(n int) error {
	page := a.form.doc.Page(n)
	if page == nil {
		return fmt.Errorf("%w: %d", ErrPageNotFound, n)
	}
	if d := a.widget(); d != nil {
		a.form.store.Put(d, "P", a.form.store.MakeIndirect(page))
	}
	return nil
}

// AppearanceState returns /AS.
func (a *FormAnnotation) AppearanceState() string {
	as, _ := a.form.store.GetName(a.dict, "AS")
	return as
}

// AppearanceStates returns the state names of the normal appearance,
// sorted.
func (a *FormAnnotation) AppearanceStates() []string {
	s := a.form.store
	return s.GetDict(s.GetDict(a.dict, "AP"), "N").KeyStrings()
}

// hasState reports whether the normal appearance has a stream for state.
func (a *FormAnnotation) hasState(state string) bool {
	s := a.form.store
	return s.GetDict(s.GetDict(a.dict, "AP"), "N").Has(state)
}

// selectState switches /AS to state when the widget has an appearance for
// it and to Off otherwise.
func (a *FormAnnotation) selectState(state string) {
	if !a.hasState(state) {
		state = StateOff
	}
	a.form.store.Put(a.dict, "AS", raw.NameLiteral(state))
}

// SetAppearance stores stream as the appearance of the given type. When
// the type maps to a state dictionary the stream is stored under state,
// otherwise it replaces the entry. Widgets without /AP are left alone.
func (a *FormAnnotation) SetAppearance(typ AppearanceType, state string, stream *raw.StreamObj) {
	s := a.form.store
	ap := s.GetDict(a.dict, "AP")
	if ap == nil {
		return
	}
	ref := s.MakeIndirect(stream)
	if states := s.GetDict(ap, string(typ)); states != nil {
		s.Put(states, state, ref)
	} else {
		s.Put(ap, string(typ), ref)
	}
	s.MarkModified(ap)
	s.MarkModified(a.dict)
}

// DefaultAppearance returns the widget's own /DA string.
func (a *FormAnnotation) DefaultAppearance() string {
	da, _ := a.form.store.GetString(a.dict, "DA")
	return da
}
