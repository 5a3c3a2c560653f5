package forms

import (
	"strings"

	"github.com/wudi/formkit/ir/raw"
)

// Node is a dictionary in the field tree: a Field or a FormAnnotation.
type Node interface {
	Dict() *raw.DictObj
}

// isWidgetOnly reports whether d is a pure widget kid, i.e. a widget
// annotation that is not also a named field.
func isWidgetOnly(s *raw.Store, d *raw.DictObj) bool {
	sub, _ := s.GetName(d, "Subtype")
	return sub == "Widget" && !d.Has("T")
}

// Parent returns the parent field, or nil for a root field.
func (f *Field) Parent() *Field {
	p := f.form.store.GetDict(f.dict, "Parent")
	if p == nil {
		return nil
	}
	return f.form.wrapField(p)
}

// PartialName returns /T.
func (f *Field) PartialName() string {
	t, _ := f.form.store.GetString(f.dict, "T")
	return t
}

// FullName joins the partial names from the root down with periods.
// Ancestors without a partial name are skipped.
func (f *Field) FullName() string {
	s := f.form.store
	var parts []string
	d := f.dict
	for depth := 0; d != nil && depth < maxDepth; depth++ {
		if t, ok := s.GetString(d, "T"); ok && t != "" {
			parts = append(parts, t)
		}
		d = s.GetDict(d, "Parent")
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Kids returns the kid fields. Pure widget kids are returned by Widgets.
func (f *Field) Kids() []*Field {
	s := f.form.store
	arr := s.GetArray(f.dict, "Kids")
	if arr == nil {
		return nil
	}
	var out []*Field
	for _, it := range arr.Items {
		d := s.AsDict(it)
		if d == nil || d == f.dict || isWidgetOnly(s, d) {
			continue
		}
		out = append(out, f.form.wrapField(d))
	}
	return out
}

// Widgets returns the widget annotations of this field: the field itself
// when it is merged with its widget, and its pure widget kids.
func (f *Field) Widgets() []*FormAnnotation {
	s := f.form.store
	var out []*FormAnnotation
	if w := f.form.MakeFormAnnotation(f.dict); w != nil {
		out = append(out, w)
	}
	arr := s.GetArray(f.dict, "Kids")
	if arr == nil {
		return out
	}
	for _, it := range arr.Items {
		d := s.AsDict(it)
		if d == nil || !isWidgetOnly(s, d) {
			continue
		}
		if w := f.form.MakeFormAnnotation(it); w != nil {
			out = append(out, w)
		}
	}
	return out
}

// allWidgets returns the widgets of f and of all its descendants.
func (f *Field) allWidgets() []*FormAnnotation {
	out := f.Widgets()
	for _, k := range f.Kids() {
		out = append(out, k.allWidgets()...)
	}
	return out
}

// AddKid appends kid to /Kids, points its /Parent at f and regenerates it.
func (f *Field) AddKid(kid Node) {
	s := f.form.store
	d := kid.Dict()
	arr := s.GetArray(f.dict, "Kids")
	if arr == nil {
		arr = raw.NewArray()
		s.Put(f.dict, "Kids", arr)
	}
	if indexOf(s, arr, d) < 0 {
		arr.Append(s.MakeIndirect(d))
		s.MarkModified(arr)
		s.MarkModified(f.dict)
	}
	s.Put(d, "Parent", s.MakeIndirect(f.dict))
	switch k := kid.(type) {
	case *FormAnnotation:
		k.RegenerateField()
	case *Field:
		k.RetrieveStyles()
		k.RegenerateField()
	}
}

// RemoveKid removes kid from /Kids and clears its /Parent. It reports
// whether kid was a kid of f.
func (f *Field) RemoveKid(kid Node) bool {
	s := f.form.store
	arr := s.GetArray(f.dict, "Kids")
	d := kid.Dict()
	i := indexOf(s, arr, d)
	if i < 0 {
		return false
	}
	arr.Remove(i)
	s.MarkModified(arr)
	s.MarkModified(f.dict)
	s.Remove(d, "Parent")
	return true
}

// Parent returns the field owning the widget: the /Parent field, or the
// widget itself when it is merged with its field. Nil when neither holds.
func (a *FormAnnotation) Parent() *Field {
	if a.dict.Has("T") {
		return a.form.wrapField(a.dict)
	}
	if p := a.form.store.GetDict(a.dict, "Parent"); p != nil {
		return a.form.wrapField(p)
	}
	if a.dict.Has("FT") {
		return a.form.wrapField(a.dict)
	}
	return nil
}
