package forms

import (
	"github.com/wudi/formkit/ir/raw"
)

// Additional-action triggers of a field (/AA).
const (
	TriggerKeystroke = "K"
	TriggerFormat    = "F"
	TriggerValidate  = "V"
	TriggerCalculate = "C"
)

// JavaScript returns the script of the /AA JavaScript action for trigger,
// or "" when the field has none.
func (f *Field) JavaScript(trigger string) string {
	s := f.form.store
	action := s.GetDict(s.GetDict(f.dict, "AA"), trigger)
	if action == nil {
		return ""
	}
	if kind, _ := s.GetName(action, "S"); kind != "JavaScript" {
		return ""
	}
	if js, ok := s.GetString(action, "JS"); ok {
		return js
	}
	if stm := s.GetStream(action, "JS"); stm != nil {
		return string(stm.Data)
	}
	return ""
}

// SetJavaScript sets the /AA action for trigger. An empty script removes
// it, and /AA with it once empty.
func (f *Field) SetJavaScript(trigger, script string) {
	s := f.form.store
	aa := s.GetDict(f.dict, "AA")
	if script == "" {
		if aa == nil {
			return
		}
		s.Remove(aa, trigger)
		if aa.Len() == 0 {
			s.Remove(f.dict, "AA")
		} else if !s.IsIndirect(aa) {
			s.MarkModified(f.dict)
		}
		return
	}
	if aa == nil {
		aa = raw.Dict()
		s.Put(f.dict, "AA", aa)
	}
	s.Put(aa, trigger, raw.DictOf(map[string]raw.Object{
		"S":  raw.NameLiteral("JavaScript"),
		"JS": raw.TextString(script),
	}))
	if !s.IsIndirect(aa) {
		s.MarkModified(f.dict)
	}
}

// CalculationOrder returns the fields listed in /CO, in order.
func (a *AcroForm) CalculationOrder() []*Field {
	arr := a.store.GetArray(a.dict, "CO")
	if arr == nil {
		return nil
	}
	out := make([]*Field, 0, arr.Len())
	for _, item := range arr.Items {
		if d := a.store.AsDict(item); d != nil {
			out = append(out, a.wrapField(d))
		}
	}
	return out
}

// SetCalculationOrder replaces /CO. No fields removes it.
func (a *AcroForm) SetCalculationOrder(fields ...*Field) {
	if len(fields) == 0 {
		a.store.Remove(a.dict, "CO")
		a.touch()
		return
	}
	arr := raw.NewArray()
	for _, f := range fields {
		arr.Append(a.store.MakeIndirect(f.dict))
	}
	a.store.Put(a.dict, "CO", arr)
	a.touch()
}
