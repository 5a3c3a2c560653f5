package forms

import (
	"github.com/wudi/formkit/color"
	"github.com/wudi/formkit/contentstream"
	"github.com/wudi/formkit/fonts"
	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/layout"
	"github.com/wudi/formkit/observability"
)

// Field is a form field dictionary. A field either has widget kids or is
// merged with its single widget, in which case the same dictionary is also
// wrapped by a FormAnnotation.
//
// Font, font size, colour and checkbox type are cached from /DA and MK/CA
// when the field is wrapped; RetrieveStyles refreshes them.
type Field struct {
	form *AcroForm
	dict *raw.DictObj

	font       fonts.Font
	fontSize   float64
	color      *color.Color
	checkType  CheckBoxType
	regenerate bool
}

// Option is an entry of a choice field's /Opt array.
type Option struct {
	Export  string
	Display string
}

// Dict returns the field dictionary.
func (f *Field) Dict() *raw.DictObj { return f.dict }

// Form returns the form the field belongs to.
func (f *Field) Form() *AcroForm { return f.form }

func (f *Field) logger() observability.Logger {
	return f.form.log.With(observability.String("field", f.FullName()))
}

// inherited looks key up on the field and then on its ancestors.
func (f *Field) inherited(key string) raw.Object {
	s := f.form.store
	d := f.dict
	for depth := 0; d != nil && depth < maxDepth; depth++ {
		if v, ok := d.Get(raw.NameLiteral(key)); ok {
			return s.Resolve(v)
		}
		d = s.GetDict(d, "Parent")
	}
	return nil
}

// RetrieveStyles re-reads the cached font, font size, colour and checkbox
// type from the dictionaries.
func (f *Field) RetrieveStyles() {
	da := contentstream.ParseDA(f.DefaultAppearance())
	f.fontSize = da.Size
	f.color = da.Color
	f.font = nil
	if da.Font != "" {
		f.font = f.form.FontFor(da.Font)
	}
	f.checkType = CheckCross
	for _, w := range f.Widgets() {
		if ca := w.Caption(); ca != "" {
			f.checkType = checkTypeFromCaption(ca)
			break
		}
	}
}

func checkTypeFromCaption(ca string) CheckBoxType {
	for _, t := range []CheckBoxType{CheckCheck, CheckCircle, CheckCross, CheckDiamond, CheckSquare, CheckStar} {
		if t.zapfDingbats() == ca {
			return t
		}
	}
	return CheckCross
}

// Type returns the inherited /FT value: Tx, Btn, Ch or Sig.
func (f *Field) Type() string {
	n, _ := f.inherited("FT").(raw.NameObj)
	return n.Val
}

// Kind classifies the field for appearance generation.
func (f *Field) Kind() FieldKind {
	switch f.Type() {
	case TypeChoice:
		return KindChoice
	case TypeText:
		if f.isCombText() {
			return KindCombText
		}
		return KindText
	case TypeButton:
		switch {
		case f.Flag(FlagPushButton):
			return KindPushButton
		case f.Flag(FlagRadio):
			return KindRadio
		}
		return KindCheckbox
	}
	return KindUnknown
}

func (f *Field) isCombText() bool {
	if f.Type() != TypeText || !f.Flag(FlagComb) {
		return false
	}
	if f.MaxLen() <= 0 || f.IsMultiline() {
		f.logger().Error("comb flag may be set only if maxlen is present and the field is single line")
		return false
	}
	return true
}

// Flags returns the inherited /Ff value.
func (f *Field) Flags() FieldFlag {
	n, _ := f.inherited("Ff").(raw.NumberObj)
	return FieldFlag(n.Int())
}

// Flag reports whether flag is set.
func (f *Field) Flag(flag FieldFlag) bool { return f.Flags()&flag != 0 }

// SetFieldFlag sets or clears flag in /Ff. It does not regenerate.
func (f *Field) SetFieldFlag(flag FieldFlag, on bool) {
	flags := f.Flags()
	if on {
		flags |= flag
	} else {
		flags &^= flag
	}
	f.form.store.Put(f.dict, "Ff", raw.NumberInt(int64(flags)))
}

func (f *Field) IsMultiline() bool  { return f.Flag(FlagMultiline) }
func (f *Field) IsPassword() bool   { return f.Flag(FlagPassword) }
func (f *Field) IsComb() bool       { return f.Flag(FlagComb) }
func (f *Field) IsRadio() bool      { return f.Type() == TypeButton && f.Flag(FlagRadio) }
func (f *Field) IsPushButton() bool { return f.Type() == TypeButton && f.Flag(FlagPushButton) }
func (f *Field) IsCombo() bool      { return f.Type() == TypeChoice && f.Flag(FlagCombo) }

// Value returns the field value as a string. Names are returned without
// the slash; for multiple selections the first value is returned.
func (f *Field) Value() string {
	vals := f.values("V")
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// Values returns every selected value of a choice field.
func (f *Field) Values() []string { return f.values("V") }

func (f *Field) values(key string) []string {
	s := f.form.store
	switch v := f.inherited(key).(type) {
	case raw.NameObj:
		return []string{v.Val}
	case raw.StringObj:
		return []string{raw.DecodeText(v.Bytes)}
	case *raw.ArrayObj:
		var out []string
		for _, it := range v.Items {
			if str, ok := s.AsString(it); ok {
				out = append(out, str)
			} else if n, ok := s.AsName(it); ok {
				out = append(out, n)
			}
		}
		return out
	}
	return nil
}

func (f *Field) valueObject(v string) raw.Object {
	if f.Type() == TypeButton {
		if v == "" {
			v = StateOff
		}
		return raw.NameLiteral(v)
	}
	return raw.TextString(v)
}

// SetValue sets /V and regenerates every widget. Button values are stored
// as names, with the empty value written as Off; radio widgets switch /AS to the value when they have an
// appearance for it and to Off otherwise.
func (f *Field) SetValue(v string) {
	f.form.store.Put(f.dict, "V", f.valueObject(v))
	if f.IsRadio() {
		for _, w := range f.allWidgets() {
			w.selectState(v)
		}
	}
	f.RegenerateField()
}

// SetValues sets several selected values of a multiple selection choice
// field.
func (f *Field) SetValues(vals []string) {
	if len(vals) == 1 {
		f.SetValue(vals[0])
		return
	}
	arr := raw.NewArray()
	for _, v := range vals {
		arr.Append(raw.TextString(v))
	}
	f.form.store.Put(f.dict, "V", arr)
	f.RegenerateField()
}

// DefaultValue returns /DV.
func (f *Field) DefaultValue() string {
	vals := f.values("DV")
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// SetDefaultValue sets /DV. The appearance is not affected.
func (f *Field) SetDefaultValue(v string) {
	f.form.store.Put(f.dict, "DV", f.valueObject(v))
}

// DisplayValue is the text drawn for the value: rich text values are
// flattened to plain text and choice export values are mapped to their
// display strings.
func (f *Field) DisplayValue() string {
	switch f.Type() {
	case TypeText:
		if f.Flag(FlagRichText) {
			if rv, ok := f.richValue(); ok {
				plain, err := layout.PlainText(rv)
				if err == nil {
					return plain
				}
				f.logger().Warn("cannot flatten rich text value", observability.Error("error", err))
			}
		}
	case TypeChoice:
		v := f.Value()
		for _, o := range f.Options() {
			if o.Export == v {
				return o.Display
			}
		}
		return v
	}
	return f.Value()
}

func (f *Field) richValue() (string, bool) {
	switch v := f.inherited("RV").(type) {
	case raw.StringObj:
		return raw.DecodeText(v.Bytes), true
	case *raw.StreamObj:
		return raw.DecodeText(v.Data), true
	}
	return "", false
}

// Options returns the /Opt entries of a choice field.
func (f *Field) Options() []Option {
	s := f.form.store
	arr, _ := f.inherited("Opt").(*raw.ArrayObj)
	if arr == nil {
		return nil
	}
	out := make([]Option, 0, arr.Len())
	for _, it := range arr.Items {
		if str, ok := s.AsString(it); ok {
			out = append(out, Option{Export: str, Display: str})
			continue
		}
		pair := s.AsArray(it)
		if pair == nil || pair.Len() < 2 {
			continue
		}
		export, _ := s.AsString(pair.Items[0])
		display, _ := s.AsString(pair.Items[1])
		out = append(out, Option{Export: export, Display: display})
	}
	return out
}

// SetOptions replaces /Opt and regenerates.
func (f *Field) SetOptions(opts []Option) {
	f.form.store.Put(f.dict, "Opt", optionsArray(opts))
	f.RegenerateField()
}

func optionsArray(opts []Option) *raw.ArrayObj {
	arr := raw.NewArray()
	for _, o := range opts {
		if o.Export == o.Display || o.Export == "" {
			arr.Append(raw.TextString(o.Display))
			continue
		}
		arr.Append(raw.NewArray(raw.TextString(o.Export), raw.TextString(o.Display)))
	}
	return arr
}

// MaxLen returns the inherited /MaxLen, 0 when absent.
func (f *Field) MaxLen() int {
	n, _ := f.inherited("MaxLen").(raw.NumberObj)
	return int(n.Int())
}

// SetMaxLen sets /MaxLen and regenerates.
func (f *Field) SetMaxLen(n int) {
	f.form.store.Put(f.dict, "MaxLen", raw.NumberInt(int64(n)))
	f.RegenerateField()
}

// Justification returns the inherited /Q quadding.
func (f *Field) Justification() layout.Alignment {
	n, _ := f.inherited("Q").(raw.NumberObj)
	switch n.Int() {
	case 1:
		return layout.Center
	case 2:
		return layout.Right
	}
	return layout.Left
}

// SetJustification sets /Q and regenerates.
func (f *Field) SetJustification(a layout.Alignment) {
	f.form.store.Put(f.dict, "Q", raw.NumberInt(int64(a)))
	f.RegenerateField()
}

// DefaultAppearance returns the inherited /DA string, falling back to the
// form's.
func (f *Field) DefaultAppearance() string {
	if str, ok := f.inherited("DA").(raw.StringObj); ok {
		return raw.DecodeText(str.Bytes)
	}
	return f.form.DefaultAppearance()
}

// Font returns the field font. Fields without a usable font in /DA use
// the form's default font.
func (f *Field) Font() fonts.Font {
	if f.font != nil {
		return f.font
	}
	return f.form.defaultFont
}

// SetFont sets the field font and regenerates.
func (f *Field) SetFont(font fonts.Font) {
	f.font = font
	f.RegenerateField()
}

// FontSize returns the font size; 0 means auto sizing.
func (f *Field) FontSize() float64 { return f.fontSize }

// SetFontSize sets the font size and regenerates. Zero selects auto
// sizing; negative sizes are treated as zero.
func (f *Field) SetFontSize(size float64) {
	if size < 0 {
		size = 0
	}
	f.fontSize = size
	f.RegenerateField()
}

// SetFontAndSize sets font and size with a single regeneration.
func (f *Field) SetFontAndSize(font fonts.Font, size float64) {
	f.font = font
	if size < 0 {
		size = 0
	}
	f.fontSize = size
	f.RegenerateField()
}

// Color returns the text colour, nil when /DA sets none.
func (f *Field) Color() *color.Color { return f.color }

// SetColor sets the text colour and regenerates.
func (f *Field) SetColor(c *color.Color) {
	f.color = c
	f.RegenerateField()
}

// CheckType returns the mark drawn by checked checkboxes.
func (f *Field) CheckType() CheckBoxType { return f.checkType }

// SetCheckType sets the checkbox mark and regenerates.
func (f *Field) SetCheckType(t CheckBoxType) {
	f.checkType = t
	f.RegenerateField()
}

// SetFieldRegeneration enables or disables appearance regeneration for
// this field. While disabled, setters only update the dictionaries.
func (f *Field) SetFieldRegeneration(enabled bool) { f.regenerate = enabled }

// IsFieldRegenerationEnabled reports whether setters regenerate.
func (f *Field) IsFieldRegenerationEnabled() bool { return f.regenerate }

// UpdateDefaultAppearance writes /DA from the current font, size and
// colour. Only text, choice and push button fields carry a /DA.
func (f *Field) UpdateDefaultAppearance() {
	switch f.Kind() {
	case KindText, KindCombText, KindChoice, KindPushButton:
	default:
		return
	}
	name, _ := f.form.FontResource(f.Font())
	da := contentstream.DefaultAppearance{Font: name, Size: f.fontSize, Color: f.color}.String()
	s := f.form.store
	if cur, ok := s.GetString(f.dict, "DA"); ok && cur == da {
		return
	}
	s.Put(f.dict, "DA", raw.Text(da))
}

// RegenerateField rebuilds the appearance of every widget of the field
// and of its kid fields. It reports whether all of them were regenerated.
func (f *Field) RegenerateField() bool {
	if !f.regenerate {
		return false
	}
	ok := true
	for _, w := range f.Widgets() {
		if !w.RegenerateField() {
			ok = false
		}
	}
	for _, k := range f.Kids() {
		if !k.RegenerateField() {
			ok = false
		}
	}
	return ok
}
