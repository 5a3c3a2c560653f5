package forms

import (
	"seehuhn.de/go/geom/rect"

	"github.com/wudi/formkit/coords"
	"github.com/wudi/formkit/ir/raw"
)

// newField registers a field dictionary of the given type. With a non-zero
// rectangle the field is merged with its widget.
func (a *AcroForm) newField(typ, name string, r rect.Rect, flags FieldFlag) *Field {
	d := raw.DictOf(map[string]raw.Object{
		"FT": raw.NameLiteral(typ),
		"T":  raw.TextString(name),
	})
	if flags != 0 {
		d.Set(raw.NameLiteral("Ff"), raw.NumberInt(int64(flags)))
	}
	if !r.IsZero() {
		d.Set(raw.NameLiteral("Type"), raw.NameLiteral("Annot"))
		d.Set(raw.NameLiteral("Subtype"), raw.NameLiteral("Widget"))
		d.Set(raw.NameLiteral("Rect"), coords.RectArray(r))
		d.Set(raw.NameLiteral("F"), raw.NumberInt(int64(AnnotPrint)))
	}
	a.store.MakeIndirect(d)
	return a.wrapField(d)
}

// NewTextField creates a single line text field merged with its widget.
// The field is not part of the form until AddField is called.
func (a *AcroForm) NewTextField(name string, r rect.Rect, value string) *Field {
	f := a.newField(TypeText, name, r, 0)
	if value != "" {
		a.store.Put(f.dict, "V", raw.TextString(value))
	}
	return f
}

// NewMultilineTextField creates a multi-line text field.
func (a *AcroForm) NewMultilineTextField(name string, r rect.Rect, value string) *Field {
	f := a.NewTextField(name, r, value)
	f.SetFieldFlag(FlagMultiline, true)
	return f
}

// NewCombTextField creates a comb field of maxLen cells.
func (a *AcroForm) NewCombTextField(name string, r rect.Rect, maxLen int, value string) *Field {
	f := a.NewTextField(name, r, value)
	a.store.Put(f.dict, "MaxLen", raw.NumberInt(int64(maxLen)))
	f.SetFieldFlag(FlagComb, true)
	return f
}

// NewCheckBox creates a checkbox with the given mark, checked when value
// names its on-state.
func (a *AcroForm) NewCheckBox(name string, r rect.Rect, t CheckBoxType, value string) *Field {
	f := a.newField(TypeButton, name, r, 0)
	f.checkType = t
	if value == "" {
		value = StateOff
	}
	a.store.Put(f.dict, "V", raw.NameLiteral(value))
	return f
}

// NewRadioGroup creates a radio button field without widgets. Buttons are
// added with AddRadio.
func (a *AcroForm) NewRadioGroup(name, value string) *Field {
	f := a.newField(TypeButton, name, rect.Rect{}, FlagRadio)
	if value != "" {
		a.store.Put(f.dict, "V", raw.NameLiteral(value))
	}
	return f
}

// AddRadio adds a button with the on-state state to a radio group. The
// button is selected when the group value equals state.
func (a *AcroForm) AddRadio(group *Field, state string, r rect.Rect) *FormAnnotation {
	w := a.NewFormAnnotation(r)
	w.drawRadio(state)
	if group.Value() == state {
		a.store.Put(w.dict, "AS", raw.NameLiteral(state))
	} else {
		a.store.Put(w.dict, "AS", raw.NameLiteral(StateOff))
	}
	group.AddKid(w)
	return w
}

// NewPushButton creates a push button showing caption.
func (a *AcroForm) NewPushButton(name string, r rect.Rect, caption string) *Field {
	f := a.newField(TypeButton, name, r, FlagPushButton)
	if caption != "" {
		w := a.MakeFormAnnotation(f.dict)
		a.store.Put(w.mk(true), "CA", raw.TextString(caption))
	}
	return f
}

// NewChoiceField creates a list box, or a combo box when combo is set,
// offering opts.
func (a *AcroForm) NewChoiceField(name string, r rect.Rect, opts []Option, combo bool) *Field {
	var flags FieldFlag
	if combo {
		flags = FlagCombo
	}
	f := a.newField(TypeChoice, name, r, flags)
	a.store.Put(f.dict, "Opt", optionsArray(opts))
	return f
}
