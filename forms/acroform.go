package forms

import (
	"fmt"
	"strconv"

	"github.com/wudi/formkit/fonts"
	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/observability"
)

const maxDepth = 32

// AcroForm is the interactive form of a document. It owns the wrappers
// handed out for field and widget dictionaries so that the same dictionary
// always maps to the same wrapper.
type AcroForm struct {
	doc   Document
	store *raw.Store
	log   observability.Logger
	dict  *raw.DictObj

	fields map[*raw.DictObj]*Field
	annots map[*raw.DictObj]*FormAnnotation

	fonts       map[fonts.Font]fontResource
	loaded      map[*raw.DictObj]fonts.Font
	defaultFont fonts.Font
}

type fontResource struct {
	name string
	ref  raw.RefObj
}

// NewAcroForm returns the form of doc, creating an empty /AcroForm
// dictionary in the catalog when the document has none.
func NewAcroForm(doc Document) (*AcroForm, error) {
	def, err := fonts.Default()
	if err != nil {
		return nil, fmt.Errorf("forms: load default font: %w", err)
	}
	s := doc.Store()
	cat := doc.Catalog()
	if cat == nil {
		return nil, fmt.Errorf("forms: catalog: %w", raw.ErrNotDictionary)
	}
	a := &AcroForm{
		doc:         doc,
		store:       s,
		log:         observability.OrNop(doc.Logger()),
		fields:      make(map[*raw.DictObj]*Field),
		annots:      make(map[*raw.DictObj]*FormAnnotation),
		fonts:       make(map[fonts.Font]fontResource),
		loaded:      make(map[*raw.DictObj]fonts.Font),
		defaultFont: def,
	}
	if obj, ok := cat.Get(raw.NameLiteral("AcroForm")); ok {
		d, err := s.DictOrError(obj)
		if err != nil {
			return nil, fmt.Errorf("forms: /AcroForm: %w", err)
		}
		a.dict = d
	} else {
		a.dict = raw.DictOf(map[string]raw.Object{"Fields": raw.NewArray()})
		s.Put(cat, "AcroForm", s.MakeIndirect(a.dict))
	}
	return a, nil
}

// Document returns the document the form belongs to.
func (a *AcroForm) Document() Document { return a.doc }

// Dict returns the /AcroForm dictionary.
func (a *AcroForm) Dict() *raw.DictObj { return a.dict }

// touch marks the form dictionary, or the catalog holding it directly, as
// modified.
func (a *AcroForm) touch() {
	if a.store.IsIndirect(a.dict) {
		a.store.MarkModified(a.dict)
		return
	}
	a.store.MarkModified(a.doc.Catalog())
}

func (a *AcroForm) fieldsArray(create bool) *raw.ArrayObj {
	arr := a.store.GetArray(a.dict, "Fields")
	if arr == nil && create {
		arr = raw.NewArray()
		a.store.Put(a.dict, "Fields", arr)
		a.touch()
	}
	return arr
}

// Fields returns the root fields in /Fields order.
func (a *AcroForm) Fields() []*Field {
	arr := a.fieldsArray(false)
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

// AllFields returns every field of the form, parents before their kids.
func (a *AcroForm) AllFields() []*Field {
	var out []*Field
	var walk func(fs []*Field, depth int)
	walk = func(fs []*Field, depth int) {
		if depth > maxDepth {
			return
		}
		for _, f := range fs {
			out = append(out, f)
			walk(f.Kids(), depth+1)
		}
	}
	walk(a.Fields(), 0)
	return out
}

// Field returns the field with the given fully qualified name, or nil.
func (a *AcroForm) Field(fullName string) *Field {
	for _, f := range a.AllFields() {
		if f.FullName() == fullName {
			return f
		}
	}
	return nil
}

// AddField registers f as a root field (unless it already has a parent),
// places all its widgets on the given 1-based page and regenerates them.
func (a *AcroForm) AddField(f *Field, page int) error {
	pageDict := a.doc.Page(page)
	if pageDict == nil {
		return fmt.Errorf("%w: %d", ErrPageNotFound, page)
	}
	if existing := a.Field(f.FullName()); existing != nil && existing != f {
		return fmt.Errorf("%w: %s", ErrFieldExists, f.FullName())
	}
	s := a.store
	ref := s.MakeIndirect(f.dict)
	if f.Parent() == nil {
		arr := a.fieldsArray(true)
		if indexOf(s, arr, f.dict) < 0 {
			arr.Append(ref)
			s.MarkModified(arr)
			a.touch()
		}
	}
	for _, w := range f.allWidgets() {
		a.placeWidget(w, pageDict)
	}
	f.RegenerateField()
	return nil
}

func (a *AcroForm) placeWidget(w *FormAnnotation, page *raw.DictObj) {
	s := a.store
	annots := s.GetArray(page, "Annots")
	if annots == nil {
		annots = raw.NewArray()
		s.Put(page, "Annots", annots)
	}
	if indexOf(s, annots, w.dict) < 0 {
		annots.Append(s.MakeIndirect(w.dict))
		s.MarkModified(annots)
		s.MarkModified(page)
	}
	s.Put(w.dict, "P", s.MakeIndirect(page))
}

// RemoveField detaches the named field from its parent (or from /Fields)
// and removes its widgets from their pages. It reports whether the field
// existed.
func (a *AcroForm) RemoveField(fullName string) bool {
	f := a.Field(fullName)
	if f == nil {
		return false
	}
	s := a.store
	widgets := f.allWidgets()
	if parent := f.Parent(); parent != nil {
		parent.RemoveKid(f)
	} else if arr := a.fieldsArray(false); arr != nil {
		if i := indexOf(s, arr, f.dict); i >= 0 {
			arr.Remove(i)
			s.MarkModified(arr)
			a.touch()
		}
	}
	for _, w := range widgets {
		if page := a.doc.PageOf(w.dict); page != nil {
			if annots := s.GetArray(page, "Annots"); annots != nil {
				if i := indexOf(s, annots, w.dict); i >= 0 {
					annots.Remove(i)
					s.MarkModified(annots)
					s.MarkModified(page)
				}
			}
		}
		delete(a.annots, w.dict)
	}
	a.forget(f)
	return true
}

func (a *AcroForm) forget(f *Field) {
	for _, k := range f.Kids() {
		a.forget(k)
	}
	delete(a.fields, f.dict)
}

// DefaultResources returns the /DR dictionary, creating it if needed.
func (a *AcroForm) DefaultResources() *raw.DictObj {
	dr := a.store.GetDict(a.dict, "DR")
	if dr == nil {
		dr = raw.Dict()
		a.store.Put(a.dict, "DR", dr)
		a.touch()
	}
	return dr
}

func (a *AcroForm) resourceFonts(create bool) *raw.DictObj {
	if !create {
		return a.store.GetDict(a.store.GetDict(a.dict, "DR"), "Font")
	}
	dr := a.DefaultResources()
	fd := a.store.GetDict(dr, "Font")
	if fd == nil {
		fd = raw.Dict()
		a.store.Put(dr, "Font", fd)
		a.touch()
	}
	return fd
}

// FontResource returns the /DR font resource name and font dictionary
// reference for f, registering the font on first use. A font already
// present in /DR with the same /BaseFont is reused.
func (a *AcroForm) FontResource(f fonts.Font) (string, raw.RefObj) {
	if r, ok := a.fonts[f]; ok {
		return r.name, r.ref
	}
	s := a.store
	fd := a.resourceFonts(true)
	for _, k := range fd.KeyStrings() {
		obj, _ := fd.Get(raw.NameLiteral(k))
		d := s.AsDict(obj)
		if base, _ := s.GetName(d, "BaseFont"); d != nil && base == f.Name() {
			r := fontResource{name: k, ref: s.MakeIndirect(d)}
			a.fonts[f] = r
			a.loaded[d] = f
			return r.name, r.ref
		}
	}
	dict := f.Dict(s)
	r := fontResource{name: a.freeFontName(fd), ref: s.MakeIndirect(dict)}
	s.Put(fd, r.name, r.ref)
	s.MarkModified(a.store.GetDict(a.dict, "DR"))
	a.touch()
	a.fonts[f] = r
	a.loaded[dict] = f
	return r.name, r.ref
}

func (a *AcroForm) freeFontName(fd *raw.DictObj) string {
	for i := 1; ; i++ {
		name := "F" + strconv.Itoa(i)
		if !fd.Has(name) {
			return name
		}
	}
}

// FontFor returns the font registered in /DR under name. Embedded
// TrueType fonts with WinAnsiEncoding are loaded so that they can be
// measured; anything else yields nil and callers fall back to the default
// font.
func (a *AcroForm) FontFor(name string) fonts.Font {
	s := a.store
	fd := a.resourceFonts(false)
	if fd == nil {
		return nil
	}
	obj, ok := fd.Get(raw.NameLiteral(name))
	if !ok {
		return nil
	}
	d := s.AsDict(obj)
	if d == nil {
		return nil
	}
	if f, ok := a.loaded[d]; ok {
		return f
	}
	f := a.loadFont(d)
	if f != nil {
		a.loaded[d] = f
		a.fonts[f] = fontResource{name: name, ref: s.MakeIndirect(d)}
	}
	return f
}

func (a *AcroForm) loadFont(d *raw.DictObj) fonts.Font {
	s := a.store
	if sub, _ := s.GetName(d, "Subtype"); sub != "TrueType" {
		return nil
	}
	if enc, _ := s.GetName(d, "Encoding"); enc != "WinAnsiEncoding" {
		return nil
	}
	file := s.GetStream(s.GetDict(d, "FontDescriptor"), "FontFile2")
	if file == nil || len(file.Data) == 0 {
		return nil
	}
	base, _ := s.GetName(d, "BaseFont")
	f, err := fonts.LoadTrueType(base, file.Data)
	if err != nil {
		a.log.Warn("cannot load form font", observability.String("font", base), observability.Error("error", err))
		return nil
	}
	return f
}

// DefaultFont is the font used by fields whose /DA names no usable font.
func (a *AcroForm) DefaultFont() fonts.Font { return a.defaultFont }

// DefaultAppearance returns the form level /DA string.
func (a *AcroForm) DefaultAppearance() string {
	da, _ := a.store.GetString(a.dict, "DA")
	return da
}

// SetDefaultAppearance sets the form level /DA string.
func (a *AcroForm) SetDefaultAppearance(da string) {
	a.store.Put(a.dict, "DA", raw.Text(da))
	a.touch()
}

// NeedAppearances reports whether viewers are asked to rebuild widget
// appearances.
func (a *AcroForm) NeedAppearances() bool {
	v, _ := a.store.GetBool(a.dict, "NeedAppearances")
	return v
}

// SetNeedAppearances sets /NeedAppearances. False removes the key.
func (a *AcroForm) SetNeedAppearances(v bool) {
	if v {
		a.store.Put(a.dict, "NeedAppearances", raw.Bool(true))
	} else {
		a.store.Remove(a.dict, "NeedAppearances")
	}
	a.touch()
}

// SetRegeneration enables or disables appearance regeneration for every
// field of the form.
func (a *AcroForm) SetRegeneration(enabled bool) {
	for _, f := range a.AllFields() {
		f.SetFieldRegeneration(enabled)
	}
}

// RegenerateAll regenerates every field and reports whether all
// succeeded.
func (a *AcroForm) RegenerateAll() bool {
	ok := true
	for _, f := range a.Fields() {
		if !f.RegenerateField() {
			ok = false
		}
	}
	return ok
}

func (a *AcroForm) wrapField(d *raw.DictObj) *Field {
	if f, ok := a.fields[d]; ok {
		return f
	}
	f := &Field{form: a, dict: d, regenerate: true}
	a.fields[d] = f
	f.RetrieveStyles()
	return f
}

// indexOf returns the position of the item of arr resolving to d.
func indexOf(s *raw.Store, arr *raw.ArrayObj, d *raw.DictObj) int {
	if arr == nil {
		return -1
	}
	for i, item := range arr.Items {
		if s.AsDict(item) == d {
			return i
		}
	}
	return -1
}
