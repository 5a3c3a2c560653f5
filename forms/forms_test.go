package forms

import (
	"testing"

	"seehuhn.de/go/geom/rect"

	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/observability"
	"github.com/wudi/formkit/pdfa"
)

// testDoc is a minimal in-memory Document with a flat page list.
type testDoc struct {
	store   *raw.Store
	catalog *raw.DictObj
	pages   []*raw.DictObj
	level   pdfa.Level
}

func newTestDoc(t *testing.T, pages int) *testDoc {
	t.Helper()
	s := raw.NewStore()
	kids := raw.NewArray()
	root := raw.DictOf(map[string]raw.Object{
		"Type": raw.NameLiteral("Pages"),
		"Kids": kids,
	})
	rootRef := s.MakeIndirect(root)
	d := &testDoc{store: s}
	for i := 0; i < pages; i++ {
		page := raw.DictOf(map[string]raw.Object{
			"Type":     raw.NameLiteral("Page"),
			"Parent":   rootRef,
			"MediaBox": raw.Floats(0, 0, 612, 792),
		})
		kids.Append(s.MakeIndirect(page))
		d.pages = append(d.pages, page)
	}
	root.Set(raw.NameLiteral("Count"), raw.NumberInt(int64(pages)))
	d.catalog = raw.DictOf(map[string]raw.Object{
		"Type":  raw.NameLiteral("Catalog"),
		"Pages": rootRef,
	})
	s.Trailer().Set(raw.NameLiteral("Root"), s.MakeIndirect(d.catalog))
	return d
}

func (d *testDoc) Store() *raw.Store            { return d.store }
func (d *testDoc) Logger() observability.Logger { return observability.NopLogger{} }
func (d *testDoc) Conformance() pdfa.Level      { return d.level }
func (d *testDoc) Catalog() *raw.DictObj        { return d.catalog }

func (d *testDoc) PageRotation(p *raw.DictObj) int {
	r, _ := d.store.GetInt(p, "Rotate")
	return r
}

func (d *testDoc) Page(n int) *raw.DictObj {
	if n < 1 || n > len(d.pages) {
		return nil
	}
	return d.pages[n-1]
}

func (d *testDoc) PageOf(annot *raw.DictObj) *raw.DictObj {
	if p := d.store.GetDict(annot, "P"); p != nil {
		return p
	}
	for _, p := range d.pages {
		if indexOf(d.store, d.store.GetArray(p, "Annots"), annot) >= 0 {
			return p
		}
	}
	return nil
}

func newTestForm(t *testing.T) (*testDoc, *AcroForm) {
	t.Helper()
	doc := newTestDoc(t, 2)
	form, err := NewAcroForm(doc)
	if err != nil {
		t.Fatalf("NewAcroForm: %v", err)
	}
	return doc, form
}

func box(llx, lly, urx, ury float64) rect.Rect {
	return rect.Rect{LLx: llx, LLy: lly, URx: urx, URy: ury}
}

// normal returns the /AP /N entry of a widget.
func normal(a *FormAnnotation) raw.Object {
	s := a.form.store
	v, _ := s.GetDict(a.dict, "AP").Get(raw.NameLiteral("N"))
	return s.Resolve(v)
}

func normalStream(t *testing.T, a *FormAnnotation) *raw.StreamObj {
	t.Helper()
	st, ok := normal(a).(*raw.StreamObj)
	if !ok {
		t.Fatalf("/AP /N is %T, want a stream", normal(a))
	}
	return st
}

func stateStream(t *testing.T, a *FormAnnotation, state string) *raw.StreamObj {
	t.Helper()
	s := a.form.store
	st := s.GetStream(s.GetDict(s.GetDict(a.dict, "AP"), "N"), state)
	if st == nil {
		t.Fatalf("no normal appearance for state %q", state)
	}
	return st
}

func widget(t *testing.T, f *Field) *FormAnnotation {
	t.Helper()
	ws := f.Widgets()
	if len(ws) == 0 {
		t.Fatalf("field %q has no widgets", f.FullName())
	}
	return ws[0]
}

func TestNewAcroFormCreatesDictionary(t *testing.T) {
	doc, form := newTestForm(t)
	if !doc.catalog.Has("AcroForm") {
		t.Fatalf("catalog has no /AcroForm")
	}
	if got := len(form.Fields()); got != 0 {
		t.Fatalf("new form has %d fields", got)
	}
	again, err := NewAcroForm(doc)
	if err != nil {
		t.Fatalf("NewAcroForm: %v", err)
	}
	if again.Dict() != form.Dict() {
		t.Fatalf("second NewAcroForm did not reuse the existing dictionary")
	}
}

func TestNewAcroFormRejectsMalformedEntry(t *testing.T) {
	doc := newTestDoc(t, 1)
	doc.catalog.Set(raw.NameLiteral("AcroForm"), raw.NumberInt(3))
	if _, err := NewAcroForm(doc); err == nil {
		t.Fatalf("expected an error for a non-dictionary /AcroForm")
	}
}

func TestNeedAppearances(t *testing.T) {
	_, form := newTestForm(t)
	if form.NeedAppearances() {
		t.Fatalf("NeedAppearances set on a new form")
	}
	form.SetNeedAppearances(true)
	if !form.NeedAppearances() {
		t.Fatalf("NeedAppearances not stored")
	}
	form.SetNeedAppearances(false)
	if form.Dict().Has("NeedAppearances") {
		t.Fatalf("false should remove the key")
	}
}
