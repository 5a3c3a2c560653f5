package document

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/rect"

	"github.com/wudi/formkit/events"
	"github.com/wudi/formkit/forms"
	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/observability"
	"github.com/wudi/formkit/pdfa"
	"github.com/wudi/formkit/writer"
)

func newFormDocument(t *testing.T) *Document {
	t.Helper()
	d := New(WithWriterConfig(writer.Config{Deterministic: true}))
	d.AddPage(612, 792)
	d.AddPage(612, 792)
	form, err := d.AcroForm()
	require.NoError(t, err)
	name := form.NewTextField("name", rect.Rect{LLx: 50, LLy: 700, URx: 250, URy: 720}, "Ada")
	require.NoError(t, form.AddField(name, 1))
	agree := form.NewCheckBox("agree", rect.Rect{LLx: 50, LLy: 650, URx: 62, URy: 662}, forms.CheckCross, "")
	require.NoError(t, form.AddField(agree, 2))
	return d
}

func save(t *testing.T, d *Document, mode SaveMode) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, d.Save(context.Background(), &buf, mode))
	return buf.Bytes()
}

func TestNewDocumentPages(t *testing.T) {
	d := New()
	assert.Equal(t, 0, d.PageCount())
	p1 := d.AddPage(100, 200)
	p2 := d.AddPage(300, 400)
	assert.Equal(t, 2, d.PageCount())
	assert.Same(t, p1, d.Page(1))
	assert.Same(t, p2, d.Page(2))
	assert.Nil(t, d.Page(3))
	assert.Equal(t, 2, d.PageNumber(p2))

	root := d.Store().GetDict(d.Catalog(), "Pages")
	count, _ := d.Store().GetInt(root, "Count")
	assert.Equal(t, 2, count)
}

func TestPageRotationInherited(t *testing.T) {
	d := New()
	page := d.AddPage(100, 100)
	root := d.Store().GetDict(d.Catalog(), "Pages")
	assert.Equal(t, 0, d.PageRotation(page))

	d.Store().Put(root, "Rotate", raw.NumberInt(450))
	assert.Equal(t, 90, d.PageRotation(page))
	d.Store().Put(page, "Rotate", raw.NumberInt(-90))
	assert.Equal(t, 270, d.PageRotation(page))
}

func TestPageOfScansAnnots(t *testing.T) {
	d := New()
	d.AddPage(100, 100)
	page := d.AddPage(100, 100)
	annot := raw.DictOf(map[string]raw.Object{"Subtype": raw.NameLiteral("Widget")})
	d.Store().Put(page, "Annots", raw.NewArray(d.Store().MakeIndirect(annot)))
	assert.Same(t, page, d.PageOf(annot))

	d.Store().Put(annot, "P", d.Store().MakeIndirect(d.Page(1)))
	assert.Same(t, d.Page(1), d.PageOf(annot))
}

func TestSaveAndReopen(t *testing.T) {
	d := newFormDocument(t)
	data := save(t, d, Full)

	re, err := Open(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	defer re.Close()

	assert.Equal(t, 2, re.PageCount())
	form, err := re.AcroForm()
	require.NoError(t, err)
	name := form.Field("name")
	require.NotNil(t, name)
	assert.Equal(t, "Ada", name.Value())
	require.Len(t, name.Widgets(), 1)
	assert.Empty(t, name.Widgets()[0].AppearanceStates(), "text fields have a single appearance")
	assert.Same(t, re.Page(1), re.PageOf(name.Widgets()[0].Dict()))

	agree := form.Field("agree")
	require.NotNil(t, agree)
	assert.Equal(t, []string{"Off", "Yes"}, agree.Widgets()[0].AppearanceStates())

	info := re.Store().GetDict(re.Store().Trailer(), "Info")
	producer, _ := re.Store().GetString(info, "Producer")
	assert.Equal(t, DefaultProducer, producer)
}

func TestSaveIsDeterministic(t *testing.T) {
	a := save(t, newFormDocument(t), Full)
	b := save(t, newFormDocument(t), Full)
	if diff := cmp.Diff(string(a), string(b)); diff != "" {
		t.Fatalf("equal documents saved differently (-a +b):\n%s", diff)
	}
}

func TestIncrementalSave(t *testing.T) {
	base := save(t, newFormDocument(t), Full)

	d, err := Open(context.Background(), bytes.NewReader(base), WithWriterConfig(writer.Config{Deterministic: true}))
	require.NoError(t, err)
	form, err := d.AcroForm()
	require.NoError(t, err)
	form.Field("name").SetValue("Grace")
	form.Field("agree").SetValue("Yes")

	updated := save(t, d, Incremental)
	require.True(t, bytes.HasPrefix(updated, base), "an incremental save appends to the original bytes")
	assert.Contains(t, string(updated[len(base):]), "/Prev ")
	assert.Empty(t, d.Store().Modified())

	re, err := Open(context.Background(), bytes.NewReader(updated))
	require.NoError(t, err)
	reForm, err := re.AcroForm()
	require.NoError(t, err)
	assert.Equal(t, "Grace", reForm.Field("name").Value())
	agree := reForm.Field("agree")
	assert.Equal(t, "Yes", agree.Value())
	as, _ := re.Store().GetName(agree.Widgets()[0].Dict(), "AS")
	assert.Equal(t, "Yes", as)

	again := save(t, d, Incremental)
	assert.Equal(t, updated, again, "nothing changed since the last save")
}

func TestIncrementalNeedsBase(t *testing.T) {
	d := New()
	d.AddPage(10, 10)
	var buf bytes.Buffer
	assert.ErrorIs(t, d.Save(context.Background(), &buf, Incremental), ErrNotIncremental)

	save(t, d, Full)
	require.NoError(t, d.Save(context.Background(), &buf, Incremental), "a saved document can be updated")
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(context.Background(), bytes.NewReader([]byte("%PDF-1.7\ngarbage")))
	assert.Error(t, err)
}

func TestConformanceFromMetadata(t *testing.T) {
	d := New()
	d.AddPage(100, 100)
	xmp := []byte(`<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
		`<rdf:Description rdf:about="" xmlns:pdfaid="http://www.aiim.org/pdfa/ns/id/">` +
		`<pdfaid:part>2</pdfaid:part><pdfaid:conformance>B</pdfaid:conformance>` +
		`</rdf:Description></rdf:RDF></x:xmpmeta>`)
	md := raw.NewStream(raw.DictOf(map[string]raw.Object{
		"Type":    raw.NameLiteral("Metadata"),
		"Subtype": raw.NameLiteral("XML"),
	}), xmp)
	d.Store().Put(d.Catalog(), "Metadata", d.Store().MakeIndirect(md))
	assert.Equal(t, pdfa.None, d.Conformance())

	re, err := Open(context.Background(), bytes.NewReader(save(t, d, Full)))
	require.NoError(t, err)
	assert.Equal(t, pdfa.PDFA2B, re.Conformance())

	assert.Equal(t, pdfa.PDFA1B, New(WithConformance(pdfa.PDFA1B)).Conformance())
}

func TestFlushHandlers(t *testing.T) {
	d := New(WithProducer("acme forms"))
	d.AddPage(10, 10)
	var seen []string
	d.Dispatcher().Register(events.FlushDocument, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		fe, ok := e.(FlushEvent)
		require.True(t, ok)
		assert.Same(t, d, fe.Document)
		seen = append(seen, "custom")
		return nil
	}))
	save(t, d, Full)
	assert.Equal(t, []string{"custom"}, seen)
	info := d.Store().GetDict(d.Store().Trailer(), "Info")
	producer, _ := d.Store().GetString(info, "Producer")
	assert.Equal(t, "acme forms", producer)

	boom := errors.New("boom")
	failing := d.Dispatcher().Register(events.FlushDocument, events.HandlerFunc(func(context.Context, events.Event) error {
		return boom
	}))
	var buf bytes.Buffer
	assert.ErrorIs(t, d.Save(context.Background(), &buf, Full), boom)
	assert.Zero(t, buf.Len(), "nothing is written when a flush handler fails")

	assert.ErrorIs(t, d.Close(), boom)
	assert.Equal(t, []string{"custom", "custom", "custom"}, seen, "close flushes too")
	assert.True(t, d.Dispatcher().Unregister(failing))
	assert.NoError(t, d.Close(), "closing twice is a no-op")
	assert.ErrorIs(t, d.Save(context.Background(), &buf, Full), ErrClosed)
	_, err := d.AcroForm()
	assert.ErrorIs(t, err, ErrClosed)
}

type recordingTracer struct{ names []string }

func (r *recordingTracer) StartSpan(ctx context.Context, name string) (context.Context, observability.Span) {
	r.names = append(r.names, name)
	_, span := observability.NopTracer().StartSpan(ctx, name)
	return ctx, span
}

func TestTracerSpans(t *testing.T) {
	tr := &recordingTracer{}
	d := New(WithTracer(tr))
	d.AddPage(10, 10)
	data := save(t, d, Full)
	ok, err := d.RegenerateFields(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Open(context.Background(), bytes.NewReader(data), WithTracer(tr))
	require.NoError(t, err)
	assert.Equal(t, []string{observability.SpanSave, observability.SpanRegenerate, observability.SpanOpen}, tr.names)
}
