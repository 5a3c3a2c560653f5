// Package document is the editing session for one PDF file. A Document
// owns the object store, the page list, the interactive form and the
// event dispatcher; it implements forms.Document.
//
// A Document is not safe for concurrent use.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wudi/formkit/events"
	"github.com/wudi/formkit/forms"
	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/observability"
	"github.com/wudi/formkit/parser"
	"github.com/wudi/formkit/pdfa"
	"github.com/wudi/formkit/writer"
)

// DefaultProducer is written to /Info /Producer unless WithProducer says
// otherwise.
const DefaultProducer = "formkit"

var (
	// ErrClosed is returned by operations on a closed document.
	ErrClosed = errors.New("document: closed")
	// ErrNoCatalog is returned when a file has no document catalog.
	ErrNoCatalog = errors.New("document: no catalog")
	// ErrNotIncremental is returned for an incremental save of a document
	// that was neither opened nor saved before.
	ErrNotIncremental = errors.New("document: incremental save needs a base file")
)

// SaveMode selects how Save serialises the document.
type SaveMode int

const (
	// Full rewrites every reachable object.
	Full SaveMode = iota
	// Incremental appends the modified objects to the previous bytes.
	Incremental
)

func (m SaveMode) String() string {
	if m == Incremental {
		return "incremental"
	}
	return "full"
}

// FlushEvent is dispatched before the document is saved or closed.
type FlushEvent struct {
	Document *Document
}

func (FlushEvent) Type() string { return events.FlushDocument }

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used by the document and its form.
func WithLogger(l observability.Logger) Option {
	return func(d *Document) { d.log = observability.OrNop(l) }
}

// WithTracer traces open, save and regeneration.
func WithTracer(t observability.Tracer) Option {
	return func(d *Document) {
		if t != nil {
			d.tracer = t
		}
	}
}

// WithProducer overrides the /Producer written on flush.
func WithProducer(p string) Option { return func(d *Document) { d.producer = p } }

// WithWriterConfig sets how Save serialises.
func WithWriterConfig(cfg writer.Config) Option { return func(d *Document) { d.wcfg = cfg } }

// WithConformance declares the PDF/A level of a new document. Opened
// documents take it from their metadata.
func WithConformance(l pdfa.Level) Option { return func(d *Document) { d.level = l } }

// Document is one open PDF.
type Document struct {
	store   *raw.Store
	src     *parser.Source
	base    []byte
	catalog *raw.DictObj
	pages   []*raw.DictObj
	form    *forms.AcroForm

	log      observability.Logger
	tracer   observability.Tracer
	events   *events.Dispatcher
	writer   writer.Writer
	wcfg     writer.Config
	producer string
	level    pdfa.Level
	closed   bool
}

func newDocument(opts []Option) *Document {
	d := &Document{
		log:      observability.NopLogger{},
		tracer:   observability.NopTracer(),
		events:   events.NewDispatcher(),
		producer: DefaultProducer,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.writer = (&writer.WriterBuilder{}).WithLogger(d.log).Build()
	d.events.Register(events.FlushDocument, events.HandlerFunc(d.updateProducer), events.WithName("producer"))
	return d
}

// New creates an empty document with a catalog and an empty page tree.
func New(opts ...Option) *Document {
	d := newDocument(opts)
	d.store = raw.NewStore(raw.WithLogger(d.log))
	pages := raw.DictOf(map[string]raw.Object{
		"Type":  raw.NameLiteral("Pages"),
		"Kids":  raw.NewArray(),
		"Count": raw.NumberInt(0),
	})
	d.catalog = raw.DictOf(map[string]raw.Object{
		"Type":  raw.NameLiteral("Catalog"),
		"Pages": d.store.MakeIndirect(pages),
	})
	d.store.Trailer().Set(raw.NameLiteral("Root"), d.store.MakeIndirect(d.catalog))
	return d
}

// Open reads a PDF from r. The bytes are kept as the base of incremental
// saves.
func Open(ctx context.Context, r io.Reader, opts ...Option) (doc *Document, err error) {
	d := newDocument(opts)
	ctx, span := d.tracer.StartSpan(ctx, observability.SpanOpen)
	defer func() {
		if err != nil {
			span.SetError(err)
		}
		span.Finish()
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("document: read: %w", err)
	}
	span.SetTag("bytes", len(data))
	src, err := parser.Open(ctx, bytes.NewReader(data), parser.Config{Logger: d.log})
	if err != nil {
		return nil, fmt.Errorf("document: open: %w", err)
	}
	d.src = src
	d.base = data
	d.store = raw.NewStore(raw.WithSource(src), raw.WithLogger(d.log))
	d.catalog = d.store.GetDict(d.store.Trailer(), "Root")
	if d.catalog == nil {
		return nil, ErrNoCatalog
	}
	d.level = d.detectConformance()
	d.refreshPages()
	d.log.Debug("opened document",
		observability.String("version", d.store.Version()),
		observability.Int("pages", len(d.pages)),
		observability.String("conformance", d.level.String()))
	return d, nil
}

func (d *Document) detectConformance() pdfa.Level {
	md := d.store.GetStream(d.catalog, "Metadata")
	if md == nil {
		return pdfa.None
	}
	level, err := pdfa.FromMetadata(md.Data)
	if err != nil {
		d.log.Warn("cannot read PDF/A identification", observability.Error("error", err))
		return pdfa.None
	}
	return level
}

func (d *Document) Store() *raw.Store            { return d.store }
func (d *Document) Logger() observability.Logger { return d.log }
func (d *Document) Catalog() *raw.DictObj        { return d.catalog }

// Conformance returns the PDF/A level the document claims.
func (d *Document) Conformance() pdfa.Level { return d.level }

// Version returns the PDF header version.
func (d *Document) Version() string { return d.store.Version() }

// Dispatcher returns the document's event dispatcher.
func (d *Document) Dispatcher() *events.Dispatcher { return d.events }

// AcroForm returns the interactive form, creating /AcroForm on first use.
func (d *Document) AcroForm() (*forms.AcroForm, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if d.form == nil {
		f, err := forms.NewAcroForm(d)
		if err != nil {
			return nil, err
		}
		d.form = f
	}
	return d.form, nil
}

// RegenerateFields rebuilds the appearance of every field and reports
// whether all of them succeeded.
func (d *Document) RegenerateFields(ctx context.Context) (bool, error) {
	form, err := d.AcroForm()
	if err != nil {
		return false, err
	}
	_, span := d.tracer.StartSpan(ctx, observability.SpanRegenerate)
	defer span.Finish()
	ok := form.RegenerateAll()
	span.SetTag("fields", len(form.AllFields()))
	span.SetTag("ok", ok)
	return ok, nil
}

// Save dispatches FlushDocument and writes the document to w. After a
// successful save the written bytes become the base of the next
// incremental save.
func (d *Document) Save(ctx context.Context, w io.Writer, mode SaveMode) (err error) {
	if d.closed {
		return ErrClosed
	}
	if mode == Incremental && d.base == nil {
		return ErrNotIncremental
	}
	ctx, span := d.tracer.StartSpan(ctx, observability.SpanSave)
	span.SetTag("mode", mode.String())
	defer func() {
		if err != nil {
			span.SetError(err)
		}
		span.Finish()
	}()

	if err := d.events.Dispatch(ctx, FlushEvent{Document: d}); err != nil {
		return fmt.Errorf("document: flush: %w", err)
	}
	var buf bytes.Buffer
	switch mode {
	case Incremental:
		err = d.writer.WriteIncremental(ctx, d.store, d.base, &buf, d.wcfg)
	default:
		err = d.writer.Write(ctx, d.store, &buf, d.wcfg)
	}
	if err != nil {
		return fmt.Errorf("document: save: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("document: save: %w", err)
	}
	d.base = buf.Bytes()
	d.store.ClearModified()
	span.SetTag("bytes", buf.Len())
	return nil
}

// Close dispatches FlushDocument and releases the parsed file. Closing
// twice is a no-op.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	err := d.events.Dispatch(context.Background(), FlushEvent{Document: d})
	d.closed = true
	d.src = nil
	d.base = nil
	d.form = nil
	if err != nil {
		return fmt.Errorf("document: flush: %w", err)
	}
	return nil
}

// updateProducer writes /Info /Producer, creating the info dictionary when
// the document has none.
func (d *Document) updateProducer(_ context.Context, _ events.Event) error {
	if d.producer == "" {
		return nil
	}
	trailer := d.store.Trailer()
	info := d.store.GetDict(trailer, "Info")
	if info == nil {
		info = raw.Dict()
		trailer.Set(raw.NameLiteral("Info"), d.store.MakeIndirect(info))
	}
	if cur, ok := d.store.GetString(info, "Producer"); ok && cur == d.producer {
		return nil
	}
	d.store.Put(info, "Producer", raw.TextString(d.producer))
	return nil
}
