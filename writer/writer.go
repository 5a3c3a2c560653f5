// Package writer serialises a raw.Store as a PDF file, either completely or
// as an incremental update appended to the bytes it was loaded from.
package writer

import (
	"context"
	"errors"
	"io"

	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/observability"
)

// Config controls serialisation.
type Config struct {
	// Version overrides the header version of a full write. Empty uses the
	// store's version.
	Version string
	// Compression is the zlib level applied to unfiltered streams; 0
	// writes streams uncompressed.
	Compression int
	// Deterministic derives the file identifier from the written bytes so
	// that equal input produces equal output.
	Deterministic bool
}

// Writer serialises stores.
type Writer interface {
	// Write emits every object reachable from the trailer, keeping object
	// numbers.
	Write(ctx context.Context, store *raw.Store, w io.Writer, cfg Config) error
	// WriteIncremental emits base followed by an update section holding the
	// store's modified objects. The caller clears the modified set once the
	// output is durable.
	WriteIncremental(ctx context.Context, store *raw.Store, base []byte, w io.Writer, cfg Config) error
	SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error)
}

// Interceptor observes objects as they are written.
type Interceptor interface {
	BeforeWrite(ctx context.Context, ref raw.ObjectRef, obj raw.Object) error
	AfterWrite(ctx context.Context, ref raw.ObjectRef, obj raw.Object, bytesWritten int64) error
}

var (
	// ErrNoCatalog is returned when the trailer has no /Root.
	ErrNoCatalog = errors.New("writer: trailer has no document catalog")
	// ErrNoStartXRef is returned when the base of an incremental update
	// carries no startxref offset.
	ErrNoStartXRef = errors.New("writer: base file has no startxref")
)

type WriterBuilder struct {
	interceptors []Interceptor
	log          observability.Logger
}

func (b *WriterBuilder) WithInterceptor(i Interceptor) *WriterBuilder {
	b.interceptors = append(b.interceptors, i)
	return b
}

func (b *WriterBuilder) WithLogger(l observability.Logger) *WriterBuilder {
	b.log = l
	return b
}

func (b *WriterBuilder) Build() Writer {
	return &impl{interceptors: b.interceptors, log: observability.OrNop(b.log)}
}

// New returns a writer without interceptors.
func New() Writer { return (&WriterBuilder{}).Build() }
