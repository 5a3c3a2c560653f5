package writer

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/observability"
)

type impl struct {
	interceptors []Interceptor
	log          observability.Logger
}

// SerializeObject renders one indirect object with uncompressed streams.
func (w *impl) SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error) {
	return w.serializeWith(ref, obj, 0)
}

func (w *impl) serializeWith(ref raw.ObjectRef, obj raw.Object, level int) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d obj\n", ref.Num, ref.Gen)
	switch o := obj.(type) {
	case *raw.StreamObj:
		dict, data, err := encodeStream(o, level)
		if err != nil {
			return nil, fmt.Errorf("writer: object %s: %w", ref, err)
		}
		buf.Write(serializePrimitive(dict))
		buf.WriteString("\nstream\n")
		buf.Write(data)
		buf.WriteString("\nendstream\n")
	case nil:
		buf.WriteString("null\n")
	default:
		buf.Write(serializePrimitive(o))
		buf.WriteString("\n")
	}
	buf.WriteString("endobj\n")
	return buf.Bytes(), nil
}

func (w *impl) Write(ctx context.Context, store *raw.Store, out io.Writer, cfg Config) error {
	trailer := store.Trailer()
	if _, ok := trailer.Get(raw.NameLiteral("Root")); !ok {
		return ErrNoCatalog
	}
	version := cfg.Version
	if version == "" {
		version = store.Version()
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xE2\xE3\xCF\xD3\n", version)
	refs := reachable(store)
	offsets := make(map[raw.ObjectRef]int64, len(refs))
	if err := w.writeObjects(ctx, store, refs, &buf, 0, offsets, cfg.Compression); err != nil {
		return err
	}

	size := 1
	if len(refs) > 0 {
		size = refs[len(refs)-1].Num + 1
	}
	xrefOffset := int64(buf.Len())
	buf.WriteString("xref\n")
	fmt.Fprintf(&buf, "0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	byNum := make(map[int]raw.ObjectRef, len(refs))
	for _, r := range refs {
		byNum[r.Num] = r
	}
	for i := 1; i < size; i++ {
		if r, ok := byNum[i]; ok {
			fmt.Fprintf(&buf, "%010d %05d n \n", offsets[r], r.Gen)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}

	ids := fileID(trailer, buf.Bytes(), cfg)
	t := buildTrailer(size, trailer, ids, 0)
	buf.WriteString("trailer\n")
	buf.Write(serializePrimitive(t))
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	w.log.Debug("writing document", observability.Int("objects", len(refs)), observability.Int("bytes", buf.Len()))
	_, err := out.Write(buf.Bytes())
	return err
}

func (w *impl) WriteIncremental(ctx context.Context, store *raw.Store, base []byte, out io.Writer, cfg Config) error {
	trailer := store.Trailer()
	if _, ok := trailer.Get(raw.NameLiteral("Root")); !ok {
		return ErrNoCatalog
	}
	prev := lastStartXRef(base)
	if prev <= 0 {
		return ErrNoStartXRef
	}

	var written []raw.ObjectRef
	for _, ref := range store.Modified() {
		if store.Lookup(ref) != nil {
			written = append(written, ref)
		}
	}
	if len(written) == 0 {
		_, err := out.Write(base)
		return err
	}

	var buf bytes.Buffer
	if len(base) > 0 && base[len(base)-1] != '\n' && base[len(base)-1] != '\r' {
		buf.WriteByte('\n')
	}
	start := int64(len(base))
	offsets := make(map[raw.ObjectRef]int64, len(written))
	if err := w.writeObjects(ctx, store, written, &buf, start, offsets, cfg.Compression); err != nil {
		return err
	}

	xrefOffset := start + int64(buf.Len())
	buf.WriteString("xref\n")
	for _, sub := range subsections(written) {
		fmt.Fprintf(&buf, "%d %d\n", sub[0].Num, len(sub))
		for _, r := range sub {
			fmt.Fprintf(&buf, "%010d %05d n \n", offsets[r], r.Gen)
		}
	}

	ids := fileID(trailer, buf.Bytes(), cfg)
	t := buildTrailer(store.Size(), trailer, ids, prev)
	buf.WriteString("trailer\n")
	buf.Write(serializePrimitive(t))
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	w.log.Debug("writing incremental update", observability.Int("objects", len(written)), observability.Int64("prev", prev))
	if _, err := out.Write(base); err != nil {
		return err
	}
	_, err := out.Write(buf.Bytes())
	return err
}

// writeObjects serialises refs into buf, recording offsets relative to the
// start of the file, which begins start bytes before buf.
func (w *impl) writeObjects(ctx context.Context, store *raw.Store, refs []raw.ObjectRef, buf *bytes.Buffer, start int64, offsets map[raw.ObjectRef]int64, level int) error {
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return err
		}
		obj := store.Lookup(ref)
		for _, ic := range w.interceptors {
			if err := ic.BeforeWrite(ctx, ref, obj); err != nil {
				return err
			}
		}
		data, err := w.serializeWith(ref, obj, level)
		if err != nil {
			return err
		}
		offsets[ref] = start + int64(buf.Len())
		buf.Write(data)
		for _, ic := range w.interceptors {
			if err := ic.AfterWrite(ctx, ref, obj, int64(len(data))); err != nil {
				return err
			}
		}
	}
	return nil
}
