package writer

import (
	"bytes"
	"compress/zlib"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/wudi/formkit/ir/raw"
)

// reachable returns the references reachable from the trailer's /Root and
// /Info, ordered by object number. Dangling references are skipped.
func reachable(store *raw.Store) []raw.ObjectRef {
	seen := make(map[raw.ObjectRef]bool)
	stack := []raw.Object{}
	trailer := store.Trailer()
	for _, k := range []string{"Info", "Root"} {
		if v, ok := trailer.Get(raw.NameLiteral(k)); ok {
			stack = append(stack, v)
		}
	}
	for len(stack) > 0 {
		o := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch v := o.(type) {
		case raw.Reference:
			ref := v.Ref()
			if seen[ref] {
				continue
			}
			obj := store.Lookup(ref)
			if obj == nil {
				continue
			}
			seen[ref] = true
			stack = append(stack, obj)
		case *raw.DictObj:
			for _, val := range v.KV {
				stack = append(stack, val)
			}
		case *raw.ArrayObj:
			stack = append(stack, v.Items...)
		case *raw.StreamObj:
			if v.Dict != nil {
				stack = append(stack, v.Dict)
			}
		}
	}
	out := make([]raw.ObjectRef, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Num < out[j].Num })
	return out
}

// subsections groups sorted refs into runs of consecutive object numbers.
func subsections(refs []raw.ObjectRef) [][]raw.ObjectRef {
	var out [][]raw.ObjectRef
	for i, r := range refs {
		if i == 0 || r.Num != refs[i-1].Num+1 {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], r)
	}
	return out
}

// encodeStream returns the dictionary and bytes to write for s. The store's
// dictionary is never modified. Streams that still carry a /Filter are
// written verbatim.
func encodeStream(s *raw.StreamObj, level int) (*raw.DictObj, []byte, error) {
	dict := raw.Dict()
	if s.Dict != nil {
		for k, v := range s.Dict.KV {
			dict.KV[k] = v
		}
	}
	data := s.Data
	if _, filtered := dict.Get(raw.NameLiteral("Filter")); !filtered && level != 0 && len(data) > 0 {
		enc, err := zlibEncode(data, level)
		if err != nil {
			return nil, nil, err
		}
		data = enc
		dict.Set(raw.NameLiteral("Filter"), raw.NameLiteral("FlateDecode"))
		dict.Delete(raw.NameLiteral("DecodeParms"))
	}
	dict.Set(raw.NameLiteral("Length"), raw.NumberInt(int64(len(data))))
	return dict, data, nil
}

func zlibEncode(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fileID keeps the permanent first identifier of an existing file and
// derives a fresh second one.
func fileID(trailer *raw.DictObj, body []byte, cfg Config) [2][]byte {
	sum := sha256.Sum256(body)
	seed := sum[:16]
	second := seed
	if !cfg.Deterministic {
		id := make([]byte, 16)
		if _, err := rand.Read(id); err == nil {
			second = id
		}
	}
	first := second
	if arr, ok := trailer.KV["ID"].(*raw.ArrayObj); ok {
		if v, ok := arr.Get(0); ok {
			if s, ok := v.(raw.String); ok && len(s.Value()) > 0 {
				first = s.Value()
			}
		}
	}
	return [2][]byte{first, second}
}

func buildTrailer(size int, src *raw.DictObj, ids [2][]byte, prev int64) *raw.DictObj {
	trailer := raw.Dict()
	trailer.Set(raw.NameLiteral("Size"), raw.NumberInt(int64(size)))
	for _, k := range []string{"Root", "Info"} {
		if v, ok := src.Get(raw.NameLiteral(k)); ok {
			trailer.Set(raw.NameLiteral(k), v)
		}
	}
	trailer.Set(raw.NameLiteral("ID"), raw.NewArray(
		raw.StringObj{Bytes: ids[0], Hex: true},
		raw.StringObj{Bytes: ids[1], Hex: true},
	))
	if prev > 0 {
		trailer.Set(raw.NameLiteral("Prev"), raw.NumberInt(prev))
	}
	return trailer
}

func serializePrimitive(o raw.Object) []byte {
	switch v := o.(type) {
	case raw.NameObj:
		return []byte("/" + pdfNameLiteral(v.Value()))
	case raw.NumberObj:
		if v.IsInteger() {
			return []byte(strconv.FormatInt(v.Int(), 10))
		}
		return []byte(raw.FormatNumber(v.Float()))
	case raw.BoolObj:
		if v.Value() {
			return []byte("true")
		}
		return []byte("false")
	case raw.NullObj:
		return []byte("null")
	case raw.String:
		if v.IsHex() {
			dst := make([]byte, hex.EncodedLen(len(v.Value())))
			hex.Encode(dst, v.Value())
			return []byte("<" + strings.ToUpper(string(dst)) + ">")
		}
		return escapeLiteralString(v.Value())
	case *raw.ArrayObj:
		var b bytes.Buffer
		b.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.Write(serializePrimitive(it))
		}
		b.WriteByte(']')
		return b.Bytes()
	case *raw.DictObj:
		var b bytes.Buffer
		b.WriteString("<<")
		for _, k := range v.KeyStrings() {
			b.WriteString("/" + pdfNameLiteral(k) + " ")
			b.Write(serializePrimitive(v.KV[k]))
		}
		b.WriteString(">>")
		return b.Bytes()
	case *raw.StreamObj:
		// Streams are only legal as indirect objects; a direct one is
		// written as its dictionary.
		return serializePrimitive(v.Dict)
	case raw.Reference:
		return []byte(fmt.Sprintf("%d %d R", v.Ref().Num, v.Ref().Gen))
	default:
		return []byte("null")
	}
}

func escapeLiteralString(rawBytes []byte) []byte {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, ch := range rawBytes {
		switch ch {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(ch)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		case '\b':
			b.WriteString("\\b")
		case '\f':
			b.WriteString("\\f")
		default:
			if ch < 0x20 || ch >= 0x80 {
				fmt.Fprintf(&b, "\\%03o", ch)
			} else {
				b.WriteByte(ch)
			}
		}
	}
	b.WriteByte(')')
	return b.Bytes()
}

// pdfNameLiteral escapes the bytes a name token cannot hold verbatim.
func pdfNameLiteral(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if ch < 0x21 || ch > 0x7e || strings.IndexByte("#()<>[]{}/%", ch) >= 0 {
			fmt.Fprintf(&b, "#%02X", ch)
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

var startXRefRe = regexp.MustCompile(`startxref\s+(\d+)`)

func lastStartXRef(data []byte) int64 {
	matches := startXRefRe.FindAllSubmatch(data, -1)
	if len(matches) == 0 {
		return 0
	}
	m := matches[len(matches)-1]
	off, err := strconv.ParseInt(string(m[1]), 10, 64)
	if err != nil {
		return 0
	}
	return off
}
