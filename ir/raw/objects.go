package raw

import (
	"sort"
)

// Concrete implementations for raw objects.

// Name object
type NameObj struct{ Val string }

func (n NameObj) Type() string     { return "name" }
func (n NameObj) IsIndirect() bool { return false }
func (n NameObj) Value() string    { return n.Val }

// Number object
type NumberObj struct {
	I     int64
	F     float64
	IsInt bool
}

func (n NumberObj) Type() string     { return "number" }
func (n NumberObj) IsIndirect() bool { return false }
func (n NumberObj) Int() int64 {
	if n.IsInt {
		return n.I
	}
	return int64(n.F)
}
func (n NumberObj) Float() float64 {
	if n.IsInt {
		return float64(n.I)
	}
	return n.F
}
func (n NumberObj) IsInteger() bool { return n.IsInt }

// Boolean object
type BoolObj struct{ V bool }

func (b BoolObj) Type() string     { return "boolean" }
func (b BoolObj) IsIndirect() bool { return false }
func (b BoolObj) Value() bool      { return b.V }

// Null object
type NullObj struct{}

func (n NullObj) Type() string     { return "null" }
func (n NullObj) IsIndirect() bool { return false }

// String object. Hex only affects how the writer emits it.
type StringObj struct {
	Bytes []byte
	Hex   bool
}

func (s StringObj) Type() string     { return "string" }
func (s StringObj) IsIndirect() bool { return false }
func (s StringObj) Value() []byte    { return s.Bytes }
func (s StringObj) IsHex() bool      { return s.Hex }

// Array object
type ArrayObj struct{ Items []Object }

func (a *ArrayObj) Type() string     { return "array" }
func (a *ArrayObj) IsIndirect() bool { return false }
func (a *ArrayObj) Get(i int) (Object, bool) {
	if i < 0 || i >= len(a.Items) {
		return nil, false
	}
	return a.Items[i], true
}
func (a *ArrayObj) Len() int        { return len(a.Items) }
func (a *ArrayObj) Append(o Object) { a.Items = append(a.Items, o) }

// Remove deletes the element at index i and reports whether it existed.
func (a *ArrayObj) Remove(i int) bool {
	if i < 0 || i >= len(a.Items) {
		return false
	}
	a.Items = append(a.Items[:i], a.Items[i+1:]...)
	return true
}

// Dictionary object
type DictObj struct{ KV map[string]Object }

func (d *DictObj) Type() string     { return "dict" }
func (d *DictObj) IsIndirect() bool { return false }
func (d *DictObj) Get(key Name) (Object, bool) {
	if d == nil {
		return nil, false
	}
	o, ok := d.KV[key.Value()]
	return o, ok
}
func (d *DictObj) Set(key Name, value Object) {
	if d.KV == nil {
		d.KV = make(map[string]Object)
	}
	d.KV[key.Value()] = value
}
func (d *DictObj) Delete(key Name) bool {
	if _, ok := d.KV[key.Value()]; !ok {
		return false
	}
	delete(d.KV, key.Value())
	return true
}

// Keys returns the dictionary keys in lexical order.
func (d *DictObj) Keys() []Name {
	names := d.KeyStrings()
	keys := make([]Name, len(names))
	for i, k := range names {
		keys[i] = NameObj{Val: k}
	}
	return keys
}

// KeyStrings returns the dictionary keys as plain strings, sorted.
func (d *DictObj) KeyStrings() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.KV))
	for k := range d.KV {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *DictObj) Len() int {
	if d == nil {
		return 0
	}
	return len(d.KV)
}

// Has reports whether key is present.
func (d *DictObj) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.KV[key]
	return ok
}

// Stream object
type StreamObj struct {
	Dict *DictObj
	Data []byte
}

func (s *StreamObj) Type() string           { return "stream" }
func (s *StreamObj) IsIndirect() bool       { return false }
func (s *StreamObj) Dictionary() Dictionary { return s.Dict }
func (s *StreamObj) RawData() []byte        { return s.Data }
func (s *StreamObj) Length() int64          { return int64(len(s.Data)) }

// SetData replaces the stream payload and keeps /Length in sync.
func (s *StreamObj) SetData(data []byte) {
	s.Data = data
	if s.Dict == nil {
		s.Dict = Dict()
	}
	s.Dict.Set(NameLiteral("Length"), NumberInt(int64(len(data))))
}

// Reference object
type RefObj struct{ R ObjectRef }

func (r RefObj) Type() string     { return "ref" }
func (r RefObj) IsIndirect() bool { return true }
func (r RefObj) Ref() ObjectRef   { return r.R }

// Helpers
func NameLiteral(v string) NameObj    { return NameObj{Val: v} }
func NumberInt(i int64) NumberObj     { return NumberObj{I: i, IsInt: true} }
func NumberFloat(f float64) NumberObj { return NumberObj{F: f, IsInt: false} }
func Bool(v bool) BoolObj             { return BoolObj{V: v} }
func Str(bytes []byte) StringObj      { return StringObj{Bytes: bytes} }
func Text(s string) StringObj         { return StringObj{Bytes: []byte(s)} }
func NewArray(items ...Object) *ArrayObj {
	return &ArrayObj{Items: items}
}
func Dict() *DictObj { return &DictObj{KV: make(map[string]Object)} }
func NewStream(dict *DictObj, data []byte) *StreamObj {
	if dict == nil {
		dict = Dict()
	}
	s := &StreamObj{Dict: dict}
	s.SetData(data)
	return s
}
func Ref(num, gen int) RefObj  { return RefObj{R: ObjectRef{Num: num, Gen: gen}} }
func RefTo(r ObjectRef) RefObj { return RefObj{R: r} }
func Real(f float64) NumberObj { return NumberFloat(f) }

// Floats builds an array of real numbers.
func Floats(vals ...float64) *ArrayObj {
	arr := &ArrayObj{Items: make([]Object, len(vals))}
	for i, v := range vals {
		arr.Items[i] = NumberFloat(v)
	}
	return arr
}

// DictOf builds a dictionary holding the given entries.
func DictOf(kv map[string]Object) *DictObj {
	d := Dict()
	for k, v := range kv {
		d.KV[k] = v
	}
	return d
}
