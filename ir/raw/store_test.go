package raw

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mapSource struct {
	objs    map[ObjectRef]Object
	loads   int
	trailer *DictObj
}

func (m *mapSource) Load(ref ObjectRef) (Object, error) {
	m.loads++
	return m.objs[ref], nil
}

func (m *mapSource) Refs() []ObjectRef {
	out := make([]ObjectRef, 0, len(m.objs))
	for r := range m.objs {
		out = append(out, r)
	}
	return out
}

func (m *mapSource) Trailer() *DictObj { return m.trailer }
func (m *mapSource) Version() string   { return "1.6" }

func TestMakeIndirectIsIdempotent(t *testing.T) {
	s := NewStore()
	d := Dict()
	r1 := s.MakeIndirect(d)
	r2 := s.MakeIndirect(d)
	if r1 != r2 {
		t.Fatalf("MakeIndirect returned %v then %v", r1, r2)
	}
	if got := s.Lookup(r1.Ref()); got != d {
		t.Fatalf("Lookup returned %v", got)
	}
	if !s.IsModified(r1.Ref()) {
		t.Fatalf("new object should be pending write")
	}
	other := s.MakeIndirect(Dict())
	if other.Ref().Num != r1.Ref().Num+1 {
		t.Fatalf("expected consecutive numbers, got %v and %v", r1, other)
	}
}

func TestResolveFollowsChains(t *testing.T) {
	s := NewStore()
	target := NameLiteral("Widget")
	inner := s.MakeIndirect(NewArray(target))
	outer := s.MakeIndirect(NewArray(inner))

	arr := s.AsArray(outer)
	if arr == nil || arr.Len() != 1 {
		t.Fatalf("outer did not resolve to an array: %v", arr)
	}
	innerArr := s.AsArray(arr.Items[0])
	if innerArr == nil {
		t.Fatalf("inner did not resolve")
	}
	if name, ok := s.AsName(innerArr.Items[0]); !ok || name != "Widget" {
		t.Fatalf("got %q %v", name, ok)
	}
	if s.Resolve(Ref(99, 0)) != nil {
		t.Fatalf("unknown reference should resolve to nil")
	}
}

func TestLazyLoadFromSource(t *testing.T) {
	widget := Dict()
	widget.Set(NameLiteral("Subtype"), NameLiteral("Widget"))
	src := &mapSource{
		objs:    map[ObjectRef]Object{{Num: 4}: widget},
		trailer: Dict(),
	}
	s := NewStore(WithSource(src))

	if s.Version() != "1.6" {
		t.Fatalf("version not taken from source: %s", s.Version())
	}
	if src.loads != 0 {
		t.Fatalf("store loaded eagerly")
	}
	d := s.AsDict(Ref(4, 0))
	if d != widget {
		t.Fatalf("lazy load failed")
	}
	s.AsDict(Ref(4, 0))
	if src.loads != 1 {
		t.Fatalf("object loaded %d times", src.loads)
	}
	s.Lookup(ObjectRef{Num: 7})
	s.Lookup(ObjectRef{Num: 7})
	if src.loads != 2 {
		t.Fatalf("missing object should be looked up once, got %d loads", src.loads)
	}
	if got := s.MakeIndirect(Dict()).Ref().Num; got != 5 {
		t.Fatalf("new objects must not collide with source numbers, got %d", got)
	}
	if len(s.Modified()) != 1 {
		t.Fatalf("loading must not mark objects modified: %v", s.Modified())
	}
}

func TestPutMarksModified(t *testing.T) {
	s := NewStore()
	d := Dict()
	ref := s.MakeIndirect(d).Ref()
	s.ClearModified()

	s.Put(d, "V", Text("x"))
	if diff := cmp.Diff([]ObjectRef{ref}, s.Modified()); diff != "" {
		t.Fatalf("modified mismatch (-want +got):\n%s", diff)
	}
	s.ClearModified()

	direct := Dict()
	s.Put(direct, "W", NumberInt(1))
	if len(s.Modified()) != 0 {
		t.Fatalf("direct objects cannot be tracked")
	}

	s.Put(d, "V", nil)
	if d.Has("V") {
		t.Fatalf("nil value should remove key")
	}
	if s.Remove(d, "V") {
		t.Fatalf("second remove should report absence")
	}
}

func TestTypedAccessorsFailSoftly(t *testing.T) {
	s := NewStore()
	d := Dict()
	d.Set(NameLiteral("N"), NumberInt(3))
	d.Set(NameLiteral("S"), Text("hi"))

	if s.GetDict(d, "N") != nil {
		t.Errorf("number returned as dict")
	}
	if _, ok := s.GetName(d, "S"); ok {
		t.Errorf("string returned as name")
	}
	if n, ok := s.GetInt(d, "N"); !ok || n != 3 {
		t.Errorf("GetInt = %d %v", n, ok)
	}
	if v, ok := s.GetString(d, "S"); !ok || v != "hi" {
		t.Errorf("GetString = %q %v", v, ok)
	}
	if s.GetArray(nil, "X") != nil {
		t.Errorf("nil dict should yield nil")
	}
}

func TestDictOrError(t *testing.T) {
	s := NewStore()
	_, err := s.DictOrError(NewArray())
	if !errors.Is(err, ErrNotDictionary) {
		t.Fatalf("expected ErrNotDictionary, got %v", err)
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, in := range []string{"Hello", "Grüße", "日本"} {
		if got := DecodeText(TextString(in).Value()); got != in {
			t.Errorf("round trip %q -> %q", in, got)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		0:          "0",
		-0.00001:   "0",
		1:          "1",
		12.5:       "12.5",
		1.23456789: "1.2346",
		-90:        "-90",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRealIsNumber(t *testing.T) {
	var obj Object = Real(2.5)
	n, ok := obj.(Number)
	if !ok {
		t.Fatalf("Real(2.5) is %T, not a Number", obj)
	}
	if n.IsInteger() || n.Float() != 2.5 {
		t.Errorf("Real(2.5) = %v (integer %v)", n.Float(), n.IsInteger())
	}
	s := NewStore()
	d := DictOf(map[string]Object{"W": Real(1.5)})
	if w, ok := s.GetNumber(d, "W"); !ok || w != 1.5 {
		t.Errorf("GetNumber = %v, %v", w, ok)
	}
}

func TestReleaseOnlyNewObjects(t *testing.T) {
	old := Dict()
	src := &mapSource{objs: map[ObjectRef]Object{{Num: 3}: old}, trailer: Dict()}
	s := NewStore(WithSource(src))
	s.Lookup(ObjectRef{Num: 3})

	fresh := NewStream(Dict(), []byte("q Q"))
	ref := s.MakeIndirect(fresh)
	if !s.IsNew(ref.R) || s.IsNew(ObjectRef{Num: 3}) {
		t.Fatalf("IsNew: fresh=%v loaded=%v", s.IsNew(ref.R), s.IsNew(ObjectRef{Num: 3}))
	}
	if s.Release(ObjectRef{Num: 3}) {
		t.Fatalf("objects from the source must not be released")
	}
	if !s.Release(ref.R) {
		t.Fatalf("new object not released")
	}
	if s.Lookup(ref.R) != nil || s.IsModified(ref.R) {
		t.Fatalf("released object still registered")
	}
	if _, ok := s.RefOf(fresh); ok {
		t.Fatalf("released object still indexed")
	}
	if s.Release(ref.R) {
		t.Fatalf("second release succeeded")
	}
	if diff := cmp.Diff([]ObjectRef{{Num: 3}}, s.Refs()); diff != "" {
		t.Fatalf("Refs mismatch (-want +got):\n%s", diff)
	}
}
