package raw

import (
	"fmt"
	"sort"

	"github.com/wudi/formkit/observability"
)

// Store is the owner of every indirect object of one document. Objects are
// addressed by reference, loaded lazily from an optional Source and tracked
// for modification so that an incremental update only rewrites what changed.
//
// A Store is not safe for concurrent use.
type Store struct {
	objects  map[ObjectRef]Object
	index    map[Object]ObjectRef
	missing  map[ObjectRef]bool
	modified map[ObjectRef]struct{}
	src      Source
	srcRefs  []ObjectRef
	srcSet   map[ObjectRef]bool
	nextNum  int
	trailer  *DictObj
	version  string
	logger   observability.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSource makes the store load unknown references from src.
func WithSource(src Source) StoreOption {
	return func(s *Store) { s.src = src }
}

// WithLogger sets the logger used for load failures.
func WithLogger(l observability.Logger) StoreOption {
	return func(s *Store) { s.logger = observability.OrNop(l) }
}

// NewStore returns an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		objects:  make(map[ObjectRef]Object),
		index:    make(map[Object]ObjectRef),
		missing:  make(map[ObjectRef]bool),
		modified: make(map[ObjectRef]struct{}),
		nextNum:  1,
		version:  "1.7",
		logger:   observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.src != nil {
		s.srcRefs = s.src.Refs()
		s.srcSet = make(map[ObjectRef]bool, len(s.srcRefs))
		for _, r := range s.srcRefs {
			s.srcSet[r] = true
			if r.Num >= s.nextNum {
				s.nextNum = r.Num + 1
			}
		}
		if t := s.src.Trailer(); t != nil {
			s.trailer = t
		}
		if v := s.src.Version(); v != "" {
			s.version = v
		}
	}
	if s.trailer == nil {
		s.trailer = Dict()
	}
	return s
}

// Version returns the PDF header version.
func (s *Store) Version() string { return s.version }

// SetVersion sets the PDF header version.
func (s *Store) SetVersion(v string) { s.version = v }

// Trailer returns the trailer dictionary.
func (s *Store) Trailer() *DictObj { return s.trailer }

// HasSource reports whether the store was opened from an existing file.
func (s *Store) HasSource() bool { return s.src != nil }

// Lookup returns the object registered under ref, loading it from the
// source on first access. Unknown references yield nil.
func (s *Store) Lookup(ref ObjectRef) Object {
	if obj, ok := s.objects[ref]; ok {
		return obj
	}
	if s.src == nil || s.missing[ref] {
		return nil
	}
	obj, err := s.src.Load(ref)
	if err != nil {
		s.logger.Error("cannot load indirect object", observability.Stringer("ref", ref), observability.Error("error", err))
	}
	if obj == nil {
		s.missing[ref] = true
		return nil
	}
	s.register(ref, obj)
	return obj
}

// Resolve follows references until a direct object is reached. Unknown or
// cyclic references resolve to nil.
func (s *Store) Resolve(obj Object) Object {
	for depth := 0; depth < 32; depth++ {
		r, ok := obj.(Reference)
		if !ok {
			return obj
		}
		obj = s.Lookup(r.Ref())
	}
	return nil
}

// MakeIndirect registers obj in the store and returns a reference to it.
// Registering the same dictionary, array or stream twice returns the
// existing reference.
func (s *Store) MakeIndirect(obj Object) RefObj {
	if r, ok := obj.(Reference); ok {
		return RefTo(r.Ref())
	}
	if ref, ok := s.RefOf(obj); ok {
		return RefTo(ref)
	}
	ref := ObjectRef{Num: s.nextNum}
	s.nextNum++
	s.register(ref, obj)
	s.modified[ref] = struct{}{}
	return RefTo(ref)
}

// RefOf returns the reference under which obj is registered.
func (s *Store) RefOf(obj Object) (ObjectRef, bool) {
	if !identifiable(obj) {
		return ObjectRef{}, false
	}
	ref, ok := s.index[obj]
	return ref, ok
}

// IsIndirect reports whether obj is registered in the store.
func (s *Store) IsIndirect(obj Object) bool {
	_, ok := s.RefOf(obj)
	return ok
}

// Replace stores obj under an existing reference.
func (s *Store) Replace(ref ObjectRef, obj Object) {
	if old, ok := s.objects[ref]; ok && identifiable(old) {
		delete(s.index, old)
	}
	s.register(ref, obj)
	s.modified[ref] = struct{}{}
}

// IsNew reports whether ref was allocated in this session rather than
// read from the source file.
func (s *Store) IsNew(ref ObjectRef) bool {
	_, ok := s.objects[ref]
	return ok && !s.srcSet[ref]
}

// Release unregisters an object allocated in this session, typically one
// that was superseded and is no longer referenced. It is dropped from the
// pending modifications, so neither kind of write emits it. Objects read
// from the source are left alone since other objects may still refer to
// them; Release reports false for those.
func (s *Store) Release(ref ObjectRef) bool {
	if !s.IsNew(ref) {
		return false
	}
	if old := s.objects[ref]; identifiable(old) {
		delete(s.index, old)
	}
	delete(s.objects, ref)
	delete(s.modified, ref)
	return true
}

// Put sets dict[key] = value and marks dict modified when it is indirect.
// A nil value removes the key.
func (s *Store) Put(dict *DictObj, key string, value Object) {
	if dict == nil {
		return
	}
	if value == nil {
		s.Remove(dict, key)
		return
	}
	dict.Set(NameLiteral(key), value)
	s.MarkModified(dict)
}

// Remove deletes dict[key]. It reports whether the key was present.
func (s *Store) Remove(dict *DictObj, key string) bool {
	if dict == nil || !dict.Delete(NameLiteral(key)) {
		return false
	}
	s.MarkModified(dict)
	return true
}

// MarkModified flags obj for the next incremental write. Direct objects
// are ignored; their owner has to be marked instead.
func (s *Store) MarkModified(obj Object) {
	if ref, ok := s.RefOf(obj); ok {
		s.modified[ref] = struct{}{}
	}
}

// Modified returns the references changed since the last ClearModified,
// ordered by object number.
func (s *Store) Modified() []ObjectRef {
	out := make([]ObjectRef, 0, len(s.modified))
	for r := range s.modified {
		out = append(out, r)
	}
	sortRefs(out)
	return out
}

// IsModified reports whether ref is pending an incremental write.
func (s *Store) IsModified(ref ObjectRef) bool {
	_, ok := s.modified[ref]
	return ok
}

// ClearModified forgets all pending modifications.
func (s *Store) ClearModified() {
	s.modified = make(map[ObjectRef]struct{})
}

// Refs returns every known reference, loaded or not, ordered by number.
func (s *Store) Refs() []ObjectRef {
	seen := make(map[ObjectRef]bool, len(s.objects)+len(s.srcRefs))
	out := make([]ObjectRef, 0, len(s.objects)+len(s.srcRefs))
	for r := range s.objects {
		seen[r] = true
		out = append(out, r)
	}
	for _, r := range s.srcRefs {
		if !seen[r] {
			out = append(out, r)
		}
	}
	sortRefs(out)
	return out
}

// Size is one more than the highest object number, as used by /Size.
func (s *Store) Size() int { return s.nextNum }

func (s *Store) register(ref ObjectRef, obj Object) {
	s.objects[ref] = obj
	if identifiable(obj) {
		s.index[obj] = ref
	}
	if ref.Num >= s.nextNum {
		s.nextNum = ref.Num + 1
	}
}

// identifiable objects have pointer identity and can be found by value.
func identifiable(obj Object) bool {
	switch obj.(type) {
	case *DictObj, *ArrayObj, *StreamObj:
		return true
	}
	return false
}

func sortRefs(refs []ObjectRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Num != refs[j].Num {
			return refs[i].Num < refs[j].Num
		}
		return refs[i].Gen < refs[j].Gen
	})
}

// DictOrError resolves obj and requires a dictionary.
func (s *Store) DictOrError(obj Object) (*DictObj, error) {
	d := s.AsDict(obj)
	if d == nil {
		return nil, fmt.Errorf("%w: got %s", ErrNotDictionary, typeName(s.Resolve(obj)))
	}
	return d, nil
}

func typeName(obj Object) string {
	if obj == nil {
		return "nothing"
	}
	return obj.Type()
}
