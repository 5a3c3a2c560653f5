package raw

import (
	"errors"
	"fmt"
)

// ObjectRef uniquely identifies an indirect PDF object.
type ObjectRef struct {
	Num int
	Gen int
}

func (r ObjectRef) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// IsZero reports whether r is the zero reference (object number 0 is never used).
func (r ObjectRef) IsZero() bool { return r.Num == 0 }

// Object is the base interface for all raw PDF objects.
type Object interface {
	Type() string
	IsIndirect() bool
}

// Dictionary represents a PDF dictionary object.
type Dictionary interface {
	Object
	Get(key Name) (Object, bool)
	Set(key Name, value Object)
	Delete(key Name) bool
	Keys() []Name
	Len() int
}

// Array represents a PDF array object.
type Array interface {
	Object
	Get(index int) (Object, bool)
	Len() int
	Append(obj Object)
}

// Stream represents a PDF stream. Data is held decoded; filters are the
// concern of the parser that materialised it.
type Stream interface {
	Object
	Dictionary() Dictionary
	RawData() []byte
	Length() int64
}

// Name represents a PDF name object.
type Name interface {
	Object
	Value() string
}

// String represents a PDF string (literal or hex).
type String interface {
	Object
	Value() []byte
	IsHex() bool
}

// Number represents a PDF numeric value.
type Number interface {
	Object
	Int() int64
	Float() float64
	IsInteger() bool
}

// Boolean represents a PDF boolean.
type Boolean interface {
	Object
	Value() bool
}

// Null represents the PDF null object.
type Null interface{ Object }

// Reference represents an indirect object reference.
type Reference interface {
	Object
	Ref() ObjectRef
}

// Source supplies objects that have not been materialised in a Store yet.
// Parsers implement it so that a document is only decoded on demand.
type Source interface {
	// Load returns the object stored under ref, or (nil, nil) when the
	// source does not know it.
	Load(ref ObjectRef) (Object, error)
	// Refs lists every in-use object reference known to the source.
	Refs() []ObjectRef
	// Trailer returns the trailer dictionary of the source file.
	Trailer() *DictObj
	// Version returns the header version, e.g. "1.7".
	Version() string
}

var (
	// ErrNotDictionary is returned when a dictionary was required but
	// something else was supplied.
	ErrNotDictionary = errors.New("raw: object is not a dictionary")
	// ErrNotIndirect is returned when an operation needs an object that is
	// registered in a store.
	ErrNotIndirect = errors.New("raw: object is not indirect")
)
