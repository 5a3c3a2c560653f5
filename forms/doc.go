// Package forms implements interactive form fields (AcroForm) on top of
// the raw object store: typed views over field and widget dictionaries,
// the field/widget hierarchy and regeneration of widget appearances.
//
// Every setter that changes how a widget looks writes the backing
// dictionary and regenerates the affected appearance streams. Wrappers
// cache a few values derived from the dictionary (border and background
// colours, font, font size); after mutating MK or DA through the raw store
// directly, call RetrieveStyles to resynchronise them.
//
// Like the store, nothing in this package is safe for concurrent use.
package forms

import (
	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/observability"
	"github.com/wudi/formkit/pdfa"
)

// Document is the part of a document session the form layer depends on.
type Document interface {
	Store() *raw.Store
	Logger() observability.Logger
	// Conformance is the PDF/A level the document claims.
	Conformance() pdfa.Level
	Catalog() *raw.DictObj
	// Page returns the page dictionary for a 1-based page number, or nil.
	Page(n int) *raw.DictObj
	// PageOf returns the page an annotation is placed on, or nil.
	PageOf(annot *raw.DictObj) *raw.DictObj
	// PageRotation returns the effective (inherited) /Rotate of page.
	PageRotation(page *raw.DictObj) int
}
