package forms

import "errors"

var (
	// ErrInvalidRotation is returned when a widget rotation is not a
	// multiple of 90 degrees.
	ErrInvalidRotation = errors.New("forms: rotation must be a multiple of 90")
	// ErrNotWidget is returned when a widget annotation was required.
	ErrNotWidget = errors.New("forms: dictionary is not a widget annotation")
	// ErrPageNotFound is returned for page numbers outside the document.
	ErrPageNotFound = errors.New("forms: page not found")
	// ErrFieldExists is returned when a field with the same full name is
	// already registered.
	ErrFieldExists = errors.New("forms: field already exists")
)
