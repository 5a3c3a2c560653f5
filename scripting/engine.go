// Package scripting runs the JavaScript attached to form fields, such as
// the calculate actions listed in /AcroForm /CO.
//
// Scripts see a small subset of the Acrobat object model: getField(name)
// with a read/write value property, the event object with value and rc,
// app.alert, and AFSimple_Calculate.
package scripting

import (
	"context"
	"errors"
)

// ErrUnknownField is raised inside a script that names a missing field.
var ErrUnknownField = errors.New("scripting: unknown field")

// Fields gives scripts access to field values by fully qualified name.
type Fields interface {
	FieldValue(name string) (string, bool)
	SetFieldValue(name, value string) bool
}

// Runner executes field scripts.
type Runner interface {
	// Execute runs script and returns its completion value.
	Execute(ctx context.Context, script string) (interface{}, error)
	// Calculate runs a calculate script with event.value set to current.
	// It returns the resulting event.value and whether the script left
	// event.rc true.
	Calculate(ctx context.Context, script, current string) (string, bool, error)
}
