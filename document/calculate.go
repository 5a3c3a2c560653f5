package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/wudi/formkit/forms"
	"github.com/wudi/formkit/observability"
	"github.com/wudi/formkit/scripting"
)

// formFields exposes terminal field values to scripts.
type formFields struct{ form *forms.AcroForm }

func (f formFields) FieldValue(name string) (string, bool) {
	field := f.form.Field(name)
	if field == nil {
		return "", false
	}
	return field.Value(), true
}

func (f formFields) SetFieldValue(name, value string) bool {
	field := f.form.Field(name)
	if field == nil {
		return false
	}
	if field.Value() != value {
		field.SetValue(value)
	}
	return true
}

// Calculate runs the calculate scripts of the fields listed in /AcroForm
// /CO, in that order, and stores the values they produce. A failing script
// does not stop the others; all failures are returned joined. It reports
// how many field values changed.
func (d *Document) Calculate(ctx context.Context) (changed int, err error) {
	form, err := d.AcroForm()
	if err != nil {
		return 0, err
	}
	ctx, span := d.tracer.StartSpan(ctx, observability.SpanCalculate)
	defer func() {
		if err != nil {
			span.SetError(err)
		}
		span.SetTag("changed", changed)
		span.Finish()
	}()

	engine := scripting.NewEngine(formFields{form}, scripting.WithLogger(d.log))
	var errs []error
	for _, f := range form.CalculationOrder() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		js := f.JavaScript(forms.TriggerCalculate)
		if js == "" {
			continue
		}
		current := f.Value()
		v, ok, err := engine.Calculate(ctx, js, current)
		if err != nil {
			errs = append(errs, fmt.Errorf("document: calculate %s: %w", f.FullName(), err))
			continue
		}
		if ok && v != current {
			f.SetValue(v)
			changed++
			d.log.Debug("calculated field", observability.String("field", f.FullName()), observability.String("value", v))
		}
	}
	return changed, errors.Join(errs...)
}
