package scripting

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"github.com/wudi/formkit/observability"
)

// GojaEngine is a Runner backed by goja. One engine serves one document;
// globals set by a script stay visible to the next one, as in a viewer.
type GojaEngine struct {
	vm     *goja.Runtime
	fields Fields
	log    observability.Logger
	event  *goja.Object
}

// Option configures a GojaEngine.
type Option func(*GojaEngine)

// WithLogger receives app.alert messages at Info.
func WithLogger(l observability.Logger) Option {
	return func(e *GojaEngine) { e.log = observability.OrNop(l) }
}

// NewEngine returns an engine whose scripts read and write fields.
func NewEngine(fields Fields, opts ...Option) *GojaEngine {
	e := &GojaEngine{vm: goja.New(), fields: fields, log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(e)
	}
	e.event = e.vm.NewObject()
	e.install()
	return e
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	val, err := e.run(ctx, script)
	if err != nil {
		return nil, err
	}
	return val.Export(), nil
}

func (e *GojaEngine) Calculate(ctx context.Context, script, current string) (string, bool, error) {
	e.event = e.vm.NewObject()
	_ = e.event.Set("value", e.toJS(current))
	_ = e.event.Set("rc", true)
	_ = e.event.Set("name", "Calculate")
	if err := e.vm.Set("event", e.event); err != nil {
		return "", false, err
	}
	if _, err := e.run(ctx, script); err != nil {
		return "", false, err
	}
	rc := e.event.Get("rc")
	if rc != nil && !rc.ToBoolean() {
		return current, false, nil
	}
	return fromJS(e.event.Get("value")), true, nil
}

func (e *GojaEngine) run(ctx context.Context, script string) (goja.Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	defer func() {
		close(done)
		<-stopped
		e.vm.ClearInterrupt()
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interrupted, ok := err.(*goja.InterruptedError); ok {
			if cause := interrupted.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, fmt.Errorf("scripting: %w", err)
	}
	return val, nil
}

func (e *GojaEngine) install() {
	app := e.vm.NewObject()
	_ = app.Set("alert", func(call goja.FunctionCall) goja.Value {
		e.log.Info("script alert", observability.String("message", call.Argument(0).String()))
		return goja.Undefined()
	})
	_ = e.vm.Set("app", app)
	_ = e.vm.Set("event", e.event)
	_ = e.vm.Set("getField", e.getField)
	_ = e.vm.Set("AFSimple_Calculate", e.simpleCalculate)
}

func (e *GojaEngine) getField(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	if _, ok := e.fields.FieldValue(name); !ok {
		return goja.Null()
	}
	obj := e.vm.NewObject()
	_ = obj.Set("name", name)
	_ = obj.DefineAccessorProperty("value",
		e.vm.ToValue(func(goja.FunctionCall) goja.Value {
			v, _ := e.fields.FieldValue(name)
			return e.toJS(v)
		}),
		e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			e.fields.SetFieldValue(name, fromJS(call.Argument(0)))
			return goja.Undefined()
		}),
		goja.FLAG_TRUE,
		goja.FLAG_TRUE,
	)
	return obj
}

// simpleCalculate implements AFSimple_Calculate(op, names): SUM, PRD,
// AVG, MIN or MAX over the numeric values of the named fields, stored in
// event.value. Empty and non-numeric values count as 0.
func (e *GojaEngine) simpleCalculate(call goja.FunctionCall) goja.Value {
	op := strings.ToUpper(call.Argument(0).String())
	names := fieldNames(call.Argument(1).Export())
	var nums []float64
	for _, name := range names {
		v, ok := e.fields.FieldValue(name)
		if !ok {
			panic(e.vm.NewGoError(fmt.Errorf("%w: %s", ErrUnknownField, name)))
		}
		n, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		nums = append(nums, n)
	}
	var result float64
	switch op {
	case "SUM", "AVG":
		for _, n := range nums {
			result += n
		}
		if op == "AVG" && len(nums) > 0 {
			result /= float64(len(nums))
		}
	case "PRD":
		result = 1
		for _, n := range nums {
			result *= n
		}
	case "MIN", "MAX":
		if len(nums) == 0 {
			break
		}
		result = nums[0]
		for _, n := range nums[1:] {
			if op == "MIN" {
				result = math.Min(result, n)
			} else {
				result = math.Max(result, n)
			}
		}
	default:
		panic(e.vm.NewTypeError("AFSimple_Calculate: unknown operation %q", op))
	}
	_ = e.event.Set("value", result)
	return goja.Undefined()
}

func fieldNames(v interface{}) []string {
	switch v := v.(type) {
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, fmt.Sprint(s))
		}
		return out
	}
	return nil
}

// toJS exposes numeric field values as numbers so that "+" adds them.
func (e *GojaEngine) toJS(s string) goja.Value {
	if t := strings.TrimSpace(s); t != "" {
		if n, err := strconv.ParseFloat(t, 64); err == nil {
			return e.vm.ToValue(n)
		}
	}
	return e.vm.ToValue(s)
}

func fromJS(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	switch x := v.Export().(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	}
	return v.String()
}
