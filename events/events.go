// Package events dispatches document lifecycle events to registered
// handlers. A Dispatcher is created explicitly and owned by its document;
// there is no process wide instance.
package events

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Event types emitted by the library.
const (
	// FlushDocument is dispatched before a document is written or closed.
	FlushDocument = "document.flush"
	// AllEvents registers a handler for every event type.
	AllEvents = "*"
)

// Event is a value delivered to handlers.
type Event interface {
	Type() string
}

// Handler reacts to an event.
type Handler interface {
	Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, e Event) error

func (f HandlerFunc) Handle(ctx context.Context, e Event) error { return f(ctx, e) }

// Registration identifies one registered handler.
type Registration struct {
	typ      string
	name     string
	priority int
	handler  Handler
	seq      int
}

// Type returns the event type the handler listens to.
func (r *Registration) Type() string { return r.typ }

// Name returns the handler name used in error messages.
func (r *Registration) Name() string { return r.name }

// Option configures a registration.
type Option func(*Registration)

// WithPriority orders handlers; lower priorities run first. Handlers with
// equal priority run in registration order.
func WithPriority(p int) Option { return func(r *Registration) { r.priority = p } }

// WithName names the handler in aggregated errors.
func WithName(name string) Option { return func(r *Registration) { r.name = name } }

// Dispatcher delivers events to handlers. It is not safe for concurrent
// use, like the document owning it.
type Dispatcher struct {
	regs []*Registration
	seq  int
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher { return &Dispatcher{} }

// Register adds h for events of type typ.
func (d *Dispatcher) Register(typ string, h Handler, opts ...Option) *Registration {
	d.seq++
	r := &Registration{typ: typ, handler: h, seq: d.seq}
	for _, opt := range opts {
		opt(r)
	}
	if r.name == "" {
		r.name = fmt.Sprintf("%s#%d", typ, r.seq)
	}
	d.regs = append(d.regs, r)
	sort.SliceStable(d.regs, func(i, j int) bool {
		if d.regs[i].priority != d.regs[j].priority {
			return d.regs[i].priority < d.regs[j].priority
		}
		return d.regs[i].seq < d.regs[j].seq
	})
	return r
}

// Unregister removes r. It reports whether r was registered.
func (d *Dispatcher) Unregister(r *Registration) bool {
	for i, reg := range d.regs {
		if reg == r {
			d.regs = append(d.regs[:i], d.regs[i+1:]...)
			return true
		}
	}
	return false
}

// IsRegistered reports whether r is currently registered.
func (d *Dispatcher) IsRegistered(r *Registration) bool {
	for _, reg := range d.regs {
		if reg == r {
			return true
		}
	}
	return false
}

// Handlers returns the registrations receiving events of type typ, in the
// order they run.
func (d *Dispatcher) Handlers(typ string) []*Registration {
	var out []*Registration
	for _, r := range d.regs {
		if r.typ == typ || r.typ == AllEvents {
			out = append(out, r)
		}
	}
	return out
}

// Dispatch runs every handler for e, even when some of them fail, and
// returns their errors joined. A cancelled context stops the remaining
// handlers.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) error {
	var errs []error
	for _, r := range d.Handlers(e.Type()) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.handler.Handle(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("events: handler %s: %w", r.name, err))
		}
	}
	return errors.Join(errs...)
}
