package advisor

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
)

// Behavior binds one variant to the host callbacks that attach, update and
// detach its state on an entity of type E.
type Behavior[E any] struct {
	// Prototype is any payload of the variant; its Go type becomes the
	// registered payload type.
	Prototype Payload
	Attach    func(entity E, payload Payload)
	Detach    func(entity E)
	// Update refreshes attached state in place. Optional: when nil, or when
	// it returns an error, the registry detaches and re-attaches instead.
	Update func(entity E, payload Payload) error
	// Equal decides whether a payload change needs an Update. Optional:
	// defaults to reflect.DeepEqual.
	Equal func(a, b Payload) bool
}

// Registry is the dispatch table from variant to Behavior. Registration
// happens at startup; a Registry is read-only once the first tick runs.
type Registry[E any] struct {
	catalog   *Catalog
	behaviors []*Behavior[E]
	types     []reflect.Type
}

// NewRegistry creates an empty registry over catalog.
func NewRegistry[E any](catalog *Catalog) *Registry[E] {
	if catalog == nil {
		panic("NewRegistry: nil catalog")
	}
	return &Registry[E]{
		catalog:   catalog,
		behaviors: make([]*Behavior[E], catalog.Len()),
		types:     make([]reflect.Type, catalog.Len()),
	}
}

// Catalog returns the registry's variant catalog.
func (r *Registry[E]) Catalog() *Catalog { return r.catalog }

// Register binds id to b. Fails with a PayloadMismatchError if id is not in
// the catalog, is already registered, the prototype reports another variant,
// or a required callback is missing.
func (r *Registry[E]) Register(id VariantID, b Behavior[E]) error {
	if !r.catalog.Contains(id) {
		return &PayloadMismatchError{Variant: id, Reason: "variant not declared in catalog"}
	}
	if r.behaviors[id] != nil {
		return &PayloadMismatchError{Variant: id, Reason: fmt.Sprintf("variant %q registered twice", r.catalog.Name(id))}
	}
	if b.Prototype == nil {
		return &PayloadMismatchError{Variant: id, Reason: "nil prototype payload"}
	}
	if got := b.Prototype.Variant(); got != id {
		return &PayloadMismatchError{Variant: id, Reason: fmt.Sprintf(
			"prototype %T reports variant %q, registered as %q", b.Prototype, r.catalog.Name(got), r.catalog.Name(id))}
	}
	if b.Attach == nil || b.Detach == nil {
		return &PayloadMismatchError{Variant: id, Reason: "attach and detach callbacks are required"}
	}
	behavior := b
	r.behaviors[id] = &behavior
	r.types[id] = reflect.TypeOf(b.Prototype)
	return nil
}

// Validate reports the first catalog variant without a registration.
func (r *Registry[E]) Validate() error {
	for i, b := range r.behaviors {
		if b == nil {
			return &PayloadMismatchError{Variant: VariantID(i), Reason: fmt.Sprintf("variant %q has no registered behavior", r.catalog.Name(VariantID(i)))}
		}
	}
	return nil
}

// Check verifies payload has the Go type registered for its variant.
func (r *Registry[E]) Check(payload Payload) error {
	if payload == nil {
		return &PayloadMismatchError{Reason: "nil payload"}
	}
	id := payload.Variant()
	if !r.catalog.Contains(id) || r.behaviors[id] == nil {
		return &PayloadMismatchError{Variant: id, Reason: "no behavior registered for variant"}
	}
	if got := reflect.TypeOf(payload); got != r.types[id] {
		return &PayloadMismatchError{Variant: id, Reason: fmt.Sprintf(
			"payload type %s does not match registered type %s", got, r.types[id])}
	}
	return nil
}

// Equal returns the PayloadEqualFunc honoring per-variant Equal overrides.
func (r *Registry[E]) Equal() PayloadEqualFunc {
	return func(variant VariantID, a, b Payload) bool {
		if int(variant) < len(r.behaviors) {
			if beh := r.behaviors[variant]; beh != nil && beh.Equal != nil {
				return beh.Equal(a, b)
			}
		}
		return reflect.DeepEqual(a, b)
	}
}

// Apply dispatches events to entity in order.
func (r *Registry[E]) Apply(entity E, events []Event) error {
	for _, ev := range events {
		if !r.catalog.Contains(ev.Variant) || r.behaviors[ev.Variant] == nil {
			return &PayloadMismatchError{Variant: ev.Variant, Reason: fmt.Sprintf("cannot apply %s: no behavior registered", ev.Kind)}
		}
		b := r.behaviors[ev.Variant]
		switch ev.Kind {
		case EventDeactivate:
			b.Detach(entity)
		case EventActivate:
			b.Attach(entity, ev.Payload)
		case EventUpdate:
			if b.Update == nil {
				b.Detach(entity)
				b.Attach(entity, ev.Payload)
				continue
			}
			if err := b.Update(entity, ev.Payload); err != nil {
				logrus.Warnf("update of %q failed (%v); re-attaching instead", r.catalog.Name(ev.Variant), err)
				b.Detach(entity)
				b.Attach(entity, ev.Payload)
			}
		default:
			panic(fmt.Sprintf("Registry.Apply: unknown event kind %d", ev.Kind))
		}
	}
	return nil
}
