package transform

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrDuplicate is returned when registering a name twice.
var ErrDuplicate = errors.New("transformer already registered")

// Registry holds transformers in precedence order.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Transformer
	order  []Transformer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Transformer),
	}
}

// Register appends transformers; later registrations have lower precedence.
func (r *Registry) Register(transformers ...Transformer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range transformers {
		if _, ok := r.byName[t.Name()]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicate, t.Name())
		}
		r.byName[t.Name()] = t
		r.order = append(r.order, t)
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(transformers ...Transformer) {
	if err := r.Register(transformers...); err != nil {
		panic(err)
	}
}

// Get retrieves a transformer by name.
func (r *Registry) Get(name string) (Transformer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// All returns every transformer in precedence order.
func (r *Registry) All() []Transformer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Elements returns the element importers in precedence order.
func (r *Registry) Elements() []ElementImporter {
	return collect[ElementImporter](r, TypeElement)
}

// Formats returns the format markers in precedence order.
func (r *Registry) Formats() []FormatMarker {
	return collect[FormatMarker](r, TypeTextFormat)
}

// Matchers returns the text matchers in precedence order.
func (r *Registry) Matchers() []TextMatcher {
	return collect[TextMatcher](r, TypeTextMatch)
}

// Triggers returns the distinct trigger characters of all text matchers.
func (r *Registry) Triggers() []rune {
	var triggers []rune
	for _, m := range r.Matchers() {
		if !slices.Contains(triggers, m.Trigger()) {
			triggers = append(triggers, m.Trigger())
		}
	}
	return triggers
}

// Len returns the number of registered transformers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func collect[T Transformer](r *Registry, capability Type) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []T
	for _, t := range r.order {
		if !t.Type().Has(capability) {
			continue
		}
		if typed, ok := t.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}
