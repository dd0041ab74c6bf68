// Package registry holds the latest computed value per indicator name for one
// session and serializes it for export.
//
// A Registry is not safe for concurrent use. It belongs to a single session and
// callers that share one across goroutines must serialize access themselves.
package registry

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrNotFound is returned when no value is stored under a name.
var ErrNotFound = errors.New("indicator not found")

// Registry maps indicator names to values, remembering the order in which
// names were first stored.
type Registry struct {
	values map[string]Value
	order  []string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{values: make(map[string]Value)}
}

// Put stores value under name. Overwriting keeps the name's original position.
func (r *Registry) Put(name string, value Value) {
	if _, exists := r.values[name]; !exists {
		r.order = append(r.order, name)
	}
	r.values[name] = value
}

// Get returns the value stored under name.
func (r *Registry) Get(name string) (Value, error) {
	value, ok := r.values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return value, nil
}

// Remove deletes the value stored under name.
func (r *Registry) Remove(name string) error {
	if _, ok := r.values[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(r.values, name)
	if i := slices.Index(r.order, name); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return nil
}

// Clear removes every entry.
func (r *Registry) Clear() {
	clear(r.values)
	r.order = r.order[:0]
}

// Len returns the number of stored entries.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names returns the stored names in insertion order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// List yields (name, value) pairs in insertion order. Each iteration reads the
// registry as it is at that moment, so ranging over the same sequence again
// reflects any changes made in between.
func (r *Registry) List() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i := 0; i < len(r.order); i++ {
			name := r.order[i]
			if !yield(name, r.values[name]) {
				return
			}
		}
	}
}
