// Package registry provides a generic lookup table from a type tag to a
// constructor. The pipeline builds one registry for content sources and one
// for LLM providers at startup; registries are read-only afterwards.
package registry

import "fmt"

// Constructor builds an implementation from its configuration and
// provider-level settings.
type Constructor[C, S, T any] func(config C, settings S) (T, error)

// UnknownTypeError is returned when no constructor is registered for a tag.
type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("registry: no implementation registered for type %q", e.Tag)
}

// Registry maps type tags to constructors. Registration overwrites: the last
// constructor registered for a tag wins. Not safe for concurrent mutation;
// the pipeline populates registries once before use.
type Registry[C, S, T any] struct {
	constructors map[string]Constructor[C, S, T]
}

func New[C, S, T any]() *Registry[C, S, T] {
	return &Registry[C, S, T]{
		constructors: make(map[string]Constructor[C, S, T]),
	}
}

// Register stores a constructor under the given tag.
func (r *Registry[C, S, T]) Register(tag string, ctor Constructor[C, S, T]) {
	r.constructors[tag] = ctor
}

// Lookup returns the constructor for a tag, or an UnknownTypeError.
func (r *Registry[C, S, T]) Lookup(tag string) (Constructor[C, S, T], error) {
	ctor, ok := r.constructors[tag]
	if !ok {
		return nil, &UnknownTypeError{Tag: tag}
	}
	return ctor, nil
}

// Create looks up the constructor for a tag and invokes it. Constructor
// errors are propagated unchanged.
func (r *Registry[C, S, T]) Create(tag string, config C, settings S) (T, error) {
	ctor, err := r.Lookup(tag)
	if err != nil {
		var zero T
		return zero, err
	}
	return ctor(config, settings)
}
