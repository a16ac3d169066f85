package unit

import (
	"errors"
	"fmt"
)

// Factory builds one Unit instance for a node.
type Factory func() (Unit, error)

var (
	// ErrUnknownKind is returned for a kind without a registered factory.
	ErrUnknownKind = errors.New("unknown effect kind")

	errDuplicateKind = errors.New("duplicate effect kind")
)

// Registry maps effect kinds to their factories.
type Registry struct {
	factories map[Kind]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// Register adds a factory for the given kind.
func (r *Registry) Register(kind Kind, factory Factory) error {
	if kind == KindNone {
		return errors.New("cannot register a factory for KindNone")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %s", errDuplicateKind, kind)
	}

	r.factories[kind] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind Kind, factory Factory) {
	err := r.Register(kind, factory)
	if err != nil {
		panic("unit registry: " + err.Error())
	}
}

// Lookup returns the factory for the given kind, or nil.
func (r *Registry) Lookup(kind Kind) Factory {
	return r.factories[kind]
}

// New builds a unit of the given kind.
func (r *Registry) New(kind Kind) (Unit, error) {
	factory := r.Lookup(kind)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	u, err := factory()
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	return u, nil
}

// DefaultRegistry returns a Registry with the Oscillator, Gain and Filter
// units registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(KindOscillator, func() (Unit, error) { return NewOscillator(), nil })
	r.MustRegister(KindGain, func() (Unit, error) { return NewGain(), nil })
	r.MustRegister(KindFilter, func() (Unit, error) { return NewFilter(), nil })

	return r
}
