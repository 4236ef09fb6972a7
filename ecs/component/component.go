package component

import "sync/atomic"

// ComponentID is the stable key a registry uses to find the store for a
// component type. IDs are handed out once, when the kind is declared.
type ComponentID uint32

var nextComponentID atomic.Uint32

// Kind is the type-erased half of a ComponentKind.
type Kind interface {
	ID() ComponentID
	Name() string
}

// ComponentKind binds a Go type to a ComponentID and a persistence name.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

// NewComponent declares a new component kind. Each call yields a distinct
// ID, so kinds are declared once as package-level values.
func NewComponent[T any](name string) ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1)), name: name}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Name() string {
	return k.name
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}
