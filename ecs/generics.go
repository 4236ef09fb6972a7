package ecs

import "github.com/milk9111/lockstep/ecs/component"

// Add attaches value to e, overwriting any existing value of the same kind.
func Add[T any](r *Registry, e Entity, kind component.ComponentKind[T], value T) {
	if debugAssertions {
		assertf(r.Alive(e), "add %q to entity %s which is not alive", kind.Name(), e)
	}
	storeFor(r, kind).Add(e, value)
}

// Remove detaches kind from e. Missing components are a no-op.
func Remove[T any](r *Registry, e Entity, kind component.ComponentKind[T]) {
	storeFor(r, kind).Remove(e)
}

// Has reports whether e holds kind.
func Has[T any](r *Registry, e Entity, kind component.ComponentKind[T]) bool {
	return storeFor(r, kind).Has(e)
}

// Get returns a pointer to e's component. Asking for a component e does not
// have is a programming error: ecsdebug builds panic, other builds return nil.
func Get[T any](r *Registry, e Entity, kind component.ComponentKind[T]) *T {
	v, ok := storeFor(r, kind).Get(e)
	assertf(ok, "entity %s has no %q component", e, kind.Name())
	return v
}

// TryGet is Get for callers that treat absence as an ordinary outcome.
func TryGet[T any](r *Registry, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	return storeFor(r, kind).Get(e)
}

// StoreOf returns the registry's store for kind, creating it if needed.
func StoreOf[T any](r *Registry, kind component.ComponentKind[T]) *Store[T] {
	return storeFor(r, kind)
}
