package ecs

import "github.com/milk9111/lockstep/ecs/component"

// Handle pairs an entity id with its owning registry so callers can address
// one entity without carrying both around. Handles are plain values; two
// handles are == when both the id and the registry are the same.
type Handle struct {
	id       Entity
	registry *Registry
}

// Handle wraps e in a Handle bound to r.
func (r *Registry) Handle(e Entity) Handle {
	return Handle{id: e, registry: r}
}

// Spawn creates an entity and returns its handle.
func (r *Registry) Spawn() Handle {
	return r.Handle(r.CreateEntity())
}

func (h Handle) ID() Entity {
	return h.id
}

func (h Handle) Registry() *Registry {
	return h.registry
}

// Valid reports whether the handle names an entity in some registry. It does
// not check that the entity is still alive; see Alive.
func (h Handle) Valid() bool {
	return h.id.Valid() && h.registry != nil
}

// Alive reports whether the entity still exists in its registry.
func (h Handle) Alive() bool {
	return h.Valid() && h.registry.Alive(h.id)
}

// Destroy removes the entity from its registry.
func (h Handle) Destroy() {
	h.mustRegistry().DestroyEntity(h.id)
}

func (h Handle) String() string {
	return h.id.String()
}

func (h Handle) mustRegistry() *Registry {
	assertf(h.registry != nil, "handle %s has no registry", h.id)
	return h.registry
}

// HandleAdd forwards to Add on the handle's registry.
func HandleAdd[T any](h Handle, kind component.ComponentKind[T], value T) {
	Add(h.mustRegistry(), h.id, kind, value)
}

// HandleRemove forwards to Remove on the handle's registry.
func HandleRemove[T any](h Handle, kind component.ComponentKind[T]) {
	Remove(h.mustRegistry(), h.id, kind)
}

// HandleHas forwards to Has on the handle's registry.
func HandleHas[T any](h Handle, kind component.ComponentKind[T]) bool {
	return Has(h.mustRegistry(), h.id, kind)
}

// HandleGet forwards to Get on the handle's registry.
func HandleGet[T any](h Handle, kind component.ComponentKind[T]) *T {
	return Get(h.mustRegistry(), h.id, kind)
}

// HandleTryGet forwards to TryGet on the handle's registry.
func HandleTryGet[T any](h Handle, kind component.ComponentKind[T]) (*T, bool) {
	return TryGet(h.mustRegistry(), h.id, kind)
}
