package ecs

import (
	"fmt"

	"github.com/milk9111/lockstep/ecs/component"
)

// Registry owns entity lifecycle and one Store per component type. Stores
// are created lazily the first time a kind is touched.
//
// A Registry is not safe for concurrent use. During a Scheduler.Update only
// the scheduler's goroutine may touch it; other readers must wait until the
// call returns.
type Registry struct {
	entities entityStore
	stores   map[component.ComponentID]storage
	// order keeps stores in creation order so sweeps are deterministic.
	order  []storage
	driver DriverStrategy
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDriverStrategy replaces the heuristic that picks which store drives a
// multi-component view. It changes iteration order, never the result set.
func WithDriverStrategy(d DriverStrategy) RegistryOption {
	return func(r *Registry) {
		if d != nil {
			r.driver = d
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		stores: make(map[component.ComponentID]storage),
		driver: SmallestStore,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateEntity allocates a fresh id with no components. Components added
// to the id before it was handed out are dropped.
func (r *Registry) CreateEntity() Entity {
	e := r.entities.create()
	for _, s := range r.order {
		s.remove(e)
	}
	return e
}

// DestroyEntity removes e from every store the registry tracks. Unknown or
// already destroyed ids are a no-op.
func (r *Registry) DestroyEntity(e Entity) {
	if !e.Valid() {
		return
	}
	for _, s := range r.order {
		s.remove(e)
	}
	r.entities.destroy(e)
}

// Alive reports whether e was created by this registry and not destroyed.
func (r *Registry) Alive(e Entity) bool {
	return r.entities.isAlive(e)
}

// Entities returns every live entity in creation order.
func (r *Registry) Entities() []Entity {
	return r.entities.sorted()
}

// Len is the number of live entities.
func (r *Registry) Len() int {
	return len(r.entities.alive)
}

// Components returns the kinds e currently holds, in store creation order.
func (r *Registry) Components(e Entity) []component.Kind {
	var out []component.Kind
	for _, s := range r.order {
		if s.has(e) {
			out = append(out, storeKind{id: s.kindID(), name: s.kindName()})
		}
	}
	return out
}

// Value returns a copy of e's component of the given kind as an untyped
// value. It is meant for tooling such as loggers and inspectors.
func (r *Registry) Value(e Entity, kind component.Kind) (any, bool) {
	s, ok := r.stores[kind.ID()]
	if !ok {
		return nil, false
	}
	return s.valueOf(e)
}

func (r *Registry) lookup(id component.ComponentID) (storage, bool) {
	s, ok := r.stores[id]
	return s, ok
}

func storeFor[T any](r *Registry, kind component.ComponentKind[T]) *Store[T] {
	if debugAssertions {
		assertf(kind.Valid(), "zero ComponentKind[%T]; create kinds with component.NewComponent", *new(T))
	}
	if s, ok := r.stores[kind.ID()]; ok {
		typed, ok := s.(*Store[T])
		if !ok {
			panic(fmt.Sprintf("ecs: component id %d is registered as %q, not %q", kind.ID(), s.kindName(), kind.Name()))
		}
		return typed
	}
	s := newStoreFor(kind)
	r.stores[kind.ID()] = s
	r.order = append(r.order, s)
	return s
}

type storeKind struct {
	id   component.ComponentID
	name string
}

func (k storeKind) ID() component.ComponentID { return k.id }
func (k storeKind) Name() string              { return k.name }
