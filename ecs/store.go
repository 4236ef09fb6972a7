package ecs

import (
	"github.com/rotisserie/eris"

	"github.com/milk9111/lockstep/ecs/component"
)

// storage is the type-erased view of a Store the registry uses for
// cross-type work: destroying entities, intersecting views, listing an
// entity's components.
type storage interface {
	kindID() component.ComponentID
	kindName() string
	has(e Entity) bool
	remove(e Entity)
	entityAt(slot int) Entity
	valueOf(e Entity) (any, bool)
	Len() int
}

// Store is a dense array of component values for one component type plus
// the two index maps between entities and slots. Iteration over the dense
// slice is in insertion order until the first Remove; Remove swaps the last
// element into the hole, so later order reflects that history.
//
// Pointers returned by Get stay valid only until the next Add or Remove on
// the same store.
type Store[T any] struct {
	id       component.ComponentID
	name     string
	values   []T
	entities []Entity
	slots    map[Entity]int
}

// NewStore returns an empty store that is not attached to any registry.
func NewStore[T any]() *Store[T] {
	return &Store[T]{slots: make(map[Entity]int)}
}

func newStoreFor[T any](kind component.ComponentKind[T]) *Store[T] {
	s := NewStore[T]()
	s.id = kind.ID()
	s.name = kind.Name()
	return s
}

// Add inserts value for e, or overwrites it in place if e is already present.
func (s *Store[T]) Add(e Entity, value T) {
	if slot, ok := s.slots[e]; ok {
		s.values[slot] = value
		return
	}
	s.slots[e] = len(s.values)
	s.values = append(s.values, value)
	s.entities = append(s.entities, e)
}

// Remove deletes e's value if present.
func (s *Store[T]) Remove(e Entity) {
	slot, ok := s.slots[e]
	if !ok {
		return
	}
	last := len(s.values) - 1
	if slot != last {
		moved := s.entities[last]
		s.values[slot] = s.values[last]
		s.entities[slot] = moved
		s.slots[moved] = slot
	}
	var zero T
	s.values[last] = zero
	s.values = s.values[:last]
	s.entities = s.entities[:last]
	delete(s.slots, e)
}

// Get returns a pointer to e's value. It never fabricates a default.
func (s *Store[T]) Get(e Entity) (*T, bool) {
	slot, ok := s.slots[e]
	if !ok {
		return nil, false
	}
	return &s.values[slot], true
}

func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.slots[e]
	return ok
}

// Len is the number of entities holding this component.
func (s *Store[T]) Len() int {
	return len(s.values)
}

// Entities returns the dense slot→entity slice. Callers must not modify it.
func (s *Store[T]) Entities() []Entity {
	return s.entities
}

// Each calls fn for every value in dense order.
func (s *Store[T]) Each(fn func(Entity, *T)) {
	for i := range s.values {
		fn(s.entities[i], &s.values[i])
	}
}

// Validate checks that the index maps are mutual inverses and that the
// dense slices agree in length.
func (s *Store[T]) Validate() error {
	if len(s.values) != len(s.entities) || len(s.entities) != len(s.slots) {
		return eris.Errorf("store %q: sizes differ: values=%d entities=%d slots=%d",
			s.name, len(s.values), len(s.entities), len(s.slots))
	}
	for slot, e := range s.entities {
		got, ok := s.slots[e]
		if !ok {
			return eris.Errorf("store %q: entity %s at slot %d missing from slot map", s.name, e, slot)
		}
		if got != slot {
			return eris.Errorf("store %q: entity %s maps to slot %d but sits at %d", s.name, e, got, slot)
		}
	}
	return nil
}

func (s *Store[T]) kindID() component.ComponentID { return s.id }
func (s *Store[T]) kindName() string              { return s.name }
func (s *Store[T]) has(e Entity) bool             { return s.Has(e) }
func (s *Store[T]) remove(e Entity)               { s.Remove(e) }
func (s *Store[T]) entityAt(slot int) Entity      { return s.entities[slot] }

func (s *Store[T]) valueOf(e Entity) (any, bool) {
	v, ok := s.Get(e)
	if !ok {
		return nil, false
	}
	return *v, true
}
