package ecs

import (
	"maps"
	"slices"
)

// entityStore hands out entity ids and tracks which ones are alive. Ids are
// never recycled; with 64-bit ids exhaustion is not a practical concern.
type entityStore struct {
	nextID Entity
	alive  map[Entity]struct{}
}

func (s *entityStore) create() Entity {
	if s.alive == nil {
		s.alive = make(map[Entity]struct{})
	}
	s.nextID++
	s.alive[s.nextID] = struct{}{}
	return s.nextID
}

func (s *entityStore) destroy(e Entity) bool {
	if _, ok := s.alive[e]; !ok {
		return false
	}
	delete(s.alive, e)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	_, ok := s.alive[e]
	return ok
}

// sorted returns the live ids in creation order.
func (s *entityStore) sorted() []Entity {
	return slices.Sorted(maps.Keys(s.alive))
}
