package system

import (
	"time"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

// TTLSystem decrements tick-based TTL components and destroys entities, with
// their children, once the TTL runs out.
type TTLSystem struct {
	expired []ecs.Entity
}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Name() string { return "ttl" }

func (s *TTLSystem) OnUpdate(r *ecs.Registry, _ time.Duration) {
	if r == nil {
		return
	}

	s.expired = s.expired[:0]
	ecs.ForEach(r, component.TTLComponent, func(e ecs.Entity, ttl *component.TTL) {
		ttl.Ticks--
		if ttl.Ticks <= 0 {
			s.expired = append(s.expired, e)
		}
	})

	// Destroying swaps store slots, so it waits until iteration is done.
	for _, e := range s.expired {
		ecs.DestroyTree(r, e)
	}
}
