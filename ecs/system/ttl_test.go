package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

func TestTTLSystemDestroysExpiredEntities(t *testing.T) {
	r := ecs.NewRegistry()
	short := r.CreateEntity()
	ecs.Add(r, short, component.TTLComponent, component.TTL{Ticks: 1})
	long := r.CreateEntity()
	ecs.Add(r, long, component.TTLComponent, component.TTL{Ticks: 2})
	child := r.CreateEntity()
	require.NoError(t, ecs.Attach(r, child, long))
	keep := r.CreateEntity()
	ecs.Add(r, keep, component.TransformComponent, component.Transform{})

	sys := NewTTLSystem()
	sys.OnUpdate(r, time.Millisecond)
	assert.False(t, r.Alive(short))
	assert.True(t, r.Alive(long))
	assert.Equal(t, 1, ecs.Get(r, long, component.TTLComponent).Ticks)

	sys.OnUpdate(r, time.Millisecond)
	assert.False(t, r.Alive(long))
	assert.False(t, r.Alive(child))
	assert.True(t, r.Alive(keep))
	assert.Zero(t, ecs.StoreOf(r, component.TTLComponent).Len())
}

func TestTTLSystemManyExpireTogether(t *testing.T) {
	r := ecs.NewRegistry()
	for i := 0; i < 10; i++ {
		e := r.CreateEntity()
		ecs.Add(r, e, component.TTLComponent, component.TTL{Ticks: 1})
	}
	NewTTLSystem().OnUpdate(r, time.Millisecond)
	assert.Zero(t, r.Len())
}
