package system

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

const counterScript = `
update := func(engine, state, dt) {
	if is_undefined(state.count) {
		state.count = 0
	}
	state.count += 1
	engine.set_position(state.count, dt)
	v := engine.get_velocity()
	engine.set_velocity(v[0] + 1, v[1])
}
`

func TestScriptSystemKeepsPerEntityState(t *testing.T) {
	sys, err := NewScriptSystem("counter", counterScript, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "script:counter", sys.Name())

	r := ecs.NewRegistry()
	a := r.CreateEntity()
	ecs.Add(r, a, component.ScriptComponent, component.Script{Name: "counter"})
	ecs.Add(r, a, component.TransformComponent, component.Transform{})
	ecs.Add(r, a, component.VelocityComponent, component.Velocity{})
	other := r.CreateEntity()
	ecs.Add(r, other, component.ScriptComponent, component.Script{Name: "patrol"})
	ecs.Add(r, other, component.TransformComponent, component.Transform{X: -1})

	for i := 0; i < 3; i++ {
		sys.OnUpdate(r, 500*time.Millisecond)
	}

	got := ecs.Get(r, a, component.TransformComponent)
	assert.Equal(t, 3.0, got.X)
	assert.Equal(t, 0.5, got.Y)
	assert.Equal(t, 3.0, ecs.Get(r, a, component.VelocityComponent).X)
	assert.Equal(t, -1.0, ecs.Get(r, other, component.TransformComponent).X)

	b := r.CreateEntity()
	ecs.Add(r, b, component.ScriptComponent, component.Script{Name: "counter"})
	ecs.Add(r, b, component.TransformComponent, component.Transform{})
	sys.OnUpdate(r, 0)
	assert.Equal(t, 1.0, ecs.Get(r, b, component.TransformComponent).X)
	assert.Equal(t, 4.0, ecs.Get(r, a, component.TransformComponent).X)

	r.DestroyEntity(a)
	sys.OnUpdate(r, 0)
	assert.Len(t, sys.states, 1)
}

func TestScriptSystemRequiresUpdate(t *testing.T) {
	_, err := NewScriptSystem("broken", `x := 1`, zerolog.Nop())
	assert.Error(t, err)
}
