package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

func TestCameraSnapsToNamedTarget(t *testing.T) {
	r := ecs.NewRegistry()
	target := r.CreateEntity()
	ecs.Add(r, target, component.IdentityComponent, component.NewIdentity("ship"))
	ecs.Add(r, target, component.TransformComponent, component.Transform{X: 40, Y: -8})
	cam := r.CreateEntity()
	ecs.Add(r, cam, component.CameraComponent, component.Camera{TargetName: "ship"})
	ecs.Add(r, cam, component.TransformComponent, component.Transform{})

	NewCameraSystem().OnUpdate(r, time.Second/60)

	got := ecs.Get(r, cam, component.TransformComponent)
	assert.Equal(t, 40.0, got.X)
	assert.Equal(t, -8.0, got.Y)
}

func TestCameraEasesTowardsPlayer(t *testing.T) {
	r := ecs.NewRegistry()
	player := r.CreateEntity()
	ecs.Add(r, player, component.PlayerTagComponent, component.PlayerTag{})
	ecs.Add(r, player, component.TransformComponent, component.Transform{X: 100})
	cam := r.CreateEntity()
	ecs.Add(r, cam, component.CameraComponent, component.Camera{TargetName: "player", Smoothness: 0.5})
	ecs.Add(r, cam, component.TransformComponent, component.Transform{})

	sys := NewCameraSystem()
	sys.OnUpdate(r, 100*time.Millisecond)
	first := ecs.Get(r, cam, component.TransformComponent).X
	assert.Greater(t, first, 0.0)
	assert.Less(t, first, 100.0)

	sys.OnUpdate(r, 100*time.Millisecond)
	assert.Greater(t, ecs.Get(r, cam, component.TransformComponent).X, first)
}

func TestCameraRetargetsAfterDestroy(t *testing.T) {
	r := ecs.NewRegistry()
	a := r.CreateEntity()
	ecs.Add(r, a, component.TagComponent, component.Tag{Name: "focus"})
	ecs.Add(r, a, component.TransformComponent, component.Transform{X: 1})
	cam := r.CreateEntity()
	ecs.Add(r, cam, component.CameraComponent, component.Camera{TargetName: "focus"})
	ecs.Add(r, cam, component.TransformComponent, component.Transform{})

	sys := NewCameraSystem()
	sys.OnUpdate(r, time.Millisecond)
	assert.Equal(t, 1.0, ecs.Get(r, cam, component.TransformComponent).X)

	r.DestroyEntity(a)
	b := r.CreateEntity()
	ecs.Add(r, b, component.TagComponent, component.Tag{Name: "focus"})
	ecs.Add(r, b, component.TransformComponent, component.Transform{X: 2})

	sys.OnUpdate(r, time.Millisecond)
	assert.Equal(t, 2.0, ecs.Get(r, cam, component.TransformComponent).X)
}
