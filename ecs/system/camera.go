package system

import (
	"math"
	"time"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

// CameraSystem moves every camera towards its target. A camera with zero
// Smoothness snaps; otherwise Smoothness is the time constant, in seconds,
// of an exponential ease.
type CameraSystem struct {
	targets map[ecs.Entity]ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{targets: make(map[ecs.Entity]ecs.Entity)}
}

func (cs *CameraSystem) Name() string { return "camera" }

func (cs *CameraSystem) OnUpdate(r *ecs.Registry, dt time.Duration) {
	if r == nil {
		return
	}

	ecs.ForEach2(r, component.CameraComponent, component.TransformComponent,
		func(cam ecs.Entity, c *component.Camera, t *component.Transform) {
			target := cs.target(r, cam, c.TargetName)
			if target == cam {
				return
			}
			tt, ok := ecs.TryGet(r, target, component.TransformComponent)
			if !ok {
				return
			}
			alpha := 1.0
			if c.Smoothness > 0 {
				alpha = 1 - math.Exp(-dt.Seconds()/c.Smoothness)
			}
			t.X += (tt.X - t.X) * alpha
			t.Y += (tt.Y - t.Y) * alpha
		})
}

func (cs *CameraSystem) target(r *ecs.Registry, cam ecs.Entity, name string) ecs.Entity {
	if e, ok := cs.targets[cam]; ok && r.Alive(e) {
		return e
	}
	e := findEntityByNameOrTag(r, name)
	if e.Valid() {
		cs.targets[cam] = e
	} else {
		delete(cs.targets, cam)
	}
	return e
}

// findEntityByNameOrTag resolves "player" to the first PlayerTag entity and
// any other name to the first entity with a matching Identity or Tag.
func findEntityByNameOrTag(r *ecs.Registry, name string) ecs.Entity {
	if name == "" {
		return ecs.NullEntity
	}
	if name == "player" {
		if e, ok := ecs.First(r, component.PlayerTagComponent); ok {
			return e
		}
	}
	for e, id := range ecs.NewView1(r, component.IdentityComponent).All() {
		if id.Name == name {
			return e
		}
	}
	for e, tag := range ecs.NewView1(r, component.TagComponent).All() {
		if tag.Name == name {
			return e
		}
	}
	return ecs.NullEntity
}
