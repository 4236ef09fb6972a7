package system

import (
	"time"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

const defaultMoveSpeed = 260.0

// ControllerSystem turns logical input into velocity.
type ControllerSystem struct{}

func NewControllerSystem() *ControllerSystem {
	return &ControllerSystem{}
}

func (c *ControllerSystem) Name() string { return "controller" }

func (c *ControllerSystem) OnUpdate(r *ecs.Registry, _ time.Duration) {
	if r == nil {
		return
	}

	ecs.ForEach3(r, component.InputStateComponent, component.ControllerComponent, component.VelocityComponent,
		func(_ ecs.Entity, input *component.InputState, ctrl *component.Controller, vel *component.Velocity) {
			speed := ctrl.Speed
			if speed <= 0 {
				speed = defaultMoveSpeed
			}
			vel.X = input.MoveX * speed
			vel.Y = input.MoveY * speed
		})
}

// MovementSystem integrates velocity into position once per fixed step.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (m *MovementSystem) Name() string { return "movement" }

func (m *MovementSystem) OnUpdate(r *ecs.Registry, dt time.Duration) {
	if r == nil {
		return
	}

	secs := dt.Seconds()
	ecs.ForEach2(r, component.VelocityComponent, component.TransformComponent,
		func(_ ecs.Entity, vel *component.Velocity, t *component.Transform) {
			t.X += vel.X * secs
			t.Y += vel.Y * secs
		})
}
