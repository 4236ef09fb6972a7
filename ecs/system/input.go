package system

import (
	"math"
	"time"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

// Logical actions understood by InputSystem.
const (
	ActionLeft  = "left"
	ActionRight = "right"
	ActionUp    = "up"
	ActionDown  = "down"
	ActionJump  = "jump"
	ActionFire  = "fire"
	ActionUse   = "use"
)

var actionButtons = map[string]component.Button{
	ActionJump: component.ButtonJump,
	ActionFire: component.ButtonFire,
	ActionUse:  component.ButtonUse,
}

// InputSystem drains the host's event queue and writes the resulting
// logical state to every controlled entity.
type InputSystem struct {
	events *ecs.EventQueue
	held   map[string]bool
}

func NewInputSystem(events *ecs.EventQueue) *InputSystem {
	return &InputSystem{events: events, held: make(map[string]bool)}
}

func (i *InputSystem) Name() string { return "input" }

func (i *InputSystem) OnUpdate(r *ecs.Registry, _ time.Duration) {
	if r == nil {
		return
	}

	for _, evt := range i.events.Drain() {
		if evt.Pressed {
			i.held[evt.Action] = true
		} else {
			delete(i.held, evt.Action)
		}
	}

	state := i.state()
	ecs.ForEach2(r, component.InputStateComponent, component.ControllerComponent,
		func(_ ecs.Entity, input *component.InputState, _ *component.Controller) {
			*input = state
		})
}

func (i *InputSystem) state() component.InputState {
	var s component.InputState
	if i.held[ActionLeft] {
		s.MoveX--
	}
	if i.held[ActionRight] {
		s.MoveX++
	}
	if i.held[ActionUp] {
		s.MoveY--
	}
	if i.held[ActionDown] {
		s.MoveY++
	}
	if l := math.Hypot(s.MoveX, s.MoveY); l > 1 {
		s.MoveX /= l
		s.MoveY /= l
	}
	for action, b := range actionButtons {
		if i.held[action] {
			s.Buttons |= b
		}
	}
	return s
}
