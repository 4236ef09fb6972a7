package component

// Button is a bit set of logical buttons.
type Button uint32

const (
	ButtonJump Button = 1 << iota
	ButtonFire
	ButtonUse
)

// Has reports whether every bit of o is set in b.
func (b Button) Has(o Button) bool {
	return b&o == o
}

// InputState is the logical input for one entity, written by the Input
// group and read by the Simulation group.
type InputState struct {
	MoveX   float64
	MoveY   float64
	Buttons Button
}

var InputStateComponent = NewComponent[InputState]("input_state")

// Controller marks an entity as driven by InputState.
type Controller struct {
	Speed float64
}

var ControllerComponent = NewComponent[Controller]("controller")
