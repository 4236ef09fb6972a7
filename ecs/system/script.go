package system

import (
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

const scriptDispatch = `
update(__engine, __state, __dt)
`

// ScriptSystem runs a tengo script for every entity whose Script component
// names it. The script must define update(engine, state, dt); state is a map
// that persists per entity between steps.
type ScriptSystem struct {
	name     string
	compiled *tengo.Compiled
	states   map[ecs.Entity]*tengo.Map
	logger   zerolog.Logger
}

// NewScriptSystem compiles src. Compilation errors, including a missing
// update function, are returned here rather than on the first step.
func NewScriptSystem(name, src string, logger zerolog.Logger) (*ScriptSystem, error) {
	script := tengo.NewScript([]byte(src + "\n" + scriptDispatch))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__dt", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, eris.Wrapf(err, "compile script %q", name)
	}
	return &ScriptSystem{
		name:     name,
		compiled: compiled,
		states:   make(map[ecs.Entity]*tengo.Map),
		logger:   logger.With().Str("script", name).Logger(),
	}, nil
}

func (s *ScriptSystem) Name() string { return "script:" + s.name }

func (s *ScriptSystem) OnUpdate(r *ecs.Registry, dt time.Duration) {
	if r == nil {
		return
	}

	for e := range s.states {
		if !r.Alive(e) {
			delete(s.states, e)
		}
	}

	ecs.ForEach2(r, component.ScriptComponent, component.TransformComponent,
		func(e ecs.Entity, sc *component.Script, t *component.Transform) {
			if sc.Name != s.name {
				return
			}
			state, ok := s.states[e]
			if !ok {
				state = &tengo.Map{Value: map[string]tengo.Object{}}
				s.states[e] = state
			}
			vel, _ := ecs.TryGet(r, e, component.VelocityComponent)
			if err := s.run(buildScriptEngine(r, e, t, vel), state, dt); err != nil {
				s.logger.Warn().Err(err).Stringer("entity", e).Msg("script update failed")
			}
		})
}

func (s *ScriptSystem) run(engine *tengo.ImmutableMap, state *tengo.Map, dt time.Duration) error {
	if err := s.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", state); err != nil {
		return err
	}
	if err := s.compiled.Set("__dt", dt.Seconds()); err != nil {
		return err
	}
	return s.compiled.Run()
}

// buildScriptEngine exposes the entity's own components to the script.
// Scripts can move the entity but cannot create or destroy entities.
func buildScriptEngine(r *ecs.Registry, e ecs.Entity, t *component.Transform, vel *component.Velocity) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["entity"] = &tengo.Int{Value: int64(e)}

	values["name"] = &tengo.UserFunction{Name: "name", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if id, ok := ecs.TryGet(r, e, component.IdentityComponent); ok {
			return &tengo.String{Value: id.Name}, nil
		}
		return &tengo.String{}, nil
	}}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return floatPair(t.X, t.Y), nil
	}}

	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := pairArgs(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		t.X, t.Y = x, y
		return tengo.TrueValue, nil
	}}

	values["get_velocity"] = &tengo.UserFunction{Name: "get_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if vel == nil {
			return floatPair(0, 0), nil
		}
		return floatPair(vel.X, vel.Y), nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := pairArgs(args)
		if !ok || vel == nil {
			return tengo.FalseValue, nil
		}
		vel.X, vel.Y = x, y
		return tengo.TrueValue, nil
	}}

	values["has_tag"] = &tengo.UserFunction{Name: "has_tag", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		tag, ok := ecs.TryGet(r, e, component.TagComponent)
		if ok && tag.Name == objectAsString(args[0]) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func floatPair(x, y float64) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}
}

func pairArgs(args []tengo.Object) (float64, float64, bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	x, ok := tengo.ToFloat64(args[0])
	if !ok {
		return 0, 0, false
	}
	y, ok := tengo.ToFloat64(args[1])
	if !ok {
		return 0, 0, false
	}
	return x, y, true
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
