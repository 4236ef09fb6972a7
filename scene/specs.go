package scene

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/milk9111/lockstep/ecs/component"
)

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x,omitempty"`
	ScaleY   float64 `yaml:"scale_y,omitempty"`
	Rotation float64 `yaml:"rotation,omitempty"`
}

type VelocitySpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type SpriteSpec struct {
	Image   string  `yaml:"image,omitempty"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OriginX float64 `yaml:"origin_x,omitempty"`
	OriginY float64 `yaml:"origin_y,omitempty"`
	Color   string  `yaml:"color,omitempty"`
}

type RenderLayerSpec struct {
	Index int `yaml:"index"`
}

type CameraSpec struct {
	Target     string  `yaml:"target"`
	Zoom       float64 `yaml:"zoom,omitempty"`
	Smoothness float64 `yaml:"smoothness,omitempty"`
}

type ControllerSpec struct {
	Speed float64 `yaml:"speed,omitempty"`
}

type TagSpec struct {
	Name string `yaml:"name"`
}

type TTLSpec struct {
	Ticks int `yaml:"ticks"`
}

type ReplicatedSpec struct {
	Mode     string        `yaml:"mode"`
	Interval time.Duration `yaml:"interval,omitempty"`
}

type ScriptSpec struct {
	Name string `yaml:"name"`
}

// empty is the spec of marker components.
type empty struct{}

// DefaultCodecs knows every built-in persistent component. InputState is
// saved as a marker; its contents are rebuilt by the Input group.
func DefaultCodecs() *Codecs {
	c := NewCodecs()
	Register(c, component.TransformComponent,
		func(t component.Transform) TransformSpec { return TransformSpec(t) },
		func(s TransformSpec) (component.Transform, error) { return component.Transform(s), nil })
	Register(c, component.VelocityComponent,
		func(v component.Velocity) VelocitySpec { return VelocitySpec(v) },
		func(s VelocitySpec) (component.Velocity, error) { return component.Velocity(s), nil })
	Register(c, component.SpriteComponent,
		func(v component.Sprite) SpriteSpec { return SpriteSpec(v) },
		func(s SpriteSpec) (component.Sprite, error) { return component.Sprite(s), nil })
	Register(c, component.RenderLayerComponent,
		func(v component.RenderLayer) RenderLayerSpec { return RenderLayerSpec(v) },
		func(s RenderLayerSpec) (component.RenderLayer, error) { return component.RenderLayer(s), nil })
	Register(c, component.CameraComponent,
		func(v component.Camera) CameraSpec {
			return CameraSpec{Target: v.TargetName, Zoom: v.Zoom, Smoothness: v.Smoothness}
		},
		func(s CameraSpec) (component.Camera, error) {
			return component.Camera{TargetName: s.Target, Zoom: s.Zoom, Smoothness: s.Smoothness}, nil
		})
	Register(c, component.ControllerComponent,
		func(v component.Controller) ControllerSpec { return ControllerSpec(v) },
		func(s ControllerSpec) (component.Controller, error) { return component.Controller(s), nil })
	Register(c, component.InputStateComponent,
		func(component.InputState) empty { return empty{} },
		func(empty) (component.InputState, error) { return component.InputState{}, nil })
	Register(c, component.TagComponent,
		func(v component.Tag) TagSpec { return TagSpec(v) },
		func(s TagSpec) (component.Tag, error) { return component.Tag(s), nil })
	Register(c, component.PlayerTagComponent,
		func(component.PlayerTag) empty { return empty{} },
		func(empty) (component.PlayerTag, error) { return component.PlayerTag{}, nil })
	Register(c, component.TTLComponent,
		func(v component.TTL) TTLSpec { return TTLSpec(v) },
		func(s TTLSpec) (component.TTL, error) { return component.TTL(s), nil })
	Register(c, component.ScriptComponent,
		func(v component.Script) ScriptSpec { return ScriptSpec(v) },
		func(s ScriptSpec) (component.Script, error) {
			if s.Name == "" {
				return component.Script{}, eris.New("script name is empty")
			}
			return component.Script(s), nil
		})
	Register(c, component.ReplicatedComponent,
		func(v component.Replicated) ReplicatedSpec {
			return ReplicatedSpec{Mode: v.Mode.String(), Interval: v.Interval}
		},
		func(s ReplicatedSpec) (component.Replicated, error) {
			mode, ok := component.ParseReplicationMode(s.Mode)
			if !ok {
				return component.Replicated{}, eris.Errorf("unknown replication mode %q", s.Mode)
			}
			if s.Interval < 0 {
				return component.Replicated{}, eris.Errorf("negative replication interval %s", s.Interval)
			}
			return component.Replicated{Mode: mode, Interval: s.Interval}, nil
		})
	return c
}
