package scene

import (
	"slices"

	"github.com/rotisserie/eris"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

// ErrUnknownComponent is returned when a document names a component no codec
// is registered for.
var ErrUnknownComponent = eris.New("unknown component")

type codec struct {
	kind   component.Kind
	encode func(r *ecs.Registry, e ecs.Entity) (any, bool)
	decode func(r *ecs.Registry, e ecs.Entity, raw any) error
}

// Codecs maps component names to functions that convert a component to and
// from its YAML spec.
type Codecs struct {
	byName map[string]*codec
	byID   map[component.ComponentID]*codec
}

func NewCodecs() *Codecs {
	return &Codecs{
		byName: make(map[string]*codec),
		byID:   make(map[component.ComponentID]*codec),
	}
}

// Register adds a codec for kind under kind.Name(), replacing any earlier
// one.
func Register[T, S any](c *Codecs, kind component.ComponentKind[T], encode func(T) S, decode func(S) (T, error)) {
	cd := &codec{
		kind: kind,
		encode: func(r *ecs.Registry, e ecs.Entity) (any, bool) {
			v, ok := ecs.TryGet(r, e, kind)
			if !ok {
				return nil, false
			}
			return encode(*v), true
		},
		decode: func(r *ecs.Registry, e ecs.Entity, raw any) error {
			spec, err := DecodeSpec[S](raw)
			if err != nil {
				return err
			}
			v, err := decode(spec)
			if err != nil {
				return err
			}
			ecs.Add(r, e, kind, v)
			return nil
		},
	}
	c.byName[kind.Name()] = cd
	c.byID[kind.ID()] = cd
}

// Names lists the registered component names, sorted.
func (c *Codecs) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (c *Codecs) decode(r *ecs.Registry, e ecs.Entity, name string, raw any) error {
	cd, ok := c.byName[name]
	if !ok {
		return eris.Wrapf(ErrUnknownComponent, "%q", name)
	}
	if err := cd.decode(r, e, raw); err != nil {
		return eris.Wrapf(err, "component %q", name)
	}
	return nil
}
