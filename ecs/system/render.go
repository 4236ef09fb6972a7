package system

import (
	"cmp"
	"slices"
	"time"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

// DrawItem is one sprite to paint, in world coordinates.
type DrawItem struct {
	Entity   ecs.Entity
	Layer    int
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	Sprite   component.Sprite
	Label    string
}

// View is where the camera looks this frame.
type View struct {
	X, Y float64
	Zoom float64
}

// Renderer paints a frame. The slice is reused by the next frame, so it
// must not be retained.
type Renderer interface {
	Render(items []DrawItem, view View)
}

// RenderSystem builds the draw list for the frame, sorted by layer and then
// entity id, and hands it to a Renderer. It never writes to the registry.
type RenderSystem struct {
	renderer Renderer
	items    []DrawItem
}

func NewRenderSystem(renderer Renderer) *RenderSystem {
	return &RenderSystem{renderer: renderer}
}

func (rs *RenderSystem) Name() string { return "render" }

func (rs *RenderSystem) OnUpdate(r *ecs.Registry, _ time.Duration) {
	if r == nil {
		return
	}

	view := View{Zoom: 1}
	cam, hasCam := ecs.First(r, component.CameraComponent)
	if hasCam {
		if t, ok := ecs.TryGet(r, cam, component.TransformComponent); ok {
			view.X, view.Y = t.X, t.Y
		}
		if c := ecs.Get(r, cam, component.CameraComponent); c.Zoom > 0 {
			view.Zoom = c.Zoom
		}
	}

	rs.items = rs.items[:0]
	ecs.ForEach2(r, component.SpriteComponent, component.TransformComponent,
		func(e ecs.Entity, s *component.Sprite, t *component.Transform) {
			if hasCam && e == cam {
				return
			}
			item := DrawItem{
				Entity:   e,
				X:        t.X,
				Y:        t.Y,
				ScaleX:   orOne(t.ScaleX),
				ScaleY:   orOne(t.ScaleY),
				Rotation: t.Rotation,
				Sprite:   *s,
			}
			if layer, ok := ecs.TryGet(r, e, component.RenderLayerComponent); ok {
				item.Layer = layer.Index
			}
			if id, ok := ecs.TryGet(r, e, component.IdentityComponent); ok {
				item.Label = id.Name
			}
			rs.items = append(rs.items, item)
		})
	slices.SortFunc(rs.items, func(a, b DrawItem) int {
		if c := cmp.Compare(a.Layer, b.Layer); c != 0 {
			return c
		}
		return cmp.Compare(a.Entity, b.Entity)
	})

	if rs.renderer != nil {
		rs.renderer.Render(rs.items, view)
	}
}

// Items is the draw list built by the last update.
func (rs *RenderSystem) Items() []DrawItem {
	return rs.items
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
