package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
)

type recordingRenderer struct {
	frames int
	items  []DrawItem
	view   View
}

func (rr *recordingRenderer) Render(items []DrawItem, view View) {
	rr.frames++
	rr.items = append(rr.items[:0], items...)
	rr.view = view
}

func addSprite(r *ecs.Registry, name string, layer int, x float64) ecs.Entity {
	e := r.CreateEntity()
	ecs.Add(r, e, component.IdentityComponent, component.NewIdentity(name))
	ecs.Add(r, e, component.TransformComponent, component.Transform{X: x})
	ecs.Add(r, e, component.SpriteComponent, component.Sprite{Width: 8, Height: 8, Color: "#ffffff"})
	ecs.Add(r, e, component.RenderLayerComponent, component.RenderLayer{Index: layer})
	return e
}

func TestRenderSystemSortsByLayerThenEntity(t *testing.T) {
	r := ecs.NewRegistry()
	fg := addSprite(r, "fg", 2, 0)
	bgA := addSprite(r, "bg-a", 0, 1)
	bgB := addSprite(r, "bg-b", 0, 2)
	mid := addSprite(r, "mid", 1, 3)

	cam := r.CreateEntity()
	ecs.Add(r, cam, component.CameraComponent, component.Camera{Zoom: 2})
	ecs.Add(r, cam, component.TransformComponent, component.Transform{X: 10, Y: 20})
	ecs.Add(r, cam, component.SpriteComponent, component.Sprite{})

	rr := &recordingRenderer{}
	NewRenderSystem(rr).OnUpdate(r, time.Millisecond)

	require.Equal(t, 1, rr.frames)
	order := make([]ecs.Entity, 0, len(rr.items))
	for _, item := range rr.items {
		order = append(order, item.Entity)
	}
	assert.Equal(t, []ecs.Entity{bgA, bgB, mid, fg}, order)
	assert.Equal(t, "mid", rr.items[2].Label)
	assert.Equal(t, 1.0, rr.items[0].ScaleX)
	assert.Equal(t, View{X: 10, Y: 20, Zoom: 2}, rr.view)
}

func TestRenderSystemIsReadOnly(t *testing.T) {
	r := ecs.NewRegistry()
	e := addSprite(r, "ship", 0, 5)
	before := *ecs.Get(r, e, component.TransformComponent)

	rs := NewRenderSystem(nil)
	rs.OnUpdate(r, time.Millisecond)
	rs.OnUpdate(r, time.Millisecond)

	assert.Len(t, rs.Items(), 1)
	assert.Equal(t, before, *ecs.Get(r, e, component.TransformComponent))
	assert.Equal(t, 1, r.Len())
}
