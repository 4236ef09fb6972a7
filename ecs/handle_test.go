package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleForwardsToRegistry(t *testing.T) {
	r := NewRegistry()
	h := r.Spawn()
	require.True(t, h.Valid())
	require.True(t, h.Alive())

	HandleAdd(h, testPos, position{X: 3})
	assert.True(t, HandleHas(h, testPos))
	assert.Equal(t, 3, HandleGet(h, testPos).X)

	HandleGet(h, testPos).X = 4
	v, ok := HandleTryGet(h, testPos)
	require.True(t, ok)
	assert.Equal(t, 4, v.X)
	assert.Equal(t, 4, Get(r, h.ID(), testPos).X)

	HandleRemove(h, testPos)
	assert.False(t, HandleHas(h, testPos))

	h.Destroy()
	assert.False(t, h.Alive())
	assert.True(t, h.Valid(), "validity does not track liveness")
}

func TestHandleValidity(t *testing.T) {
	r := NewRegistry()
	cases := []struct {
		name string
		h    Handle
		want bool
	}{
		{"zero", Handle{}, false},
		{"null_id", r.Handle(NullEntity), false},
		{"nil_registry", Handle{id: 4}, false},
		{"bound", r.Handle(4), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.h.Valid())
		})
	}
}

func TestHandleEqualityComparesIdAndRegistry(t *testing.T) {
	r1, r2 := NewRegistry(), NewRegistry()
	e := r1.CreateEntity()

	assert.True(t, r1.Handle(e) == r1.Handle(e))
	assert.False(t, r1.Handle(e) == r2.Handle(e))
	assert.False(t, r1.Handle(e) == r1.Handle(e+1))
}
