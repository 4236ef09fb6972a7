package replication

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatch(tick uint64) Batch {
	return Batch{
		Tick: tick,
		Snapshots: []Snapshot{
			{ID: uuid.MustParse("0b6e2a4e-8f34-4c0a-9f2e-4f1d2f3c4b5a"), Name: "player", X: 1.5, Y: -2, VX: 3},
		},
	}
}

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(sampleBatch(7))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tick":7`)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, sampleBatch(7), got)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestMemorySinkLimit(t *testing.T) {
	sink := NewMemorySink(2)
	_, ok := sink.Latest()
	assert.False(t, ok)

	for tick := uint64(0); tick < 5; tick++ {
		require.NoError(t, sink.Publish(context.Background(), sampleBatch(tick)))
	}
	batches := sink.Batches()
	require.Len(t, batches, 2)
	assert.Equal(t, uint64(3), batches[0].Tick)
	assert.Equal(t, uint64(4), batches[1].Tick)

	latest, ok := sink.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(4), latest.Tick)
}

type failingSink struct{ err error }

func (f failingSink) Publish(context.Context, Batch) error { return f.err }

func TestMultiSinkKeepsPublishingAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	mem := NewMemorySink(0)
	multi := MultiSink{failingSink{err: boom}, mem}

	err := multi.Publish(context.Background(), sampleBatch(1))
	require.ErrorIs(t, err, boom)
	assert.Len(t, mem.Batches(), 1)

	assert.NoError(t, MultiSink{mem}.Publish(context.Background(), sampleBatch(2)))
}
