package replication

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStreamSinkPublishAndRead(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	sink := NewRedisStreamSink(client, "lockstep:state", 0)

	for tick := uint64(0); tick < 3; tick++ {
		require.NoError(t, sink.Publish(ctx, sampleBatch(tick)))
	}

	n, err := client.XLen(ctx, "lockstep:state").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	batches, last, err := sink.Read(ctx, "-", 2)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, uint64(0), batches[0].Tick)
	assert.Equal(t, uint64(1), batches[1].Tick)
	assert.Equal(t, sampleBatch(1), batches[1])

	rest, _, err := sink.Read(ctx, last, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, uint64(2), rest[0].Tick)
}

func TestRedisStreamSinkConnectionError(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	defer client.Close()
	s.Close()

	sink := NewRedisStreamSink(client, "lockstep:state", 10)
	assert.Error(t, sink.Publish(context.Background(), sampleBatch(1)))
}
