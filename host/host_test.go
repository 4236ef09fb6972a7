package host

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/lockstep/config"
	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
	"github.com/milk9111/lockstep/replication"
	"github.com/milk9111/lockstep/scene"
)

func newWorld(t *testing.T, cfg config.Config, sink replication.Sink) *World {
	t.Helper()
	w, err := New(Options{Config: cfg, Logger: zerolog.Nop(), Sink: sink})
	require.NoError(t, err)
	return w
}

func TestWorldRunsDefaultScene(t *testing.T) {
	sink := replication.NewMemorySink(0)
	w := newWorld(t, config.Default(), sink)
	assert.Equal(t, DefaultScene, w.SceneName())

	stats := w.Frame(50 * time.Millisecond)
	assert.Equal(t, 3, stats.Steps)
	assert.Equal(t, uint64(3), w.Scheduler.Tick())
	require.NotEmpty(t, sink.Batches())

	doc, err := w.Save()
	require.NoError(t, err)
	assert.Len(t, doc.Entities, w.Registry.Len())
	assert.NotEmpty(t, doc.Systems)
}

func TestReloadKeepsTick(t *testing.T) {
	w := newWorld(t, config.Default(), replication.NewMemorySink(0))
	w.Frame(100 * time.Millisecond)
	tick := w.Scheduler.Tick()
	old := w.Registry

	require.NoError(t, w.Reload())
	assert.NotSame(t, old, w.Registry)
	assert.Equal(t, tick, w.Scheduler.Tick())

	w.Frame(time.Second / 60)
	assert.Equal(t, tick+1, w.Scheduler.Tick())
}

func TestReloadFailureLeavesWorldRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	data, err := scene.LoadScene(DefaultScene)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg := config.Default()
	cfg.Scene = path
	w := newWorld(t, cfg, replication.NewMemorySink(0))
	old := w.Registry
	systems := len(w.Scheduler.Systems(ecs.GroupSimulation))

	broken := strings.Replace(string(data), "system: movement", "system: teleport", 1)
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))
	require.Error(t, w.Reload())
	assert.Same(t, old, w.Registry)
	assert.Len(t, w.Scheduler.Systems(ecs.GroupSimulation), systems)

	_, ok := ecs.First(w.Registry, component.PlayerTagComponent)
	assert.True(t, ok)
}

func TestOpenSinks(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.RedisAddr = mr.Addr()
	cfg.WSAddr = "127.0.0.1:0"

	sinks, err := OpenSinks(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer sinks.Close()
	require.NotNil(t, sinks.Redis)
	require.NotNil(t, sinks.Hub)

	require.NoError(t, sinks.Sink().Publish(context.Background(), replication.Batch{Tick: 4}))
	latest, ok := sinks.Memory.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(4), latest.Tick)

	batches, _, err := sinks.Redis.Read(context.Background(), "-", 10)
	require.NoError(t, err)
	require.Len(t, batches, 1)
}

func TestOpenSinksRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.RedisAddr = addr
	_, err := OpenSinks(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestHubServedOverHTTP(t *testing.T) {
	cfg := config.Default()
	cfg.WSAddr = "127.0.0.1:0"
	sinks, err := OpenSinks(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer sinks.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+sinks.WSAddr+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return sinks.Hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, sinks.Sink().Publish(context.Background(), replication.Batch{Tick: 9}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	got, err := replication.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got.Tick)
}
