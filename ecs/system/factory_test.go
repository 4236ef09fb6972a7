package system

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/replication"
)

func systemNames(s *ecs.Scheduler, g ecs.Group) []string {
	var names []string
	for _, sys := range s.Systems(g) {
		names = append(names, sys.Name())
	}
	return names
}

func TestFactoriesBuild(t *testing.T) {
	sched, err := ecs.NewScheduler()
	require.NoError(t, err)

	f := DefaultFactories(Deps{
		Events: &ecs.EventQueue{},
		Ticks:  sched,
		Sink:   replication.NewMemorySink(1),
		LoadScript: func(name string) ([]byte, error) {
			return []byte(`update := func(engine, state, dt) {}`), nil
		},
	})
	cfg := Config{
		"Input":      {{System: "input"}},
		"simulation": {{System: "controller"}, {System: "movement"}, {System: "script", Script: "idle.tengo"}, {System: "ttl"}},
		"sync":       {{System: "replication"}},
		"render":     {{System: "render"}},
	}
	require.NoError(t, f.Build(cfg, sched))

	assert.Equal(t, []string{"input"}, systemNames(sched, ecs.GroupInput))
	assert.Equal(t, []string{"controller", "movement", "script:idle.tengo", "ttl"}, systemNames(sched, ecs.GroupSimulation))
	assert.Equal(t, []string{"replication"}, systemNames(sched, ecs.GroupSync))
	assert.Equal(t, []string{"render"}, systemNames(sched, ecs.GroupRender))

	sched.Update(ecs.NewRegistry(), time.Second/60)
	assert.Equal(t, uint64(1), sched.Tick())
}

func TestFactoriesBuildErrors(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
		want error
	}{
		{name: "unknown system", cfg: Config{"simulation": {{System: "physics"}}}, want: ErrUnknownSystem},
		{name: "unknown group", cfg: Config{"late": {{System: "movement"}}}, want: ecs.ErrUnknownGroup},
		{name: "missing dependency", cfg: Config{"sync": {{System: "replication"}}}},
		{name: "script without name", cfg: Config{"simulation": {{System: "script"}}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sched, err := ecs.NewScheduler()
			require.NoError(t, err)
			cfg := tc.cfg
			cfg["render"] = []Entry{{System: "render"}}

			err = DefaultFactories(Deps{}).Build(cfg, sched)
			require.Error(t, err)
			if tc.want != nil {
				assert.True(t, eris.Is(err, tc.want), "got %v", err)
			}
			assert.Empty(t, sched.Systems(ecs.GroupRender))
		})
	}
}

func TestFactoriesRegister(t *testing.T) {
	f := NewFactories(Deps{})
	noop := func(Entry, Deps) (ecs.System, error) {
		return ecs.NewSystemFunc("noop", func(*ecs.Registry, time.Duration) {}), nil
	}
	require.NoError(t, f.Register("noop", noop))
	err := f.Register("noop", noop)
	assert.True(t, eris.Is(err, ErrDuplicateFactory))
	assert.Equal(t, []string{"noop"}, f.Names())
	assert.Contains(t, DefaultFactories(Deps{}).Names(), "replication")
}
