// Package host assembles a registry and scheduler from a scene and drives
// them from a frame loop. The headless server and the viewer share it.
package host

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/milk9111/lockstep/config"
	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/system"
	"github.com/milk9111/lockstep/replication"
	"github.com/milk9111/lockstep/scene"
)

// DefaultScene is loaded when the configuration names none.
const DefaultScene = "default.yaml"

type Options struct {
	Config   config.Config
	Logger   zerolog.Logger
	Metrics  ecs.Metrics
	Sink     replication.Sink
	Renderer system.Renderer
	Codecs   *scene.Codecs
}

// World is the registry and scheduler of the running scene. Events is the
// queue the host pushes input into between frames.
type World struct {
	Registry  *ecs.Registry
	Scheduler *ecs.Scheduler
	Events    *ecs.EventQueue

	opts   Options
	logger zerolog.Logger
}

// New builds the scheduler described by opts.Config and loads the scene.
func New(opts Options) (*World, error) {
	if opts.Codecs == nil {
		opts.Codecs = scene.DefaultCodecs()
	}
	schedOpts := []ecs.SchedulerOption{
		ecs.WithTickRate(opts.Config.TickRate),
		ecs.WithMaxSteps(opts.Config.MaxSteps),
		ecs.WithLogger(opts.Logger.With().Str("component", "scheduler").Logger()),
	}
	if opts.Metrics != nil {
		schedOpts = append(schedOpts, ecs.WithMetrics(opts.Metrics))
	}
	sched, err := ecs.NewScheduler(schedOpts...)
	if err != nil {
		return nil, err
	}
	w := &World{
		Scheduler: sched,
		Events:    &ecs.EventQueue{},
		opts:      opts,
		logger:    opts.Logger,
	}
	if err := w.Reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// SceneName is the scene the world loads from.
func (w *World) SceneName() string {
	if w.opts.Config.Scene == "" {
		return DefaultScene
	}
	return w.opts.Config.Scene
}

// Reload replaces the registry with a fresh load of the scene and rebuilds
// the scheduler's systems. The tick counter and the accumulator carry over
// so replicated ticks stay gap-free. On error the running world is left
// untouched. It must be called between frames.
func (w *World) Reload() error {
	doc, err := scene.ReadFile(w.SceneName())
	if err != nil {
		return err
	}
	r := ecs.NewRegistry()
	if _, err := scene.Load(r, w.opts.Codecs, doc); err != nil {
		return err
	}

	staging, err := ecs.NewScheduler(ecs.WithFixedStep(w.Scheduler.FixedStep()))
	if err != nil {
		return err
	}
	factories := system.DefaultFactories(system.Deps{
		Events:     w.Events,
		Ticks:      w.Scheduler,
		Sink:       w.opts.Sink,
		Renderer:   w.opts.Renderer,
		LoadScript: scene.LoadScript,
		Logger:     w.logger,
	})
	if err := factories.Build(doc.Systems, staging); err != nil {
		return eris.Wrapf(err, "scene %s", w.SceneName())
	}

	w.Scheduler.Clear()
	for _, g := range ecs.Groups() {
		for _, s := range staging.Systems(g) {
			w.Scheduler.Add(g, s)
		}
	}
	w.Registry = r
	w.logger.Info().
		Str("scene", w.SceneName()).
		Int("entities", r.Len()).
		Uint64("tick", w.Scheduler.Tick()).
		Msg("scene loaded")
	ecs.LogRegistry(w.logger, zerolog.DebugLevel, r, w.Scheduler)
	return nil
}

// Frame advances the world by one host frame of dt real time.
func (w *World) Frame(dt time.Duration) ecs.UpdateStats {
	return w.Scheduler.Update(w.Registry, dt)
}

// Save captures the current registry together with the scene's systems.
func (w *World) Save() (scene.Document, error) {
	doc := scene.Save(w.Registry, w.opts.Codecs)
	src, err := scene.ReadFile(w.SceneName())
	if err != nil {
		return doc, err
	}
	doc.Systems = src.Systems
	return doc, nil
}
