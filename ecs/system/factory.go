package system

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/replication"
)

var (
	ErrUnknownSystem    = eris.New("unknown system")
	ErrDuplicateFactory = eris.New("system factory already registered")
)

// Entry names one system in a scene's systems section.
type Entry struct {
	System string `yaml:"system"`
	Script string `yaml:"script,omitempty"`
}

// Config lists systems per group name, in registration order.
type Config map[string][]Entry

// Deps are the host collaborators factories may hand to the systems they
// build. Any of them may be nil when the host has no use for the systems
// that need them.
type Deps struct {
	Events     *ecs.EventQueue
	Ticks      TickSource
	Sink       replication.Sink
	Renderer   Renderer
	LoadScript func(name string) ([]byte, error)
	Logger     zerolog.Logger
}

// Factory builds one system for entry.
type Factory func(entry Entry, deps Deps) (ecs.System, error)

// Factories is a registry of system constructors keyed by name.
type Factories struct {
	deps  Deps
	byKey map[string]Factory
}

// NewFactories returns an empty registry whose factories receive deps.
func NewFactories(deps Deps) *Factories {
	return &Factories{deps: deps, byKey: make(map[string]Factory)}
}

// DefaultFactories registers every built-in system.
func DefaultFactories(deps Deps) *Factories {
	f := NewFactories(deps)
	must := func(name string, fn Factory) {
		if err := f.Register(name, fn); err != nil {
			panic(err)
		}
	}
	must("input", func(_ Entry, d Deps) (ecs.System, error) {
		if d.Events == nil {
			return nil, eris.New("input system needs an event queue")
		}
		return NewInputSystem(d.Events), nil
	})
	must("controller", func(Entry, Deps) (ecs.System, error) { return NewControllerSystem(), nil })
	must("movement", func(Entry, Deps) (ecs.System, error) { return NewMovementSystem(), nil })
	must("ttl", func(Entry, Deps) (ecs.System, error) { return NewTTLSystem(), nil })
	must("camera", func(Entry, Deps) (ecs.System, error) { return NewCameraSystem(), nil })
	must("script", func(e Entry, d Deps) (ecs.System, error) {
		if strings.TrimSpace(e.Script) == "" {
			return nil, eris.New("script system needs a script name")
		}
		if d.LoadScript == nil {
			return nil, eris.New("script system needs a script loader")
		}
		src, err := d.LoadScript(e.Script)
		if err != nil {
			return nil, eris.Wrapf(err, "load script %q", e.Script)
		}
		return NewScriptSystem(e.Script, string(src), d.Logger)
	})
	must("replication", func(_ Entry, d Deps) (ecs.System, error) {
		if d.Ticks == nil || d.Sink == nil {
			return nil, eris.New("replication system needs a tick source and a sink")
		}
		return NewReplicationSystem(d.Ticks, d.Sink, WithReplicationLogger(d.Logger)), nil
	})
	must("render", func(_ Entry, d Deps) (ecs.System, error) {
		return NewRenderSystem(d.Renderer), nil
	})
	return f
}

// Register adds a factory under name.
func (f *Factories) Register(name string, fn Factory) error {
	if _, ok := f.byKey[name]; ok {
		return eris.Wrapf(ErrDuplicateFactory, "%q", name)
	}
	f.byKey[name] = fn
	return nil
}

// Names lists the registered factories, sorted.
func (f *Factories) Names() []string {
	names := make([]string, 0, len(f.byKey))
	for name := range f.byKey {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build creates every system in cfg and adds it to sched, group by group in
// phase order. Nothing is added when any entry fails.
func (f *Factories) Build(cfg Config, sched *ecs.Scheduler) error {
	type built struct {
		group  ecs.Group
		system ecs.System
	}
	for name := range cfg {
		if _, err := ecs.ParseGroup(name); err != nil {
			return eris.Wrapf(err, "systems: group %q", name)
		}
	}

	var out []built
	for _, g := range ecs.Groups() {
		for _, entry := range groupEntries(cfg, g) {
			fn, ok := f.byKey[entry.System]
			if !ok {
				return eris.Wrapf(ErrUnknownSystem, "%s: %q", g, entry.System)
			}
			deps := f.deps
			deps.Logger = deps.Logger.With().Str("system", entry.System).Stringer("group", g).Logger()
			sys, err := fn(entry, deps)
			if err != nil {
				return eris.Wrapf(err, "%s: build %q", g, entry.System)
			}
			out = append(out, built{group: g, system: sys})
		}
	}
	for _, b := range out {
		sched.Add(b.group, b.system)
	}
	return nil
}

// groupEntries finds g's entries, matching group names case-insensitively.
func groupEntries(cfg Config, g ecs.Group) []Entry {
	var names []string
	for name := range cfg {
		if strings.EqualFold(name, g.String()) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	var entries []Entry
	for _, name := range names {
		entries = append(entries, cfg[name]...)
	}
	return entries
}
