package ecs

import (
	"github.com/rs/zerolog"
)

// LogEntity writes e and a copy of each of its components to logger at level.
func LogEntity(logger zerolog.Logger, level zerolog.Level, r *Registry, e Entity) {
	arr := zerolog.Arr()
	for _, kind := range r.Components(e) {
		v, _ := r.Value(e, kind)
		arr.Dict(zerolog.Dict().Str("component", kind.Name()).Interface("value", v))
	}
	logger.WithLevel(level).
		Stringer("entity", e).
		Bool("alive", r.Alive(e)).
		Array("components", arr).
		Msg("entity")
}

// LogRegistry writes a summary of every store and every system in s.
func LogRegistry(logger zerolog.Logger, level zerolog.Level, r *Registry, s *Scheduler) {
	stores := zerolog.Dict()
	for _, st := range r.order {
		stores.Int(st.kindName(), st.Len())
	}
	ev := logger.WithLevel(level).
		Int("entities", r.Len()).
		Dict("stores", stores)
	if s != nil {
		systems := zerolog.Dict()
		for _, g := range Groups() {
			names := make([]string, 0, len(s.groups[g]))
			for _, sys := range s.groups[g] {
				names = append(names, sys.Name())
			}
			systems.Strs(g.String(), names)
		}
		ev = ev.Dict("systems", systems).Uint64("tick", s.Tick())
	}
	ev.Msg("registry")
}
