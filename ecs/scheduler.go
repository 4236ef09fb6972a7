package ecs

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// DefaultFixedStep is the simulation step for 60 updates per second.
const DefaultFixedStep = time.Second / 60

// ErrInvalidFixedStep is returned by NewScheduler for a step <= 0, which
// would make the accumulator loop spin forever.
var ErrInvalidFixedStep = eris.New("fixed step must be positive")

// Metrics receives scheduler timings. *statsd.Client from datadog-go
// satisfies it.
type Metrics interface {
	Timing(name string, value time.Duration, tags []string, rate float64) error
}

type nopMetrics struct{}

func (nopMetrics) Timing(string, time.Duration, []string, float64) error { return nil }

// UpdateStats describes what one Update call did.
type UpdateStats struct {
	// Steps is the number of fixed-step passes run.
	Steps int
	// Dropped is simulation time discarded by the step cap. Always zero
	// when no cap is configured.
	Dropped time.Duration
	// Tick is the simulation tick after the call.
	Tick uint64
}

// Scheduler runs systems grouped by phase and converts variable frame time
// into whole fixed steps. It is single threaded: Update runs every system to
// completion before returning, and nothing here locks the registry.
type Scheduler struct {
	groups      [groupCount][]System
	fixedStep   time.Duration
	accumulator time.Duration
	tick        uint64
	maxSteps    int
	logger      zerolog.Logger
	metrics     Metrics
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithFixedStep sets the simulation step.
func WithFixedStep(step time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.fixedStep = step
	}
}

// WithTickRate sets the simulation step to one second divided by hz.
func WithTickRate(hz int) SchedulerOption {
	return func(s *Scheduler) {
		if hz <= 0 {
			s.fixedStep = 0
			return
		}
		s.fixedStep = time.Second / time.Duration(hz)
	}
}

// WithMaxSteps caps the fixed-step passes per Update. When the cap is hit
// the remaining whole steps are discarded and reported in UpdateStats. Zero,
// the default, leaves the loop uncapped so a long frame is fully caught up.
func WithMaxSteps(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n < 0 {
			n = 0
		}
		s.maxSteps = n
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(l zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithMetrics sets the timing sink.
func WithMetrics(m Metrics) SchedulerOption {
	return func(s *Scheduler) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewScheduler returns a scheduler with no systems.
func NewScheduler(opts ...SchedulerOption) (*Scheduler, error) {
	s := &Scheduler{
		fixedStep: DefaultFixedStep,
		logger:    zerolog.Nop(),
		metrics:   nopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fixedStep <= 0 {
		return nil, eris.Wrapf(ErrInvalidFixedStep, "got %s", s.fixedStep)
	}
	return s, nil
}

// Add appends system to group. Systems in a group run in the order added.
func (s *Scheduler) Add(group Group, system System) {
	if system == nil || group >= groupCount {
		return
	}
	s.groups[group] = append(s.groups[group], system)
	s.logger.Debug().
		Str("group", group.String()).
		Str("system", system.Name()).
		Int("position", len(s.groups[group])-1).
		Msg("system registered")
}

// Systems returns a copy of group's systems in execution order.
func (s *Scheduler) Systems(group Group) []System {
	if group >= groupCount {
		return nil
	}
	systems := make([]System, 0, len(s.groups[group]))
	return append(systems, s.groups[group]...)
}

// Clear removes every system. The accumulator and tick are kept, so a scene
// reload does not rewind simulation time.
func (s *Scheduler) Clear() {
	for g := range s.groups {
		s.groups[g] = nil
	}
}

// Tick is the number of completed fixed-step passes. Sync systems running
// in pass N observe N; it is incremented after the pass.
func (s *Scheduler) Tick() uint64 {
	return s.tick
}

// Accumulator is the real time carried over to the next Update.
func (s *Scheduler) Accumulator() time.Duration {
	return s.accumulator
}

func (s *Scheduler) FixedStep() time.Duration {
	return s.fixedStep
}

// Update advances one host frame of dt real time:
//
//  1. every Input system runs once with dt;
//  2. dt is added to the accumulator;
//  3. while the accumulator holds a whole fixed step, every Simulation system
//     and then every Sync system runs with the fixed step, the step is
//     subtracted and the tick advances by one;
//  4. every Render system runs once with dt.
func (s *Scheduler) Update(r *Registry, dt time.Duration) UpdateStats {
	start := time.Now()
	var stats UpdateStats

	s.run(GroupInput, r, dt)

	s.accumulator += dt
	for s.accumulator >= s.fixedStep {
		if s.maxSteps > 0 && stats.Steps == s.maxSteps {
			stats.Dropped = s.accumulator - s.accumulator%s.fixedStep
			s.accumulator -= stats.Dropped
			s.logger.Warn().
				Int("steps", stats.Steps).
				Dur("dropped", stats.Dropped).
				Uint64("tick", s.tick).
				Msg("fixed step cap reached, dropping simulation time")
			break
		}
		stepStart := time.Now()
		s.run(GroupSimulation, r, s.fixedStep)
		s.run(GroupSync, r, s.fixedStep)
		s.accumulator -= s.fixedStep
		s.tick++
		stats.Steps++
		s.timing("step", time.Since(stepStart))
	}

	s.run(GroupRender, r, dt)

	stats.Tick = s.tick
	if stats.Steps > 1 {
		s.logger.Debug().
			Int("steps", stats.Steps).
			Dur("dt", dt).
			Uint64("tick", s.tick).
			Msg("catching up")
	}
	s.timing("update", time.Since(start))
	return stats
}

func (s *Scheduler) run(group Group, r *Registry, dt time.Duration) {
	for _, system := range s.groups[group] {
		system.OnUpdate(r, dt)
	}
}

func (s *Scheduler) timing(stage string, d time.Duration) {
	if err := s.metrics.Timing("scheduler."+stage, d, nil, 1); err != nil {
		s.logger.Warn().Err(err).Str("stage", stage).Msg("failed to emit scheduler timing")
	}
}
