package system

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/lockstep/ecs"
	"github.com/milk9111/lockstep/ecs/component"
	"github.com/milk9111/lockstep/replication"
)

// TickSource exposes the current simulation tick. *ecs.Scheduler satisfies
// it.
type TickSource interface {
	Tick() uint64
}

// ReplicationSystem runs in the Sync group. Each fixed step it collects a
// snapshot of every replicated entity that is due and publishes them as one
// batch stamped with the current tick.
type ReplicationSystem struct {
	ticks   TickSource
	sink    replication.Sink
	logger  zerolog.Logger
	timeout time.Duration
}

// ReplicationOption configures a ReplicationSystem.
type ReplicationOption func(*ReplicationSystem)

// WithReplicationLogger sets the logger used for publish failures.
func WithReplicationLogger(l zerolog.Logger) ReplicationOption {
	return func(s *ReplicationSystem) {
		s.logger = l
	}
}

// WithPublishTimeout bounds each Publish call. Zero means no deadline.
func WithPublishTimeout(d time.Duration) ReplicationOption {
	return func(s *ReplicationSystem) {
		s.timeout = d
	}
}

func NewReplicationSystem(ticks TickSource, sink replication.Sink, opts ...ReplicationOption) *ReplicationSystem {
	s := &ReplicationSystem{
		ticks:  ticks,
		sink:   sink,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ReplicationSystem) Name() string { return "replication" }

func (s *ReplicationSystem) OnUpdate(r *ecs.Registry, dt time.Duration) {
	if r == nil || s.sink == nil {
		return
	}

	batch := replication.Batch{Tick: s.ticks.Tick()}
	ecs.ForEach3(r, component.ReplicatedComponent, component.IdentityComponent, component.TransformComponent,
		func(e ecs.Entity, rep *component.Replicated, id *component.Identity, t *component.Transform) {
			if !due(rep, dt) {
				return
			}
			snap := replication.Snapshot{
				ID:       id.ID,
				Name:     id.Name,
				X:        t.X,
				Y:        t.Y,
				Rotation: t.Rotation,
			}
			if vel, ok := ecs.TryGet(r, e, component.VelocityComponent); ok {
				snap.VX, snap.VY = vel.X, vel.Y
			}
			batch.Snapshots = append(batch.Snapshots, snap)
		})
	if len(batch.Snapshots) == 0 {
		return
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.sink.Publish(ctx, batch); err != nil {
		s.logger.Warn().Err(err).
			Uint64("tick", batch.Tick).
			Int("snapshots", len(batch.Snapshots)).
			Msg("failed to publish replication batch")
	}
}

// due advances the entity's accumulator by dt and reports whether it should
// be sent this step.
func due(rep *component.Replicated, dt time.Duration) bool {
	switch rep.Mode {
	case component.ReplicateEveryTick:
		return true
	case component.ReplicateInterval:
		if rep.Interval <= 0 {
			return true
		}
		rep.Elapsed += dt
		if rep.Elapsed < rep.Interval {
			return false
		}
		rep.Elapsed -= rep.Interval
		return true
	default:
		return false
	}
}
