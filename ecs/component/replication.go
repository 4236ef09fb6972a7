package component

import "time"

// ReplicationMode selects how often an entity is sent to peers.
type ReplicationMode uint8

const (
	// ReplicateNone keeps the entity local.
	ReplicateNone ReplicationMode = iota
	// ReplicateInterval sends the entity whenever Elapsed reaches Interval.
	ReplicateInterval
	// ReplicateEveryTick sends the entity on every simulation tick.
	ReplicateEveryTick
)

func (m ReplicationMode) String() string {
	switch m {
	case ReplicateNone:
		return "none"
	case ReplicateInterval:
		return "interval"
	case ReplicateEveryTick:
		return "every_tick"
	default:
		return "unknown"
	}
}

// ParseReplicationMode is the inverse of String. Unknown names map to
// ReplicateNone and false.
func ParseReplicationMode(s string) (ReplicationMode, bool) {
	switch s {
	case "none", "":
		return ReplicateNone, true
	case "interval":
		return ReplicateInterval, true
	case "every_tick":
		return ReplicateEveryTick, true
	default:
		return ReplicateNone, false
	}
}

// Replicated opts an entity into the Sync phase. Elapsed is the per-entity
// accumulator advanced by the fixed step.
type Replicated struct {
	Mode     ReplicationMode
	Interval time.Duration
	Elapsed  time.Duration
}

var ReplicatedComponent = NewComponent[Replicated]("replicated")
