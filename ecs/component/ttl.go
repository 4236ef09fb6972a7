package component

// TTL is a tick-based time-to-live. The entity is destroyed once Ticks
// simulation ticks have elapsed.
type TTL struct {
	Ticks int
}

var TTLComponent = NewComponent[TTL]("ttl")
