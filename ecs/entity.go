package ecs

import "strconv"

// Entity is an opaque identifier naming a bundle of components. Ids are
// handed out in increasing order by a Registry and never reused.
type Entity uint64

// NullEntity denotes "no entity".
const NullEntity Entity = 0

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e != NullEntity
}
