package component

import "github.com/google/uuid"

// Identity gives an entity a name and an id that survives save/load and is
// shared with replication peers. Registry entity ids are process-local.
type Identity struct {
	ID   uuid.UUID
	Name string
}

// NewIdentity returns an Identity with a freshly generated id.
func NewIdentity(name string) Identity {
	return Identity{ID: uuid.New(), Name: name}
}

var IdentityComponent = NewComponent[Identity]("identity")
