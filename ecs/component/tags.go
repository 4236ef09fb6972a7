package component

// Tag is a free-form label used to group entities.
type Tag struct {
	Name string
}

var TagComponent = NewComponent[Tag]("tag")

// PlayerTag marks locally controlled entities.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]("player_tag")
