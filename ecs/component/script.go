package component

// Script attaches an entity to the ScriptSystem registered under Name.
type Script struct {
	Name string
}

var ScriptComponent = NewComponent[Script]("script")
