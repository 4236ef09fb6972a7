package component

// Sprite describes how the render collaborator should draw an entity. Image
// is an asset path resolved by the host; Color is a "#rrggbb" fallback fill.
type Sprite struct {
	Image   string
	Width   float64
	Height  float64
	OriginX float64
	OriginY float64
	Color   string
}

var SpriteComponent = NewComponent[Sprite]("sprite")
