package component

// Camera follows the entity whose Identity.Name equals TargetName.
type Camera struct {
	TargetName string
	Zoom       float64
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]("camera")
