package component

import "github.com/go-gl/mathgl/mgl64"

// Camera is a fixed perspective camera. The entity's Transform holds the
// eye position.
type Camera struct {
	FOV     float64 // vertical, degrees
	Near    float64
	Far     float64
	TargetX float64
	TargetY float64
	TargetZ float64

	// Set by the camera system every tick.
	ViewProj mgl64.Mat4
	Eye      mgl64.Vec3
}

var CameraComponent = NewComponent[Camera]()
