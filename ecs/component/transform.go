package component

// Transform places an entity in world space. Rotations are radians and
// applied yaw-after-pitch; Scale is uniform, zero meaning 1.
type Transform struct {
	X     float64
	Y     float64
	Z     float64
	Pitch float64
	Yaw   float64
	Scale float64
}

var TransformComponent = NewComponent[Transform]()
