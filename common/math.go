package common

import "math"

// WorldExtent is the side length of the ground plane, centred on the
// origin. Mapped positions fall in [-WorldExtent/2, WorldExtent/2].
const WorldExtent = 10.0

// MapToGround maps a screen point inside a w×h viewport onto the ground
// plane of the given extent. Inputs outside the viewport map outside the
// extent; nothing is clamped.
func MapToGround(x, y, w, h, extent float64) (wx, wz float64) {
	wx = (x/w)*extent - extent/2
	wz = (y/h)*extent - extent/2
	return wx, wz
}

// Heading returns the yaw that faces along (dx, dz), with yaw 0 facing +Z.
// ok is false for a zero delta, where no direction exists.
func Heading(dx, dz float64) (yaw float64, ok bool) {
	if dx == 0 && dz == 0 {
		return 0, false
	}
	return math.Atan2(dx, dz), true
}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
