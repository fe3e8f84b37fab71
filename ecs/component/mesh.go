package component

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangle is one face in model space. Front faces wind counter-clockwise
// when seen from outside.
type Triangle struct {
	A     mgl64.Vec3
	B     mgl64.Vec3
	C     mgl64.Vec3
	Color color.NRGBA
}

type Mesh struct {
	Triangles   []Triangle
	DoubleSided bool
	// Unlit meshes keep their base colour regardless of the light.
	Unlit bool
}

var MeshComponent = NewComponent[Mesh]()
