package entity

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/handcar/assets"
	"github.com/milk9111/handcar/ecs/component"
)

var defaultPartColor = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

// PlaneTriangles returns a w×h rectangle in the XY plane, centred on the
// origin, front face towards +Z.
func PlaneTriangles(w, h float64, c color.NRGBA) []component.Triangle {
	hw, hh := w/2, h/2
	return quad(
		mgl64.Vec3{-hw, -hh, 0},
		mgl64.Vec3{hw, -hh, 0},
		mgl64.Vec3{hw, hh, 0},
		mgl64.Vec3{-hw, hh, 0},
		mgl64.Vec3{0, 0, 1},
		c,
	)
}

// BoxTriangles returns the twelve outward-facing triangles of an
// axis-aligned box.
func BoxTriangles(center, size mgl64.Vec3, c color.NRGBA) []component.Triangle {
	lo := center.Sub(size.Mul(0.5))
	hi := center.Add(size.Mul(0.5))

	corner := func(x, y, z bool) mgl64.Vec3 {
		v := lo
		if x {
			v[0] = hi[0]
		}
		if y {
			v[1] = hi[1]
		}
		if z {
			v[2] = hi[2]
		}
		return v
	}

	tris := make([]component.Triangle, 0, 12)
	tris = append(tris, quad(corner(true, false, false), corner(true, true, false), corner(true, true, true), corner(true, false, true), mgl64.Vec3{1, 0, 0}, c)...)
	tris = append(tris, quad(corner(false, false, false), corner(false, false, true), corner(false, true, true), corner(false, true, false), mgl64.Vec3{-1, 0, 0}, c)...)
	tris = append(tris, quad(corner(false, true, false), corner(false, true, true), corner(true, true, true), corner(true, true, false), mgl64.Vec3{0, 1, 0}, c)...)
	tris = append(tris, quad(corner(false, false, false), corner(true, false, false), corner(true, false, true), corner(false, false, true), mgl64.Vec3{0, -1, 0}, c)...)
	tris = append(tris, quad(corner(false, false, true), corner(true, false, true), corner(true, true, true), corner(false, true, true), mgl64.Vec3{0, 0, 1}, c)...)
	tris = append(tris, quad(corner(false, false, false), corner(false, true, false), corner(true, true, false), corner(true, false, false), mgl64.Vec3{0, 0, -1}, c)...)
	return tris
}

// quad splits a-b-c-d into two triangles, flipping the winding when needed
// so that both face along normal.
func quad(a, b, c, d, normal mgl64.Vec3, col color.NRGBA) []component.Triangle {
	if b.Sub(a).Cross(c.Sub(a)).Dot(normal) < 0 {
		b, d = d, b
	}
	return []component.Triangle{
		{A: a, B: b, C: c, Color: col},
		{A: a, B: c, C: d, Color: col},
	}
}

// ModelMesh flattens a box model into a single lit mesh.
func ModelMesh(m *assets.Model) component.Mesh {
	var mesh component.Mesh
	for _, p := range m.Parts {
		c := p.Color.NRGBA(defaultPartColor)
		mesh.Triangles = append(mesh.Triangles, BoxTriangles(mgl64.Vec3(p.Center), mgl64.Vec3(p.Size), c)...)
	}
	return mesh
}
