package system

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/handcar/common"
	"github.com/milk9111/handcar/ecs"
	"github.com/milk9111/handcar/ecs/component"
)

const ambientLight = 0.45

// Face is a projected, shaded triangle in screen pixels.
type Face struct {
	Points [3]mgl64.Vec2
	// Mean clip-space w of the corners; larger is farther away.
	Depth float64
	Color color.NRGBA
}

// RenderSystem rasterises every mesh through the scene camera, painter's
// style: faces are sorted far to near and drawn in one batch per frame.
type RenderSystem struct {
	camEntity ecs.Entity
	light     mgl64.Vec3
	faces     []Face
	vertices  []ebiten.Vertex
	indices   []uint16
	white     *ebiten.Image
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{light: mgl64.Vec3{-0.4, 1, 0.6}.Normalize()}
}

func (r *RenderSystem) Update(w *ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	b := screen.Bounds()
	faces := r.Project(w, float64(b.Dx()), float64(b.Dy()))
	if len(faces) == 0 {
		return
	}

	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
	for _, f := range faces {
		if len(r.vertices)+3 > math.MaxUint16 {
			screen.DrawTriangles(r.vertices, r.indices, r.whiteImage(), nil)
			r.vertices = r.vertices[:0]
			r.indices = r.indices[:0]
		}

		base := uint16(len(r.vertices))
		cr := float32(f.Color.R) / 0xff
		cg := float32(f.Color.G) / 0xff
		cb := float32(f.Color.B) / 0xff
		ca := float32(f.Color.A) / 0xff
		for _, p := range f.Points {
			r.vertices = append(r.vertices, ebiten.Vertex{
				DstX:   float32(p.X()),
				DstY:   float32(p.Y()),
				SrcX:   1,
				SrcY:   1,
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			})
		}
		r.indices = append(r.indices, base, base+1, base+2)
	}
	screen.DrawTriangles(r.vertices, r.indices, r.whiteImage(), nil)
}

// Project returns the visible faces of every mesh in a width×height
// viewport, sorted far to near. The slice is reused by the next call.
func (r *RenderSystem) Project(w *ecs.World, width, height float64) []Face {
	r.faces = r.faces[:0]

	if !w.IsAlive(r.camEntity) {
		camEntity, ok := w.First(component.CameraComponent.Kind())
		if !ok {
			return nil
		}
		r.camEntity = camEntity
	}
	cam, ok := ecs.Get(w, r.camEntity, component.CameraComponent)
	if !ok {
		return nil
	}
	viewProj := cam.ViewProj

	ecs.ForEach(w, component.MeshComponent.Kind(), func(e ecs.Entity, mesh *component.Mesh) {
		model := mgl64.Ident4()
		if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
			model = ModelMatrix(*t)
		}
		r.faces = appendFaces(r.faces, viewProj, model, mesh, r.light, width, height)
	})

	sort.SliceStable(r.faces, func(i, j int) bool {
		return r.faces[i].Depth > r.faces[j].Depth
	})
	return r.faces
}

// ModelMatrix composes scale, then pitch about X, then yaw about Y, then
// translation.
func ModelMatrix(t component.Transform) mgl64.Mat4 {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return mgl64.Translate3D(t.X, t.Y, t.Z).
		Mul4(mgl64.HomogRotate3DY(t.Yaw)).
		Mul4(mgl64.HomogRotate3DX(t.Pitch)).
		Mul4(mgl64.Scale3D(scale, scale, scale))
}

func appendFaces(dst []Face, viewProj, model mgl64.Mat4, mesh *component.Mesh, light mgl64.Vec3, width, height float64) []Face {
	for _, tri := range mesh.Triangles {
		world := [3]mgl64.Vec3{
			model.Mul4x1(tri.A.Vec4(1)).Vec3(),
			model.Mul4x1(tri.B.Vec4(1)).Vec3(),
			model.Mul4x1(tri.C.Vec4(1)).Vec3(),
		}

		var pts [3]mgl64.Vec2
		depth := 0.0
		visible := true
		for i, v := range world {
			clip := viewProj.Mul4x1(v.Vec4(1))
			// behind the eye; the camera never moves so no clipping is done
			if clip.W() <= 0 {
				visible = false
				break
			}
			ndc := clip.Vec3().Mul(1 / clip.W())
			pts[i] = mgl64.Vec2{(ndc.X() + 1) / 2 * width, (1 - ndc.Y()) / 2 * height}
			depth += clip.W()
		}
		if !visible {
			continue
		}

		// Screen y points down, so a counter-clockwise front face has a
		// negative signed area.
		area := signedArea(pts)
		if area == 0 || (!mesh.DoubleSided && area > 0) {
			continue
		}

		col := tri.Color
		if !mesh.Unlit {
			col = shade(col, world, light, mesh.DoubleSided)
		}
		dst = append(dst, Face{Points: pts, Depth: depth / 3, Color: col})
	}
	return dst
}

func signedArea(p [3]mgl64.Vec2) float64 {
	return (p[1].X()-p[0].X())*(p[2].Y()-p[0].Y()) - (p[1].Y()-p[0].Y())*(p[2].X()-p[0].X())
}

func shade(c color.NRGBA, world [3]mgl64.Vec3, light mgl64.Vec3, doubleSided bool) color.NRGBA {
	n := world[1].Sub(world[0]).Cross(world[2].Sub(world[0]))
	if n.Len() == 0 {
		return c
	}
	d := n.Normalize().Dot(light)
	if doubleSided {
		d = math.Abs(d)
	}
	k := common.Lerp(ambientLight, 1, math.Max(d, 0))
	return color.NRGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: c.A,
	}
}

func (r *RenderSystem) whiteImage() *ebiten.Image {
	if r.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.white
}
