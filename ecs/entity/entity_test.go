package entity

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/handcar/assets"
	"github.com/milk9111/handcar/ecs"
	"github.com/milk9111/handcar/ecs/component"
	"github.com/milk9111/handcar/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normal(tri component.Triangle) mgl64.Vec3 {
	return tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A)).Normalize()
}

func TestBoxTrianglesFaceOutward(t *testing.T) {
	center := mgl64.Vec3{1, 2, 3}
	tris := BoxTriangles(center, mgl64.Vec3{2, 1, 4}, color.NRGBA{A: 255})
	require.Len(t, tris, 12)

	for i, tri := range tris {
		mid := tri.A.Add(tri.B).Add(tri.C).Mul(1.0 / 3)
		outward := mid.Sub(center)
		assert.Greater(t, normal(tri).Dot(outward), 0.0, "triangle %d faces inward", i)
	}
}

func TestPlaneTrianglesFacePlusZ(t *testing.T) {
	tris := PlaneTriangles(10, 10, color.NRGBA{A: 255})
	require.Len(t, tris, 2)
	for _, tri := range tris {
		assert.InDelta(t, 1, normal(tri).Z(), 1e-9)
		for _, v := range []mgl64.Vec3{tri.A, tri.B, tri.C} {
			assert.InDelta(t, 5, math.Abs(v.X()), 1e-9)
			assert.InDelta(t, 5, math.Abs(v.Y()), 1e-9)
		}
	}
}

func TestNewGround(t *testing.T) {
	w := ecs.NewWorld()
	ground, err := NewGround(w)
	require.NoError(t, err)

	mesh, ok := ecs.Get(w, ground, component.MeshComponent)
	require.True(t, ok)
	assert.True(t, mesh.DoubleSided)
	assert.True(t, mesh.Unlit)
	require.Len(t, mesh.Triangles, 2)
	assert.Equal(t, color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}, mesh.Triangles[0].Color)

	tr, ok := ecs.Get(w, ground, component.TransformComponent)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/2, tr.Pitch, 1e-12)
	assert.Equal(t, 1.0, tr.Scale)
}

func TestNewCamera(t *testing.T) {
	w := ecs.NewWorld()
	cam, err := NewCamera(w)
	require.NoError(t, err)

	c, ok := ecs.Get(w, cam, component.CameraComponent)
	require.True(t, ok)
	assert.Equal(t, 75.0, c.FOV)
	assert.Equal(t, 0.1, c.Near)
	assert.Equal(t, 1000.0, c.Far)

	tr, ok := ecs.Get(w, cam, component.TransformComponent)
	require.True(t, ok)
	assert.Equal(t, component.Transform{Y: 5, Z: 5, Scale: 1}, *tr)
}

func TestVehicleLifecycle(t *testing.T) {
	w := ecs.NewWorld()
	spec := &prefabs.VehicleSpec{Name: "car", Model: "sedan.yaml", Transform: prefabs.TransformSpec{Scale: 0.5}}
	one := &assets.Model{Parts: []assets.Part{{Size: [3]float64{1, 1, 1}}}}
	two := &assets.Model{Parts: []assets.Part{{Size: [3]float64{1, 1, 1}}, {Size: [3]float64{1, 1, 1}}}}

	replaced, err := ReplaceVehicleModel(w, one)
	require.NoError(t, err)
	assert.False(t, replaced, "nothing to replace before the vehicle exists")

	_, err = NewVehicle(w, spec, nil)
	require.Error(t, err)

	vehicle, err := NewVehicle(w, spec, one)
	require.NoError(t, err)
	assert.True(t, ecs.Has(w, vehicle, component.VehicleTagComponent))

	tr, _ := ecs.Get(w, vehicle, component.TransformComponent)
	assert.Equal(t, 0.5, tr.Scale)
	tr.X = 3

	replaced, err = ReplaceVehicleModel(w, two)
	require.NoError(t, err)
	assert.True(t, replaced)

	mesh, _ := ecs.Get(w, vehicle, component.MeshComponent)
	assert.Len(t, mesh.Triangles, 24)
	tr, _ = ecs.Get(w, vehicle, component.TransformComponent)
	assert.Equal(t, 3.0, tr.X, "reload keeps the transform")
}

func TestModelMeshUsesDefaultColour(t *testing.T) {
	m := &assets.Model{Parts: []assets.Part{{Size: [3]float64{1, 1, 1}}}}
	mesh := ModelMesh(m)
	require.Len(t, mesh.Triangles, 12)
	assert.Equal(t, defaultPartColor, mesh.Triangles[0].Color)
	assert.False(t, mesh.Unlit)
}

func TestApplyVehicleSpec(t *testing.T) {
	w := ecs.NewWorld()
	spec := &prefabs.VehicleSpec{Name: "car", Model: "sedan.yaml", Transform: prefabs.TransformSpec{Scale: 0.5}}
	model := &assets.Model{Parts: []assets.Part{{Size: [3]float64{1, 1, 1}}}}

	applied, err := ApplyVehicleSpec(w, spec)
	require.NoError(t, err)
	assert.False(t, applied, "nothing to update before the vehicle exists")

	vehicle, err := NewVehicle(w, spec, model)
	require.NoError(t, err)
	tr, _ := ecs.Get(w, vehicle, component.TransformComponent)
	tr.X, tr.Z, tr.Yaw = 2, -3, 1

	edited := &prefabs.VehicleSpec{Name: "truck", Model: "sedan.yaml", Transform: prefabs.TransformSpec{Y: 0.25, Scale: 2}}
	applied, err = ApplyVehicleSpec(w, edited)
	require.NoError(t, err)
	assert.True(t, applied)

	tr, _ = ecs.Get(w, vehicle, component.TransformComponent)
	assert.Equal(t, component.Transform{X: 2, Y: 0.25, Z: -3, Yaw: 1, Scale: 2}, *tr)
	name, _ := ecs.Get(w, vehicle, component.NameComponent)
	assert.Equal(t, component.Name("truck"), *name)
}
