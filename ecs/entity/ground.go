package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/handcar/common"
	"github.com/milk9111/handcar/ecs"
	"github.com/milk9111/handcar/ecs/component"
	"github.com/milk9111/handcar/prefabs"
)

var groundGray = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

// NewGround adds the WorldExtent×WorldExtent ground plane described by
// ground.yaml.
func NewGround(w *ecs.World) (ecs.Entity, error) {
	spec, err := prefabs.LoadGroundSpec()
	if err != nil {
		return 0, fmt.Errorf("ground: load spec: %w", err)
	}
	return NewGroundFromSpec(w, spec)
}

func NewGroundFromSpec(w *ecs.World, spec *prefabs.GroundSpec) (ecs.Entity, error) {
	ground := w.CreateEntity()

	if err := ecs.Add(w, ground, component.GroundTagComponent, component.GroundTag{}); err != nil {
		return 0, fmt.Errorf("ground: add tag: %w", err)
	}
	if err := ecs.Add(w, ground, component.NameComponent, component.Name(spec.Name)); err != nil {
		return 0, fmt.Errorf("ground: add name: %w", err)
	}
	if err := ecs.Add(w, ground, component.TransformComponent, transformFromSpec(spec.Transform)); err != nil {
		return 0, fmt.Errorf("ground: add transform: %w", err)
	}
	if err := ecs.Add(w, ground, component.MeshComponent, component.Mesh{
		Triangles:   PlaneTriangles(common.WorldExtent, common.WorldExtent, spec.Color.NRGBA(groundGray)),
		DoubleSided: spec.DoubleSided,
		Unlit:       spec.Unlit,
	}); err != nil {
		return 0, fmt.Errorf("ground: add mesh: %w", err)
	}

	return ground, nil
}

func transformFromSpec(t prefabs.TransformSpec) component.Transform {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return component.Transform{
		X:     t.X,
		Y:     t.Y,
		Z:     t.Z,
		Pitch: t.Pitch,
		Yaw:   t.Yaw,
		Scale: scale,
	}
}
