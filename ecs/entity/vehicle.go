package entity

import (
	"fmt"

	"github.com/milk9111/handcar/assets"
	"github.com/milk9111/handcar/ecs"
	"github.com/milk9111/handcar/ecs/component"
	"github.com/milk9111/handcar/prefabs"
)

// NewVehicle attaches a loaded model to the world as the steering target.
func NewVehicle(w *ecs.World, spec *prefabs.VehicleSpec, model *assets.Model) (ecs.Entity, error) {
	if model == nil {
		return 0, fmt.Errorf("vehicle: nil model")
	}

	vehicle := w.CreateEntity()

	if err := ecs.Add(w, vehicle, component.VehicleTagComponent, component.VehicleTag{}); err != nil {
		return 0, fmt.Errorf("vehicle: add tag: %w", err)
	}
	if err := ecs.Add(w, vehicle, component.NameComponent, component.Name(spec.Name)); err != nil {
		return 0, fmt.Errorf("vehicle: add name: %w", err)
	}
	if err := ecs.Add(w, vehicle, component.TransformComponent, transformFromSpec(spec.Transform)); err != nil {
		return 0, fmt.Errorf("vehicle: add transform: %w", err)
	}
	if err := ecs.Add(w, vehicle, component.MeshComponent, ModelMesh(model)); err != nil {
		return 0, fmt.Errorf("vehicle: add mesh: %w", err)
	}

	return vehicle, nil
}

// ReplaceVehicleModel swaps the mesh of the existing vehicle, keeping its
// transform. It returns false when no vehicle is present.
func ReplaceVehicleModel(w *ecs.World, model *assets.Model) (bool, error) {
	vehicle, ok := w.First(component.VehicleTagComponent.Kind())
	if !ok {
		return false, nil
	}
	if err := ecs.Add(w, vehicle, component.MeshComponent, ModelMesh(model)); err != nil {
		return false, fmt.Errorf("vehicle: replace mesh: %w", err)
	}
	return true, nil
}

// ApplyVehicleSpec updates the existing vehicle from a reloaded prefab.
// Height, pitch and scale come from the prefab; the ground position and
// heading stay where steering left them. It returns false when no vehicle
// is present.
func ApplyVehicleSpec(w *ecs.World, spec *prefabs.VehicleSpec) (bool, error) {
	vehicle, ok := w.First(component.VehicleTagComponent.Kind())
	if !ok {
		return false, nil
	}
	if err := ecs.Add(w, vehicle, component.NameComponent, component.Name(spec.Name)); err != nil {
		return false, fmt.Errorf("vehicle: apply spec: %w", err)
	}

	t, ok := ecs.Get(w, vehicle, component.TransformComponent)
	if !ok {
		return false, fmt.Errorf("vehicle: apply spec: %s has no transform", vehicle)
	}
	next := transformFromSpec(spec.Transform)
	t.Y = next.Y
	t.Pitch = next.Pitch
	t.Scale = next.Scale
	return true, nil
}
