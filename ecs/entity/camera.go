package entity

import (
	"fmt"

	"github.com/milk9111/handcar/ecs"
	"github.com/milk9111/handcar/ecs/component"
)

const (
	CameraFOV  = 75.0
	CameraNear = 0.1
	CameraFar  = 1000.0
)

// NewCamera adds the fixed scene camera: eye at (0, 5, 5) looking at the
// origin.
func NewCamera(w *ecs.World) (ecs.Entity, error) {
	camera := w.CreateEntity()

	if err := ecs.Add(w, camera, component.NameComponent, component.Name("camera")); err != nil {
		return 0, fmt.Errorf("camera: add name: %w", err)
	}

	if err := ecs.Add(w, camera, component.TransformComponent, component.Transform{
		X:     0,
		Y:     5,
		Z:     5,
		Scale: 1,
	}); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}

	if err := ecs.Add(w, camera, component.CameraComponent, component.Camera{
		FOV:  CameraFOV,
		Near: CameraNear,
		Far:  CameraFar,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}

	return camera, nil
}
