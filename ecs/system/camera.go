package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/handcar/ecs"
	"github.com/milk9111/handcar/ecs/component"
)

var worldUp = mgl64.Vec3{0, 1, 0}

type CameraSystem struct {
	camEntity ecs.Entity
	aspect    float64
}

// NewCameraSystem builds the view-projection for a viewport of the given
// size. The size is fixed for the life of the program.
func NewCameraSystem(width, height float64) *CameraSystem {
	aspect := 1.0
	if width > 0 && height > 0 {
		aspect = width / height
	}
	return &CameraSystem{aspect: aspect}
}

// Update refreshes the camera's eye and view-projection matrix from its
// transform.
func (cs *CameraSystem) Update(w *ecs.World) {
	if !w.IsAlive(cs.camEntity) {
		camEntity, ok := w.First(component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
	}

	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent)
	if !ok {
		return
	}
	t, ok := ecs.Get(w, cs.camEntity, component.TransformComponent)
	if !ok {
		return
	}

	cam.Eye = mgl64.Vec3{t.X, t.Y, t.Z}
	cam.ViewProj = ViewProjection(*cam, cam.Eye, cs.aspect)
}

func ViewProjection(cam component.Camera, eye mgl64.Vec3, aspect float64) mgl64.Mat4 {
	proj := mgl64.Perspective(mgl64.DegToRad(cam.FOV), aspect, cam.Near, cam.Far)
	view := mgl64.LookAtV(eye, mgl64.Vec3{cam.TargetX, cam.TargetY, cam.TargetZ}, worldUp)
	return proj.Mul4(view)
}
