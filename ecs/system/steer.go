package system

import (
	"github.com/milk9111/handcar/common"
	"github.com/milk9111/handcar/ecs"
	"github.com/milk9111/handcar/ecs/component"
)

// SteerSystem moves the vehicle to the ground point under each hand
// event of the tick, in arrival order.
type SteerSystem struct {
	vehicle ecs.Entity
	width   float64
	height  float64
	extent  float64
}

func NewSteerSystem(width, height float64) *SteerSystem {
	return &SteerSystem{width: width, height: height, extent: common.WorldExtent}
}

func (s *SteerSystem) Update(w *ecs.World) {
	events := w.Events().Of(ecs.EventHandMoved)
	if len(events) == 0 {
		return
	}

	// No vehicle yet: the model is still loading or failed to load.
	if !w.IsAlive(s.vehicle) {
		vehicle, ok := w.First(component.VehicleTagComponent.Kind())
		if !ok {
			return
		}
		s.vehicle = vehicle
	}

	t, ok := ecs.Get(w, s.vehicle, component.TransformComponent)
	if !ok {
		return
	}

	for _, evt := range events {
		hand, ok := evt.Data.(ecs.HandMovedEvent)
		if !ok {
			continue
		}
		Steer(t, hand.X, hand.Y, s.width, s.height, s.extent)
	}
}

// Steer places t at the ground point under screen point (x, y) and turns
// it to face the direction it moved. The heading is taken from the old
// position, so it must be computed before the position is overwritten. A
// zero move keeps the current heading.
func Steer(t *component.Transform, x, y, w, h, extent float64) {
	wx, wz := common.MapToGround(x, y, w, h, extent)
	if yaw, ok := common.Heading(wx-t.X, wz-t.Z); ok {
		t.Yaw = yaw
	}
	t.X = wx
	t.Z = wz
}
