package handtrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxFromNormalized(t *testing.T) {
	const vw, vh = 1280.0, 720.0

	tests := []struct {
		name         string
		cx, cy, w, h float64
		want         BoundingBox
	}{
		{"centred", 0.5, 0.5, 0.2, 0.4, BoundingBox{X: 512, Y: 216, Width: 256, Height: 288}},
		{"clamped_top_left", 0.05, 0.05, 0.2, 0.2, BoundingBox{X: 0, Y: 0, Width: 256, Height: 144}},
		{"whole_frame", 0.5, 0.5, 1, 1, BoundingBox{X: 0, Y: 0, Width: vw, Height: vh}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BoxFromNormalized(tc.cx, tc.cy, tc.w, tc.h, vw, vh)
			assert.InDelta(t, tc.want.X, got.X, 1e-9)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tc.want.Width, got.Width, 1e-9)
			assert.InDelta(t, tc.want.Height, got.Height, 1e-9)
		})
	}
}

func TestBoxFromNormalizedOriginStaysInViewport(t *testing.T) {
	for _, c := range []float64{-0.5, 0, 0.3, 1, 1.5} {
		got := BoxFromNormalized(c, c, 0.1, 0.1, 640, 480)
		assert.GreaterOrEqual(t, got.X, 0.0)
		assert.LessOrEqual(t, got.X, 640.0)
		assert.GreaterOrEqual(t, got.Y, 0.0)
		assert.LessOrEqual(t, got.Y, 480.0)
	}
}

func TestMirroredBoxFromNormalized(t *testing.T) {
	const vw, vh = 1280.0, 720.0

	tests := []struct {
		name  string
		cx    float64
		wantX float64
	}{
		{"left_of_frame_is_right_of_screen", 0.1, 1088},
		{"right_of_frame_is_left_of_screen", 0.9, 64},
		{"centre_is_unchanged", 0.5, 576},
		{"clamped_past_right_edge", -0.1, 1280},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MirroredBoxFromNormalized(tc.cx, 0.5, 0.1, 0.1, vw, vh)
			assert.InDelta(t, tc.wantX, got.X, 1e-9)
			assert.InDelta(t, 324.0, got.Y, 1e-9)
			assert.InDelta(t, 128.0, got.Width, 1e-9)
		})
	}
}
