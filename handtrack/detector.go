package handtrack

import (
	"context"
	"errors"
)

var (
	ErrModelNotLoaded   = errors.New("handtrack: model not loaded")
	ErrCaptureNotOpen   = errors.New("handtrack: capture not open")
	ErrFrameUnavailable = errors.New("handtrack: frame unavailable")
)

// BoundingBox is an axis-aligned rectangle in viewport pixels.
type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type Prediction struct {
	Box   BoundingBox
	Label string
	Score float64
}

// Detector finds hands in the current frame of its video source.
// Predictions are ordered by descending score.
type Detector interface {
	Detect(ctx context.Context) ([]Prediction, error)
	Close() error
}

// BoxFromNormalized converts a YOLO-style centre/size box, normalised to
// [0, 1] of the frame, into a box in a viewport of vw×vh pixels. The
// origin is clamped into the viewport so hands partly out of frame still
// map onto the ground.
func BoxFromNormalized(cx, cy, w, h, vw, vh float64) BoundingBox {
	x := (cx - w/2) * vw
	y := (cy - h/2) * vh
	return BoundingBox{
		X:      clamp(x, 0, vw),
		Y:      clamp(y, 0, vh),
		Width:  w * vw,
		Height: h * vh,
	}
}

// MirroredBoxFromNormalized is BoxFromNormalized for a frame flipped
// left to right, so a hand moving to the user's right moves right on
// screen, as in a mirror.
func MirroredBoxFromNormalized(cx, cy, w, h, vw, vh float64) BoundingBox {
	return BoxFromNormalized(1-cx, cy, w, h, vw, vh)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
