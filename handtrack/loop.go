package handtrack

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Loop repeatedly asks a Detector for hands and forwards the best box.
type Loop struct {
	detector Detector
	logger   *zap.Logger
}

func NewLoop(detector Detector, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{detector: detector, logger: logger}
}

// Run detects once, forwards the first prediction's box to out when there
// is one, then waits for the next tick before detecting again. Empty
// results still wait for the next tick.
//
// Run returns ctx.Err() once ctx is done, nil when ticks is closed, and
// the detector's error on the first failed detection. It never retries.
func (l *Loop) Run(ctx context.Context, ticks <-chan struct{}, out chan<- BoundingBox) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		preds, err := l.detector.Detect(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return ctxErr
			}
			return fmt.Errorf("handtrack: detect: %w", err)
		}

		if len(preds) > 0 {
			box := preds[0].Box
			l.logger.Debug("hand detected",
				zap.Float64("x", box.X),
				zap.Float64("y", box.Y),
				zap.Float64("score", preds[0].Score),
				zap.Int("predictions", len(preds)),
			)
			select {
			case out <- box:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
		}
	}
}
