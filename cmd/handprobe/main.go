// Command handprobe runs the hand detector without a window and logs every
// box it forwards, mapped onto the ground plane. Use it to check a model
// and camera before starting the game.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milk9111/handcar/common"
	"github.com/milk9111/handcar/frame"
	"github.com/milk9111/handcar/handtrack"
	"github.com/milk9111/handcar/handtrack/opencv"
	"github.com/milk9111/handcar/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(os.Args[1:]); err != nil && !errors.Is(err, flag.ErrHelp) {
		log.Fatalf("handprobe: %v", err)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("handprobe", flag.ContinueOnError)
	cameraID := flags.Int("camera", 0, "webcam device id")
	weights := flags.String("weights", "models/hand.weights", "hand detection model weights")
	cfg := flags.String("cfg", "models/hand.cfg", "hand detection model config (empty for ONNX)")
	confidence := flags.Float64("confidence", opencv.DefaultConfig().Confidence, "minimum detection score")
	flip := flags.Bool("flip", opencv.DefaultConfig().FlipHorizontal, "mirror boxes left to right")
	width := flags.Float64("w", 1280, "viewport width boxes are reported in")
	height := flags.Float64("h", 720, "viewport height boxes are reported in")
	fps := flags.Int("fps", 30, "detection rate")
	duration := flags.Duration("for", 0, "stop after this long (0 runs until interrupted)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", *fps)
	}

	logger, err := logging.New(true)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	detectorCfg := opencv.DefaultConfig()
	detectorCfg.DeviceID = *cameraID
	detectorCfg.WeightsPath = *weights
	detectorCfg.ConfigPath = *cfg
	detectorCfg.Confidence = *confidence
	detectorCfg.FlipHorizontal = *flip
	detectorCfg.ViewportWidth = *width
	detectorCfg.ViewportHeight = *height

	detector, err := opencv.New(detectorCfg)
	if err != nil {
		return fmt.Errorf("start detector: %w", err)
	}
	defer func() {
		if err := detector.Close(); err != nil {
			logger.Warn("failed to close detector", zap.Error(err))
		}
	}()

	ticker := frame.NewTicker()
	ticks := ticker.Subscribe()
	boxes := make(chan handtrack.BoundingBox, 1)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer ticker.Close()
		t := time.NewTicker(time.Second / time.Duration(*fps))
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				ticker.Tick()
			}
		}
	})

	group.Go(func() error {
		return handtrack.NewLoop(detector, logger).Run(ctx, ticks, boxes)
	})

	group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case box := <-boxes:
				wx, wz := common.MapToGround(box.X, box.Y, *width, *height, common.WorldExtent)
				logger.Info("hand",
					zap.Float64("x", box.X),
					zap.Float64("y", box.Y),
					zap.Float64("width", box.Width),
					zap.Float64("height", box.Height),
					zap.Float64("world_x", wx),
					zap.Float64("world_z", wz),
				)
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("probe stopped: %w", err)
	}
	return nil
}
