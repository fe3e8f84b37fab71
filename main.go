package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/handcar/frame"
	"github.com/milk9111/handcar/handtrack"
	"github.com/milk9111/handcar/handtrack/opencv"
	"github.com/milk9111/handcar/logging"
	"github.com/milk9111/handcar/prefabs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug overlay, debug logs and prefab hot reload")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	cameraID := flag.Int("camera", 0, "webcam device id")
	weights := flag.String("weights", "models/hand.weights", "hand detection model weights")
	cfg := flag.String("cfg", "models/hand.cfg", "hand detection model config (empty for ONNX)")
	confidence := flag.Float64("confidence", opencv.DefaultConfig().Confidence, "minimum detection score")
	flip := flag.Bool("flip", opencv.DefaultConfig().FlipHorizontal, "mirror the camera so the car follows the hand like a mirror")
	flag.Parse()

	logger, err := logging.New(*debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	// The viewport is fixed at startup; there is no resize handling.
	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("handcar")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := frame.NewTicker()
	defer ticker.Close()
	hands := make(chan handtrack.BoundingBox, 1)

	var watcher *prefabs.Watcher
	if *debug {
		watcher, err = prefabs.NewWatcher("prefabs", "assets")
		if err != nil {
			logger.Warn("prefab hot reload disabled", zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	game, err := NewGame(ctx, GameOptions{
		Width:   float64(w),
		Height:  float64(h),
		Debug:   *debug,
		Logger:  logger,
		Ticker:  ticker,
		Hands:   hands,
		Watcher: watcher,
	})
	if err != nil {
		logger.Fatal("failed to build scene", zap.Error(err))
	}

	loopCtx, cancelLoop := context.WithCancel(ctx)
	var group errgroup.Group

	detectorCfg := opencv.DefaultConfig()
	detectorCfg.DeviceID = *cameraID
	detectorCfg.WeightsPath = *weights
	detectorCfg.ConfigPath = *cfg
	detectorCfg.Confidence = *confidence
	detectorCfg.FlipHorizontal = *flip
	detectorCfg.ViewportWidth = float64(w)
	detectorCfg.ViewportHeight = float64(h)

	detector, err := opencv.New(detectorCfg)
	if err != nil {
		// The scene still renders, the vehicle just never moves.
		logger.Error("hand detection unavailable", zap.Error(err))
	} else {
		logger.Info("hand detection started", zap.Int("camera", *cameraID), zap.String("weights", *weights))
		group.Go(func() error {
			defer func() {
				if err := detector.Close(); err != nil {
					logger.Warn("failed to close detector", zap.Error(err))
				}
			}()
			err := handtrack.NewLoop(detector, logger).Run(loopCtx, ticker.Subscribe(), hands)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("hand detection stopped", zap.Error(err))
			}
			return nil
		})
	}

	runErr := ebiten.RunGame(game)
	cancelLoop()
	_ = group.Wait()

	if runErr != nil {
		logger.Fatal("game exited", zap.Error(runErr))
	}
}
