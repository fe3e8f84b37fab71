package main

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/handcar/assets"
	"github.com/milk9111/handcar/ecs"
	"github.com/milk9111/handcar/ecs/component"
	"github.com/milk9111/handcar/ecs/entity"
	"github.com/milk9111/handcar/ecs/system"
	"github.com/milk9111/handcar/frame"
	"github.com/milk9111/handcar/handtrack"
	"github.com/milk9111/handcar/prefabs"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type GameOptions struct {
	Width  float64
	Height float64
	Debug  bool
	Logger *zap.Logger

	// Ticker is ticked once per update, after the world has run.
	Ticker *frame.Ticker
	// Hands delivers boxes from the detection loop.
	Hands <-chan handtrack.BoundingBox
	// Watcher, when set, reloads the vehicle model and ground on edit.
	Watcher *prefabs.Watcher
}

// Game owns the scene. Only Update and Draw touch the world; everything
// running on other goroutines talks to it over channels.
type Game struct {
	ctx    context.Context
	logger *zap.Logger
	debug  bool
	frames int

	width  float64
	height float64

	world   *ecs.World
	ticker  *frame.Ticker
	hands   <-chan handtrack.BoundingBox
	watcher *prefabs.Watcher

	vehicleSpec *prefabs.VehicleSpec
	vehicleLoad <-chan assets.Result
	prefabMods  map[string]time.Time
}

func NewGame(ctx context.Context, opts GameOptions) (*Game, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = baseWidth, baseHeight
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	world := ecs.NewWorld()
	world.AddSystem(system.NewCameraSystem(opts.Width, opts.Height))
	world.AddSystem(system.NewSteerSystem(opts.Width, opts.Height))
	world.AddSystem(system.NewRenderSystem())

	if _, err := entity.NewCamera(world); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	if _, err := entity.NewGround(world); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	g := &Game{
		ctx:     ctx,
		logger:  opts.Logger,
		debug:   opts.Debug,
		width:   opts.Width,
		height:  opts.Height,
		world:   world,
		ticker:  opts.Ticker,
		hands:   opts.Hands,
		watcher: opts.Watcher,

		prefabMods: make(map[string]time.Time),
	}

	spec, err := prefabs.LoadVehicleSpec()
	if err != nil {
		g.logger.Error("failed to load vehicle prefab", zap.Error(err))
		return g, nil
	}
	g.vehicleSpec = spec
	g.vehicleLoad = assets.LoadModelAsync(spec.Model)

	return g, nil
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	g.frames++

	g.pollVehicle()
	g.pollChanges()
	g.drainHands()

	g.world.Update()

	if g.ticker != nil {
		g.ticker.Tick()
	}
	return nil
}

func (g *Game) pollVehicle() {
	if g.vehicleLoad == nil {
		return
	}

	select {
	case res, ok := <-g.vehicleLoad:
		g.vehicleLoad = nil
		if !ok {
			return
		}
		g.attachVehicle(res)
	default:
	}
}

func (g *Game) attachVehicle(res assets.Result) {
	if res.Err != nil {
		g.logger.Error("failed to load vehicle model", zap.String("path", res.Path), zap.Error(res.Err))
		return
	}

	replaced, err := entity.ReplaceVehicleModel(g.world, res.Model)
	if err != nil {
		g.logger.Error("failed to reload vehicle model", zap.String("path", res.Path), zap.Error(err))
		return
	}
	if replaced {
		g.logger.Info("vehicle model reloaded", zap.String("path", res.Path))
		return
	}

	if _, err := entity.NewVehicle(g.world, g.vehicleSpec, res.Model); err != nil {
		g.logger.Error("failed to attach vehicle", zap.String("path", res.Path), zap.Error(err))
		return
	}
	g.logger.Info("vehicle loaded", zap.String("path", res.Path), zap.Int("parts", len(res.Model.Parts)))
}

func (g *Game) pollChanges() {
	if g.watcher == nil {
		return
	}

	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("prefab watcher error", zap.Error(err))
			}
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	switch change.Dir {
	case "assets":
		if g.vehicleSpec != nil && change.Name == path.Base(g.vehicleSpec.Model) {
			g.logger.Debug("vehicle model changed", zap.String("file", change.Name))
			g.vehicleLoad = assets.LoadModelAsync(g.vehicleSpec.Model)
		}
	case "prefabs":
		if !g.prefabChanged(change.Name) {
			g.logger.Debug("prefab unchanged, skipping reload", zap.String("file", change.Name))
			return
		}
		switch change.Name {
		case "ground.yaml":
			g.reloadGround()
		case "vehicle.yaml":
			g.reloadVehicleSpec()
		}
	}
}

// prefabChanged reports whether the prefab on disk differs from the copy
// last reloaded, going by modification time. A prefab missing from disk
// always counts as changed.
func (g *Game) prefabChanged(name string) bool {
	mod, ok := prefabs.ModTime(name)
	if !ok {
		delete(g.prefabMods, name)
		return true
	}
	if last, seen := g.prefabMods[name]; seen && last.Equal(mod) {
		return false
	}
	g.prefabMods[name] = mod
	return true
}

func (g *Game) reloadVehicleSpec() {
	spec, err := prefabs.LoadVehicleSpec()
	if err != nil {
		g.logger.Error("failed to reload vehicle prefab", zap.Error(err))
		return
	}
	g.vehicleSpec = spec

	if _, err := entity.ApplyVehicleSpec(g.world, spec); err != nil {
		g.logger.Error("failed to apply vehicle prefab", zap.Error(err))
	}
	g.vehicleLoad = assets.LoadModelAsync(spec.Model)
	g.logger.Info("vehicle prefab reloaded", zap.String("model", spec.Model))
}

func (g *Game) reloadGround() {
	spec, err := prefabs.LoadGroundSpec()
	if err != nil {
		g.logger.Error("failed to reload ground", zap.Error(err))
		return
	}
	for _, e := range g.world.Query(component.GroundTagComponent.Kind()) {
		g.world.DestroyEntity(e)
	}
	if _, err := entity.NewGroundFromSpec(g.world, spec); err != nil {
		g.logger.Error("failed to rebuild ground", zap.Error(err))
		return
	}
	g.logger.Info("ground reloaded")
}

// drainHands turns every box the detection loop has produced since the
// last update into a hand event for this tick.
func (g *Game) drainHands() {
	if g.hands == nil {
		return
	}

	for {
		select {
		case box, ok := <-g.hands:
			if !ok {
				g.hands = nil
				return
			}
			g.world.Events().Push(ecs.Event{
				Type: ecs.EventHandMoved,
				Data: ecs.HandMovedEvent{X: box.X, Y: box.Y},
			})
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Draw(screen)

	if g.debug && screen != nil {
		ebitenutil.DebugPrint(screen, g.debugText())
	}
}

func (g *Game) debugText() string {
	text := fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS())

	vehicle, ok := g.world.First(component.VehicleTagComponent.Kind())
	if !ok {
		return text + "\nvehicle: not loaded"
	}
	t, ok := ecs.Get(g.world, vehicle, component.TransformComponent)
	if !ok {
		return text
	}
	return text + fmt.Sprintf("\nvehicle: x=%.2f z=%.2f yaw=%.2f", t.X, t.Z, t.Yaw)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.width, g.height
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
