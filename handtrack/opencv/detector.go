// Package opencv detects hands in a webcam feed with an OpenCV DNN model.
// Outputs are read as YOLO rows of [cx, cy, w, h, objectness, classes...],
// either as a 2-D darknet layer or a [1, N, C] ONNX tensor.
package opencv

import (
	"context"
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/milk9111/handcar/handtrack"
	"go.uber.org/multierr"
	"gocv.io/x/gocv"
)

// Config holds configuration options for the OpenCV hand detector.
type Config struct {
	// DeviceID is the webcam index passed to OpenCV.
	DeviceID int

	// WeightsPath and ConfigPath are handed to gocv.ReadNet. ConfigPath
	// may be empty for formats that carry their own graph (ONNX).
	WeightsPath string
	ConfigPath  string

	// Labels names the model's classes in output order.
	Labels []string

	// Confidence is the minimum class score (0.0-1.0) kept.
	Confidence float64

	// FlipHorizontal reports boxes as if the frame were mirrored, so the
	// hand and the car move the same way on screen.
	FlipHorizontal bool

	// InputSize is the square network input side in pixels.
	InputSize int

	// Boxes are reported in a viewport of this size.
	ViewportWidth  float64
	ViewportHeight float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Labels:         []string{"hand"},
		Confidence:     0.6,
		FlipHorizontal: true,
		InputSize:      416,
	}
}

type Detector struct {
	cfg      Config
	net      gocv.Net
	capture  *gocv.VideoCapture
	frame    gocv.Mat
	outNames []string
	mu       sync.Mutex
}

var _ handtrack.Detector = (*Detector)(nil)

// New loads the model and opens the webcam. Both must succeed; on failure
// everything opened so far is released.
func New(cfg Config) (*Detector, error) {
	def := DefaultConfig()
	if cfg.InputSize <= 0 {
		cfg.InputSize = def.InputSize
	}
	if len(cfg.Labels) == 0 {
		cfg.Labels = def.Labels
	}
	if cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0 {
		return nil, fmt.Errorf("opencv: invalid viewport %vx%v", cfg.ViewportWidth, cfg.ViewportHeight)
	}

	net := gocv.ReadNet(cfg.WeightsPath, cfg.ConfigPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: %s", handtrack.ErrModelNotLoaded, cfg.WeightsPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	capture, err := gocv.VideoCaptureDevice(cfg.DeviceID)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("opencv: open camera %d: %w", cfg.DeviceID, err), net.Close())
	}
	if !capture.IsOpened() {
		return nil, multierr.Combine(
			fmt.Errorf("%w: device %d", handtrack.ErrCaptureNotOpen, cfg.DeviceID),
			capture.Close(),
			net.Close(),
		)
	}
	// keep only the newest frame so detections don't lag behind the hand
	capture.Set(gocv.VideoCaptureBufferSize, 1)

	return &Detector{
		cfg:      cfg,
		net:      net,
		capture:  capture,
		frame:    gocv.NewMat(),
		outNames: outputLayerNames(&net),
	}, nil
}

func outputLayerNames(net *gocv.Net) []string {
	names := net.GetLayerNames()
	var out []string
	for _, id := range net.GetUnconnectedOutLayers() {
		if id > 0 && id <= len(names) {
			out = append(out, names[id-1])
		}
	}
	return out
}

// Detect grabs the newest frame and runs the model on it.
func (d *Detector) Detect(ctx context.Context) ([]handtrack.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if ok := d.capture.Read(&d.frame); !ok || d.frame.Empty() {
		return nil, handtrack.ErrFrameUnavailable
	}

	size := image.Pt(d.cfg.InputSize, d.cfg.InputSize)
	blob := gocv.BlobFromImage(d.frame, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	var outputs []gocv.Mat
	if len(d.outNames) > 0 {
		outputs = d.net.ForwardLayers(d.outNames)
	} else {
		outputs = []gocv.Mat{d.net.Forward("")}
	}
	defer func() {
		for i := range outputs {
			outputs[i].Close()
		}
	}()

	var preds []handtrack.Prediction
	for _, out := range outputs {
		preds = append(preds, d.decode(out)...)
	}
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Score > preds[j].Score
	})
	return preds, nil
}

// decode reads rows of [cx, cy, w, h, objectness, class scores...], all
// normalised to the network input.
func (d *Detector) decode(out gocv.Mat) []handtrack.Prediction {
	switch sizes := out.Size(); {
	case len(sizes) == 3 && sizes[0] == 1:
		flat := out.Reshape(1, sizes[1])
		defer flat.Close()
		out = flat
	case len(sizes) != 2:
		return nil
	}
	if out.Cols() <= 5 {
		return nil
	}

	toBox := handtrack.BoxFromNormalized
	if d.cfg.FlipHorizontal {
		toBox = handtrack.MirroredBoxFromNormalized
	}

	var preds []handtrack.Prediction
	for i := 0; i < out.Rows(); i++ {
		row := out.RowRange(i, i+1)
		scores := row.ColRange(5, row.Cols())
		_, maxVal, _, maxLoc := gocv.MinMaxLoc(scores)
		classID := maxLoc.X
		score := float64(maxVal)

		if score >= d.cfg.Confidence && classID < len(d.cfg.Labels) {
			box := toBox(
				float64(out.GetFloatAt(i, 0)),
				float64(out.GetFloatAt(i, 1)),
				float64(out.GetFloatAt(i, 2)),
				float64(out.GetFloatAt(i, 3)),
				d.cfg.ViewportWidth,
				d.cfg.ViewportHeight,
			)
			preds = append(preds, handtrack.Prediction{
				Box:   box,
				Label: d.cfg.Labels[classID],
				Score: score,
			})
		}

		scores.Close()
		row.Close()
	}
	return preds
}

// Close releases the frame buffer, the webcam and the network.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return multierr.Combine(
		d.frame.Close(),
		d.capture.Close(),
		d.net.Close(),
	)
}
