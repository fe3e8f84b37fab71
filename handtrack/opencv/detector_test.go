package opencv

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// rows is a hand above the threshold at the left of the frame and a weak
// one that must be dropped.
var rows = [][]float32{
	{0.1, 0.5, 0.1, 0.1, 0.9, 0.8},
	{0.7, 0.5, 0.1, 0.1, 0.9, 0.3},
}

func floatBytes(rows [][]float32) []byte {
	var out []byte
	for _, row := range rows {
		for _, v := range row {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out
}

func testDetector(flip bool) *Detector {
	cfg := DefaultConfig()
	cfg.FlipHorizontal = flip
	cfg.ViewportWidth = 1280
	cfg.ViewportHeight = 720
	return &Detector{cfg: cfg}
}

func TestDecodeDarknetRows(t *testing.T) {
	out, err := gocv.NewMatFromBytes(len(rows), len(rows[0]), gocv.MatTypeCV32F, floatBytes(rows))
	require.NoError(t, err)
	defer out.Close()

	tests := []struct {
		name  string
		flip  bool
		wantX float64
	}{
		{"mirrored", true, 1088},
		{"raw", false, 64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			preds := testDetector(tc.flip).decode(out)
			require.Len(t, preds, 1)
			assert.Equal(t, "hand", preds[0].Label)
			assert.InDelta(t, 0.8, preds[0].Score, 1e-6)
			assert.InDelta(t, tc.wantX, preds[0].Box.X, 1e-3)
			assert.InDelta(t, 324, preds[0].Box.Y, 1e-3)
		})
	}
}

func TestDecodeONNXTensor(t *testing.T) {
	out, err := gocv.NewMatWithSizesFromBytes([]int{1, len(rows), len(rows[0])}, gocv.MatTypeCV32F, floatBytes(rows))
	require.NoError(t, err)
	defer out.Close()

	preds := testDetector(true).decode(out)
	require.Len(t, preds, 1)
	assert.InDelta(t, 1088, preds[0].Box.X, 1e-3)
}

func TestDecodeIgnoresOutputsWithoutClassScores(t *testing.T) {
	out, err := gocv.NewMatFromBytes(1, 5, gocv.MatTypeCV32F, floatBytes([][]float32{{0.5, 0.5, 0.1, 0.1, 0.9}}))
	require.NoError(t, err)
	defer out.Close()

	assert.Empty(t, testDetector(true).decode(out))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 0.6, cfg.Confidence)
	assert.True(t, cfg.FlipHorizontal)
	assert.Equal(t, []string{"hand"}, cfg.Labels)
}
