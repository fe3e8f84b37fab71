package handtrack

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// scriptedDetector returns results[i] on the i-th call and repeats the
// last entry once the script runs out.
type scriptedDetector struct {
	mu      sync.Mutex
	results []scriptedResult
	calls   int
}

type scriptedResult struct {
	preds []Prediction
	err   error
}

func (d *scriptedDetector) Detect(ctx context.Context) ([]Prediction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.calls
	if i >= len(d.results) {
		i = len(d.results) - 1
	}
	d.calls++
	return d.results[i].preds, d.results[i].err
}

func (d *scriptedDetector) Close() error { return nil }

func (d *scriptedDetector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func hand(x, y float64) []Prediction {
	return []Prediction{
		{Box: BoundingBox{X: x, Y: y, Width: 10, Height: 10}, Label: "hand", Score: 0.9},
		{Box: BoundingBox{X: -1, Y: -1}, Label: "hand", Score: 0.6},
	}
}

type runResult struct {
	err error
}

func startLoop(t *testing.T, ctx context.Context, d Detector) (chan struct{}, chan BoundingBox, chan runResult) {
	t.Helper()
	ticks := make(chan struct{})
	out := make(chan BoundingBox, 8)
	done := make(chan runResult, 1)
	go func() {
		done <- runResult{err: NewLoop(d, zaptest.NewLogger(t)).Run(ctx, ticks, out)}
	}()
	return ticks, out, done
}

func waitCalls(t *testing.T, d *scriptedDetector, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return d.Calls() >= n }, 2*time.Second, time.Millisecond)
}

func TestLoopReschedulesOnBothBranches(t *testing.T) {
	d := &scriptedDetector{results: []scriptedResult{
		{preds: nil},
		{preds: hand(100, 200)},
		{preds: nil},
		{preds: hand(300, 400)},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks, out, done := startLoop(t, ctx, d)

	waitCalls(t, d, 1)
	assert.Empty(t, out, "no box for an empty result")
	assert.Equal(t, 1, d.Calls(), "loop waits for the next tick")

	ticks <- struct{}{}
	waitCalls(t, d, 2)
	select {
	case box := <-out:
		assert.Equal(t, BoundingBox{X: 100, Y: 200, Width: 10, Height: 10}, box, "first prediction wins")
	case <-time.After(2 * time.Second):
		t.Fatal("no box forwarded")
	}

	ticks <- struct{}{}
	waitCalls(t, d, 3)
	ticks <- struct{}{}
	waitCalls(t, d, 4)
	select {
	case box := <-out:
		assert.Equal(t, 300.0, box.X)
	case <-time.After(2 * time.Second):
		t.Fatal("no box forwarded")
	}

	cancel()
	res := <-done
	assert.ErrorIs(t, res.err, context.Canceled)
}

func TestLoopStopsOnDetectError(t *testing.T) {
	boom := errors.New("boom")
	d := &scriptedDetector{results: []scriptedResult{
		{preds: hand(1, 2)},
		{err: boom},
	}}

	ticks, out, done := startLoop(t, context.Background(), d)
	ticks <- struct{}{}

	select {
	case res := <-done:
		assert.ErrorIs(t, res.err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Len(t, out, 1)
	assert.Equal(t, 2, d.Calls(), "no retry after a failure")
}

func TestLoopReturnsWhenTicksClose(t *testing.T) {
	d := &scriptedDetector{results: []scriptedResult{{preds: nil}}}
	ticks, _, done := startLoop(t, context.Background(), d)
	close(ticks)

	select {
	case res := <-done:
		assert.NoError(t, res.err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopCancelledWhileForwarding(t *testing.T) {
	d := &scriptedDetector{results: []scriptedResult{{preds: hand(1, 1)}}}
	ctx, cancel := context.WithCancel(context.Background())

	out := make(chan BoundingBox) // nobody reads
	done := make(chan error, 1)
	go func() { done <- NewLoop(d, nil).Run(ctx, make(chan struct{}), out) }()

	waitCalls(t, d, 1)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

type ctxDetector struct{}

func (ctxDetector) Detect(ctx context.Context) ([]Prediction, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (ctxDetector) Close() error { return nil }

func TestLoopCancelledDuringDetect(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := NewLoop(ctxDetector{}, nil).Run(ctx, make(chan struct{}), make(chan BoundingBox))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoopAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &scriptedDetector{results: []scriptedResult{{preds: nil}}}

	err := NewLoop(d, nil).Run(ctx, make(chan struct{}), make(chan BoundingBox))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, d.Calls())
}
