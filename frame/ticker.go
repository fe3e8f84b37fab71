// Package frame fans the game's per-frame tick out to goroutines that
// want to run once per display refresh.
package frame

import "sync"

type Ticker struct {
	mu     sync.Mutex
	subs   []chan struct{}
	closed bool
}

func NewTicker() *Ticker {
	return &Ticker{}
}

// Subscribe returns a channel that receives at most one pending tick. A
// subscriber that falls behind sees a single tick, not a backlog. The
// channel is closed by Close.
func (t *Ticker) Subscribe() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan struct{}, 1)
	if t.closed {
		close(ch)
		return ch
	}
	t.subs = append(t.subs, ch)
	return ch
}

// Tick signals every subscriber without blocking.
func (t *Ticker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	for _, ch := range t.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (t *Ticker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	for _, ch := range t.subs {
		close(ch)
	}
	t.subs = nil
}
