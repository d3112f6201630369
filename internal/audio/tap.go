package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap passes a stream through and keeps the most recent samples in a ring
// so the scope can draw what was just played.
type Tap struct {
	Source beep.Streamer

	mu   sync.RWMutex
	ring [][2]float64
	next int
	full bool
}

// NewTap wraps src with a ring of size samples.
func NewTap(src beep.Streamer, size int) *Tap {
	return &Tap{Source: src, ring: make([][2]float64, size)}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n == 0 {
		return n, ok
	}
	t.mu.Lock()
	for _, s := range samples[:n] {
		t.ring[t.next] = s
		t.next++
		if t.next == len(t.ring) {
			t.next = 0
			t.full = true
		}
	}
	t.mu.Unlock()
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Snapshot returns up to n recorded samples, oldest first.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	have := t.next
	if t.full {
		have = len(t.ring)
	}
	if n > have {
		n = have
	}
	out := make([][2]float64, n)
	start := t.next - n
	if start < 0 {
		start += len(t.ring)
	}
	for i := range out {
		out[i] = t.ring[(start+i)%len(t.ring)]
	}
	return out
}
