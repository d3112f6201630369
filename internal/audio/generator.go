package audio

import (
	"math"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"

	"github.com/iburimskiy/binaural-visualization/internal/config"
)

// Generator plays two continuous sines, one per ear, through a gain stage.
// The graph is built on the first Start and paused, never torn down, by Stop.
type Generator struct {
	out Output

	pair *binauralPair
	gain *effects.Gain
	ctrl *beep.Ctrl
	tap  *Tap
}

// NewGenerator returns a Generator that will play into out.
func NewGenerator(out Output) *Generator {
	return &Generator{out: out}
}

// Start builds the tone graph if needed and resumes output.
func (g *Generator) Start() error {
	if g.ctrl == nil {
		if err := g.out.Open(); err != nil {
			return err
		}
		g.pair = &binauralPair{rate: g.out.SampleRate()}
		g.gain = &effects.Gain{Streamer: g.pair, Gain: -1}
		g.ctrl = &beep.Ctrl{Streamer: g.gain, Paused: true}
		g.tap = NewTap(g.ctrl, config.ScopeRingSize)
		g.out.Play(g.tap)
	}
	g.out.Lock()
	g.ctrl.Paused = false
	g.out.Unlock()
	return nil
}

// Stop pauses output and keeps the graph for a quick resume.
func (g *Generator) Stop() {
	if g.ctrl == nil {
		return
	}
	g.out.Lock()
	g.ctrl.Paused = true
	g.out.Unlock()
}

// SetFrequencies retunes both tones. No-op before the first Start.
func (g *Generator) SetFrequencies(left, right float64) {
	if g.pair == nil {
		return
	}
	g.out.Lock()
	g.pair.left, g.pair.right = left, right
	g.out.Unlock()
}

// SetVolume sets the output amplitude to v squared, with v in [0,1].
// No-op before the first Start.
func (g *Generator) SetVolume(v float64) {
	if g.gain == nil {
		return
	}
	amp := PerceptualGain(v)
	g.out.Lock()
	// effects.Gain scales by 1+Gain.
	g.gain.Gain = amp - 1
	g.out.Unlock()
}

// Playing reports whether the tones are audible.
func (g *Generator) Playing() bool {
	if g.ctrl == nil {
		return false
	}
	g.out.Lock()
	defer g.out.Unlock()
	return !g.ctrl.Paused
}

// Snapshot returns recent output for the scope, oldest first.
func (g *Generator) Snapshot(n int) [][2]float64 {
	if g.tap == nil {
		return nil
	}
	return g.tap.Snapshot(n)
}

// PerceptualGain maps a linear volume in [0,1] to an amplitude.
func PerceptualGain(v float64) float64 {
	v = math.Max(0, math.Min(1, v))
	return v * v
}
