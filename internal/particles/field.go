// Package particles draws a field of particles whose motion calms and
// whose color cools as harmony approaches 1.
package particles

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
	"github.com/charmbracelet/harmonica"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	background = color.RGBA{R: 13, G: 17, B: 23, A: 255}
	// Drawn over the previous frame each tick so particles leave trails.
	fadeVeil = color.NRGBA{R: 13, G: 17, B: 23, A: 150}
)

// Field is a paused-by-default particle animation.
type Field struct {
	width, height float64
	particles     []particle
	noise         *perlin.Perlin
	frame         int

	harmony  float64
	shown    float64
	velocity float64
	spring   harmonica.Spring

	running    bool
	needsClear bool
	canvas     *ebiten.Image
}

// NewField scatters count particles over a width by height area.
func NewField(width, height, count int, rng *rand.Rand) *Field {
	f := &Field{
		width:      float64(width),
		height:     float64(height),
		particles:  make([]particle, count),
		noise:      newNoise(rng.Int64()),
		spring:     harmonica.NewSpring(harmonica.FPS(ebiten.DefaultTPS), 4.0, 1.0),
		needsClear: true,
	}
	for i := range f.particles {
		f.particles[i] = particle{
			x:  rng.Float64() * f.width,
			y:  rng.Float64() * f.height,
			vx: rng.Float64()*2 - 1,
			vy: rng.Float64()*2 - 1,
		}
	}
	return f
}

// Start resumes the animation.
func (f *Field) Start() { f.running = true }

// Stop pauses the animation; the next Draw renders a cleared frame.
func (f *Field) Stop() {
	f.running = false
	f.needsClear = true
}

// SetHarmony sets the target harmony, clamped to [0,1].
func (f *Field) SetHarmony(h float64) {
	f.harmony = math.Max(0, math.Min(1, h))
}

// Running reports whether the animation advances.
func (f *Field) Running() bool { return f.running }

// Harmony returns the harmony currently being rendered, which eases toward
// the value given to SetHarmony.
func (f *Field) Harmony() float64 { return f.shown }

// Update advances one frame. It does nothing while stopped.
func (f *Field) Update() {
	if !f.running {
		return
	}
	f.shown, f.velocity = f.spring.Update(f.shown, f.velocity, f.harmony)
	f.shown = math.Max(0, math.Min(1, f.shown))
	f.frame++
	for i := range f.particles {
		f.particles[i].step(f.noise, f.frame, f.shown, f.width, f.height)
	}
}

// Draw paints the field onto screen.
func (f *Field) Draw(screen *ebiten.Image) {
	if f.canvas == nil {
		f.canvas = ebiten.NewImage(int(f.width), int(f.height))
	}
	if f.needsClear {
		f.canvas.Fill(background)
		f.needsClear = false
	}
	if f.running {
		vector.DrawFilledRect(f.canvas, 0, 0, float32(f.width), float32(f.height), fadeVeil, false)
		c := particleColor(f.shown)
		r := float32(particleSize(f.shown) / 2)
		for _, p := range f.particles {
			vector.DrawFilledCircle(f.canvas, float32(p.x), float32(p.y), r, c, true)
		}
	}
	screen.DrawImage(f.canvas, nil)
}
