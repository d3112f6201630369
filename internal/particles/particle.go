package particles

import (
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	maxSpeed   = 4.0
	noiseScale = 0.01
	timeScale  = 0.005
	minSize    = 2.0
	maxSize    = 6.0
)

var (
	chaoticColor = color.NRGBA{R: 255, G: 80, B: 80, A: 100}
	calmColor    = color.NRGBA{R: 88, G: 166, B: 255, A: 200}
)

type particle struct {
	x, y   float64
	vx, vy float64
}

// step advances one frame under the flow field for harmony h and wraps
// the particle around a w by h area.
func (p *particle) step(n *perlin.Perlin, frame int, harmony, w, h float64) {
	chaos := 1 - harmony
	angle := sampleNoise(n, p.x*noiseScale, p.y*noiseScale, float64(frame)*timeScale) * 2 * math.Pi * (1 + chaos)
	force := noiseForce(harmony)
	p.vx += math.Cos(angle) * force
	p.vy += math.Sin(angle) * force

	limit := speedLimit(harmony)
	if speed := math.Hypot(p.vx, p.vy); speed > limit {
		p.vx *= limit / speed
		p.vy *= limit / speed
	}
	p.x += p.vx
	p.y += p.vy

	switch {
	case p.x > w:
		p.x = 0
	case p.x < 0:
		p.x = w
	}
	switch {
	case p.y > h:
		p.y = 0
	case p.y < 0:
		p.y = h
	}
}

func noiseForce(harmony float64) float64 { return 0.1 + 0.2*(1-harmony) }

func speedLimit(harmony float64) float64 { return maxSpeed * (0.2 + (1 - harmony)) }

func particleSize(harmony float64) float64 { return minSize + (maxSize-minSize)*harmony }

func particleColor(harmony float64) color.NRGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*harmony))
	}
	return color.NRGBA{
		R: mix(chaoticColor.R, calmColor.R),
		G: mix(chaoticColor.G, calmColor.G),
		B: mix(chaoticColor.B, calmColor.B),
		A: mix(chaoticColor.A, calmColor.A),
	}
}
