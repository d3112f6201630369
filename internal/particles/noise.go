package particles

import (
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
)

func newNoise(seed int64) *perlin.Perlin {
	return perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)
}

// sampleNoise maps octave noise from roughly [-1,1] to [0,1].
func sampleNoise(n *perlin.Perlin, x, y, z float64) float64 {
	return math.Max(0, math.Min(1, (n.Noise3D(x, y, z)+1)/2))
}
