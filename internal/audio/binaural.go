package audio

import (
	"math"

	"github.com/faiface/beep"
)

// binauralPair streams one sine per channel. Frequencies are changed under
// the output lock and take effect on the next sample.
type binauralPair struct {
	rate        beep.SampleRate
	left, right float64
	lphase      float64
	rphase      float64
}

func (p *binauralPair) Stream(samples [][2]float64) (int, bool) {
	lstep := 2 * math.Pi * p.left / float64(p.rate)
	rstep := 2 * math.Pi * p.right / float64(p.rate)
	for i := range samples {
		samples[i][0] = math.Sin(p.lphase)
		samples[i][1] = math.Sin(p.rphase)
		p.lphase = math.Mod(p.lphase+lstep, 2*math.Pi)
		p.rphase = math.Mod(p.rphase+rstep, 2*math.Pi)
	}
	return len(samples), true
}

func (p *binauralPair) Err() error { return nil }
