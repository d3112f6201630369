package session

import "math"

// Largest reachable errors given the slider ranges; used to normalize.
const (
	maxBaseError = 70
	maxDiffError = 19
)

// LockThreshold is the progress above which calibration completes.
const LockThreshold = 99

// Settings are the live slider values.
type Settings struct {
	BaseFreq      float64
	BinauralDiff  float64
	VolumePercent float64
}

// Frequencies returns the left and right tone frequencies.
func (s Settings) Frequencies() (left, right float64) {
	return s.BaseFreq, s.BaseFreq + s.BinauralDiff
}

// Volume returns the volume slider as a linear value in [0,1].
func (s Settings) Volume() float64 {
	return clamp(s.VolumePercent/100, 0, 1)
}

// Progress scores how close s is to t, from 0 (far) to 100 (exact).
// The averaged normalized error is doubled, so progress bottoms out once
// that error reaches 0.5.
func Progress(s Settings, t Target) float64 {
	normBase := math.Abs(s.BaseFreq-t.BaseFreq) / maxBaseError
	normDiff := math.Abs(s.BinauralDiff-t.BinauralDiff) / maxDiffError
	total := (normBase + normDiff) / 2
	return clamp(100*(1-total*2), 0, 100)
}

// Hint describes how close the user is during calibration.
type Hint int

const (
	HintSearching Hint = iota
	HintModerate
	HintNearSync
	HintNearLock
	HintLocked
)

// HintFor maps progress onto its hint band.
func HintFor(progress float64) Hint {
	switch {
	case progress > LockThreshold:
		return HintLocked
	case progress > 95:
		return HintNearLock
	case progress > 75:
		return HintNearSync
	// Inclusive: exactly half way already reads as a moderate signal.
	case progress >= 50:
		return HintModerate
	default:
		return HintSearching
	}
}

func (h Hint) String() string {
	switch h {
	case HintModerate:
		return "Moderate signal..."
	case HintNearSync:
		return "Almost in sync..."
	case HintNearLock:
		return "Resonance found. Hold steady..."
	case HintLocked:
		return "Synchronization complete!"
	default:
		return "Searching for resonance..."
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
