package session

import "math/rand/v2"

// Calibration target bounds, inclusive, in whole Hz.
const (
	TargetBaseMin = 30
	TargetBaseMax = 80
	TargetDiffMin = 3
	TargetDiffMax = 15
)

// Target is the hidden tuning the user searches for during calibration.
type Target struct {
	BaseFreq     float64
	BinauralDiff float64
}

// NewTarget draws a target with integer frequencies inside the bounds.
func NewTarget(rng *rand.Rand) Target {
	return Target{
		BaseFreq:     float64(TargetBaseMin + rng.IntN(TargetBaseMax-TargetBaseMin+1)),
		BinauralDiff: float64(TargetDiffMin + rng.IntN(TargetDiffMax-TargetDiffMin+1)),
	}
}
