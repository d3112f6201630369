package session

// State is the controller's position in the calibrate-then-run flow.
type State int

const (
	Idle State = iota
	Calibrating
	Calibrated
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Calibrating:
		return "calibrating"
	case Calibrated:
		return "calibrated"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Active reports whether tones and particles should be producing output.
func (s State) Active() bool {
	return s == Calibrating || s == Running
}

// Status is the readout shown for the state.
func (s State) Status() string {
	switch s {
	case Calibrating:
		return "CALIBRATING"
	case Calibrated:
		return "CALIBRATED"
	case Running:
		return "SESSION ACTIVE"
	default:
		return "STANDBY"
	}
}

// ActionLabel is the text of the single action button in this state.
func (s State) ActionLabel() string {
	switch s {
	case Calibrating:
		return "Cancel Calibration"
	case Calibrated:
		return "Start Session"
	case Running:
		return "Stop Session"
	default:
		return "Start Calibration"
	}
}
