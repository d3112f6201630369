// Package session owns the calibrate-then-run state machine. It scores the
// user's slider settings against a hidden target while calibrating and
// drives the tone generator and particle field from the result.
package session

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/binaural-visualization/internal/clock"
	"github.com/iburimskiy/binaural-visualization/internal/config"
	"github.com/iburimskiy/binaural-visualization/internal/logging"
)

// DefaultTick is the scoring period while calibrating.
const DefaultTick = 100 * time.Millisecond

// ToneGenerator plays the two binaural tones.
type ToneGenerator interface {
	Start() error
	Stop()
	SetFrequencies(left, right float64)
	SetVolume(linear float64)
}

// ParticleField renders the harmony-driven visualization.
type ParticleField interface {
	Start()
	Stop()
	SetHarmony(h float64)
}

// CuePlayer plays the short start and stop sounds. Calls must not block.
type CuePlayer interface {
	PlayStart()
	PlayStop()
}

// Scheduler runs fn every period until the returned Cancel is called.
type Scheduler interface {
	Every(period time.Duration, fn func()) clock.Cancel
}

// Options configures a Controller. Tones, Field, Cues and Scheduler are
// required.
type Options struct {
	Tones     ToneGenerator
	Field     ParticleField
	Cues      CuePlayer
	Scheduler Scheduler
	Rand      *rand.Rand
	Logger    *slog.Logger
	Tick      time.Duration
	Initial   Settings
}

// View is a snapshot of everything the UI mirrors.
type View struct {
	State         State
	Status        string
	ActionLabel   string
	Settings      Settings
	SlidersLocked bool
	ShowProgress  bool
	Progress      float64
	Hint          Hint
}

// Controller is the single owner of session state.
type Controller struct {
	tones ToneGenerator
	field ParticleField
	cues  CuePlayer
	sched Scheduler
	rng   *rand.Rand
	log   *slog.Logger
	tick  time.Duration

	state      State
	settings   Settings
	target     *Target
	progress   float64
	hint       Hint
	cancelTick clock.Cancel
}

// NewController returns a Controller in the Idle state.
func NewController(opts Options) *Controller {
	c := &Controller{
		tones: opts.Tones,
		field: opts.Field,
		cues:  opts.Cues,
		sched: opts.Scheduler,
		rng:   opts.Rand,
		log:   opts.Logger,
		tick:  opts.Tick,
		state: Idle,
	}
	if c.rng == nil {
		seed := uint64(time.Now().UnixNano())
		c.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	if c.tick <= 0 {
		c.tick = DefaultTick
	}
	c.settings = Settings{
		BaseFreq:      clamp(opts.Initial.BaseFreq, config.BaseFreqMin, config.BaseFreqMax),
		BinauralDiff:  clamp(opts.Initial.BinauralDiff, config.BinauralDiffMin, config.BinauralDiffMax),
		VolumePercent: clamp(opts.Initial.VolumePercent, config.VolumeMin, config.VolumeMax),
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Target returns the hidden target and whether one exists. A target exists
// only while calibrating.
func (c *Controller) Target() (Target, bool) {
	if c.target == nil {
		return Target{}, false
	}
	return *c.target, true
}

// View returns a snapshot for the UI.
func (c *Controller) View() View {
	return View{
		State:         c.state,
		Status:        c.state.Status(),
		ActionLabel:   c.state.ActionLabel(),
		Settings:      c.settings,
		SlidersLocked: c.state == Calibrated || c.state == Running,
		ShowProgress:  c.state == Calibrating || c.state == Calibrated,
		Progress:      c.progress,
		Hint:          c.hint,
	}
}

// Action performs whatever the action button means in the current state.
func (c *Controller) Action() {
	switch c.state {
	case Idle:
		c.StartCalibration()
	case Calibrating:
		c.CancelCalibration()
	case Calibrated:
		c.BeginSession()
	case Running:
		c.StopSession()
	}
}

// StartCalibration picks a new target, starts the collaborators and the
// scoring loop. It only applies in Idle.
func (c *Controller) StartCalibration() bool {
	if c.state != Idle {
		return false
	}
	t := NewTarget(c.rng)
	c.target = &t
	c.progress = 0
	c.hint = HintSearching
	c.state = Calibrating
	c.log.Info("calibration started")
	c.log.Debug("calibration target", "base_hz", t.BaseFreq, "diff_hz", t.BinauralDiff)

	c.startOutputs()
	c.pushSettings()
	c.field.SetHarmony(0)
	c.cancelTick = c.sched.Every(c.tick, c.score)
	return true
}

// CancelCalibration abandons the attempt and returns to Idle.
func (c *Controller) CancelCalibration() bool {
	if c.state != Calibrating {
		return false
	}
	c.log.Info("calibration cancelled")
	c.stopAll()
	return true
}

// BeginSession resumes output after a successful calibration.
func (c *Controller) BeginSession() bool {
	if c.state != Calibrated {
		return false
	}
	c.state = Running
	c.log.Info("session started")
	c.cues.PlayStart()
	c.startOutputs()
	c.pushSettings()
	return true
}

// StopSession ends a running session.
func (c *Controller) StopSession() bool {
	if c.state != Running {
		return false
	}
	c.log.Info("session stopped")
	c.stopAll()
	return true
}

// SetBaseFreq moves the base frequency slider.
func (c *Controller) SetBaseFreq(hz float64) {
	c.settings.BaseFreq = clamp(hz, config.BaseFreqMin, config.BaseFreqMax)
	c.sliderChanged()
}

// SetBinauralDiff moves the binaural difference slider.
func (c *Controller) SetBinauralDiff(hz float64) {
	c.settings.BinauralDiff = clamp(hz, config.BinauralDiffMin, config.BinauralDiffMax)
	c.sliderChanged()
}

// SetVolume moves the volume slider, in percent.
func (c *Controller) SetVolume(percent float64) {
	c.settings.VolumePercent = clamp(percent, config.VolumeMin, config.VolumeMax)
	c.sliderChanged()
}

// Close cancels the scoring loop and silences output.
func (c *Controller) Close() {
	c.cancelScoring()
	if c.state.Active() {
		c.tones.Stop()
		c.field.Stop()
	}
}

func (c *Controller) sliderChanged() {
	if c.state.Active() {
		c.pushSettings()
	}
}

func (c *Controller) pushSettings() {
	left, right := c.settings.Frequencies()
	c.tones.SetFrequencies(left, right)
	c.tones.SetVolume(c.settings.Volume())
}

func (c *Controller) score() {
	// A tick that slipped past a transition has nothing to score.
	if c.state != Calibrating || c.target == nil {
		return
	}
	c.progress = Progress(c.settings, *c.target)
	c.hint = HintFor(c.progress)
	c.field.SetHarmony(c.progress / 100)
	c.log.Log(context.Background(), logging.LevelTrace, "calibration tick",
		"progress", c.progress, "hint", c.hint.String())

	if c.progress > LockThreshold {
		c.cancelScoring()
		c.target = nil
		c.state = Calibrated
		c.tones.Stop()
		c.field.Stop()
		c.cues.PlayStop()
		c.log.Info("calibration complete")
	}
}

func (c *Controller) startOutputs() {
	if err := c.tones.Start(); err != nil {
		c.log.Warn("tone generator failed to start", "error", err)
	}
	c.field.Start()
}

func (c *Controller) stopAll() {
	c.cancelScoring()
	c.target = nil
	c.state = Idle
	c.progress = 0
	c.hint = HintSearching
	c.tones.Stop()
	c.field.Stop()
	c.cues.PlayStop()
}

func (c *Controller) cancelScoring() {
	if c.cancelTick != nil {
		c.cancelTick()
		c.cancelTick = nil
	}
}
