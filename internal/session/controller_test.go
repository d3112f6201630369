package session

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/iburimskiy/binaural-visualization/internal/clock"
)

type fakeTones struct {
	starts, stops int
	freqCalls     int
	volCalls      int
	left, right   float64
	volume        float64
	startErr      error
	active        bool
}

func (f *fakeTones) Start() error {
	f.starts++
	f.active = true
	return f.startErr
}

func (f *fakeTones) Stop() {
	f.stops++
	f.active = false
}

func (f *fakeTones) SetFrequencies(left, right float64) {
	f.freqCalls++
	f.left, f.right = left, right
}

func (f *fakeTones) SetVolume(v float64) {
	f.volCalls++
	f.volume = v
}

type fakeField struct {
	starts, stops int
	harmony       []float64
	active        bool
}

func (f *fakeField) Start() {
	f.starts++
	f.active = true
}

func (f *fakeField) Stop() {
	f.stops++
	f.active = false
}

func (f *fakeField) SetHarmony(h float64) { f.harmony = append(f.harmony, h) }

type fakeCues struct {
	starts, stops int
}

func (f *fakeCues) PlayStart() { f.starts++ }
func (f *fakeCues) PlayStop()  { f.stops++ }

type harness struct {
	ctrl   *Controller
	tones  *fakeTones
	field  *fakeField
	cues   *fakeCues
	timers *clock.Timers
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		tones:  &fakeTones{},
		field:  &fakeField{},
		cues:   &fakeCues{},
		timers: clock.NewTimers(),
	}
	h.ctrl = NewController(Options{
		Tones:     h.tones,
		Field:     h.field,
		Cues:      h.cues,
		Scheduler: h.timers,
		Rand:      rand.New(rand.NewPCG(7, 11)),
		Initial:   Settings{BaseFreq: 10, BinauralDiff: 22, VolumePercent: 50},
	})
	return h
}

// tuneTo moves the sliders onto the hidden target.
func (h *harness) tuneTo(t *testing.T) {
	t.Helper()
	target, ok := h.ctrl.Target()
	if !ok {
		t.Fatal("expected a calibration target")
	}
	h.ctrl.SetBaseFreq(target.BaseFreq)
	h.ctrl.SetBinauralDiff(target.BinauralDiff)
}

func (h *harness) calibrate(t *testing.T) {
	t.Helper()
	h.ctrl.StartCalibration()
	h.tuneTo(t)
	h.timers.Advance(DefaultTick)
	if h.ctrl.State() != Calibrated {
		t.Fatalf("expected Calibrated, got %v", h.ctrl.State())
	}
}

func TestInitialState(t *testing.T) {
	h := newHarness(t)
	v := h.ctrl.View()

	if v.State != Idle {
		t.Errorf("expected Idle, got %v", v.State)
	}
	if v.ActionLabel != "Start Calibration" {
		t.Errorf("unexpected label %q", v.ActionLabel)
	}
	if v.SlidersLocked || v.ShowProgress {
		t.Errorf("idle view should have unlocked sliders and no progress: %+v", v)
	}
	if _, ok := h.ctrl.Target(); ok {
		t.Error("idle controller should have no target")
	}
	if h.timers.Pending() != 0 {
		t.Error("idle controller should not schedule ticks")
	}
}

func TestStartCalibration(t *testing.T) {
	h := newHarness(t)

	if !h.ctrl.StartCalibration() {
		t.Fatal("StartCalibration should apply from Idle")
	}
	if h.ctrl.State() != Calibrating {
		t.Fatalf("expected Calibrating, got %v", h.ctrl.State())
	}
	if _, ok := h.ctrl.Target(); !ok {
		t.Error("expected target while calibrating")
	}
	if h.tones.starts != 1 || h.field.starts != 1 {
		t.Errorf("expected collaborators started once, tones=%d field=%d", h.tones.starts, h.field.starts)
	}
	if h.tones.left != 10 || h.tones.right != 32 {
		t.Errorf("expected initial frequencies 10/32, got %v/%v", h.tones.left, h.tones.right)
	}
	if h.tones.volume != 0.5 {
		t.Errorf("expected volume 0.5, got %v", h.tones.volume)
	}
	if h.timers.Pending() != 1 {
		t.Errorf("expected one scoring timer, got %d", h.timers.Pending())
	}
	if h.cues.starts != 0 || h.cues.stops != 0 {
		t.Errorf("no cue should play when calibration starts: %+v", h.cues)
	}
}

func TestScoringTickFeedsHarmony(t *testing.T) {
	h := newHarness(t)
	h.ctrl.StartCalibration()
	target, _ := h.ctrl.Target()

	h.ctrl.SetBaseFreq(target.BaseFreq)
	h.ctrl.SetBinauralDiff(target.BinauralDiff + 1)
	h.field.harmony = nil

	h.timers.Advance(DefaultTick - time.Millisecond)
	if len(h.field.harmony) != 0 {
		t.Fatal("tick fired early")
	}
	h.timers.Advance(time.Millisecond)

	want := Progress(h.ctrl.View().Settings, target)
	if len(h.field.harmony) != 1 || h.field.harmony[0] != want/100 {
		t.Fatalf("expected harmony %v, got %v", want/100, h.field.harmony)
	}
	v := h.ctrl.View()
	if v.Progress != want {
		t.Errorf("view progress = %v, want %v", v.Progress, want)
	}
	if v.Hint != HintFor(want) {
		t.Errorf("view hint = %v, want %v", v.Hint, HintFor(want))
	}
	if h.ctrl.State() != Calibrating {
		t.Errorf("should still be calibrating at progress %v", want)
	}
}

func TestExactMatchLocksOnObservingTick(t *testing.T) {
	h := newHarness(t)
	h.ctrl.StartCalibration()
	h.tuneTo(t)

	h.timers.Advance(DefaultTick)

	if h.ctrl.State() != Calibrated {
		t.Fatalf("expected Calibrated, got %v", h.ctrl.State())
	}
	v := h.ctrl.View()
	if v.Progress != 100 {
		t.Errorf("expected progress 100, got %v", v.Progress)
	}
	if v.Hint != HintLocked {
		t.Errorf("expected locked hint, got %v", v.Hint)
	}
	if !v.SlidersLocked {
		t.Error("sliders should lock once calibrated")
	}
	if _, ok := h.ctrl.Target(); ok {
		t.Error("target should be discarded once calibrated")
	}
	if h.timers.Pending() != 0 {
		t.Error("scoring timer should be cancelled once calibrated")
	}
	if h.cues.stops != 1 {
		t.Errorf("expected success cue, got %d", h.cues.stops)
	}
	if h.tones.active || h.field.active {
		t.Error("tones and particles should pause while calibrated")
	}
	if last := h.field.harmony[len(h.field.harmony)-1]; last != 1 {
		t.Errorf("expected final harmony 1, got %v", last)
	}

	ticksBefore := len(h.field.harmony)
	h.timers.Advance(time.Second)
	if len(h.field.harmony) != ticksBefore {
		t.Error("no ticks should fire after calibration completes")
	}
}

func TestCancelCalibration(t *testing.T) {
	h := newHarness(t)
	h.ctrl.StartCalibration()
	h.timers.Advance(3 * DefaultTick)

	if !h.ctrl.CancelCalibration() {
		t.Fatal("CancelCalibration should apply while calibrating")
	}
	if h.ctrl.State() != Idle {
		t.Fatalf("expected Idle, got %v", h.ctrl.State())
	}
	if _, ok := h.ctrl.Target(); ok {
		t.Error("target should be discarded on cancel")
	}
	if h.timers.Pending() != 0 {
		t.Error("scoring timer should be cancelled")
	}
	if h.tones.active || h.field.active {
		t.Error("collaborators should be stopped")
	}
	if h.cues.stops != 1 {
		t.Errorf("expected stop cue, got %d", h.cues.stops)
	}
	if v := h.ctrl.View(); v.Progress != 0 {
		t.Errorf("progress should reset, got %v", v.Progress)
	}

	ticks := len(h.field.harmony)
	h.timers.Advance(time.Second)
	if len(h.field.harmony) != ticks {
		t.Error("stale tick fired after cancel")
	}
}

func TestBeginAndStopSession(t *testing.T) {
	h := newHarness(t)
	h.calibrate(t)
	tonesStarted := h.tones.starts

	if !h.ctrl.BeginSession() {
		t.Fatal("BeginSession should apply once calibrated")
	}
	if h.ctrl.State() != Running {
		t.Fatalf("expected Running, got %v", h.ctrl.State())
	}
	if h.cues.starts != 1 {
		t.Errorf("expected start cue, got %d", h.cues.starts)
	}
	if h.tones.starts != tonesStarted+1 || !h.tones.active || !h.field.active {
		t.Error("session should resume tones and particles")
	}
	if v := h.ctrl.View(); !v.SlidersLocked || v.ShowProgress {
		t.Errorf("running view should lock sliders and hide progress: %+v", v)
	}

	stopCues := h.cues.stops
	if !h.ctrl.StopSession() {
		t.Fatal("StopSession should apply while running")
	}
	if h.ctrl.State() != Idle {
		t.Fatalf("expected Idle, got %v", h.ctrl.State())
	}
	if h.tones.active || h.field.active {
		t.Error("collaborators should be stopped")
	}
	if h.cues.stops != stopCues+1 {
		t.Error("expected stop cue when session ends")
	}
}

func TestUnlistedTriggersAreNoOps(t *testing.T) {
	type op struct {
		name string
		fn   func(*Controller) bool
	}
	ops := []op{
		{"start calibration", (*Controller).StartCalibration},
		{"cancel calibration", (*Controller).CancelCalibration},
		{"begin session", (*Controller).BeginSession},
		{"stop session", (*Controller).StopSession},
	}
	allowed := map[State]string{
		Idle:        "start calibration",
		Calibrating: "cancel calibration",
		Calibrated:  "begin session",
		Running:     "stop session",
	}
	setup := map[State]func(*testing.T, *harness){
		Idle:        func(*testing.T, *harness) {},
		Calibrating: func(_ *testing.T, h *harness) { h.ctrl.StartCalibration() },
		Calibrated:  func(t *testing.T, h *harness) { h.calibrate(t) },
		Running: func(t *testing.T, h *harness) {
			h.calibrate(t)
			h.ctrl.BeginSession()
		},
	}

	for state, prepare := range setup {
		for _, o := range ops {
			if allowed[state] == o.name {
				continue
			}
			t.Run(state.String()+"/"+o.name, func(t *testing.T) {
				h := newHarness(t)
				prepare(t, h)
				before := *h.tones
				cuesBefore := *h.cues

				if o.fn(h.ctrl) {
					t.Fatalf("%s should not apply in %v", o.name, state)
				}
				if h.ctrl.State() != state {
					t.Errorf("state changed from %v to %v", state, h.ctrl.State())
				}
				if h.tones.starts != before.starts || h.tones.stops != before.stops {
					t.Error("tone generator touched by a no-op trigger")
				}
				if *h.cues != cuesBefore {
					t.Error("cue played by a no-op trigger")
				}
			})
		}
	}
}

func TestActionFollowsStateTable(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Action()
	if h.ctrl.State() != Calibrating {
		t.Fatalf("Idle action: got %v", h.ctrl.State())
	}
	h.ctrl.Action()
	if h.ctrl.State() != Idle {
		t.Fatalf("Calibrating action: got %v", h.ctrl.State())
	}

	h.ctrl.Action()
	h.tuneTo(t)
	h.timers.Advance(DefaultTick)
	if h.ctrl.State() != Calibrated {
		t.Fatalf("expected Calibrated, got %v", h.ctrl.State())
	}
	h.ctrl.Action()
	if h.ctrl.State() != Running {
		t.Fatalf("Calibrated action: got %v", h.ctrl.State())
	}
	h.ctrl.Action()
	if h.ctrl.State() != Idle {
		t.Fatalf("Running action: got %v", h.ctrl.State())
	}
}

func TestSliderGating(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SetBaseFreq(44)
	h.ctrl.SetVolume(80)
	if h.tones.freqCalls != 0 || h.tones.volCalls != 0 {
		t.Fatal("idle slider changes must not reach the tone generator")
	}
	if v := h.ctrl.View(); v.Settings.BaseFreq != 44 || v.Settings.VolumePercent != 80 {
		t.Errorf("display values should still update: %+v", v.Settings)
	}

	h.ctrl.StartCalibration()
	h.ctrl.SetBinauralDiff(12)
	if h.tones.left != 44 || h.tones.right != 56 {
		t.Errorf("calibrating change should propagate, got %v/%v", h.tones.left, h.tones.right)
	}
	h.ctrl.SetVolume(100)
	if h.tones.volume != 1 {
		t.Errorf("expected volume 1, got %v", h.tones.volume)
	}

	h.tuneTo(t)
	h.timers.Advance(DefaultTick)
	freqCalls, volCalls := h.tones.freqCalls, h.tones.volCalls
	h.ctrl.SetVolume(20)
	if h.tones.freqCalls != freqCalls || h.tones.volCalls != volCalls {
		t.Fatal("calibrated slider changes must not reach the tone generator")
	}

	h.ctrl.BeginSession()
	h.ctrl.SetVolume(60)
	if h.tones.volume != 0.6 {
		t.Errorf("running volume change should propagate, got %v", h.tones.volume)
	}
}

func TestSlidersClampToRange(t *testing.T) {
	h := newHarness(t)
	h.ctrl.SetBaseFreq(500)
	h.ctrl.SetBinauralDiff(-3)
	h.ctrl.SetVolume(250)

	s := h.ctrl.View().Settings
	if s.BaseFreq != 100 || s.BinauralDiff != 1 || s.VolumePercent != 100 {
		t.Errorf("expected clamped settings, got %+v", s)
	}
}

func TestToneStartFailureDoesNotBlockTransition(t *testing.T) {
	h := newHarness(t)
	h.tones.startErr = errors.New("no audio device")

	h.ctrl.StartCalibration()
	if h.ctrl.State() != Calibrating {
		t.Fatalf("expected Calibrating despite audio failure, got %v", h.ctrl.State())
	}
	if h.field.starts != 1 {
		t.Error("particle field should still start")
	}
}

func TestNewTargetEachCalibration(t *testing.T) {
	h := newHarness(t)
	seen := map[Target]bool{}
	for i := 0; i < 20; i++ {
		h.ctrl.StartCalibration()
		tg, _ := h.ctrl.Target()
		seen[tg] = true
		h.ctrl.CancelCalibration()
	}
	if len(seen) < 2 {
		t.Errorf("expected fresh targets across attempts, saw %d distinct", len(seen))
	}
}

func TestClose(t *testing.T) {
	h := newHarness(t)
	h.ctrl.StartCalibration()
	h.ctrl.Close()

	if h.timers.Pending() != 0 {
		t.Error("Close should cancel the scoring timer")
	}
	if h.tones.active || h.field.active {
		t.Error("Close should silence output")
	}
}
