// Package game is the window: it turns mouse and keyboard input into
// session operations and mirrors the session view onto the screen.
package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/binaural-visualization/internal/config"
	"github.com/iburimskiy/binaural-visualization/internal/session"
)

// Controller is the part of the session controller the window drives.
type Controller interface {
	View() session.View
	Action()
	SetBaseFreq(hz float64)
	SetBinauralDiff(hz float64)
	SetVolume(percent float64)
}

// Field is the particle animation behind the controls.
type Field interface {
	Update()
	Draw(screen *ebiten.Image)
}

// Scope supplies recently played samples.
type Scope interface {
	Snapshot(n int) [][2]float64
}

// Clock receives the real time elapsed between frames.
type Clock interface {
	Advance(d time.Duration)
}

type Game struct {
	ctrl  Controller
	field Field
	scope Scope
	clock Clock

	now  func() time.Time
	last time.Time

	sliders []*slider
	button  button

	// input edge detection
	prevKey map[ebiten.Key]bool

	view        session.View
	sessionTime time.Duration
}

func New(ctrl Controller, field Field, scope Scope, clock Clock) *Game {
	g := &Game{
		ctrl:    ctrl,
		field:   field,
		scope:   scope,
		clock:   clock,
		now:     time.Now,
		prevKey: map[ebiten.Key]bool{},
		button: button{
			x: config.ButtonX, y: config.ButtonY,
			w: config.ButtonWidth, h: config.ButtonHeight,
		},
	}
	g.sliders = []*slider{
		{label: "Base frequency", unit: "Hz", min: config.BaseFreqMin, max: config.BaseFreqMax, lockable: true, apply: ctrl.SetBaseFreq},
		{label: "Binaural difference", unit: "Hz", min: config.BinauralDiffMin, max: config.BinauralDiffMax, lockable: true, apply: ctrl.SetBinauralDiff},
		{label: "Volume", unit: "%", min: config.VolumeMin, max: config.VolumeMax, apply: ctrl.SetVolume},
	}
	for i, s := range g.sliders {
		s.x = config.SliderX
		s.y = config.SliderY + i*config.SliderSpacing
		s.w = config.SliderWidth
		s.h = config.SliderHeight
	}
	g.sync()
	return g
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	now := g.now()
	var dt time.Duration
	if !g.last.IsZero() {
		dt = now.Sub(g.last)
	}
	g.last = now

	mouseX, mouseY := ebiten.CursorPosition()
	g.handlePointer(pointer{
		x:        mouseX,
		y:        mouseY,
		pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		held:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	})

	if justPressed(ebiten.KeySpace) {
		g.ctrl.Action()
		g.sync()
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.advance(dt)
	g.field.Update()
	return nil
}

// handlePointer applies one frame of mouse input to the sliders and button.
func (g *Game) handlePointer(p pointer) {
	for _, s := range g.sliders {
		if p.pressed && !s.disabled && s.contains(p.x, p.y) {
			s.dragging = true
		}
		if !s.dragging {
			continue
		}
		if !p.held || s.disabled {
			s.dragging = false
			continue
		}
		if v := s.valueAt(p.x); v != s.value {
			s.apply(v)
			g.sync()
		}
	}

	g.button.hovered = g.button.contains(p.x, p.y)
	if g.button.hovered && p.pressed {
		g.button.armed = true
	}
	if p.released {
		if g.button.armed && g.button.hovered {
			g.ctrl.Action()
			g.sync()
		}
		g.button.armed = false
	}
}

// advance forwards elapsed time to the scheduler and the session clock.
func (g *Game) advance(dt time.Duration) {
	if dt > 0 {
		g.clock.Advance(dt)
	}
	g.sync()
	if g.view.State == session.Running {
		g.sessionTime += dt
	} else {
		g.sessionTime = 0
	}
}

// sync mirrors the controller's view into the widgets.
func (g *Game) sync() {
	g.view = g.ctrl.View()
	values := []float64{g.view.Settings.BaseFreq, g.view.Settings.BinauralDiff, g.view.Settings.VolumePercent}
	for i, s := range g.sliders {
		s.value = values[i]
		s.disabled = s.lockable && g.view.SlidersLocked
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}
