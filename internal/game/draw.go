package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/binaural-visualization/internal/config"
	"github.com/iburimskiy/binaural-visualization/internal/session"
)

const scopeSamples = 1024

func (g *Game) Draw(screen *ebiten.Image) {
	g.field.Draw(screen)

	g.drawSliders(screen)
	g.drawStatus(screen)
	if g.view.ShowProgress {
		g.drawProgressBar(screen)
	}
	g.drawScope(screen)
	g.drawButton(screen)

	ebitenutil.DebugPrintAt(screen, "Space: action button   Esc/Q: quit", 12, 12)
}

func (g *Game) drawSliders(screen *ebiten.Image) {
	panelH := len(g.sliders)*config.SliderSpacing + 10
	vector.DrawFilledRect(screen, float32(config.SliderX-20), float32(config.SliderY-30),
		float32(config.SliderWidth+40), float32(panelH), color.RGBA{R: 20, G: 25, B: 35, A: 200}, false)

	for _, s := range g.sliders {
		track := color.RGBA{R: 60, G: 70, B: 90, A: 255}
		fill := color.RGBA{R: 88, G: 166, B: 255, A: 255}
		knob := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if s.disabled {
			fill = color.RGBA{R: 70, G: 80, B: 100, A: 255}
			knob = color.RGBA{R: 120, G: 125, B: 135, A: 255}
		}

		vector.DrawFilledRect(screen, float32(s.x), float32(s.y), float32(s.w), float32(s.h), track, false)
		fillW := s.ratio() * float64(s.w)
		vector.DrawFilledRect(screen, float32(s.x), float32(s.y), float32(fillW), float32(s.h), fill, false)
		vector.DrawFilledCircle(screen, float32(float64(s.x)+fillW), float32(s.y+s.h/2), 8, knob, true)

		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %.0f %s", s.label, s.value, s.unit), s.x, s.y-18)
	}
}

func statusColor(s session.State) color.RGBA {
	switch s {
	case session.Calibrating:
		return color.RGBA{R: 255, G: 193, B: 7, A: 255}
	case session.Calibrated:
		return color.RGBA{R: 25, G: 135, B: 84, A: 255}
	case session.Running:
		return color.RGBA{R: 88, G: 166, B: 255, A: 255}
	default:
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	x := config.WindowWidth - 220
	vector.DrawFilledCircle(screen, float32(x), 44, 6, statusColor(g.view.State), true)
	ebitenutil.DebugPrintAt(screen, g.view.Status, x+14, 36)

	if g.view.State == session.Running {
		ebitenutil.DebugPrintAt(screen, "Session "+formatDuration(g.sessionTime), x+14, 54)
	}
}

func (g *Game) drawProgressBar(screen *ebiten.Image) {
	barWidth := config.WindowWidth / 2
	barHeight := 18
	barX := (config.WindowWidth - barWidth) / 2
	barY := config.ButtonY - 90

	progress := clamp01(g.view.Progress / 100)

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), color.RGBA{R: 25, G: 30, B: 40, A: 200}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), 2, color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)

	if progress > 0 {
		// Red when far, green when locked.
		r, gv, b := hsvToRgb(progress*120, 0.8, 0.9)
		if g.view.State == session.Calibrated {
			r, gv, b = 25, 135, 84
		}
		vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(progress*float64(barWidth)), float32(barHeight), color.RGBA{R: r, G: gv, B: b, A: 220}, false)
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%3.0f%%", g.view.Progress), barX+barWidth+10, barY+2)
	ebitenutil.DebugPrintAt(screen, g.view.Hint.String(), barX, barY+barHeight+6)
}

// drawScope draws the last played samples, left channel above right.
func (g *Game) drawScope(screen *ebiten.Image) {
	samples := g.scope.Snapshot(scopeSamples)
	if len(samples) < 2 {
		return
	}

	width := 300
	height := 60
	x0 := config.WindowWidth - width - 20
	y0 := config.SliderY + 40

	vector.DrawFilledRect(screen, float32(x0), float32(y0), float32(width), float32(height*2), color.RGBA{R: 20, G: 25, B: 35, A: 200}, false)
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(width), float32(height*2), 1, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)

	colors := [2]color.RGBA{{R: 255, G: 120, B: 120, A: 255}, {R: 120, G: 190, B: 255, A: 255}}
	step := float64(width) / float64(len(samples)-1)
	for ch := 0; ch < 2; ch++ {
		mid := float64(y0 + height/2 + ch*height)
		amp := float64(height) / 2.2
		for i := 1; i < len(samples); i++ {
			x1 := float64(x0) + float64(i-1)*step
			x2 := float64(x0) + float64(i)*step
			y1 := mid - samples[i-1][ch]*amp
			y2 := mid - samples[i][ch]*amp
			vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, colors[ch], true)
		}
	}
	ebitenutil.DebugPrintAt(screen, "L", x0-12, y0+height/2-8)
	ebitenutil.DebugPrintAt(screen, "R", x0-12, y0+height+height/2-8)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	base := buttonColor(g.view.State)
	var bgColor color.RGBA
	switch {
	case g.button.armed:
		bgColor = shade(base, 0.6)
	case g.button.hovered:
		bgColor = shade(base, 0.8)
	default:
		bgColor = base
	}

	b := g.button
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bgColor, false)
	vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)

	text := g.view.ActionLabel
	textWidth := len(text) * 6
	ebitenutil.DebugPrintAt(screen, text, b.x+(b.w-textWidth)/2, b.y+(b.h-16)/2)
}

func buttonColor(s session.State) color.RGBA {
	switch s {
	case session.Calibrating:
		return color.RGBA{R: 255, G: 193, B: 7, A: 255}
	case session.Calibrated:
		return color.RGBA{R: 25, G: 135, B: 84, A: 255}
	case session.Running:
		return color.RGBA{R: 220, G: 53, B: 69, A: 255}
	default:
		return color.RGBA{R: 13, G: 110, B: 253, A: 255}
	}
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}
