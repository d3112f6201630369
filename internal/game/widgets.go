package game

import "math"

// grabMargin widens a slider's hit area vertically.
const grabMargin = 8

type slider struct {
	label string
	unit  string
	min   float64
	max   float64

	x, y, w, h int

	value    float64
	lockable bool
	disabled bool
	dragging bool

	apply func(float64)
}

func (s *slider) contains(x, y int) bool {
	return x >= s.x && x <= s.x+s.w && y >= s.y-grabMargin && y <= s.y+s.h+grabMargin
}

// valueAt maps a cursor x onto the slider range in whole steps.
func (s *slider) valueAt(x int) float64 {
	ratio := clamp01(float64(x-s.x) / float64(s.w))
	return math.Round(s.min + ratio*(s.max-s.min))
}

func (s *slider) ratio() float64 {
	return clamp01((s.value - s.min) / (s.max - s.min))
}

type button struct {
	x, y, w, h int
	hovered    bool
	armed      bool
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.w && y >= b.y && y <= b.y+b.h
}

// pointer is one frame of mouse state.
type pointer struct {
	x, y     int
	pressed  bool // went down this frame
	held     bool
	released bool // went up this frame
}
