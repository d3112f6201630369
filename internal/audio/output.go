// Package audio produces the binaural tone pair and the start/stop cues on
// top of beep's speaker.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Output is the device streamers are mixed into. Lock and Unlock guard
// state read by streamers on the audio goroutine.
type Output interface {
	Open() error
	SampleRate() beep.SampleRate
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

// Speaker is the Output backed by the system speaker. The device is
// initialized on the first Open.
type Speaker struct {
	rate   beep.SampleRate
	buffer time.Duration

	mu     sync.Mutex
	opened bool
}

// NewSpeaker returns an unopened speaker output.
func NewSpeaker(sampleRate int, buffer time.Duration) *Speaker {
	return &Speaker{rate: beep.SampleRate(sampleRate), buffer: buffer}
}

func (s *Speaker) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return nil
	}
	if err := speaker.Init(s.rate, s.rate.N(s.buffer)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	s.opened = true
	return nil
}

func (s *Speaker) SampleRate() beep.SampleRate { return s.rate }

func (s *Speaker) Play(st beep.Streamer) { speaker.Play(st) }

func (s *Speaker) Lock() { speaker.Lock() }

func (s *Speaker) Unlock() { speaker.Unlock() }

// Close drops everything queued on the speaker and releases the device.
// A later Open initializes it again.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return
	}
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
	speaker.Close()
	s.opened = false
}

// Opened reports whether the device is currently initialized.
func (s *Speaker) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}
