package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

type note struct {
	freq float64
	dur  time.Duration
}

var (
	startChime = []note{{523.25, 140 * time.Millisecond}, {659.25, 140 * time.Millisecond}, {783.99, 320 * time.Millisecond}}
	stopChime  = []note{{659.25, 160 * time.Millisecond}, {440, 380 * time.Millisecond}}
)

const chimeGap = 30 * time.Millisecond

// Cues holds the start cue and the shared stop/success cue, decoded once.
type Cues struct {
	out   Output
	log   *slog.Logger
	start *beep.Buffer
	stop  *beep.Buffer
}

// NewCues loads the cue files, falling back to built-in chimes for empty
// paths or files that fail to decode.
func NewCues(out Output, startPath, stopPath string, log *slog.Logger) *Cues {
	c := &Cues{out: out, log: log}
	c.start = c.load("start", startPath, startChime)
	c.stop = c.load("stop", stopPath, stopChime)
	return c
}

// PlayStart plays the session start cue.
func (c *Cues) PlayStart() { c.play("start", c.start) }

// PlayStop plays the cue shared by calibration success and session stop.
func (c *Cues) PlayStop() { c.play("stop", c.stop) }

func (c *Cues) play(name string, buf *beep.Buffer) {
	if err := c.out.Open(); err != nil {
		c.log.Warn("cue not played", "cue", name, "error", err)
		return
	}
	c.out.Play(buf.Streamer(0, buf.Len()))
}

func (c *Cues) load(name, path string, fallback []note) *beep.Buffer {
	if path != "" {
		buf, err := decodeFile(path, c.out.SampleRate())
		if err == nil {
			c.log.Debug("cue loaded", "cue", name, "path", path, "samples", buf.Len())
			return buf
		}
		c.log.Warn("cue file unusable, using built-in chime", "cue", name, "path", path, "error", err)
	}
	return synthesize(c.out.SampleRate(), fallback)
}

func decodeFile(path string, rate beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, errors.New("unsupported file type: " + ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != rate {
		src = beep.Resample(4, format.SampleRate, rate, streamer)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("decoding %s: no audio", path)
	}
	return buf, nil
}

func synthesize(rate beep.SampleRate, notes []note) *beep.Buffer {
	var parts []beep.Streamer
	for i, n := range notes {
		if i > 0 {
			parts = append(parts, beep.Silence(rate.N(chimeGap)))
		}
		total := rate.N(n.dur)
		parts = append(parts, beep.Take(total, chimeTone(rate, n.freq, total)))
	}
	quiet := &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: -1.5}

	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(quiet)
	return buf
}

// chimeTone is a sine with a short linear attack and exponential decay
// across total samples. A small octave partial brightens it.
func chimeTone(rate beep.SampleRate, freq float64, total int) beep.Streamer {
	attack := rate.N(5 * time.Millisecond)
	i := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			t := float64(i) / float64(rate)
			env := math.Exp(-4 * float64(i) / float64(total))
			if i < attack {
				env *= float64(i) / float64(attack)
			}
			v := (math.Sin(2*math.Pi*freq*t) + 0.15*math.Sin(4*math.Pi*freq*t)) * env
			samples[j] = [2]float64{v, v}
			i++
		}
		return len(samples), true
	})
}
