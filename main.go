package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/binaural-visualization/internal/audio"
	"github.com/iburimskiy/binaural-visualization/internal/clock"
	"github.com/iburimskiy/binaural-visualization/internal/config"
	"github.com/iburimskiy/binaural-visualization/internal/game"
	"github.com/iburimskiy/binaural-visualization/internal/logging"
	"github.com/iburimskiy/binaural-visualization/internal/particles"
	"github.com/iburimskiy/binaural-visualization/internal/session"
)

var version = "0.1.0-dev"

type options struct {
	configPath string
	logLevel   string
	seed       uint64
	pickCues   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "binaural",
		Short: "Binaural beat tuner with a calibration game",
		Long: `binaural plays two sine tones, one per ear, whose difference you tune
with sliders. Find the hidden resonance during calibration to unlock a
session; the particle field calms as you get closer.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: info, debug or trace")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Seed for targets and particles (0 = random)")
	cmd.Flags().BoolVar(&opts.pickCues, "pick-cues", false, "Choose start and stop cue files in a dialog")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "binaural version %s\n", version)
		},
	})
	return cmd
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = opts.seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(cfg *config.Config, opts *options) error {
	log := logging.NewLogger(cfg.Logging.Level, os.Stderr)

	if opts.pickCues {
		if err := pickCues(cfg); err != nil {
			return err
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Debug("starting", "version", version, "seed", seed)

	out := audio.NewSpeaker(cfg.Audio.SampleRate, cfg.Audio.Buffer)
	defer out.Close()
	tones := audio.NewGenerator(out)
	cues := audio.NewCues(out, cfg.Audio.StartCue, cfg.Audio.StopCue, log)

	field := particles.NewField(config.WindowWidth, config.WindowHeight, cfg.Particles.Count,
		rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	timers := clock.NewTimers()

	ctrl := session.NewController(session.Options{
		Tones:     tones,
		Field:     field,
		Cues:      cues,
		Scheduler: timers,
		Rand:      rand.New(rand.NewPCG(seed, seed>>1)),
		Logger:    log,
		Tick:      cfg.Calibration.Tick,
		Initial: session.Settings{
			BaseFreq:      cfg.Sliders.BaseFreq,
			BinauralDiff:  cfg.Sliders.BinauralDiff,
			VolumePercent: cfg.Sliders.Volume,
		},
	})
	defer ctrl.Close()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Binaural Tuner - Space: action, Esc/Q: quit")

	g := game.New(ctrl, field, tones, timers)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		reportFatal(log, err)
		return err
	}
	return nil
}

// pickCues lets the user choose cue files. Cancelling a dialog keeps the
// configured cue.
func pickCues(cfg *config.Config) error {
	filters := zenity.FileFilters{{
		Name:     "Audio",
		Patterns: []string{"*.wav", "*.mp3", "*.flac"},
	}}
	for _, pick := range []struct {
		title string
		dst   *string
	}{
		{"Choose Start Cue", &cfg.Audio.StartCue},
		{"Choose Stop Cue", &cfg.Audio.StopCue},
	} {
		path, err := zenity.SelectFile(zenity.Title(pick.title), filters)
		if err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				continue
			}
			return fmt.Errorf("selecting cue: %w", err)
		}
		*pick.dst = path
	}
	return nil
}

func reportFatal(log *slog.Logger, err error) {
	log.Error("window closed with error", "error", err)
	if dlgErr := zenity.Error(err.Error(), zenity.Title("Binaural Tuner"), zenity.ErrorIcon); dlgErr != nil {
		log.Debug("error dialog unavailable", "error", dlgErr)
	}
}
