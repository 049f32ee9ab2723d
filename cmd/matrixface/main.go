// Command matrixface drives a robot face on a MAX7219 LED matrix chain,
// or on the websocket simulator when no hardware is attached.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/normanking/matrixface/internal/config"
	"github.com/normanking/matrixface/internal/display"
	"github.com/normanking/matrixface/internal/face"
	"github.com/normanking/matrixface/internal/logging"
)

var (
	simulate   = false
	device     = ""
	cascaded   = 0
	sayPhrase  = ""
	expression = "happy"
	verbose    = false
)

func init() {
	pflag.BoolVar(&simulate, "simulate", simulate, "serve frames over websocket instead of driving hardware")
	pflag.StringVar(&device, "device", device, "serial/SPI device path (overrides config)")
	pflag.IntVar(&cascaded, "cascaded", cascaded, "number of chained 8x8 blocks (overrides config)")
	pflag.StringVar(&sayPhrase, "say", sayPhrase, "speak a single phrase instead of running the demo")
	pflag.StringVar(&expression, "expression", expression, "expression used with --say")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose logging")
}

func main() {
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if device != "" {
		cfg.Display.Device = device
	}
	if cascaded > 0 {
		cfg.Display.Cascaded = cascaded
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, closer, err := logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		LogDir:  cfg.Logging.Dir,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("matrixface exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	faceCfg := face.Config{
		TransitionSteps:    cfg.Animation.TransitionSteps,
		TransitionDuration: cfg.Animation.TransitionDuration,
		ScrollInterval:     cfg.Animation.ScrollInterval,
		Speech: face.SpeechConfig{
			WordsPerMinute:  cfg.Speech.WordsPerMinute,
			SyllableFactor:  cfg.Speech.SyllableFactor,
			MinShapeHold:    cfg.Speech.MinShapeHold,
			WordPauseFactor: cfg.Speech.WordPauseFactor,
		},
	}

	if simulate {
		sim := display.NewSimulator(cfg.Simulator.Width, cfg.Simulator.Height, logger)
		f := face.New(sim, faceCfg, logger)
		watchConfig(f, logger)

		errg, ctx := errgroup.WithContext(ctx)
		errg.Go(func() error {
			return sim.ListenAndServe(ctx, cfg.Simulator.Addr)
		})
		errg.Go(func() error {
			defer f.Clear()
			if err := animate(ctx, f, cfg.Display.Brightness); err != nil {
				return err
			}
			logger.Info().Msg("animation finished, serving last frame until interrupt")
			<-ctx.Done()
			return ctx.Err()
		})
		return errg.Wait()
	}

	bus, err := os.OpenFile(cfg.Display.Device, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open matrix device %s: %w", cfg.Display.Device, err)
	}
	defer bus.Close()

	sink, err := display.NewSerialSink(bus, cfg.Display.Cascaded, logger)
	if err != nil {
		return err
	}

	f := face.New(sink, faceCfg, logger)
	watchConfig(f, logger)
	defer f.Clear()
	return animate(ctx, f, cfg.Display.Brightness)
}

// watchConfig applies config file edits while the face is running.
// Brightness is the only live-tunable setting; speech and animation
// changes take effect on the next start.
func watchConfig(f *face.Face, logger zerolog.Logger) {
	config.Watch(func(cfg *config.Config) {
		logger.Info().Int("brightness", cfg.Display.Brightness).Msg("configuration reloaded")
		if err := f.SetBrightness(cfg.Display.Brightness); err != nil {
			logger.Warn().Err(err).Msg("reloaded brightness rejected")
		}
	})
}

func animate(ctx context.Context, f *face.Face, brightness int) error {
	if err := f.SetBrightness(brightness); err != nil {
		return err
	}

	if sayPhrase != "" {
		id, err := face.ParseID(expression)
		if err != nil {
			return err
		}
		return f.Say(ctx, id, sayPhrase, 0)
	}

	return f.Demo(ctx)
}
