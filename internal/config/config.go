// Package config provides configuration management for matrixface.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Display   DisplayConfig   `mapstructure:"display"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Animation AnimationConfig `mapstructure:"animation"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DisplayConfig configures the matrix panel.
type DisplayConfig struct {
	// Cascaded is the number of chained 8x8 blocks.
	Cascaded int `mapstructure:"cascaded"`
	// Device is the serial/SPI device path, e.g. /dev/spidev0.0.
	Device string `mapstructure:"device"`
	// Brightness is the startup intensity level, 0-15.
	Brightness int `mapstructure:"brightness"`
}

// SpeechConfig calibrates talking animation timing.
type SpeechConfig struct {
	WordsPerMinute  int           `mapstructure:"words_per_minute"`
	SyllableFactor  float64       `mapstructure:"syllable_factor"`
	MinShapeHold    time.Duration `mapstructure:"min_shape_hold"`
	WordPauseFactor float64       `mapstructure:"word_pause_factor"`
}

// AnimationConfig sets transition and scroll defaults.
type AnimationConfig struct {
	TransitionSteps    int           `mapstructure:"transition_steps"`
	TransitionDuration time.Duration `mapstructure:"transition_duration"`
	ScrollInterval     time.Duration `mapstructure:"scroll_interval"`
}

// SimulatorConfig configures the websocket simulator sink.
type SimulatorConfig struct {
	// Addr is the listen address for the frame-streaming endpoint.
	Addr string `mapstructure:"addr"`
	// Width and Height size the virtual panel.
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	Dir     string `mapstructure:"dir"`
}

// DefaultConfig returns sensible defaults for a single 8x8 block.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Cascaded:   1,
			Device:     "/dev/spidev0.0",
			Brightness: 8,
		},
		Speech: SpeechConfig{
			WordsPerMinute:  150,
			SyllableFactor:  4,
			MinShapeHold:    100 * time.Millisecond,
			WordPauseFactor: 1.08,
		},
		Animation: AnimationConfig{
			TransitionSteps:    10,
			TransitionDuration: time.Second,
			ScrollInterval:     100 * time.Millisecond,
		},
		Simulator: SimulatorConfig{
			Addr:   "127.0.0.1:8450",
			Width:  8,
			Height: 8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// v is the package's viper instance. Load rebuilds it so a fresh call
// reads the current environment; Watch reuses the instance that loaded
// the config file.
var v = viper.New()

// Load reads configuration from file and environment. The config file
// is config.yaml in ~/.matrixface or the working directory; environment
// variables use the MATRIXFACE prefix with underscores for section
// separators, e.g. MATRIXFACE_DISPLAY_BRIGHTNESS.
func Load() (*Config, error) {
	v = viper.New()
	cfg := DefaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return cfg, err
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir, ".matrixface"))
	v.AddConfigPath(".")

	v.SetEnvPrefix("MATRIXFACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		// No config file; defaults and environment apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// registerDefaults seeds every key into viper. Environment overrides
// are only consulted for keys viper knows about, so each one must be
// registered even though DefaultConfig already carries the values.
func registerDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("display.cascaded", cfg.Display.Cascaded)
	v.SetDefault("display.device", cfg.Display.Device)
	v.SetDefault("display.brightness", cfg.Display.Brightness)
	v.SetDefault("speech.words_per_minute", cfg.Speech.WordsPerMinute)
	v.SetDefault("speech.syllable_factor", cfg.Speech.SyllableFactor)
	v.SetDefault("speech.min_shape_hold", cfg.Speech.MinShapeHold)
	v.SetDefault("speech.word_pause_factor", cfg.Speech.WordPauseFactor)
	v.SetDefault("animation.transition_steps", cfg.Animation.TransitionSteps)
	v.SetDefault("animation.transition_duration", cfg.Animation.TransitionDuration)
	v.SetDefault("animation.scroll_interval", cfg.Animation.ScrollInterval)
	v.SetDefault("simulator.addr", cfg.Simulator.Addr)
	v.SetDefault("simulator.width", cfg.Simulator.Width)
	v.SetDefault("simulator.height", cfg.Simulator.Height)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.dir", cfg.Logging.Dir)
}

// Watch reloads the configuration whenever the config file changes and
// hands the result to onChange. Unparseable edits are ignored so a
// half-saved file cannot take the face down. Call after Load; the
// callback runs on the file watcher's goroutine.
func Watch(onChange func(*Config)) {
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg := DefaultConfig()
		if err := v.Unmarshal(cfg); err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
