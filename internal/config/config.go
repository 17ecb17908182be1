// Package config loads runtime settings from .env files, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds every setting the drill reads at startup.
type Config struct {
	SpeechKey    string        `env:"AZURE_SPEECH_KEY"`
	SpeechRegion string        `env:"AZURE_SPEECH_REGION"`
	Voice        string        `env:"DRILL_VOICE" envDefault:"es-ES-ElviraNeural"`
	Rate         string        `env:"DRILL_SPEECH_RATE" envDefault:"-10%"`
	Levels       string        `env:"DRILL_LEVELS"` // empty = built-in story
	CacheDir     string        `env:"DRILL_CACHE_DIR" envDefault:".drill-cache"`
	DiskCache    bool          `env:"DRILL_DISK_CACHE" envDefault:"true"`
	LogFile      string        `env:"DRILL_LOG_FILE" envDefault:".drill-logs/drill.log"`
	LogLevel     string        `env:"DRILL_LOG_LEVEL" envDefault:"normal"`
	Gap          time.Duration `env:"DRILL_GAP" envDefault:"250ms"`
	NoSpeech     bool          `env:"DRILL_NO_SPEECH"`
	Plain        bool          `env:"DRILL_PLAIN"`
}

// Load reads the given .env files (default ".env"; missing files are
// fine) and then parses the environment. Variables already set in the
// environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// BindFlags registers command-line overrides on fs. Current values become
// the flag defaults, so call it after Load.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Levels, "levels", c.Levels, "story file (.yaml, .json); built-in story when empty")
	fs.StringVar(&c.Voice, "voice", c.Voice, "Azure TTS voice")
	fs.StringVar(&c.Rate, "rate", c.Rate, "speech rate, e.g. -10% or slow")
	fs.StringVar(&c.CacheDir, "cache-dir", c.CacheDir, "directory for synthesized audio")
	fs.BoolVar(&c.DiskCache, "disk-cache", c.DiskCache, "persist synthesized audio to the cache dir")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "log file path, - for stderr")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "off, normal or verbose")
	fs.DurationVar(&c.Gap, "gap", c.Gap, "pause between snippets")
	fs.BoolVar(&c.NoSpeech, "no-speech", c.NoSpeech, "print snippets instead of speaking them")
	fs.BoolVar(&c.Plain, "plain", c.Plain, "line mode: type up/down/repeat instead of the full-screen UI")
}

// SpeechEnabled reports whether TTS can be used.
func (c Config) SpeechEnabled() bool {
	return !c.NoSpeech && c.SpeechKey != "" && c.SpeechRegion != ""
}
