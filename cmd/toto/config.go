package main

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultConfigFile is read from the working directory when --config is
// not given.
const DefaultConfigFile = "toto.toml"

// Config holds CLI settings. Flags override values from the file.
type Config struct {
	Color   string
	Format  string
	Workers int
	Level   zapcore.Level
}

type fileConfig struct {
	Color   string `toml:"color"`
	Format  string `toml:"format"`
	Workers int    `toml:"workers"`
	Log     struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Color:   "auto",
		Format:  "text",
		Workers: runtime.NumCPU(),
		Level:   zapcore.WarnLevel,
	}
}

// loadConfig reads path over the defaults. A missing file is only an
// error when the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("color") {
		cfg.Color = strings.TrimSpace(raw.Color)
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.TrimSpace(raw.Format)
	}
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("log", "level") {
		level, err := zapcore.ParseLevel(strings.TrimSpace(raw.Log.Level))
		if err != nil {
			return Config{}, fmt.Errorf("parse log.level: %w", err)
		}
		cfg.Level = level
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q: want auto, always or never", c.Color)
	}
	switch c.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q: want text, json or yaml", c.Format)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be at least 1", c.Workers)
	}
	return nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
