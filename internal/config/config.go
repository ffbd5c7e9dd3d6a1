// Package config loads the ctb2json batch settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	ErrFormat  = errors.New("unsupported output format")
	ErrWorkers = errors.New("workers must be positive")
	ErrDir     = errors.New("directory is empty")
	ErrLevel   = errors.New("unknown log level")
)

// Output formats.
const (
	JSON = "json"
	YAML = "yaml"
)

// Config are the settings of a batch run.
type Config struct {
	InputDir   string   // InputDir is searched for plot style files
	OutputDir  string   // OutputDir receives one document per decoded file
	Extensions []string // Extensions are the lowercase file extensions to decode
	Format     string   // Format is either JSON or YAML
	Workers    int      // Workers is the number of files decoded at once
	Recursive  bool     // Recursive includes the subdirectories of InputDir
	LogLevel   string   // LogLevel is one of debug, info, warn or error
	NoColor    bool     // NoColor disables the colored console log
}

// fileConfig maps the config.toml keys.
type fileConfig struct {
	InputDir   string   `toml:"input_dir"`
	OutputDir  string   `toml:"output_dir"`
	Extensions []string `toml:"extensions"`
	Format     string   `toml:"format"`
	Workers    int      `toml:"workers"`
	Recursive  bool     `toml:"recursive"`
	LogLevel   string   `toml:"log_level"`
	NoColor    bool     `toml:"no_color"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{
		InputDir:   "data",
		OutputDir:  "output",
		Extensions: []string{".ctb", ".stb"},
		Format:     JSON,
		Workers:    4,
		Recursive:  true,
		LogLevel:   "info",
	}
}

// Load reads the TOML file at path and overlays any defined keys onto the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if meta.IsDefined("input_dir") {
		cfg.InputDir = strings.TrimSpace(raw.InputDir)
	}
	if meta.IsDefined("output_dir") {
		cfg.OutputDir = strings.TrimSpace(raw.OutputDir)
	}
	if meta.IsDefined("extensions") {
		cfg.Extensions = Extensions(raw.Extensions)
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("recursive") {
		cfg.Recursive = raw.Recursive
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}
	if meta.IsDefined("no_color") {
		cfg.NoColor = raw.NoColor
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate returns an error for settings that cannot be used by a batch run.
func (c Config) Validate() error {
	if c.InputDir == "" || c.OutputDir == "" {
		return ErrDir
	}
	if c.Format != JSON && c.Format != YAML {
		return fmt.Errorf("%w: %q", ErrFormat, c.Format)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrWorkers, c.Workers)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		return fmt.Errorf("%w: %q", ErrLevel, c.LogLevel)
	}
	return nil
}

// Extensions normalizes the values to lowercase names with a leading dot.
func Extensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
