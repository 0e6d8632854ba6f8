// Package config loads minigrep defaults from a TOML or YAML file.
//
// The file is looked up as $XDG_CONFIG_HOME/minigrep/config.toml, then
// config.yaml and config.yml in the same directory. A missing file is not an
// error; command-line flags override every value.
//
// Example config.toml:
//
//	color = "always"
//	strategy = "nfa"
//	line_numbers = true
//	ignore_dirs = [".git", "node_modules"]
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/coregx/minire/meta"
)

// AppName is the directory name under the XDG config home.
const AppName = "minigrep"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the file-configurable defaults.
type Config struct {
	// Color is one of auto, always or never.
	Color string `toml:"color" yaml:"color"`

	// Strategy names the matcher: nfa or lookahead.
	Strategy string `toml:"strategy" yaml:"strategy"`

	LineNumbers bool `toml:"line_numbers" yaml:"line_numbers"`

	// Prefilter enables literal prefiltering of start offsets.
	Prefilter bool `toml:"prefilter" yaml:"prefilter"`

	// MaxPatternLen rejects longer patterns; 0 means no limit.
	MaxPatternLen int `toml:"max_pattern_len" yaml:"max_pattern_len"`

	// IgnoreDirs are directory names skipped by recursive search.
	IgnoreDirs []string `toml:"ignore_dirs" yaml:"ignore_dirs"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Color:         ColorAuto,
		Strategy:      "nfa",
		Prefilter:     true,
		MaxPatternLen: meta.DefaultConfig().MaxPatternLen,
		IgnoreDirs:    []string{".git"},
	}
}

// Error reports a config file that could not be read, parsed or validated.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DefaultPaths returns the candidate config file locations, in lookup order.
func DefaultPaths() []string {
	dir := filepath.Join(xdg.ConfigHome, AppName)
	return []string{
		filepath.Join(dir, "config.toml"),
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.yml"),
	}
}

// Load reads the config file at path. With an empty path the first existing
// file of DefaultPaths is used, and Default is returned if there is none.
// Values missing from the file keep their defaults.
func Load(path string) (Config, error) {
	if path == "" {
		for _, candidate := range DefaultPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			log.Debug().Msg("No config file found, using defaults")
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Path: path, Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return Config{}, &Error{Path: path, Err: err}
	}

	log.Debug().
		Str("path", path).
		Str("color", cfg.Color).
		Str("strategy", cfg.Strategy).
		Msg("Config loaded")
	return cfg, nil
}

// Parse decodes data in the given format ("toml" or "yaml") on top of
// Default and validates the result.
func Parse(data []byte, format string) (Config, error) {
	cfg := Default()
	// decoders may merge into an existing slice
	cfg.IgnoreDirs = nil
	switch format {
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}

	if cfg.IgnoreDirs == nil {
		cfg.IgnoreDirs = Default().IgnoreDirs
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color %q (want auto, always or never)", c.Color)
	}
	if _, err := meta.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.MaxPatternLen < 0 {
		return fmt.Errorf("invalid max_pattern_len %d", c.MaxPatternLen)
	}
	return nil
}

// EngineConfig converts c to a matcher configuration. The strategy must
// already be valid.
func (c Config) EngineConfig() meta.Config {
	strategy, _ := meta.ParseStrategy(c.Strategy)
	engine := meta.DefaultConfig()
	if strategy == meta.UseLookahead {
		engine = meta.LookaheadConfig()
	}
	engine.EnablePrefilter = engine.EnablePrefilter && c.Prefilter
	engine.MaxPatternLen = c.MaxPatternLen
	return engine
}
