// Package config loads REPL frontend configuration from an optional TOML
// file with LUASNAP_-prefixed environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the REPL frontend settings. None of these affect the
// evaluation semantics of an individual expression.
type Config struct {
	// Prompt is printed before each read when stdin is a terminal.
	Prompt string `toml:"prompt" env:"LUASNAP_PROMPT"`

	// Pretty enables indented JSON output.
	Pretty bool `toml:"pretty" env:"LUASNAP_PRETTY"`

	// SafeLibraries restricts the interpreter to base/table/string/math.
	SafeLibraries bool `toml:"safe_libraries" env:"LUASNAP_SAFE_LIBRARIES"`

	// QueueSize is the session's expression buffer.
	QueueSize int `toml:"queue_size" env:"LUASNAP_QUEUE_SIZE"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" env:"LUASNAP_LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Prompt:    "> ",
		QueueSize: 100,
		LogLevel:  "info",
	}
}

// Load reads the TOML file at path, if any, over the defaults, then applies
// environment overrides. An empty path or a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Fall back to defaults
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// Unset variables leave file/default values in place.
	_ = envdecode.Decode(&cfg)

	return cfg, nil
}

// SlogLevel maps the configured log level to a slog.Level. Unknown values
// fall back to Info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
