// Package config loads declutterd configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces declutterd's environment variables.
const envPrefix = "DECLUTTERD_"

// maxConfigFileSize bounds the config file read.
const maxConfigFileSize = 1024 * 1024

// Config holds the complete declutterd configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	State     StateConfig     `koanf:"state"`
	Organizer OrganizerConfig `koanf:"organizer"`
	Learning  LearningConfig  `koanf:"learning"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logger construction settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is json or console.
	Format string `koanf:"format"`
}

// StateConfig locates persisted engine state.
type StateConfig struct {
	// Dir is the state directory. Empty means
	// ~/.config/declutterd/state.
	Dir string `koanf:"dir"`
}

// OrganizerConfig holds engine settings.
type OrganizerConfig struct {
	// Enabled toggles suggestion generation.
	Enabled bool `koanf:"enabled"`
	// MaxSuggestions caps suggestions per analysis; 0 is unlimited.
	MaxSuggestions int `koanf:"max_suggestions"`
	// WatchTemplates reloads user templates when their file changes on
	// disk.
	WatchTemplates bool `koanf:"watch_templates"`
}

// LearningConfig holds learning store settings.
type LearningConfig struct {
	// FlushInterval is how often learning data folds and persists.
	FlushInterval time.Duration `koanf:"flush_interval"`
}

// defaultYAML seeds every key before the file and environment are
// layered on top, so absent keys keep these values.
var defaultYAML = []byte(`
server:
  port: 8585
  shutdown_timeout: 10s
logging:
  level: info
  format: json
state:
  dir: ""
organizer:
  enabled: true
  max_suggestions: 0
  watch_templates: true
learning:
  flush_interval: 30s
`)

// Load reads configuration with precedence environment > file >
// defaults. configPath empty means ~/.config/declutterd/config.yaml; a
// missing file is not an error.
//
// Environment variables are uppercased with a DECLUTTERD_ prefix and map
// section-first:
//
//	DECLUTTERD_SERVER_PORT               -> server.port
//	DECLUTTERD_ORGANIZER_MAX_SUGGESTIONS -> organizer.max_suggestions
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "declutterd", "config.yaml")
	}
	if info, err := os.Stat(configPath); err == nil {
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", configPath, maxConfigFileSize)
		}
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// DECLUTTERD_SERVER_SHUTDOWN_TIMEOUT -> server.shutdown_timeout:
		// split on the first underscore only, keeping underscores inside
		// field names.
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values the daemon cannot run
// with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	if c.Organizer.MaxSuggestions < 0 {
		return fmt.Errorf("max suggestions cannot be negative")
	}
	if c.Learning.FlushInterval <= 0 {
		return fmt.Errorf("learning flush interval must be positive")
	}
	return nil
}
