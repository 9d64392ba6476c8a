// Package config loads pulse's optional config.toml files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/stefanpenner/pulse/pkg/dates"
)

// FileName is the config file name in both the global and the data directory.
const FileName = "config.toml"

// Config holds the user-tunable settings.
type Config struct {
	LogLevel string `toml:"log_level"`
	Today    string `toml:"today"` // pins the reference date, YYYY-MM-DD
	Board    string `toml:"board"` // initially selected board
	User     string `toml:"user"`  // initial grid user filter
}

// Default returns the configuration used when no file sets a field.
func Default() *Config {
	return &Config{LogLevel: "info"}
}

// Loader reads the global config and then the data directory's config.
type Loader struct {
	dataDir       string
	globalConfDir string
}

// NewLoader creates a Loader for the given data directory.
func NewLoader(dataDir string) *Loader {
	return &Loader{dataDir: dataDir, globalConfDir: defaultGlobalConfigDir()}
}

// NewLoaderWithGlobalDir creates a Loader with a custom global config directory.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{dataDir: dataDir, globalConfDir: globalConfDir}
}

func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "pulse")
}

// Load returns default <- global <- data dir, later non-empty fields winning.
// Missing files are skipped.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()
	var paths []string
	if l.globalConfDir != "" {
		paths = append(paths, filepath.Join(l.globalConfDir, FileName))
	}
	if l.dataDir != "" {
		paths = append(paths, filepath.Join(l.dataDir, FileName))
	}

	for _, path := range paths {
		c, err := loadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cfg = merge(cfg, c)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field formats.
func (c *Config) Validate() error {
	if c.Today != "" && !dates.Valid(c.Today) {
		return fmt.Errorf("config: today %q is not a YYYY-MM-DD date", c.Today)
	}
	return nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &c, nil
}

func merge(base, over *Config) *Config {
	out := *base
	if over.LogLevel != "" {
		out.LogLevel = over.LogLevel
	}
	if over.Today != "" {
		out.Today = over.Today
	}
	if over.Board != "" {
		out.Board = over.Board
	}
	if over.User != "" {
		out.User = over.User
	}
	return &out
}
