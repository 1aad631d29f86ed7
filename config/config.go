// Package config loads the editor settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"nodegraph/command"
	"nodegraph/logging"
	"nodegraph/tool"
)

// Config holds nodegraph configuration.
type Config struct {
	History  HistoryConfig  `toml:"history"`
	Log      LogConfig      `toml:"log"`
	Tools    ToolsConfig    `toml:"tools"`
	Registry RegistryConfig `toml:"registry"`
	Document DocumentConfig `toml:"document"`
}

// HistoryConfig controls the undo stack.
type HistoryConfig struct {
	Capacity int `toml:"capacity"`
}

// LogConfig controls logging. An empty file discards logs in the editor
// and writes to stderr from the command line.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ToolsConfig controls pointer gestures.
type ToolsConfig struct {
	CloneModifier string `toml:"clone_modifier"` // "alt" or "shift"
}

// RegistryConfig lists extra node type files.
type RegistryConfig struct {
	Paths []string `toml:"paths"`
}

// DocumentConfig controls how documents are written.
type DocumentConfig struct {
	Indent bool `toml:"indent"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		History:  HistoryConfig{Capacity: command.DefaultCapacity},
		Log:      LogConfig{Level: "info"},
		Tools:    ToolsConfig{CloneModifier: "alt"},
		Registry: RegistryConfig{Paths: []string{}},
		Document: DocumentConfig{Indent: true},
	}
}

// ConfigDir returns the nodegraph config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "nodegraph")
}

// Path is the default config file location.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the default config file. A missing or unreadable file gives
// the defaults.
func Load() *Config {
	cfg, err := LoadFile(Path())
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile reads path over the defaults. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default location.
func Save(cfg *Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks the values a file may have got wrong.
func (c *Config) Validate() error {
	if c.History.Capacity <= 0 {
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if _, err := c.CloneModifier(); err != nil {
		return err
	}
	return nil
}

// CloneModifier returns the modifier that turns a node drag into a clone.
func (c *Config) CloneModifier() (tool.Modifier, error) {
	switch c.Tools.CloneModifier {
	case "", "alt":
		return tool.ModAlt, nil
	case "shift":
		return tool.ModShift, nil
	}
	return tool.ModNone, fmt.Errorf("tools.clone_modifier must be alt or shift, got %q", c.Tools.CloneModifier)
}

// LogLevel returns the configured level, info when unset.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}
