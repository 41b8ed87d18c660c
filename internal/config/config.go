// Package config provides configuration management for the trading journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
}

// StorageConfig holds the location of the journal database.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// UIConfig holds output-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the application-private data directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-journal"
	}
	return filepath.Join(home, ".config", "trade-journal")
}

// Load loads configuration from the specified directory, creating the
// directory on first run. A missing config file is not an error; defaults
// apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("storage.path", filepath.Join(configDir, "journal.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file", true)
	v.SetDefault("log.path", filepath.Join(configDir, "logs", "journal.log"))
	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// DBPath returns the database location from the config.
func (c *Config) DBPath() string {
	return c.Storage.Path
}
