package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application's file-backed configuration.
type Config struct {
	History struct {
		RevokeTimeLimit         int64 `yaml:"revoke_time_limit_seconds"`
		RevokePrivateTimeLimit  int64 `yaml:"revoke_private_time_limit_seconds"`
		ChannelsReadMediaPeriod int64 `yaml:"channels_read_media_period_seconds"`
	} `yaml:"history"`
	Loader struct {
		Workers       int    `yaml:"workers"`
		AutoLoadLimit int64  `yaml:"auto_load_limit_bytes"`
		CacheDir      string `yaml:"cache_dir"`
	} `yaml:"loader"`
	View struct {
		Width       int `yaml:"width"`
		DeviceScale int `yaml:"device_scale"`
	} `yaml:"view"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.History.RevokeTimeLimit = 2 * 24 * 60 * 60
	cfg.History.RevokePrivateTimeLimit = 2 * 24 * 60 * 60
	cfg.History.ChannelsReadMediaPeriod = 7 * 24 * 60 * 60
	cfg.Loader.Workers = 4
	cfg.Loader.AutoLoadLimit = 8 * 1024 * 1024
	cfg.View.Width = 360
	cfg.View.DeviceScale = 1
	return cfg
}

// LoadConfig reads configuration from the specified YAML file, filling
// omitted values with defaults. An empty path yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()
	if configPath == "" {
		return config, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Loader.Workers <= 0 {
		config.Loader.Workers = 4
	}
	if config.View.Width <= 0 {
		config.View.Width = 360
	}
	if config.View.DeviceScale <= 0 {
		config.View.DeviceScale = 1
	}
	return config, nil
}

// GetSessionPath returns the path to the session file.
func GetSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	sessionDir := filepath.Join(home, ".tg_overview")

	if err := os.MkdirAll(sessionDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(sessionDir, "session.json"), nil
}

// GetCacheDir resolves the media cache directory, defaulting next to
// the session file.
func GetCacheDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tg_overview", "cache"), nil
}
