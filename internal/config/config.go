// Package config loads, saves, and watches the clipkeep configuration
// file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/clipkeep/clipkeep/internal/logging"
	"github.com/clipkeep/clipkeep/internal/paths"
)

const (
	// DefaultPollIntervalMS is the clipboard poll period in
	// milliseconds when the config does not set one.
	DefaultPollIntervalMS = 1000

	// minPollIntervalMS bounds how fast the poller may run.
	minPollIntervalMS = 100

	// DefaultListenAddr is the local control API bind address.
	DefaultListenAddr = "127.0.0.1:7459"

	// StorageFile selects the JSON document store.
	StorageFile = "file"

	// StorageSQLite selects the sqlite store.
	StorageSQLite = "sqlite"
)

// Config is the clipkeep configuration.
type Config struct {
	// PollIntervalMS is the clipboard poll period in milliseconds.
	PollIntervalMS int `yaml:"poll_interval_ms"`

	// Storage selects the history backend, "file" or "sqlite".
	Storage string `yaml:"storage"`

	// HistoryLocation overrides where the history document lives.
	// Empty means the default under the config directory; an absolute
	// path is used as-is; a relative path is placed under the config
	// directory.
	HistoryLocation string `yaml:"history_location,omitempty"`

	// ListenAddr is the bind address of the local control API.
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is one of auto, text, json.
	LogFormat string `yaml:"log_format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PollIntervalMS: DefaultPollIntervalMS,
		Storage:        StorageFile,
		ListenAddr:     DefaultListenAddr,
		LogLevel:       "info",
		LogFormat:      "auto",
	}
}

// PollInterval returns the poll period as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Manager handles configuration persistence.
type Manager struct {
	configPath string
}

// NewManager creates a manager for the default config location,
// ~/.config/clipkeep/config.yaml.
func NewManager() (*Manager, error) {
	path, err := paths.ConfigFile("")
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	return &Manager{configPath: path}, nil
}

// NewManagerWithPath creates a manager for a custom config path.
func NewManagerWithPath(configPath string) *Manager {
	return &Manager{configPath: configPath}
}

// Load reads the configuration file, returning defaults when the file
// does not exist.
func (m *Manager) Load() (*Config, error) {
	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := validateAndSetDefaults(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save writes the configuration to file, creating the config directory
// if needed.
func (m *Manager) Save(config *Config) error {
	if err := validateAndSetDefaults(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// validateAndSetDefaults fills missing fields with defaults and
// rejects values outside their allowed range.
func validateAndSetDefaults(config *Config) error {
	if config.PollIntervalMS == 0 {
		config.PollIntervalMS = DefaultPollIntervalMS
	}
	if config.PollIntervalMS < minPollIntervalMS {
		return fmt.Errorf("poll_interval_ms must be at least %d", minPollIntervalMS)
	}

	switch config.Storage {
	case "":
		config.Storage = StorageFile
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("storage must be %q or %q, got %q", StorageFile, StorageSQLite, config.Storage)
	}

	if config.ListenAddr == "" {
		config.ListenAddr = DefaultListenAddr
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if _, err := logging.ParseLevel(config.LogLevel); err != nil {
		return err
	}

	if config.LogFormat == "" {
		config.LogFormat = "auto"
	}
	if _, err := logging.ParseFormat(config.LogFormat); err != nil {
		return err
	}

	return nil
}

// ConfigPath returns the path to the config file.
func (m *Manager) ConfigPath() string {
	return m.configPath
}

// Update modifies a single configuration value by key.
func (m *Manager) Update(key, value string) error {
	config, err := m.Load()
	if err != nil {
		return err
	}

	switch key {
	case "poll-interval-ms":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for poll-interval-ms: %s", value)
		}
		config.PollIntervalMS = interval
	case "storage":
		config.Storage = value
	case "history-location":
		config.HistoryLocation = value
	case "listen-addr":
		config.ListenAddr = value
	case "log-level":
		config.LogLevel = value
	case "log-format":
		config.LogFormat = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	return m.Save(config)
}

// Get returns the value for a single configuration key.
func (m *Manager) Get(key string) (string, error) {
	config, err := m.Load()
	if err != nil {
		return "", err
	}

	switch key {
	case "poll-interval-ms":
		return strconv.Itoa(config.PollIntervalMS), nil
	case "storage":
		return config.Storage, nil
	case "history-location":
		if config.HistoryLocation == "" {
			return "[default]", nil
		}
		return config.HistoryLocation, nil
	case "listen-addr":
		return config.ListenAddr, nil
	case "log-level":
		return config.LogLevel, nil
	case "log-format":
		return config.LogFormat, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// List returns all configuration keys and values.
func (m *Manager) List() (map[string]string, error) {
	config, err := m.Load()
	if err != nil {
		return nil, err
	}

	result := map[string]string{
		"poll-interval-ms": strconv.Itoa(config.PollIntervalMS),
		"storage":          config.Storage,
		"history-location": config.HistoryLocation,
		"listen-addr":      config.ListenAddr,
		"log-level":        config.LogLevel,
		"log-format":       config.LogFormat,
	}

	if result["history-location"] == "" {
		result["history-location"] = "[default]"
	}

	return result, nil
}
