// Package config loads Signal Center configuration from TOML files,
// environment variables, and CLI flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Source adapter strategies. The reconciliation engine is strategy-agnostic;
// these select where raw signal messages come from.
const (
	StrategyPolling = "polling"
	StrategyPush    = "push"
	StrategyLocal   = "local"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Source  SourceConfig  `toml:"source"`
	Journal JournalConfig `toml:"journal"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// SourceConfig selects and tunes the signal source adapter.
type SourceConfig struct {
	Strategy      string `toml:"strategy"`
	FeedURL       string `toml:"feed_url"`
	SocketURL     string `toml:"socket_url"`
	PollSeconds   int    `toml:"poll_seconds"`
	ResyncSeconds int    `toml:"resync_seconds"`
}

// JournalConfig points at the external trade-journal API.
type JournalConfig struct {
	URL      string `toml:"url"`
	PropFirm string `toml:"prop_firm"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies SIGNAL_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("SIGNAL_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SIGNAL_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if strategy := os.Getenv("SIGNAL_SOURCE_STRATEGY"); strategy != "" {
		config.Source.Strategy = strategy
	}
	if feedURL := os.Getenv("SIGNAL_FEED_URL"); feedURL != "" {
		config.Source.FeedURL = feedURL
	}
	if socketURL := os.Getenv("SIGNAL_SOCKET_URL"); socketURL != "" {
		config.Source.SocketURL = socketURL
	}
	if journalURL := os.Getenv("SIGNAL_JOURNAL_URL"); journalURL != "" {
		config.Journal.URL = journalURL
	}
	if badgerPath := os.Getenv("SIGNAL_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if level := os.Getenv("SIGNAL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks mandatory configuration and returns a list of issues.
func (c *Config) Validate() []string {
	var issues []string

	switch strings.ToLower(strings.TrimSpace(c.Source.Strategy)) {
	case StrategyPolling:
		if c.Source.FeedURL == "" {
			issues = append(issues, "source.feed_url is required for the polling strategy")
		}
	case StrategyPush:
		if c.Source.SocketURL == "" {
			issues = append(issues, "source.socket_url is required for the push strategy")
		}
	case StrategyLocal:
		// Local strategy reads the embedded message store; nothing external needed.
	default:
		issues = append(issues, fmt.Sprintf("source.strategy must be one of %q, %q, %q (got %q)",
			StrategyPolling, StrategyPush, StrategyLocal, c.Source.Strategy))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if c.Storage.Badger.Path == "" {
		issues = append(issues, "storage.badger.path is required")
	}

	return issues
}
