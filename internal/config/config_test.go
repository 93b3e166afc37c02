package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 4351 {
		t.Errorf("expected default port 4351, got %d", cfg.Server.Port)
	}
	if cfg.Source.Strategy != StrategyLocal {
		t.Errorf("expected default strategy local, got %s", cfg.Source.Strategy)
	}
	if cfg.Source.PollSeconds != 5 {
		t.Errorf("expected default poll interval 5s, got %d", cfg.Source.PollSeconds)
	}
	if cfg.Storage.Badger.Path == "" {
		t.Error("expected a default badger path")
	}
}

func TestLoadFromFile_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signal-center.toml")
	content := `
[server]
port = 9090

[source]
strategy = "polling"
feed_url = "http://feed.example.com/api/messages"
poll_seconds = 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Source.Strategy != StrategyPolling {
		t.Errorf("expected polling strategy, got %s", cfg.Source.Strategy)
	}
	if cfg.Source.FeedURL != "http://feed.example.com/api/messages" {
		t.Errorf("unexpected feed url %s", cfg.Source.FeedURL)
	}
	if cfg.Source.PollSeconds != 10 {
		t.Errorf("expected poll interval 10s, got %d", cfg.Source.PollSeconds)
	}
	// Untouched sections keep defaults
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host, got %s", cfg.Server.Host)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/signal-center.toml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SIGNAL_SERVER_PORT", "7777")
	t.Setenv("SIGNAL_SOURCE_STRATEGY", "push")
	t.Setenv("SIGNAL_SOCKET_URL", "ws://push.example.com/ws")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("expected env port 7777, got %d", cfg.Server.Port)
	}
	if cfg.Source.Strategy != StrategyPush {
		t.Errorf("expected env strategy push, got %s", cfg.Source.Strategy)
	}
	if cfg.Source.SocketURL != "ws://push.example.com/ws" {
		t.Errorf("unexpected socket url %s", cfg.Source.SocketURL)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, 8088, "0.0.0.0")

	if cfg.Server.Port != 8088 {
		t.Errorf("expected flag port 8088, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected flag host 0.0.0.0, got %s", cfg.Server.Host)
	}
}

func TestValidate_StrategyRequirements(t *testing.T) {
	cfg := NewDefaultConfig()
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("default config should validate, got %v", issues)
	}

	cfg.Source.Strategy = StrategyPolling
	if issues := cfg.Validate(); len(issues) == 0 {
		t.Error("polling without feed_url should fail validation")
	}
	cfg.Source.FeedURL = "http://feed.example.com"
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("polling with feed_url should validate, got %v", issues)
	}

	cfg.Source.Strategy = StrategyPush
	if issues := cfg.Validate(); len(issues) == 0 {
		t.Error("push without socket_url should fail validation")
	}

	cfg.Source.Strategy = "carrier-pigeon"
	if issues := cfg.Validate(); len(issues) == 0 {
		t.Error("unknown strategy should fail validation")
	}
}

func TestValidate_PortRange(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.Port = 0
	if issues := cfg.Validate(); len(issues) == 0 {
		t.Error("port 0 should fail validation")
	}
	cfg.Server.Port = 70000
	if issues := cfg.Validate(); len(issues) == 0 {
		t.Error("port above 65535 should fail validation")
	}
}
