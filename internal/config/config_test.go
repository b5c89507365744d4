package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

func TestLoad(t *testing.T) {
	yaml := `
server:
  url: http://news.local:8080
connection:
  max_retries: 3
  reconnect_delay: 2s
storage:
  driver: sqlite
  path: /tmp/newsdesk.db
feeds:
  - name: Example
    url: https://example.com/rss
    enabled: true
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.URL != "http://news.local:8080" {
		t.Errorf("Server.URL = %q, want %q", cfg.Server.URL, "http://news.local:8080")
	}
	if cfg.Connection.MaxRetries != 3 {
		t.Errorf("Connection.MaxRetries = %d, want 3", cfg.Connection.MaxRetries)
	}
	if cfg.Connection.ReconnectDelay != 2*time.Second {
		t.Errorf("Connection.ReconnectDelay = %v, want 2s", cfg.Connection.ReconnectDelay)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Storage.Driver = %q, want sqlite", cfg.Storage.Driver)
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0].Name != "Example" {
		t.Errorf("Feeds = %+v", cfg.Feeds)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("NEWSDESK_TEST_HOST", "news.example.com")

	yaml := `
server:
  url: https://${NEWSDESK_TEST_HOST}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.URL != "https://news.example.com" {
		t.Errorf("Server.URL = %q, want %q", cfg.Server.URL, "https://news.example.com")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit file")
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Cleanup(xdg.Reload) // runs after Setenv restores the variable
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	cfg, err := LoadWithDefaults("")
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}
	if cfg.Server.URL != DefaultServerURL {
		t.Errorf("Server.URL = %q, want default %q", cfg.Server.URL, DefaultServerURL)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeTempFile(t, "server: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "server:\n  url: http://localhost:9000\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Server.URL != "http://localhost:9000" {
		t.Errorf("Server.URL = %q, want explicit value", cfg.Server.URL)
	}
	if cfg.Connection.MaxRetries != DefaultMaxRetries {
		t.Errorf("Connection.MaxRetries = %d, want default %d", cfg.Connection.MaxRetries, DefaultMaxRetries)
	}
	if cfg.Connection.ReconnectDelay != DefaultReconnectDelay {
		t.Errorf("Connection.ReconnectDelay = %v, want default %v", cfg.Connection.ReconnectDelay, DefaultReconnectDelay)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("API.Timeout = %v, want default %v", cfg.API.Timeout, DefaultAPITimeout)
	}
	if cfg.Storage.Driver != DefaultStorageDriver {
		t.Errorf("Storage.Driver = %q, want default %q", cfg.Storage.Driver, DefaultStorageDriver)
	}
	if !strings.HasSuffix(cfg.Storage.Path, filepath.Join(AppName, DefaultStorageDriver)) {
		t.Errorf("Storage.Path = %q, want XDG data path", cfg.Storage.Path)
	}
	if cfg.Input.Debounce != DefaultDebounce {
		t.Errorf("Input.Debounce = %v, want default %v", cfg.Input.Debounce, DefaultDebounce)
	}
	if len(cfg.Feeds) != len(DefaultFeeds) {
		t.Errorf("len(Feeds) = %d, want %d", len(cfg.Feeds), len(DefaultFeeds))
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want default %q", cfg.Log.Level, DefaultLogLevel)
	}
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTempFile(t, "storage:\n  driver: bolt\n")

	_, err := LoadAndValidate(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "storage.driver") {
		t.Errorf("error = %v, want storage.driver complaint", err)
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := LoadAndValidate(filepath.Join("..", "..", "configs", "newsdesk.example.yaml"))
	if err != nil {
		t.Fatalf("LoadAndValidate(example) error = %v", err)
	}
	if cfg.Connection.MaxRetries != 5 || cfg.Connection.ReconnectDelay != time.Second {
		t.Errorf("retries = %d/%v, want 5/1s", cfg.Connection.MaxRetries, cfg.Connection.ReconnectDelay)
	}
	if cfg.Input.Debounce != 300*time.Millisecond {
		t.Errorf("Input.Debounce = %v, want 300ms", cfg.Input.Debounce)
	}
	if got := len(cfg.EnabledFeeds()); got != 2 {
		t.Errorf("EnabledFeeds() = %d, want 2", got)
	}
}

func TestEnabledFeeds(t *testing.T) {
	cfg := &Config{
		Feeds: []FeedConfig{
			{Name: "A", URL: "a", Enabled: true},
			{Name: "B", URL: "b", Enabled: false},
			{Name: "C", URL: "c", Enabled: true},
		},
	}
	got := cfg.EnabledFeeds()
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "C" {
		t.Errorf("EnabledFeeds() = %+v", got)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		cfg := &Config{Log: LogConfig{Level: tt.in}}
		got, err := cfg.LogLevel()
		if (err != nil) != tt.wantErr {
			t.Errorf("LogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("LogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func validConfig() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "missing server url",
			mutate:  func(c *Config) { c.Server.URL = "" },
			wantErr: "server.url is required",
		},
		{
			name:    "relative server url",
			mutate:  func(c *Config) { c.Server.URL = "/just/a/path" },
			wantErr: `server.url must be an absolute URL, got "/just/a/path"`,
		},
		{
			name:    "websocket scheme server url",
			mutate:  func(c *Config) { c.Server.URL = "ws://localhost:8080" },
			wantErr: `server.url must use http or https, got "ws"`,
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Connection.MaxRetries = -1 },
			wantErr: "connection.max_retries must be >= 0",
		},
		{
			name:    "zero buffer",
			mutate:  func(c *Config) { c.Connection.BufferSize = 0 },
			wantErr: "connection.buffer_size must be >= 1",
		},
		{
			name: "ping timeout shorter than interval",
			mutate: func(c *Config) {
				c.Connection.PingInterval = time.Minute
				c.Connection.PingTimeout = time.Second
			},
			wantErr: "connection.ping_timeout (1s) cannot be shorter than ping_interval (1m0s)",
		},
		{
			name:    "unknown storage driver",
			mutate:  func(c *Config) { c.Storage.Driver = "bolt" },
			wantErr: `storage.driver must be pebble or sqlite, got "bolt"`,
		},
		{
			name:    "zero burst",
			mutate:  func(c *Config) { c.Input.Burst = 0 },
			wantErr: "input.burst must be >= 1",
		},
		{
			name:    "feed without url",
			mutate:  func(c *Config) { c.Feeds = []FeedConfig{{Name: "x"}} },
			wantErr: "feeds[0].url is required",
		},
		{
			name:    "bad debug addr",
			mutate:  func(c *Config) { c.Debug.Addr = "localhost" },
			wantErr: "debug.addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
			} else if !strings.HasPrefix(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
