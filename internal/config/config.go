package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppName names the XDG subdirectories.
const AppName = "newsdesk"

// Config is the root configuration for newsdesk.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Connection ConnectionConfig `yaml:"connection"`
	API        APIConfig        `yaml:"api"`
	Storage    StorageConfig    `yaml:"storage"`
	Input      InputConfig      `yaml:"input"`
	Feeds      []FeedConfig     `yaml:"feeds"`
	Debug      DebugConfig      `yaml:"debug"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig locates the news server. URL is the page URL; the socket
// endpoint is derived from it.
type ServerConfig struct {
	URL string `yaml:"url"`
}

// ConnectionConfig holds socket connection settings.
type ConnectionConfig struct {
	MaxRetries       int           `yaml:"max_retries"`
	ReconnectDelay   time.Duration `yaml:"reconnect_delay"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	PingInterval     time.Duration `yaml:"ping_interval"`
	PingTimeout      time.Duration `yaml:"ping_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	BufferSize       int           `yaml:"buffer_size"`
}

// APIConfig holds REST client settings.
type APIConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// StorageConfig selects the local key/value store.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "pebble" or "sqlite"
	Path   string `yaml:"path"`
}

// InputConfig holds outbound request pacing.
type InputConfig struct {
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
	Debounce      time.Duration `yaml:"debounce"`
}

// FeedConfig is an RSS/Atom feed shown by the headlines command.
type FeedConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// DebugConfig holds the optional local debug HTTP server.
type DebugConfig struct {
	Addr string `yaml:"addr"` // Empty disables the server
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // Used while the terminal UI owns the screen
}

// EnabledFeeds returns feeds with enabled set.
func (c *Config) EnabledFeeds() []FeedConfig {
	var out []FeedConfig
	for _, f := range c.Feeds {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

// DefaultConfigPath returns the XDG config file location.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// DefaultDataDir returns the XDG data directory for local storage.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultLogPath returns the XDG state location of the log file.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}
