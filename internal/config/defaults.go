package config

import (
	"path/filepath"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultServerURL        = "http://localhost:8080"
	DefaultMaxRetries       = 5
	DefaultReconnectDelay   = 1 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultPingInterval     = 30 * time.Second
	DefaultPingTimeout      = 90 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultBufferSize       = 256
	DefaultAPITimeout       = 30 * time.Second
	DefaultAPIMaxRetries    = 3
	DefaultAPIRetryBackoff  = 1 * time.Second
	DefaultStorageDriver    = "pebble"
	DefaultRatePerSecond    = 2
	DefaultBurst            = 5
	DefaultDebounce         = 300 * time.Millisecond
	DefaultLogLevel         = "info"
)

// DefaultFeeds are used when the config lists none.
var DefaultFeeds = []FeedConfig{
	{Name: "BBC News", URL: "https://feeds.bbci.co.uk/news/rss.xml", Enabled: true},
	{Name: "Hacker News", URL: "https://hnrss.org/frontpage", Enabled: true},
	{Name: "NPR", URL: "https://feeds.npr.org/1001/rss.xml", Enabled: false},
}

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.URL == "" {
		c.Server.URL = DefaultServerURL
	}

	// Connection defaults
	if c.Connection.MaxRetries == 0 {
		c.Connection.MaxRetries = DefaultMaxRetries
	}
	if c.Connection.ReconnectDelay == 0 {
		c.Connection.ReconnectDelay = DefaultReconnectDelay
	}
	if c.Connection.HandshakeTimeout == 0 {
		c.Connection.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Connection.PingInterval == 0 {
		c.Connection.PingInterval = DefaultPingInterval
	}
	if c.Connection.PingTimeout == 0 {
		c.Connection.PingTimeout = DefaultPingTimeout
	}
	if c.Connection.WriteTimeout == 0 {
		c.Connection.WriteTimeout = DefaultWriteTimeout
	}
	if c.Connection.BufferSize == 0 {
		c.Connection.BufferSize = DefaultBufferSize
	}

	// API defaults
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultAPIMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultAPIRetryBackoff
	}

	// Storage defaults
	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultStorageDriver
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(DefaultDataDir(), c.Storage.Driver)
	}

	// Input defaults
	if c.Input.RatePerSecond == 0 {
		c.Input.RatePerSecond = DefaultRatePerSecond
	}
	if c.Input.Burst == 0 {
		c.Input.Burst = DefaultBurst
	}
	if c.Input.Debounce == 0 {
		c.Input.Debounce = DefaultDebounce
	}

	// Feeds defaults
	if len(c.Feeds) == 0 {
		c.Feeds = append([]FeedConfig(nil), DefaultFeeds...)
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.File == "" {
		c.Log.File = DefaultLogPath()
	}
}
