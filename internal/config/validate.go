package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return errors.New("server.url is required")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("server.url must be an absolute URL, got %q", c.Server.URL)
	}
	// REST shares this base; the socket endpoint is derived from it.
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url must use http or https, got %q", u.Scheme)
	}

	if c.Connection.MaxRetries < 0 {
		return errors.New("connection.max_retries must be >= 0")
	}
	if c.Connection.ReconnectDelay < 0 {
		return errors.New("connection.reconnect_delay must be >= 0")
	}
	if c.Connection.BufferSize < 1 {
		return errors.New("connection.buffer_size must be >= 1")
	}
	if c.Connection.PingInterval > 0 && c.Connection.PingTimeout > 0 &&
		c.Connection.PingTimeout < c.Connection.PingInterval {
		return fmt.Errorf("connection.ping_timeout (%s) cannot be shorter than ping_interval (%s)",
			c.Connection.PingTimeout, c.Connection.PingInterval)
	}

	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	switch c.Storage.Driver {
	case "pebble", "sqlite":
	default:
		return fmt.Errorf("storage.driver must be pebble or sqlite, got %q", c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return errors.New("storage.path is required")
	}

	if c.Input.RatePerSecond < 0 {
		return errors.New("input.rate_per_second must be >= 0")
	}
	if c.Input.Burst < 1 {
		return errors.New("input.burst must be >= 1")
	}

	for i, f := range c.Feeds {
		if f.URL == "" {
			return fmt.Errorf("feeds[%d].url is required", i)
		}
	}

	if c.Debug.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Debug.Addr); err != nil {
			return fmt.Errorf("debug.addr: %w", err)
		}
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	return nil
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
