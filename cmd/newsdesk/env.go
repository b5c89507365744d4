package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rickgao/newsdesk/internal/api"
	"github.com/rickgao/newsdesk/internal/config"
	"github.com/rickgao/newsdesk/internal/connection"
	"github.com/rickgao/newsdesk/internal/localstore"
	"github.com/rickgao/newsdesk/internal/router"
	"github.com/rickgao/newsdesk/internal/version"
)

// env holds the loaded config and logger for one command run.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
}

// setup loads config, applies flag overrides and builds the logger. Logs go
// to the log file unless verbose is set, so the terminal stays clean.
func setup(opts *rootOptions, stderr io.Writer) (*env, error) {
	cfg, err := config.LoadWithDefaults(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.server != "" {
		cfg.Server.URL = opts.server
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	e := &env{cfg: cfg}
	if opts.verbose && stderr != nil {
		e.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger, f, err := newFileLogger(cfg)
		if err != nil {
			return nil, err
		}
		e.logger = logger
		e.closer = f
	}
	slog.SetDefault(e.logger)

	e.logger.Info("starting newsdesk",
		"version", version.Version,
		"commit", version.Commit,
		"server", cfg.Server.URL,
	)
	return e, nil
}

func (e *env) Close() {
	if e.closer != nil {
		e.closer.Close()
	}
}

func newFileLogger(cfg *config.Config) (*slog.Logger, *os.File, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

// managerConfig maps the connection section onto the manager settings.
func managerConfig(cfg *config.Config) (connection.ManagerConfig, error) {
	endpoint, err := connection.Endpoint(cfg.Server.URL)
	if err != nil {
		return connection.ManagerConfig{}, fmt.Errorf("server url: %w", err)
	}

	mc := connection.DefaultManagerConfig()
	mc.Client.URL = endpoint
	mc.Client.HandshakeTimeout = cfg.Connection.HandshakeTimeout
	mc.Client.PingInterval = cfg.Connection.PingInterval
	mc.Client.PingTimeout = cfg.Connection.PingTimeout
	mc.Client.WriteTimeout = cfg.Connection.WriteTimeout
	mc.Client.BufferSize = cfg.Connection.BufferSize
	mc.Client.UserAgent = version.UserAgent()
	mc.MaxRetries = cfg.Connection.MaxRetries
	mc.ReconnectDelay = cfg.Connection.ReconnectDelay
	return mc, nil
}

func routerConfig(cfg *config.Config) router.RouterConfig {
	return router.RouterConfig{
		RatePerSecond: cfg.Input.RatePerSecond,
		Burst:         cfg.Input.Burst,
	}
}

func openStore(cfg *config.Config, logger *slog.Logger) (*localstore.Store, error) {
	kv, err := localstore.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	return localstore.New(kv, logger.With("component", "localstore")), nil
}

func newAPIClient(cfg *config.Config, logger *slog.Logger) *api.Client {
	return api.NewClient(
		cfg.Server.URL,
		api.WithLogger(logger.With("component", "api")),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		api.WithUserAgent(version.UserAgent()),
	)
}
