package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/newsdesk/internal/config"
	"github.com/rickgao/newsdesk/internal/connection"
	"github.com/rickgao/newsdesk/internal/router"
)

const shutdownTimeout = 5 * time.Second

// session pairs the connection manager with the router that drains it.
type session struct {
	manager *connection.Manager
	router  router.Router
	logger  *slog.Logger
}

func newSession(cfg *config.Config, sink router.RenderSink, logger *slog.Logger, opts ...connection.ManagerOption) (*session, error) {
	mc, err := managerConfig(cfg)
	if err != nil {
		return nil, err
	}

	mgr := connection.NewManager(mc, logger.With("component", "connection"), opts...)
	r := router.NewRouter(routerConfig(cfg), mgr, sink, logger.With("component", "router"))
	return &session{manager: mgr, router: r, logger: logger}, nil
}

// Start begins routing and makes the first connection attempt.
func (s *session) Start(ctx context.Context) error {
	if err := s.router.Start(ctx, s.manager.Messages(), s.manager.Notices()); err != nil {
		return fmt.Errorf("start router: %w", err)
	}
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("start connection manager: %w", err)
	}
	return nil
}

// Stop shuts the manager down first; closing its queue releases the
// router's blocked Pop.
func (s *session) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	mErr := s.manager.Stop(ctx)
	rErr := s.router.Stop(ctx)
	return errors.Join(mErr, rErr)
}

// waitOpen blocks until the connection is open. It gives up when ctx ends
// or when giveUp is closed, which the plain sink does once it has shown a
// terminal error.
func waitOpen(ctx context.Context, m *connection.Manager, giveUp <-chan struct{}) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if m.State() == connection.StateOpen {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for connection: %w", ctx.Err())
		case <-giveUp:
			return fmt.Errorf("could not connect: %w", connection.ErrConnectionExhausted)
		case <-ticker.C:
		}
	}
}
