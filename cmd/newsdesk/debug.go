package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rickgao/newsdesk/internal/connection"
	"github.com/rickgao/newsdesk/internal/router"
	"github.com/rickgao/newsdesk/internal/version"
)

type managerStats interface {
	Stats() connection.ManagerStats
}

type routerStats interface {
	Stats() router.RouterStats
}

// newDebugHandler serves connection health and counters on localhost.
func newDebugHandler(m managerStats, r routerStats) http.Handler {
	rt := chi.NewRouter()

	rt.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		stats := m.Stats()

		health := struct {
			Status     string         `json:"status"`
			Version    string         `json:"version"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Version:    version.Version,
			Components: make(map[string]any),
		}

		conn := map[string]any{
			"state":   stats.State.String(),
			"retries": stats.Retries,
		}
		if !stats.ConnectedAt.IsZero() {
			conn["connected_at"] = stats.ConnectedAt.Format(time.RFC3339)
		}
		health.Components["connection"] = conn

		switch stats.State {
		case connection.StateOpen:
		case connection.StateClosed:
			health.Status = "unhealthy"
		default:
			health.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	rt.Get("/debug/stats", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"connection": m.Stats(),
			"router":     r.Stats(),
		})
	})

	return rt
}

// serveDebug runs the debug server until ctx is done.
func serveDebug(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting debug server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		// The chat keeps running without the debug server.
		if err != nil {
			logger.Error("debug server error", "error", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
