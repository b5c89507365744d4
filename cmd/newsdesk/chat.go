package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/newsdesk/internal/tui"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}
}

func runChat(cmd *cobra.Command, opts *rootOptions) error {
	// The terminal belongs to the UI, so logs always go to the file.
	e, err := setup(opts, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	store, err := openStore(e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sink := tui.NewProgramSink(nil)
	sess, err := newSession(e.cfg, sink, e.logger)
	if err != nil {
		return err
	}

	app := tui.NewApp(tui.RunOpts{
		Dispatcher:   sess.router,
		Store:        store,
		Reconnect:    sess.manager.Reset,
		State:        sess.manager.State,
		Server:       e.cfg.Server.URL,
		NewsDebounce: e.cfg.Input.Debounce,
		Logger:       e.logger.With("component", "tui"),
	})
	defer app.Close()

	p := tui.NewProgram(app)
	sink.Attach(p)

	if err := sess.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := sess.Stop(); err != nil {
			e.logger.Warn("session stop", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running ui: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		p.Quit()
		return nil
	})

	if addr := e.cfg.Debug.Addr; addr != "" {
		g.Go(func() error {
			return serveDebug(gctx, addr, newDebugHandler(sess.manager, sess.router), e.logger)
		})
	}

	return g.Wait()
}
