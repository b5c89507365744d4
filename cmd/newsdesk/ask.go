package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/newsdesk/internal/tui"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		timeout  time.Duration
		category string
	)

	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Send one message over the socket and print the first reply",
		Long: `Send one message and print the first reply.

Text containing "do you know" asks for a fact; anything else is checked for
fake news. With --news the text is ignored and articles for the category
are requested instead.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if category == "" && len(args) == 0 {
				return fmt.Errorf("requires text or --news <category>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			sink := tui.NewPlainSink(cmd.OutOrStdout())
			sess, err := newSession(e.cfg, sink, e.logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := sess.Start(ctx); err != nil {
				return err
			}
			defer sess.Stop()

			if err := waitOpen(ctx, sess.manager, sink.Done()); err != nil {
				return err
			}

			if category != "" {
				err = sess.router.RequestNews(category)
			} else {
				err = sess.router.Submit(strings.Join(args, " "))
			}
			if err != nil {
				return err
			}

			select {
			case <-sink.Done():
				return nil
			case <-ctx.Done():
				return fmt.Errorf("no reply within %s", timeout)
			}
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "how long to wait for the connection and reply")
	cmd.Flags().StringVar(&category, "news", "", "request articles for a category instead of sending text")
	return cmd
}
