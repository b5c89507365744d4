package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/newsdesk/internal/feed"
)

func newHeadlinesCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "headlines",
		Short: "Show the latest headlines from the configured RSS feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			feeds := e.cfg.EnabledFeeds()
			if len(feeds) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No feeds enabled")
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), restTimeout)
			defer cancel()

			result := feed.FetchAll(ctx, feed.NewRSSFetcher(), feeds, e.logger.With("component", "feed"))
			for _, err := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "  [warn] %v\n", err)
			}

			out := cmd.OutOrStdout()
			for i, h := range result.Headlines {
				if limit > 0 && i >= limit {
					break
				}
				fmt.Fprintf(out, "%s  %s\n", formatPublished(h.Published), h.Title)
				fmt.Fprintf(out, "       %s · %s\n", h.Source, h.URL)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum headlines to show (0 for all)")
	return cmd
}

func formatPublished(t time.Time) string {
	if t.IsZero() {
		return "     "
	}
	return t.Local().Format("Jan 2")
}
