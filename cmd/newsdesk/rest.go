package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/newsdesk/internal/api"
	"github.com/rickgao/newsdesk/internal/router"
	"github.com/rickgao/newsdesk/internal/tui"
)

const restTimeout = 60 * time.Second

func newNewsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "news <category>",
		Short: "Fetch articles for a category over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAPI(cmd, opts, func(ctx context.Context, c *api.Client) error {
				articles, err := c.GetNews(ctx, args[0])
				if errors.Is(err, api.ErrEmptyResult) {
					fmt.Fprintln(cmd.OutOrStdout(), router.MsgNoArticles)
					return nil
				}
				if err != nil {
					return err
				}
				tui.WriteArticles(cmd.OutOrStdout(), articles)
				return nil
			})
		},
	}
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List news categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAPI(cmd, opts, func(ctx context.Context, c *api.Client) error {
				categories, err := c.GetCategories(ctx)
				if err != nil {
					return err
				}
				for _, name := range categories {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}

func newFactsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "facts",
		Short: "Print facts from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAPI(cmd, opts, func(ctx context.Context, c *api.Client) error {
				facts, err := c.GetFacts(ctx)
				if errors.Is(err, api.ErrEmptyResult) {
					fmt.Fprintln(cmd.OutOrStdout(), "No facts available")
					return nil
				}
				if err != nil {
					return err
				}
				for _, f := range facts {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", f)
				}
				return nil
			})
		},
	}
}

func newDetectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <text>",
		Short: "Check text for fake news over HTTP",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAPI(cmd, opts, func(ctx context.Context, c *api.Client) error {
				verdict, err := c.DetectFakeNews(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				tui.NewPlainSink(cmd.OutOrStdout()).RenderVerdict(*verdict)
				return nil
			})
		},
	}
}

// withAPI runs fn with a REST client built from config.
func withAPI(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, c *api.Client) error) error {
	e, err := setup(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), restTimeout)
	defer cancel()

	return fn(ctx, newAPIClient(e.cfg, e.logger))
}
