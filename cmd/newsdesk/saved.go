package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rickgao/newsdesk/internal/localstore"
	"github.com/rickgao/newsdesk/internal/tui"
)

func newSavedCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved articles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved articles, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(store *localstore.Store) error {
				saved, err := store.SavedArticles()
				if err != nil {
					return err
				}
				if len(saved) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No saved articles")
					return nil
				}
				tui.WriteArticles(cmd.OutOrStdout(), saved)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <url>",
		Short: "Remove a saved article by URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(store *localstore.Store) error {
				removed, err := store.RemoveArticle(args[0])
				if err != nil {
					return err
				}
				if !removed {
					slog.Debug("remove: article not saved", "url", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), tui.MsgArticleRemoved)
				return nil
			})
		},
	})

	return cmd
}

func withStore(cmd *cobra.Command, opts *rootOptions, fn func(store *localstore.Store) error) error {
	e, err := setup(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	store, err := openStore(e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}
