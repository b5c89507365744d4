package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/newsdesk/internal/config"
	"github.com/rickgao/newsdesk/internal/version"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	server     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "newsdesk",
		Short: "Terminal client for the news and fact-check chat server",
		Long: `newsdesk connects to a news server over a WebSocket, shows news articles
and facts, checks text for fake news and keeps a local list of saved articles.

Run without a subcommand to open the interactive chat.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", fmt.Sprintf("path to config file (default %s)", config.DefaultConfigPath()))
	pf.StringVar(&opts.server, "server", "", "news server URL, overrides server.url")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr at debug level (non-interactive commands)")

	root.AddCommand(
		newChatCmd(opts),
		newAskCmd(opts),
		newNewsCmd(opts),
		newCategoriesCmd(opts),
		newFactsCmd(opts),
		newDetectCmd(opts),
		newHeadlinesCmd(opts),
		newSavedCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsdesk %s\n", version.String())
		},
	}
}
