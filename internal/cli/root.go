package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := DefaultConfig()
	var client *Client

	rootCmd := &cobra.Command{
		Use:   "mtlobby",
		Short: "CLI tool for the multi-table lobby",
		Long: `mtlobby talks to a running lobby the way table servers and game clients do.

It can push turn notices, open and close side tables, inspect a player's
session, seal identity blobs for testing, and watch a player's push channel.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Lobby URL (env: MTLOBBY_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Service token (env: MTLOBBY_SERVICE_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Subcommands read the client lazily since it is built in PersistentPreRunE
	getClient := func() *Client { return client }

	rootCmd.AddCommand(newHealthCmd(cfg, getClient))
	rootCmd.AddCommand(newStatusCmd(cfg, getClient))
	rootCmd.AddCommand(newTurnCmd(cfg, getClient))
	rootCmd.AddCommand(newAddTableCmd(cfg, getClient))
	rootCmd.AddCommand(newLeaveCmd(cfg, getClient))
	rootCmd.AddCommand(newIdentityCmd(cfg))
	rootCmd.AddCommand(newWatchCmd(cfg))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
