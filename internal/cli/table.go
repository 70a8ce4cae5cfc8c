package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/mtlobby/internal/api/request"
	"github.com/mcoot/mtlobby/internal/api/response"
)

func newTurnCmd(cfg *Config, client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "turn <user_token> <table_token>",
		Short: "Tell a player it is their turn at a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("user_token", args[0])
			query.Set("table_token", args[1])

			var result response.Status
			if err := client().Post(cmd.Context(), "/turn", query, nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newAddTableCmd(cfg *Config, client func() *Client) *cobra.Command {
	var server, clientURL string

	cmd := &cobra.Command{
		Use:   "add-table <user_token> <table_token>",
		Short: "Open a side table for a connected player",
		Long: `Open a side table for a connected player.

Prints status false when the player is offline or already has the table.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := request.AddTableRequest{
				Server:     server,
				ClientURL:  clientURL,
				TableToken: args[1],
				UserToken:  args[0],
			}

			var result response.Status
			if err := client().Post(cmd.Context(), "/add_mt_table", nil, body, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "table-server", "", "Table server name sent to the client")
	cmd.Flags().StringVar(&clientURL, "client-url", "", "URL the client mounts for the table")

	return cmd
}

func newLeaveCmd(cfg *Config, client func() *Client) *cobra.Command {
	var thread string

	cmd := &cobra.Command{
		Use:   "leave <user_token> <table_token>",
		Short: "Close a player's side table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := request.LeaveRequest{Data: request.LeaveData{
				TableToken:  args[1],
				UserToken:   args[0],
				ThreadToken: thread,
			}}

			var result response.Status
			if err := client().Post(cmd.Context(), "/leave", nil, body, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "UI thread token of the view to unmount")

	return cmd
}
