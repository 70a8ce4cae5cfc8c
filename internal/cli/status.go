package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/mtlobby/internal/api/response"
)

func newStatusCmd(cfg *Config, client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "status <user_token>",
		Short: "Show a player's session and side tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Presence
			if err := client().Get(cmd.Context(), "/api/v1/players/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
