package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/mtlobby/internal/api/response"
)

func newHealthCmd(cfg *Config, client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check lobby health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Health
			if err := client().Get(cmd.Context(), "/api/v1/health", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
