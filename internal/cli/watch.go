package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/mtlobby/internal/model"
	"github.com/mcoot/mtlobby/internal/transport/ws"
)

const handshakeAckID int64 = 1

func newWatchCmd(cfg *Config) *cobra.Command {
	var (
		userData  string
		tableURLs []string
		count     int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Connect as a player and print pushed events",
		Long: `Connect to the lobby's push channel, perform the REQ_USER_ENTER handshake
with the given identity blob, then print every event the lobby pushes.

Stops after --count events when set, otherwise runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userData == "" {
				return errors.New("--user-data is required")
			}
			target, err := cfg.WebsocketURL()
			if err != nil {
				return fmt.Errorf("invalid server URL: %w", err)
			}

			conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), target, nil)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer func() { _ = conn.Close() }()

			// Unblock ReadJSON when the command context ends
			done := make(chan struct{})
			defer close(done)
			go func() {
				select {
				case <-cmd.Context().Done():
					_ = conn.Close()
				case <-done:
				}
			}()

			payload, err := json.Marshal(model.UserEnterPayload{UserData: userData, TableURLs: tableURLs})
			if err != nil {
				return err
			}
			ack := handshakeAckID
			if err := conn.WriteJSON(ws.Frame{Event: model.EventUserEnter, Ack: &ack, Data: payload}); err != nil {
				return fmt.Errorf("failed to send handshake: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			seen := 0
			for count <= 0 || seen < count {
				var frame ws.Frame
				if err := conn.ReadJSON(&frame); err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					return fmt.Errorf("connection closed: %w", err)
				}

				if frame.Event == ws.AckEvent && frame.Ack != nil && *frame.Ack == handshakeAckID {
					var result model.UserEnterAck
					if err := json.Unmarshal(frame.Data, &result); err != nil {
						return fmt.Errorf("bad handshake reply: %w", err)
					}
					if !result.Status {
						return fmt.Errorf("handshake rejected: %s", result.Error)
					}
					out.Print(result)
					continue
				}

				out.PrintEvent(time.Now(), frame.Event, frame.Data)
				seen++
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userData, "user-data", "", "Encrypted identity blob")
	cmd.Flags().StringArrayVar(&tableURLs, "table-url", nil, "Table URL offered in the handshake (repeatable)")
	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many pushed events (0 runs until interrupted)")

	return cmd
}
