package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mcoot/mtlobby/internal/model"
	"github.com/mcoot/mtlobby/internal/services/lobby"
	"github.com/mcoot/mtlobby/internal/transport/ws"
)

// Gateway binds push channel events to the lobby
type Gateway struct {
	lobby  *lobby.Service
	logger *slog.Logger
}

// Ensure Gateway implements ws.Handler
var _ ws.Handler = (*Gateway)(nil)

// New creates a Gateway
func New(lobby *lobby.Service, logger *slog.Logger) *Gateway {
	return &Gateway{
		lobby:  lobby,
		logger: logger.With(slog.String("component", "gateway")),
	}
}

func (g *Gateway) OnOpen(c *ws.Conn) {}

func (g *Gateway) OnMessage(c *ws.Conn, f ws.Frame) {
	switch f.Event {
	case model.EventUserEnter:
		g.handleUserEnter(c, f)
	default:
		g.logger.Debug("unknown event",
			slog.String("conn_id", c.ID()),
			slog.String("event", f.Event))
		g.reply(c, f, model.UserEnterAck{Status: false, Error: "unknown event"})
	}
}

// OnClose releases the session bound to c, if it is still the player's current one
func (g *Gateway) OnClose(c *ws.Conn) {
	id := c.PlayerID()
	if id == "" {
		return
	}
	g.lobby.Disconnect(context.Background(), id, c)
}

func (g *Gateway) handleUserEnter(c *ws.Conn, f ws.Frame) {
	var payload model.UserEnterPayload
	if err := json.Unmarshal(f.Data, &payload); err != nil || payload.UserData == "" {
		g.reply(c, f, model.UserEnterAck{Status: false, Error: "invalid payload"})
		return
	}

	result, err := g.lobby.Handshake(context.Background(), c, []byte(payload.UserData), payload.TableURLs)
	if err != nil {
		msg := "internal error"
		if errors.Is(err, model.ErrDecrypt) {
			msg = "unauthorized"
		} else {
			g.logger.Error("handshake failed",
				slog.String("conn_id", c.ID()),
				slog.String("error", err.Error()))
		}
		g.reply(c, f, model.UserEnterAck{Status: false, Error: msg})
		return
	}

	// The same socket re-authenticating as someone else gives up the old identity
	if prev := c.PlayerID(); prev != "" && prev != result.PlayerID {
		g.lobby.Disconnect(context.Background(), prev, c)
	}
	c.SetPlayerID(result.PlayerID)

	g.reply(c, f, model.UserEnterAck{
		Status:    true,
		Name:      result.Name,
		Avatar:    result.Avatar,
		Rating:    result.Rating,
		Tables:    result.Tables,
		TableURLs: result.TableURLs,
	})
}

// reply acks f when the client asked for it, and pushes the result as an
// event of the same name otherwise
func (g *Gateway) reply(c *ws.Conn, f ws.Frame, payload any) {
	var err error
	if f.Ack != nil {
		err = c.Ack(*f.Ack, payload)
	} else {
		err = c.Send(f.Event, payload)
	}
	if err != nil {
		g.logger.Warn("reply dropped",
			slog.String("conn_id", c.ID()),
			slog.String("event", f.Event),
			slog.String("error", err.Error()))
	}
}
