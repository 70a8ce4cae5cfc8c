package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mtlobby/internal/api/apierr"
	"github.com/mcoot/mtlobby/internal/api/response"
	"github.com/mcoot/mtlobby/internal/model"
	"github.com/mcoot/mtlobby/internal/services/lobby"
)

// PlayerHandler handles player presence endpoints
type PlayerHandler struct {
	lobby *lobby.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(lobby *lobby.Service) *PlayerHandler {
	return &PlayerHandler{lobby: lobby}
}

// Get handles GET /api/v1/players/{user_token}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["user_token"])

	presence, err := h.lobby.Presence(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PresenceFromModel(presence))
}
