package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/mtlobby/internal/api/apierr"
	"github.com/mcoot/mtlobby/internal/api/request"
	"github.com/mcoot/mtlobby/internal/api/response"
	"github.com/mcoot/mtlobby/internal/model"
	"github.com/mcoot/mtlobby/internal/services/lobby"
)

// TableHandler handles the endpoints called by table servers and the table-manager
type TableHandler struct {
	lobby *lobby.Service
}

// NewTableHandler creates a new table handler
func NewTableHandler(lobby *lobby.Service) *TableHandler {
	return &TableHandler{lobby: lobby}
}

// Turn handles POST /turn?user_token=&table_token=.
// An offline player still gets status true; the caller cannot know who is online.
func (h *TableHandler) Turn(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userToken := q.Get("user_token")
	tableToken := q.Get("table_token")

	if userToken == "" {
		apierr.WriteError(w, apierr.Missing("user_token"))
		return
	}
	if tableToken == "" {
		apierr.WriteError(w, apierr.Missing("table_token"))
		return
	}

	h.lobby.NotifyTurn(r.Context(), model.PlayerID(userToken), model.TableID(tableToken))

	response.WriteStatus(w, true)
}

// AddTable handles POST /add_mt_table
func (h *TableHandler) AddTable(w http.ResponseWriter, r *http.Request) {
	var req request.AddTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.UserToken == "" {
		apierr.WriteError(w, apierr.Missing("user_token"))
		return
	}
	if req.TableToken == "" {
		apierr.WriteError(w, apierr.Missing("table_token"))
		return
	}

	added, err := h.lobby.AddTable(r.Context(), model.PlayerID(req.UserToken), model.TableClient{
		Server:  req.Server,
		URL:     req.ClientURL,
		TableID: model.TableID(req.TableToken),
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteStatus(w, added)
}

// Leave handles POST /leave
func (h *TableHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req request.LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Data.UserToken == "" {
		apierr.WriteError(w, apierr.Missing("data.userToken"))
		return
	}
	if req.Data.TableToken == "" {
		apierr.WriteError(w, apierr.Missing("data.tableToken"))
		return
	}

	err := h.lobby.LeaveTable(r.Context(), model.TableID(req.Data.TableToken), model.PlayerID(req.Data.UserToken), req.Data.ThreadToken)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.WriteStatus(w, true)
}
