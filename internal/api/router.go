package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/mtlobby/internal/api/handler"
	"github.com/mcoot/mtlobby/internal/api/middleware"
	"github.com/mcoot/mtlobby/internal/api/response"
	"github.com/mcoot/mtlobby/internal/services/lobby"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger *slog.Logger
	Lobby  *lobby.Service
	// PushHandler serves the websocket push channel at /ws
	PushHandler http.Handler
	// ServiceToken, when set, is required as a bearer token on internal endpoints
	ServiceToken string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	tableHandler := handler.NewTableHandler(cfg.Lobby)
	playerHandler := handler.NewPlayerHandler(cfg.Lobby)

	serviceAuth := middleware.ServiceToken(cfg.ServiceToken)

	// Logging runs outermost so recovered panics carry the request ID
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))

	// Table-manager and table-server endpoints keep their historical paths
	r.Handle("/turn", serviceAuth(http.HandlerFunc(tableHandler.Turn))).Methods(http.MethodPost)
	r.Handle("/add_mt_table", serviceAuth(http.HandlerFunc(tableHandler.AddTable))).Methods(http.MethodPost)
	r.Handle("/leave", serviceAuth(http.HandlerFunc(tableHandler.Leave))).Methods(http.MethodPost)

	// Push channel for game clients
	if cfg.PushHandler != nil {
		r.Handle("/ws", cfg.PushHandler).Methods(http.MethodGet)
	}

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", healthHandler(cfg.Lobby)).Methods(http.MethodGet)

	players := api.PathPrefix("/players").Subrouter()
	players.Use(serviceAuth)
	players.HandleFunc("/{user_token}", playerHandler.Get).Methods(http.MethodGet)

	return r
}

func healthHandler(l *lobby.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{
			Status:   "ok",
			Sessions: l.Sessions(),
		})
	}
}
