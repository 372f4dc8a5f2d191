package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
	"github.com/osse101/ArcaneTable_Go/internal/logger"
	"github.com/osse101/ArcaneTable_Go/internal/session"
)

// Browser clients connect from arbitrary origins; room admission is the
// access control, not the origin.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS upgrades the connection and hands it to the session engine.
// Identity comes from query parameters: ?name=Gor&role=player.
func HandleWS(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		name := r.URL.Query().Get("name")
		role := r.URL.Query().Get("role")
		if role == "" {
			role = domain.RolePlayer
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.FromContext(r.Context()).Error("Websocket upgrade failed",
				"room_id", roomID, "error", err)
			return
		}

		svc.Serve(r.Context(), session.NewConn(ws), roomID, name, role)
	}
}
