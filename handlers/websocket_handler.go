package handlers

import (
	"log/slog"
	"net/http"

	"github.com/drewtwitchell/openrink-playoffs/brackets"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin to the configured frontend host before exposing
	// this publicly.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeBracket handles GET /ws/brackets/{bracketID}: clients in the room
// receive MATCH_UPDATED events as results are recorded.
func (h *WebSocketHandler) ServeBracket(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getIDFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Warn("websocket upgrade failed",
			slog.Int("bracket_id", bracketID), slog.Any("error", err))
		return
	}

	h.hub.NewClient(conn, brackets.BracketRoom(bracketID))
}
