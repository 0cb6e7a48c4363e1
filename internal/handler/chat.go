package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chatterhq/chatter/internal/chat"
	"github.com/chatterhq/chatter/internal/observability/metrics"
	"github.com/chatterhq/chatter/internal/security/auth"
	"github.com/chatterhq/chatter/internal/service"
)

// ChatHandler handles WebSocket connections for group chat rooms.
type ChatHandler struct {
	hub            *chat.Hub
	groups         *service.GroupService
	tokens         *auth.TokenManager
	logger         *slog.Logger
	allowedOrigins []string
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(hub *chat.Hub, groups *service.GroupService, tokens *auth.TokenManager, logger *slog.Logger, allowedOrigins []string) *ChatHandler {
	return &ChatHandler{
		hub:            hub,
		groups:         groups,
		tokens:         tokens,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
}

// upgrader is initialized per-request to use instance's allowed origins
func (h *ChatHandler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Allow requests with no origin (e.g., non-browser clients)
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws/groups/{id}/chat. Browsers cannot set headers
// on a WebSocket handshake, so the bearer token travels in the token
// query parameter.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, err := h.tokens.Verify(r.URL.Query().Get("token"))
	if err != nil {
		h.logger.Warn("chat auth failed", slog.String("error", err.Error()))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	groupID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	group, err := h.groups.GetByID(r.Context(), groupID)
	if err != nil {
		http.Error(w, "group not found", http.StatusBadRequest)
		return
	}

	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	room := group.ChatRoom
	recv, leave := h.hub.Join(room)
	defer leave()

	metrics.IncrementChatClients()
	defer metrics.DecrementChatClients()

	h.logger.Info("chat client connected",
		slog.String("group_id", groupID.Hex()),
		slog.String("user_id", claims.ID),
	)

	done := make(chan struct{})

	// Write pump: room messages and heartbeat pings to this client.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case msg, open := <-recv:
				if !open {
					return
				}
				if err := ws.WriteJSON(msg); err != nil {
					return
				}
			case <-ticker.C:
				_ = ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
			case <-done:
				return
			}
		}
	}()

	// Read pump: client messages broadcast to the room.
	for {
		var incoming struct {
			Text string `json:"text"`
		}
		if err := ws.ReadJSON(&incoming); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("chat connection dropped", slog.String("user_id", claims.ID))
			}
			break
		}
		if incoming.Text == "" {
			continue
		}
		h.hub.Broadcast(chat.Message{
			Room:   room,
			Sender: claims.ID,
			Name:   claims.Name,
			Text:   incoming.Text,
		})
	}

	close(done)
}
