package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

// WSHandler streams live leaderboard snapshots over a websocket. Clients get
// the current board on connect and a fresh one after every graded submission.
type WSHandler struct {
	service  *app.QuizService
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, log *slog.Logger) *WSHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeLeaderboard upgrades the request and streams snapshots until the
// client disconnects. The board is public, so no token is required.
func (h *WSHandler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	initial, err := h.service.GetLeaderboard(r.Context())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	updates, cancel := h.service.Feed().Subscribe()
	defer cancel()

	if err := conn.WriteJSON(outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: initial}); err != nil {
		return
	}

	// Reader loop only exists to observe the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: update}); err != nil {
				h.log.Warn("ws write failed", "err", err)
				return
			}
		case <-done:
			return
		}
	}
}
