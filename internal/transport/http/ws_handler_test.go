package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizmaster-service/internal/domain"
)

func dialLeaderboard(t *testing.T, f *apiFixture) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/leaderboard"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) domain.Leaderboard {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string             `json:"type"`
		Payload domain.Leaderboard `json:"payload"`
	}
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("message type = %q, want leaderboard", msg.Type)
	}
	return msg.Payload
}

func TestServeLeaderboardInitialSnapshot(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signup(t, "Alice", "alice@example.com")
	quizID := f.createQuiz(t, token)

	resp, raw := f.do(t, http.MethodPost, "/api/quizzes/"+quizID+"/submit", token, map[string]any{
		"answers": []int{1, 2},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", resp.StatusCode, raw)
	}

	conn := dialLeaderboard(t, f)
	snapshot := readSnapshot(t, conn)
	if len(snapshot.Entries) != 1 || snapshot.Entries[0].Name != "Alice" {
		t.Fatalf("initial snapshot = %+v", snapshot)
	}
}

func TestServeLeaderboardPushesUpdates(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signup(t, "Alice", "alice@example.com")
	quizID := f.createQuiz(t, token)

	conn := dialLeaderboard(t, f)
	initial := readSnapshot(t, conn)
	if len(initial.Entries) != 0 {
		t.Fatalf("expected empty initial board, got %+v", initial)
	}

	// A graded submission triggers a push to connected clients.
	resp, raw := f.do(t, http.MethodPost, "/api/quizzes/"+quizID+"/submit", token, map[string]any{
		"answers": []int{1, 2},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", resp.StatusCode, raw)
	}

	update := readSnapshot(t, conn)
	if len(update.Entries) != 1 || update.Entries[0].Name != "Alice" {
		t.Fatalf("pushed snapshot = %+v", update)
	}
	if update.Entries[0].BestScore != 100.0 {
		t.Fatalf("pushed best score = %v, want 100", update.Entries[0].BestScore)
	}
}
