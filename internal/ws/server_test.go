package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"bingo-hall/internal/config"
	"bingo-hall/internal/game"
	"bingo-hall/internal/hall"
)

func newFeedServer(t *testing.T) (*hall.Hall, string, string) {
	t.Helper()
	cfg := config.DefaultEngine()
	cfg.RNGSeed = 21
	h := hall.New(cfg, hall.NewManualClock(time.Date(2026, 5, 1, 9, 0, 1, 0, time.UTC)))
	if _, err := h.ScheduleWave(hall.RoomFree); err != nil {
		t.Fatalf("wave: %v", err)
	}
	games, _ := h.ListGames(hall.RoomFree)

	r := chi.NewRouter()
	r.Get("/ws/games/{game_id}", NewServer(h).HandleGame)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return h, "ws" + strings.TrimPrefix(srv.URL, "http"), games[0].ID
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return out
}

func TestFeedSnapshotEventsAndMark(t *testing.T) {
	h, base, gameID := newFeedServer(t)
	conn, _, err := websocket.DefaultDialer.Dial(base+"/ws/games/"+gameID, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if msg := readEnvelope(t, conn); msg["type"] != TypeSnapshot || msg["game_id"] != gameID {
		t.Fatalf("expected snapshot, got %v", msg)
	}

	card, err := h.Join(gameID, "alice", "Alice")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if msg := readEnvelope(t, conn); msg["type"] != game.EventPlayerJoined || msg["event_id"] != "1" {
		t.Fatalf("expected player_joined, got %v", msg)
	}

	row, col := 0, 0
	if err := conn.WriteJSON(ClientMessage{Type: TypeMark, RequestID: "r0", CardID: card.ID, Row: &row, Col: &col}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readEnvelope(t, conn); msg["ok"] != false || msg["error"] != "game_not_started" || msg["request_id"] != "r0" {
		t.Fatalf("expected game_not_started, got %v", msg)
	}

	if _, err := h.ForceStart(gameID); err != nil {
		t.Fatalf("force start: %v", err)
	}
	if msg := readEnvelope(t, conn); msg["type"] != game.EventStatusChanged || msg["event_id"] != "2" {
		t.Fatalf("expected status_changed, got %v", msg)
	}

	if err := conn.WriteJSON(ClientMessage{Type: TypeMark, RequestID: "r1", CardID: card.ID, Row: &row, Col: &col}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := readEnvelope(t, conn)
	if msg["type"] != TypeMarkResult || msg["ok"] != true || msg["request_id"] != "r1" {
		t.Fatalf("expected ok mark_result, got %v", msg)
	}

	if err := conn.WriteJSON(ClientMessage{Type: TypeMark, CardID: "nope", Row: &row, Col: &col}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readEnvelope(t, conn); msg["ok"] != false || msg["error"] != "card_not_found" {
		t.Fatalf("expected card_not_found, got %v", msg)
	}
}

func TestFeedUnknownGame(t *testing.T) {
	_, base, _ := newFeedServer(t)
	_, resp, err := websocket.DefaultDialer.Dial(base+"/ws/games/missing", nil)
	if err == nil {
		t.Fatalf("expected dial failure")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %v", resp)
	}
}
