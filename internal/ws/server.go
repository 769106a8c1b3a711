package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"bingo-hall/internal/game"
	"bingo-hall/internal/hall"
	"bingo-hall/internal/stream"
)

var (
	pingInterval = 20 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 5 * time.Second
)

const maxMessageBytes = 4096

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

// enqueue drops the message when the client is not keeping up.
func (c *client) enqueue(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.send <- msg:
	default:
		metricWSDropped.Add(1)
	}
}

// Server streams one game's live feed per connection and accepts mark
// requests from players over the same socket.
type Server struct {
	hall     *hall.Hall
	upgrader websocket.Upgrader
}

func NewServer(h *hall.Hall) *Server {
	return &Server{
		hall:     h,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (s *Server) HandleGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game_id")
	buf, err := s.hall.Events(gameID)
	if err != nil {
		writeError(w, http.StatusNotFound, game.Code(err))
		return
	}
	live, err := s.hall.Live(gameID)
	if err != nil {
		writeError(w, http.StatusNotFound, game.Code(err))
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	metricWSConnectionsTotal.Add(1)
	metricWSConnectionsActive.Add(1)
	defer metricWSConnectionsActive.Add(-1)
	log.Info().Str("game_id", gameID).Msg("ws feed opened")

	c := &client{conn: conn, send: make(chan []byte, 64), gameID: gameID}
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(c)
	}()

	ch := buf.Subscribe()
	c.enqueue(Envelope{
		Type:            TypeSnapshot,
		ProtocolVersion: ProtocolVersion,
		GameID:          gameID,
		ServerTS:        time.Now().UnixMilli(),
		Data:            live,
	})
	var replayed string
	for _, ev := range buf.Since(r.URL.Query().Get("last_event_id")) {
		c.enqueue(envelopeFor(ev))
		replayed = ev.ID
	}

	ctx, cancel := context.WithCancel(context.Background())
	fwdDone := make(chan struct{})
	go func() {
		defer close(fwdDone)
		s.forward(ctx, c, ch, replayed)
	}()

	s.readLoop(c)

	cancel()
	buf.Unsubscribe(ch)
	<-fwdDone
	close(c.send)
	<-writerDone
	_ = conn.Close()
	log.Info().Str("game_id", gameID).Msg("ws feed closed")
}

// forward relays live events, skipping any already sent by the replay.
func (s *Server) forward(ctx context.Context, c *client, ch chan stream.Event, replayed string) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				// feed closed under us; unblock the reader
				_ = c.conn.Close()
				return
			}
			if replayed != "" && !stream.After(ev.ID, replayed) {
				continue
			}
			c.enqueue(envelopeFor(ev))
		}
	}
}

func (s *Server) readLoop(c *client) {
	c.conn.SetReadLimit(maxMessageBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.enqueue(Envelope{Type: TypeError, ProtocolVersion: ProtocolVersion, GameID: c.gameID, Data: map[string]string{"error": "invalid_json"}})
			continue
		}
		switch msg.Type {
		case TypeMark:
			s.handleMark(c, msg)
		default:
			c.enqueue(Envelope{Type: TypeError, ProtocolVersion: ProtocolVersion, GameID: c.gameID, Data: map[string]string{"error": "unknown_type"}})
		}
	}
}

func (s *Server) handleMark(c *client, msg ClientMessage) {
	res := MarkResult{Type: TypeMarkResult, ProtocolVersion: ProtocolVersion, RequestID: msg.RequestID}
	if msg.Row == nil || msg.Col == nil {
		res.Error = game.Code(game.ErrInvalidCell)
		c.enqueue(res)
		return
	}
	card, err := s.hall.Card(msg.CardID)
	if err == nil && card.GameID != c.gameID {
		err = game.ErrCardNotFound
	}
	if err == nil {
		card, err = s.hall.ToggleMark(msg.CardID, *msg.Row, *msg.Col)
	}
	if err != nil {
		res.Error = game.Code(err)
		c.enqueue(res)
		return
	}
	metricWSMarks.Add(1)
	res.Ok = true
	res.Card = &card
	c.enqueue(res)
}

func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = c.conn.Close()
				return
			}
		}
	}
}

func envelopeFor(ev stream.Event) Envelope {
	return Envelope{
		Type:            ev.Type,
		ProtocolVersion: ProtocolVersion,
		EventID:         ev.ID,
		GameID:          ev.GameID,
		ServerTS:        ev.ServerTS,
		Data:            ev.Data,
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code})
}
