package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	apppublic "bingo-hall/internal/app/public"
	"bingo-hall/internal/config"
	"bingo-hall/internal/game"
	"bingo-hall/internal/logging"
	"bingo-hall/internal/ws"
)

type inbound struct {
	Type    string          `json:"type"`
	EventID string          `json:"event_id"`
	Data    json.RawMessage `json:"data"`
}

// player keeps the bot's card and decides which cells to mark.
type player struct {
	card game.Card
	seq  int
}

// handle returns the mark to send in reply to frame, if any, and whether the
// game is over.
func (p *player) handle(frame []byte) (*ws.ClientMessage, bool) {
	var msg inbound
	if err := json.Unmarshal(frame, &msg); err != nil {
		return nil, false
	}
	switch msg.Type {
	case game.EventNumberCalled:
		var call game.NumberCall
		if err := json.Unmarshal(msg.Data, &call); err != nil {
			return nil, false
		}
		row, col, ok := p.card.Find(call.Entry.Number)
		if !ok || p.card.Marked(row, col) {
			return nil, false
		}
		p.seq++
		return &ws.ClientMessage{
			Type:      ws.TypeMark,
			RequestID: strconv.Itoa(p.seq),
			CardID:    p.card.ID,
			Row:       &row,
			Col:       &col,
		}, false
	case game.EventStatusChanged:
		var sc game.StatusChange
		if err := json.Unmarshal(msg.Data, &sc); err != nil {
			return nil, false
		}
		return nil, sc.To == game.StatusCompleted
	case ws.TypeMarkResult:
		// mark_result is not wrapped in an envelope.
		var res ws.MarkResult
		if err := json.Unmarshal(frame, &res); err != nil || !res.Ok || res.Card == nil {
			return nil, false
		}
		wasWinner := p.card.IsWinner
		p.card = *res.Card
		if p.card.IsWinner && !wasWinner {
			log.Info().Str("card_id", p.card.ID).Str("pattern", p.card.WinningPattern).Msg("bingo")
		}
	}
	return nil, false
}

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: 10 * time.Second}
	gameID, err := nextWaitingGame(ctx, httpClient, cfg.APIURL, cfg.RoomID)
	if err != nil {
		log.Fatal().Err(err).Str("room_id", cfg.RoomID).Msg("find game failed")
	}
	card, err := join(ctx, httpClient, cfg.APIURL, gameID, cfg.PlayerID, cfg.PlayerName)
	if err != nil {
		log.Fatal().Err(err).Str("game_id", gameID).Msg("join failed")
	}
	log.Info().Str("game_id", gameID).Str("card_id", card.ID).Msg("joined")

	wsURL := strings.TrimRight(cfg.WSURL, "/") + "/ws/games/" + url.PathEscape(gameID)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		log.Fatal().Err(err).Str("url", wsURL).Msg("dial failed")
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	p := &player{card: card}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Info().Err(err).Msg("feed closed")
			return
		}
		mark, done := p.handle(data)
		if done {
			log.Info().Str("game_id", gameID).Bool("winner", p.card.IsWinner).Msg("game completed")
			return
		}
		if mark == nil {
			continue
		}
		payload, _ := json.Marshal(mark)
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warn().Err(err).Msg("send mark failed")
			return
		}
	}
}

func nextWaitingGame(ctx context.Context, c *http.Client, apiURL, roomID string) (string, error) {
	var resp apppublic.GamesResponse
	endpoint := strings.TrimRight(apiURL, "/") + "/api/rooms/" + url.PathEscape(roomID) + "/games"
	if err := doJSON(ctx, c, http.MethodGet, endpoint, nil, &resp); err != nil {
		return "", err
	}
	for _, g := range resp.Items {
		if g.Status == game.StatusWaiting {
			return g.ID, nil
		}
	}
	return "", fmt.Errorf("no waiting game in room %q", roomID)
}

func join(ctx context.Context, c *http.Client, apiURL, gameID, playerID, playerName string) (game.Card, error) {
	var resp apppublic.CardResponse
	endpoint := strings.TrimRight(apiURL, "/") + "/api/games/" + url.PathEscape(gameID) + "/join"
	body := apppublic.JoinRequest{PlayerID: playerID, PlayerName: playerName}
	if err := doJSON(ctx, c, http.MethodPost, endpoint, body, &resp); err != nil {
		return game.Card{}, err
	}
	return resp.Card, nil
}

func doJSON(ctx context.Context, c *http.Client, method, endpoint string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", method, endpoint, resp.StatusCode, e.Error)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
