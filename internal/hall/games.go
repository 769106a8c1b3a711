package hall

import (
	"github.com/rs/zerolog/log"

	"bingo-hall/internal/game"
	"bingo-hall/internal/stream"
)

type GameDetail struct {
	Game          game.GameState     `json:"game"`
	CalledNumbers []game.NumberEntry `json:"called_numbers"`
	Patterns      []game.Pattern     `json:"patterns"`
}

func (h *Hall) Game(gameID string) (game.GameState, error) {
	e, err := h.entry(gameID)
	if err != nil {
		return game.GameState{}, err
	}
	return e.engine.Snapshot(), nil
}

func (h *Hall) GameDetail(gameID string) (GameDetail, error) {
	e, err := h.entry(gameID)
	if err != nil {
		return GameDetail{}, err
	}
	return GameDetail{
		Game:          e.engine.Snapshot(),
		CalledNumbers: e.engine.CalledNumbers(),
		Patterns:      game.Catalog(),
	}, nil
}

func (h *Hall) Join(gameID, playerID, playerName string) (game.Card, error) {
	e, err := h.entry(gameID)
	if err != nil {
		return game.Card{}, err
	}
	card, events, err := e.engine.Join(playerID, playerName, h.clock.Now())
	if err != nil {
		metricJoinRejected.Add(1)
		return game.Card{}, err
	}
	h.mu.Lock()
	h.cards[card.ID] = gameID
	h.mu.Unlock()
	metricJoins.Add(1)
	h.publish(e, events)
	return card, nil
}

func (h *Hall) CardsFor(gameID, playerID string) ([]game.Card, error) {
	e, err := h.entry(gameID)
	if err != nil {
		return nil, err
	}
	return e.engine.CardsFor(playerID), nil
}

func (h *Hall) Card(cardID string) (game.Card, error) {
	e, err := h.entryForCard(cardID)
	if err != nil {
		return game.Card{}, err
	}
	card, ok := e.engine.Card(cardID)
	if !ok {
		return game.Card{}, game.ErrCardNotFound
	}
	return card, nil
}

func (h *Hall) ToggleMark(cardID string, row, col int) (game.Card, error) {
	e, err := h.entryForCard(cardID)
	if err != nil {
		return game.Card{}, err
	}
	card, events, err := e.engine.ToggleMark(cardID, row, col, h.clock.Now())
	if err != nil {
		return game.Card{}, err
	}
	metricMarks.Add(1)
	h.publish(e, events)
	return card, nil
}

func (h *Hall) ForceStart(gameID string) (game.GameState, error) {
	e, err := h.entry(gameID)
	if err != nil {
		return game.GameState{}, err
	}
	st, events, err := e.engine.ForceStart(h.clock.Now())
	if err != nil {
		return game.GameState{}, err
	}
	log.Info().Str("game_id", gameID).Str("room_id", e.roomID).Msg("game force-started")
	h.publish(e, events)
	return st, nil
}

func (h *Hall) Live(gameID string) (game.LiveState, error) {
	e, err := h.entry(gameID)
	if err != nil {
		return game.LiveState{}, err
	}
	return e.engine.Live(recentCalls), nil
}

// Events returns the live feed buffer for a game.
func (h *Hall) Events(gameID string) (*stream.Buffer, error) {
	e, err := h.entry(gameID)
	if err != nil {
		return nil, err
	}
	return e.events, nil
}

func (h *Hall) entryForCard(cardID string) (*gameEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	gameID, ok := h.cards[cardID]
	if !ok {
		return nil, game.ErrCardNotFound
	}
	e, ok := h.games[gameID]
	if !ok {
		return nil, game.ErrCardNotFound
	}
	return e, nil
}

// publish fans engine events out to the game's feed and hands winners to the
// payout sink. It runs after the engine lock has been released.
func (h *Hall) publish(e *gameEntry, events []game.Event) {
	if len(events) == 0 {
		return
	}
	h.mu.RLock()
	sink := h.payouts
	h.mu.RUnlock()
	for _, ev := range events {
		e.events.Append(ev.Type, ev.Data)
		switch ev.Type {
		case game.EventNumberCalled:
			metricNumbersCalled.Add(1)
		case game.EventWinner:
			w := ev.Data.(game.Winner)
			metricWins.Add(1)
			log.Info().
				Str("game_id", w.GameID).
				Str("room_id", e.roomID).
				Str("player_id", w.PlayerID).
				Str("card_id", w.CardID).
				Int64("prize", w.Prize).
				Str("currency", string(w.Currency)).
				Msg("bingo")
			if sink != nil {
				sink.Submit(w)
			}
		case game.EventStatusChanged:
			sc := ev.Data.(game.StatusChange)
			if sc.To == game.StatusCompleted {
				metricGamesCompleted.Add(1)
				switch sc.Reason {
				case game.ReasonTimeElapsed:
				case game.ReasonPoolExhausted:
					// every number was called; a normal end for long games
					metricPoolExhausted.Add(1)
				default:
					metricForcedCompletions.Add(1)
				}
			}
			log.Debug().
				Str("game_id", sc.GameID).
				Str("room_id", e.roomID).
				Str("from", string(sc.From)).
				Str("to", string(sc.To)).
				Str("reason", sc.Reason).
				Msg("game status changed")
		}
	}
}
