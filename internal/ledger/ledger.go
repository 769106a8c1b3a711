package ledger

import (
	"context"

	"github.com/rs/zerolog/log"

	"bingo-hall/internal/game"
	"bingo-hall/internal/store"
)

// Ledger is the boundary to the wallet: it records what each winner is owed.
// Moving funds is the wallet's job. Without a store, intents are only logged.
type Ledger struct {
	Store *store.Store
}

func New(s *store.Store) *Ledger {
	return &Ledger{Store: s}
}

func (l *Ledger) CreditWinner(ctx context.Context, w game.Winner) error {
	if l.Store == nil {
		log.Info().
			Str("winner_id", w.ID).
			Str("game_id", w.GameID).
			Str("player_id", w.PlayerID).
			Int64("amount", w.Prize).
			Str("currency", string(w.Currency)).
			Msg("payout intent (log-only)")
		return nil
	}
	inserted, err := l.Store.InsertPayoutIntent(ctx, store.PayoutIntent{
		WinnerID:   w.ID,
		GameID:     w.GameID,
		RoomID:     w.RoomID,
		PlayerID:   w.PlayerID,
		PlayerName: w.PlayerName,
		CardID:     w.CardID,
		Pattern:    w.PatternName,
		Amount:     w.Prize,
		Currency:   string(w.Currency),
		WonAt:      w.WonAt,
	})
	if err != nil {
		return err
	}
	if !inserted {
		log.Debug().Str("winner_id", w.ID).Msg("payout intent already recorded")
	}
	return nil
}
