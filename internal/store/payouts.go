package store

import (
	"context"
	"strings"
	"time"
)

type PayoutIntent struct {
	WinnerID   string    `json:"winner_id"`
	GameID     string    `json:"game_id"`
	RoomID     string    `json:"room_id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	CardID     string    `json:"card_id"`
	Pattern    string    `json:"pattern"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	WonAt      time.Time `json:"won_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// InsertPayoutIntent records p once per winner id. It reports false when the
// intent was already present.
func (s *Store) InsertPayoutIntent(ctx context.Context, p PayoutIntent) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
INSERT INTO payout_intents (winner_id, game_id, room_id, player_id, player_name, card_id, pattern, amount, currency, won_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (winner_id) DO NOTHING`,
		p.WinnerID, p.GameID, p.RoomID, p.PlayerID, p.PlayerName, p.CardID, p.Pattern, p.Amount, p.Currency, p.WonAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListPayoutIntents returns the newest intents first. An empty playerID lists
// intents for every player.
func (s *Store) ListPayoutIntents(ctx context.Context, playerID string, limit int) ([]PayoutIntent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
SELECT winner_id, game_id, room_id, player_id, player_name, card_id, pattern, amount, currency, won_at, created_at
FROM payout_intents WHERE ($1::text = '' OR player_id = $1) ORDER BY won_at DESC LIMIT $2`, strings.TrimSpace(playerID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PayoutIntent{}
	for rows.Next() {
		var p PayoutIntent
		if err := rows.Scan(&p.WinnerID, &p.GameID, &p.RoomID, &p.PlayerID, &p.PlayerName, &p.CardID,
			&p.Pattern, &p.Amount, &p.Currency, &p.WonAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
