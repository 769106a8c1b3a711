package store

import (
	"context"
	"encoding/json"
	"time"

	"bingo-hall/internal/game"
)

type ArchivedGame struct {
	ID               string             `json:"id"`
	RoomID           string             `json:"room_id"`
	Currency         string             `json:"currency"`
	PatternID        string             `json:"pattern_id"`
	PlayerCount      int                `json:"player_count"`
	PrizePool        int64              `json:"prize_pool"`
	PrizeRemaining   int64              `json:"prize_remaining"`
	ScheduledStart   time.Time          `json:"scheduled_start"`
	StartedAt        *time.Time         `json:"started_at,omitempty"`
	CompletedAt      *time.Time         `json:"completed_at,omitempty"`
	CompletionReason string             `json:"completion_reason"`
	CalledNumbers    []game.NumberEntry `json:"called_numbers"`
	Winners          []game.Winner      `json:"winners"`
}

// ArchiveGame upserts a summary of a completed game.
func (s *Store) ArchiveGame(ctx context.Context, st game.GameState, called []game.NumberEntry) error {
	if called == nil {
		called = []game.NumberEntry{}
	}
	winners := st.Winners
	if winners == nil {
		winners = []game.Winner{}
	}
	calledJSON, err := json.Marshal(called)
	if err != nil {
		return err
	}
	winnersJSON, err := json.Marshal(winners)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
INSERT INTO game_archive (id, room_id, currency, pattern_id, player_count, prize_pool, prize_remaining,
  scheduled_start, started_at, completed_at, completion_reason, called_numbers, winners)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
  player_count = EXCLUDED.player_count,
  prize_remaining = EXCLUDED.prize_remaining,
  completed_at = EXCLUDED.completed_at,
  completion_reason = EXCLUDED.completion_reason,
  called_numbers = EXCLUDED.called_numbers,
  winners = EXCLUDED.winners,
  archived_at = now()`,
		st.ID, st.RoomID, string(st.Currency), st.Pattern.ID, st.PlayerCount, st.PrizePool, st.PrizeRemaining,
		st.ScheduledStart, st.StartedAt, st.CompletedAt, st.CompletionReason, calledJSON, winnersJSON)
	return err
}

func (s *Store) GetArchivedGame(ctx context.Context, id string) (*ArchivedGame, error) {
	row := s.Pool.QueryRow(ctx, `
SELECT id, room_id, currency, pattern_id, player_count, prize_pool, prize_remaining,
  scheduled_start, started_at, completed_at, completion_reason, called_numbers, winners
FROM game_archive WHERE id = $1`, id)
	var (
		g           ArchivedGame
		calledJSON  []byte
		winnersJSON []byte
	)
	if err := row.Scan(&g.ID, &g.RoomID, &g.Currency, &g.PatternID, &g.PlayerCount, &g.PrizePool, &g.PrizeRemaining,
		&g.ScheduledStart, &g.StartedAt, &g.CompletedAt, &g.CompletionReason, &calledJSON, &winnersJSON); err != nil {
		return nil, mapNotFound(err)
	}
	if err := json.Unmarshal(calledJSON, &g.CalledNumbers); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(winnersJSON, &g.Winners); err != nil {
		return nil, err
	}
	return &g, nil
}
