package config

import "testing"

func TestLoadBotDefaults(t *testing.T) {
	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Fatalf("APIURL = %q, want http://localhost:8080", cfg.APIURL)
	}
	if cfg.RoomID != "free" {
		t.Fatalf("RoomID = %q, want free", cfg.RoomID)
	}
}

func TestLoadBotOverrides(t *testing.T) {
	t.Setenv("WS_URL", "ws://127.0.0.1:9000")
	t.Setenv("PLAYER_ID", "p-7")
	t.Setenv("PLAYER_NAME", "Seven")
	t.Setenv("ROOM_ID", "premium")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.WSURL != "ws://127.0.0.1:9000" {
		t.Fatalf("WSURL = %q", cfg.WSURL)
	}
	if cfg.PlayerID != "p-7" || cfg.PlayerName != "Seven" || cfg.RoomID != "premium" {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
}
