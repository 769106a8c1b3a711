package config

import (
	"testing"
	"time"
)

func TestLoadEngineDefaults(t *testing.T) {
	cfg, err := LoadEngine()
	if err != nil {
		t.Fatalf("LoadEngine() error = %v", err)
	}
	if cfg.TickInterval() != time.Second {
		t.Fatalf("TickInterval = %v, want 1s", cfg.TickInterval())
	}
	if cfg.CallIntervalTicks != 5 {
		t.Fatalf("CallIntervalTicks = %d, want 5", cfg.CallIntervalTicks)
	}
	if cfg.StartingCountdownSec != 30 {
		t.Fatalf("StartingCountdownSec = %d, want 30", cfg.StartingCountdownSec)
	}
	if cfg.FirstWinShare != 0.5 {
		t.Fatalf("FirstWinShare = %v, want 0.5", cfg.FirstWinShare)
	}
	if cfg.PayoutPolicy != PayoutHalfOfRemaining {
		t.Fatalf("PayoutPolicy = %q", cfg.PayoutPolicy)
	}
	if cfg.Payout.Workers != 2 || cfg.Payout.RetryMax != 3 {
		t.Fatalf("unexpected payout config: %+v", cfg.Payout)
	}
	def := DefaultEngine()
	if def != cfg {
		t.Fatalf("DefaultEngine() = %+v, env defaults = %+v", def, cfg)
	}
}

func TestLoadEngineOverrides(t *testing.T) {
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("CALL_INTERVAL_TICKS", "3")
	t.Setenv("PAYOUT_POLICY", "half_of_original")
	t.Setenv("AUTO_DAUB", "true")
	t.Setenv("PAYOUT_WORKERS", "8")

	cfg, err := LoadEngine()
	if err != nil {
		t.Fatalf("LoadEngine() error = %v", err)
	}
	if cfg.TickInterval() != 250*time.Millisecond {
		t.Fatalf("TickInterval = %v", cfg.TickInterval())
	}
	if cfg.CallIntervalTicks != 3 || !cfg.AutoDaub {
		t.Fatalf("unexpected engine config: %+v", cfg)
	}
	if cfg.PayoutPolicy != PayoutHalfOfOriginal {
		t.Fatalf("PayoutPolicy = %q", cfg.PayoutPolicy)
	}
	if cfg.Payout.Workers != 8 {
		t.Fatalf("Payout.Workers = %d, want 8", cfg.Payout.Workers)
	}
}

func TestLoadEngineRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero tick", key: "TICK_INTERVAL_MS", val: "0"},
		{name: "zero cadence", key: "CALL_INTERVAL_TICKS", val: "0"},
		{name: "share above one", key: "FIRST_WIN_SHARE", val: "1.5"},
		{name: "unknown policy", key: "PAYOUT_POLICY", val: "winner_takes_all"},
		{name: "not a number", key: "MAX_PLAYERS", val: "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := LoadEngine(); err == nil {
				t.Fatalf("LoadEngine() with %s=%s expected error", tt.key, tt.val)
			}
		})
	}
}
