package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	PayoutHalfOfRemaining = "half_of_remaining"
	PayoutHalfOfOriginal  = "half_of_original"
)

type EngineConfig struct {
	TickIntervalMS       int `env:"TICK_INTERVAL_MS" envDefault:"1000"`
	CallIntervalTicks    int `env:"CALL_INTERVAL_TICKS" envDefault:"5"`
	StartingCountdownSec int `env:"STARTING_COUNTDOWN_SEC" envDefault:"30"`
	GameDurationMin      int `env:"GAME_DURATION_MIN" envDefault:"10"`
	MaxPlayers           int `env:"MAX_PLAYERS" envDefault:"100"`

	WaveSlots           int `env:"WAVE_SLOTS" envDefault:"6"`
	FreeWaveEveryMin    int `env:"FREE_WAVE_EVERY_MIN" envDefault:"10"`
	PremiumWaveEveryMin int `env:"PREMIUM_WAVE_EVERY_MIN" envDefault:"30"`

	RetentionMin       int `env:"RETENTION_MIN" envDefault:"60"`
	JanitorIntervalSec int `env:"JANITOR_INTERVAL_SEC" envDefault:"60"`

	FirstWinShare float64 `env:"FIRST_WIN_SHARE" envDefault:"0.5"`
	PayoutPolicy  string  `env:"PAYOUT_POLICY" envDefault:"half_of_remaining"`
	AutoDaub      bool    `env:"AUTO_DAUB" envDefault:"false"`
	RNGSeed       int64   `env:"RNG_SEED" envDefault:"0"`

	Payout PayoutConfig
}

type PayoutConfig struct {
	Workers     int `env:"PAYOUT_WORKERS" envDefault:"2"`
	RetryMax    int `env:"PAYOUT_RETRY_MAX" envDefault:"3"`
	RetryBaseMS int `env:"PAYOUT_RETRY_BASE_MS" envDefault:"500"`
	Buffer      int `env:"PAYOUT_BUFFER" envDefault:"1024"`
}

func LoadEngine() (EngineConfig, error) {
	var cfg EngineConfig
	if err := env.Parse(&cfg); err != nil {
		return EngineConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

func (c EngineConfig) Validate() error {
	if c.TickIntervalMS <= 0 {
		return fmt.Errorf("TICK_INTERVAL_MS must be positive, got %d", c.TickIntervalMS)
	}
	if c.CallIntervalTicks <= 0 {
		return fmt.Errorf("CALL_INTERVAL_TICKS must be positive, got %d", c.CallIntervalTicks)
	}
	if c.StartingCountdownSec < 0 {
		return fmt.Errorf("STARTING_COUNTDOWN_SEC must not be negative, got %d", c.StartingCountdownSec)
	}
	if c.GameDurationMin <= 0 {
		return fmt.Errorf("GAME_DURATION_MIN must be positive, got %d", c.GameDurationMin)
	}
	if c.MaxPlayers <= 0 {
		return fmt.Errorf("MAX_PLAYERS must be positive, got %d", c.MaxPlayers)
	}
	if c.FreeWaveEveryMin <= 0 || c.PremiumWaveEveryMin <= 0 {
		return fmt.Errorf("wave cadence must be positive")
	}
	if c.FirstWinShare <= 0 || c.FirstWinShare > 1 {
		return fmt.Errorf("FIRST_WIN_SHARE must be in (0, 1], got %v", c.FirstWinShare)
	}
	switch c.PayoutPolicy {
	case PayoutHalfOfRemaining, PayoutHalfOfOriginal:
	default:
		return fmt.Errorf("unknown PAYOUT_POLICY %q", c.PayoutPolicy)
	}
	return nil
}

func (c EngineConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

func (c EngineConfig) Retention() time.Duration {
	return time.Duration(c.RetentionMin) * time.Minute
}

func (c EngineConfig) JanitorInterval() time.Duration {
	return time.Duration(c.JanitorIntervalSec) * time.Second
}

// DefaultEngine returns the defaults without reading the environment.
func DefaultEngine() EngineConfig {
	return EngineConfig{
		TickIntervalMS:       1000,
		CallIntervalTicks:    5,
		StartingCountdownSec: 30,
		GameDurationMin:      10,
		MaxPlayers:           100,
		WaveSlots:            6,
		FreeWaveEveryMin:     10,
		PremiumWaveEveryMin:  30,
		RetentionMin:         60,
		JanitorIntervalSec:   60,
		FirstWinShare:        0.5,
		PayoutPolicy:         PayoutHalfOfRemaining,
		Payout: PayoutConfig{
			Workers:     2,
			RetryMax:    3,
			RetryBaseMS: 500,
			Buffer:      1024,
		},
	}
}
