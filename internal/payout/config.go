package payout

import (
	"time"

	"bingo-hall/internal/config"
)

type Config struct {
	Workers             int
	RetryMax            int
	RetryBase           time.Duration
	Buffer              int
	FailureThreshold    int
	CircuitOpenDuration time.Duration
	CreditTimeout       time.Duration
}

func ConfigFromEngine(cfg config.PayoutConfig) Config {
	out := Config{
		Workers:             cfg.Workers,
		RetryMax:            cfg.RetryMax,
		RetryBase:           time.Duration(cfg.RetryBaseMS) * time.Millisecond,
		Buffer:              cfg.Buffer,
		FailureThreshold:    5,
		CircuitOpenDuration: 10 * time.Second,
		CreditTimeout:       5 * time.Second,
	}
	return out.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.RetryMax < 0 {
		c.RetryMax = 0
	}
	if c.RetryBase <= 0 {
		c.RetryBase = 500 * time.Millisecond
	}
	if c.Buffer <= 0 {
		c.Buffer = 1024
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.CircuitOpenDuration <= 0 {
		c.CircuitOpenDuration = 10 * time.Second
	}
	if c.CreditTimeout <= 0 {
		c.CreditTimeout = 5 * time.Second
	}
	return c
}
