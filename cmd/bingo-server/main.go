package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"bingo-hall/internal/config"
	"bingo-hall/internal/hall"
	"bingo-hall/internal/ledger"
	"bingo-hall/internal/logging"
	"bingo-hall/internal/payout"
	"bingo-hall/internal/store"
	httptransport "bingo-hall/internal/transport/http"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := openStore(ctx, cfg.Server.PostgresDSN)
	if st != nil {
		defer st.Close()
	}

	h := hall.New(cfg.Engine, hall.SystemClock{})
	if st != nil {
		h.SetArchiver(st)
	}

	payouts := payout.NewDispatcher(payout.ConfigFromEngine(cfg.Engine.Payout), ledger.New(st))
	payouts.Start(ctx)
	h.SetPayoutSink(payouts)

	if _, err := h.StartWaves(ctx); err != nil {
		log.Fatal().Err(err).Msg("start waves failed")
	}
	go h.Run(ctx)
	h.StartJanitor(ctx)

	r := httptransport.NewRouter(h, st, cfg.Server)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

// openStore returns nil when no DSN is configured; payouts are then log-only
// and completed games are not archived.
func openStore(ctx context.Context, dsn string) *store.Store {
	if dsn == "" {
		log.Warn().Msg("POSTGRES_DSN not set; payouts are log-only and archive is disabled")
		return nil
	}
	st, err := store.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure schema failed")
	}
	return st
}
