package payout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"bingo-hall/internal/game"
)

var errCircuitOpen = errors.New("circuit_open")

// Crediter records a winner's payout with the wallet collaborator. It must
// be idempotent on the winner id because jobs can be retried.
type Crediter interface {
	CreditWinner(ctx context.Context, w game.Winner) error
}

type job struct {
	Winner  game.Winner
	Attempt int
}

// Dispatcher hands winners to the wallet off the game lock. Submit never
// blocks; failed credits retry with exponential backoff and a breaker stops
// hammering a wallet that keeps failing.
type Dispatcher struct {
	cfg    Config
	credit Crediter

	queue  chan job
	retryQ *retryQueue
	done   chan struct{}

	mu                  sync.Mutex
	started             bool
	consecutiveFailures int
	openUntil           time.Time
}

func NewDispatcher(cfg Config, credit Crediter) *Dispatcher {
	cfg = cfg.withDefaults()
	d := &Dispatcher{
		cfg:    cfg,
		credit: credit,
		queue:  make(chan job, cfg.Buffer),
		done:   make(chan struct{}),
	}
	d.retryQ = newRetryQueue(d.queue, d.done)
	return d
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	for i := 0; i < d.cfg.Workers; i++ {
		go d.worker(ctx)
	}
	go func() {
		<-ctx.Done()
		close(d.done)
	}()
}

// Submit queues w for crediting. A full queue drops the job and logs it.
func (d *Dispatcher) Submit(w game.Winner) {
	select {
	case d.queue <- job{Winner: w}:
		metricQueued.Add(1)
		metricQueueLen.Set(int64(len(d.queue)))
	default:
		metricDropped.Add(1)
		log.Error().
			Str("winner_id", w.ID).
			Str("game_id", w.GameID).
			Int64("amount", w.Prize).
			Msg("payout queue full; intent dropped")
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.done:
			return
		case j := <-d.queue:
			metricQueueLen.Set(int64(len(d.queue)))
			d.process(ctx, j)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, j job) {
	if err := d.beforeSend(time.Now()); err != nil {
		metricCircuitOpen.Add(1)
		d.retryOrDrop(j, err)
		return
	}
	cctx, cancel := context.WithTimeout(ctx, d.cfg.CreditTimeout)
	err := d.credit.CreditWinner(cctx, j.Winner)
	cancel()
	if err != nil {
		metricFailed.Add(1)
		d.afterFailure(time.Now())
		d.retryOrDrop(j, err)
		return
	}
	metricSent.Add(1)
	d.afterSuccess()
}

func (d *Dispatcher) retryOrDrop(j job, err error) bool {
	if j.Attempt >= d.cfg.RetryMax {
		metricRetryDropped.Add(1)
		log.Error().Err(err).
			Str("winner_id", j.Winner.ID).
			Str("game_id", j.Winner.GameID).
			Int("attempts", j.Attempt+1).
			Msg("payout credit failed; giving up")
		return false
	}
	j.Attempt++
	metricRetry.Add(1)
	delay := d.cfg.RetryBase * time.Duration(1<<(j.Attempt-1))
	log.Warn().Err(err).
		Str("winner_id", j.Winner.ID).
		Int("attempt", j.Attempt).
		Dur("delay", delay).
		Msg("payout credit failed; retrying")
	d.retryQ.Enqueue(j, delay)
	return true
}

func (d *Dispatcher) beforeSend(now time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.openUntil.IsZero() && now.Before(d.openUntil) {
		return errCircuitOpen
	}
	return nil
}

func (d *Dispatcher) afterFailure(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.consecutiveFailures++
	if d.consecutiveFailures >= d.cfg.FailureThreshold {
		d.openUntil = now.Add(d.cfg.CircuitOpenDuration)
		d.consecutiveFailures = 0
	}
}

func (d *Dispatcher) afterSuccess() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.consecutiveFailures = 0
	d.openUntil = time.Time{}
}
