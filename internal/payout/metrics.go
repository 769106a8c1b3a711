package payout

import "expvar"

var (
	metricQueued       = expvar.NewInt("payout_queued_total")
	metricDropped      = expvar.NewInt("payout_dropped_total")
	metricSent         = expvar.NewInt("payout_sent_total")
	metricFailed       = expvar.NewInt("payout_failed_total")
	metricRetry        = expvar.NewInt("payout_retry_total")
	metricRetryDropped = expvar.NewInt("payout_retry_dropped_total")
	metricCircuitOpen  = expvar.NewInt("payout_circuit_open_total")
	metricQueueLen     = expvar.NewInt("payout_queue_len")
)
