package stream

import "expvar"

var (
	metricSubscribers = expvar.NewInt("stream_subscribers")
	metricDropped     = expvar.NewInt("stream_events_dropped_total")
)
