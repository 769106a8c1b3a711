package ws

import "expvar"

var (
	metricWSConnectionsTotal  = expvar.NewInt("ws_connections_total")
	metricWSConnectionsActive = expvar.NewInt("ws_connections_active")
	metricWSDropped           = expvar.NewInt("ws_messages_dropped_total")
	metricWSMarks             = expvar.NewInt("ws_marks_total")
)
