package hall

import "expvar"

var (
	metricTicks             = expvar.NewInt("hall_ticks_total")
	metricTickFaults        = expvar.NewInt("hall_tick_faults_total")
	metricNumbersCalled     = expvar.NewInt("hall_numbers_called_total")
	metricGamesCreated      = expvar.NewInt("hall_games_created_total")
	metricGamesCompleted    = expvar.NewInt("hall_games_completed_total")
	metricForcedCompletions = expvar.NewInt("hall_forced_completions_total")
	metricPoolExhausted     = expvar.NewInt("hall_pool_exhausted_total")
	metricGamesSwept        = expvar.NewInt("hall_games_swept_total")

	metricJoins        = expvar.NewInt("hall_joins_total")
	metricJoinRejected = expvar.NewInt("hall_join_rejected_total")
	metricMarks        = expvar.NewInt("hall_marks_total")
	metricWins         = expvar.NewInt("hall_wins_total")
)
