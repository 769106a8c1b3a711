package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"bingo-hall/internal/hall"
	"bingo-hall/internal/stream"
)

var ssePingInterval = 15 * time.Second

// EventsSSEHandler streams a game's live feed. Last-Event-ID (header or
// last_event_id query) replays the buffered backlog after that id.
func EventsSSEHandler(h *hall.Hall) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		buf, err := h.Events(gameID)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteHTTPError(w, http.StatusInternalServerError, "stream_not_supported")
			return
		}

		metricSSEConnectionsTotal.Add(1)
		metricSSEConnectionsActive.Add(1)
		defer metricSSEConnectionsActive.Add(-1)

		stream.SetSSEHeaders(w)
		log.Info().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("game_id", gameID).
			Msg("sse stream opened")

		// Subscribe before replaying so nothing appended in between is lost;
		// duplicates are skipped by id below.
		ch := buf.Subscribe()
		defer buf.Unsubscribe(ch)

		lastEventID := r.Header.Get("Last-Event-ID")
		if lastEventID == "" {
			lastEventID = r.URL.Query().Get("last_event_id")
		}
		var lastSent string
		for _, ev := range buf.Since(lastEventID) {
			if err := stream.WriteSSE(w, ev); err != nil {
				return
			}
			lastSent = ev.ID
			logSSEEvent(r, gameID, "replay", ev)
		}
		flusher.Flush()

		ticker := time.NewTicker(ssePingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				log.Info().
					Str("request_id", chimw.GetReqID(r.Context())).
					Str("game_id", gameID).
					Err(r.Context().Err()).
					Msg("sse stream closed")
				return
			case ev, ok := <-ch:
				if !ok {
					log.Info().
						Str("request_id", chimw.GetReqID(r.Context())).
						Str("game_id", gameID).
						Msg("sse stream channel closed")
					return
				}
				if lastSent != "" && !stream.After(ev.ID, lastSent) {
					continue
				}
				if err := stream.WriteSSE(w, ev); err != nil {
					return
				}
				lastSent = ev.ID
				logSSEEvent(r, gameID, "live", ev)
				flusher.Flush()
			case <-ticker.C:
				if err := stream.WritePing(w); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func logSSEEvent(r *http.Request, gameID, source string, ev stream.Event) {
	evt := log.Info()
	if ev.Type == "number_called" {
		evt = log.Debug()
	}
	evt.
		Str("request_id", chimw.GetReqID(r.Context())).
		Str("game_id", gameID).
		Str("event", ev.Type).
		Str("event_id", ev.ID).
		Str("source", source).
		Int64("server_ts", ev.ServerTS).
		Msg("sse event sent")
}
