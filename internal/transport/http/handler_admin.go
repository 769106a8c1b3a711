package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apppublic "bingo-hall/internal/app/public"
	"bingo-hall/internal/store"
)

type AdminHandlers struct {
	publicSvc *apppublic.Service
	store     *store.Store
}

// NewAdminHandlers accepts a nil store; archive and payout reads then report
// store_disabled.
func NewAdminHandlers(publicSvc *apppublic.Service, st *store.Store) *AdminHandlers {
	return &AdminHandlers{publicSvc: publicSvc, store: st}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "disabled"})
			return
		}
		if err := h.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) ForceStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.publicSvc.ForceStart(r.Context(), chi.URLParam(r, "game_id"))
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *AdminHandlers) ArchivedGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "store_disabled")
			return
		}
		g, err := h.store.GetArchivedGame(r.Context(), chi.URLParam(r, "game_id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "game_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}

func (h *AdminHandlers) Payouts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "store_disabled")
			return
		}
		limit, _ := ParsePagination(r)
		items, err := h.store.ListPayoutIntents(r.Context(), r.URL.Query().Get("player_id"), limit)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": limit})
	}
}
