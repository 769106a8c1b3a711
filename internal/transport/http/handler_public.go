package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apppublic "bingo-hall/internal/app/public"
)

type PublicHandlers struct {
	publicSvc *apppublic.Service
}

func NewPublicHandlers(publicSvc *apppublic.Service) *PublicHandlers {
	return &PublicHandlers{publicSvc: publicSvc}
}

func (h *PublicHandlers) Rooms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.publicSvc.Rooms(r.Context())
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Games() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.publicSvc.Games(r.Context(), chi.URLParam(r, "room_id"))
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Game() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.publicSvc.Game(r.Context(), chi.URLParam(r, "game_id"))
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apppublic.JoinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteDomainError(w, r, apppublic.ErrInvalidJSON)
			return
		}
		resp, err := h.publicSvc.Join(r.Context(), chi.URLParam(r, "game_id"), req)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) PlayerCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.publicSvc.PlayerCards(r.Context(), chi.URLParam(r, "game_id"), r.URL.Query().Get("player_id"))
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Mark() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apppublic.MarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteDomainError(w, r, apppublic.ErrInvalidJSON)
			return
		}
		resp, err := h.publicSvc.ToggleMark(r.Context(), chi.URLParam(r, "card_id"), req)
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Patterns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.publicSvc.Patterns(r.Context())
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.publicSvc.Live(r.Context(), chi.URLParam(r, "game_id"))
		if err != nil {
			WriteDomainError(w, r, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
