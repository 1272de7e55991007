package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nico-salsa/sofkify-storefront/internal/auth"
)

// SessionHandler persists identities handed over by the identity service.
// The storefront trusts that service; it never issues or refreshes tokens.
type SessionHandler struct {
	sessions auth.Store
	timeout  time.Duration
}

func NewSessionHandler(sessions auth.Store, timeout time.Duration) *SessionHandler {
	return &SessionHandler{sessions: sessions, timeout: timeout}
}

type SaveSessionRequestDTO struct {
	Token string `json:"token" validate:"required"`
	User  struct {
		ID    string `json:"id" validate:"required"`
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"user" validate:"required"`
}

func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SaveSessionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	identity := &auth.Identity{
		ID:    req.User.ID,
		Email: req.User.Email,
		Name:  req.User.Name,
		Role:  req.User.Role,
	}
	if err := h.sessions.Save(ctx, req.Token, identity); err != nil {
		log.Error().Err(err).Msg("failed to save session")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save session")
		return
	}

	respondJSON(w, http.StatusCreated, identity)
}

func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	token := bearerToken(r)
	if token == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "missing bearer token")
		return
	}

	if err := h.sessions.Clear(ctx, token); err != nil {
		log.Error().Err(err).Msg("failed to clear session")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
