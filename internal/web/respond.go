// Package web is the storefront's HTTP surface: thin handlers over the local
// cart store, the checkout orchestrator and the backend clients.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/nico-salsa/sofkify-storefront/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondFailure renders a domain failure with the HTTP status its taxonomy
// code implies. The failure body itself is the response payload, so the UI
// gets the structured details (productId, available, requested) verbatim.
func respondFailure(w http.ResponseWriter, failure *domain.Failure) {
	respondJSON(w, failureStatus(failure.Code), failure)
}

func failureStatus(code domain.FailureCode) int {
	switch code {
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeStockError:
		return http.StatusConflict
	case domain.CodeEmptyCart:
		return http.StatusBadRequest
	case domain.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
