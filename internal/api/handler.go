// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/flashforge/backend/internal/generator"
	"github.com/flashforge/backend/internal/service"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	cards  *service.CardService
	logger *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(cards *service.CardService, logger *slog.Logger) *Handler {
	return &Handler{
		cards:  cards,
		logger: logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into v. Returns false (after
// writing a 400) when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// handleServiceError maps service and generation errors onto HTTP
// responses. Returns true if an error was handled (caller should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, service.ErrSetNotFound):
		respondError(w, http.StatusNotFound, "set not found")
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrGenerationInFlight):
		respondError(w, http.StatusConflict, "a generation request is already running for this session")
	default:
		switch generator.KindOf(err) {
		case generator.FailTransport:
			respondError(w, http.StatusBadGateway, "card generation service is unavailable")
		case generator.FailParse:
			respondError(w, http.StatusUnprocessableEntity, "card generation returned no usable cards")
		case generator.FailFilter:
			respondError(w, http.StatusUnprocessableEntity, "every generated card failed validation")
		default:
			h.logger.Error("internal error", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
		}
	}
	return true
}
