package api

import (
	"net/http"

	"github.com/flashforge/backend/internal/domain/flashcard"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSetRequest struct {
	Subject string `json:"subject" example:"Go concurrency patterns"`
}

type CardResponse struct {
	Question string `json:"question" example:"What is a goroutine?"`
	Answer   string `json:"answer" example:"A lightweight thread managed by the Go runtime."`
}

type CreateSetResponse struct {
	SessionID string         `json:"session_id" example:"8a6f2c1e-9d3b-4a71-b2e4-5c8f0d7a1b23"`
	Subject   string         `json:"subject" example:"Go concurrency patterns"`
	Cards     []CardResponse `json:"cards"`
}

type SetSummaryResponse struct {
	Subject   string `json:"subject" example:"Go concurrency patterns"`
	CardCount int    `json:"card_count" example:"5"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createSet generates a brand-new flashcard set.
// @Summary      Generate a flashcard set
// @Description  Generate cards for a subject via the LLM, persist them under a deduplicated subject label, and open a browsing session.
// @Tags         Sets
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSetRequest  true  "Subject to generate cards for"
// @Success      201   {object}  CreateSetResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string  "response parsed to zero usable cards"
// @Failure      502   {object}  map[string]string  "generation service unavailable"
// @Router       /sets [post]
func (h *Handler) createSet(w http.ResponseWriter, r *http.Request) {
	var req CreateSetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Subject == "" {
		respondError(w, http.StatusBadRequest, "subject is required")
		return
	}

	sess, err := h.cards.GenerateSet(r.Context(), req.Subject)
	if h.handleServiceError(w, err) {
		return
	}

	snap := sess.Snapshot()
	respondJSON(w, http.StatusCreated, CreateSetResponse{
		SessionID: snap.ID,
		Subject:   snap.Subject,
		Cards:     toCardResponses(snap.Cards),
	})
}

// listSets lists all stored sets.
// @Summary      List stored sets
// @Description  Returns every persisted set, most recently added first.
// @Tags         Sets
// @Produce      json
// @Success      200  {array}  SetSummaryResponse
// @Router       /sets [get]
func (h *Handler) listSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.cards.ListSets(r.Context())
	if h.handleServiceError(w, err) {
		return
	}

	response := make([]SetSummaryResponse, len(sets))
	for i, set := range sets {
		response[i] = SetSummaryResponse{
			Subject:   set.Subject,
			CardCount: len(set.Cards),
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// deleteSet removes a stored set.
// @Summary      Delete a stored set
// @Tags         Sets
// @Param        subject  path  string  true  "Subject label"
// @Success      204
// @Router       /sets/{subject} [delete]
func (h *Handler) deleteSet(w http.ResponseWriter, r *http.Request) {
	subject := r.PathValue("subject")

	if err := h.cards.DeleteSet(r.Context(), subject); h.handleServiceError(w, err) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toCardResponses(cards []flashcard.Flashcard) []CardResponse {
	out := make([]CardResponse, len(cards))
	for i, c := range cards {
		out[i] = CardResponse{Question: c.Question, Answer: c.Answer}
	}
	return out
}
