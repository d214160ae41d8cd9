package api

import (
	"net/http"

	"github.com/flashforge/backend/internal/session"
)

// ── Request / Response types ────────────────────────────────────────────────

type OpenSessionRequest struct {
	Subject string `json:"subject"`
}

type GoToRequest struct {
	Index int `json:"index"`
}

type SessionResponse struct {
	ID         string         `json:"id"`
	Subject    string         `json:"subject"`
	Cards      []CardResponse `json:"cards"`
	Index      int            `json:"index"`
	Revealed   bool           `json:"revealed"`
	Switching  bool           `json:"switching"`
	Generating bool           `json:"generating"`
	LastError  string         `json:"last_error,omitempty"`
}

type AddMoreResponse struct {
	Added   []CardResponse  `json:"added"`
	Session SessionResponse `json:"session"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// openSession opens a browsing session over an already stored set.
// @Summary      Browse a stored set
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        body  body      OpenSessionRequest  true  "Subject of the stored set"
// @Success      201   {object}  SessionResponse
// @Failure      404   {object}  map[string]string
// @Router       /sessions [post]
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Subject == "" {
		respondError(w, http.StatusBadRequest, "subject is required")
		return
	}

	sess, err := h.cards.OpenStored(r.Context(), req.Subject)
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, toSessionResponse(sess.Snapshot()))
}

// GET /sessions/{sessionID}
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.cards.Session(r.PathValue("sessionID"))
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, toSessionResponse(sess.Snapshot()))
}

// DELETE /sessions/{sessionID}
func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	h.cards.CloseSession(r.PathValue("sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// addMore runs a continuation generation for the session's subject.
// @Summary      Generate additional cards
// @Description  Ask the LLM for more cards about the session's subject, avoiding already-known questions. The session moves to the first new card.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  AddMoreResponse
// @Failure      404        {object}  map[string]string
// @Failure      409        {object}  map[string]string  "a generation is already in flight"
// @Failure      422        {object}  map[string]string
// @Failure      502        {object}  map[string]string
// @Router       /sessions/{sessionID}/more [post]
func (h *Handler) addMore(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	added, err := h.cards.AddMore(r.Context(), sessionID)
	if h.handleServiceError(w, err) {
		return
	}

	sess, err := h.cards.Session(sessionID)
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, AddMoreResponse{
		Added:   toCardResponses(added),
		Session: toSessionResponse(sess.Snapshot()),
	})
}

// POST /sessions/{sessionID}/next
func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(s *session.Session) { s.Next() })
}

// POST /sessions/{sessionID}/prev
func (h *Handler) prev(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(s *session.Session) { s.Prev() })
}

// POST /sessions/{sessionID}/goto
func (h *Handler) goTo(w http.ResponseWriter, r *http.Request) {
	var req GoToRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.navigate(w, r, func(s *session.Session) { s.GoTo(req.Index) })
}

// POST /sessions/{sessionID}/reveal
func (h *Handler) toggleReveal(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(s *session.Session) { s.ToggleReveal() })
}

// navigate applies op to the session and responds with the new state.
// Out-of-range moves are silent no-ops inside the session, so the
// response is always 200 with the (possibly unchanged) state.
func (h *Handler) navigate(w http.ResponseWriter, r *http.Request, op func(*session.Session)) {
	sess, err := h.cards.Session(r.PathValue("sessionID"))
	if h.handleServiceError(w, err) {
		return
	}

	op(sess)
	respondJSON(w, http.StatusOK, toSessionResponse(sess.Snapshot()))
}

func toSessionResponse(snap session.Snapshot) SessionResponse {
	return SessionResponse{
		ID:         snap.ID,
		Subject:    snap.Subject,
		Cards:      toCardResponses(snap.Cards),
		Index:      snap.Index,
		Revealed:   snap.Revealed,
		Switching:  snap.Switching,
		Generating: snap.Generating,
		LastError:  snap.LastError,
	}
}
