// internal/api/router.go
package api

import "net/http"

// RegisterRoutes mounts all API routes on the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Sets
	mux.HandleFunc("POST /sets", h.createSet)
	mux.HandleFunc("GET /sets", h.listSets)
	mux.HandleFunc("DELETE /sets/{subject}", h.deleteSet)

	// Browsing sessions
	mux.HandleFunc("POST /sessions", h.openSession)
	mux.HandleFunc("GET /sessions/{sessionID}", h.getSession)
	mux.HandleFunc("DELETE /sessions/{sessionID}", h.closeSession)
	mux.HandleFunc("POST /sessions/{sessionID}/more", h.addMore)
	mux.HandleFunc("POST /sessions/{sessionID}/next", h.next)
	mux.HandleFunc("POST /sessions/{sessionID}/prev", h.prev)
	mux.HandleFunc("POST /sessions/{sessionID}/goto", h.goTo)
	mux.HandleFunc("POST /sessions/{sessionID}/reveal", h.toggleReveal)
}
