package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleLeaderboard handles GET /api/v1/arenas/{arena}/leaderboard?sort=&order=.
// Empty parameters mean Elo, descending.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	q := r.URL.Query()
	entries, err := s.deps.Leaderboard(r.Context(), chi.URLParam(r, "arena"), q.Get("sort"), q.Get("order"))
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handlePareto handles GET /api/v1/arenas/{arena}/pareto.
func (s *Server) handlePareto(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pareto"
	entries, err := s.deps.Pareto(r.Context(), chi.URLParam(r, "arena"))
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
