package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/arena/internal/adapters/codec"
)

type nameRequest struct {
	Name string `json:"name"`
}

// handleListArenas handles GET /api/v1/arenas.
func (s *Server) handleListArenas(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_arenas"
	arenas, err := s.deps.ListArenas(r.Context())
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, arenas)
}

// handleCreateArena handles POST /api/v1/arenas.
func (s *Server) handleCreateArena(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_arena"
	var req nameRequest
	if err := readJSON(r, &req); err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	a, err := s.deps.CreateArena(r.Context(), req.Name)
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/api/v1/arenas/"+a.Key)
	writeJSON(w, http.StatusCreated, codec.FromArena(a))
}

// handleGetArena handles GET /api/v1/arenas/{arena}.
func (s *Server) handleGetArena(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_arena"
	a, err := s.deps.Arena(r.Context(), chi.URLParam(r, "arena"))
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, codec.FromArena(a))
}

// handleRenameArena handles PATCH /api/v1/arenas/{arena}.
func (s *Server) handleRenameArena(w http.ResponseWriter, r *http.Request) {
	const op = "api.rename_arena"
	var req nameRequest
	if err := readJSON(r, &req); err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	a, err := s.deps.RenameArena(r.Context(), chi.URLParam(r, "arena"), req.Name)
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, codec.FromArena(a))
}
