package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/arena/internal/adapters/codec"
	service "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/domain/model"
)

type addItemRequest struct {
	Name string   `json:"name"`
	Cost *float64 `json:"cost"`
}

type updateItemRequest struct {
	Name *string  `json:"name"`
	Cost *float64 `json:"cost"`
}

func itemDocument(it model.Item) codec.ItemDocument {
	return codec.ItemDocument{
		ID:         it.ID,
		Name:       it.Name,
		Cost:       it.Cost.Ptr(),
		Elo:        it.Elo,
		Glicko:     it.Glicko,
		RD:         it.RD,
		Volatility: it.Volatility,
	}
}

// handleAddItem handles POST /api/v1/arenas/{arena}/items.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_item"
	var req addItemRequest
	if err := readJSON(r, &req); err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	it, err := s.deps.AddItem(r.Context(), chi.URLParam(r, "arena"), req.Name, model.CostFromPtr(req.Cost))
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, itemDocument(it))
}

// handleUpdateItem handles PATCH /api/v1/arenas/{arena}/items/{item}. Name
// and cost are both optional but at least one is required; they are applied
// together or not at all.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_item"
	var req updateItemRequest
	if err := readJSON(r, &req); err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	if req.Name == nil && req.Cost == nil {
		s.writeServiceError(w, r, NewKind(op, ErrBadRequest))
		return
	}
	ch := service.ItemChange{Name: req.Name, Cost: req.Cost}
	it, err := s.deps.UpdateItem(r.Context(), chi.URLParam(r, "arena"), chi.URLParam(r, "item"), ch)
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, itemDocument(it))
}

// handleDeleteItem handles DELETE /api/v1/arenas/{arena}/items/{item}.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_item"
	if err := s.deps.DeleteItem(r.Context(), chi.URLParam(r, "arena"), chi.URLParam(r, "item")); err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
