package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// idempotencyHeader may carry the request id instead of the body field.
const idempotencyHeader = "Idempotency-Key"

type outcomeRequest struct {
	RequestID string `json:"request_id"`
	Item1ID   string `json:"item1_id"`
	Item2ID   string `json:"item2_id"`
	WinnerID  string `json:"winner_id"`
}

type outcomeResponse struct {
	ID        string    `json:"id"`
	At        time.Time `json:"at"`
	Item1ID   string    `json:"item1_id"`
	Item2ID   string    `json:"item2_id"`
	WinnerID  string    `json:"winner_id"`
	Duplicate bool      `json:"duplicate"`
}

// handleRecordOutcome handles POST /api/v1/arenas/{arena}/outcomes.
// New outcomes answer 201, repeated request ids answer 200.
func (s *Server) handleRecordOutcome(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_outcome"
	var req outcomeRequest
	if err := readJSON(r, &req); err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	requestID := strings.TrimSpace(req.RequestID)
	if requestID == "" {
		requestID = strings.TrimSpace(r.Header.Get(idempotencyHeader))
	}

	o, dup, err := s.deps.RecordOutcome(r.Context(), chi.URLParam(r, "arena"), req.Item1ID, req.Item2ID, req.WinnerID, requestID)
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	status := http.StatusCreated
	if dup {
		status = http.StatusOK
	}
	writeJSON(w, status, outcomeResponse{
		ID:        o.ID,
		At:        o.At,
		Item1ID:   o.Item1,
		Item2ID:   o.Item2,
		WinnerID:  o.Winner,
		Duplicate: dup,
	})
}

// handleHistory handles GET /api/v1/arenas/{arena}/outcomes.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.history"
	history, err := s.deps.History(r.Context(), chi.URLParam(r, "arena"))
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// handleDeleteOutcome handles DELETE /api/v1/arenas/{arena}/outcomes/{outcome}.
func (s *Server) handleDeleteOutcome(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_outcome"
	if err := s.deps.DeleteOutcome(r.Context(), chi.URLParam(r, "arena"), chi.URLParam(r, "outcome")); err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
