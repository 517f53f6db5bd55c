package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/okian/arena/internal/adapters/codec"
)

// handleExport handles GET /api/v1/export?format=json|yaml.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	f, err := codec.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	data, err := s.deps.Export(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", f.ContentType()+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "arenas."+string(f)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleImport handles PUT /api/v1/import. The format comes from ?format=
// or else the Content-Type; JSON is the default.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.import"
	f, err := importFormat(r)
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			err = ErrTooLarge
		}
		s.writeServiceError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := s.deps.Import(r.Context(), f, data)
	if err != nil {
		s.writeServiceError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func importFormat(r *http.Request) (codec.Format, error) {
	if q := r.URL.Query().Get("format"); q != "" {
		return codec.ParseFormat(q)
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return codec.FormatJSON, nil
	}
	if strings.Contains(mt, "yaml") {
		return codec.FormatYAML, nil
	}
	return codec.FormatJSON, nil
}
