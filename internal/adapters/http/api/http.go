// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/okian/arena/internal/adapters/codec"
	service "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/logger"
	"github.com/sugawarayuuta/sonnet"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ListArenas(ctx context.Context) ([]types.ArenaSummary, error)
	CreateArena(ctx context.Context, name string) (model.Arena, error)
	RenameArena(ctx context.Context, key, name string) (model.Arena, error)
	Arena(ctx context.Context, key string) (model.Arena, error)

	AddItem(ctx context.Context, key, name string, cost model.Cost) (model.Item, error)
	UpdateItem(ctx context.Context, key, id string, ch service.ItemChange) (model.Item, error)
	DeleteItem(ctx context.Context, key, id string) error

	// RecordOutcome reports duplicate=true when requestID was already seen.
	RecordOutcome(ctx context.Context, key, item1, item2, winner, requestID string) (model.Outcome, bool, error)
	DeleteOutcome(ctx context.Context, key, outcomeID string) error
	History(ctx context.Context, key string) ([]types.HistoryEntry, error)

	Leaderboard(ctx context.Context, key, sort, order string) ([]types.Entry, error)
	Pareto(ctx context.Context, key string) ([]types.Entry, error)

	Export(ctx context.Context, f codec.Format) ([]byte, error)
	Import(ctx context.Context, f codec.Format, data []byte) (service.ImportResult, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	deps   Dependencies
	logger logger.Logger
	opts   options

	healthHandler *HealthHandler
	statsHandler  *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Server{
		deps:          deps,
		logger:        o.logger,
		opts:          o,
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	return s
}

// Routes builds the router. It fails only on an unparsable rate limit.
func (s *Server) Routes() (chi.Router, error) {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", idempotencyHeader},
		MaxAge:         300,
	}))
	r.Use(MetricsMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeServiceError(w, r, NewKind("api.route", ErrNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	var limit func(http.Handler) http.Handler
	if s.opts.rate != "" {
		rate, err := limiter.NewRateFromFormatted(s.opts.rate)
		if err != nil {
			return nil, fmt.Errorf("parse rate limit %q: %w", s.opts.rate, err)
		}
		limit = stdlib.NewMiddleware(limiter.New(memory.NewStore(), rate)).Handler
	}

	r.Route("/api/v1", func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Use(s.limitBody)

		r.Get("/export", s.handleExport)
		r.Put("/import", s.handleImport)

		r.Route("/arenas", func(r chi.Router) {
			r.Get("/", s.handleListArenas)
			r.Post("/", s.handleCreateArena)
			r.Route("/{arena}", func(r chi.Router) {
				r.Get("/", s.handleGetArena)
				r.Patch("/", s.handleRenameArena)

				r.Post("/items", s.handleAddItem)
				r.Patch("/items/{item}", s.handleUpdateItem)
				r.Delete("/items/{item}", s.handleDeleteItem)

				r.Get("/outcomes", s.handleHistory)
				r.Post("/outcomes", s.handleRecordOutcome)
				r.Delete("/outcomes/{outcome}", s.handleDeleteOutcome)

				r.Get("/leaderboard", s.handleLeaderboard)
				r.Get("/pareto", s.handlePareto)
			})
		})
	})
	return r, nil
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.maxBody > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.opts.maxBody)
		}
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := sonnet.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	b, _ := sonnet.Marshal(errorResponse{Code: code, Message: msg})
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

// writeServiceError picks the status from the error chain. Server errors
// are logged with the request id; their message is not echoed.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("requestId", chiMiddleware.GetReqID(r.Context())),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		writeError(w, status, code, nil)
		return
	}
	writeError(w, status, code, err)
}

// readJSON decodes the request body into v.
func readJSON(r *http.Request, v any) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrTooLarge
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty body", ErrBadRequest)
	}
	if err := sonnet.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: malformed JSON: %w", ErrBadRequest, err)
	}
	return nil
}
