package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/arena/internal/adapters/codec"
	service "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/domain/leaderboard"
	"github.com/okian/arena/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("route not found")
	ErrTooLarge   = errors.New("request body too large")
)

// Error carries the failing handler operation, a sentinel kind and the cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Kind != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	default:
		return e.Op
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewKind builds an error of the given kind with no cause.
func NewKind(op string, kind error) *Error {
	return &Error{Op: op, Kind: kind}
}

// Wrap attaches an operation to an upstream error.
func Wrap(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// WrapKind attaches an operation and a kind to an upstream error.
func WrapKind(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// classify maps an error to an HTTP status and a stable code.
func classify(err error) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, service.ErrArenaNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrOutcomeNotFound),
		errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrArenaExists):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, model.ErrSelfMatch),
		errors.Is(err, model.ErrInvalidWinner),
		errors.Is(err, model.ErrNotEnoughItems),
		errors.Is(err, model.ErrUnknownItem),
		errors.Is(err, model.ErrInvalidCost),
		errors.Is(err, model.ErrInvalidName),
		errors.Is(err, leaderboard.ErrInvalidSort),
		errors.Is(err, codec.ErrUnknownFormat),
		errors.Is(err, codec.ErrDecode):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
