package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/quizpattern/internal/adapters/repository"
	"github.com/okian/quizpattern/internal/domain/report"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// NewKind returns kind annotated with the failing operation.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind annotates err with op and kind, keeping both matchable.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap annotates err with the failing operation.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// upstreamKind annotates a dependency failure with op, tagging the
// not-found errors of the store and the report with ErrNotFound.
func upstreamKind(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, report.ErrUnknownSection) {
		return WrapKind(op, ErrNotFound, err)
	}
	return Wrap(op, err)
}

// statusOf maps an error kind to its HTTP status and response code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
