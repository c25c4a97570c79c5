package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/domain"
)

// APIError is a failed backend call. Status is zero when no response was
// received.
type APIError struct {
	Method  string
	Status  int
	Message string
	Path    string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend %s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// AsAppError maps a backend failure onto the domain error taxonomy. Errors
// that are not an *APIError are returned unchanged.
func AsAppError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	var code int
	switch apiErr.Status {
	case http.StatusUnauthorized:
		code = domain.CodeUnauthorized
	case http.StatusForbidden:
		code = domain.CodeForbidden
	case http.StatusNotFound:
		code = domain.CodeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		code = domain.CodeValidation
	default:
		code = domain.CodeUpstream
	}

	msg := apiErr.Message
	if code == domain.CodeUpstream {
		msg = "backend unavailable"
	}
	return domain.NewAppError(code, msg, err)
}
