// Package apierror provides standardized error response structures for the API
// and the business error taxonomy shared by services and handlers.
// All errors returned to clients go through this package so internal details
// (DB errors, stack traces) never leak.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// CarritoError is the envelope used by the cart widget endpoints.
type CarritoError struct {
	Status  string `json:"status"`
	Mensaje string `json:"mensaje"`
}

func NewCarrito(msg string) *CarritoError {
	return &CarritoError{Status: "error", Mensaje: msg}
}

// ── Taxonomy ─────────────────────────────────────────────────────────────────

var (
	ErrValidation        = errors.New("validacion")
	ErrNotFound          = errors.New("no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnauthorized      = errors.New("no autorizado")
)

// Error carries a user-facing message and one of the taxonomy kinds.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) error {
	return &Error{Kind: ErrUnauthorized, Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStock names the product that cannot cover the requested quantity.
func InsufficientStock(producto string) error {
	return &Error{Kind: ErrInsufficientStock, Msg: "Stock insuficiente para " + producto}
}

// Status maps an error to its HTTP status code. Errors outside the taxonomy
// are internal.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Message returns the client-safe message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "Error interno del servidor"
}
