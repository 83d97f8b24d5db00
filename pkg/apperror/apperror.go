package apperror

import (
	"errors"
	"net/http"
)

// Sentinel errors shared across services and handlers. Handlers translate
// these into HTTP status codes via StatusCode; services wrap them with
// context where useful and callers match with errors.Is.
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidToken       = errors.New("token is malformed or its signature is invalid")
	ErrExpiredToken       = errors.New("token has expired")
	ErrWrongTokenType     = errors.New("invalid token type")
	ErrUnknownSubject     = errors.New("token subject is unknown or inactive")

	ErrForbidden = errors.New("insufficient permissions")

	ErrNotFound      = errors.New("resource not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidInput  = errors.New("invalid input data")
	ErrOutOfStock    = errors.New("not enough stock available")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrBadTransition = errors.New("order status transition not allowed")
)

// StatusCode maps an error to the HTTP status the handler should return.
// Unknown errors are treated as internal failures.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken),
		errors.Is(err, ErrWrongTokenType),
		errors.Is(err, ErrUnknownSubject):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrOutOfStock),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrBadTransition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
